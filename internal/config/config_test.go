package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("RANKING_TIE_BREAK", "")
	t.Setenv("READ_TIMEOUT", "")

	cfg := Load()
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "none", cfg.Pipeline.TieBreak)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Badger")
	t.Setenv("BADGER_IN_MEMORY", "true")
	t.Setenv("RANKING_TIE_BREAK", "written_test_score")
	t.Setenv("READ_TIMEOUT", "5s")
	t.Setenv("BODY_LIMIT", "not-a-number")

	cfg := Load()
	assert.Equal(t, DriverBadger, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.BadgerInMemory)
	assert.Equal(t, "written_test_score", cfg.Pipeline.TieBreak)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 1048576, cfg.Server.BodyLimit)
	require.NoError(t, cfg.Validate())
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Driver: "mongo"}}
	assert.ErrorContains(t, cfg.Validate(), "mongo")
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "hr", Password: "secret", DBName: "hiring", SSLMode: "require",
	}}
	assert.Equal(t, "host=db port=5433 user=hr password=secret dbname=hiring sslmode=require", cfg.GetDatabaseDSN())
}

func TestOpenStore_Badger(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Driver: DriverBadger, BadgerInMemory: true}}
	store, err := OpenStore(cfg, cfg.NewLogger())
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestBadgerLocation(t *testing.T) {
	onDisk := &Config{Storage: StorageConfig{Driver: DriverBadger, BadgerPath: "./data/pipeline"}}
	assert.Equal(t, "./data/pipeline", badgerLocation(onDisk))

	inMemory := &Config{Storage: StorageConfig{Driver: DriverBadger, BadgerPath: "./data/pipeline", BadgerInMemory: true}}
	assert.Equal(t, "in-memory", badgerLocation(inMemory))
}
