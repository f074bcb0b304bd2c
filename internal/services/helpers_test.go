package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/hiring-pipeline/internal/fixtures"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type storeFactory func(t *testing.T) repositories.Store

func openSQLiteStore(t *testing.T) repositories.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "pipeline.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	store := repositories.NewGormStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func openBadgerStore(t *testing.T) repositories.Store {
	t.Helper()
	store, err := repositories.OpenBadgerStore(repositories.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// eachStore runs fn once per storage adapter.
func eachStore(t *testing.T, fn func(t *testing.T, open storeFactory)) {
	t.Run("gorm", func(t *testing.T) { fn(t, openSQLiteStore) })
	t.Run("badger", func(t *testing.T) { fn(t, openBadgerStore) })
}

func newServices(t *testing.T, open storeFactory) (*services.Services, repositories.Store) {
	t.Helper()
	store := open(t)
	return services.New(store, nil, services.Options{}), store
}

// buildThrough records every stage up to and including through.
func buildThrough(t *testing.T, svc *services.Services, through models.Stage, candidates int) *fixtures.Result {
	t.Helper()
	res, err := fixtures.Build(context.Background(), svc, fixtures.Options{Through: through, Candidates: candidates})
	require.NoError(t, err)
	require.Equal(t, through, res.Process.CurrentStep)
	return res
}

func requirePrecondition(t *testing.T, err error) *services.PreconditionError {
	t.Helper()
	var pe *services.PreconditionError
	require.ErrorAs(t, err, &pe)
	return pe
}

func requireInvalidTransition(t *testing.T, err error) *services.InvalidTransitionError {
	t.Helper()
	var ite *services.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	return ite
}

func requireValidation(t *testing.T, err error) *services.ValidationError {
	t.Helper()
	var ve *services.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve
}
