package fixtures_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/hiring-pipeline/internal/fixtures"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

func openStores(t *testing.T) map[string]repositories.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "fixtures.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	gormStore := repositories.NewGormStore(db)
	t.Cleanup(func() { _ = gormStore.Close() })

	badgerStore, err := repositories.OpenBadgerStore(repositories.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = badgerStore.Close() })

	return map[string]repositories.Store{"gorm": gormStore, "badger": badgerStore}
}

func TestBuild_CompletesRecruitment(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			svc := services.New(store, nil, services.Options{})
			res, err := fixtures.Build(context.Background(), svc, fixtures.Options{Complete: true})
			require.NoError(t, err)

			assert.Equal(t, models.ProcessStatusCompleted, res.Process.Status)
			assert.Equal(t, models.FinalStage, res.Process.CurrentStep)
			assert.Len(t, res.Applications, 3)
			require.NotNil(t, res.Hired)
			assert.Equal(t, models.ApplicationStatusHired, res.Hired.Status)
			assert.Equal(t, res.Applications[0].ID, res.Hired.ID)
			assert.Equal(t, models.ChecklistStatusComplete, res.Checklist.Status)
			assert.Equal(t, models.BackgroundCheckCompleted, res.BackgroundCheck.Status)
			assert.NotNil(t, res.Contract.EmployeeSignedAt)
			assert.NotNil(t, res.Contract.EmployerSignedAt)
		})
	}
}

func TestBuild_StopsAtStage(t *testing.T) {
	store, err := repositories.OpenBadgerStore(repositories.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	defer store.Close()

	svc := services.New(store, nil, services.Options{})
	res, err := fixtures.Build(context.Background(), svc, fixtures.Options{Through: models.StageShortlisting, Candidates: 5})
	require.NoError(t, err)

	assert.Equal(t, models.StageShortlisting, res.Process.CurrentStep)
	assert.Equal(t, models.ProcessStatusInProgress, res.Process.Status)
	assert.Nil(t, res.Report)

	shortlisted, err := svc.Applications.ListByProcess(context.Background(), res.Process.ID, models.ApplicationStatusShortlisted)
	require.NoError(t, err)
	assert.Len(t, shortlisted, 5)
}
