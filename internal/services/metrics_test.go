package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

func TestTransitionApplication_CountsOnlyCommittedTransitions(t *testing.T) {
	ctx := context.Background()
	store, err := repositories.OpenBadgerStore(repositories.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	app := &models.CandidateApplication{
		RecruitmentID: "proc-1",
		CandidateID:   "cand-1",
		Status:        models.ApplicationStatusReceived,
		AppliedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repositories.Table[models.CandidateApplication](store).Create(ctx, app))

	counter := applicationTransitions.WithLabelValues(
		string(models.ApplicationStatusReceived), string(models.ApplicationStatusLonglisted))
	before := testutil.ToFloat64(counter)

	err = store.Atomic(ctx, func(tx repositories.Store) error {
		if _, err := transitionApplication(ctx, tx, slog.Default(), app.ID, EventLonglist, ""); err != nil {
			return err
		}
		assert.Equal(t, before, testutil.ToFloat64(counter))
		return errors.New("abort")
	})
	require.Error(t, err)
	assert.Equal(t, before, testutil.ToFloat64(counter))

	err = store.Atomic(ctx, func(tx repositories.Store) error {
		_, err := transitionApplication(ctx, tx, slog.Default(), app.ID, EventLonglist, "")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
