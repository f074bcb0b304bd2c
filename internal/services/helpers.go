package services

import (
	"context"
	"time"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

// findOne returns the most recent record matching the index, or nil.
func findOne[T any, PT repositories.RecordPtr[T]](ctx context.Context, tx repositories.Store, index, value string) (*T, error) {
	rows, err := repositories.Table[T, PT](tx).GetByIndex(ctx, index, value)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[len(rows)-1], nil
}

// activeProcess loads a process that can still be worked on.
func activeProcess(ctx context.Context, tx repositories.Store, id string) (*models.RecruitmentProcess, error) {
	proc, err := repositories.Table[models.RecruitmentProcess](tx).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if proc.Status.Terminal() {
		return nil, preconditionf("recruitment %s is %s", proc.Code, proc.Status)
	}
	return proc, nil
}

// applicationInProcess loads an application and checks it belongs to the
// process.
func applicationInProcess(ctx context.Context, tx repositories.Store, processID, applicationID string) (*models.CandidateApplication, error) {
	app, err := repositories.Table[models.CandidateApplication](tx).GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.RecruitmentID != processID {
		return nil, &ValidationError{Field: "application_id", Message: "does not belong to this recruitment"}
	}
	return app, nil
}

func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func ptr[T any](v T) *T {
	return &v
}
