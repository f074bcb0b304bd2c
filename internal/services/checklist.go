package services

import (
	"context"
	"log/slog"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

// ChecklistService keeps the file checklist audited before a recruitment can
// be completed. Its status is derived from the attached flags.
type ChecklistService interface {
	Create(ctx context.Context, processID string) (*models.FileChecklist, error)
	Get(ctx context.Context, processID string) (*models.FileChecklist, error)
	SetItem(ctx context.Context, processID string, item models.ChecklistItem, attached bool) (*models.FileChecklist, error)
}

type checklistService struct {
	store  repositories.Store
	logger *slog.Logger
}

func NewChecklistService(store repositories.Store, logger *slog.Logger) ChecklistService {
	return &checklistService{store: store, logger: logger}
}

func (s *checklistService) Create(ctx context.Context, processID string) (*models.FileChecklist, error) {
	checklist := &models.FileChecklist{RecruitmentID: processID}
	checklist.Refresh()

	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		if _, err := activeProcess(ctx, tx, processID); err != nil {
			return err
		}
		existing, err := processArtifact[models.FileChecklist](ctx, tx, processID)
		if err != nil {
			return err
		}
		if existing != nil {
			return preconditionf("recruitment already has a file checklist")
		}
		return repositories.Table[models.FileChecklist](tx).Create(ctx, checklist)
	})
	if err != nil {
		return nil, err
	}
	return checklist, nil
}

func (s *checklistService) Get(ctx context.Context, processID string) (*models.FileChecklist, error) {
	checklist, err := processArtifact[models.FileChecklist](ctx, s.store, processID)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		return nil, &repositories.RecordNotFoundError{Table: models.FileChecklist{}.TableName(), ID: processID}
	}
	return checklist, nil
}

func (s *checklistService) SetItem(ctx context.Context, processID string, item models.ChecklistItem, attached bool) (*models.FileChecklist, error) {
	checklist, err := updateArtifact[models.FileChecklist](ctx, s.store, processID, "file checklist", func(c *models.FileChecklist) error {
		if !c.Set(item, attached) {
			return &ValidationError{Field: "item", Message: "unknown checklist item " + string(item)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("checklist item updated",
		slog.String("recruitment_id", processID),
		slog.String("item", string(item)),
		slog.Bool("attached", attached),
		slog.String("status", string(checklist.Status)),
	)
	return checklist, nil
}
