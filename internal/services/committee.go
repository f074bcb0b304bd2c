package services

import (
	"context"
	"log/slog"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

// CommitteeService records conflict-of-interest declarations of the
// recruitment committee. Longlisting cannot start until every member is
// cleared.
type CommitteeService interface {
	Get(ctx context.Context, processID string) (*models.Committee, error)
	DeclareConflict(ctx context.Context, processID, memberID string, input ConflictInput) (*models.Committee, error)
	ResolveConflict(ctx context.Context, processID, memberID string, input ResolutionInput) (*models.Committee, error)
}

type ConflictInput struct {
	HasConflict bool   `json:"has_conflict"`
	Details     string `json:"details" validate:"required_if=HasConflict true"`
}

type ResolutionInput struct {
	Resolution string `json:"resolution" validate:"required"`
	ResolvedBy string `json:"resolved_by" validate:"required"`
}

type committeeService struct {
	store  repositories.Store
	logger *slog.Logger
}

func NewCommitteeService(store repositories.Store, logger *slog.Logger) CommitteeService {
	return &committeeService{store: store, logger: logger}
}

func (s *committeeService) Get(ctx context.Context, processID string) (*models.Committee, error) {
	committee, err := processArtifact[models.Committee](ctx, s.store, processID)
	if err != nil {
		return nil, err
	}
	if committee == nil {
		return nil, &repositories.RecordNotFoundError{Table: models.Committee{}.TableName(), ID: processID}
	}
	return committee, nil
}

// DeclareConflict records a member's declaration. Declaring again replaces
// the previous declaration and any resolution it had.
func (s *committeeService) DeclareConflict(ctx context.Context, processID, memberID string, input ConflictInput) (*models.Committee, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	committee, err := updateArtifact[models.Committee](ctx, s.store, processID, "recruitment committee", func(c *models.Committee) error {
		i := c.Member(memberID)
		if i < 0 {
			return &repositories.RecordNotFoundError{Table: "committee_members", ID: memberID}
		}
		c.Members[i].Conflict = models.ConflictDeclaration{
			Declared:    true,
			HasConflict: input.HasConflict,
			Details:     input.Details,
			DeclaredAt:  ptr(timestamp()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("conflict of interest declared",
		slog.String("recruitment_id", processID),
		slog.String("member_id", memberID),
		slog.Bool("has_conflict", input.HasConflict),
	)
	return committee, nil
}

// ResolveConflict records the HR resolution of a declared conflict.
func (s *committeeService) ResolveConflict(ctx context.Context, processID, memberID string, input ResolutionInput) (*models.Committee, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return updateArtifact[models.Committee](ctx, s.store, processID, "recruitment committee", func(c *models.Committee) error {
		i := c.Member(memberID)
		if i < 0 {
			return &repositories.RecordNotFoundError{Table: "committee_members", ID: memberID}
		}
		decl := &c.Members[i].Conflict
		if !decl.Declared || !decl.HasConflict {
			return preconditionf("committee member %s has no declared conflict to resolve", c.Members[i].Name)
		}
		decl.Resolution = input.Resolution
		decl.ResolvedBy = input.ResolvedBy
		decl.ResolvedAt = ptr(timestamp())
		return nil
	})
}
