package services

import (
	"context"
	"log/slog"
	"time"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

type ApplicationService interface {
	Receive(ctx context.Context, input ReceiveApplicationInput) (*models.CandidateApplication, error)
	Get(ctx context.Context, id string) (*models.CandidateApplication, error)
	ListByProcess(ctx context.Context, processID string, status models.ApplicationStatus) ([]models.CandidateApplication, error)
	Reject(ctx context.Context, id, reason string) (*models.CandidateApplication, error)
	Withdraw(ctx context.Context, id, reason string) (*models.CandidateApplication, error)
}

type CandidateInput struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	Nationality string `json:"nationality"`
}

type ReceiveApplicationInput struct {
	RecruitmentID string         `json:"recruitment_id" validate:"required"`
	Candidate     CandidateInput `json:"candidate"`
	CoverLetter   string         `json:"cover_letter"`
	AppliedAt     *time.Time     `json:"applied_at"`
}

type applicationService struct {
	store  repositories.Store
	logger *slog.Logger
}

func NewApplicationService(store repositories.Store, logger *slog.Logger) ApplicationService {
	return &applicationService{store: store, logger: logger}
}

// Receive implements ApplicationService. Applications are accepted while the
// process sits at application receipt or committee formation.
func (s *applicationService) Receive(ctx context.Context, input ReceiveApplicationInput) (*models.CandidateApplication, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var app *models.CandidateApplication
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		proc, err := activeProcess(ctx, tx, input.RecruitmentID)
		if err != nil {
			return err
		}
		if proc.CurrentStep != models.StageApplicationReceipt && proc.CurrentStep != models.StageCommittee {
			return preconditionf("applications are only received between %s and %s, recruitment is at %s",
				models.StageApplicationReceipt, models.StageCommittee, proc.CurrentStep)
		}
		ann, err := processArtifact[models.VacancyAnnouncement](ctx, tx, proc.ID)
		if err != nil {
			return err
		}
		if err := PublishedAnnouncementGate(ann); err != nil {
			return err
		}

		candidate, err := findOne[models.Candidate](ctx, tx, models.IndexEmail, input.Candidate.Email)
		if err != nil {
			return err
		}
		if candidate == nil {
			candidate = &models.Candidate{
				Code:        generateCode(candidateCodePrefix),
				FirstName:   input.Candidate.FirstName,
				LastName:    input.Candidate.LastName,
				Email:       input.Candidate.Email,
				Phone:       input.Candidate.Phone,
				Nationality: input.Candidate.Nationality,
			}
			if err := repositories.Table[models.Candidate](tx).Create(ctx, candidate); err != nil {
				return err
			}
		}

		existing, err := repositories.Table[models.CandidateApplication](tx).GetByIndex(ctx, models.IndexCandidateID, candidate.ID)
		if err != nil {
			return err
		}
		for _, a := range existing {
			if a.RecruitmentID == proc.ID {
				return preconditionf("candidate %s already applied to recruitment %s", candidate.Code, proc.Code)
			}
		}

		appliedAt := timestamp()
		if input.AppliedAt != nil {
			appliedAt = input.AppliedAt.UTC()
		}
		app = &models.CandidateApplication{
			RecruitmentID: proc.ID,
			CandidateID:   candidate.ID,
			Status:        models.ApplicationStatusReceived,
			CoverLetter:   input.CoverLetter,
			AppliedAt:     appliedAt,
		}
		return repositories.Table[models.CandidateApplication](tx).Create(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application received",
		slog.String("recruitment_id", app.RecruitmentID),
		slog.String("application_id", app.ID),
	)
	return app, nil
}

// Get implements ApplicationService.
func (s *applicationService) Get(ctx context.Context, id string) (*models.CandidateApplication, error) {
	return repositories.Table[models.CandidateApplication](s.store).GetByID(ctx, id)
}

// ListByProcess implements ApplicationService. An empty status lists all.
func (s *applicationService) ListByProcess(ctx context.Context, processID string, status models.ApplicationStatus) ([]models.CandidateApplication, error) {
	if _, err := repositories.Table[models.RecruitmentProcess](s.store).GetByID(ctx, processID); err != nil {
		return nil, err
	}
	apps, err := repositories.Table[models.CandidateApplication](s.store).GetByIndex(ctx, models.IndexRecruitmentID, processID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return apps, nil
	}
	filtered := apps[:0]
	for _, a := range apps {
		if a.Status == status {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// Reject implements ApplicationService.
func (s *applicationService) Reject(ctx context.Context, id, reason string) (*models.CandidateApplication, error) {
	return s.exit(ctx, id, EventReject, reason)
}

// Withdraw implements ApplicationService.
func (s *applicationService) Withdraw(ctx context.Context, id, reason string) (*models.CandidateApplication, error) {
	return s.exit(ctx, id, EventWithdraw, reason)
}

// exit fires a side edge and withdraws any offer still open for the
// application.
func (s *applicationService) exit(ctx context.Context, id string, event ApplicationEvent, reason string) (*models.CandidateApplication, error) {
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Message: "failed required"}
	}

	var app *models.CandidateApplication
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		var err error
		app, err = transitionApplication(ctx, tx, s.logger, id, event, reason)
		if err != nil {
			return err
		}
		return withdrawOpenOffers(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// withdrawOpenOffers closes every offer an application still holds.
func withdrawOpenOffers(ctx context.Context, tx repositories.Store, applicationID string) error {
	offers, err := repositories.Table[models.Offer](tx).GetByIndex(ctx, models.IndexApplicationID, applicationID)
	if err != nil {
		return err
	}
	for _, o := range offers {
		if !o.Status.Open() {
			continue
		}
		if _, err := repositories.Table[models.Offer](tx).Update(ctx, o.ID, func(offer *models.Offer) error {
			offer.Status = models.OfferStatusWithdrawn
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// transitionApplication validates event against the application's current
// state and persists the new state. The transition is counted and logged
// once tx commits.
func transitionApplication(ctx context.Context, tx repositories.Store, logger *slog.Logger, id string, event ApplicationEvent, reason string) (*models.CandidateApplication, error) {
	var from models.ApplicationStatus
	app, err := repositories.Table[models.CandidateApplication](tx).Update(ctx, id, func(a *models.CandidateApplication) error {
		next, ok := NextApplicationStatus(a.Status, event)
		if !ok {
			return &InvalidTransitionError{
				Entity: "application",
				ID:     id,
				From:   string(a.Status),
				To:     string(EventTarget(event)),
			}
		}
		from = a.Status
		a.Status = next
		a.StatusReason = nil
		if reason != "" {
			a.StatusReason = ptr(reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	to := app.Status
	tx.AfterCommit(func() {
		applicationTransitions.WithLabelValues(string(from), string(to)).Inc()
		logger.Info("application transitioned",
			slog.String("application_id", id),
			slog.String("from", string(from)),
			slog.String("to", string(to)),
		)
	})
	return app, nil
}
