package services

import (
	"context"
	"errors"
	"log/slog"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

type ProcessService interface {
	Create(ctx context.Context, input CreateProcessInput) (*models.RecruitmentProcess, error)
	Get(ctx context.Context, id string) (*models.RecruitmentProcess, error)
	List(ctx context.Context, status models.ProcessStatus) ([]models.RecruitmentProcess, error)
	Artifacts(ctx context.Context, id string) (*ProcessArtifacts, error)
	Advance(ctx context.Context, id string, artifact StageArtifact) (*AdvanceResult, error)
	Complete(ctx context.Context, id string) (*models.RecruitmentProcess, error)
	Cancel(ctx context.Context, id, reason string) (*models.RecruitmentProcess, error)

	UpdateTOR(ctx context.Context, id string, input TORInput) (*models.TOR, error)
	SubmitTOR(ctx context.Context, id string) (*models.TOR, error)
	ReviewTOR(ctx context.Context, id string, input ReviewInput) (*models.TOR, error)
	SubmitRequisition(ctx context.Context, id string) (*models.StaffRequisition, error)
	PublishAnnouncement(ctx context.Context, id string) (*models.VacancyAnnouncement, error)
	CloseAnnouncement(ctx context.Context, id string) (*models.VacancyAnnouncement, error)
	ApproveReport(ctx context.Context, id string, approvedBy string) (*models.RecruitmentReport, error)
}

type TORInput struct {
	Title            string                       `json:"title" validate:"required"`
	Background       string                       `json:"background"`
	Responsibilities []models.Responsibility      `json:"responsibilities" validate:"dive"`
	RequiredSkills   []models.Skill               `json:"required_skills" validate:"dive"`
	Languages        []models.LanguageProficiency `json:"languages" validate:"dive"`
}

type CreateProcessInput struct {
	PositionTitle     string                `json:"position_title" validate:"required"`
	Department        string                `json:"department"`
	DutyStation       string                `json:"duty_station"`
	NumberOfPositions int                   `json:"number_of_positions" validate:"min=1"`
	HiringApproach    models.HiringApproach `json:"hiring_approach" validate:"required,oneof=open_competition internal_promotion headhunting roster"`
	ContractType      models.ContractType   `json:"contract_type" validate:"required,oneof=fixed_term permanent consultancy temporary"`
	TOR               TORInput              `json:"tor"`
}

// ReviewInput is a yes/no decision by a named reviewer.
type ReviewInput struct {
	Approved bool   `json:"approved"`
	Reviewer string `json:"reviewer" validate:"required"`
}

// AdvanceResult carries the persisted artifact and the process as left by
// Advance.
type AdvanceResult struct {
	Process  *models.RecruitmentProcess `json:"process"`
	Stage    string                     `json:"stage"`
	Artifact Record                     `json:"artifact"`
}

// ProcessArtifacts holds the process-level stage artifacts recorded so far.
type ProcessArtifacts struct {
	TOR               *models.TOR                 `json:"tor"`
	Requisition       *models.StaffRequisition    `json:"staff_requisition,omitempty"`
	RequisitionReview *models.RequisitionReview   `json:"requisition_review,omitempty"`
	Announcement      *models.VacancyAnnouncement `json:"vacancy_announcement,omitempty"`
	Intake            *models.ApplicationIntake   `json:"application_intake,omitempty"`
	Committee         *models.Committee           `json:"committee,omitempty"`
	Longlisting       *models.LonglistingRound    `json:"longlisting_round,omitempty"`
	Shortlisting      *models.ShortlistingRound   `json:"shortlisting_round,omitempty"`
	WrittenTest       *models.WrittenTest         `json:"written_test,omitempty"`
	Interview         *models.InterviewRound      `json:"interview_round,omitempty"`
	Report            *models.RecruitmentReport   `json:"recruitment_report,omitempty"`
}

type processService struct {
	store    repositories.Store
	logger   *slog.Logger
	tieBreak TieBreakPolicy
}

func NewProcessService(store repositories.Store, logger *slog.Logger, tieBreak TieBreakPolicy) ProcessService {
	return &processService{store: store, logger: logger, tieBreak: tieBreak}
}

// Create implements ProcessService. The process starts in draft at the TOR
// stage, with its TOR drafted in the same transaction.
func (s *processService) Create(ctx context.Context, input CreateProcessInput) (*models.RecruitmentProcess, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	proc := &models.RecruitmentProcess{
		Code:              generateCode(processCodePrefix),
		PositionTitle:     input.PositionTitle,
		Department:        input.Department,
		DutyStation:       input.DutyStation,
		NumberOfPositions: input.NumberOfPositions,
		HiringApproach:    input.HiringApproach,
		ContractType:      input.ContractType,
		Status:            models.ProcessStatusDraft,
		CurrentStep:       models.StageTOR,
	}
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		if err := repositories.Table[models.RecruitmentProcess](tx).Create(ctx, proc); err != nil {
			return err
		}
		tor := &models.TOR{RecruitmentID: proc.ID, Status: models.TORStatusDraft}
		input.TOR.apply(tor)
		return repositories.Table[models.TOR](tx).Create(ctx, tor)
	})
	if err != nil {
		return nil, err
	}

	processTransitions.WithLabelValues(string(proc.Status)).Inc()
	s.logger.Info("recruitment created",
		slog.String("recruitment_id", proc.ID),
		slog.String("code", proc.Code),
	)
	return proc, nil
}

func (in TORInput) apply(tor *models.TOR) {
	tor.Title = in.Title
	tor.Background = in.Background
	tor.Responsibilities = in.Responsibilities
	tor.RequiredSkills = in.RequiredSkills
	tor.Languages = in.Languages
}

// Get implements ProcessService.
func (s *processService) Get(ctx context.Context, id string) (*models.RecruitmentProcess, error) {
	return repositories.Table[models.RecruitmentProcess](s.store).GetByID(ctx, id)
}

// List implements ProcessService. An empty status lists every process.
func (s *processService) List(ctx context.Context, status models.ProcessStatus) ([]models.RecruitmentProcess, error) {
	table := repositories.Table[models.RecruitmentProcess](s.store)
	if status == "" {
		return table.GetAll(ctx)
	}
	return table.GetByIndex(ctx, models.IndexStatus, string(status))
}

// Artifacts implements ProcessService.
func (s *processService) Artifacts(ctx context.Context, id string) (*ProcessArtifacts, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	var (
		out ProcessArtifacts
		err error
	)
	load := func(fn func() error) {
		if err == nil {
			err = fn()
		}
	}
	load(func() (e error) { out.TOR, e = processArtifact[models.TOR](ctx, s.store, id); return })
	load(func() (e error) { out.Requisition, e = processArtifact[models.StaffRequisition](ctx, s.store, id); return })
	load(func() (e error) { out.RequisitionReview, e = processArtifact[models.RequisitionReview](ctx, s.store, id); return })
	load(func() (e error) { out.Announcement, e = processArtifact[models.VacancyAnnouncement](ctx, s.store, id); return })
	load(func() (e error) { out.Intake, e = processArtifact[models.ApplicationIntake](ctx, s.store, id); return })
	load(func() (e error) { out.Committee, e = processArtifact[models.Committee](ctx, s.store, id); return })
	load(func() (e error) { out.Longlisting, e = processArtifact[models.LonglistingRound](ctx, s.store, id); return })
	load(func() (e error) { out.Shortlisting, e = processArtifact[models.ShortlistingRound](ctx, s.store, id); return })
	load(func() (e error) { out.WrittenTest, e = processArtifact[models.WrittenTest](ctx, s.store, id); return })
	load(func() (e error) { out.Interview, e = processArtifact[models.InterviewRound](ctx, s.store, id); return })
	load(func() (e error) { out.Report, e = processArtifact[models.RecruitmentReport](ctx, s.store, id); return })
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Advance implements ProcessService. The stage gate, the artifact write and
// the step increment share one transaction, so a failure leaves every record
// untouched.
func (s *processService) Advance(ctx context.Context, id string, artifact StageArtifact) (*AdvanceResult, error) {
	if artifact == nil {
		return nil, &ValidationError{Field: "artifact", Message: "failed required"}
	}
	stage := artifact.Stage()
	if err := validateInput(artifact); err != nil {
		return nil, err
	}
	if v, ok := artifact.(artifactValidator); ok {
		if err := v.validateArtifact(); err != nil {
			return nil, err
		}
	}

	result := &AdvanceResult{Stage: stage.String()}
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		proc, err := activeProcess(ctx, tx, id)
		if err != nil {
			return err
		}
		bump, err := stepFor(proc, stage)
		if err != nil {
			return err
		}
		if err := artifact.gate(ctx, tx, proc); err != nil {
			return err
		}

		result.Artifact, err = artifact.persist(ctx, tx, proc, s)
		if err != nil {
			return err
		}
		if !bump {
			result.Process = proc
			return nil
		}

		result.Process, err = repositories.Table[models.RecruitmentProcess](tx).Update(ctx, proc.ID, func(p *models.RecruitmentProcess) error {
			if p.CurrentStep != proc.CurrentStep {
				return repositories.ErrConcurrentUpdate
			}
			p.CurrentStep = stage
			if p.Status == models.ProcessStatusDraft {
				p.Status = models.ProcessStatusInProgress
			}
			return nil
		})
		return err
	})
	if err != nil {
		var pe *PreconditionError
		if errors.As(err, &pe) {
			gateRejections.WithLabelValues(stage.String()).Inc()
			s.logger.Warn("stage gate rejected advance",
				slog.String("recruitment_id", id),
				slog.String("stage", stage.String()),
				slog.String("condition", pe.Condition),
			)
		}
		return nil, err
	}

	stageAdvances.WithLabelValues(stage.String()).Inc()
	s.logger.Info("stage recorded",
		slog.String("recruitment_id", id),
		slog.String("stage", stage.String()),
		slog.String("artifact_id", result.Artifact.Meta().ID),
		slog.Int("current_step", int(result.Process.CurrentStep)),
	)
	return result, nil
}

// stepFor reports whether recording stage moves the process forward. Only
// the next stage may be recorded, except that per-candidate stages already
// reached accept further candidates.
func stepFor(proc *models.RecruitmentProcess, stage models.Stage) (bool, error) {
	next := proc.CurrentStep + 1
	switch {
	case !stage.Valid() || stage == models.StageTOR:
		return false, &InvalidTransitionError{Entity: "recruitment", ID: proc.ID, From: proc.CurrentStep.String(), To: stage.String()}
	case stage == next:
		return true, nil
	case stage > next:
		return false, preconditionf("%s requires %s to be recorded first, recruitment is at %s", stage, next, proc.CurrentStep)
	case stage.PerCandidate():
		return false, nil
	}
	return false, &InvalidTransitionError{Entity: "recruitment", ID: proc.ID, From: proc.CurrentStep.String(), To: stage.String()}
}

// Complete implements ProcessService.
func (s *processService) Complete(ctx context.Context, id string) (*models.RecruitmentProcess, error) {
	var proc *models.RecruitmentProcess
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		current, err := repositories.Table[models.RecruitmentProcess](tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Status != models.ProcessStatusInProgress {
			return &InvalidTransitionError{Entity: "recruitment", ID: id, From: string(current.Status), To: string(models.ProcessStatusCompleted)}
		}
		checklist, err := processArtifact[models.FileChecklist](ctx, tx, id)
		if err != nil {
			return err
		}
		if err := CompletionGate(current, checklist); err != nil {
			return err
		}

		proc, err = repositories.Table[models.RecruitmentProcess](tx).Update(ctx, id, func(p *models.RecruitmentProcess) error {
			p.Status = models.ProcessStatusCompleted
			p.CompletedAt = ptr(timestamp())
			return nil
		})
		return err
	})
	if err != nil {
		var pe *PreconditionError
		if errors.As(err, &pe) {
			gateRejections.WithLabelValues("completion").Inc()
		}
		return nil, err
	}

	processTransitions.WithLabelValues(string(proc.Status)).Inc()
	s.logger.Info("recruitment completed", slog.String("recruitment_id", id))
	return proc, nil
}

// Cancel implements ProcessService. Artifacts already recorded are kept.
func (s *processService) Cancel(ctx context.Context, id, reason string) (*models.RecruitmentProcess, error) {
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Message: "failed required"}
	}

	proc, err := repositories.Table[models.RecruitmentProcess](s.store).Update(ctx, id, func(p *models.RecruitmentProcess) error {
		if p.Status.Terminal() {
			return &InvalidTransitionError{Entity: "recruitment", ID: id, From: string(p.Status), To: string(models.ProcessStatusCancelled)}
		}
		p.Status = models.ProcessStatusCancelled
		p.CancelReason = ptr(reason)
		p.CancelledAt = ptr(timestamp())
		return nil
	})
	if err != nil {
		return nil, err
	}

	processTransitions.WithLabelValues(string(proc.Status)).Inc()
	s.logger.Info("recruitment cancelled",
		slog.String("recruitment_id", id),
		slog.String("reason", reason),
	)
	return proc, nil
}
