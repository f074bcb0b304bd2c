package services

import (
	"context"
	"log/slog"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

// updateArtifact mutates the process-level artifact of T for an active
// process.
func updateArtifact[T any, PT repositories.RecordPtr[T]](ctx context.Context, store repositories.Store, processID, what string, mutate func(*T) error) (*T, error) {
	var out *T
	err := store.Atomic(ctx, func(tx repositories.Store) error {
		if _, err := activeProcess(ctx, tx, processID); err != nil {
			return err
		}
		rec, err := requireArtifact[T, PT](ctx, tx, processID, what)
		if err != nil {
			return err
		}
		out, err = repositories.Table[T, PT](tx).Update(ctx, PT(rec).Meta().ID, mutate)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func statusError[S ~string](entity, id string, from, to S) error {
	return &InvalidTransitionError{Entity: entity, ID: id, From: string(from), To: string(to)}
}

// UpdateTOR implements ProcessService. A rejected TOR returns to draft when
// revised.
func (s *processService) UpdateTOR(ctx context.Context, id string, input TORInput) (*models.TOR, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return updateArtifact[models.TOR](ctx, s.store, id, "terms of reference", func(t *models.TOR) error {
		if t.Status != models.TORStatusDraft && t.Status != models.TORStatusRejected {
			return statusError("tor", t.ID, t.Status, models.TORStatusDraft)
		}
		input.apply(t)
		t.Status = models.TORStatusDraft
		t.ApprovedBy = nil
		t.ReviewedAt = nil
		return nil
	})
}

// SubmitTOR implements ProcessService.
func (s *processService) SubmitTOR(ctx context.Context, id string) (*models.TOR, error) {
	return updateArtifact[models.TOR](ctx, s.store, id, "terms of reference", func(t *models.TOR) error {
		if t.Status != models.TORStatusDraft {
			return statusError("tor", t.ID, t.Status, models.TORStatusSubmitted)
		}
		if t.Title == "" || len(t.Responsibilities) == 0 {
			return &ValidationError{Field: "responsibilities", Message: "terms of reference need a title and at least one responsibility"}
		}
		t.Status = models.TORStatusSubmitted
		return nil
	})
}

// ReviewTOR implements ProcessService.
func (s *processService) ReviewTOR(ctx context.Context, id string, input ReviewInput) (*models.TOR, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	to := models.TORStatusRejected
	if input.Approved {
		to = models.TORStatusApproved
	}

	tor, err := updateArtifact[models.TOR](ctx, s.store, id, "terms of reference", func(t *models.TOR) error {
		if t.Status != models.TORStatusSubmitted {
			return statusError("tor", t.ID, t.Status, to)
		}
		t.Status = to
		t.ReviewedAt = ptr(timestamp())
		if input.Approved {
			t.ApprovedBy = ptr(input.Reviewer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("terms of reference reviewed",
		slog.String("recruitment_id", id),
		slog.String("status", string(tor.Status)),
	)
	return tor, nil
}

// SubmitRequisition implements ProcessService.
func (s *processService) SubmitRequisition(ctx context.Context, id string) (*models.StaffRequisition, error) {
	return updateArtifact[models.StaffRequisition](ctx, s.store, id, "staff requisition", func(r *models.StaffRequisition) error {
		if r.Status != models.RequisitionStatusDraft {
			return statusError("staff_requisition", r.ID, r.Status, models.RequisitionStatusSubmitted)
		}
		r.Status = models.RequisitionStatusSubmitted
		return nil
	})
}

// PublishAnnouncement implements ProcessService.
func (s *processService) PublishAnnouncement(ctx context.Context, id string) (*models.VacancyAnnouncement, error) {
	return updateArtifact[models.VacancyAnnouncement](ctx, s.store, id, "vacancy announcement", func(a *models.VacancyAnnouncement) error {
		if a.Status != models.AnnouncementStatusDraft {
			return statusError("vacancy_announcement", a.ID, a.Status, models.AnnouncementStatusPublished)
		}
		a.Status = models.AnnouncementStatusPublished
		a.PublishedAt = ptr(timestamp())
		return nil
	})
}

// CloseAnnouncement implements ProcessService. Closing ends the intake of
// applications.
func (s *processService) CloseAnnouncement(ctx context.Context, id string) (*models.VacancyAnnouncement, error) {
	return updateArtifact[models.VacancyAnnouncement](ctx, s.store, id, "vacancy announcement", func(a *models.VacancyAnnouncement) error {
		if a.Status != models.AnnouncementStatusPublished {
			return statusError("vacancy_announcement", a.ID, a.Status, models.AnnouncementStatusClosed)
		}
		a.Status = models.AnnouncementStatusClosed
		return nil
	})
}

// ApproveReport implements ProcessService.
func (s *processService) ApproveReport(ctx context.Context, id string, approvedBy string) (*models.RecruitmentReport, error) {
	if approvedBy == "" {
		return nil, &ValidationError{Field: "approved_by", Message: "failed required"}
	}
	return updateArtifact[models.RecruitmentReport](ctx, s.store, id, "recruitment report", func(r *models.RecruitmentReport) error {
		if r.Status != models.ReportStatusDraft {
			return statusError("recruitment_report", r.ID, r.Status, models.ReportStatusApproved)
		}
		r.Status = models.ReportStatusApproved
		r.ApprovedBy = ptr(approvedBy)
		r.ApprovedAt = ptr(timestamp())
		return nil
	})
}
