package services

import (
	"context"
	"errors"
	"log/slog"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

// ComplianceService runs the offer and the compliance gate chain that
// guards the hire transition: sanction clearance, background check, signed
// contract.
type ComplianceService interface {
	GetOffer(ctx context.Context, id string) (*models.Offer, error)
	SendOffer(ctx context.Context, offerID string) (*models.Offer, error)
	RespondToOffer(ctx context.Context, offerID string, input OfferResponse) (*models.Offer, error)

	GetSanctionDeclaration(ctx context.Context, id string) (*models.SanctionDeclaration, error)
	ReviewSanction(ctx context.Context, declarationID string, input SanctionReview) (*models.SanctionDeclaration, error)

	GetBackgroundCheck(ctx context.Context, id string) (*models.BackgroundCheck, error)
	AddReference(ctx context.Context, checkID string, input ReferenceInput) (*models.BackgroundCheck, error)
	UpdateReference(ctx context.Context, checkID, referenceID string, input ReferenceUpdate) (*models.BackgroundCheck, error)
	UpdateBackgroundCheck(ctx context.Context, checkID string, input BackgroundCheckUpdate) (*models.BackgroundCheck, error)
	CompleteBackgroundCheck(ctx context.Context, checkID string) (*models.BackgroundCheck, error)

	GetContract(ctx context.Context, id string) (*models.EmploymentContract, error)
	SignContract(ctx context.Context, contractID string, input SignatureInput) (*models.EmploymentContract, error)
	Hire(ctx context.Context, applicationID string) (*models.CandidateApplication, error)
}

type OfferResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
}

type SanctionReview struct {
	Cleared    bool   `json:"cleared"`
	ReviewedBy string `json:"reviewed_by" validate:"required"`
	Remarks    string `json:"remarks" validate:"required_if=Cleared false"`
}

type ReferenceUpdate struct {
	Status models.ReferenceStatus `json:"status" validate:"required,oneof=pending contacted verified failed"`
	Notes  string                 `json:"notes"`
}

// BackgroundCheckUpdate changes the sub-checks that are set.
type BackgroundCheckUpdate struct {
	GuaranteeLetter *models.GuaranteeLetterStatus `json:"guarantee_letter" validate:"omitempty,oneof=pending received verified"`
	HomeAddress     *models.AddressCheckStatus    `json:"home_address" validate:"omitempty,oneof=pending in_progress verified failed"`
	CriminalCheck   *models.CriminalCheckStatus   `json:"criminal_check" validate:"omitempty,oneof=pending in_progress cleared flagged"`
}

type SignatureParty string

const (
	PartyEmployee SignatureParty = "employee"
	PartyEmployer SignatureParty = "employer"
)

type SignatureInput struct {
	Party     SignatureParty `json:"party" validate:"required,oneof=employee employer"`
	Signatory string         `json:"signatory" validate:"required_if=Party employer"`
}

type complianceService struct {
	store  repositories.Store
	logger *slog.Logger
}

func NewComplianceService(store repositories.Store, logger *slog.Logger) ComplianceService {
	return &complianceService{store: store, logger: logger}
}

// updateOwned mutates a record of an active process, read through the
// record's own RecruitmentID.
func updateOwned[T any, PT repositories.RecordPtr[T]](ctx context.Context, store repositories.Store, id string, owner func(*T) string, mutate func(tx repositories.Store, rec *T) error) (*T, error) {
	var out *T
	err := store.Atomic(ctx, func(tx repositories.Store) error {
		table := repositories.Table[T, PT](tx)
		current, err := table.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := activeProcess(ctx, tx, owner(current)); err != nil {
			return err
		}
		out, err = table.Update(ctx, id, func(rec *T) error {
			return mutate(tx, rec)
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *complianceService) GetOffer(ctx context.Context, id string) (*models.Offer, error) {
	return repositories.Table[models.Offer](s.store).GetByID(ctx, id)
}

// SendOffer implements ComplianceService. Sending moves the application to
// offered.
func (s *complianceService) SendOffer(ctx context.Context, offerID string) (*models.Offer, error) {
	return updateOwned[models.Offer](ctx, s.store, offerID,
		func(o *models.Offer) string { return o.RecruitmentID },
		func(tx repositories.Store, o *models.Offer) error {
			if o.Status != models.OfferStatusDraft {
				return statusError("offer", o.ID, o.Status, models.OfferStatusSent)
			}
			o.Status = models.OfferStatusSent
			o.SentAt = ptr(timestamp())
			_, err := transitionApplication(ctx, tx, s.logger, o.ApplicationID, EventSendOffer, "")
			return err
		})
}

// RespondToOffer implements ComplianceService. A declined offer withdraws
// the application.
func (s *complianceService) RespondToOffer(ctx context.Context, offerID string, input OfferResponse) (*models.Offer, error) {
	to := models.OfferStatusDeclined
	if input.Accepted {
		to = models.OfferStatusAccepted
	}

	offer, err := updateOwned[models.Offer](ctx, s.store, offerID,
		func(o *models.Offer) string { return o.RecruitmentID },
		func(tx repositories.Store, o *models.Offer) error {
			if o.Status != models.OfferStatusSent {
				return statusError("offer", o.ID, o.Status, to)
			}
			o.Status = to
			o.RespondedAt = ptr(timestamp())
			if input.Accepted {
				return nil
			}

			reason := "offer declined"
			if input.Reason != "" {
				o.DeclineReason = ptr(input.Reason)
				reason += ": " + input.Reason
			}
			_, err := transitionApplication(ctx, tx, s.logger, o.ApplicationID, EventWithdraw, reason)
			return err
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info("offer answered",
		slog.String("offer_id", offer.ID),
		slog.String("status", string(offer.Status)),
	)
	return offer, nil
}

func (s *complianceService) GetSanctionDeclaration(ctx context.Context, id string) (*models.SanctionDeclaration, error) {
	return repositories.Table[models.SanctionDeclaration](s.store).GetByID(ctx, id)
}

// ReviewSanction implements ComplianceService. A flagged screening rejects
// the application.
func (s *complianceService) ReviewSanction(ctx context.Context, declarationID string, input SanctionReview) (*models.SanctionDeclaration, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	to := models.SanctionStatusFlagged
	if input.Cleared {
		to = models.SanctionStatusCleared
	}

	decl, err := updateOwned[models.SanctionDeclaration](ctx, s.store, declarationID,
		func(d *models.SanctionDeclaration) string { return d.RecruitmentID },
		func(tx repositories.Store, d *models.SanctionDeclaration) error {
			if d.Status != models.SanctionStatusPending {
				return statusError("sanction_declaration", d.ID, d.Status, to)
			}
			d.Status = to
			d.ReviewedBy = ptr(input.ReviewedBy)
			d.ReviewedAt = ptr(timestamp())
			d.Remarks = input.Remarks
			if input.Cleared {
				return nil
			}
			if _, err := transitionApplication(ctx, tx, s.logger, d.ApplicationID, EventReject, "sanction screening flagged: "+input.Remarks); err != nil {
				return err
			}
			return withdrawOpenOffers(ctx, tx, d.ApplicationID)
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sanction screening reviewed",
		slog.String("application_id", decl.ApplicationID),
		slog.String("status", string(decl.Status)),
	)
	return decl, nil
}

func (s *complianceService) GetBackgroundCheck(ctx context.Context, id string) (*models.BackgroundCheck, error) {
	return repositories.Table[models.BackgroundCheck](s.store).GetByID(ctx, id)
}

// updateCheck applies a sub-check change. A completed check is frozen.
func (s *complianceService) updateCheck(ctx context.Context, checkID string, mutate func(c *models.BackgroundCheck) error) (*models.BackgroundCheck, error) {
	return updateOwned[models.BackgroundCheck](ctx, s.store, checkID,
		func(c *models.BackgroundCheck) string { return c.RecruitmentID },
		func(_ repositories.Store, c *models.BackgroundCheck) error {
			if c.Status == models.BackgroundCheckCompleted {
				return preconditionf("background check is already completed")
			}
			if err := mutate(c); err != nil {
				return err
			}
			c.Status = models.BackgroundCheckInProgress
			return nil
		})
}

// AddReference implements ComplianceService.
func (s *complianceService) AddReference(ctx context.Context, checkID string, input ReferenceInput) (*models.BackgroundCheck, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.updateCheck(ctx, checkID, func(c *models.BackgroundCheck) error {
		c.References = append(c.References, input.reference())
		return nil
	})
}

// UpdateReference implements ComplianceService.
func (s *complianceService) UpdateReference(ctx context.Context, checkID, referenceID string, input ReferenceUpdate) (*models.BackgroundCheck, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.updateCheck(ctx, checkID, func(c *models.BackgroundCheck) error {
		i := c.Reference(referenceID)
		if i < 0 {
			return &repositories.RecordNotFoundError{Table: "references", ID: referenceID}
		}
		c.References[i].Status = input.Status
		if input.Notes != "" {
			c.References[i].Notes = input.Notes
		}
		return nil
	})
}

// UpdateBackgroundCheck implements ComplianceService.
func (s *complianceService) UpdateBackgroundCheck(ctx context.Context, checkID string, input BackgroundCheckUpdate) (*models.BackgroundCheck, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.updateCheck(ctx, checkID, func(c *models.BackgroundCheck) error {
		if input.GuaranteeLetter != nil {
			c.GuaranteeLetter = *input.GuaranteeLetter
		}
		if input.HomeAddress != nil {
			c.HomeAddress = *input.HomeAddress
		}
		if input.CriminalCheck != nil {
			c.CriminalCheck = *input.CriminalCheck
		}
		return nil
	})
}

// CompleteBackgroundCheck implements ComplianceService. It fails without
// touching the record unless every sub-check is verified or cleared.
func (s *complianceService) CompleteBackgroundCheck(ctx context.Context, checkID string) (*models.BackgroundCheck, error) {
	check, err := updateOwned[models.BackgroundCheck](ctx, s.store, checkID,
		func(c *models.BackgroundCheck) string { return c.RecruitmentID },
		func(_ repositories.Store, c *models.BackgroundCheck) error {
			if c.Status == models.BackgroundCheckCompleted {
				return statusError("background_check", c.ID, c.Status, models.BackgroundCheckCompleted)
			}
			if err := BackgroundCheckCleared(c); err != nil {
				return err
			}
			c.Status = models.BackgroundCheckCompleted
			c.CompletedAt = ptr(timestamp())
			return nil
		})
	if err != nil {
		var pe *PreconditionError
		if errors.As(err, &pe) {
			gateRejections.WithLabelValues(models.StageBackgroundCheck.String()).Inc()
		}
		return nil, err
	}

	s.logger.Info("background check completed", slog.String("application_id", check.ApplicationID))
	return check, nil
}

func (s *complianceService) GetContract(ctx context.Context, id string) (*models.EmploymentContract, error) {
	return repositories.Table[models.EmploymentContract](s.store).GetByID(ctx, id)
}

// SignContract implements ComplianceService. Each party signs once.
func (s *complianceService) SignContract(ctx context.Context, contractID string, input SignatureInput) (*models.EmploymentContract, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return updateOwned[models.EmploymentContract](ctx, s.store, contractID,
		func(c *models.EmploymentContract) string { return c.RecruitmentID },
		func(_ repositories.Store, c *models.EmploymentContract) error {
			now := ptr(timestamp())
			switch input.Party {
			case PartyEmployee:
				if c.EmployeeSignedAt != nil {
					return preconditionf("contract %s is already signed by the employee", c.ContractNumber)
				}
				c.EmployeeSignedAt = now
			case PartyEmployer:
				if c.EmployerSignedAt != nil {
					return preconditionf("contract %s is already signed by the employer", c.ContractNumber)
				}
				c.EmployerSignedAt = now
				c.EmployerSignatory = ptr(input.Signatory)
			}
			return nil
		})
}

// Hire implements ComplianceService: the accepted offer and a contract signed
// by both parties move the application to hired.
func (s *complianceService) Hire(ctx context.Context, applicationID string) (*models.CandidateApplication, error) {
	var app *models.CandidateApplication
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		current, err := repositories.Table[models.CandidateApplication](tx).GetByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if _, err := activeProcess(ctx, tx, current.RecruitmentID); err != nil {
			return err
		}
		offer, err := applicationArtifact[models.Offer](ctx, tx, applicationID)
		if err != nil {
			return err
		}
		contract, err := applicationArtifact[models.EmploymentContract](ctx, tx, applicationID)
		if err != nil {
			return err
		}
		if err := HireGate(offer, contract); err != nil {
			return err
		}
		app, err = transitionApplication(ctx, tx, s.logger, applicationID, EventHire, "")
		return err
	})
	if err != nil {
		var pe *PreconditionError
		if errors.As(err, &pe) {
			gateRejections.WithLabelValues("hire").Inc()
		}
		return nil, err
	}
	return app, nil
}
