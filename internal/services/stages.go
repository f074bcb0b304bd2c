package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

// StageArtifact is the input that creates a stage's artifact through
// ProcessService.Advance. Each stage has exactly one artifact type.
type StageArtifact interface {
	Stage() models.Stage
	gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error
	persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, s *processService) (Record, error)
}

// Record is any persisted artifact.
type Record interface {
	Meta() *models.Base
}

// artifactValidator is implemented by artifacts with rules struct tags cannot
// express.
type artifactValidator interface {
	validateArtifact() error
}

// processArtifact loads the single artifact a process-level stage created.
func processArtifact[T any, PT repositories.RecordPtr[T]](ctx context.Context, tx repositories.Store, processID string) (*T, error) {
	return findOne[T, PT](ctx, tx, models.IndexRecruitmentID, processID)
}

// requireArtifact is processArtifact failing with a PreconditionError when
// the stage has not run.
func requireArtifact[T any, PT repositories.RecordPtr[T]](ctx context.Context, tx repositories.Store, processID, what string) (*T, error) {
	rec, err := processArtifact[T, PT](ctx, tx, processID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, missing(what)
	}
	return rec, nil
}

func applicationArtifact[T any, PT repositories.RecordPtr[T]](ctx context.Context, tx repositories.Store, applicationID string) (*T, error) {
	return findOne[T, PT](ctx, tx, models.IndexApplicationID, applicationID)
}

type RequisitionInput struct {
	Grade         string     `json:"grade"`
	BudgetLine    string     `json:"budget_line" validate:"required"`
	Justification string     `json:"justification" validate:"required"`
	StartDate     *time.Time `json:"start_date"`
}

func (RequisitionInput) Stage() models.Stage { return models.StageRequisition }

func (in RequisitionInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	tor, err := processArtifact[models.TOR](ctx, tx, proc.ID)
	if err != nil {
		return err
	}
	return RequisitionGate(tor)
}

func (in RequisitionInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	srf := &models.StaffRequisition{
		RecruitmentID: proc.ID,
		Grade:         in.Grade,
		BudgetLine:    in.BudgetLine,
		Justification: in.Justification,
		StartDate:     in.StartDate,
		Status:        models.RequisitionStatusDraft,
	}
	if err := repositories.Table[models.StaffRequisition](tx).Create(ctx, srf); err != nil {
		return nil, err
	}
	return srf, nil
}

// RequisitionReviewInput records HR and budget verification of the SRF. The
// SRF is approved only when Approved is set.
type RequisitionReviewInput struct {
	Reviewer       string `json:"reviewer" validate:"required"`
	HRVerified     bool   `json:"hr_verified"`
	BudgetVerified bool   `json:"budget_verified"`
	Approved       bool   `json:"approved"`
	Comments       string `json:"comments"`
}

func (RequisitionReviewInput) Stage() models.Stage { return models.StageRequisitionReview }

func (in RequisitionReviewInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	srf, err := processArtifact[models.StaffRequisition](ctx, tx, proc.ID)
	if err != nil {
		return err
	}
	return RequisitionReviewGate(srf)
}

func (in RequisitionReviewInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	srf, err := processArtifact[models.StaffRequisition](ctx, tx, proc.ID)
	if err != nil {
		return nil, err
	}

	review := &models.RequisitionReview{
		RecruitmentID:  proc.ID,
		RequisitionID:  srf.ID,
		Reviewer:       in.Reviewer,
		HRVerified:     in.HRVerified,
		BudgetVerified: in.BudgetVerified,
		Approved:       in.Approved,
		Comments:       in.Comments,
	}
	if err := repositories.Table[models.RequisitionReview](tx).Create(ctx, review); err != nil {
		return nil, err
	}

	_, err = repositories.Table[models.StaffRequisition](tx).Update(ctx, srf.ID, func(r *models.StaffRequisition) error {
		r.HRVerified = in.HRVerified
		r.BudgetVerified = in.BudgetVerified
		r.Status = models.RequisitionStatusRejected
		if in.Approved {
			r.Status = models.RequisitionStatusApproved
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

type AnnouncementInput struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Channels    []string  `json:"channels" validate:"min=1,dive,required"`
	ClosingDate time.Time `json:"closing_date" validate:"required"`
}

func (AnnouncementInput) Stage() models.Stage { return models.StageAnnouncement }

func (in AnnouncementInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	srf, err := processArtifact[models.StaffRequisition](ctx, tx, proc.ID)
	if err != nil {
		return err
	}
	return AnnouncementGate(srf)
}

func (in AnnouncementInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	ann := &models.VacancyAnnouncement{
		RecruitmentID: proc.ID,
		Title:         in.Title,
		Description:   in.Description,
		Channels:      in.Channels,
		ClosingDate:   in.ClosingDate.UTC(),
		Status:        models.AnnouncementStatusDraft,
	}
	if err := repositories.Table[models.VacancyAnnouncement](tx).Create(ctx, ann); err != nil {
		return nil, err
	}
	return ann, nil
}

// IntakeInput opens application receipt.
type IntakeInput struct {
	OpenedBy string `json:"opened_by" validate:"required"`
}

func (IntakeInput) Stage() models.Stage { return models.StageApplicationReceipt }

func (in IntakeInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	ann, err := processArtifact[models.VacancyAnnouncement](ctx, tx, proc.ID)
	if err != nil {
		return err
	}
	return PublishedAnnouncementGate(ann)
}

func (in IntakeInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	ann, err := processArtifact[models.VacancyAnnouncement](ctx, tx, proc.ID)
	if err != nil {
		return nil, err
	}
	intake := &models.ApplicationIntake{
		RecruitmentID:  proc.ID,
		AnnouncementID: ann.ID,
		OpenedBy:       in.OpenedBy,
		OpenedAt:       timestamp(),
	}
	if err := repositories.Table[models.ApplicationIntake](tx).Create(ctx, intake); err != nil {
		return nil, err
	}
	return intake, nil
}

type CommitteeMemberInput struct {
	Name  string               `json:"name" validate:"required"`
	Email string               `json:"email" validate:"omitempty,email"`
	Role  models.CommitteeRole `json:"role" validate:"required,oneof=chair member hr_representative technical_expert"`
}

type CommitteeInput struct {
	Members []CommitteeMemberInput `json:"members" validate:"min=1,dive"`
}

func (CommitteeInput) Stage() models.Stage { return models.StageCommittee }

func (in CommitteeInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	ann, err := processArtifact[models.VacancyAnnouncement](ctx, tx, proc.ID)
	if err != nil {
		return err
	}
	return PublishedAnnouncementGate(ann)
}

func (in CommitteeInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	members := make([]models.CommitteeMember, len(in.Members))
	for i, m := range in.Members {
		members[i] = models.CommitteeMember{
			ID:    uuid.NewString(),
			Name:  m.Name,
			Email: m.Email,
			Role:  m.Role,
		}
	}
	committee := &models.Committee{
		RecruitmentID: proc.ID,
		Members:       members,
		FormedAt:      timestamp(),
	}
	if err := repositories.Table[models.Committee](tx).Create(ctx, committee); err != nil {
		return nil, err
	}
	return committee, nil
}

type LonglistingInput struct {
	Criteria []string `json:"criteria" validate:"dive,required"`
}

func (LonglistingInput) Stage() models.Stage { return models.StageLonglisting }

func (in LonglistingInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	committee, err := processArtifact[models.Committee](ctx, tx, proc.ID)
	if err != nil {
		return err
	}
	return LonglistingGate(committee)
}

func (in LonglistingInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	round := &models.LonglistingRound{
		RecruitmentID: proc.ID,
		Criteria:      in.Criteria,
		Status:        models.RoundStatusInProgress,
	}
	if err := repositories.Table[models.LonglistingRound](tx).Create(ctx, round); err != nil {
		return nil, err
	}
	return round, nil
}

type ShortlistingInput struct {
	AcademicWeight   float64 `json:"academic_weight"`
	ExperienceWeight float64 `json:"experience_weight"`
	OtherWeight      float64 `json:"other_weight"`
	PassingScore     float64 `json:"passing_score" validate:"min=0,max=100"`
}

func (ShortlistingInput) Stage() models.Stage { return models.StageShortlisting }

func (in ShortlistingInput) validateArtifact() error {
	_, err := NewShortlistingWeights(in.AcademicWeight, in.ExperienceWeight, in.OtherWeight)
	return err
}

func (in ShortlistingInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	round, err := processArtifact[models.LonglistingRound](ctx, tx, proc.ID)
	if err != nil {
		return err
	}
	return ShortlistingGate(round)
}

func (in ShortlistingInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	round := &models.ShortlistingRound{
		RecruitmentID:    proc.ID,
		AcademicWeight:   in.AcademicWeight,
		ExperienceWeight: in.ExperienceWeight,
		OtherWeight:      in.OtherWeight,
		PassingScore:     in.PassingScore,
		Status:           models.RoundStatusInProgress,
	}
	if err := repositories.Table[models.ShortlistingRound](tx).Create(ctx, round); err != nil {
		return nil, err
	}
	return round, nil
}

// DefaultStageWeight applies when a written test or interview round is
// created without a weight. Equal weights combine to the plain mean.
const DefaultStageWeight = 0.5

// stageWeight returns w, or DefaultStageWeight when w is unset. An explicit
// zero keeps the stage out of the combined score.
func stageWeight(w *float64) float64 {
	if w == nil {
		return DefaultStageWeight
	}
	return *w
}

type WrittenTestInput struct {
	TestDate     time.Time `json:"test_date" validate:"required"`
	Venue        string    `json:"venue"`
	TotalMarks   float64   `json:"total_marks" validate:"gt=0"`
	PassingMarks float64   `json:"passing_marks" validate:"gte=0"`
	Weight       *float64  `json:"weight" validate:"omitempty,gte=0,lte=1"`
}

func (WrittenTestInput) Stage() models.Stage { return models.StageWrittenTest }

func (in WrittenTestInput) validateArtifact() error {
	if in.PassingMarks > in.TotalMarks {
		return &ValidationError{Field: "passing_marks", Message: "must not exceed total_marks"}
	}
	return nil
}

func (in WrittenTestInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	round, err := processArtifact[models.ShortlistingRound](ctx, tx, proc.ID)
	if err != nil {
		return err
	}
	return WrittenTestGate(round)
}

func (in WrittenTestInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	test := &models.WrittenTest{
		RecruitmentID: proc.ID,
		TestDate:      in.TestDate.UTC(),
		Venue:         in.Venue,
		TotalMarks:    in.TotalMarks,
		PassingMarks:  in.PassingMarks,
		Weight:        stageWeight(in.Weight),
		Status:        models.RoundStatusScheduled,
	}
	if err := repositories.Table[models.WrittenTest](tx).Create(ctx, test); err != nil {
		return nil, err
	}
	return test, nil
}

// InterviewInput schedules the interview round. PassingMarks is compared
// against the average evaluator total, out of 25.
type InterviewInput struct {
	InterviewDate time.Time `json:"interview_date" validate:"required"`
	Venue         string    `json:"venue"`
	PassingMarks  float64   `json:"passing_marks" validate:"gte=0,lte=25"`
	Weight        *float64  `json:"weight" validate:"omitempty,gte=0,lte=1"`
}

func (InterviewInput) Stage() models.Stage { return models.StageInterview }

func (in InterviewInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	test, err := processArtifact[models.WrittenTest](ctx, tx, proc.ID)
	if err != nil {
		return err
	}
	return InterviewGate(test)
}

func (in InterviewInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	round := &models.InterviewRound{
		RecruitmentID: proc.ID,
		InterviewDate: in.InterviewDate.UTC(),
		Venue:         in.Venue,
		PassingMarks:  in.PassingMarks,
		Weight:        stageWeight(in.Weight),
		Status:        models.RoundStatusScheduled,
	}
	if err := repositories.Table[models.InterviewRound](tx).Create(ctx, round); err != nil {
		return nil, err
	}
	return round, nil
}

// ReportInput generates the recruitment report. Rankings are computed from
// the interview records of applications still interviewed.
type ReportInput struct {
	Summary string `json:"summary"`
}

func (ReportInput) Stage() models.Stage { return models.StageReport }

func (in ReportInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	round, err := processArtifact[models.InterviewRound](ctx, tx, proc.ID)
	if err != nil {
		return err
	}
	return ReportGate(round)
}

func (in ReportInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, s *processService) (Record, error) {
	round, err := processArtifact[models.InterviewRound](ctx, tx, proc.ID)
	if err != nil {
		return nil, err
	}
	candidates, err := repositories.Table[models.InterviewCandidate](tx).GetByIndex(ctx, models.IndexRoundID, round.ID)
	if err != nil {
		return nil, err
	}

	inputs := make([]RankInput, 0, len(candidates))
	for _, c := range candidates {
		app, err := repositories.Table[models.CandidateApplication](tx).GetByID(ctx, c.ApplicationID)
		if err != nil {
			return nil, err
		}
		if app.Status != models.ApplicationStatusInterviewed {
			continue
		}
		inputs = append(inputs, RankInput{
			ApplicationID:    app.ID,
			CandidateID:      app.CandidateID,
			CombinedScore:    c.CombinedScore,
			InterviewScore:   c.NormalizedScore,
			WrittenTestScore: c.WrittenTestScore,
			AppliedAt:        app.AppliedAt,
			Passed:           c.IsPassed,
		})
	}

	report := &models.RecruitmentReport{
		RecruitmentID: proc.ID,
		Summary:       in.Summary,
		TieBreak:      string(s.tieBreak),
		Rankings:      RankCandidates(inputs, s.tieBreak, proc.NumberOfPositions),
		Status:        models.ReportStatusDraft,
	}
	if err := repositories.Table[models.RecruitmentReport](tx).Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// OfferInput drafts an offer for one ranked candidate. It is recorded once
// per candidate; an application holds at most one open offer.
type OfferInput struct {
	ApplicationID string    `json:"application_id" validate:"required"`
	Grade         string    `json:"grade"`
	MonthlySalary float64   `json:"monthly_salary" validate:"gt=0"`
	Currency      string    `json:"currency" validate:"required,len=3"`
	StartDate     time.Time `json:"start_date" validate:"required"`
}

func (OfferInput) Stage() models.Stage { return models.StageOffer }

func (in OfferInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	app, err := applicationInProcess(ctx, tx, proc.ID, in.ApplicationID)
	if err != nil {
		return err
	}
	offers, err := repositories.Table[models.Offer](tx).GetByIndex(ctx, models.IndexApplicationID, app.ID)
	if err != nil {
		return err
	}
	for _, o := range offers {
		if o.Status.Open() {
			return preconditionf("application already holds a %s offer", o.Status)
		}
	}
	report, err := processArtifact[models.RecruitmentReport](ctx, tx, proc.ID)
	if err != nil {
		return err
	}
	return OfferGate(report, app)
}

func (in OfferInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	offer := &models.Offer{
		RecruitmentID: proc.ID,
		ApplicationID: in.ApplicationID,
		Grade:         in.Grade,
		MonthlySalary: in.MonthlySalary,
		Currency:      in.Currency,
		StartDate:     in.StartDate.UTC(),
		Status:        models.OfferStatusDraft,
	}
	if err := repositories.Table[models.Offer](tx).Create(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// SanctionInput records the candidate's sanction-list declaration for
// screening.
type SanctionInput struct {
	ApplicationID     string   `json:"application_id" validate:"required"`
	DeclaredNoListing bool     `json:"declared_no_listing"`
	ListsScreened     []string `json:"lists_screened" validate:"dive,required"`
}

func (SanctionInput) Stage() models.Stage { return models.StageSanctionCheck }

func (in SanctionInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	app, err := applicationInProcess(ctx, tx, proc.ID, in.ApplicationID)
	if err != nil {
		return err
	}
	existing, err := applicationArtifact[models.SanctionDeclaration](ctx, tx, app.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return preconditionf("application already has a sanction declaration")
	}
	offer, err := applicationArtifact[models.Offer](ctx, tx, app.ID)
	if err != nil {
		return err
	}
	return SanctionGate(offer)
}

func (in SanctionInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	decl := &models.SanctionDeclaration{
		RecruitmentID:     proc.ID,
		ApplicationID:     in.ApplicationID,
		DeclaredNoListing: in.DeclaredNoListing,
		ListsScreened:     in.ListsScreened,
		Status:            models.SanctionStatusPending,
	}
	if err := repositories.Table[models.SanctionDeclaration](tx).Create(ctx, decl); err != nil {
		return nil, err
	}
	return decl, nil
}

type ReferenceInput struct {
	Name         string `json:"name" validate:"required"`
	Organization string `json:"organization"`
	Contact      string `json:"contact" validate:"required"`
}

func (in ReferenceInput) reference() models.ReferenceCheck {
	return models.ReferenceCheck{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Organization: in.Organization,
		Contact:      in.Contact,
		Status:       models.ReferenceStatusPending,
	}
}

// BackgroundCheckInput opens the background check of a sanction-cleared
// candidate. References may also be added later.
type BackgroundCheckInput struct {
	ApplicationID string           `json:"application_id" validate:"required"`
	References    []ReferenceInput `json:"references" validate:"dive"`
}

func (BackgroundCheckInput) Stage() models.Stage { return models.StageBackgroundCheck }

func (in BackgroundCheckInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	app, err := applicationInProcess(ctx, tx, proc.ID, in.ApplicationID)
	if err != nil {
		return err
	}
	existing, err := applicationArtifact[models.BackgroundCheck](ctx, tx, app.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return preconditionf("application already has a background check")
	}
	decl, err := applicationArtifact[models.SanctionDeclaration](ctx, tx, app.ID)
	if err != nil {
		return err
	}
	return BackgroundCheckGate(decl)
}

func (in BackgroundCheckInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	decl, err := applicationArtifact[models.SanctionDeclaration](ctx, tx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	refs := make([]models.ReferenceCheck, len(in.References))
	for i, r := range in.References {
		refs[i] = r.reference()
	}
	check := &models.BackgroundCheck{
		RecruitmentID:         proc.ID,
		ApplicationID:         in.ApplicationID,
		SanctionDeclarationID: decl.ID,
		References:            refs,
		GuaranteeLetter:       models.GuaranteeLetterPending,
		HomeAddress:           models.AddressCheckPending,
		CriminalCheck:         models.CriminalCheckPending,
		Status:                models.BackgroundCheckPending,
	}
	if err := repositories.Table[models.BackgroundCheck](tx).Create(ctx, check); err != nil {
		return nil, err
	}
	return check, nil
}

// ContractInput drafts the employment contract. Terms default to the
// accepted offer; the contract is created unsigned.
type ContractInput struct {
	ApplicationID string     `json:"application_id" validate:"required"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
}

func (ContractInput) Stage() models.Stage { return models.StageContract }

func (in ContractInput) validateArtifact() error {
	if in.StartDate != nil && in.EndDate != nil && !in.EndDate.After(*in.StartDate) {
		return &ValidationError{Field: "end_date", Message: "must be after start_date"}
	}
	return nil
}

func (in ContractInput) gate(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess) error {
	app, err := applicationInProcess(ctx, tx, proc.ID, in.ApplicationID)
	if err != nil {
		return err
	}
	existing, err := applicationArtifact[models.EmploymentContract](ctx, tx, app.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return preconditionf("application already has an employment contract")
	}
	check, err := applicationArtifact[models.BackgroundCheck](ctx, tx, app.ID)
	if err != nil {
		return err
	}
	if err := ContractGate(check); err != nil {
		return err
	}
	offer, err := applicationArtifact[models.Offer](ctx, tx, app.ID)
	if err != nil {
		return err
	}
	return SanctionGate(offer)
}

func (in ContractInput) persist(ctx context.Context, tx repositories.Store, proc *models.RecruitmentProcess, _ *processService) (Record, error) {
	check, err := applicationArtifact[models.BackgroundCheck](ctx, tx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	offer, err := applicationArtifact[models.Offer](ctx, tx, in.ApplicationID)
	if err != nil {
		return nil, err
	}

	start := offer.StartDate
	if in.StartDate != nil {
		start = in.StartDate.UTC()
	}
	var end *time.Time
	if in.EndDate != nil {
		end = ptr(in.EndDate.UTC())
	}

	contract := &models.EmploymentContract{
		RecruitmentID:     proc.ID,
		ApplicationID:     in.ApplicationID,
		BackgroundCheckID: check.ID,
		OfferID:           offer.ID,
		ContractNumber:    generateCode(contractCodePrefix),
		ContractType:      proc.ContractType,
		StartDate:         start,
		EndDate:           end,
		MonthlySalary:     offer.MonthlySalary,
		Currency:          offer.Currency,
	}
	if err := repositories.Table[models.EmploymentContract](tx).Create(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}
