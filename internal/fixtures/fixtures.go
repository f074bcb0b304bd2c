// Package fixtures drives a recruitment through the hiring pipeline with
// generated data, for seeding and for tests.
package fixtures

import (
	"context"
	"fmt"
	"math"
	"time"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type Options struct {
	PositionTitle string
	Candidates    int
	// Through is the last stage to record. Zero runs the whole pipeline.
	Through models.Stage
	// Complete closes the recruitment after the contract stage.
	Complete    bool
	EmailDomain string
	Now         time.Time
}

func (o *Options) defaults() {
	if o.PositionTitle == "" {
		o.PositionTitle = "Programme Officer"
	}
	if o.Candidates <= 0 {
		o.Candidates = 3
	}
	if o.Through == 0 {
		o.Through = models.FinalStage
	}
	if o.EmailDomain == "" {
		o.EmailDomain = "example.org"
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
}

// Result holds what Build recorded. Per-candidate artifacts belong to the
// top ranked candidate.
type Result struct {
	Process         *models.RecruitmentProcess
	Applications    []models.CandidateApplication
	Committee       *models.Committee
	Report          *models.RecruitmentReport
	Offer           *models.Offer
	Sanction        *models.SanctionDeclaration
	BackgroundCheck *models.BackgroundCheck
	Contract        *models.EmploymentContract
	Hired           *models.CandidateApplication
	Checklist       *models.FileChecklist
}

type builder struct {
	svc  *services.Services
	opts Options
	res  *Result
}

// Build creates a recruitment and records every stage up to opts.Through.
// Candidate i scores lower than candidate i-1 at every stage, so the first
// candidate ranks first.
func Build(ctx context.Context, svc *services.Services, opts Options) (*Result, error) {
	opts.defaults()
	b := &builder{svc: svc, opts: opts, res: &Result{}}

	steps := []struct {
		stage models.Stage
		run   func(context.Context) error
	}{
		{models.StageTOR, b.tor},
		{models.StageRequisition, b.requisition},
		{models.StageRequisitionReview, b.requisitionReview},
		{models.StageAnnouncement, b.announcement},
		{models.StageApplicationReceipt, b.applications},
		{models.StageCommittee, b.committee},
		{models.StageLonglisting, b.longlisting},
		{models.StageShortlisting, b.shortlisting},
		{models.StageWrittenTest, b.writtenTest},
		{models.StageInterview, b.interview},
		{models.StageReport, b.report},
		{models.StageOffer, b.offer},
		{models.StageSanctionCheck, b.sanction},
		{models.StageBackgroundCheck, b.backgroundCheck},
		{models.StageContract, b.contract},
	}
	for _, step := range steps {
		if step.stage > opts.Through {
			break
		}
		if err := step.run(ctx); err != nil {
			return b.res, fmt.Errorf("failed to build %s: %w", step.stage, err)
		}
	}

	if opts.Complete && opts.Through == models.FinalStage {
		if err := b.complete(ctx); err != nil {
			return b.res, fmt.Errorf("failed to complete recruitment: %w", err)
		}
	}

	proc, err := svc.Processes.Get(ctx, b.res.Process.ID)
	if err != nil {
		return b.res, err
	}
	b.res.Process = proc
	return b.res, nil
}

func (b *builder) advance(ctx context.Context, artifact services.StageArtifact) (*services.AdvanceResult, error) {
	return b.svc.Processes.Advance(ctx, b.res.Process.ID, artifact)
}

// inStatus lists the fixture's applications currently in status.
func (b *builder) inStatus(ctx context.Context, status models.ApplicationStatus) ([]string, error) {
	apps, err := b.svc.Applications.ListByProcess(ctx, b.res.Process.ID, status)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(apps))
	for i, a := range apps {
		ids[i] = a.ID
	}
	return ids, nil
}

// rank returns the fixture index of an application.
func (b *builder) rank(id string) int {
	for i, a := range b.res.Applications {
		if a.ID == id {
			return i
		}
	}
	return len(b.res.Applications)
}

func (b *builder) tor(ctx context.Context) error {
	proc, err := b.svc.Processes.Create(ctx, services.CreateProcessInput{
		PositionTitle:     b.opts.PositionTitle,
		Department:        "Programmes",
		DutyStation:       "Nairobi",
		NumberOfPositions: 1,
		HiringApproach:    models.HiringApproachOpenCompetition,
		ContractType:      models.ContractTypeFixedTerm,
		TOR: services.TORInput{
			Title:      b.opts.PositionTitle,
			Background: "Support delivery of field programmes.",
			Responsibilities: []models.Responsibility{
				{Title: "Coordinate programme activities"},
				{Title: "Report to donors"},
			},
			RequiredSkills: []models.Skill{
				{Name: "Project management", Level: "advanced", Required: true},
			},
			Languages: []models.LanguageProficiency{
				{Language: "English", Level: "fluent"},
			},
		},
	})
	if err != nil {
		return err
	}
	b.res.Process = proc

	if b.opts.Through < models.StageRequisition {
		return nil
	}
	if _, err := b.svc.Processes.SubmitTOR(ctx, proc.ID); err != nil {
		return err
	}
	_, err = b.svc.Processes.ReviewTOR(ctx, proc.ID, services.ReviewInput{Approved: true, Reviewer: "Head of Programmes"})
	return err
}

func (b *builder) requisition(ctx context.Context) error {
	if _, err := b.advance(ctx, services.RequisitionInput{
		Grade:         "P3",
		BudgetLine:    "PRG-2024-001",
		Justification: "New programme funding",
	}); err != nil {
		return err
	}
	_, err := b.svc.Processes.SubmitRequisition(ctx, b.res.Process.ID)
	return err
}

func (b *builder) requisitionReview(ctx context.Context) error {
	_, err := b.advance(ctx, services.RequisitionReviewInput{
		Reviewer:       "HR Manager",
		HRVerified:     true,
		BudgetVerified: true,
		Approved:       true,
	})
	return err
}

func (b *builder) announcement(ctx context.Context) error {
	if _, err := b.advance(ctx, services.AnnouncementInput{
		Title:       b.opts.PositionTitle,
		Description: "Vacancy announcement",
		Channels:    []string{"website", "job_board"},
		ClosingDate: b.opts.Now.AddDate(0, 0, 30),
	}); err != nil {
		return err
	}
	_, err := b.svc.Processes.PublishAnnouncement(ctx, b.res.Process.ID)
	return err
}

func (b *builder) applications(ctx context.Context) error {
	if _, err := b.advance(ctx, services.IntakeInput{OpenedBy: "HR Officer"}); err != nil {
		return err
	}
	for i := 0; i < b.opts.Candidates; i++ {
		appliedAt := b.opts.Now.Add(time.Duration(i) * time.Hour)
		app, err := b.svc.Applications.Receive(ctx, services.ReceiveApplicationInput{
			RecruitmentID: b.res.Process.ID,
			Candidate: services.CandidateInput{
				FirstName: "Candidate",
				LastName:  fmt.Sprintf("%02d", i+1),
				Email:     fmt.Sprintf("%s.candidate%02d@%s", b.res.Process.ID[:8], i+1, b.opts.EmailDomain),
			},
			AppliedAt: &appliedAt,
		})
		if err != nil {
			return err
		}
		b.res.Applications = append(b.res.Applications, *app)
	}
	return nil
}

func (b *builder) committee(ctx context.Context) error {
	res, err := b.advance(ctx, services.CommitteeInput{Members: []services.CommitteeMemberInput{
		{Name: "Chair", Role: models.CommitteeRoleChair},
		{Name: "HR Representative", Role: models.CommitteeRoleHR},
		{Name: "Technical Expert", Role: models.CommitteeRoleTechnical},
	}})
	if err != nil {
		return err
	}
	committee := res.Artifact.(*models.Committee)
	for _, m := range committee.Members {
		committee, err = b.svc.Committees.DeclareConflict(ctx, b.res.Process.ID, m.ID, services.ConflictInput{})
		if err != nil {
			return err
		}
	}
	b.res.Committee = committee
	return nil
}

func (b *builder) longlisting(ctx context.Context) error {
	if _, err := b.advance(ctx, services.LonglistingInput{Criteria: []string{"Relevant degree", "Five years experience"}}); err != nil {
		return err
	}
	ids, err := b.inStatus(ctx, models.ApplicationStatusReceived)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := b.svc.Selection.RecordLonglisting(ctx, services.LonglistingDecision{
			RecruitmentID: b.res.Process.ID,
			ApplicationID: id,
			IsLonglisted:  true,
		}); err != nil {
			return err
		}
	}
	_, err = b.svc.Selection.CompleteLonglisting(ctx, b.res.Process.ID)
	return err
}

func (b *builder) shortlisting(ctx context.Context) error {
	if _, err := b.advance(ctx, services.ShortlistingInput{
		AcademicWeight:   0.2,
		ExperienceWeight: 0.3,
		OtherWeight:      0.5,
		PassingScore:     60,
	}); err != nil {
		return err
	}
	ids, err := b.inStatus(ctx, models.ApplicationStatusLonglisted)
	if err != nil {
		return err
	}
	for _, id := range ids {
		score := math.Max(0, 85-5*float64(b.rank(id)))
		if _, err := b.svc.Selection.ScoreShortlisting(ctx, services.ShortlistingDecision{
			RecruitmentID: b.res.Process.ID,
			ApplicationID: id,
			Scores:        services.ShortlistingScores{Academic: score, Experience: score, Other: score},
		}); err != nil {
			return err
		}
	}
	_, err = b.svc.Selection.CompleteShortlisting(ctx, b.res.Process.ID)
	return err
}

func (b *builder) writtenTest(ctx context.Context) error {
	if _, err := b.advance(ctx, services.WrittenTestInput{
		TestDate:     b.opts.Now.AddDate(0, 0, 40),
		Venue:        "Main office",
		TotalMarks:   100,
		PassingMarks: 50,
	}); err != nil {
		return err
	}
	ids, err := b.inStatus(ctx, models.ApplicationStatusShortlisted)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := b.svc.Selection.RecordTestResult(ctx, services.TestResult{
			RecruitmentID: b.res.Process.ID,
			ApplicationID: id,
			MarksObtained: math.Max(0, 90-4*float64(b.rank(id))),
		}); err != nil {
			return err
		}
	}
	_, err = b.svc.Selection.MarkTestEvaluated(ctx, b.res.Process.ID)
	return err
}

func (b *builder) interview(ctx context.Context) error {
	if _, err := b.advance(ctx, services.InterviewInput{
		InterviewDate: b.opts.Now.AddDate(0, 0, 50),
		Venue:         "Main office",
		PassingMarks:  12.5,
	}); err != nil {
		return err
	}
	ids, err := b.inStatus(ctx, models.ApplicationStatusTested)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no candidate passed the written test")
	}
	if _, err := b.svc.Selection.SelectForInterview(ctx, b.res.Process.ID, ids); err != nil {
		return err
	}
	for _, id := range ids {
		dim := math.Max(0, 4.5-0.5*float64(b.rank(id)))
		for _, m := range b.res.Committee.Members {
			if _, err := b.svc.Selection.RecordInterviewEvaluation(ctx, services.InterviewEvaluationInput{
				RecruitmentID: b.res.Process.ID,
				ApplicationID: id,
				EvaluatorID:   m.ID,
				Scores: services.DimensionScores{
					Technical:           dim,
					Communication:       dim,
					ProblemSolving:      dim,
					ExperienceRelevance: dim,
					CulturalFit:         dim,
				},
			}); err != nil {
				return err
			}
		}
	}
	_, err = b.svc.Selection.MarkInterviewEvaluated(ctx, b.res.Process.ID)
	return err
}

func (b *builder) report(ctx context.Context) error {
	if _, err := b.advance(ctx, services.ReportInput{Summary: "Panel recommendation"}); err != nil {
		return err
	}
	report, err := b.svc.Processes.ApproveReport(ctx, b.res.Process.ID, "Head of Programmes")
	if err != nil {
		return err
	}
	b.res.Report = report
	return nil
}

func (b *builder) offer(ctx context.Context) error {
	if len(b.res.Report.Rankings) == 0 {
		return fmt.Errorf("recruitment report ranks no candidates")
	}
	res, err := b.advance(ctx, services.OfferInput{
		ApplicationID: b.res.Report.Rankings[0].ApplicationID,
		Grade:         "P3",
		MonthlySalary: 6500,
		Currency:      "USD",
		StartDate:     b.opts.Now.AddDate(0, 2, 0),
	})
	if err != nil {
		return err
	}
	offer := res.Artifact.(*models.Offer)
	if _, err := b.svc.Compliance.SendOffer(ctx, offer.ID); err != nil {
		return err
	}
	b.res.Offer, err = b.svc.Compliance.RespondToOffer(ctx, offer.ID, services.OfferResponse{Accepted: true})
	return err
}

func (b *builder) sanction(ctx context.Context) error {
	res, err := b.advance(ctx, services.SanctionInput{
		ApplicationID:     b.res.Offer.ApplicationID,
		DeclaredNoListing: true,
		ListsScreened:     []string{"UN Security Council Consolidated List"},
	})
	if err != nil {
		return err
	}
	b.res.Sanction, err = b.svc.Compliance.ReviewSanction(ctx, res.Artifact.Meta().ID, services.SanctionReview{
		Cleared:    true,
		ReviewedBy: "Compliance Officer",
	})
	return err
}

func (b *builder) backgroundCheck(ctx context.Context) error {
	res, err := b.advance(ctx, services.BackgroundCheckInput{
		ApplicationID: b.res.Offer.ApplicationID,
		References: []services.ReferenceInput{
			{Name: "First Referee", Contact: "referee1@" + b.opts.EmailDomain},
			{Name: "Second Referee", Contact: "referee2@" + b.opts.EmailDomain},
		},
	})
	if err != nil {
		return err
	}
	check := res.Artifact.(*models.BackgroundCheck)
	for _, ref := range check.References {
		if _, err := b.svc.Compliance.UpdateReference(ctx, check.ID, ref.ID, services.ReferenceUpdate{Status: models.ReferenceStatusVerified}); err != nil {
			return err
		}
	}
	if _, err := b.svc.Compliance.UpdateBackgroundCheck(ctx, check.ID, services.BackgroundCheckUpdate{
		GuaranteeLetter: ptr(models.GuaranteeLetterVerified),
		HomeAddress:     ptr(models.AddressCheckVerified),
		CriminalCheck:   ptr(models.CriminalCheckCleared),
	}); err != nil {
		return err
	}
	b.res.BackgroundCheck, err = b.svc.Compliance.CompleteBackgroundCheck(ctx, check.ID)
	return err
}

func (b *builder) contract(ctx context.Context) error {
	res, err := b.advance(ctx, services.ContractInput{ApplicationID: b.res.Offer.ApplicationID})
	if err != nil {
		return err
	}
	contractID := res.Artifact.Meta().ID
	if _, err := b.svc.Compliance.SignContract(ctx, contractID, services.SignatureInput{Party: services.PartyEmployee}); err != nil {
		return err
	}
	b.res.Contract, err = b.svc.Compliance.SignContract(ctx, contractID, services.SignatureInput{
		Party:     services.PartyEmployer,
		Signatory: "Country Director",
	})
	if err != nil {
		return err
	}
	b.res.Hired, err = b.svc.Compliance.Hire(ctx, b.res.Offer.ApplicationID)
	return err
}

func (b *builder) complete(ctx context.Context) error {
	if _, err := b.svc.Checklists.Create(ctx, b.res.Process.ID); err != nil {
		return err
	}
	var err error
	for _, item := range models.ChecklistItems() {
		b.res.Checklist, err = b.svc.Checklists.SetItem(ctx, b.res.Process.ID, item, true)
		if err != nil {
			return err
		}
	}
	_, err = b.svc.Processes.Complete(ctx, b.res.Process.ID)
	return err
}

func ptr[T any](v T) *T {
	return &v
}
