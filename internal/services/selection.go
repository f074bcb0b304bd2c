package services

import (
	"context"
	"fmt"
	"log/slog"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

// SelectionService records the per-candidate decisions of the screening
// stages. Each decision record drives exactly one application transition.
type SelectionService interface {
	RecordLonglisting(ctx context.Context, input LonglistingDecision) (*models.LonglistingCandidate, error)
	CompleteLonglisting(ctx context.Context, processID string) (*models.LonglistingRound, error)
	ScoreShortlisting(ctx context.Context, input ShortlistingDecision) (*models.ShortlistingCandidate, error)
	CompleteShortlisting(ctx context.Context, processID string) (*models.ShortlistingRound, error)
	RecordTestResult(ctx context.Context, input TestResult) (*models.WrittenTestCandidate, error)
	MarkTestEvaluated(ctx context.Context, processID string) (*models.WrittenTest, error)
	SelectForInterview(ctx context.Context, processID string, applicationIDs []string) ([]models.InterviewCandidate, error)
	RecordInterviewEvaluation(ctx context.Context, input InterviewEvaluationInput) (*models.InterviewCandidate, error)
	MarkInterviewEvaluated(ctx context.Context, processID string) (*models.InterviewRound, error)
}

type LonglistingDecision struct {
	RecruitmentID string `json:"recruitment_id" validate:"required"`
	ApplicationID string `json:"application_id" validate:"required"`
	IsLonglisted  bool   `json:"is_longlisted"`
	Remarks       string `json:"remarks"`
}

type ShortlistingDecision struct {
	RecruitmentID string             `json:"recruitment_id" validate:"required"`
	ApplicationID string             `json:"application_id" validate:"required"`
	Scores        ShortlistingScores `json:"scores"`
	Remarks       string             `json:"remarks"`
}

type TestResult struct {
	RecruitmentID string  `json:"recruitment_id" validate:"required"`
	ApplicationID string  `json:"application_id" validate:"required"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	Remarks       string  `json:"remarks"`
}

type InterviewEvaluationInput struct {
	RecruitmentID string          `json:"recruitment_id" validate:"required"`
	ApplicationID string          `json:"application_id" validate:"required"`
	EvaluatorID   string          `json:"evaluator_id" validate:"required"`
	Scores        DimensionScores `json:"scores"`
	Comments      string          `json:"comments"`
}

type selectionService struct {
	store  repositories.Store
	logger *slog.Logger
}

func NewSelectionService(store repositories.Store, logger *slog.Logger) SelectionService {
	return &selectionService{store: store, logger: logger}
}

// decisionTarget loads the application a decision is about. The application
// must be waiting for the stage's forward event, and a second decision for it
// in the same stage is refused.
func decisionTarget[T any, PT repositories.RecordPtr[T]](ctx context.Context, tx repositories.Store, processID, applicationID string, event ApplicationEvent, stage string) (*models.CandidateApplication, error) {
	app, err := applicationInProcess(ctx, tx, processID, applicationID)
	if err != nil {
		return nil, err
	}
	if forwardEdges[app.Status] != event {
		return nil, statusError("application", app.ID, app.Status, EventTarget(event))
	}
	existing, err := applicationArtifact[T, PT](ctx, tx, app.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, preconditionf("application already has a %s decision", stage)
	}
	return app, nil
}

// countInStatus counts the applications of a process still in status.
func countInStatus(ctx context.Context, tx repositories.Store, processID string, status models.ApplicationStatus) (int, error) {
	apps, err := repositories.Table[models.CandidateApplication](tx).GetByIndex(ctx, models.IndexRecruitmentID, processID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range apps {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

// RecordLonglisting implements SelectionService.
func (s *selectionService) RecordLonglisting(ctx context.Context, input LonglistingDecision) (*models.LonglistingCandidate, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var rec *models.LonglistingCandidate
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		if _, err := activeProcess(ctx, tx, input.RecruitmentID); err != nil {
			return err
		}
		round, err := requireArtifact[models.LonglistingRound](ctx, tx, input.RecruitmentID, "longlisting round")
		if err != nil {
			return err
		}
		if round.Status != models.RoundStatusInProgress {
			return preconditionf("longlisting round is %s", round.Status)
		}
		app, err := decisionTarget[models.LonglistingCandidate](ctx, tx, input.RecruitmentID, input.ApplicationID, EventLonglist, "longlisting")
		if err != nil {
			return err
		}

		rec = &models.LonglistingCandidate{
			RoundID:       round.ID,
			ApplicationID: app.ID,
			IsLonglisted:  input.IsLonglisted,
			Remarks:       input.Remarks,
		}
		if err := repositories.Table[models.LonglistingCandidate](tx).Create(ctx, rec); err != nil {
			return err
		}

		event, reason := EventLonglist, ""
		if !rec.IsLonglisted {
			event, reason = EventReject, "not longlisted"
		}
		_, err = transitionApplication(ctx, tx, s.logger, app.ID, event, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CompleteLonglisting implements SelectionService. Every received
// application must have a decision first.
func (s *selectionService) CompleteLonglisting(ctx context.Context, processID string) (*models.LonglistingRound, error) {
	return completeRound[models.LonglistingRound](ctx, s.store, processID, "longlisting round",
		models.ApplicationStatusReceived, "longlisting",
		func(r *models.LonglistingRound) error {
			if r.Status != models.RoundStatusInProgress {
				return statusError("longlisting_round", r.ID, r.Status, models.RoundStatusCompleted)
			}
			r.Status = models.RoundStatusCompleted
			r.CompletedAt = ptr(timestamp())
			return nil
		})
}

// ScoreShortlisting implements SelectionService. The weighted total is
// compared with the round's passing score.
func (s *selectionService) ScoreShortlisting(ctx context.Context, input ShortlistingDecision) (*models.ShortlistingCandidate, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var rec *models.ShortlistingCandidate
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		if _, err := activeProcess(ctx, tx, input.RecruitmentID); err != nil {
			return err
		}
		round, err := requireArtifact[models.ShortlistingRound](ctx, tx, input.RecruitmentID, "shortlisting round")
		if err != nil {
			return err
		}
		if round.Status != models.RoundStatusInProgress {
			return preconditionf("shortlisting round is %s", round.Status)
		}
		app, err := decisionTarget[models.ShortlistingCandidate](ctx, tx, input.RecruitmentID, input.ApplicationID, EventShortlist, "shortlisting")
		if err != nil {
			return err
		}

		weights := ShortlistingWeights{Academic: round.AcademicWeight, Experience: round.ExperienceWeight, Other: round.OtherWeight}
		total := weights.Composite(input.Scores)
		rec = &models.ShortlistingCandidate{
			RoundID:            round.ID,
			ApplicationID:      app.ID,
			AcademicScore:      input.Scores.Academic,
			ExperienceScore:    input.Scores.Experience,
			OtherCriteriaScore: input.Scores.Other,
			TotalScore:         total,
			IsShortlisted:      Passes(total, round.PassingScore),
			Remarks:            input.Remarks,
		}
		if err := repositories.Table[models.ShortlistingCandidate](tx).Create(ctx, rec); err != nil {
			return err
		}

		event, reason := EventShortlist, ""
		if !rec.IsShortlisted {
			event = EventReject
			reason = fmt.Sprintf("shortlisting score %.2f below passing score %.2f", total, round.PassingScore)
		}
		_, err = transitionApplication(ctx, tx, s.logger, app.ID, event, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CompleteShortlisting implements SelectionService.
func (s *selectionService) CompleteShortlisting(ctx context.Context, processID string) (*models.ShortlistingRound, error) {
	return completeRound[models.ShortlistingRound](ctx, s.store, processID, "shortlisting round",
		models.ApplicationStatusLonglisted, "shortlisting",
		func(r *models.ShortlistingRound) error {
			if r.Status != models.RoundStatusInProgress {
				return statusError("shortlisting_round", r.ID, r.Status, models.RoundStatusCompleted)
			}
			r.Status = models.RoundStatusCompleted
			r.CompletedAt = ptr(timestamp())
			return nil
		})
}

// RecordTestResult implements SelectionService. The pass mark applies to
// raw marks; the stored score is normalised to 0..100.
func (s *selectionService) RecordTestResult(ctx context.Context, input TestResult) (*models.WrittenTestCandidate, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var rec *models.WrittenTestCandidate
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		if _, err := activeProcess(ctx, tx, input.RecruitmentID); err != nil {
			return err
		}
		test, err := requireArtifact[models.WrittenTest](ctx, tx, input.RecruitmentID, "written test")
		if err != nil {
			return err
		}
		if test.Status != models.RoundStatusScheduled {
			return preconditionf("written test is %s", test.Status)
		}
		if input.MarksObtained > test.TotalMarks {
			return &ValidationError{Field: "marks_obtained", Message: fmt.Sprintf("must not exceed total marks %.2f", test.TotalMarks)}
		}
		app, err := decisionTarget[models.WrittenTestCandidate](ctx, tx, input.RecruitmentID, input.ApplicationID, EventPassWrittenTest, "written test")
		if err != nil {
			return err
		}

		rec = &models.WrittenTestCandidate{
			RoundID:       test.ID,
			ApplicationID: app.ID,
			MarksObtained: input.MarksObtained,
			Score:         NormalizeWrittenScore(input.MarksObtained, test.TotalMarks),
			IsPassed:      Passes(input.MarksObtained, test.PassingMarks),
			Remarks:       input.Remarks,
		}
		if err := repositories.Table[models.WrittenTestCandidate](tx).Create(ctx, rec); err != nil {
			return err
		}

		event, reason := EventPassWrittenTest, ""
		if !rec.IsPassed {
			event = EventReject
			reason = fmt.Sprintf("written test marks %.2f below passing marks %.2f", input.MarksObtained, test.PassingMarks)
		}
		_, err = transitionApplication(ctx, tx, s.logger, app.ID, event, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// MarkTestEvaluated implements SelectionService.
func (s *selectionService) MarkTestEvaluated(ctx context.Context, processID string) (*models.WrittenTest, error) {
	return completeRound[models.WrittenTest](ctx, s.store, processID, "written test",
		models.ApplicationStatusShortlisted, "written test",
		func(t *models.WrittenTest) error {
			if t.Status != models.RoundStatusScheduled {
				return statusError("written_test", t.ID, t.Status, models.RoundStatusEvaluated)
			}
			t.Status = models.RoundStatusEvaluated
			t.EvaluatedAt = ptr(timestamp())
			return nil
		})
}

// completeRound closes a screening round once no application is left
// waiting in pending.
func completeRound[T any, PT repositories.RecordPtr[T]](ctx context.Context, store repositories.Store, processID, what string, pending models.ApplicationStatus, stage string, mutate func(*T) error) (*T, error) {
	var out *T
	err := store.Atomic(ctx, func(tx repositories.Store) error {
		if _, err := activeProcess(ctx, tx, processID); err != nil {
			return err
		}
		rec, err := requireArtifact[T, PT](ctx, tx, processID, what)
		if err != nil {
			return err
		}
		n, err := countInStatus(ctx, tx, processID, pending)
		if err != nil {
			return err
		}
		if n > 0 {
			return preconditionf("%d %s applications await a %s decision", n, pending, stage)
		}
		out, err = repositories.Table[T, PT](tx).Update(ctx, PT(rec).Meta().ID, mutate)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// selectable checks that an application can join the interview round and
// returns its written test result.
func selectable(ctx context.Context, tx repositories.Store, processID, applicationID string) (*models.WrittenTestCandidate, error) {
	app, err := applicationInProcess(ctx, tx, processID, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusTested {
		return nil, statusError("application", app.ID, app.Status, models.ApplicationStatusInterviewed)
	}
	result, err := applicationArtifact[models.WrittenTestCandidate](ctx, tx, app.ID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, missing("written test result")
	}
	return result, nil
}

// SelectForInterview implements SelectionService. The committee's list is
// checked as a whole before any application is touched; each selection is
// then committed on its own.
func (s *selectionService) SelectForInterview(ctx context.Context, processID string, applicationIDs []string) ([]models.InterviewCandidate, error) {
	if len(applicationIDs) == 0 {
		return nil, &ValidationError{Field: "application_ids", Message: "failed min=1"}
	}
	seen := make(map[string]bool, len(applicationIDs))
	for _, id := range applicationIDs {
		if id == "" || seen[id] {
			return nil, &ValidationError{Field: "application_ids", Message: "must be unique and non-empty"}
		}
		seen[id] = true
	}

	openRound := func(tx repositories.Store) (*models.InterviewRound, error) {
		if _, err := activeProcess(ctx, tx, processID); err != nil {
			return nil, err
		}
		round, err := requireArtifact[models.InterviewRound](ctx, tx, processID, "interview round")
		if err != nil {
			return nil, err
		}
		if round.Status != models.RoundStatusScheduled {
			return nil, preconditionf("interview round is %s", round.Status)
		}
		return round, nil
	}

	if _, err := openRound(s.store); err != nil {
		return nil, err
	}
	for _, id := range applicationIDs {
		if _, err := selectable(ctx, s.store, processID, id); err != nil {
			return nil, err
		}
	}

	selected := make([]models.InterviewCandidate, 0, len(applicationIDs))
	for _, id := range applicationIDs {
		var rec *models.InterviewCandidate
		err := s.store.Atomic(ctx, func(tx repositories.Store) error {
			round, err := openRound(tx)
			if err != nil {
				return err
			}
			result, err := selectable(ctx, tx, processID, id)
			if err != nil {
				return err
			}
			rec = &models.InterviewCandidate{
				RoundID:          round.ID,
				ApplicationID:    id,
				WrittenTestScore: result.Score,
			}
			if err := repositories.Table[models.InterviewCandidate](tx).Create(ctx, rec); err != nil {
				return err
			}
			_, err = transitionApplication(ctx, tx, s.logger, id, EventSelectForInterview, "")
			return err
		})
		if err != nil {
			return selected, err
		}
		selected = append(selected, *rec)
	}
	return selected, nil
}

// RecordInterviewEvaluation implements SelectionService. Scores are
// recomputed from every evaluation on file.
func (s *selectionService) RecordInterviewEvaluation(ctx context.Context, input InterviewEvaluationInput) (*models.InterviewCandidate, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var rec *models.InterviewCandidate
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		if _, err := activeProcess(ctx, tx, input.RecruitmentID); err != nil {
			return err
		}
		round, err := requireArtifact[models.InterviewRound](ctx, tx, input.RecruitmentID, "interview round")
		if err != nil {
			return err
		}
		if round.Status != models.RoundStatusScheduled {
			return preconditionf("interview round is %s", round.Status)
		}
		test, err := requireArtifact[models.WrittenTest](ctx, tx, input.RecruitmentID, "written test")
		if err != nil {
			return err
		}
		committee, err := requireArtifact[models.Committee](ctx, tx, input.RecruitmentID, "recruitment committee")
		if err != nil {
			return err
		}
		i := committee.Member(input.EvaluatorID)
		if i < 0 {
			return &ValidationError{Field: "evaluator_id", Message: "is not a committee member"}
		}
		evaluator := committee.Members[i]
		if !evaluator.Conflict.Cleared() {
			return preconditionf("committee member %s is not cleared of conflicts of interest", evaluator.Name)
		}

		app, err := applicationInProcess(ctx, tx, input.RecruitmentID, input.ApplicationID)
		if err != nil {
			return err
		}
		if app.Status != models.ApplicationStatusInterviewed {
			return preconditionf("application must be interviewed to be evaluated, is %s", app.Status)
		}
		candidate, err := applicationArtifact[models.InterviewCandidate](ctx, tx, app.ID)
		if err != nil {
			return err
		}
		if candidate == nil {
			return missing("interview selection")
		}

		rec, err = repositories.Table[models.InterviewCandidate](tx).Update(ctx, candidate.ID, func(c *models.InterviewCandidate) error {
			for _, e := range c.Evaluations {
				if e.EvaluatorID == evaluator.ID {
					return preconditionf("%s has already evaluated this candidate", evaluator.Name)
				}
			}
			c.Evaluations = append(c.Evaluations, models.InterviewEvaluation{
				EvaluatorID:         evaluator.ID,
				EvaluatorName:       evaluator.Name,
				Technical:           input.Scores.Technical,
				Communication:       input.Scores.Communication,
				ProblemSolving:      input.Scores.ProblemSolving,
				ExperienceRelevance: input.Scores.ExperienceRelevance,
				CulturalFit:         input.Scores.CulturalFit,
				Total:               input.Scores.Total(),
				Comments:            input.Comments,
			})
			return scoreInterview(c, round, test)
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func scoreInterview(c *models.InterviewCandidate, round *models.InterviewRound, test *models.WrittenTest) error {
	totals := make([]float64, len(c.Evaluations))
	for i, e := range c.Evaluations {
		totals[i] = e.Total
	}
	avg, err := AverageScore(totals)
	if err != nil {
		return err
	}
	c.AverageScore = avg
	c.NormalizedScore = NormalizeInterviewScore(avg)
	c.CombinedScore = CombineScores(c.NormalizedScore, round.Weight, c.WrittenTestScore, test.Weight)
	c.IsPassed = Passes(avg, round.PassingMarks)
	return nil
}

// MarkInterviewEvaluated implements SelectionService. Every candidate still
// interviewed needs at least one evaluation.
func (s *selectionService) MarkInterviewEvaluated(ctx context.Context, processID string) (*models.InterviewRound, error) {
	var out *models.InterviewRound
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		if _, err := activeProcess(ctx, tx, processID); err != nil {
			return err
		}
		round, err := requireArtifact[models.InterviewRound](ctx, tx, processID, "interview round")
		if err != nil {
			return err
		}
		candidates, err := repositories.Table[models.InterviewCandidate](tx).GetByIndex(ctx, models.IndexRoundID, round.ID)
		if err != nil {
			return err
		}

		active := 0
		for _, c := range candidates {
			app, err := repositories.Table[models.CandidateApplication](tx).GetByID(ctx, c.ApplicationID)
			if err != nil {
				return err
			}
			if app.Status != models.ApplicationStatusInterviewed {
				continue
			}
			active++
			if len(c.Evaluations) == 0 {
				return preconditionf("application %s has no interview evaluation", app.ID)
			}
		}
		if active == 0 {
			return preconditionf("no interviewed candidates to evaluate")
		}

		out, err = repositories.Table[models.InterviewRound](tx).Update(ctx, round.ID, func(r *models.InterviewRound) error {
			if r.Status != models.RoundStatusScheduled {
				return statusError("interview_round", r.ID, r.Status, models.RoundStatusEvaluated)
			}
			r.Status = models.RoundStatusEvaluated
			r.EvaluatedAt = ptr(timestamp())
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
