package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

func TestShortlisting_WeightedScoreDecides(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageLonglisting, 2)
		id := res.Process.ID

		_, err := svc.Processes.Advance(ctx, id, services.ShortlistingInput{
			AcademicWeight:   0.2,
			ExperienceWeight: 0.3,
			OtherWeight:      0.5,
			PassingScore:     60,
		})
		require.NoError(t, err)

		pass, err := svc.Selection.ScoreShortlisting(ctx, services.ShortlistingDecision{
			RecruitmentID: id,
			ApplicationID: res.Applications[0].ID,
			Scores:        services.ShortlistingScores{Academic: 80, Experience: 75, Other: 85},
		})
		require.NoError(t, err)
		assert.InDelta(t, 81.0, pass.TotalScore, 1e-9)
		assert.True(t, pass.IsShortlisted)

		fail, err := svc.Selection.ScoreShortlisting(ctx, services.ShortlistingDecision{
			RecruitmentID: id,
			ApplicationID: res.Applications[1].ID,
			Scores:        services.ShortlistingScores{Academic: 50, Experience: 50, Other: 50},
		})
		require.NoError(t, err)
		assert.False(t, fail.IsShortlisted)

		app, err := svc.Applications.Get(ctx, res.Applications[0].ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusShortlisted, app.Status)

		app, err = svc.Applications.Get(ctx, res.Applications[1].ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusRejected, app.Status)
		require.NotNil(t, app.StatusReason)
		assert.Contains(t, *app.StatusReason, "below passing score")
	})
}

func TestShortlisting_ScoresOutOfRange(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		res := buildThrough(t, svc, models.StageShortlisting, 1)

		_, err := svc.Selection.ScoreShortlisting(context.Background(), services.ShortlistingDecision{
			RecruitmentID: res.Process.ID,
			ApplicationID: res.Applications[0].ID,
			Scores:        services.ShortlistingScores{Academic: 120},
		})
		ve := requireValidation(t, err)
		assert.Equal(t, "academic_score", ve.Field)
	})
}

func TestLonglisting_DecisionsDriveTransitions(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageCommittee, 3)
		id := res.Process.ID

		_, err := svc.Processes.Advance(ctx, id, services.LonglistingInput{})
		require.NoError(t, err)

		_, err = svc.Selection.RecordLonglisting(ctx, services.LonglistingDecision{RecruitmentID: id, ApplicationID: res.Applications[0].ID, IsLonglisted: true})
		require.NoError(t, err)
		_, err = svc.Selection.RecordLonglisting(ctx, services.LonglistingDecision{RecruitmentID: id, ApplicationID: res.Applications[1].ID, IsLonglisted: false})
		require.NoError(t, err)

		_, err = svc.Selection.RecordLonglisting(ctx, services.LonglistingDecision{RecruitmentID: id, ApplicationID: res.Applications[0].ID, IsLonglisted: false})
		requireInvalidTransition(t, err)
		app, err := svc.Applications.Get(ctx, res.Applications[0].ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusLonglisted, app.Status, "a second decision must not change status")

		_, err = svc.Selection.CompleteLonglisting(ctx, id)
		pe := requirePrecondition(t, err)
		assert.Contains(t, pe.Condition, "1 received applications")

		_, err = svc.Applications.Withdraw(ctx, res.Applications[2].ID, "accepted another job")
		require.NoError(t, err)

		round, err := svc.Selection.CompleteLonglisting(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.RoundStatusCompleted, round.Status)

		_, err = svc.Selection.RecordLonglisting(ctx, services.LonglistingDecision{RecruitmentID: id, ApplicationID: res.Applications[2].ID, IsLonglisted: true})
		requirePrecondition(t, err)
	})
}

func TestLonglisting_ApplicationFromAnotherRecruitment(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		first := buildThrough(t, svc, models.StageCommittee, 1)
		second := buildThrough(t, svc, models.StageApplicationReceipt, 1)

		_, err := svc.Processes.Advance(ctx, first.Process.ID, services.LonglistingInput{})
		require.NoError(t, err)

		_, err = svc.Selection.RecordLonglisting(ctx, services.LonglistingDecision{
			RecruitmentID: first.Process.ID,
			ApplicationID: second.Applications[0].ID,
			IsLonglisted:  true,
		})
		ve := requireValidation(t, err)
		assert.Equal(t, "application_id", ve.Field)
	})
}

func TestWrittenTest_Results(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageShortlisting, 2)
		id := res.Process.ID

		_, err := svc.Processes.Advance(ctx, id, services.WrittenTestInput{
			TestDate:     time.Now(),
			TotalMarks:   50,
			PassingMarks: 25,
		})
		require.NoError(t, err)

		_, err = svc.Selection.RecordTestResult(ctx, services.TestResult{RecruitmentID: id, ApplicationID: res.Applications[0].ID, MarksObtained: 51})
		requireValidation(t, err)

		passed, err := svc.Selection.RecordTestResult(ctx, services.TestResult{RecruitmentID: id, ApplicationID: res.Applications[0].ID, MarksObtained: 42})
		require.NoError(t, err)
		assert.True(t, passed.IsPassed)
		assert.InDelta(t, 84.0, passed.Score, 1e-9)

		_, err = svc.Selection.MarkTestEvaluated(ctx, id)
		requirePrecondition(t, err)

		failed, err := svc.Selection.RecordTestResult(ctx, services.TestResult{RecruitmentID: id, ApplicationID: res.Applications[1].ID, MarksObtained: 20})
		require.NoError(t, err)
		assert.False(t, failed.IsPassed)

		test, err := svc.Selection.MarkTestEvaluated(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.RoundStatusEvaluated, test.Status)

		app, err := svc.Applications.Get(ctx, res.Applications[1].ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusRejected, app.Status)
	})
}

func scores(technical, communication, problemSolving, experience, fit float64) services.DimensionScores {
	return services.DimensionScores{
		Technical:           technical,
		Communication:       communication,
		ProblemSolving:      problemSolving,
		ExperienceRelevance: experience,
		CulturalFit:         fit,
	}
}

func TestInterview_CombinedScore(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageShortlisting, 1)
		id := res.Process.ID
		appID := res.Applications[0].ID

		_, err := svc.Processes.Advance(ctx, id, services.WrittenTestInput{TestDate: time.Now(), TotalMarks: 100, PassingMarks: 50})
		require.NoError(t, err)
		_, err = svc.Selection.RecordTestResult(ctx, services.TestResult{RecruitmentID: id, ApplicationID: appID, MarksObtained: 84})
		require.NoError(t, err)
		_, err = svc.Selection.MarkTestEvaluated(ctx, id)
		require.NoError(t, err)

		_, err = svc.Processes.Advance(ctx, id, services.InterviewInput{InterviewDate: time.Now(), PassingMarks: 15})
		require.NoError(t, err)

		_, err = svc.Processes.Advance(ctx, id, services.ReportInput{})
		requirePrecondition(t, err)

		selected, err := svc.Selection.SelectForInterview(ctx, id, []string{appID})
		require.NoError(t, err)
		require.Len(t, selected, 1)
		assert.InDelta(t, 84.0, selected[0].WrittenTestScore, 1e-9)

		sheets := []services.DimensionScores{
			scores(4, 4, 4, 3, 3),
			scores(4, 4, 4, 4, 4),
			scores(4, 4, 4, 4, 3),
		}
		var candidate *models.InterviewCandidate
		for i, member := range res.Committee.Members {
			candidate, err = svc.Selection.RecordInterviewEvaluation(ctx, services.InterviewEvaluationInput{
				RecruitmentID: id,
				ApplicationID: appID,
				EvaluatorID:   member.ID,
				Scores:        sheets[i],
			})
			require.NoError(t, err)
		}

		require.Len(t, candidate.Evaluations, 3)
		assert.InDelta(t, 19.0, candidate.AverageScore, 1e-9)
		assert.InDelta(t, 76.0, candidate.NormalizedScore, 1e-9)
		assert.InDelta(t, 80.0, candidate.CombinedScore, 1e-9)
		assert.True(t, candidate.IsPassed)

		_, err = svc.Selection.RecordInterviewEvaluation(ctx, services.InterviewEvaluationInput{
			RecruitmentID: id,
			ApplicationID: appID,
			EvaluatorID:   res.Committee.Members[0].ID,
			Scores:        scores(5, 5, 5, 5, 5),
		})
		requirePrecondition(t, err)

		_, err = svc.Selection.MarkInterviewEvaluated(ctx, id)
		require.NoError(t, err)

		adv, err := svc.Processes.Advance(ctx, id, services.ReportInput{Summary: "one candidate"})
		require.NoError(t, err)
		report := adv.Artifact.(*models.RecruitmentReport)
		require.Len(t, report.Rankings, 1)
		assert.Equal(t, appID, report.Rankings[0].ApplicationID)
		assert.InDelta(t, 80.0, report.Rankings[0].CombinedScore, 1e-9)
		assert.True(t, report.Rankings[0].Recommended)
		assert.Equal(t, string(services.TieBreakNone), report.TieBreak)
	})
}

func TestInterview_EvaluatorMustBeCommitteeMember(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageWrittenTest, 1)
		id := res.Process.ID

		_, err := svc.Processes.Advance(ctx, id, services.InterviewInput{InterviewDate: time.Now(), PassingMarks: 10})
		require.NoError(t, err)
		_, err = svc.Selection.SelectForInterview(ctx, id, []string{res.Applications[0].ID})
		require.NoError(t, err)

		_, err = svc.Selection.RecordInterviewEvaluation(ctx, services.InterviewEvaluationInput{
			RecruitmentID: id,
			ApplicationID: res.Applications[0].ID,
			EvaluatorID:   "outsider",
			Scores:        scores(3, 3, 3, 3, 3),
		})
		ve := requireValidation(t, err)
		assert.Equal(t, "evaluator_id", ve.Field)
	})
}

func TestSelectForInterview_ChecksWholeListFirst(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageWrittenTest, 2)
		id := res.Process.ID

		_, err := svc.Processes.Advance(ctx, id, services.InterviewInput{InterviewDate: time.Now(), PassingMarks: 10})
		require.NoError(t, err)

		_, err = svc.Applications.Reject(ctx, res.Applications[1].ID, "failed reference screening")
		require.NoError(t, err)

		_, err = svc.Selection.SelectForInterview(ctx, id, []string{res.Applications[0].ID, res.Applications[1].ID})
		requireInvalidTransition(t, err)

		app, err := svc.Applications.Get(ctx, res.Applications[0].ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusTested, app.Status, "no selection is applied when the list is invalid")

		_, err = svc.Selection.SelectForInterview(ctx, id, []string{res.Applications[0].ID, res.Applications[0].ID})
		requireValidation(t, err)

		_, err = svc.Selection.SelectForInterview(ctx, id, nil)
		requireValidation(t, err)
	})
}

func TestTieBreakPolicyIsConfigurable(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		ctx := context.Background()
		svc, store := newServices(t, open)
		res := buildThrough(t, svc, models.StageWrittenTest, 2)
		id := res.Process.ID

		ranked := services.New(store, nil, services.Options{TieBreak: services.TieBreakEarliestApplication})
		_, err := ranked.Processes.Advance(ctx, id, services.InterviewInput{InterviewDate: time.Now(), PassingMarks: 10})
		require.NoError(t, err)

		appIDs := []string{res.Applications[0].ID, res.Applications[1].ID}
		_, err = svc.Selection.SelectForInterview(ctx, id, appIDs)
		require.NoError(t, err)

		// Written scores are 90 and 86; interview totals of 19 and 20 bring
		// both combined scores to 83.
		sheets := map[string]services.DimensionScores{
			appIDs[0]: scores(4, 4, 4, 4, 3),
			appIDs[1]: scores(4, 4, 4, 4, 4),
		}
		for _, appID := range appIDs {
			for _, m := range res.Committee.Members {
				_, err := svc.Selection.RecordInterviewEvaluation(ctx, services.InterviewEvaluationInput{
					RecruitmentID: id,
					ApplicationID: appID,
					EvaluatorID:   m.ID,
					Scores:        sheets[appID],
				})
				require.NoError(t, err)
			}
		}
		_, err = svc.Selection.MarkInterviewEvaluated(ctx, id)
		require.NoError(t, err)

		adv, err := ranked.Processes.Advance(ctx, id, services.ReportInput{})
		require.NoError(t, err)
		report := adv.Artifact.(*models.RecruitmentReport)
		assert.Equal(t, string(services.TieBreakEarliestApplication), report.TieBreak)
		require.Len(t, report.Rankings, 2)
		assert.InDelta(t, 83.0, report.Rankings[0].CombinedScore, 1e-6)
		assert.InDelta(t, 83.0, report.Rankings[1].CombinedScore, 1e-6)
		assert.Equal(t, appIDs[0], report.Rankings[0].ApplicationID)
		assert.Equal(t, 1, report.Rankings[0].Rank)
		assert.Equal(t, 2, report.Rankings[1].Rank)
		assert.False(t, report.Rankings[1].Tied)
	})
}

func TestInterview_ExplicitZeroWeightDropsWrittenTest(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageShortlisting, 1)
		id := res.Process.ID
		appID := res.Applications[0].ID

		adv, err := svc.Processes.Advance(ctx, id, services.WrittenTestInput{
			TestDate:     time.Now(),
			TotalMarks:   100,
			PassingMarks: 50,
			Weight:       ptr(0.0),
		})
		require.NoError(t, err)
		assert.Zero(t, adv.Artifact.(*models.WrittenTest).Weight)

		_, err = svc.Selection.RecordTestResult(ctx, services.TestResult{RecruitmentID: id, ApplicationID: appID, MarksObtained: 84})
		require.NoError(t, err)
		_, err = svc.Selection.MarkTestEvaluated(ctx, id)
		require.NoError(t, err)

		adv, err = svc.Processes.Advance(ctx, id, services.InterviewInput{InterviewDate: time.Now(), PassingMarks: 15})
		require.NoError(t, err)
		assert.InDelta(t, services.DefaultStageWeight, adv.Artifact.(*models.InterviewRound).Weight, 1e-9)

		_, err = svc.Selection.SelectForInterview(ctx, id, []string{appID})
		require.NoError(t, err)

		var candidate *models.InterviewCandidate
		for _, member := range res.Committee.Members {
			candidate, err = svc.Selection.RecordInterviewEvaluation(ctx, services.InterviewEvaluationInput{
				RecruitmentID: id,
				ApplicationID: appID,
				EvaluatorID:   member.ID,
				Scores:        scores(4, 4, 4, 4, 3),
			})
			require.NoError(t, err)
		}

		assert.InDelta(t, 76.0, candidate.NormalizedScore, 1e-9)
		assert.InDelta(t, 76.0, candidate.CombinedScore, 1e-9)
	})
}

func TestWrittenTest_WeightOutOfRange(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		res := buildThrough(t, svc, models.StageShortlisting, 1)

		_, err := svc.Processes.Advance(context.Background(), res.Process.ID, services.WrittenTestInput{
			TestDate:     time.Now(),
			TotalMarks:   100,
			PassingMarks: 50,
			Weight:       ptr(1.5),
		})
		ve := requireValidation(t, err)
		assert.Equal(t, "weight", ve.Field)
	})
}
