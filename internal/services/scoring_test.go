package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

func TestNewShortlistingWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights [3]float64
		wantErr bool
	}{
		{"sums to one", [3]float64{0.2, 0.3, 0.5}, false},
		{"within epsilon", [3]float64{0.2, 0.3, 0.5000005}, false},
		{"all on one criterion", [3]float64{0, 0, 1}, false},
		{"above one", [3]float64{0.5, 0.5, 0.1}, true},
		{"below one", [3]float64{0.2, 0.3, 0.4}, true},
		{"just outside epsilon", [3]float64{0.2, 0.3, 0.500002}, true},
		{"negative weight", [3]float64{-0.5, 0.5, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewShortlistingWeights(tt.weights[0], tt.weights[1], tt.weights[2])
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.weights[0], w.Academic)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestShortlistingComposite(t *testing.T) {
	w, err := NewShortlistingWeights(0.2, 0.3, 0.5)
	require.NoError(t, err)

	total := w.Composite(ShortlistingScores{Academic: 80, Experience: 75, Other: 85})
	assert.InDelta(t, 81.0, total, 1e-9)
	assert.True(t, Passes(total, 60))
	assert.False(t, Passes(total, 81.5))
}

func TestPassesToleratesRounding(t *testing.T) {
	assert.True(t, Passes(0.1+0.2, 0.3))
	assert.False(t, Passes(59.99, 60))
}

func TestInterviewScoring(t *testing.T) {
	avg, err := AverageScore([]float64{18, 20, 19})
	require.NoError(t, err)
	assert.InDelta(t, 19.0, avg, 1e-9)

	normalized := NormalizeInterviewScore(avg)
	assert.InDelta(t, 76.0, normalized, 1e-9)

	combined := CombineScores(normalized, DefaultStageWeight, 84, DefaultStageWeight)
	assert.InDelta(t, 80.0, combined, 1e-9)
}

func TestCombineScoresWeighted(t *testing.T) {
	assert.InDelta(t, 70.0, CombineScores(60, 0.5, 80, 0.5), 1e-9)
	assert.InDelta(t, 65.0, CombineScores(60, 0.75, 80, 0.25), 1e-9)
	assert.InDelta(t, 70.0, CombineScores(60, 0, 80, 0), 1e-9)
}

func TestAverageScoreRequiresEvaluations(t *testing.T) {
	_, err := AverageScore(nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "evaluations", ve.Field)
}

func TestDimensionScoresTotal(t *testing.T) {
	d := DimensionScores{Technical: 5, Communication: 4, ProblemSolving: 3.5, ExperienceRelevance: 4, CulturalFit: 2.5}
	assert.InDelta(t, 19.0, d.Total(), 1e-9)
	assert.Error(t, validateInput(DimensionScores{Technical: 6}))
	assert.NoError(t, validateInput(d))
}

func TestNormalizeWrittenScore(t *testing.T) {
	assert.InDelta(t, 84.0, NormalizeWrittenScore(42, 50), 1e-9)
	assert.Zero(t, NormalizeWrittenScore(42, 0))
}

func TestParseTieBreakPolicy(t *testing.T) {
	p, err := ParseTieBreakPolicy("")
	require.NoError(t, err)
	assert.Equal(t, TieBreakNone, p)

	p, err = ParseTieBreakPolicy("earliest_application")
	require.NoError(t, err)
	assert.Equal(t, TieBreakEarliestApplication, p)

	_, err = ParseTieBreakPolicy("coin_toss")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestRankCandidates(t *testing.T) {
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	inputs := []RankInput{
		{ApplicationID: "c", CombinedScore: 80, WrittenTestScore: 70, AppliedAt: day.Add(2 * time.Hour), Passed: true},
		{ApplicationID: "a", CombinedScore: 90, WrittenTestScore: 85, AppliedAt: day.Add(3 * time.Hour), Passed: true},
		{ApplicationID: "b", CombinedScore: 80, WrittenTestScore: 90, AppliedAt: day.Add(1 * time.Hour), Passed: true},
		{ApplicationID: "d", CombinedScore: 60, WrittenTestScore: 60, AppliedAt: day, Passed: false},
	}

	t.Run("none leaves ties shared", func(t *testing.T) {
		rows := RankCandidates(inputs, TieBreakNone, 2)
		require.Len(t, rows, 4)

		assert.Equal(t, "a", rows[0].ApplicationID)
		assert.Equal(t, 1, rows[0].Rank)
		assert.False(t, rows[0].Tied)

		assert.Equal(t, "b", rows[1].ApplicationID)
		assert.Equal(t, "c", rows[2].ApplicationID)
		assert.Equal(t, 2, rows[1].Rank)
		assert.Equal(t, 2, rows[2].Rank)
		assert.True(t, rows[1].Tied)
		assert.True(t, rows[2].Tied)
		assert.True(t, rows[1].Recommended)
		assert.True(t, rows[2].Recommended)

		assert.Equal(t, 4, rows[3].Rank)
		assert.False(t, rows[3].Recommended)
	})

	t.Run("written test score", func(t *testing.T) {
		rows := RankCandidates(inputs, TieBreakWrittenTestScore, 2)
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(rows))
		assert.Equal(t, []int{1, 2, 3, 4}, ranks(rows))
		assert.False(t, rows[1].Tied)
		assert.False(t, rows[2].Recommended)
	})

	t.Run("earliest application", func(t *testing.T) {
		rows := RankCandidates(inputs, TieBreakEarliestApplication, 2)
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(rows))
		assert.Equal(t, []int{1, 2, 3, 4}, ranks(rows))
	})

	t.Run("failed candidates are never recommended", func(t *testing.T) {
		rows := RankCandidates(inputs, TieBreakNone, 10)
		assert.False(t, rows[3].Recommended)
	})
}

func ids(rows []models.RankedCandidate) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ApplicationID
	}
	return out
}

func ranks(rows []models.RankedCandidate) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Rank
	}
	return out
}
