package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

const (
	weightEpsilon = 1e-6
	scoreEpsilon  = 1e-9

	// MaxDimensionScore is the ceiling for one interview dimension.
	MaxDimensionScore = 5.0
	// MaxEvaluatorTotal is the ceiling for one evaluator's summed sheet.
	MaxEvaluatorTotal = 5 * MaxDimensionScore
)

// ShortlistingWeights are the criteria weights of a shortlisting round.
type ShortlistingWeights struct {
	Academic   float64
	Experience float64
	Other      float64
}

// NewShortlistingWeights rejects weights outside [0,1] or whose sum is not
// within 1e-6 of 1.0.
func NewShortlistingWeights(academic, experience, other float64) (ShortlistingWeights, error) {
	for name, w := range map[string]float64{
		"academic_weight":   academic,
		"experience_weight": experience,
		"other_weight":      other,
	} {
		if math.IsNaN(w) || w < 0 || w > 1 {
			return ShortlistingWeights{}, &ValidationError{Field: name, Message: "must be between 0 and 1"}
		}
	}

	sum := academic + experience + other
	if math.Abs(sum-1.0) > weightEpsilon {
		return ShortlistingWeights{}, &ValidationError{
			Field:   "weights",
			Message: fmt.Sprintf("must sum to 1.0, got %.6f", sum),
		}
	}

	return ShortlistingWeights{Academic: academic, Experience: experience, Other: other}, nil
}

// ShortlistingScores are the criteria scores of one candidate, 0 to 100.
type ShortlistingScores struct {
	Academic   float64 `json:"academic_score" validate:"min=0,max=100"`
	Experience float64 `json:"experience_score" validate:"min=0,max=100"`
	Other      float64 `json:"other_criteria_score" validate:"min=0,max=100"`
}

// Composite is the weighted shortlisting total.
func (w ShortlistingWeights) Composite(s ShortlistingScores) float64 {
	return s.Academic*w.Academic + s.Experience*w.Experience + s.Other*w.Other
}

// Passes compares a score against a threshold, tolerating float noise.
func Passes(score, threshold float64) bool {
	return score+scoreEpsilon >= threshold
}

// DimensionScores is one evaluator's interview sheet.
type DimensionScores struct {
	Technical           float64 `json:"technical" validate:"min=0,max=5"`
	Communication       float64 `json:"communication" validate:"min=0,max=5"`
	ProblemSolving      float64 `json:"problem_solving" validate:"min=0,max=5"`
	ExperienceRelevance float64 `json:"experience_relevance" validate:"min=0,max=5"`
	CulturalFit         float64 `json:"cultural_fit" validate:"min=0,max=5"`
}

func (d DimensionScores) Total() float64 {
	return d.Technical + d.Communication + d.ProblemSolving + d.ExperienceRelevance + d.CulturalFit
}

// AverageScore is the arithmetic mean of evaluator totals.
func AverageScore(totals []float64) (float64, error) {
	if len(totals) == 0 {
		return 0, &ValidationError{Field: "evaluations", Message: "at least one evaluation is required"}
	}
	var sum float64
	for _, t := range totals {
		sum += t
	}
	return sum / float64(len(totals)), nil
}

// NormalizeInterviewScore maps an average evaluator total onto 0..100 so it
// can be combined with the written test score.
func NormalizeInterviewScore(average float64) float64 {
	return average / MaxEvaluatorTotal * 100
}

// NormalizeWrittenScore maps raw marks onto 0..100.
func NormalizeWrittenScore(marks, totalMarks float64) float64 {
	if totalMarks <= 0 {
		return 0
	}
	return marks / totalMarks * 100
}

// CombineScores blends the normalised interview score with the written test
// score using the stage weights. Equal weights give the plain mean.
func CombineScores(interview, interviewWeight, written, writtenWeight float64) float64 {
	total := interviewWeight + writtenWeight
	if total <= 0 {
		return (interview + written) / 2
	}
	return (interview*interviewWeight + written*writtenWeight) / total
}

// TieBreakPolicy decides the order of candidates with equal combined scores.
type TieBreakPolicy string

const (
	// TieBreakNone leaves ties unresolved: tied candidates share a rank and
	// are flagged for the committee.
	TieBreakNone TieBreakPolicy = "none"
	// TieBreakWrittenTestScore prefers the higher written test score.
	TieBreakWrittenTestScore TieBreakPolicy = "written_test_score"
	// TieBreakEarliestApplication prefers the earlier application.
	TieBreakEarliestApplication TieBreakPolicy = "earliest_application"
)

// ParseTieBreakPolicy resolves a configured policy name.
func ParseTieBreakPolicy(name string) (TieBreakPolicy, error) {
	switch p := TieBreakPolicy(name); p {
	case TieBreakNone, TieBreakWrittenTestScore, TieBreakEarliestApplication:
		return p, nil
	case "":
		return TieBreakNone, nil
	}
	return "", &ValidationError{Field: "tie_break", Message: fmt.Sprintf("unknown policy %q", name)}
}

// RankInput is one interviewed candidate entering the report.
type RankInput struct {
	ApplicationID    string
	CandidateID      string
	CombinedScore    float64
	InterviewScore   float64
	WrittenTestScore float64
	AppliedAt        time.Time
	Passed           bool
}

// compare orders a before b (negative) under the policy, after the combined
// score. Zero means the policy cannot separate them.
func (p TieBreakPolicy) compare(a, b RankInput) int {
	switch p {
	case TieBreakWrittenTestScore:
		if math.Abs(a.WrittenTestScore-b.WrittenTestScore) > scoreEpsilon {
			if a.WrittenTestScore > b.WrittenTestScore {
				return -1
			}
			return 1
		}
	case TieBreakEarliestApplication:
		if !a.AppliedAt.Equal(b.AppliedAt) {
			if a.AppliedAt.Before(b.AppliedAt) {
				return -1
			}
			return 1
		}
	}
	return 0
}

func compareRank(a, b RankInput, policy TieBreakPolicy) int {
	if math.Abs(a.CombinedScore-b.CombinedScore) > scoreEpsilon {
		if a.CombinedScore > b.CombinedScore {
			return -1
		}
		return 1
	}
	return policy.compare(a, b)
}

// RankCandidates orders candidates by combined score, descending, using the
// policy to break ties. Candidates the policy cannot separate share a rank
// and are marked Tied. Passed candidates ranked within the number of open
// positions are recommended; a tie at the cut-off recommends every tied row.
func RankCandidates(inputs []RankInput, policy TieBreakPolicy, positions int) []models.RankedCandidate {
	sorted := make([]RankInput, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := compareRank(sorted[i], sorted[j], policy); c != 0 {
			return c < 0
		}
		return sorted[i].ApplicationID < sorted[j].ApplicationID
	})

	rows := make([]models.RankedCandidate, len(sorted))
	for i, in := range sorted {
		rank := i + 1
		if i > 0 && compareRank(sorted[i-1], in, policy) == 0 {
			rank = rows[i-1].Rank
			rows[i-1].Tied = true
		}
		rows[i] = models.RankedCandidate{
			Rank:             rank,
			ApplicationID:    in.ApplicationID,
			CandidateID:      in.CandidateID,
			CombinedScore:    in.CombinedScore,
			InterviewScore:   in.InterviewScore,
			WrittenTestScore: in.WrittenTestScore,
			Tied:             i > 0 && rank == rows[i-1].Rank,
		}
	}

	for i := range rows {
		rows[i].Recommended = sorted[i].Passed && rows[i].Rank <= positions
	}

	return rows
}
