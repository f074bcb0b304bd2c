package models

import "time"

type RoundStatus string

const (
	RoundStatusInProgress RoundStatus = "in_progress"
	RoundStatusCompleted  RoundStatus = "completed"
	RoundStatusScheduled  RoundStatus = "scheduled"
	RoundStatusEvaluated  RoundStatus = "evaluated"
)

type LonglistingRound struct {
	Base
	RecruitmentID string      `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	Criteria      []string    `gorm:"type:text;serializer:json" json:"criteria"`
	Status        RoundStatus `gorm:"type:varchar(32);not null" json:"status"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
}

func (LonglistingRound) TableName() string {
	return "longlisting_rounds"
}

func (r LonglistingRound) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: r.RecruitmentID}
}

type LonglistingCandidate struct {
	Base
	RoundID       string `gorm:"type:varchar(36);not null;index" json:"round_id"`
	ApplicationID string `gorm:"type:varchar(36);not null;index" json:"application_id"`
	IsLonglisted  bool   `gorm:"not null" json:"is_longlisted"`
	Remarks       string `gorm:"type:text" json:"remarks"`
}

func (LonglistingCandidate) TableName() string {
	return "longlisting_candidates"
}

func (c LonglistingCandidate) Indexes() map[string]string {
	return map[string]string{IndexRoundID: c.RoundID, IndexApplicationID: c.ApplicationID}
}

// ShortlistingRound weights must sum to one; see services.NewShortlistingWeights.
type ShortlistingRound struct {
	Base
	RecruitmentID    string      `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	AcademicWeight   float64     `gorm:"not null" json:"academic_weight"`
	ExperienceWeight float64     `gorm:"not null" json:"experience_weight"`
	OtherWeight      float64     `gorm:"not null" json:"other_weight"`
	PassingScore     float64     `gorm:"not null" json:"passing_score"`
	Status           RoundStatus `gorm:"type:varchar(32);not null" json:"status"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
}

func (ShortlistingRound) TableName() string {
	return "shortlisting_rounds"
}

func (r ShortlistingRound) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: r.RecruitmentID}
}

type ShortlistingCandidate struct {
	Base
	RoundID            string  `gorm:"type:varchar(36);not null;index" json:"round_id"`
	ApplicationID      string  `gorm:"type:varchar(36);not null;index" json:"application_id"`
	AcademicScore      float64 `gorm:"not null" json:"academic_score"`
	ExperienceScore    float64 `gorm:"not null" json:"experience_score"`
	OtherCriteriaScore float64 `gorm:"not null" json:"other_criteria_score"`
	TotalScore         float64 `gorm:"not null" json:"total_score"`
	IsShortlisted      bool    `gorm:"not null" json:"is_shortlisted"`
	Remarks            string  `gorm:"type:text" json:"remarks"`
}

func (ShortlistingCandidate) TableName() string {
	return "shortlisting_candidates"
}

func (c ShortlistingCandidate) Indexes() map[string]string {
	return map[string]string{IndexRoundID: c.RoundID, IndexApplicationID: c.ApplicationID}
}

type WrittenTest struct {
	Base
	RecruitmentID string      `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	TestDate      time.Time   `gorm:"not null" json:"test_date"`
	Venue         string      `gorm:"type:text" json:"venue"`
	TotalMarks    float64     `gorm:"not null" json:"total_marks"`
	PassingMarks  float64     `gorm:"not null" json:"passing_marks"`
	Weight        float64     `gorm:"not null" json:"weight"`
	Status        RoundStatus `gorm:"type:varchar(32);not null" json:"status"`
	EvaluatedAt   *time.Time  `json:"evaluated_at,omitempty"`
}

func (WrittenTest) TableName() string {
	return "written_tests"
}

func (t WrittenTest) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: t.RecruitmentID}
}

type WrittenTestCandidate struct {
	Base
	RoundID       string  `gorm:"type:varchar(36);not null;index" json:"round_id"`
	ApplicationID string  `gorm:"type:varchar(36);not null;index" json:"application_id"`
	MarksObtained float64 `gorm:"not null" json:"marks_obtained"`
	Score         float64 `gorm:"not null" json:"score"`
	IsPassed      bool    `gorm:"not null" json:"is_passed"`
	Remarks       string  `gorm:"type:text" json:"remarks"`
}

func (WrittenTestCandidate) TableName() string {
	return "written_test_candidates"
}

func (c WrittenTestCandidate) Indexes() map[string]string {
	return map[string]string{IndexRoundID: c.RoundID, IndexApplicationID: c.ApplicationID}
}

type InterviewRound struct {
	Base
	RecruitmentID string      `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	InterviewDate time.Time   `gorm:"not null" json:"interview_date"`
	Venue         string      `gorm:"type:text" json:"venue"`
	PassingMarks  float64     `gorm:"not null" json:"passing_marks"`
	Weight        float64     `gorm:"not null" json:"weight"`
	Status        RoundStatus `gorm:"type:varchar(32);not null" json:"status"`
	EvaluatedAt   *time.Time  `json:"evaluated_at,omitempty"`
}

func (InterviewRound) TableName() string {
	return "interview_rounds"
}

func (r InterviewRound) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: r.RecruitmentID}
}

// InterviewEvaluation is one panel member's scoring sheet. Each dimension is
// scored from 0 to 5.
type InterviewEvaluation struct {
	EvaluatorID         string  `json:"evaluator_id"`
	EvaluatorName       string  `json:"evaluator_name"`
	Technical           float64 `json:"technical"`
	Communication       float64 `json:"communication"`
	ProblemSolving      float64 `json:"problem_solving"`
	ExperienceRelevance float64 `json:"experience_relevance"`
	CulturalFit         float64 `json:"cultural_fit"`
	Total               float64 `json:"total"`
	Comments            string  `json:"comments,omitempty"`
}

type InterviewCandidate struct {
	Base
	RoundID          string                `gorm:"type:varchar(36);not null;index" json:"round_id"`
	ApplicationID    string                `gorm:"type:varchar(36);not null;index" json:"application_id"`
	Evaluations      []InterviewEvaluation `gorm:"type:text;serializer:json" json:"evaluations"`
	AverageScore     float64               `gorm:"not null" json:"average_score"`
	NormalizedScore  float64               `gorm:"not null" json:"normalized_score"`
	WrittenTestScore float64               `gorm:"not null" json:"written_test_score"`
	CombinedScore    float64               `gorm:"not null" json:"combined_score"`
	IsPassed         bool                  `gorm:"not null" json:"is_passed"`
}

func (InterviewCandidate) TableName() string {
	return "interview_candidates"
}

func (c InterviewCandidate) Indexes() map[string]string {
	return map[string]string{IndexRoundID: c.RoundID, IndexApplicationID: c.ApplicationID}
}
