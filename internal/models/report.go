package models

import "time"

type ReportStatus string

const (
	ReportStatusDraft    ReportStatus = "draft"
	ReportStatusApproved ReportStatus = "approved"
)

// RankedCandidate is one row of the recruitment report. Tied rows share a
// rank when the tie-break policy leaves them unresolved.
type RankedCandidate struct {
	Rank             int     `json:"rank"`
	ApplicationID    string  `json:"application_id"`
	CandidateID      string  `json:"candidate_id"`
	CombinedScore    float64 `json:"combined_score"`
	InterviewScore   float64 `json:"interview_score"`
	WrittenTestScore float64 `json:"written_test_score"`
	Tied             bool    `json:"tied"`
	Recommended      bool    `json:"recommended"`
}

type RecruitmentReport struct {
	Base
	RecruitmentID string            `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	Summary       string            `gorm:"type:text" json:"summary"`
	TieBreak      string            `gorm:"type:varchar(32);not null" json:"tie_break"`
	Rankings      []RankedCandidate `gorm:"type:text;serializer:json" json:"rankings"`
	Status        ReportStatus      `gorm:"type:varchar(32);not null" json:"status"`
	ApprovedBy    *string           `gorm:"type:text" json:"approved_by,omitempty"`
	ApprovedAt    *time.Time        `json:"approved_at,omitempty"`
}

func (RecruitmentReport) TableName() string {
	return "recruitment_reports"
}

func (r RecruitmentReport) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: r.RecruitmentID}
}

// Ranking returns the report row for an application.
func (r *RecruitmentReport) Ranking(applicationID string) (RankedCandidate, bool) {
	for _, row := range r.Rankings {
		if row.ApplicationID == applicationID {
			return row, true
		}
	}
	return RankedCandidate{}, false
}
