package models

import "time"

type ApplicationStatus string

const (
	ApplicationStatusReceived    ApplicationStatus = "received"
	ApplicationStatusLonglisted  ApplicationStatus = "longlisted"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusTested      ApplicationStatus = "tested"
	ApplicationStatusInterviewed ApplicationStatus = "interviewed"
	ApplicationStatusOffered     ApplicationStatus = "offered"
	ApplicationStatusHired       ApplicationStatus = "hired"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn"
)

func (s ApplicationStatus) Terminal() bool {
	switch s {
	case ApplicationStatusHired, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

type Candidate struct {
	Base
	Code        string `gorm:"type:varchar(64);uniqueIndex" json:"code"`
	FirstName   string `gorm:"type:text;not null" json:"first_name"`
	LastName    string `gorm:"type:text;not null" json:"last_name"`
	Email       string `gorm:"type:text;not null;index" json:"email"`
	Phone       string `gorm:"type:text" json:"phone"`
	Nationality string `gorm:"type:text" json:"nationality"`
}

func (Candidate) TableName() string {
	return "candidates"
}

func (c Candidate) Indexes() map[string]string {
	return map[string]string{IndexCode: c.Code, IndexEmail: c.Email}
}

func (c Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}

type CandidateApplication struct {
	Base
	RecruitmentID string            `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	CandidateID   string            `gorm:"type:varchar(36);not null;index" json:"candidate_id"`
	Status        ApplicationStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	StatusReason  *string           `gorm:"type:text" json:"status_reason,omitempty"`
	CoverLetter   string            `gorm:"type:text" json:"cover_letter"`
	AppliedAt     time.Time         `gorm:"not null" json:"applied_at"`
}

func (CandidateApplication) TableName() string {
	return "candidate_applications"
}

func (a CandidateApplication) Indexes() map[string]string {
	return map[string]string{
		IndexRecruitmentID: a.RecruitmentID,
		IndexCandidateID:   a.CandidateID,
		IndexStatus:        string(a.Status),
	}
}
