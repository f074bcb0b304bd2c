package models

import "time"

type TORStatus string

const (
	TORStatusDraft     TORStatus = "draft"
	TORStatusSubmitted TORStatus = "submitted"
	TORStatusApproved  TORStatus = "approved"
	TORStatusRejected  TORStatus = "rejected"
)

type Responsibility struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
}

type Skill struct {
	Name     string `json:"name" validate:"required"`
	Level    string `json:"level" validate:"omitempty,oneof=basic intermediate advanced expert"`
	Required bool   `json:"required"`
}

type LanguageProficiency struct {
	Language string `json:"language" validate:"required"`
	Level    string `json:"level" validate:"required,oneof=basic intermediate fluent native"`
}

// TOR is the terms of reference approved before a requisition is raised.
type TOR struct {
	Base
	RecruitmentID    string                `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	Title            string                `gorm:"type:text;not null" json:"title"`
	Background       string                `gorm:"type:text" json:"background"`
	Responsibilities []Responsibility      `gorm:"type:text;serializer:json" json:"responsibilities"`
	RequiredSkills   []Skill               `gorm:"type:text;serializer:json" json:"required_skills"`
	Languages        []LanguageProficiency `gorm:"type:text;serializer:json" json:"languages"`
	Status           TORStatus             `gorm:"type:varchar(32);not null" json:"status"`
	ApprovedBy       *string               `gorm:"type:text" json:"approved_by,omitempty"`
	ReviewedAt       *time.Time            `json:"reviewed_at,omitempty"`
}

func (TOR) TableName() string {
	return "terms_of_reference"
}

func (t TOR) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: t.RecruitmentID}
}

type RequisitionStatus string

const (
	RequisitionStatusDraft     RequisitionStatus = "draft"
	RequisitionStatusSubmitted RequisitionStatus = "submitted"
	RequisitionStatusApproved  RequisitionStatus = "approved"
	RequisitionStatusRejected  RequisitionStatus = "rejected"
)

// StaffRequisition is the SRF raised to open the position.
type StaffRequisition struct {
	Base
	RecruitmentID  string            `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	Grade          string            `gorm:"type:varchar(32)" json:"grade"`
	BudgetLine     string            `gorm:"type:text;not null" json:"budget_line"`
	Justification  string            `gorm:"type:text" json:"justification"`
	StartDate      *time.Time        `json:"start_date,omitempty"`
	HRVerified     bool              `gorm:"not null" json:"hr_verified"`
	BudgetVerified bool              `gorm:"not null" json:"budget_verified"`
	Status         RequisitionStatus `gorm:"type:varchar(32);not null" json:"status"`
}

func (StaffRequisition) TableName() string {
	return "staff_requisitions"
}

func (r StaffRequisition) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: r.RecruitmentID}
}

// RequisitionReview records the HR and budget verification of an SRF.
type RequisitionReview struct {
	Base
	RecruitmentID  string `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	RequisitionID  string `gorm:"type:varchar(36);not null;index" json:"requisition_id"`
	Reviewer       string `gorm:"type:text;not null" json:"reviewer"`
	HRVerified     bool   `gorm:"not null" json:"hr_verified"`
	BudgetVerified bool   `gorm:"not null" json:"budget_verified"`
	Approved       bool   `gorm:"not null" json:"approved"`
	Comments       string `gorm:"type:text" json:"comments"`
}

func (RequisitionReview) TableName() string {
	return "requisition_reviews"
}

func (r RequisitionReview) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: r.RecruitmentID, IndexRequisitionID: r.RequisitionID}
}

type AnnouncementStatus string

const (
	AnnouncementStatusDraft     AnnouncementStatus = "draft"
	AnnouncementStatusPublished AnnouncementStatus = "published"
	AnnouncementStatusClosed    AnnouncementStatus = "closed"
)

type VacancyAnnouncement struct {
	Base
	RecruitmentID string             `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	Title         string             `gorm:"type:text;not null" json:"title"`
	Description   string             `gorm:"type:text" json:"description"`
	Channels      []string           `gorm:"type:text;serializer:json" json:"channels"`
	ClosingDate   time.Time          `gorm:"not null" json:"closing_date"`
	Status        AnnouncementStatus `gorm:"type:varchar(32);not null" json:"status"`
	PublishedAt   *time.Time         `json:"published_at,omitempty"`
}

func (VacancyAnnouncement) TableName() string {
	return "vacancy_announcements"
}

func (a VacancyAnnouncement) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: a.RecruitmentID}
}

// ApplicationIntake opens application receipt against a published
// announcement.
type ApplicationIntake struct {
	Base
	RecruitmentID  string    `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	AnnouncementID string    `gorm:"type:varchar(36);not null" json:"announcement_id"`
	OpenedBy       string    `gorm:"type:text" json:"opened_by"`
	OpenedAt       time.Time `gorm:"not null" json:"opened_at"`
}

func (ApplicationIntake) TableName() string {
	return "application_intakes"
}

func (i ApplicationIntake) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: i.RecruitmentID}
}
