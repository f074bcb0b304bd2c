package models

import "time"

type OfferStatus string

const (
	OfferStatusDraft     OfferStatus = "draft"
	OfferStatusSent      OfferStatus = "sent"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusDeclined  OfferStatus = "declined"
	OfferStatusWithdrawn OfferStatus = "withdrawn"
)

// Open reports whether the offer still binds the application.
func (s OfferStatus) Open() bool {
	return s == OfferStatusDraft || s == OfferStatusSent || s == OfferStatusAccepted
}

type Offer struct {
	Base
	RecruitmentID string      `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	ApplicationID string      `gorm:"type:varchar(36);not null;index" json:"application_id"`
	Grade         string      `gorm:"type:varchar(32)" json:"grade"`
	MonthlySalary float64     `gorm:"not null" json:"monthly_salary"`
	Currency      string      `gorm:"type:varchar(3);not null" json:"currency"`
	StartDate     time.Time   `gorm:"not null" json:"start_date"`
	Status        OfferStatus `gorm:"type:varchar(32);not null" json:"status"`
	SentAt        *time.Time  `json:"sent_at,omitempty"`
	RespondedAt   *time.Time  `json:"responded_at,omitempty"`
	DeclineReason *string     `gorm:"type:text" json:"decline_reason,omitempty"`
}

func (Offer) TableName() string {
	return "offers"
}

func (o Offer) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: o.RecruitmentID, IndexApplicationID: o.ApplicationID}
}
