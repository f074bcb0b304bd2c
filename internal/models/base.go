package models

import "time"

// Base carries the identity and bookkeeping columns shared by every record.
// Revision starts at 1 and is bumped on every update; stores compare it to
// detect concurrent writers.
type Base struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null" json:"updated_at"`
	Revision  int64     `gorm:"not null" json:"revision"`
}

func (b *Base) Meta() *Base {
	return b
}

// Index names shared by the storage adapters. They double as column names.
const (
	IndexRecruitmentID = "recruitment_id"
	IndexApplicationID = "application_id"
	IndexCandidateID   = "candidate_id"
	IndexRoundID       = "round_id"
	IndexRequisitionID = "requisition_id"
	IndexSanctionID    = "sanction_declaration_id"
	IndexCheckID       = "background_check_id"
	IndexStatus        = "status"
	IndexCode          = "code"
	IndexEmail         = "email"
)
