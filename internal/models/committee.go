package models

import "time"

type CommitteeRole string

const (
	CommitteeRoleChair     CommitteeRole = "chair"
	CommitteeRoleMember    CommitteeRole = "member"
	CommitteeRoleHR        CommitteeRole = "hr_representative"
	CommitteeRoleTechnical CommitteeRole = "technical_expert"
)

// ConflictDeclaration is a committee member's conflict-of-interest
// statement. A declared conflict blocks longlisting until HR records a
// resolution.
type ConflictDeclaration struct {
	Declared    bool       `json:"declared"`
	HasConflict bool       `json:"has_conflict"`
	Details     string     `json:"details,omitempty"`
	DeclaredAt  *time.Time `json:"declared_at,omitempty"`
	Resolution  string     `json:"resolution,omitempty"`
	ResolvedBy  string     `json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// Cleared reports whether the declaration lets the member sit on the panel.
func (c ConflictDeclaration) Cleared() bool {
	if !c.Declared {
		return false
	}
	return !c.HasConflict || c.Resolution != ""
}

type CommitteeMember struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Email    string              `json:"email,omitempty"`
	Role     CommitteeRole       `json:"role"`
	Conflict ConflictDeclaration `json:"conflict"`
}

type Committee struct {
	Base
	RecruitmentID string            `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	Members       []CommitteeMember `gorm:"type:text;serializer:json" json:"members"`
	FormedAt      time.Time         `gorm:"not null" json:"formed_at"`
}

func (Committee) TableName() string {
	return "committees"
}

func (c Committee) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: c.RecruitmentID}
}

// Member returns the index of the member with the given id, or -1.
func (c *Committee) Member(id string) int {
	for i := range c.Members {
		if c.Members[i].ID == id {
			return i
		}
	}
	return -1
}
