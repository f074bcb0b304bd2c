package models

import (
	"fmt"
	"time"
)

type ProcessStatus string

const (
	ProcessStatusDraft      ProcessStatus = "draft"
	ProcessStatusInProgress ProcessStatus = "in_progress"
	ProcessStatusCompleted  ProcessStatus = "completed"
	ProcessStatusCancelled  ProcessStatus = "cancelled"
)

func (s ProcessStatus) Terminal() bool {
	return s == ProcessStatusCompleted || s == ProcessStatusCancelled
}

type HiringApproach string

const (
	HiringApproachOpenCompetition   HiringApproach = "open_competition"
	HiringApproachInternalPromotion HiringApproach = "internal_promotion"
	HiringApproachHeadhunting       HiringApproach = "headhunting"
	HiringApproachRoster            HiringApproach = "roster"
)

type ContractType string

const (
	ContractTypeFixedTerm   ContractType = "fixed_term"
	ContractTypePermanent   ContractType = "permanent"
	ContractTypeConsultancy ContractType = "consultancy"
	ContractTypeTemporary   ContractType = "temporary"
)

// Stage is a position in the fifteen step hiring pipeline.
type Stage int

const (
	StageTOR Stage = iota + 1
	StageRequisition
	StageRequisitionReview
	StageAnnouncement
	StageApplicationReceipt
	StageCommittee
	StageLonglisting
	StageShortlisting
	StageWrittenTest
	StageInterview
	StageReport
	StageOffer
	StageSanctionCheck
	StageBackgroundCheck
	StageContract
)

// FinalStage is the last pipeline step; a process can only complete there.
const FinalStage = StageContract

var stageNames = map[Stage]string{
	StageTOR:                "terms_of_reference",
	StageRequisition:        "staff_requisition",
	StageRequisitionReview:  "requisition_review",
	StageAnnouncement:       "vacancy_announcement",
	StageApplicationReceipt: "application_receipt",
	StageCommittee:          "committee_formation",
	StageLonglisting:        "longlisting",
	StageShortlisting:       "shortlisting",
	StageWrittenTest:        "written_test",
	StageInterview:          "interview",
	StageReport:             "recruitment_report",
	StageOffer:              "offer",
	StageSanctionCheck:      "sanction_check",
	StageBackgroundCheck:    "background_check",
	StageContract:           "employment_contract",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

func (s Stage) Valid() bool {
	return s >= StageTOR && s <= FinalStage
}

// PerCandidate reports whether the stage produces one artifact per
// application rather than one per process.
func (s Stage) PerCandidate() bool {
	return s >= StageOffer && s <= FinalStage
}

// ParseStage resolves a stage from its name.
func ParseStage(name string) (Stage, bool) {
	for stage, n := range stageNames {
		if n == name {
			return stage, true
		}
	}
	return 0, false
}

type RecruitmentProcess struct {
	Base
	Code              string         `gorm:"type:varchar(64);uniqueIndex" json:"code"`
	PositionTitle     string         `gorm:"type:text;not null" json:"position_title"`
	Department        string         `gorm:"type:text" json:"department"`
	DutyStation       string         `gorm:"type:text" json:"duty_station"`
	NumberOfPositions int            `gorm:"not null" json:"number_of_positions"`
	HiringApproach    HiringApproach `gorm:"type:varchar(32);not null" json:"hiring_approach"`
	ContractType      ContractType   `gorm:"type:varchar(32);not null" json:"contract_type"`
	Status            ProcessStatus  `gorm:"type:varchar(32);not null;index" json:"status"`
	CurrentStep       Stage          `gorm:"not null" json:"current_step"`
	CancelReason      *string        `gorm:"type:text" json:"cancel_reason,omitempty"`
	CancelledAt       *time.Time     `json:"cancelled_at,omitempty"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`
}

func (RecruitmentProcess) TableName() string {
	return "recruitment_processes"
}

func (p RecruitmentProcess) Indexes() map[string]string {
	return map[string]string{IndexStatus: string(p.Status), IndexCode: p.Code}
}
