package models

import "time"

type SanctionStatus string

const (
	SanctionStatusPending SanctionStatus = "pending"
	SanctionStatusCleared SanctionStatus = "cleared"
	SanctionStatusFlagged SanctionStatus = "flagged"
)

type SanctionDeclaration struct {
	Base
	RecruitmentID     string         `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	ApplicationID     string         `gorm:"type:varchar(36);not null;uniqueIndex" json:"application_id"`
	DeclaredNoListing bool           `gorm:"not null" json:"declared_no_listing"`
	ListsScreened     []string       `gorm:"type:text;serializer:json" json:"lists_screened"`
	Status            SanctionStatus `gorm:"type:varchar(32);not null" json:"status"`
	ReviewedBy        *string        `gorm:"type:text" json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time     `json:"reviewed_at,omitempty"`
	Remarks           string         `gorm:"type:text" json:"remarks"`
}

func (SanctionDeclaration) TableName() string {
	return "sanction_declarations"
}

func (d SanctionDeclaration) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: d.RecruitmentID, IndexApplicationID: d.ApplicationID}
}

type ReferenceStatus string

const (
	ReferenceStatusPending   ReferenceStatus = "pending"
	ReferenceStatusContacted ReferenceStatus = "contacted"
	ReferenceStatusVerified  ReferenceStatus = "verified"
	ReferenceStatusFailed    ReferenceStatus = "failed"
)

type GuaranteeLetterStatus string

const (
	GuaranteeLetterPending  GuaranteeLetterStatus = "pending"
	GuaranteeLetterReceived GuaranteeLetterStatus = "received"
	GuaranteeLetterVerified GuaranteeLetterStatus = "verified"
)

type AddressCheckStatus string

const (
	AddressCheckPending    AddressCheckStatus = "pending"
	AddressCheckInProgress AddressCheckStatus = "in_progress"
	AddressCheckVerified   AddressCheckStatus = "verified"
	AddressCheckFailed     AddressCheckStatus = "failed"
)

type CriminalCheckStatus string

const (
	CriminalCheckPending    CriminalCheckStatus = "pending"
	CriminalCheckInProgress CriminalCheckStatus = "in_progress"
	CriminalCheckCleared    CriminalCheckStatus = "cleared"
	CriminalCheckFlagged    CriminalCheckStatus = "flagged"
)

type BackgroundCheckStatus string

const (
	BackgroundCheckPending    BackgroundCheckStatus = "pending"
	BackgroundCheckInProgress BackgroundCheckStatus = "in_progress"
	BackgroundCheckCompleted  BackgroundCheckStatus = "completed"
)

// MinReferences is the number of verified references a check needs.
const MinReferences = 2

type ReferenceCheck struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Organization string          `json:"organization,omitempty"`
	Contact      string          `json:"contact"`
	Status       ReferenceStatus `json:"status"`
	Notes        string          `json:"notes,omitempty"`
}

type BackgroundCheck struct {
	Base
	RecruitmentID         string                `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	ApplicationID         string                `gorm:"type:varchar(36);not null;uniqueIndex" json:"application_id"`
	SanctionDeclarationID string                `gorm:"type:varchar(36);not null;index" json:"sanction_declaration_id"`
	References            []ReferenceCheck      `gorm:"type:text;serializer:json" json:"references"`
	GuaranteeLetter       GuaranteeLetterStatus `gorm:"type:varchar(32);not null" json:"guarantee_letter"`
	HomeAddress           AddressCheckStatus    `gorm:"type:varchar(32);not null" json:"home_address"`
	CriminalCheck         CriminalCheckStatus   `gorm:"type:varchar(32);not null" json:"criminal_check"`
	Status                BackgroundCheckStatus `gorm:"type:varchar(32);not null" json:"status"`
	CompletedAt           *time.Time            `json:"completed_at,omitempty"`
}

func (BackgroundCheck) TableName() string {
	return "background_checks"
}

func (c BackgroundCheck) Indexes() map[string]string {
	return map[string]string{
		IndexRecruitmentID: c.RecruitmentID,
		IndexApplicationID: c.ApplicationID,
		IndexSanctionID:    c.SanctionDeclarationID,
	}
}

// Reference returns the index of the reference with the given id, or -1.
func (c *BackgroundCheck) Reference(id string) int {
	for i := range c.References {
		if c.References[i].ID == id {
			return i
		}
	}
	return -1
}

type EmploymentContract struct {
	Base
	RecruitmentID     string       `gorm:"type:varchar(36);not null;index" json:"recruitment_id"`
	ApplicationID     string       `gorm:"type:varchar(36);not null;uniqueIndex" json:"application_id"`
	BackgroundCheckID string       `gorm:"type:varchar(36);not null;index" json:"background_check_id"`
	OfferID           string       `gorm:"type:varchar(36);not null" json:"offer_id"`
	ContractNumber    string       `gorm:"type:varchar(64);not null" json:"contract_number"`
	ContractType      ContractType `gorm:"type:varchar(32);not null" json:"contract_type"`
	StartDate         time.Time    `gorm:"not null" json:"start_date"`
	EndDate           *time.Time   `json:"end_date,omitempty"`
	MonthlySalary     float64      `gorm:"not null" json:"monthly_salary"`
	Currency          string       `gorm:"type:varchar(3);not null" json:"currency"`
	EmployeeSignedAt  *time.Time   `json:"employee_signed_at,omitempty"`
	EmployerSignedAt  *time.Time   `json:"employer_signed_at,omitempty"`
	EmployerSignatory *string      `gorm:"type:text" json:"employer_signatory,omitempty"`
}

func (EmploymentContract) TableName() string {
	return "employment_contracts"
}

func (c EmploymentContract) Indexes() map[string]string {
	return map[string]string{
		IndexRecruitmentID: c.RecruitmentID,
		IndexApplicationID: c.ApplicationID,
		IndexCheckID:       c.BackgroundCheckID,
	}
}

// FullySigned reports whether both the employee and the employer signed.
func (c EmploymentContract) FullySigned() bool {
	return c.EmployeeSignedAt != nil && c.EmployerSignedAt != nil
}
