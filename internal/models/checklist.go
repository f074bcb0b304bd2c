package models

import "sort"

type ChecklistStatus string

const (
	ChecklistStatusIncomplete ChecklistStatus = "incomplete"
	ChecklistStatusComplete   ChecklistStatus = "complete"
)

// ChecklistItem names one document that must be attached to the
// recruitment file before the process can be closed.
type ChecklistItem string

const (
	ChecklistTOR                 ChecklistItem = "tor"
	ChecklistRequisition         ChecklistItem = "staff_requisition"
	ChecklistRequisitionReview   ChecklistItem = "requisition_review"
	ChecklistAnnouncement        ChecklistItem = "vacancy_announcement"
	ChecklistApplications        ChecklistItem = "applications"
	ChecklistCOIDeclarations     ChecklistItem = "coi_declarations"
	ChecklistLonglisting         ChecklistItem = "longlisting_sheet"
	ChecklistShortlisting        ChecklistItem = "shortlisting_sheet"
	ChecklistWrittenTest         ChecklistItem = "written_test_papers"
	ChecklistInterviewNotes      ChecklistItem = "interview_notes"
	ChecklistRecruitmentReport   ChecklistItem = "recruitment_report"
	ChecklistOfferLetter         ChecklistItem = "offer_letter"
	ChecklistSanctionDeclaration ChecklistItem = "sanction_declaration"
	ChecklistBackgroundCheck     ChecklistItem = "background_check"
	ChecklistContract            ChecklistItem = "employment_contract"
	ChecklistIdentityDocuments   ChecklistItem = "identity_documents"
)

// FileChecklist is the final audit of the recruitment file. Status is
// derived from the flags by Refresh and is never set directly.
type FileChecklist struct {
	Base
	RecruitmentID               string          `gorm:"type:varchar(36);not null;uniqueIndex" json:"recruitment_id"`
	TORAttached                 bool            `gorm:"not null" json:"tor_attached"`
	RequisitionAttached         bool            `gorm:"not null" json:"requisition_attached"`
	RequisitionReviewAttached   bool            `gorm:"not null" json:"requisition_review_attached"`
	AnnouncementAttached        bool            `gorm:"not null" json:"announcement_attached"`
	ApplicationsAttached        bool            `gorm:"not null" json:"applications_attached"`
	COIDeclarationsAttached     bool            `gorm:"not null" json:"coi_declarations_attached"`
	LonglistingAttached         bool            `gorm:"not null" json:"longlisting_attached"`
	ShortlistingAttached        bool            `gorm:"not null" json:"shortlisting_attached"`
	WrittenTestAttached         bool            `gorm:"not null" json:"written_test_attached"`
	InterviewNotesAttached      bool            `gorm:"not null" json:"interview_notes_attached"`
	RecruitmentReportAttached   bool            `gorm:"not null" json:"recruitment_report_attached"`
	OfferLetterAttached         bool            `gorm:"not null" json:"offer_letter_attached"`
	SanctionDeclarationAttached bool            `gorm:"not null" json:"sanction_declaration_attached"`
	BackgroundCheckAttached     bool            `gorm:"not null" json:"background_check_attached"`
	ContractAttached            bool            `gorm:"not null" json:"contract_attached"`
	IdentityDocumentsAttached   bool            `gorm:"not null" json:"identity_documents_attached"`
	Status                      ChecklistStatus `gorm:"type:varchar(32);not null" json:"status"`
}

func (FileChecklist) TableName() string {
	return "file_checklists"
}

func (c FileChecklist) Indexes() map[string]string {
	return map[string]string{IndexRecruitmentID: c.RecruitmentID}
}

func (c *FileChecklist) flags() map[ChecklistItem]*bool {
	return map[ChecklistItem]*bool{
		ChecklistTOR:                 &c.TORAttached,
		ChecklistRequisition:         &c.RequisitionAttached,
		ChecklistRequisitionReview:   &c.RequisitionReviewAttached,
		ChecklistAnnouncement:        &c.AnnouncementAttached,
		ChecklistApplications:        &c.ApplicationsAttached,
		ChecklistCOIDeclarations:     &c.COIDeclarationsAttached,
		ChecklistLonglisting:         &c.LonglistingAttached,
		ChecklistShortlisting:        &c.ShortlistingAttached,
		ChecklistWrittenTest:         &c.WrittenTestAttached,
		ChecklistInterviewNotes:      &c.InterviewNotesAttached,
		ChecklistRecruitmentReport:   &c.RecruitmentReportAttached,
		ChecklistOfferLetter:         &c.OfferLetterAttached,
		ChecklistSanctionDeclaration: &c.SanctionDeclarationAttached,
		ChecklistBackgroundCheck:     &c.BackgroundCheckAttached,
		ChecklistContract:            &c.ContractAttached,
		ChecklistIdentityDocuments:   &c.IdentityDocumentsAttached,
	}
}

// Set flips one attached flag and refreshes the derived status. It reports
// false for an unknown item.
func (c *FileChecklist) Set(item ChecklistItem, attached bool) bool {
	flag, ok := c.flags()[item]
	if !ok {
		return false
	}
	*flag = attached
	c.Refresh()
	return true
}

// Refresh recomputes Status from the attached flags.
func (c *FileChecklist) Refresh() {
	c.Status = ChecklistStatusComplete
	for _, flag := range c.flags() {
		if !*flag {
			c.Status = ChecklistStatusIncomplete
			return
		}
	}
}

// Missing lists the items not yet attached, sorted by name.
func (c *FileChecklist) Missing() []ChecklistItem {
	var missing []ChecklistItem
	for item, flag := range c.flags() {
		if !*flag {
			missing = append(missing, item)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// ChecklistItems returns every checklist item, sorted by name.
func ChecklistItems() []ChecklistItem {
	var c FileChecklist
	items := make([]ChecklistItem, 0, 16)
	for item := range c.flags() {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return items
}
