package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

// The gates below are pure predicates over already loaded records. A nil
// record means the predecessor artifact was never persisted. Each returns a
// *PreconditionError naming the unmet condition, or nil.

func missing(what string) error {
	return preconditionf("%s has not been recorded", what)
}

func RequisitionGate(tor *models.TOR) error {
	if tor == nil {
		return missing("terms of reference")
	}
	if tor.Status != models.TORStatusApproved {
		return preconditionf("terms of reference must be approved, is %s", tor.Status)
	}
	return nil
}

func RequisitionReviewGate(srf *models.StaffRequisition) error {
	if srf == nil {
		return missing("staff requisition")
	}
	if srf.Status != models.RequisitionStatusSubmitted {
		return preconditionf("staff requisition must be submitted for review, is %s", srf.Status)
	}
	return nil
}

func AnnouncementGate(srf *models.StaffRequisition) error {
	if srf == nil {
		return missing("staff requisition")
	}
	var unmet []string
	if srf.Status != models.RequisitionStatusApproved {
		unmet = append(unmet, fmt.Sprintf("staff requisition must be approved, is %s", srf.Status))
	}
	if !srf.HRVerified {
		unmet = append(unmet, "staff requisition is not HR verified")
	}
	if !srf.BudgetVerified {
		unmet = append(unmet, "staff requisition budget is not verified")
	}
	if len(unmet) > 0 {
		return preconditionf("%s", strings.Join(unmet, "; "))
	}
	return nil
}

// PublishedAnnouncementGate guards both application receipt and committee
// formation.
func PublishedAnnouncementGate(a *models.VacancyAnnouncement) error {
	if a == nil {
		return missing("vacancy announcement")
	}
	if a.Status != models.AnnouncementStatusPublished {
		return preconditionf("vacancy announcement must be published, is %s", a.Status)
	}
	return nil
}

func LonglistingGate(c *models.Committee) error {
	if c == nil {
		return missing("recruitment committee")
	}
	if len(c.Members) == 0 {
		return preconditionf("recruitment committee has no members")
	}
	for _, m := range c.Members {
		switch {
		case !m.Conflict.Declared:
			return preconditionf("committee member %s has not declared conflicts of interest", m.Name)
		case !m.Conflict.Cleared():
			return preconditionf("conflict of interest declared by %s has no HR resolution", m.Name)
		}
	}
	return nil
}

func ShortlistingGate(r *models.LonglistingRound) error {
	if r == nil {
		return missing("longlisting round")
	}
	if r.Status != models.RoundStatusCompleted {
		return preconditionf("longlisting must be completed, is %s", r.Status)
	}
	return nil
}

func WrittenTestGate(r *models.ShortlistingRound) error {
	if r == nil {
		return missing("shortlisting round")
	}
	if r.Status != models.RoundStatusCompleted {
		return preconditionf("shortlisting must be completed, is %s", r.Status)
	}
	return nil
}

func InterviewGate(t *models.WrittenTest) error {
	if t == nil {
		return missing("written test")
	}
	if t.Status != models.RoundStatusEvaluated {
		return preconditionf("written test must be evaluated, is %s", t.Status)
	}
	return nil
}

func ReportGate(r *models.InterviewRound) error {
	if r == nil {
		return missing("interview round")
	}
	if r.Status != models.RoundStatusEvaluated {
		return preconditionf("interviews must be evaluated, is %s", r.Status)
	}
	return nil
}

// OfferGate also requires the application to be an interviewed candidate
// ranked in the report.
func OfferGate(report *models.RecruitmentReport, app *models.CandidateApplication) error {
	if report == nil {
		return missing("recruitment report")
	}
	if report.Status != models.ReportStatusApproved {
		return preconditionf("recruitment report must be approved, is %s", report.Status)
	}
	if app.Status != models.ApplicationStatusInterviewed {
		return preconditionf("application must be interviewed to receive an offer, is %s", app.Status)
	}
	if _, ok := report.Ranking(app.ID); !ok {
		return preconditionf("application is not ranked in the recruitment report")
	}
	return nil
}

func SanctionGate(o *models.Offer) error {
	if o == nil {
		return missing("offer")
	}
	if o.Status != models.OfferStatusAccepted {
		return preconditionf("offer must be accepted, is %s", o.Status)
	}
	return nil
}

func BackgroundCheckGate(d *models.SanctionDeclaration) error {
	if d == nil {
		return missing("sanction declaration")
	}
	if d.Status != models.SanctionStatusCleared {
		return preconditionf("sanction declaration must be cleared, is %s", d.Status)
	}
	return nil
}

func ContractGate(c *models.BackgroundCheck) error {
	if c == nil {
		return missing("background check")
	}
	if c.Status != models.BackgroundCheckCompleted {
		return preconditionf("background check must be completed, is %s", c.Status)
	}
	return nil
}

// BackgroundCheckCleared lists every sub-check that is not in its
// verified or cleared terminal state.
func BackgroundCheckCleared(c *models.BackgroundCheck) error {
	var unmet []string
	if len(c.References) < models.MinReferences {
		unmet = append(unmet, fmt.Sprintf("%d references required, %d on file", models.MinReferences, len(c.References)))
	}
	for _, ref := range c.References {
		if ref.Status != models.ReferenceStatusVerified {
			unmet = append(unmet, fmt.Sprintf("reference %s is %s", ref.Name, ref.Status))
		}
	}
	if c.GuaranteeLetter != models.GuaranteeLetterVerified {
		unmet = append(unmet, fmt.Sprintf("guarantee letter is %s", c.GuaranteeLetter))
	}
	if c.HomeAddress != models.AddressCheckVerified {
		unmet = append(unmet, fmt.Sprintf("home address check is %s", c.HomeAddress))
	}
	if c.CriminalCheck != models.CriminalCheckCleared {
		unmet = append(unmet, fmt.Sprintf("criminal check is %s", c.CriminalCheck))
	}
	if len(unmet) > 0 {
		return preconditionf("background check incomplete: %s", strings.Join(unmet, "; "))
	}
	return nil
}

// HireGate is the last link of the compliance chain.
func HireGate(offer *models.Offer, contract *models.EmploymentContract) error {
	if err := SanctionGate(offer); err != nil {
		return err
	}
	if contract == nil {
		return missing("employment contract")
	}
	if contract.FullySigned() {
		return nil
	}
	if contract.EmployeeSignedAt == nil {
		return preconditionf("employment contract is not signed by the employee")
	}
	return preconditionf("employment contract is not signed by the employer")
}

// CompletionGate guards closing a recruitment.
func CompletionGate(proc *models.RecruitmentProcess, checklist *models.FileChecklist) error {
	if proc.CurrentStep != models.FinalStage {
		return preconditionf("recruitment must reach %s before completion, is at %s", models.FinalStage, proc.CurrentStep)
	}
	if checklist == nil {
		return missing("file checklist")
	}
	if checklist.Status != models.ChecklistStatusComplete {
		missingItems := checklist.Missing()
		names := make([]string, len(missingItems))
		for i, item := range missingItems {
			names[i] = string(item)
		}
		return preconditionf("file checklist is incomplete, missing: %s", strings.Join(names, ", "))
	}
	return nil
}
