package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

func offerFor(applicationID string) services.OfferInput {
	return services.OfferInput{
		ApplicationID: applicationID,
		Grade:         "P2",
		MonthlySalary: 5200,
		Currency:      "USD",
		StartDate:     time.Now().AddDate(0, 1, 0),
	}
}

func references(n int) []services.ReferenceInput {
	refs := make([]services.ReferenceInput, n)
	for i := range refs {
		refs[i] = services.ReferenceInput{Name: "Referee", Contact: "referee@example.org"}
	}
	return refs
}

func TestOffer_DeclineWithdrawsApplication(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageReport, 2)
		appID := res.Report.Rankings[0].ApplicationID

		adv, err := svc.Processes.Advance(ctx, res.Process.ID, offerFor(appID))
		require.NoError(t, err)
		offerID := adv.Artifact.Meta().ID

		_, err = svc.Processes.Advance(ctx, res.Process.ID, offerFor(appID))
		pe := requirePrecondition(t, err)
		assert.Contains(t, pe.Condition, "draft offer")

		_, err = svc.Compliance.RespondToOffer(ctx, offerID, services.OfferResponse{Accepted: true})
		requireInvalidTransition(t, err)

		_, err = svc.Compliance.SendOffer(ctx, offerID)
		require.NoError(t, err)
		app, err := svc.Applications.Get(ctx, appID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusOffered, app.Status)

		offer, err := svc.Compliance.RespondToOffer(ctx, offerID, services.OfferResponse{Reason: "relocating"})
		require.NoError(t, err)
		assert.Equal(t, models.OfferStatusDeclined, offer.Status)
		require.NotNil(t, offer.DeclineReason)
		assert.Equal(t, "relocating", *offer.DeclineReason)

		app, err = svc.Applications.Get(ctx, appID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusWithdrawn, app.Status)

		_, err = svc.Compliance.RespondToOffer(ctx, offerID, services.OfferResponse{Accepted: true})
		requireInvalidTransition(t, err)
	})
}

func TestOffer_RunnerUpAfterDecline(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageOffer, 2)
		runnerUp := res.Report.Rankings[1].ApplicationID

		// Offers are per candidate, so a second offer is recorded at the same step.
		adv, err := svc.Processes.Advance(ctx, res.Process.ID, offerFor(runnerUp))
		require.NoError(t, err)
		assert.Equal(t, models.StageOffer, adv.Process.CurrentStep)
	})
}

func TestSanction_FlaggedRejectsApplication(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageOffer, 1)
		appID := res.Offer.ApplicationID

		adv, err := svc.Processes.Advance(ctx, res.Process.ID, services.SanctionInput{ApplicationID: appID, DeclaredNoListing: true})
		require.NoError(t, err)
		assert.Equal(t, models.StageSanctionCheck, adv.Process.CurrentStep)
		declID := adv.Artifact.Meta().ID

		_, err = svc.Compliance.ReviewSanction(ctx, declID, services.SanctionReview{ReviewedBy: "Compliance Officer"})
		ve := requireValidation(t, err)
		assert.Equal(t, "remarks", ve.Field)

		decl, err := svc.Compliance.ReviewSanction(ctx, declID, services.SanctionReview{
			ReviewedBy: "Compliance Officer",
			Remarks:    "name match on consolidated list",
		})
		require.NoError(t, err)
		assert.Equal(t, models.SanctionStatusFlagged, decl.Status)

		app, err := svc.Applications.Get(ctx, appID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusRejected, app.Status)

		offer, err := svc.Compliance.GetOffer(ctx, res.Offer.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OfferStatusWithdrawn, offer.Status)

		_, err = svc.Processes.Advance(ctx, res.Process.ID, services.BackgroundCheckInput{ApplicationID: appID})
		requirePrecondition(t, err)
	})
}

func TestBackgroundCheck_RequiresClearedSanction(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, store := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageOffer, 1)
		appID := res.Offer.ApplicationID

		_, err := svc.Processes.Advance(ctx, res.Process.ID, services.SanctionInput{ApplicationID: appID, DeclaredNoListing: true})
		require.NoError(t, err)

		_, err = svc.Processes.Advance(ctx, res.Process.ID, services.BackgroundCheckInput{
			ApplicationID: appID,
			References:    references(2),
		})
		pe := requirePrecondition(t, err)
		assert.Contains(t, pe.Condition, "sanction declaration must be cleared")

		checks, err := repositories.Table[models.BackgroundCheck](store).GetByIndex(ctx, models.IndexApplicationID, appID)
		require.NoError(t, err)
		assert.Empty(t, checks)

		proc, err := svc.Processes.Get(ctx, res.Process.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StageSanctionCheck, proc.CurrentStep)
	})
}

func TestBackgroundCheck_CompletesOnlyWhenCleared(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageSanctionCheck, 1)
		appID := res.Offer.ApplicationID

		adv, err := svc.Processes.Advance(ctx, res.Process.ID, services.BackgroundCheckInput{
			ApplicationID: appID,
			References:    references(1),
		})
		require.NoError(t, err)
		check := adv.Artifact.(*models.BackgroundCheck)
		assert.Equal(t, models.BackgroundCheckPending, check.Status)

		_, err = svc.Compliance.CompleteBackgroundCheck(ctx, check.ID)
		pe := requirePrecondition(t, err)
		assert.Contains(t, pe.Condition, "2 references required, 1 on file")
		assert.Contains(t, pe.Condition, "criminal check is pending")

		unchanged, err := svc.Compliance.GetBackgroundCheck(ctx, check.ID)
		require.NoError(t, err)
		assert.Equal(t, check.Revision, unchanged.Revision)
		assert.Equal(t, models.BackgroundCheckPending, unchanged.Status)

		check, err = svc.Compliance.AddReference(ctx, check.ID, services.ReferenceInput{Name: "Second Referee", Contact: "+254700000000"})
		require.NoError(t, err)
		assert.Equal(t, models.BackgroundCheckInProgress, check.Status)
		require.Len(t, check.References, 2)

		for _, ref := range check.References {
			check, err = svc.Compliance.UpdateReference(ctx, check.ID, ref.ID, services.ReferenceUpdate{Status: models.ReferenceStatusVerified})
			require.NoError(t, err)
		}
		_, err = svc.Compliance.UpdateReference(ctx, check.ID, "missing", services.ReferenceUpdate{Status: models.ReferenceStatusVerified})
		var nf *repositories.RecordNotFoundError
		require.ErrorAs(t, err, &nf)

		check, err = svc.Compliance.UpdateBackgroundCheck(ctx, check.ID, services.BackgroundCheckUpdate{
			GuaranteeLetter: ptr(models.GuaranteeLetterVerified),
			HomeAddress:     ptr(models.AddressCheckVerified),
		})
		require.NoError(t, err)

		_, err = svc.Compliance.CompleteBackgroundCheck(ctx, check.ID)
		pe = requirePrecondition(t, err)
		assert.Equal(t, "background check incomplete: criminal check is pending", pe.Condition)

		_, err = svc.Compliance.UpdateBackgroundCheck(ctx, check.ID, services.BackgroundCheckUpdate{
			CriminalCheck: ptr(models.CriminalCheckCleared),
		})
		require.NoError(t, err)

		done, err := svc.Compliance.CompleteBackgroundCheck(ctx, check.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BackgroundCheckCompleted, done.Status)
		assert.NotNil(t, done.CompletedAt)

		_, err = svc.Compliance.UpdateBackgroundCheck(ctx, check.ID, services.BackgroundCheckUpdate{
			CriminalCheck: ptr(models.CriminalCheckFlagged),
		})
		requirePrecondition(t, err)
	})
}

func TestContract_RequiresCompletedBackgroundCheck(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageSanctionCheck, 1)
		appID := res.Offer.ApplicationID

		_, err := svc.Processes.Advance(ctx, res.Process.ID, services.BackgroundCheckInput{ApplicationID: appID, References: references(2)})
		require.NoError(t, err)

		_, err = svc.Processes.Advance(ctx, res.Process.ID, services.ContractInput{ApplicationID: appID})
		pe := requirePrecondition(t, err)
		assert.Contains(t, pe.Condition, "background check must be completed")

		proc, err := svc.Processes.Get(ctx, res.Process.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StageBackgroundCheck, proc.CurrentStep)
	})
}

func TestContract_DatesAndTerms(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageBackgroundCheck, 1)
		appID := res.Offer.ApplicationID

		start := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -1)
		_, err := svc.Processes.Advance(ctx, res.Process.ID, services.ContractInput{ApplicationID: appID, StartDate: &start, EndDate: &end})
		ve := requireValidation(t, err)
		assert.Equal(t, "end_date", ve.Field)

		end = start.AddDate(1, 0, 0)
		adv, err := svc.Processes.Advance(ctx, res.Process.ID, services.ContractInput{ApplicationID: appID, StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		contract := adv.Artifact.(*models.EmploymentContract)
		assert.Regexp(t, `^CTR-`, contract.ContractNumber)
		assert.Equal(t, res.Offer.MonthlySalary, contract.MonthlySalary)
		assert.Equal(t, res.Offer.Currency, contract.Currency)
		assert.Equal(t, res.Process.ContractType, contract.ContractType)
		assert.True(t, start.Equal(contract.StartDate))
		assert.Equal(t, models.StageContract, adv.Process.CurrentStep)
	})
}

func TestHire_RequiresBothSignatures(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageBackgroundCheck, 1)
		appID := res.Offer.ApplicationID

		adv, err := svc.Processes.Advance(ctx, res.Process.ID, services.ContractInput{ApplicationID: appID})
		require.NoError(t, err)
		contractID := adv.Artifact.Meta().ID

		_, err = svc.Compliance.Hire(ctx, appID)
		pe := requirePrecondition(t, err)
		assert.Contains(t, pe.Condition, "employee")

		_, err = svc.Compliance.SignContract(ctx, contractID, services.SignatureInput{Party: services.PartyEmployee})
		require.NoError(t, err)
		_, err = svc.Compliance.SignContract(ctx, contractID, services.SignatureInput{Party: services.PartyEmployee})
		requirePrecondition(t, err)

		_, err = svc.Compliance.Hire(ctx, appID)
		pe = requirePrecondition(t, err)
		assert.Contains(t, pe.Condition, "employer")

		_, err = svc.Compliance.SignContract(ctx, contractID, services.SignatureInput{Party: services.PartyEmployer})
		ve := requireValidation(t, err)
		assert.Equal(t, "signatory", ve.Field)

		contract, err := svc.Compliance.SignContract(ctx, contractID, services.SignatureInput{Party: services.PartyEmployer, Signatory: "Country Director"})
		require.NoError(t, err)
		require.NotNil(t, contract.EmployerSignatory)

		app, err := svc.Applications.Get(ctx, appID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusOffered, app.Status, "signing alone does not hire")

		app, err = svc.Compliance.Hire(ctx, appID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusHired, app.Status)

		_, err = svc.Compliance.Hire(ctx, appID)
		requireInvalidTransition(t, err)
	})
}

func ptr[T any](v T) *T {
	return &v
}
