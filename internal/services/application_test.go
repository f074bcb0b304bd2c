package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

func applicant(recruitmentID, email string) services.ReceiveApplicationInput {
	return services.ReceiveApplicationInput{
		RecruitmentID: recruitmentID,
		Candidate: services.CandidateInput{
			FirstName: "Amina",
			LastName:  "Okafor",
			Email:     email,
		},
	}
}

func TestReceive_OnlyDuringIntake(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageAnnouncement, 0)

		_, err := svc.Applications.Receive(ctx, applicant(res.Process.ID, "amina@example.org"))
		pe := requirePrecondition(t, err)
		assert.Contains(t, pe.Condition, "application_receipt")

		_, err = svc.Processes.Advance(ctx, res.Process.ID, services.IntakeInput{OpenedBy: "HR Officer"})
		require.NoError(t, err)

		app, err := svc.Applications.Receive(ctx, applicant(res.Process.ID, "amina@example.org"))
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusReceived, app.Status)
		assert.False(t, app.AppliedAt.IsZero())
	})
}

func TestReceive_ClosedAnnouncementEndsIntake(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageApplicationReceipt, 1)

		_, err := svc.Processes.CloseAnnouncement(ctx, res.Process.ID)
		require.NoError(t, err)

		_, err = svc.Applications.Receive(ctx, applicant(res.Process.ID, "late@example.org"))
		requirePrecondition(t, err)
	})
}

func TestReceive_ReusesCandidateAndRefusesDuplicates(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, store := newServices(t, open)
		ctx := context.Background()
		first := buildThrough(t, svc, models.StageApplicationReceipt, 0)
		second := buildThrough(t, svc, models.StageApplicationReceipt, 0)

		a, err := svc.Applications.Receive(ctx, applicant(first.Process.ID, "amina@example.org"))
		require.NoError(t, err)

		_, err = svc.Applications.Receive(ctx, applicant(first.Process.ID, "amina@example.org"))
		pe := requirePrecondition(t, err)
		assert.Contains(t, pe.Condition, "already applied")

		b, err := svc.Applications.Receive(ctx, applicant(second.Process.ID, "amina@example.org"))
		require.NoError(t, err)
		assert.Equal(t, a.CandidateID, b.CandidateID)

		candidates, err := repositories.Table[models.Candidate](store).GetByIndex(ctx, models.IndexEmail, "amina@example.org")
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Regexp(t, `^CAN-`, candidates[0].Code)
	})
}

func TestReceive_Validation(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		res := buildThrough(t, svc, models.StageApplicationReceipt, 0)

		_, err := svc.Applications.Receive(context.Background(), applicant(res.Process.ID, "not-an-email"))
		ve := requireValidation(t, err)
		assert.Equal(t, "email", ve.Field)
	})
}

func TestListByProcess(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageApplicationReceipt, 3)

		_, err := svc.Applications.Withdraw(ctx, res.Applications[0].ID, "changed plans")
		require.NoError(t, err)

		all, err := svc.Applications.ListByProcess(ctx, res.Process.ID, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		received, err := svc.Applications.ListByProcess(ctx, res.Process.ID, models.ApplicationStatusReceived)
		require.NoError(t, err)
		assert.Len(t, received, 2)

		_, err = svc.Applications.ListByProcess(ctx, "missing", "")
		var nf *repositories.RecordNotFoundError
		require.ErrorAs(t, err, &nf)
	})
}

func TestExit_TerminalStatesAreFinal(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageApplicationReceipt, 1)
		id := res.Applications[0].ID

		_, err := svc.Applications.Reject(ctx, id, "")
		requireValidation(t, err)

		app, err := svc.Applications.Reject(ctx, id, "incomplete documents")
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusRejected, app.Status)
		require.NotNil(t, app.StatusReason)
		assert.Equal(t, "incomplete documents", *app.StatusReason)

		_, err = svc.Applications.Withdraw(ctx, id, "too late")
		ite := requireInvalidTransition(t, err)
		assert.Equal(t, string(models.ApplicationStatusRejected), ite.From)
		assert.Equal(t, string(models.ApplicationStatusWithdrawn), ite.To)

		app, err = svc.Applications.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusRejected, app.Status)
	})
}

func TestReject_WithdrawsOpenOffer(t *testing.T) {
	eachStore(t, func(t *testing.T, open storeFactory) {
		svc, _ := newServices(t, open)
		ctx := context.Background()
		res := buildThrough(t, svc, models.StageReport, 2)
		appID := res.Report.Rankings[0].ApplicationID

		adv, err := svc.Processes.Advance(ctx, res.Process.ID, offerFor(appID))
		require.NoError(t, err)
		offerID := adv.Artifact.Meta().ID

		_, err = svc.Compliance.SendOffer(ctx, offerID)
		require.NoError(t, err)

		_, err = svc.Applications.Reject(ctx, appID, "failed medical clearance")
		require.NoError(t, err)

		offer, err := svc.Compliance.GetOffer(ctx, offerID)
		require.NoError(t, err)
		assert.Equal(t, models.OfferStatusWithdrawn, offer.Status)
	})
}
