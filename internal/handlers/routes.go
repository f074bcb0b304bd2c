package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/hiring-pipeline/internal/services"
)

// Register mounts the pipeline API on app: /health and /metrics at the root
// and every service under /api/v1.
func Register(app *fiber.App, svc *services.Services) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	processes := NewProcessHandler(svc.Processes)
	committees := NewCommitteeHandler(svc.Committees)
	applications := NewApplicationHandler(svc.Applications, svc.Compliance)
	selection := NewSelectionHandler(svc.Selection)
	compliance := NewComplianceHandler(svc.Compliance)
	checklists := NewChecklistHandler(svc.Checklists)

	api := app.Group("/api/v1")

	api.Post("/processes", processes.HandleCreate)
	api.Get("/processes", processes.HandleList)
	api.Get("/processes/:id", processes.HandleGet)
	api.Get("/processes/:id/artifacts", processes.HandleArtifacts)
	api.Post("/processes/:id/stages/:stage", processes.HandleAdvance)
	api.Post("/processes/:id/cancel", processes.HandleCancel)
	api.Post("/processes/:id/complete", processes.HandleComplete)
	api.Put("/processes/:id/tor", processes.HandleUpdateTOR)
	api.Post("/processes/:id/tor/submit", processes.HandleSubmitTOR)
	api.Post("/processes/:id/tor/review", processes.HandleReviewTOR)
	api.Post("/processes/:id/requisition/submit", processes.HandleSubmitRequisition)
	api.Post("/processes/:id/announcement/publish", processes.HandlePublishAnnouncement)
	api.Post("/processes/:id/announcement/close", processes.HandleCloseAnnouncement)
	api.Post("/processes/:id/report/approve", processes.HandleApproveReport)

	api.Get("/processes/:id/committee", committees.HandleGet)
	api.Post("/processes/:id/committee/members/:memberID/conflict", committees.HandleDeclareConflict)
	api.Post("/processes/:id/committee/members/:memberID/resolution", committees.HandleResolveConflict)

	api.Post("/processes/:id/applications", applications.HandleReceive)
	api.Get("/processes/:id/applications", applications.HandleList)
	api.Get("/applications/:id", applications.HandleGet)
	api.Post("/applications/:id/reject", applications.HandleReject)
	api.Post("/applications/:id/withdraw", applications.HandleWithdraw)
	api.Post("/applications/:id/hire", applications.HandleHire)

	api.Post("/processes/:id/longlisting/decisions", selection.HandleLonglist)
	api.Post("/processes/:id/longlisting/complete", selection.HandleCompleteLonglisting)
	api.Post("/processes/:id/shortlisting/scores", selection.HandleShortlist)
	api.Post("/processes/:id/shortlisting/complete", selection.HandleCompleteShortlisting)
	api.Post("/processes/:id/written-test/results", selection.HandleTestResult)
	api.Post("/processes/:id/written-test/evaluated", selection.HandleTestEvaluated)
	api.Post("/processes/:id/interview/selections", selection.HandleSelectForInterview)
	api.Post("/processes/:id/interview/evaluations", selection.HandleInterviewEvaluation)
	api.Post("/processes/:id/interview/evaluated", selection.HandleInterviewEvaluated)

	api.Get("/offers/:id", compliance.HandleGetOffer)
	api.Post("/offers/:id/send", compliance.HandleSendOffer)
	api.Post("/offers/:id/response", compliance.HandleRespondToOffer)
	api.Get("/sanctions/:id", compliance.HandleGetSanction)
	api.Post("/sanctions/:id/review", compliance.HandleReviewSanction)
	api.Get("/background-checks/:id", compliance.HandleGetBackgroundCheck)
	api.Patch("/background-checks/:id", compliance.HandleUpdateBackgroundCheck)
	api.Post("/background-checks/:id/references", compliance.HandleAddReference)
	api.Patch("/background-checks/:id/references/:referenceID", compliance.HandleUpdateReference)
	api.Post("/background-checks/:id/complete", compliance.HandleCompleteBackgroundCheck)
	api.Get("/contracts/:id", compliance.HandleGetContract)
	api.Post("/contracts/:id/signatures", compliance.HandleSignContract)

	api.Post("/processes/:id/checklist", checklists.HandleCreate)
	api.Get("/processes/:id/checklist", checklists.HandleGet)
	api.Put("/processes/:id/checklist/items/:item", checklists.HandleSetItem)
}
