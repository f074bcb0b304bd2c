package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type ProcessHandler struct {
	processes services.ProcessService
}

func NewProcessHandler(processes services.ProcessService) *ProcessHandler {
	return &ProcessHandler{
		processes: processes,
	}
}

type stageDecoder func(c *fiber.Ctx) (services.StageArtifact, error)

func decodeStage[T services.StageArtifact](c *fiber.Ctx) (services.StageArtifact, error) {
	var in T
	if err := c.BodyParser(&in); err != nil {
		return nil, err
	}
	return in, nil
}

// stageDecoders maps every stage reachable through Advance to the body it
// expects. The TOR stage is recorded when the process is created.
var stageDecoders = map[models.Stage]stageDecoder{
	models.StageRequisition:        decodeStage[services.RequisitionInput],
	models.StageRequisitionReview:  decodeStage[services.RequisitionReviewInput],
	models.StageAnnouncement:       decodeStage[services.AnnouncementInput],
	models.StageApplicationReceipt: decodeStage[services.IntakeInput],
	models.StageCommittee:          decodeStage[services.CommitteeInput],
	models.StageLonglisting:        decodeStage[services.LonglistingInput],
	models.StageShortlisting:       decodeStage[services.ShortlistingInput],
	models.StageWrittenTest:        decodeStage[services.WrittenTestInput],
	models.StageInterview:          decodeStage[services.InterviewInput],
	models.StageReport:             decodeStage[services.ReportInput],
	models.StageOffer:              decodeStage[services.OfferInput],
	models.StageSanctionCheck:      decodeStage[services.SanctionInput],
	models.StageBackgroundCheck:    decodeStage[services.BackgroundCheckInput],
	models.StageContract:           decodeStage[services.ContractInput],
}

// HandleCreate handles POST /processes
func (h *ProcessHandler) HandleCreate(c *fiber.Ctx) error {
	var req services.CreateProcessInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	proc, err := h.processes.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(proc)
}

// HandleList handles GET /processes?status=
func (h *ProcessHandler) HandleList(c *fiber.Ctx) error {
	procs, err := h.processes.List(c.UserContext(), models.ProcessStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(procs)
}

// HandleGet handles GET /processes/:id
func (h *ProcessHandler) HandleGet(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	proc, err := h.processes.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(proc)
}

// HandleArtifacts handles GET /processes/:id/artifacts
func (h *ProcessHandler) HandleArtifacts(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	artifacts, err := h.processes.Artifacts(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(artifacts)
}

// HandleAdvance handles POST /processes/:id/stages/:stage
func (h *ProcessHandler) HandleAdvance(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	stage, ok := models.ParseStage(c.Params("stage"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown stage " + c.Params("stage"),
		})
	}
	decode, ok := stageDecoders[stage]
	if !ok {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"error": stage.String() + " is recorded when the recruitment is created",
		})
	}
	artifact, err := decode(c)
	if err != nil {
		return badRequest(c)
	}

	res, err := h.processes.Advance(c.UserContext(), id, artifact)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// HandleCancel handles POST /processes/:id/cancel
func (h *ProcessHandler) HandleCancel(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req cancelRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	proc, err := h.processes.Cancel(c.UserContext(), id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(proc)
}

// HandleComplete handles POST /processes/:id/complete
func (h *ProcessHandler) HandleComplete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	proc, err := h.processes.Complete(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(proc)
}

// HandleUpdateTOR handles PUT /processes/:id/tor
func (h *ProcessHandler) HandleUpdateTOR(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.TORInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	tor, err := h.processes.UpdateTOR(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tor)
}

// HandleSubmitTOR handles POST /processes/:id/tor/submit
func (h *ProcessHandler) HandleSubmitTOR(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	tor, err := h.processes.SubmitTOR(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tor)
}

// HandleReviewTOR handles POST /processes/:id/tor/review
func (h *ProcessHandler) HandleReviewTOR(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.ReviewInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	tor, err := h.processes.ReviewTOR(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tor)
}

// HandleSubmitRequisition handles POST /processes/:id/requisition/submit
func (h *ProcessHandler) HandleSubmitRequisition(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	srf, err := h.processes.SubmitRequisition(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(srf)
}

// HandlePublishAnnouncement handles POST /processes/:id/announcement/publish
func (h *ProcessHandler) HandlePublishAnnouncement(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ann, err := h.processes.PublishAnnouncement(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ann)
}

// HandleCloseAnnouncement handles POST /processes/:id/announcement/close
func (h *ProcessHandler) HandleCloseAnnouncement(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ann, err := h.processes.CloseAnnouncement(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ann)
}

type approveReportRequest struct {
	ApprovedBy string `json:"approved_by"`
}

// HandleApproveReport handles POST /processes/:id/report/approve
func (h *ProcessHandler) HandleApproveReport(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req approveReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	report, err := h.processes.ApproveReport(c.UserContext(), id, req.ApprovedBy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
