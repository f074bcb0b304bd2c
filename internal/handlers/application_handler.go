package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type ApplicationHandler struct {
	applications services.ApplicationService
	compliance   services.ComplianceService
}

func NewApplicationHandler(applications services.ApplicationService, compliance services.ComplianceService) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		compliance:   compliance,
	}
}

// HandleReceive handles POST /processes/:id/applications
func (h *ApplicationHandler) HandleReceive(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.ReceiveApplicationInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	req.RecruitmentID = id

	app, err := h.applications.Receive(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

// HandleList handles GET /processes/:id/applications?status=
func (h *ApplicationHandler) HandleList(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	apps, err := h.applications.ListByProcess(c.UserContext(), id, models.ApplicationStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(apps)
}

// HandleGet handles GET /applications/:id
func (h *ApplicationHandler) HandleGet(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	app, err := h.applications.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(app)
}

type exitRequest struct {
	Reason string `json:"reason"`
}

// HandleReject handles POST /applications/:id/reject
func (h *ApplicationHandler) HandleReject(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req exitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	app, err := h.applications.Reject(c.UserContext(), id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(app)
}

// HandleWithdraw handles POST /applications/:id/withdraw
func (h *ApplicationHandler) HandleWithdraw(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req exitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	app, err := h.applications.Withdraw(c.UserContext(), id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(app)
}

// HandleHire handles POST /applications/:id/hire
func (h *ApplicationHandler) HandleHire(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	app, err := h.compliance.Hire(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(app)
}
