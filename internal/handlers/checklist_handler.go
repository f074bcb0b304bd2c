package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type ChecklistHandler struct {
	checklists services.ChecklistService
}

func NewChecklistHandler(checklists services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklists: checklists}
}

// HandleCreate handles POST /processes/:id/checklist
func (h *ChecklistHandler) HandleCreate(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	checklist, err := h.checklists.Create(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(checklist)
}

// HandleGet handles GET /processes/:id/checklist
func (h *ChecklistHandler) HandleGet(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	checklist, err := h.checklists.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(checklist)
}

type checklistItemRequest struct {
	Attached bool `json:"attached"`
}

// HandleSetItem handles PUT /processes/:id/checklist/items/:item
func (h *ChecklistHandler) HandleSetItem(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req checklistItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	checklist, err := h.checklists.SetItem(c.UserContext(), id, models.ChecklistItem(c.Params("item")), req.Attached)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(checklist)
}
