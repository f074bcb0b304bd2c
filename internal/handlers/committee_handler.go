package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiring-pipeline/internal/services"
)

type CommitteeHandler struct {
	committees services.CommitteeService
}

func NewCommitteeHandler(committees services.CommitteeService) *CommitteeHandler {
	return &CommitteeHandler{committees: committees}
}

// HandleGet handles GET /processes/:id/committee
func (h *CommitteeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	committee, err := h.committees.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(committee)
}

// HandleDeclareConflict handles POST /processes/:id/committee/members/:memberID/conflict
func (h *CommitteeHandler) HandleDeclareConflict(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	memberID, err := idParam(c, "memberID")
	if err != nil {
		return respondError(c, err)
	}
	var req services.ConflictInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	committee, err := h.committees.DeclareConflict(c.UserContext(), id, memberID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(committee)
}

// HandleResolveConflict handles POST /processes/:id/committee/members/:memberID/resolution
func (h *CommitteeHandler) HandleResolveConflict(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	memberID, err := idParam(c, "memberID")
	if err != nil {
		return respondError(c, err)
	}
	var req services.ResolutionInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	committee, err := h.committees.ResolveConflict(c.UserContext(), id, memberID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(committee)
}
