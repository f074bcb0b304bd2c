package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiring-pipeline/internal/services"
)

type ComplianceHandler struct {
	compliance services.ComplianceService
}

func NewComplianceHandler(compliance services.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{compliance: compliance}
}

// HandleGetOffer handles GET /offers/:id
func (h *ComplianceHandler) HandleGetOffer(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	offer, err := h.compliance.GetOffer(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(offer)
}

// HandleSendOffer handles POST /offers/:id/send
func (h *ComplianceHandler) HandleSendOffer(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	offer, err := h.compliance.SendOffer(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(offer)
}

// HandleRespondToOffer handles POST /offers/:id/response
func (h *ComplianceHandler) HandleRespondToOffer(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.OfferResponse
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	offer, err := h.compliance.RespondToOffer(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(offer)
}

// HandleGetSanction handles GET /sanctions/:id
func (h *ComplianceHandler) HandleGetSanction(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	decl, err := h.compliance.GetSanctionDeclaration(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(decl)
}

// HandleReviewSanction handles POST /sanctions/:id/review
func (h *ComplianceHandler) HandleReviewSanction(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.SanctionReview
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	decl, err := h.compliance.ReviewSanction(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(decl)
}

// HandleGetBackgroundCheck handles GET /background-checks/:id
func (h *ComplianceHandler) HandleGetBackgroundCheck(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	check, err := h.compliance.GetBackgroundCheck(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(check)
}

// HandleUpdateBackgroundCheck handles PATCH /background-checks/:id
func (h *ComplianceHandler) HandleUpdateBackgroundCheck(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.BackgroundCheckUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	check, err := h.compliance.UpdateBackgroundCheck(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(check)
}

// HandleAddReference handles POST /background-checks/:id/references
func (h *ComplianceHandler) HandleAddReference(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.ReferenceInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	check, err := h.compliance.AddReference(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(check)
}

// HandleUpdateReference handles PATCH /background-checks/:id/references/:referenceID
func (h *ComplianceHandler) HandleUpdateReference(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	referenceID, err := idParam(c, "referenceID")
	if err != nil {
		return respondError(c, err)
	}
	var req services.ReferenceUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	check, err := h.compliance.UpdateReference(c.UserContext(), id, referenceID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(check)
}

// HandleCompleteBackgroundCheck handles POST /background-checks/:id/complete
func (h *ComplianceHandler) HandleCompleteBackgroundCheck(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	check, err := h.compliance.CompleteBackgroundCheck(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(check)
}

// HandleGetContract handles GET /contracts/:id
func (h *ComplianceHandler) HandleGetContract(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	contract, err := h.compliance.GetContract(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(contract)
}

// HandleSignContract handles POST /contracts/:id/signatures
func (h *ComplianceHandler) HandleSignContract(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.SignatureInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	contract, err := h.compliance.SignContract(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(contract)
}
