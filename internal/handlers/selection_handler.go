package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiring-pipeline/internal/services"
)

// SelectionHandler exposes the per-candidate screening decisions. The
// recruitment id always comes from the path.
type SelectionHandler struct {
	selection services.SelectionService
}

func NewSelectionHandler(selection services.SelectionService) *SelectionHandler {
	return &SelectionHandler{selection: selection}
}

// HandleLonglist handles POST /processes/:id/longlisting/decisions
func (h *SelectionHandler) HandleLonglist(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.LonglistingDecision
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	req.RecruitmentID = id

	rec, err := h.selection.RecordLonglisting(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// HandleCompleteLonglisting handles POST /processes/:id/longlisting/complete
func (h *SelectionHandler) HandleCompleteLonglisting(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	round, err := h.selection.CompleteLonglisting(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(round)
}

// HandleShortlist handles POST /processes/:id/shortlisting/scores
func (h *SelectionHandler) HandleShortlist(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.ShortlistingDecision
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	req.RecruitmentID = id

	rec, err := h.selection.ScoreShortlisting(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// HandleCompleteShortlisting handles POST /processes/:id/shortlisting/complete
func (h *SelectionHandler) HandleCompleteShortlisting(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	round, err := h.selection.CompleteShortlisting(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(round)
}

// HandleTestResult handles POST /processes/:id/written-test/results
func (h *SelectionHandler) HandleTestResult(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.TestResult
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	req.RecruitmentID = id

	rec, err := h.selection.RecordTestResult(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// HandleTestEvaluated handles POST /processes/:id/written-test/evaluated
func (h *SelectionHandler) HandleTestEvaluated(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	test, err := h.selection.MarkTestEvaluated(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(test)
}

type interviewSelectionRequest struct {
	ApplicationIDs []string `json:"application_ids"`
}

// HandleSelectForInterview handles POST /processes/:id/interview/selections
func (h *SelectionHandler) HandleSelectForInterview(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req interviewSelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	selected, err := h.selection.SelectForInterview(c.UserContext(), id, req.ApplicationIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(selected)
}

// HandleInterviewEvaluation handles POST /processes/:id/interview/evaluations
func (h *SelectionHandler) HandleInterviewEvaluation(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.InterviewEvaluationInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	req.RecruitmentID = id

	candidate, err := h.selection.RecordInterviewEvaluation(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(candidate)
}

// HandleInterviewEvaluated handles POST /processes/:id/interview/evaluated
func (h *SelectionHandler) HandleInterviewEvaluated(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	round, err := h.selection.MarkInterviewEvaluated(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(round)
}
