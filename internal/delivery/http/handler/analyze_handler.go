package handler

import (
	"log"
	"strings"

	"jobradar/internal/analyzer"
	"jobradar/internal/delivery/http/dto"
	"jobradar/internal/scheduler"

	"github.com/gofiber/fiber/v3"
)

type AnalyzeHandler struct {
	analyzer  *analyzer.Analyzer
	scheduler *scheduler.Scheduler
	logger    *log.Logger
}

func NewAnalyzeHandler(a *analyzer.Analyzer, sched *scheduler.Scheduler, logger *log.Logger) *AnalyzeHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &AnalyzeHandler{analyzer: a, scheduler: sched, logger: logger}
}

// HandleAnalyze relays the collaborator's payload verbatim and, when a role
// category comes back, kicks off the background warm-up scrape without
// awaiting it.
func (h *AnalyzeHandler) HandleAnalyze(c fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "No file or text provided"})
	}

	res, err := h.analyzer.Analyze(c.Context(), req.Text)
	if err != nil {
		h.logger.Printf("[http] analyze failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to analyze CV", Details: err.Error()})
	}

	if res.RoleCategory != "" {
		h.scheduler.Warmup(res.RoleCategory)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(res.Payload)
}
