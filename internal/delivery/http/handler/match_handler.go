package handler

import (
	"log"
	"strings"

	"jobradar/internal/cache"
	"jobradar/internal/delivery/http/dto"
	"jobradar/internal/matcher"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	matcher *matcher.Matcher
	cache   *cache.Redis
	logger  *log.Logger
}

func NewMatchHandler(m *matcher.Matcher, ca *cache.Redis, logger *log.Logger) *MatchHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &MatchHandler{matcher: m, cache: ca, logger: logger}
}

// HandleMatchJobs validates the resume text before anything touches the
// scorer, then returns the hydrated matches.
func (h *MatchHandler) HandleMatchJobs(c fiber.Ctx) error {
	var req dto.MatchJobsRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Resume text is required"})
	}

	matches, err := h.matcher.Match(c.Context(), req.ResumeText, strings.TrimSpace(req.PrimaryRole))
	if err != nil {
		h.logger.Printf("[http] match failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to find job matches", Details: err.Error()})
	}

	// A supplementary role scrape may have changed the store under the
	// cached stats.
	if req.PrimaryRole != "" {
		h.cache.InvalidateJobData(c.Context())
	}

	if matches == nil {
		matches = []matcher.Match{}
	}
	return c.JSON(dto.MatchJobsResponse{Matches: matches})
}
