package handler

import (
	"fmt"
	"log"
	"strings"

	"jobradar/internal/cache"
	"jobradar/internal/delivery/http/dto"
	"jobradar/internal/scraper"
	"jobradar/internal/store"
	"jobradar/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// ScrapeHandler serves the interactive custom-selector scrape. Unlike the
// background sweep it reports its failures to the caller, so bad selectors or
// an unreachable page come back with enough detail to fix and retry.
type ScrapeHandler struct {
	custom *scraper.Custom
	store  *store.JobStore
	cache  *cache.Redis
	logger *log.Logger
}

func NewScrapeHandler(custom *scraper.Custom, st *store.JobStore, ca *cache.Redis, logger *log.Logger) *ScrapeHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &ScrapeHandler{custom: custom, store: st, cache: ca, logger: logger}
}

func (h *ScrapeHandler) HandleScrapeCustom(c fiber.Ctx) error {
	var req dto.ScrapeCustomRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request payload"})
	}

	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.CardSelector) == "" || strings.TrimSpace(req.TitleSelector) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "URL, Card Selector, and Title Selector are required."})
	}

	records, err := h.custom.Scrape(c.Context(), scraper.CustomParams{
		URL:             req.URL,
		CardSelector:    req.CardSelector,
		TitleSelector:   req.TitleSelector,
		CompanySelector: req.CompanySelector,
		RenderMode:      req.RenderMode,
	})
	if err != nil {
		h.logger.Printf("[http] custom scrape failed url=%s: %v", req.URL, err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	if len(records) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ScrapeCustomEmpty{Success: false, Message: "No jobs found matching those selectors."})
	}

	added, err := h.store.MergeAndWrite(records, h.store.ReadAll())
	if err != nil {
		h.logger.Printf("[http] custom scrape persist failed url=%s: %v", req.URL, err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	h.cache.InvalidateJobData(c.Context())
	ws.NotifyJobsUpdated(records[0].Source, added)

	return c.Status(fiber.StatusOK).JSON(dto.ScrapeCustomResponse{
		Success:      true,
		Message:      fmt.Sprintf("Successfully scraped %d jobs. Added %d new jobs to database.", len(records), added),
		ScrapedCount: len(records),
		AddedCount:   added,
	})
}
