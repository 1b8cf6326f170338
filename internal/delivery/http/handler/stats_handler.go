package handler

import (
	"log"

	"jobradar/internal/cache"
	"jobradar/internal/store"

	"github.com/gofiber/fiber/v3"
)

type StatsHandler struct {
	store  *store.JobStore
	cache  *cache.Redis
	logger *log.Logger
}

func NewStatsHandler(st *store.JobStore, ca *cache.Redis, logger *log.Logger) *StatsHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &StatsHandler{store: st, cache: ca, logger: logger}
}

// HandleJobsStats returns the snapshot grouped by source, cache-first. A
// missing store is an empty payload, not an error.
func (h *StatsHandler) HandleJobsStats(c fiber.Ctx) error {
	var cached store.Stats
	if hit, err := h.cache.GetJSON(c.Context(), cache.StatsKey, &cached); err == nil && hit {
		return c.JSON(cached)
	}

	st := h.store.Stats()
	if err := h.cache.SetJSON(c.Context(), cache.StatsKey, st, cache.DefaultTTL); err != nil {
		h.logger.Printf("[http] stats cache write failed: %v", err)
	}
	return c.JSON(st)
}
