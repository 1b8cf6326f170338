// Package scheduler drives when the site adapters run: a periodic cron sweep
// plus the fire-and-forget warm-up triggered by resume analysis. It holds no
// durable state; last/next run are implicit in the cron spec.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"jobradar/internal/cache"
	"jobradar/internal/domain/job"
	"jobradar/internal/scraper"
	"jobradar/internal/store"
	"jobradar/internal/ws"
)

const (
	warmupLimit   = 20
	warmupTimeout = 90 * time.Second
)

// Scheduler wraps robfig/cron and owns the sweep loop over the registered
// adapters.
type Scheduler struct {
	cron     *cron.Cron
	store    *store.JobStore
	adapters []scraper.Adapter
	linkedin *scraper.LinkedIn
	cache    *cache.Redis
	spec     string
	logger   *log.Logger
}

// New builds a scheduler sweeping every intervalHours hours.
func New(st *store.JobStore, adapters []scraper.Adapter, linkedin *scraper.LinkedIn, intervalHours int, logger *log.Logger) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = 12
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cron.DefaultLogger)),
		store:    st,
		adapters: adapters,
		linkedin: linkedin,
		spec:     fmt.Sprintf("@every %dh", intervalHours),
		logger:   logger,
	}
}

// SetCache attaches the derived-read cache so sweeps can invalidate it after
// writing. Nil is fine; invalidation is then a no-op.
func (s *Scheduler) SetCache(c *cache.Redis) {
	s.cache = c
}

// Start registers the sweep and starts the cron loop. One sweep also runs
// immediately (non-blocking) so the feed is populated without waiting for the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Printf("[scheduler] cron started, spec %s", s.spec)

	go s.RunSweep(ctx)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Printf("[scheduler] cron stopped")
}

// RunSweep runs every registered adapter in sequence and persists the
// combined result. An adapter failing (which it signals only by returning
// nothing) never cancels the rest of the sweep.
func (s *Scheduler) RunSweep(ctx context.Context) {
	runID := uuid.NewString()[:8]
	s.logger.Printf("[scheduler] sweep %s started, %d adapter(s)", runID, len(s.adapters))

	all := make([]job.Record, 0)
	for _, a := range s.adapters {
		if ctx.Err() != nil {
			s.logger.Printf("[scheduler] sweep %s aborted: %v", runID, ctx.Err())
			return
		}
		got := a.Scrape(ctx)
		s.logger.Printf("[scheduler] sweep %s source=%s records=%d", runID, a.Name(), len(got))
		all = append(all, got...)
	}

	if err := s.store.ReplaceOrMerge(all); err != nil {
		s.logger.Printf("[scheduler] sweep %s persist failed: %v", runID, err)
		return
	}
	s.cache.InvalidateJobData(ctx)
	ws.NotifyJobsUpdated("sweep", len(all))
	s.logger.Printf("[scheduler] sweep %s complete, %d record(s) gathered", runID, len(all))
}

// Warmup scrapes postings for an inferred role in the background. It detaches
// from the triggering request entirely: its own context, its own panic
// boundary, success or failure visible only in logs.
func (s *Scheduler) Warmup(role string) {
	if s == nil || s.linkedin == nil || role == "" {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Printf("[scheduler] warm-up panic recovered: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
		defer cancel()

		s.logger.Printf("[scheduler] warm-up started role=%q", role)
		records := s.linkedin.ScrapeRole(ctx, role, job.DefaultLocation, warmupLimit)
		if len(records) == 0 {
			s.logger.Printf("[scheduler] warm-up found nothing role=%q", role)
			return
		}

		added, err := s.store.MergeAndWrite(records, s.store.ReadAll())
		if err != nil {
			s.logger.Printf("[scheduler] warm-up persist failed role=%q: %v", role, err)
			return
		}
		s.cache.InvalidateJobData(ctx)
		ws.NotifyJobsUpdated(s.linkedin.Name(), added)
		s.logger.Printf("[scheduler] warm-up complete role=%q scraped=%d added=%d", role, len(records), added)
	}()
}
