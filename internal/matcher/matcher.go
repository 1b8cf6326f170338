// Package matcher prepares the condensed job list, delegates scoring to the
// external LLM collaborator and hydrates the results back against the job
// store.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"log"

	"jobradar/internal/domain/job"
	"jobradar/internal/store"
)

// ErrMatch wraps any scorer failure: unreachable, non-JSON, or an
// unrecognizable shape. An unreadable job store is NOT a match error; it is
// treated as zero available jobs.
var ErrMatch = errors.New("job matching failed")

const resumeTextLimit = 4000

// Match is a scored job hydrated with its full record.
type Match struct {
	JobID           string     `json:"jobId"`
	MatchPercentage int        `json:"matchPercentage"`
	Reason          string     `json:"reason"`
	Job             job.Record `json:"job"`
}

// RoleScraper is the optional synchronous supplementary scrape run before
// matching, trading request latency for match freshness.
type RoleScraper interface {
	ScrapeRole(ctx context.Context, role, location string, limit int) []job.Record
}

type Matcher struct {
	store         *store.JobStore
	scorer        Scorer
	roleScraper   RoleScraper
	scrapeOnMatch bool
	logger        *log.Logger
}

func New(st *store.JobStore, scorer Scorer, roleScraper RoleScraper, scrapeOnMatch bool, logger *log.Logger) *Matcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Matcher{
		store:         st,
		scorer:        scorer,
		roleScraper:   roleScraper,
		scrapeOnMatch: scrapeOnMatch,
		logger:        logger,
	}
}

// Match scores the resume against the current snapshot and returns the
// hydrated matches. Scorer failures wrap ErrMatch; an empty store simply
// yields zero matches.
func (m *Matcher) Match(ctx context.Context, resumeText, primaryRole string) ([]Match, error) {
	if m == nil || m.scorer == nil {
		return nil, fmt.Errorf("%w: no scorer configured", ErrMatch)
	}
	if resumeText == "" {
		return nil, fmt.Errorf("%w: empty resume text", ErrMatch)
	}
	if len(resumeText) > resumeTextLimit {
		resumeText = resumeText[:resumeTextLimit]
	}

	if m.scrapeOnMatch && m.roleScraper != nil && primaryRole != "" {
		fresh := m.roleScraper.ScrapeRole(ctx, primaryRole, job.DefaultLocation, 10)
		if len(fresh) > 0 {
			if _, err := m.store.MergeAndWrite(fresh, m.store.ReadAll()); err != nil {
				m.logger.Printf("[matcher] supplementary scrape persist failed: %v", err)
			}
		}
	}

	snapshot := dedupeByID(m.store.ReadAll())
	m.logger.Printf("[matcher] scoring resume against %d job(s)", len(snapshot))

	prompt := make([]PromptJob, 0, len(snapshot))
	byID := make(map[string]job.Record, len(snapshot))
	for _, r := range snapshot {
		byID[r.ID] = r
		prompt = append(prompt, PromptJob{
			ID:          r.ID,
			Title:       r.Title,
			Company:     r.Company,
			Description: r.Description,
		})
	}

	scored, err := m.scorer.Score(ctx, resumeText, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMatch, err)
	}

	out := make([]Match, 0, len(scored))
	for _, s := range scored {
		full, ok := byID[s.JobID]
		if !ok {
			// scorer hallucinated an id
			m.logger.Printf("[matcher] dropping match with unknown job id %q", s.JobID)
			continue
		}
		out = append(out, Match{
			JobID:           s.JobID,
			MatchPercentage: s.MatchPercentage,
			Reason:          s.Reason,
			Job:             full,
		})
	}
	return out, nil
}

// dedupeByID collapses duplicate record IDs, keeping the first occurrence.
// New records merge in ahead of old ones, so first-seen is the latest scrape.
func dedupeByID(records []job.Record) []job.Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]job.Record, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
