package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"jobradar/internal/domain/job"
	"jobradar/internal/fetch"
)

const linkedinSource = "linkedin.com"

// Roles swept when no specific role has been inferred yet.
var defaultLinkedInRoles = []string{
	"Software Engineer",
	"Frontend Developer",
	"Backend Developer",
	"React Developer",
}

const linkedinCardSelector = ".base-search-card__info"

// LinkedIn scrapes the public LinkedIn job search in dynamic mode; the listing
// only renders client-side. A captcha or empty result page surfaces as a
// selector-wait timeout, which the fetcher treats as zero results.
type LinkedIn struct {
	baseURL string
	fetcher *fetch.DynamicFetcher
	logger  *log.Logger
}

func NewLinkedIn(fetcher *fetch.DynamicFetcher, logger *log.Logger) *LinkedIn {
	return &LinkedIn{
		baseURL: "https://www.linkedin.com",
		fetcher: fetcher,
		logger:  ensureLogger(logger),
	}
}

func (s *LinkedIn) Name() string { return linkedinSource }

// Scrape sweeps the default roles, a handful of postings each, fanning the
// per-role fetches over a small rate-limited pool.
func (s *LinkedIn) Scrape(ctx context.Context) []job.Record {
	if s == nil {
		return []job.Record{}
	}

	pool := NewScrapePool(2, len(defaultLinkedInRoles))
	pool.SetRateLimit(1)
	results := pool.Run(ctx)

	for _, role := range defaultLinkedInRoles {
		role := role
		pool.Submit(func(ctx context.Context) ([]job.Record, error) {
			return s.ScrapeRole(ctx, role, job.DefaultLocation, 5), nil
		})
	}
	pool.Close()

	all := make([]job.Record, 0)
	for res := range results {
		all = append(all, res.Records...)
	}
	return job.DedupeWithinPage(all)
}

// ScrapeRole retrieves up to limit postings for one role/location query.
// Never errors: an unreachable or blocking LinkedIn yields an empty list.
func (s *LinkedIn) ScrapeRole(ctx context.Context, role, location string, limit int) []job.Record {
	if s == nil || s.fetcher == nil {
		return []job.Record{}
	}
	if role == "" {
		return []job.Record{}
	}
	if location == "" {
		location = job.DefaultLocation
	}
	if limit <= 0 {
		limit = 10
	}

	searchURL := fmt.Sprintf("%s/jobs/search?keywords=%s&location=%s",
		s.baseURL, url.QueryEscape(role), url.QueryEscape(location))

	var raws []fetch.RawJob
	err := s.fetcher.Fetch(ctx, searchURL, linkedinCardSelector, linkedinExtractJS(limit), &raws)
	if err != nil {
		s.logger.Printf("[scraper] linkedin scrape failed role=%q: %v", role, err)
		return []job.Record{}
	}

	records := make([]job.Record, 0, len(raws))
	for _, r := range raws {
		if r.Title == "" || r.Company == "" {
			continue
		}
		loc := r.Location
		if loc == "" {
			loc = location
		}
		if r.Link == "" {
			r.Link = searchURL
		}
		records = append(records, job.Record{
			ID:          job.StableID("li", r.Title, r.Company, r.Link),
			Title:       r.Title,
			Company:     r.Company,
			Location:    loc,
			Link:        r.Link,
			Description: "LinkedIn Job: " + r.Title + " at " + r.Company,
			Source:      linkedinSource,
		})
	}
	out := job.DedupeWithinPage(records)
	s.logger.Printf("[scraper] linkedin scraped %d record(s) for role=%q", len(out), role)
	return out
}

func linkedinExtractJS(limit int) string {
	return fmt.Sprintf(`(() => {
		const results = [];
		document.querySelectorAll('.base-search-card__info').forEach(el => {
			if (results.length >= %d) return;
			const titleEl = el.querySelector('.base-search-card__title');
			const companyEl = el.querySelector('.base-search-card__subtitle');
			const locationEl = el.querySelector('.job-search-card__location');
			const linkEl = el.closest('.base-card') ? el.closest('.base-card').querySelector('.base-card__full-link') : null;
			if (titleEl && companyEl) {
				results.push({
					title: titleEl.innerText.trim(),
					company: companyEl.innerText.trim(),
					location: locationEl ? locationEl.innerText.trim() : '',
					link: linkEl ? linkEl.href : ''
				});
			}
		});
		return results;
	})()`, limit)
}
