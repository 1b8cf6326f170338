package scraper

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"jobradar/internal/domain/job"
	"jobradar/internal/fetch"
)

const merojobSource = "merojob.com"

// MeroJob scrapes the merojob.com search listing in static mode: one GET per
// page, selector extraction over the parsed tree.
type MeroJob struct {
	baseURL string
	logger  *log.Logger
}

func NewMeroJob(logger *log.Logger) *MeroJob {
	return &MeroJob{baseURL: "https://merojob.com", logger: ensureLogger(logger)}
}

// NewMeroJobWithBaseURL targets a non-default host, used by tests.
func NewMeroJobWithBaseURL(baseURL string, logger *log.Logger) *MeroJob {
	s := NewMeroJob(logger)
	if strings.TrimSpace(baseURL) != "" {
		s.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
	return s
}

func (s *MeroJob) Name() string { return merojobSource }

// Scrape returns the postings currently listed on the search page. All
// failures are logged and swallowed; the scheduler only ever sees a list.
func (s *MeroJob) Scrape(ctx context.Context) []job.Record {
	if s == nil {
		return []job.Record{}
	}
	searchURL := s.baseURL + "/search/?q="

	c := colly.NewCollector(colly.AllowedDomains(hostOf(s.baseURL)))
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, Delay: 400 * time.Millisecond, RandomDelay: 750 * time.Millisecond})

	records := make([]job.Record, 0)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
	})

	c.OnHTML(".job-card", func(e *colly.HTMLElement) {
		title := fetch.FirstText(e.DOM, "h1 a", "h2 a", "h3 a", ".job-title a")
		href := fetch.FirstAttr(e.DOM, "href", "h1 a", "h2 a", "h3 a", ".job-title a")
		company := fetch.FirstText(e.DOM, "h3 a", "h4 a", ".company-name a")
		location := fetch.FirstText(e.DOM, ".location", ".job-location")
		desc := fetch.FirstText(e.DOM, ".job-description", ".text-muted")

		link := fetch.AbsoluteLink(href, searchURL)
		if title == "" || link == "" {
			return
		}
		if company == "" {
			company = job.UnknownCompany
		}
		if desc == "" {
			desc = "No description available in preview."
		}
		records = append(records, job.Record{
			ID:          job.StableID("mj", title, company, link),
			Title:       title,
			Company:     company,
			Location:    location,
			Link:        link,
			Description: title + " position at " + company + ". " + desc,
			Source:      merojobSource,
		})
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return []job.Record{}
	}
	if err := c.Visit(searchURL); err != nil {
		s.logger.Printf("[scraper] merojob visit failed: %v", err)
		return []job.Record{}
	}
	c.Wait()
	if reqErr != nil {
		s.logger.Printf("[scraper] merojob request failed: %v", reqErr)
		return []job.Record{}
	}

	out := job.DedupeWithinPage(records)
	s.logger.Printf("[scraper] merojob scraped %d record(s)", len(out))
	return out
}
