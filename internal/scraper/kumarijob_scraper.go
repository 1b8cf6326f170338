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

const kumarijobSource = "kumarijob.com"

// KumariJob scrapes www.kumarijob.com in static mode. The site has shipped at
// least three listing layouts, hence the card selector candidates.
type KumariJob struct {
	baseURL string
	logger  *log.Logger
}

func NewKumariJob(logger *log.Logger) *KumariJob {
	return &KumariJob{baseURL: "https://www.kumarijob.com", logger: ensureLogger(logger)}
}

func NewKumariJobWithBaseURL(baseURL string, logger *log.Logger) *KumariJob {
	s := NewKumariJob(logger)
	if strings.TrimSpace(baseURL) != "" {
		s.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
	return s
}

func (s *KumariJob) Name() string { return kumarijobSource }

func (s *KumariJob) Scrape(ctx context.Context) []job.Record {
	if s == nil {
		return []job.Record{}
	}
	searchURL := s.baseURL + "/search"

	c := colly.NewCollector(colly.AllowedDomains(hostOf(s.baseURL)))
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, Delay: 400 * time.Millisecond, RandomDelay: 750 * time.Millisecond})

	records := make([]job.Record, 0)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
	})

	c.OnHTML(".job-list-item, .job-card, .list-job", func(e *colly.HTMLElement) {
		title := fetch.FirstText(e.DOM, "h2 a", "h3 a")
		href := fetch.FirstAttr(e.DOM, "href", "h2 a", "h3 a")
		company := fetch.FirstText(e.DOM, ".company-name")

		link := fetch.AbsoluteLink(href, searchURL)
		if title == "" || link == "" {
			return
		}
		if company == "" {
			company = job.UnknownCompany
		}
		records = append(records, job.Record{
			ID:          job.StableID("kj", title, company, link),
			Title:       title,
			Company:     company,
			Location:    job.DefaultLocation,
			Link:        link,
			Description: "Open " + title + " position. Apply at " + company + ".",
			Source:      kumarijobSource,
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
		s.logger.Printf("[scraper] kumarijob visit failed: %v", err)
		return []job.Record{}
	}
	c.Wait()
	if reqErr != nil {
		s.logger.Printf("[scraper] kumarijob request failed: %v", reqErr)
		return []job.Record{}
	}

	out := job.DedupeWithinPage(records)
	s.logger.Printf("[scraper] kumarijob scraped %d record(s)", len(out))
	return out
}
