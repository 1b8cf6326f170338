package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobradar/internal/domain/job"
	"jobradar/internal/fetch"
)

func firstTextIf(sel *goquery.Selection, selector string) string {
	if strings.TrimSpace(selector) == "" {
		return ""
	}
	return fetch.FirstText(sel, selector)
}

// Render modes accepted by the ad-hoc scraper. "puppeteer" is the wire name
// the dashboard has always sent for headless rendering.
const (
	RenderModeHTML    = "html"
	RenderModeBrowser = "puppeteer"
)

// CustomParams is the caller-supplied selector set for scraping an arbitrary
// listing page.
type CustomParams struct {
	URL             string
	CardSelector    string
	TitleSelector   string
	CompanySelector string
	RenderMode      string
}

func (p CustomParams) validate() error {
	if strings.TrimSpace(p.URL) == "" || strings.TrimSpace(p.CardSelector) == "" || strings.TrimSpace(p.TitleSelector) == "" {
		return fmt.Errorf("url, card selector and title selector are required")
	}
	return nil
}

// Custom applies caller-supplied selectors to any URL using either fetch
// strategy. Unlike the fixed-site adapters it returns its error: the caller is
// an interactive request that needs to see why its selectors failed.
type Custom struct {
	static  *fetch.StaticFetcher
	dynamic *fetch.DynamicFetcher
	logger  *log.Logger
}

func NewCustom(static *fetch.StaticFetcher, dynamic *fetch.DynamicFetcher, logger *log.Logger) *Custom {
	return &Custom{static: static, dynamic: dynamic, logger: ensureLogger(logger)}
}

// Scrape fetches the page and extracts one record per card with a non-empty
// title. Zero matches is a valid outcome, not an error.
func (s *Custom) Scrape(ctx context.Context, p CustomParams) ([]job.Record, error) {
	if s == nil {
		return nil, fmt.Errorf("nil scraper")
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	source := hostOf(p.URL)
	if source == "" {
		return nil, fmt.Errorf("invalid url %q", p.URL)
	}

	var raws []fetch.RawJob
	switch p.RenderMode {
	case RenderModeBrowser:
		if s.dynamic == nil {
			return nil, fmt.Errorf("headless rendering unavailable")
		}
		js := fetch.CardExtractJS(p.CardSelector, p.TitleSelector, p.CompanySelector)
		if err := s.dynamic.Fetch(ctx, p.URL, p.CardSelector, js, &raws); err != nil {
			return nil, err
		}
	default:
		if s.static == nil {
			return nil, fmt.Errorf("static fetching unavailable")
		}
		doc, err := s.static.Fetch(ctx, p.URL)
		if err != nil {
			return nil, err
		}
		doc.Find(p.CardSelector).Each(func(_ int, card *goquery.Selection) {
			href := fetch.FirstAttr(card, "href", "a")
			raws = append(raws, fetch.RawJob{
				Title:   fetch.FirstText(card, p.TitleSelector),
				Company: firstTextIf(card, p.CompanySelector),
				Link:    fetch.AbsoluteLink(href, p.URL),
			})
		})
	}

	records := make([]job.Record, 0, len(raws))
	for _, r := range raws {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		company := strings.TrimSpace(r.Company)
		if company == "" {
			company = job.UnknownCompany
		}
		link := strings.TrimSpace(r.Link)
		if link == "" {
			link = p.URL
		}
		records = append(records, job.Record{
			ID:          job.StableID("custom", title, company, link),
			Title:       title,
			Company:     company,
			Location:    job.DefaultLocation,
			Link:        link,
			Description: "Scraped position: " + title,
			Source:      source,
		})
	}
	s.logger.Printf("[scraper] custom scrape url=%s mode=%s matched %d record(s)", p.URL, p.RenderMode, len(records))
	return records, nil
}
