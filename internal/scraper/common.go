// Package scraper holds the per-source site adapters. Every fixed-site
// adapter follows the same reliability policy: scraping third-party sites
// fails intermittently (markup drift, anti-bot challenges, rate limiting), so
// internal errors are logged and swallowed and the adapter returns an empty
// list. One source failing must never block the others or crash the scheduler.
package scraper

import (
	"context"
	"log"
	"net/url"
	"strings"

	"jobradar/internal/domain/job"
)

// Adapter is a single source-specific scraping implementation usable by the
// periodic sweep. Scrape never returns an error; failures surface only in
// logs.
type Adapter interface {
	Name() string
	Scrape(ctx context.Context) []job.Record
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Hostname()
}

func ensureLogger(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
