package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"jobradar/internal/app"
	"jobradar/internal/config"
)

// One-shot scrape runner. With -role it pulls role-targeted postings from
// LinkedIn; otherwise it runs the registered site adapters (all of them, or
// the one named by -source) once against the shared store.
func main() {
	source := flag.String("source", "all", "adapter to run (all, merojob.com, kumarijob.com, jobaxle.com, linkedin.com)")
	role := flag.String("role", "", "role query for a targeted LinkedIn scrape")
	location := flag.String("location", "Nepal", "location for a targeted LinkedIn scrape")
	limit := flag.Int("limit", 20, "record cap for a targeted LinkedIn scrape")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if r := strings.TrimSpace(*role); r != "" {
		records := c.LinkedIn.ScrapeRole(ctx, r, strings.TrimSpace(*location), *limit)
		if len(records) == 0 {
			log.Printf("no records found role=%q", r)
			return
		}
		added, err := c.Store.MergeAndWrite(records, c.Store.ReadAll())
		if err != nil {
			log.Fatalf("persist failed: %v", err)
		}
		c.Cache.InvalidateJobData(ctx)
		log.Printf("scraped=%d added=%d role=%q", len(records), added, r)
		return
	}

	if *source == "all" {
		c.Scheduler.RunSweep(ctx)
		return
	}

	for _, a := range c.Adapters {
		if a.Name() != *source {
			continue
		}
		records := a.Scrape(ctx)
		added, err := c.Store.MergeAndWrite(records, c.Store.ReadAll())
		if err != nil {
			log.Fatalf("persist failed: %v", err)
		}
		c.Cache.InvalidateJobData(ctx)
		log.Printf("scraped=%d added=%d source=%s", len(records), added, *source)
		return
	}
	log.Fatalf("unknown source %q", *source)
}
