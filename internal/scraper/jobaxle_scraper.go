package scraper

import (
	"context"
	"log"

	"jobradar/internal/domain/job"
	"jobradar/internal/fetch"
)

const jobaxleSource = "jobaxle.com"

// JobAxle scrapes jobaxle.com in dynamic mode. The extraction runs two passes
// in-page: structured cards first, then a broad anchor sweep when the card
// markup has drifted again.
type JobAxle struct {
	baseURL string
	fetcher *fetch.DynamicFetcher
	logger  *log.Logger
}

func NewJobAxle(fetcher *fetch.DynamicFetcher, logger *log.Logger) *JobAxle {
	return &JobAxle{
		baseURL: "https://jobaxle.com",
		fetcher: fetcher,
		logger:  ensureLogger(logger),
	}
}

func (s *JobAxle) Name() string { return jobaxleSource }

func (s *JobAxle) Scrape(ctx context.Context) []job.Record {
	if s == nil || s.fetcher == nil {
		return []job.Record{}
	}

	var raws []fetch.RawJob
	err := s.fetcher.Fetch(ctx, s.baseURL+"/", `a[href*="/jobs/"]`, jobaxleExtractJS, &raws)
	if err != nil {
		s.logger.Printf("[scraper] jobaxle scrape failed: %v", err)
		return []job.Record{}
	}

	records := make([]job.Record, 0, len(raws))
	for _, r := range raws {
		company := r.Company
		if company == "" {
			company = job.UnknownCompany
		}
		records = append(records, job.Record{
			ID:          job.StableID("ja", r.Title, company, r.Link),
			Title:       r.Title,
			Company:     company,
			Location:    job.DefaultLocation,
			Link:        r.Link,
			Description: "Open " + r.Title + " position at " + company + ".",
			Source:      jobaxleSource,
		})
	}
	out := job.DedupeWithinPage(records)
	s.logger.Printf("[scraper] jobaxle scraped %d record(s)", len(out))
	return out
}

const jobaxleExtractJS = `(() => {
	const results = [];
	document.querySelectorAll('.job-wrapper, .job-item, article').forEach(el => {
		const titleEl = el.querySelector('.job-title, h2, h3');
		const companyEl = el.querySelector('.company, h4');
		const title = titleEl ? titleEl.innerText.trim() : '';
		let link = '';
		if (titleEl && titleEl.querySelector('a')) {
			link = titleEl.querySelector('a').href;
		} else if (el.querySelector('a[href*="/jobs/"]')) {
			link = el.querySelector('a[href*="/jobs/"]').href;
		}
		if (title && link && !results.find(j => j.title === title)) {
			results.push({
				title: title,
				company: companyEl ? companyEl.innerText.trim() : '',
				location: '',
				link: link
			});
		}
	});
	if (results.length === 0) {
		document.querySelectorAll('a[href*="/jobs/"]').forEach(el => {
			const text = el.innerText.trim();
			if (text.length > 5 && !results.find(j => j.title === text)) {
				results.push({ title: text, company: '', location: '', link: el.href });
			}
		});
	}
	return results;
})()`
