package scraper

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"jobradar/internal/domain/job"
	"jobradar/internal/fetch"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func TestMeroJob_ScrapesCards(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<div class="job-card">
				<h2><a href="/job/backend-engineer">Backend Engineer</a></h2>
				<h4><a href="/company/acme">Acme Corp</a></h4>
				<span class="location">Kathmandu</span>
				<p class="job-description">Build services.</p>
			</div>
			<div class="job-card">
				<h2><a href="/job/backend-engineer">Backend Engineer</a></h2>
			</div>
			<div class="job-card">
				<h3><a href="">Missing Link Role</a></h3>
			</div>
		</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got := NewMeroJobWithBaseURL(srv.URL, testLogger()).Scrape(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 record after within-page dedupe, got %d: %+v", len(got), got)
	}
	r := got[0]
	if r.Title != "Backend Engineer" {
		t.Fatalf("unexpected title %q", r.Title)
	}
	if r.Company != "Acme Corp" {
		t.Fatalf("unexpected company %q", r.Company)
	}
	if r.Location != "Kathmandu" {
		t.Fatalf("unexpected location %q", r.Location)
	}
	if r.Source != "merojob.com" {
		t.Fatalf("unexpected source %q", r.Source)
	}
	if r.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestMeroJob_UnreachableReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	got := NewMeroJobWithBaseURL(url, testLogger()).Scrape(context.Background())
	if len(got) != 0 {
		t.Fatalf("expected empty result for unreachable target, got %d", len(got))
	}
}

func TestKumariJob_CardCandidatesAndSentinels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<div class="list-job">
				<h3><a href="https://www.elsewhere.com/job/1">Flutter Developer</a></h3>
			</div>
			<div class="job-list-item">
				<h2><a href="/job/2">Product Manager</a></h2>
				<span class="company-name">Everest Innovations</span>
			</div>
		</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	got := NewKumariJobWithBaseURL(srv.URL, testLogger()).Scrape(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(got), got)
	}
	byTitle := map[string]int{}
	for i, r := range got {
		byTitle[r.Title] = i
	}
	flutter := got[byTitle["Flutter Developer"]]
	if flutter.Company != "Unknown Company" {
		t.Fatalf("expected company sentinel, got %q", flutter.Company)
	}
	if flutter.Link != "https://www.elsewhere.com/job/1" {
		t.Fatalf("expected absolute link kept, got %q", flutter.Link)
	}
	pm := got[byTitle["Product Manager"]]
	if pm.Company != "Everest Innovations" {
		t.Fatalf("unexpected company %q", pm.Company)
	}
	if pm.Location != "Nepal" {
		t.Fatalf("expected default location, got %q", pm.Location)
	}
}

func TestCustom_HTMLMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<div class="job"><span class="t">Backend Engineer</span><a href="/jobs/1"></a></div>
			<div class="job"><span class="t">DevOps Engineer</span><span class="c">Acme</span></div>
			<div class="job"><span class="t"></span><a href="/jobs/3"></a></div>
		</body></html>`))
	}))
	defer srv.Close()

	s := NewCustom(fetch.NewStaticFetcher(), nil, testLogger())
	got, err := s.Scrape(context.Background(), CustomParams{
		URL:             srv.URL,
		CardSelector:    ".job",
		TitleSelector:   ".t",
		CompanySelector: ".c",
		RenderMode:      RenderModeHTML,
	})
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records (empty title dropped), got %d: %+v", len(got), got)
	}
	if got[0].Title != "Backend Engineer" {
		t.Fatalf("unexpected first title %q", got[0].Title)
	}
	if got[0].Company != "Unknown Company" {
		t.Fatalf("expected company sentinel, got %q", got[0].Company)
	}
	if got[1].Company != "Acme" {
		t.Fatalf("expected company from selector, got %q", got[1].Company)
	}
	// card without an anchor falls back to the page URL
	if got[1].Link != srv.URL {
		t.Fatalf("expected page-url link fallback, got %q", got[1].Link)
	}
}

func TestCustom_FetchErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewCustom(fetch.NewStaticFetcher(), nil, testLogger())
	_, err := s.Scrape(context.Background(), CustomParams{
		URL:           srv.URL,
		CardSelector:  ".job",
		TitleSelector: ".t",
		RenderMode:    RenderModeHTML,
	})
	if err == nil {
		t.Fatalf("expected error for non-2xx target")
	}
}

func TestCustom_ValidatesParams(t *testing.T) {
	s := NewCustom(fetch.NewStaticFetcher(), nil, testLogger())
	if _, err := s.Scrape(context.Background(), CustomParams{URL: "https://x.com"}); err == nil {
		t.Fatalf("expected validation error for missing selectors")
	}
}

func TestScrapePool_CollectsResults(t *testing.T) {
	pool := NewScrapePool(3, 8)
	results := pool.Run(context.Background())

	for i := 0; i < 5; i++ {
		pool.Submit(func(ctx context.Context) ([]job.Record, error) {
			return []job.Record{{Title: "T", Link: "https://x"}}, nil
		})
	}
	pool.Close()

	count := 0
	for range results {
		count++
	}
	if count != 5 {
		t.Fatalf("expected 5 results, got %d", count)
	}
}

// Closing while throttled tasks are still queued must not strand a worker on
// the rate ticker; every submitted task still runs and the results channel
// still closes. Mirrors the multi-role sweep, which Closes right after its
// last Submit.
func TestScrapePool_CloseWithThrottledTasksPending(t *testing.T) {
	pool := NewScrapePool(2, 4)
	pool.SetRateLimit(2)
	results := pool.Run(context.Background())

	for i := 0; i < 4; i++ {
		pool.Submit(func(ctx context.Context) ([]job.Record, error) {
			return []job.Record{{Title: "T", Link: "https://x"}}, nil
		})
	}
	pool.Close()

	done := make(chan int, 1)
	go func() {
		n := 0
		for range results {
			n++
		}
		done <- n
	}()

	select {
	case n := <-done:
		if n != 4 {
			t.Fatalf("expected 4 results, got %d", n)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("pool never drained after Close with throttled tasks pending")
	}
}
