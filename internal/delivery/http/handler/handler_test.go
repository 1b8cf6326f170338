package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"jobradar/internal/domain/job"
	"jobradar/internal/fetch"
	"jobradar/internal/matcher"
	"jobradar/internal/scraper"
	"jobradar/internal/store"

	"github.com/gofiber/fiber/v3"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func newStore(t *testing.T) *store.JobStore {
	t.Helper()
	return store.New(filepath.Join(t.TempDir(), "jobs.json"), testLogger())
}

type countingScorer struct {
	calls   int
	matches []matcher.ScoredMatch
	err     error
}

func (s *countingScorer) Score(ctx context.Context, resumeText string, jobs []matcher.PromptJob) ([]matcher.ScoredMatch, error) {
	s.calls++
	return s.matches, s.err
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		t.Fatalf("unmarshal body %s: %v", b, err)
	}
}

func TestScrapeCustom_MissingSelectorsIs400(t *testing.T) {
	st := newStore(t)
	custom := scraper.NewCustom(fetch.NewStaticFetcher(), nil, testLogger())
	h := NewScrapeHandler(custom, st, nil, testLogger())

	app := fiber.New()
	app.Post("/api/scrape-custom", h.HandleScrapeCustom)

	resp := postJSON(t, app, "/api/scrape-custom", map[string]string{"url": "https://example.com"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error == "" {
		t.Fatalf("expected an error message in the 400 body")
	}
}

func TestScrapeCustom_HTMLModeScrapesAndPersists(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<div class="job"><span class="t">Backend Engineer</span><a href="/jobs/1">apply</a></div>
			<div class="job"><span class="t">Frontend Engineer</span><a href="/jobs/2">apply</a></div>
			<div class="job"><span class="t"></span><a href="/jobs/3">apply</a></div>
		</body></html>`))
	}))
	defer page.Close()

	st := newStore(t)
	custom := scraper.NewCustom(fetch.NewStaticFetcher(), nil, testLogger())
	h := NewScrapeHandler(custom, st, nil, testLogger())

	app := fiber.New()
	app.Post("/api/scrape-custom", h.HandleScrapeCustom)

	resp := postJSON(t, app, "/api/scrape-custom", map[string]string{
		"url":           page.URL,
		"cardSelector":  ".job",
		"titleSelector": ".t",
		"renderMode":    "html",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Success      bool `json:"success"`
		ScrapedCount int  `json:"scrapedCount"`
		AddedCount   int  `json:"addedCount"`
	}
	decodeBody(t, resp, &body)
	if !body.Success || body.ScrapedCount != 2 || body.AddedCount != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
	if got := len(st.ReadAll()); got != 2 {
		t.Fatalf("expected 2 persisted records, got %d", got)
	}
}

func TestScrapeCustom_NoMatchesIs404(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer page.Close()

	st := newStore(t)
	custom := scraper.NewCustom(fetch.NewStaticFetcher(), nil, testLogger())
	h := NewScrapeHandler(custom, st, nil, testLogger())

	app := fiber.New()
	app.Post("/api/scrape-custom", h.HandleScrapeCustom)

	resp := postJSON(t, app, "/api/scrape-custom", map[string]string{
		"url":           page.URL,
		"cardSelector":  ".job",
		"titleSelector": ".t",
		"renderMode":    "html",
	})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, resp, &body)
	if body.Success || body.Message == "" {
		t.Fatalf("unexpected 404 body %+v", body)
	}
}

func TestScrapeCustom_UnreachableURLIs500(t *testing.T) {
	st := newStore(t)
	custom := scraper.NewCustom(fetch.NewStaticFetcher(), nil, testLogger())
	h := NewScrapeHandler(custom, st, nil, testLogger())

	app := fiber.New()
	app.Post("/api/scrape-custom", h.HandleScrapeCustom)

	resp := postJSON(t, app, "/api/scrape-custom", map[string]string{
		"url":           "http://127.0.0.1:1/jobs",
		"cardSelector":  ".job",
		"titleSelector": ".t",
		"renderMode":    "html",
	})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestMatchJobs_EmptyResumeIs400BeforeScorer(t *testing.T) {
	st := newStore(t)
	sc := &countingScorer{}
	h := NewMatchHandler(matcher.New(st, sc, nil, false, testLogger()), nil, testLogger())

	app := fiber.New()
	app.Post("/api/match-jobs", h.HandleMatchJobs)

	resp := postJSON(t, app, "/api/match-jobs", map[string]string{"resumeText": ""})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if sc.calls != 0 {
		t.Fatalf("scorer must not be invoked on empty resume, calls=%d", sc.calls)
	}
}

func TestMatchJobs_ScorerFailureIs500WithDetails(t *testing.T) {
	st := newStore(t)
	sc := &countingScorer{err: io.ErrUnexpectedEOF}
	h := NewMatchHandler(matcher.New(st, sc, nil, false, testLogger()), nil, testLogger())

	app := fiber.New()
	app.Post("/api/match-jobs", h.HandleMatchJobs)

	resp := postJSON(t, app, "/api/match-jobs", map[string]string{"resumeText": "golang backend"})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	decodeBody(t, resp, &body)
	if body.Error != "Failed to find job matches" || body.Details == "" {
		t.Fatalf("unexpected 500 body %+v", body)
	}
}

func TestMatchJobs_ReturnsHydratedMatches(t *testing.T) {
	st := newStore(t)
	if err := st.ReplaceAll([]job.Record{
		{ID: "a", Title: "Backend Engineer", Company: "Acme", Link: "https://x/1", Source: "test.com"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sc := &countingScorer{matches: []matcher.ScoredMatch{{JobID: "a", MatchPercentage: 88, Reason: "fit"}}}
	h := NewMatchHandler(matcher.New(st, sc, nil, false, testLogger()), nil, testLogger())

	app := fiber.New()
	app.Post("/api/match-jobs", h.HandleMatchJobs)

	resp := postJSON(t, app, "/api/match-jobs", map[string]string{"resumeText": "golang backend"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Matches []struct {
			JobID           string `json:"jobId"`
			MatchPercentage int    `json:"matchPercentage"`
			Job             struct {
				Title string `json:"title"`
			} `json:"job"`
		} `json:"matches"`
	}
	decodeBody(t, resp, &body)
	if len(body.Matches) != 1 || body.Matches[0].JobID != "a" || body.Matches[0].Job.Title != "Backend Engineer" {
		t.Fatalf("unexpected matches %+v", body.Matches)
	}
}

func TestJobsStats_GroupsBySource(t *testing.T) {
	st := newStore(t)
	if err := st.ReplaceAll([]job.Record{
		{ID: "a", Title: "Backend Engineer", Company: "Acme", Link: "https://x/1", Source: "test.com"},
		{ID: "b", Title: "SRE", Company: "Beta", Link: "https://x/2", Source: "other.com"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	h := NewStatsHandler(st, nil, testLogger())

	app := fiber.New()
	app.Get("/api/jobs-stats", h.HandleJobsStats)

	req := httptest.NewRequest("GET", "/api/jobs-stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Total   int                          `json:"total"`
		Sources map[string][]json.RawMessage `json:"sources"`
	}
	decodeBody(t, resp, &body)
	if body.Total != 2 || len(body.Sources["test.com"]) != 1 || len(body.Sources["other.com"]) != 1 {
		t.Fatalf("unexpected stats %+v", body)
	}
}

func TestAnalyze_EmptyTextIs400(t *testing.T) {
	h := NewAnalyzeHandler(nil, nil, testLogger())

	app := fiber.New()
	app.Post("/api/analyze", h.HandleAnalyze)

	resp := postJSON(t, app, "/api/analyze", map[string]string{"text": ""})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
