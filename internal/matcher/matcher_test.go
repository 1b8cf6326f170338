package matcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"jobradar/internal/domain/job"
	"jobradar/internal/store"
)

type fakeScorer struct {
	matches []ScoredMatch
	err     error
	calls   int
	gotJobs []PromptJob
}

func (f *fakeScorer) Score(ctx context.Context, resumeText string, jobs []PromptJob) ([]ScoredMatch, error) {
	f.calls++
	f.gotJobs = jobs
	return f.matches, f.err
}

func testStore(t *testing.T, records []job.Record) *store.JobStore {
	t.Helper()
	s := store.New(filepath.Join(t.TempDir(), "jobs.json"), log.New(os.Stderr, "", 0))
	if records != nil {
		if err := s.ReplaceAll(records); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	return s
}

func TestMatch_HydrationDropsUnknownIDs(t *testing.T) {
	st := testStore(t, []job.Record{
		{ID: "a", Title: "Backend Engineer", Company: "Acme", Link: "https://x/1", Source: "test.com"},
	})
	sc := &fakeScorer{matches: []ScoredMatch{
		{JobID: "a", MatchPercentage: 80, Reason: "fit"},
		{JobID: "z", MatchPercentage: 99, Reason: "hallucinated"},
	}}

	got, err := New(st, sc, nil, false, nil).Match(context.Background(), "resume", "")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 hydrated match, got %d", len(got))
	}
	if got[0].JobID != "a" || got[0].Job.Title != "Backend Engineer" {
		t.Fatalf("unexpected hydrated match %+v", got[0])
	}
}

func TestMatch_EmptyStoreStillScores(t *testing.T) {
	st := testStore(t, nil)
	sc := &fakeScorer{}

	got, err := New(st, sc, nil, false, nil).Match(context.Background(), "resume", "")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected zero matches, got %d", len(got))
	}
	if sc.calls != 1 {
		t.Fatalf("expected scorer still invoked, calls=%d", sc.calls)
	}
	if len(sc.gotJobs) != 0 {
		t.Fatalf("expected empty projection, got %d", len(sc.gotJobs))
	}
}

func TestMatch_ScorerFailureWrapsErrMatch(t *testing.T) {
	st := testStore(t, nil)
	sc := &fakeScorer{err: fmt.Errorf("boom")}

	_, err := New(st, sc, nil, false, nil).Match(context.Background(), "resume", "")
	if !errors.Is(err, ErrMatch) {
		t.Fatalf("expected ErrMatch, got %v", err)
	}
}

func TestMatch_CollapsesDuplicateIDsKeepingLatest(t *testing.T) {
	st := testStore(t, []job.Record{
		{ID: "a", Title: "Backend Engineer", Company: "Acme", Link: "https://x/1", Description: "newer", Source: "test.com"},
		{ID: "a", Title: "Backend Engineer", Company: "Acme", Link: "https://x/1", Description: "older", Source: "test.com"},
	})
	sc := &fakeScorer{matches: []ScoredMatch{{JobID: "a", MatchPercentage: 50, Reason: "ok"}}}

	got, err := New(st, sc, nil, false, nil).Match(context.Background(), "resume", "")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(sc.gotJobs) != 1 {
		t.Fatalf("expected 1 projected job after id collapse, got %d", len(sc.gotJobs))
	}
	if got[0].Job.Description != "newer" {
		t.Fatalf("expected latest duplicate kept, got %q", got[0].Job.Description)
	}
}

func TestMatch_TruncatesResumeText(t *testing.T) {
	st := testStore(t, nil)
	long := make([]byte, resumeTextLimit*2)
	for i := range long {
		long[i] = 'x'
	}

	var gotLen int
	sc := scorerFunc(func(ctx context.Context, resumeText string, jobs []PromptJob) ([]ScoredMatch, error) {
		gotLen = len(resumeText)
		return nil, nil
	})
	if _, err := New(st, sc, nil, false, nil).Match(context.Background(), string(long), ""); err != nil {
		t.Fatalf("match: %v", err)
	}
	if gotLen != resumeTextLimit {
		t.Fatalf("expected resume text truncated to %d, got %d", resumeTextLimit, gotLen)
	}
}

type scorerFunc func(ctx context.Context, resumeText string, jobs []PromptJob) ([]ScoredMatch, error)

func (f scorerFunc) Score(ctx context.Context, resumeText string, jobs []PromptJob) ([]ScoredMatch, error) {
	return f(ctx, resumeText, jobs)
}

func TestParseMatches_Shapes(t *testing.T) {
	bare := `[{"jobId":"a","matchPercentage":80,"reason":"r"}]`
	got, err := parseMatches(bare)
	if err != nil || len(got) != 1 || got[0].JobID != "a" {
		t.Fatalf("bare array parse failed: %v %+v", err, got)
	}

	wrapped := `{"matches":[{"jobId":"b","matchPercentage":40,"reason":"r"}]}`
	got, err = parseMatches(wrapped)
	if err != nil || len(got) != 1 || got[0].JobID != "b" {
		t.Fatalf("wrapped object parse failed: %v %+v", err, got)
	}

	if _, err := parseMatches(`not json`); err == nil {
		t.Fatalf("expected error for non-JSON content")
	}
	if _, err := parseMatches(""); err == nil {
		t.Fatalf("expected error for empty content")
	}
}

func TestLLMScorer_NotConfigured(t *testing.T) {
	s := NewLLMScorer("", "", "", nil)
	_, err := s.Score(context.Background(), "resume", nil)
	if !errors.Is(err, ErrScorerNotConfigured) {
		t.Fatalf("expected ErrScorerNotConfigured, got %v", err)
	}
}

func TestLLMScorer_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"matches\":[{\"jobId\":\"a\",\"matchPercentage\":85,\"reason\":\"strong fit\"}]}"}}]}`))
	}))
	defer srv.Close()

	s := NewLLMScorer(srv.URL, "test-key", "test-model", nil)
	got, err := s.Score(context.Background(), "resume", []PromptJob{{ID: "a", Title: "Backend Engineer"}})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(got) != 1 || got[0].JobID != "a" || got[0].MatchPercentage != 85 {
		t.Fatalf("unexpected matches %+v", got)
	}
}

func TestLLMScorer_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewLLMScorer(srv.URL, "test-key", "", nil)
	if _, err := s.Score(context.Background(), "resume", nil); err == nil {
		t.Fatalf("expected error on upstream 429")
	}
}
