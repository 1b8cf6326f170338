package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"

	"jobradar/internal/domain/job"
	"jobradar/internal/scraper"
	"jobradar/internal/store"
)

type fakeAdapter struct {
	name    string
	records []job.Record
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) Scrape(ctx context.Context) []job.Record { return a.records }

func recordsFor(source string, n int) []job.Record {
	out := make([]job.Record, 0, n)
	for i := 0; i < n; i++ {
		title := fmt.Sprintf("%s Engineer %d", source, i)
		out = append(out, job.Record{
			ID:      job.StableID(source, title, "Acme", "https://x/"+title),
			Title:   title,
			Company: "Acme",
			Link:    "https://x/" + title,
			Source:  source,
		})
	}
	return out
}

func testStore(t *testing.T) *store.JobStore {
	t.Helper()
	return store.New(filepath.Join(t.TempDir(), "jobs.json"), log.New(os.Stderr, "", 0))
}

func TestRunSweep_AggregatesAllAdapters(t *testing.T) {
	st := testStore(t)
	adapters := []scraper.Adapter{
		&fakeAdapter{name: "one.com", records: recordsFor("one.com", 3)},
		&fakeAdapter{name: "two.com", records: recordsFor("two.com", 4)},
	}

	New(st, adapters, nil, 0, nil).RunSweep(context.Background())

	if got := len(st.ReadAll()); got != 7 {
		t.Fatalf("expected 7 records after sweep, got %d", got)
	}
}

// A sweep that comes back nearly empty must merge instead of wiping the
// previous snapshot.
func TestRunSweep_SmallResultKeepsPreviousSnapshot(t *testing.T) {
	st := testStore(t)
	if err := st.ReplaceAll(recordsFor("old.com", 6)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	adapters := []scraper.Adapter{
		&fakeAdapter{name: "one.com", records: recordsFor("one.com", 2)},
	}
	New(st, adapters, nil, 0, nil).RunSweep(context.Background())

	if got := len(st.ReadAll()); got != 8 {
		t.Fatalf("expected previous 6 plus 2 merged, got %d", got)
	}
}

func TestRunSweep_CancelledContextAborts(t *testing.T) {
	st := testStore(t)
	if err := st.ReplaceAll(recordsFor("old.com", 6)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapters := []scraper.Adapter{
		&fakeAdapter{name: "one.com", records: recordsFor("one.com", 9)},
	}
	New(st, adapters, nil, 0, nil).RunSweep(ctx)

	if got := len(st.ReadAll()); got != 6 {
		t.Fatalf("aborted sweep must not touch the store, got %d records", got)
	}
}

func TestNew_DefaultsInterval(t *testing.T) {
	s := New(testStore(t), nil, nil, 0, nil)
	if s.spec != "@every 12h" {
		t.Fatalf("unexpected default spec %q", s.spec)
	}
	s = New(testStore(t), nil, nil, 6, nil)
	if s.spec != "@every 6h" {
		t.Fatalf("unexpected spec %q", s.spec)
	}
}

func TestWarmup_NoRoleOrScraperIsNoop(t *testing.T) {
	s := New(testStore(t), nil, nil, 0, nil)
	s.Warmup("")
	s.Warmup("Backend Developer")
}
