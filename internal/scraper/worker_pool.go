package scraper

import (
	"context"
	"sync"
	"time"

	"jobradar/internal/domain/job"
)

// ScrapeTask is one unit of scraping work, typically a single role or listing
// page. It returns the records it found; errors are carried in the result and
// never stop the pool.
type ScrapeTask func(ctx context.Context) ([]job.Record, error)

type ScrapeResult struct {
	Records []job.Record
	Err     error
}

// ScrapePool fans scrape tasks out over a bounded set of workers with an
// optional global rate limit, used when one trigger needs several independent
// fetches (e.g. the multi-role LinkedIn sweep).
type ScrapePool struct {
	workers int
	tasks   chan ScrapeTask
	wg      sync.WaitGroup
	mu      sync.RWMutex
	rate    <-chan time.Time
	ticker  *time.Ticker
}

func NewScrapePool(workers, buffer int) *ScrapePool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &ScrapePool{
		workers: workers,
		tasks:   make(chan ScrapeTask, buffer),
	}
}

// SetRateLimit caps task starts at rps per second across all workers. Pass
// rps <= 0 to remove the limit. Must be called before Run: swapping the ticker
// out from under a worker mid-throttle would strand it on a stopped channel.
func (p *ScrapePool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	p.mu.Unlock()
	if rps <= 0 {
		return
	}
	t := time.NewTicker(time.Second / time.Duration(rps))
	p.mu.Lock()
	p.ticker = t
	p.rate = t.C
	p.mu.Unlock()
}

func (p *ScrapePool) Submit(t ScrapeTask) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- t
}

// Close stops accepting tasks. Already-submitted tasks still run, still
// subject to the rate limit; the ticker keeps ticking until the workers drain,
// otherwise a worker waiting on the throttle would block forever.
func (p *ScrapePool) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

// Run starts the workers and returns the result channel, closed once Close
// has been called and all submitted tasks finished.
func (p *ScrapePool) Run(ctx context.Context) <-chan ScrapeResult {
	if p == nil {
		out := make(chan ScrapeResult)
		close(out)
		return out
	}
	buf := p.workers * 64
	if buf < 1 {
		buf = 1
	}
	out := make(chan ScrapeResult, buf)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t == nil {
						continue
					}
					p.mu.RLock()
					rate := p.rate
					p.mu.RUnlock()
					if rate != nil {
						select {
						case <-ctx.Done():
							return
						case <-rate:
						}
					}
					records, err := t(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- ScrapeResult{Records: records, Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		p.mu.Lock()
		if p.ticker != nil {
			p.ticker.Stop()
			p.ticker = nil
			p.rate = nil
		}
		p.mu.Unlock()
		close(out)
	}()

	return out
}
