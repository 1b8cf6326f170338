package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// RawJob is the unvalidated job-like object both strategies produce. Adapters
// turn these into domain records.
type RawJob struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Link     string `json:"link"`
}

// DynamicFetcher renders a page in an isolated headless browser and evaluates
// a selector-extraction function inside the page context. Every call launches
// and tears down its own browser instance; instances are never reused across
// adapters to avoid session/cookie cross-contamination.
type DynamicFetcher struct {
	navTimeout  time.Duration
	waitTimeout time.Duration
	logger      *log.Logger
}

func NewDynamicFetcher(logger *log.Logger) *DynamicFetcher {
	if logger == nil {
		logger = log.Default()
	}
	return &DynamicFetcher{
		navTimeout:  15 * time.Second,
		waitTimeout: 5 * time.Second,
		logger:      logger,
	}
}

// Fetch navigates to url, optionally waits for waitSelector to appear, and
// evaluates extractJS in the page, unmarshalling its result into out. A
// timeout on the selector wait is non-fatal: many sites legitimately show zero
// results (or a captcha), and the extraction still runs against whatever
// rendered.
func (f *DynamicFetcher) Fetch(ctx context.Context, url, waitSelector, extractJS string, out any) error {
	if f == nil {
		return fmt.Errorf("%w: nil fetcher", ErrFetch)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-setuid-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			// skip image decoding to cut render latency
			chromedp.Flag("blink-settings", "imagesEnabled=false"),
			chromedp.UserAgent(browserHeaders()["User-Agent"]),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	navCtx, navCancel := context.WithTimeout(browserCtx, f.navTimeout)
	defer navCancel()

	// document-ready, not full-load
	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("%w: navigate %s: %v", ErrFetch, url, err)
	}

	if strings.TrimSpace(waitSelector) != "" {
		waitCtx, waitCancel := context.WithTimeout(browserCtx, f.waitTimeout)
		err := chromedp.Run(waitCtx, chromedp.WaitVisible(waitSelector, chromedp.ByQuery))
		waitCancel()
		if err != nil {
			// might be no jobs or a captcha; proceed with whatever rendered
			f.logger.Printf("[fetch] timeout waiting for %q on %s, continuing", waitSelector, url)
		}
	}

	evalCtx, evalCancel := context.WithTimeout(browserCtx, f.navTimeout)
	defer evalCancel()
	if err := chromedp.Run(evalCtx, chromedp.EvaluateAsDevTools(extractJS, out)); err != nil {
		return fmt.Errorf("%w: evaluate on %s: %v", ErrFetch, url, err)
	}
	return nil
}

// CardExtractJS builds the in-page extraction function for caller-supplied
// selectors: one object per card, title/company via the given selectors, link
// from the card's first anchor. Selectors are embedded as JS string literals.
func CardExtractJS(cardSelector, titleSelector, companySelector string) string {
	return fmt.Sprintf(`Array.from(document.querySelectorAll(%s)).map(card => {
		const titleEl = card.querySelector(%s);
		const companyEl = %s ? card.querySelector(%s) : null;
		const linkEl = card.querySelector('a');
		return {
			title: titleEl ? titleEl.innerText.trim() : '',
			company: companyEl ? companyEl.innerText.trim() : '',
			location: '',
			link: linkEl ? linkEl.href : ''
		};
	}).filter(j => j.title !== '')`,
		jsString(cardSelector), jsString(titleSelector), jsString(companySelector), jsString(companySelector))
}

func jsString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", ``)
	return "'" + r.Replace(s) + "'"
}
