package fetch

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Third-party job boards drift their markup constantly, so per-field
// extraction probes an ordered list of candidate selectors and takes the first
// non-empty text. The same candidate lists feed the in-page JS builder used by
// the dynamic strategy, keeping extraction semantics identical across both.

// FirstText returns the trimmed text of the first candidate selector that
// matches a non-empty node under sel, or "" when none do.
func FirstText(sel *goquery.Selection, candidates ...string) string {
	if sel == nil {
		return ""
	}
	for _, c := range candidates {
		t := strings.TrimSpace(sel.Find(c).First().Text())
		if t != "" {
			return squashSpaces(t)
		}
	}
	return ""
}

// FirstAttr returns the named attribute of the first candidate selector whose
// node carries a non-empty value.
func FirstAttr(sel *goquery.Selection, attr string, candidates ...string) string {
	if sel == nil {
		return ""
	}
	for _, c := range candidates {
		if v, ok := sel.Find(c).First().Attr(attr); ok {
			v = strings.TrimSpace(v)
			if v != "" {
				return v
			}
		}
	}
	return ""
}

// AbsoluteLink resolves href against the page URL: absolute hrefs pass
// through, protocol-relative and path-relative ones resolve the way a browser
// would. An unparseable href or page URL falls back to the raw href.
func AbsoluteLink(href, pageURL string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}
	base, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || base.Host == "" {
		return href
	}
	return base.ResolveReference(ref).String()
}

func squashSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
