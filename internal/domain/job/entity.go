package job

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// Sentinel values used when a source does not expose a field.
const (
	UnknownCompany  = "Unknown Company"
	DefaultLocation = "Nepal"
)

// Record is a single job posting produced by any adapter. The JSON shape is
// both the persisted store format and the wire format to the matching UI.
type Record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Valid reports whether the record carries the two fields every adapter must
// populate. All other fields default to sentinels.
func (r Record) Valid() bool {
	return strings.TrimSpace(r.Title) != "" && strings.TrimSpace(r.Link) != ""
}

// DedupKey is the (title, company) pair used to decide duplicate postings at
// merge time. Exact, case-sensitive match.
func (r Record) DedupKey() string {
	return r.Title + "\x00" + r.Company
}

// Normalize trims fields and fills sentinel values for the optional ones.
func (r Record) Normalize() Record {
	r.Title = strings.TrimSpace(r.Title)
	r.Company = strings.TrimSpace(r.Company)
	r.Location = strings.TrimSpace(r.Location)
	r.Link = strings.TrimSpace(r.Link)
	r.Description = strings.TrimSpace(r.Description)
	if r.Company == "" {
		r.Company = UnknownCompany
	}
	if r.Location == "" {
		r.Location = DefaultLocation
	}
	if r.Description == "" {
		r.Description = fmt.Sprintf("Open position for %s", r.Title)
	}
	return r
}

// StableID derives a content-addressed record ID from title, company and link,
// so re-scraping the same posting yields the same ID and id-based lookups stay
// stable across store rewrites. The prefix tags the producing adapter.
func StableID(prefix, title, company, link string) string {
	h := sha1.Sum([]byte(title + "|" + company + "|" + link))
	return prefix + "-" + hex.EncodeToString(h[:])[:12]
}

// Leading words of link texts that show up inside job cards but are not
// posting titles ("View All Jobs", "Apply Now").
var chromeLeadWords = []string{"view", "apply"}

// LooksLikeChrome reports whether a scraped title is navigation/UI text rather
// than an actual posting title. Matching is on the leading word so that real
// titles containing these fragments ("Interviewer") pass through; short
// legitimate titles ("Cook") are not length-filtered here — only the broad
// anchor-sweep extraction applies a length floor.
func LooksLikeChrome(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return true
	}
	if strings.Contains(t, "search your dream") {
		return true
	}
	first, _, _ := strings.Cut(t, " ")
	for _, w := range chromeLeadWords {
		if first == w {
			return true
		}
	}
	return false
}

// DedupeWithinPage drops invalid records, chrome titles and titles already seen
// earlier in the same page, preserving first-seen order.
func DedupeWithinPage(in []Record) []Record {
	seen := make(map[string]struct{}, len(in))
	out := make([]Record, 0, len(in))
	for _, r := range in {
		if !r.Valid() || LooksLikeChrome(r.Title) {
			continue
		}
		if _, ok := seen[r.Title]; ok {
			continue
		}
		seen[r.Title] = struct{}{}
		out = append(out, r.Normalize())
	}
	return out
}
