// Package filter holds post-crawl predicates applied to crawl results.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/masahif/jobcrawler/internal/crawler"
)

// LocationFilter drops records located in excluded regions
type LocationFilter struct {
	fold     cases.Caser
	excluded []string
}

// NewLocationFilter creates a filter for the given region names.
// Matching is a case-insensitive substring test; blank names are ignored.
func NewLocationFilter(excluded []string) *LocationFilter {
	f := &LocationFilter{fold: cases.Fold()}
	for _, name := range excluded {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f.excluded = append(f.excluded, f.fold.String(name))
	}
	return f
}

// Excluded reports whether location mentions an excluded region
func (f *LocationFilter) Excluded(location string) bool {
	folded := f.fold.String(location)
	for _, name := range f.excluded {
		if strings.Contains(folded, name) {
			return true
		}
	}
	return false
}

// Apply returns the records that are not excluded, keeping their order
func (f *LocationFilter) Apply(records []crawler.JobRecord) []crawler.JobRecord {
	kept := make([]crawler.JobRecord, 0, len(records))
	for _, record := range records {
		if !f.Excluded(record.Location) {
			kept = append(kept, record)
		}
	}
	return kept
}
