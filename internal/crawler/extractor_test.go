package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masahif/jobcrawler/internal/parser"
)

func TestHTMLExtractor(t *testing.T) {
	p, err := parser.NewListingParser(parser.Options{
		Origin:           "https://www.amazon.jobs",
		LinkPrefix:       "/en/jobs",
		ListingSelector:  "div.job-tile",
		TitleSelector:    ".job-title",
		LocationSelector: "p.location-and-id",
	})
	require.NoError(t, err)

	extractor := NewHTMLExtractor(p, "Twitch", "")

	content := []byte(`
<div class="job-tile"><h3 class="job-title">Engineer</h3><p class="location-and-id">Seattle, WA</p></div>
<div class="job-tile"><h3 class="job-title">No location</h3></div>
<a href="/en/jobs/42">42</a>
<a href="/about">about</a>`)

	extraction := extractor.Extract(content, "https://www.amazon.jobs/en/teams/twitch")

	assert.Equal(t, []JobRecord{
		{Title: "Engineer", Location: "Seattle, WA", Company: "Twitch", Salary: ""},
	}, extraction.Records)
	assert.Equal(t, []string{"https://www.amazon.jobs/en/jobs/42"}, extraction.Links)
}

func TestHTMLExtractorNothingMatches(t *testing.T) {
	p, err := parser.NewListingParser(parser.Options{
		LinkPrefix:       "/en/jobs",
		ListingSelector:  "div.job-tile",
		TitleSelector:    ".job-title",
		LocationSelector: "p.location-and-id",
	})
	require.NoError(t, err)

	extraction := NewHTMLExtractor(p, "Twitch", "").Extract([]byte("plain text"), "https://example.com/")

	assert.NotNil(t, extraction.Records)
	assert.Empty(t, extraction.Records)
	assert.Empty(t, extraction.Links)
}
