package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masahif/jobcrawler/internal/crawler"
)

func TestLocationFilterExcluded(t *testing.T) {
	f := NewLocationFilter([]string{"china", "Beijing", " shanghai ", "", "STRASSE"})

	tests := []struct {
		location string
		want     bool
	}{
		{"Seattle, WA, USA", false},
		{"Shanghai, CHN", true},
		{"BEIJING", true},
		{"Shenzhen, China", true},
		{"Chinatown, San Francisco", true}, // substring match
		{"Hauptstraße 1, Berlin", true},    // case folding maps ß to ss
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Excluded(tt.location))
		})
	}
}

func TestLocationFilterApply(t *testing.T) {
	records := []crawler.JobRecord{
		{Title: "a", Location: "Seattle"},
		{Title: "b", Location: "Beijing, China"},
		{Title: "c", Location: "Austin"},
	}

	kept := NewLocationFilter([]string{"china", "beijing"}).Apply(records)

	assert.Equal(t, []crawler.JobRecord{
		{Title: "a", Location: "Seattle"},
		{Title: "c", Location: "Austin"},
	}, kept)
	assert.Len(t, records, 3, "input must not be modified")
}

func TestLocationFilterEmpty(t *testing.T) {
	kept := NewLocationFilter(nil).Apply([]crawler.JobRecord{{Title: "a", Location: "Beijing"}})
	assert.Len(t, kept, 1)

	assert.NotNil(t, NewLocationFilter(nil).Apply(nil))
}
