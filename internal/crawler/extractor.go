package crawler

import (
	"log/slog"

	"github.com/masahif/jobcrawler/internal/parser"
)

// HTMLExtractor implements Extractor on top of parser.ListingParser
type HTMLExtractor struct {
	parser  *parser.ListingParser
	company string
	salary  string
}

// NewHTMLExtractor creates an extractor that stamps every record with
// the given company and salary, which listing pages do not expose.
func NewHTMLExtractor(p *parser.ListingParser, company, salary string) *HTMLExtractor {
	return &HTMLExtractor{
		parser:  p,
		company: company,
		salary:  salary,
	}
}

// Extract converts parsed listings to JobRecords
func (e *HTMLExtractor) Extract(content []byte, originAddress string) Extraction {
	extraction := Extraction{
		Records: []JobRecord{},
		Links:   []string{},
	}

	result, err := e.parser.Parse(content, originAddress)
	if err != nil {
		slog.Debug("Skipping unparsable page", "url", originAddress, "error", err)
		return extraction
	}

	for _, listing := range result.Listings {
		extraction.Records = append(extraction.Records, JobRecord{
			Title:    listing.Title,
			Location: listing.Location,
			Company:  e.company,
			Salary:   e.salary,
		})
	}
	extraction.Links = append(extraction.Links, result.Links...)

	slog.Debug("Extracted page", "url", originAddress, "records", len(extraction.Records), "links", len(extraction.Links))
	return extraction
}
