// Package parser provides HTML parsing for job listing pages.
// It extracts listing entries and follow-up links using CSS selectors.
package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Options configures what a ListingParser looks for
type Options struct {
	Origin           string // Base joined with matching hrefs; empty means the page's own origin
	LinkPrefix       string // Only hrefs starting with this prefix are collected
	ListingSelector  string
	TitleSelector    string
	LocationSelector string
}

// ListingParser extracts listings and links from HTML
type ListingParser struct {
	opts   Options
	origin string // without trailing slash
}

// Listing is a single listing container with its text fields trimmed
type Listing struct {
	Title    string
	Location string
}

// ParseResult contains the parsed HTML data
type ParseResult struct {
	Listings []Listing
	Links    []string
}

// NewListingParser creates a parser for the given options
func NewListingParser(opts Options) (*ListingParser, error) {
	p := &ListingParser{opts: opts}

	if opts.Origin != "" {
		origin, err := url.Parse(opts.Origin)
		if err != nil {
			return nil, fmt.Errorf("invalid origin: %w", err)
		}
		if !origin.IsAbs() {
			return nil, fmt.Errorf("invalid origin: %q is not absolute", opts.Origin)
		}
		p.origin = strings.TrimRight(opts.Origin, "/")
	}

	return p, nil
}

// Parse extracts listings and candidate links from content fetched from pageURL.
// Listings without a title or location are dropped. Links are the base joined
// with the raw href, in document order, duplicates included.
func (p *ListingParser) Parse(content []byte, pageURL string) (*ParseResult, error) {
	root, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc := goquery.NewDocumentFromNode(root)

	result := &ParseResult{
		Listings: []Listing{},
		Links:    []string{},
	}

	doc.Find(p.opts.ListingSelector).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(p.opts.TitleSelector).Text())
		location := strings.TrimSpace(s.Find(p.opts.LocationSelector).Text())
		if title == "" || location == "" {
			return
		}
		result.Listings = append(result.Listings, Listing{Title: title, Location: location})
	})

	base := p.baseFor(pageURL)
	if base == "" {
		return result, nil
	}

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" || !strings.HasPrefix(href, p.opts.LinkPrefix) {
			return
		}

		result.Links = append(result.Links, base+href)
	})

	return result, nil
}

// baseFor returns the origin hrefs are appended to
func (p *ListingParser) baseFor(pageURL string) string {
	if p.origin != "" {
		return p.origin
	}

	u, err := url.Parse(pageURL)
	if err != nil || !u.IsAbs() {
		return ""
	}

	return u.Scheme + "://" + u.Host
}
