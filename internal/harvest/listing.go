package harvest

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Record is one court decision scraped from a listing page.
type Record struct {
	Title   string `json:"titulo"`
	Court   string `json:"tribunal"`
	Date    string `json:"fecha"`
	Link    string `json:"link"`
	Summary string `json:"resumen"`
}

var courtMarkers = []string{"Tribunal", "Cámara", "Juzgado"}

var listingDatePattern = regexp.MustCompile(`\d{2}[/-]\d{2}[/-]\d{4}|\d{4}-\d{2}-\d{2}`)

var listingHeader = []string{"titulo", "tribunal", "fecha", "link", "resumen"}

// ParseListing extracts decision records from listing HTML. A result card
// is the nearest div or li enclosing an anchor with text; within a card,
// the first non-empty anchor supplies title and link, the first paragraph
// the summary, a line naming a court body the tribunal, and the first
// date-shaped fragment the date. Records deduplicate on (title, link),
// and relative links resolve against base when given.
func ParseListing(r io.Reader, base *url.URL) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	var records []Record
	seen := make(map[string]bool)

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		if strings.TrimSpace(a.Text()) == "" {
			return
		}

		card := a.Closest("div, li")
		if card.Length() == 0 {
			return
		}

		rec, ok := parseCard(card, base)
		if !ok {
			return
		}

		key := rec.Title + "|" + rec.Link
		if seen[key] {
			return
		}
		seen[key] = true
		records = append(records, rec)
	})

	return records, nil
}

func parseCard(card *goquery.Selection, base *url.URL) (Record, bool) {
	var rec Record

	card.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		title := strings.TrimSpace(a.Text())
		if title == "" {
			return true
		}
		rec.Title = title
		rec.Link = resolveLink(a.AttrOr("href", ""), base)
		return false
	})
	if rec.Title == "" {
		return Record{}, false
	}

	card.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if text == "" {
			return true
		}
		rec.Summary = text
		return false
	})

	text := card.Text()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range courtMarkers {
			if strings.Contains(line, marker) {
				rec.Court = line
				break
			}
		}
		if rec.Court != "" {
			break
		}
	}

	rec.Date = listingDatePattern.FindString(text)

	return rec, true
}

func resolveLink(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// WriteListingCSV persists scraped records as a local CSV, one row per
// record in listing order.
func WriteListingCSV(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create listing dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create listing csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(listingHeader); err != nil {
		return fmt.Errorf("write listing header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.Title, rec.Court, rec.Date, rec.Link, rec.Summary}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write listing row %q: %w", rec.Title, err)
		}
	}

	w.Flush()
	return w.Error()
}
