package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NotFound stands in for any field a novel page does not provide.
const NotFound = "Not found"

const headingSelector = "h1, h2, h3, h4, h5, h6"

// Link is one novel entry on a listing page.
type Link struct {
	Title string
	Href  string
}

// Details are the fields read from a single novel page.
type Details struct {
	Title      string
	ImageURL   string
	Status     string
	Synopsis   string
	Genres     string
	NumVolumes int
}

// ParseIndex pairs the h2 titles of a listing page with its a.link-a
// links, in document order. When the counts differ the extra items are
// dropped and mismatch is true.
func ParseIndex(r io.Reader) (links []Link, mismatch bool, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, false, fmt.Errorf("parse index page: %w", err)
	}

	titles := doc.Find("h2")
	anchors := doc.Find("a.link-a")
	n := min(titles.Length(), anchors.Length())

	links = make([]Link, 0, n)
	for i := 0; i < n; i++ {
		href, _ := anchors.Eq(i).Attr("href")
		links = append(links, Link{
			Title: strings.TrimSpace(titles.Eq(i).Text()),
			Href:  href,
		})
	}
	return links, titles.Length() != anchors.Length(), nil
}

// ParseNovel extracts Details from a novel page. Missing fields come back
// as NotFound, or 0 for NumVolumes.
func ParseNovel(r io.Reader) (Details, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Details{}, fmt.Errorf("parse novel page: %w", err)
	}
	return Details{
		Title:      novelTitle(doc),
		ImageURL:   imageURL(doc),
		Status:     sectionText(doc, "status"),
		Synopsis:   sectionText(doc, "synopsis"),
		Genres:     sectionText(doc, "genre"),
		NumVolumes: numVolumes(doc),
	}, nil
}

// findHeading returns the first heading whose text contains keyword,
// case-insensitively.
func findHeading(doc *goquery.Document, keyword string) *goquery.Selection {
	keyword = strings.ToLower(keyword)
	var found *goquery.Selection
	doc.Find(headingSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.Text()), keyword) {
			found = s
			return false
		}
		return true
	})
	return found
}

func novelTitle(doc *goquery.Document) string {
	text := strings.TrimSpace(doc.Find("title").First().Text())
	if text == "" {
		if h := findHeading(doc, "EPUB"); h != nil {
			text = strings.TrimSpace(h.Text())
		}
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "(EPUB)", ""))
	if text == "" {
		return NotFound
	}
	return text
}

func imageURL(doc *goquery.Document) string {
	src, ok := doc.Find(".ani").First().Find("img").First().Attr("src")
	if !ok || src == "" {
		return NotFound
	}
	return src
}

// sectionText reads the first <p> sibling after the heading named by
// keyword.
func sectionText(doc *goquery.Document, keyword string) string {
	h := findHeading(doc, keyword)
	if h == nil {
		return NotFound
	}
	p := h.NextAllFiltered("p").First()
	if p.Length() == 0 {
		return NotFound
	}
	return strings.TrimSpace(p.Text())
}

// numVolumes counts the links after the download heading, less the one
// pointing back to the listing.
func numVolumes(doc *goquery.Document) int {
	h := findHeading(doc, "download")
	if h == nil {
		return 0
	}
	head := h.Get(0)

	seen := false
	count := 0
	doc.Find(headingSelector + ", a").Each(func(_ int, s *goquery.Selection) {
		if s.Get(0) == head {
			seen = true
			return
		}
		if seen && goquery.NodeName(s) == "a" {
			count++
		}
	})

	if count-1 > 0 {
		return count - 1
	}
	return 0
}
