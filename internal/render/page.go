package render

import (
	"embed"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

//go:embed shells/*.html
var shells embed.FS

// Shell names.
const (
	ListShell   = "index.html"
	LinkedShell = "novels.html"
	DetailShell = "novel_details.html"
)

// Page is a parsed HTML document. It is the only place where rendered
// markup meets the page.
type Page struct {
	doc *goquery.Document
}

func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Page{doc: doc}, nil
}

// LoadShell parses one of the embedded page shells. Each call returns a
// fresh document.
func LoadShell(name string) (*Page, error) {
	f, err := shells.Open("shells/" + name)
	if err != nil {
		return nil, fmt.Errorf("open shell %s: %w", name, err)
	}
	defer f.Close()
	return ParsePage(f)
}

// ElementNotFoundError is returned when a selector matches nothing.
type ElementNotFoundError struct {
	Selector string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("page has no element matching %q", e.Selector)
}

func (p *Page) find(selector string) (*goquery.Selection, error) {
	sel := p.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, &ElementNotFoundError{Selector: selector}
	}
	return sel, nil
}

// SetInnerHTML replaces the contents of the matched elements with markup.
func (p *Page) SetInnerHTML(selector, markup string) error {
	sel, err := p.find(selector)
	if err != nil {
		return err
	}
	sel.SetHtml(markup)
	return nil
}

func (p *Page) SetText(selector, text string) error {
	sel, err := p.find(selector)
	if err != nil {
		return err
	}
	sel.SetText(text)
	return nil
}

func (p *Page) SetAttr(selector, name, value string) error {
	sel, err := p.find(selector)
	if err != nil {
		return err
	}
	sel.SetAttr(name, value)
	return nil
}

// Document exposes the parsed page for read-only inspection.
func (p *Page) Document() *goquery.Document { return p.doc }

func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}
