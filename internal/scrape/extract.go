package scrape

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	minAbstractLen = 50
	maxAbstractLen = 5000
	// Stored abstracts are clipped; event pages occasionally dump the whole
	// session program into one container.
	abstractClip = 2000
)

var titleSelectors = []string{
	"h1",
	"header h1",
	".page-title",
	"[data-testid='page-title']",
	"title",
	".event-title",
	".session-title",
	".session-header h1",
	".event-header h1",
}

var abstractContainerSelector = strings.Join([]string{
	".abstract",
	"[class*='abstract']",
	"[id*='abstract']",
	".session-abstract",
	".event-abstract",
	"[data-abstract]",
	".description",
	"[class*='description']",
}, ", ")

var (
	abstractLabelRe   = regexp.MustCompile(`(?i)\bAbstract\s*:?`)
	abstractExtractRe = regexp.MustCompile(`(?is)Abstract\s*:?\s*(.+?)(?:\n\n|\n[A-Z][a-z]+\s*:|$)`)
	authorLabelRe     = regexp.MustCompile(`(?i)\(presenter\)|Presenter:|Authors?:|Speakers?:`)
	whitespaceRe      = regexp.MustCompile(`\s+`)
)

// ExtractEvent pulls title, authors, and abstract out of an event page.
// Extraction is layered: each field tries progressively looser strategies
// and keeps the first plausible hit, so a page that matches none of them
// yields empty fields rather than an error.
func ExtractEvent(html []byte, url string) (Event, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return Event{}, err
	}

	ev := Event{
		URL:        url,
		Title:      guessText(doc, titleSelectors),
		CapturedAt: time.Now().UTC(),
	}
	ev.Abstract = extractAbstract(doc)
	ev.Authors = extractAuthors(doc)
	return ev, nil
}

func guessText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if txt := collapse(doc.Find(sel).First().Text()); txt != "" {
			return txt
		}
	}
	return ""
}

func extractAbstract(doc *goquery.Document) string {
	if txt := abstractAfterHeading(doc); txt != "" {
		return clip(txt)
	}
	if txt := abstractFromContainers(doc); txt != "" {
		return clip(txt)
	}
	if txt := abstractAfterLabel(doc); txt != "" {
		return clip(txt)
	}
	if txt := abstractFromFullText(doc); txt != "" {
		return clip(txt)
	}
	return ""
}

// abstractAfterHeading finds an "Abstract" heading and takes the first
// following block of plausible length.
func abstractAfterHeading(doc *goquery.Document) string {
	var found string
	doc.Find("h2, h3, h4, h5, h6").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(collapse(s.Text())), "abstract") {
			return true
		}
		s.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
			if txt := plausible(sib.Text()); txt != "" {
				found = txt
				return false
			}
			ok := true
			sib.Find("p, div, section, span").EachWithBreak(func(_ int, c *goquery.Selection) bool {
				if txt := plausible(c.Text()); txt != "" {
					found = txt
					ok = false
				}
				return ok
			})
			return ok
		})
		return found == ""
	})
	return found
}

func abstractFromContainers(doc *goquery.Document) string {
	var found string
	doc.Find(abstractContainerSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if txt := plausible(s.Text()); txt != "" {
			found = txt
			return false
		}
		return true
	})
	return found
}

// abstractAfterLabel handles pages that inline an "Abstract:" label inside
// arbitrary markup: take the label's next sibling, or regex the text out of
// the label's parent.
func abstractAfterLabel(doc *goquery.Document) string {
	var found string
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		own := collapse(ownText(s))
		if !abstractLabelRe.MatchString(own) {
			return true
		}
		if sib := s.Next(); sib.Length() > 0 {
			if txt := collapse(sib.Text()); len(txt) > minAbstractLen {
				found = txt
				return false
			}
		}
		if parent := s.Parent(); parent.Length() > 0 {
			if m := abstractExtractRe.FindStringSubmatch(parent.Text()); m != nil {
				if txt := collapse(m[1]); len(txt) > minAbstractLen {
					found = txt
					return false
				}
			}
		}
		return true
	})
	return found
}

func abstractFromFullText(doc *goquery.Document) string {
	if m := abstractExtractRe.FindStringSubmatch(doc.Text()); m != nil {
		if txt := collapse(m[1]); len(txt) > minAbstractLen {
			return txt
		}
	}
	return ""
}

func extractAuthors(doc *goquery.Document) string {
	var found string
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if authorLabelRe.MatchString(ownText(s)) {
			found = collapse(s.Text())
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	// No explicit label; authors usually sit in a short block right after
	// the title.
	title := doc.Find("h1").First()
	if title.Length() == 0 {
		return ""
	}
	title.NextAll().EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= 5 {
			return false
		}
		txt := collapse(s.Text())
		if txt != "" && len(txt) < 200 {
			found = txt
			return false
		}
		return true
	})
	return found
}

func plausible(raw string) string {
	txt := collapse(raw)
	if len(txt) > minAbstractLen && len(txt) < maxAbstractLen {
		return txt
	}
	return ""
}

func clip(txt string) string {
	if len(txt) > abstractClip {
		return txt[:abstractClip]
	}
	return txt
}

func collapse(raw string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
}

// ownText returns the element's direct text, excluding child elements.
func ownText(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			sb.WriteString(c.Text())
		}
	})
	return sb.String()
}
