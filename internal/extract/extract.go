// Package extract reduces raw page markup to a bounded plain-text excerpt
// cheap enough to hand to the generation service.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// hardExcerptCeiling bounds the excerpt regardless of configuration; the
	// smaller of this and the configured budget always wins.
	hardExcerptCeiling = 12000

	maxHeadingChars   = 180
	minParagraphChars = 60
	maxHeadings       = 8
	leadParagraphs    = 4
	maxParagraphs     = 10
)

// InsufficientContentError signals an excerpt too short to justify a model
// call, usually a paywall or a JS-rendered page.
type InsufficientContentError struct {
	URL    string
	Length int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("excerpt too short (%d chars) for %s", e.Length, e.URL)
}

// Blocks is the reduced structure of a fetched page.
type Blocks struct {
	Title      string
	Headings   []string
	Paragraphs []string
}

// ExtractBlocks strips non-content markup and collects the page title,
// headings and substantial paragraphs, preferring the article region over
// the whole body.
func ExtractBlocks(html string) (Blocks, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Blocks{}, fmt.Errorf("parse document: %w", err)
	}

	doc.Find("script, style, noscript, svg, header, footer, nav, aside").Remove()

	var blocks Blocks
	blocks.Title = strings.TrimSpace(doc.Find("title").First().Text())

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		root = doc.Selection
	}

	root.Find("h1, h2, h3").Each(func(_ int, h *goquery.Selection) {
		t := collapseInline(h.Text())
		if t != "" && len(t) <= maxHeadingChars {
			blocks.Headings = append(blocks.Headings, t)
		}
	})

	root.Find("p").Each(func(_ int, p *goquery.Selection) {
		t := collapseInline(p.Text())
		// Short fragments are almost always boilerplate.
		if len(t) >= minParagraphChars {
			blocks.Paragraphs = append(blocks.Paragraphs, t)
		}
	})

	return blocks, nil
}

// BuildExcerpt assembles the budgeted excerpt: title, a few headings, the
// lead paragraphs verbatim, then keyword-matching paragraphs in document
// order until the paragraph cap, truncated to min(maxChars, hard ceiling).
func BuildExcerpt(title string, blocks Blocks, keywords []string, maxChars int) string {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw != "" {
			lowered = append(lowered, strings.ToLower(kw))
		}
	}

	lead := min(leadParagraphs, len(blocks.Paragraphs))
	selected := append([]string(nil), blocks.Paragraphs[:lead]...)
	for _, p := range blocks.Paragraphs[lead:] {
		if len(selected) >= maxParagraphs {
			break
		}
		pl := strings.ToLower(p)
		for _, kw := range lowered {
			if strings.Contains(pl, kw) {
				selected = append(selected, p)
				break
			}
		}
	}

	var parts []string
	if title != "" {
		parts = append(parts, "TITLE: "+title)
	}
	if len(blocks.Headings) > 0 {
		headings := blocks.Headings[:min(maxHeadings, len(blocks.Headings))]
		parts = append(parts, "HEADINGS:\n- "+strings.Join(headings, "\n- "))
	}
	if len(selected) > 0 {
		parts = append(parts, "CONTENT:\n"+strings.Join(selected, "\n\n"))
	}

	excerpt := CleanWhitespace(strings.Join(parts, "\n\n"))

	budget := hardExcerptCeiling
	if maxChars > 0 && maxChars < budget {
		budget = maxChars
	}
	return Truncate(excerpt, budget)
}

var (
	inlineSpace = regexp.MustCompile(`[ \t]+`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// CleanWhitespace collapses runs of spaces/tabs and squeezes three or more
// newlines down to a paragraph break.
func CleanWhitespace(s string) string {
	s = inlineSpace.ReplaceAllString(s, " ")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Truncate cuts s to at most n characters without splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func collapseInline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
