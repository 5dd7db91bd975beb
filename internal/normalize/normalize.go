// Package normalize enforces heading rules on generated article bodies and
// resolves the canonical title.
package normalize

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dileroc6/bigotesfelinos/internal/domain"
)

// PlaceholderTitle is used when no title can be resolved from a generated
// article.
const PlaceholderTitle = "Noticias de perros"

// DefaultBannedHeadings are section labels the site never publishes as
// literal headings.
var DefaultBannedHeadings = []string{"introducción", "conclusión"}

const headingSelector = "h1, h2, h3"

// Normalizer resolves titles according to the deployment's strategy and
// cleans article bodies.
type Normalizer struct {
	structured bool
	banned     []string
}

// New builds a Normalizer. structured selects the strict {title, content}
// resolution path; banned defaults to DefaultBannedHeadings when empty.
func New(structured bool, banned []string) *Normalizer {
	if len(banned) == 0 {
		banned = DefaultBannedHeadings
	}
	return &Normalizer{structured: structured, banned: banned}
}

// Resolve produces the publish-ready article: title first, then heading case
// normalization and banned-heading stripping applied to the body only.
func (n *Normalizer) Resolve(article domain.GeneratedArticle) domain.NormalizedArticle {
	title, body := n.resolveTitle(article)

	body = SentenceCaseHeadings(body)
	body = StripBannedHeadings(body, n.banned)

	return domain.NormalizedArticle{Title: title, BodyHTML: body}
}

// resolveTitle extracts the title and the body according to the article kind.
// When neither path yields a title the placeholder is used and the body is
// left as received.
func (n *Normalizer) resolveTitle(article domain.GeneratedArticle) (string, string) {
	if n.structured {
		if article.Kind == domain.Structured && strings.TrimSpace(article.Title) != "" {
			return strings.TrimSpace(article.Title), article.Content
		}
		return PlaceholderTitle, article.RawText
	}

	if article.Kind != domain.Malformed {
		if title, body, ok := extractEmbeddedTitle(article.RawText); ok {
			return title, body
		}
	}
	return PlaceholderTitle, article.RawText
}

// extractEmbeddedTitle pulls the first top-level heading out of the body,
// returning its trimmed text and the body without that heading.
func extractEmbeddedTitle(body string) (string, string, bool) {
	doc, err := fragment(body)
	if err != nil {
		return "", "", false
	}

	h1 := doc.Find("h1").First()
	if h1.Length() == 0 {
		return "", "", false
	}

	title := strings.TrimSpace(h1.Text())
	if title == "" {
		return "", "", false
	}

	h1.Remove()
	return title, render(doc, body), true
}

// SentenceCaseHeadings rewrites the text of every h1-h3 element to first
// letter uppercase, remainder lowercase. Nested markup inside headings and
// all non-heading content are untouched. Applying it twice equals applying
// it once.
func SentenceCaseHeadings(body string) string {
	doc, err := fragment(body)
	if err != nil {
		return body
	}

	doc.Find(headingSelector).Each(func(_ int, heading *goquery.Selection) {
		upperDone := false
		for _, node := range heading.Nodes {
			sentenceCaseNode(node, &upperDone)
		}
	})

	return render(doc, body)
}

// sentenceCaseNode lowercases every text node under n, uppercasing the first
// letter encountered across the whole subtree.
func sentenceCaseNode(n *html.Node, upperDone *bool) {
	if n.Type == html.TextNode {
		n.Data = sentenceCaseText(n.Data, upperDone)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sentenceCaseNode(c, upperDone)
	}
}

func sentenceCaseText(s string, upperDone *bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !*upperDone && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
			*upperDone = true
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// StripBannedHeadings removes h1-h3 elements whose trimmed text equals one
// of the banned labels, compared case-insensitively. Only the heading element
// is removed; the section content that follows it stays.
func StripBannedHeadings(body string, banned []string) string {
	if len(banned) == 0 {
		return body
	}

	doc, err := fragment(body)
	if err != nil {
		return body
	}

	doc.Find(headingSelector).Each(func(_ int, heading *goquery.Selection) {
		text := strings.TrimSpace(heading.Text())
		for _, label := range banned {
			if strings.EqualFold(text, label) {
				heading.Remove()
				return
			}
		}
	})

	return render(doc, body)
}

// fragment parses an HTML fragment into a document.
func fragment(body string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

// render returns the body fragment of doc; fallback is returned when
// rendering fails.
func render(doc *goquery.Document, fallback string) string {
	out, err := doc.Find("body").Html()
	if err != nil {
		return fallback
	}
	return out
}
