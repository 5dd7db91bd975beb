// Package domain contains the core models shared across the pipeline.
package domain

import "time"

// SourceItem is one candidate article discovered on the source listing.
// Read-only after the fetch phase.
type SourceItem struct {
	ID          string
	URL         string
	Title       string
	PublishedAt time.Time
}

// ArticleKind tags how a generated article carries its title.
type ArticleKind int

const (
	// HeadingEmbedded means the body contains its own top-level heading
	// holding the title.
	HeadingEmbedded ArticleKind = iota
	// Structured means the generation response was a strict two-field
	// {title, content} record.
	Structured
	// Malformed means a structured response could not be parsed; RawText
	// holds the response as received.
	Malformed
)

// GeneratedArticle is the raw output of one generation call. Title and
// Content are set only when Kind is Structured.
type GeneratedArticle struct {
	Kind    ArticleKind
	RawText string
	Title   string
	Content string
}

// NormalizedArticle is the publish-ready form of a generated article.
// BodyHTML carries no top-level heading duplicating Title, and its h1-h3
// headings are sentence-cased.
type NormalizedArticle struct {
	Title    string
	BodyHTML string
}

// PostStatus is the closed set of CMS post statuses the pipeline writes.
type PostStatus string

const (
	StatusDraft   PostStatus = "draft"
	StatusPublish PostStatus = "publish"
)

// CategoryRef points at a CMS category either by numeric id or by name.
// At most one of the two is set; the zero value means no category.
type CategoryRef struct {
	ID   int
	Name string
}

// IsZero reports whether no category was configured.
func (c CategoryRef) IsZero() bool { return c.ID == 0 && c.Name == "" }

// PublishedRef is the run-scoped record of one successful publication,
// consumed by the image backfill phase. PostID is the CMS-assigned id;
// Title is kept for the standalone backfill path that has no ids.
type PublishedRef struct {
	PostID int
	Title  string
}
