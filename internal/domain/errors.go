package domain

import "fmt"

// FetchError means the source listing was unreachable or unparsable. The
// orchestrator treats it as "zero candidates", not a fatal run failure.
type FetchError struct {
	SourceURL string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.SourceURL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// GenerationError means the text-generation call failed or returned output
// that could not be recovered. Scoped to a single source item.
type GenerationError struct {
	SourceID string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate article for %s: %v", e.SourceID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PublishError means a CMS create or update failed for a single item.
type PublishError struct {
	Title string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %q: %v", e.Title, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// ImageError means keyword derivation or image search failed for one title
// during backfill. Scoped to that title only.
type ImageError struct {
	Title string
	Err   error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image backfill %q: %v", e.Title, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }
