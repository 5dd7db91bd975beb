package fetch

import (
	"time"

	"github.com/dileroc6/bigotesfelinos/internal/domain"
)

// Predicate decides whether a discovered item is a candidate for this run.
type Predicate func(domain.SourceItem) bool

// NotSeen accepts items whose id is absent from the history set.
func NotSeen(seen map[string]struct{}) Predicate {
	return func(item domain.SourceItem) bool {
		_, found := seen[item.ID]
		return !found
	}
}

// PublishedYesterday accepts items published the calendar day before now, at
// day granularity in loc. Items without a parsed date are rejected.
func PublishedYesterday(loc *time.Location, now func() time.Time) Predicate {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}

	return func(item domain.SourceItem) bool {
		if item.PublishedAt.IsZero() {
			return false
		}

		yesterday := now().In(loc).AddDate(0, 0, -1)
		published := item.PublishedAt.In(loc)

		return published.Year() == yesterday.Year() &&
			published.Month() == yesterday.Month() &&
			published.Day() == yesterday.Day()
	}
}
