package fetch

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// spanishMonths maps lowercase Spanish month names to their calendar month.
var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// textualDatePattern matches dates like "12 de enero de 2026".
var textualDatePattern = regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+([\p{L}]+)\s+de\s+(\d{4})`)

// extractDate pulls a publication date out of an article card. An ISO
// datetime attribute wins; otherwise the card's date text is parsed against
// the Spanish month table in loc. A zero time means no date was found.
func extractDate(card *goquery.Selection, loc *time.Location) time.Time {
	if attr, ok := card.Find("time[datetime]").First().Attr("datetime"); ok {
		if t := parseISODate(attr, loc); !t.IsZero() {
			return t
		}
	}

	text := card.Find("time, .date, .fecha, .entry-date").First().Text()
	if text == "" {
		text = card.Text()
	}
	return ParseSpanishDate(text, loc)
}

// parseISODate accepts RFC3339 timestamps and bare ISO dates.
func parseISODate(raw string, loc *time.Location) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t
	}
	return time.Time{}
}

// ParseSpanishDate parses the first "<day> de <month> de <year>" occurrence
// in text, at midnight in loc. Unknown month names yield a zero time.
func ParseSpanishDate(text string, loc *time.Location) time.Time {
	m := textualDatePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}
	}

	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}
	}

	month, ok := spanishMonths[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}
	}

	year, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}
	}

	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
