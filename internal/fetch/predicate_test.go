package fetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileroc6/bigotesfelinos/internal/domain"
)

func TestPublishedYesterday(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	now := func() time.Time {
		return time.Date(2026, time.August, 30, 9, 0, 0, 0, loc)
	}
	pred := PublishedYesterday(loc, now)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"yesterday morning", time.Date(2026, time.August, 29, 8, 0, 0, 0, loc), true},
		{"yesterday midnight", time.Date(2026, time.August, 29, 0, 0, 0, 0, loc), true},
		{"today", time.Date(2026, time.August, 30, 1, 0, 0, 0, loc), false},
		{"two days ago", time.Date(2026, time.August, 28, 23, 59, 0, 0, loc), false},
		{"no date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := domain.SourceItem{ID: "x", PublishedAt: tt.at}
			assert.Equal(t, tt.want, pred(item))
		})
	}
}

func TestPublishedYesterdayConvertsZones(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	now := func() time.Time {
		return time.Date(2026, time.August, 30, 9, 0, 0, 0, madrid)
	}
	pred := PublishedYesterday(madrid, now)

	// 23:30 UTC on the 29th is already the 30th in Madrid (CEST), so the
	// item does not count as published yesterday.
	item := domain.SourceItem{
		ID:          "x",
		PublishedAt: time.Date(2026, time.August, 29, 23, 30, 0, 0, time.UTC),
	}
	assert.False(t, pred(item))
}

func TestNotSeen(t *testing.T) {
	history := map[string]struct{}{"a": {}}
	pred := NotSeen(history)

	assert.False(t, pred(domain.SourceItem{ID: "a"}))
	assert.True(t, pred(domain.SourceItem{ID: "b"}))
}

func TestParseSpanishDateMonthTable(t *testing.T) {
	months := []string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}

	for i, name := range months {
		got := ParseSpanishDate("1 de "+name+" de 2026", time.UTC)
		require.False(t, got.IsZero(), "month %s", name)
		assert.Equal(t, time.Month(i+1), got.Month())
	}

	assert.True(t, ParseSpanishDate("1 de brumario de 2026", time.UTC).IsZero())
	assert.True(t, ParseSpanishDate("sin fecha", time.UTC).IsZero())
	assert.False(t, ParseSpanishDate("12 DE ENERO DE 2026", time.UTC).IsZero())
}
