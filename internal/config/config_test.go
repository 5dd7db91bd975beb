package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("WP_URL", "https://blog.example.com")
	t.Setenv("WP_USER", "admin")
	t.Setenv("WP_PASSWORD", "secreto")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("SOURCE_URL", "https://source.example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, FilterNotSeen, cfg.FetchFilter)
	assert.Equal(t, TitleStrategyHeading, cfg.TitleStrategy)
	assert.Equal(t, 3, cfg.MaxItems)
	assert.Equal(t, 5*time.Second, cfg.PublishDelay)
	assert.Equal(t, "Europe/Madrid", cfg.Timezone.String())
	assert.Equal(t, "history.db", cfg.HistoryPath)
	assert.Equal(t, "titulos_generados.txt", cfg.TitlesPath)
	assert.True(t, cfg.Category.IsZero())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FETCH_FILTER", FilterPublishedYesterday)
	t.Setenv("TITLE_STRATEGY", TitleStrategyStructured)
	t.Setenv("MAX_ITEMS", "7")
	t.Setenv("PUBLISH_DELAY", "250ms")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("WP_CATEGORY_ID", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, FilterPublishedYesterday, cfg.FetchFilter)
	assert.Equal(t, TitleStrategyStructured, cfg.TitleStrategy)
	assert.Equal(t, 7, cfg.MaxItems)
	assert.Equal(t, 250*time.Millisecond, cfg.PublishDelay)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, 12, cfg.Category.ID)
}

func TestLoadRejectsMissingRequiredVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WP_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WP_PASSWORD")
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateClosedSets(t *testing.T) {
	base := func() *Config {
		loc, _ := time.LoadLocation("UTC")
		return &Config{
			WPURL:         "https://blog.example.com",
			WPUser:        "admin",
			WPPassword:    "secreto",
			GeminiAPIKey:  "key",
			SourceURL:     "https://source.example.com",
			FetchFilter:   FilterNotSeen,
			TitleStrategy: TitleStrategyHeading,
			Timezone:      loc,
			MaxItems:      3,
		}
	}

	cfg := base()
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.FetchFilter = "everything"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.TitleStrategy = "guess"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.MaxItems = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Category.ID = 4
	cfg.Category.Name = "Perros"
	assert.Error(t, cfg.Validate(), "id and name are mutually exclusive")
}
