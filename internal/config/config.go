// Package config builds the single immutable configuration value for a run.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dileroc6/bigotesfelinos/internal/domain"
)

// Filter policies for the fetch phase. Exactly one is active per deployment.
const (
	FilterNotSeen            = "not-seen"
	FilterPublishedYesterday = "published-yesterday"
)

// Title resolution strategies for generated articles.
const (
	TitleStrategyHeading    = "heading"
	TitleStrategyStructured = "structured"
)

// Config holds every knob the pipeline reads. Constructed once by Load and
// passed into components; nothing reads the environment afterwards.
type Config struct {
	// WordPress
	WPURL      string
	WPUser     string
	WPPassword string
	Category   domain.CategoryRef

	// Text generation
	GeminiAPIKey string
	GeminiModel  string

	// Image search
	UnsplashAccessKey string

	// Source listing
	SourceURL   string
	FetchFilter string
	Timezone    *time.Location

	// Run shape
	MaxItems      int
	PublishDelay  time.Duration
	TitleStrategy string

	// Persistence
	HistoryPath string
	TitlesPath  string

	// Optional announcement fan-out
	AnnouncersFile string

	Debug bool
}

// Load reads .env (when present), binds environment variables and returns a
// validated Config.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set by the scheduler.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("SOURCE_URL", "")
	v.SetDefault("FETCH_FILTER", FilterNotSeen)
	v.SetDefault("TIMEZONE", "Europe/Madrid")
	v.SetDefault("MAX_ITEMS", 3)
	v.SetDefault("PUBLISH_DELAY", "5s")
	v.SetDefault("TITLE_STRATEGY", TitleStrategyHeading)
	v.SetDefault("HISTORY_PATH", "history.db")
	v.SetDefault("TITLES_PATH", "titulos_generados.txt")

	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", v.GetString("TIMEZONE"), err)
	}

	delay, err := time.ParseDuration(v.GetString("PUBLISH_DELAY"))
	if err != nil {
		return nil, fmt.Errorf("parse PUBLISH_DELAY %q: %w", v.GetString("PUBLISH_DELAY"), err)
	}

	cfg := &Config{
		WPURL:      v.GetString("WP_URL"),
		WPUser:     v.GetString("WP_USER"),
		WPPassword: v.GetString("WP_PASSWORD"),
		Category: domain.CategoryRef{
			ID:   v.GetInt("WP_CATEGORY_ID"),
			Name: v.GetString("WP_CATEGORY_NAME"),
		},
		GeminiAPIKey:      v.GetString("GEMINI_API_KEY"),
		GeminiModel:       v.GetString("GEMINI_MODEL"),
		UnsplashAccessKey: v.GetString("UNSPLASH_ACCESS_KEY"),
		SourceURL:         v.GetString("SOURCE_URL"),
		FetchFilter:       v.GetString("FETCH_FILTER"),
		Timezone:          loc,
		MaxItems:          v.GetInt("MAX_ITEMS"),
		PublishDelay:      delay,
		TitleStrategy:     v.GetString("TITLE_STRATEGY"),
		HistoryPath:       v.GetString("HISTORY_PATH"),
		TitlesPath:        v.GetString("TITLES_PATH"),
		AnnouncersFile:    v.GetString("ANNOUNCERS_FILE"),
		Debug:             v.GetBool("DEBUG"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and closed-set values.
func (c *Config) Validate() error {
	if c.WPURL == "" {
		return errors.New("WP_URL is required")
	}
	if c.WPUser == "" {
		return errors.New("WP_USER is required")
	}
	if c.WPPassword == "" {
		return errors.New("WP_PASSWORD is required")
	}
	if c.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY is required")
	}
	if c.SourceURL == "" {
		return errors.New("SOURCE_URL is required")
	}
	if c.FetchFilter != FilterNotSeen && c.FetchFilter != FilterPublishedYesterday {
		return fmt.Errorf("FETCH_FILTER must be %q or %q", FilterNotSeen, FilterPublishedYesterday)
	}
	if c.TitleStrategy != TitleStrategyHeading && c.TitleStrategy != TitleStrategyStructured {
		return fmt.Errorf("TITLE_STRATEGY must be %q or %q", TitleStrategyHeading, TitleStrategyStructured)
	}
	if c.MaxItems <= 0 {
		return errors.New("MAX_ITEMS must be positive")
	}
	if c.Category.ID != 0 && c.Category.Name != "" {
		return errors.New("WP_CATEGORY_ID and WP_CATEGORY_NAME are mutually exclusive")
	}
	return nil
}
