// Package config aggregates the environment configuration shared by the
// ingestion worker, the validation service and the CLI.
package config

import (
	"errors"
	"time"

	"github.com/congress-network/congressx/pkg/utils"
)

var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
var ErrMissingAPIKey = errors.New("CONGRESS_API_KEY is required")

type Config struct {
	DatabaseURL string

	// Upstream congress.gov API
	CongressAPIKey      string
	CongressAPIBaseURL  string
	DailyQuota          int
	RequestDelay        time.Duration
	CongressNumber      int

	// Chamber site scrapers
	ScrapeDelay   time.Duration
	ScrapeTimeout time.Duration

	// Schemas and promotion versioning
	StagingSchema    string
	ProductionSchema string
	SchemaVersion    string
	VersionsToKeep   int

	// Pipeline tuning
	BatchSize     int
	TimeoutSecs   int
	RetryAttempts int
	MaxConcurrent int

	// Fuzzy matching thresholds
	FuzzyMatchThreshold      int
	FuzzySimplifiedThreshold int
	HierarchyWordOverlap     float64

	// Secondary leadership source
	WikipediaDataPath string
}

// FromEnv reads the full configuration with defaults applied. Callers that
// require the database or the upstream API must call RequireDatabase /
// RequireAPIKey afterwards.
func FromEnv() Config {
	return Config{
		DatabaseURL:        utils.Env("DATABASE_URL", ""),
		CongressAPIKey:     utils.Env("CONGRESS_API_KEY", ""),
		CongressAPIBaseURL: utils.Env("CONGRESS_API_BASE_URL", "https://api.congress.gov/v3"),
		DailyQuota:         utils.EnvInt("CONGRESS_API_DAILY_QUOTA", 5000),
		RequestDelay:       utils.EnvDuration("CONGRESS_API_REQUEST_DELAY", 1*time.Second),
		CongressNumber:     utils.EnvInt("CONGRESS_NUMBER", 119),

		ScrapeDelay:   utils.EnvDuration("SCRAPE_DELAY", 1*time.Second),
		ScrapeTimeout: utils.EnvDuration("SCRAPE_TIMEOUT", 30*time.Second),

		StagingSchema:    utils.Env("STAGING_SCHEMA", "staging"),
		ProductionSchema: utils.Env("PRODUCTION_SCHEMA", "public"),
		SchemaVersion:    utils.Env("SCHEMA_VERSION", "v20250708"),
		VersionsToKeep:   utils.EnvInt("VERSIONS_TO_KEEP", 3),

		BatchSize:     utils.EnvInt("PIPELINE_BATCH_SIZE", 100),
		TimeoutSecs:   utils.EnvInt("PIPELINE_TIMEOUT_SECONDS", 3600),
		RetryAttempts: utils.EnvInt("PIPELINE_RETRY_ATTEMPTS", 3),
		MaxConcurrent: utils.EnvInt("PIPELINE_MAX_CONCURRENT", 3),

		FuzzyMatchThreshold:      utils.EnvInt("FUZZY_MATCH_THRESHOLD", 80),
		FuzzySimplifiedThreshold: utils.EnvInt("FUZZY_SIMPLIFIED_THRESHOLD", 70),
		HierarchyWordOverlap:     utils.EnvFloat("HIERARCHY_WORD_OVERLAP", 0.5),

		WikipediaDataPath: utils.Env("WIKIPEDIA_DATA_PATH", "wikipedia_data.json"),
	}
}

func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

func (c Config) RequireAPIKey() error {
	if c.CongressAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}
