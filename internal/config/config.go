package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Result sources
const (
	SourceXLSX   = "xlsx"
	SourceSheets = "sheets"
	SourceSQLite = "sqlite"
	SourceMemory = "memory"
)

var validSources = []string{SourceXLSX, SourceSheets, SourceSQLite, SourceMemory}

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"}

type Config struct {
	// HTTP Server
	Port string

	// Results source
	ResultsSource string
	ResultsFile   string
	ResultsSheet  string
	SQLiteDBPath  string

	// Google Sheets
	GoogleSpreadsheetID       string
	GoogleSheetName           string
	GoogleServiceAccountJSON  string
	GoogleServiceAccountFile  string
	GoogleApplicationCredPath string

	// Reference data
	DescriptionsFile string

	// Dashboard
	DefaultProjects int
	TopRows         int
	CacheSize       int
	CacheTTL        time.Duration

	// HTTP
	RateLimitPerMinute int

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		ResultsSource: strings.ToLower(getEnv("RESULTS_SOURCE", SourceXLSX)),
		ResultsFile:   getEnv("RESULTS_FILE", "./data/Kenya_Country-wise_Results_Repo.xlsx"),
		ResultsSheet:  getEnv("RESULTS_SHEET", ""),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/results.db"),

		GoogleSpreadsheetID:       getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:           getEnv("GOOGLE_SHEET_NAME", ""),
		GoogleServiceAccountJSON:  getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile:  getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleApplicationCredPath: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		DescriptionsFile: getEnv("DESCRIPTIONS_FILE", ""),

		DefaultProjects: getEnvInt("DEFAULT_PROJECTS", 5),
		TopRows:         getEnvInt("TOP_ROWS", 10),
		CacheSize:       getEnvInt("CACHE_SIZE", 256),
		CacheTTL:        getEnvDuration("CACHE_TTL", 10*time.Minute),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// Validate validates the configuration and returns an error listing every problem
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validSources, c.ResultsSource) {
		errors = append(errors, fmt.Sprintf("invalid results source '%s': must be one of %v", c.ResultsSource, validSources))
	}

	switch c.ResultsSource {
	case SourceXLSX, SourceMemory:
		if c.ResultsFile == "" {
			errors = append(errors, fmt.Sprintf("RESULTS_FILE is required when using %s source", c.ResultsSource))
		} else if _, err := os.Stat(c.ResultsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("results file does not exist: %s", c.ResultsFile))
		}
	case SourceSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite source")
		}
	case SourceSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" && c.GoogleApplicationCredPath == "" {
			errors = append(errors, "one of GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets source")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.DescriptionsFile != "" {
		if _, err := os.Stat(c.DescriptionsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("descriptions file does not exist: %s", c.DescriptionsFile))
		}
	}

	if c.DefaultProjects < 0 {
		errors = append(errors, fmt.Sprintf("invalid default projects %d: must not be negative", c.DefaultProjects))
	}
	if c.TopRows < 1 {
		errors = append(errors, fmt.Sprintf("invalid top rows %d: must be at least 1", c.TopRows))
	}
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache ttl %v: must not be negative", c.CacheTTL))
	}
	if c.RateLimitPerMinute < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must not be negative (0 disables)", c.RateLimitPerMinute))
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
