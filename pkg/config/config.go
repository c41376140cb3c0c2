package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// App holds runtime configuration derived from env vars or a .env file.
// It is built once at startup and treated as read-only afterwards.
type App struct {
	// Mimecast API 2.0
	MimecastClientID          string
	MimecastClientSecret      string
	MimecastTokenURL          string
	MimecastBaseURL           string
	MimecastRequestsPerSecond float64
	MimecastHTTPTimeout       time.Duration

	// Polling behaviour
	InitialBackfillDays int
	PollInterval        time.Duration
	PollSchedule        string
	Lookback            time.Duration
	ArchivePageSize     int

	// Storage
	DBDriver        string
	DBPath          string
	DatabaseURL     string
	UpsertBatchSize int

	// HTTP / dashboard
	APIPort     string
	Environment string
	LogLevel    string
	CORSOrigins []string
	DefaultDays int
	UIPageSize  int

	// Poll cycle events
	KafkaBrokers []string
	KafkaTopic   string

	// parseErrs holds numeric values that could not be parsed; Validate
	// reports them.
	parseErrs []error
}

// ValidationError describes one invalid configuration value.
type ValidationError struct {
	Key string
	msg string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.msg)
}

func invalid(key, format string, args ...interface{}) error {
	return ValidationError{Key: key, msg: fmt.Sprintf(format, args...)}
}

// Load reads an optional .env file and then the environment.
// Values already present in the environment win over the file.
func Load(envFiles ...string) App {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
	return FromEnv()
}

// FromEnv loads the application configuration from environment variables.
func FromEnv() App {
	r := &envReader{}
	app := App{
		MimecastClientID:          os.Getenv("MIMECAST_CLIENT_ID"),
		MimecastClientSecret:      os.Getenv("MIMECAST_CLIENT_SECRET"),
		MimecastTokenURL:          getEnv("MIMECAST_OAUTH_TOKEN_URL", "https://api.services.mimecast.com/oauth/token"),
		MimecastBaseURL:           strings.TrimRight(getEnv("MIMECAST_API_BASE_URL", "https://api.services.mimecast.com"), "/"),
		MimecastRequestsPerSecond: r.floatVal("MIMECAST_REQUESTS_PER_SECOND", 5),
		MimecastHTTPTimeout:       time.Duration(r.intVal("MIMECAST_HTTP_TIMEOUT_SECONDS", 60)) * time.Second,

		InitialBackfillDays: r.intVal("INITIAL_BACKFILL_DAYS", 30),
		PollInterval:        time.Duration(r.intVal("POLL_SECONDS", 3600)) * time.Second,
		PollSchedule:        strings.TrimSpace(os.Getenv("POLL_SCHEDULE")),
		Lookback:            time.Duration(r.intVal("LOOKBACK_SECONDS", 7200)) * time.Second,
		ArchivePageSize:     r.intVal("ARCHIVE_PAGE_SIZE", 100),

		DBDriver:        strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:          getEnv("DB_PATH", "/data/searchlogs.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		UpsertBatchSize: r.intVal("UPSERT_BATCH_SIZE", 500),

		APIPort:     getEnv("API_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getCORSOrigins(),
		DefaultDays: r.intVal("DEFAULT_DAYS", 30),
		UIPageSize:  r.intVal("UI_PAGE_SIZE", 50),

		KafkaBrokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "searchlog-poll-cycles"),
	}
	app.parseErrs = r.errs
	return app
}

// Validate reports every invalid setting at once.
func (a App) Validate() error {
	errs := append([]error(nil), a.parseErrs...)

	if strings.TrimSpace(a.MimecastClientID) == "" {
		errs = append(errs, invalid("MIMECAST_CLIENT_ID", "is required"))
	}
	if strings.TrimSpace(a.MimecastClientSecret) == "" {
		errs = append(errs, invalid("MIMECAST_CLIENT_SECRET", "is required"))
	}
	if err := validateURL("MIMECAST_OAUTH_TOKEN_URL", a.MimecastTokenURL); err != nil {
		errs = append(errs, err)
	}
	if err := validateURL("MIMECAST_API_BASE_URL", a.MimecastBaseURL); err != nil {
		errs = append(errs, err)
	}
	if a.MimecastRequestsPerSecond < 0 {
		errs = append(errs, invalid("MIMECAST_REQUESTS_PER_SECOND", "must be >= 0"))
	}
	if a.MimecastHTTPTimeout <= 0 {
		errs = append(errs, invalid("MIMECAST_HTTP_TIMEOUT_SECONDS", "must be > 0"))
	}
	if a.InitialBackfillDays < 1 {
		errs = append(errs, invalid("INITIAL_BACKFILL_DAYS", "must be >= 1"))
	}
	if a.PollInterval < time.Second && a.PollSchedule == "" {
		errs = append(errs, invalid("POLL_SECONDS", "must be >= 1"))
	}
	if a.Lookback < 0 {
		errs = append(errs, invalid("LOOKBACK_SECONDS", "must be >= 0"))
	}
	if a.ArchivePageSize < 1 || a.ArchivePageSize > 500 {
		errs = append(errs, invalid("ARCHIVE_PAGE_SIZE", "must be between 1 and 500"))
	}
	switch a.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(a.DBPath) == "" {
			errs = append(errs, invalid("DB_PATH", "is required for the sqlite driver"))
		}
	case DriverMySQL:
		if strings.TrimSpace(a.DatabaseURL) == "" {
			errs = append(errs, invalid("DATABASE_URL", "is required for the mysql driver"))
		}
	default:
		errs = append(errs, invalid("DB_DRIVER", "unsupported driver %q", a.DBDriver))
	}
	if a.UpsertBatchSize < 1 {
		errs = append(errs, invalid("UPSERT_BATCH_SIZE", "must be >= 1"))
	}
	if a.DefaultDays < 1 {
		errs = append(errs, invalid("DEFAULT_DAYS", "must be >= 1"))
	}
	if a.UIPageSize < 1 {
		errs = append(errs, invalid("UI_PAGE_SIZE", "must be >= 1"))
	}
	if len(a.KafkaBrokers) > 0 && strings.TrimSpace(a.KafkaTopic) == "" {
		errs = append(errs, invalid("KAFKA_TOPIC", "is required when KAFKA_BROKERS is set"))
	}

	return errors.Join(errs...)
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid(key, "must be an absolute URL, got %q", raw)
	}
	return nil
}

// getEnv returns the trimmed value of key, or def when unset or blank.
func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// envReader parses numeric variables, keeping def for missing values and
// recording malformed ones.
type envReader struct {
	errs []error
}

func (r *envReader) intVal(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, invalid(key, "must be an integer, got %q", v))
		return def
	}
	return n
}

func (r *envReader) floatVal(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, invalid(key, "must be a number, got %q", v))
		return def
	}
	return f
}

func getCORSOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"*"}
	}
	return splitCSV(raw)
}

func splitCSV(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return []string{}
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
