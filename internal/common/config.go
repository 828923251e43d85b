package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config is the top-level configuration for a link-checker run, loaded
// from TOML and validated with struct tags — replacing the teacher's
// hand-rolled range checks with declarative `validate:"..."` rules.
type Config struct {
	Environment string       `toml:"environment" validate:"omitempty,oneof=development production"`
	Logging     LoggingConfig `toml:"logging"`
	Run         RunConfig    `toml:"run"`
	Filter      FilterConfig `toml:"filter"`
	Cache       CacheConfig  `toml:"cache"`
	Schedule    ScheduleConfig `toml:"schedule"`
}

// LoggingConfig controls the arbor-backed logger, per common/logger.go.
type LoggingConfig struct {
	Level      string   `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string   `toml:"format" validate:"omitempty,oneof=text json"`
	Output     []string `toml:"output"`
	TimeFormat string   `toml:"time_format"`
}

// RunConfig holds the pipeline/checking-engine policy knobs from spec §6.
type RunConfig struct {
	Inputs []string `toml:"inputs" validate:"required,min=1"`
	Base   string   `toml:"base"`

	MaxConcurrency        int     `toml:"max_concurrency" validate:"min=1"`
	MaxConcurrencyPerHost int     `toml:"max_concurrency_per_host" validate:"min=1"`
	RequestsPerSecond     float64 `toml:"requests_per_second" validate:"min=0"`

	MaxRedirects     int           `toml:"max_redirects" validate:"min=0"`
	MaxRetries       int           `toml:"max_retries" validate:"min=0"`
	RetryWaitTime    time.Duration `toml:"retry_wait_time"`
	RetryWaitTimeMax time.Duration `toml:"retry_wait_time_max"`

	Timeout              time.Duration `toml:"timeout"`
	AcceptedStatusCodes  []int         `toml:"accepted_status_codes"`
	RetryableStatusCodes []int         `toml:"retryable_status_codes"`
	Method               string        `toml:"method" validate:"omitempty,oneof=GET HEAD HEAD_THEN_GET"`

	IncludeFragments bool `toml:"include_fragments"`
	IncludeVerbatim  bool `toml:"include_verbatim"`
	IncludeMail      bool `toml:"include_mail"`

	Headers       map[string]string `toml:"headers"`
	UserAgent     string            `toml:"user_agent"`
	CookieJarPath string            `toml:"cookie_jar_path"`

	BasicAuthUser   string `toml:"basic_auth_user"`
	BasicAuthSecret string `toml:"basic_auth_secret"`
	GithubToken     string `toml:"github_token"`

	Schemes        []string `toml:"schemes"`
	AcceptEncoding []string `toml:"accept_encoding"`
}

// FilterConfig mirrors internal/services/filter.Config, TOML-tagged.
type FilterConfig struct {
	Include          []string `toml:"include"`
	Exclude          []string `toml:"exclude"`
	ExcludePrivate   bool     `toml:"exclude_private"`
	ExcludeLinkLocal bool     `toml:"exclude_link_local"`
	ExcludeLoopback  bool     `toml:"exclude_loopback"`
	ExcludeMail      bool     `toml:"exclude_mail"`
	ExcludeFile      bool     `toml:"exclude_file"`
	ExcludePath      []string `toml:"exclude_path"`
}

// CacheConfig controls the response cache (C9).
type CacheConfig struct {
	Enabled          bool          `toml:"enabled"`
	Path             string        `toml:"path"`
	BadgerPath       string        `toml:"badger_path"`
	ResetOnStartup   bool          `toml:"reset_on_startup"`
	MaxCacheAge      time.Duration `toml:"max_cache_age"`
	MaxCacheAgeError time.Duration `toml:"max_cache_age_error"`
}

// ScheduleConfig controls the optional periodic re-check scheduler.
type ScheduleConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron" validate:"omitempty,cron"`
}

// NewDefaultConfig returns the defaults a bare `linkcheck` invocation runs
// with when no TOML file is supplied.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
		Run: RunConfig{
			MaxConcurrency:        10,
			MaxConcurrencyPerHost: 4,
			MaxRedirects:          10,
			MaxRetries:            2,
			RetryWaitTime:         1 * time.Second,
			RetryWaitTimeMax:      30 * time.Second,
			Timeout:               30 * time.Second,
			AcceptedStatusCodes:   nil, // nil means "2xx" per spec §6
			RetryableStatusCodes:  []int{429, 502, 503, 504},
			Method:                "GET",
			IncludeFragments:      true,
			IncludeVerbatim:       true,
			IncludeMail:           false,
			UserAgent:             "linkcheck/1.0 (+https://github.com/ternarybob/linkcheck)",
			Schemes:               []string{"http", "https", "file", "mailto"},
		},
		Filter: FilterConfig{
			ExcludeLoopback: false,
		},
		Cache: CacheConfig{
			Enabled:          true,
			Path:             "./linkcheck-cache.csv",
			BadgerPath:       "./data/cache",
			MaxCacheAge:      24 * time.Hour,
			MaxCacheAgeError: 1 * time.Hour,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	_ = validate.RegisterValidation("cron", validateCronTag)
}

// validateCronTag accepts any non-empty 5-field expression; full syntax
// checking happens at cron.NewParser.Parse time in the scheduler.
func validateCronTag(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == "" {
		return true
	}
	return len(strings.Fields(v)) == 5
}

// LoadFromFile loads configuration with priority: default -> file -> env.
// path may be empty, in which case only defaults and env overrides apply.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if level := os.Getenv("LINKCHECK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("LINKCHECK_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if mc := os.Getenv("LINKCHECK_MAX_CONCURRENCY"); mc != "" {
		if v, err := strconv.Atoi(mc); err == nil {
			config.Run.MaxConcurrency = v
		}
	}
	if mcph := os.Getenv("LINKCHECK_MAX_CONCURRENCY_PER_HOST"); mcph != "" {
		if v, err := strconv.Atoi(mcph); err == nil {
			config.Run.MaxConcurrencyPerHost = v
		}
	}
	if timeout := os.Getenv("LINKCHECK_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Run.Timeout = d
		}
	}
	if token := os.Getenv("LINKCHECK_GITHUB_TOKEN"); token != "" {
		config.Run.GithubToken = token
	}
	if user := os.Getenv("LINKCHECK_BASIC_AUTH_USER"); user != "" {
		config.Run.BasicAuthUser = user
	}
	if secret := os.Getenv("LINKCHECK_BASIC_AUTH_SECRET"); secret != "" {
		config.Run.BasicAuthSecret = secret
	}
	if cachePath := os.Getenv("LINKCHECK_CACHE_PATH"); cachePath != "" {
		config.Cache.Path = cachePath
	}
}

// IsProduction reports whether Environment is set to "production"/"prod".
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ValidateJobSchedule validates a cron schedule expression for the
// scheduler (internal/services/scheduler), matching the 5-field
// minute/hour/dom/month/dow form robfig/cron expects.
func ValidateJobSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
