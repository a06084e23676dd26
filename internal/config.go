package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Backend       BackendConfig       `mapstructure:"backend"`
	Drafts        DraftsConfig        `mapstructure:"drafts"`
	Interviews    InterviewsConfig    `mapstructure:"interviews"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	ValidateRequests  bool          `mapstructure:"validate_requests"`
}

// BackendConfig points at the ATS REST API that owns every persisted entity.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DraftsConfig struct {
	Store      string        `mapstructure:"store"`
	ValkeyAddr string        `mapstructure:"valkey_addr"`
	TTL        time.Duration `mapstructure:"ttl"`
}

type InterviewsConfig struct {
	PageSize      int    `mapstructure:"page_size"`
	CalendarLimit int    `mapstructure:"calendar_limit"`
	Timezone      string `mapstructure:"timezone"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DraftStoreMemory = "memory"
	DraftStoreValkey = "valkey"

	DefaultPageSize      = 10
	DefaultCalendarLimit = 500
	DefaultDraftTTL      = 2 * time.Hour
)

// LoadConfigFromEnv builds the configuration for container deployments.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("HTTP_BASE_URL", ""),
			AllowedOrigins:    getEnv("HTTP_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			ValidateRequests:  getEnv("HTTP_VALIDATE_REQUESTS", "true") == "true",
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", ""),
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second),
		},
		Drafts: DraftsConfig{
			Store:      getEnv("DRAFTS_STORE", DraftStoreMemory),
			ValkeyAddr: getEnv("DRAFTS_VALKEY_ADDR", ""),
			TTL:        getEnvAsDuration("DRAFTS_TTL", DefaultDraftTTL),
		},
		Interviews: InterviewsConfig{
			PageSize:      getEnvAsInt("INTERVIEWS_PAGE_SIZE", DefaultPageSize),
			CalendarLimit: getEnvAsInt("INTERVIEWS_CALENDAR_LIMIT", DefaultCalendarLimit),
			Timezone:      getEnv("INTERVIEWS_TIMEZONE", "UTC"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ApplyDefaults fills zero values left by a partial config file.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = 10 * time.Second
	}
	if c.Drafts.Store == "" {
		c.Drafts.Store = DraftStoreMemory
	}
	if c.Drafts.TTL <= 0 {
		c.Drafts.TTL = DefaultDraftTTL
	}
	if c.Interviews.PageSize <= 0 {
		c.Interviews.PageSize = DefaultPageSize
	}
	if c.Interviews.CalendarLimit <= 0 {
		c.Interviews.CalendarLimit = DefaultCalendarLimit
	}
	if c.Interviews.Timezone == "" {
		c.Interviews.Timezone = "UTC"
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Backend.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("backend config: %v", err))
	}

	if err := c.Drafts.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("drafts config: %v", err))
	}

	if err := c.Interviews.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("interviews config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *BackendConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	return nil
}

func (c *DraftsConfig) Validate() error {
	switch c.Store {
	case DraftStoreMemory:
	case DraftStoreValkey:
		if c.ValkeyAddr == "" {
			return errors.New("valkey_addr is required when store is valkey")
		}
	default:
		return fmt.Errorf("unknown draft store %q", c.Store)
	}
	return nil
}

func (c *InterviewsConfig) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the timezone used for calendar days and datetime-local fields.
func (c *InterviewsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
