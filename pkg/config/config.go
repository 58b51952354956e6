// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Listmonk struct {
		URL      string        `yaml:"url" json:"url" jsonschema:"default=http://localhost:9000,description=Listmonk API base URL"`
		Username string        `yaml:"username" json:"username" jsonschema:"default=api,description=Listmonk API username"`
		Password string        `yaml:"password" json:"password" jsonschema:"required,description=Listmonk API token (use environment variable)"`
		Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Listmonk API request timeout"`
	} `yaml:"listmonk" json:"listmonk" jsonschema:"description=List-store connection"`

	Fetch struct {
		Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Per-fetch HTTP timeout"`
		UserAgent   string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=feedmailer/1.0,description=User agent for feed requests"`
		MaxAttempts int           `yaml:"max_attempts" json:"max_attempts" jsonschema:"default=4,minimum=1,description=Fetch attempts before giving up"`
		RetryDelay  time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=500ms,description=Initial retry backoff delay"`
	} `yaml:"fetch" json:"fetch" jsonschema:"description=Feed fetching"`

	Schedule struct {
		CycleInterval time.Duration `yaml:"cycle_interval" json:"cycle_interval" jsonschema:"default=1m,description=Time between poll cycles"`
		CycleDeadline time.Duration `yaml:"cycle_deadline" json:"cycle_deadline" jsonschema:"default=5m,description=Wall-clock cap on one poll cycle"`
		MaxWorkers    int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=10,minimum=1,description=Maximum concurrent feed polls"`
		Timezone      string        `yaml:"timezone" json:"timezone" jsonschema:"default=UTC,description=IANA zone for daily/weekly schedules"`
		DailyAt       string        `yaml:"daily_at" json:"daily_at" jsonschema:"default=17:00,description=Local send time for daily and weekly cadences (HH:MM)"`
		WeeklyDay     string        `yaml:"weekly_day" json:"weekly_day" jsonschema:"default=friday,description=Weekday for the weekly cadence"`
		FirstPoll     string        `yaml:"first_poll" json:"first_poll" jsonschema:"default=seed-only,enum=seed-only,enum=emit-all,description=First-ever-poll behavior"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Poll scheduling"`

	Campaign struct {
		AutoSend bool `yaml:"auto_send" json:"auto_send" jsonschema:"default=false,description=Start campaigns right after creation"`
	} `yaml:"campaign" json:"campaign" jsonschema:"description=Campaign emission"`

	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=Status server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Status server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Status server"`
}

// Load reads configuration from a YAML file, expands ${ENV} references,
// applies defaults and validates. Validation failures are startup-fatal.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Listmonk.URL == "" {
		c.Listmonk.URL = "http://localhost:9000"
	}
	if c.Listmonk.Username == "" {
		c.Listmonk.Username = "api"
	}
	if c.Listmonk.Timeout == 0 {
		c.Listmonk.Timeout = 30 * time.Second
	}

	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "feedmailer/1.0 (Feed Aggregator; +https://github.com/feedmailer/feedmailer)"
	}
	if c.Fetch.MaxAttempts == 0 {
		c.Fetch.MaxAttempts = 4
	}
	if c.Fetch.RetryDelay == 0 {
		c.Fetch.RetryDelay = 500 * time.Millisecond
	}

	if c.Schedule.CycleInterval == 0 {
		c.Schedule.CycleInterval = time.Minute
	}
	if c.Schedule.CycleDeadline == 0 {
		c.Schedule.CycleDeadline = 5 * time.Minute
	}
	if c.Schedule.MaxWorkers == 0 {
		c.Schedule.MaxWorkers = 10
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "UTC"
	}
	if c.Schedule.DailyAt == "" {
		c.Schedule.DailyAt = "17:00"
	}
	if c.Schedule.WeeklyDay == "" {
		c.Schedule.WeeklyDay = "friday"
	}
	if c.Schedule.FirstPoll == "" {
		c.Schedule.FirstPoll = "seed-only"
	}

	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Listmonk.Password == "" {
		return fmt.Errorf("listmonk.password is required")
	}
	if cfg.Listmonk.URL == "" {
		return fmt.Errorf("listmonk.url is required")
	}

	if cfg.Fetch.MaxAttempts < 1 {
		return fmt.Errorf("fetch.max_attempts must be at least 1")
	}
	if cfg.Fetch.Timeout < time.Second {
		return fmt.Errorf("fetch.timeout must be at least 1 second")
	}

	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	if _, _, err := cfg.DailyAt(); err != nil {
		return fmt.Errorf("schedule.daily_at: %w", err)
	}
	if _, err := cfg.WeeklyDay(); err != nil {
		return fmt.Errorf("schedule.weekly_day: %w", err)
	}
	if cfg.Schedule.FirstPoll != "seed-only" && cfg.Schedule.FirstPoll != "emit-all" {
		return fmt.Errorf("schedule.first_poll must be seed-only or emit-all, got %q", cfg.Schedule.FirstPoll)
	}
	if cfg.Schedule.CycleDeadline < cfg.Fetch.Timeout {
		return fmt.Errorf("schedule.cycle_deadline must not be shorter than fetch.timeout")
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server.timeout must be at least 1 second")
	}

	return nil
}

// Location resolves the configured IANA time zone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Schedule.Timezone, err)
	}
	return loc, nil
}

// DailyAt parses the configured HH:MM local send time
func (c *Config) DailyAt() (hour, minute int, err error) {
	if _, err := fmt.Sscanf(c.Schedule.DailyAt, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("parse time %q: %w", c.Schedule.DailyAt, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", c.Schedule.DailyAt)
	}
	return hour, minute, nil
}

// WeeklyDay parses the configured weekday name
func (c *Config) WeeklyDay() (time.Weekday, error) {
	days := map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	day, ok := days[strings.ToLower(c.Schedule.WeeklyDay)]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", c.Schedule.WeeklyDay)
	}
	return day, nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
