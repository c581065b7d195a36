// Package config defines the journal-tracker configuration. Defaults come
// from struct tags; values are overridden from an optional YAML file and
// JT_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
)

type Configuration struct {
	Server    Server    `mapstructure:"server"`
	Tracker   Tracker   `mapstructure:"tracker"`
	GameState GameState `mapstructure:"gamestate"`
	Feed      Feed      `mapstructure:"feed"`
	LogLevel  string    `mapstructure:"log_level" default:"info"`
	LogFormat string    `mapstructure:"log_format" default:"console"`
}

// Server holds the HTTP server settings. Mode "dev" serves plain HTTP; mode
// "prod" runs gin in release mode, serves the statics folder when set and
// enables TLS when a certificate pair is configured.
type Server struct {
	Mode          string `mapstructure:"mode" default:"dev"`
	HTTPPort      int    `mapstructure:"http_port" default:"8000"`
	StaticsFolder string `mapstructure:"statics_folder"`
	TLSCertFile   string `mapstructure:"tls_cert_file"`
	TLSKeyFile    string `mapstructure:"tls_key_file"`
}

// Tracker holds the pipeline settings.
type Tracker struct {
	// DataFolder is where the DuckDB database lives; empty means in-memory.
	DataFolder string `mapstructure:"data_folder"`
	// EventYear is the partition key for incoming visit entries; empty means
	// the current calendar year.
	EventYear string `mapstructure:"event_year"`
	// SessionID identifies this tracker in export filenames; empty means a
	// random UUID per start.
	SessionID string `mapstructure:"session_id"`
	// NumWorkers sizes the async scheduler.
	NumWorkers int `mapstructure:"num_workers" default:"3"`
	// ReportCycle is the recurrence interval of the periodic report.
	ReportCycle time.Duration `mapstructure:"report_cycle" default:"36h"`
	// OverdueThreshold is the overdue margin beyond which missed report
	// cycles are inferred.
	OverdueThreshold time.Duration `mapstructure:"overdue_threshold" default:"8h"`
}

// GameState configures the optional live count source. An empty URL disables
// it; aggregation then always runs in cached mode.
type GameState struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout" default:"10s"`
}

// Feed configures the observer trigger hook. An empty URL disables manual
// re-scrape triggering.
type Feed struct {
	TriggerURL string        `mapstructure:"trigger_url"`
	Timeout    time.Duration `mapstructure:"timeout" default:"10s"`
}

// Load builds the configuration from defaults, an optional config file and
// the environment.
func Load(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetEnvPrefix("JT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Tracker.EventYear == "" {
		cfg.Tracker.EventYear = fmt.Sprintf("%d", time.Now().Year())
	}

	return cfg, nil
}
