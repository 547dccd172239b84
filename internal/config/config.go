package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds orchestrator process settings. Values come from
// defaults, an optional config file, and MATRIXCI_* environment
// variables, in increasing precedence.
type Config struct {
	// Workspace is the source checkout every run snapshots from.
	Workspace string `mapstructure:"workspace"`

	// LogsDir is where per-step log files are written.
	LogsDir string `mapstructure:"logs_dir"`

	// LedgerPath is the JSONL outcome ledger file.
	LedgerPath string `mapstructure:"ledger_path"`

	// KeysDir holds the ed25519 signing key pair.
	KeysDir string `mapstructure:"keys_dir"`

	// WorkflowPath optionally overrides the built-in workflow.
	WorkflowPath string `mapstructure:"workflow"`

	// ListenAddr is the event server bind address.
	ListenAddr string `mapstructure:"listen_addr"`

	// StepTimeout caps each step's external command. It models the
	// hosting scheduler's ceiling, not a retry policy.
	StepTimeout time.Duration `mapstructure:"step_timeout"`

	// LogLevel is the zap level: debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// Load builds the configuration. An optional config file path may be
// given; a missing file is only an error when explicitly requested.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("workspace", ".")
	v.SetDefault("logs_dir", "./logs")
	v.SetDefault("ledger_path", "./ledger.jsonl")
	v.SetDefault("keys_dir", "./keys")
	v.SetDefault("workflow", "")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("step_timeout", 30*time.Minute)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("MATRIXCI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	return &cfg, nil
}
