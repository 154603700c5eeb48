package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-trademark-billing/internal/billing"
	"github.com/a3tai/mcp-trademark-billing/internal/invoice"
	"github.com/a3tai/mcp-trademark-billing/internal/report"
)

const (
	// EnvPrefix is prepended to every environment variable, e.g. TM_BILLING_DIR
	EnvPrefix = "TM_BILLING"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultFieldScope  = string(billing.FieldScopeFirstPage)
	DefaultFormat      = string(report.FormatJSON)

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Flag and viper keys
const (
	KeyDir         = "dir"
	KeyLogLevel    = "loglevel"
	KeyMaxFileSize = "maxfilesize"
	KeyWorkers     = "workers"
	KeyAgentFee    = "agent-fee"
	KeyOfficialFee = "official-fee"
	KeyFieldScope  = "field-scope"
	KeyFormat      = "format"
	KeyOutput      = "output"
)

// Config holds all configuration for the billing server and CLI
type Config struct {
	// PDF configuration
	PDFDirectory string
	MaxFileSize  int64 // Maximum PDF file size in bytes

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string

	// Extraction and billing
	Workers     int
	AgentFee    int64
	OfficialFee int64
	FieldScope  string

	// Report output
	Format string
	Output string // empty means stdout
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	fees := invoice.DefaultFees()
	return &Config{
		PDFDirectory: currentDir,
		MaxFileSize:  DefaultMaxFileSize,
		Version:      "1.0.0",
		ServerName:   "mcp-trademark-billing",
		LogLevel:     DefaultLogLevel,
		Workers:      max(runtime.NumCPU()/2, 1),
		AgentFee:     fees.Agent,
		OfficialFee:  fees.Official,
		FieldScope:   DefaultFieldScope,
		Format:       DefaultFormat,
	}
}

// DefineFlags registers every configuration flag on the flag set
func DefineFlags(fs *pflag.FlagSet) {
	cfg := DefaultConfig()

	fs.String(KeyDir, cfg.PDFDirectory, "Directory containing trademark application packets")
	fs.String(KeyLogLevel, cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64(KeyMaxFileSize, cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.Int(KeyWorkers, cfg.Workers, "Number of packets processed concurrently")
	fs.Int64(KeyAgentFee, cfg.AgentFee, "Agent fee per billed item in yuan")
	fs.Int64(KeyOfficialFee, cfg.OfficialFee, "Official fee per billed item in yuan")
	fs.String(KeyFieldScope, cfg.FieldScope, "Where header fields are searched: 'first-page' or 'document'")
	fs.StringP(KeyFormat, "f", cfg.Format, "Report format: json, markdown or html")
	fs.StringP(KeyOutput, "o", cfg.Output, "Write the report to this file instead of stdout")
}

// Load resolves the configuration from defaults, TM_BILLING_* environment
// variables and the given flag set, in increasing order of precedence.
// Flags not defined on fs are read from defaults and the environment only.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setupViperEnvironment(v, cfg)
	if fs != nil {
		bindFlagsToViper(v, fs)
	}
	populateConfigFromViper(v, cfg)

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDir, cfg.PDFDirectory)
	v.SetDefault(KeyLogLevel, cfg.LogLevel)
	v.SetDefault(KeyMaxFileSize, cfg.MaxFileSize)
	v.SetDefault(KeyWorkers, cfg.Workers)
	v.SetDefault(KeyAgentFee, cfg.AgentFee)
	v.SetDefault(KeyOfficialFee, cfg.OfficialFee)
	v.SetDefault(KeyFieldScope, cfg.FieldScope)
	v.SetDefault(KeyFormat, cfg.Format)
	v.SetDefault(KeyOutput, cfg.Output)
}

// bindFlagsToViper binds the flags that exist on fs
func bindFlagsToViper(v *viper.Viper, fs *pflag.FlagSet) {
	for _, key := range []string{
		KeyDir, KeyLogLevel, KeyMaxFileSize, KeyWorkers, KeyAgentFee,
		KeyOfficialFee, KeyFieldScope, KeyFormat, KeyOutput,
	} {
		if flag := fs.Lookup(key); flag != nil {
			_ = v.BindPFlag(key, flag)
		}
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.PDFDirectory = v.GetString(KeyDir)
	cfg.LogLevel = v.GetString(KeyLogLevel)
	cfg.MaxFileSize = v.GetInt64(KeyMaxFileSize)
	cfg.Workers = v.GetInt(KeyWorkers)
	cfg.AgentFee = v.GetInt64(KeyAgentFee)
	cfg.OfficialFee = v.GetInt64(KeyOfficialFee)
	cfg.FieldScope = v.GetString(KeyFieldScope)
	cfg.Format = v.GetString(KeyFormat)
	cfg.Output = v.GetString(KeyOutput)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Check if PDF directory exists, create if it doesn't
	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if err := c.Fees().Validate(); err != nil {
		return err
	}

	if _, err := billing.ParseFieldScope(c.FieldScope); err != nil {
		return err
	}

	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}

	return nil
}

// Fees returns the per-item charges
func (c *Config) Fees() invoice.Fees {
	return invoice.Fees{Official: c.OfficialFee, Agent: c.AgentFee}
}

// Scope returns the parsed field scope, defaulting to the first page
func (c *Config) Scope() billing.FieldScope {
	scope, err := billing.ParseFieldScope(c.FieldScope)
	if err != nil {
		return billing.FieldScopeFirstPage
	}
	return scope
}

// ReportFormat returns the parsed report format, defaulting to JSON
func (c *Config) ReportFormat() report.Format {
	format, err := report.ParseFormat(c.Format)
	if err != nil {
		return report.FormatJSON
	}
	return format
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{PDFDirectory: %s, LogLevel: %s, MaxFileSize: %d, Workers: %d, "+
		"OfficialFee: %d, AgentFee: %d, FieldScope: %s, Format: %s}",
		c.PDFDirectory, c.LogLevel, c.MaxFileSize, c.Workers,
		c.OfficialFee, c.AgentFee, c.FieldScope, c.Format)
}
