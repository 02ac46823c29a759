package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("swagger-split version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Split   SplitConfig   `mapstructure:"split"`
	Render  RenderConfig  `mapstructure:"render"`
}

// AdminPolicy decides what happens to path entries that do not carry the tenant marker
type AdminPolicy string

const (
	// AdminPolicyKeep writes non-tenant entries to <out>/admin/swagger.json
	AdminPolicyKeep AdminPolicy = "keep"
	// AdminPolicyDiscard drops non-tenant entries and only writes the public document
	AdminPolicyDiscard AdminPolicy = "discard"
)

// DefaultMarker is the tenant marker used when none is configured
const DefaultMarker = "tenant"

// Valid reports whether p is a known policy
func (p AdminPolicy) Valid() bool {
	switch p {
	case AdminPolicyKeep, AdminPolicyDiscard:
		return true
	}
	return false
}

type SplitConfig struct {
	InputDir    string      `mapstructure:"input_dir"`
	OutputDir   string      `mapstructure:"output_dir"` // defaults to input_dir
	Marker      string      `mapstructure:"marker"`
	Rules       []string    `mapstructure:"rules"` // "match=replacement"
	RulesFile   string      `mapstructure:"rules_file"`
	AdminPolicy AdminPolicy `mapstructure:"admin_policy"`
	Indent      bool        `mapstructure:"indent"`
	Validate    bool        `mapstructure:"validate"`
	Interactive bool        `mapstructure:"interactive"`
	Watch       bool        `mapstructure:"watch"`
}

type RenderConfig struct {
	ContextFile  string `mapstructure:"context_file"`
	TemplateFile string `mapstructure:"template_file"`
	OutputFile   string `mapstructure:"output_file"` // stdout when empty
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	Color             bool   `mapstructure:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// InitFlags registers the global flags on the given flag set (without parsing)
func InitFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to a config file (default ./config.yaml or /etc/swagger-split/config.yaml)")
	flags.String("log-level", "info", "Log level (debug|info|warn|error)")
	flags.String("log-format", "console", "Log format (console|json)")
}

// Load reads configuration from the optional config file, the environment and
// the flags bound on the given flag set. Flags win over environment, which wins
// over the file.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("SWAGGER_SPLIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/swagger-split")
	}

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional, flags and environment are enough
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Marker and policy stay empty when unset so a rules file can supply them
	if cfg.Split.AdminPolicy != "" && !cfg.Split.AdminPolicy.Valid() {
		return nil, fmt.Errorf("split.admin_policy must be %q or %q, got %q",
			AdminPolicyKeep, AdminPolicyDiscard, cfg.Split.AdminPolicy)
	}

	if cfg.Split.Watch && cfg.Split.Interactive {
		return nil, errors.New("split.watch cannot be combined with split.interactive")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	// Registered so AutomaticEnv can fill them on Unmarshal
	for _, key := range []string{
		"split.input_dir", "split.output_dir", "split.marker", "split.rules_file", "split.admin_policy",
		"render.context_file", "render.template_file", "render.output_file",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("split.rules", []string{})
	v.SetDefault("split.indent", false)
	v.SetDefault("split.validate", false)
	v.SetDefault("split.interactive", false)
	v.SetDefault("split.watch", false)
}

// flagKeys maps CLI flag names onto config keys
var flagKeys = map[string]string{
	"config":        "config",
	"log-level":     "logging.level",
	"log-format":    "logging.format",
	"output-dir":    "split.output_dir",
	"rules-file":    "split.rules_file",
	"admin-policy":  "split.admin_policy",
	"indent":        "split.indent",
	"validate":      "split.validate",
	"interactive":   "split.interactive",
	"watch":         "split.watch",
	"context-file":  "render.context_file",
	"template-file": "render.template_file",
	"output":        "render.output_file",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
