package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentstation/keyprobe/internal/cmd/output"
	"github.com/agentstation/keyprobe/pkg/constants"
	"github.com/agentstation/keyprobe/pkg/errors"
)

// envPrefix scopes probe settings in the environment, e.g. KEYPROBE_MODEL.
const envPrefix = "KEYPROBE"

// Config holds the application configuration loaded from flags, environment
// variables, .env files, and the optional config file.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	LogLevel string

	// Config file
	ConfigFile string

	// Credential
	EnvFile    string
	KeyName    string
	KeyPattern string

	// Probe request
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int64
	BaseURL      string
	Timeout      time.Duration

	// Report
	Format string
	Strict bool

	// Logging configuration
	LogFormat string
	LogOutput string
}

// flagKeys maps viper keys to their flag names.
var flagKeys = map[string]string{
	"config":        "config",
	"verbose":       "verbose",
	"quiet":         "quiet",
	"no_color":      "no-color",
	"log_level":     "log-level",
	"env_file":      "env-file",
	"key_name":      "key-name",
	"key_pattern":   "key-pattern",
	"model":         "model",
	"system_prompt": "system-prompt",
	"user_prompt":   "user-prompt",
	"max_tokens":    "max-tokens",
	"base_url":      "base-url",
	"timeout":       "timeout",
	"format":        "format",
	"strict":        "strict",
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (when flags is non-nil)
// 2. KEYPROBE_* environment variables
// 3. .env files
// 4. Config file (--config, or .keyprobe.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.NewConfigError("flags", "failed to bind --"+name, err)
				}
			}
		}
	}

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".keyprobe")
		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose:  v.GetBool("verbose"),
		Quiet:    v.GetBool("quiet"),
		NoColor:  v.GetBool("no_color"),
		LogLevel: v.GetString("log_level"),

		ConfigFile: v.ConfigFileUsed(),

		EnvFile:    v.GetString("env_file"),
		KeyName:    v.GetString("key_name"),
		KeyPattern: v.GetString("key_pattern"),

		Model:        v.GetString("model"),
		SystemPrompt: v.GetString("system_prompt"),
		UserPrompt:   v.GetString("user_prompt"),
		MaxTokens:    v.GetInt64("max_tokens"),
		BaseURL:      v.GetString("base_url"),
		Timeout:      v.GetDuration("timeout"),

		Format: strings.ToLower(strings.TrimSpace(v.GetString("format"))),
		Strict: v.GetBool("strict"),

		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.LogLevel == "" {
		config.LogLevel = os.Getenv("LOG_LEVEL")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that would otherwise fail only after the probe started.
func (c *Config) Validate() error {
	if _, err := output.ParseFormat(c.Format); err != nil {
		return errors.NewConfigError("format", err.Error(), errors.ErrInvalidInput)
	}
	if c.MaxTokens <= 0 {
		return errors.NewConfigError("max_tokens", "must be positive", errors.ErrInvalidInput)
	}
	if c.Timeout < 0 {
		return errors.NewConfigError("timeout", "must not be negative", errors.ErrInvalidInput)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env_file", constants.DefaultEnvFile)
	v.SetDefault("key_name", constants.DefaultKeyName)
	v.SetDefault("model", constants.DefaultModel)
	v.SetDefault("system_prompt", constants.DefaultSystemPrompt)
	v.SetDefault("user_prompt", constants.DefaultUserPrompt)
	v.SetDefault("max_tokens", constants.DefaultMaxTokens)
	v.SetDefault("timeout", constants.DefaultProbeTimeout)
	v.SetDefault("format", string(output.FormatText))
}

// loadEnvFiles loads environment variables from .env files.
// These hold general settings; the credential file is read separately
// without touching the environment.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
