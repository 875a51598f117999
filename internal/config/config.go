// Package config handles configuration for hookchat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/hookchat/hookchat/internal/errors"
)

// DefaultWebhookURL is the endpoint used when none is configured
const DefaultWebhookURL = "https://nithinm1609.app.n8n.cloud/webhook-test/nithin"

// MarkdownConfig configures markdown rendering of bot replies
type MarkdownConfig struct {
	EnableEmoji      bool `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool `json:"preserve_newlines"` // Preserve original line breaks
	TableWrap        bool `json:"table_wrap"`        // Enable word wrap in table cells
}

// Config represents the user configuration
type Config struct {
	WebhookURL string `json:"webhook_url" env:"HOOKCHAT_WEBHOOK_URL" validate:"required,http_url"`
	// DarkMode selects the dark palette at startup. It can be toggled in the chat UI.
	DarkMode   bool   `json:"dark_mode" env:"HOOKCHAT_DARK_MODE"`
	TUITheme   string `json:"tui_theme,omitempty" env:"HOOKCHAT_THEME"`         // palette used in dark mode
	LightTheme string `json:"light_theme,omitempty" env:"HOOKCHAT_LIGHT_THEME"` // palette used in light mode
	// Verbose enables debug logging.
	Verbose         bool `json:"verbose" env:"HOOKCHAT_VERBOSE"`
	CopyToClipboard bool `json:"copy_to_clipboard" env:"HOOKCHAT_COPY_TO_CLIPBOARD"`
	// TimeoutSeconds bounds a webhook request. 0 waits indefinitely.
	TimeoutSeconds int               `json:"timeout_seconds" env:"HOOKCHAT_TIMEOUT_SECONDS" validate:"gte=0"`
	LogFile        string            `json:"log_file,omitempty" env:"HOOKCHAT_LOG_FILE"`
	Headers        map[string]string `json:"headers,omitempty"`
	Markdown       MarkdownConfig    `json:"markdown"`
}

// Timeout returns TimeoutSeconds as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		WebhookURL:      DefaultWebhookURL,
		DarkMode:        false,
		TUITheme:        "tokyonight",
		LightTheme:      "daylight",
		Verbose:         false,
		CopyToClipboard: false,
		TimeoutSeconds:  0,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".hookchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path, defaulting to hookchat.log in the config directory
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "hookchat.log"), nil
}

// LoadConfig loads the configuration: defaults, then the config file, then
// HOOKCHAT_* environment variables. The result is validated.
func LoadConfig() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}

	if err := ApplyEnv(&cfg, nil); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadFile reads the config file over the defaults, ignoring the environment
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with HOOKCHAT_* variables. A nil environ reads the process environment.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks cfg and returns a ConfigError naming the first invalid field
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apierrors.NewConfigError(fe.Field(), describe(fe))
	}
	return apierrors.NewConfigError("", err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "http_url":
		return "must be an http or https URL"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setters maps config keys to functions that parse and apply a value
var setters = map[string]func(*Config, string) error{
	"webhook_url": func(c *Config, v string) error { c.WebhookURL = v; return nil },
	"dark_mode":   boolSetter(func(c *Config) *bool { return &c.DarkMode }),
	"tui_theme":   func(c *Config, v string) error { c.TUITheme = v; return nil },
	"light_theme": func(c *Config, v string) error { c.LightTheme = v; return nil },
	"verbose":     boolSetter(func(c *Config) *bool { return &c.Verbose }),
	"copy_to_clipboard": boolSetter(func(c *Config) *bool {
		return &c.CopyToClipboard
	}),
	"timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", v)
		}
		c.TimeoutSeconds = n
		return nil
	},
	"log_file": func(c *Config, v string) error { c.LogFile = v; return nil },
	"markdown.enable_emoji": boolSetter(func(c *Config) *bool {
		return &c.Markdown.EnableEmoji
	}),
	"markdown.preserve_newlines": boolSetter(func(c *Config) *bool {
		return &c.Markdown.PreserveNewLines
	}),
	"markdown.table_wrap": boolSetter(func(c *Config) *bool {
		return &c.Markdown.TableWrap
	}),
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", v)
		}
		*field(c) = b
		return nil
	}
}

// Keys returns the settable config keys, sorted
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetValue parses value into the field named key and validates the result
func SetValue(cfg *Config, key, value string) error {
	set, ok := setters[key]
	if !ok {
		return apierrors.NewConfigError(key, "unknown key")
	}

	updated := *cfg
	if err := set(&updated, value); err != nil {
		return apierrors.NewConfigError(key, err.Error())
	}
	if err := Validate(updated); err != nil {
		return err
	}

	*cfg = updated
	return nil
}
