// Package config loads the untisstats configuration from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/untisstats/untisstats/internal/model"
)

// EnvPrefix prefixes environment variables overriding config keys, e.g. UNTISSTATS_PASSWORD.
const EnvPrefix = "UNTISSTATS"

// DefaultFile is the config file looked up when no path is given.
const DefaultFile = "config.toml"

// ErrConfigNotFound is returned when the config file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Output formats.
const (
	FormatText = "text"
	FormatXLSX = "xlsx"
	FormatYAML = "yaml"
)

// ValidFormats returns the list of supported report formats.
func ValidFormats() []string {
	return []string{FormatText, FormatXLSX, FormatYAML}
}

// Config is the complete untisstats configuration.
type Config struct {
	Server              string `mapstructure:"server"`
	School              string `mapstructure:"school"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	UserAgent           string `mapstructure:"useragent"`
	Classes             any    `mapstructure:"classes"`
	OutputDir           string `mapstructure:"output_dir"`
	Format              string `mapstructure:"format"`
	CacheDir            string `mapstructure:"cache_dir"`
	Parallel            int    `mapstructure:"parallel"`
	InstructionActivity string `mapstructure:"instruction_activity"`
	Timezone            string `mapstructure:"timezone"`
}

// Default returns a Config holding the default values.
func Default() *Config {
	return &Config{
		UserAgent:           "untisstats",
		OutputDir:           ".",
		Format:              FormatXLSX,
		Parallel:            1,
		InstructionActivity: model.ActivityInstruction,
		Timezone:            "Local",
	}
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("useragent", defaults.UserAgent)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("cache_dir", defaults.CacheDir)
	v.SetDefault("parallel", defaults.Parallel)
	v.SetDefault("instruction_activity", defaults.InstructionActivity)
	v.SetDefault("timezone", defaults.Timezone)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Keys without a default are unknown to Unmarshal unless bound explicitly.
	for _, key := range []string{"server", "school", "username", "password", "classes"} {
		_ = v.BindEnv(key)
	}
}

// Load reads the config file at path, applying a .env file in the working
// directory and UNTISSTATS_* environment variables on top.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("could not stat config file '%s': %w", path, err)
	}

	// A missing .env file is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("could not parse config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("could not decode config file '%s': %w", path, err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return cfg, nil
}

// ClassNames returns the explicitly configured class names. An empty result
// means all classes matching timetable.ClassPattern are selected.
func (c *Config) ClassNames() ([]string, error) {
	switch classes := c.Classes.(type) {
	case nil:
		return nil, nil
	case string:
		return splitNames(classes), nil
	case []string:
		return trimNames(classes), nil
	case []any:
		names := make([]string, 0, len(classes))
		for _, class := range classes {
			name, ok := class.(string)
			if !ok {
				return nil, fmt.Errorf("class %v is not a string", class)
			}
			names = append(names, name)
		}
		return trimNames(names), nil
	default:
		return nil, fmt.Errorf("classes must be a string or a list of strings, got %T", c.Classes)
	}
}

func splitNames(s string) []string {
	return trimNames(strings.Split(s, ","))
}

func trimNames(names []string) []string {
	var out []string
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Offline reports whether no timetable server is configured.
func (c *Config) Offline() bool {
	return c.Server == ""
}

// IsValidFormat checks if the given report format is supported.
func IsValidFormat(format string) bool {
	return slices.Contains(ValidFormats(), format)
}
