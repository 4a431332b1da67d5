package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/railwayapp/sealenv/internal/detector"
	"github.com/railwayapp/sealenv/internal/encryptor"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "SEALENV"
	FileName  = ".sealenv"
)

// Config holds the tool's own settings
type Config struct {
	Encryptor EncryptorConfig `mapstructure:"encryptor"`
	Detector  DetectorConfig  `mapstructure:"detector"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Cache     bool            `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
}

type EncryptorConfig struct {
	Password   string `mapstructure:"password"`
	Algorithm  string `mapstructure:"algorithm"`
	Iterations int    `mapstructure:"iterations"`
}

type DetectorConfig struct {
	Prefix string `mapstructure:"prefix"`
	Suffix string `mapstructure:"suffix"`
}

type SourcesConfig struct {
	Files     []string `mapstructure:"files"`
	EnvPrefix string   `mapstructure:"env_prefix"`
	Set       []string `mapstructure:"set"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults returns the default settings keyed by viper path
func Defaults() map[string]any {
	return map[string]any{
		"encryptor.password":   "",
		"encryptor.algorithm":  encryptor.DefaultAlgorithm,
		"encryptor.iterations": encryptor.DefaultIterations,
		"detector.prefix":      detector.DefaultPrefix,
		"detector.suffix":      "",
		"sources.files":        []string{},
		"sources.env_prefix":   "",
		"sources.set":          []string{},
		"cache":                true,
		"log.level":            "info",
		"log.format":           "text",
	}
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"password":   "encryptor.password",
	"algorithm":  "encryptor.algorithm",
	"iterations": "encryptor.iterations",
	"prefix":     "detector.prefix",
	"suffix":     "detector.suffix",
	"file":       "sources.files",
	"env-prefix": "sources.env_prefix",
	"set":        "sources.set",
	"cache":      "cache",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// Load reads settings with precedence flags > SEALENV_* environment >
// config file > defaults. An empty cfgFile searches $HOME and the working
// directory for .sealenv.yaml; a missing file is not an error.
func Load(flags *pflag.FlagSet, cfgFile string) (*Config, string, error) {
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(FileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, "", err
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	used := v.ConfigFileUsed()
	if used != "" {
		if abs, err := filepath.Abs(used); err == nil {
			used = abs
		}
	}

	return &c, used, c.Validate()
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	if c.Detector.Prefix == "" {
		return errors.New("detector.prefix must not be empty")
	}
	if c.Encryptor.Iterations < 0 {
		return fmt.Errorf("encryptor.iterations must be positive, got %d", c.Encryptor.Iterations)
	}

	supported := false
	for _, name := range encryptor.Algorithms() {
		if strings.EqualFold(name, c.Encryptor.Algorithm) {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("encryptor.algorithm %q is not one of %v", c.Encryptor.Algorithm, encryptor.Algorithms())
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
