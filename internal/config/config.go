// Package config loads runtime settings from an optional YAML file and
// WELLNESS_PROFILE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rcliao/wellness-profile/internal/learner"
	"github.com/rcliao/wellness-profile/internal/recommend"
)

const envPrefix = "WELLNESS_PROFILE"

type Config struct {
	DBPath     string           `mapstructure:"db_path"`
	LogMode    string           `mapstructure:"log_mode"`
	CacheSize  int              `mapstructure:"cache_size"`
	Server     ServerConfig     `mapstructure:"server"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Feed       FeedConfig       `mapstructure:"feed"`
	Learner    learner.Tuning   `mapstructure:"learner"`
	Mixer      recommend.Tuning `mapstructure:"mixer"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	Debug        bool          `mapstructure:"debug"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ClassifierConfig selects keyword tables and an optional embedding
// provider. An empty EmbedProvider keeps the keyword classifier.
type ClassifierConfig struct {
	TablesPath     string  `mapstructure:"tables_path"`
	EmbedProvider  string  `mapstructure:"embed_provider"`
	EmbedModel     string  `mapstructure:"embed_model"`
	EmbedURL       string  `mapstructure:"embed_url"`
	EmbedThreshold float64 `mapstructure:"embed_threshold"`
}

// FeedConfig points the feed at a video search endpoint. An empty
// SearchURL disables the feed.
type FeedConfig struct {
	Size          int           `mapstructure:"size"`
	SearchURL     string        `mapstructure:"search_url"`
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
	Concurrency   int           `mapstructure:"concurrency"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:    defaultDBPath(),
		LogMode:   "dev",
		CacheSize: 256,
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Classifier: ClassifierConfig{
			EmbedThreshold: 0.45,
		},
		Feed: FeedConfig{
			Size:          10,
			SearchTimeout: 10 * time.Second,
			Concurrency:   4,
		},
		Learner: learner.DefaultTuning(),
		Mixer:   recommend.DefaultTuning(),
	}
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wellness-profile", "profiles.db")
}

// Load reads path when non-empty, falling back to $WELLNESS_PROFILE_CONFIG.
// A missing file is not an error; values come from defaults and the
// environment. Nested keys map to variables with dots replaced by
// underscores, e.g. WELLNESS_PROFILE_LEARNER_MAX_TOPICS.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, "", Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The short form predates the config file.
	if err := v.BindEnv("db_path", envPrefix+"_DB", envPrefix+"_DB_PATH"); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every leaf of def under its mapstructure key so
// AutomaticEnv can see nested settings. Only keys the file and environment
// leave unset take these values, so an explicit zero is kept.
func setDefaults(v *viper.Viper, prefix string, def any) {
	rv := reflect.ValueOf(def)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Struct && fv.Type() != reflect.TypeOf(time.Time{}) {
			setDefaults(v, key, fv.Interface())
			continue
		}
		v.SetDefault(key, fv.Interface())
	}
}
