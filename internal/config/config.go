// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package config loads wordtab's settings from defaults, an optional YAML
// file, WORDTAB_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bpowers/wordtab"
	"github.com/bpowers/wordtab/ingest"
)

const (
	envPrefix  = "WORDTAB"
	configName = "wordtab"

	DefaultCorpus          = "data/gutenberg_98-0.txt"
	DefaultChecksum        = "data/gutenberg_98-0_checksum.txt"
	DefaultInitialCapacity = 5000
	DefaultIncrement       = 2000
	DefaultFactor          = 2.0
)

// DefaultQueries are the words looked up after the table is built.
var DefaultQueries = []string{"london", "manette", "dover"}

// Config holds every setting the wordtab command reads.
type Config struct {
	Corpus          string   `mapstructure:"corpus"`
	Checksum        string   `mapstructure:"checksum"`
	Table           string   `mapstructure:"table"`
	InitialCapacity int      `mapstructure:"initial-capacity"`
	Growth          Growth   `mapstructure:"growth"`
	StrictLoad      bool     `mapstructure:"strict-load"`
	Queries         []string `mapstructure:"queries"`
	LogLevel        string   `mapstructure:"log-level"`
}

// Growth selects the table's growth policy.
type Growth struct {
	// Policy is "additive" or "multiplicative".
	Policy    string  `mapstructure:"policy"`
	Increment int     `mapstructure:"increment"`
	Factor    float64 `mapstructure:"factor"`
}

// flag name -> config key, for flags whose name differs from their key
var flagKeys = map[string]string{
	"growth-policy":    "growth.policy",
	"growth-increment": "growth.increment",
	"growth-factor":    "growth.factor",
}

// RegisterFlags defines the flags Load understands on flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a YAML config file (default: ./wordtab.yaml if present)")
	flags.String("corpus", DefaultCorpus, "text file to count words in")
	flags.String("checksum", DefaultChecksum, "file recording the MD5 of the last corpus counted")
	flags.String("table", ingest.DefaultTablePath, "file the table is saved to and loaded from")
	flags.Int("initial-capacity", DefaultInitialCapacity, "initial number of table slots")
	flags.String("growth-policy", "additive", "table growth policy: additive or multiplicative")
	flags.Int("growth-increment", DefaultIncrement, "slots added per resize (additive policy)")
	flags.Float64("growth-factor", DefaultFactor, "capacity multiplier per resize (multiplicative policy)")
	flags.Bool("strict-load", false, "rebuild instead of using a partially readable table file")
	flags.StringSlice("queries", DefaultQueries, "words to look up once the table is ready")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("corpus", DefaultCorpus)
	v.SetDefault("checksum", DefaultChecksum)
	v.SetDefault("table", ingest.DefaultTablePath)
	v.SetDefault("initial-capacity", DefaultInitialCapacity)
	v.SetDefault("growth.policy", "additive")
	v.SetDefault("growth.increment", DefaultIncrement)
	v.SetDefault("growth.factor", DefaultFactor)
	v.SetDefault("strict-load", false)
	v.SetDefault("queries", DefaultQueries)
	v.SetDefault("log-level", "info")
}

// Load builds a Config.  flags may be nil; otherwise it must have been
// set up by RegisterFlags, and only flags set on the command line
// override other sources.  configPath names a YAML file that must exist;
// if empty, ./wordtab.yaml is read when present.
func Load(flags *pflag.FlagSet, configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	// growth.policy -> WORDTAB_GROWTH_POLICY, initial-capacity -> WORDTAB_INITIAL_CAPACITY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || bindErr != nil {
				return
			}
			key := f.Name
			if k, ok := flagKeys[f.Name]; ok {
				key = k
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("BindPFlag: %w", bindErr)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Corpus == "" {
		return errors.New("corpus path is required")
	}
	if c.Checksum == "" {
		return errors.New("checksum path is required")
	}
	if c.Table == "" {
		return errors.New("table path is required")
	}
	if c.InitialCapacity <= 0 || c.InitialCapacity > wordtab.MaxCapacity {
		return fmt.Errorf("initial-capacity %d out of range (1..%d)", c.InitialCapacity, wordtab.MaxCapacity)
	}
	if _, err := c.GrowthPolicy(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// GrowthPolicy returns the table growth policy described by c.Growth.
func (c *Config) GrowthPolicy() (wordtab.GrowthPolicy, error) {
	switch strings.ToLower(c.Growth.Policy) {
	case "additive":
		if c.Growth.Increment < 1 {
			return nil, fmt.Errorf("growth.increment must be at least 1, not %d", c.Growth.Increment)
		}
		return wordtab.Additive(c.Growth.Increment), nil
	case "multiplicative":
		if !(c.Growth.Factor > 1) || math.IsInf(c.Growth.Factor, 0) {
			return nil, fmt.Errorf("growth.factor must be a finite number above 1, not %g", c.Growth.Factor)
		}
		return wordtab.Multiplicative(c.Growth.Factor), nil
	default:
		return nil, fmt.Errorf("unknown growth.policy %q (want additive or multiplicative)", c.Growth.Policy)
	}
}

// Level parses c.LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log-level: %w", err)
	}
	return level, nil
}
