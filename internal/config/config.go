package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/KaramelBytes/cord19/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Pipeline paths
	SourcePath string `mapstructure:"source_path" yaml:"source_path" validate:"required"`
	CleanPath  string `mapstructure:"clean_path" yaml:"clean_path" validate:"required"`

	// Exploration and report sizes
	SampleRows  int `mapstructure:"sample_rows" yaml:"sample_rows" validate:"min=0"`
	TopJournals int `mapstructure:"top_journals" yaml:"top_journals" validate:"min=1"`
	TopWords    int `mapstructure:"top_words" yaml:"top_words" validate:"min=1"`
	MinWordLen  int `mapstructure:"min_word_len" yaml:"min_word_len" validate:"min=1"`

	// Dashboard
	DefaultYearLo  int     `mapstructure:"default_year_lo" yaml:"default_year_lo" validate:"ltefield=DefaultYearHi"`
	DefaultYearHi  int     `mapstructure:"default_year_hi" yaml:"default_year_hi"`
	ListenAddr     string  `mapstructure:"listen_addr" yaml:"listen_addr" validate:"required,hostname_port"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps" yaml:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst" validate:"min=1"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Global {
	return &Global{
		SourcePath:     "metadata.csv",
		CleanPath:      filepath.Join("data", "metadata_clean.csv"),
		SampleRows:     5,
		TopJournals:    10,
		TopWords:       15,
		MinWordLen:     4,
		DefaultYearLo:  2020,
		DefaultYearHi:  2021,
		ListenAddr:     "127.0.0.1:8501",
		RateLimitRPS:   20,
		RateLimitBurst: 40,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report yaml key names rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and reports every violation.
func (c *Global) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %s %s", fe.Field(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// DefaultPath returns ~/.cord19/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".cord19", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.cord19/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CORD19")
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("source_path", def.SourcePath)
	v.SetDefault("clean_path", def.CleanPath)
	v.SetDefault("sample_rows", def.SampleRows)
	v.SetDefault("top_journals", def.TopJournals)
	v.SetDefault("top_words", def.TopWords)
	v.SetDefault("min_word_len", def.MinWordLen)
	v.SetDefault("default_year_lo", def.DefaultYearLo)
	v.SetDefault("default_year_hi", def.DefaultYearHi)
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("rate_limit_rps", def.RateLimitRPS)
	v.SetDefault("rate_limit_burst", def.RateLimitBurst)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// a missing file is fine, a malformed one is not
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
