// Package config reads kessan settings with viper. Precedence is flags,
// then KESSAN_* environment variables, then the config file, then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys.
const (
	KeyFormat       = "format"
	KeyTab          = "tab"
	KeyLang         = "lang"
	KeyColor        = "color"
	KeyPretty       = "pretty"
	KeyWidth        = "width"
	KeyMaxColWidth  = "max_col_width"
	KeyQuote        = "quote"
	KeyQuoteTimeout = "quote_timeout"
	KeyFilter       = "filter"
	KeyLogLevel     = "log_level"
	KeyServeAddr    = "serve.addr"
	KeyServeDataDir = "serve.data_dir"
	KeyCacheTTL     = "cache.ttl"
	KeyCacheSize    = "cache.size"
)

var (
	formats   = []string{"table", "json", "markdown", "md", "html", "codes"}
	langs     = []string{"en", "ja"}
	logLevels = []string{"debug", "info", "warn", "error"}
)

type Config struct {
	Format       string
	Tab          string
	Lang         string
	Color        bool
	Pretty       bool
	Width        int
	MaxColWidth  int
	Quote        bool
	QuoteTimeout time.Duration
	Filter       string
	LogLevel     string
	Serve        Serve
	Cache        Cache
}

type Serve struct {
	Addr    string
	DataDir string
}

type Cache struct {
	TTL  time.Duration
	Size int
}

// InvalidValueError reports a setting outside its allowed values.
type InvalidValueError struct {
	Key     string
	Value   string
	Allowed []string
}

func (e *InvalidValueError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid %s: %q", e.Key, e.Value)
	}
	return fmt.Sprintf("invalid %s: %q (want %s)", e.Key, e.Value, strings.Join(e.Allowed, ", "))
}

// New returns a viper instance with defaults and environment binding. When
// file is empty, kessan.yaml is searched in the working directory and in
// $HOME/.config/kessan.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("KESSAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
		return v
	}
	v.SetConfigName("kessan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "kessan"))
	}
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyFormat, "table")
	v.SetDefault(KeyTab, "all")
	v.SetDefault(KeyLang, "en")
	v.SetDefault(KeyColor, true)
	v.SetDefault(KeyPretty, false)
	v.SetDefault(KeyWidth, 0)
	v.SetDefault(KeyMaxColWidth, 40)
	v.SetDefault(KeyQuote, false)
	v.SetDefault(KeyQuoteTimeout, 5*time.Second)
	v.SetDefault(KeyFilter, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyServeAddr, ":8080")
	v.SetDefault(KeyServeDataDir, ".")
	v.SetDefault(KeyCacheTTL, 5*time.Minute)
	v.SetDefault(KeyCacheSize, 128)
}

// Load reads the config file, if any, and returns the validated settings.
// A missing file in the search path is not an error; a missing explicit
// file is.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	c := Config{
		Format:       strings.ToLower(v.GetString(KeyFormat)),
		Tab:          strings.ToLower(v.GetString(KeyTab)),
		Lang:         strings.ToLower(v.GetString(KeyLang)),
		Color:        v.GetBool(KeyColor),
		Pretty:       v.GetBool(KeyPretty),
		Width:        v.GetInt(KeyWidth),
		MaxColWidth:  v.GetInt(KeyMaxColWidth),
		Quote:        v.GetBool(KeyQuote),
		QuoteTimeout: v.GetDuration(KeyQuoteTimeout),
		Filter:       v.GetString(KeyFilter),
		LogLevel:     strings.ToLower(v.GetString(KeyLogLevel)),
		Serve: Serve{
			Addr:    v.GetString(KeyServeAddr),
			DataDir: v.GetString(KeyServeDataDir),
		},
		Cache: Cache{
			TTL:  v.GetDuration(KeyCacheTTL),
			Size: v.GetInt(KeyCacheSize),
		},
	}
	return c, c.Validate()
}

// Validate checks enumerated and numeric settings. Tab lists are checked by
// the dashboard package.
func (c Config) Validate() error {
	for _, chk := range []struct {
		key, val string
		allowed  []string
	}{
		{KeyFormat, c.Format, formats},
		{KeyLang, c.Lang, langs},
		{KeyLogLevel, c.LogLevel, logLevels},
	} {
		if !slices.Contains(chk.allowed, chk.val) {
			return &InvalidValueError{Key: chk.key, Value: chk.val, Allowed: chk.allowed}
		}
	}
	if c.Width < 0 {
		return &InvalidValueError{Key: KeyWidth, Value: fmt.Sprint(c.Width)}
	}
	if c.Cache.Size <= 0 {
		return &InvalidValueError{Key: KeyCacheSize, Value: fmt.Sprint(c.Cache.Size)}
	}
	if c.QuoteTimeout <= 0 {
		return &InvalidValueError{Key: KeyQuoteTimeout, Value: c.QuoteTimeout.String()}
	}
	return nil
}
