package config

import (
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/cukraszda/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultCycles         = 5
	DefaultInterval       = 400 * time.Millisecond
	DefaultDBPath         = "cukraszda.db"
	DefaultJSONPath       = "measurements.json"
	DefaultAlertThreshold = 230.0
	DefaultLogLevel       = string(LogLevelWarning)
	DefaultEnvPrefix      = "CUKRASZDA"
	configName            = "cukraszda"
)

type Config struct {
	Cycles         int           `mapstructure:"cycles"`
	Interval       time.Duration `mapstructure:"interval"`
	Seed           int64         `mapstructure:"seed"`
	DBPath         string        `mapstructure:"db_path"`
	JSONPath       string        `mapstructure:"json_path"`
	AlertThreshold float64       `mapstructure:"alert_threshold"`
	NoWait         bool          `mapstructure:"no_wait"`
	NoColor        bool          `mapstructure:"no_color"`
	Metrics        bool          `mapstructure:"metrics"`
	LogLevel       string        `mapstructure:"log_level"`
	PIDFile        string        `mapstructure:"pid_file"`

	// ConfigFile is the file the values were read from, empty if none.
	ConfigFile string `mapstructure:"-"`
}

// flag name for each config key
var flagKeys = map[string]string{
	"cycles":          "cycles",
	"interval":        "interval",
	"seed":            "seed",
	"db_path":         "db",
	"json_path":       "json",
	"alert_threshold": "alert-threshold",
	"no_wait":         "no-wait",
	"no_color":        "no-color",
	"metrics":         "metrics",
	"log_level":       "log-level",
	"pid_file":        "pid-file",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cycles", DefaultCycles)
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("seed", 0)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("json_path", DefaultJSONPath)
	v.SetDefault("alert_threshold", DefaultAlertThreshold)
	v.SetDefault("no_wait", false)
	v.SetDefault("no_color", false)
	v.SetDefault("metrics", true)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("pid_file", "")
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	fs.Int("cycles", DefaultCycles, "Number of measurement cycles")
	fs.Duration("interval", DefaultInterval, "Pause between cycles")
	fs.Int64("seed", 0, "Random seed, 0 seeds from the clock")
	fs.String("db", DefaultDBPath, "Document store file")
	fs.String("json", DefaultJSONPath, "JSON export file")
	fs.Float64("alert-threshold", DefaultAlertThreshold, "Temperature above which readings raise an alert")
	fs.Bool("no-wait", false, "Exit without waiting for Enter")
	fs.Bool("no-color", false, "Disable colored output")
	fs.Bool("metrics", true, "Collect run metrics and print them in the end-of-run report")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.String("pid-file", "", "Lock file preventing concurrent runs (default: <db>.pid)")
	fs.String("config", "", "Config file (TOML)")
	return fs
}

// Load resolves configuration from flags, environment, an optional TOML file
// and defaults, in that order of precedence.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	setDefaults(v)

	for key, name := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		o.configPath = path
	}
	if o.configPath == "" {
		o.configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if o.configPath != "" {
		v.SetConfigFile(o.configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Cycles < 1 {
		return errFactory.WithData(errors.ErrInvalidCycles, c.Cycles)
	}
	if c.Interval < 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.DBPath == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "db_path must not be empty")
	}
	if c.JSONPath == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "json_path must not be empty")
	}
	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}
