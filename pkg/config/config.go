// Package config loads configuration for the sinkhole generator.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sinkholegen/pkg/filtering"
)

const (
	defaultConfigPath = "/etc/sinkholegen/sinkholegen.conf"
	configEnvVar      = "SINKHOLEGEN_CONFIG"
	envPrefix         = "SINKHOLEGEN"
)

// Config contains all options of a generator run.
type Config struct {
	Fetch      FetchConfig        `mapstructure:"fetch"`
	Output     OutputConfig       `mapstructure:"output"`
	Logging    LoggingConfig      `mapstructure:"logging"`
	Filtering  FilteringConfig    `mapstructure:"filtering"`
	Blocklists []filtering.Source `mapstructure:"-"`
	Whitelists []filtering.Source `mapstructure:"-"`
}

// FetchConfig holds list download settings.
type FetchConfig struct {
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"-"`
	Parallelism int           `mapstructure:"parallelism"`
	CacheDir    string        `mapstructure:"cache_dir"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	Dir          string `mapstructure:"dir"`
	PdnsdFile    string `mapstructure:"pdnsd_file"`
	DnscryptFile string `mapstructure:"dnscrypt_file"`
	MetricsFile  string `mapstructure:"metrics_file"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level               string `mapstructure:"level"`
	File                string `mapstructure:"file"`
	BlocklistErrorLimit int    `mapstructure:"blocklist_error_limit"`
}

// FilteringConfig holds list parsing settings.
type FilteringConfig struct {
	Strict bool `mapstructure:"strict"`
}

// flagKeys maps command line flags to the config keys they override.
var flagKeys = map[string]string{
	"log-level":   "logging.level",
	"output-dir":  "output.dir",
	"parallelism": "fetch.parallelism",
}

// ValidateLogLevel ensures the user-provided log level matches the supported set.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(level)] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", level)
	}
	return nil
}

// Path returns the config file location: the --config flag, then
// $SINKHOLEGEN_CONFIG, then the default path.
func Path(flags *pflag.FlagSet) string {
	if flags != nil {
		if flag := flags.Lookup("config"); flag != nil && flag.Value.String() != "" {
			return flag.Value.String()
		}
	}
	if fromEnv := strings.TrimSpace(os.Getenv(configEnvVar)); fromEnv != "" {
		return fromEnv
	}
	return defaultConfigPath
}

// Setup loads the TOML configuration file and produces a Config instance.
func Setup(flags *pflag.FlagSet) (*Config, error) {
	return Load(Path(flags), flags)
}

// Load reads the config file at path. Flags that were set on the command
// line take precedence over the file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var err error
	cfg.Fetch.Timeout, err = parseDuration(v.GetString("fetch.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid fetch.timeout: %w", err)
	}

	if cfg.Blocklists, err = parseSources(v, "blocklists"); err != nil {
		return nil, err
	}
	if cfg.Whitelists, err = parseSources(v, "whitelists"); err != nil {
		return nil, err
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.user_agent", filtering.DefaultUserAgent)
	v.SetDefault("fetch.timeout", filtering.DefaultTimeout.String())
	v.SetDefault("fetch.parallelism", 4)
	v.SetDefault("fetch.cache_dir", "")
	v.SetDefault("output.dir", "/tmp")
	v.SetDefault("output.pdnsd_file", "pdnsd.sinkhole")
	v.SetDefault("output.dnscrypt_file", "dnscrypt.cloaking.txt")
	v.SetDefault("output.metrics_file", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "stdout")
	v.SetDefault("logging.blocklist_error_limit", 20)
	v.SetDefault("filtering.strict", false)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func parseDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

func validateConfig(cfg *Config) error {
	if err := ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}
	if cfg.Logging.BlocklistErrorLimit < 0 {
		return errors.New("logging.blocklist_error_limit must be >= 0")
	}
	if cfg.Fetch.Timeout <= 0 {
		return errors.New("fetch.timeout must be positive")
	}
	if cfg.Fetch.Parallelism < 1 {
		return errors.New("fetch.parallelism must be >= 1")
	}
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		return errors.New("output.dir is required")
	}
	if cfg.Output.PdnsdFile == "" || cfg.Output.DnscryptFile == "" {
		return errors.New("output.pdnsd_file and output.dnscrypt_file are required")
	}
	if cfg.Output.PdnsdFile == cfg.Output.DnscryptFile {
		return errors.New("output.pdnsd_file and output.dnscrypt_file must differ")
	}
	return nil
}

// parseSources decodes an array of list tables such as [[blocklists]].
// Locations may reference environment variables, e.g. file:///home/${USER}/list.txt.
func parseSources(v *viper.Viper, key string) ([]filtering.Source, error) {
	raw := v.Get(key)
	if raw == nil {
		return []filtering.Source{}, nil
	}

	var lists []filtering.ListConfig
	if err := mapstructure.Decode(raw, &lists); err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	for i := range lists {
		lists[i].URL = os.ExpandEnv(lists[i].URL)
	}

	sources, err := filtering.BuildSources(filtering.Catalog, lists)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	return sources, nil
}
