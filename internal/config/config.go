package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// DefaultTimeout applies to spec fetching and request execution unless
// overridden.
const DefaultTimeout = 30 * time.Second

const envPrefix = "TESSA_"

type Config struct {
	Timeout  time.Duration     `koanf:"timeout"`
	Insecure bool              `koanf:"insecure"`
	Server   string            `koanf:"server"`
	Headers  map[string]string `koanf:"headers"`
	Verbose  bool              `koanf:"verbose"`
}

// BindCommonFlags binds the flags shared by every command
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: <user config dir>/tessa/config.yaml)")
	flags.Duration("timeout", DefaultTimeout, "HTTP timeout for fetching specs and executing requests")
	flags.BoolP("insecure", "k", false, "Skip TLS certificate verification")
	flags.String("server", "", "Server URL overriding the spec's servers")
	flags.StringArrayP("header", "H", nil, "Header sent with every request (Name: value), repeatable")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
}

// Load layers configuration: defaults, then the config file, then TESSA_*
// environment variables, then flags.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{"timeout": DefaultTimeout.String()}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		configFile = defaultConfigPath()
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// --header flags merge over config file headers, name by name
	for _, h := range headerFlags(cmd) {
		name, value, ok := SplitHeader(h)
		if !ok {
			return nil, fmt.Errorf("invalid header %q (want \"Name: value\")", h)
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		cfg.Headers[name] = value
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "tessa", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	getBool := func(name string) bool {
		if v, err := cmd.Flags().GetBool(name); err == nil {
			return v
		}
		if v, err := cmd.PersistentFlags().GetBool(name); err == nil {
			return v
		}
		return false
	}

	getDuration := func(name string) time.Duration {
		if v, err := cmd.Flags().GetDuration(name); err == nil {
			return v
		}
		if v, err := cmd.PersistentFlags().GetDuration(name); err == nil {
			return v
		}
		return 0
	}

	flagChanged := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	if flagChanged("timeout") {
		m["timeout"] = getDuration("timeout").String()
	}
	if flagChanged("insecure") {
		m["insecure"] = getBool("insecure")
	}
	if v := getString("server"); v != "" {
		m["server"] = v
	}
	if flagChanged("verbose") {
		m["verbose"] = getBool("verbose")
	}

	return m
}

func headerFlags(cmd *cobra.Command) []string {
	if v, err := cmd.Flags().GetStringArray("header"); err == nil && len(v) > 0 {
		return v
	}
	if v, err := cmd.PersistentFlags().GetStringArray("header"); err == nil && len(v) > 0 {
		return v
	}
	return nil
}

// SplitHeader parses "Name: value" into its parts. The value may contain
// further colons.
func SplitHeader(s string) (string, string, bool) {
	name, value, found := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}

func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	for name := range c.Headers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("header with empty name")
		}
	}
	return nil
}
