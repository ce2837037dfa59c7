package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names searched in the working directory.
const (
	ConfigFileName    = "dbdeck.yaml"
	ConfigFileNameAlt = "dbdeck.yml"
)

var configFileUsed string

// findConfigFile picks the config file: explicit path, else dbdeck.yaml,
// else dbdeck.yml. Empty when none exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration with precedence flags > env > file > defaults.
// cfgFile, when non-empty, names an explicit config file that must exist.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"listen":    DefaultListen,
		"page_size": DefaultPageSize,
		"verbose":   false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFileUsed, err)
		}
	} else if cfgFile != "" {
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}

	// 3. Environment (DBDECK_ prefix; DBDECK_TARGET_HOST -> target.host)
	if err := k.Load(env.Provider("DBDECK_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "DBDECK_"))
		if rest, ok := strings.CutPrefix(key, "target_"); ok {
			return "target." + rest
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// 4. Flags (highest precedence; only flags the user actually set)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// flagKey maps CLI flag names onto config keys. Connection flags live under
// the target block; everything else is top-level with kebab-case folded to
// snake_case.
func flagKey(name string) string {
	switch name {
	case "type", "path", "host", "port", "user", "password", "database", "schema":
		return "target." + name
	default:
		return strings.ReplaceAll(name, "-", "_")
	}
}

// FileUsed returns the path of the config file the last Load consumed, if
// any.
func FileUsed() string {
	return configFileUsed
}
