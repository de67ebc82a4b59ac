package dispatch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. Sections and keys are separated
// by a double underscore: SRAD_PROCESS_CONFIGS__CPU_PER_NODE=8 sets
// process_configs.cpu_per_node.
const EnvPrefix = "SRAD_"

// LoadConfig reads a config file, overlays environment variables and fills
// defaults.
//
// Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
// An empty path loads only the environment and defaults. The result is not
// validated; NewDispatcher does that.
//
// Parameters:
//   - path: Config file path (optional)
//
// Returns:
//   - *Config: Loaded configuration
//   - error: Read or parse error
//
// Example:
//
//	cfg, err := dispatch.LoadConfig("config/config.json")
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	// Only non-empty variables override the file.
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}

		return envKey(key), value
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	SetDefaults(&cfg)

	return &cfg, nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return json.Parser()
	}
}

// envKey maps SRAD_PROCESS_CONFIGS__CPU_PER_NODE to process_configs.cpu_per_node.
func envKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
}
