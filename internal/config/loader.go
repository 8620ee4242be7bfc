package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// Source names where a loaded config came from.
type Source string

const (
	SourceEmbedded  Source = "embedded"
	SourceHardcoded Source = "hardcoded"
)

// Dir is the per-user data directory name under $HOME.
const Dir = ".blockfall"

// LoadTetris loads the game rules.
// Search order: customPath -> ~/.blockfall/configs/tetris.yaml -> ./configs/tetris.yaml -> embedded default
//
// A custom path that cannot be read, parsed or validated is an error. The
// other locations are skipped when they are missing or broken.
func LoadTetris(customPath string) (TetrisConfig, Source, error) {
	if customPath != "" {
		cfg, err := readTetris(customPath)
		if err != nil {
			return cfg, "", err
		}
		return cfg, Source(customPath), nil
	}

	candidates := []string{filepath.Join("configs", "tetris.yaml")}
	if userCfgPath := UserPath("configs", "tetris.yaml"); userCfgPath != "" {
		candidates = append([]string{userCfgPath}, candidates...)
	}
	for _, path := range candidates {
		if cfg, err := readTetris(path); err == nil {
			return cfg, Source(path), nil
		}
	}

	if cfg, err := ParseTetris(defaultTetrisYAML); err == nil {
		return cfg, SourceEmbedded, nil
	}
	return DefaultTetrisConfig(), SourceHardcoded, nil
}

func readTetris(path string) (TetrisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TetrisConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseTetris(data)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseTetris decodes YAML on top of the defaults, so a file only needs the
// keys it changes, then validates the result.
func ParseTetris(data []byte) (TetrisConfig, error) {
	cfg := DefaultTetrisConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal renders the config as YAML.
func (c TetrisConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// DefaultYAML returns the embedded default config file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultTetrisYAML...)
}

// UserPath returns a path under ~/.blockfall, or empty if home is unavailable.
func UserPath(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home, Dir}, elem...)...)
}
