// Package project reads the vlower.toml project configuration.
package project

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors vlower.toml.
type Config struct {
	Lower  LowerConfig  `toml:"lower"`
	Output OutputConfig `toml:"output"`
	Trace  TraceConfig  `toml:"trace"`
}

type LowerConfig struct {
	KeepGoing      bool     `toml:"keep_going"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
	Top            []string `toml:"top"`
}

type OutputConfig struct {
	// Format is "text" or "msgpack".
	Format string `toml:"format"`
	// Dir receives one artifact per pack; empty writes to stdout.
	Dir string `toml:"dir"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Lower:  LowerConfig{KeepGoing: true, MaxDiagnostics: 100},
		Output: OutputConfig{Format: "text"},
		Trace:  TraceConfig{Level: "off", Mode: "stream", Output: "-"},
	}
}

// ManifestName is the file name of the project configuration.
const ManifestName = "vlower.toml"

// Manifest is a loaded vlower.toml; Root is the directory holding it.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// LoadManifest loads the nearest vlower.toml in startDir or one of its
// ancestors. ok is false when none exists; the default configuration applies
// then.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	start, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return nil, false, fmt.Errorf("project: %w", err)
	}
	for dir := range ancestors(start) {
		path := filepath.Join(dir, ManifestName)
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return nil, false, fmt.Errorf("project: %w", err)
		case info.IsDir():
			continue
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			return nil, true, err
		}
		return &Manifest{Path: path, Root: dir, Config: cfg}, true, nil
	}
	return nil, false, nil
}

// ancestors yields dir and each parent up to the filesystem root.
func ancestors(dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			if !yield(dir) {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	}
}

// LoadConfig decodes path over the defaults and validates the result.
// Output.Dir is resolved relative to the manifest.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Output.Dir != "" && !filepath.IsAbs(cfg.Output.Dir) {
		cfg.Output.Dir = filepath.Join(filepath.Dir(path), filepath.FromSlash(cfg.Output.Dir))
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch c.Output.Format {
	case "text", "msgpack":
	default:
		return fmt.Errorf("[output].format must be \"text\" or \"msgpack\", got %q", c.Output.Format)
	}
	if c.Lower.MaxDiagnostics < 0 {
		return fmt.Errorf("[lower].max_diagnostics must not be negative")
	}
	if c.Lower.Jobs < 0 {
		return fmt.Errorf("[lower].jobs must not be negative")
	}
	return nil
}
