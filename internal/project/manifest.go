package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a decoded isle.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Project    ProjectConfig    `toml:"project"`
	InlayHints InlayHintsConfig `toml:"inlay_hints"`
	LSP        LSPConfig        `toml:"lsp"`
}

// ProjectConfig selects source files. Patterns are relative to the
// manifest directory; `**` matches any number of directories.
type ProjectConfig struct {
	Files   []string `toml:"files"`
	Exclude []string `toml:"exclude"`
}

type InlayHintsConfig struct {
	VarTypes *bool `toml:"var_types"`
}

type LSPConfig struct {
	Trace bool `toml:"trace"`
}

// VarTypes reports whether variable type hints are on; they are by default.
func (c *Config) VarTypes() bool {
	if c.InlayHints.VarTypes == nil {
		return true
	}
	return *c.InlayHints.VarTypes
}

// LoadManifest finds isle.toml above startDir and decodes it.
// ok is false when there is no manifest.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for _, pat := range append(append([]string(nil), cfg.Project.Files...), cfg.Project.Exclude...) {
		if strings.TrimSpace(pat) == "" {
			return Config{}, fmt.Errorf("%s: empty pattern in [project]", path)
		}
		if _, err := filepath.Match(pat, ""); err != nil {
			return Config{}, fmt.Errorf("%s: bad pattern %q: %w", path, pat, err)
		}
	}
	return cfg, nil
}
