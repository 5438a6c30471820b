// Package config loads unstablegen.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"

	"github.com/ecordell/unstablegen/item"
)

// FileName is the configuration file searched for from the working
// directory upwards.
const FileName = "unstablegen.toml"

// Config is the generator configuration.
type Config struct {
	// SourceTag is the build tag that keeps annotated sources out of normal
	// builds.
	SourceTag string `toml:"source-tag" default:"unstablegen"`

	// Jobs bounds the number of files processed at once. Zero means
	// GOMAXPROCS.
	Jobs int `toml:"jobs"`

	// InternalAliases makes the enabled variant also declare the hidden
	// name, so package code can use one spelling in both builds.
	InternalAliases bool `toml:"internal-aliases" default:"true"`

	// Lints overrides the lint allowance sets.
	Lints Lints `toml:"lints"`

	// DryRun reports what would be written without touching the disk.
	DryRun bool `toml:"-"`

	// Path is the file the configuration was loaded from, if any.
	Path string `toml:"-"`
}

// Lints maps "default" and kind names to linter names.
type Lints struct {
	Default []string            `toml:"default" default:"[\"unused\"]"`
	ByKind  map[string][]string `toml:"-"`
}

// UnmarshalTOML collects the kind specific entries next to "default".
func (l *Lints) UnmarshalTOML(data any) error {
	table, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("lints: expected a table, got %T", data)
	}
	for key, value := range table {
		names, err := stringList(value)
		if err != nil {
			return fmt.Errorf("lints.%s: %w", key, err)
		}
		if key == "default" {
			l.Default = names
			continue
		}
		if _, ok := item.ParseKind(key); !ok {
			return fmt.Errorf("lints.%s: unknown item kind", key)
		}
		if l.ByKind == nil {
			l.ByKind = map[string][]string{}
		}
		l.ByKind[key] = names
	}
	return nil
}

func stringList(value any) ([]string, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of strings, got %T", value)
	}
	names := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("expected a list of non-empty strings")
		}
		names = append(names, s)
	}
	return names, nil
}

// Table converts the configured lints into an item.LintTable layered over
// the defaults.
func (l Lints) Table() item.LintTable {
	table := item.DefaultLintTable()
	if l.Default != nil {
		table.Default = toLints(l.Default)
	}
	for name, lints := range l.ByKind {
		kind, ok := item.ParseKind(name)
		if !ok {
			continue
		}
		table.ByKind[kind] = toLints(lints)
	}
	return table
}

func toLints(names []string) []item.Lint {
	lints := make([]item.Lint, 0, len(names))
	for _, n := range names {
		lints = append(lints, item.Lint(n))
	}
	return lints
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	defaults.MustSet(cfg)
	return cfg
}

// Load reads the configuration at path. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		// lints is decoded by Lints.UnmarshalTOML
		if len(key) > 0 && key[0] == "lints" {
			continue
		}
		return nil, fmt.Errorf("%s: unknown key %q", path, key.String())
	}
	if meta.IsDefined("source-tag") && strings.TrimSpace(cfg.SourceTag) == "" {
		return nil, fmt.Errorf("%s: source-tag must not be empty", path)
	}
	if cfg.Jobs < 0 {
		return nil, fmt.Errorf("%s: jobs must not be negative", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest configuration file above startDir, or the
// defaults when there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
