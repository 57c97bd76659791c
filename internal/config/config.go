// Package config loads corefront.toml, the project manifest that governs
// one driver.Run invocation, grounded on the teacher's surge.toml loader
// (cmd/surge/project_manifest.go, internal/project/root.go): walk up from
// a start directory looking for the manifest file, then decode its one
// table with github.com/BurntSushi/toml, filling every key the file leaves
// unset from Default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest's fixed name, matching the teacher's
// surge.toml convention.
const FileName = "corefront.toml"

// Pipeline mirrors driver.Options plus two solver-tuning keys,
// OverflowDepth and DefaultNumericKinds. Load only decodes them: nothing
// else in the module reads them. infer.Solver uses its own fixed
// overflowBound, and inference always defaults an unconstrained numeric
// literal to i32/f64.
type Pipeline struct {
	Jobs                int    `toml:"jobs"`
	MaxDiagnostics      int    `toml:"max-diagnostics"`
	OverflowDepth       int    `toml:"overflow-depth"`
	DefaultNumericKinds string `toml:"default-numeric-kinds"`
}

// Config is the top-level corefront.toml shape.
type Config struct {
	Pipeline Pipeline `toml:"pipeline"`
}

// Default returns the manifest's implied values when no corefront.toml is
// found, matching driver.Options' own jobs<=0/maxDiagnostics<=0 fallbacks.
func Default() Config {
	return Config{Pipeline: Pipeline{
		Jobs:                0,
		MaxDiagnostics:      100,
		OverflowDepth:       256,
		DefaultNumericKinds: "i32/f64",
	}}
}

// Find walks up from startDir looking for corefront.toml, exactly as the
// teacher's FindSurgeToml walks for surge.toml.
func Find(startDir string) (path string, ok bool, err error) {
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

// Load decodes the manifest at path, filling in Default's values for any
// field toml.MetaData reports as undefined rather than erroring: unlike
// the teacher's surge.toml (where [package].name and [run].main are load-
// bearing and their absence is a hard error), every [pipeline] field here
// has a safe fallback, so a corefront.toml may omit the whole table.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	def := Default()
	if !meta.IsDefined("pipeline", "jobs") {
		cfg.Pipeline.Jobs = def.Pipeline.Jobs
	}
	if !meta.IsDefined("pipeline", "max-diagnostics") {
		cfg.Pipeline.MaxDiagnostics = def.Pipeline.MaxDiagnostics
	}
	if !meta.IsDefined("pipeline", "overflow-depth") {
		cfg.Pipeline.OverflowDepth = def.Pipeline.OverflowDepth
	}
	if !meta.IsDefined("pipeline", "default-numeric-kinds") {
		cfg.Pipeline.DefaultNumericKinds = def.Pipeline.DefaultNumericKinds
	}
	return cfg, nil
}

// LoadFromDir finds and loads corefront.toml starting from startDir,
// returning Default() with ok=false when no manifest is present: a bare
// corefront.toml-free invocation (e.g. the CLI pointed at a loose fixture
// file) is not an error, matching the teacher's tokenize/format/etc.
// commands, which all tolerate a missing surge.toml and fall back to
// flag-only behavior.
func LoadFromDir(startDir string) (cfg Config, ok bool, err error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Default(), ok, err
	}
	cfg, err = Load(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}
