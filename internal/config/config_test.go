package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Pipeline.MaxDiagnostics != 100 {
		t.Fatalf("MaxDiagnostics = %d, want 100", cfg.Pipeline.MaxDiagnostics)
	}
	if cfg.Pipeline.DefaultNumericKinds != "i32/f64" {
		t.Fatalf("DefaultNumericKinds = %q, want i32/f64", cfg.Pipeline.DefaultNumericKinds)
	}
}

func TestLoadMissingFieldsFallBackToDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("[pipeline]\njobs = 4\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.Jobs != 4 {
		t.Fatalf("Jobs = %d, want 4", cfg.Pipeline.Jobs)
	}
	if cfg.Pipeline.MaxDiagnostics != 100 {
		t.Fatalf("MaxDiagnostics should fall back to default, got %d", cfg.Pipeline.MaxDiagnostics)
	}
	if cfg.Pipeline.OverflowDepth != 256 {
		t.Fatalf("OverflowDepth should fall back to default, got %d", cfg.Pipeline.OverflowDepth)
	}
}

func TestLoadFromDirWithNoManifest(t *testing.T) {
	dir := t.TempDir()
	cfg, ok, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false with no manifest present")
	}
	if cfg != Default() {
		t.Fatalf("expected Default() config when manifest is absent")
	}
}

func TestFindWalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := filepath.Join(root, FileName)
	if err := os.WriteFile(manifest, []byte("[pipeline]\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	found, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !ok {
		t.Fatalf("expected to find manifest by walking up")
	}
	if found != manifest {
		t.Fatalf("found = %q, want %q", found, manifest)
	}
}
