// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "textmark.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfigOrDefault_NonexistentFile(t *testing.T) {
	cfg := LoadConfigOrDefault("/nonexistent/path/config.yaml")
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults)")
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("expected default format, got %q", cfg.Defaults.Format)
	}
}

func TestLoadConfigOrDefault_InvalidYAML(t *testing.T) {
	cfg := LoadConfigOrDefault(writeConfig(t, ":::invalid yaml:::"))
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults on parse error)")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("expected default format=text, got %q", cfg.Defaults.Format)
	}
	if !cfg.Defaults.UseBuiltinCatalogs {
		t.Error("expected use_builtin_catalogs=true by default")
	}
	if cfg.Watch.Delay != 200*time.Millisecond {
		t.Errorf("unexpected watch delay %v", cfg.Watch.Delay)
	}
	if _, ok := cfg.Profiles["strict"]; !ok {
		t.Error("expected 'strict' profile to exist in defaults")
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(catalogPath, []byte("catalogs:\n  - prefix: Extra\n    patterns: [sat]\n"), 0600); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(dir, "textmark.yaml")
	content := `
defaults:
  format: json
  case_sensitive: true
catalogs:
  - prefix: Hedging
    patterns: ["somewhat"]
catalog_files:
  - extra.yaml
watch:
  delay: 1s
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Defaults.Format != "json" || !cfg.Defaults.CaseSensitive {
		t.Errorf("defaults not applied: %+v", cfg.Defaults)
	}
	if !cfg.Defaults.UseBuiltinCatalogs {
		t.Error("omitted use_builtin_catalogs should keep its true default")
	}
	if cfg.CatalogFiles[0] != catalogPath {
		t.Errorf("catalog file not resolved against config dir: %q", cfg.CatalogFiles[0])
	}
	if cfg.Watch.Delay != time.Second {
		t.Errorf("unexpected watch delay %v", cfg.Watch.Delay)
	}

	catalogs, err := cfg.ResolveCatalogs()
	if err != nil {
		t.Fatalf("ResolveCatalogs failed: %v", err)
	}
	var prefixes []string
	for _, c := range catalogs {
		prefixes = append(prefixes, c.Prefix())
	}
	want := []string{"Offending", "BadStyle", "Hedging", "Extra"}
	if len(prefixes) != len(want) {
		t.Fatalf("got prefixes %v, want %v", prefixes, want)
	}
	for i := range want {
		if prefixes[i] != want[i] {
			t.Errorf("prefix %d = %q, want %q", i, prefixes[i], want[i])
		}
	}
}

func TestLoadConfig_DisableBuiltin(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "defaults:\n  use_builtin_catalogs: false\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	catalogs, err := cfg.ResolveCatalogs()
	if err != nil {
		t.Fatalf("ResolveCatalogs failed: %v", err)
	}
	if len(catalogs) != 0 {
		t.Errorf("expected no catalogs, got %d", len(catalogs))
	}
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"unknown format":     "defaults:\n  format: xml\n",
		"bad log level":      "logging:\n  level: loud\n",
		"duplicate prefix":   "catalogs:\n  - prefix: Offending\n    patterns: [x]\n  - prefix: Offending\n    patterns: [y]\n",
		"bad profile format": "profiles:\n  p:\n    format: html\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestResolveCatalogs_BuiltinCollision(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "catalogs:\n  - prefix: Offending\n    patterns: [x]\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if _, err := cfg.ResolveCatalogs(); err == nil {
		t.Error("expected duplicate prefix error against built-in catalog")
	}
}

func TestApplyProfile(t *testing.T) {
	content := `
profiles:
  review:
    description: Export for reviewers
    format: yaml
    no_builtin: true
    export: out/review.docx
    catalogs:
      - prefix: Review
        patterns: [todo]
`
	cfg, err := LoadConfig(writeConfig(t, content))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got := cfg.ListProfiles(); len(got) != 2 || got[0] != "review" || got[1] != "strict" {
		t.Errorf("unexpected profiles %v", got)
	}

	if err := cfg.ApplyProfile("review"); err != nil {
		t.Fatalf("ApplyProfile failed: %v", err)
	}
	if cfg.Defaults.Format != "yaml" || cfg.Defaults.UseBuiltinCatalogs {
		t.Errorf("profile not applied: %+v", cfg.Defaults)
	}
	if cfg.Export.Path != filepath.Clean("out/review.docx") {
		t.Errorf("unexpected export path %q", cfg.Export.Path)
	}
	catalogs, err := cfg.ResolveCatalogs()
	if err != nil {
		t.Fatalf("ResolveCatalogs failed: %v", err)
	}
	if len(catalogs) != 1 || catalogs[0].Prefix() != "Review" {
		t.Errorf("unexpected catalogs %+v", catalogs)
	}

	if err := cfg.ApplyProfile("missing"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestApplyProfile_StrictUsesBuiltinOnly(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(extra, []byte("catalogs:\n  - prefix: Extra\n    patterns: [sat]\n"), 0600); err != nil {
		t.Fatal(err)
	}
	content := `
defaults:
  use_builtin_catalogs: false
catalog_files: [extra.yaml]
catalogs:
  - prefix: Inline
    patterns: [cat]
`
	path := filepath.Join(dir, "textmark.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if err := cfg.ApplyProfile("strict"); err != nil {
		t.Fatalf("ApplyProfile failed: %v", err)
	}
	if !cfg.Defaults.CaseSensitive {
		t.Error("strict profile should enable case sensitive matching")
	}
	catalogs, err := cfg.ResolveCatalogs()
	if err != nil {
		t.Fatalf("ResolveCatalogs failed: %v", err)
	}
	if len(catalogs) != 2 || catalogs[0].Prefix() != "Offending" || catalogs[1].Prefix() != "BadStyle" {
		t.Errorf("expected built-in catalogs only, got %+v", catalogs)
	}
}

func TestHistoryPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEXTMARK_CONFIG_DIR", dir)

	cfg, _ := LoadConfig("")
	if got := cfg.HistoryPath(); got != filepath.Join(dir, "history.db") {
		t.Errorf("unexpected default history path %q", got)
	}
	cfg.History.Path = "/tmp/h.db"
	if got := cfg.HistoryPath(); got != "/tmp/h.db" {
		t.Errorf("unexpected history path %q", got)
	}
}
