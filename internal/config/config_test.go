package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFrom_Missing(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "settings.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadFrom_Valid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `output = "json"
color = "never"
endpoint = "http://localhost:4000/graphql"
default_org = "acme"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if cfg.Color != "never" {
		t.Errorf("Color = %q, want never", cfg.Color)
	}
	if cfg.Endpoint != "http://localhost:4000/graphql" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.DefaultOrg != "acme" {
		t.Errorf("DefaultOrg = %q, want acme", cfg.DefaultOrg)
	}
}

func TestLoadFrom_PartialUsesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte(`default_org = "acme"`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output != "text" || cfg.Color != "auto" {
		t.Errorf("partial settings should fill defaults, got %+v", cfg)
	}
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantIn  string
	}{
		{"bad toml", `output = `, "parse"},
		{"bad output", `output = "xml"`, "invalid output"},
		{"bad color", `color = "sometimes"`, "invalid color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "settings.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("error %q should mention %q", err, tt.wantIn)
			}
		})
	}
}

func TestDefaultTemplateParses(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("default template should parse: %v", err)
	}
	if cfg.Output != "text" || cfg.Color != "auto" {
		t.Errorf("default template should match defaults, got %+v", cfg)
	}
}
