package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts != Default() {
		t.Errorf("got %+v, want defaults", opts)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), ConfigFileName, "max_steps: 5000\ncolor: never\n")
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.MaxSteps != 5000 {
		t.Errorf("max_steps: got %d", opts.MaxSteps)
	}
	if opts.Color != "never" {
		t.Errorf("color: got %q", opts.Color)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), ConfigFileName, "max_steps: 100\n")
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.MaxSteps != 100 {
		t.Errorf("max_steps: got %d", opts.MaxSteps)
	}
	if opts.Color != "auto" {
		t.Errorf("color: got %q, want the default", opts.Color)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative_steps", "max_steps: -1\n"},
		{"bad_color", "color: sometimes\n"},
		{"malformed_yaml", "max_steps: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), ConfigFileName, tt.content)
			if _, err := Load(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
