package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseIgnoreTags(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"skip,private", []string{"skip", "private"}},
		{" skip , private ", []string{"skip", "private"}},
		{"skip,,private,", []string{"skip", "private"}},
		{"", nil},
		{" , ", nil},
	}

	for _, tt := range tests {
		got := ParseIgnoreTags(tt.input)
		if len(got) != len(tt.expected) {
			t.Errorf("ParseIgnoreTags(%q) = %v, expected %v", tt.input, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("ParseIgnoreTags(%q)[%d] = %q, expected %q", tt.input, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RECOGNIZER_BINARY", "")
	t.Setenv("UNKNOWN_TAG", "")
	t.Setenv("RECOGNIZER_CORES", "")
	t.Setenv("FACE_TAGGER_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Recognizer.Binary != "facerecognition" {
		t.Errorf("expected default binary, got %q", cfg.Recognizer.Binary)
	}
	if cfg.Recognizer.UnknownTag != DefaultUnknownTag {
		t.Errorf("expected default unknown tag, got %q", cfg.Recognizer.UnknownTag)
	}
	if cfg.Recognizer.Cores != 0 {
		t.Errorf("expected 0 cores (all), got %d", cfg.Recognizer.Cores)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FACE_TAGGER_CONFIG", "")
	t.Setenv("RECOGNIZER_BINARY", "myrecognizer")
	t.Setenv("KNOWN_FACES_PATH", "/faces")
	t.Setenv("RECOGNIZER_CORES", "8")
	t.Setenv("UNKNOWN_TAG", "stranger")
	t.Setenv("IGNORE_TAGS", "skip,private")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Recognizer.Binary != "myrecognizer" {
		t.Errorf("expected myrecognizer, got %q", cfg.Recognizer.Binary)
	}
	if cfg.Recognizer.KnownFacesPath != "/faces" {
		t.Errorf("expected /faces, got %q", cfg.Recognizer.KnownFacesPath)
	}
	if cfg.Recognizer.Cores != 8 {
		t.Errorf("expected 8 cores, got %d", cfg.Recognizer.Cores)
	}
	if cfg.Recognizer.UnknownTag != "stranger" {
		t.Errorf("expected stranger, got %q", cfg.Recognizer.UnknownTag)
	}
	if len(cfg.Recognizer.IgnoreTags) != 2 {
		t.Errorf("expected 2 ignore tags, got %v", cfg.Recognizer.IgnoreTags)
	}
}

func TestLoadCoresClamped(t *testing.T) {
	t.Setenv("FACE_TAGGER_CONFIG", "")
	t.Setenv("RECOGNIZER_CORES", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recognizer.Cores != MaxCores {
		t.Errorf("expected cores clamped to %d, got %d", MaxCores, cfg.Recognizer.Cores)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	content := `
recognizer:
  binary: yamlrec
  cores: 2
  ignoreTags: "secret"
export:
  maxSize: 1920
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	t.Setenv("RECOGNIZER_BINARY", "envrec")
	t.Setenv("KNOWN_FACES_PATH", "/faces")
	t.Setenv("FACE_TAGGER_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Recognizer.Binary != "yamlrec" {
		t.Errorf("expected YAML to override env, got %q", cfg.Recognizer.Binary)
	}
	if cfg.Recognizer.KnownFacesPath != "/faces" {
		t.Errorf("expected env value to survive when YAML is silent, got %q", cfg.Recognizer.KnownFacesPath)
	}
	if cfg.Recognizer.Cores != 2 {
		t.Errorf("expected 2 cores, got %d", cfg.Recognizer.Cores)
	}
	if cfg.Export.MaxSize != 1920 {
		t.Errorf("expected max size 1920, got %d", cfg.Export.MaxSize)
	}
	if len(cfg.Recognizer.IgnoreTags) != 1 || cfg.Recognizer.IgnoreTags[0] != "secret" {
		t.Errorf("expected ignore tags [secret], got %v", cfg.Recognizer.IgnoreTags)
	}
}

func TestLoadBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml"), 0600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}
	t.Setenv("FACE_TAGGER_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}
