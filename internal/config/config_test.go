package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"challenge": "challenge.json",
		"verbose": true,
		"vision": {"kernel_size": 7, "angle_tolerance": 12.5}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Challenge != "challenge.json" {
		t.Errorf("expected challenge 'challenge.json', got %q", cfg.Challenge)
	}
	if !cfg.Verbose {
		t.Errorf("expected verbose to be true")
	}
	if cfg.Vision.KernelSize != 7 {
		t.Errorf("expected kernel_size 7, got %d", cfg.Vision.KernelSize)
	}
	if cfg.Vision.AngleTolerance != 12.5 {
		t.Errorf("expected angle_tolerance 12.5, got %g", cfg.Vision.AngleTolerance)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestValidate_MutuallyExclusiveInputs(t *testing.T) {
	cfg := Config{Challenge: "a.json", PageURL: "https://example.com"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for mutually exclusive inputs")
	}
}

func TestVisionNormalize_FillsDefaults(t *testing.T) {
	var v Vision
	if err := v.Normalize(); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if v != DefaultVision() {
		t.Errorf("expected zero Vision to normalize to defaults, got %+v", v)
	}
}

func TestVisionNormalize_PartialOverride(t *testing.T) {
	v := Vision{EmptinessThreshold: 0.05}
	if err := v.Normalize(); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if v.EmptinessThreshold != 0.05 {
		t.Errorf("expected override to survive, got %g", v.EmptinessThreshold)
	}
	if v.KernelSize != DefaultVision().KernelSize {
		t.Errorf("expected kernel size default, got %d", v.KernelSize)
	}
}

func TestVisionNormalize_Rejections(t *testing.T) {
	cases := []struct {
		name string
		v    Vision
	}{
		{"even adaptive block", Vision{AdaptiveBlockSize: 10}},
		{"epsilon out of range", Vision{EpsilonRatio: 1.5}},
		{"angle tolerance out of range", Vision{AngleTolerance: 95}},
		{"emptiness out of range", Vision{EmptinessThreshold: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.v.Normalize(); err == nil {
				t.Errorf("expected Normalize to reject %+v", tc.v)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Challenge: "mine.json"}
	defaults := Config{Challenge: "other.json", APIKey: "key", Vision: Vision{KernelSize: 3}}

	merged := cfg.MergeWithDefaults(defaults)
	if merged.Challenge != "mine.json" {
		t.Errorf("explicit value should win, got %q", merged.Challenge)
	}
	if merged.APIKey != "key" {
		t.Errorf("default API key should fill in, got %q", merged.APIKey)
	}
	if merged.Vision.KernelSize != 3 {
		t.Errorf("default vision block should fill in, got %+v", merged.Vision)
	}
}
