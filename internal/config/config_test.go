package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	if err != nil {
		t.Fatalf("FromLookup() error = %v", err)
	}
	if cfg.DataFile != DefaultDataFile {
		t.Errorf("DataFile = %q, want %q", cfg.DataFile, DefaultDataFile)
	}
	if cfg.DataURL != DefaultDataURL {
		t.Errorf("DataURL = %q, want %q", cfg.DataURL, DefaultDataURL)
	}
	if cfg.LogLevel != "info" || cfg.LogDevelopment {
		t.Errorf("log settings = %q/%v, want info/false", cfg.LogLevel, cfg.LogDevelopment)
	}
	if cfg.TelemetryEnabled() {
		t.Error("telemetry should be off without a key or endpoint")
	}
}

func TestFromLookupHoneycomb(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		EnvHoneycombKey: "secret",
		EnvDataFile:     " /tmp/poise.csv ",
		EnvLogLevel:     "DEBUG",
		EnvTraceSample:  "0.5",
	}))
	if err != nil {
		t.Fatalf("FromLookup() error = %v", err)
	}
	if !cfg.TelemetryEnabled() {
		t.Error("telemetry should be on with a Honeycomb key")
	}
	if cfg.Telemetry.Endpoint != "https://api.honeycomb.io" {
		t.Errorf("Endpoint = %q", cfg.Telemetry.Endpoint)
	}
	if got := cfg.Telemetry.Headers["x-honeycomb-team"]; got != "secret" {
		t.Errorf("team header = %q, want secret", got)
	}
	if got := cfg.Telemetry.Headers["x-honeycomb-dataset"]; got != DefaultDataset {
		t.Errorf("dataset header = %q, want %q", got, DefaultDataset)
	}
	if cfg.Telemetry.SampleRatio != 0.5 {
		t.Errorf("SampleRatio = %v, want 0.5", cfg.Telemetry.SampleRatio)
	}
	if cfg.DataFile != "/tmp/poise.csv" || cfg.LogLevel != "debug" {
		t.Errorf("DataFile/LogLevel = %q/%q", cfg.DataFile, cfg.LogLevel)
	}

	cfg, err = FromLookup(lookupFrom(map[string]string{EnvHoneycombKey: "secret", EnvTelemetry: "off"}))
	if err != nil {
		t.Fatalf("FromLookup() error = %v", err)
	}
	if cfg.TelemetryEnabled() {
		t.Error("HYPERARMOR_TELEMETRY=off should disable telemetry")
	}
}

func TestFromLookupInvalid(t *testing.T) {
	tests := []map[string]string{
		{EnvTelemetry: "sometimes"},
		{EnvLogDevelopment: "maybe"},
		{EnvTraceSample: "2"},
		{EnvTraceSample: "half"},
	}
	for _, env := range tests {
		if _, err := FromLookup(lookupFrom(env)); !errors.Is(err, ErrInvalid) {
			t.Errorf("FromLookup(%v) error = %v, want ErrInvalid", env, err)
		}
	}
}

func TestLoadDotenv(t *testing.T) {
	const key = "HYPERARMOR_TEST_DOTENV_FILE"
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	if err := LoadDotenv(filepath.Join(t.TempDir(), "missing.env"), path); err != nil {
		t.Fatalf("LoadDotenv() error = %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q, want from-file", key, got)
	}
}
