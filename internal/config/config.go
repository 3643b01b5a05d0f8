// Package config reads the tool's settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/samdwyer/hyperarmor/internal/telemetry"
)

// Defaults.
const (
	DefaultDataFile = "poise_data.csv"
	// DefaultDataURL is the CSV export of the community poise damage sheet.
	DefaultDataURL  = "https://docs.google.com/spreadsheets/d/1j4bpTbsnp5Xsgw9TP2xv6d8R4qk0ErpE9r_5LGIDraU/export?format=csv&gid=419422255"
	DefaultLogLevel = "info"
	DefaultDataset  = "hyperarmor"

	honeycombEndpoint = "https://api.honeycomb.io"
)

// Environment variables.
const (
	EnvDataFile       = "HYPERARMOR_DATA_FILE"
	EnvDataURL        = "HYPERARMOR_DATA_URL"
	EnvLogLevel       = "HYPERARMOR_LOG_LEVEL"
	EnvLogDevelopment = "HYPERARMOR_LOG_DEV"
	EnvTelemetry      = "HYPERARMOR_TELEMETRY"
	EnvTraceSample    = "HYPERARMOR_TRACE_SAMPLE"
	EnvHoneycombKey   = "HONEYCOMB_HYPERARMOR_API_KEY"
	EnvHoneycombSet   = "HONEYCOMB_HYPERARMOR_DATASET"
	EnvOTLPEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// ErrInvalid is wrapped by every configuration error.
var ErrInvalid = errors.New("invalid configuration")

// TelemetryMode controls whether spans are exported.
type TelemetryMode string

const (
	// TelemetryAuto exports when a Honeycomb key or OTLP endpoint is set.
	TelemetryAuto TelemetryMode = "auto"
	TelemetryOn   TelemetryMode = "on"
	TelemetryOff  TelemetryMode = "off"
)

// Config holds the tool's settings.
type Config struct {
	// DataFile is the cached poise damage CSV.
	DataFile string
	// DataURL is fetched when DataFile does not exist.
	DataURL string

	LogLevel       string
	LogDevelopment bool

	TelemetryMode TelemetryMode
	Telemetry     telemetry.Config
}

// TelemetryEnabled reports whether tracing should be set up.
func (c Config) TelemetryEnabled() bool {
	switch c.TelemetryMode {
	case TelemetryOn:
		return true
	case TelemetryOff:
		return false
	default:
		return c.Telemetry.Endpoint != "" || len(c.Telemetry.Headers) > 0
	}
}

// LoadDotenv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are not an
// error; with no arguments ".env" is tried.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup reads the configuration through lookup, which has the
// signature of os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		DataFile:      get(EnvDataFile, DefaultDataFile),
		DataURL:       get(EnvDataURL, DefaultDataURL),
		LogLevel:      strings.ToLower(get(EnvLogLevel, DefaultLogLevel)),
		TelemetryMode: TelemetryMode(strings.ToLower(get(EnvTelemetry, string(TelemetryAuto)))),
	}

	var errs []error

	if v := get(EnvLogDevelopment, ""); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, EnvLogDevelopment, v))
		}
		cfg.LogDevelopment = dev
	}

	switch cfg.TelemetryMode {
	case TelemetryAuto, TelemetryOn, TelemetryOff:
	default:
		errs = append(errs, fmt.Errorf("%w: %s=%q, want auto, on or off", ErrInvalid, EnvTelemetry, cfg.TelemetryMode))
	}

	if v := get(EnvTraceSample, ""); v != "" {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil || ratio < 0 || ratio > 1 {
			errs = append(errs, fmt.Errorf("%w: %s=%q is not a ratio in [0, 1]", ErrInvalid, EnvTraceSample, v))
		}
		cfg.Telemetry.SampleRatio = ratio
	}

	// The .env file may hold an unexpanded header reference, so the
	// Honeycomb headers are built here from the key and dataset.
	if key := get(EnvHoneycombKey, ""); key != "" {
		cfg.Telemetry.Endpoint = honeycombEndpoint
		cfg.Telemetry.Headers = map[string]string{
			"x-honeycomb-team":    key,
			"x-honeycomb-dataset": get(EnvHoneycombSet, DefaultDataset),
		}
	}
	if endpoint := get(EnvOTLPEndpoint, ""); endpoint != "" {
		cfg.Telemetry.Endpoint = endpoint
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
