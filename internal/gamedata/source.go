package gamedata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/hyperarmor/internal/telemetry"
)

// ErrNoDataset is returned when the cache file is missing and nothing can fetch it.
var ErrNoDataset = errors.New("poise data file is missing and no fetcher is configured")

// Fetcher populates the poise data cache file at path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) error
}

// Source describes where a registry's data comes from.
type Source struct {
	// Path is the cached CSV export of the poise damage sheet.
	Path string
	// Fetcher downloads the sheet when Path does not exist. Optional.
	Fetcher Fetcher
	// Overrides replaces the embedded innate poise table when set.
	Overrides *PoiseOverrides
}

// LoadRegistry is the one-time initialization of the poise data store. It
// fetches the dataset if the cache file is absent, loads every moveset and
// builds the registry. Any failure is returned to the caller.
func LoadRegistry(ctx context.Context, src Source, opts ...Option) (*Registry, error) {
	o := newOptions(opts)

	tracer := telemetry.Tracer("gamedata")
	ctx, span := tracer.Start(ctx, "gamedata.load_registry")
	defer span.End()
	span.SetAttributes(attribute.String("gamedata.path", src.Path))

	if _, err := os.Stat(src.Path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat poise data %s: %w", src.Path, err)
		}
		if src.Fetcher == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoDataset, src.Path)
		}
		o.logger.Info("poise data not cached, downloading", zap.String("path", src.Path))
		span.SetAttributes(attribute.Bool("gamedata.fetched", true))
		if err := src.Fetcher.Fetch(ctx, src.Path); err != nil {
			return nil, fmt.Errorf("failed to fetch poise data: %w", err)
		}
	}

	var overrides PoiseOverrides
	if src.Overrides != nil {
		overrides = *src.Overrides
	} else {
		var err error
		overrides, err = LoadPoiseOverrides()
		if err != nil {
			return nil, err
		}
	}

	movesets, err := LoadMovesetsFile(ctx, src.Path, opts...)
	if err != nil {
		return nil, err
	}

	reg, err := NewRegistry(ctx, movesets, overrides, opts...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}
	return reg, nil
}
