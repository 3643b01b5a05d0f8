// Package fetch downloads the poise damage sheet and caches it as CSV.
package fetch

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/hyperarmor/internal/gamedata"
	"github.com/samdwyer/hyperarmor/internal/telemetry"
)

// DefaultMaxTries bounds download attempts when HTTPFetcher.MaxTries is 0.
const DefaultMaxTries = 3

// ErrUnexpectedStatus is returned for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// HTTPFetcher downloads the sheet's CSV export. It implements
// gamedata.Fetcher.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
	// MaxTries bounds attempts for transient failures.
	MaxTries uint
	// Backoff paces retries; nil means exponential backoff.
	Backoff backoff.BackOff
	Logger  *zap.Logger
}

var _ gamedata.Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher returns a fetcher for url with a 30 second client timeout.
func NewHTTPFetcher(url string, logger *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
		Logger: logger,
	}
}

// Fetch downloads the sheet, drops rows without a weapon name and writes the
// result to path. The file is replaced atomically, so a failed download
// never leaves a partial cache behind.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) error {
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tracer := telemetry.Tracer("fetch")
	ctx, span := tracer.Start(ctx, "fetch.download")
	defer span.End()

	body, err := f.download(ctx, logger)
	if err != nil {
		span.RecordError(err)
		return err
	}

	var out bytes.Buffer
	kept, dropped, err := FilterRows(bytes.NewReader(body), &out)
	if err != nil {
		return fmt.Errorf("failed to filter poise data: %w", err)
	}
	if err := writeAtomic(path, out.Bytes()); err != nil {
		return err
	}

	span.SetAttributes(
		attribute.Int("fetch.bytes", len(body)),
		attribute.Int("fetch.rows_kept", kept),
		attribute.Int("fetch.rows_dropped", dropped),
	)
	logger.Info("downloaded poise data",
		zap.String("path", path),
		zap.Int("rows", kept),
		zap.Int("dropped", dropped),
	)
	return nil
}

func (f *HTTPFetcher) download(ctx context.Context, logger *zap.Logger) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	tries := f.MaxTries
	if tries == 0 {
		tries = DefaultMaxTries
	}
	b := f.Backoff
	if b == nil {
		b = backoff.NewExponentialBackOff()
	}

	attempt := 0
	op := func() ([]byte, error) {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}

		resp, err := client.Do(req)
		if err != nil {
			logger.Warn("poise data download failed", zap.Int("attempt", attempt), zap.Error(err))
			return nil, fmt.Errorf("failed to download poise data: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			err := fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				logger.Warn("poise data download failed", zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode))
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read poise data: %w", err)
		}
		return body, nil
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(tries),
	)
}

// FilterRows copies CSV from r to w, keeping the header and every row with a
// non-empty weapon name.
func FilterRows(r io.Reader, w io.Writer) (kept, dropped int, err error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1
	cw := csv.NewWriter(w)

	header := true
	for {
		record, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return kept, dropped, err
		}
		if !header && (len(record) <= gamedata.NameColumn || strings.TrimSpace(record[gamedata.NameColumn]) == "") {
			dropped++
			continue
		}
		if err := cw.Write(record); err != nil {
			return kept, dropped, err
		}
		if !header {
			kept++
		}
		header = false
	}
	if header {
		return 0, 0, errors.New("poise data is empty")
	}

	cw.Flush()
	return kept, dropped, cw.Error()
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".poise-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
