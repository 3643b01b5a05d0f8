package gamedata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/hyperarmor/internal/moveset"
	"github.com/samdwyer/hyperarmor/internal/telemetry"
)

// ErrShortRow is returned for a weapon row narrower than the schema.
var ErrShortRow = errors.New("row has fewer columns than the poise damage schema")

// CellWarning describes a damage cell that did not fully parse. The cell's
// bad segments were read as 0.
type CellWarning struct {
	Weapon string
	Column int
	Path   string
	Value  string
	Err    error
}

// ParseRow builds a moveset from one data row. Rows with an empty class or
// name are headers or spacers; they return a nil moveset and no error.
func ParseRow(record []string) (*moveset.Moveset, []CellWarning, error) {
	if len(record) <= NameColumn {
		return nil, nil, nil
	}
	class := strings.TrimSpace(record[ClassColumn])
	name := strings.TrimSpace(record[NameColumn])
	if class == "" || name == "" {
		return nil, nil, nil
	}
	if len(record) < ColumnCount {
		return nil, nil, fmt.Errorf("%w: %q has %d, want %d", ErrShortRow, name, len(record), ColumnCount)
	}

	m := moveset.New(name, class)
	var warnings []CellWarning
	for _, c := range Schema {
		seq, err := moveset.ParseSequence(record[c.Index])
		if err != nil {
			warnings = append(warnings, CellWarning{
				Weapon: name,
				Column: c.Index,
				Path:   c.Path,
				Value:  record[c.Index],
				Err:    err,
			})
		}
		*c.field(m) = seq
	}
	return m, warnings, nil
}

// LoadMovesetsFile loads movesets from a poise damage CSV file.
func LoadMovesetsFile(ctx context.Context, path string, opts ...Option) ([]*moveset.Moveset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open poise data %s: %w", path, err)
	}
	defer f.Close()

	movesets, err := LoadMovesets(ctx, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load poise data %s: %w", path, err)
	}
	return movesets, nil
}

// LoadMovesets reads the poise damage sheet as CSV: one header row followed
// by weapon rows. The result is ordered by weapon name. A weapon listed
// twice keeps its last row.
func LoadMovesets(ctx context.Context, r io.Reader, opts ...Option) ([]*moveset.Moveset, error) {
	o := newOptions(opts)

	_, span := telemetry.Tracer("gamedata").Start(ctx, "gamedata.load_movesets")
	defer span.End()

	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1
	rdr.ReuseRecord = true

	if _, err := rdr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("poise data is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	byName := make(map[string]*moveset.Moveset)
	rows, skipped, warned := 0, 0, 0
	for {
		record, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows++

		line, _ := rdr.FieldPos(0)
		m, warnings, err := ParseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if m == nil {
			skipped++
			continue
		}

		for _, w := range warnings {
			warned++
			o.logger.Warn("unparsable poise damage, defaulting to 0",
				zap.String("weapon", w.Weapon),
				zap.Int("line", line),
				zap.Int("column", w.Column),
				zap.String("field", w.Path),
				zap.String("value", w.Value),
				zap.Error(w.Err),
			)
		}

		if _, dup := byName[m.Name]; dup {
			o.logger.Warn("weapon listed twice, keeping the later row",
				zap.String("weapon", m.Name),
				zap.Int("line", line),
			)
		}
		byName[m.Name] = m
	}

	movesets := make([]*moveset.Moveset, 0, len(byName))
	for _, name := range sortedKeys(byName) {
		movesets = append(movesets, byName[name])
	}

	span.SetAttributes(
		attribute.Int("gamedata.rows", rows),
		attribute.Int("gamedata.rows_skipped", skipped),
		attribute.Int("gamedata.weapons", len(movesets)),
		attribute.Int("gamedata.cell_warnings", warned),
	)
	o.logger.Debug("loaded movesets",
		zap.Int("rows", rows),
		zap.Int("skipped", skipped),
		zap.Int("weapons", len(movesets)),
		zap.Int("warnings", warned),
	)

	return movesets, nil
}
