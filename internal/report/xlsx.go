package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/hyperarmor/internal/telemetry"
)

// Rows of a survey sheet. Metadata sits above the table header.
const (
	sheetHeaderRow = 7
	sheetFirstRow  = sheetHeaderRow + 1
)

var sheetHeaders = []string{"Class", "Weapon", "Hits", "Total", "Armor", "Hyperarmor"}

// Excel rejects these in sheet names.
var sheetNameReplacer = strings.NewReplacer(":", " ", "/", "-", "\\", "-", "?", "", "*", "", "[", "(", "]", ")")

func colName(n int) string {
	// 1-indexed: 1 -> A, 26 -> Z, 27 -> AA
	if n <= 0 {
		return ""
	}
	out := ""
	for n > 0 {
		n--
		out = string(rune('A'+(n%26))) + out
		n /= 26
	}
	return out
}

func cell(col, row int) string {
	return fmt.Sprintf("%s%d", colName(col), row)
}

// SheetName returns the worksheet name used for an attack ID.
func SheetName(attackID string) string {
	name := sheetNameReplacer.Replace(attackID)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// ExportXLSX writes one worksheet per survey to path. Surveys of the same
// attack get numbered sheet names.
func ExportXLSX(ctx context.Context, path string, surveys ...*Survey) error {
	if len(surveys) == 0 {
		return errors.New("no surveys to export")
	}

	tracer := telemetry.Tracer("report")
	_, span := tracer.Start(ctx, "report.export_xlsx")
	defer span.End()
	span.SetAttributes(
		attribute.String("export.path", path),
		attribute.Int("export.sheets", len(surveys)),
	)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	breakStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
	})
	if err != nil {
		return err
	}

	used := make(map[string]int)
	for i, s := range surveys {
		name := SheetName(s.Attack.ID())
		used[name]++
		if n := used[name]; n > 1 {
			name = SheetName(fmt.Sprintf("%s (%d)", s.Attack.ID(), n))
		}

		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		if err := writeSurveySheet(f, name, s, headerStyle, breakStyle); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", name, err)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeSurveySheet(f *excelize.File, sheet string, s *Survey, headerStyle, breakStyle int) error {
	meta := [][2]any{
		{"Attack", s.Attack.String()},
		{"Multiplier", s.Multiplier},
		{"Armor poise", s.Thresholds.ArmorPoise},
		{"Hyperarmor", s.Thresholds.Hyperarmor},
		{"Registry", s.RegistryID},
	}
	for i, kv := range meta {
		if err := f.SetCellValue(sheet, cell(1, i+1), kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell(2, i+1), kv[1]); err != nil {
			return err
		}
	}

	for i, h := range sheetHeaders {
		if err := f.SetCellValue(sheet, cell(i+1, sheetHeaderRow), h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, cell(1, sheetHeaderRow), cell(len(sheetHeaders), sheetHeaderRow), headerStyle); err != nil {
		return err
	}

	row := sheetFirstRow
	for _, c := range s.Classes {
		for _, e := range c.Entries {
			values := []any{c.Class, e.Weapon, hits(e), e.Total, mark(e.BreaksArmor), mark(e.BreaksHyperarmor)}
			for i, v := range values {
				if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
					return err
				}
			}
			for i, breaks := range []bool{e.BreaksArmor, e.BreaksHyperarmor} {
				if !breaks {
					continue
				}
				ref := cell(5+i, row)
				if err := f.SetCellStyle(sheet, ref, ref, breakStyle); err != nil {
					return err
				}
			}
			row++
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 32); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "F", 14)
}
