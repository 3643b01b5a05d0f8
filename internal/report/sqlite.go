package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/samdwyer/hyperarmor/internal/attack"
	"github.com/samdwyer/hyperarmor/internal/combat"
	"github.com/samdwyer/hyperarmor/internal/gamedata"
	"github.com/samdwyer/hyperarmor/internal/telemetry"
)

var snapshotDDL = []string{
	`CREATE TABLE snapshot (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		multiplier REAL NOT NULL
	)`,
	`CREATE TABLE weapons (
		name TEXT PRIMARY KEY,
		class TEXT NOT NULL,
		innate_poise INTEGER NOT NULL
	)`,
	`CREATE TABLE damage (
		weapon TEXT NOT NULL REFERENCES weapons(name) ON DELETE CASCADE,
		class TEXT NOT NULL,
		attack TEXT NOT NULL,
		label TEXT NOT NULL,
		hits TEXT NOT NULL,
		hit_count INTEGER NOT NULL,
		total INTEGER NOT NULL,
		multiplier REAL NOT NULL,
		hyperarmor REAL NOT NULL,
		PRIMARY KEY (weapon, attack)
	)`,
	`CREATE INDEX idx_weapons_class ON weapons(class)`,
	`CREATE INDEX idx_damage_attack ON damage(attack)`,
}

// ExportSQLite writes every weapon and the damage of every attack it has,
// scaled by multiplier, to a fresh SQLite database at path. An existing
// file is replaced.
func ExportSQLite(ctx context.Context, path string, reg *gamedata.Registry, multiplier float64, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	tracer := telemetry.Tracer("report")
	ctx, span := tracer.Start(ctx, "report.export_sqlite")
	defer span.End()

	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}
	for _, ddl := range snapshotDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("DDL error: %w\n%s", err, ddl)
		}
	}

	rows, err := insertSnapshot(ctx, db, reg, multiplier)
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(
		attribute.String("registry.id", reg.ID()),
		attribute.Int("export.weapons", reg.Count()),
		attribute.Int("export.rows", rows),
	)
	logger.Info("exported sqlite snapshot",
		zap.String("path", path),
		zap.String("registry", reg.ID()),
		zap.Int("weapons", reg.Count()),
		zap.Int("rows", rows),
	)
	return nil
}

func insertSnapshot(ctx context.Context, db *sql.DB, reg *gamedata.Registry, multiplier float64) (rows int, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO snapshot (id, created_at, multiplier) VALUES (?,?,?)",
		reg.ID(), time.Now().UTC().Format(time.RFC3339), multiplier,
	); err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	weaponStmt, err := tx.PrepareContext(ctx, "INSERT INTO weapons (name, class, innate_poise) VALUES (?,?,?)")
	if err != nil {
		return 0, fmt.Errorf("prepare weapons: %w", err)
	}
	defer weaponStmt.Close()

	damageStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO damage (weapon, class, attack, label, hits, hit_count, total, multiplier, hyperarmor) VALUES (?,?,?,?,?,?,?,?,?)")
	if err != nil {
		return 0, fmt.Errorf("prepare damage: %w", err)
	}
	defer damageStmt.Close()

	resolver := combat.NewResolver(reg)
	attacks := attack.All()
	for _, weapon := range reg.Weapons() {
		m, _ := reg.Lookup(weapon)
		if _, err := weaponStmt.ExecContext(ctx, weapon, m.Class, reg.InnatePoise(weapon)); err != nil {
			return rows, fmt.Errorf("insert weapon %s: %w", weapon, err)
		}

		for _, a := range attacks {
			hits, ok := reg.DamageWithMultiplier(weapon, a, multiplier)
			if !ok {
				continue
			}
			ha, _ := resolver.Hyperarmor(weapon, a)
			if _, err := damageStmt.ExecContext(ctx,
				weapon, m.Class, a.ID(), a.String(), hits.String(), len(hits), hits.Total(), multiplier, ha,
			); err != nil {
				return rows, fmt.Errorf("insert damage %s %s: %w", weapon, a.ID(), err)
			}
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return rows, fmt.Errorf("commit: %w", err)
	}
	return rows, nil
}
