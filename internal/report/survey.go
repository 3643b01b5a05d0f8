// Package report compares the poise damage of one attack across every
// weapon and writes the results as text, spreadsheets or SQLite snapshots.
package report

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/hyperarmor/internal/attack"
	"github.com/samdwyer/hyperarmor/internal/gamedata"
	"github.com/samdwyer/hyperarmor/internal/moveset"
	"github.com/samdwyer/hyperarmor/internal/telemetry"
)

// Thresholds are the poise lines an attack's damage is compared against.
type Thresholds struct {
	ArmorPoise int
	Hyperarmor float64
}

// Entry is one weapon's damage for the surveyed attack.
type Entry struct {
	Weapon string
	Hits   moveset.Sequence
	Total  int
	// BreaksArmor is set when a damaging attack reaches ArmorPoise.
	BreaksArmor bool
	// BreaksHyperarmor is set when Total reaches Hyperarmor.
	BreaksHyperarmor bool
}

// ClassSurvey holds the entries of one weapon class in weapon name order.
type ClassSurvey struct {
	Class   string
	Entries []Entry
}

// Survey is the damage one attack deals with every weapon, grouped by class.
type Survey struct {
	RegistryID string
	Attack     attack.Attack
	Multiplier float64
	Thresholds Thresholds
	Classes    []ClassSurvey
	// Missing lists weapons with no data for the attack.
	Missing []string
}

// Len returns the number of surveyed weapons.
func (s *Survey) Len() int {
	n := 0
	for _, c := range s.Classes {
		n += len(c.Entries)
	}
	return n
}

// NewSurvey sums the hits of attack a for every weapon in reg after applying
// the incoming-damage multiplier. Classes and weapons are in name order.
// Weapons that lack the attack are skipped and logged.
func NewSurvey(ctx context.Context, reg *gamedata.Registry, a attack.Attack, multiplier float64, th Thresholds, logger *zap.Logger) *Survey {
	if logger == nil {
		logger = zap.NewNop()
	}

	tracer := telemetry.Tracer("report")
	_, span := tracer.Start(ctx, "report.survey")
	defer span.End()

	s := &Survey{
		RegistryID: reg.ID(),
		Attack:     a,
		Multiplier: multiplier,
		Thresholds: th,
	}

	for _, class := range reg.Classes() {
		cs := ClassSurvey{Class: class}
		for _, weapon := range reg.ClassWeapons(class) {
			hits, ok := reg.DamageWithMultiplier(weapon, a, multiplier)
			if !ok {
				logger.Warn("weapon has no poise damage for attack",
					zap.String("weapon", weapon),
					zap.String("attack", a.String()),
				)
				s.Missing = append(s.Missing, weapon)
				continue
			}
			total := hits.Total()
			cs.Entries = append(cs.Entries, Entry{
				Weapon:           weapon,
				Hits:             hits,
				Total:            total,
				BreaksArmor:      total > 0 && total >= th.ArmorPoise,
				BreaksHyperarmor: total > 0 && float64(total) >= th.Hyperarmor,
			})
		}
		if len(cs.Entries) > 0 {
			s.Classes = append(s.Classes, cs)
		}
	}

	span.SetAttributes(
		attribute.String("survey.attack", a.ID()),
		attribute.Float64("survey.multiplier", multiplier),
		attribute.Int("survey.weapons", s.Len()),
		attribute.Int("survey.missing", len(s.Missing)),
	)
	return s
}
