package gamedata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/hyperarmor/internal/attack"
	"github.com/samdwyer/hyperarmor/internal/moveset"
	"github.com/samdwyer/hyperarmor/internal/telemetry"
)

var (
	// ErrUnusedOverride matches an *UnusedOverrideError.
	ErrUnusedOverride = errors.New("innate poise override matches no weapon")
	// ErrInvalidMoveset is returned for movesets without a name or class.
	ErrInvalidMoveset = errors.New("moveset needs a name and a class")
	// ErrDuplicateWeapon is returned when two movesets share a name.
	ErrDuplicateWeapon = errors.New("duplicate weapon")
)

// UnusedOverrideError lists innate poise entries that no loaded weapon
// picked up. It usually means the table has drifted from the dataset.
type UnusedOverrideError struct {
	Weapons []string
	Classes []string
}

func (e *UnusedOverrideError) Error() string {
	var parts []string
	if len(e.Weapons) > 0 {
		parts = append(parts, fmt.Sprintf("weapons %q", e.Weapons))
	}
	if len(e.Classes) > 0 {
		parts = append(parts, fmt.Sprintf("classes %q", e.Classes))
	}
	return ErrUnusedOverride.Error() + ": " + strings.Join(parts, ", ")
}

// Is reports whether target is ErrUnusedOverride.
func (e *UnusedOverrideError) Is(target error) bool {
	return target == ErrUnusedOverride
}

// Registry holds every loaded moveset and the indices derived from them.
// It is read-only once built and safe for concurrent readers.
type Registry struct {
	id          uuid.UUID
	movesets    map[string]*moveset.Moveset
	weapons     []string
	classes     map[string][]string
	classNames  []string
	innatePoise map[string]int
}

// NewRegistry indexes the movesets and derives innate poise from the
// overrides. Every override entry must be picked up by at least one weapon;
// otherwise an *UnusedOverrideError is returned.
func NewRegistry(ctx context.Context, movesets []*moveset.Moveset, overrides PoiseOverrides, opts ...Option) (*Registry, error) {
	o := newOptions(opts)

	_, span := telemetry.Tracer("gamedata").Start(ctx, "gamedata.build_registry")
	defer span.End()

	r := &Registry{
		id:          uuid.New(),
		movesets:    make(map[string]*moveset.Moveset, len(movesets)),
		weapons:     make([]string, 0, len(movesets)),
		classes:     make(map[string][]string),
		innatePoise: make(map[string]int, len(movesets)),
	}

	for _, m := range movesets {
		if m == nil || m.Name == "" || m.Class == "" {
			return nil, ErrInvalidMoveset
		}
		if _, dup := r.movesets[m.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWeapon, m.Name)
		}
		r.movesets[m.Name] = m
		r.weapons = append(r.weapons, m.Name)
		r.classes[m.Class] = append(r.classes[m.Class], m.Name)
	}

	sort.Strings(r.weapons)
	for class, names := range r.classes {
		sort.Strings(names)
		r.classNames = append(r.classNames, class)
	}
	sort.Strings(r.classNames)

	used := make(map[overrideKey]bool, overrides.Len())
	for _, name := range r.weapons {
		m := r.movesets[name]
		poise, key, ok := overrides.resolve(m.Name, m.Class)
		if ok {
			used[key] = true
		}
		r.innatePoise[name] = poise
	}

	if err := unusedOverrides(overrides, used); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("registry.id", r.id.String()),
		attribute.Int("registry.weapons", len(r.weapons)),
		attribute.Int("registry.classes", len(r.classNames)),
	)
	o.logger.Info("poise data ready",
		zap.String("registry", r.id.String()),
		zap.Int("weapons", len(r.weapons)),
		zap.Int("classes", len(r.classNames)),
	)

	return r, nil
}

func unusedOverrides(overrides PoiseOverrides, used map[overrideKey]bool) error {
	var unused UnusedOverrideError
	for _, name := range sortedKeys(overrides.Weapons) {
		if !used[overrideKey{weapon: true, name: name}] {
			unused.Weapons = append(unused.Weapons, name)
		}
	}
	for _, class := range sortedKeys(overrides.Classes) {
		if !used[overrideKey{name: class}] {
			unused.Classes = append(unused.Classes, class)
		}
	}
	if len(unused.Weapons) == 0 && len(unused.Classes) == 0 {
		return nil
	}
	return &unused
}

// ID identifies this registry snapshot in logs, traces and exports.
func (r *Registry) ID() string {
	return r.id.String()
}

// Lookup returns the moveset of a weapon. The moveset is shared and must not
// be modified; use ApplyMultiplier for a private copy.
func (r *Registry) Lookup(weapon string) (*moveset.Moveset, bool) {
	m, ok := r.movesets[weapon]
	return m, ok
}

// Damage returns the sequence a weapon deals with an attack. It is false for
// unknown weapons and for attacks the weapon has no entry for.
func (r *Registry) Damage(weapon string, a attack.Attack) (moveset.Sequence, bool) {
	m, ok := r.movesets[weapon]
	if !ok {
		return nil, false
	}
	seq, ok := m.Damage(a)
	if !ok {
		return nil, false
	}
	return seq.Clone(), true
}

// DamageWithMultiplier is Damage scaled by an incoming-damage multiplier.
func (r *Registry) DamageWithMultiplier(weapon string, a attack.Attack, mult float64) (moveset.Sequence, bool) {
	m, ok := r.movesets[weapon]
	if !ok {
		return nil, false
	}
	return m.DamageWithMultiplier(a, mult)
}

// ApplyMultiplier returns an independent copy of a weapon's moveset scaled by mult.
func (r *Registry) ApplyMultiplier(weapon string, mult float64) (*moveset.Moveset, bool) {
	m, ok := r.movesets[weapon]
	if !ok {
		return nil, false
	}
	return m.ApplyMultiplier(mult), true
}

// WeaponsByClass returns each class with its weapons in name order. The map
// and slices are copies.
func (r *Registry) WeaponsByClass() map[string][]string {
	out := make(map[string][]string, len(r.classes))
	for class, names := range r.classes {
		out[class] = append([]string(nil), names...)
	}
	return out
}

// ClassWeapons returns the weapons of one class in name order.
func (r *Registry) ClassWeapons(class string) []string {
	return append([]string(nil), r.classes[class]...)
}

// Classes returns every class name in order.
func (r *Registry) Classes() []string {
	return append([]string(nil), r.classNames...)
}

// Weapons returns every weapon name in order.
func (r *Registry) Weapons() []string {
	return append([]string(nil), r.weapons...)
}

// Count returns the number of weapons.
func (r *Registry) Count() int {
	return len(r.weapons)
}

// InnatePoise returns a weapon's innate poise; 0 for weapons no override
// covers and for unknown weapons.
func (r *Registry) InnatePoise(weapon string) int {
	return r.innatePoise[weapon]
}
