package combat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samdwyer/hyperarmor/internal/attack"
	"github.com/samdwyer/hyperarmor/internal/gamedata"
)

// Incoming poise damage multipliers.
const (
	// BullgoatReduction is the share of incoming poise damage the Bull-Goat's
	// Talisman removes.
	BullgoatReduction = 0.25
	// ColossalMultiplier applies while a colossal weapon's hyperarmor is active.
	ColossalMultiplier = 0.5625
	// HyperarmorMultiplier applies while any other weapon's hyperarmor is active.
	HyperarmorMultiplier = 0.8125
)

// ErrUnknownWeapon is returned for weapons the registry does not hold.
var ErrUnknownWeapon = errors.New("unknown weapon")

// Loadout is the poise-relevant equipment of the attacking player.
type Loadout struct {
	// ArmorPoise is the poise granted by armor and other sources.
	ArmorPoise int
	// Bullgoat is set when the Bull-Goat's Talisman is equipped.
	Bullgoat bool
}

// Outcome is what an attack is worth to a player with a given loadout.
type Outcome struct {
	Weapon string
	Class  string
	Attack attack.Attack

	InnatePoise int
	// WeaponHyperarmor is the weapon's own contribution.
	WeaponHyperarmor float64
	// Hyperarmor is armor plus weapon hyperarmor while it is active, else 0.
	Hyperarmor float64
	// IncomingMultiplier scales the poise damage received during the attack.
	IncomingMultiplier float64
}

// Active reports whether the attack gains any hyperarmor.
func (o Outcome) Active() bool {
	return o.Hyperarmor > 0
}

// Resolver answers hyperarmor questions against a poise data registry.
type Resolver struct {
	registry *gamedata.Registry
}

// NewResolver creates a resolver backed by registry.
func NewResolver(registry *gamedata.Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Hyperarmor returns the weapon hyperarmor of an attack using the weapon's
// class and innate poise. It is false for unknown weapons.
func (r *Resolver) Hyperarmor(weapon string, a attack.Attack) (float64, bool) {
	m, ok := r.registry.Lookup(weapon)
	if !ok {
		return 0, false
	}
	return Hyperarmor(r.registry.InnatePoise(weapon), a.HyperarmorMultiplier(), m.Class, weapon, a), true
}

// Resolve computes the hyperarmor and incoming damage multiplier for a
// weapon attack under a loadout.
func (r *Resolver) Resolve(weapon string, a attack.Attack, l Loadout) (Outcome, error) {
	m, ok := r.registry.Lookup(weapon)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownWeapon, weapon)
	}

	poise := r.registry.InnatePoise(weapon)
	weaponHA := Hyperarmor(poise, a.HyperarmorMultiplier(), m.Class, weapon, a)

	out := Outcome{
		Weapon:           weapon,
		Class:            m.Class,
		Attack:           a,
		InnatePoise:      poise,
		WeaponHyperarmor: weaponHA,
	}
	out.Hyperarmor, out.IncomingMultiplier = Equip(weaponHA, m.Class, l)
	return out, nil
}

// Equip combines weapon hyperarmor with a loadout. Hyperarmor is active only
// when the weapon contributes at least one whole point; armor poise alone
// never grants it.
func Equip(weaponHyperarmor float64, class string, l Loadout) (hyperarmor, incoming float64) {
	if int(weaponHyperarmor) <= 0 {
		incoming = 1.0
		if l.Bullgoat {
			incoming *= 1 - BullgoatReduction
		}
		return 0, incoming
	}

	incoming = HyperarmorMultiplier
	if strings.Contains(class, "Colossal") {
		incoming = ColossalMultiplier
	}
	if l.Bullgoat {
		incoming *= 1 - BullgoatReduction
	}
	return float64(l.ArmorPoise) + weaponHyperarmor, incoming
}
