// Package combat computes hyperarmor values and the outcome of using an
// attack with a given equipment loadout.
package combat

import "github.com/samdwyer/hyperarmor/internal/attack"

// Innate poise bands. Weapons below MinHyperarmorPoise never gain
// hyperarmor; weapons above FullHyperarmorPoise gain it on every attack.
const (
	MinHyperarmorPoise  = 52
	FullHyperarmorPoise = 77
)

// Weapon classes and weapons with special hyperarmor rules.
const (
	ClassGreatKatana = "Great Katana"
	ClassHammer      = "Hammer"
	// WeaponRakshasa is the only Great Katana whose attacks gain hyperarmor.
	WeaponRakshasa = "Rakshasa's Great Katana"
)

// Hyperarmor returns the hyperarmor a weapon gains while performing an
// attack. multiplier is the attack's hyperarmor multiplier, normally
// a.HyperarmorMultiplier().
//
// Between the two poise bands only some attacks qualify: two handed attacks
// for most classes, two handed or heavy attacks for hammers, and nothing for
// great katanas other than Rakshasa's.
func Hyperarmor(innatePoise int, multiplier float64, class, weapon string, a attack.Attack) float64 {
	hyperarmor := float64(innatePoise) * multiplier

	switch {
	case innatePoise > FullHyperarmorPoise:
		return hyperarmor
	case innatePoise >= MinHyperarmorPoise:
		if qualifies(class, weapon, a) {
			return hyperarmor
		}
		return 0
	default:
		return 0
	}
}

func qualifies(class, weapon string, a attack.Attack) bool {
	switch class {
	case ClassGreatKatana:
		return weapon == WeaponRakshasa
	case ClassHammer:
		return a.IsTwoHanded() || a.IsHeavy()
	default:
		return a.IsTwoHanded()
	}
}
