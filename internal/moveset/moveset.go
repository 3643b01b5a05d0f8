// Package moveset models the poise damage of a weapon's full attack
// repertoire and projects it under an incoming-damage multiplier.
package moveset

import (
	"github.com/samdwyer/hyperarmor/internal/attack"
)

// Step counts the dataset defines per chain.
const (
	LightChainSteps = attack.MaxChainSteps
	HeavyChainSteps = 2
)

// Stance holds the light (R1/L1) or heavy (R2) attacks of one grip.
type Stance struct {
	Chain        Chain
	Charged      Chain
	Feint        Chain
	Running      Sequence
	Rolling      Sequence
	Backstep     Sequence
	Jumping      Sequence
	GuardCounter Sequence
}

// Grip holds the stances available in one wielding mode.
type Grip struct {
	Light Stance
	Heavy Stance
}

// Critical holds backstab or riposte damage per target size.
type Critical struct {
	Default Sequence
	Small   Sequence
	Large   Sequence
}

func (c Critical) bySize(size attack.CriticalSize) (Sequence, bool) {
	switch size {
	case attack.SizeDefault:
		return c.Default, true
	case attack.SizeSmall:
		return c.Small, true
	case attack.SizeLarge:
		return c.Large, true
	default:
		return nil, false
	}
}

// Moveset is the complete poise damage table of one weapon.
type Moveset struct {
	Name       string
	Class      string
	OneHanded  Grip
	TwoHanded  Grip
	Paired     Stance
	OffHand    Chain
	Backstab   Critical
	Riposte    Critical
	Shieldpoke Sequence
	// Multiplier is the incoming-damage multiplier the figures have been
	// scaled by; 1.0 for data as loaded.
	Multiplier float64
}

// New returns an empty moveset with every chain sized as the dataset
// defines it.
func New(name, class string) *Moveset {
	return &Moveset{
		Name:       name,
		Class:      class,
		OneHanded:  newGrip(),
		TwoHanded:  newGrip(),
		Paired:     Stance{Chain: NewChain(LightChainSteps)},
		OffHand:    NewChain(LightChainSteps),
		Multiplier: 1.0,
	}
}

func newGrip() Grip {
	return Grip{
		Light: Stance{Chain: NewChain(LightChainSteps)},
		Heavy: Stance{
			Chain:   NewChain(HeavyChainSteps),
			Charged: NewChain(HeavyChainSteps),
			Feint:   NewChain(HeavyChainSteps),
		},
	}
}

// Damage returns the sequence the weapon deals with the given attack. It is
// false for None and for chain steps the weapon's chain does not have; an
// empty sequence means the move exists but no damage is listed.
func (m *Moveset) Damage(a attack.Attack) (Sequence, bool) {
	one, two := &m.OneHanded, &m.TwoHanded

	switch a.Kind {
	case attack.OneHandedR1Chain:
		return one.Light.Chain.Step(a.Step)
	case attack.OneHandedR1Running:
		return one.Light.Running, true
	case attack.OneHandedR1Rolling:
		return one.Light.Rolling, true
	case attack.OneHandedR1Backstep:
		return one.Light.Backstep, true
	case attack.OneHandedR1Jumping:
		return one.Light.Jumping, true
	case attack.OneHandedR1GuardCounter:
		return one.Light.GuardCounter, true
	case attack.OneHandedR2Chain:
		return one.Heavy.Chain.Step(a.Step)
	case attack.OneHandedR2Charged:
		return one.Heavy.Charged.Step(a.Step)
	case attack.OneHandedR2Running:
		return one.Heavy.Running, true
	case attack.OneHandedR2Jumping:
		return one.Heavy.Jumping, true
	case attack.OneHandedR2Feint:
		return one.Heavy.Feint.Step(a.Step)

	case attack.TwoHandedR1Chain:
		return two.Light.Chain.Step(a.Step)
	case attack.TwoHandedR1Running:
		return two.Light.Running, true
	case attack.TwoHandedR1Rolling:
		return two.Light.Rolling, true
	case attack.TwoHandedR1Backstep:
		return two.Light.Backstep, true
	case attack.TwoHandedR1Jumping:
		return two.Light.Jumping, true
	case attack.TwoHandedR1GuardCounter:
		return two.Light.GuardCounter, true
	case attack.TwoHandedR2Chain:
		return two.Heavy.Chain.Step(a.Step)
	case attack.TwoHandedR2Charged:
		return two.Heavy.Charged.Step(a.Step)
	case attack.TwoHandedR2Running:
		return two.Heavy.Running, true
	case attack.TwoHandedR2Jumping:
		return two.Heavy.Jumping, true
	case attack.TwoHandedR2Feint:
		return two.Heavy.Feint.Step(a.Step)

	case attack.PairedL1Chain:
		return m.Paired.Chain.Step(a.Step)
	case attack.PairedL1Running:
		return m.Paired.Running, true
	case attack.PairedL1Rolling:
		return m.Paired.Rolling, true
	case attack.PairedL1Backstep:
		return m.Paired.Backstep, true
	case attack.PairedL1Jumping:
		return m.Paired.Jumping, true

	case attack.OffHandR1Chain:
		return m.OffHand.Step(a.Step)
	case attack.Backstab:
		return m.Backstab.bySize(a.Size)
	case attack.Riposte:
		return m.Riposte.bySize(a.Size)
	case attack.Shieldpoke:
		return m.Shieldpoke, true

	default:
		return nil, false
	}
}

// DamageWithMultiplier is Damage scaled by m. The moveset is not modified.
func (m *Moveset) DamageWithMultiplier(a attack.Attack, mult float64) (Sequence, bool) {
	seq, ok := m.Damage(a)
	if !ok {
		return nil, false
	}
	return seq.Scale(mult), true
}
