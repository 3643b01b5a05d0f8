// Package attack defines the closed catalog of attack categories a moveset
// can be queried by, with their hyperarmor multipliers and classification.
package attack

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxChainSteps is the number of steps any chain can hold.
const MaxChainSteps = 6

// ErrUnknownAttack is returned when an attack identifier cannot be parsed.
var ErrUnknownAttack = errors.New("unknown attack")

// Grip is the wielding mode an attack is performed with.
type Grip int

const (
	GripNone Grip = iota
	GripOneHanded
	GripTwoHanded
	GripPaired
	GripOffHand
)

// Kind is one attack category. Chain kinds take a step, critical kinds
// (Backstab, Riposte) take a target size.
type Kind int

const (
	None Kind = iota
	OneHandedR1Chain
	OneHandedR1Running
	OneHandedR1Rolling
	OneHandedR1Backstep
	OneHandedR1Jumping
	OneHandedR1GuardCounter
	OneHandedR2Chain
	OneHandedR2Charged
	OneHandedR2Running
	OneHandedR2Jumping
	OneHandedR2Feint
	TwoHandedR1Chain
	TwoHandedR1Running
	TwoHandedR1Rolling
	TwoHandedR1Backstep
	TwoHandedR1Jumping
	TwoHandedR1GuardCounter
	TwoHandedR2Chain
	TwoHandedR2Charged
	TwoHandedR2Running
	TwoHandedR2Jumping
	TwoHandedR2Feint
	PairedL1Chain
	PairedL1Running
	PairedL1Rolling
	PairedL1Backstep
	PairedL1Jumping
	OffHandR1Chain
	Backstab
	Riposte
	Shieldpoke

	kindCount
)

type param int

const (
	paramNone param = iota
	paramStep
	paramSize
)

type kindInfo struct {
	id         string
	label      string
	grip       Grip
	heavy      bool
	param      param
	hyperarmor float64
}

// kinds is the catalog. Every Kind must have an entry here and a field in
// moveset.(*Moveset).Damage; catalog tests walk All() to check both.
var kinds = [kindCount]kindInfo{
	None: {id: "none", label: "None", hyperarmor: 0.0},

	OneHandedR1Chain:        {id: "1h-r1-chain", label: "One Handed R1 Chain", grip: GripOneHanded, param: paramStep, hyperarmor: 1.0},
	OneHandedR1Running:      {id: "1h-r1-running", label: "One Handed R1 Running", grip: GripOneHanded, hyperarmor: 0.75},
	OneHandedR1Rolling:      {id: "1h-r1-rolling", label: "One Handed R1 Rolling", grip: GripOneHanded, hyperarmor: 0.75},
	OneHandedR1Backstep:     {id: "1h-r1-backstep", label: "One Handed R1 Backstep", grip: GripOneHanded, hyperarmor: 0.75},
	OneHandedR1Jumping:      {id: "1h-r1-jumping", label: "One Handed R1 Jumping", grip: GripOneHanded, hyperarmor: 0.75},
	OneHandedR1GuardCounter: {id: "1h-r1-guard-counter", label: "One Handed R1 Guard Counter", grip: GripOneHanded, hyperarmor: 0.5},
	OneHandedR2Chain:        {id: "1h-r2-chain", label: "One Handed R2 Chain", grip: GripOneHanded, heavy: true, param: paramStep, hyperarmor: 1.0},
	OneHandedR2Charged:      {id: "1h-r2-charged", label: "One Handed R2 Charged", grip: GripOneHanded, heavy: true, param: paramStep, hyperarmor: 2.0},
	OneHandedR2Running:      {id: "1h-r2-running", label: "One Handed R2 Running", grip: GripOneHanded, heavy: true, hyperarmor: 1.0},
	OneHandedR2Jumping:      {id: "1h-r2-jumping", label: "One Handed R2 Jumping", grip: GripOneHanded, heavy: true, hyperarmor: 1.0},
	OneHandedR2Feint:        {id: "1h-r2-feint", label: "One Handed R2 Feint", grip: GripOneHanded, heavy: true, param: paramStep, hyperarmor: 1.0},

	TwoHandedR1Chain:        {id: "2h-r1-chain", label: "Two Handed R1 Chain", grip: GripTwoHanded, param: paramStep, hyperarmor: 1.0},
	TwoHandedR1Running:      {id: "2h-r1-running", label: "Two Handed R1 Running", grip: GripTwoHanded, hyperarmor: 0.75},
	TwoHandedR1Rolling:      {id: "2h-r1-rolling", label: "Two Handed R1 Rolling", grip: GripTwoHanded, hyperarmor: 0.75},
	TwoHandedR1Backstep:     {id: "2h-r1-backstep", label: "Two Handed R1 Backstep", grip: GripTwoHanded, hyperarmor: 0.75},
	TwoHandedR1Jumping:      {id: "2h-r1-jumping", label: "Two Handed R1 Jumping", grip: GripTwoHanded, hyperarmor: 0.75},
	TwoHandedR1GuardCounter: {id: "2h-r1-guard-counter", label: "Two Handed R1 Guard Counter", grip: GripTwoHanded, hyperarmor: 0.5},
	TwoHandedR2Chain:        {id: "2h-r2-chain", label: "Two Handed R2 Chain", grip: GripTwoHanded, heavy: true, param: paramStep, hyperarmor: 1.0},
	TwoHandedR2Charged:      {id: "2h-r2-charged", label: "Two Handed R2 Charged", grip: GripTwoHanded, heavy: true, param: paramStep, hyperarmor: 2.0},
	TwoHandedR2Running:      {id: "2h-r2-running", label: "Two Handed R2 Running", grip: GripTwoHanded, heavy: true, hyperarmor: 1.0},
	TwoHandedR2Jumping:      {id: "2h-r2-jumping", label: "Two Handed R2 Jumping", grip: GripTwoHanded, heavy: true, hyperarmor: 1.0},
	TwoHandedR2Feint:        {id: "2h-r2-feint", label: "Two Handed R2 Feint", grip: GripTwoHanded, heavy: true, param: paramStep, hyperarmor: 1.0},

	// Multipliers below 1.0 are unconfirmed for paired attacks.
	PairedL1Chain:    {id: "paired-l1-chain", label: "Paired L1 Chain", grip: GripPaired, param: paramStep, hyperarmor: 1.0},
	PairedL1Running:  {id: "paired-l1-running", label: "Paired L1 Running", grip: GripPaired, hyperarmor: 1.0},
	PairedL1Rolling:  {id: "paired-l1-rolling", label: "Paired L1 Rolling", grip: GripPaired, hyperarmor: 1.0},
	PairedL1Backstep: {id: "paired-l1-backstep", label: "Paired L1 Backstep", grip: GripPaired, hyperarmor: 1.0},
	PairedL1Jumping:  {id: "paired-l1-jumping", label: "Paired L1 Jumping", grip: GripPaired, hyperarmor: 1.0},

	OffHandR1Chain: {id: "offhand-r1-chain", label: "Off Hand R1 Chain", grip: GripOffHand, param: paramStep, hyperarmor: 1.0},
	Backstab:       {id: "backstab", label: "Backstab", param: paramSize, hyperarmor: 1.0},
	Riposte:        {id: "riposte", label: "Riposte", param: paramSize, hyperarmor: 1.0},
	Shieldpoke:     {id: "shieldpoke", label: "Shieldpoke", hyperarmor: 1.0},
}

func (k Kind) info() kindInfo {
	if k < 0 || k >= kindCount {
		return kindInfo{}
	}
	return kinds[k]
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// ID returns the stable identifier used on the command line, e.g. "2h-r2-charged".
func (k Kind) ID() string {
	return k.info().id
}

// String returns the human-readable label. Presentation only.
func (k Kind) String() string {
	if !k.Valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return k.info().label
}

// Grip returns the wielding mode of the kind.
func (k Kind) Grip() Grip {
	return k.info().grip
}

// HyperarmorMultiplier returns the fixed multiplier applied to innate
// weapon poise while this kind of attack is performed.
func (k Kind) HyperarmorMultiplier() float64 {
	return k.info().hyperarmor
}

// IsTwoHanded reports whether the attack is performed two-handed.
func (k Kind) IsTwoHanded() bool {
	return k.Grip() == GripTwoHanded
}

// IsHeavy reports whether the attack is a heavy (R2) swing.
func (k Kind) IsHeavy() bool {
	return k.info().heavy
}

// HasStep reports whether the kind is indexed by a chain step.
func (k Kind) HasStep() bool {
	return k.info().param == paramStep
}

// HasSize reports whether the kind is parameterized by target size.
func (k Kind) HasSize() bool {
	return k.info().param == paramSize
}

// Attack returns the unparameterized attack of this kind.
func (k Kind) Attack() Attack {
	return Attack{Kind: k}
}

// At returns the attack of this kind at the given zero-based chain step.
func (k Kind) At(step int) Attack {
	return Attack{Kind: k, Step: step}
}

// Sized returns the critical attack of this kind against the given target size.
func (k Kind) Sized(size CriticalSize) Attack {
	return Attack{Kind: k, Size: size}
}

// Kinds returns every kind except None, in catalog order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := None + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a kind from its ID.
func ParseKind(id string) (Kind, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for k := None; k < kindCount; k++ {
		if kinds[k].id == id {
			return k, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownAttack, id)
}
