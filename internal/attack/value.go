package attack

import (
	"fmt"
	"strconv"
	"strings"
)

// CriticalSize is the target size a backstab or riposte is performed against.
type CriticalSize int

const (
	SizeDefault CriticalSize = iota
	SizeSmall
	SizeLarge
)

// Sizes returns every critical size.
func Sizes() []CriticalSize {
	return []CriticalSize{SizeDefault, SizeSmall, SizeLarge}
}

func (s CriticalSize) String() string {
	switch s {
	case SizeDefault:
		return "Default"
	case SizeSmall:
		return "Small"
	case SizeLarge:
		return "Large"
	default:
		return "Size(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseSize resolves a size from its lowercase name.
func ParseSize(s string) (CriticalSize, error) {
	for _, size := range Sizes() {
		if strings.EqualFold(size.String(), strings.TrimSpace(s)) {
			return size, nil
		}
	}
	return SizeDefault, fmt.Errorf("%w: size %q", ErrUnknownAttack, s)
}

// Attack is a fully specified attack: a kind plus its chain step or target
// size where the kind takes one. The zero value is the None sentinel.
type Attack struct {
	Kind Kind
	// Step is the zero-based chain step; only meaningful when Kind.HasStep().
	Step int
	// Size is only meaningful when Kind.HasSize().
	Size CriticalSize
}

// HyperarmorMultiplier returns the multiplier of the attack's kind.
func (a Attack) HyperarmorMultiplier() float64 {
	return a.Kind.HyperarmorMultiplier()
}

// IsTwoHanded reports whether the attack is performed two-handed.
func (a Attack) IsTwoHanded() bool {
	return a.Kind.IsTwoHanded()
}

// IsHeavy reports whether the attack is a heavy (R2) swing.
func (a Attack) IsHeavy() bool {
	return a.Kind.IsHeavy()
}

// String renders the attack label with a one-based step or the size,
// e.g. "Two Handed R2 Charged 1" or "Riposte Large".
func (a Attack) String() string {
	switch {
	case a.Kind.HasStep():
		return fmt.Sprintf("%s %d", a.Kind, a.Step+1)
	case a.Kind.HasSize():
		return a.Kind.String() + " " + a.Size.String()
	default:
		return a.Kind.String()
	}
}

// ID renders the attack in the form accepted by Parse, e.g. "2h-r2-charged:1".
func (a Attack) ID() string {
	switch {
	case a.Kind.HasStep():
		return a.Kind.ID() + ":" + strconv.Itoa(a.Step+1)
	case a.Kind.HasSize():
		return a.Kind.ID() + ":" + strings.ToLower(a.Size.String())
	default:
		return a.Kind.ID()
	}
}

// Parse reads an attack written as "<kind>", "<kind>:<step>" with a one-based
// step, or "<kind>:<size>". Chain kinds default to step 1 and critical kinds
// to the default size when the suffix is omitted.
func Parse(s string) (Attack, error) {
	id, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")
	kind, err := ParseKind(id)
	if err != nil {
		return Attack{}, err
	}

	switch {
	case kind.HasStep():
		if !hasArg {
			return kind.At(0), nil
		}
		step, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || step < 1 || step > MaxChainSteps {
			return Attack{}, fmt.Errorf("%w: step %q must be in [1..%d]", ErrUnknownAttack, arg, MaxChainSteps)
		}
		return kind.At(step - 1), nil
	case kind.HasSize():
		if !hasArg {
			return kind.Sized(SizeDefault), nil
		}
		size, err := ParseSize(arg)
		if err != nil {
			return Attack{}, err
		}
		return kind.Sized(size), nil
	default:
		if hasArg {
			return Attack{}, fmt.Errorf("%w: %s takes no argument", ErrUnknownAttack, kind.ID())
		}
		return kind.Attack(), nil
	}
}

// All returns every attack value in catalog order: each chain kind once per
// step, each critical kind once per size, everything else once. None is
// not included.
func All() []Attack {
	var out []Attack
	for _, k := range Kinds() {
		switch {
		case k.HasStep():
			for step := 0; step < MaxChainSteps; step++ {
				out = append(out, k.At(step))
			}
		case k.HasSize():
			for _, size := range Sizes() {
				out = append(out, k.Sized(size))
			}
		default:
			out = append(out, k.Attack())
		}
	}
	return out
}
