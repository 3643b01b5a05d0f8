package moveset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxDamage is the largest poise damage a single hit can carry.
const MaxDamage = math.MaxUint16

// ErrInvalidDamage marks a damage expression segment that is not a number.
var ErrInvalidDamage = errors.New("invalid poise damage")

// Sequence is the poise damage of each hit of an attack, in the order the
// hits land. An empty sequence means no damage is listed.
type Sequence []int

// ParseSequence reads a damage expression such as "10", "10 + 10" or
// "302.5 + 605". Each segment is truncated toward zero. Segments that are not
// numbers contribute 0 and are reported in the returned error; the sequence
// is always usable.
func ParseSequence(expr string) (Sequence, error) {
	if strings.TrimSpace(expr) == "" {
		return Sequence{}, nil
	}

	parts := strings.Split(expr, "+")
	seq := make(Sequence, 0, len(parts))
	var errs []error
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if errors.Is(err, strconv.ErrRange) {
			// f is ±Inf or 0 and saturates like any other value.
			err = nil
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidDamage, err))
			seq = append(seq, 0)
			continue
		}
		seq = append(seq, truncate(f))
	}
	return seq, errors.Join(errs...)
}

// truncate drops the fractional part and saturates into [0, MaxDamage].
func truncate(f float64) int {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= MaxDamage:
		return MaxDamage
	default:
		return int(f)
	}
}

// Scale returns a new sequence with every hit multiplied by m and truncated.
// The length never changes.
func (s Sequence) Scale(m float64) Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	for i, v := range s {
		out[i] = truncate(float64(v) * m)
	}
	return out
}

// Total returns the sum of all hits.
func (s Sequence) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Clone returns a copy that shares no storage with s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both sequences hold the same hits. Nil and empty
// sequences are equal.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the sequence the way the dataset writes it, e.g. "10 + 10".
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " + ")
}

// Chain holds the sequences of a combo, one per step. Its length is the
// number of steps the dataset defines for that combo, at most
// attack.MaxChainSteps.
type Chain []Sequence

// NewChain returns a chain with the given number of empty steps.
func NewChain(steps int) Chain {
	return make(Chain, steps)
}

// Step returns the sequence at the zero-based step, or false when the step
// is outside the chain.
func (c Chain) Step(i int) (Sequence, bool) {
	if i < 0 || i >= len(c) {
		return nil, false
	}
	return c[i], true
}

// String renders the non-empty steps joined with arrows.
func (c Chain) String() string {
	var parts []string
	for _, seq := range c {
		if len(seq) == 0 {
			continue
		}
		parts = append(parts, seq.String())
	}
	return strings.Join(parts, " ⏵ ")
}

func (c Chain) scale(m float64) Chain {
	if c == nil {
		return nil
	}
	out := make(Chain, len(c))
	for i, seq := range c {
		out[i] = seq.Scale(m)
	}
	return out
}
