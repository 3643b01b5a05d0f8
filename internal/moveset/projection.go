package moveset

import "fmt"

// ApplyMultiplier returns a new moveset with every hit scaled by mult and
// truncated. Sequence and chain lengths are preserved, the result records
// mult as its Multiplier, and nothing is shared with m.
func (m *Moveset) ApplyMultiplier(mult float64) *Moveset {
	return &Moveset{
		Name:       m.Name,
		Class:      m.Class,
		OneHanded:  m.OneHanded.scale(mult),
		TwoHanded:  m.TwoHanded.scale(mult),
		Paired:     m.Paired.scale(mult),
		OffHand:    m.OffHand.scale(mult),
		Backstab:   m.Backstab.scale(mult),
		Riposte:    m.Riposte.scale(mult),
		Shieldpoke: m.Shieldpoke.Scale(mult),
		Multiplier: mult,
	}
}

func (g Grip) scale(m float64) Grip {
	return Grip{Light: g.Light.scale(m), Heavy: g.Heavy.scale(m)}
}

func (s Stance) scale(m float64) Stance {
	return Stance{
		Chain:        s.Chain.scale(m),
		Charged:      s.Charged.scale(m),
		Feint:        s.Feint.scale(m),
		Running:      s.Running.Scale(m),
		Rolling:      s.Rolling.Scale(m),
		Backstep:     s.Backstep.Scale(m),
		Jumping:      s.Jumping.Scale(m),
		GuardCounter: s.GuardCounter.Scale(m),
	}
}

func (c Critical) scale(m float64) Critical {
	return Critical{
		Default: c.Default.Scale(m),
		Small:   c.Small.Scale(m),
		Large:   c.Large.Scale(m),
	}
}

// Each calls fn for every damage field of the moveset, in a fixed order,
// with a dotted path such as "two_handed.heavy.charged[1]".
func (m *Moveset) Each(fn func(path string, seq Sequence)) {
	m.walk(func(path string, seq *Sequence) { fn(path, *seq) })
}

func (m *Moveset) walk(fn func(string, *Sequence)) {
	m.OneHanded.walk("one_handed", fn)
	m.TwoHanded.walk("two_handed", fn)
	m.Paired.walk("paired", fn)
	m.OffHand.walk("off_hand", fn)
	m.Backstab.walk("backstab", fn)
	m.Riposte.walk("riposte", fn)
	fn("shieldpoke", &m.Shieldpoke)
}

func (g *Grip) walk(prefix string, fn func(string, *Sequence)) {
	g.Light.walk(prefix+".light", fn)
	g.Heavy.walk(prefix+".heavy", fn)
}

func (s *Stance) walk(prefix string, fn func(string, *Sequence)) {
	s.Chain.walk(prefix+".chain", fn)
	s.Charged.walk(prefix+".charged", fn)
	s.Feint.walk(prefix+".feint", fn)
	fn(prefix+".running", &s.Running)
	fn(prefix+".rolling", &s.Rolling)
	fn(prefix+".backstep", &s.Backstep)
	fn(prefix+".jumping", &s.Jumping)
	fn(prefix+".guard_counter", &s.GuardCounter)
}

func (c Chain) walk(prefix string, fn func(string, *Sequence)) {
	for i := range c {
		fn(fmt.Sprintf("%s[%d]", prefix, i), &c[i])
	}
}

func (c *Critical) walk(prefix string, fn func(string, *Sequence)) {
	fn(prefix+".default", &c.Default)
	fn(prefix+".small", &c.Small)
	fn(prefix+".large", &c.Large)
}
