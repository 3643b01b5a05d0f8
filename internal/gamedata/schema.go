package gamedata

import (
	"fmt"

	"github.com/samdwyer/hyperarmor/internal/moveset"
)

// Fixed columns of the poise damage sheet.
const (
	ClassColumn = 0
	NameColumn  = 1
	// WhiffColumn holds backstab whiff damage, which is not modeled.
	WhiffColumn = 42
	// ColumnCount is the minimum width of a data row.
	ColumnCount = 63
)

// Column maps one sheet column onto a moveset field. Path matches the path
// moveset.(*Moveset).Each reports for that field.
type Column struct {
	Index int
	Path  string
	field func(*moveset.Moveset) *moveset.Sequence
}

type sequenceField = func(*moveset.Moveset) *moveset.Sequence

type chainField = func(*moveset.Moveset) moveset.Chain

// Schema lists every damage column of the sheet in column order.
var Schema = schema(
	steps(2, "one_handed.light.chain", moveset.LightChainSteps, func(m *moveset.Moveset) moveset.Chain { return m.OneHanded.Light.Chain }),
	steps(8, "one_handed.heavy.chain", moveset.HeavyChainSteps, func(m *moveset.Moveset) moveset.Chain { return m.OneHanded.Heavy.Chain }),
	steps(10, "one_handed.heavy.charged", moveset.HeavyChainSteps, func(m *moveset.Moveset) moveset.Chain { return m.OneHanded.Heavy.Charged }),
	cols(
		col(12, "one_handed.light.running", func(m *moveset.Moveset) *moveset.Sequence { return &m.OneHanded.Light.Running }),
		col(13, "one_handed.heavy.running", func(m *moveset.Moveset) *moveset.Sequence { return &m.OneHanded.Heavy.Running }),
		col(14, "one_handed.light.rolling", func(m *moveset.Moveset) *moveset.Sequence { return &m.OneHanded.Light.Rolling }),
		col(15, "one_handed.light.backstep", func(m *moveset.Moveset) *moveset.Sequence { return &m.OneHanded.Light.Backstep }),
		col(16, "one_handed.light.jumping", func(m *moveset.Moveset) *moveset.Sequence { return &m.OneHanded.Light.Jumping }),
		col(17, "one_handed.heavy.jumping", func(m *moveset.Moveset) *moveset.Sequence { return &m.OneHanded.Heavy.Jumping }),
		col(18, "one_handed.light.guard_counter", func(m *moveset.Moveset) *moveset.Sequence { return &m.OneHanded.Light.GuardCounter }),
	),

	steps(19, "two_handed.light.chain", moveset.LightChainSteps, func(m *moveset.Moveset) moveset.Chain { return m.TwoHanded.Light.Chain }),
	steps(25, "two_handed.heavy.chain", moveset.HeavyChainSteps, func(m *moveset.Moveset) moveset.Chain { return m.TwoHanded.Heavy.Chain }),
	steps(27, "two_handed.heavy.charged", moveset.HeavyChainSteps, func(m *moveset.Moveset) moveset.Chain { return m.TwoHanded.Heavy.Charged }),
	cols(
		col(29, "two_handed.light.running", func(m *moveset.Moveset) *moveset.Sequence { return &m.TwoHanded.Light.Running }),
		col(30, "two_handed.heavy.running", func(m *moveset.Moveset) *moveset.Sequence { return &m.TwoHanded.Heavy.Running }),
		col(31, "two_handed.light.rolling", func(m *moveset.Moveset) *moveset.Sequence { return &m.TwoHanded.Light.Rolling }),
		col(32, "two_handed.light.backstep", func(m *moveset.Moveset) *moveset.Sequence { return &m.TwoHanded.Light.Backstep }),
		col(33, "two_handed.light.jumping", func(m *moveset.Moveset) *moveset.Sequence { return &m.TwoHanded.Light.Jumping }),
		col(34, "two_handed.heavy.jumping", func(m *moveset.Moveset) *moveset.Sequence { return &m.TwoHanded.Heavy.Jumping }),
		col(35, "two_handed.light.guard_counter", func(m *moveset.Moveset) *moveset.Sequence { return &m.TwoHanded.Light.GuardCounter }),
	),

	steps(36, "off_hand", moveset.LightChainSteps, func(m *moveset.Moveset) moveset.Chain { return m.OffHand }),

	// 42 is WhiffColumn.
	cols(
		col(43, "backstab.default", func(m *moveset.Moveset) *moveset.Sequence { return &m.Backstab.Default }),
		col(44, "riposte.default", func(m *moveset.Moveset) *moveset.Sequence { return &m.Riposte.Default }),
		col(45, "backstab.small", func(m *moveset.Moveset) *moveset.Sequence { return &m.Backstab.Small }),
		col(46, "riposte.small", func(m *moveset.Moveset) *moveset.Sequence { return &m.Riposte.Small }),
		col(47, "riposte.large", func(m *moveset.Moveset) *moveset.Sequence { return &m.Riposte.Large }),
		col(48, "shieldpoke", func(m *moveset.Moveset) *moveset.Sequence { return &m.Shieldpoke }),
	),

	steps(49, "one_handed.heavy.feint", moveset.HeavyChainSteps, func(m *moveset.Moveset) moveset.Chain { return m.OneHanded.Heavy.Feint }),
	steps(51, "two_handed.heavy.feint", moveset.HeavyChainSteps, func(m *moveset.Moveset) moveset.Chain { return m.TwoHanded.Heavy.Feint }),

	steps(53, "paired.chain", moveset.LightChainSteps, func(m *moveset.Moveset) moveset.Chain { return m.Paired.Chain }),
	cols(
		col(59, "paired.running", func(m *moveset.Moveset) *moveset.Sequence { return &m.Paired.Running }),
		col(60, "paired.rolling", func(m *moveset.Moveset) *moveset.Sequence { return &m.Paired.Rolling }),
		col(61, "paired.backstep", func(m *moveset.Moveset) *moveset.Sequence { return &m.Paired.Backstep }),
		col(62, "paired.jumping", func(m *moveset.Moveset) *moveset.Sequence { return &m.Paired.Jumping }),
	),
)

func schema(groups ...[]Column) []Column {
	var out []Column
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func cols(c ...Column) []Column { return c }

func col(index int, path string, field sequenceField) Column {
	return Column{Index: index, Path: path, field: field}
}

// steps maps n consecutive columns starting at first onto the steps of a chain.
func steps(first int, path string, n int, chain chainField) []Column {
	out := make([]Column, n)
	for i := range out {
		step := i
		out[i] = col(first+i, fmt.Sprintf("%s[%d]", path, i), func(m *moveset.Moveset) *moveset.Sequence {
			return &chain(m)[step]
		})
	}
	return out
}
