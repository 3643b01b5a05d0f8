package gamedata

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/samdwyer/hyperarmor/internal/attack"
	"github.com/samdwyer/hyperarmor/internal/moveset"
)

func sheetRow(class, name string, cells map[int]string) []string {
	row := make([]string, ColumnCount)
	row[ClassColumn] = class
	row[NameColumn] = name
	for i, v := range cells {
		row[i] = v
	}
	return row
}

func sheet(t *testing.T, rows ...[]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := sheetRow("Weapon Type", "Weapon Name", nil)
	if err := w.Write(header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("failed to flush sheet: %v", err)
	}
	return buf.String()
}

func TestLoadPoiseOverrides(t *testing.T) {
	o, err := LoadPoiseOverrides()
	if err != nil {
		t.Fatalf("Failed to load innate poise table: %v", err)
	}

	if got := o.Len(); got != 34 {
		t.Errorf("Expected 34 entries, got %d", got)
	}
	if len(o.Weapons) != 2 {
		t.Errorf("Expected 2 weapon entries, got %d", len(o.Weapons))
	}

	tests := []struct {
		name, class string
		want        int
	}{
		{"Rakshasa's Great Katana", "Great Katana", 77},
		{"Dragon-Hunter's Great Katana", "Great Katana", 52},
		{"Bloodfiend's Sacred Spear", "Great Spear", 15},
		{"Claymore", "Greatsword", 59},
		{"Dagger", "Dagger", 11},
		{"Giant-Crusher", "Colossal Weapon", 99},
		{"Shortbow", "Light Bow", 0},
	}
	for _, tt := range tests {
		got, _, _ := o.resolve(tt.name, tt.class)
		if got != tt.want {
			t.Errorf("resolve(%q, %q) = %d, want %d", tt.name, tt.class, got, tt.want)
		}
	}
}

func TestParsePoiseOverridesRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"unknown field", "weapon:\n  Dagger: 11\n", false},
		{"duplicate key", "classes:\n  Dagger: 11\n  Dagger: 12\n", false},
		{"negative poise", "classes:\n  Dagger: -1\n", true},
		{"blank name", "weapons:\n  \" \": 10\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePoiseOverrides([]byte(tt.content))
			if err == nil {
				t.Fatal("ParsePoiseOverrides() error = nil, want error")
			}
			if got := errors.Is(err, ErrInvalidOverride); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidOverride) = %v, want %v (err: %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestSchemaColumns(t *testing.T) {
	seen := make(map[int]bool)
	prev := NameColumn
	for _, c := range Schema {
		if seen[c.Index] {
			t.Errorf("column %d mapped twice", c.Index)
		}
		seen[c.Index] = true
		if c.Index <= prev {
			t.Errorf("column %d listed after %d", c.Index, prev)
		}
		prev = c.Index
	}
	for i := NameColumn + 1; i < ColumnCount; i++ {
		if i == WhiffColumn {
			if seen[i] {
				t.Errorf("whiff column %d should not be mapped", i)
			}
			continue
		}
		if !seen[i] {
			t.Errorf("column %d not mapped", i)
		}
	}

	paths := make(map[string]bool)
	moveset.New("w", "c").Each(func(path string, _ moveset.Sequence) {
		paths[path] = true
	})
	for _, c := range Schema {
		if !paths[c.Path] {
			t.Errorf("column %d path %q is not a moveset field", c.Index, c.Path)
		}
	}
}

func TestParseRow(t *testing.T) {
	m, warnings, err := ParseRow(sheetRow("Dagger", "Dagger", map[int]string{
		2:  "40",
		26: "120 + 130",
		43: "200",
		47: "302.5",
		48: "10 + 10",
		62: "55",
	}))
	if err != nil {
		t.Fatalf("ParseRow() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("ParseRow() warnings = %v, want none", warnings)
	}
	if m.Name != "Dagger" || m.Class != "Dagger" {
		t.Errorf("ParseRow() = %q/%q, want Dagger/Dagger", m.Name, m.Class)
	}

	tests := []struct {
		attack attack.Attack
		want   moveset.Sequence
	}{
		{attack.OneHandedR1Chain.At(0), moveset.Sequence{40}},
		{attack.OneHandedR1Chain.At(1), moveset.Sequence{}},
		{attack.TwoHandedR2Chain.At(1), moveset.Sequence{120, 130}},
		{attack.Backstab.Sized(attack.SizeDefault), moveset.Sequence{200}},
		{attack.Riposte.Sized(attack.SizeLarge), moveset.Sequence{302}},
		{attack.Shieldpoke.Attack(), moveset.Sequence{10, 10}},
		{attack.PairedL1Jumping.Attack(), moveset.Sequence{55}},
	}
	for _, tt := range tests {
		got, ok := m.Damage(tt.attack)
		if !ok {
			t.Errorf("Damage(%s) not present", tt.attack)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Damage(%s) = %v, want %v", tt.attack, got, tt.want)
		}
	}
}

func TestParseRowSkipsAndShortRows(t *testing.T) {
	for _, record := range [][]string{
		{""},
		sheetRow("", "Dagger", nil),
		sheetRow("Dagger", "  ", nil),
	} {
		m, _, err := ParseRow(record)
		if m != nil || err != nil {
			t.Errorf("ParseRow(%q) = %v, %v, want skipped", record[:2], m, err)
		}
	}

	_, _, err := ParseRow([]string{"Dagger", "Dagger", "40"})
	if !errors.Is(err, ErrShortRow) {
		t.Errorf("ParseRow(short) error = %v, want ErrShortRow", err)
	}
}

func TestParseRowWarnings(t *testing.T) {
	m, warnings, err := ParseRow(sheetRow("Dagger", "Dagger", map[int]string{5: "12 + abc"}))
	if err != nil {
		t.Fatalf("ParseRow() error = %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("ParseRow() warnings = %d, want 1", len(warnings))
	}
	w := warnings[0]
	if w.Column != 5 || w.Path != "one_handed.light.chain[3]" || w.Value != "12 + abc" {
		t.Errorf("warning = %+v", w)
	}
	if !errors.Is(w.Err, moveset.ErrInvalidDamage) {
		t.Errorf("warning error = %v, want ErrInvalidDamage", w.Err)
	}
	got, _ := m.Damage(attack.OneHandedR1Chain.At(3))
	if !got.Equal(moveset.Sequence{12, 0}) {
		t.Errorf("Damage() = %v, want [12 0]", got)
	}
}

func TestLoadMovesets(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	data := sheet(t,
		sheetRow("Dagger", "Dagger", map[int]string{2: "40"}),
		sheetRow("", "", nil),
		sheetRow("Greatsword", "Claymore", map[int]string{2: "bad"}),
		sheetRow("Dagger", "Dagger", map[int]string{2: "41"}),
	)

	movesets, err := LoadMovesets(context.Background(), strings.NewReader(data), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("LoadMovesets() error = %v", err)
	}

	var names []string
	for _, m := range movesets {
		names = append(names, m.Name)
	}
	if want := []string{"Claymore", "Dagger"}; !reflect.DeepEqual(names, want) {
		t.Errorf("LoadMovesets() names = %v, want %v", names, want)
	}

	got, _ := movesets[1].Damage(attack.OneHandedR1Chain.At(0))
	if !got.Equal(moveset.Sequence{41}) {
		t.Errorf("later duplicate row not kept: got %v", got)
	}

	if n := logs.FilterMessage("unparsable poise damage, defaulting to 0").Len(); n != 1 {
		t.Errorf("cell warnings logged = %d, want 1", n)
	}
	dups := logs.FilterMessage("weapon listed twice, keeping the later row").All()
	if len(dups) != 1 {
		t.Fatalf("duplicate warnings logged = %d, want 1", len(dups))
	}
	if weapon := dups[0].ContextMap()["weapon"]; weapon != "Dagger" {
		t.Errorf("duplicate warning weapon = %v, want Dagger", weapon)
	}
}

func TestLoadMovesetsEmpty(t *testing.T) {
	if _, err := LoadMovesets(context.Background(), strings.NewReader("")); err == nil {
		t.Error("LoadMovesets(empty) error = nil, want error")
	}
}

func testMovesets() []*moveset.Moveset {
	return []*moveset.Moveset{
		moveset.New("Rakshasa's Great Katana", "Great Katana"),
		moveset.New("Misericorde", "Dagger"),
		moveset.New("Dragon-Hunter's Great Katana", "Great Katana"),
		moveset.New("Claymore", "Greatsword"),
		moveset.New("Dagger", "Dagger"),
	}
}

func testOverrides() PoiseOverrides {
	return PoiseOverrides{
		Weapons: map[string]int{"Rakshasa's Great Katana": 77},
		Classes: map[string]int{"Great Katana": 52, "Dagger": 11},
	}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(context.Background(), testMovesets(), testOverrides())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if reg.Count() != 5 {
		t.Errorf("Count() = %d, want 5", reg.Count())
	}
	if _, err := uuid.Parse(reg.ID()); err != nil {
		t.Errorf("ID() = %q is not a UUID: %v", reg.ID(), err)
	}

	wantClasses := []string{"Dagger", "Great Katana", "Greatsword"}
	if got := reg.Classes(); !reflect.DeepEqual(got, wantClasses) {
		t.Errorf("Classes() = %v, want %v", got, wantClasses)
	}
	wantWeapons := []string{"Claymore", "Dagger", "Dragon-Hunter's Great Katana", "Misericorde", "Rakshasa's Great Katana"}
	if got := reg.Weapons(); !reflect.DeepEqual(got, wantWeapons) {
		t.Errorf("Weapons() = %v, want %v", got, wantWeapons)
	}

	byClass := reg.WeaponsByClass()
	if got := byClass["Dagger"]; !reflect.DeepEqual(got, []string{"Dagger", "Misericorde"}) {
		t.Errorf("WeaponsByClass()[Dagger] = %v", got)
	}
	byClass["Dagger"][0] = "mutated"
	if got := reg.ClassWeapons("Dagger"); got[0] != "Dagger" {
		t.Errorf("WeaponsByClass() shares storage with the registry")
	}

	poise := map[string]int{
		"Rakshasa's Great Katana":      77,
		"Dragon-Hunter's Great Katana": 52,
		"Dagger":                       11,
		"Misericorde":                  11,
		"Claymore":                     0,
		"Unknown":                      0,
	}
	for weapon, want := range poise {
		if got := reg.InnatePoise(weapon); got != want {
			t.Errorf("InnatePoise(%q) = %d, want %d", weapon, got, want)
		}
	}
}

func TestNewRegistryUnusedOverride(t *testing.T) {
	overrides := testOverrides()
	overrides.Weapons["Nonexistent Blade"] = 40
	overrides.Classes["Colossal Sword"] = 90

	_, err := NewRegistry(context.Background(), testMovesets(), overrides)
	if !errors.Is(err, ErrUnusedOverride) {
		t.Fatalf("NewRegistry() error = %v, want ErrUnusedOverride", err)
	}
	var unused *UnusedOverrideError
	if !errors.As(err, &unused) {
		t.Fatalf("NewRegistry() error %T is not *UnusedOverrideError", err)
	}
	if !reflect.DeepEqual(unused.Weapons, []string{"Nonexistent Blade"}) {
		t.Errorf("unused weapons = %v", unused.Weapons)
	}
	if !reflect.DeepEqual(unused.Classes, []string{"Colossal Sword"}) {
		t.Errorf("unused classes = %v", unused.Classes)
	}
}

func TestNewRegistryClassKeyMatchesWeaponName(t *testing.T) {
	movesets := []*moveset.Moveset{
		moveset.New("Greatsword", "Colossal Sword"),
		moveset.New("Ruins Greatsword", "Colossal Sword"),
		moveset.New("Claymore", "Greatsword"),
	}
	overrides := PoiseOverrides{Classes: map[string]int{"Greatsword": 59, "Colossal Sword": 90}}

	reg, err := NewRegistry(context.Background(), movesets, overrides)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	poise := map[string]int{"Greatsword": 59, "Ruins Greatsword": 90, "Claymore": 59}
	for weapon, want := range poise {
		if got := reg.InnatePoise(weapon); got != want {
			t.Errorf("InnatePoise(%q) = %d, want %d", weapon, got, want)
		}
	}

	// A class key matching only a weapon name still counts as used.
	_, err = NewRegistry(context.Background(), movesets[:2], PoiseOverrides{Classes: map[string]int{"Greatsword": 59}})
	if err != nil {
		t.Errorf("NewRegistry(weapon-named class key) error = %v", err)
	}
}

func TestNewRegistryShadowedClassIsUnused(t *testing.T) {
	movesets := []*moveset.Moveset{moveset.New("Rakshasa's Great Katana", "Great Katana")}
	_, err := NewRegistry(context.Background(), movesets, testOverrides())

	var unused *UnusedOverrideError
	if !errors.As(err, &unused) {
		t.Fatalf("NewRegistry() error = %v, want *UnusedOverrideError", err)
	}
	if want := []string{"Dagger", "Great Katana"}; !reflect.DeepEqual(unused.Classes, want) {
		t.Errorf("unused classes = %v, want %v", unused.Classes, want)
	}
}

func TestNewRegistryRejectsBadMovesets(t *testing.T) {
	ctx := context.Background()
	dup := []*moveset.Moveset{moveset.New("Dagger", "Dagger"), moveset.New("Dagger", "Dagger")}
	if _, err := NewRegistry(ctx, dup, PoiseOverrides{}); !errors.Is(err, ErrDuplicateWeapon) {
		t.Errorf("NewRegistry(duplicate) error = %v, want ErrDuplicateWeapon", err)
	}
	nameless := []*moveset.Moveset{moveset.New("", "Dagger")}
	if _, err := NewRegistry(ctx, nameless, PoiseOverrides{}); !errors.Is(err, ErrInvalidMoveset) {
		t.Errorf("NewRegistry(nameless) error = %v, want ErrInvalidMoveset", err)
	}
}

func TestRegistryDamage(t *testing.T) {
	m := moveset.New("Dagger", "Dagger")
	m.OneHanded.Light.Chain[0] = moveset.Sequence{100, 59}
	reg, err := NewRegistry(context.Background(), []*moveset.Moveset{m}, PoiseOverrides{})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	a := attack.OneHandedR1Chain.At(0)
	got, ok := reg.Damage("Dagger", a)
	if !ok || !got.Equal(moveset.Sequence{100, 59}) {
		t.Fatalf("Damage() = %v, %v", got, ok)
	}
	got[0] = 1
	if again, _ := reg.Damage("Dagger", a); again[0] != 100 {
		t.Error("Damage() result shares storage with the registry")
	}

	scaled, ok := reg.DamageWithMultiplier("Dagger", a, 0.8125)
	if !ok || !scaled.Equal(moveset.Sequence{81, 47}) {
		t.Errorf("DamageWithMultiplier() = %v, %v, want [81 47]", scaled, ok)
	}

	if _, ok := reg.Damage("Dagger", attack.OneHandedR1Chain.At(6)); ok {
		t.Error("Damage(step 7) should be absent")
	}
	if _, ok := reg.Damage("Club", a); ok {
		t.Error("Damage(unknown weapon) should be absent")
	}
	if _, ok := reg.ApplyMultiplier("Club", 0.5); ok {
		t.Error("ApplyMultiplier(unknown weapon) should be absent")
	}
}

type fakeFetcher struct {
	content string
	calls   int
}

func (f *fakeFetcher) Fetch(_ context.Context, path string) error {
	f.calls++
	return os.WriteFile(path, []byte(f.content), 0o644)
}

func TestLoadRegistry(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "poise_data.csv")
	overrides := PoiseOverrides{Classes: map[string]int{"Dagger": 11}}

	_, err := LoadRegistry(ctx, Source{Path: path, Overrides: &overrides})
	if !errors.Is(err, ErrNoDataset) {
		t.Fatalf("LoadRegistry(no fetcher) error = %v, want ErrNoDataset", err)
	}

	fetcher := &fakeFetcher{content: sheet(t, sheetRow("Dagger", "Dagger", map[int]string{2: "40"}))}
	src := Source{Path: path, Fetcher: fetcher, Overrides: &overrides}

	reg, err := LoadRegistry(ctx, src)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
	got, ok := reg.Damage("Dagger", attack.OneHandedR1Chain.At(0))
	if !ok || !got.Equal(moveset.Sequence{40}) {
		t.Errorf("Damage() = %v, %v, want [40]", got, ok)
	}
	if reg.InnatePoise("Dagger") != 11 {
		t.Errorf("InnatePoise() = %d, want 11", reg.InnatePoise("Dagger"))
	}

	if _, err := LoadRegistry(ctx, src); err != nil {
		t.Fatalf("LoadRegistry(cached) error = %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("cached file was fetched again")
	}
}

func TestLoadRegistryEmbeddedTableMustMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poise_data.csv")
	data := sheet(t, sheetRow("Dagger", "Dagger", nil))
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadRegistry(context.Background(), Source{Path: path})
	if !errors.Is(err, ErrUnusedOverride) {
		t.Errorf("LoadRegistry() error = %v, want ErrUnusedOverride", err)
	}
}
