package gamedata

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// PoiseOverridesFile is the embedded innate poise table.
const PoiseOverridesFile = "innate_poise.yaml"

// ErrInvalidOverride is returned for malformed innate poise tables.
var ErrInvalidOverride = errors.New("invalid innate poise override")

// PoiseOverrides maps weapon names and weapon classes to innate weapon poise.
type PoiseOverrides struct {
	Weapons map[string]int `yaml:"weapons"`
	Classes map[string]int `yaml:"classes"`
}

// LoadPoiseOverrides loads and validates the embedded innate poise table.
func LoadPoiseOverrides() (PoiseOverrides, error) {
	o, err := Load[PoiseOverrides](PoiseOverridesFile)
	if err != nil {
		return PoiseOverrides{}, err
	}
	if err := o.Validate(); err != nil {
		return PoiseOverrides{}, fmt.Errorf("%s: %w", PoiseOverridesFile, err)
	}
	return o, nil
}

// ParsePoiseOverrides decodes and validates a table in the embedded file's format.
func ParsePoiseOverrides(content []byte) (PoiseOverrides, error) {
	var o PoiseOverrides
	if err := decodeYAML(content, &o); err != nil {
		return PoiseOverrides{}, fmt.Errorf("failed to parse innate poise table: %w", err)
	}
	if err := o.Validate(); err != nil {
		return PoiseOverrides{}, err
	}
	return o, nil
}

// Validate rejects blank keys and negative poise.
func (o PoiseOverrides) Validate() error {
	var errs []error
	check := func(kind string, m map[string]int) {
		for _, key := range sortedKeys(m) {
			if strings.TrimSpace(key) == "" {
				errs = append(errs, fmt.Errorf("%w: blank %s name", ErrInvalidOverride, kind))
			}
			if m[key] < 0 {
				errs = append(errs, fmt.Errorf("%w: %s %q has negative poise %d", ErrInvalidOverride, kind, key, m[key]))
			}
		}
	}
	check("weapon", o.Weapons)
	check("class", o.Classes)
	return errors.Join(errs...)
}

// Len returns the number of entries in the table.
func (o PoiseOverrides) Len() int {
	return len(o.Weapons) + len(o.Classes)
}

// resolve returns the innate poise for a weapon and which entry supplied it.
// Every key is tried against the weapon name first: a weapon entry, then a
// class entry spelled like the weapon, then the entry for its class. The
// weapon "Greatsword" is a Colossal Sword but takes the Greatsword entry.
func (o PoiseOverrides) resolve(name, class string) (int, overrideKey, bool) {
	if poise, ok := o.Weapons[name]; ok {
		return poise, overrideKey{weapon: true, name: name}, true
	}
	if poise, ok := o.Classes[name]; ok {
		return poise, overrideKey{name: name}, true
	}
	if poise, ok := o.Classes[class]; ok {
		return poise, overrideKey{name: class}, true
	}
	return 0, overrideKey{}, false
}

type overrideKey struct {
	weapon bool
	name   string
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
