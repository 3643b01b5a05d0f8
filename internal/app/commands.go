package app

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samdwyer/hyperarmor/internal/attack"
	"github.com/samdwyer/hyperarmor/internal/combat"
	"github.com/samdwyer/hyperarmor/internal/fetch"
	"github.com/samdwyer/hyperarmor/internal/report"
)

func runAttacks(_ context.Context, e *env, args []string) error {
	fs := e.newFlagSet("attacks")
	if err := parse(fs, args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tATTACK\tHYPERARMOR")
	for _, a := range attack.All() {
		fmt.Fprintf(tw, "%s\t%s\tx%.2f\n", a.ID(), a, a.HyperarmorMultiplier())
	}
	return tw.Flush()
}

func runClasses(_ context.Context, e *env, args []string) error {
	fs := e.newFlagSet("classes")
	verbose := fs.Bool("v", false, "list the weapons of each class")
	if err := parse(fs, args); err != nil {
		return err
	}

	reg := e.registry
	byClass := reg.WeaponsByClass()
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tWEAPONS")
	for _, class := range reg.Classes() {
		fmt.Fprintf(tw, "%s\t%d\n", class, len(byClass[class]))
		if !*verbose {
			continue
		}
		for _, weapon := range byClass[class] {
			fmt.Fprintf(tw, "  %s\tpoise %d\n", weapon, reg.InnatePoise(weapon))
		}
	}
	return tw.Flush()
}

func runWeapon(_ context.Context, e *env, args []string) error {
	fs := e.newFlagSet("weapon")
	mult := fs.Float64("mult", 1.0, "incoming poise damage multiplier")
	all := fs.Bool("all", false, "include attacks without listed damage")
	if err := parse(fs, args); err != nil {
		return err
	}
	name := joinArgs(fs)
	if name == "" {
		return usageErrorf("weapon: missing weapon name")
	}

	m, ok := e.registry.ApplyMultiplier(name, *mult)
	if !ok {
		return exitWithError(ExitError, fmt.Errorf("%w: %q", combat.ErrUnknownWeapon, name))
	}

	fmt.Fprintf(e.stdout, "%s (%s), innate poise %d, multiplier x%.4g\n",
		m.Name, m.Class, e.registry.InnatePoise(m.Name), m.Multiplier)
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	for _, a := range attack.All() {
		seq, ok := m.Damage(a)
		if !ok || (len(seq) == 0 && !*all) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", a, seq, seq.Total())
	}
	return tw.Flush()
}

// attackFlags are the flags shared by commands about one weapon attack.
type attackFlags struct {
	weapon string
	attack string
}

func (f *attackFlags) register(e *env, name string) *attackFlagSet {
	fs := e.newFlagSet(name)
	fs.StringVar(&f.weapon, "weapon", "", "weapon name")
	fs.StringVar(&f.attack, "attack", "", "attack identifier, see the attacks command")
	return &attackFlagSet{FlagSet: fs, flags: f}
}

type attackFlagSet struct {
	*flag.FlagSet
	flags *attackFlags
}

func (s *attackFlagSet) resolve(args []string) (string, attack.Attack, error) {
	if err := parse(s.FlagSet, args); err != nil {
		return "", attack.Attack{}, err
	}
	if s.flags.weapon == "" || s.flags.attack == "" {
		return "", attack.Attack{}, usageErrorf("%s: -weapon and -attack are required", s.Name())
	}
	a, err := attack.Parse(s.flags.attack)
	if err != nil {
		return "", attack.Attack{}, exitWithError(ExitUsage, err)
	}
	return s.flags.weapon, a, nil
}

func runDamage(_ context.Context, e *env, args []string) error {
	var f attackFlags
	fs := f.register(e, "damage")
	mult := fs.Float64("mult", 1.0, "incoming poise damage multiplier")
	weapon, a, err := fs.resolve(args)
	if err != nil {
		return err
	}

	seq, ok := e.registry.DamageWithMultiplier(weapon, a, *mult)
	if !ok {
		if _, known := e.registry.Lookup(weapon); !known {
			return exitWithError(ExitError, fmt.Errorf("%w: %q", combat.ErrUnknownWeapon, weapon))
		}
		return exitWithError(ExitError, fmt.Errorf("%s has no %s", weapon, a))
	}
	fmt.Fprintf(e.stdout, "%s %s: %s (total %d)\n", weapon, a, seq, seq.Total())
	return nil
}

func runHyperarmor(_ context.Context, e *env, args []string) error {
	var f attackFlags
	fs := f.register(e, "hyperarmor")
	weapon, a, err := fs.resolve(args)
	if err != nil {
		return err
	}

	ha, ok := combat.NewResolver(e.registry).Hyperarmor(weapon, a)
	if !ok {
		return exitWithError(ExitError, fmt.Errorf("%w: %q", combat.ErrUnknownWeapon, weapon))
	}
	fmt.Fprintf(e.stdout, "%s %s: weapon hyperarmor %.2f\n", weapon, a, ha)
	return nil
}

func runResolve(_ context.Context, e *env, args []string) error {
	var f attackFlags
	fs := f.register(e, "resolve")
	armor := fs.Int("armor", 0, "armor poise")
	bullgoat := fs.Bool("bullgoat", false, "Bull-Goat's Talisman equipped")
	weapon, a, err := fs.resolve(args)
	if err != nil {
		return err
	}

	out, err := combat.NewResolver(e.registry).Resolve(weapon, a, combat.Loadout{ArmorPoise: *armor, Bullgoat: *bullgoat})
	if err != nil {
		return exitWithError(ExitError, err)
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "weapon\t%s (%s)\n", out.Weapon, out.Class)
	fmt.Fprintf(tw, "attack\t%s\n", out.Attack)
	fmt.Fprintf(tw, "innate poise\t%d\n", out.InnatePoise)
	fmt.Fprintf(tw, "weapon hyperarmor\t%.2f\n", out.WeaponHyperarmor)
	fmt.Fprintf(tw, "hyperarmor\t%.2f\n", out.Hyperarmor)
	fmt.Fprintf(tw, "incoming multiplier\tx%.4g\n", out.IncomingMultiplier)
	return tw.Flush()
}

// surveyFlags describe the defending player: poise thresholds and the
// incoming multiplier, either given directly or derived from a loadout.
type surveyFlags struct {
	mult         float64
	armor        int
	hyperarmor   float64
	weapon       string
	weaponAttack string
	bullgoat     bool
}

func (f *surveyFlags) register(fs *flag.FlagSet) {
	fs.Float64Var(&f.mult, "mult", 1.0, "incoming poise damage multiplier")
	fs.IntVar(&f.armor, "armor", 0, "armor poise")
	fs.Float64Var(&f.hyperarmor, "hyperarmor", 0, "hyperarmor line")
	fs.StringVar(&f.weapon, "weapon", "", "derive hyperarmor and multiplier from this weapon")
	fs.StringVar(&f.weaponAttack, "weapon-attack", "2h-r2-chain:1", "attack performed with -weapon")
	fs.BoolVar(&f.bullgoat, "bullgoat", false, "Bull-Goat's Talisman equipped")
}

// thresholds returns the survey thresholds and incoming multiplier.
func (f *surveyFlags) thresholds(e *env) (report.Thresholds, float64, error) {
	th := report.Thresholds{ArmorPoise: f.armor, Hyperarmor: f.hyperarmor}
	if f.weapon == "" {
		mult := f.mult
		if f.bullgoat {
			mult *= 1 - combat.BullgoatReduction
		}
		return th, mult, nil
	}

	a, err := attack.Parse(f.weaponAttack)
	if err != nil {
		return th, 0, exitWithError(ExitUsage, err)
	}
	out, err := combat.NewResolver(e.registry).Resolve(f.weapon, a, combat.Loadout{ArmorPoise: f.armor, Bullgoat: f.bullgoat})
	if err != nil {
		return th, 0, exitWithError(ExitError, err)
	}
	th.Hyperarmor = out.Hyperarmor
	return th, out.IncomingMultiplier, nil
}

func runSurvey(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("survey")
	var sf surveyFlags
	sf.register(fs)
	attackID := fs.String("attack", "1h-r1-chain:1", "incoming attack to survey")
	if err := parse(fs, args); err != nil {
		return err
	}

	a, err := attack.Parse(*attackID)
	if err != nil {
		return exitWithError(ExitUsage, err)
	}
	th, mult, err := sf.thresholds(e)
	if err != nil {
		return err
	}
	return report.NewSurvey(ctx, e.registry, a, mult, th, e.logger).WriteTable(e.stdout)
}

func runExportXLSX(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("export-xlsx")
	var sf surveyFlags
	sf.register(fs)
	out := fs.String("out", "hyperarmor.xlsx", "output file")
	attacks := fs.String("attacks", "1h-r1-chain:1,2h-r1-chain:1,1h-r2-chain:1,2h-r2-chain:1", "comma separated attacks, one sheet each")
	if err := parse(fs, args); err != nil {
		return err
	}

	th, mult, err := sf.thresholds(e)
	if err != nil {
		return err
	}

	var surveys []*report.Survey
	for _, id := range strings.Split(*attacks, ",") {
		if strings.TrimSpace(id) == "" {
			continue
		}
		a, err := attack.Parse(id)
		if err != nil {
			return exitWithError(ExitUsage, err)
		}
		surveys = append(surveys, report.NewSurvey(ctx, e.registry, a, mult, th, e.logger))
	}
	if len(surveys) == 0 {
		return usageErrorf("export-xlsx: no attacks given")
	}

	if err := report.ExportXLSX(ctx, *out, surveys...); err != nil {
		return exitWithError(ExitError, err)
	}
	fmt.Fprintf(e.stdout, "wrote %d sheets to %s\n", len(surveys), *out)
	return nil
}

func runExportSQLite(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("export-sqlite")
	out := fs.String("out", "hyperarmor.db", "output database")
	mult := fs.Float64("mult", 1.0, "incoming poise damage multiplier")
	if err := parse(fs, args); err != nil {
		return err
	}

	if err := report.ExportSQLite(ctx, *out, e.registry, *mult, e.logger); err != nil {
		return exitWithError(ExitError, err)
	}
	fmt.Fprintf(e.stdout, "wrote %d weapons to %s\n", e.registry.Count(), *out)
	return nil
}

func runFetch(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("fetch")
	if err := parse(fs, args); err != nil {
		return err
	}

	if err := fetch.NewHTTPFetcher(e.cfg.DataURL, e.logger).Fetch(ctx, e.cfg.DataFile); err != nil {
		return exitWithError(ExitError, fmt.Errorf("failed to fetch %s: %w", e.cfg.DataURL, err))
	}
	fmt.Fprintf(e.stdout, "wrote %s\n", e.cfg.DataFile)
	return nil
}
