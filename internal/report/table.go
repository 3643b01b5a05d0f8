package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteTable renders the survey as aligned text, one weapon per line.
func (s *Survey) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s x%.4g (armor poise %d, hyperarmor %.2f)\n",
		s.Attack, s.Multiplier, s.Thresholds.ArmorPoise, s.Thresholds.Hyperarmor)
	fmt.Fprintln(tw, "CLASS\tWEAPON\tHITS\tTOTAL\tARMOR\tHYPERARMOR")
	for _, c := range s.Classes {
		for _, e := range c.Entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
				c.Class, e.Weapon, hits(e), e.Total, mark(e.BreaksArmor), mark(e.BreaksHyperarmor))
		}
	}
	if len(s.Missing) > 0 {
		fmt.Fprintf(tw, "no data: %d weapons\n", len(s.Missing))
	}
	return tw.Flush()
}

func hits(e Entry) string {
	if len(e.Hits) == 0 {
		return "-"
	}
	return e.Hits.String()
}

func mark(breaks bool) string {
	if breaks {
		return "break"
	}
	return "hold"
}
