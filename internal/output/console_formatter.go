package output

import (
	"bytes"
	"fmt"
	"strings"
)

// ConsoleFormatter prints a compact per-profile summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	if plan := report.Plan; plan != nil {
		fmt.Fprintf(&buf, "GOAL PLAN: %s (%s)\n", plan.Goal.Title, FormatCurrency(plan.Goal.FinalPrice))
		fmt.Fprintf(&buf, "Mode: %s, horizon %s\n", DescribeMode(plan.Mode), FormatMonths(plan.Horizon))
		fmt.Fprintln(&buf, strings.Repeat("-", 60))

		if len(plan.Projections) == 0 {
			fmt.Fprintln(&buf, "No profile can fund this goal with these inputs - adjust your inputs.")
		}
		for _, p := range plan.Projections {
			marker := " "
			if p.Profile == plan.Selected {
				marker = "*"
			}
			line := fmt.Sprintf("%s %-22s %12s/mo %5d months", marker, report.Label(p.Profile), FormatCurrency(p.MonthlyPayment), p.Months)
			if band := FormatBand(p); band != "" {
				line += "  (" + band + ")"
			}
			fmt.Fprintln(&buf, line)
		}
		for _, name := range plan.Excluded {
			fmt.Fprintf(&buf, "  %-22s not achievable\n", report.Label(name))
		}
		if plan.Goal.RecommendedStrategy != "" {
			fmt.Fprintf(&buf, "Recommended: %s\n", report.Label(plan.Goal.RecommendedStrategy))
		}
	}

	if report.Progress != nil {
		writeProgress(&buf, report)
	}
	for _, ev := range report.Events {
		fmt.Fprintf(&buf, "» %s\n", ev.String())
	}
	return buf.Bytes(), nil
}
