package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/goalfund/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed console report: projections, the sampled
// trajectory, the committed ledger and the milestone ladder.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, "GOAL FUNDING PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	assumptions := report.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	if report.Plan != nil {
		writeProjections(&buf, report)
		writeTrajectory(&buf, report)
	}
	if report.Completion != nil {
		writeCompletion(&buf, report)
	}
	if report.Progress != nil {
		writeProgress(&buf, report)
	}
	if report.UserGoal != nil {
		writeMilestones(&buf, report.UserGoal)
	}
	if len(report.Events) > 0 {
		fmt.Fprintln(&buf, "EVENTS")
		for _, ev := range report.Events {
			fmt.Fprintf(&buf, "  %s  %s\n", ev.At.Format("2006-01-02"), ev.String())
		}
	}
	return buf.Bytes(), nil
}

func writeProjections(buf *bytes.Buffer, report *Report) {
	plan := report.Plan
	fmt.Fprintf(buf, "GOAL: %s (%s)\n", plan.Goal.Title, FormatCurrency(plan.Goal.FinalPrice))
	if plan.Goal.Category != "" {
		fmt.Fprintf(buf, "Category: %s\n", plan.Goal.Category)
	}
	fmt.Fprintf(buf, "Mode: %s\n", DescribeMode(plan.Mode))
	fmt.Fprintf(buf, "Chart horizon: %d months (%s)\n", plan.Horizon, FormatMonths(plan.Horizon))
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "%-24s %10s %14s %8s %12s\n", "Profile", "Return", "Monthly", "Months", "Range")
	fmt.Fprintln(buf, strings.Repeat("-", 72))
	for _, p := range plan.Projections {
		rate := ""
		for _, rp := range report.Profiles {
			if rp.Name == p.Profile {
				rate = FormatRate(rp.ExpectedAnnualReturn)
			}
		}
		fmt.Fprintf(buf, "%-24s %10s %14s %8d %12s\n", report.Label(p.Profile), rate, FormatCurrency(p.MonthlyPayment), p.Months, FormatBand(p))
	}
	for _, name := range plan.Excluded {
		fmt.Fprintf(buf, "%-24s %s\n", report.Label(name), domain.ErrNotAchievable.Error())
	}
	fmt.Fprintln(buf)
}

func writeTrajectory(buf *bytes.Buffer, report *Report) {
	plan := report.Plan
	if len(plan.Trajectory) == 0 {
		return
	}
	names := make([]string, 0, len(plan.Projections))
	for _, p := range plan.Projections {
		if _, ok := plan.Trajectory[0].ProjectedValue[p.Profile]; ok {
			names = append(names, p.Profile)
		}
	}

	fmt.Fprintf(buf, "PROJECTED GROWTH (baseline: %s contributions)\n", report.Label(plan.Selected))
	fmt.Fprintf(buf, "%6s %14s", "Month", "Contributed")
	for _, n := range names {
		fmt.Fprintf(buf, " %14s", truncate(report.Label(n), 14))
	}
	fmt.Fprintln(buf)
	for _, pt := range plan.Trajectory {
		fmt.Fprintf(buf, "%6d %14s", pt.MonthIndex, FormatCurrency(pt.TotalContributed))
		for _, n := range names {
			fmt.Fprintf(buf, " %14s", FormatCurrency(pt.ProjectedValue[n]))
		}
		fmt.Fprintln(buf)
	}
	fmt.Fprintln(buf)
}

func writeCompletion(buf *bytes.Buffer, report *Report) {
	c := report.Completion
	fmt.Fprintln(buf, "COMMITTED PROJECTION")
	fmt.Fprintf(buf, "Growth rate: %s (%s), confidence %d\n", FormatRate(c.AnnualRate), c.Source, c.Confidence)
	fmt.Fprintf(buf, "Months to target: %d (%s)\n", c.Months, FormatMonths(c.Months))
	fmt.Fprintf(buf, "Projected value: %s\n", FormatCurrency(c.ProjectedValue))
	fmt.Fprintf(buf, "%6s %8s %14s %14s %14s\n", "Year", "Months", "Value", "Contributions", "Growth")
	for _, y := range c.YearByYear {
		fmt.Fprintf(buf, "%6d %8d %14s %14s %14s\n", y.Year, y.Months, FormatCurrency(y.Value),
			FormatCurrency(y.ContributionsThisYear), FormatCurrency(y.GrowthThisYear))
	}
	fmt.Fprintln(buf)
}

func writeProgress(buf *bytes.Buffer, report *Report) {
	p := report.Progress
	fmt.Fprintf(buf, "PROGRESS: %s [%s]\n", p.Title, p.Status)
	fmt.Fprintf(buf, "Funded %s of %s (%s), %s remaining\n",
		FormatCurrency(p.CurrentAmount), FormatCurrency(p.TargetAmount), FormatPercentage(p.Percent), FormatCurrency(p.Remaining))
	fmt.Fprintf(buf, "[%s] %.0f%%\n", bar(p.DisplayPercent, 40), p.DisplayPercent)
	if p.NextMilestone != nil {
		fmt.Fprintf(buf, "Next milestone: %d%% at %s\n", p.NextMilestone.TargetPercent, FormatCurrency(p.NextMilestone.TargetAmount))
	}
	fmt.Fprintln(buf)
}

func writeMilestones(buf *bytes.Buffer, goal *domain.UserGoal) {
	fmt.Fprintln(buf, "MILESTONES")
	for _, m := range goal.Milestones {
		state := "pending"
		if m.Achieved {
			state = "achieved"
			if m.AchievedDate != nil {
				state += " " + m.AchievedDate.Format("2006-01-02")
			}
		}
		fmt.Fprintf(buf, "  %3d%%  %12s  %s\n", m.TargetPercent, FormatCurrency(m.TargetAmount), state)
	}
	fmt.Fprintln(buf)
}

func bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}
