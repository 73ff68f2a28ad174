package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVSummarizer implements the simple summary CSV output (one row per profile).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	if report.Plan == nil {
		return nil, fmt.Errorf("csv output needs a projection plan")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Goal", "Mode", "Profile", "Achievable", "MonthlyPayment", "Months", "MonthsLowerBound", "MonthsUpperBound"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	plan := report.Plan
	for _, p := range plan.Projections {
		row := []string{
			plan.Goal.ID,
			string(plan.Mode.Kind),
			p.Profile,
			"true",
			p.MonthlyPayment.StringFixed(2),
			strconv.Itoa(p.Months),
			optionalInt(p.MonthsLowerBound),
			optionalInt(p.MonthsUpperBound),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	for _, name := range plan.Excluded {
		if err := w.Write([]string{plan.Goal.ID, string(plan.Mode.Kind), name, "false", "", "", "", ""}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// TrajectoryCSV writes one row per sampled month for charting tools.
type TrajectoryCSV struct{}

func (t TrajectoryCSV) Name() string { return "detailed-csv" }

func (t TrajectoryCSV) Format(report *Report) ([]byte, error) {
	if report.Plan == nil {
		return nil, fmt.Errorf("trajectory output needs a projection plan")
	}
	plan := report.Plan
	names := make([]string, 0, len(plan.Projections))
	if len(plan.Trajectory) > 0 {
		for _, p := range plan.Projections {
			if _, ok := plan.Trajectory[0].ProjectedValue[p.Profile]; ok {
				names = append(names, p.Profile)
			}
		}
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(append([]string{"Month", "TotalContributed"}, names...)); err != nil {
		return nil, err
	}
	for _, pt := range plan.Trajectory {
		row := []string{strconv.Itoa(pt.MonthIndex), pt.TotalContributed.StringFixed(2)}
		for _, n := range names {
			row = append(row, pt.ProjectedValue[n].StringFixed(2))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
