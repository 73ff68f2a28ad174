package breakeven

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// TableFormatter formats a required-return result for the console
type TableFormatter struct{}

// Format generates the console text
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("REQUIRED RETURN\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	if result.Request.GoalID != "" {
		sb.WriteString(fmt.Sprintf("Goal:               %s\n", result.Request.GoalID))
	}
	sb.WriteString(fmt.Sprintf("Target:             $%s\n", result.Request.Target.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Budget:             $%s/month for %d months\n", result.Request.Monthly.StringFixed(2), result.Request.Months))
	sb.WriteString(fmt.Sprintf("Contributed:        $%s\n", result.Contributed.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Needed from growth: %s\n", tf.formatSigned(result.GrowthNeeded.StringFixed(2))))
	sb.WriteString("\n")

	if result.AtLowerBound {
		sb.WriteString(fmt.Sprintf("Required return:    at most %.2f%%/yr (%s)\n", result.RequiredRate*100, result.ConvergenceInfo))
	} else {
		sb.WriteString(fmt.Sprintf("Required return:    %.2f%%/yr\n", result.RequiredRate*100))
		sb.WriteString(fmt.Sprintf("Iterations:         %d (%s)\n", result.Iterations, result.ConvergenceInfo))
	}

	if len(result.Covering) == 0 {
		sb.WriteString("Profiles:           none expects that much\n")
	} else {
		sb.WriteString(fmt.Sprintf("Profiles:           %s\n", strings.Join(result.Covering, ", ")))
	}
	return sb.String()
}

func (tf *TableFormatter) formatSigned(amount string) string {
	if strings.HasPrefix(amount, "-") {
		return "-$" + strings.TrimPrefix(amount, "-")
	}
	return "$" + amount
}

// WriteJSON writes the result as indented JSON
func WriteJSON(w io.Writer, result *Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal required return: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
