package main

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/goalfund/internal/breakeven"
	"github.com/rgehrsitz/goalfund/internal/calculation"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func requiredRateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "required-rate [goal-id]",
		Short: "Solve the annual return a budget needs to fund a goal",
		Long: "Given a monthly contribution and a horizon (--date or --months), find the smallest annual return\n" +
			"that reaches the goal price, and list the profiles expected to earn it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			goal, err := env.goal(args[0])
			if err != nil {
				return err
			}

			monthlyStr, _ := cmd.Flags().GetString("monthly")
			monthly, err := decimal.NewFromString(monthlyStr)
			if err != nil {
				return fmt.Errorf("--monthly %q is not an amount: %w", monthlyStr, err)
			}
			months, err := horizonFromFlags(cmd, env.today)
			if err != nil {
				return err
			}

			solver := breakeven.NewDefaultSolver(env.registry)
			result, err := solver.Solve(cmd.Context(), breakeven.Request{
				GoalID:  goal.ID,
				Target:  goal.FinalPrice,
				Monthly: monthly,
				Months:  months,
			})
			if err != nil {
				return err
			}
			env.log.Debugf("required rate for %s: %.6f after %d iterations", goal.ID, result.RequiredRate, result.Iterations)

			if env.format == "json" {
				return breakeven.WriteJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprint(cmd.OutOrStdout(), (&breakeven.TableFormatter{}).Format(result))
			return nil
		},
	}
	cmd.Flags().String("monthly", "", "monthly contribution")
	cmd.Flags().String("date", "", "target completion month, YYYY-MM")
	cmd.Flags().Int("months", 0, "number of monthly contributions")
	_ = cmd.MarkFlagRequired("monthly")
	cmd.MarkFlagsMutuallyExclusive("date", "months")
	return cmd
}

// horizonFromFlags reads --months directly or counts months from today to --date.
func horizonFromFlags(cmd *cobra.Command, today time.Time) (int, error) {
	if months, _ := cmd.Flags().GetInt("months"); months != 0 {
		return months, nil
	}
	dateStr, _ := cmd.Flags().GetString("date")
	if dateStr == "" {
		return 0, fmt.Errorf("one of --date or --months is required")
	}
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return calculation.MonthsBetween(today, t), nil
		}
	}
	return 0, fmt.Errorf("--date %q must be YYYY-MM or YYYY-MM-DD", dateStr)
}
