package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/goalfund/internal/calculation"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/milestone"
	"github.com/rgehrsitz/goalfund/internal/output"
	"github.com/rgehrsitz/goalfund/internal/planner"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// modeFromFlags reads --date or --monthly; exactly one must be set.
func modeFromFlags(cmd *cobra.Command) (domain.ProjectionMode, error) {
	dateStr, _ := cmd.Flags().GetString("date")
	monthlyStr, _ := cmd.Flags().GetString("monthly")

	switch {
	case dateStr != "" && monthlyStr != "":
		return domain.ProjectionMode{}, fmt.Errorf("use either --date or --monthly, not both")
	case dateStr != "":
		for _, layout := range []string{"2006-01", "2006-01-02"} {
			if t, err := time.Parse(layout, dateStr); err == nil {
				return domain.FixedDate(t), nil
			}
		}
		return domain.ProjectionMode{}, fmt.Errorf("--date %q must be YYYY-MM or YYYY-MM-DD", dateStr)
	case monthlyStr != "":
		amount, err := decimal.NewFromString(monthlyStr)
		if err != nil {
			return domain.ProjectionMode{}, fmt.Errorf("--monthly %q is not an amount: %w", monthlyStr, err)
		}
		return domain.FixedPayment(amount), nil
	default:
		return domain.ProjectionMode{}, fmt.Errorf("one of --date (fixed date) or --monthly (fixed payment) is required")
	}
}

func addModeFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "target completion month, YYYY-MM (fixed-date mode)")
	cmd.Flags().String("monthly", "", "monthly contribution (fixed-payment mode)")
}

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [goal-id]",
		Short: "Project a goal under every risk profile",
		Long: "Solve the monthly payment (--date) or the number of months (--monthly) for a catalog goal under\n" +
			"each risk profile and print the growth trajectory.",
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
			mode, err := modeFromFlags(cmd)
			if err != nil {
				return err
			}

			selected, _ := cmd.Flags().GetString("select")
			hidden, _ := cmd.Flags().GetStringSlice("hide")
			points, _ := cmd.Flags().GetInt("points")
			opts := calculation.TrajectoryOptions{Selected: selected, MaxPoints: points}
			if len(hidden) > 0 {
				opts.Hidden = make(map[string]bool, len(hidden))
				for _, name := range hidden {
					if _, ok := env.registry.Get(name); !ok {
						return fmt.Errorf("--hide %q: %w", name, domain.ErrUnknownProfile)
					}
					opts.Hidden[name] = true
				}
			}

			session := planner.NewSession(env.engine, nil, goal)
			if err := session.SetMode(mode); err != nil {
				return err
			}
			plan, err := session.Plan(env.today, opts)
			if err != nil {
				return err
			}
			if len(plan.Projections) == 0 {
				env.log.Warnf("%s: %v", goal.ID, domain.ErrNotAchievable)
			}
			return env.render(cmd.OutOrStdout(), &output.Report{Plan: plan})
		},
	}
	addModeFlags(cmd)
	cmd.Flags().String("select", "", "profile whose contributions form the baseline (default: recommended)")
	cmd.Flags().StringSlice("hide", nil, "profiles to leave off the chart")
	cmd.Flags().Int("points", 0, "maximum trajectory samples (default 50)")
	return cmd
}

func commitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit [goal-id]",
		Short: "Commit to a profile and save the plan",
		Long: "Turn one profile's projection into a committed plan with a milestone ladder, refine it with the\n" +
			"simulation service and save it as JSON for later deposits.",
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
			mode, err := modeFromFlags(cmd)
			if err != nil {
				return err
			}

			profile, _ := cmd.Flags().GetString("profile")
			if profile == "" {
				profile = goal.RecommendedStrategy
			}
			clientRef, _ := cmd.Flags().GetString("client")
			outPath, _ := cmd.Flags().GetString("out")
			if outPath == "" {
				outPath = goal.ID + ".goal.json"
			}

			adapter, release := env.adapter()
			defer release()

			session := planner.NewSession(env.engine, adapter, goal)
			if err := session.SetMode(mode); err != nil {
				return err
			}
			commitment, err := session.Commit(cmd.Context(), profile, clientRef, env.today)
			if err != nil {
				return err
			}
			plan, err := session.Plan(env.today, calculation.TrajectoryOptions{Selected: profile})
			if err != nil {
				return err
			}

			if err := output.SaveUserGoal(&commitment.UserGoal, outPath); err != nil {
				return fmt.Errorf("saving plan: %w", err)
			}
			env.log.Infof("plan for %s saved to %s", goal.ID, outPath)

			progress := milestone.Summarize(commitment.UserGoal)
			return env.render(cmd.OutOrStdout(), &output.Report{
				Plan:       plan,
				UserGoal:   &commitment.UserGoal,
				Progress:   &progress,
				Completion: commitment.Completion,
			})
		},
	}
	addModeFlags(cmd)
	cmd.Flags().StringP("profile", "p", "", "risk profile to commit to (default: recommended)")
	cmd.Flags().String("client", "local", "client reference passed to the simulation service")
	cmd.Flags().StringP("out", "o", "", "where to save the committed plan (default <goal-id>.goal.json)")
	return cmd
}

func depositCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [plan-file]",
		Short: "Record a deposit or withdrawal against a committed plan",
		Long: "Fold a contribution (positive --amount) or withdrawal (negative --amount) into a saved plan and\n" +
			"report any milestones reached. Re-sending the same --id is a no-op.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			goal, err := output.LoadUserGoal(args[0])
			if err != nil {
				return err
			}

			amountStr, _ := cmd.Flags().GetString("amount")
			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("--amount %q is not an amount: %w", amountStr, err)
			}
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				id = milestone.NewID(env.today)
			}

			tracker := milestone.NewTracker(env.log)
			updated, events, err := tracker.ApplyDeposit(*goal, domain.DepositEvent{ID: id, Amount: amount, At: env.today})
			switch {
			case errors.Is(err, domain.ErrDuplicateEvent):
				fmt.Fprintf(cmd.OutOrStdout(), "Deposit %s was already recorded; nothing changed\n", id)
				return nil
			case err != nil:
				return err
			}

			if err := output.SaveUserGoal(&updated, args[0]); err != nil {
				return fmt.Errorf("saving plan: %w", err)
			}
			progress := milestone.Summarize(updated)
			return env.render(cmd.OutOrStdout(), &output.Report{
				UserGoal: &updated,
				Progress: &progress,
				Events:   events,
			})
		},
	}
	cmd.Flags().String("amount", "", "amount deposited; negative for a withdrawal")
	cmd.Flags().String("id", "", "deposit id for de-duplication (default: generated)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [client-ref]",
		Short: "Project completion using the simulation service",
		Long: "Run a short simulation for the client, infer an annual rate and build a year-by-year ledger.\n" +
			"Falls back to a fixed 7% rate when the service is not configured or unavailable.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			targetStr, _ := cmd.Flags().GetString("target")
			monthlyStr, _ := cmd.Flags().GetString("monthly")
			months, _ := cmd.Flags().GetInt("months")

			target, err := decimal.NewFromString(targetStr)
			if err != nil {
				return fmt.Errorf("--target %q is not an amount: %w", targetStr, err)
			}
			monthly, err := decimal.NewFromString(monthlyStr)
			if err != nil {
				return fmt.Errorf("--monthly %q is not an amount: %w", monthlyStr, err)
			}

			adapter, release := env.adapter()
			defer release()

			completion, err := adapter.ProjectGoalCompletion(cmd.Context(), args[0], target, monthly, months)
			if err != nil {
				return err
			}
			return env.render(cmd.OutOrStdout(), &output.Report{
				Completion:  completion,
				Assumptions: []string{fmt.Sprintf("Target %s at %s/month over %d months", output.FormatCurrency(target), output.FormatCurrency(monthly), months)},
			})
		},
	}
	cmd.Flags().String("target", "", "target amount")
	cmd.Flags().String("monthly", "", "monthly contribution")
	cmd.Flags().Int("months", 0, "planned number of monthly contributions")
	for _, f := range []string{"target", "monthly", "months"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
