package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rgehrsitz/goalfund/internal/calculation"
	"github.com/rgehrsitz/goalfund/internal/config"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/logging"
	"github.com/rgehrsitz/goalfund/internal/output"
	"github.com/rgehrsitz/goalfund/internal/profiles"
	"github.com/rgehrsitz/goalfund/internal/simulation"
	"github.com/rgehrsitz/goalfund/internal/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// environment is everything a command needs, built from settings, .env, flags and the catalog.
type environment struct {
	settings config.Settings
	catalog  *domain.Catalog
	registry *profiles.Registry
	engine   *calculation.CalculationEngine
	base     zerolog.Logger
	log      logging.Logger
	today    time.Time
	format   string
}

func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	if err := config.LoadEnvFiles(); err != nil {
		return nil, err
	}

	settingsPath, _ := cmd.Flags().GetString("config")
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	settings.ApplyEnv()

	if catalog, _ := cmd.Flags().GetString("catalog"); catalog != "" {
		settings.Catalog = catalog
	}
	debugMode, _ := cmd.Flags().GetBool("debug")
	if debugMode {
		settings.Logging.Level = "debug"
	}

	base := logging.NewConsole(cmd.ErrOrStderr(), settings.Logging.Level)
	env := &environment{
		settings: settings,
		base:     base,
		log:      logging.NewZeroLogger(base, "cli"),
		format:   settings.Output,
	}
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		env.format = f
	}

	env.today = time.Now()
	if asOf, _ := cmd.Flags().GetString("as-of"); asOf != "" {
		env.today, err = time.Parse("2006-01-02", asOf)
		if err != nil {
			return nil, fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
		}
	}

	env.catalog, err = config.LoadCatalog(settings.Catalog)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	preservation := settings.CapitalPreservation
	if env.catalog.CapitalPreservation != nil {
		preservation = *env.catalog.CapitalPreservation
	}
	env.registry, err = profiles.New(env.catalog.Profiles, preservation)
	if err != nil {
		return nil, err
	}

	env.engine = calculation.NewCalculationEngine(env.registry)
	env.engine.SetLogger(logging.NewZeroLogger(base, "engine"))
	env.engine.Debug = debugMode
	return env, nil
}

// adapter wires the simulation client and its SQLite cache. The returned func releases the cache.
func (env *environment) adapter() (*simulation.Adapter, func()) {
	logger := logging.NewZeroLogger(env.base, "simulation")
	client := simulation.NewHTTPClient(env.settings.Simulation.BaseURL, env.settings.Simulation.Timeout.Duration)
	if client == nil {
		logger.Debugf("no simulation service configured, using the fixed-rate fallback")
		return simulation.NewAdapter(nil, nil, logger), func() {}
	}

	if !env.settings.Cache.Enabled {
		return simulation.NewAdapter(client, nil, logger), func() {}
	}
	cache, err := store.Open(env.settings.CachePath(), store.Options{
		TTL:        env.settings.Cache.TTL.Duration,
		MaxEntries: env.settings.Cache.MaxEntries,
	})
	if err != nil {
		logger.Warnf("simulation cache disabled: %v", err)
		return simulation.NewAdapter(client, nil, logger), func() {}
	}
	return simulation.NewAdapter(client, cache, logger), func() { _ = cache.Close() }
}

func (env *environment) goal(id string) (domain.Goal, error) {
	g, ok := env.catalog.FindGoal(id)
	if !ok {
		return domain.Goal{}, fmt.Errorf("%q: %w", id, domain.ErrUnknownGoal)
	}
	return g, nil
}

func (env *environment) render(w io.Writer, report *output.Report) error {
	report.GeneratedAt = env.today
	report.Profiles = env.registry.All()
	return output.GenerateReport(w, report, env.format)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "goalfund %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [catalog-file]",
		Short: "Validate a goal and profile catalog",
		Long:  "Validate a catalog file, or the built-in catalog when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if _, err := config.DefaultCatalog(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Built-in catalog is valid")
				return nil
			}
			if !fileExists(args[0]) {
				return fmt.Errorf("catalog file not found: %s", args[0])
			}
			catalog, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog file %s is valid (%d profiles, %d goals)\n",
				args[0], len(catalog.Profiles), len(catalog.Goals))
			return nil
		},
	}
}

func profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List risk profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLABEL\tEXPECTED\tRANGE\tVOLATILITY")
			for _, p := range env.registry.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s to %s\t%s\n", p.Name, p.DisplayName(),
					output.FormatRate(p.ExpectedAnnualReturn), output.FormatRate(p.Range.Lower),
					output.FormatRate(p.Range.Upper), output.FormatRate(p.Volatility))
			}
			return tw.Flush()
		},
	}
}

func goalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goals",
		Short: "List catalog goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tRECOMMENDED")
			for _, g := range env.catalog.Goals {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", g.ID, g.Title, g.Category,
					output.FormatCurrency(g.FinalPrice), g.RecommendedStrategy)
			}
			return tw.Flush()
		},
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "goalfund",
		Short: "Goal funding projection calculator",
		Long: "Project how long it takes to fund a savings goal under different risk profiles, commit to a plan\n" +
			"and track milestones as deposits arrive.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "settings file (default "+config.SettingsPath()+")")
	pf.String("catalog", "", "goal and profile catalog (default: built-in)")
	pf.StringP("format", "f", "", "output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	pf.String("as-of", "", "plan as of this date (YYYY-MM-DD) instead of today")
	pf.Bool("debug", false, "enable debug logging")

	root.AddCommand(
		projectCmd(),
		commitCmd(),
		depositCmd(),
		simulateCmd(),
		requiredRateCmd(),
		profilesCmd(),
		goalsCmd(),
		validateCmd(),
		serveCmd(),
		tuiCmd(),
		versionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
