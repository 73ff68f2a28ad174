package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/goalfund/internal/config"
	"github.com/rgehrsitz/goalfund/internal/logging"
	"github.com/rgehrsitz/goalfund/internal/tui"
	"github.com/spf13/cobra"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Plan goals interactively in the terminal",
		Long: "Browse the catalog, compare profiles while adjusting the target date or monthly amount,\n" +
			"commit to a profile and record deposits. Logs go to a file so they do not disturb the screen.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}

			logPath, _ := cmd.Flags().GetString("log-file")
			if logPath == "" {
				logPath = filepath.Join(config.ConfigDir(), "goalfund-tui.log")
			}
			if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
				return fmt.Errorf("creating log directory: %w", err)
			}
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer logFile.Close()

			env.base = logging.NewConsole(logFile, env.settings.Logging.Level)
			env.engine.SetLogger(logging.NewZeroLogger(env.base, "engine"))

			adapter, release := env.adapter()
			defer release()

			saveDir, _ := cmd.Flags().GetString("save-dir")
			clientRef, _ := cmd.Flags().GetString("client")
			model := tui.NewModel(tui.Options{
				Catalog:   env.catalog,
				Engine:    env.engine,
				Adapter:   adapter,
				Logger:    logging.NewZeroLogger(env.base, "tui"),
				Today:     env.today,
				ClientRef: clientRef,
				SaveDir:   saveDir,
			})

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("save-dir", ".", "directory for committed plans (<goal-id>.goal.json); empty disables saving")
	cmd.Flags().String("client", "local", "client reference passed to the simulation service")
	cmd.Flags().String("log-file", "", "log file (default in the config directory)")
	return cmd
}
