package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/config"
	"github.com/sadopc/focusflow/internal/export"
	"github.com/sadopc/focusflow/internal/insights"
	"github.com/sadopc/focusflow/internal/session"
	"github.com/sadopc/focusflow/internal/sound"
	"github.com/sadopc/focusflow/internal/stats"
	"github.com/sadopc/focusflow/internal/store"
	"github.com/sadopc/focusflow/internal/tracker"
	"github.com/sadopc/focusflow/internal/tui"
)

type rootOptions struct {
	configPath string
	dbPath     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	if p, err := config.DefaultPath(); err == nil {
		opts.configPath = p
	}

	root := &cobra.Command{
		Use:           "focusflow",
		Short:         "Study time tracker with a focus timer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "config file")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (overrides config)")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newLogCmd(opts))
	root.AddCommand(newDeleteCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newGoalsCmd(opts))
	root.AddCommand(newInsightsCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newSeedCmd(opts))
	root.AddCommand(newSettingsCmd(opts))
	return root
}

// app is everything a command needs, opened from config.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *store.Store
	tracker *tracker.Tracker
	logFile io.Closer
}

func loadApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if cfg.DBPath == "" {
		if cfg.DBPath, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}

	logger, logFile, err := cfg.OpenLogger()
	if err != nil {
		return nil, err
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		store:   s,
		tracker: tracker.New(s, tracker.WithLogger(logger)),
		logFile: logFile,
	}
	if cfg.SeedOnEmpty {
		if err := a.tracker.Seed(newRand()); err != nil {
			logger.Warn("seed on empty", "err", err)
		}
	}
	logger.Debug("opened", "db", cfg.DBPath)
	return a, nil
}

func (a *app) Close() {
	a.store.Close()
	a.logFile.Close()
}

func (a *app) analyzer() *insights.Gemini {
	g := insights.NewGemini(a.cfg.Insights.APIKey, a.cfg.Insights.Model, a.cfg.Insights.Endpoint, a.cfg.Insights.Timeout)
	g.Logger = a.logger
	return g
}

func newRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>1))
}

func runTUI(opts *rootOptions) error {
	a, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	engine := session.New(
		session.WithPlayer(sound.NewBeeper()),
		session.WithLogger(a.logger),
	)
	m := tui.NewApp(tui.Options{
		Tracker:         a.tracker,
		Engine:          engine,
		Analyzer:        a.analyzer(),
		InsightsTimeout: a.cfg.Insights.Timeout,
		Logger:          a.logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI (default)",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}
}

func newLogCmd(opts *rootOptions) *cobra.Command {
	var date, hours, notes string
	cmd := &cobra.Command{
		Use:   "log --hours <h>",
		Short: "Set the hours studied on a date, replacing any existing entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if date == "" {
				date = a.tracker.Today()
			}
			h, err := tracker.ParseHours(hours)
			if err != nil {
				return err
			}
			if err := a.tracker.SaveEntry(date, h, notes); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged %.1f hrs on %s\n", h, date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&hours, "hours", "", "hours studied (0-24)")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var date string
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete --date <date>",
		Short: "Delete the entry for a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(date) == "" {
				return fmt.Errorf("--date is required")
			}
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, ok := a.tracker.Entry(date); !ok {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no entry on %s\n", date)
				return nil
			}
			if !yes {
				confirm := false
				err := huh.NewConfirm().
					Title(fmt.Sprintf("Delete the entry for %s?", date)).
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirm).
					Run()
				if err != nil {
					return err
				}
				if !confirm {
					return nil
				}
			}
			if err := a.tracker.DeleteEntry(date); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print totals, streaks and goal progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			snap := a.tracker.Snapshot()
			now := a.tracker.Now()
			sum := stats.Summarize(snap.Logs)
			streak := stats.Streaks(snap.Logs, now)
			prog := stats.GoalsProgress(snap.Logs, snap.Goals, now)

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "days logged:    %d\n", len(snap.Logs))
			_, _ = fmt.Fprintf(out, "total:          %.1f hrs\n", sum.Total)
			_, _ = fmt.Fprintf(out, "daily average:  %.1f hrs\n", sum.Average)
			_, _ = fmt.Fprintf(out, "weekday/weekend: %.1f / %.1f hrs\n", sum.Weekday, sum.Weekend)
			_, _ = fmt.Fprintf(out, "streak:         %d days (longest %d)\n", streak.Current, streak.Longest)
			_, _ = fmt.Fprintf(out, "week:           %.1f / %d hrs (%.0f%%)\n", prog.Hours.Week, snap.Goals.Weekly, prog.Weekly)
			_, _ = fmt.Fprintf(out, "month:          %.1f / %d hrs (%.0f%%)\n", prog.Hours.Month, snap.Goals.Monthly, prog.Monthly)
			_, _ = fmt.Fprintf(out, "year:           %.1f / %d hrs (%.0f%%)\n", prog.Hours.Year, snap.Goals.Yearly, prog.Yearly)
			return nil
		},
	}
}

func newGoalsCmd(opts *rootOptions) *cobra.Command {
	var weekly, monthly, yearly int
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Show or set the weekly, monthly and yearly targets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			g := a.tracker.Goals()
			changed := false
			if cmd.Flags().Changed("weekly") {
				g.Weekly, changed = weekly, true
			}
			if cmd.Flags().Changed("monthly") {
				g.Monthly, changed = monthly, true
			}
			if cmd.Flags().Changed("yearly") {
				g.Yearly, changed = yearly, true
			}
			if changed {
				if err := a.tracker.UpdateGoals(g); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "weekly: %d\nmonthly: %d\nyearly: %d\n", g.Weekly, g.Monthly, g.Yearly)
			return nil
		},
	}
	cmd.Flags().IntVar(&weekly, "weekly", 0, "weekly goal in hours")
	cmd.Flags().IntVar(&monthly, "monthly", 0, "monthly goal in hours")
	cmd.Flags().IntVar(&yearly, "yearly", 0, "yearly goal in hours")
	return cmd
}

func newInsightsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Ask Gemini for feedback on the last 90 days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Insights.Timeout)
			defer cancel()
			res, err := a.analyzer().Analyze(ctx, a.tracker.Logs())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, res.Summary)
			_, _ = fmt.Fprintln(out, "\nStrengths:")
			for _, s := range res.Strengths {
				_, _ = fmt.Fprintf(out, "  + %s\n", s)
			}
			_, _ = fmt.Fprintln(out, "\nTo improve:")
			for _, s := range res.Improvements {
				_, _ = fmt.Fprintf(out, "  - %s\n", s)
			}
			if res.Tip != "" {
				_, _ = fmt.Fprintf(out, "\nTip: %s\n", res.Tip)
			}
			return nil
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, outPath string
	cmd := &cobra.Command{
		Use:   "export --format csv|json",
		Short: "Export all entries as CSV or JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			logs := a.tracker.Logs()
			if outPath == "" {
				if format == "csv" {
					return export.WriteCSV(cmd.OutOrStdout(), logs)
				}
				return export.WriteJSON(cmd.OutOrStdout(), logs)
			}
			if format == "csv" {
				err = export.ToCSV(logs, outPath)
			} else {
				err = export.ToJSON(logs, outPath)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "exported %d entries to %s\n", len(logs), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	return cmd
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with a year of sample data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if n := len(a.tracker.Logs()); n > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "database already has %d entries, not seeding\n", n)
				return nil
			}
			if err := a.tracker.Seed(newRand()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d entries\n", len(a.tracker.Logs()))
			return nil
		},
	}
}

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the stored settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			settings, err := a.store.GetAllSettings()
			if err != nil {
				return err
			}
			for _, s := range settings {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", s.Key, s.Value)
			}
			return nil
		},
	}
}
