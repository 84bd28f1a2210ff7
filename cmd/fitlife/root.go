// ABOUTME: Root Cobra command for fitlife CLI.
// ABOUTME: Loads config and owns the lazily opened store via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/harperreed/fitlife/internal/config"
	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/repository"
	"github.com/spf13/cobra"
)

var (
	flagDB      string
	flagConfig  string
	flagUser    string
	flagVerbose bool

	cfg    *config.Config
	store  *config.Lazy
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fitlife",
	Short: "Workout routines, exercises, equipment and locations",
	Long: `FitLife keeps your workout routines, their exercises and equipment, and the
places you train, in one local database.

QUICK START:

  $ fitlife user register ann@example.com "Ann" --password s3cret
  $ fitlife --user ann@example.com routine add "Leg Day" --days mon,thu
  $ fitlife --user ann@example.com exercise add 1 Squat --sets 5 --reps 5
  $ fitlife --user ann@example.com equipment add 1 Barbell "Lifting belt"
  $ fitlife --user ann@example.com checklist

SESSION:

  Commands acting on your data need --user <email> (or FITLIFE_USER).

LIVE VIEWS:

  $ fitlife --user ann@example.com watch routines
  $ fitlife --user ann@example.com watch checklist

MCP INTEGRATION:

  Run 'fitlife mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "fitlife": { "command": "fitlife", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data is stored in SQLite at ~/.local/share/fitlife/fitlife.db.
  Settings are read from ~/.config/fitlife/config.toml.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagDB != "" {
			cfg.DBPath = flagDB
		}

		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "fitlife"})
		level, err := cfg.GetLogLevel()
		if err != nil {
			return err
		}
		if flagVerbose {
			level = log.DebugLevel
		}
		logger.SetLevel(level)

		store = config.NewLazy(cfg, logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			err := store.Close()
			store = nil
			return err
		}
		return nil
	},
}

func init() {
	// main reports the error once.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database file (default: data_dir/fitlife.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ~/.config/fitlife/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "acting user email (default: $FITLIFE_USER)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

// repos returns the facades over the shared store.
func repos(cmd *cobra.Command) (*repository.Repositories, error) {
	if store == nil {
		return nil, errors.New("store not initialized")
	}
	r, err := store.Repositories(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return r, nil
}

// currentUser resolves --user to a stored account.
func currentUser(cmd *cobra.Command, r *repository.Repositories) (*models.User, error) {
	email := strings.TrimSpace(flagUser)
	if email == "" {
		email = strings.TrimSpace(os.Getenv("FITLIFE_USER"))
	}
	if email == "" {
		return nil, errors.New("no user selected: pass --user <email> or set FITLIFE_USER")
	}
	u, err := r.Users.GetByEmail(cmd.Context(), email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user not found: %s", email)
	}
	return u, nil
}

// unwrap returns the value of a facade result, or its rejection as the
// command error.
func unwrap[T any](res repository.Result[T], err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	if !res.OK() {
		var zero T
		return zero, res.Err()
	}
	return res.Value, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

// parseDays reads a comma-separated list of day names or indexes.
func parseDays(s string) (models.Weekdays, error) {
	var days models.Weekdays
	for _, tok := range strings.Split(s, ",") {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		d, ok := models.ParseDayName(tok)
		if !ok {
			return 0, fmt.Errorf("unknown day: %s", strings.TrimSpace(tok))
		}
		days = days.Add(d)
	}
	return days, nil
}

func formatDays(w models.Weekdays) string {
	if !w.IsScheduled() {
		return "unscheduled"
	}
	var names []string
	for _, d := range w.List() {
		names = append(names, models.ShortDayName(d))
	}
	return strings.Join(names, ",")
}

var (
	faint   = color.New(color.Faint)
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	heading = color.New(color.Bold)
)

func printOK(cmd *cobra.Command, format string, a ...any) {
	success.Fprintf(cmd.OutOrStdout(), "✓ "+format+"\n", a...)
}

func printRemoved(cmd *cobra.Command, format string, a ...any) {
	warning.Fprintf(cmd.OutOrStdout(), "✗ "+format+"\n", a...)
}

func printf(cmd *cobra.Command, format string, a ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}

func idLabel(id int64) string {
	return faint.Sprintf("#%d", id)
}

func padRight(s string, length int) string {
	if len([]rune(s)) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len([]rune(s)))
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
