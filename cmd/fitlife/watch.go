// ABOUTME: CLI command streaming live query results until interrupted.
// ABOUTME: Each write touching the watched rows prints a fresh snapshot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/fitlife/internal/live"
	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/repository"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	watchCount    int
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <routines|checklist|stats|locations>",
	Short: "Stream live results until interrupted",
	Long: `Keep a query open and print a fresh result after every change to the
rows it depends on. Changes made by other fitlife processes on the same
database are picked up by polling every --interval. Press Ctrl-C to stop.

VIEWS:

  routines    the --user routines
  checklist   equipment for scheduled routines
  stats       scheduled and completed routine counts
  locations   saved locations

Use --count to stop after a number of results.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"routines", "checklist", "stats", "locations"},
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}

		var view func(ctx context.Context) error
		switch args[0] {
		case "routines":
			view = func(ctx context.Context) error {
				return stream(ctx, cmd, r.Workouts.WatchRoutines(ctx, u.ID), func(routines []models.Routine) {
					if len(routines) == 0 {
						printf(cmd, "No routines found.\n")
					}
					for _, rt := range routines {
						printRoutine(cmd, rt)
					}
				})
			}
		case "checklist":
			view = func(ctx context.Context) error {
				return stream(ctx, cmd, r.Workouts.WatchChecklist(ctx, u.ID), func(items []models.Equipment) {
					printf(cmd, "%s", storage.ChecklistMarkdown(items))
				})
			}
		case "stats":
			view = func(ctx context.Context) error {
				return stream(ctx, cmd, r.Workouts.WatchStats(ctx, u.ID), func(s repository.RoutineStats) {
					printf(cmd, "Completed %d of %d scheduled routines\n", s.Completed, s.Scheduled)
				})
			}
		case "locations":
			view = func(ctx context.Context) error {
				return stream(ctx, cmd, r.Locations.WatchLocations(ctx, u.ID), func(locations []models.Location) {
					if len(locations) == 0 {
						printf(cmd, "No locations found.\n")
					}
					for _, l := range locations {
						printf(cmd, "%s %s %s\n", idLabel(l.ID), l.LocationType.Emoji(), l.Name)
					}
				})
			}
		default:
			return fmt.Errorf("unknown view: %s (use routines, checklist, stats, or locations)", args[0])
		}

		db, err := store.DB(cmd.Context())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		followCtx, stopFollow := context.WithCancel(gctx)
		g.Go(func() error {
			return db.FollowExternalWrites(followCtx, watchInterval)
		})
		g.Go(func() error {
			defer stopFollow()
			return view(gctx)
		})
		return g.Wait()
	},
}

// stream prints each result until ctx ends, the subscription fails, or
// watchCount results have been shown.
func stream[T any](ctx context.Context, cmd *cobra.Command, sub *live.Subscription[T], render func(T)) error {
	defer sub.Cancel()
	logger.Debug("watching", "subscription", sub.ID())

	for shown := 0; watchCount == 0 || shown < watchCount; shown++ {
		v, ok := sub.Next(ctx)
		if !ok {
			break
		}
		heading.Fprintf(cmd.OutOrStdout(), "── %s ──\n", time.Now().Format("15:04:05"))
		render(v)
	}
	if err := sub.Err(); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

func init() {
	watchCmd.Flags().IntVarP(&watchCount, "count", "n", 0, "stop after this many results (0 = until interrupted)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", storage.DefaultFollowInterval, "how often to check for changes from other processes")
	rootCmd.AddCommand(watchCmd)
}
