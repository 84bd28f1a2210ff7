// ABOUTME: CLI commands for saved workout locations.
// ABOUTME: Supports add, list, and delete; deleting a location unsets it on routines.
package main

import (
	"fmt"
	"strconv"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/spf13/cobra"
)

var (
	locationType    string
	locationAddress string
)

var locationCmd = &cobra.Command{
	Use:     "location",
	Aliases: []string{"loc"},
	Short:   "Manage workout locations",
	Long: `Save the places you train and attach them to routines.

TYPES:

  GYM, YOGA_STUDIO, PARK, HOME, POOL, OTHER (case-insensitive, default GYM)

EXAMPLES:

  fitlife location add "Downtown Gym" 40.71 -74.00
  fitlife location add "Lake" 40.78 -73.96 --type park --address "Central Park"
  fitlife routine location 1 2

Deleting a location keeps its routines and clears their location.`,
}

var locationAddCmd = &cobra.Command{
	Use:   "add <name> <latitude> <longitude>",
	Short: "Save a location",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		lat, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude: %s", args[1])
		}
		lng, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude: %s", args[2])
		}

		l := models.NewLocation(u.ID, args[0], lat, lng).WithAddress(locationAddress)
		if locationType != "" {
			l.WithType(models.LocationType(locationType))
		}
		saved, err := unwrap(r.Locations.AddLocation(cmd.Context(), l))
		if err != nil {
			return err
		}
		printOK(cmd, "Saved %s %s", saved.LocationType.Emoji(), saved.Name)
		printf(cmd, "  %s %.5f, %.5f %s\n", idLabel(saved.ID), saved.Latitude, saved.Longitude, faint.Sprint(saved.LocationType.DisplayName()))
		return nil
	},
}

var locationListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}

		var filter models.LocationType
		if locationType != "" {
			t, ok := models.ParseLocationType(locationType)
			if !ok {
				return fmt.Errorf("unknown location type: %s", locationType)
			}
			filter = t
		}

		locations, err := r.Locations.AllLocationsForUser(cmd.Context(), u.ID)
		if err != nil {
			return fmt.Errorf("failed to list locations: %w", err)
		}

		shown := 0
		for _, l := range locations {
			if filter != "" && l.LocationType != filter {
				continue
			}
			address := ""
			if l.Address != "" {
				address = faint.Sprintf(" (%s)", truncate(l.Address, 30))
			}
			printf(cmd, "%s %s %s%s\n", idLabel(l.ID), l.LocationType.Emoji(), padRight(l.Name, 20), address)
			shown++
		}
		if shown == 0 {
			printf(cmd, "No locations found.\n")
		}
		return nil
	},
}

var locationDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a location",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		l, err := r.Locations.GetLocation(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get location: %w", err)
		}
		if l == nil || l.UserID != u.ID {
			return fmt.Errorf("location not found: %d", id)
		}
		if _, err := unwrap(r.Locations.DeleteLocation(cmd.Context(), l)); err != nil {
			return err
		}
		printRemoved(cmd, "Deleted location %s", l.Name)
		return nil
	},
}

func init() {
	locationAddCmd.Flags().StringVarP(&locationType, "type", "t", "", "location type (default GYM)")
	locationAddCmd.Flags().StringVar(&locationAddress, "address", "", "street address")
	locationListCmd.Flags().StringVarP(&locationType, "type", "t", "", "filter by location type")

	locationCmd.AddCommand(locationAddCmd, locationListCmd, locationDeleteCmd)
	rootCmd.AddCommand(locationCmd)
}
