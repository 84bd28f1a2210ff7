// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server over the shared store.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/fitlife/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "fitlife": {
        "command": "fitlife",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  register_user      Create an account
  login              Check an email and password
  add_routine        Create a routine with exercises and equipment
  list_routines      List a user's routines
  get_routine        Get a routine with exercises, equipment, and location
  complete_routine   Mark a routine completed
  delete_routine     Delete a routine
  add_location       Save a workout location
  list_locations     List saved locations
  get_checklist      Equipment for scheduled routines

AVAILABLE RESOURCES:

  fitlife://users     Registered accounts
  fitlife://summary   Per-user progress dashboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := store.DB(ctx)
		if err != nil {
			return err
		}
		r, err := store.Repositories(ctx)
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(db, r, logger)
		if err != nil {
			return err
		}
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
