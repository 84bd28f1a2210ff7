// ABOUTME: CLI command for exporting FitLife data.
// ABOUTME: Supports JSON, YAML, and the Markdown equipment checklist.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export FitLife data",
	Long: `Export FitLife data in various formats.

FORMATS:

  json       Every user with routines, exercises, equipment and locations
  yaml       The same, human-readable, with schedules as day names
  markdown   The --user equipment checklist in its shareable layout

Credentials are never exported.

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  fitlife export json -o backup.json
  fitlife export yaml
  fitlife --user ann@example.com export markdown`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		ctx := cmd.Context()

		var data []byte
		switch format {
		case "json", "yaml":
			db, err := store.DB(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			if format == "json" {
				data, err = db.ExportJSON(ctx)
			} else {
				data, err = db.ExportYAML(ctx)
			}
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
		case "markdown":
			_, u, err := session(cmd)
			if err != nil {
				return err
			}
			db, err := store.DB(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			md, err := db.ExportChecklist(ctx, u.ID)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			printOK(cmd, "Exported to %s", exportOutput)
			return nil
		}
		printf(cmd, "%s\n", data)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
