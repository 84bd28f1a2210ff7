// ABOUTME: CLI commands for FitLife accounts.
// ABOUTME: Supports register, login, list, show, passwd, photo, and delete subcommands.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/spf13/cobra"
)

var (
	userPassword    string
	userNewPassword string
	userDeleteYes   bool
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
	Long: `Register and manage FitLife accounts.

Emails are unique and case-sensitive. Passwords are stored as bcrypt hashes.

PASSWORDS:

  Pass --password, set FITLIFE_PASSWORD, or type it on stdin when asked.

COMMANDS:

  register   Create an account
  login      Check an email and password
  list       List all accounts
  show       Show the --user account
  passwd     Change the --user password
  photo      Set or clear the --user profile photo
  delete     Delete the --user account and everything it owns`,
}

// readPassword takes the flag, then FITLIFE_PASSWORD, then one line of stdin.
func readPassword(cmd *cobra.Command, flag, prompt string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("FITLIFE_PASSWORD"); env != "" {
		return env, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var userRegisterCmd = &cobra.Command{
	Use:   "register <email> <name>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repos(cmd)
		if err != nil {
			return err
		}
		password, err := readPassword(cmd, userPassword, "Password: ")
		if err != nil {
			return err
		}

		u, err := unwrap(r.Users.Register(cmd.Context(), args[0], password, args[1]))
		if err != nil {
			return err
		}
		printOK(cmd, "Registered %s", u.Email)
		printf(cmd, "  %s %s\n", idLabel(u.ID), u.Name)
		return nil
	},
}

var userLoginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Check an email and password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repos(cmd)
		if err != nil {
			return err
		}
		password, err := readPassword(cmd, userPassword, "Password: ")
		if err != nil {
			return err
		}

		u, err := unwrap(r.Users.Login(cmd.Context(), args[0], password))
		if err != nil {
			return err
		}
		printOK(cmd, "Welcome back, %s", u.Name)
		printf(cmd, "  use --user %s for your commands\n", u.Email)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repos(cmd)
		if err != nil {
			return err
		}
		users, err := r.Users.AllUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			printf(cmd, "No users found.\n")
			return nil
		}
		for _, u := range users {
			printf(cmd, "%s %s %s\n", idLabel(u.ID), padRight(u.Email, 28), u.Name)
		}
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the --user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repos(cmd)
		if err != nil {
			return err
		}
		u, err := currentUser(cmd, r)
		if err != nil {
			return err
		}

		stats, err := r.Workouts.Stats(cmd.Context(), u.ID)
		if err != nil {
			return fmt.Errorf("failed to count routines: %w", err)
		}
		locations, err := r.Locations.AllLocationsForUser(cmd.Context(), u.ID)
		if err != nil {
			return fmt.Errorf("failed to list locations: %w", err)
		}

		heading.Fprintln(cmd.OutOrStdout(), u.Name)
		printf(cmd, "  %s %s\n", idLabel(u.ID), u.Email)
		printf(cmd, "  joined    %s\n", u.CreatedAt.Format("2006-01-02"))
		if !u.ProfilePhoto.IsZero() {
			printf(cmd, "  photo     %s (%s)\n", u.ProfilePhoto.Value, u.ProfilePhoto.Kind)
		}
		printf(cmd, "  routines  %d/%d completed\n", stats.Completed, stats.Scheduled)
		printf(cmd, "  locations %d\n", len(locations))
		return nil
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the --user password",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repos(cmd)
		if err != nil {
			return err
		}
		u, err := currentUser(cmd, r)
		if err != nil {
			return err
		}
		if userNewPassword == "" {
			return errors.New("--new-password is required")
		}
		current, err := readPassword(cmd, userPassword, "Current password: ")
		if err != nil {
			return err
		}

		if _, err := unwrap(r.Users.ChangePassword(cmd.Context(), u.ID, current, userNewPassword)); err != nil {
			return err
		}
		printOK(cmd, "Password changed for %s", u.Email)
		return nil
	},
}

var userPhotoCmd = &cobra.Command{
	Use:   "photo <path-or-url>",
	Short: "Set the --user profile photo (use 'none' to clear)",
	Long: `Set the profile photo for the --user account.

Accepted forms:
  https://example.com/me.png     remote image
  content://... or /abs/path     image on this device
  @filesDir/photos/me.png        image in the app files area
  none                           remove the photo`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repos(cmd)
		if err != nil {
			return err
		}
		u, err := currentUser(cmd, r)
		if err != nil {
			return err
		}

		var ref models.ImageRef
		if args[0] != "none" {
			ref = models.ParseImageRef(args[0])
		}
		updated, err := unwrap(r.Users.UpdateProfilePhoto(cmd.Context(), u.ID, ref))
		if err != nil {
			return err
		}
		if updated.ProfilePhoto.IsZero() {
			printRemoved(cmd, "Removed profile photo")
			return nil
		}
		printOK(cmd, "Profile photo set (%s)", updated.ProfilePhoto.Kind)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the --user account and everything it owns",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !userDeleteYes {
			return errors.New("refusing to delete without --yes")
		}
		r, err := repos(cmd)
		if err != nil {
			return err
		}
		u, err := currentUser(cmd, r)
		if err != nil {
			return err
		}

		if _, err := unwrap(r.Users.DeleteUser(cmd.Context(), u.ID)); err != nil {
			return err
		}
		printRemoved(cmd, "Deleted %s with all routines and locations", u.Email)
		return nil
	},
}

func init() {
	userRegisterCmd.Flags().StringVarP(&userPassword, "password", "p", "", "account password")
	userLoginCmd.Flags().StringVarP(&userPassword, "password", "p", "", "account password")
	userPasswdCmd.Flags().StringVarP(&userPassword, "password", "p", "", "current password")
	userPasswdCmd.Flags().StringVar(&userNewPassword, "new-password", "", "new password")
	userDeleteCmd.Flags().BoolVar(&userDeleteYes, "yes", false, "confirm deletion")

	userCmd.AddCommand(userRegisterCmd, userLoginCmd, userListCmd, userShowCmd, userPasswdCmd, userPhotoCmd, userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}
