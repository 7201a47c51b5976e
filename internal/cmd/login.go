package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"care-connect/client/internal/telemetry"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to CareConnect",
	Long: `Sign in to CareConnect with your email and password.

The session token is stored locally (encrypted, bound to this install)
and the session monitor starts tracking its lifetime.

Examples:
  careconnect login --email pat@example.com --password mypass`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			return fmt.Errorf("--password is required")
		}

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		// The sign-in screen is where the previous session's ending is
		// explained, once.
		a.printPendingLogoutReason(ctx)

		res, err := a.client.Login(ctx, email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := a.monitor.HandleLogin(ctx, res.Token, &res.User); err != nil {
			return fmt.Errorf("start session: %w", err)
		}

		telemetry.EmitAsync(a.emitter, &telemetry.Event{
			Kind:      telemetry.KindSessionStarted,
			UserID:    res.User.ID,
			Role:      res.User.Role,
			InstallID: a.installID,
			At:        time.Now().UTC(),
		})

		fmt.Printf("Signed in as %s (%s)\n", res.User.Name, res.User.Email)
		if a.admin.CheckAsync(ctx, false) {
			fmt.Println("Admin tools are available.")
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
	rootCmd.AddCommand(loginCmd)
}
