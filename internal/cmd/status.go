package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"care-connect/client/internal/token"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session status",
	Long: `Show whether a session exists, how long the login token remains
valid, and whether admin tools are available. Works offline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		a.printPendingLogoutReason(ctx)

		tok, err := a.store.Token(ctx)
		if err != nil {
			return err
		}
		if tok == "" {
			fmt.Println("No active session.")
			return nil
		}

		remaining := token.TimeUntilExpiration(tok, time.Now())
		if remaining <= 0 {
			fmt.Println("Session token has expired.")
			return nil
		}
		fmt.Printf("Session active, token valid for %s.\n", remaining.Round(time.Second))

		if u, err := a.currentUser(ctx); err == nil && u != nil {
			fmt.Printf("Signed in as %s (%s, %s)\n", u.Name, u.Email, u.Role)
		}
		if a.admin.CheckSync(ctx) {
			fmt.Println("Admin tools are available.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
