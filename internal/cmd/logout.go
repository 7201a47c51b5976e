package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	Long: `Sign out of CareConnect.

The backend session is revoked (best effort) and the local token, user
record and admin cache are cleared. An explicit logout stores no reason
banner for the next sign-in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		tok, err := a.store.Token(ctx)
		if err != nil {
			return err
		}
		if tok == "" {
			fmt.Println("Not signed in.")
			return nil
		}

		// Revocation can fail (offline, token already expired); the local
		// session is cleared regardless.
		if err := a.client.Logout(ctx); err != nil {
			log.Printf("revoke session: %v", err)
		}
		if err := a.monitor.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
