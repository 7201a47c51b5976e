package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long: `Show the signed-in user from the local session store. With
--remote the authoritative record is fetched from the backend instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, _ := cmd.Flags().GetBool("remote")

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireSession(ctx); err != nil {
			return err
		}

		u, err := a.currentUser(ctx)
		if remote {
			u, err = a.client.CurrentUser(ctx)
		}
		if err != nil {
			return err
		}
		if u == nil {
			return errNotLoggedIn
		}

		fmt.Printf("%s <%s>\n", u.Name, u.Email)
		fmt.Printf("role: %s\n", u.Role)
		if u.Admin() {
			fmt.Println("admin: yes")
		}
		return nil
	},
}

func init() {
	whoamiCmd.Flags().Bool("remote", false, "fetch the user record from the backend")
	rootCmd.AddCommand(whoamiCmd)
}
