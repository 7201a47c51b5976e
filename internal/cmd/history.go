package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent session events on this install",
	Long: `Show the local journal of session events: sign-ins, sign-outs with
their reason, and admin standing changes. Works offline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.journal.ListRecent(ctx, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No session history.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tEVENT\tUSER\tDETAIL")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Event, e.UserID, e.Detail)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "max entries to show")
	rootCmd.AddCommand(historyCmd)
}
