package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var doctorsCmd = &cobra.Command{
	Use:   "doctors",
	Short: "List bookable doctors",
	Long: `List doctors available for booking, with their specialty and
consultation fee.

Examples:
  careconnect doctors
  careconnect doctors --specialty cardiology`,
	RunE: func(cmd *cobra.Command, args []string) error {
		specialty, _ := cmd.Flags().GetString("specialty")

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireSession(ctx); err != nil {
			return err
		}

		doctors, err := a.client.ListDoctors(ctx, specialty)
		if err != nil {
			return err
		}
		if len(doctors) == 0 {
			fmt.Println("No doctors found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSPECIALTY\tCONSULTATION")
		for _, d := range doctors {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Specialty, cents(d.ConsultationFee))
		}
		return w.Flush()
	},
}

// cents renders a cent amount as a dollar string.
func cents(v int64) string {
	return fmt.Sprintf("$%d.%02d", v/100, v%100)
}

func init() {
	doctorsCmd.Flags().String("specialty", "", "filter by specialty")
	rootCmd.AddCommand(doctorsCmd)
}
