package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"care-connect/client/internal/api"
	"care-connect/client/internal/booking"
	"care-connect/client/internal/telemetry"
)

var appointmentsCmd = &cobra.Command{
	Use:   "appointments",
	Short: "Manage your appointments",
	Long: `Manage your appointments.

Subcommands:
  list    Show your appointments
  book    Book a new appointment
  cancel  Cancel an appointment

Examples:
  careconnect appointments list
  careconnect appointments book --doctor d1 --at 2026-09-03T10:30:00Z --type video
  careconnect appointments cancel a1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var appointmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your appointments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireSession(ctx); err != nil {
			return err
		}

		appts, err := a.client.ListAppointments(ctx)
		if err != nil {
			return err
		}
		if len(appts) == 0 {
			fmt.Println("No appointments.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tDOCTOR\tTYPE\tSTATUS\tFEE")
		for _, appt := range appts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				appt.ID,
				appt.ScheduledAt.Local().Format("2006-01-02 15:04"),
				appt.DoctorName,
				appt.Type,
				appt.Status,
				cents(appt.FeeCents),
			)
		}
		return w.Flush()
	},
}

var appointmentsBookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book a new appointment",
	Long: `Book an appointment with a doctor. The fee is quoted locally from
the doctor's consultation fee, the selected services and the priority
surcharge before the booking is submitted; the backend's fee is final.

Examples:
  careconnect appointments book --doctor d1 --at 2026-09-03T10:30:00Z --type in_person
  careconnect appointments book --doctor d1 --at 2026-09-03T10:30:00Z --type video --service s-blood --priority`,
	RunE: func(cmd *cobra.Command, args []string) error {
		doctorID, _ := cmd.Flags().GetString("doctor")
		at, _ := cmd.Flags().GetString("at")
		consultType, _ := cmd.Flags().GetString("type")
		priority, _ := cmd.Flags().GetBool("priority")
		serviceIDs, _ := cmd.Flags().GetStringSlice("service")

		if doctorID == "" {
			return fmt.Errorf("--doctor is required")
		}
		when, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("--at must be RFC3339 (e.g. 2026-09-03T10:30:00Z): %w", err)
		}

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireSession(ctx); err != nil {
			return err
		}

		doctor, err := findDoctor(ctx, a, doctorID)
		if err != nil {
			return err
		}
		catalog, err := a.client.ListServices(ctx)
		if err != nil {
			return err
		}

		quote, err := booking.Compute(booking.Request{
			Doctor:     doctor,
			Type:       consultType,
			Priority:   priority,
			ServiceIDs: serviceIDs,
		}, catalog)
		if err != nil {
			return err
		}
		fmt.Printf("Quoted fee: %s (consultation %s, services %s, surcharge %s)\n",
			cents(quote.TotalCents), cents(quote.ConsultationCents),
			cents(quote.ServicesCents), cents(quote.SurchargeCents))

		appt, err := a.client.BookAppointment(ctx, api.BookingRequest{
			DoctorID:    doctorID,
			ScheduledAt: when,
			Type:        consultType,
			Priority:    priority,
			ServiceIDs:  serviceIDs,
		})
		if err != nil {
			return err
		}

		telemetry.EmitAsync(a.emitter, &telemetry.Event{
			Kind:      telemetry.KindBookingPlaced,
			InstallID: a.installID,
			At:        time.Now().UTC(),
			Attrs: map[string]string{
				"appointment_id": appt.ID,
				"type":           appt.Type,
			},
		})

		fmt.Printf("Booked %s with %s on %s, fee %s.\n",
			appt.ID, appt.DoctorName, appt.ScheduledAt.Local().Format("2006-01-02 15:04"), cents(appt.FeeCents))
		return nil
	},
}

var appointmentsCancelCmd = &cobra.Command{
	Use:   "cancel <appointment-id>",
	Short: "Cancel an appointment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireSession(ctx); err != nil {
			return err
		}
		if err := a.client.CancelAppointment(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Cancelled %s.\n", args[0])
		return nil
	},
}

func findDoctor(ctx context.Context, a *app, id string) (*api.Doctor, error) {
	doctors, err := a.client.ListDoctors(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range doctors {
		if doctors[i].ID == id {
			return &doctors[i], nil
		}
	}
	return nil, fmt.Errorf("doctor %q not found", id)
}

func init() {
	appointmentsBookCmd.Flags().String("doctor", "", "doctor id")
	appointmentsBookCmd.Flags().String("at", "", "slot time, RFC3339")
	appointmentsBookCmd.Flags().String("type", booking.TypeInPerson, "consultation type: in_person or video")
	appointmentsBookCmd.Flags().Bool("priority", false, "priority booking (flat surcharge)")
	appointmentsBookCmd.Flags().StringSlice("service", nil, "service id to add (repeatable)")

	appointmentsCmd.AddCommand(appointmentsListCmd, appointmentsBookCmd, appointmentsCancelCmd)
	rootCmd.AddCommand(appointmentsCmd)
}
