package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var messagesCmd = &cobra.Command{
	Use:   "messages <appointment-id>",
	Short: "Read and send appointment messages",
	Long: `Read the conversation thread for an appointment, send a message to
the doctor, or ask the care assistant a question in the appointment's
context.

Examples:
  careconnect messages a1
  careconnect messages a1 --send "Running 10 minutes late."
  careconnect messages a1 --ask "Do I need to fast before the blood panel?"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		send, _ := cmd.Flags().GetString("send")
		ask, _ := cmd.Flags().GetString("ask")
		if send != "" && ask != "" {
			return fmt.Errorf("--send and --ask are mutually exclusive")
		}
		appointmentID := args[0]

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireSession(ctx); err != nil {
			return err
		}

		switch {
		case send != "":
			msg, err := a.client.SendMessage(ctx, appointmentID, send)
			if err != nil {
				return err
			}
			fmt.Printf("Sent %s.\n", msg.ID)
			return nil
		case ask != "":
			reply, err := a.client.AssistantReply(ctx, appointmentID, ask)
			if err != nil {
				return err
			}
			fmt.Printf("assistant: %s\n", reply.Body)
			return nil
		}

		msgs, err := a.client.ListMessages(ctx, appointmentID)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			fmt.Println("No messages.")
			return nil
		}
		for _, m := range msgs {
			fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Local().Format("01-02 15:04"), m.Sender, m.Body)
		}
		return nil
	},
}

func init() {
	messagesCmd.Flags().String("send", "", "send a message to the doctor")
	messagesCmd.Flags().String("ask", "", "ask the care assistant")
	rootCmd.AddCommand(messagesCmd)
}
