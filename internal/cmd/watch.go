package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"care-connect/client/internal/security"
	"care-connect/client/internal/telemetry"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Hold the session open interactively",
	Long: `Hold the session open and watch the monitor work. Every line read
from stdin counts as activity and re-arms the inactivity window. When the
process is resumed after a suspend (SIGCONT) the timers are recomputed
from the token's real remaining lifetime.

The command exits when the session ends for any reason.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.monitor.Resume(ctx); err != nil {
			return err
		}
		if !a.monitor.Monitoring() {
			a.printPendingLogoutReason(ctx)
			return errNotLoggedIn
		}
		tok, err := a.store.Token(ctx)
		if err != nil {
			return err
		}
		tokenHash := security.HashToken(tok)

		ended := make(chan struct{}, 1)
		unsubscribe := a.bus.SubscribeSessionEnded(func(string) {
			select {
			case ended <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()

		cont := make(chan os.Signal, 1)
		signal.Notify(cont, syscall.SIGCONT)
		defer signal.Stop(cont)

		go func() {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				a.inputFeed.Emit()
			}
		}()

		fmt.Println("Watching session; each input line counts as activity. Ctrl+C to exit.")
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-cont:
				// Wall clock may have jumped while suspended; recompute
				// from the stored token.
				if err := a.monitor.Resume(ctx); err != nil {
					return err
				}
				if !a.monitor.Monitoring() {
					fmt.Println("Session ended.")
					return nil
				}
				user, err := a.currentUser(ctx)
				if err != nil {
					return err
				}
				ev := &telemetry.Event{
					Kind:      telemetry.KindSessionResumed,
					InstallID: a.installID,
					At:        time.Now().UTC(),
				}
				if user != nil {
					ev.UserID = user.ID
					ev.Role = user.Role
				}
				telemetry.EmitAsync(a.emitter, ev)
				// Another terminal may have signed in while we were
				// suspended; note the swap without exposing the token.
				cur, err := a.store.Token(ctx)
				if err != nil {
					return err
				}
				if !security.TokenHashEqual(cur, tokenHash) {
					fmt.Println("Session was replaced by a new sign-in.")
					tokenHash = security.HashToken(cur)
				}
			case <-ended:
				fmt.Println("Session ended.")
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
