package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"studysmart/internal/cli"
	"studysmart/internal/state"
	"studysmart/internal/ui"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals, subjects, upcoming tasks and recent sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			d := state.NewDashboard(a.backend.Store, a.backend.Summaries, a.backend.Broker, a.logger.Logger)
			defer d.Close()
			if err := d.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Dashboard(d.State().Summary, a.loc))
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the dashboard on screen and redraw it on every change",
		Long: "Keep the dashboard on screen. Changes made by this process redraw it at once; " +
			"changes made by other processes are picked up every --interval.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := cli.ShutdownContext(cmd.Context())
			defer stop()

			d := state.NewDashboard(a.backend.Store, a.backend.Summaries, a.backend.Broker, a.logger.Logger)
			defer d.Close()
			if err := d.Start(ctx); err != nil {
				return err
			}

			states, unsubscribe := d.Subscribe()
			defer unsubscribe()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := d.Load(ctx); err != nil && ctx.Err() == nil {
						a.logger.Warn("Reload failed", "error", err)
					}
				case s, ok := <-states:
					if !ok {
						return nil
					}
					// clear screen, cursor home
					fmt.Fprint(out, "\033[H\033[2J")
					fmt.Fprintln(out, ui.Dashboard(s.Summary, a.loc))
					fmt.Fprintln(out, ui.Muted.Render("Watching for changes, Ctrl+C to quit."))
				case e := <-d.Events():
					if msg, ok := e.(state.ShowMessage); ok {
						fmt.Fprintln(out, ui.Message(msg.Text))
					}
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "How often to reload changes made elsewhere")
	return cmd
}
