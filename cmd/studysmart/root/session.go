package root

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"studysmart/internal/cli"
	"studysmart/internal/core"
	"studysmart/internal/state"
	"studysmart/internal/timer"
	"studysmart/internal/ui"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Record and manage study sessions",
	}
	cmd.AddCommand(
		newSessionAddCmd(),
		newSessionListCmd(),
		newSessionDeleteCmd(),
		newSessionRecordCmd(),
	)
	return cmd
}

// openRecorder loads a session recorder with subjectID selected.
func openRecorder(ctx context.Context, a *app, subjectID int64) (*state.SessionRecorder, error) {
	subject, err := a.backend.Store.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	r := state.NewSessionRecorder(a.backend.Store, a.backend.Broker, nil, nil, a.logger.Logger)
	if err := r.Load(ctx); err != nil {
		r.Close()
		return nil, err
	}
	if err := r.Dispatch(ctx, state.RelatedSubjectChanged{Subject: subject}); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func newSessionAddCmd() *cobra.Command {
	var (
		subjectID int64
		duration  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a finished study session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			r, err := openRecorder(cmd.Context(), a, subjectID)
			if err != nil {
				return err
			}
			defer r.Close()
			return dispatch(cmd.Context(), cmd.OutOrStdout(), r,
				state.SaveSession{DurationSeconds: int64(duration / time.Second)})
		},
	}
	cmd.Flags().Int64VarP(&subjectID, "subject", "s", 0, "Subject id studied")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "Time studied, e.g. 45m or 1h30m")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func newSessionListCmd() *cobra.Command {
	var subjectID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			var sessions []core.Session
			if subjectID != 0 {
				sessions, err = a.backend.Store.ListSessionsBySubject(cmd.Context(), subjectID)
			} else {
				sessions, err = a.backend.Store.ListSessions(cmd.Context())
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSession, "Study Sessions"))
			fmt.Fprintln(out, ui.Sessions(sessions, a.loc))
			fmt.Fprintln(out, ui.LabelValue("Total", ui.Hours(core.TotalStudiedHours(sessions))))
			return nil
		},
	}
	cmd.Flags().Int64VarP(&subjectID, "subject", "s", 0, "Only sessions of this subject")
	return cmd
}

func newSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			session, err := a.backend.Store.GetSession(cmd.Context(), id)
			if err != nil {
				return err
			}
			r := state.NewSessionRecorder(a.backend.Store, a.backend.Broker, nil, nil, a.logger.Logger)
			defer r.Close()
			return dispatch(cmd.Context(), cmd.OutOrStdout(), r,
				state.DeleteSessionRequested{Session: session},
				state.DeleteSession{},
			)
		},
	}
}

func newSessionRecordCmd() *cobra.Command {
	var subjectID int64

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Time a study session live; Enter saves it, Ctrl+C discards it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := cli.ShutdownContext(cmd.Context())
			defer stop()

			r, err := openRecorder(ctx, a, subjectID)
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			if err := dispatch(ctx, out, r, state.StartTimer{}); err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconTimer, r.State().RelatedToSubject))
			fmt.Fprintln(out, ui.Muted.Render("Press Enter to save the session, Ctrl+C to discard it."))

			enter := make(chan struct{})
			go func() {
				bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				close(enter)
			}()

			ticks := r.Stopwatch().Tick(ctx, time.Second)
			for {
				select {
				case d, ok := <-ticks:
					if !ok {
						ticks = nil
						continue
					}
					fmt.Fprintf(out, "\r%s", timer.Format(d))
				case <-enter:
					fmt.Fprintln(out)
					// the shutdown context may already be gone
					return dispatch(context.WithoutCancel(ctx), out, r, state.FinishTimer{})
				case <-ctx.Done():
					fmt.Fprintln(out)
					return dispatch(context.WithoutCancel(ctx), out, r, state.CancelTimer{})
				}
			}
		},
	}
	cmd.Flags().Int64VarP(&subjectID, "subject", "s", 0, "Subject id being studied")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
