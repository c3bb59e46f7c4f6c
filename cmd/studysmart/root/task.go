package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"studysmart/internal/core"
	"studysmart/internal/state"
	"studysmart/internal/ui"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(),
		newTaskListCmd(),
		newTaskDoneCmd(),
		newTaskDeleteCmd(),
	)
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var (
		subjectID   int64
		due         string
		priority    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := core.ParsePriority(priority)
			if err != nil {
				return err
			}
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			var dueMillis int64
			if due != "" {
				if dueMillis, err = ui.ParseDate(due, a.loc); err != nil {
					return err
				}
			}

			e := state.NewTaskEditor(0, subjectID, a.backend.Store, a.backend.Broker, nil, a.logger.Logger)
			defer e.Close()
			if err := e.Load(cmd.Context()); err != nil {
				return err
			}
			return dispatch(cmd.Context(), cmd.OutOrStdout(), e,
				state.TitleChanged{Title: args[0]},
				state.DescriptionChanged{Description: description},
				state.DueDateChanged{Millis: dueMillis},
				state.PriorityChanged{Priority: p},
				state.SaveTask{},
			)
		},
	}
	cmd.Flags().Int64VarP(&subjectID, "subject", "s", 0, "Subject id the task belongs to")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (2006-01-02), defaults to today")
	cmd.Flags().StringVarP(&priority, "priority", "p", "medium", "low, medium or high")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var subjectID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally for one subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			var tasks []core.Task
			if subjectID != 0 {
				tasks, err = a.backend.Store.ListTasksBySubject(cmd.Context(), subjectID)
			} else {
				tasks, err = a.backend.Store.ListTasks(cmd.Context())
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTask, "Upcoming"))
			fmt.Fprintln(out, ui.Tasks(core.UpcomingTasks(tasks), a.loc))
			fmt.Fprintln(out, ui.Heading(ui.IconDone, "Completed"))
			fmt.Fprintln(out, ui.Tasks(core.CompletedTasks(tasks), a.loc))
			return nil
		},
	}
	cmd.Flags().Int64VarP(&subjectID, "subject", "s", 0, "Only tasks of this subject")
	return cmd
}

func newTaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between upcoming and completed",
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

			t, err := a.backend.Store.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			d := state.NewDashboard(a.backend.Store, a.backend.Summaries, a.backend.Broker, a.logger.Logger)
			defer d.Close()
			return dispatch(cmd.Context(), cmd.OutOrStdout(), d, state.TaskCompletionToggled{Task: t})
		},
	}
}

func newTaskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
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

			e := state.NewTaskEditor(id, 0, a.backend.Store, a.backend.Broker, nil, a.logger.Logger)
			defer e.Close()
			if err := e.Load(cmd.Context()); err != nil {
				return err
			}
			return dispatch(cmd.Context(), cmd.OutOrStdout(), e, state.DeleteTask{})
		},
	}
}
