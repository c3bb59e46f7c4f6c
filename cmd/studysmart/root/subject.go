package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"studysmart/internal/core"
	"studysmart/internal/state"
	"studysmart/internal/ui"
)

func newSubjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage subjects",
	}
	cmd.AddCommand(
		newSubjectAddCmd(),
		newSubjectListCmd(),
		newSubjectShowCmd(),
		newSubjectUpdateCmd(),
		newSubjectDeleteCmd(),
	)
	return cmd
}

func colorPair(index int) (core.ColorPair, error) {
	if index < 0 || index >= len(core.DefaultSubjectColors) {
		return core.ColorPair{}, fmt.Errorf("--color must be between 0 and %d", len(core.DefaultSubjectColors)-1)
	}
	return core.DefaultSubjectColors[index], nil
}

func newSubjectAddCmd() *cobra.Command {
	var goal string
	var color int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a subject with a goal in hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			colors, err := colorPair(color)
			if err != nil {
				return err
			}
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			d := state.NewDashboard(a.backend.Store, a.backend.Summaries, a.backend.Broker, a.logger.Logger)
			defer d.Close()
			return dispatch(cmd.Context(), cmd.OutOrStdout(), d,
				state.DialogToggled{Dialog: state.AddSubjectDialog, Open: true},
				state.SubjectNameChanged{Name: args[0]},
				state.GoalHoursChanged{Text: goal},
				state.SubjectColorsChanged{Colors: colors},
				state.SaveSubject{},
			)
		},
	}
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Goal study hours (1-1000)")
	cmd.Flags().IntVarP(&color, "color", "c", 0, "Colour scheme (0-4)")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func newSubjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			subjects, err := a.backend.Store.ListSubjects(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Subjects(subjects))
			return nil
		},
	}
}

func newSubjectShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a subject with its progress, tasks and sessions",
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

			d := state.NewSubjectDetail(id, a.backend.Store, a.backend.Summaries, a.backend.Broker, a.logger.Logger)
			defer d.Close()
			if err := d.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Subject(d.State().Summary, a.loc))
			return nil
		},
	}
}

func newSubjectUpdateCmd() *cobra.Command {
	var name, goal string
	var color int

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a subject or change its goal or colours",
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

			d := state.NewSubjectDetail(id, a.backend.Store, a.backend.Summaries, a.backend.Broker, a.logger.Logger)
			defer d.Close()
			if err := d.Load(cmd.Context()); err != nil {
				return err
			}

			intents := []state.Intent{state.DialogToggled{Dialog: state.EditSubjectDialog, Open: true}}
			if cmd.Flags().Changed("name") {
				intents = append(intents, state.SubjectNameChanged{Name: name})
			}
			if cmd.Flags().Changed("goal") {
				intents = append(intents, state.GoalHoursChanged{Text: goal})
			}
			if cmd.Flags().Changed("color") {
				colors, err := colorPair(color)
				if err != nil {
					return err
				}
				intents = append(intents, state.SubjectColorsChanged{Colors: colors})
			}
			intents = append(intents, state.UpdateSubject{})
			return dispatch(cmd.Context(), cmd.OutOrStdout(), d, intents...)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "New subject name")
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "New goal study hours")
	cmd.Flags().IntVarP(&color, "color", "c", 0, "New colour scheme (0-4)")
	return cmd
}

func newSubjectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a subject with all its tasks and sessions",
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

			d := state.NewSubjectDetail(id, a.backend.Store, a.backend.Summaries, a.backend.Broker, a.logger.Logger)
			defer d.Close()
			if err := d.Load(cmd.Context()); err != nil {
				return err
			}
			return dispatch(cmd.Context(), cmd.OutOrStdout(), d,
				state.DialogToggled{Dialog: state.DeleteSubjectDialog, Open: true},
				state.DeleteSubject{},
			)
		},
	}
}
