package root

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"studysmart/internal/ui"
)

const Version = "0.1.0"

// errReported marks failures whose message was already printed.
var errReported = errors.New("already reported")

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "studysmart",
		Short:         "StudySmart: track subjects, tasks and study sessions",
		Long:          "StudySmart keeps study subjects with hour goals, their tasks and recorded study sessions in a local database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path of an optional .env file")

	cmd.AddCommand(
		newDashboardCmd(),
		newWatchCmd(),
		newSubjectCmd(),
		newTaskCmd(),
		newSessionCmd(),
		newFeedCmd(),
		newVersionCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, ui.Error(err))
		}
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "studysmart v%s\n", Version)
			return nil
		},
	}
}
