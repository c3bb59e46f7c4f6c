package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"studysmart/internal/amqp"
	"studysmart/internal/cli"
	"studysmart/internal/events"
	"studysmart/internal/log"
	"studysmart/internal/ui"
)

func newFeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Print store changes published to the AMQP change feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			cli.LoadEnvFile(envFile)

			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			if !cfg.FeedEnabled() {
				return errors.New("AMQP_URL is not set, the change feed is disabled")
			}
			logger, err := cli.SetupLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			ctx, stop := cli.ShutdownContext(cmd.Context())
			defer stop()

			client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.Logger)
			if err != nil {
				return fmt.Errorf("connect to change feed: %w", err)
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Muted.Render("Listening for changes, Ctrl+C to quit."))
			err = client.ConsumeChanges(ctx, func(_ context.Context, c events.Change) error {
				fmt.Fprintf(out, "%s  %-8s %-6s %s\n",
					c.At.Local().Format("15:04:05"),
					c.Table, c.Op,
					ui.LabelValue("id", c.EntityID))
				return nil
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Change feed stopped", log.FieldError, err)
				return err
			}
			return nil
		},
	}
}
