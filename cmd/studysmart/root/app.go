package root

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"studysmart/internal/backend"
	"studysmart/internal/cli"
	"studysmart/internal/config"
	"studysmart/internal/log"
	"studysmart/internal/state"
	"studysmart/internal/ui"
)

// app is what every data command needs.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	backend *backend.BackendResult
	loc     *time.Location
}

func openApp(cmd *cobra.Command) (*app, func(), error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cli.LoadEnvFile(envFile)

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := cli.SetupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger = logger.WithComponent(log.ComponentCLI)

	ctx := log.WithLogger(cmd.Context(), logger)
	cmd.SetContext(ctx)

	res, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := res.Close(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err)
		}
	}
	return &app{cfg: cfg, logger: logger, backend: res, loc: time.Local}, cleanup, nil
}

type dispatcher interface {
	Dispatch(ctx context.Context, intent state.Intent) error
	Events() <-chan state.Event
}

// dispatch applies intents in order, printing the events each produces.
// It stops at the first failure, whose message has then been printed.
func dispatch(ctx context.Context, out io.Writer, d dispatcher, intents ...state.Intent) error {
	for _, in := range intents {
		err := d.Dispatch(ctx, in)
		printEvents(out, d.Events())
		if err != nil {
			return errReported
		}
	}
	return nil
}

func printEvents(out io.Writer, events <-chan state.Event) {
	for {
		select {
		case e := <-events:
			if msg, ok := e.(state.ShowMessage); ok {
				fmt.Fprintln(out, ui.Message(msg.Text))
			}
		default:
			return
		}
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
