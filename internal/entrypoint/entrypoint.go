package entrypoint

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"sitegrab/internal/app"
	"sitegrab/internal/cli"
	"sitegrab/internal/tui"
)

func Execute(args []string) (int, error) {
	if len(args) == 1 {
		res, err := tui.Run()
		if err != nil {
			return 1, err
		}
		if !res.RunNow {
			return 0, nil
		}
		return runApp(res.Options)
	}

	opts, initConfig, err := cli.ParseArgs(args[1:])
	if err != nil {
		var exitErr cli.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code, exitErr.Err
		}
		return 1, err
	}

	if initConfig {
		return 0, cli.RunConfigWizard()
	}

	return runApp(opts)
}

func runApp(opts app.Options) (int, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := app.Run(ctx, opts); err != nil {
		return 1, err
	}
	return 0, nil
}
