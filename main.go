package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"sitegrab/internal/app"
	"sitegrab/internal/cli"
	"sitegrab/internal/tui"
)

func main() {
	// If no CLI args are provided, launch the TUI and run using its settings.
	if len(os.Args) == 1 {
		res, err := tui.Run()
		if err != nil {
			fatal(err)
		}
		if !res.RunNow {
			return
		}
		run(res.Options)
		return
	}

	opts, initConfig, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		if exitErr, ok := err.(cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Error())
			os.Exit(exitErr.Code)
		}
		fatal(err)
	}

	if initConfig {
		if err := cli.RunConfigWizard(); err != nil {
			fatal(err)
		}
		return
	}

	run(opts)
}

func run(opts app.Options) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := app.Run(ctx, opts); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
