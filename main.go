// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/goschtalt/goschtalt"
	"github.com/spf13/afero"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const (
	applicationName = "thermologger"
)

var errShown = errors.New("configuration shown")

// CLI is the command line.
type CLI struct {
	Dev   bool     `optional:"" short:"d" help:"Run in development mode."`
	Show  bool     `optional:"" short:"s" help:"Show the configuration and exit."`
	Files []string `optional:"" short:"f" help:"Specific configuration files or directories."`
}

func parseCLI(args []string) (*CLI, error) {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name(applicationName),
		kong.Description("Multi-channel thermocouple data logger.\n"),
		kong.UsageOnError(),
	)
	if err != nil {
		return nil, err
	}

	if _, err = parser.Parse(args); err != nil {
		parser.FatalIfErrorf(err)
	}

	return &cli, nil
}

// setup reads the command line and the configuration.  When asked to show the
// configuration it is written to out and errShown is returned.
func setup(args []string, afs afero.Fs, out io.Writer) (*CLI, *goschtalt.Config, error) {
	cli, err := parseCLI(args)
	if err != nil {
		return nil, nil, err
	}

	gs, err := newConfig(afs, cli.Files)
	if err != nil {
		return nil, nil, err
	}

	if cli.Show {
		b, err := gs.Marshal()
		if err != nil {
			return nil, nil, err
		}
		fmt.Fprintln(out, string(b))
		return nil, nil, errShown
	}

	return cli, gs, nil
}

func provideLogger(cli *CLI, cfg Config) (*zap.Logger, error) {
	if cli.Dev {
		return zap.NewDevelopment()
	}
	return cfg.Logger.Build()
}

func thermologger(args []string) error {
	cli, gs, err := setup(args, afero.NewBasePathFs(afero.NewOsFs(), "/"), os.Stdout)
	if err != nil {
		if errors.Is(err, errShown) {
			return nil
		}
		return err
	}

	cfg, err := unmarshal[Config](gs, goschtalt.Root)
	if err != nil {
		return err
	}

	app := fx.New(
		fx.Supply(cli, cfg),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Provide(provideLogger),
		components(),
	)

	if err := app.Err(); err != nil {
		return err
	}

	app.Run()

	return nil
}

func main() {
	if err := thermologger(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", applicationName, err)
		os.Exit(1)
	}
}
