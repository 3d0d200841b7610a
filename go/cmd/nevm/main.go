// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "nevm",
		Usage:     "Naive EVM byte code interpreter",
		Copyright: "(c) 2024 Fantom Foundation",
		Flags: []cli.Flag{
			verbosityFlag,
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			&RunCmd,
			&ExamplesCmd,
		},
	}
}

var verbosityFlag = &cli.IntFlag{
	Name:  "verbosity",
	Usage: "log level, 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
	Value: 3,
}

// setupLogging installs a terminal logger writing to the error output of the
// application as the default logger.
func setupLogging(context *cli.Context) error {
	verbosity := context.Int(verbosityFlag.Name)
	if verbosity < 0 || verbosity > 5 {
		return fmt.Errorf("invalid verbosity %d, must be in range [0,5]", verbosity)
	}
	log.SetDefault(newLogger(errWriter(context), log.FromLegacyLevel(verbosity)))
	return nil
}

func newLogger(out io.Writer, level slog.Level) log.Logger {
	return log.NewLogger(log.NewTerminalHandlerWithLevel(out, level, false))
}

func errWriter(context *cli.Context) io.Writer {
	if context.App.ErrWriter != nil {
		return context.App.ErrWriter
	}
	return os.Stderr
}

func outWriter(context *cli.Context) io.Writer {
	if context.App.Writer != nil {
		return context.App.Writer
	}
	return os.Stdout
}
