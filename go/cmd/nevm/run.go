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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Fantom-foundation/nevm/go/interpreter/naive"
	"github.com/Fantom-foundation/nevm/go/nevm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var RunCmd = addCommonFlags(cli.Command{
	Action: doRun,
	Name:   "run",
	Usage:  "Run the given byte code and print the final machine state",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "code",
			Usage:    "hex encoded byte code to execute",
			Required: true,
		},
		&cli.StringFlag{
			Name:      "ledger",
			Usage:     "JSON file providing the initial accounts",
			TakesFile: true,
		},
		&cli.Uint64Flag{
			Name:  "gas",
			Usage: "gas limit of the execution",
			Value: nevm.DefaultCallContext().GasLimit,
		},
		&cli.Uint64Flag{
			Name:  "value",
			Usage: "value transferred with the call",
		},
		&cli.StringFlag{
			Name:  "caller",
			Usage: "address of the caller",
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "address of the account executing the code",
		},
		&cli.StringFlag{
			Name:  "input",
			Usage: "hex encoded call data",
		},
		&cli.BoolFlag{
			Name:  "static",
			Usage: "run in static mode, forbidding state modifications",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "log every executed instruction",
		},
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "print instruction statistics after the execution",
		},
		&cli.IntFlag{
			Name:  "repeat",
			Usage: "number of times the code is executed, each on a fresh copy of the ledger",
			Value: 1,
		},
	},
})

func doRun(context *cli.Context) error {
	code, err := parseBytes(context.String("code"))
	if err != nil {
		return fmt.Errorf("invalid code: %w", err)
	}

	ledger, err := loadLedger(context.String("ledger"))
	if err != nil {
		return err
	}

	callContext := nevm.DefaultCallContext()
	callContext.GasLimit = context.Uint64("gas")
	callContext.Value = context.Uint64("value")
	if caller := context.String("caller"); caller != "" {
		if callContext.Caller, err = parseWord(caller); err != nil {
			return fmt.Errorf("invalid caller: %w", err)
		}
	}
	if address := context.String("address"); address != "" {
		if callContext.Address, err = parseWord(address); err != nil {
			return fmt.Errorf("invalid address: %w", err)
		}
		callContext.To = callContext.Address
	}
	if input := context.String("input"); input != "" {
		if callContext.Data, err = parseBytes(input); err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}
	}

	// The executing account is created if the ledger does not know it, such
	// that the code may call itself.
	if _, found := ledger.GetAccount(callContext.Address); !found {
		ledger.SetAccount(callContext.Address, nevm.Account{Code: code})
	}

	interpreter, err := newInterpreter(context)
	if err != nil {
		return err
	}

	repeat := context.Int("repeat")
	if repeat < 1 {
		return fmt.Errorf("invalid number of repetitions: %d", repeat)
	}

	var result nevm.Result
	var runErr error
	var finalLedger *nevm.AccountLedger
	start := time.Now()
	for i := 0; i < repeat; i++ {
		finalLedger = ledger.Clone()
		result, runErr = interpreter.Run(nevm.Parameters{
			Code:        code,
			Context:     callContext,
			Environment: nevm.DefaultEnvironment(),
			Ledger:      finalLedger,
			Static:      context.Bool("static"),
		})
	}
	duration := time.Since(start)

	out := outWriter(context)
	fmt.Fprint(out, result.String())
	fmt.Fprintf(out, "ledger:\n%v", finalLedger)
	if repeat > 1 {
		fmt.Fprintf(out, "executed %d runs in %v (~%s runs per second)\n", repeat, duration, formatRate(repeat, duration))
	}
	if profiler, ok := interpreter.(profilingInterpreter); ok && context.Bool("stats") {
		fmt.Fprint(out, profiler.ProfileSummary())
	}
	if runErr != nil {
		return fmt.Errorf("execution failed: %w", runErr)
	}
	return nil
}

// profilingInterpreter is implemented by interpreters collecting instruction
// statistics.
type profilingInterpreter interface {
	ProfileSummary() string
}

// newInterpreter creates the interpreter variant selected by the flags of the
// given context.
func newInterpreter(context *cli.Context) (nevm.Interpreter, error) {
	trace, stats := context.Bool("trace"), context.Bool("stats")
	switch {
	case trace && stats:
		return nil, errors.New("tracing and statistics can not be enabled at the same time")
	case trace:
		return nevm.NewInterpreter("nevm-logging", naive.Config{
			Logger: newLogger(errWriter(context), log.LevelTrace),
		})
	case stats:
		return nevm.NewInterpreter("nevm-stats")
	}
	return nevm.NewInterpreter("nevm")
}

// loadLedger reads the accounts of the given JSON file. An empty file name
// results in an empty ledger.
func loadLedger(filename string) (*nevm.AccountLedger, error) {
	ledger := nevm.NewAccountLedger(nil)
	if filename == "" {
		return ledger, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	if err := json.Unmarshal(data, ledger); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", filename, err)
	}
	return ledger, nil
}
