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
	"regexp"
	"runtime"
	"time"

	"github.com/Fantom-foundation/nevm/go/examples"
	"github.com/Fantom-foundation/nevm/go/nevm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var ExamplesCmd = addCommonFlags(cli.Command{
	Action: doExamples,
	Name:   "examples",
	Usage:  "Run the bundled example programs and compare them to their reference results",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "run only examples which name matches the given regex",
			Value:   ".*",
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "number of examples run simultaneously",
			Value:   runtime.NumCPU(),
		},
		&cli.IntFlag{
			Name:  "arg",
			Usage: "argument passed to every example",
			Value: 10,
		},
		&cli.StringFlag{
			Name:  "interpreter",
			Usage: "name of the interpreter variant to use",
			Value: "nevm",
		},
	},
})

type exampleOutcome struct {
	name     string
	want     int
	got      examples.Result
	duration time.Duration
}

func doExamples(context *cli.Context) error {
	filter, err := regexp.Compile(context.String("filter"))
	if err != nil {
		return err
	}

	jobCount := context.Int("jobs")
	if jobCount <= 0 {
		jobCount = runtime.NumCPU()
	}

	interpreter, err := nevm.NewInterpreter(context.String("interpreter"))
	if err != nil {
		return fmt.Errorf("invalid interpreter, use one of %v: %w", nevm.RegisteredInterpreters(), err)
	}

	selected := []examples.Example{}
	for _, example := range examples.GetAllExamples() {
		if filter.MatchString(example.Name) {
			selected = append(selected, example)
		}
	}

	arg := context.Int("arg")
	outcomes := make([]exampleOutcome, len(selected))
	errs := errgroup.Group{}
	errs.SetLimit(jobCount)
	start := time.Now()
	for i, example := range selected {
		errs.Go(func() error {
			log.Debug("running example", "name", example.Name, "arg", arg)
			begin := time.Now()
			got, err := example.RunOn(interpreter, arg)
			if err != nil {
				return fmt.Errorf("failed to run example %s: %w", example.Name, err)
			}
			outcomes[i] = exampleOutcome{
				name:     example.Name,
				want:     example.RunReference(arg),
				got:      got,
				duration: time.Since(begin),
			}
			return nil
		})
	}
	if err := errs.Wait(); err != nil {
		return err
	}
	duration := time.Since(start)

	out := outWriter(context)
	mismatches := 0
	for _, outcome := range outcomes {
		verdict := "ok"
		if outcome.got.Result != outcome.want {
			verdict = "MISMATCH"
			mismatches++
		}
		fmt.Fprintf(out, "%-16s result=%-12d expected=%-12d gas=%-10d time=%-12v %s\n",
			outcome.name, outcome.got.Result, outcome.want, outcome.got.UsedGas, outcome.duration, verdict,
		)
	}
	fmt.Fprintf(out, "ran %d examples in %v (~%s examples per second)\n",
		len(outcomes), duration, formatRate(len(outcomes), duration),
	)
	if mismatches > 0 {
		return fmt.Errorf("%d examples produced unexpected results", mismatches)
	}
	return nil
}
