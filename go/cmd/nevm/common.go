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
	"os"
	"runtime/pprof"
	"time"

	"github.com/Fantom-foundation/nevm/go/nevm"
	"github.com/dsnet/golib/unitconv"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

var commonFlags = []cli.Flag{
	cpuProfileFlag,
}

var cpuProfileFlag = &cli.StringFlag{
	Name:      "cpuprofile",
	Usage:     "store CPU profile in the provided filename",
	TakesFile: true,
}

// addCommonFlags extends the given command by the flags shared by all
// commands and wraps its action to honor them.
func addCommonFlags(command cli.Command) cli.Command {
	command.Flags = append(command.Flags, commonFlags...)

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {
		if cpuprofileFilename := ctx.String(cpuProfileFlag.Name); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		return action(ctx)
	}
	return command
}

// parseWord parses a hex encoded word, with or without 0x prefix.
func parseWord(s string) (nevm.Word, error) {
	if !has0xPrefix(s) {
		s = "0x" + s
	}
	return nevm.WordFromHex(s)
}

// parseBytes parses hex encoded data, with or without 0x prefix.
func parseBytes(s string) ([]byte, error) {
	if !has0xPrefix(s) {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// formatRate formats the number of events per second, using SI prefixes.
func formatRate(events int, duration time.Duration) string {
	if duration <= 0 {
		return "-"
	}
	rate := float64(events) / duration.Seconds()
	return unitconv.FormatPrefix(rate, unitconv.SI, 0)
}
