// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package naive provides a straightforward interpreter for nevm byte code. It
// executes instructions one by one from the raw code, without any conversion
// or super-instructions, and runs nested calls in child machines sharing the
// ledger of the top-level invocation.
package naive

import (
	"fmt"

	"github.com/Fantom-foundation/nevm/go/nevm"
	"github.com/ethereum/go-ethereum/log"
)

// Registers the naive interpreter as a possible interpreter implementation.
// Each factory accepts an optional Config, either as a value or a pointer.
func init() {
	configs := map[string]func() runner{
		"nevm":         func() runner { return nil },
		"nevm-logging": func() runner { return loggingRunner{} },
		"nevm-stats":   func() runner { return &statisticRunner{stats: newStatistics()} },
	}
	for name, newRunner := range configs {
		newRunner := newRunner
		err := nevm.RegisterInterpreter(name, func(config any) (nevm.Interpreter, error) {
			var c Config
			switch cfg := config.(type) {
			case nil:
			case Config:
				c = cfg
			case *Config:
				c = *cfg
			default:
				return nil, fmt.Errorf("invalid configuration type %T", config)
			}
			c.runner = newRunner()
			return NewVm(c)
		})
		if err != nil {
			panic(err)
		}
	}
}

const (
	// DefaultMaxCallDepth is the maximum nesting depth of calls.
	DefaultMaxCallDepth = 1024
	// DefaultMaxMemorySize is the maximum memory size of a single machine.
	DefaultMaxMemorySize = 32 * 1024 * 1024
	// DefaultMaxTotalMemorySize is the maximum combined memory size of all
	// machines of a call tree.
	DefaultMaxTotalMemorySize = 2 * DefaultMaxMemorySize
)

// Config defines the customizable properties of the naive interpreter. Zero
// values are replaced by defaults.
type Config struct {
	// GasTable defines the static instruction prices and the memory growth
	// cost. Defaults to DefaultGasTable.
	GasTable *GasTable
	// MaxCallDepth bounds the nesting of calls. Calls issued at this depth
	// fail without executing the target code.
	MaxCallDepth int
	// MaxMemorySize bounds the memory of every machine, in bytes.
	MaxMemorySize uint64
	// MaxTotalMemorySize bounds the combined memory of all machines taking
	// part in a single run, in bytes. Memory of finished nested calls is
	// returned to the run.
	MaxTotalMemorySize uint64
	// JumpTableCacheSize is the number of jump tables retained across runs.
	// A negative value disables the cache.
	JumpTableCacheSize int
	// Logger receives diagnostic output. Defaults to the root logger.
	Logger log.Logger

	runner runner
}

type naiveVm struct {
	config     Config
	jumpTables *jumpTableCache
	logger     log.Logger
}

// NewVm creates a new naive interpreter using the given configuration.
func NewVm(config Config) (*naiveVm, error) {
	if config.GasTable == nil {
		config.GasTable = DefaultGasTable()
	}
	if config.MaxCallDepth <= 0 {
		config.MaxCallDepth = DefaultMaxCallDepth
	}
	if config.MaxMemorySize == 0 {
		config.MaxMemorySize = DefaultMaxMemorySize
	}
	if config.MaxTotalMemorySize == 0 {
		config.MaxTotalMemorySize = DefaultMaxTotalMemorySize
	}
	if config.Logger == nil {
		config.Logger = log.Root()
	}
	if config.runner == nil {
		config.runner = vanillaRunner{}
	}
	cache, err := newJumpTableCache(config.JumpTableCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create jump table cache: %v", err)
	}
	return &naiveVm{
		config:     config,
		jumpTables: cache,
		logger:     config.Logger,
	}, nil
}

func (v *naiveVm) Run(params nevm.Parameters) (nevm.Result, error) {
	ledger := params.Ledger
	if ledger == nil {
		ledger = nevm.NewAccountLedger(nil)
	}
	m := v.newMachine(
		params.Code,
		params.Context,
		&params.Environment,
		ledger,
		params.Static,
		0,
		newMemoryBudget(v.config.MaxTotalMemorySize),
	)
	defer m.release()
	status, err := v.execute(m)
	return m.result(status), err
}

// newMachine creates a machine ready to execute the given code. The storage
// of every machine starts empty, its memory is drawn from the given budget.
func (v *naiveVm) newMachine(
	code nevm.Code,
	context nevm.CallContext,
	environment *nevm.Environment,
	ledger nevm.Ledger,
	static bool,
	depth int,
	budget *memoryBudget,
) *machine {
	return &machine{
		code:         code,
		context:      context,
		environment:  environment,
		ledger:       ledger,
		static:       static,
		depth:        depth,
		jumpTable:    v.jumpTables.get(code),
		vm:           v,
		memoryBudget: budget,
		stack:        NewStack(),
		memory:       NewMemory(),
		storage:      nevm.Storage{},
	}
}

// execute runs the given machine using the configured runner.
func (v *naiveVm) execute(m *machine) (status, error) {
	status, err := v.config.runner.run(m)
	if err != nil {
		v.logger.Debug("execution failed", "err", err, "pc", m.pc, "depth", m.depth)
		return statusFailed, err
	}
	return status, nil
}

// DumpProfile prints the collected instruction statistics if the interpreter
// was created with statistics enabled.
func (v *naiveVm) DumpProfile() {
	fmt.Print(v.ProfileSummary())
}

// ProfileSummary returns the collected instruction statistics in a
// human-readable format. It is empty unless statistics are enabled.
func (v *naiveVm) ProfileSummary() string {
	if statsRunner, ok := v.config.runner.(*statisticRunner); ok {
		return statsRunner.getSummary()
	}
	return ""
}

// ResetProfile clears the collected instruction statistics.
func (v *naiveVm) ResetProfile() {
	if statsRunner, ok := v.config.runner.(*statisticRunner); ok {
		statsRunner.reset()
	}
}
