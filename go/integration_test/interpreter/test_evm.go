// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package interpreter_test

import (
	"fmt"

	"github.com/Fantom-foundation/nevm/go/nevm"
)

const InitialTestGas uint64 = 1 << 44

// TestEvmAccountAddress is the address of the account executing the code of
// test runs.
var TestEvmAccountAddress = nevm.NewWord(42)

// TestEVM is a minimal harness running code on an Interpreter within a fixed
// call context and environment. It is only intended to be utilized for
// integration tests in this package.
type TestEVM struct {
	interpreter nevm.Interpreter
	ledger      nevm.Ledger
	static      bool
}

// GetCleanEVM creates a harness for the given interpreter variant. If no
// ledger is provided, each run uses a fresh ledger containing only the
// account executing the code.
func GetCleanEVM(variant string, ledger nevm.Ledger) TestEVM {
	instance, err := nevm.NewInterpreter(variant)
	if err != nil {
		panic(err)
	}
	return TestEVM{
		interpreter: instance,
		ledger:      ledger,
	}
}

type RunResult struct {
	Output  []byte
	GasUsed uint64
	Success bool
	Stack   []nevm.Word
	Storage nevm.Storage
	Logs    []nevm.Log
}

func (r RunResult) String() string {
	return fmt.Sprintf("{success: %t, gas used: %d, output: 0x%x}", r.Success, r.GasUsed, r.Output)
}

func (e *TestEVM) Run(code []byte, input []byte) (RunResult, error) {
	return e.RunWithGas(code, input, InitialTestGas)
}

func (e *TestEVM) RunWithGas(code []byte, input []byte, gasLimit uint64) (RunResult, error) {
	ctx := nevm.DefaultCallContext()
	ctx.GasLimit = gasLimit
	ctx.To = TestEvmAccountAddress
	ctx.Address = TestEvmAccountAddress
	ctx.Data = input

	ledger := e.ledger
	if ledger == nil {
		ledger = nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
			TestEvmAccountAddress: {Balance: 1000, Code: code},
		})
	}

	result, err := e.interpreter.Run(nevm.Parameters{
		Code:        code,
		Context:     ctx,
		Environment: nevm.DefaultEnvironment(),
		Ledger:      ledger,
		Static:      e.static,
	})
	return RunResult{
		Output:  result.Output,
		GasUsed: result.GasUsed,
		Success: result.Success,
		Stack:   result.Stack,
		Storage: result.Storage,
		Logs:    result.Logs,
	}, err
}
