// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Fantom-foundation/nevm/go/nevm"
	"github.com/Fantom-foundation/nevm/go/nevm/vm"
	"golang.org/x/crypto/sha3"
)

// Example is an executable description of a program with an (int)->int
// signature. The argument is provided as a 32-byte big-endian call data word,
// the result is returned as a 32-byte big-endian word.
type Example struct {
	exampleSpec
	address nevm.Word // the account hosting the code, derived from its hash
}

// exampleSpec specifies a program and a reference function computing the
// same function.
type exampleSpec struct {
	Name      string
	Code      nevm.Code
	reference func(int) int
}

func (s exampleSpec) build() Example {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(s.Code)
	var hash [32]byte
	hasher.Sum(hash[0:0])
	// Like Ethereum addresses, the account uses the low 20 bytes of the hash.
	return Example{
		exampleSpec: s,
		address:     nevm.WordFromBytes(hash[12:]),
	}
}

// Address returns the address of the account hosting the example code.
func (e *Example) Address() nevm.Word {
	return e.address
}

type Result struct {
	Result  int
	UsedGas uint64
}

// initialGas is the gas limit of example runs.
const initialGas = math.MaxInt64

// RunOn runs this example on the given interpreter, using the given argument.
// The code is executed by an account created for the example, which is the
// only account in the ledger.
func (e *Example) RunOn(interpreter nevm.Interpreter, argument int) (Result, error) {
	ctx := nevm.DefaultCallContext()
	ctx.GasLimit = initialGas
	ctx.To = e.address
	ctx.Address = e.address
	ctx.Data = encodeArgument(argument)

	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
		e.address: {Code: e.Code},
	})

	res, err := interpreter.Run(nevm.Parameters{
		Code:        e.Code,
		Context:     ctx,
		Environment: nevm.DefaultEnvironment(),
		Ledger:      ledger,
	})
	if err != nil {
		return Result{}, err
	}
	if !res.Success {
		return Result{}, fmt.Errorf("execution of %s did not succeed", e.Name)
	}

	result, err := decodeOutput(res.Output)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Result:  result,
		UsedGas: res.GasUsed,
	}, nil
}

// RunReference runs the reference function of this example to produce the
// expected result.
func (e *Example) RunReference(argument int) int {
	return e.reference(argument)
}

// GetAllExamples lists all examples of this package.
func GetAllExamples() []Example {
	return []Example{
		GetArithmeticExample(),
		GetFibExample(),
		GetSha3Example(),
		GetGasBurnerExample(),
		GetCallChainExample(),
		GetStaticOverheadExample(),
		GetJumpdestAnalysisExample(),
		GetStopAnalysisExample(),
		GetPush1AnalysisExample(),
		GetPush32AnalysisExample(),
	}
}

func encodeArgument(arg int) []byte {
	data := make([]byte, 32)
	binary.BigEndian.PutUint64(data[24:], uint64(arg))
	return data
}

func decodeOutput(output []byte) (int, error) {
	if len(output) != 32 {
		return 0, fmt.Errorf("unexpected length of output; wanted 32, got %d", len(output))
	}
	return int(binary.BigEndian.Uint64(output[24:])), nil
}

// returnTop is a code suffix returning the top of the stack as a 32-byte word.
var returnTop = []byte{
	byte(vm.PUSH0),
	byte(vm.MSTORE),
	byte(vm.PUSH1), 32,
	byte(vm.PUSH0),
	byte(vm.RETURN),
}
