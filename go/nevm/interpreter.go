// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package nevm

import (
	"bytes"
	"fmt"
	"strings"
)

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package nevm

// Interpreter is a component capable of executing byte-code programs. The
// nested calls issued by a program are executed by the same interpreter
// against the shared Ledger of the parameters.
type Interpreter interface {
	// Run executes the code provided by the parameters and returns the
	// processing result. The error is nil if the program ended through the
	// end of the code, STOP, RETURN, REVERT, or INVALID. Otherwise it names
	// the fatal error kind that stopped the top-level Machine; the result is
	// still filled with the state at the time of the failure and reports no
	// success.
	Run(Parameters) (Result, error)
}

// Parameters summarizes the inputs of a top-level invocation.
type Parameters struct {
	Code        Code
	Context     CallContext
	Environment Environment
	Ledger      Ledger
	Static      bool
}

// Result summarizes the observable outcome of a Machine run.
type Result struct {
	Success bool
	Output  Data // < the return data at the end of the run
	GasUsed uint64
	Stack   []Word // < bottom element first
	Memory  []byte
	Storage Storage
	Logs    []Log
}

func (r *Result) String() string {
	builder := strings.Builder{}
	write := func(format string, args ...interface{}) {
		builder.WriteString(fmt.Sprintf(format, args...))
	}
	write("success:     %t\n", r.Success)
	write("gas used:    %d\n", r.GasUsed)
	write("return data: 0x%x\n", []byte(r.Output))
	write("memory:      0x%x\n", r.Memory)
	write("stack:\n")
	for i := len(r.Stack) - 1; i >= 0; i-- {
		write("    [%4d] %v\n", i, r.Stack[i].Hex())
	}
	write("storage:\n")
	for _, key := range r.Storage.Keys() {
		value := r.Storage[key]
		write("    %v: %v\n", key.Hex(), value.Hex())
	}
	write("logs:\n")
	for _, log := range r.Logs {
		write("    %v\n", log.String())
	}
	return builder.String()
}

// Log is the entry emitted by the LOG0-LOG4 instructions.
type Log struct {
	Address Word
	Topics  []Word
	Data    Data
}

func (l *Log) Equal(other *Log) bool {
	if l.Address != other.Address || len(l.Topics) != len(other.Topics) {
		return false
	}
	for i := range l.Topics {
		if l.Topics[i] != other.Topics[i] {
			return false
		}
	}
	return bytes.Equal(l.Data, other.Data)
}

func (l *Log) String() string {
	topics := make([]string, 0, len(l.Topics))
	for i := range l.Topics {
		topics = append(topics, l.Topics[i].Hex())
	}
	return fmt.Sprintf("{address: %v, topics: [%s], data: 0x%x}",
		l.Address.Hex(), strings.Join(topics, ", "), []byte(l.Data))
}
