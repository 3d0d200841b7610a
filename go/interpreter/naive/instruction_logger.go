// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package naive

import (
	"github.com/Fantom-foundation/nevm/go/nevm/vm"
	"github.com/ethereum/go-ethereum/log"
)

// loggingRunner is a runner that emits a trace record for every executed
// instruction. If no logger is provided, the logger of the interpreter
// executing the machine is used.
type loggingRunner struct {
	log log.Logger
}

// newLoggingRunner creates a new logging runner writing to the given logger.
func newLoggingRunner(logger log.Logger) loggingRunner {
	return loggingRunner{log: logger}
}

func (l loggingRunner) run(m *machine) (status, error) {
	logger := l.log
	if logger == nil {
		logger = m.vm.logger
	}
	status := statusRunning
	var err error
	for status == statusRunning {
		if m.pc < uint64(len(m.code)) {
			top := "-empty-"
			if m.stack.len() > 0 {
				top = m.stack.peek().Hex()
			}
			logger.Trace("instruction",
				"op", vm.OpCode(m.code[m.pc]).String(),
				"pc", m.pc,
				"gas", m.context.GasLimit-m.gasUsed,
				"top", top,
				"depth", m.depth,
			)
		}
		status, err = steps(m, true)
		if err != nil {
			return status, err
		}
	}
	return status, nil
}
