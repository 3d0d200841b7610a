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
	"fmt"
	"math"

	"github.com/Fantom-foundation/nevm/go/nevm"
	"github.com/Fantom-foundation/nevm/go/nevm/vm"
)

// status is enumeration of the execution state of a machine.
type status byte

const (
	statusRunning  status = iota // < all fine, ops are processed
	statusStopped                // < execution stopped with a STOP or at the end of the code
	statusReturned               // < execution stopped with a RETURN
	statusReverted               // < execution stopped with a REVERT
	statusInvalid                // < execution stopped with an INVALID
	statusFailed                 // < execution stopped with a fatal error
)

func (s status) String() string {
	switch s {
	case statusRunning:
		return "running"
	case statusStopped:
		return "stopped"
	case statusReturned:
		return "returned"
	case statusReverted:
		return "reverted"
	case statusInvalid:
		return "invalid"
	case statusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", byte(s))
}

// isSuccess reports whether a machine ending with this status reports success.
func (s status) isSuccess() bool {
	return s == statusStopped || s == statusReturned
}

// machine is the execution state of a single code object within a single call
// context. For each top-level invocation and each nested call, a new machine
// is created. All machines of a call tree share the same ledger.
type machine struct {
	// Inputs
	code        nevm.Code
	context     nevm.CallContext
	environment *nevm.Environment
	ledger      nevm.Ledger
	static      bool
	depth       int
	jumpTable   *JumpTable
	vm          *naiveVm

	// memoryBudget is shared by all machines of a call tree.
	memoryBudget *memoryBudget

	// Execution state
	pc      uint64
	gasUsed uint64
	stack   *stack
	memory  *Memory
	storage nevm.Storage
	logs    []nevm.Log

	// returnData is the output of RETURN or REVERT, or the output of the last
	// nested call.
	returnData []byte
}

// useGas adds the given amount to the gas used by the machine. Exceeding the
// gas limit is detected by the interpreter loop after each instruction.
func (m *machine) useGas(amount uint64) {
	if m.gasUsed > math.MaxUint64-amount {
		m.gasUsed = math.MaxUint64
		return
	}
	m.gasUsed += amount
}

func (m *machine) gasTable() *GasTable {
	return m.vm.config.GasTable
}

func (m *machine) maxMemorySize() uint64 {
	return m.vm.config.MaxMemorySize
}

// release returns pooled resources and hands the memory of the machine back
// to the call tree. The machine must not be used afterwards.
func (m *machine) release() {
	ReturnStack(m.stack)
	m.stack = nil
	m.memoryBudget.give(m.memory.length())
	m.memory = nil
}

// result summarizes the state of the machine after it ended with the given
// status.
func (m *machine) result(status status) nevm.Result {
	res := nevm.Result{
		Success: status.isSuccess(),
		GasUsed: m.gasUsed,
		Stack:   m.stack.snapshot(),
		Memory:  m.memory.snapshot(),
		Storage: m.storage.Clone(),
		Logs:    m.logs,
	}
	if status == statusReturned || status == statusReverted {
		res.Output = m.returnData
	}
	return res
}

// --- Runners ---

type runner interface {
	// run executes the code of the given machine until it ends. It returns
	// the final status and, if the status is statusFailed, the fatal error
	// that stopped the machine.
	run(*machine) (status, error)
}

// vanillaRunner is the default runner that executes the code without any
// additional features.
type vanillaRunner struct{}

func (vanillaRunner) run(m *machine) (status, error) {
	return steps(m, false)
}

// --- Execution ---

// steps executes the code of the given machine. If oneStepOnly is true, only
// the instruction pointed to by the program counter is executed. Any fatal
// error is returned together with statusFailed.
func steps(m *machine, oneStepOnly bool) (status, error) {
	status := statusRunning
	for status == statusRunning {
		if m.pc >= uint64(len(m.code)) {
			return statusStopped, nil
		}

		op := vm.OpCode(m.code[m.pc])
		m.pc++

		// No state modification may be observed in static mode.
		if m.static && vm.IsStateChanging(op) {
			return statusFailed, fmt.Errorf("%w: %v", nevm.ErrStaticStateViolation, op)
		}

		// Check stack boundary for every instruction
		if err := checkStackLimits(m.stack.len(), op); err != nil {
			return statusFailed, fmt.Errorf("%w: %v", err, op)
		}

		var err error

		// Execute instruction
		switch op {
		case vm.STOP:
			status = statusStopped
		case vm.ADD:
			err = opAdd(m)
		case vm.MUL:
			err = opMul(m)
		case vm.SUB:
			err = opSub(m)
		case vm.DIV:
			err = opDiv(m)
		case vm.SDIV:
			err = opSDiv(m)
		case vm.MOD:
			err = opMod(m)
		case vm.EXP:
			err = opExp(m)
		case vm.LT:
			opLt(m)
		case vm.GT:
			opGt(m)
		case vm.EQ:
			opEq(m)
		case vm.ISZERO:
			opIszero(m)
		case vm.AND:
			opAnd(m)
		case vm.OR:
			opOr(m)
		case vm.XOR:
			opXor(m)
		case vm.NOT:
			opNot(m)
		case vm.BYTE:
			opByte(m)
		case vm.SHL:
			opShl(m)
		case vm.SHR:
			opShr(m)
		case vm.SHA3:
			err = opSha3(m)
		case vm.ADDRESS:
			opAddress(m)
		case vm.BALANCE:
			err = opBalance(m)
		case vm.ORIGIN:
			opOrigin(m)
		case vm.CALLER:
			opCaller(m)
		case vm.CALLVALUE:
			opCallvalue(m)
		case vm.CALLDATALOAD:
			opCallDataload(m)
		case vm.CALLDATASIZE:
			opCallDatasize(m)
		case vm.CALLDATACOPY:
			err = genericDataCopy(m, m.context.Data)
		case vm.CODESIZE:
			opCodeSize(m)
		case vm.CODECOPY:
			err = genericDataCopy(m, m.code)
		case vm.GASPRICE:
			opGasPrice(m)
		case vm.EXTCODESIZE:
			err = opExtcodesize(m)
		case vm.EXTCODECOPY:
			err = opExtCodeCopy(m)
		case vm.RETURNDATASIZE:
			opReturnDataSize(m)
		case vm.RETURNDATACOPY:
			err = opReturnDataCopy(m)
		case vm.EXTCODEHASH:
			err = opExtcodehash(m)
		case vm.BLOCKHASH:
			opBlockhash(m)
		case vm.COINBASE:
			opCoinbase(m)
		case vm.TIMESTAMP:
			opTimestamp(m)
		case vm.NUMBER:
			opNumber(m)
		case vm.PREVRANDAO:
			opPrevRandao(m)
		case vm.GASLIMIT:
			opGasLimit(m)
		case vm.CHAINID:
			opChainId(m)
		case vm.SELFBALANCE:
			opSelfbalance(m)
		case vm.BASEFEE:
			opBaseFee(m)
		case vm.POP:
			opPop(m)
		case vm.MLOAD:
			err = opMload(m)
		case vm.MSTORE:
			err = opMstore(m)
		case vm.MSTORE8:
			err = opMstore8(m)
		case vm.SLOAD:
			opSload(m)
		case vm.SSTORE:
			opSstore(m)
		case vm.JUMP:
			err = opJump(m)
		case vm.JUMPI:
			err = opJumpi(m)
		case vm.PC:
			opPc(m)
		case vm.MSIZE:
			opMsize(m)
		case vm.GAS:
			opGas(m)
		case vm.JUMPDEST:
			// nothing
		case vm.PUSH0:
			opPush0(m)
		case vm.LOG0:
			err = opLog(m, 0)
		case vm.LOG1:
			err = opLog(m, 1)
		case vm.LOG2:
			err = opLog(m, 2)
		case vm.LOG3:
			err = opLog(m, 3)
		case vm.LOG4:
			err = opLog(m, 4)
		case vm.CREATE, vm.CREATE2:
			err = opCreate(m, op)
		case vm.CALL:
			err = opCall(m)
		case vm.RETURN:
			err = opEndWithResult(m)
			status = statusReturned
		case vm.STATICCALL:
			err = opStaticCall(m)
		case vm.REVERT:
			err = opEndWithResult(m)
			status = statusReverted
		case vm.INVALID:
			status = statusInvalid
		case vm.SELFDESTRUCT:
			err = opSelfdestruct(m)
		default:
			switch {
			case vm.PUSH1 <= op && op <= vm.PUSH32:
				opPush(m, op.PushSize())
			case vm.DUP1 <= op && op <= vm.DUP16:
				opDup(m, int(op-vm.DUP1))
			case vm.SWAP1 <= op && op <= vm.SWAP16:
				opSwap(m, int(op-vm.SWAP1)+1)
			default:
				err = fmt.Errorf("%w: %v", nevm.ErrUnknownOpcode, op)
			}
		}

		if err != nil {
			return statusFailed, err
		}

		// Charge the static price after the instruction has been executed.
		m.useGas(m.gasTable().Price(op))
		if m.gasUsed > m.context.GasLimit {
			return statusFailed, nevm.ErrOutOfGas
		}

		if oneStepOnly {
			return status, nil
		}
	}
	return status, nil
}
