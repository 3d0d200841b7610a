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
	"errors"
	"fmt"

	"github.com/Fantom-foundation/nevm/go/nevm"
)

type callKind byte

const (
	call callKind = iota
	staticCall
)

func (k callKind) String() string {
	if k == staticCall {
		return "STATICCALL"
	}
	return "CALL"
}

func opCall(m *machine) error {
	// Value transfers are state modifications and thus not allowed in
	// static mode. The check is performed before any operand is consumed.
	if m.static && !m.stack.peekN(2).IsZero() {
		return fmt.Errorf("%w: CALL with value", nevm.ErrStaticStateViolation)
	}
	return genericCall(m, call)
}

func opStaticCall(m *machine) error {
	return genericCall(m, staticCall)
}

// genericCall runs the code of the target account in a nested machine and
// pushes 1 if the nested execution succeeded, 0 otherwise. Failures of the
// nested machine are not propagated to the caller. Only errors of the caller
// itself, for instance unknown target accounts or memory limits, are fatal.
func genericCall(m *machine, kind callKind) error {
	stack := m.stack
	value := nevm.Word{}

	// Pop call parameters.
	stack.pop() // gas, nested calls inherit the gas limit of the caller
	address := stack.pop()
	if kind == call {
		value = *stack.pop()
	}
	inOffset, inSize := stack.pop(), stack.pop()
	retOffset, retSize := stack.pop(), stack.pop()
	target := *address

	inStart, inLength, err := toMemoryRange(inOffset, inSize)
	if err != nil {
		return err
	}
	retStart, retLength, err := toMemoryRange(retOffset, retSize)
	if err != nil {
		return err
	}

	// Expand memory for input and output before the input is read, since
	// growing the memory may relocate its content.
	if err := m.memory.expandMemory(inStart, inLength, m); err != nil {
		return err
	}
	if err := m.memory.expandMemory(retStart, retLength, m); err != nil {
		return err
	}
	input, err := m.memory.getSlice(inStart, inLength, m)
	if err != nil {
		return err
	}

	if m.depth >= m.vm.config.MaxCallDepth {
		return failCall(m, kind, "call depth exceeded")
	}

	account, found := m.ledger.GetAccount(target)
	if !found {
		return fmt.Errorf("%w: %v", nevm.ErrUnknownAccount, target.Hex())
	}
	code := account.Code

	// Transfer the value before the nested code is executed.
	amount := uint64(0)
	if kind == call && !value.IsZero() {
		if !value.IsUint64() {
			return failCall(m, kind, "call value exceeds balance", "value", value.Hex())
		}
		amount = value.Uint64()
		err := m.ledger.Transfer(m.context.Address, target, amount)
		if errors.Is(err, nevm.ErrInsufficientBalance) {
			return failCall(m, kind, "call value exceeds balance", "value", amount)
		}
		if err != nil {
			return err
		}
	}

	child := m.vm.newMachine(
		code,
		m.context.Derive(target, amount, input),
		m.environment,
		m.ledger,
		m.static || kind == staticCall,
		m.depth+1,
		m.memoryBudget,
	)
	defer child.release()

	status, err := m.vm.execute(child)
	success := err == nil && status.isSuccess()
	m.vm.logger.Debug("call",
		"kind", kind.String(), "target", target.Hex(), "value", amount,
		"depth", m.depth, "status", status.String(), "success", success,
	)

	var ret []byte
	if err == nil && (status == statusReturned || status == statusReverted) {
		ret = child.returnData
	}
	if success {
		m.logs = append(m.logs, child.logs...)
	}

	if retLength > 0 {
		output, err := m.memory.getSlice(retStart, retLength, m)
		if err != nil {
			return err
		}
		copy(output, ret)
	}
	m.returnData = ret

	if success {
		stack.pushUndefined().SetOne()
	} else {
		stack.pushUndefined().Clear()
	}
	return nil
}

// failCall ends a call that could not be started, without stopping the caller.
func failCall(m *machine, kind callKind, msg string, ctx ...any) error {
	m.vm.logger.Debug(msg, append(ctx, "kind", kind.String(), "depth", m.depth)...)
	m.returnData = nil
	m.stack.pushUndefined().Clear()
	return nil
}
