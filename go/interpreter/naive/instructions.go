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
	"bytes"
	"fmt"

	"github.com/Fantom-foundation/nevm/go/nevm"
	"github.com/Fantom-foundation/nevm/go/nevm/vm"
)

// Binary operators pop operand a first (top of stack) and then b; the result
// replaces b. For example, SUB computes b-a.

func opEndWithResult(m *machine) error {
	offset, size := m.stack.pop(), m.stack.pop()
	start, length, err := toMemoryRange(offset, size)
	if err != nil {
		return err
	}
	data, err := m.memory.getSlice(start, length, m)
	if err != nil {
		return err
	}
	m.returnData = bytes.Clone(data)
	return nil
}

func opPc(m *machine) {
	// The program counter already points to the next instruction.
	m.stack.pushUndefined().SetUint64(m.pc)
}

func opJump(m *machine) error {
	destination := m.stack.pop()
	if !m.jumpTable.IsValid(destination) {
		return fmt.Errorf("%w: %v", nevm.ErrInvalidJumpDestination, destination.Hex())
	}
	m.pc = destination.Uint64()
	return nil
}

func opJumpi(m *machine) error {
	destination := m.stack.pop()
	condition := m.stack.pop()
	if condition.IsZero() {
		return nil
	}
	if !m.jumpTable.IsValid(destination) {
		return fmt.Errorf("%w: %v", nevm.ErrInvalidJumpDestination, destination.Hex())
	}
	m.pc = destination.Uint64()
	return nil
}

func opPop(m *machine) {
	m.stack.pop()
}

// opPush pushes the n bytes following the instruction. Data missing at the
// end of the code is read as zero.
func opPush(m *machine, n int) {
	z := m.stack.pushUndefined()
	start := m.pc
	end := start + uint64(n)
	if end <= uint64(len(m.code)) {
		z.SetBytes(m.code[start:end])
	} else {
		var value [32]byte
		copy(value[:n], m.code[start:])
		z.SetBytes(value[:n])
	}
	m.pc = end
}

func opPush0(m *machine) {
	m.stack.pushUndefined().Clear()
}

func opDup(m *machine, pos int) {
	m.stack.dup(pos)
}

func opSwap(m *machine, pos int) {
	m.stack.swap(pos)
}

func opMstore(m *machine) error {
	var addr = m.stack.pop()
	var value = m.stack.pop()
	offset, err := toMemoryOffset(addr)
	if err != nil {
		return err
	}
	return m.memory.setWord(offset, value, m)
}

func opMstore8(m *machine) error {
	var addr = m.stack.pop()
	var value = m.stack.pop()
	offset, err := toMemoryOffset(addr)
	if err != nil {
		return err
	}
	return m.memory.setByte(offset, byte(value.Uint64()), m)
}

func opMload(m *machine) error {
	var trg = m.stack.peek()
	offset, err := toMemoryOffset(trg)
	if err != nil {
		return err
	}
	return m.memory.readWord(offset, trg, m)
}

func opMsize(m *machine) {
	m.stack.pushUndefined().SetUint64(m.memory.length())
}

func opSstore(m *machine) {
	key := m.stack.pop()
	value := m.stack.pop()
	m.storage.Set(key, value)
}

func opSload(m *machine) {
	top := m.stack.peek()
	*top = m.storage.Get(top)
}

// --- Arithmetic ---

// checkedBinaryOp replaces the top two elements b and a by f(b, a). If f
// fails, the operand b is left on the stack.
func checkedBinaryOp(m *machine, f func(b, a *nevm.Word) (nevm.Word, error)) error {
	a := m.stack.pop()
	b := m.stack.peek()
	res, err := f(b, a)
	if err != nil {
		return err
	}
	*b = res
	return nil
}

func opAdd(m *machine) error {
	return checkedBinaryOp(m, nevm.CheckedAdd)
}

func opSub(m *machine) error {
	return checkedBinaryOp(m, nevm.CheckedSub)
}

func opMul(m *machine) error {
	return checkedBinaryOp(m, nevm.CheckedMul)
}

func opDiv(m *machine) error {
	return checkedBinaryOp(m, nevm.CheckedDiv)
}

func opSDiv(m *machine) error {
	return checkedBinaryOp(m, nevm.CheckedSDiv)
}

func opMod(m *machine) error {
	return checkedBinaryOp(m, nevm.CheckedMod)
}

// opExp computes b^a, with b the base and a the exponent.
func opExp(m *machine) error {
	return checkedBinaryOp(m, nevm.CheckedExp)
}

// --- Comparison and bitwise logic ---

func opLt(m *machine) {
	a := m.stack.pop()
	b := m.stack.peek()
	if b.Lt(a) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opGt(m *machine) {
	a := m.stack.pop()
	b := m.stack.peek()
	if b.Gt(a) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opEq(m *machine) {
	a := m.stack.pop()
	b := m.stack.peek()
	if a.Eq(b) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opIszero(m *machine) {
	top := m.stack.peek()
	if top.IsZero() {
		top.SetOne()
	} else {
		top.Clear()
	}
}

func opAnd(m *machine) {
	a := m.stack.pop()
	b := m.stack.peek()
	b.And(a, b)
}

func opOr(m *machine) {
	a := m.stack.pop()
	b := m.stack.peek()
	b.Or(a, b)
}

func opXor(m *machine) {
	a := m.stack.pop()
	b := m.stack.peek()
	b.Xor(a, b)
}

func opNot(m *machine) {
	a := m.stack.peek()
	a.Not(a)
}

// opByte extracts byte a of b, counting from the least significant byte.
func opByte(m *machine) {
	a := m.stack.pop()
	b := m.stack.peek()
	if !a.LtUint64(32) {
		b.Clear()
		return
	}
	b.Rsh(b, uint(a.Uint64()*8))
	b.SetUint64(b.Uint64() & 0xff)
}

func opShl(m *machine) {
	a := m.stack.pop()
	b := m.stack.peek()
	if a.LtUint64(256) {
		b.Lsh(b, uint(a.Uint64()))
	} else {
		b.Clear()
	}
}

func opShr(m *machine) {
	a := m.stack.pop()
	b := m.stack.peek()
	if a.LtUint64(256) {
		b.Rsh(b, uint(a.Uint64()))
	} else {
		b.Clear()
	}
}

func opSha3(m *machine) error {
	offset, size := m.stack.pop(), m.stack.peek()
	start, length, err := toMemoryRange(offset, size)
	if err != nil {
		return err
	}
	data, err := m.memory.getSlice(start, length, m)
	if err != nil {
		return err
	}
	hash := Keccak256(data)
	size.SetBytes32(hash[:])
	return nil
}

// --- Environment and context ---

func opAddress(m *machine) {
	m.stack.push(&m.context.Address)
}

func opOrigin(m *machine) {
	m.stack.push(&m.context.Origin)
}

func opCaller(m *machine) {
	m.stack.push(&m.context.Caller)
}

func opCallvalue(m *machine) {
	m.stack.pushUndefined().SetUint64(m.context.Value)
}

func opCallDatasize(m *machine) {
	m.stack.pushUndefined().SetUint64(uint64(len(m.context.Data)))
}

func opCallDataload(m *machine) {
	top := m.stack.peek()
	if !top.IsUint64() {
		top.Clear()
		return
	}
	data := getData(m.context.Data, top.Uint64(), 32)
	top.SetBytes32(data)
}

func opCodeSize(m *machine) {
	m.stack.pushUndefined().SetUint64(uint64(len(m.code)))
}

func opGasPrice(m *machine) {
	m.stack.pushUndefined().SetUint64(m.context.GasPrice)
}

func opGas(m *machine) {
	// The price of GAS itself is charged after this instruction.
	m.stack.pushUndefined().SetUint64(m.context.GasLimit - m.gasUsed)
}

func opReturnDataSize(m *machine) {
	m.stack.pushUndefined().SetUint64(uint64(len(m.returnData)))
}

func opBlockhash(m *machine) {
	number := m.stack.peek()
	if number.IsUint64() && number.Uint64() == m.environment.Number {
		*number = m.environment.BlockHash
	} else {
		number.Clear()
	}
}

func opCoinbase(m *machine) {
	m.stack.push(&m.environment.Coinbase)
}

func opTimestamp(m *machine) {
	m.stack.pushUndefined().SetUint64(m.environment.Timestamp)
}

func opNumber(m *machine) {
	m.stack.pushUndefined().SetUint64(m.environment.Number)
}

func opPrevRandao(m *machine) {
	m.stack.push(&m.environment.PrevRandao)
}

func opGasLimit(m *machine) {
	m.stack.pushUndefined().SetUint64(m.environment.GasLimit)
}

func opChainId(m *machine) {
	m.stack.pushUndefined().SetUint64(m.environment.ChainID)
}

func opSelfbalance(m *machine) {
	m.stack.pushUndefined().SetUint64(m.environment.SelfBalance)
}

func opBaseFee(m *machine) {
	m.stack.pushUndefined().SetUint64(m.environment.BaseFee)
}

// genericDataCopy implements CALLDATACOPY and CODECOPY.
func genericDataCopy(m *machine, source []byte) error {
	var (
		memOffset  = m.stack.pop()
		dataOffset = m.stack.pop()
		length     = m.stack.pop()
	)
	start, size, err := toMemoryRange(memOffset, length)
	if err != nil {
		return err
	}
	data, err := m.memory.getSlice(start, size, m)
	if err != nil {
		return err
	}
	offset, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		offset = uint64(len(source))
	}
	copy(data, getData(source, offset, size))
	return nil
}

func opReturnDataCopy(m *machine) error {
	var (
		memOffset  = m.stack.pop()
		dataOffset = m.stack.pop()
		length     = m.stack.pop()
	)
	end, overflow := new(nevm.Word).AddOverflow(dataOffset, length)
	if overflow || !end.IsUint64() || end.Uint64() > uint64(len(m.returnData)) {
		return fmt.Errorf("%w: return data of size %d exceeded", nevm.ErrMemoryBounds, len(m.returnData))
	}
	start, size, err := toMemoryRange(memOffset, length)
	if err != nil {
		return err
	}
	offset := dataOffset.Uint64()
	return m.memory.set(start, m.returnData[offset:offset+size], m)
}

// --- Ledger access ---

// getAccount looks up the account with the given address. Missing accounts
// are a fatal error.
func getAccount(m *machine, address *nevm.Word) (*nevm.Account, error) {
	account, found := m.ledger.GetAccount(*address)
	if !found {
		return nil, fmt.Errorf("%w: %v", nevm.ErrUnknownAccount, address.Hex())
	}
	return account, nil
}

func opBalance(m *machine) error {
	top := m.stack.peek()
	account, err := getAccount(m, top)
	if err != nil {
		return err
	}
	top.SetUint64(account.Balance)
	return nil
}

func opExtcodesize(m *machine) error {
	top := m.stack.peek()
	account, err := getAccount(m, top)
	if err != nil {
		return err
	}
	top.SetUint64(uint64(len(account.Code)))
	return nil
}

func opExtcodehash(m *machine) error {
	top := m.stack.peek()
	account, err := getAccount(m, top)
	if err != nil {
		return err
	}
	hash := Keccak256(account.Code)
	top.SetBytes32(hash[:])
	return nil
}

func opExtCodeCopy(m *machine) error {
	var (
		stack      = m.stack
		address    = stack.pop()
		memOffset  = stack.pop()
		codeOffset = stack.pop()
		length     = stack.pop()
	)
	account, err := getAccount(m, address)
	if err != nil {
		return err
	}
	start, size, err := toMemoryRange(memOffset, length)
	if err != nil {
		return err
	}
	data, err := m.memory.getSlice(start, size, m)
	if err != nil {
		return err
	}
	offset, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		offset = uint64(len(account.Code))
	}
	copy(data, getData(account.Code, offset, size))
	return nil
}

// --- State modifications ---

func opLog(m *machine, size int) error {
	stack := m.stack
	mStart, mSize := stack.pop(), stack.pop()
	topics := make([]nevm.Word, size)
	for i := 0; i < size; i++ {
		topics[i] = *stack.pop()
	}
	start, length, err := toMemoryRange(mStart, mSize)
	if err != nil {
		return err
	}
	data, err := m.memory.getSlice(start, length, m)
	if err != nil {
		return err
	}
	m.logs = append(m.logs, nevm.Log{
		Address: m.context.Address,
		Topics:  topics,
		Data:    bytes.Clone(data),
	})
	return nil
}

func opSelfdestruct(m *machine) error {
	beneficiary := m.stack.pop()
	return m.ledger.SelfDestruct(m.context.Address, *beneficiary)
}

func opCreate(m *machine, op vm.OpCode) error {
	return fmt.Errorf("%w: %v", nevm.ErrNotImplemented, op)
}
