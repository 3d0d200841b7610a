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
	"math"

	"github.com/Fantom-foundation/nevm/go/nevm/vm"
)

// GasTable defines the gas charged per executed instruction and for memory
// growth. A GasTable is immutable once created and may be shared by any
// number of machines.
type GasTable struct {
	static     [256]uint64
	memoryWord uint64
}

// NewGasTable creates a table charging the given prices per instruction and
// nothing for any op code not listed.
func NewGasTable(prices map[vm.OpCode]uint64) *GasTable {
	res := &GasTable{}
	for op, price := range prices {
		res.static[op] = price
	}
	return res
}

// DefaultGasTable returns the table used if no other table is configured.
// Pushes cost 3 gas, POP 2, ADD and SUB 3, MUL 5; everything else is free.
func DefaultGasTable() *GasTable {
	prices := map[vm.OpCode]uint64{
		vm.POP: 2,
		vm.ADD: 3,
		vm.SUB: 3,
		vm.MUL: 5,
	}
	for op := vm.PUSH0; op <= vm.PUSH32; op++ {
		prices[op] = 3
	}
	return NewGasTable(prices)
}

// StandardGasTable returns a table charging static gas prices in the
// magnitude of Ethereum's pre-Berlin schedule, including a memory expansion
// fee of 3 gas per 32-byte word.
func StandardGasTable() *GasTable {
	prices := map[vm.OpCode]uint64{}
	for i := 0; i < 256; i++ {
		op := vm.OpCode(i)
		if vm.IsDefined(op) {
			prices[op] = getStandardGasPrice(op)
		}
	}
	return NewGasTable(prices).WithMemoryWordCost(3)
}

func getStandardGasPrice(op vm.OpCode) uint64 {
	if vm.PUSH1 <= op && op <= vm.PUSH32 {
		return 3
	}
	if vm.DUP1 <= op && op <= vm.DUP16 {
		return 3
	}
	if vm.SWAP1 <= op && op <= vm.SWAP16 {
		return 3
	}
	if vm.LT <= op && op <= vm.SHR {
		return 3
	}
	if vm.COINBASE <= op && op <= vm.CHAINID {
		return 2
	}
	if vm.LOG0 <= op && op <= vm.LOG4 {
		return 375 * uint64(op-vm.LOG0+1)
	}
	switch op {
	case vm.POP, vm.PUSH0:
		return 2
	case vm.ADD, vm.SUB:
		return 3
	case vm.MUL, vm.DIV, vm.SDIV, vm.MOD:
		return 5
	case vm.EXP:
		return 10
	case vm.SHA3:
		return 30
	case vm.ADDRESS, vm.ORIGIN, vm.CALLER, vm.CALLVALUE, vm.CALLDATASIZE,
		vm.CODESIZE, vm.GASPRICE, vm.RETURNDATASIZE, vm.PC, vm.MSIZE, vm.GAS,
		vm.BASEFEE:
		return 2
	case vm.CALLDATALOAD, vm.CALLDATACOPY, vm.CODECOPY, vm.RETURNDATACOPY,
		vm.MLOAD, vm.MSTORE, vm.MSTORE8:
		return 3
	case vm.SELFBALANCE:
		return 5
	case vm.JUMP:
		return 8
	case vm.JUMPI:
		return 10
	case vm.JUMPDEST:
		return 1
	case vm.BLOCKHASH:
		return 20
	case vm.SLOAD:
		return 800
	case vm.SSTORE:
		return 5000
	case vm.BALANCE, vm.EXTCODESIZE, vm.EXTCODECOPY, vm.EXTCODEHASH:
		return 700
	case vm.CALL, vm.STATICCALL:
		return 700
	case vm.CREATE, vm.CREATE2:
		return 32000
	case vm.SELFDESTRUCT:
		return 5000
	}
	return 0
}

// WithMemoryWordCost returns a copy of the table that additionally charges
// the given amount for every 32-byte word memory grows by.
func (t *GasTable) WithMemoryWordCost(cost uint64) *GasTable {
	res := *t
	res.memoryWord = cost
	return &res
}

// Price returns the gas charged for executing the given op code.
func (t *GasTable) Price(op vm.OpCode) uint64 {
	return t.static[op]
}

// memoryExpansionCost computes the fee for growing the memory from the given
// old to the given new size in bytes.
func (t *GasTable) memoryExpansionCost(oldSize, newSize uint64) uint64 {
	if t.memoryWord == 0 || newSize <= oldSize {
		return 0
	}
	return (sizeInWords(newSize) - sizeInWords(oldSize)) * t.memoryWord
}

// sizeInWords returns the number of 32-byte words needed to cover the given
// number of bytes.
func sizeInWords(size uint64) uint64 {
	if size > math.MaxUint64-31 {
		return math.MaxUint64/32 + 1
	}
	return (size + 31) / 32
}
