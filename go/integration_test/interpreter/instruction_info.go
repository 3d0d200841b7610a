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
	"github.com/Fantom-foundation/nevm/go/nevm/vm"
)

// InstructionInfo contains meta-information about instructions used for
// generating test cases.
type InstructionInfo struct {
	stack StackUsage
	gas   uint64 // < the static price in the default gas table
	// add information as needed
}

type StackUsage struct {
	popped int // < the number of elements popped from the stack
	pushed int // < the number of elements pushed on the stack
}

// getInstructions returns a map of all defined OpCodes.
func getInstructions() map[vm.OpCode]*InstructionInfo {
	none := StackUsage{}

	op := func(x int) StackUsage {
		return StackUsage{popped: x, pushed: 1}
	}

	consume := func(x int) StackUsage {
		return StackUsage{popped: x}
	}

	dup := func(x int) StackUsage {
		return StackUsage{popped: x, pushed: x + 1}
	}

	swap := func(x int) StackUsage {
		return StackUsage{popped: x + 1, pushed: x + 1}
	}

	const gasFree uint64 = 0
	const gasPop uint64 = 2
	const gasFastestStep uint64 = 3
	const gasFastStep uint64 = 5

	res := map[vm.OpCode]*InstructionInfo{
		vm.STOP:           {stack: none, gas: gasFree},
		vm.ADD:            {stack: op(2), gas: gasFastestStep},
		vm.MUL:            {stack: op(2), gas: gasFastStep},
		vm.SUB:            {stack: op(2), gas: gasFastestStep},
		vm.DIV:            {stack: op(2), gas: gasFree},
		vm.SDIV:           {stack: op(2), gas: gasFree},
		vm.MOD:            {stack: op(2), gas: gasFree},
		vm.EXP:            {stack: op(2), gas: gasFree},
		vm.LT:             {stack: op(2), gas: gasFree},
		vm.GT:             {stack: op(2), gas: gasFree},
		vm.EQ:             {stack: op(2), gas: gasFree},
		vm.ISZERO:         {stack: op(1), gas: gasFree},
		vm.AND:            {stack: op(2), gas: gasFree},
		vm.OR:             {stack: op(2), gas: gasFree},
		vm.XOR:            {stack: op(2), gas: gasFree},
		vm.NOT:            {stack: op(1), gas: gasFree},
		vm.BYTE:           {stack: op(2), gas: gasFree},
		vm.SHL:            {stack: op(2), gas: gasFree},
		vm.SHR:            {stack: op(2), gas: gasFree},
		vm.SHA3:           {stack: op(2), gas: gasFree},
		vm.ADDRESS:        {stack: op(0), gas: gasFree},
		vm.BALANCE:        {stack: op(1), gas: gasFree},
		vm.ORIGIN:         {stack: op(0), gas: gasFree},
		vm.CALLER:         {stack: op(0), gas: gasFree},
		vm.CALLVALUE:      {stack: op(0), gas: gasFree},
		vm.CALLDATALOAD:   {stack: op(1), gas: gasFree},
		vm.CALLDATASIZE:   {stack: op(0), gas: gasFree},
		vm.CALLDATACOPY:   {stack: consume(3), gas: gasFree},
		vm.CODESIZE:       {stack: op(0), gas: gasFree},
		vm.CODECOPY:       {stack: consume(3), gas: gasFree},
		vm.GASPRICE:       {stack: op(0), gas: gasFree},
		vm.EXTCODESIZE:    {stack: op(1), gas: gasFree},
		vm.EXTCODECOPY:    {stack: consume(4), gas: gasFree},
		vm.RETURNDATASIZE: {stack: op(0), gas: gasFree},
		vm.RETURNDATACOPY: {stack: consume(3), gas: gasFree},
		vm.EXTCODEHASH:    {stack: op(1), gas: gasFree},
		vm.BLOCKHASH:      {stack: op(1), gas: gasFree},
		vm.COINBASE:       {stack: op(0), gas: gasFree},
		vm.TIMESTAMP:      {stack: op(0), gas: gasFree},
		vm.NUMBER:         {stack: op(0), gas: gasFree},
		vm.PREVRANDAO:     {stack: op(0), gas: gasFree},
		vm.GASLIMIT:       {stack: op(0), gas: gasFree},
		vm.CHAINID:        {stack: op(0), gas: gasFree},
		vm.SELFBALANCE:    {stack: op(0), gas: gasFree},
		vm.BASEFEE:        {stack: op(0), gas: gasFree},
		vm.POP:            {stack: consume(1), gas: gasPop},
		vm.MLOAD:          {stack: op(1), gas: gasFree},
		vm.MSTORE:         {stack: consume(2), gas: gasFree},
		vm.MSTORE8:        {stack: consume(2), gas: gasFree},
		vm.SLOAD:          {stack: op(1), gas: gasFree},
		vm.SSTORE:         {stack: consume(2), gas: gasFree},
		vm.JUMP:           {stack: consume(1), gas: gasFree},
		vm.JUMPI:          {stack: consume(2), gas: gasFree},
		vm.PC:             {stack: op(0), gas: gasFree},
		vm.MSIZE:          {stack: op(0), gas: gasFree},
		vm.GAS:            {stack: op(0), gas: gasFree},
		vm.JUMPDEST:       {stack: none, gas: gasFree},
		vm.PUSH0:          {stack: op(0), gas: gasFastestStep},
		vm.LOG0:           {stack: consume(2), gas: gasFree},
		vm.LOG1:           {stack: consume(3), gas: gasFree},
		vm.LOG2:           {stack: consume(4), gas: gasFree},
		vm.LOG3:           {stack: consume(5), gas: gasFree},
		vm.LOG4:           {stack: consume(6), gas: gasFree},
		vm.CREATE:         {stack: op(3), gas: gasFree},
		vm.CALL:           {stack: op(7), gas: gasFree},
		vm.RETURN:         {stack: consume(2), gas: gasFree},
		vm.CREATE2:        {stack: op(4), gas: gasFree},
		vm.STATICCALL:     {stack: op(6), gas: gasFree},
		vm.REVERT:         {stack: consume(2), gas: gasFree},
		vm.INVALID:        {stack: none, gas: gasFree},
		vm.SELFDESTRUCT:   {stack: consume(1), gas: gasFree},
	}
	for i := 0; i < 32; i++ {
		res[vm.PUSH1+vm.OpCode(i)] = &InstructionInfo{stack: op(0), gas: gasFastestStep}
	}
	for i := 0; i < 16; i++ {
		res[vm.DUP1+vm.OpCode(i)] = &InstructionInfo{stack: dup(i + 1), gas: gasFree}
		res[vm.SWAP1+vm.OpCode(i)] = &InstructionInfo{stack: swap(i + 1), gas: gasFree}
	}
	return res
}
