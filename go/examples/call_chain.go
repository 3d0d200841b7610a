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

import "github.com/Fantom-foundation/nevm/go/nevm/vm"

// GetCallChainExample provides a program calling itself recursively x times.
// Each level passes x-1 to the next and returns the result of the next level
// incremented by one. Thus, the result is x, as long as x does not exceed the
// call depth limit of the interpreter.
func GetCallChainExample() Example {
	code := []byte{
		byte(vm.PUSH0),
		byte(vm.CALLDATALOAD),

		// Return 0 if x == 0.
		byte(vm.DUP1),
		byte(vm.ISZERO),
		byte(vm.PUSH1), 34,
		byte(vm.JUMPI),

		// Store x-1 in memory[0] as the input of the nested call.
		byte(vm.PUSH1), 1,
		byte(vm.SUB),
		byte(vm.PUSH0),
		byte(vm.MSTORE),

		// Call this account, the result of the call replaces memory[0].
		byte(vm.PUSH1), 32, // output size
		byte(vm.PUSH0),     // output offset
		byte(vm.PUSH1), 32, // input size
		byte(vm.PUSH0),     // input offset
		byte(vm.PUSH0),     // value
		byte(vm.ADDRESS),   // target
		byte(vm.PUSH0),     // gas
		byte(vm.CALL),
		byte(vm.POP),

		// Return the nested result plus one.
		byte(vm.PUSH0),
		byte(vm.MLOAD),
		byte(vm.PUSH1), 1,
		byte(vm.ADD),
	}
	code = append(code, returnTop...)
	code = append(code, byte(vm.JUMPDEST))
	code = append(code, returnTop...)

	return exampleSpec{
		Name:      "call_chain",
		Code:      code,
		reference: callChain,
	}.build()
}

func callChain(x int) int {
	return x
}
