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

// GetFibExample computes the x-th Fibonacci number iteratively. Results
// exceeding 64 bits are not decoded correctly, thus x should be at most 92.
func GetFibExample() Example {
	code := []byte{
		// a = 0, b = 1, i = x; the stack holds [a, b, i] during the loop.
		byte(vm.PUSH0),
		byte(vm.PUSH1), 1,
		byte(vm.PUSH0),
		byte(vm.CALLDATALOAD),

		// Loop header, exits if i == 0.
		byte(vm.JUMPDEST),
		byte(vm.DUP1),
		byte(vm.ISZERO),
		byte(vm.PUSH1), 22,
		byte(vm.JUMPI),

		// [a, b, i] => [b, a+b, i-1]
		byte(vm.PUSH1), 1,
		byte(vm.SUB),
		byte(vm.SWAP2),
		byte(vm.DUP2),
		byte(vm.ADD),
		byte(vm.SWAP1),
		byte(vm.SWAP2),
		byte(vm.PUSH1), 5,
		byte(vm.JUMP),

		// Return a.
		byte(vm.JUMPDEST),
		byte(vm.POP),
		byte(vm.POP),
	}

	return exampleSpec{
		Name:      "fib",
		Code:      append(code, returnTop...),
		reference: fib,
	}.build()
}

func fib(x int) int {
	a, b := 0, 1
	for i := 0; i < x; i++ {
		a, b = b, a+b
	}
	return a
}
