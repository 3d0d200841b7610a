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
	"math"

	"github.com/Fantom-foundation/nevm/go/nevm/vm"
)

// GetArithmeticExample provides a loop mixing all checked arithmetic
// operations. Intermediate results are kept small enough to never overflow
// for the arguments used in tests and benchmarks.
func GetArithmeticExample() Example {
	code := []byte{
		// r = 0, i = x; the stack holds [r, i] during the loop.
		byte(vm.PUSH0),
		byte(vm.PUSH0),
		byte(vm.CALLDATALOAD),

		// Loop header, exits if i == 0.
		byte(vm.JUMPDEST),
		byte(vm.DUP1),
		byte(vm.ISZERO),
		byte(vm.PUSH1), 39,
		byte(vm.JUMPI),

		// t = i * i * (i % 3 + 1) / 2
		byte(vm.DUP1),
		byte(vm.DUP1),
		byte(vm.MUL),
		byte(vm.DUP2),
		byte(vm.PUSH1), 3,
		byte(vm.MOD),
		byte(vm.PUSH1), 1,
		byte(vm.ADD),
		byte(vm.MUL),
		byte(vm.PUSH1), 2,
		byte(vm.DIV),

		// r = (r + t) % MaxInt32
		byte(vm.DUP3),
		byte(vm.ADD),
		byte(vm.PUSH4), 0x7f, 0xff, 0xff, 0xff,
		byte(vm.MOD),
		byte(vm.SWAP2),
		byte(vm.POP),

		// i = i - 1
		byte(vm.PUSH1), 1,
		byte(vm.SUB),
		byte(vm.PUSH1), 3,
		byte(vm.JUMP),

		// Drop the iterator and return r.
		byte(vm.JUMPDEST),
		byte(vm.POP),
	}

	return exampleSpec{
		Name:      "arithmetic",
		Code:      append(code, returnTop...),
		reference: arithmetic,
	}.build()
}

func arithmetic(n int) int {
	result := 0
	for i := n; i > 0; i-- {
		result = (result + i*i*(i%3+1)/2) % math.MaxInt32
	}
	return result
}
