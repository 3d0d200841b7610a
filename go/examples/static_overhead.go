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

// This example tries to represent the worst case for very short programs.
// In particular, it tries to trigger all allocations of a single run:
// - code being not empty requires a jump table
// - opcode calldatacopy causes memory expansion
// - opcode return causes output not to be empty
func GetStaticOverheadExample() Example {
	code := []byte{
		byte(vm.PUSH1), 4, // push size 4
		byte(vm.PUSH1), 28, // push offset 28
		byte(vm.PUSH1), 28, // push destOffset 28
		byte(vm.CALLDATACOPY), // copy the lowest 4 bytes of the argument to memory
		byte(vm.PUSH1), 32,    // push len 32
		byte(vm.PUSH0),        // push offset 0
		byte(vm.RETURN),       // return 32 bytes at offset 0
	}

	return exampleSpec{
		Name:      "static_overhead",
		Code:      code,
		reference: StaticOverheadRef,
	}.build()
}

func StaticOverheadRef(x int) int {
	return int(uint32(x))
}
