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

// GetGasBurnerExample provides an example code for tests and benchmarks that
// runs a loop burning gas. It corresponds to the following pseudo code:
//
//	function burn(x) {
//		wantGas = gasleft() - x;
//		while (gasleft() > wantGas) {}
//		return x;
//	}
//
// Gas is only consumed if the interpreter charges for the instructions of
// the loop, which the default gas table does for PUSH1.
func GetGasBurnerExample() Example {
	code := []byte{
		// wantGas = gasleft() - x; the stack holds [x, wantGas].
		byte(vm.PUSH0),
		byte(vm.CALLDATALOAD),
		byte(vm.GAS),
		byte(vm.DUP2),
		byte(vm.SUB),

		// Loop while wantGas < gasleft().
		byte(vm.JUMPDEST),
		byte(vm.DUP1),
		byte(vm.GAS),
		byte(vm.LT),
		byte(vm.PUSH1), 5,
		byte(vm.JUMPI),

		byte(vm.POP),
	}

	return exampleSpec{
		Name:      "gas_burner",
		Code:      append(code, returnTop...),
		reference: burnGas,
	}.build()
}

func burnGas(x int) int {
	return x
}
