// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package nevm

import "bytes"

// CallContext summarizes the transaction-like facts of a single Machine.
type CallContext struct {
	Nonce    uint64
	GasPrice uint64
	GasLimit uint64
	To       Word   // < the recipient named by the transaction or call
	Value    uint64 // < the value transferred with the call
	Data     Data   // < the input data
	Caller   Word
	Origin   Word
	Address  Word // < the account whose code is executed

	// Signature fields, carried along but not interpreted.
	V, R, S uint64
}

// DefaultCallContext returns a fixed demonstration context.
func DefaultCallContext() CallContext {
	return CallContext{
		GasPrice: 1,
		GasLimit: 21000,
		Caller:   MustWord("0x9bbfed6889322e016e0a02ee459d306fc19545d8"),
		Origin:   MustWord("0x1000000000000000000000000000000000000c42"),
		Address:  MustWord("0x1000000000000000000000000000000000000c42"),
	}
}

// Derive creates the context of a nested call to the given target. The
// executing account becomes the caller; origin, gas price and gas limit are
// inherited.
func (c *CallContext) Derive(target Word, value uint64, input Data) CallContext {
	return CallContext{
		GasPrice: c.GasPrice,
		GasLimit: c.GasLimit,
		To:       target,
		Value:    value,
		Data:     bytes.Clone(input),
		Caller:   c.Address,
		Origin:   c.Origin,
		Address:  target,
	}
}
