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

// ConstError is an error type that can be used to define immutable error
// constants. Two ConstErrors with the same message are equal, which makes
// them usable with errors.Is.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

// The fatal error kinds of a Machine. Any of these stops the Machine that
// raised it; a parent Machine only observes the failure through the
// success flag pushed by CALL or STATICCALL.
const (
	ErrStackUnderflow         = ConstError("stack underflow")
	ErrStackOverflow          = ConstError("stack overflow")
	ErrArithmeticOverflow     = ConstError("arithmetic overflow")
	ErrArithmeticError        = ConstError("division by zero")
	ErrInvalidJumpDestination = ConstError("invalid jump destination")
	ErrMemoryBounds           = ConstError("memory access out of bounds")
	ErrOutOfGas               = ConstError("out of gas")
	ErrStaticStateViolation   = ConstError("state modification in static mode")
	ErrUnknownOpcode          = ConstError("unknown opcode")
	ErrUnknownAccount         = ConstError("unknown account")
	ErrNotImplemented         = ConstError("operation not implemented")
)

// ErrInsufficientBalance is returned by ledger transfers if the sending
// account can not cover the transferred amount. Machines treat it as a soft
// failure of the call that requested the transfer.
const ErrInsufficientBalance = ConstError("insufficient balance")
