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

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Word is the 256-bit unsigned integer used for stack elements, storage keys
// and values, and account addresses.
type Word = uint256.Int

// NewWord creates a Word holding the given value.
func NewWord(value uint64) Word {
	return *uint256.NewInt(value)
}

// WordFromBytes interprets the given bytes as a big-endian number. If more
// than 32 bytes are given, only the trailing 32 bytes are used.
func WordFromBytes(data []byte) Word {
	var res Word
	res.SetBytes(data)
	return res
}

// WordFromHex parses a 0x-prefixed hex string of at most 32 bytes. Leading
// zeros and odd digit counts are accepted.
func WordFromHex(s string) (Word, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return Word{}, fmt.Errorf("invalid format, does not start with 0x: %v", s)
	}
	digits := s[2:]
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	data, err := hexutil.Decode("0x" + digits)
	if err != nil {
		return Word{}, err
	}
	if len(data) > 32 {
		return Word{}, fmt.Errorf("invalid format, wanted at most 32 bytes, got %d", len(data))
	}
	return WordFromBytes(data), nil
}

// MustWord is like WordFromHex but panics on malformed input. It is intended
// for constants and fixtures.
func MustWord(s string) Word {
	res, err := WordFromHex(s)
	if err != nil {
		panic(err)
	}
	return res
}

// CheckedAdd computes a+b and fails with ErrArithmeticOverflow instead of
// wrapping around.
func CheckedAdd(a, b *Word) (Word, error) {
	var res Word
	if _, overflow := res.AddOverflow(a, b); overflow {
		return Word{}, ErrArithmeticOverflow
	}
	return res, nil
}

// CheckedSub computes b-a and fails with ErrArithmeticOverflow if a > b.
func CheckedSub(b, a *Word) (Word, error) {
	var res Word
	if _, underflow := res.SubOverflow(b, a); underflow {
		return Word{}, ErrArithmeticOverflow
	}
	return res, nil
}

// CheckedMul computes a*b and fails with ErrArithmeticOverflow if the product
// does not fit into 256 bits.
func CheckedMul(a, b *Word) (Word, error) {
	var res Word
	if _, overflow := res.MulOverflow(a, b); overflow {
		return Word{}, ErrArithmeticOverflow
	}
	return res, nil
}

// CheckedDiv computes the integer quotient b/a and fails with
// ErrArithmeticError if a is zero.
func CheckedDiv(b, a *Word) (Word, error) {
	if a.IsZero() {
		return Word{}, ErrArithmeticError
	}
	var res Word
	res.Div(b, a)
	return res, nil
}

// CheckedSDiv is the two's complement signed version of CheckedDiv.
func CheckedSDiv(b, a *Word) (Word, error) {
	if a.IsZero() {
		return Word{}, ErrArithmeticError
	}
	var res Word
	res.SDiv(b, a)
	return res, nil
}

// CheckedMod computes b mod a and fails with ErrArithmeticError if a is zero.
func CheckedMod(b, a *Word) (Word, error) {
	if a.IsZero() {
		return Word{}, ErrArithmeticError
	}
	var res Word
	res.Mod(b, a)
	return res, nil
}

// CheckedExp computes base^exponent by square-and-multiply and fails with
// ErrArithmeticOverflow as soon as an intermediate product that contributes
// to the result exceeds 256 bits. 0^0 is defined as 1.
func CheckedExp(base, exponent *Word) (Word, error) {
	result := NewWord(1)
	factor := *base
	rest := *exponent
	for !rest.IsZero() {
		if rest[0]&1 == 1 {
			if _, overflow := result.MulOverflow(&result, &factor); overflow {
				return Word{}, ErrArithmeticOverflow
			}
		}
		rest.Rsh(&rest, 1)
		if rest.IsZero() {
			break
		}
		if _, overflow := factor.MulOverflow(&factor, &factor); overflow {
			return Word{}, ErrArithmeticOverflow
		}
	}
	return result, nil
}

// ToUint64 converts a Word into a uint64 and reports whether the value fits.
func ToUint64(w *Word) (uint64, bool) {
	if !w.IsUint64() {
		return 0, false
	}
	return w.Uint64(), true
}
