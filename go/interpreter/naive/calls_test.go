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
	"bytes"
	"errors"
	"testing"

	"github.com/Fantom-foundation/nevm/go/nevm"
	"github.com/Fantom-foundation/nevm/go/nevm/vm"
	"go.uber.org/mock/gomock"
)

// callCode produces code issuing a CALL or STATICCALL to the given target.
// The value is ignored for STATICCALL.
func callCode(kind vm.OpCode, target, value, inOffset, inSize, outOffset, outSize byte) nevm.Code {
	code := asm(vm.PUSH1, outSize, vm.PUSH1, outOffset, vm.PUSH1, inSize, vm.PUSH1, inOffset)
	if kind == vm.CALL {
		code = append(code, asm(vm.PUSH1, value)...)
	}
	return append(code, asm(vm.PUSH1, target, vm.PUSH0, kind)...)
}

// returnTopCode is a code suffix returning the top of the stack as a word.
var returnTopCode = asm(vm.PUSH0, vm.MSTORE, vm.PUSH1, 32, vm.PUSH0, vm.RETURN)

func TestCall_ReturnDataIsCopiedToOutputRegion(t *testing.T) {
	caller := nevm.DefaultCallContext().Address
	callee := nevm.NewWord(0xbb)
	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
		caller: {},
		callee: {Code: asm(vm.PUSH1, 0x2a, vm.PUSH0, vm.MSTORE8, vm.PUSH1, 2, vm.PUSH0, vm.RETURN)},
	})

	for _, kind := range []vm.OpCode{vm.CALL, vm.STATICCALL} {
		t.Run(kind.String(), func(t *testing.T) {
			code := append(callCode(kind, 0xbb, 0, 0, 0, 1, 1), byte(vm.RETURNDATASIZE))
			result, err := runCode(t, code, ledger)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want, got := words(1, 2), result.Stack; !equalStacks(want, got) {
				t.Errorf("unexpected stack, wanted %v, got %v", want, got)
			}
			// Only the first byte of the return data fits into the output region.
			if want, got := []byte{0, 0x2a}, result.Memory; !bytes.Equal(want, got) {
				t.Errorf("unexpected memory, wanted %x, got %x", want, got)
			}
			if !result.Success {
				t.Errorf("caller should succeed")
			}
		})
	}
}

func TestCall_InputAndContextArePassedToCallee(t *testing.T) {
	caller := nevm.DefaultCallContext().Address
	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
		caller:             {Balance: 10},
		nevm.NewWord(0xb1): {Code: append(asm(vm.PUSH0, vm.CALLDATALOAD), returnTopCode...)},
		nevm.NewWord(0xb2): {Code: append(asm(vm.CALLER), returnTopCode...)},
		nevm.NewWord(0xb3): {Code: append(asm(vm.CALLVALUE), returnTopCode...)},
		nevm.NewWord(0xb4): {Code: append(asm(vm.ADDRESS), returnTopCode...)},
		nevm.NewWord(0xb5): {Code: append(asm(vm.CALLDATASIZE), returnTopCode...)},
	})

	tests := map[string]struct {
		target byte
		want   nevm.Word
	}{
		"input data":      {target: 0xb1, want: nevm.NewWord(0x77)},
		"caller":          {target: 0xb2, want: caller},
		"value":           {target: 0xb3, want: nevm.NewWord(3)},
		"address":         {target: 0xb4, want: nevm.NewWord(0xb4)},
		"input data size": {target: 0xb5, want: nevm.NewWord(32)},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			code := asm(vm.PUSH1, 0x77, vm.PUSH0, vm.MSTORE)
			code = append(code, callCode(vm.CALL, test.target, 3, 0, 32, 32, 32)...)
			code = append(code, asm(vm.PUSH1, 32, vm.MLOAD)...)
			result, err := runCode(t, code, ledger.Clone())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := []nevm.Word{nevm.NewWord(1), test.want}
			if got := result.Stack; !equalStacks(want, got) {
				t.Errorf("unexpected stack, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestCall_ValueIsTransferred(t *testing.T) {
	caller := nevm.DefaultCallContext().Address
	callee := nevm.NewWord(0xbb)
	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
		caller: {Balance: 100},
		callee: {Balance: 1},
	})

	result, err := runCode(t, callCode(vm.CALL, 0xbb, 30, 0, 0, 0, 0), ledger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := words(1), result.Stack; !equalStacks(want, got) {
		t.Errorf("unexpected stack, wanted %v, got %v", want, got)
	}
	from, _ := ledger.GetAccount(caller)
	to, _ := ledger.GetAccount(callee)
	if from.Balance != 70 || to.Balance != 31 {
		t.Errorf("unexpected balances, caller %d, callee %d", from.Balance, to.Balance)
	}
}

func TestCall_InsufficientBalanceFailsCallWithoutStoppingCaller(t *testing.T) {
	caller := nevm.DefaultCallContext().Address
	callee := nevm.NewWord(0xbb)
	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
		caller: {Balance: 100},
		callee: {Balance: 1, Code: asm(vm.PUSH1, 1, vm.PUSH1, 1, vm.SSTORE)},
	})

	code := append(callCode(vm.CALL, 0xbb, 200, 0, 0, 0, 0), asm(vm.PUSH1, 5)...)
	result, err := runCode(t, code, ledger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := words(0, 5), result.Stack; !equalStacks(want, got) {
		t.Errorf("unexpected stack, wanted %v, got %v", want, got)
	}
	from, _ := ledger.GetAccount(caller)
	to, _ := ledger.GetAccount(callee)
	if from.Balance != 100 || to.Balance != 1 {
		t.Errorf("balances were modified, caller %d, callee %d", from.Balance, to.Balance)
	}
}

func TestCall_UnknownTargetIsFatal(t *testing.T) {
	caller := nevm.DefaultCallContext().Address
	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{caller: {}})
	for _, kind := range []vm.OpCode{vm.CALL, vm.STATICCALL} {
		result, err := runCode(t, callCode(kind, 0xbb, 0, 0, 0, 0, 0), ledger)
		if !errors.Is(err, nevm.ErrUnknownAccount) {
			t.Errorf("unexpected error for %v, wanted %v, got %v", kind, nevm.ErrUnknownAccount, err)
		}
		if result.Success {
			t.Errorf("caller should not succeed")
		}
	}
}

func TestCall_StaticCallPreventsStateModifications(t *testing.T) {
	callee := nevm.NewWord(0xbb)
	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
		callee: {Code: asm(vm.PUSH1, 1, vm.PUSH1, 1, vm.SSTORE)},
	})

	result, err := runCode(t, callCode(vm.STATICCALL, 0xbb, 0, 0, 0, 0, 0), ledger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := words(0), result.Stack; !equalStacks(want, got) {
		t.Errorf("unexpected stack, wanted %v, got %v", want, got)
	}
	if !result.Success {
		t.Errorf("caller should not be affected by failing callee")
	}
}

func TestCall_StaticModeIsInherited(t *testing.T) {
	// The callee issues a plain CALL to an account modifying its storage.
	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
		nevm.NewWord(0xb1): {Code: append(callCode(vm.CALL, 0xb2, 0, 0, 0, 0, 0), returnTopCode...)},
		nevm.NewWord(0xb2): {Code: asm(vm.PUSH1, 1, vm.PUSH1, 1, vm.SSTORE)},
	})

	code := append(callCode(vm.STATICCALL, 0xb1, 0, 0, 0, 0, 32), asm(vm.PUSH0, vm.MLOAD)...)
	result, err := runCode(t, code, ledger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the outer call succeeds, the inner one fails
	if want, got := words(1, 0), result.Stack; !equalStacks(want, got) {
		t.Errorf("unexpected stack, wanted %v, got %v", want, got)
	}
}

func TestCall_FailingCalleeDoesNotStopCaller(t *testing.T) {
	tests := map[string]struct {
		code       nevm.Code
		returnData uint64
	}{
		"stack underflow": {code: asm(vm.ADD)},
		"invalid":         {code: asm(vm.INVALID)},
		"invalid jump":    {code: asm(vm.PUSH1, 0, vm.JUMP)},
		"revert":          {code: asm(vm.PUSH1, 3, vm.PUSH0, vm.REVERT), returnData: 3},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
				nevm.NewWord(0xbb): {Code: test.code},
			})
			code := append(callCode(vm.STATICCALL, 0xbb, 0, 0, 0, 0, 0), byte(vm.RETURNDATASIZE))
			result, err := runCode(t, code, ledger)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want, got := words(0, test.returnData), result.Stack; !equalStacks(want, got) {
				t.Errorf("unexpected stack, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestCall_NestedStorageStartsEmpty(t *testing.T) {
	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
		nevm.NewWord(0xbb): {Code: append(asm(vm.PUSH1, 1, vm.SLOAD), returnTopCode...)},
	})
	code := asm(vm.PUSH1, 5, vm.PUSH1, 1, vm.SSTORE)
	code = append(code, callCode(vm.STATICCALL, 0xbb, 0, 0, 0, 0, 32)...)
	code = append(code, asm(vm.PUSH0, vm.MLOAD)...)

	result, err := runCode(t, code, ledger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := words(1, 0), result.Stack; !equalStacks(want, got) {
		t.Errorf("unexpected stack, wanted %v, got %v", want, got)
	}
	want := nevm.Storage{nevm.NewWord(1): nevm.NewWord(5)}
	if !want.Equal(result.Storage) {
		t.Errorf("unexpected storage, wanted %v, got %v", want, result.Storage)
	}
}

func TestCall_LogsOfSuccessfulCallsAreKept(t *testing.T) {
	caller := nevm.DefaultCallContext().Address
	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
		caller:             {},
		nevm.NewWord(0xb1): {Code: asm(vm.PUSH1, 1, vm.PUSH0, vm.PUSH0, vm.LOG1)},
		nevm.NewWord(0xb2): {Code: asm(vm.PUSH1, 2, vm.PUSH0, vm.PUSH0, vm.LOG1, vm.INVALID)},
	})
	code := asm(vm.PUSH0, vm.PUSH0, vm.LOG0)
	code = append(code, callCode(vm.CALL, 0xb1, 0, 0, 0, 0, 0)...)
	code = append(code, callCode(vm.CALL, 0xb2, 0, 0, 0, 0, 0)...)

	result, err := runCode(t, code, ledger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []nevm.Log{
		{Address: caller},
		{Address: nevm.NewWord(0xb1), Topics: words(1)},
	}
	if len(want) != len(result.Logs) {
		t.Fatalf("unexpected number of logs, wanted %d, got %d", len(want), len(result.Logs))
	}
	for i := range want {
		if !want[i].Equal(&result.Logs[i]) {
			t.Errorf("unexpected log %d, wanted %v, got %v", i, &want[i], &result.Logs[i])
		}
	}
}

func TestCall_CallDepthIsLimited(t *testing.T) {
	// The code calls itself and returns the number of successful nested
	// calls below it.
	self := nevm.DefaultCallContext().Address
	code := asm(
		vm.PUSH1, 32, vm.PUSH0, vm.PUSH0, vm.PUSH0, vm.PUSH0,
		vm.PUSH32, self.Bytes32(), vm.PUSH0, vm.CALL,
		vm.PUSH0, vm.MLOAD, vm.ADD,
	)
	code = append(code, returnTopCode...)
	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{self: {Code: code}})

	for _, depth := range []int{1, 2, 5, 20} {
		ctx := nevm.DefaultCallContext()
		ctx.GasLimit = 1 << 20
		result, err := runCodeWith(t, Config{MaxCallDepth: depth}, nevm.Parameters{
			Code:    code,
			Context: ctx,
			Ledger:  ledger,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := nevm.NewWord(uint64(depth))
		if got := nevm.WordFromBytes(result.Output); !want.Eq(&got) {
			t.Errorf("unexpected number of nested calls, wanted %d, got %v", depth, got.Hex())
		}
	}
}

func TestCall_LedgerInteractions(t *testing.T) {
	caller := nevm.DefaultCallContext().Address
	target := nevm.NewWord(0xbb)

	tests := map[string]struct {
		setup func(*nevm.MockLedger)
		want  uint64
	}{
		"successful transfer": {
			setup: func(ledger *nevm.MockLedger) {
				ledger.EXPECT().GetAccount(target).Return(&nevm.Account{}, true)
				ledger.EXPECT().Transfer(caller, target, uint64(5)).Return(nil)
			},
			want: 1,
		},
		"insufficient balance": {
			setup: func(ledger *nevm.MockLedger) {
				ledger.EXPECT().GetAccount(target).Return(&nevm.Account{}, true)
				ledger.EXPECT().Transfer(caller, target, uint64(5)).Return(nevm.ErrInsufficientBalance)
			},
			want: 0,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ledger := nevm.NewMockLedger(ctrl)
			test.setup(ledger)

			result, err := runCode(t, callCode(vm.CALL, 0xbb, 5, 0, 0, 0, 0), ledger)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want, got := words(test.want), result.Stack; !equalStacks(want, got) {
				t.Errorf("unexpected stack, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestCall_TransferErrorsOtherThanInsufficientBalanceAreFatal(t *testing.T) {
	target := nevm.NewWord(0xbb)
	ctrl := gomock.NewController(t)
	ledger := nevm.NewMockLedger(ctrl)
	ledger.EXPECT().GetAccount(target).Return(&nevm.Account{}, true)
	ledger.EXPECT().Transfer(gomock.Any(), target, uint64(5)).Return(nevm.ErrUnknownAccount)

	_, err := runCode(t, callCode(vm.CALL, 0xbb, 5, 0, 0, 0, 0), ledger)
	if !errors.Is(err, nevm.ErrUnknownAccount) {
		t.Errorf("unexpected error, wanted %v, got %v", nevm.ErrUnknownAccount, err)
	}
}

func TestCall_StaticCallDoesNotTransferValue(t *testing.T) {
	target := nevm.NewWord(0xbb)
	ctrl := gomock.NewController(t)
	ledger := nevm.NewMockLedger(ctrl)
	ledger.EXPECT().GetAccount(target).Return(&nevm.Account{Code: asm(vm.STOP)}, true)

	result, err := runCode(t, callCode(vm.STATICCALL, 0xbb, 0, 0, 0, 0, 0), ledger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := words(1), result.Stack; !equalStacks(want, got) {
		t.Errorf("unexpected stack, wanted %v, got %v", want, got)
	}
}
