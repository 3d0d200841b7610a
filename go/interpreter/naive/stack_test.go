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
	"strings"
	"sync"
	"testing"

	"github.com/Fantom-foundation/nevm/go/nevm"
	"golang.org/x/exp/slices"
)

func TestStack_ZeroStackIsEmpty(t *testing.T) {
	var stack stack
	if want, got := 0, stack.len(); want != got {
		t.Errorf("expected stack to be empty, but got %d elements", got)
	}
}

func TestStack_pushAndPop_CanUseFullCapacity(t *testing.T) {
	var stack stack

	for i := 0; i < maxStackSize; i++ {
		val := nevm.NewWord(uint64(i))
		stack.push(&val)
	}

	if want, got := maxStackSize, stack.len(); want != got {
		t.Errorf("expected stack to have %d elements, but got %d", want, got)
	}

	for i := maxStackSize - 1; i >= 0; i-- {
		val := stack.pop()
		if want := nevm.NewWord(uint64(i)); !want.Eq(val) {
			t.Errorf("expected popped value to be %d, but got %d", &want, val)
		}
		if want, got := i, stack.len(); want != got {
			t.Errorf("expected stack to have %d elements, but got %d", want, got)
		}
	}
}

func TestStack_pushUndefined_ResultCanBeUsedToManipulatePeek(t *testing.T) {
	stack := NewStack()
	defer ReturnStack(stack)

	for i := uint64(0); i < 5; i++ {
		stack.pushUndefined().SetUint64(i)
		if want := nevm.NewWord(i); !want.Eq(stack.peek()) {
			t.Errorf("expected top element to be %d, but got %d", &want, stack.peek())
		}
	}
}

func TestStack_peekN_ObtainsNthElementFromTop(t *testing.T) {
	stack := NewStack()
	defer ReturnStack(stack)

	for i := 0; i < 10; i++ {
		stack.pushUndefined().SetUint64(uint64(i))
	}

	if want, got := stack.peek(), stack.peekN(0); want != got {
		t.Errorf("expected peekN(0) to be the same as peek(), but got %d and %d", want, got)
	}
	for i := 0; i < 10; i++ {
		if want, got := uint64(9-i), stack.peekN(i).Uint64(); want != got {
			t.Errorf("expected %d-th element from top to be %d, but got %d", i, want, got)
		}
	}
}

func TestStack_swap_ExchangesTopElementWithSelectedElement(t *testing.T) {
	// n => expected order after swap(n), bottom first
	tests := map[int][]uint64{
		0: {1, 2, 3, 4},
		1: {1, 2, 4, 3},
		2: {1, 4, 3, 2},
		3: {4, 2, 3, 1},
	}

	for n, want := range tests {
		stack := NewStack()
		for i := uint64(1); i <= 4; i++ {
			stack.pushUndefined().SetUint64(i)
		}
		stack.swap(n)
		if got := toUint64s(stack.snapshot()); !slices.Equal(want, got) {
			t.Errorf("unexpected stack after swap(%d), wanted %v, got %v", n, want, got)
		}
		ReturnStack(stack)
	}
}

func TestStack_dup_DuplicatesSelectedElement(t *testing.T) {
	// n => expected order after dup(n), bottom first
	tests := map[int][]uint64{
		0: {1, 2, 3, 3},
		1: {1, 2, 3, 2},
		2: {1, 2, 3, 1},
	}

	for n, want := range tests {
		stack := NewStack()
		for i := uint64(1); i <= 3; i++ {
			stack.pushUndefined().SetUint64(i)
		}
		stack.dup(n)
		if got := toUint64s(stack.snapshot()); !slices.Equal(want, got) {
			t.Errorf("unexpected stack after dup(%d), wanted %v, got %v", n, want, got)
		}
		ReturnStack(stack)
	}
}

func TestStack_snapshot_IsIndependentOfStack(t *testing.T) {
	stack := NewStack()
	defer ReturnStack(stack)
	stack.pushUndefined().SetUint64(1)

	snapshot := stack.snapshot()
	stack.peek().SetUint64(2)

	if want, got := uint64(1), snapshot[0].Uint64(); want != got {
		t.Errorf("snapshot was modified, wanted %d, got %d", want, got)
	}
}

func TestStack_String_ListsElementsTopFirst(t *testing.T) {
	stack := NewStack()
	defer ReturnStack(stack)
	stack.pushUndefined().SetUint64(1)
	stack.pushUndefined().SetUint64(2)

	want := "    [   1] 0x2\n    [   0] 0x1\n"
	if got := stack.String(); !strings.Contains(got, want) {
		t.Errorf("unexpected stack print, wanted %q, got %q", want, got)
	}
}

func TestStack_ReturnedStacksAreEmptyWhenReused(t *testing.T) {
	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stack := NewStack()
			if stack.len() != 0 {
				t.Errorf("obtained non-empty stack from pool")
			}
			stack.pushUndefined().SetUint64(12)
			ReturnStack(stack)
		}()
	}
	wg.Wait()
}

func toUint64s(words []nevm.Word) []uint64 {
	res := make([]uint64, len(words))
	for i := range words {
		res[i] = words[i].Uint64()
	}
	return res
}
