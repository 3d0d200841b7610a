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
	"fmt"
	"strings"
	"sync"

	"github.com/Fantom-foundation/nevm/go/nevm"
)

const maxStackSize = 1024 // Maximum size of the stack of a single machine.

// stack is the 1024-element Word stack of a machine. It is a fixed-size stack
// to prevent memory reallocation during execution. Boundaries are not checked
// by the stack operations; the interpreter loop verifies the stack limits of
// each instruction before executing it.
//
// Each stack consumes 1024 * 32 bytes = 32KB of memory. Nested calls create a
// new stack per machine, so stacks are recycled through a pool. To obtain an
// empty stack from the pool, use NewStack(). To return a stack to the pool,
// use ReturnStack(s).
//
// Example usage:
//
//	s := NewStack()
//	defer ReturnStack(s)
//	<use the stack in your local scope>
//
// The stack is not thread-safe. NewStack() and ReturnStack() are thread-safe.
type stack struct {
	data         [maxStackSize]nevm.Word
	stackPointer int
}

// push adds a copy of the given value to the top of the stack.
func (s *stack) push(d *nevm.Word) {
	s.data[s.stackPointer] = *d
	s.stackPointer++
}

// pushUndefined adds an element with an undefined value to the top of the
// stack and returns a pointer to it. Use this function if the new top element
// should be set directly using the returned pointer.
func (s *stack) pushUndefined() *nevm.Word {
	s.stackPointer++
	return &s.data[s.stackPointer-1]
}

// pop removes the top element from the stack and returns a pointer to it. The
// obtained pointer is only valid until the next push operation.
func (s *stack) pop() *nevm.Word {
	s.stackPointer--
	return &s.data[s.stackPointer]
}

// peek returns a pointer to the top element of the stack without removing it.
func (s *stack) peek() *nevm.Word {
	return &s.data[s.len()-1]
}

// peekN returns a pointer to the n-th element from the top of the stack
// without removing it. The top element is at index 0.
func (s *stack) peekN(n int) *nevm.Word {
	return &s.data[s.len()-n-1]
}

func (s *stack) len() int {
	return s.stackPointer
}

// swap exchanges the top element with the n-th element from the top. The top
// element is at index 0. Thus, swap(0) is a no-op.
func (s *stack) swap(n int) {
	s.data[s.len()-n-1], s.data[s.len()-1] = s.data[s.len()-1], s.data[s.len()-n-1]
}

// dup duplicates the n-th element from the top and pushes it to the top of the
// stack. The top element is at index 0. Thus, dup(0) duplicates the top element.
func (s *stack) dup(n int) {
	s.data[s.stackPointer] = s.data[s.stackPointer-n-1]
	s.stackPointer++
}

// get returns the element at the given index. The bottom element is at index 0.
func (s *stack) get(i int) *nevm.Word {
	return &s.data[i]
}

// snapshot copies the current content of the stack, bottom element first.
func (s *stack) snapshot() []nevm.Word {
	res := make([]nevm.Word, s.len())
	copy(res, s.data[:s.len()])
	return res
}

func (s *stack) String() string {
	b := strings.Builder{}
	for i := 0; i < s.len(); i++ {
		b.WriteString(fmt.Sprintf("    [%4d] %v\n", s.len()-i-1, s.peekN(i).Hex()))
	}
	return b.String()
}

// ------------------ Stack Pool ------------------

var stackPool = sync.Pool{
	New: func() interface{} {
		return &stack{}
	},
}

// NewStack returns an empty stack from the reuse pool. This function is
// thread-safe.
func NewStack() *stack {
	return stackPool.Get().(*stack)
}

// ReturnStack returns the stack to the reuse pool. Any stack may only be
// returned once to avoid concurrent re-use. This is not checked internally.
// This function is thread-safe.
func ReturnStack(s *stack) {
	s.stackPointer = 0
	stackPool.Put(s)
}
