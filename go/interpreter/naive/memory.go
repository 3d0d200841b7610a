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
	"github.com/Fantom-foundation/nevm/go/nevm"
)

// Memory is the byte-addressable scratch memory of a single machine. It grows
// to cover any accessed range, is zero-initialized on growth, and never
// shrinks. Unlike the EVM, memory is not rounded up to full words: its size
// is the maximum end offset of all accesses so far.
type Memory struct {
	store []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) length() uint64 {
	return uint64(len(m.store))
}

// expandMemory grows the memory to cover the given range. Empty ranges never
// grow the memory. Growth is charged according to the machine's gas table.
// If the range end overflows, exceeds the machine's memory limit or exceeds
// the memory left to the call tree, ErrMemoryBounds is returned.
func (m *Memory) expandMemory(offset, size uint64, c *machine) error {
	if size == 0 {
		return nil
	}
	needed := offset + size
	if needed < offset {
		return nevm.ErrMemoryBounds
	}
	if m.length() < needed {
		if needed > c.maxMemorySize() {
			return nevm.ErrMemoryBounds
		}
		if !c.memoryBudget.take(needed - m.length()) {
			return nevm.ErrMemoryBounds
		}
		c.useGas(c.gasTable().memoryExpansionCost(m.length(), needed))
		m.store = append(m.store, make([]byte, needed-m.length())...)
	}
	return nil
}

// memoryBudget bounds the combined memory of all machines of a single call
// tree. The machines of a tree run one after another, so the budget is not
// synchronized.
type memoryBudget struct {
	remaining uint64
}

func newMemoryBudget(size uint64) *memoryBudget {
	return &memoryBudget{remaining: size}
}

// take reserves the given number of bytes and reports whether they were
// available. Nothing is reserved on failure.
func (b *memoryBudget) take(size uint64) bool {
	if size > b.remaining {
		return false
	}
	b.remaining -= size
	return true
}

func (b *memoryBudget) give(size uint64) {
	b.remaining += size
}

// getSlice obtains a slice of size bytes from the memory at the given offset,
// growing the memory as needed. The returned slice is backed by the memory's
// internal data and is invalidated by any subsequent growth.
func (m *Memory) getSlice(offset, size uint64, c *machine) ([]byte, error) {
	if err := m.expandMemory(offset, size, c); err != nil {
		return nil, err
	}
	// memory does not grow for empty ranges, independently of the offset
	if size == 0 {
		return nil, nil
	}
	return m.store[offset : offset+size], nil
}

// set writes the given data to the memory at the given offset, growing the
// memory as needed.
func (m *Memory) set(offset uint64, data []byte, c *machine) error {
	target, err := m.getSlice(offset, uint64(len(data)), c)
	if err != nil {
		return err
	}
	copy(target, data)
	return nil
}

// readWord reads 32 bytes at the given offset into the given target.
func (m *Memory) readWord(offset uint64, target *nevm.Word, c *machine) error {
	data, err := m.getSlice(offset, 32, c)
	if err != nil {
		return err
	}
	target.SetBytes32(data)
	return nil
}

// setWord writes the 32-byte big-endian encoding of value at the given offset.
func (m *Memory) setWord(offset uint64, value *nevm.Word, c *machine) error {
	data, err := m.getSlice(offset, 32, c)
	if err != nil {
		return err
	}
	value.WriteToSlice(data)
	return nil
}

// setByte writes a single byte at the given offset. The memory is grown to
// cover a full word starting at the offset, while only one byte is written.
func (m *Memory) setByte(offset uint64, value byte, c *machine) error {
	if err := m.expandMemory(offset, 32, c); err != nil {
		return err
	}
	m.store[offset] = value
	return nil
}

// snapshot returns a copy of the current memory content.
func (m *Memory) snapshot() []byte {
	res := make([]byte, len(m.store))
	copy(res, m.store)
	return res
}

// toMemoryRange converts an offset and size pair taken from the stack into a
// byte range. Empty ranges are valid for any offset.
func toMemoryRange(offset, size *nevm.Word) (uint64, uint64, error) {
	if size.IsZero() {
		return 0, 0, nil
	}
	if !offset.IsUint64() || !size.IsUint64() || offset.Uint64()+size.Uint64() < offset.Uint64() {
		return 0, 0, nevm.ErrMemoryBounds
	}
	return offset.Uint64(), size.Uint64(), nil
}

// toMemoryOffset converts a stack value into a memory offset.
func toMemoryOffset(offset *nevm.Word) (uint64, error) {
	res, ok := nevm.ToUint64(offset)
	if !ok {
		return 0, nevm.ErrMemoryBounds
	}
	return res, nil
}

// getData returns size bytes of data starting at the given offset, padded with
// zeros where the range exceeds the data.
func getData(data []byte, start uint64, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length || end < start {
		end = length
	}
	res := make([]byte, int(size))
	copy(res, data[start:end])
	return res
}
