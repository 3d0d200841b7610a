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
	"github.com/Fantom-foundation/nevm/go/nevm/vm"
	lru "github.com/hashicorp/golang-lru/v2"
)

// bitvec is a bit vector which maps bytes in a program. A set bit marks the
// position of a JUMPDEST instruction.
type bitvec []byte

func (bits bitvec) set1(pos uint64) {
	bits[pos/8] |= 1 << (pos % 8)
}

func (bits bitvec) isSet(pos uint64) bool {
	return (bits[pos/8]>>(pos%8))&1 == 1
}

// JumpTable is the set of valid jump destinations of a code. A position is a
// valid destination if it holds a JUMPDEST instruction that is not part of the
// immediate data of a PUSH instruction. JumpTables are immutable and may be
// shared among machines running the same code.
type JumpTable struct {
	bits bitvec
	size uint64
}

// NewJumpTable analyzes the given code in a single forward pass.
func NewJumpTable(code []byte) *JumpTable {
	bits := make(bitvec, len(code)/8+1)
	for pc := uint64(0); pc < uint64(len(code)); {
		op := vm.OpCode(code[pc])
		if op == vm.JUMPDEST {
			bits.set1(pc)
		}
		pc += uint64(op.Width())
	}
	return &JumpTable{bits: bits, size: uint64(len(code))}
}

// IsValid determines whether the given position is a valid jump destination.
func (t *JumpTable) IsValid(destination *nevm.Word) bool {
	if !destination.IsUint64() {
		return false
	}
	pos := destination.Uint64()
	return pos < t.size && t.bits.isSet(pos)
}

// destinations lists all valid jump destinations in ascending order.
func (t *JumpTable) destinations() []uint64 {
	res := []uint64{}
	for pos := uint64(0); pos < t.size; pos++ {
		if t.bits.isSet(pos) {
			res = append(res, pos)
		}
	}
	return res
}

// maxCachedCodeLength is the maximum length of a code in bytes whose jump
// table is retained in the cache. Longer codes are analyzed on every run.
const maxCachedCodeLength = 1<<14 + 1<<13 // = 24_576 bytes

// defaultJumpTableCacheSize is the number of jump tables retained by default.
const defaultJumpTableCacheSize = 4096

// jumpTableCache retains the jump tables of recently executed codes, indexed
// by the code's Keccak-256 hash.
type jumpTableCache struct {
	cache *lru.Cache[[32]byte, *JumpTable]
}

// newJumpTableCache creates a cache for the given number of jump tables. If
// the size is 0, a default size is used. If negative, no cache is used.
func newJumpTableCache(size int) (*jumpTableCache, error) {
	if size == 0 {
		size = defaultJumpTableCacheSize
	}
	if size < 0 {
		return &jumpTableCache{}, nil
	}
	cache, err := lru.New[[32]byte, *JumpTable](size)
	if err != nil {
		return nil, err
	}
	return &jumpTableCache{cache: cache}, nil
}

// get returns the jump table of the given code.
func (c *jumpTableCache) get(code []byte) *JumpTable {
	if c.cache == nil || len(code) > maxCachedCodeLength {
		return NewJumpTable(code)
	}
	hash := Keccak256(code)
	if res, found := c.cache.Get(hash); found {
		return res
	}
	res := NewJumpTable(code)
	c.cache.Add(hash, res)
	return res
}
