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
	"sort"
	"strings"
	"sync"

	"github.com/Fantom-foundation/nevm/go/nevm/vm"
)

// statisticRunner is a runner that collects statistics about the instruction
// sequences executed by all machines it runs, including nested ones.
type statisticRunner struct {
	mutex sync.Mutex
	stats *statistics
}

func (s *statisticRunner) run(m *machine) (status, error) {
	stats := statsCollector{stats: newStatistics()}
	status := statusRunning
	var executionError error
	for status == statusRunning {
		if m.pc < uint64(len(m.code)) {
			stats.nextOp(vm.OpCode(m.code[m.pc]))
		}
		status, executionError = steps(m, true)
		if executionError != nil {
			break
		}
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stats == nil {
		s.stats = newStatistics()
	}
	s.stats.insert(stats.stats)
	return status, executionError
}

// getSummary returns a summary of the collected statistics in a human-readable
// format.
func (s *statisticRunner) getSummary() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stats == nil {
		s.stats = newStatistics()
	}
	return s.stats.print()
}

func (s *statisticRunner) reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats = newStatistics()
}

// statistics counts how often each instruction was executed, as well as each
// pair, triple, and quad of consecutive instructions. Sequences are encoded
// into a single key, one byte per instruction, the latest in the lowest byte.
type statistics struct {
	count       uint64
	singleCount map[uint32]uint64
	pairCount   map[uint32]uint64
	tripleCount map[uint32]uint64
	quadCount   map[uint32]uint64
}

func newStatistics() *statistics {
	return &statistics{
		singleCount: map[uint32]uint64{},
		pairCount:   map[uint32]uint64{},
		tripleCount: map[uint32]uint64{},
		quadCount:   map[uint32]uint64{},
	}
}

// insert adds the counts of the given statistics to this instance.
func (s *statistics) insert(src *statistics) {
	s.count += src.count
	for _, pair := range []struct{ trg, src map[uint32]uint64 }{
		{s.singleCount, src.singleCount},
		{s.pairCount, src.pairCount},
		{s.tripleCount, src.tripleCount},
		{s.quadCount, src.quadCount},
	} {
		for k, v := range pair.src {
			pair.trg[k] += v
		}
	}
}

func (s *statistics) print() string {
	type entry struct {
		value uint32
		count uint64
	}

	getTopN := func(data map[uint32]uint64, n int) []entry {
		list := make([]entry, 0, len(data))
		for k, c := range data {
			list = append(list, entry{k, c})
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].count != list[j].count {
				return list[i].count > list[j].count
			}
			return list[i].value < list[j].value
		})
		if len(list) < n {
			return list
		}
		return list[0:n]
	}

	builder := strings.Builder{}
	write := func(format string, args ...any) {
		builder.WriteString(fmt.Sprintf(format, args...))
	}
	percent := func(count uint64) float32 {
		return float32(count*100) / float32(s.count)
	}
	sequence := func(value uint32, length int) string {
		res := ""
		for i := length - 1; i >= 0; i-- {
			res += fmt.Sprintf("%-16v", vm.OpCode(value>>(8*i)))
		}
		return res
	}

	write("\n----- Statistics ------\n")
	write("\nSteps: %d\n", s.count)
	for i, section := range []struct {
		name string
		data map[uint32]uint64
	}{
		{"Singles", s.singleCount},
		{"Pairs", s.pairCount},
		{"Triples", s.tripleCount},
		{"Quads", s.quadCount},
	} {
		write("\n%s:\n", section.name)
		for _, e := range getTopN(section.data, 5) {
			write("\t%s: %d (%.2f%%)\n", sequence(e.value, i+1), e.count, percent(e.count))
		}
	}
	write("\n")
	return builder.String()
}

// statsCollector keeps track of the recent history of instructions executed
// by a single machine to collect instruction sequence statistics.
type statsCollector struct {
	stats   *statistics
	history uint32 // < the last three instructions, the latest in the lowest byte
}

func (s *statsCollector) nextOp(op vm.OpCode) {
	cur := uint32(op)
	s.stats.count++
	s.stats.singleCount[cur]++
	if s.stats.count >= 2 {
		s.stats.pairCount[(s.history&0xff)<<8|cur]++
	}
	if s.stats.count >= 3 {
		s.stats.tripleCount[(s.history&0xffff)<<8|cur]++
	}
	if s.stats.count >= 4 {
		s.stats.quadCount[(s.history&0xffffff)<<8|cur]++
	}
	s.history = s.history<<8 | cur
}
