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
	"testing"

	"github.com/Fantom-foundation/nevm/go/nevm"
	"github.com/Fantom-foundation/nevm/go/nevm/vm"
)

func TestStatisticsRunner_CountsExecutedInstructions(t *testing.T) {
	statsRunner := &statisticRunner{stats: newStatistics()}
	_, err := runCodeWith(t, Config{runner: statsRunner}, nevm.Parameters{
		Code:    asm(vm.STOP),
		Context: nevm.DefaultCallContext(),
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if got := statsRunner.stats.singleCount[uint32(vm.STOP)]; got != 1 {
		t.Errorf("unexpected statistics: want 1 stop, got %v", got)
	}
}

func TestStatisticsRunner_SummaryListsInstructionSequences(t *testing.T) {
	tests := map[string]struct {
		code         nevm.Code
		findInOutput []string
	}{
		"singles": {asm(vm.STOP),
			[]string{
				"Steps: 1",
				"STOP            : 1 (100.00%)",
			}},
		"pairs": {asm(vm.PUSH1, 1, vm.STOP),
			[]string{
				"Steps: 2",
				"PUSH1           : 1 (50.00%)",
				"STOP            : 1 (50.00%)",
				"PUSH1           STOP            : 1 (50.00%)",
			}},
		"triples": {asm(vm.PUSH1, 1, vm.PUSH1, 1, vm.STOP),
			[]string{
				"Steps: 3",
				"PUSH1           : 2 (66.67%)",
				"STOP            : 1 (33.33%)",
				"PUSH1           PUSH1           STOP            : 1 (33.33%)",
			}},
		"quads": {asm(vm.PUSH1, 1, vm.PUSH1, 1, vm.PUSH1, 1, vm.STOP),
			[]string{
				"Steps: 4",
				"PUSH1           : 3 (75.00%)",
				"STOP            : 1 (25.00%)",
				"PUSH1           PUSH1           PUSH1           : 1 (25.00%)",
				"PUSH1           PUSH1           STOP            : 1 (25.00%)",
				"PUSH1           PUSH1           PUSH1           STOP            : 1 (25.00%)",
			}},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			statsRunner := &statisticRunner{}
			_, err := runCodeWith(t, Config{runner: statsRunner}, nevm.Parameters{
				Code:    test.code,
				Context: nevm.DefaultCallContext(),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			summary := statsRunner.getSummary()
			for _, want := range test.findInOutput {
				if !strings.Contains(summary, want) {
					t.Errorf("summary misses %q:\n%v", want, summary)
				}
			}
		})
	}
}

func TestStatisticsRunner_NestedCallsAreCounted(t *testing.T) {
	ledger := nevm.NewAccountLedger(map[nevm.Word]nevm.Account{
		nevm.NewWord(0xbb): {Code: asm(vm.JUMPDEST, vm.JUMPDEST)},
	})
	statsRunner := &statisticRunner{}
	_, err := runCodeWith(t, Config{runner: statsRunner}, nevm.Parameters{
		Code:    callCode(vm.STATICCALL, 0xbb, 0, 0, 0, 0, 0),
		Context: nevm.DefaultCallContext(),
		Ledger:  ledger,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := uint64(2), statsRunner.stats.singleCount[uint32(vm.JUMPDEST)]; want != got {
		t.Errorf("unexpected number of nested instructions, wanted %d, got %d", want, got)
	}
}

func TestStatisticsRunner_ResetClearsStatistics(t *testing.T) {
	statsRunner := &statisticRunner{}
	_, err := runCodeWith(t, Config{runner: statsRunner}, nevm.Parameters{
		Code:    asm(vm.PUSH0, vm.STOP),
		Context: nevm.DefaultCallContext(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	statsRunner.reset()
	if !strings.Contains(statsRunner.getSummary(), "Steps: 0") {
		t.Errorf("statistics were not reset")
	}
}

func TestStatsCollector_DoesNotMixSequencesOfDifferentRuns(t *testing.T) {
	stats := newStatistics()
	first := statsCollector{stats: newStatistics()}
	first.nextOp(vm.PUSH0)
	second := statsCollector{stats: newStatistics()}
	second.nextOp(vm.STOP)
	stats.insert(first.stats)
	stats.insert(second.stats)

	if want, got := uint64(2), stats.count; want != got {
		t.Errorf("unexpected count, wanted %d, got %d", want, got)
	}
	if len(stats.pairCount) != 0 {
		t.Errorf("unexpected pairs: %v", stats.pairCount)
	}
}
