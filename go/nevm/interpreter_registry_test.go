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
	"slices"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestInterpreterRegistry_RegisteredFactoriesCanBeUsed(t *testing.T) {
	ctrl := gomock.NewController(t)
	interpreter := NewMockInterpreter(ctrl)

	var seenConfig any
	const name = "TestInterpreterRegistry_RegisteredFactoriesCanBeUsed"
	err := RegisterInterpreter(name, func(config any) (Interpreter, error) {
		seenConfig = config
		return interpreter, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := NewInterpreter(name, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != interpreter {
		t.Errorf("factory result not returned")
	}
	if seenConfig != 12 {
		t.Errorf("configuration not forwarded, got %v", seenConfig)
	}

	// Names are not case sensitive.
	if _, err := NewInterpreter("testinterpreterregistry_registeredfactoriescanbeused"); err != nil {
		t.Errorf("lookup of lower case name failed: %v", err)
	}
	if !slices.Contains(RegisteredInterpreters(), "testinterpreterregistry_registeredfactoriescanbeused") {
		t.Errorf("interpreter not listed: %v", RegisteredInterpreters())
	}
}

func TestInterpreterRegistry_DuplicateRegistrationsAreRejected(t *testing.T) {
	const name = "TestInterpreterRegistry_DuplicateRegistrationsAreRejected"
	factory := func(any) (Interpreter, error) { return nil, nil }
	if err := RegisterInterpreter(name, factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RegisterInterpreter(name, factory); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestInterpreterRegistry_NilFactoriesAreRejected(t *testing.T) {
	if err := RegisterInterpreter("something", nil); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestInterpreterRegistry_UnknownInterpreterCanNotBeCreated(t *testing.T) {
	if _, err := NewInterpreter("unknown-interpreter"); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestInterpreterRegistry_TooManyConfigurationsAreRejected(t *testing.T) {
	if _, err := NewInterpreter("unknown-interpreter", 1, 2); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestResult_StringListsStackTopFirst(t *testing.T) {
	result := Result{
		Success: true,
		Stack:   []Word{NewWord(1), NewWord(2)},
		Logs:    []Log{{Address: NewWord(3), Topics: []Word{NewWord(4)}, Data: Data{0x05}}},
	}
	want := "success:     true\n" +
		"gas used:    0\n" +
		"return data: 0x\n" +
		"memory:      0x\n" +
		"stack:\n" +
		"    [   1] 0x2\n" +
		"    [   0] 0x1\n" +
		"storage:\n" +
		"logs:\n" +
		"    {address: 0x3, topics: [0x4], data: 0x05}\n"
	if got := result.String(); got != want {
		t.Errorf("unexpected print\nwanted:\n%v\ngot:\n%v", want, got)
	}
}

func TestLog_Equal(t *testing.T) {
	a := Log{Address: NewWord(1), Topics: []Word{NewWord(2)}, Data: Data{3}}
	b := Log{Address: NewWord(1), Topics: []Word{NewWord(2)}, Data: Data{3}}
	if !a.Equal(&b) {
		t.Errorf("logs should be equal")
	}
	b.Topics = append(b.Topics, NewWord(4))
	if a.Equal(&b) {
		t.Errorf("logs should differ")
	}
}
