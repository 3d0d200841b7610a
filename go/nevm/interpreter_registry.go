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
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// This file provides a registry for Interpreter configurations. Packages
// implementing an Interpreter register their named configurations in their
// init code. Thus, by importing an implementation package, its
// configurations become available through NewInterpreter.

// InterpreterFactory is a function creating an Interpreter from an optional
// implementation specific configuration.
type InterpreterFactory func(config any) (Interpreter, error)

var (
	interpreterRegistry     = map[string]InterpreterFactory{}
	interpreterRegistryLock sync.Mutex
)

// RegisterInterpreter registers a factory under the given name. The name is
// not case-sensitive. Registering the same name twice is an error.
func RegisterInterpreter(name string, factory InterpreterFactory) error {
	if factory == nil {
		return fmt.Errorf("invalid initialization: no factory provided for %s", name)
	}
	key := strings.ToLower(name)
	interpreterRegistryLock.Lock()
	defer interpreterRegistryLock.Unlock()
	if _, found := interpreterRegistry[key]; found {
		return fmt.Errorf("invalid initialization: multiple interpreters registered for %s", name)
	}
	interpreterRegistry[key] = factory
	return nil
}

// NewInterpreter creates the Interpreter registered under the given name,
// using the given optional configuration.
func NewInterpreter(name string, config ...any) (Interpreter, error) {
	if len(config) > 1 {
		return nil, fmt.Errorf("invalid configuration: too many arguments")
	}
	interpreterRegistryLock.Lock()
	factory := interpreterRegistry[strings.ToLower(name)]
	interpreterRegistryLock.Unlock()
	if factory == nil {
		return nil, fmt.Errorf("interpreter not found: %s", name)
	}
	var c any
	if len(config) > 0 {
		c = config[0]
	}
	return factory(c)
}

// RegisteredInterpreters lists the names of all registered interpreters in
// alphabetical order.
func RegisteredInterpreters() []string {
	interpreterRegistryLock.Lock()
	defer interpreterRegistryLock.Unlock()
	res := maps.Keys(interpreterRegistry)
	slices.Sort(res)
	return res
}
