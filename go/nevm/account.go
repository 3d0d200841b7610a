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
	"bytes"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Code represents the byte-code of a contract.
type Code []byte

// Data represents the input or output of contract invocations.
type Data []byte

// Storage is a mapping of Words to Words. Keys that are not present read as
// zero.
type Storage map[Word]Word

// Get returns the value stored under the given key, or zero if there is none.
func (s Storage) Get(key *Word) Word {
	return s[*key]
}

// Set stores the given value under the given key.
func (s Storage) Set(key, value *Word) {
	s[*key] = *value
}

func (s Storage) Clone() Storage {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// Keys returns the keys of the storage in ascending order.
func (s Storage) Keys() []Word {
	keys := maps.Keys(s)
	slices.SortFunc(keys, func(a, b Word) int {
		return a.Cmp(&b)
	})
	return keys
}

// Equal compares two storages, ignoring zero-valued entries.
func (s Storage) Equal(other Storage) bool {
	for k, v := range s {
		if v != other[k] {
			return false
		}
	}
	for k, v := range other {
		if v != s[k] {
			return false
		}
	}
	return true
}

// Account is an entry of the AccountLedger.
type Account struct {
	Balance uint64
	Nonce   uint64
	Code    Code
	Storage Storage
}

func (a *Account) Clone() Account {
	return Account{
		Balance: a.Balance,
		Nonce:   a.Nonce,
		Code:    bytes.Clone(a.Code),
		Storage: a.Storage.Clone(),
	}
}

func (a *Account) Equal(other *Account) bool {
	return a.Balance == other.Balance &&
		a.Nonce == other.Nonce &&
		bytes.Equal(a.Code, other.Code) &&
		a.Storage.Equal(other.Storage)
}

func (a *Account) String() string {
	return fmt.Sprintf("{balance: %d, nonce: %d, code: 0x%x, storage entries: %d}",
		a.Balance, a.Nonce, []byte(a.Code), len(a.Storage))
}
