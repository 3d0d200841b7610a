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
	"math"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

//go:generate mockgen -source ledger.go -destination ledger_mock.go -package nevm

// Ledger is the account state shared by all Machines of one top-level
// invocation. Machines of a call tree run strictly nested, so at any time
// only the innermost active Machine uses the ledger; implementations need
// not be thread-safe.
type Ledger interface {
	// GetAccount returns the account stored under the given address. The
	// returned account is owned by the ledger and must not be retained
	// beyond the current instruction.
	GetAccount(address Word) (*Account, bool)

	// Transfer moves amount from one account to another as a single step.
	// Either both balances are updated or, if an error is returned, none.
	// ErrUnknownAccount is returned if one of the accounts does not exist,
	// ErrInsufficientBalance if the sender can not cover the amount.
	Transfer(from, to Word, amount uint64) error

	// SelfDestruct moves the entire balance of the given account to the
	// beneficiary, creating the beneficiary if needed. The destructed
	// account and its code remain in the ledger.
	SelfDestruct(address, beneficiary Word) error
}

// AccountLedger is the in-memory Ledger implementation.
type AccountLedger struct {
	accounts map[Word]*Account
}

// NewAccountLedger creates a ledger holding copies of the given seed accounts.
func NewAccountLedger(seed map[Word]Account) *AccountLedger {
	res := &AccountLedger{accounts: make(map[Word]*Account, len(seed))}
	for address, account := range seed {
		res.SetAccount(address, account)
	}
	return res
}

// SetAccount stores a copy of the given account under the given address,
// replacing any existing entry.
func (l *AccountLedger) SetAccount(address Word, account Account) {
	clone := account.Clone()
	if clone.Storage == nil {
		clone.Storage = Storage{}
	}
	l.accounts[address] = &clone
}

func (l *AccountLedger) GetAccount(address Word) (*Account, bool) {
	account, found := l.accounts[address]
	return account, found
}

func (l *AccountLedger) Transfer(from, to Word, amount uint64) error {
	source, found := l.accounts[from]
	if !found {
		return fmt.Errorf("%w: %v", ErrUnknownAccount, from.Hex())
	}
	target, found := l.accounts[to]
	if !found {
		return fmt.Errorf("%w: %v", ErrUnknownAccount, to.Hex())
	}
	if source.Balance < amount {
		return ErrInsufficientBalance
	}
	if from == to || amount == 0 {
		return nil
	}
	if target.Balance > math.MaxUint64-amount {
		return ErrArithmeticOverflow
	}
	source.Balance -= amount
	target.Balance += amount
	return nil
}

func (l *AccountLedger) SelfDestruct(address, beneficiary Word) error {
	source, found := l.accounts[address]
	if !found {
		return fmt.Errorf("%w: %v", ErrUnknownAccount, address.Hex())
	}
	if address == beneficiary {
		return nil
	}
	target, found := l.accounts[beneficiary]
	if !found {
		target = &Account{Storage: Storage{}}
		l.accounts[beneficiary] = target
	}
	if target.Balance > math.MaxUint64-source.Balance {
		return ErrArithmeticOverflow
	}
	target.Balance += source.Balance
	source.Balance = 0
	return nil
}

// Addresses returns the addresses of all accounts in ascending order.
func (l *AccountLedger) Addresses() []Word {
	res := maps.Keys(l.accounts)
	slices.SortFunc(res, func(a, b Word) int {
		return a.Cmp(&b)
	})
	return res
}

// Len returns the number of accounts in the ledger.
func (l *AccountLedger) Len() int {
	return len(l.accounts)
}

// Clone creates an independent deep copy of the ledger.
func (l *AccountLedger) Clone() *AccountLedger {
	res := &AccountLedger{accounts: make(map[Word]*Account, len(l.accounts))}
	for address, account := range l.accounts {
		clone := account.Clone()
		res.accounts[address] = &clone
	}
	return res
}

func (l *AccountLedger) String() string {
	builder := strings.Builder{}
	for _, address := range l.Addresses() {
		builder.WriteString(fmt.Sprintf("%v: %v\n", address.Hex(), l.accounts[address]))
	}
	return builder.String()
}
