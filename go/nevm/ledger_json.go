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
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// accountJSON is the seed-file representation of an Account.
type accountJSON struct {
	Balance hexutil.Uint64    `json:"balance"`
	Nonce   hexutil.Uint64    `json:"nonce"`
	Code    hexutil.Bytes     `json:"code,omitempty"`
	Storage map[string]string `json:"storage,omitempty"`
}

// MarshalJSON encodes the ledger as an object mapping hex addresses to
// accounts. Numbers, code and storage entries are hex encoded.
func (l *AccountLedger) MarshalJSON() ([]byte, error) {
	res := make(map[string]accountJSON, len(l.accounts))
	for address, account := range l.accounts {
		entry := accountJSON{
			Balance: hexutil.Uint64(account.Balance),
			Nonce:   hexutil.Uint64(account.Nonce),
			Code:    hexutil.Bytes(account.Code),
		}
		if len(account.Storage) > 0 {
			entry.Storage = make(map[string]string, len(account.Storage))
			for key, value := range account.Storage {
				entry.Storage[key.Hex()] = value.Hex()
			}
		}
		res[address.Hex()] = entry
	}
	return json.Marshal(res)
}

// UnmarshalJSON replaces the content of the ledger by the accounts encoded in
// the given data, as produced by MarshalJSON.
func (l *AccountLedger) UnmarshalJSON(data []byte) error {
	var entries map[string]accountJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	accounts := make(map[Word]*Account, len(entries))
	for key, entry := range entries {
		address, err := WordFromHex(key)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", key, err)
		}
		storage := make(Storage, len(entry.Storage))
		for k, v := range entry.Storage {
			slot, err := WordFromHex(k)
			if err != nil {
				return fmt.Errorf("invalid storage key %q of account %v: %w", k, key, err)
			}
			value, err := WordFromHex(v)
			if err != nil {
				return fmt.Errorf("invalid storage value %q of account %v: %w", v, key, err)
			}
			storage[slot] = value
		}
		accounts[address] = &Account{
			Balance: uint64(entry.Balance),
			Nonce:   uint64(entry.Nonce),
			Code:    Code(entry.Code),
			Storage: storage,
		}
	}
	l.accounts = accounts
	return nil
}
