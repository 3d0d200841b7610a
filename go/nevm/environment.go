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

// Environment is the read-only snapshot of block-level facts visible to all
// Machines of a call tree.
type Environment struct {
	BlockHash   Word
	Coinbase    Word
	Timestamp   uint64
	Number      uint64
	PrevRandao  Word
	GasLimit    uint64
	ChainID     uint64
	SelfBalance uint64
	BaseFee     uint64
}

// DefaultEnvironment returns a fixed demonstration environment.
func DefaultEnvironment() Environment {
	return Environment{
		BlockHash:   MustWord("0x7527123fc877fe753b3122dc592671b4902ebf2b325dd2c7224a43c0cbeee3ca"),
		Coinbase:    MustWord("0x388C818CA8B9251b393131C08a736A67ccB19297"),
		Timestamp:   1625900000,
		Number:      17871709,
		PrevRandao:  MustWord("0xce124dee50136f3f93f19667fb4198c6b94eecbacfa300469e5280012757be94"),
		GasLimit:    30,
		ChainID:     1,
		SelfBalance: 100,
		BaseFee:     30,
	}
}
