// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package rawdb contains the low level database accessors of the swork state:
// identities, work reports, the live report index, workload totals, the code
// allowlist, privileged accounts and recorded block hashes.
package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// The fields below define the low level database schema prefixing.
var (
	// workloadKey tracks the reserved and used workload totals.
	workloadKey = []byte("SworkWorkload")

	// reportSlotKey tracks the last processed report slot.
	reportSlotKey = []byte("SworkReportSlot")

	// genesisKey marks a database initialized from a genesis file.
	genesisKey = []byte("SworkGenesis")

	identityPrefix   = []byte("si") // identityPrefix + account -> Identity
	keyOwnerPrefix   = []byte("so") // keyOwnerPrefix + enclave public key -> account
	reportPrefix     = []byte("sr") // reportPrefix + account -> snappy(WorkReport)
	liveReportPrefix = []byte("sl") // liveReportPrefix + account -> report block number
	codePrefix       = []byte("sc") // codePrefix + code -> expiry block
	adminPrefix      = []byte("sa") // adminPrefix + account -> marker
	blockHashPrefix  = []byte("sh") // blockHashPrefix + num (uint64 big endian) -> hash
)

// encodeBlockNumber encodes a block number as big endian uint64.
func encodeBlockNumber(number uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, number)
	return enc
}

func identityKey(account common.Address) []byte {
	return append(append([]byte{}, identityPrefix...), account.Bytes()...)
}

func keyOwnerKey(pubKey []byte) []byte {
	return append(append([]byte{}, keyOwnerPrefix...), pubKey...)
}

func reportKey(account common.Address) []byte {
	return append(append([]byte{}, reportPrefix...), account.Bytes()...)
}

func liveReportKey(account common.Address) []byte {
	return append(append([]byte{}, liveReportPrefix...), account.Bytes()...)
}

func codeKey(code []byte) []byte {
	return append(append([]byte{}, codePrefix...), code...)
}

func adminKey(account common.Address) []byte {
	return append(append([]byte{}, adminPrefix...), account.Bytes()...)
}

func blockHashKey(number uint64) []byte {
	return append(append([]byte{}, blockHashPrefix...), encodeBlockNumber(number)...)
}
