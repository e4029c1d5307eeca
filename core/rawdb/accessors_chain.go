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

package rawdb

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/sworknet/swork/core/types"
)

// ReadBlockHash retrieves the recorded hash of block number.
func ReadBlockHash(db ethdb.KeyValueReader, number uint64) (common.Hash, bool) {
	data, _ := db.Get(blockHashKey(number))
	if len(data) != common.HashLength {
		return common.Hash{}, false
	}
	return common.BytesToHash(data), true
}

// WriteBlockHash records the hash of block number.
func WriteBlockHash(db ethdb.KeyValueWriter, number uint64, hash common.Hash) error {
	return db.Put(blockHashKey(number), hash.Bytes())
}

// ReadCodeExpiry returns the expiry block of an allowlisted enclave code.
func ReadCodeExpiry(db ethdb.KeyValueReader, code []byte) (uint64, bool) {
	data, _ := db.Get(codeKey(code))
	if len(data) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(data), true
}

// WriteCodeExpiry allowlists an enclave code until expiry.
func WriteCodeExpiry(db ethdb.KeyValueWriter, code []byte, expiry uint64) error {
	return db.Put(codeKey(code), encodeBlockNumber(expiry))
}

// ReadAllowlist enumerates the enclave code allowlist in code order.
func ReadAllowlist(db ethdb.Iteratee) ([]types.AllowlistEntry, error) {
	it := db.NewIterator(codePrefix, nil)
	defer it.Release()

	var entries []types.AllowlistEntry
	for it.Next() {
		if len(it.Value()) != 8 {
			return nil, fmt.Errorf("%w: allowlist entry %x", ErrCorruptState, it.Key())
		}
		entries = append(entries, types.AllowlistEntry{
			Code:   common.CopyBytes(it.Key()[len(codePrefix):]),
			Expiry: binary.BigEndian.Uint64(it.Value()),
		})
	}
	return entries, it.Error()
}

// IsAdmin reports whether account may call privileged operations.
func IsAdmin(db ethdb.KeyValueReader, account common.Address) bool {
	ok, _ := db.Has(adminKey(account))
	return ok
}

// WriteAdmin grants account privileged access.
func WriteAdmin(db ethdb.KeyValueWriter, account common.Address) error {
	return db.Put(adminKey(account), []byte{1})
}

// DeleteAdmin revokes privileged access.
func DeleteAdmin(db ethdb.KeyValueWriter, account common.Address) error {
	return db.Delete(adminKey(account))
}

// ReadAdmins enumerates privileged accounts in address order.
func ReadAdmins(db ethdb.Iteratee) ([]common.Address, error) {
	it := db.NewIterator(adminPrefix, nil)
	defer it.Release()

	var admins []common.Address
	for it.Next() {
		key := it.Key()
		if len(key) != len(adminPrefix)+common.AddressLength {
			return nil, fmt.Errorf("%w: admin entry %x", ErrCorruptState, key)
		}
		admins = append(admins, common.BytesToAddress(key[len(adminPrefix):]))
	}
	return admins, it.Error()
}

// ReadGenesisHash returns the hash of the genesis the database was
// initialized with.
func ReadGenesisHash(db ethdb.KeyValueReader) (common.Hash, bool) {
	data, _ := db.Get(genesisKey)
	if len(data) != common.HashLength {
		return common.Hash{}, false
	}
	return common.BytesToHash(data), true
}

// WriteGenesisHash marks the database as initialized.
func WriteGenesisHash(db ethdb.KeyValueWriter, hash common.Hash) error {
	return db.Put(genesisKey, hash.Bytes())
}
