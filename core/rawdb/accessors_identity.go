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
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/sworknet/swork/core/types"
)

// ErrCorruptState is returned when a stored record cannot be decoded.
var ErrCorruptState = errors.New("corrupt swork state")

// ReadIdentity retrieves the identity of account, nil if none is stored.
func ReadIdentity(db ethdb.KeyValueReader, account common.Address) (*types.Identity, error) {
	data, _ := db.Get(identityKey(account))
	if len(data) == 0 {
		return nil, nil
	}
	id := new(types.Identity)
	if err := rlp.DecodeBytes(data, id); err != nil {
		return nil, fmt.Errorf("%w: identity %s: %v", ErrCorruptState, account, err)
	}
	return id, nil
}

// WriteIdentity stores an identity under its account.
func WriteIdentity(db ethdb.KeyValueWriter, id *types.Identity) error {
	data, err := rlp.EncodeToBytes(id)
	if err != nil {
		return err
	}
	return db.Put(identityKey(id.Account), data)
}

// ReadKeyOwner returns the account an enclave public key is bound to.
func ReadKeyOwner(db ethdb.KeyValueReader, pubKey []byte) (common.Address, bool) {
	data, _ := db.Get(keyOwnerKey(pubKey))
	if len(data) != common.AddressLength {
		return common.Address{}, false
	}
	return common.BytesToAddress(data), true
}

// WriteKeyOwner binds an enclave public key to an account.
func WriteKeyOwner(db ethdb.KeyValueWriter, pubKey []byte, account common.Address) error {
	return db.Put(keyOwnerKey(pubKey), account.Bytes())
}

// DeleteKeyOwner removes a public key binding.
func DeleteKeyOwner(db ethdb.KeyValueWriter, pubKey []byte) error {
	return db.Delete(keyOwnerKey(pubKey))
}
