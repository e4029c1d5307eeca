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

package types

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// Identity binds an account to an enclave-certified public key.
type Identity struct {
	PublicKey         []byte
	Account           common.Address
	VouchingPublicKey []byte         // empty unless registered by vouching
	VouchingAccount   common.Address // zero unless registered by vouching
	Signature         []byte
	Code              []byte // enclave measurement
}

// Vouched reports whether the identity was admitted through a voucher.
func (id *Identity) Vouched() bool {
	return len(id.VouchingPublicKey) > 0
}

// Copy returns a deep copy.
func (id *Identity) Copy() *Identity {
	cpy := *id
	cpy.PublicKey = common.CopyBytes(id.PublicKey)
	cpy.VouchingPublicKey = common.CopyBytes(id.VouchingPublicKey)
	cpy.Signature = common.CopyBytes(id.Signature)
	cpy.Code = common.CopyBytes(id.Code)
	return &cpy
}

// Equal reports whether two identities hold the same values.
func (id *Identity) Equal(o *Identity) bool {
	if id == nil || o == nil {
		return id == o
	}
	return id.Account == o.Account &&
		id.VouchingAccount == o.VouchingAccount &&
		bytes.Equal(id.PublicKey, o.PublicKey) &&
		bytes.Equal(id.VouchingPublicKey, o.VouchingPublicKey) &&
		bytes.Equal(id.Signature, o.Signature) &&
		bytes.Equal(id.Code, o.Code)
}

// AllowlistEntry is an allowlisted enclave code and its expiry block.
type AllowlistEntry struct {
	Code   []byte
	Expiry uint64
}

// Expired reports whether the code is no longer admissible at block number.
func (e *AllowlistEntry) Expired(number uint64) bool {
	return number >= e.Expiry
}
