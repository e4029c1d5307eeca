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

package governance

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/sworknet/swork/core/rawdb"
	"github.com/sworknet/swork/core/types"
)

// Allowlist manages the enclave codes admitted at registration, each with an
// expiry block. Entries live in the state; the manager itself is stateless.
type Allowlist struct {
	admins *Admins
}

// NewAllowlist creates an allowlist whose updates are gated by admins.
func NewAllowlist(admins *Admins) *Allowlist {
	return &Allowlist{admins: admins}
}

// Check reports whether code may register or report at block number.
func (al *Allowlist) Check(db StateReader, code []byte, number uint64) error {
	expiry, ok := rawdb.ReadCodeExpiry(db, code)
	if !ok {
		return ErrEnclaveCodeNotAllowed
	}
	entry := types.AllowlistEntry{Code: code, Expiry: expiry}
	if entry.Expired(number) {
		return fmt.Errorf("%w: expired at block %d", ErrEnclaveCodeExpired, expiry)
	}
	return nil
}

// Entry returns the allowlist entry of code, nil if absent.
func (al *Allowlist) Entry(db StateReader, code []byte) *types.AllowlistEntry {
	expiry, ok := rawdb.ReadCodeExpiry(db, code)
	if !ok {
		return nil
	}
	return &types.AllowlistEntry{Code: common.CopyBytes(code), Expiry: expiry}
}

// Entries enumerates the allowlist.
func (al *Allowlist) Entries(db StateReader) ([]types.AllowlistEntry, error) {
	return rawdb.ReadAllowlist(db)
}

// Upgrade adds or updates an allowlist entry. Only privileged origins may
// call it. Lowering an expiry below the current block retires a code; the
// identities already registered with it stay, but can no longer report.
func (al *Allowlist) Upgrade(db StateWriter, origin common.Address, code []byte, expiry uint64) error {
	if !al.admins.IsPrivileged(db, origin) {
		return ErrNotPrivileged
	}
	if len(code) == 0 || len(code) > MaxEnclaveCodeLength {
		return fmt.Errorf("%w: length %d", ErrInvalidEnclaveCode, len(code))
	}
	if err := rawdb.WriteCodeExpiry(db, code, expiry); err != nil {
		return err
	}
	log.Info("Enclave code allowlisted", "code", common.Bytes2Hex(code), "expiry", expiry, "by", origin)
	return nil
}
