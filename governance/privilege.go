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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/sworknet/swork/core/rawdb"
)

// Admins tracks the privileged accounts allowed to update the allowlist.
// The set is seeded from genesis and changed only by existing admins.
type Admins struct{}

// NewAdmins creates the privileged account manager.
func NewAdmins() *Admins {
	return &Admins{}
}

// IsPrivileged reports whether origin may call privileged operations.
func (a *Admins) IsPrivileged(db StateReader, origin common.Address) bool {
	return rawdb.IsAdmin(db, origin)
}

// List enumerates privileged accounts.
func (a *Admins) List(db StateReader) ([]common.Address, error) {
	return rawdb.ReadAdmins(db)
}

// Seed grants account privileges without an origin check. Only genesis
// initialization uses it.
func (a *Admins) Seed(db StateWriter, account common.Address) error {
	return rawdb.WriteAdmin(db, account)
}

// Grant gives account privileges on behalf of a privileged origin.
func (a *Admins) Grant(db StateWriter, origin, account common.Address) error {
	if !a.IsPrivileged(db, origin) {
		return ErrNotPrivileged
	}
	if err := rawdb.WriteAdmin(db, account); err != nil {
		return err
	}
	log.Info("Privileged account added", "account", account, "by", origin)
	return nil
}

// Revoke removes account's privileges. The last privileged account cannot
// be removed.
func (a *Admins) Revoke(db StateWriter, origin, account common.Address) error {
	if !a.IsPrivileged(db, origin) {
		return ErrNotPrivileged
	}
	admins, err := rawdb.ReadAdmins(db)
	if err != nil {
		return err
	}
	if len(admins) <= 1 && rawdb.IsAdmin(db, account) {
		return ErrLastAdmin
	}
	if err := rawdb.DeleteAdmin(db, account); err != nil {
		return err
	}
	log.Info("Privileged account removed", "account", account, "by", origin)
	return nil
}
