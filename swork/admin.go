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

package swork

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/sworknet/swork/core/rawdb"
)

// GrantAdmin gives account privileged access. Privileged.
func (m *Module) GrantAdmin(call Call, account common.Address) (*Receipt, error) {
	return m.execute("grantAdmin", call, func(st *rawdb.Overlay, r *Receipt) error {
		return m.admins.Grant(st, call.Origin, account)
	})
}

// RevokeAdmin removes account's privileged access. Privileged.
func (m *Module) RevokeAdmin(call Call, account common.Address) (*Receipt, error) {
	return m.execute("revokeAdmin", call, func(st *rawdb.Overlay, r *Receipt) error {
		return m.admins.Revoke(st, call.Origin, account)
	})
}

// RepairWorkload rebuilds the workload totals from the live reports. It is
// a privileged maintenance call, never part of normal processing.
func (m *Module) RepairWorkload(call Call) (*Receipt, error) {
	return m.execute("repairWorkload", call, func(st *rawdb.Overlay, r *Receipt) error {
		if !m.admins.IsPrivileged(st, call.Origin) {
			return ErrNotPrivileged
		}
		ledger, err := NewLedger(st)
		if err != nil {
			return err
		}
		before := ledger.Workload()
		after, err := ledger.Recompute()
		if err != nil {
			return err
		}
		if before.Reserved.Cmp(after.Reserved) != 0 || before.Used.Cmp(after.Used) != 0 {
			m.log.Warn("Repaired workload totals", "reserved", after.Reserved, "used", after.Used,
				"was.reserved", before.Reserved, "was.used", before.Used)
		}
		return nil
	})
}
