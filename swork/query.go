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
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/sworknet/swork/core/rawdb"
	"github.com/sworknet/swork/core/types"
)

// Identity returns the identity of account, nil if unregistered.
func (m *Module) Identity(account common.Address) (id *types.Identity, err error) {
	err = m.view(func(db ethdb.KeyValueStore) error {
		id, err = rawdb.ReadIdentity(db, account)
		return err
	})
	return id, err
}

// WorkReport returns the live report of account, nil if absent.
func (m *Module) WorkReport(account common.Address) (report *types.WorkReport, err error) {
	err = m.view(func(db ethdb.KeyValueStore) error {
		report, err = rawdb.ReadWorkReport(db, account)
		return err
	})
	return report, err
}

// Workload returns the reserved and used totals over all live reports.
func (m *Module) Workload() (w *types.Workload, err error) {
	err = m.view(func(db ethdb.KeyValueStore) error {
		w, err = rawdb.ReadWorkload(db)
		return err
	})
	return w, err
}

// CodeExpiry returns the expiry block of an allowlisted code.
func (m *Module) CodeExpiry(code []byte) (expiry uint64, ok bool) {
	m.view(func(db ethdb.KeyValueStore) error {
		if e := m.allowlist.Entry(db, code); e != nil {
			expiry, ok = e.Expiry, true
		}
		return nil
	})
	return expiry, ok
}

// Allowlist enumerates the allowlisted enclave codes.
func (m *Module) Allowlist() (entries []types.AllowlistEntry, err error) {
	err = m.view(func(db ethdb.KeyValueStore) error {
		entries, err = m.allowlist.Entries(db)
		return err
	})
	return entries, err
}

// Admins enumerates the privileged accounts.
func (m *Module) Admins() (admins []common.Address, err error) {
	err = m.view(func(db ethdb.KeyValueStore) error {
		admins, err = m.admins.List(db)
		return err
	})
	return admins, err
}

// CurrentSlot returns the last processed report slot.
func (m *Module) CurrentSlot() (slot uint64, ok bool) {
	m.view(func(db ethdb.KeyValueStore) error {
		slot, ok = rawdb.ReadReportSlot(db)
		return nil
	})
	return slot, ok
}

// BlockHash returns the recorded hash of block number.
func (m *Module) BlockHash(number uint64) (hash common.Hash, ok bool) {
	m.view(func(db ethdb.KeyValueStore) error {
		hash, ok = rawdb.ReadBlockHash(db, number)
		return nil
	})
	return hash, ok
}

// ReportedInSlot reports whether account holds a live report made in slot.
func (m *Module) ReportedInSlot(account common.Address, slot uint64) (bool, error) {
	report, err := m.WorkReport(account)
	if err != nil || report == nil {
		return false, err
	}
	return types.ReportSlot(report.BlockNumber, m.config.SlotLength) == slot, nil
}

// CheckWorks reports whether account's live reserved capacity can hold a
// file of the given size.
func (m *Module) CheckWorks(account common.Address, size uint64) (bool, error) {
	report, err := m.WorkReport(account)
	if err != nil || report == nil {
		return false, err
	}
	return report.Reserved > size, nil
}
