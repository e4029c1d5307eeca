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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/sworknet/swork/core/rawdb"
	"github.com/sworknet/swork/core/types"
)

// ledgerState is what the ledger reads and writes.
type ledgerState interface {
	ethdb.KeyValueReader
	ethdb.KeyValueWriter
	ethdb.Iteratee
}

// Ledger owns the live work reports and the workload totals of one state
// transition. It is the only writer of the totals: every report insert,
// replace or removal goes through Apply, which shifts the totals by exactly
// the difference between the old and new report.
type Ledger struct {
	db       ledgerState
	workload *types.Workload
}

// NewLedger loads the workload totals from db.
func NewLedger(db ledgerState) (*Ledger, error) {
	w, err := rawdb.ReadWorkload(db)
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db, workload: w}, nil
}

// Workload returns a copy of the current totals.
func (l *Ledger) Workload() *types.Workload {
	return l.workload.Copy()
}

// Report returns the live report of account, nil if absent.
func (l *Ledger) Report(account common.Address) (*types.WorkReport, error) {
	return rawdb.ReadWorkReport(l.db, account)
}

// Apply replaces old with next as account's report. A nil next removes the
// report entirely, which contributes the same as an empty report. A nil old
// contributes zero.
func (l *Ledger) Apply(account common.Address, old, next *types.WorkReport) error {
	var oldReserved, oldUsed, newReserved, newUsed uint64
	if old != nil {
		oldReserved, oldUsed = old.Reserved, old.Used
	}
	if next != nil {
		newReserved, newUsed = next.Reserved, next.Used
	}
	types.Shift(l.workload.Reserved, oldReserved, newReserved)
	types.Shift(l.workload.Used, oldUsed, newUsed)

	var err error
	if next != nil {
		err = rawdb.WriteWorkReport(l.db, account, next)
	} else {
		err = rawdb.DeleteWorkReport(l.db, account)
	}
	if err != nil {
		return err
	}
	return rawdb.WriteWorkload(l.db, l.workload)
}

// Evict removes account's stale report and its contribution.
func (l *Ledger) Evict(account common.Address) (*types.WorkReport, error) {
	stale, err := rawdb.ReadWorkReport(l.db, account)
	if err != nil {
		return nil, err
	}
	if stale == nil {
		return nil, fmt.Errorf("%w: live index names %s without a report", rawdb.ErrCorruptState, account)
	}
	return stale, l.Apply(account, stale, nil)
}

// Live enumerates accounts holding a live report.
func (l *Ledger) Live() ([]rawdb.LiveReport, error) {
	return rawdb.ReadLiveReports(l.db)
}

// Recompute rebuilds the totals from the live reports. It scans every live
// report and is meant for repair, never for the per-call path.
func (l *Ledger) Recompute() (*types.Workload, error) {
	live, err := l.Live()
	if err != nil {
		return nil, err
	}
	sum := types.NewWorkload()
	for _, entry := range live {
		report, err := rawdb.ReadWorkReport(l.db, entry.Account)
		if err != nil {
			return nil, err
		}
		if report == nil {
			return nil, fmt.Errorf("%w: live index names %s without a report", rawdb.ErrCorruptState, entry.Account)
		}
		types.Shift(sum.Reserved, 0, report.Reserved)
		types.Shift(sum.Used, 0, report.Used)
	}
	l.workload = sum
	if err := rawdb.WriteWorkload(l.db, sum); err != nil {
		return nil, err
	}
	return sum.Copy(), nil
}
