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
	"github.com/holiman/uint256"
	"github.com/sworknet/swork/core/rawdb"
	"github.com/sworknet/swork/core/types"
)

// workShare is one identity's workload handed to the works observer.
type workShare struct {
	account common.Address
	own     *uint256.Int
}

// ImportBlock records the hash of a new block. When the block opens a report
// slot that has not been processed yet, the slot transition runs in the same
// call.
func (m *Module) ImportBlock(number uint64, hash common.Hash) (*Receipt, error) {
	var (
		shares []workShare
		total  *uint256.Int
		obs    WorksObserver
	)
	receipt, err := m.execute("importBlock", Call{BlockNumber: number}, func(st *rawdb.Overlay, r *Receipt) error {
		if hash == (common.Hash{}) {
			return fmt.Errorf("%w: empty block hash", ErrMalformedInput)
		}
		if err := rawdb.WriteBlockHash(st, number, hash); err != nil {
			return err
		}
		slot := types.ReportSlot(number, m.config.SlotLength)
		if last, ok := rawdb.ReadReportSlot(st); ok && slot <= last {
			return nil
		}
		var err error
		shares, total, err = m.processSlot(st, r, slot)
		obs = m.observer
		return err
	})
	if err != nil {
		return nil, err
	}
	m.notify(obs, shares, total)
	return receipt, nil
}

// ProcessSlot runs the transition of slot explicitly, for hosts that drive
// slots without importing blocks. Slots at or before the last processed one
// are ignored.
func (m *Module) ProcessSlot(slot uint64) (*Receipt, error) {
	var (
		shares []workShare
		total  *uint256.Int
		obs    WorksObserver
	)
	receipt, err := m.execute("processSlot", Call{BlockNumber: slot}, func(st *rawdb.Overlay, r *Receipt) error {
		if slot%m.config.SlotLength != 0 {
			return fmt.Errorf("%w: slot %d", ErrNotAligned, slot)
		}
		if last, ok := rawdb.ReadReportSlot(st); ok && slot <= last {
			return nil
		}
		var err error
		shares, total, err = m.processSlot(st, r, slot)
		obs = m.observer
		return err
	})
	if err != nil {
		return nil, err
	}
	m.notify(obs, shares, total)
	return receipt, nil
}

// processSlot evicts every live report older than slot minus the report
// lifetime and records slot as processed. A report made in the previous slot
// survives, so a node refreshing once per slot is never evicted. It walks the
// live report index only.
func (m *Module) processSlot(st *rawdb.Overlay, r *Receipt, slot uint64) ([]workShare, *uint256.Int, error) {
	ledger, err := NewLedger(st)
	if err != nil {
		return nil, nil, err
	}
	live, err := ledger.Live()
	if err != nil {
		return nil, nil, err
	}
	var (
		lifetime = m.config.reportLifetime()
		shares   = make([]workShare, 0, len(live))
		evicted  int
	)
	for _, entry := range live {
		reported := types.ReportSlot(entry.BlockNumber, m.config.SlotLength)
		if reported > slot || slot-reported <= lifetime {
			report, err := ledger.Report(entry.Account)
			if err != nil {
				return nil, nil, err
			}
			if report == nil {
				return nil, nil, fmt.Errorf("%w: live index names %s without a report", rawdb.ErrCorruptState, entry.Account)
			}
			own := new(uint256.Int).SetUint64(report.Reserved)
			own.Add(own, new(uint256.Int).SetUint64(report.Used))
			shares = append(shares, workShare{account: entry.Account, own: own})
			continue
		}
		stale, err := ledger.Evict(entry.Account)
		if err != nil {
			return nil, nil, err
		}
		evicted++
		shares = append(shares, workShare{account: entry.Account, own: new(uint256.Int)})
		r.emit(&WorkReportEvicted{Account: entry.Account, Report: stale})
		m.log.Debug("Evicted stale work report", "account", entry.Account, "reported", stale.BlockNumber, "slot", slot)
	}
	if err := rawdb.WriteReportSlot(st, slot); err != nil {
		return nil, nil, err
	}
	workload := ledger.Workload()
	r.emit(&SlotProcessed{Slot: slot, Evicted: evicted, Workload: workload.Copy()})

	evictedMeter.Inc(int64(evicted))
	updateWorkloadGauges(workload, len(live)-evicted)
	if evicted > 0 {
		m.log.Info("Processed report slot", "slot", slot, "evicted", evicted, "live", len(live)-evicted)
	}
	return shares, workload.Total(), nil
}

// notify hands the slot's workloads to the observer. It runs after commit,
// outside the call lock.
func (m *Module) notify(obs WorksObserver, shares []workShare, total *uint256.Int) {
	if obs == nil || total == nil {
		return
	}
	for _, s := range shares {
		obs.ReportWorks(s.account, s.own, total)
	}
}
