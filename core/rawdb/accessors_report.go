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
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/sworknet/swork/core/types"
)

// LiveReport is one entry of the live report index.
type LiveReport struct {
	Account     common.Address
	BlockNumber uint64
}

// ReadWorkReport retrieves the live report of account, nil if absent.
func ReadWorkReport(db ethdb.KeyValueReader, account common.Address) (*types.WorkReport, error) {
	blob, _ := db.Get(reportKey(account))
	if len(blob) == 0 {
		return nil, nil
	}
	data, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil, fmt.Errorf("%w: report %s: %v", ErrCorruptState, account, err)
	}
	report := new(types.WorkReport)
	if err := rlp.DecodeBytes(data, report); err != nil {
		return nil, fmt.Errorf("%w: report %s: %v", ErrCorruptState, account, err)
	}
	return report, nil
}

// WriteWorkReport stores the report of account and adds it to the live index.
func WriteWorkReport(db ethdb.KeyValueWriter, account common.Address, report *types.WorkReport) error {
	data, err := rlp.EncodeToBytes(report)
	if err != nil {
		return err
	}
	if err := db.Put(reportKey(account), snappy.Encode(nil, data)); err != nil {
		return err
	}
	return db.Put(liveReportKey(account), encodeBlockNumber(report.BlockNumber))
}

// DeleteWorkReport removes the report of account and its index entry.
func DeleteWorkReport(db ethdb.KeyValueWriter, account common.Address) error {
	if err := db.Delete(reportKey(account)); err != nil {
		return err
	}
	return db.Delete(liveReportKey(account))
}

// ReadLiveReports enumerates the live report index in account order.
func ReadLiveReports(db ethdb.Iteratee) ([]LiveReport, error) {
	it := db.NewIterator(liveReportPrefix, nil)
	defer it.Release()

	var live []LiveReport
	for it.Next() {
		key, value := it.Key(), it.Value()
		if len(key) != len(liveReportPrefix)+common.AddressLength || len(value) != 8 {
			return nil, fmt.Errorf("%w: live index entry %x", ErrCorruptState, key)
		}
		live = append(live, LiveReport{
			Account:     common.BytesToAddress(key[len(liveReportPrefix):]),
			BlockNumber: binary.BigEndian.Uint64(value),
		})
	}
	return live, it.Error()
}

// ReadWorkload retrieves the workload totals, zero if never written.
func ReadWorkload(db ethdb.KeyValueReader) (*types.Workload, error) {
	data, _ := db.Get(workloadKey)
	if len(data) == 0 {
		return types.NewWorkload(), nil
	}
	w := new(types.Workload)
	if err := rlp.DecodeBytes(data, w); err != nil {
		return nil, fmt.Errorf("%w: workload: %v", ErrCorruptState, err)
	}
	return w, nil
}

// WriteWorkload stores the workload totals.
func WriteWorkload(db ethdb.KeyValueWriter, w *types.Workload) error {
	data, err := rlp.EncodeToBytes(w)
	if err != nil {
		return err
	}
	return db.Put(workloadKey, data)
}

// ReadReportSlot returns the last processed report slot.
func ReadReportSlot(db ethdb.KeyValueReader) (uint64, bool) {
	data, _ := db.Get(reportSlotKey)
	if len(data) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(data), true
}

// WriteReportSlot stores the last processed report slot.
func WriteReportSlot(db ethdb.KeyValueWriter, slot uint64) error {
	return db.Put(reportSlotKey, encodeBlockNumber(slot))
}
