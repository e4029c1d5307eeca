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
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sworknet/swork/core/rawdb"
	"github.com/sworknet/swork/core/types"
)

// WorkReportRequest is a storage claim signed by the reporting enclave.
type WorkReportRequest struct {
	PublicKey   []byte
	BlockNumber uint64
	BlockHash   common.Hash
	Reserved    uint64
	Used        uint64
	Files       []types.FileInfo
	Signature   []byte
}

func (req *WorkReportRequest) report() *types.WorkReport {
	r := &types.WorkReport{
		PublicKey:   req.PublicKey,
		BlockNumber: req.BlockNumber,
		BlockHash:   req.BlockHash,
		Reserved:    req.Reserved,
		Used:        req.Used,
		Files:       req.Files,
		Signature:   req.Signature,
	}
	return r.Copy()
}

// ReportWorks validates a work report of the calling account and hands it to
// the ledger. Resubmitting the stored report is a no-op: the call succeeds
// with an empty receipt and the totals do not move.
func (m *Module) ReportWorks(call Call, req *WorkReportRequest) (*Receipt, error) {
	return m.execute("reportWorks", call, func(st *rawdb.Overlay, r *Receipt) error {
		if err := m.checkReportShape(req); err != nil {
			return err
		}
		id, err := rawdb.ReadIdentity(st, call.Origin)
		if err != nil {
			return err
		}
		if id == nil {
			return fmt.Errorf("%w: %s", ErrIdentityNotFound, call.Origin)
		}
		if !bytes.Equal(id.PublicKey, req.PublicKey) {
			return ErrIdentityMismatch
		}
		if err := m.allowlist.Check(st, id.Code, call.BlockNumber); err != nil {
			return fmt.Errorf("outdated reporter %s: %w", call.Origin, err)
		}
		if err := m.checkTiming(st, call.BlockNumber, req.BlockNumber, req.BlockHash); err != nil {
			return err
		}
		next := req.report()
		if !m.sigs.Verify(id.PublicKey, next.SigningPayload(), next.Signature) {
			return fmt.Errorf("%w: work report", ErrBadSignature)
		}

		ledger, err := NewLedger(st)
		if err != nil {
			return err
		}
		old, err := ledger.Report(call.Origin)
		if err != nil {
			return err
		}
		if old.Equal(next) {
			m.log.Debug("Work report unchanged", "account", call.Origin, "number", next.BlockNumber)
			return nil
		}
		if err := ledger.Apply(call.Origin, old, next); err != nil {
			return err
		}
		r.emit(&WorkReported{Account: call.Origin, Report: next.Copy()})
		m.log.Info("Work reported", "account", call.Origin, "number", next.BlockNumber,
			"reserved", next.Reserved, "used", next.Used, "files", len(next.Files))
		return nil
	})
}

// checkReportShape rejects reports that cannot be valid whatever the state.
// used is not covered by the signature, so it must match the signed files.
func (m *Module) checkReportShape(req *WorkReportRequest) error {
	if req == nil {
		return ErrMalformedInput
	}
	if len(req.Files) > m.config.MaxFiles {
		return fmt.Errorf("%w: %d files, limit %d", ErrMalformedInput, len(req.Files), m.config.MaxFiles)
	}
	size, ok := types.FilesSize(req.Files)
	if !ok {
		return fmt.Errorf("%w: file sizes overflow", ErrMalformedInput)
	}
	if size != req.Used {
		return fmt.Errorf("%w: used %d, files sum to %d", ErrMalformedInput, req.Used, size)
	}
	return nil
}

// checkTiming binds a report to the slot cadence and to a recorded block.
func (m *Module) checkTiming(st *rawdb.Overlay, current, number uint64, hash common.Hash) error {
	slot := types.ReportSlot(current, m.config.SlotLength)
	if number != m.config.GenesisSentinel && number != slot {
		return fmt.Errorf("%w: block %d, current slot %d", ErrNotAligned, number, slot)
	}
	recorded, ok := rawdb.ReadBlockHash(st, number)
	if !ok || recorded != hash {
		return fmt.Errorf("%w: block %d", ErrBlockHashMismatch, number)
	}
	return nil
}
