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
	"github.com/sworknet/swork/core/types"
)

// Event is emitted by a committed state transition.
type Event interface {
	EventName() string
}

// IdentityRegistered is emitted when an account binds an enclave key.
type IdentityRegistered struct {
	Account  common.Address
	Identity *types.Identity
}

// WorkReported is emitted when a new or changed work report is stored.
type WorkReported struct {
	Account common.Address
	Report  *types.WorkReport
}

// CodeAllowlisted is emitted when an enclave code is added or updated.
type CodeAllowlisted struct {
	Code   []byte
	Expiry uint64
}

// WorkReportEvicted is emitted when the scheduler drops a stale report.
type WorkReportEvicted struct {
	Account common.Address
	Report  *types.WorkReport
}

// SlotProcessed is emitted once per report slot transition.
type SlotProcessed struct {
	Slot     uint64
	Evicted  int
	Workload *types.Workload
}

func (*IdentityRegistered) EventName() string { return "IdentityRegistered" }
func (*WorkReported) EventName() string       { return "WorkReported" }
func (*CodeAllowlisted) EventName() string    { return "CodeAllowlisted" }
func (*WorkReportEvicted) EventName() string  { return "WorkReportEvicted" }
func (*SlotProcessed) EventName() string      { return "SlotProcessed" }

// Receipt describes one committed call.
type Receipt struct {
	Method      string
	Origin      common.Address
	BlockNumber uint64
	Events      []Event
}

func (r *Receipt) emit(ev Event) {
	r.Events = append(r.Events, ev)
}
