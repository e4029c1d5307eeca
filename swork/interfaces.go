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
	"github.com/holiman/uint256"
)

// WorksObserver consumes per-identity workloads after each slot transition,
// typically to size stake limits. own is the identity's reserved plus used
// capacity, total the network-wide sum.
type WorksObserver interface {
	ReportWorks(account common.Address, own *uint256.Int, total *uint256.Int)
}

// Call carries the transaction context of one state transition.
type Call struct {
	Origin      common.Address
	BlockNumber uint64 // block the call executes in
}
