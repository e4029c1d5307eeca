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

package types

import (
	"github.com/holiman/uint256"
)

// Workload is the network-wide sum over live work reports. Reserved is the
// "empty" capacity, Used the "meaningful" capacity.
type Workload struct {
	Reserved *uint256.Int
	Used     *uint256.Int
}

// NewWorkload returns a zero workload.
func NewWorkload() *Workload {
	return &Workload{Reserved: new(uint256.Int), Used: new(uint256.Int)}
}

// Copy returns a deep copy.
func (w *Workload) Copy() *Workload {
	return &Workload{Reserved: new(uint256.Int).Set(w.Reserved), Used: new(uint256.Int).Set(w.Used)}
}

// Total returns reserved plus used.
func (w *Workload) Total() *uint256.Int {
	return new(uint256.Int).Add(w.Reserved, w.Used)
}

// IsZero reports whether both totals are zero.
func (w *Workload) IsZero() bool {
	return w.Reserved.IsZero() && w.Used.IsZero()
}

// Shift applies new-old to v, saturating at zero.
func Shift(v *uint256.Int, oldValue, newValue uint64) {
	if newValue >= oldValue {
		v.Add(v, uint256.NewInt(newValue-oldValue))
		return
	}
	d := uint256.NewInt(oldValue - newValue)
	if v.Lt(d) {
		v.Clear()
		return
	}
	v.Sub(v, d)
}
