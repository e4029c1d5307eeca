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
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/sworknet/swork/core/types"
)

var (
	reservedGauge = metrics.NewRegisteredGauge("swork/workload/reserved", nil)
	usedGauge     = metrics.NewRegisteredGauge("swork/workload/used", nil)
	liveGauge     = metrics.NewRegisteredGauge("swork/reports/live", nil)
	evictedMeter  = metrics.NewRegisteredCounter("swork/reports/evicted", nil)
)

func callAcceptedMeter(method string) *metrics.Counter {
	return metrics.GetOrRegisterCounter("swork/"+method+"/accepted", nil)
}

func callRejectedMeter(method string) *metrics.Counter {
	return metrics.GetOrRegisterCounter("swork/"+method+"/rejected", nil)
}

// updateWorkloadGauges reports totals, clamped to the gauge range.
func updateWorkloadGauges(w *types.Workload, live int) {
	reservedGauge.Update(clampInt64(w.Reserved.Uint64(), w.Reserved.IsUint64()))
	usedGauge.Update(clampInt64(w.Used.Uint64(), w.Used.IsUint64()))
	liveGauge.Update(int64(live))
}

func clampInt64(v uint64, fits bool) int64 {
	if !fits || v > 1<<63-1 {
		return 1<<63 - 1
	}
	return int64(v)
}
