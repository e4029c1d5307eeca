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
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned for inconsistent module parameters.
var ErrInvalidConfig = errors.New("invalid swork config")

// Config holds the report cadence parameters.
type Config struct {
	SlotLength            uint64 // blocks per report slot
	MaxSlotsWithoutReport uint64 // slots a report stays live without refresh
	GenesisSentinel       uint64 // block number accepted outside the slot cadence
	MaxFiles              int    // files per work report
}

// DefaultConfig returns the default cadence: 300 block slots, reports must be
// refreshed every slot, genesis sentinel at block 1. A report made in slot S
// is evicted when slot S+600 is processed.
func DefaultConfig() *Config {
	return &Config{
		SlotLength:            300,
		MaxSlotsWithoutReport: 1,
		GenesisSentinel:       1,
		MaxFiles:              10000,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SlotLength == 0 {
		return fmt.Errorf("%w: slot length must be positive", ErrInvalidConfig)
	}
	if c.MaxSlotsWithoutReport == 0 {
		return fmt.Errorf("%w: max slots without report must be positive", ErrInvalidConfig)
	}
	if c.MaxSlotsWithoutReport > ^uint64(0)/c.SlotLength {
		return fmt.Errorf("%w: report lifetime overflows", ErrInvalidConfig)
	}
	if c.MaxFiles <= 0 {
		return fmt.Errorf("%w: max files must be positive", ErrInvalidConfig)
	}
	return nil
}

// reportLifetime is the age in blocks beyond which a report is evicted.
func (c *Config) reportLifetime() uint64 {
	return c.MaxSlotsWithoutReport * c.SlotLength
}
