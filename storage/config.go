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

package storage

import (
	"errors"
	"fmt"
)

// Database engines
const (
	EngineMemory  = "memory"
	EngineLevelDB = "leveldb"
)

// ErrInvalidConfig is returned for an unusable database configuration.
var ErrInvalidConfig = errors.New("invalid storage config")

// Config defines configuration for the state database
type Config struct {
	Engine  string // memory or leveldb
	Dir     string // database directory, leveldb only
	Cache   int    // cache size in megabytes
	Handles int    // open file handles
}

// DefaultConfig is the on-disk configuration used by nodes.
var DefaultConfig = Config{
	Engine:  EngineLevelDB,
	Cache:   64,
	Handles: 128,
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineMemory:
		return nil
	case EngineLevelDB:
		if c.Dir == "" {
			return fmt.Errorf("%w: leveldb needs a directory", ErrInvalidConfig)
		}
		if c.Cache < 0 || c.Handles < 0 {
			return fmt.Errorf("%w: negative cache or handles", ErrInvalidConfig)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown engine %q", ErrInvalidConfig, c.Engine)
	}
}
