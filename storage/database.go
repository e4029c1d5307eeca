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
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gofrs/flock"
)

// ErrDatadirUsed is returned when another process holds the database.
var ErrDatadirUsed = errors.New("datadir already used by another process")

const lockFile = "LOCK.swork"

// Database is an opened state database. On-disk databases hold an exclusive
// lock on their directory until closed.
type Database struct {
	ethdb.KeyValueStore
	lock *flock.Flock
}

// Open opens the database described by config.
func Open(config *Config) (*Database, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Engine == EngineMemory {
		return &Database{KeyValueStore: memorydb.New()}, nil
	}
	if err := os.MkdirAll(config.Dir, 0700); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(config.Dir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrDatadirUsed, config.Dir)
	}
	db, err := leveldb.New(config.Dir, config.Cache, config.Handles, "swork/db/", false)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	log.Info("Opened state database", "engine", config.Engine, "dir", config.Dir, "cache", config.Cache, "handles", config.Handles)
	return &Database{KeyValueStore: db, lock: lock}, nil
}

// Close closes the database and releases the directory lock.
func (db *Database) Close() error {
	err := db.KeyValueStore.Close()
	if db.lock != nil {
		if uerr := db.lock.Unlock(); err == nil {
			err = uerr
		}
	}
	return err
}
