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

// Package genesis initializes an empty swork database: the privileged
// accounts, the initial enclave code allowlist and any block hashes known
// before the node starts importing blocks.
package genesis

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/sworknet/swork/core/rawdb"
	"github.com/sworknet/swork/governance"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoAdmins is returned for a genesis without privileged accounts.
	ErrNoAdmins = errors.New("genesis has no privileged accounts")

	// ErrGenesisMismatch is returned when the database was initialized
	// from a different genesis.
	ErrGenesisMismatch = errors.New("database initialized with a different genesis")
)

// Genesis is the initial swork state.
type Genesis struct {
	Admins    []common.Address `yaml:"admins"`
	Allowlist []CodeEntry      `yaml:"allowlist"`
	Blocks    []BlockEntry     `yaml:"blocks,omitempty"`
}

// CodeEntry allowlists an enclave code until Expiry.
type CodeEntry struct {
	Code   hexutil.Bytes `yaml:"code"`
	Expiry uint64        `yaml:"expiry"`
}

// BlockEntry records a block hash known at genesis.
type BlockEntry struct {
	Number uint64      `yaml:"number"`
	Hash   common.Hash `yaml:"hash"`
}

// LoadGenesis reads a YAML genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	g := new(Genesis)
	if err := dec.Decode(g); err != nil {
		return nil, fmt.Errorf("invalid genesis file %s: %w", path, err)
	}
	return g, g.Validate()
}

// Validate checks the genesis for obvious mistakes.
func (g *Genesis) Validate() error {
	if len(g.Admins) == 0 {
		return ErrNoAdmins
	}
	for _, entry := range g.Allowlist {
		if len(entry.Code) == 0 || len(entry.Code) > governance.MaxEnclaveCodeLength {
			return fmt.Errorf("%w: %x", governance.ErrInvalidEnclaveCode, entry.Code)
		}
	}
	return nil
}

// Hash identifies the genesis content.
func (g *Genesis) Hash() common.Hash {
	enc, err := rlp.EncodeToBytes(g)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

// ApplyGenesis writes g into db in one batch. Applying the same genesis
// again is a no-op; applying a different one fails.
func ApplyGenesis(db ethdb.KeyValueStore, g *Genesis) (common.Hash, error) {
	if err := g.Validate(); err != nil {
		return common.Hash{}, err
	}
	hash := g.Hash()
	if stored, ok := rawdb.ReadGenesisHash(db); ok {
		if stored != hash {
			return common.Hash{}, fmt.Errorf("%w: have %x, new %x", ErrGenesisMismatch, stored, hash)
		}
		return hash, nil
	}

	st := rawdb.NewOverlay(db)
	admins := governance.NewAdmins()
	for _, admin := range g.Admins {
		if err := admins.Seed(st, admin); err != nil {
			return common.Hash{}, err
		}
	}
	allowlist := governance.NewAllowlist(admins)
	for _, entry := range g.Allowlist {
		if err := allowlist.Upgrade(st, g.Admins[0], entry.Code, entry.Expiry); err != nil {
			return common.Hash{}, err
		}
	}
	for _, block := range g.Blocks {
		if err := rawdb.WriteBlockHash(st, block.Number, block.Hash); err != nil {
			return common.Hash{}, err
		}
	}
	if err := rawdb.WriteGenesisHash(st, hash); err != nil {
		return common.Hash{}, err
	}
	if err := st.Commit(); err != nil {
		return common.Hash{}, err
	}
	log.Info("Wrote genesis state", "hash", hash, "admins", len(g.Admins), "codes", len(g.Allowlist), "blocks", len(g.Blocks))
	return hash, nil
}
