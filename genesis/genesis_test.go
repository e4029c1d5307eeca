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

package genesis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/sworknet/swork/core/rawdb"
)

const testGenesis = `
admins:
  - "0x00000000000000000000000000000000000000ad"
allowlist:
  - code: "0x0102030405060708091011121314151617181920212223242526272829303132"
    expiry: 1000
blocks:
  - number: 1
    hash: "0x1111111111111111111111111111111111111111111111111111111111111111"
`

func writeGenesis(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndApplyGenesis(t *testing.T) {
	g, err := LoadGenesis(writeGenesis(t, testGenesis))
	if err != nil {
		t.Fatalf("LoadGenesis failed: %v", err)
	}
	admin := common.HexToAddress("0xad")
	if len(g.Admins) != 1 || g.Admins[0] != admin {
		t.Fatalf("wrong admins: %v", g.Admins)
	}

	db := memorydb.New()
	hash, err := ApplyGenesis(db, g)
	if err != nil {
		t.Fatalf("ApplyGenesis failed: %v", err)
	}
	if !rawdb.IsAdmin(db, admin) {
		t.Error("admin not seeded")
	}
	if expiry, ok := rawdb.ReadCodeExpiry(db, g.Allowlist[0].Code); !ok || expiry != 1000 {
		t.Errorf("allowlist entry: got %d, %v", expiry, ok)
	}
	if h, ok := rawdb.ReadBlockHash(db, 1); !ok || h != g.Blocks[0].Hash {
		t.Errorf("block hash not recorded")
	}
	if stored, _ := rawdb.ReadGenesisHash(db); stored != hash {
		t.Errorf("genesis hash: got %x, want %x", stored, hash)
	}

	// Reapplying is a no-op, a different genesis is refused.
	if _, err := ApplyGenesis(db, g); err != nil {
		t.Fatalf("reapply: %v", err)
	}
	other := *g
	other.Admins = []common.Address{common.HexToAddress("0xbeef")}
	if _, err := ApplyGenesis(db, &other); !errors.Is(err, ErrGenesisMismatch) {
		t.Fatalf("got %v, want ErrGenesisMismatch", err)
	}
}

func TestGenesisValidation(t *testing.T) {
	if _, err := LoadGenesis(writeGenesis(t, "allowlist: []\n")); !errors.Is(err, ErrNoAdmins) {
		t.Errorf("got %v, want ErrNoAdmins", err)
	}
	if _, err := LoadGenesis(writeGenesis(t, "admins: [\"0x01\"]\nunknown: 1\n")); err == nil {
		t.Error("unknown field accepted")
	}
	bad := "admins: [\"0x00000000000000000000000000000000000000ad\"]\nallowlist:\n  - code: \"0x\"\n    expiry: 5\n"
	if _, err := LoadGenesis(writeGenesis(t, bad)); err == nil {
		t.Error("empty code accepted")
	}
}

func TestGenesisHashDeterministic(t *testing.T) {
	a, err := LoadGenesis(writeGenesis(t, testGenesis))
	if err != nil {
		t.Fatal(err)
	}
	b, err := LoadGenesis(writeGenesis(t, testGenesis))
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash() != b.Hash() {
		t.Error("same genesis hashed differently")
	}
	b.Allowlist[0].Expiry++
	if a.Hash() == b.Hash() {
		t.Error("different genesis hashed the same")
	}
}
