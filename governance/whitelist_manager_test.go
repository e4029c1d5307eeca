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

package governance

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
)

var (
	testAdmin    = common.HexToAddress("0x00000000000000000000000000000000000000ad")
	testOutsider = common.HexToAddress("0x0000000000000000000000000000000000000bad")
	testCode     = bytes.Repeat([]byte{0xc0}, 32)
)

func newTestAllowlist(t *testing.T) (*Allowlist, *Admins, *memorydb.Database) {
	t.Helper()
	db := memorydb.New()
	admins := NewAdmins()
	if err := admins.Seed(db, testAdmin); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return NewAllowlist(admins), admins, db
}

func TestAllowlist_Upgrade(t *testing.T) {
	al, _, db := newTestAllowlist(t)

	t.Run("unprivileged origin rejected", func(t *testing.T) {
		err := al.Upgrade(db, testOutsider, testCode, 1000)
		if !errors.Is(err, ErrNotPrivileged) {
			t.Fatalf("got %v, want ErrNotPrivileged", err)
		}
		if al.Entry(db, testCode) != nil {
			t.Error("entry written by unprivileged origin")
		}
	})

	t.Run("invalid code rejected", func(t *testing.T) {
		for _, code := range [][]byte{nil, make([]byte, MaxEnclaveCodeLength+1)} {
			if err := al.Upgrade(db, testAdmin, code, 1000); !errors.Is(err, ErrInvalidEnclaveCode) {
				t.Errorf("len %d: got %v, want ErrInvalidEnclaveCode", len(code), err)
			}
		}
	})

	t.Run("add and update", func(t *testing.T) {
		if err := al.Upgrade(db, testAdmin, testCode, 1000); err != nil {
			t.Fatalf("Upgrade failed: %v", err)
		}
		if e := al.Entry(db, testCode); e == nil || e.Expiry != 1000 {
			t.Fatalf("unexpected entry %+v", e)
		}
		if err := al.Upgrade(db, testAdmin, testCode, 2000); err != nil {
			t.Fatalf("Upgrade failed: %v", err)
		}
		entries, err := al.Entries(db)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 || entries[0].Expiry != 2000 {
			t.Errorf("unexpected entries %+v", entries)
		}
	})
}

func TestAllowlist_Check(t *testing.T) {
	al, _, db := newTestAllowlist(t)
	if err := al.Upgrade(db, testAdmin, testCode, 1000); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		code   []byte
		number uint64
		want   error
	}{
		{"allowed", testCode, 999, nil},
		{"expired at expiry block", testCode, 1000, ErrEnclaveCodeExpired},
		{"expired after", testCode, 5000, ErrEnclaveCodeExpired},
		{"unknown code", bytes.Repeat([]byte{1}, 32), 1, ErrEnclaveCodeNotAllowed},
		{"empty code", nil, 1, ErrEnclaveCodeNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := al.Check(db, tt.code, tt.number)
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAdmins_GrantRevoke(t *testing.T) {
	_, admins, db := newTestAllowlist(t)
	other := common.HexToAddress("0x0102")

	if err := admins.Grant(db, testOutsider, other); !errors.Is(err, ErrNotPrivileged) {
		t.Fatalf("got %v, want ErrNotPrivileged", err)
	}
	if err := admins.Grant(db, testAdmin, other); err != nil {
		t.Fatalf("Grant failed: %v", err)
	}
	list, err := admins.List(db)
	if err != nil || len(list) != 2 {
		t.Fatalf("List = %v, %v", list, err)
	}
	if err := admins.Revoke(db, testAdmin, other); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if admins.IsPrivileged(db, other) {
		t.Error("revoked account still privileged")
	}
	if err := admins.Revoke(db, testAdmin, testAdmin); !errors.Is(err, ErrLastAdmin) {
		t.Errorf("got %v, want ErrLastAdmin", err)
	}
}
