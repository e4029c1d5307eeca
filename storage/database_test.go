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
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		config Config
		valid  bool
	}{
		{Config{Engine: EngineMemory}, true},
		{Config{Engine: EngineLevelDB, Dir: "/tmp/x", Cache: 16, Handles: 16}, true},
		{Config{Engine: EngineLevelDB}, false},
		{Config{Engine: EngineLevelDB, Dir: "/tmp/x", Cache: -1}, false},
		{Config{Engine: "pebble", Dir: "/tmp/x"}, false},
	}
	for i, tt := range tests {
		err := tt.config.Validate()
		if tt.valid && err != nil {
			t.Errorf("test %d: unexpected error %v", i, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("test %d: got %v, want ErrInvalidConfig", i, err)
		}
	}
}

func TestOpenMemory(t *testing.T) {
	db, err := Open(&Config{Engine: EngineMemory})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	if v, err := db.Get([]byte("k")); err != nil || string(v) != "v" {
		t.Fatalf("got %q, %v", v, err)
	}
}

func TestOpenLevelDBLocksDir(t *testing.T) {
	config := &Config{Engine: EngineLevelDB, Dir: t.TempDir(), Cache: 16, Handles: 16}
	db, err := Open(config)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Open(config); !errors.Is(err, ErrDatadirUsed) {
		t.Fatalf("second open: got %v, want ErrDatadirUsed", err)
	}
	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = Open(config)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if v, _ := db.Get([]byte("k")); string(v) != "v" {
		t.Fatalf("value lost across reopen: %q", v)
	}
}
