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
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func TestEncodeFiles(t *testing.T) {
	tests := []struct {
		name  string
		files []FileInfo
		want  string
	}{
		{"empty", nil, "[]"},
		{"single", []FileInfo{{Hash: []byte{0x5b, 0x5c}, Size: 127}}, `[{"hash":"5b5c","size":127}]`},
		{
			"order preserved",
			[]FileInfo{{Hash: []byte{0xff}, Size: 0}, {Hash: []byte{0x00, 0xab}, Size: 18446744073709551615}},
			`[{"hash":"ff","size":0},{"hash":"00ab","size":18446744073709551615}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(EncodeFiles(tt.files)); got != tt.want {
				t.Errorf("EncodeFiles() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSigningPayload(t *testing.T) {
	hash := common.HexToHash("0x05404b690b0c785bf180b2dd82a431d88d29baf31346c53dbda95e83e34c8a75")
	r := &WorkReport{
		PublicKey:   []byte{0x01, 0x02},
		BlockNumber: 300,
		BlockHash:   hash,
		Reserved:    4294967296,
		Used:        10,
		Files:       []FileInfo{{Hash: []byte{0xaa}, Size: 10}},
	}
	want := append([]byte{0x01, 0x02}, []byte("300")...)
	want = append(want, hash[:]...)
	want = append(want, []byte("4294967296")...)
	want = append(want, []byte(`[{"hash":"aa","size":10}]`)...)
	if got := r.SigningPayload(); string(got) != string(want) {
		t.Errorf("SigningPayload() = %q, want %q", got, want)
	}

	// Used is not part of the signed payload.
	r2 := r.Copy()
	r2.Used = 99
	if string(r2.SigningPayload()) != string(want) {
		t.Error("payload depends on used")
	}
}

func TestWorkReportEqualAndCopy(t *testing.T) {
	r := &WorkReport{
		PublicKey: []byte{1},
		Files:     []FileInfo{{Hash: []byte{2}, Size: 3}},
		Signature: []byte{4},
	}
	cpy := r.Copy()
	if !r.Equal(cpy) {
		t.Fatal("copy not equal")
	}
	cpy.Files[0].Hash[0] = 9
	if r.Files[0].Hash[0] != 2 {
		t.Error("copy shares file hash memory")
	}
	if r.Equal(cpy) {
		t.Error("different file hash compared equal")
	}
	var nilReport *WorkReport
	if nilReport.Equal(r) || !nilReport.Equal(nil) {
		t.Error("nil comparison wrong")
	}
}

func TestFilesSize(t *testing.T) {
	if total, ok := FilesSize([]FileInfo{{Size: 1}, {Size: 2}}); !ok || total != 3 {
		t.Errorf("FilesSize = %d, %v", total, ok)
	}
	if _, ok := FilesSize([]FileInfo{{Size: math.MaxUint64}, {Size: 1}}); ok {
		t.Error("overflow not detected")
	}
}

func TestReportSlot(t *testing.T) {
	tests := []struct{ number, length, want uint64 }{
		{0, 300, 0},
		{299, 300, 0},
		{300, 300, 300},
		{602, 300, 600},
		{7, 0, 7},
	}
	for _, tt := range tests {
		if got := ReportSlot(tt.number, tt.length); got != tt.want {
			t.Errorf("ReportSlot(%d, %d) = %d, want %d", tt.number, tt.length, got, tt.want)
		}
	}
}

func TestShiftSaturates(t *testing.T) {
	v := uint256.NewInt(10)
	Shift(v, 0, 5)
	if v.Uint64() != 15 {
		t.Fatalf("got %d, want 15", v.Uint64())
	}
	Shift(v, 5, 2)
	if v.Uint64() != 12 {
		t.Fatalf("got %d, want 12", v.Uint64())
	}
	Shift(v, 100, 0)
	if !v.IsZero() {
		t.Fatalf("got %d, want 0", v.Uint64())
	}
}

func TestAllowlistEntryExpired(t *testing.T) {
	e := &AllowlistEntry{Expiry: 1000}
	if e.Expired(999) {
		t.Error("expired before expiry block")
	}
	if !e.Expired(1000) {
		t.Error("not expired at expiry block")
	}
}
