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

// Package types contains the swork data types.
package types

import (
	"bytes"
	"encoding/hex"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// FileInfo is one stored file: its content hash and size in bytes.
type FileInfo struct {
	Hash []byte
	Size uint64
}

// WorkReport is the latest storage claim of an identity.
type WorkReport struct {
	PublicKey   []byte
	BlockNumber uint64
	BlockHash   common.Hash
	Reserved    uint64
	Used        uint64
	Files       []FileInfo
	Signature   []byte
}

// SigningPayload is the exact byte string the enclave signs:
//
//	public_key ∥ dec(block_number) ∥ block_hash ∥ dec(reserved) ∥ files
//
// where files is the textual list produced by EncodeFiles.
func (r *WorkReport) SigningPayload() []byte {
	files := EncodeFiles(r.Files)
	buf := make([]byte, 0, len(r.PublicKey)+20+common.HashLength+20+len(files))
	buf = append(buf, r.PublicKey...)
	buf = strconv.AppendUint(buf, r.BlockNumber, 10)
	buf = append(buf, r.BlockHash[:]...)
	buf = strconv.AppendUint(buf, r.Reserved, 10)
	return append(buf, files...)
}

// EncodeFiles renders files as [{"hash":"<hex>","size":<n>},...] in the
// given order, with lowercase hex and no whitespace. An empty list is "[]".
func EncodeFiles(files []FileInfo) []byte {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, f := range files {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"hash":"`)
		b.WriteString(hex.EncodeToString(f.Hash))
		b.WriteString(`","size":`)
		b.WriteString(strconv.FormatUint(f.Size, 10))
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.Bytes()
}

// FilesSize sums the file sizes. ok is false on overflow.
func FilesSize(files []FileInfo) (total uint64, ok bool) {
	for _, f := range files {
		next := total + f.Size
		if next < total {
			return 0, false
		}
		total = next
	}
	return total, true
}

// Equal reports whether two reports are identical, signature included.
func (r *WorkReport) Equal(o *WorkReport) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.BlockNumber != o.BlockNumber || r.BlockHash != o.BlockHash ||
		r.Reserved != o.Reserved || r.Used != o.Used || len(r.Files) != len(o.Files) {
		return false
	}
	for i := range r.Files {
		if r.Files[i].Size != o.Files[i].Size || !bytes.Equal(r.Files[i].Hash, o.Files[i].Hash) {
			return false
		}
	}
	return bytes.Equal(r.PublicKey, o.PublicKey) && bytes.Equal(r.Signature, o.Signature)
}

// Copy returns a deep copy.
func (r *WorkReport) Copy() *WorkReport {
	cpy := *r
	cpy.PublicKey = common.CopyBytes(r.PublicKey)
	cpy.Signature = common.CopyBytes(r.Signature)
	if r.Files != nil {
		cpy.Files = make([]FileInfo, len(r.Files))
		for i, f := range r.Files {
			cpy.Files[i] = FileInfo{Hash: common.CopyBytes(f.Hash), Size: f.Size}
		}
	}
	return &cpy
}

// ReportSlot returns the first block of the slot containing number.
func ReportSlot(number, slotLength uint64) uint64 {
	if slotLength == 0 {
		return number
	}
	return number / slotLength * slotLength
}
