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

package rawdb

import (
	"bytes"
	"errors"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
)

var errNotFound = errors.New("not found")

// Backend is the database an Overlay stages writes for.
type Backend interface {
	ethdb.KeyValueReader
	ethdb.Iteratee
	ethdb.Batcher
}

// Overlay stages the writes of one state transition in memory. Reads see the
// staged values first. Commit flushes everything through a single batch and
// Discard drops it, so a transition either lands completely or not at all.
type Overlay struct {
	base  Backend
	dirty map[string][]byte // nil marks a deletion
}

// NewOverlay creates an empty overlay on top of base.
func NewOverlay(base Backend) *Overlay {
	return &Overlay{base: base, dirty: make(map[string][]byte)}
}

// Has implements ethdb.KeyValueReader.
func (o *Overlay) Has(key []byte) (bool, error) {
	if v, ok := o.dirty[string(key)]; ok {
		return v != nil, nil
	}
	return o.base.Has(key)
}

// Get implements ethdb.KeyValueReader.
func (o *Overlay) Get(key []byte) ([]byte, error) {
	if v, ok := o.dirty[string(key)]; ok {
		if v == nil {
			return nil, errNotFound
		}
		return common.CopyBytes(v), nil
	}
	return o.base.Get(key)
}

// Put implements ethdb.KeyValueWriter.
func (o *Overlay) Put(key []byte, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	o.dirty[string(key)] = common.CopyBytes(value)
	return nil
}

// Delete implements ethdb.KeyValueWriter.
func (o *Overlay) Delete(key []byte) error {
	o.dirty[string(key)] = nil
	return nil
}

// Len returns the number of staged keys.
func (o *Overlay) Len() int {
	return len(o.dirty)
}

// NewIterator iterates the merged view of staged and committed entries in
// key order.
func (o *Overlay) NewIterator(prefix []byte, start []byte) ethdb.Iterator {
	merged := make(map[string][]byte)
	it := o.base.NewIterator(prefix, start)
	for it.Next() {
		merged[string(it.Key())] = common.CopyBytes(it.Value())
	}
	err := it.Error()
	it.Release()

	from := append(append([]byte{}, prefix...), start...)
	for k, v := range o.dirty {
		key := []byte(k)
		if !bytes.HasPrefix(key, prefix) || bytes.Compare(key, from) < 0 {
			continue
		}
		if v == nil {
			delete(merged, k)
		} else {
			merged[k] = v
		}
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	iter := &sliceIterator{index: -1, err: err}
	for _, k := range keys {
		iter.keys = append(iter.keys, []byte(k))
		iter.values = append(iter.values, merged[k])
	}
	return iter
}

// Commit writes the staged changes to the backend in key order and resets
// the overlay.
func (o *Overlay) Commit() error {
	keys := make([]string, 0, len(o.dirty))
	for k := range o.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	batch := o.base.NewBatch()
	for _, k := range keys {
		var err error
		if v := o.dirty[k]; v == nil {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	o.Discard()
	return nil
}

// Discard drops every staged change.
func (o *Overlay) Discard() {
	o.dirty = make(map[string][]byte)
}

// sliceIterator walks a materialized, sorted key/value list.
type sliceIterator struct {
	keys   [][]byte
	values [][]byte
	index  int
	err    error
}

func (it *sliceIterator) Next() bool {
	if it.err != nil || it.index+1 >= len(it.keys) {
		it.index = len(it.keys)
		return false
	}
	it.index++
	return true
}

func (it *sliceIterator) Error() error { return it.err }

func (it *sliceIterator) Key() []byte {
	if it.index < 0 || it.index >= len(it.keys) {
		return nil
	}
	return it.keys[it.index]
}

func (it *sliceIterator) Value() []byte {
	if it.index < 0 || it.index >= len(it.values) {
		return nil
	}
	return it.values[it.index]
}

func (it *sliceIterator) Release() {
	it.keys, it.values = nil, nil
}
