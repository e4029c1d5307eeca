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

// Package swork implements the storage work ledger: enclave identity
// registration, signed work reports, the workload totals and the eviction of
// reports that stop being refreshed.
package swork

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/sworknet/swork/core/rawdb"
	"github.com/sworknet/swork/governance"
	"github.com/sworknet/swork/internal/sgx"
)

// Module is the swork state transition function: identity registration,
// work report validation, the workload ledger and report eviction. Each
// call runs against a staged overlay of the database and is committed only
// if it succeeds, so a rejected call leaves no trace.
type Module struct {
	config *Config
	db     ethdb.KeyValueStore

	admins    *governance.Admins
	allowlist *governance.Allowlist
	admission *governance.AdmissionController
	sigs      sgx.SignatureVerifier
	observer  WorksObserver

	feed  event.Feed
	scope event.SubscriptionScope

	mu  sync.Mutex // serializes calls
	log log.Logger
}

// New creates the module over db. verifier checks registration
// attestations, sigs checks enclave signatures on reports and vouches.
func New(config *Config, db ethdb.KeyValueStore, verifier governance.AttestationVerifier, sigs sgx.SignatureVerifier) (*Module, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if db == nil || verifier == nil || sigs == nil {
		return nil, errors.New("swork: missing database or verifier")
	}
	admins := governance.NewAdmins()
	allowlist := governance.NewAllowlist(admins)
	return &Module{
		config:    config,
		db:        db,
		admins:    admins,
		allowlist: allowlist,
		admission: governance.NewAdmissionController(allowlist, verifier),
		sigs:      sigs,
		log:       log.New("module", "swork"),
	}, nil
}

// Config returns the module parameters.
func (m *Module) Config() *Config {
	return m.config
}

// SetWorksObserver installs the consumer notified after slot transitions.
func (m *Module) SetWorksObserver(o WorksObserver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = o
}

// SubscribeReceipts delivers the receipt of every committed call.
func (m *Module) SubscribeReceipts(ch chan<- *Receipt) event.Subscription {
	return m.scope.Track(m.feed.Subscribe(ch))
}

// Close ends all receipt subscriptions.
func (m *Module) Close() {
	m.scope.Close()
}

// transition is the body of one call. It must only touch st.
type transition func(st *rawdb.Overlay, r *Receipt) error

// execute runs fn against a fresh overlay and commits on success.
func (m *Module) execute(method string, call Call, fn transition) (*Receipt, error) {
	m.mu.Lock()
	st := rawdb.NewOverlay(m.db)
	receipt := &Receipt{Method: method, Origin: call.Origin, BlockNumber: call.BlockNumber}
	if err := fn(st, receipt); err != nil {
		st.Discard()
		m.mu.Unlock()
		callRejectedMeter(method).Inc(1)
		m.log.Debug("Call rejected", "method", method, "origin", call.Origin, "number", call.BlockNumber, "err", err)
		return nil, err
	}
	if err := st.Commit(); err != nil {
		m.mu.Unlock()
		m.log.Error("Failed to commit swork state", "method", method, "err", err)
		return nil, fmt.Errorf("commit %s: %w", method, err)
	}
	m.mu.Unlock()

	callAcceptedMeter(method).Inc(1)
	m.feed.Send(receipt)
	return receipt, nil
}

// view runs a read-only query under the call lock.
func (m *Module) view(fn func(db ethdb.KeyValueStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.db)
}
