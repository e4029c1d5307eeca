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

// Package governance holds the privileged accounts and the enclave code
// allowlist, and admits attested enclaves against them.
package governance

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/sworknet/swork/internal/sgx"
)

// AdmissionController decides whether an attested enclave may register.
type AdmissionController struct {
	allowlist *Allowlist
	verifier  AttestationVerifier
}

// NewAdmissionController creates an admission controller.
func NewAdmissionController(allowlist *Allowlist, verifier AttestationVerifier) *AdmissionController {
	return &AdmissionController{allowlist: allowlist, verifier: verifier}
}

// Admit runs the admission checks for an attestation submitted at block
// number and returns the certified enclave public key.
func (ac *AdmissionController) Admit(db StateReader, number uint64, att *sgx.Attestation) ([]byte, error) {
	// 1. The claimed code must be allowlisted and unexpired
	if err := ac.allowlist.Check(db, att.ExpectedCode, number); err != nil {
		log.Debug("Admission denied", "step", StepAllowlist, "number", number, "err", err)
		return nil, err
	}

	// 2. Certificate chain, quote document, measurement and binding signature
	pubKey, err := ac.verifier.VerifyAttestation(att)
	if err != nil {
		log.Debug("Admission denied", "step", StepAttestation, "number", number, "err", err)
		return nil, classifyAttestationError(err)
	}
	return pubKey, nil
}

// classifyAttestationError maps verifier failures onto the registration
// error taxonomy. Every failure matches ErrAttestationInvalid; parse errors
// and measurement mismatches also match their specific error.
func classifyAttestationError(err error) error {
	switch {
	case errors.Is(err, sgx.ErrMalformedInput):
		return fmt.Errorf("%w: %w: %w", ErrAttestationInvalid, ErrMalformedInput, err)
	case errors.Is(err, sgx.ErrMeasurementMismatch):
		return fmt.Errorf("%w: %w: %w", ErrAttestationInvalid, ErrEnclaveMeasurementMismatch, err)
	default:
		return fmt.Errorf("%w: %w", ErrAttestationInvalid, err)
	}
}
