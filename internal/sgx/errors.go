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

package sgx

import "errors"

// Attestation input errors
var (
	ErrMalformedInput      = errors.New("malformed attestation input")
	ErrMeasurementMismatch = errors.New("enclave measurement mismatch")
	ErrStatusNotAccepted   = errors.New("quote status not accepted")
)

// Trust chain errors
var (
	ErrCertificateInvalid      = errors.New("leaf certificate not issued by pinned root")
	ErrUnsupportedKeyAlgorithm = errors.New("unsupported certificate key algorithm")
	ErrServiceSignatureInvalid = errors.New("attestation service signature invalid")
	ErrBindingSignatureInvalid = errors.New("enclave binding signature invalid")
)

// Format errors
var (
	ErrInvalidFormat = errors.New("invalid attestation format")
	ErrNoRootCert    = errors.New("attestation format has no root certificate")
)
