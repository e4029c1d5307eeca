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

import "errors"

// Allowlist errors
var (
	ErrEnclaveCodeNotAllowed = errors.New("enclave code not allowlisted")
	ErrEnclaveCodeExpired    = errors.New("enclave code expired")
	ErrInvalidEnclaveCode    = errors.New("invalid enclave code")
)

// Privilege errors
var (
	ErrNotPrivileged = errors.New("origin is not privileged")
	ErrLastAdmin     = errors.New("cannot revoke the last privileged account")
)

// Admission errors
var (
	ErrAttestationInvalid         = errors.New("attestation invalid")
	ErrEnclaveMeasurementMismatch = errors.New("enclave measurement mismatch")
	ErrMalformedInput             = errors.New("malformed input")
)
