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

package swork

import (
	"errors"

	"github.com/sworknet/swork/governance"
)

// Registration errors
var (
	ErrAttestationInvalid         = governance.ErrAttestationInvalid
	ErrEnclaveMeasurementMismatch = governance.ErrEnclaveMeasurementMismatch
	ErrEnclaveCodeNotAllowed      = governance.ErrEnclaveCodeNotAllowed
	ErrEnclaveCodeExpired         = governance.ErrEnclaveCodeExpired
	ErrMalformedInput             = governance.ErrMalformedInput
	ErrIllegalApplier             = errors.New("origin does not match applicant account")
	ErrDuplicatePublicKey         = errors.New("enclave public key bound to another account")
	ErrSelfVouching               = errors.New("identity cannot vouch for itself")
)

// Work report errors
var (
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrIdentityMismatch  = errors.New("public key does not match registered identity")
	ErrBadSignature      = errors.New("signature verification failed")
	ErrBlockHashMismatch = errors.New("block hash mismatch")
	ErrNotAligned        = errors.New("report block not aligned to report slot")
)

// Privilege errors
var (
	ErrNotPrivileged = governance.ErrNotPrivileged
)
