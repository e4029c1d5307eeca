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

// Package sgx verifies enclave attestations: the attestation service
// certificate and signature, the quote document and the enclave signatures
// in their little-endian wire encoding.
package sgx

import (
	"crypto/x509"
)

// SignatureVerifier verifies enclave signatures over raw messages.
// Implementations must be total: malformed input returns false.
type SignatureVerifier interface {
	Verify(pubKey, msg, sig []byte) bool
}

// CertChainVerifier anchors attestation service certificates.
type CertChainVerifier interface {
	// VerifyLeaf decodes the leaf and checks it against the trust anchor.
	VerifyLeaf(leaf []byte) (*x509.Certificate, error)

	// VerifyServiceSignature checks the service signature over document.
	VerifyServiceSignature(leaf *x509.Certificate, document, signature []byte) error
}

// Attestation carries the attacker-supplied inputs of one registration.
type Attestation struct {
	ServiceSignature []byte // signature over QuoteDocument, base64
	LeafCert         []byte
	AccountID        []byte
	QuoteDocument    []byte
	BindingSignature []byte
	ExpectedCode     []byte

	// VouchingPublicKey is appended to the binding message when present.
	VouchingPublicKey []byte
}

// BindingMessage is the payload the enclave signs to tie its attestation to
// an account.
func (a *Attestation) BindingMessage() []byte {
	size := len(a.LeafCert) + len(a.ServiceSignature) + len(a.QuoteDocument) + len(a.AccountID) + len(a.VouchingPublicKey)
	msg := make([]byte, 0, size)
	msg = append(msg, a.LeafCert...)
	msg = append(msg, a.ServiceSignature...)
	msg = append(msg, a.QuoteDocument...)
	msg = append(msg, a.AccountID...)
	msg = append(msg, a.VouchingPublicKey...)
	return msg
}
