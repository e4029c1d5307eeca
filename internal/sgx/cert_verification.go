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

import (
	"bytes"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
)

// ParseCertificate decodes a certificate given as PEM, base64 DER (the form
// the attestation service puts in its response headers) or raw DER.
func ParseCertificate(data []byte) (*x509.Certificate, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty certificate")
	}
	if block, _ := pem.Decode(data); block != nil {
		if block.Type != "CERTIFICATE" {
			return nil, fmt.Errorf("unexpected PEM block %q", block.Type)
		}
		return x509.ParseCertificate(block.Bytes)
	}
	if der, err := base64.StdEncoding.DecodeString(string(data)); err == nil {
		return x509.ParseCertificate(der)
	}
	return x509.ParseCertificate(data)
}

// RootVerifier checks leaf certificates against one pinned root. Chains are
// exactly one level deep: no intermediates, no revocation, no validity
// window, since the transition function has no clock.
type RootVerifier struct {
	root  *x509.Certificate
	cache *CertCache
}

// NewRootVerifier pins root. cache may be nil.
func NewRootVerifier(root *x509.Certificate, cache *CertCache) *RootVerifier {
	return &RootVerifier{root: root, cache: cache}
}

// Root returns the pinned root certificate.
func (v *RootVerifier) Root() *x509.Certificate {
	return v.root
}

// VerifyLeaf decodes the leaf and checks it was signed by the root.
func (v *RootVerifier) VerifyLeaf(leafRaw []byte) (*x509.Certificate, error) {
	leaf, err := ParseCertificate(leafRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: leaf certificate: %v", ErrMalformedInput, err)
	}
	if v.cache.Verified(v.root, leaf) {
		return leaf, nil
	}
	if err := leaf.CheckSignatureFrom(v.root); err != nil {
		log.Debug("Leaf certificate rejected", "subject", leaf.Subject.CommonName, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrCertificateInvalid, err)
	}
	v.cache.MarkVerified(v.root, leaf)
	return leaf, nil
}

// VerifyServiceSignature checks the base64 encoded service signature over
// document under the leaf key, with SHA-256 as the digest.
func (v *RootVerifier) VerifyServiceSignature(leaf *x509.Certificate, document, signature []byte) error {
	sig, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(signature)))
	if err != nil {
		return fmt.Errorf("%w: service signature: %v", ErrMalformedInput, err)
	}
	var algo x509.SignatureAlgorithm
	switch leaf.PublicKeyAlgorithm {
	case x509.RSA:
		algo = x509.SHA256WithRSA
	case x509.ECDSA:
		algo = x509.ECDSAWithSHA256
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedKeyAlgorithm, leaf.PublicKeyAlgorithm)
	}
	if err := leaf.CheckSignature(algo, document, sig); err != nil {
		return fmt.Errorf("%w: %v", ErrServiceSignatureInvalid, err)
	}
	return nil
}
