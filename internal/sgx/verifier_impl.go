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
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
)

// AttestationVerifier runs the registration attestation pipeline.
type AttestationVerifier struct {
	format *Format
	certs  CertChainVerifier
	sigs   SignatureVerifier
}

// NewAttestationVerifier builds a verifier pinned to the format's root, with
// a default sized certificate cache and the P-256 enclave signature verifier.
func NewAttestationVerifier(format *Format) (*AttestationVerifier, error) {
	return NewCachedAttestationVerifier(format, DefaultCertCacheSize)
}

// NewCachedAttestationVerifier is NewAttestationVerifier with a certificate
// cache bounded to cacheBytes.
func NewCachedAttestationVerifier(format *Format, cacheBytes int) (*AttestationVerifier, error) {
	if format == nil {
		return nil, errors.New("nil attestation format")
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	root, err := ParseCertificate(format.RootCert)
	if err != nil {
		return nil, fmt.Errorf("%w: root certificate: %v", ErrInvalidFormat, err)
	}
	log.Info("Pinned attestation root", "format", format.Name, "subject", root.Subject.CommonName)
	certs := NewRootVerifier(root, NewCertCache(cacheBytes))
	return NewAttestationVerifierWith(format, certs, P256Verifier{}), nil
}

// NewAttestationVerifierWith assembles a verifier from injected capabilities.
func NewAttestationVerifierWith(format *Format, certs CertChainVerifier, sigs SignatureVerifier) *AttestationVerifier {
	return &AttestationVerifier{format: format, certs: certs, sigs: sigs}
}

// Format returns the wire format the verifier reads quotes with.
func (v *AttestationVerifier) Format() *Format {
	return v.format
}

// Signatures returns the enclave signature verifier.
func (v *AttestationVerifier) Signatures() SignatureVerifier {
	return v.sigs
}

// VerifyAttestation checks the attestation and returns the enclave public key
// it certifies. Steps fail fast in order:
//  1. leaf certificate issued by the pinned root
//  2. service signature over the quote document
//  3. quote document JSON and base64 quote body
//  4. measurement equals the expected enclave code
//  5. public key taken from the tail of the quote body
//  6. binding signature over the concatenated inputs, under that key
func (v *AttestationVerifier) VerifyAttestation(a *Attestation) ([]byte, error) {
	if a == nil {
		return nil, ErrMalformedInput
	}
	leaf, err := v.certs.VerifyLeaf(a.LeafCert)
	if err != nil {
		return nil, err
	}
	if err := v.certs.VerifyServiceSignature(leaf, a.QuoteDocument, a.ServiceSignature); err != nil {
		return nil, err
	}
	quote, err := v.format.ParseQuoteDocument(a.QuoteDocument)
	if err != nil {
		return nil, err
	}
	if !v.format.statusAccepted(quote.Status) {
		return nil, fmt.Errorf("%w: %q", ErrStatusNotAccepted, quote.Status)
	}
	code, err := v.format.ExtractMeasurement(quote.Body)
	if err != nil {
		return nil, err
	}
	if !ConstantTimeCompare(code, a.ExpectedCode) {
		return nil, fmt.Errorf("%w: quote %x, expected %x", ErrMeasurementMismatch, code, a.ExpectedCode)
	}
	pubKey, err := v.format.ExtractPublicKey(quote.Body)
	if err != nil {
		return nil, err
	}
	if !v.sigs.Verify(pubKey, a.BindingMessage(), a.BindingSignature) {
		return nil, ErrBindingSignatureInvalid
	}
	return pubKey, nil
}

// ExtractPublicKey is VerifyAttestation with the failure reason dropped.
func (v *AttestationVerifier) ExtractPublicKey(a *Attestation) ([]byte, bool) {
	key, err := v.VerifyAttestation(a)
	if err != nil {
		log.Debug("Attestation rejected", "err", err)
		return nil, false
	}
	return key, true
}
