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

// Package sgxtest builds synthetic attestation authorities and enclaves for
// tests: a self-signed root, an attestation service leaf certificate and
// quote documents carrying enclave keys in the vendor wire encoding.
package sgxtest

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/sworknet/swork/internal/sgx"
)

// Authority is a synthetic attestation service with its own root CA.
type Authority struct {
	RootKey crypto.Signer
	Root    *x509.Certificate
	RootPEM []byte

	LeafKey crypto.Signer
	Leaf    *x509.Certificate
	LeafB64 []byte // base64 DER, as the service ships it

	Status string
}

// NewAuthority creates an authority whose leaf signs with ECDSA P-256.
func NewAuthority(t testing.TB) *Authority {
	t.Helper()
	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("leaf key: %v", err)
	}
	return newAuthority(t, leafKey)
}

// NewRSAAuthority creates an authority whose leaf signs with RSA, like the
// production attestation service.
func NewRSAAuthority(t testing.TB) *Authority {
	t.Helper()
	leafKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("leaf key: %v", err)
	}
	return newAuthority(t, leafKey)
}

func newAuthority(t testing.TB, leafKey crypto.Signer) *Authority {
	rootKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("root key: %v", err)
	}
	notBefore := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rootTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Test Attestation Report Signing CA"},
		NotBefore:             notBefore,
		NotAfter:              notBefore.AddDate(30, 0, 0),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
	}
	rootDER, err := x509.CreateCertificate(rand.Reader, rootTmpl, rootTmpl, rootKey.Public(), rootKey)
	if err != nil {
		t.Fatalf("root certificate: %v", err)
	}
	root, err := x509.ParseCertificate(rootDER)
	if err != nil {
		t.Fatalf("parse root: %v", err)
	}
	leafTmpl := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "Test Attestation Report Signing"},
		NotBefore:    notBefore,
		NotAfter:     notBefore.AddDate(10, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	leafDER, err := x509.CreateCertificate(rand.Reader, leafTmpl, root, leafKey.Public(), rootKey)
	if err != nil {
		t.Fatalf("leaf certificate: %v", err)
	}
	leaf, err := x509.ParseCertificate(leafDER)
	if err != nil {
		t.Fatalf("parse leaf: %v", err)
	}
	return &Authority{
		RootKey: rootKey,
		Root:    root,
		RootPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: rootDER}),
		LeafKey: leafKey,
		Leaf:    leaf,
		LeafB64: []byte(base64.StdEncoding.EncodeToString(leafDER)),
		Status:  "OK",
	}
}

// Format returns the default wire format pinned to this authority's root.
func (a *Authority) Format() *sgx.Format {
	return sgx.IASv3Format(a.RootPEM)
}

// Verifier returns an attestation verifier pinned to this authority.
func (a *Authority) Verifier(t testing.TB) *sgx.AttestationVerifier {
	t.Helper()
	v, err := sgx.NewAttestationVerifier(a.Format())
	if err != nil {
		t.Fatalf("attestation verifier: %v", err)
	}
	return v
}

// SignDocument produces the base64 service signature over doc.
func (a *Authority) SignDocument(t testing.TB, doc []byte) []byte {
	t.Helper()
	digest := sha256.Sum256(doc)
	var opts crypto.SignerOpts = crypto.SHA256
	sig, err := a.LeafKey.Sign(rand.Reader, digest[:], opts)
	if err != nil {
		t.Fatalf("service signature: %v", err)
	}
	return []byte(base64.StdEncoding.EncodeToString(sig))
}

// QuoteDocument wraps a quote body in the service's JSON report.
func (a *Authority) QuoteDocument(t testing.TB, body []byte) []byte {
	t.Helper()
	doc, err := json.Marshal(map[string]string{
		"id":                    "142090828149453720542199954221331392599",
		"timestamp":             "2020-06-22T11:41:51.233289",
		"version":               "3",
		"isvEnclaveQuoteStatus": a.Status,
		"isvEnclaveQuoteBody":   base64.StdEncoding.EncodeToString(body),
	})
	if err != nil {
		t.Fatalf("quote document: %v", err)
	}
	return doc
}

// Attest produces a complete attestation of enclave e for account.
func (a *Authority) Attest(t testing.TB, e *Enclave, account []byte) *sgx.Attestation {
	t.Helper()
	doc := a.QuoteDocument(t, QuoteBody(a.Format(), e.Code, e.PublicKey()))
	att := &sgx.Attestation{
		ServiceSignature: a.SignDocument(t, doc),
		LeafCert:         a.LeafB64,
		AccountID:        account,
		QuoteDocument:    doc,
		ExpectedCode:     e.Code,
	}
	att.BindingSignature = e.Sign(t, att.BindingMessage())
	return att
}

// Enclave is a synthetic enclave: a P-256 key and a code measurement.
type Enclave struct {
	Key  *ecdsa.PrivateKey
	Code []byte
}

// NewEnclave creates an enclave running code.
func NewEnclave(t testing.TB, code []byte) *Enclave {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("enclave key: %v", err)
	}
	return &Enclave{Key: key, Code: code}
}

// PublicKey returns the enclave key in wire encoding.
func (e *Enclave) PublicKey() []byte {
	return sgx.MarshalEnclavePublicKey(&e.Key.PublicKey)
}

// Sign signs msg in the enclave wire encoding.
func (e *Enclave) Sign(t testing.TB, msg []byte) []byte {
	t.Helper()
	sig, err := sgx.SignEnclaveMessage(e.Key, msg)
	if err != nil {
		t.Fatalf("enclave signature: %v", err)
	}
	return sig
}

// QuoteBody lays out a quote body with code and pubKey at the format's
// offsets. Other bytes are filler.
func QuoteBody(f *sgx.Format, code, pubKey []byte) []byte {
	body := make([]byte, f.PublicKeyOffset+len(pubKey))
	for i := range body {
		body[i] = byte(i)
	}
	copy(body[f.MeasurementOffset:f.MeasurementOffset+f.MeasurementLength], code)
	copy(body[f.PublicKeyOffset:], pubKey)
	return body
}

// Code returns a deterministic 32 byte measurement derived from seed.
func Code(seed byte) []byte {
	code := make([]byte, 32)
	for i := range code {
		code[i] = seed + byte(i)
	}
	return code
}
