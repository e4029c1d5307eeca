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

package sgx_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/sworknet/swork/internal/sgx"
	"github.com/sworknet/swork/internal/sgx/sgxtest"
)

var testAccount = bytes.Repeat([]byte{0xaa}, 20)

func TestVerifyAttestationRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		auth func(testing.TB) *sgxtest.Authority
	}{
		{"ecdsa leaf", sgxtest.NewAuthority},
		{"rsa leaf", sgxtest.NewRSAAuthority},
	} {
		t.Run(tc.name, func(t *testing.T) {
			auth := tc.auth(t)
			enclave := sgxtest.NewEnclave(t, sgxtest.Code(1))
			att := auth.Attest(t, enclave, testAccount)

			key, err := auth.Verifier(t).VerifyAttestation(att)
			if err != nil {
				t.Fatalf("VerifyAttestation failed: %v", err)
			}
			if !bytes.Equal(key, enclave.PublicKey()) {
				t.Errorf("extracted key %x, want %x", key, enclave.PublicKey())
			}
		})
	}
}

func TestVerifyAttestationTamperRejection(t *testing.T) {
	auth := sgxtest.NewAuthority(t)
	verifier := auth.Verifier(t)
	enclave := sgxtest.NewEnclave(t, sgxtest.Code(7))
	att := auth.Attest(t, enclave, testAccount)

	fields := map[string]func(a *sgx.Attestation) []byte{
		"quote document":    func(a *sgx.Attestation) []byte { return a.QuoteDocument },
		"service signature": func(a *sgx.Attestation) []byte { return a.ServiceSignature },
		"binding signature": func(a *sgx.Attestation) []byte { return a.BindingSignature },
		"expected code":     func(a *sgx.Attestation) []byte { return a.ExpectedCode },
		"account":           func(a *sgx.Attestation) []byte { return a.AccountID },
		"leaf certificate":  func(a *sgx.Attestation) []byte { return a.LeafCert },
	}
	for name, field := range fields {
		t.Run(name, func(t *testing.T) {
			n := len(field(att))
			for i := 0; i < n; i++ {
				tampered := cloneAttestation(att)
				field(tampered)[i] ^= 0x01
				if _, ok := verifier.ExtractPublicKey(tampered); ok {
					t.Fatalf("flipping byte %d accepted", i)
				}
			}
		})
	}
}

func TestVerifyAttestationFailureReasons(t *testing.T) {
	auth := sgxtest.NewAuthority(t)
	verifier := auth.Verifier(t)
	format := auth.Format()
	enclave := sgxtest.NewEnclave(t, sgxtest.Code(3))

	t.Run("foreign root", func(t *testing.T) {
		other := sgxtest.NewAuthority(t)
		att := other.Attest(t, enclave, testAccount)
		_, err := verifier.VerifyAttestation(att)
		if !errors.Is(err, sgx.ErrCertificateInvalid) {
			t.Errorf("got %v, want ErrCertificateInvalid", err)
		}
	})
	t.Run("measurement mismatch", func(t *testing.T) {
		att := auth.Attest(t, enclave, testAccount)
		att.ExpectedCode = sgxtest.Code(4)
		_, err := verifier.VerifyAttestation(att)
		if !errors.Is(err, sgx.ErrMeasurementMismatch) {
			t.Errorf("got %v, want ErrMeasurementMismatch", err)
		}
	})
	t.Run("short expected code", func(t *testing.T) {
		att := auth.Attest(t, enclave, testAccount)
		att.ExpectedCode = att.ExpectedCode[:31]
		_, err := verifier.VerifyAttestation(att)
		if !errors.Is(err, sgx.ErrMeasurementMismatch) {
			t.Errorf("got %v, want ErrMeasurementMismatch", err)
		}
	})
	t.Run("truncated quote body", func(t *testing.T) {
		doc := auth.QuoteDocument(t, make([]byte, 100))
		att := &sgx.Attestation{
			ServiceSignature: auth.SignDocument(t, doc),
			LeafCert:         auth.LeafB64,
			AccountID:        testAccount,
			QuoteDocument:    doc,
			ExpectedCode:     enclave.Code,
		}
		_, err := verifier.VerifyAttestation(att)
		if !errors.Is(err, sgx.ErrMalformedInput) {
			t.Errorf("got %v, want ErrMalformedInput", err)
		}
	})
	t.Run("body without public key", func(t *testing.T) {
		body := sgxtest.QuoteBody(format, enclave.Code, nil)
		doc := auth.QuoteDocument(t, body)
		att := &sgx.Attestation{
			ServiceSignature: auth.SignDocument(t, doc),
			LeafCert:         auth.LeafB64,
			AccountID:        testAccount,
			QuoteDocument:    doc,
			ExpectedCode:     enclave.Code,
		}
		_, err := verifier.VerifyAttestation(att)
		if !errors.Is(err, sgx.ErrMalformedInput) {
			t.Errorf("got %v, want ErrMalformedInput", err)
		}
	})
	t.Run("non-json document", func(t *testing.T) {
		doc := []byte("not json")
		att := &sgx.Attestation{
			ServiceSignature: auth.SignDocument(t, doc),
			LeafCert:         auth.LeafB64,
			QuoteDocument:    doc,
		}
		_, err := verifier.VerifyAttestation(att)
		if !errors.Is(err, sgx.ErrMalformedInput) {
			t.Errorf("got %v, want ErrMalformedInput", err)
		}
	})
	t.Run("bad base64 body", func(t *testing.T) {
		doc := []byte(`{"isvEnclaveQuoteBody":"***"}`)
		att := &sgx.Attestation{
			ServiceSignature: auth.SignDocument(t, doc),
			LeafCert:         auth.LeafB64,
			QuoteDocument:    doc,
		}
		_, err := verifier.VerifyAttestation(att)
		if !errors.Is(err, sgx.ErrMalformedInput) {
			t.Errorf("got %v, want ErrMalformedInput", err)
		}
	})
	t.Run("binding over another account", func(t *testing.T) {
		att := auth.Attest(t, enclave, testAccount)
		att.AccountID = bytes.Repeat([]byte{0xbb}, 20)
		_, err := verifier.VerifyAttestation(att)
		if !errors.Is(err, sgx.ErrBindingSignatureInvalid) {
			t.Errorf("got %v, want ErrBindingSignatureInvalid", err)
		}
	})
	t.Run("garbage everywhere", func(t *testing.T) {
		att := &sgx.Attestation{
			ServiceSignature: []byte{0xff},
			LeafCert:         []byte{0x00, 0x01},
			QuoteDocument:    []byte{0x7b},
			BindingSignature: []byte{},
		}
		if _, ok := verifier.ExtractPublicKey(att); ok {
			t.Error("garbage accepted")
		}
		if _, ok := verifier.ExtractPublicKey(nil); ok {
			t.Error("nil attestation accepted")
		}
	})
}

func TestVerifyAttestationAcceptedStatuses(t *testing.T) {
	auth := sgxtest.NewAuthority(t)
	auth.Status = "GROUP_OUT_OF_DATE"
	enclave := sgxtest.NewEnclave(t, sgxtest.Code(9))
	att := auth.Attest(t, enclave, testAccount)

	format := auth.Format()
	format.AcceptedStatuses = []string{"OK"}
	verifier, err := sgx.NewAttestationVerifier(format)
	if err != nil {
		t.Fatalf("NewAttestationVerifier failed: %v", err)
	}
	if _, err := verifier.VerifyAttestation(att); !errors.Is(err, sgx.ErrStatusNotAccepted) {
		t.Errorf("got %v, want ErrStatusNotAccepted", err)
	}

	format.AcceptedStatuses = append(format.AcceptedStatuses, "GROUP_OUT_OF_DATE")
	if _, err := verifier.VerifyAttestation(att); err != nil {
		t.Errorf("accepted status rejected: %v", err)
	}
}

func TestVerifyAttestationVouchingKey(t *testing.T) {
	auth := sgxtest.NewAuthority(t)
	enclave := sgxtest.NewEnclave(t, sgxtest.Code(5))
	att := auth.Attest(t, enclave, testAccount)
	att.VouchingPublicKey = bytes.Repeat([]byte{0x11}, 64)

	verifier := auth.Verifier(t)
	if _, ok := verifier.ExtractPublicKey(att); ok {
		t.Fatal("signature without vouching key accepted with one")
	}
	att.BindingSignature = enclave.Sign(t, att.BindingMessage())
	if _, ok := verifier.ExtractPublicKey(att); !ok {
		t.Fatal("signature over vouching key rejected")
	}
}

func TestParseCertificateEncodings(t *testing.T) {
	auth := sgxtest.NewAuthority(t)
	der, err := base64.StdEncoding.DecodeString(string(auth.LeafB64))
	if err != nil {
		t.Fatalf("decode leaf: %v", err)
	}
	for name, input := range map[string][]byte{
		"pem":    auth.RootPEM,
		"base64": auth.LeafB64,
		"der":    der,
	} {
		if _, err := sgx.ParseCertificate(input); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := sgx.ParseCertificate(nil); err == nil {
		t.Error("empty input accepted")
	}
}

func TestCertCacheSkipsRepeatedChecks(t *testing.T) {
	auth := sgxtest.NewAuthority(t)
	cache := sgx.NewCertCache(0)
	verifier := sgx.NewRootVerifier(auth.Root, cache)

	if cache.Verified(auth.Root, auth.Leaf) {
		t.Fatal("empty cache reports a hit")
	}
	if _, err := verifier.VerifyLeaf(auth.LeafB64); err != nil {
		t.Fatalf("VerifyLeaf failed: %v", err)
	}
	if !cache.Verified(auth.Root, auth.Leaf) {
		t.Error("verified leaf not cached")
	}
	cache.Reset()
	if cache.Verified(auth.Root, auth.Leaf) {
		t.Error("cache not reset")
	}

	other := sgxtest.NewAuthority(t)
	if _, err := verifier.VerifyLeaf(other.LeafB64); err == nil {
		t.Error("foreign leaf accepted")
	}
	if cache.Verified(auth.Root, other.Leaf) {
		t.Error("rejected leaf cached")
	}
}

func TestFormatValidate(t *testing.T) {
	auth := sgxtest.NewAuthority(t)
	if err := auth.Format().Validate(); err != nil {
		t.Fatalf("default format invalid: %v", err)
	}
	if err := sgx.IASv3Format(nil).Validate(); !errors.Is(err, sgx.ErrNoRootCert) {
		t.Errorf("got %v, want ErrNoRootCert", err)
	}
	bad := auth.Format()
	bad.MeasurementLength = 0
	if err := bad.Validate(); !errors.Is(err, sgx.ErrInvalidFormat) {
		t.Errorf("got %v, want ErrInvalidFormat", err)
	}
	bad = auth.Format()
	bad.RootCert = []byte("not a certificate")
	if err := bad.Validate(); !errors.Is(err, sgx.ErrInvalidFormat) {
		t.Errorf("got %v, want ErrInvalidFormat", err)
	}
}

func cloneAttestation(a *sgx.Attestation) *sgx.Attestation {
	return &sgx.Attestation{
		ServiceSignature:  bytes.Clone(a.ServiceSignature),
		LeafCert:          bytes.Clone(a.LeafCert),
		AccountID:         bytes.Clone(a.AccountID),
		QuoteDocument:     bytes.Clone(a.QuoteDocument),
		BindingSignature:  bytes.Clone(a.BindingSignature),
		ExpectedCode:      bytes.Clone(a.ExpectedCode),
		VouchingPublicKey: bytes.Clone(a.VouchingPublicKey),
	}
}
