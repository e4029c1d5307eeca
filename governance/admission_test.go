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

import (
	"errors"
	"testing"

	"github.com/sworknet/swork/internal/sgx"
	"github.com/sworknet/swork/internal/sgx/sgxtest"
)

func TestAdmissionController_Admit(t *testing.T) {
	al, _, db := newTestAllowlist(t)
	auth := sgxtest.NewAuthority(t)
	ac := NewAdmissionController(al, auth.Verifier(t))
	enclave := sgxtest.NewEnclave(t, testCode)
	account := testOutsider.Bytes()

	if _, err := ac.Admit(db, 10, auth.Attest(t, enclave, account)); !errors.Is(err, ErrEnclaveCodeNotAllowed) {
		t.Fatalf("got %v, want ErrEnclaveCodeNotAllowed", err)
	}
	if err := al.Upgrade(db, testAdmin, testCode, 1000); err != nil {
		t.Fatal(err)
	}

	t.Run("admitted", func(t *testing.T) {
		key, err := ac.Admit(db, 10, auth.Attest(t, enclave, account))
		if err != nil {
			t.Fatalf("Admit failed: %v", err)
		}
		if string(key) != string(enclave.PublicKey()) {
			t.Error("wrong key returned")
		}
	})
	t.Run("expired", func(t *testing.T) {
		_, err := ac.Admit(db, 1000, auth.Attest(t, enclave, account))
		if !errors.Is(err, ErrEnclaveCodeExpired) {
			t.Fatalf("got %v, want ErrEnclaveCodeExpired", err)
		}
	})
	t.Run("bad binding signature", func(t *testing.T) {
		att := auth.Attest(t, enclave, account)
		att.BindingSignature[0] ^= 0xff
		_, err := ac.Admit(db, 10, att)
		if !errors.Is(err, ErrAttestationInvalid) || !errors.Is(err, sgx.ErrBindingSignatureInvalid) {
			t.Fatalf("got %v, want ErrAttestationInvalid", err)
		}
	})
	t.Run("measurement mismatch", func(t *testing.T) {
		other := sgxtest.NewEnclave(t, sgxtest.Code(0x42))
		att := auth.Attest(t, other, account)
		att.ExpectedCode = testCode
		_, err := ac.Admit(db, 10, att)
		if !errors.Is(err, ErrEnclaveMeasurementMismatch) || !errors.Is(err, ErrAttestationInvalid) {
			t.Fatalf("got %v, want ErrEnclaveMeasurementMismatch", err)
		}
	})
	t.Run("malformed document", func(t *testing.T) {
		att := auth.Attest(t, enclave, account)
		att.QuoteDocument = []byte("{")
		att.ServiceSignature = auth.SignDocument(t, att.QuoteDocument)
		_, err := ac.Admit(db, 10, att)
		if !errors.Is(err, ErrMalformedInput) {
			t.Fatalf("got %v, want ErrMalformedInput", err)
		}
	})
}
