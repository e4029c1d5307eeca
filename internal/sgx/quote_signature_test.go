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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	"testing"
)

func TestVerifyEnclaveSignature(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	pub := MarshalEnclavePublicKey(&key.PublicKey)
	msg := []byte("work report payload")
	sig, err := SignEnclaveMessage(key, msg)
	if err != nil {
		t.Fatalf("SignEnclaveMessage failed: %v", err)
	}
	if !VerifyEnclaveSignature(pub, msg, sig) {
		t.Fatal("valid signature rejected")
	}
	if VerifyEnclaveSignature(pub, []byte("other payload"), sig) {
		t.Error("signature accepted for a different message")
	}
}

func TestEnclaveEncodingIsReversedHalves(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	pub := MarshalEnclavePublicKey(&key.PublicKey)

	x := make([]byte, 32)
	key.PublicKey.X.FillBytes(x)
	for i := 0; i < 32; i++ {
		if pub[i] != x[31-i] {
			t.Fatalf("x byte %d not reversed", i)
		}
	}

	// The plain big-endian encoding of the same signature must not verify.
	msg := []byte("endianness")
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, key, digest[:])
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	bigEndian := make([]byte, 64)
	r.FillBytes(bigEndian[:32])
	s.FillBytes(bigEndian[32:])
	if VerifyEnclaveSignature(pub, msg, bigEndian) {
		t.Error("big-endian signature accepted")
	}
	wire := make([]byte, 64)
	putReversed(wire[:32], r)
	putReversed(wire[32:], s)
	if !VerifyEnclaveSignature(pub, msg, wire) {
		t.Error("reversed signature rejected")
	}
}

func TestVerifyEnclaveSignatureMalformed(t *testing.T) {
	key, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	pub := MarshalEnclavePublicKey(&key.PublicKey)
	msg := []byte("msg")
	sig, _ := SignEnclaveMessage(key, msg)

	offCurve := make([]byte, 64)
	offCurve[0] = 1

	maxed := make([]byte, 64)
	for i := range maxed {
		maxed[i] = 0xff
	}

	tests := []struct {
		name string
		pub  []byte
		sig  []byte
	}{
		{"nil key", nil, sig},
		{"nil signature", pub, nil},
		{"short key", pub[:63], sig},
		{"long key", append(append([]byte{}, pub...), 0), sig},
		{"short signature", pub, sig[:10]},
		{"zero key", make([]byte, 64), sig},
		{"off-curve key", offCurve, sig},
		{"zero signature", pub, make([]byte, 64)},
		{"oversized scalars", pub, maxed},
		{"oversized coordinates", maxed, sig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifyEnclaveSignature(tt.pub, msg, tt.sig) {
				t.Error("malformed input accepted")
			}
		})
	}
}

func TestSignEnclaveMessageRejectsOtherCurves(t *testing.T) {
	key, _ := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if _, err := SignEnclaveMessage(key, []byte("x")); err == nil {
		t.Error("expected error for P-384 key")
	}
}

func TestPutReversedPadsShortValues(t *testing.T) {
	out := make([]byte, 32)
	putReversed(out, big.NewInt(0x0102))
	if out[0] != 0x02 || out[1] != 0x01 {
		t.Errorf("unexpected encoding %x", out[:4])
	}
	for _, b := range out[2:] {
		if b != 0 {
			t.Fatalf("expected zero padding, got %x", out)
		}
	}
}

func TestConstantTimeCompare(t *testing.T) {
	if !ConstantTimeCompare([]byte{1, 2}, []byte{1, 2}) {
		t.Error("equal slices compared unequal")
	}
	if ConstantTimeCompare([]byte{1, 2}, []byte{1, 3}) {
		t.Error("different slices compared equal")
	}
	if ConstantTimeCompare([]byte{1, 2}, []byte{1, 2, 3}) {
		t.Error("different lengths compared equal")
	}
}
