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
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto/secp256r1"
)

// Enclave keys and signatures are two 32 byte little-endian integers:
// (x, y) for keys and (r, s) for signatures.
const (
	EnclaveKeyLength       = 64
	EnclaveSignatureLength = 64
	coordSize              = 32
)

// P256Verifier verifies enclave signatures in the vendor wire encoding.
type P256Verifier struct{}

// Verify implements SignatureVerifier.
func (P256Verifier) Verify(pubKey, msg, sig []byte) bool {
	return VerifyEnclaveSignature(pubKey, msg, sig)
}

// VerifyEnclaveSignature checks a P-256 ECDSA signature over sha256(msg).
// Both key and signature have each 32 byte half stored little-endian and are
// reversed before the standard big-endian check. Any malformed input yields
// false.
func VerifyEnclaveSignature(pubKey, msg, sig []byte) bool {
	if len(pubKey) != EnclaveKeyLength || len(sig) != EnclaveSignatureLength {
		return false
	}
	x, y := splitReversed(pubKey)
	r, s := splitReversed(sig)
	if r.Sign() == 0 || s.Sign() == 0 {
		return false
	}
	digest := sha256.Sum256(msg)
	return secp256r1.Verify(digest[:], r, s, x, y)
}

// MarshalEnclavePublicKey encodes a P-256 key in the enclave wire form.
func MarshalEnclavePublicKey(pub *ecdsa.PublicKey) []byte {
	out := make([]byte, EnclaveKeyLength)
	putReversed(out[:coordSize], pub.X)
	putReversed(out[coordSize:], pub.Y)
	return out
}

// SignEnclaveMessage signs sha256(msg) and encodes the signature in the
// enclave wire form.
func SignEnclaveMessage(priv *ecdsa.PrivateKey, msg []byte) ([]byte, error) {
	if priv == nil || priv.Curve != elliptic.P256() {
		return nil, errors.New("enclave keys must be P-256")
	}
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, err
	}
	out := make([]byte, EnclaveSignatureLength)
	putReversed(out[:coordSize], r)
	putReversed(out[coordSize:], s)
	return out, nil
}

func splitReversed(b []byte) (*big.Int, *big.Int) {
	return new(big.Int).SetBytes(reversed(b[:coordSize])), new(big.Int).SetBytes(reversed(b[coordSize:]))
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

func putReversed(dst []byte, v *big.Int) {
	be := make([]byte, coordSize)
	v.FillBytes(be)
	copy(dst, reversed(be))
}
