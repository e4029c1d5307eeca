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
	"crypto/x509"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultCertCacheSize is the memory budget of a CertCache in bytes.
const DefaultCertCacheSize = 4 * 1024 * 1024

var verifiedMarker = []byte{1}

// CertCache remembers leaf certificates already checked against a root, so
// repeated registrations with the same attestation service certificate skip
// the issuer signature check. It only stores positive results.
type CertCache struct {
	cache *fastcache.Cache
}

// NewCertCache creates a cache bounded to maxBytes.
func NewCertCache(maxBytes int) *CertCache {
	if maxBytes <= 0 {
		maxBytes = DefaultCertCacheSize
	}
	return &CertCache{cache: fastcache.New(maxBytes)}
}

// Verified reports whether leaf was previously verified against root.
func (c *CertCache) Verified(root, leaf *x509.Certificate) bool {
	if c == nil {
		return false
	}
	return c.cache.Has(cacheKey(root, leaf))
}

// MarkVerified records a successful issuer check.
func (c *CertCache) MarkVerified(root, leaf *x509.Certificate) {
	if c == nil {
		return
	}
	c.cache.Set(cacheKey(root, leaf), verifiedMarker)
}

// Reset drops every entry.
func (c *CertCache) Reset() {
	if c != nil {
		c.cache.Reset()
	}
}

func cacheKey(root, leaf *x509.Certificate) []byte {
	return crypto.Keccak256(root.Raw, leaf.Raw)
}
