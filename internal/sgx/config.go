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
	"fmt"
	"os"
)

// Field names of the attestation service report.
const (
	DefaultQuoteBodyField = "isvEnclaveQuoteBody"
	DefaultStatusField    = "isvEnclaveQuoteStatus"
)

// Format is one version of the attestation wire contract: the pinned root
// certificate plus the fixed windows into the decoded quote body. Verification
// code never hardcodes offsets; it reads them from here.
type Format struct {
	Name string

	// RootCert is the pinned issuer of every accepted leaf certificate,
	// as PEM, base64 DER or raw DER.
	RootCert []byte

	QuoteBodyField string
	StatusField    string

	MeasurementOffset int
	MeasurementLength int
	PublicKeyOffset   int // key runs to the end of the body

	// AcceptedStatuses limits the quote status values. Empty accepts any.
	AcceptedStatuses []string
}

// IASv3Format returns the EPID attestation report layout. The measurement
// (MRENCLAVE) sits at 112..144 of the quote body and the enclave report data,
// which carries the enclave public key, starts at 368.
func IASv3Format(root []byte) *Format {
	return &Format{
		Name:              "ias-v3",
		RootCert:          root,
		QuoteBodyField:    DefaultQuoteBodyField,
		StatusField:       DefaultStatusField,
		MeasurementOffset: 112,
		MeasurementLength: 32,
		PublicKeyOffset:   368,
	}
}

// LoadFormat builds the default format with the root certificate read from
// the given file.
func LoadFormat(rootPath string) (*Format, error) {
	root, err := os.ReadFile(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read root certificate: %w", err)
	}
	f := IASv3Format(root)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the table for internally consistent values.
func (f *Format) Validate() error {
	if len(f.RootCert) == 0 {
		return ErrNoRootCert
	}
	if f.QuoteBodyField == "" {
		return fmt.Errorf("%w: empty quote body field", ErrInvalidFormat)
	}
	if f.MeasurementOffset < 0 || f.MeasurementLength <= 0 {
		return fmt.Errorf("%w: bad measurement window %d+%d", ErrInvalidFormat, f.MeasurementOffset, f.MeasurementLength)
	}
	if f.PublicKeyOffset < 0 {
		return fmt.Errorf("%w: bad public key offset %d", ErrInvalidFormat, f.PublicKeyOffset)
	}
	if _, err := ParseCertificate(f.RootCert); err != nil {
		return fmt.Errorf("%w: root certificate: %v", ErrInvalidFormat, err)
	}
	return nil
}

func (f *Format) statusAccepted(status string) bool {
	if len(f.AcceptedStatuses) == 0 {
		return true
	}
	for _, s := range f.AcceptedStatuses {
		if s == status {
			return true
		}
	}
	return false
}
