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
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// QuoteDocument is the attestation service statement about an enclave.
type QuoteDocument struct {
	Body   []byte // decoded binary quote body
	Status string
}

// ParseQuoteDocument decodes the JSON report and its base64 quote body.
func (f *Format) ParseQuoteDocument(doc []byte) (*QuoteDocument, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, fmt.Errorf("%w: quote document: %v", ErrMalformedInput, err)
	}
	raw, ok := fields[f.QuoteBodyField]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedInput, f.QuoteBodyField)
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("%w: %s is not a string", ErrMalformedInput, f.QuoteBodyField)
	}
	body, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: quote body: %v", ErrMalformedInput, err)
	}
	q := &QuoteDocument{Body: body}
	if f.StatusField != "" {
		if raw, ok := fields[f.StatusField]; ok {
			// A non-string status is treated as absent.
			_ = json.Unmarshal(raw, &q.Status)
		}
	}
	return q, nil
}

// ExtractMeasurement returns the enclave code window of a quote body.
func (f *Format) ExtractMeasurement(body []byte) ([]byte, error) {
	end := f.MeasurementOffset + f.MeasurementLength
	if f.MeasurementOffset < 0 || end > len(body) {
		return nil, fmt.Errorf("%w: quote body too short for measurement (%d bytes)", ErrMalformedInput, len(body))
	}
	return body[f.MeasurementOffset:end], nil
}

// ExtractPublicKey returns the enclave public key, from the key offset to the
// end of the quote body.
func (f *Format) ExtractPublicKey(body []byte) ([]byte, error) {
	if f.PublicKeyOffset < 0 || f.PublicKeyOffset >= len(body) {
		return nil, fmt.Errorf("%w: quote body too short for public key (%d bytes)", ErrMalformedInput, len(body))
	}
	key := make([]byte, len(body)-f.PublicKeyOffset)
	copy(key, body[f.PublicKeyOffset:])
	return key, nil
}
