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

// quote-inspect prints the enclave code and public key carried by an
// attestation report document, optionally checking its service signature.
package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sworknet/swork/internal/sgx"
)

func main() {
	if len(os.Args) != 2 && len(os.Args) != 5 {
		fmt.Fprintf(os.Stderr, "Usage: %s <report.json> [<root.pem> <leaf.pem> <signature.b64>]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "\nThis tool decodes an attestation report and prints its enclave measurement and key.\n")
		os.Exit(1)
	}
	doc, err := os.ReadFile(os.Args[1])
	if err != nil {
		fatalf("Error reading report: %v", err)
	}

	format := sgx.IASv3Format(nil)
	quote, err := format.ParseQuoteDocument(doc)
	if err != nil {
		fatalf("Error parsing report: %v", err)
	}
	code, err := format.ExtractMeasurement(quote.Body)
	if err != nil {
		fatalf("Error extracting measurement: %v", err)
	}
	pubKey, err := format.ExtractPublicKey(quote.Body)
	if err != nil {
		fatalf("Error extracting public key: %v", err)
	}
	fmt.Printf("Format:       %s\n", format.Name)
	fmt.Printf("Quote status: %s\n", quote.Status)
	fmt.Printf("Body length:  %d\n", len(quote.Body))
	fmt.Printf("Enclave code: %s\n", hex.EncodeToString(code))
	fmt.Printf("Public key:   %s\n", hex.EncodeToString(pubKey))
	if len(pubKey) != sgx.EnclaveKeyLength {
		fmt.Printf("Warning: public key is %d bytes, registration expects %d\n", len(pubKey), sgx.EnclaveKeyLength)
	}

	if len(os.Args) == 5 {
		checkSignature(doc, os.Args[2], os.Args[3], os.Args[4])
	}
}

func checkSignature(doc []byte, rootPath, leafPath, sigPath string) {
	rootRaw, err := os.ReadFile(rootPath)
	if err != nil {
		fatalf("Error reading root: %v", err)
	}
	root, err := sgx.ParseCertificate(rootRaw)
	if err != nil {
		fatalf("Error parsing root: %v", err)
	}
	leafRaw, err := os.ReadFile(leafPath)
	if err != nil {
		fatalf("Error reading leaf: %v", err)
	}
	sig, err := os.ReadFile(sigPath)
	if err != nil {
		fatalf("Error reading signature: %v", err)
	}
	verifier := sgx.NewRootVerifier(root, nil)
	leaf, err := verifier.VerifyLeaf(leafRaw)
	if err != nil {
		fatalf("✗ Leaf certificate: %v", err)
	}
	if err := verifier.VerifyServiceSignature(leaf, doc, bytes.TrimSpace(sig)); err != nil {
		fatalf("✗ Service signature: %v", err)
	}
	fmt.Printf("✓ Signed by %s, issued by %s\n", leaf.Subject.CommonName, root.Subject.CommonName)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
