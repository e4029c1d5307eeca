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

package swork

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sworknet/swork/core/rawdb"
	"github.com/sworknet/swork/core/types"
	"github.com/sworknet/swork/internal/sgx"
)

// RegisterRequest carries an attestation for account.
type RegisterRequest struct {
	ServiceSignature []byte // attestation service signature over QuoteDocument
	LeafCert         []byte // attestation service certificate
	Account          common.Address
	QuoteDocument    []byte
	BindingSignature []byte
	Code             []byte // claimed enclave code
}

// VouchRequest registers account with an enclave key vouched for by an
// already registered identity.
type VouchRequest struct {
	Account   common.Address
	PublicKey []byte
	Voucher   common.Address
	Signature []byte // voucher enclave signature over VouchMessage
}

// VouchMessage is the payload a voucher signs:
//
//	applicant_pk ∥ applicant_account ∥ voucher_pk ∥ voucher_account
func VouchMessage(applicantKey []byte, applicant common.Address, voucherKey []byte, voucher common.Address) []byte {
	msg := make([]byte, 0, len(applicantKey)+len(voucherKey)+2*common.AddressLength)
	msg = append(msg, applicantKey...)
	msg = append(msg, applicant.Bytes()...)
	msg = append(msg, voucherKey...)
	return append(msg, voucher.Bytes()...)
}

// Register binds the caller's account to the enclave key certified by the
// attestation. Re-registration overwrites the identity, typically with a
// newer enclave code.
func (m *Module) Register(call Call, req *RegisterRequest) (*Receipt, error) {
	return m.execute("register", call, func(st *rawdb.Overlay, r *Receipt) error {
		if req == nil {
			return ErrMalformedInput
		}
		if call.Origin != req.Account {
			return ErrIllegalApplier
		}
		att := &sgx.Attestation{
			ServiceSignature: req.ServiceSignature,
			LeafCert:         req.LeafCert,
			AccountID:        req.Account.Bytes(),
			QuoteDocument:    req.QuoteDocument,
			BindingSignature: req.BindingSignature,
			ExpectedCode:     req.Code,
		}
		pubKey, err := m.admission.Admit(st, call.BlockNumber, att)
		if err != nil {
			return err
		}
		id := &types.Identity{
			PublicKey: pubKey,
			Account:   req.Account,
			Signature: common.CopyBytes(req.BindingSignature),
			Code:      common.CopyBytes(req.Code),
		}
		if err := m.storeIdentity(st, id); err != nil {
			return err
		}
		r.emit(&IdentityRegistered{Account: id.Account, Identity: id.Copy()})
		m.log.Info("Identity registered", "account", id.Account, "code", common.Bytes2Hex(id.Code))
		return nil
	})
}

// RegisterVouched binds the caller's account to an enclave key vouched for
// by a registered identity whose code is still allowlisted. The new identity
// inherits the voucher's code.
func (m *Module) RegisterVouched(call Call, req *VouchRequest) (*Receipt, error) {
	return m.execute("registerVouched", call, func(st *rawdb.Overlay, r *Receipt) error {
		if req == nil || len(req.PublicKey) != sgx.EnclaveKeyLength {
			return ErrMalformedInput
		}
		if call.Origin != req.Account {
			return ErrIllegalApplier
		}
		if req.Voucher == req.Account {
			return ErrSelfVouching
		}
		voucher, err := rawdb.ReadIdentity(st, req.Voucher)
		if err != nil {
			return err
		}
		if voucher == nil {
			return fmt.Errorf("%w: voucher %s", ErrIdentityNotFound, req.Voucher)
		}
		if err := m.allowlist.Check(st, voucher.Code, call.BlockNumber); err != nil {
			return err
		}
		msg := VouchMessage(req.PublicKey, req.Account, voucher.PublicKey, voucher.Account)
		if !m.sigs.Verify(voucher.PublicKey, msg, req.Signature) {
			return fmt.Errorf("%w: vouching signature", ErrBadSignature)
		}
		id := &types.Identity{
			PublicKey:         common.CopyBytes(req.PublicKey),
			Account:           req.Account,
			VouchingPublicKey: common.CopyBytes(voucher.PublicKey),
			VouchingAccount:   voucher.Account,
			Signature:         common.CopyBytes(req.Signature),
			Code:              common.CopyBytes(voucher.Code),
		}
		if err := m.storeIdentity(st, id); err != nil {
			return err
		}
		r.emit(&IdentityRegistered{Account: id.Account, Identity: id.Copy()})
		m.log.Info("Identity registered by vouching", "account", id.Account, "voucher", voucher.Account)
		return nil
	})
}

// storeIdentity writes id and keeps the public key owner index unique.
func (m *Module) storeIdentity(st *rawdb.Overlay, id *types.Identity) error {
	if owner, ok := rawdb.ReadKeyOwner(st, id.PublicKey); ok && owner != id.Account {
		return fmt.Errorf("%w: owned by %s", ErrDuplicatePublicKey, owner)
	}
	prev, err := rawdb.ReadIdentity(st, id.Account)
	if err != nil {
		return err
	}
	if prev != nil && !bytes.Equal(prev.PublicKey, id.PublicKey) {
		if err := rawdb.DeleteKeyOwner(st, prev.PublicKey); err != nil {
			return err
		}
	}
	if err := rawdb.WriteIdentity(st, id); err != nil {
		return err
	}
	return rawdb.WriteKeyOwner(st, id.PublicKey, id.Account)
}

// Upgrade allowlists an enclave code until expiry. Privileged.
func (m *Module) Upgrade(call Call, code []byte, expiry uint64) (*Receipt, error) {
	return m.execute("upgrade", call, func(st *rawdb.Overlay, r *Receipt) error {
		if err := m.allowlist.Upgrade(st, call.Origin, code, expiry); err != nil {
			return err
		}
		r.emit(&CodeAllowlisted{Code: common.CopyBytes(code), Expiry: expiry})
		return nil
	})
}
