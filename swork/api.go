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
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sworknet/swork/core/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/sworknet/swork/swork")

// API exposes the module under the swork_ JSON-RPC namespace. Calls carry
// their origin and block number explicitly; the host is trusted to supply
// them.
type API struct {
	module *Module
}

// NewAPI creates the RPC API of m.
func NewAPI(m *Module) *API {
	return &API{module: m}
}

// APIs returns the RPC descriptors of the module.
func APIs(m *Module) []rpc.API {
	return []rpc.API{{
		Namespace: "swork",
		Service:   NewAPI(m),
	}}
}

// RPCCall is the transaction context of an RPC state transition.
type RPCCall struct {
	Origin      common.Address `json:"origin"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
}

func (c RPCCall) call() Call {
	return Call{Origin: c.Origin, BlockNumber: uint64(c.BlockNumber)}
}

// RPCRegisterArgs are the arguments of swork_register.
type RPCRegisterArgs struct {
	ServiceSignature hexutil.Bytes  `json:"serviceSignature"`
	LeafCert         hexutil.Bytes  `json:"leafCert"`
	Account          common.Address `json:"account"`
	QuoteDocument    hexutil.Bytes  `json:"quoteDocument"`
	BindingSignature hexutil.Bytes  `json:"bindingSignature"`
	Code             hexutil.Bytes  `json:"code"`
}

// RPCVouchArgs are the arguments of swork_registerVouched.
type RPCVouchArgs struct {
	Account   common.Address `json:"account"`
	PublicKey hexutil.Bytes  `json:"publicKey"`
	Voucher   common.Address `json:"voucher"`
	Signature hexutil.Bytes  `json:"signature"`
}

// RPCFileInfo is one reported file.
type RPCFileInfo struct {
	Hash hexutil.Bytes  `json:"hash"`
	Size hexutil.Uint64 `json:"size"`
}

// RPCWorkReport is a work report on the wire.
type RPCWorkReport struct {
	PublicKey   hexutil.Bytes  `json:"publicKey"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
	BlockHash   common.Hash    `json:"blockHash"`
	Reserved    hexutil.Uint64 `json:"reserved"`
	Used        hexutil.Uint64 `json:"used"`
	Files       []RPCFileInfo  `json:"files"`
	Signature   hexutil.Bytes  `json:"signature"`
}

// RPCIdentity is an identity on the wire.
type RPCIdentity struct {
	PublicKey         hexutil.Bytes   `json:"publicKey"`
	Account           common.Address  `json:"account"`
	VouchingPublicKey hexutil.Bytes   `json:"vouchingPublicKey,omitempty"`
	VouchingAccount   *common.Address `json:"vouchingAccount,omitempty"`
	Signature         hexutil.Bytes   `json:"signature"`
	Code              hexutil.Bytes   `json:"code"`
}

// RPCWorkload is the workload totals on the wire.
type RPCWorkload struct {
	Reserved *hexutil.U256 `json:"reserved"`
	Used     *hexutil.U256 `json:"used"`
}

// RPCReceipt summarizes a committed call.
type RPCReceipt struct {
	Method      string         `json:"method"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
	Events      []string       `json:"events"`
}

func newRPCReceipt(r *Receipt) *RPCReceipt {
	out := &RPCReceipt{Method: r.Method, BlockNumber: hexutil.Uint64(r.BlockNumber), Events: []string{}}
	for _, ev := range r.Events {
		out.Events = append(out.Events, ev.EventName())
	}
	return out
}

func newRPCWorkReport(r *types.WorkReport) *RPCWorkReport {
	out := &RPCWorkReport{
		PublicKey:   r.PublicKey,
		BlockNumber: hexutil.Uint64(r.BlockNumber),
		BlockHash:   r.BlockHash,
		Reserved:    hexutil.Uint64(r.Reserved),
		Used:        hexutil.Uint64(r.Used),
		Files:       make([]RPCFileInfo, len(r.Files)),
		Signature:   r.Signature,
	}
	for i, f := range r.Files {
		out.Files[i] = RPCFileInfo{Hash: f.Hash, Size: hexutil.Uint64(f.Size)}
	}
	return out
}

func (r *RPCWorkReport) request() *WorkReportRequest {
	req := &WorkReportRequest{
		PublicKey:   r.PublicKey,
		BlockNumber: uint64(r.BlockNumber),
		BlockHash:   r.BlockHash,
		Reserved:    uint64(r.Reserved),
		Used:        uint64(r.Used),
		Files:       make([]types.FileInfo, len(r.Files)),
		Signature:   r.Signature,
	}
	for i, f := range r.Files {
		req.Files[i] = types.FileInfo{Hash: f.Hash, Size: uint64(f.Size)}
	}
	return req
}

// traced runs fn inside a span named after the RPC method.
func traced(ctx context.Context, method string, call RPCCall, fn func() (*Receipt, error)) (*RPCReceipt, error) {
	_, span := tracer.Start(ctx, "swork."+method, trace.WithAttributes(
		attribute.String("origin", call.Origin.Hex()),
		attribute.Int64("block", int64(call.BlockNumber)),
	))
	defer span.End()

	receipt, err := fn()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("events", len(receipt.Events)))
	return newRPCReceipt(receipt), nil
}

// Register binds an account to an attested enclave key.
func (api *API) Register(ctx context.Context, call RPCCall, args RPCRegisterArgs) (*RPCReceipt, error) {
	return traced(ctx, "register", call, func() (*Receipt, error) {
		return api.module.Register(call.call(), &RegisterRequest{
			ServiceSignature: args.ServiceSignature,
			LeafCert:         args.LeafCert,
			Account:          args.Account,
			QuoteDocument:    args.QuoteDocument,
			BindingSignature: args.BindingSignature,
			Code:             args.Code,
		})
	})
}

// RegisterVouched binds an account to an enclave key vouched for by a peer.
func (api *API) RegisterVouched(ctx context.Context, call RPCCall, args RPCVouchArgs) (*RPCReceipt, error) {
	return traced(ctx, "registerVouched", call, func() (*Receipt, error) {
		return api.module.RegisterVouched(call.call(), &VouchRequest{
			Account:   args.Account,
			PublicKey: args.PublicKey,
			Voucher:   args.Voucher,
			Signature: args.Signature,
		})
	})
}

// ReportWorks submits a work report of the calling account.
func (api *API) ReportWorks(ctx context.Context, call RPCCall, report RPCWorkReport) (*RPCReceipt, error) {
	return traced(ctx, "reportWorks", call, func() (*Receipt, error) {
		return api.module.ReportWorks(call.call(), report.request())
	})
}

// Upgrade allowlists an enclave code until expiry.
func (api *API) Upgrade(ctx context.Context, call RPCCall, code hexutil.Bytes, expiry hexutil.Uint64) (*RPCReceipt, error) {
	return traced(ctx, "upgrade", call, func() (*Receipt, error) {
		return api.module.Upgrade(call.call(), code, uint64(expiry))
	})
}

// ImportBlock records a block hash and runs a pending slot transition.
func (api *API) ImportBlock(ctx context.Context, number hexutil.Uint64, hash common.Hash) (*RPCReceipt, error) {
	return traced(ctx, "importBlock", RPCCall{BlockNumber: number}, func() (*Receipt, error) {
		return api.module.ImportBlock(uint64(number), hash)
	})
}

// Identity returns the identity of account, null if unregistered.
func (api *API) Identity(account common.Address) (*RPCIdentity, error) {
	id, err := api.module.Identity(account)
	if err != nil || id == nil {
		return nil, err
	}
	out := &RPCIdentity{
		PublicKey: id.PublicKey,
		Account:   id.Account,
		Signature: id.Signature,
		Code:      id.Code,
	}
	if id.Vouched() {
		voucher := id.VouchingAccount
		out.VouchingPublicKey = id.VouchingPublicKey
		out.VouchingAccount = &voucher
	}
	return out, nil
}

// WorkReport returns the live report of account, null if absent.
func (api *API) WorkReport(account common.Address) (*RPCWorkReport, error) {
	report, err := api.module.WorkReport(account)
	if err != nil || report == nil {
		return nil, err
	}
	return newRPCWorkReport(report), nil
}

// Workload returns the workload totals.
func (api *API) Workload() (*RPCWorkload, error) {
	w, err := api.module.Workload()
	if err != nil {
		return nil, err
	}
	return &RPCWorkload{Reserved: (*hexutil.U256)(w.Reserved), Used: (*hexutil.U256)(w.Used)}, nil
}

// CodeExpiry returns the expiry block of an allowlisted code, null if the
// code is not allowlisted.
func (api *API) CodeExpiry(code hexutil.Bytes) *hexutil.Uint64 {
	expiry, ok := api.module.CodeExpiry(code)
	if !ok {
		return nil
	}
	e := hexutil.Uint64(expiry)
	return &e
}
