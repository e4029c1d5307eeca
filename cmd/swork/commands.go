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

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sworknet/swork/core/rawdb"
	"github.com/sworknet/swork/genesis"
	"github.com/sworknet/swork/internal/config"
	"github.com/sworknet/swork/internal/sgx"
	"github.com/sworknet/swork/storage"
	"github.com/sworknet/swork/swork"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var initCommand = &cli.Command{
	Name:      "init",
	Usage:     "Initialize the database from a genesis file",
	ArgsUsage: "<genesisPath>",
	Flags:     []cli.Flag{genesisFlag},
	Action:    initGenesis,
}

var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "Run the swork node",
	Flags:  []cli.Flag{httpAddrFlag, httpAllowRemoteFlag, attestationRootFlag, genesisFlag},
	Action: runNode,
}

func initGenesis(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	path := cfg.Node.Genesis
	if ctx.NArg() > 0 {
		path = ctx.Args().First()
	}
	if path == "" {
		return errors.New("genesis file required")
	}
	g, err := genesis.LoadGenesis(path)
	if err != nil {
		return err
	}
	db, err := storage.Open(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	hash, err := genesis.ApplyGenesis(db, g)
	if err != nil {
		return err
	}
	log.Info("Successfully wrote genesis state", "hash", hash)
	return nil
}

func runNode(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	db, err := storage.Open(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ensureGenesis(db, cfg); err != nil {
		return err
	}
	format, err := cfg.AttestationFormat()
	if err != nil {
		return err
	}
	verifier, err := sgx.NewCachedAttestationVerifier(format, cfg.Attestation.CertCacheSize)
	if err != nil {
		return err
	}
	module, err := swork.New(&cfg.Swork, db, verifier, verifier.Signatures())
	if err != nil {
		return err
	}
	defer module.Close()

	srv := rpc.NewServer()
	defer srv.Stop()
	for _, api := range swork.APIs(module) {
		if err := srv.RegisterName(api.Namespace, api.Service); err != nil {
			return err
		}
	}

	sigctx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(sigctx, cfg.RPC.HTTPAddr, srv, module)
}

// ensureGenesis applies the configured genesis to an empty database and
// refuses to start on an uninitialized one.
func ensureGenesis(db ethdb.KeyValueStore, cfg *config.Config) error {
	if cfg.Node.Genesis != "" {
		g, err := genesis.LoadGenesis(cfg.Node.Genesis)
		if err != nil {
			return err
		}
		_, err = genesis.ApplyGenesis(db, g)
		return err
	}
	if _, ok := rawdb.ReadGenesisHash(db); !ok {
		return errors.New("database not initialized, run swork init first")
	}
	return nil
}

// serve runs the HTTP endpoint and the receipt logger until ctx ends.
func serve(ctx context.Context, addr string, handler http.Handler, module *swork.Module) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	httpSrv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	log.Info("HTTP server started", "endpoint", listener.Addr())

	receipts := make(chan *swork.Receipt, 64)
	sub := module.SubscribeReceipts(receipts)
	defer sub.Unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("HTTP server stopping", "endpoint", listener.Addr())
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		for {
			select {
			case r := <-receipts:
				log.Debug("Committed call", "method", r.Method, "origin", r.Origin, "number", r.BlockNumber, "events", len(r.Events))
			case err := <-sub.Err():
				return err
			case <-gctx.Done():
				return nil
			}
		}
	})
	return g.Wait()
}
