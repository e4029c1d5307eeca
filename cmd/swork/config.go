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
	"fmt"
	"os"

	"github.com/sworknet/swork/internal/config"
	"github.com/sworknet/swork/storage"
	"github.com/urfave/cli/v2"
)

var dumpConfigCommand = &cli.Command{
	Name:      "dumpconfig",
	Usage:     "Export configuration values in a TOML format",
	ArgsUsage: "<dumpfile (optional)>",
	Flags:     []cli.Flag{httpAddrFlag, httpAllowRemoteFlag, attestationRootFlag, genesisFlag},
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		out, err := cfg.Dump()
		if err != nil {
			return err
		}
		if ctx.NArg() > 0 {
			return os.WriteFile(ctx.Args().First(), out, 0644)
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

// loadConfig reads the config file, then applies the environment and the
// command line, in increasing priority.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String(configFileFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.Node.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.Bool(devFlag.Name) {
		cfg.Database = storage.Config{Engine: storage.EngineMemory}
	}
	if ctx.IsSet(httpAddrFlag.Name) {
		cfg.RPC.HTTPAddr = ctx.String(httpAddrFlag.Name)
	}
	if ctx.IsSet(httpAllowRemoteFlag.Name) {
		cfg.RPC.AllowRemote = ctx.Bool(httpAllowRemoteFlag.Name)
	}
	if ctx.IsSet(attestationRootFlag.Name) {
		cfg.Attestation.RootCert = ctx.String(attestationRootFlag.Name)
	}
	if ctx.IsSet(genesisFlag.Name) {
		cfg.Node.Genesis = ctx.String(genesisFlag.Name)
	}
	cfg.Node.Verbosity = ctx.Int(verbosityFlag.Name)
	cfg.Node.LogFile = ctx.String(logFileFlag.Name)
	cfg.Node.LogJSON = ctx.Bool(logJSONFlag.Name)
	cfg.Resolve()
	return cfg, nil
}
