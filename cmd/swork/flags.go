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
	"github.com/urfave/cli/v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the database",
	}
	devFlag = &cli.BoolFlag{
		Name:  "dev",
		Usage: "Keep state in memory only",
	}
	httpAddrFlag = &cli.StringFlag{
		Name:  "http.addr",
		Usage: "JSON-RPC listening address. Callers name their own origin, so anyone reaching it can act as any account, admins included",
	}
	httpAllowRemoteFlag = &cli.BoolFlag{
		Name:  "http.allowremote",
		Usage: "Allow the JSON-RPC endpoint on a non-loopback address",
	}
	attestationRootFlag = &cli.StringFlag{
		Name:  "attestation.root",
		Usage: "Pinned attestation root certificate (PEM or DER)",
	}
	genesisFlag = &cli.StringFlag{
		Name:  "genesis",
		Usage: "YAML genesis file",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to a rotated file instead of stdout",
	}
	logJSONFlag = &cli.BoolFlag{
		Name:  "log.json",
		Usage: "Format logs as JSON",
	}
	logMaxSizeFlag = &cli.IntFlag{
		Name:  "log.maxsize",
		Usage: "Maximum size in MB of a log file before rotation",
		Value: 100,
	}
	logMaxBackupsFlag = &cli.IntFlag{
		Name:  "log.maxbackups",
		Usage: "Maximum number of rotated log files kept",
		Value: 10,
	}
)
