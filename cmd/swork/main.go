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

// swork is the storage work ledger node: it keeps enclave identities and
// work reports and serves them over JSON-RPC.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var app = &cli.App{
	Name:  "swork",
	Usage: "enclave attested storage work ledger",
	Flags: []cli.Flag{
		configFileFlag,
		dataDirFlag,
		devFlag,
		verbosityFlag,
		logFileFlag,
		logJSONFlag,
		logMaxSizeFlag,
		logMaxBackupsFlag,
	},
	Commands: []*cli.Command{
		initCommand,
		runCommand,
		dumpConfigCommand,
	},
	Before: func(ctx *cli.Context) error {
		return setupLogging(ctx)
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
