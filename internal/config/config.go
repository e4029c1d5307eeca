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

// Package config holds the node configuration: the TOML file layout, the
// environment overrides and the consistency checks run before startup.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/sworknet/swork/internal/sgx"
	"github.com/sworknet/swork/storage"
	"github.com/sworknet/swork/swork"
)

// Environment variables overriding file values.
const (
	EnvDataDir  = "SWORK_DATADIR"
	EnvHTTPAddr = "SWORK_HTTP_ADDR"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// Config is the complete node configuration.
type Config struct {
	Node        NodeConfig
	Swork       swork.Config
	Attestation AttestationConfig
	Database    storage.Config
	RPC         RPCConfig
}

// NodeConfig holds process level settings.
type NodeConfig struct {
	DataDir string
	Genesis string `toml:",omitempty"` // genesis file applied by init

	Verbosity     int
	LogFile       string `toml:",omitempty"`
	LogJSON       bool
	LogMaxSize    int // megabytes
	LogMaxBackups int
}

// AttestationConfig selects the attestation format and its pinned root.
type AttestationConfig struct {
	RootCert         string   // path to the root certificate, PEM or DER
	AcceptedStatuses []string `toml:",omitempty"`
	CertCacheSize    int      // bytes
}

// RPCConfig configures the JSON-RPC endpoint. The endpoint trusts the origin
// and block numbers supplied by its callers, so it only listens on loopback
// unless AllowRemote is set.
type RPCConfig struct {
	HTTPAddr    string
	AllowRemote bool
}

// ErrRemoteRPC is returned when the RPC endpoint would listen on a
// non-loopback address without AllowRemote.
var ErrRemoteRPC = errors.New("rpc endpoint on non-loopback address")

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		Node: NodeConfig{
			DataDir:       defaultDataDir(),
			Verbosity:     3,
			LogMaxSize:    100,
			LogMaxBackups: 10,
		},
		Swork:       *swork.DefaultConfig(),
		Attestation: AttestationConfig{CertCacheSize: sgx.DefaultCertCacheSize},
		Database:    storage.DefaultConfig,
		RPC:         RPCConfig{HTTPAddr: "127.0.0.1:8645"},
	}
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".swork")
	}
	return ".swork"
}

// Load reads a TOML file over the defaults, then applies the environment
// overrides. An empty path yields defaults plus environment.
func Load(file string) (*Config, error) {
	cfg := Defaults()
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
		// Add file name to errors that have a line number.
		if _, ok := err.(*toml.LineError); ok {
			err = errors.New(file + ", " + err.Error())
		}
		if err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides file values with the environment.
func (c *Config) ApplyEnv() {
	c.Node.DataDir = getEnvOrDefault(EnvDataDir, c.Node.DataDir)
	c.RPC.HTTPAddr = getEnvOrDefault(EnvHTTPAddr, c.RPC.HTTPAddr)
}

// Dump renders the configuration as TOML.
func (c *Config) Dump() ([]byte, error) {
	return tomlSettings.Marshal(c)
}

// Resolve fills derived values: the database directory defaults to the
// chaindata folder of the data directory.
func (c *Config) Resolve() {
	if c.Database.Engine == storage.EngineLevelDB && c.Database.Dir == "" {
		c.Database.Dir = filepath.Join(c.Node.DataDir, "chaindata")
	}
}

// Validate checks the configuration for consistency. It expects Resolve to
// have run.
func (c *Config) Validate() error {
	if err := c.Swork.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Node.DataDir == "" && c.Database.Engine != storage.EngineMemory {
		return errors.New("data directory required for on-disk database")
	}
	if c.Attestation.RootCert == "" {
		return fmt.Errorf("attestation root certificate not configured: %w", sgx.ErrNoRootCert)
	}
	if c.RPC.HTTPAddr == "" {
		return errors.New("rpc http address required")
	}
	if !c.RPC.AllowRemote && !isLoopback(c.RPC.HTTPAddr) {
		return fmt.Errorf("%w: %s", ErrRemoteRPC, c.RPC.HTTPAddr)
	}
	return nil
}

// isLoopback reports whether addr binds to the loopback interface only.
// An empty host listens on every interface.
func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// AttestationFormat loads the attestation format with the configured root.
func (c *Config) AttestationFormat() (*sgx.Format, error) {
	f, err := sgx.LoadFormat(c.Attestation.RootCert)
	if err != nil {
		return nil, err
	}
	f.AcceptedStatuses = c.Attestation.AcceptedStatuses
	return f, nil
}

// getEnvOrDefault retrieves an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
