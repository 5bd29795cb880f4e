// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"flag"
	"github.com/GoogleCloudPlatform/polyshare/config"
	"github.com/GoogleCloudPlatform/polyshare/shares"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
)

// dekCmd handles CLI options for the dek command.
type dekCmd struct {
	scheme  schemeFlags
	combine bool
}

func (*dekCmd) Name() string { return "dek" }
func (*dekCmd) Synopsis() string {
	return "generates and splits a data encryption key, or combines its shares"
}
func (*dekCmd) Usage() string {
	return `Usage: polyshare dek [--config-file=<path>] [--combine <share>...]

Without --combine, generates a random 32-byte data encryption key and splits it according to the
keyConfig stanza of the configuration file (or the configured scheme if there is none). Each share
is printed in hex in its "value || x" form next to its SHA-256 hash.

With --combine, reconstructs the key from the hex shares given as arguments and prints it.

Flags:
`
}

func (d *dekCmd) SetFlags(f *flag.FlagSet) {
	d.scheme.register(f)
	f.BoolVar(&d.combine, "combine", false, "Combines the shares given as arguments")
}

// keyConfigFor returns the key splitting configuration, defaulting to a Shamir split with the
// configured scheme.
func keyConfigFor(cfg *config.Config) *config.KeyConfig {
	if cfg.KeyConfig != nil {
		return cfg.KeyConfig
	}
	return &config.KeyConfig{Shamir: &config.ShamirConfig{
		Field:     cfg.Field,
		Threshold: cfg.Threshold,
		Shares:    cfg.Shares,
	}}
}

func (d *dekCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := d.scheme.load(f)
	if err != nil {
		glog.Errorf("Failed to load configuration: %v", err.Error())
		return subcommands.ExitFailure
	}
	keyCfg := keyConfigFor(cfg)

	if d.combine {
		var unwrapped []shares.UnwrappedShare
		for i, arg := range f.Args() {
			b, err := hex.DecodeString(arg)
			if err != nil {
				glog.Errorf("Failed to decode share %d: %v", i, err.Error())
				return subcommands.ExitFailure
			}
			unwrapped = append(unwrapped, shares.UnwrappedShare{Share: b, Source: fmt.Sprintf("argument %d", i)})
		}
		dek, err := shares.CombineUnwrappedShares(keyCfg, unwrapped)
		if err != nil {
			glog.Errorf("Failed to combine shares: %v", err.Error())
			return subcommands.ExitFailure
		}
		fmt.Fprintln(os.Stdout, hex.EncodeToString(dek))
		return subcommands.ExitSuccess
	}

	dek := shares.NewDEK()
	dekShares, err := shares.CreateDEKShares(dek, keyCfg)
	if err != nil {
		glog.Errorf("Failed to split DEK: %v", err.Error())
		return subcommands.ExitFailure
	}
	fmt.Fprintln(os.Stdout, "DEK fingerprint:", hex.EncodeToString(shares.HashShare(dek[:])))
	for _, s := range dekShares {
		fmt.Fprintf(os.Stdout, "%s %s\n", hex.EncodeToString(s), hex.EncodeToString(shares.HashShare(s)))
	}
	return subcommands.ExitSuccess
}
