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

// This binary is the main entrypoint for the polyshare command line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"flag"
	"github.com/GoogleCloudPlatform/polyshare/config"
	"github.com/GoogleCloudPlatform/polyshare/constants"
	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/GoogleCloudPlatform/polyshare/shamir"
	"github.com/GoogleCloudPlatform/polyshare/shares"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
)

// schemeFlags are the flags overriding the scheme from the configuration file.
type schemeFlags struct {
	configFile string
	field      string
	threshold  int
	shares     int
}

func (s *schemeFlags) register(f *flag.FlagSet) {
	path, err := config.DefaultPath()
	if err != nil {
		glog.Errorf("%v", err)
	}
	f.StringVar(&s.configFile, "config-file", path, "Path to a configuration file; a missing default file is ignored")
	f.StringVar(&s.field, "field", "", "Finite field to share over (GF32, P256 or BN254); overrides the configuration")
	f.IntVar(&s.threshold, "threshold", 0, "Number of shares needed to reconstruct; overrides the configuration")
	f.IntVar(&s.shares, "shares", 0, "Number of shares to create; overrides the configuration")
}

// load reads the configuration file and applies the flag overrides. The default file is
// optional, an explicitly named one isn't.
func (s *schemeFlags) load(f *flag.FlagSet) (*config.Config, error) {
	explicit := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == "config-file" {
			explicit = true
		}
	})

	cfg, err := config.Load(s.configFile)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
	default:
		return nil, err
	}

	if s.field != "" {
		if cfg.Field, err = finitefield.Parse(s.field); err != nil {
			return nil, err
		}
	}
	if s.threshold != 0 {
		cfg.Threshold = s.threshold
	}
	if s.shares != 0 {
		cfg.Shares = s.shares
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openInput(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// writeOutput writes data to the named file, or stdout for "-".
func writeOutput(name string, data []byte) error {
	if name == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(name, data, 0600)
}

// splitCmd handles CLI options for the split command.
type splitCmd struct {
	scheme schemeFlags
	outDir string
	quiet  bool
}

func (*splitCmd) Name() string { return "split" }
func (*splitCmd) Synopsis() string {
	return "splits a secret into shares"
}
func (*splitCmd) Usage() string {
	return fmt.Sprintf(`Usage: polyshare split [--config-file=<path>] [--field=<field>] [--threshold=<k>] [--shares=<n>] <secret_file> [<bundle_file>]

Splits the contents of <secret_file> into n shares, any k of which reconstruct it, and writes
them as a YAML share bundle to <bundle_file>. Either file may be "-" for stdin/stdout.

With --out-dir, every share is written to its own bundle (share-<x>.yaml) instead.

The scheme defaults to the configuration file (by default %s in the user
configuration directory), then to field %v with k = %d and n = %d.

  Example:
    $ polyshare split --threshold=2 --shares=3 secret.txt bundle.yaml

Flags:
`, constants.DefaultConfigName, constants.DefaultField, constants.DefaultThreshold, constants.DefaultShares)
}

func (s *splitCmd) SetFlags(f *flag.FlagSet) {
	s.scheme.register(f)
	f.StringVar(&s.outDir, "out-dir", "", "Directory to write one bundle per share to")
	f.BoolVar(&s.quiet, "quiet", false, "Suppresses informational output")
}

func (s *splitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := s.scheme.load(f)
	if err != nil {
		glog.Errorf("Failed to load configuration: %v", err.Error())
		return subcommands.ExitFailure
	}

	if f.NArg() < 1 || (s.outDir == "" && f.NArg() < 2) {
		glog.Errorf("Not enough arguments (expected secret file and bundle file or --out-dir)")
		return subcommands.ExitFailure
	}

	in, err := openInput(f.Arg(0))
	if err != nil {
		glog.Errorf("Failed to open secret file: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer in.Close()

	secret, err := io.ReadAll(in)
	if err != nil {
		glog.Errorf("Failed to read secret: %v", err.Error())
		return subcommands.ExitFailure
	}

	split, err := shamir.SplitSecret(cfg.Metadata(), secret)
	if err != nil {
		glog.Errorf("Failed to split secret: %v", err.Error())
		return subcommands.ExitFailure
	}
	bundle := shares.NewBundle(split)

	logFile := os.Stdout
	if f.Arg(1) == "-" {
		logFile = os.Stderr
	}

	if s.outDir != "" {
		for _, b := range bundle.PerShare() {
			data, err := b.Marshal()
			if err != nil {
				glog.Errorf("Failed to encode share bundle: %v", err.Error())
				return subcommands.ExitFailure
			}
			name := filepath.Join(s.outDir, fmt.Sprintf("share-%d.yaml", b.Shares[0].X))
			if err := writeOutput(name, data); err != nil {
				glog.Errorf("Failed to write share bundle: %v", err.Error())
				return subcommands.ExitFailure
			}
		}
	} else {
		data, err := bundle.Marshal()
		if err != nil {
			glog.Errorf("Failed to encode share bundle: %v", err.Error())
			return subcommands.ExitFailure
		}
		if err := writeOutput(f.Arg(1), data); err != nil {
			glog.Errorf("Failed to write share bundle: %v", err.Error())
			return subcommands.ExitFailure
		}
	}

	if !s.quiet {
		fmt.Fprintf(logFile, "Split %d bytes into %d shares over %v, %d needed to reconstruct\n",
			split.SecretLen, len(split.Shares), split.Metadata.Field, split.Metadata.Threshold)
		fmt.Fprintln(logFile, "Split ID:", split.ID)
	}

	return subcommands.ExitSuccess
}

// combineCmd handles CLI options for the combine command.
type combineCmd struct {
	quiet bool
}

func (*combineCmd) Name() string { return "combine" }
func (*combineCmd) Synopsis() string {
	return "reconstructs a secret from share bundles"
}
func (*combineCmd) Usage() string {
	return `Usage: polyshare combine <bundle_file>... <secret_file>

Merges the share bundles of a single split and writes the reconstructed secret to <secret_file>,
which may be "-" for stdout. Shares failing their integrity check are skipped.

  Example:
    $ polyshare combine share-1.yaml share-3.yaml secret.txt

Flags:
`
}

func (c *combineCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.quiet, "quiet", false, "Suppresses informational output")
}

func (c *combineCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		glog.Errorf("Not enough arguments (expected bundle files and secret file)")
		return subcommands.ExitFailure
	}

	args := f.Args()
	var bundles []*shares.Bundle
	for _, name := range args[:len(args)-1] {
		data, err := os.ReadFile(name)
		if err != nil {
			glog.Errorf("Failed to read share bundle: %v", err.Error())
			return subcommands.ExitFailure
		}
		b, err := shares.ParseBundle(data)
		if err != nil {
			glog.Errorf("Failed to parse %s: %v", name, err.Error())
			return subcommands.ExitFailure
		}
		bundles = append(bundles, b)
	}

	merged, err := shares.Merge(bundles...)
	if err != nil {
		glog.Errorf("Failed to merge share bundles: %v", err.Error())
		return subcommands.ExitFailure
	}

	split := merged.Split()
	secret, err := shamir.Reconstruct(split)
	if err != nil {
		glog.Errorf("Failed to reconstruct secret: %v", err.Error())
		return subcommands.ExitFailure
	}

	out := args[len(args)-1]
	if err := writeOutput(out, secret); err != nil {
		glog.Errorf("Failed to write secret: %v", err.Error())
		return subcommands.ExitFailure
	}

	if !c.quiet {
		logFile := os.Stdout
		if out == "-" {
			logFile = os.Stderr
		}
		fmt.Fprintf(logFile, "Reconstructed %d bytes of split %s from %d shares\n", len(secret), split.ID, len(split.Shares))
	}

	return subcommands.ExitSuccess
}

// versionCmd handles CLI options for the version command.
type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "prints the current version" }
func (*versionCmd) Usage() string          { return "Usage: polyshare version" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Printf("polyshare Version %s\n", constants.Version)
	return subcommands.ExitSuccess
}

func main() {
	flag.Parse()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&splitCmd{}, "")
	subcommands.Register(&combineCmd{}, "")
	subcommands.Register(&dekCmd{}, "")
	subcommands.Register(&demoCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
