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
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"sort"

	"flag"
	"github.com/GoogleCloudPlatform/polyshare/constants"
	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/GoogleCloudPlatform/polyshare/internal/field"
	"github.com/GoogleCloudPlatform/polyshare/internal/field/bn254"
	"github.com/GoogleCloudPlatform/polyshare/internal/field/gf32"
	"github.com/GoogleCloudPlatform/polyshare/internal/field/modp"
	"github.com/GoogleCloudPlatform/polyshare/internal/lagrange"
	"github.com/GoogleCloudPlatform/polyshare/internal/shamirgeneric"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
)

type demoOptions struct {
	secret    int
	threshold int
	shares    int
	workers   int
}

// demoCmd handles CLI options for the demo command.
type demoCmd struct {
	field string
	opts  demoOptions
}

func (*demoCmd) Name() string { return "demo" }
func (*demoCmd) Synopsis() string {
	return "splits a small number and reconstructs it from a subset of the shares"
}
func (*demoCmd) Usage() string {
	return `Usage: polyshare demo [--field=<field>] [--secret=<int>] [--threshold=<k>] [--shares=<n>]

Splits --secret into n shares at x = 1..n, prints them, and reconstructs the secret from k of
them (every other share where possible, so shares 1, 3 and 5 by default).

Flags:
`
}

func (d *demoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&d.field, "field", constants.DefaultField.String(), "Finite field to share over (GF32, P256 or BN254)")
	f.IntVar(&d.opts.secret, "secret", constants.DefaultDemoSecret, "Non-negative integer to share")
	f.IntVar(&d.opts.threshold, "threshold", constants.DefaultThreshold, "Number of shares needed to reconstruct")
	f.IntVar(&d.opts.shares, "shares", constants.DefaultShares, "Number of shares to create")
	f.IntVar(&d.opts.workers, "workers", 0, "Maximum goroutines used for interpolation, 0 for no limit")
}

func (d *demoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := finitefield.Parse(d.field)
	if err != nil {
		glog.Errorf("Invalid field: %v", err.Error())
		return subcommands.ExitFailure
	}

	switch id {
	case finitefield.GF32:
		err = runDemo[gf32.Element](ctx, os.Stdout, gf32.New(), d.opts)
	case finitefield.P256:
		err = runDemo[modp.Element](ctx, os.Stdout, modp.NewP256(), d.opts)
	case finitefield.BN254:
		err = runDemo[bn254.Element](ctx, os.Stdout, bn254.New(), d.opts)
	}
	if err != nil {
		glog.Errorf("Demo failed: %v", err.Error())
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// pickShares returns k of the indices 0..n-1, preferring every other index.
func pickShares(n, k int) []int {
	var out []int
	for i := 0; i < n && len(out) < k; i += 2 {
		out = append(out, i)
	}
	for i := 1; i < n && len(out) < k; i += 2 {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func runDemo[E any](ctx context.Context, w io.Writer, f field.Field[E], o demoOptions) error {
	secret, err := f.CreateElement(o.secret)
	if err != nil {
		return err
	}
	all, err := shamirgeneric.Split(f, secret, o.threshold, o.shares, rand.Reader)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Secret: %v\n", secret)
	fmt.Fprintf(w, "Shares (any %d of %d reconstruct the secret):\n", o.threshold, o.shares)
	for _, s := range all {
		fmt.Fprintf(w, "  x = %v, y = %v\n", s.X, s.Y)
	}

	var chosen []shamirgeneric.Share[E]
	var xs, ys []E
	for _, i := range pickShares(len(all), o.threshold) {
		chosen = append(chosen, all[i])
		xs = append(xs, all[i].X)
		ys = append(ys, all[i].Y)
	}

	recovered, err := shamirgeneric.Reconstruct(f, chosen)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Reconstructed from x = %v: %v\n", xs, recovered)

	p, err := lagrange.InterpolateParallel(ctx, f, xs, ys, o.workers)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Interpolated polynomial: %v\n", p)

	if !f.Equal(recovered, secret) || !f.Equal(p.Coefficient(0), secret) {
		return fmt.Errorf("reconstructed %v, want %v", recovered, secret)
	}

	if len(chosen) > 1 {
		partial, err := shamirgeneric.Reconstruct(f, chosen[:len(chosen)-1])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Reconstructed from %d shares (below threshold): %v\n", len(chosen)-1, partial)
	}
	return nil
}
