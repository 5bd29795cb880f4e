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
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/GoogleCloudPlatform/polyshare/internal/field"
	"github.com/GoogleCloudPlatform/polyshare/internal/field/bn254"
	"github.com/GoogleCloudPlatform/polyshare/internal/field/fieldtest"
	"github.com/GoogleCloudPlatform/polyshare/internal/field/gf32"
	"github.com/GoogleCloudPlatform/polyshare/internal/field/modp"
	"github.com/GoogleCloudPlatform/polyshare/internal/lagrange"
	"github.com/GoogleCloudPlatform/polyshare/internal/poly"
	"github.com/GoogleCloudPlatform/polyshare/internal/shamirgeneric"
	"github.com/GoogleCloudPlatform/polyshare/secrets"
	"github.com/GoogleCloudPlatform/polyshare/shamir"
)

type property struct {
	name  string
	check func() error
}

func propertiesFor(id finitefield.ID, rounds int) []property {
	switch id {
	case finitefield.GF32:
		return properties[gf32.Element](gf32.New(), rounds)
	case finitefield.P256:
		return properties[modp.Element](modp.NewP256(), rounds)
	case finitefield.BN254:
		return properties[bn254.Element](bn254.New(), rounds)
	default:
		return []property{{name: "known field", check: func() error { return fmt.Errorf("unsupported field %v", id) }}}
	}
}

// polyOf builds the polynomial with small integer coefficients.
func polyOf[E any](f field.Field[E], vs ...int) (poly.Polynomial[E], error) {
	coeffs, err := elems(f, vs...)
	if err != nil {
		return poly.Polynomial[E]{}, err
	}
	return poly.New(f, coeffs...)
}

func elems[E any](f field.Field[E], vs ...int) ([]E, error) {
	out := make([]E, len(vs))
	for i, v := range vs {
		var err error
		if out[i], err = f.CreateElement(v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// wantPoly compares the result of a polynomial operation with the expected coefficients.
func wantPoly[E any](f field.Field[E], got poly.Polynomial[E], want ...int) error {
	w, err := polyOf(f, want...)
	if err != nil {
		return err
	}
	if !got.Equal(w) {
		return fmt.Errorf("got %v, want %v", got, w)
	}
	return nil
}

func properties[E any](gf field.GaloisField[E], rounds int) []property {
	f := field.Field[E](gf)
	return []property{
		{"field axioms", func() error { return fieldtest.CheckAxioms(f, rand.Reader, rounds) }},
		{"codec round trip", func() error {
			return fieldtest.CheckCodec(gf, [][]byte{{1}, []byte("YELLOW_SUBMARINE"), bytes.Repeat([]byte{0xff}, 97)})
		}},
		{"evaluate [1, 2, 3] at 2 is 17", func() error {
			p, err := polyOf(f, 1, 2, 3)
			if err != nil {
				return err
			}
			want, _ := f.CreateElement(17)
			two, _ := f.CreateElement(2)
			if got := p.Evaluate(two); !f.Equal(got, want) {
				return fmt.Errorf("got %v, want %v", got, want)
			}
			return nil
		}},
		{"[1, 2] + [3, 4] is [4, 6]", func() error {
			p, err := polyOf(f, 1, 2)
			if err != nil {
				return err
			}
			q, err := polyOf(f, 3, 4)
			if err != nil {
				return err
			}
			return wantPoly(f, p.Add(q), 4, 6)
		}},
		{"[1, 2] * [3, 4] is [3, 10, 8]", func() error {
			p, err := polyOf(f, 1, 2)
			if err != nil {
				return err
			}
			q, err := polyOf(f, 3, 4)
			if err != nil {
				return err
			}
			return wantPoly(f, p.Mul(q), 3, 10, 8)
		}},
		{"[2, 3] scaled by 2 is [4, 6]", func() error {
			p, err := polyOf(f, 2, 3)
			if err != nil {
				return err
			}
			two, _ := f.CreateElement(2)
			return wantPoly(f, p.ScalarMul(two), 4, 6)
		}},
		{"interpolating (2, 4), (4, 8) gives [0, 2]", func() error {
			xs, err := elems(f, 2, 4)
			if err != nil {
				return err
			}
			ys, err := elems(f, 4, 8)
			if err != nil {
				return err
			}
			p, err := lagrange.Interpolate(f, xs, ys)
			if err != nil {
				return err
			}
			return wantPoly(f, p, 0, 2)
		}},
		{"duplicate evaluation points are rejected", func() error {
			xs, _ := elems(f, 3, 3)
			ys, _ := elems(f, 1, 2)
			if _, err := lagrange.Interpolate(f, xs, ys); !errors.Is(err, lagrange.ErrDuplicateEvaluationPoint) {
				return fmt.Errorf("got err = %v, want %v", err, lagrange.ErrDuplicateEvaluationPoint)
			}
			return nil
		}},
		{"42 split 3 of 5 is recovered from shares 1, 3 and 5", func() error {
			secret, _ := f.CreateElement(42)
			shares, err := shamirgeneric.Split(f, secret, 3, 5, rand.Reader)
			if err != nil {
				return err
			}
			got, err := shamirgeneric.Reconstruct(f, []shamirgeneric.Share[E]{shares[0], shares[2], shares[4]})
			if err != nil {
				return err
			}
			if !f.Equal(got, secret) {
				return fmt.Errorf("got %v, want %v", got, secret)
			}
			return nil
		}},
		{"two splits of the same secret differ", func() error {
			secret, _ := f.CreateElement(42)
			a, err := shamirgeneric.Split(f, secret, 3, 5, rand.Reader)
			if err != nil {
				return err
			}
			b, err := shamirgeneric.Split(f, secret, 3, 5, rand.Reader)
			if err != nil {
				return err
			}
			for i := range a {
				if !f.Equal(a[i].Y, b[i].Y) {
					return nil
				}
			}
			return fmt.Errorf("both splits produced the same shares")
		}},
		{"parallel interpolation matches sequential", func() error {
			var xs, ys []E
			for i := 1; i <= 12; i++ {
				x, _ := f.CreateElement(i * 7)
				y, err := f.Random(rand.Reader)
				if err != nil {
					return err
				}
				xs, ys = append(xs, x), append(ys, y)
			}
			seq, err := lagrange.Interpolate(f, xs, ys)
			if err != nil {
				return err
			}
			par, err := lagrange.InterpolateParallel(context.Background(), f, xs, ys, 4)
			if err != nil {
				return err
			}
			if !par.Equal(seq) {
				return fmt.Errorf("got %v, want %v", par, seq)
			}
			return nil
		}},
		{"byte secret round trip", func() error {
			secret := []byte("abcdefghijklmnopqrstuvwxyz123456")
			split, err := shamir.SplitSecret(secrets.Metadata{Field: gf.FieldID(), NumShares: 5, Threshold: 3}, secret)
			if err != nil {
				return err
			}
			split.Shares = split.Shares[2:]
			got, err := shamir.Reconstruct(split)
			if err != nil {
				return err
			}
			if !bytes.Equal(got, secret) {
				return fmt.Errorf("got %x, want %x", got, secret)
			}
			return nil
		}},
	}
}
