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

package shamirgeneric

import (
	"errors"
	"fmt"
	"io"

	"github.com/GoogleCloudPlatform/polyshare/internal/field"
	"github.com/GoogleCloudPlatform/polyshare/internal/lagrange"
	"github.com/GoogleCloudPlatform/polyshare/internal/poly"
)

var (
	// ErrInvalidThreshold is returned when the threshold is smaller than 1.
	ErrInvalidThreshold = errors.New("threshold must be at least 1")
	// ErrInvalidShareCount is returned when fewer shares than the threshold are requested, or
	// more than the field has non-zero points.
	ErrInvalidShareCount = errors.New("invalid number of shares")
	// ErrNoShares is returned when reconstructing from an empty set of shares.
	ErrNoShares = errors.New("no shares provided")
)

// Share is a point (X, Y) on a secret's polynomial.
type Share[E any] struct {
	X E
	Y E
}

// NewRandomPolynomial returns secret + R_1 * X + ... + R_(k-1) * X^(k-1) where every R_i is
// drawn uniformly from the field using r.
func NewRandomPolynomial[E any](f field.Field[E], secret E, k int, r io.Reader) (poly.Polynomial[E], error) {
	if k < 1 {
		return poly.Polynomial[E]{}, fmt.Errorf("%w: got %d", ErrInvalidThreshold, k)
	}
	coeffs := make([]E, k)
	coeffs[0] = secret
	for i := 1; i < k; i++ {
		var err error
		if coeffs[i], err = f.Random(r); err != nil {
			return poly.Polynomial[E]{}, err
		}
	}
	return poly.New(f, coeffs...)
}

// Split shares secret between n parties so that any k of the shares reconstruct it. The shares
// are the evaluations of a random polynomial of degree k - 1 at X = 1, ..., n.
func Split[E any](f field.Field[E], secret E, k, n int, r io.Reader) ([]Share[E], error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, k)
	}
	if n < k {
		return nil, fmt.Errorf("%w: threshold %d, shares %d", ErrInvalidShareCount, k, n)
	}
	p, err := NewRandomPolynomial(f, secret, k, r)
	if err != nil {
		return nil, err
	}
	shares := make([]Share[E], n)
	for i := range shares {
		x, err := f.CreateElement(i + 1)
		if err != nil {
			return nil, err
		}
		// X wraps to zero once n reaches the field order.
		if f.Equal(x, f.Zero()) {
			return nil, fmt.Errorf("%w: %d shares exceed the field order", ErrInvalidShareCount, n)
		}
		shares[i] = Share[E]{X: x, Y: p.Evaluate(x)}
	}
	return shares, nil
}

// Reconstruct interpolates the polynomial through every share and returns its constant term.
//
// Reconstruct doesn't know the threshold: given fewer shares than the threshold it returns an
// unrelated element without error.
func Reconstruct[E any](f field.Field[E], shares []Share[E]) (E, error) {
	if len(shares) == 0 {
		var zero E
		return zero, ErrNoShares
	}
	xs := make([]E, len(shares))
	ys := make([]E, len(shares))
	for i, s := range shares {
		xs[i], ys[i] = s.X, s.Y
	}
	p, err := lagrange.Interpolate(f, xs, ys)
	if err != nil {
		var zero E
		return zero, err
	}
	return p.Coefficient(0), nil
}
