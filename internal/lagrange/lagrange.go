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

// Package lagrange recovers polynomials from their evaluations using Lagrange interpolation.
package lagrange

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoogleCloudPlatform/polyshare/internal/field"
	"github.com/GoogleCloudPlatform/polyshare/internal/poly"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDuplicateEvaluationPoint is returned when two x-coordinates are equal.
	ErrDuplicateEvaluationPoint = errors.New("all evaluation points should be unique")
	// ErrSingularInterpolation is returned when a basis denominator is zero, which can only
	// happen when the interpolating set contains a repeated point.
	ErrSingularInterpolation = errors.New("singular interpolation: basis denominator is zero")
	// ErrNoPoints is returned when interpolating an empty set.
	ErrNoPoints = errors.New("at least one point is required")
	// ErrLengthMismatch is returned when the numbers of x and y coordinates differ.
	ErrLengthMismatch = errors.New("number of x and y coordinates differ")
)

func validate[E any](f field.Field[E], xs, ys []E) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(xs), len(ys))
	}
	return validatePoints(f, xs)
}

func validatePoints[E any](f field.Field[E], xs []E) error {
	if len(xs) == 0 {
		return ErrNoPoints
	}
	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			if f.Equal(xs[i], xs[j]) {
				return fmt.Errorf("%w: x[%d] = x[%d] = %v", ErrDuplicateEvaluationPoint, i, j, xs[i])
			}
		}
	}
	return nil
}

// Basis returns the i-th Lagrange basis polynomial of the interpolating set xs:
//
//	L_i(X) = ∏j≠i (X - x[j]) / (x[i] - x[j])
//
// so that L_i(x[i]) = 1 and L_i(x[j]) = 0 for j ≠ i. The denominator is the numerator evaluated
// at x[i]; if it is zero ErrSingularInterpolation is returned.
func Basis[E any](f field.Field[E], xs []E, i int) (poly.Polynomial[E], error) {
	if i < 0 || i >= len(xs) {
		return poly.Polynomial[E]{}, fmt.Errorf("basis index %d out of range [0, %d)", i, len(xs))
	}
	factors := make([]poly.Polynomial[E], 0, len(xs)-1)
	for j, xj := range xs {
		if j == i {
			continue
		}
		factors = append(factors, poly.Linear(f, f.Neg(xj), f.One()))
	}
	numerator := poly.Product(f, factors...)
	denominator, err := f.Inverse(numerator.Evaluate(xs[i]))
	if errors.Is(err, field.ErrNotInvertible) {
		return poly.Polynomial[E]{}, fmt.Errorf("basis %d: %w", i, ErrSingularInterpolation)
	}
	if err != nil {
		return poly.Polynomial[E]{}, err
	}
	return numerator.ScalarMul(denominator), nil
}

// Interpolate returns the unique polynomial with len(xs) coefficients passing through every
// (xs[i], ys[i]). The x-coordinates must be pairwise distinct.
func Interpolate[E any](f field.Field[E], xs, ys []E) (poly.Polynomial[E], error) {
	if err := validate(f, xs, ys); err != nil {
		return poly.Polynomial[E]{}, err
	}
	terms := make([]poly.Polynomial[E], len(xs))
	for i := range xs {
		b, err := Basis(f, xs, i)
		if err != nil {
			return poly.Polynomial[E]{}, err
		}
		terms[i] = b.ScalarMul(ys[i])
	}
	return poly.Sum(f, terms...), nil
}

// InterpolateParallel is Interpolate with the basis polynomials built concurrently by at most
// workers goroutines (no limit if workers <= 0). The terms are summed in index order, so the
// result is identical to Interpolate.
func InterpolateParallel[E any](ctx context.Context, f field.Field[E], xs, ys []E, workers int) (poly.Polynomial[E], error) {
	if err := validate(f, xs, ys); err != nil {
		return poly.Polynomial[E]{}, err
	}
	terms := make([]poly.Polynomial[E], len(xs))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range xs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := Basis(f, xs, i)
			if err != nil {
				return err
			}
			terms[i] = b.ScalarMul(ys[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return poly.Polynomial[E]{}, err
	}
	return poly.Sum(f, terms...), nil
}

// CoefficientsAtZero returns the Lagrange coefficients of xs evaluated at zero:
//
//	λ[i] = ∏j≠i x[j] / (x[j] - x[i])
//
// The coefficients only depend on the x-coordinates, so they can be computed once and reused
// with Combine for many sets of y-coordinates.
func CoefficientsAtZero[E any](f field.Field[E], xs []E) ([]E, error) {
	if err := validatePoints(f, xs); err != nil {
		return nil, err
	}
	out := make([]E, len(xs))
	for i := range xs {
		num, den := f.One(), f.One()
		for j := range xs {
			if i == j {
				continue
			}
			num = f.Mul(num, xs[j])
			den = f.Mul(den, f.Sub(xs[j], xs[i]))
		}
		inv, err := f.Inverse(den)
		if errors.Is(err, field.ErrNotInvertible) {
			return nil, fmt.Errorf("coefficient %d: %w", i, ErrSingularInterpolation)
		}
		if err != nil {
			return nil, err
		}
		out[i] = f.Mul(num, inv)
	}
	return out, nil
}

// Combine returns ∑ ys[i] * coeffs[i], the value at zero of the polynomial through the points
// whose coefficients were computed by CoefficientsAtZero.
func Combine[E any](f field.Field[E], coeffs, ys []E) (E, error) {
	if len(coeffs) != len(ys) {
		var zero E
		return zero, fmt.Errorf("%w: %d coefficients, %d y values", ErrLengthMismatch, len(coeffs), len(ys))
	}
	sum := f.Zero()
	for i, y := range ys {
		sum = f.Add(sum, f.Mul(y, coeffs[i]))
	}
	return sum, nil
}

// InterpolateAtZero returns p(0) for the polynomial p through every (xs[i], ys[i]) without
// building p.
func InterpolateAtZero[E any](f field.Field[E], xs, ys []E) (E, error) {
	if err := validate(f, xs, ys); err != nil {
		var zero E
		return zero, err
	}
	coeffs, err := CoefficientsAtZero(f, xs)
	if err != nil {
		var zero E
		return zero, err
	}
	return Combine(f, coeffs, ys)
}
