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

// Package poly implements univariate polynomials over a generic finite field.
//
// A Polynomial holds its coefficients in ascending order: index i is the
// coefficient of x^i. Polynomials are immutable; every operation returns a new
// value. The degree reported is the stored length minus one, trailing zero
// coefficients are never trimmed.
package poly

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GoogleCloudPlatform/polyshare/internal/field"
)

// ErrInvalidPolynomial is returned when a polynomial is built without coefficients.
var ErrInvalidPolynomial = errors.New("polynomial must have at least one coefficient")

// Polynomial is a polynomial over the field f. The zero value is not usable, use New.
type Polynomial[E any] struct {
	f     field.Field[E]
	coeff []E
}

// New returns the polynomial coeffs[0] + coeffs[1]*x + ... over f.
// The coefficients are copied.
func New[E any](f field.Field[E], coeffs ...E) (Polynomial[E], error) {
	if len(coeffs) == 0 {
		return Polynomial[E]{}, ErrInvalidPolynomial
	}
	return Polynomial[E]{f: f, coeff: append([]E(nil), coeffs...)}, nil
}

// Zero returns the zero polynomial [0], the identity of Sum.
func Zero[E any](f field.Field[E]) Polynomial[E] {
	return Polynomial[E]{f: f, coeff: []E{f.Zero()}}
}

// One returns the constant polynomial [1], the identity of Product.
func One[E any](f field.Field[E]) Polynomial[E] {
	return Polynomial[E]{f: f, coeff: []E{f.One()}}
}

// Linear returns c0 + c1*x.
func Linear[E any](f field.Field[E], c0, c1 E) Polynomial[E] {
	return Polynomial[E]{f: f, coeff: []E{c0, c1}}
}

// Field returns the field the polynomial is defined over.
func (p Polynomial[E]) Field() field.Field[E] {
	return p.f
}

// Degree returns the number of stored coefficients minus one.
func (p Polynomial[E]) Degree() int {
	return len(p.coeff) - 1
}

// Len returns the number of stored coefficients.
func (p Polynomial[E]) Len() int {
	return len(p.coeff)
}

// Coefficient returns the coefficient of x^i, or zero if i is beyond the stored length.
func (p Polynomial[E]) Coefficient(i int) E {
	if i < 0 || i >= len(p.coeff) {
		return p.f.Zero()
	}
	return p.coeff[i]
}

// Coefficients returns a copy of the coefficients, constant term first.
func (p Polynomial[E]) Coefficients() []E {
	return append([]E(nil), p.coeff...)
}

// Evaluate returns p(x) using Horner's method, starting from the highest stored coefficient:
// acc = c[n-1]; acc = acc*x + c[i] for i = n-2 down to 0.
func (p Polynomial[E]) Evaluate(x E) E {
	acc := p.coeff[len(p.coeff)-1]
	for i := len(p.coeff) - 2; i >= 0; i-- {
		acc = p.f.Add(p.f.Mul(acc, x), p.coeff[i])
	}
	return acc
}

// Add returns p + q. The result has max(p.Len(), q.Len()) coefficients; missing coefficients of
// the shorter polynomial are treated as zero.
func (p Polynomial[E]) Add(q Polynomial[E]) Polynomial[E] {
	long, short := p.coeff, q.coeff
	if len(short) > len(long) {
		long, short = short, long
	}
	out := make([]E, len(long))
	for i := range long {
		if i < len(short) {
			out[i] = p.f.Add(long[i], short[i])
		} else {
			out[i] = long[i]
		}
	}
	return Polynomial[E]{f: p.f, coeff: out}
}

// Mul returns p * q, the full convolution of the coefficients.
// The result has p.Len() + q.Len() - 1 coefficients.
func (p Polynomial[E]) Mul(q Polynomial[E]) Polynomial[E] {
	out := make([]E, len(p.coeff)+len(q.coeff)-1)
	for i := range out {
		out[i] = p.f.Zero()
	}
	for i, a := range p.coeff {
		for j, b := range q.coeff {
			out[i+j] = p.f.Add(out[i+j], p.f.Mul(a, b))
		}
	}
	return Polynomial[E]{f: p.f, coeff: out}
}

// ScalarMul returns s * p.
func (p Polynomial[E]) ScalarMul(s E) Polynomial[E] {
	out := make([]E, len(p.coeff))
	for i, c := range p.coeff {
		out[i] = p.f.Mul(c, s)
	}
	return Polynomial[E]{f: p.f, coeff: out}
}

// Equal reports whether p and q store the same number of coefficients and every coefficient
// is equal.
func (p Polynomial[E]) Equal(q Polynomial[E]) bool {
	if len(p.coeff) != len(q.coeff) {
		return false
	}
	for i := range p.coeff {
		if !p.f.Equal(p.coeff[i], q.coeff[i]) {
			return false
		}
	}
	return true
}

func (p Polynomial[E]) String() string {
	parts := make([]string, len(p.coeff))
	for i, c := range p.coeff {
		parts[i] = fmt.Sprint(c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Sum folds ps with Add starting from the zero polynomial. Sum of no polynomials is [0].
func Sum[E any](f field.Field[E], ps ...Polynomial[E]) Polynomial[E] {
	acc := Zero(f)
	for _, p := range ps {
		acc = acc.Add(p)
	}
	return acc
}

// Product folds ps with Mul starting from the one polynomial. Product of no polynomials is [1].
func Product[E any](f field.Field[E], ps ...Polynomial[E]) Polynomial[E] {
	acc := One(f)
	for _, p := range ps {
		acc = acc.Mul(p)
	}
	return acc
}
