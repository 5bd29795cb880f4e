// Copyright 2022 Google LLC
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

// Package field defines a generic definition of a finite field.
//
// A field is an explicit value passed to every polynomial and secret sharing
// operation; elements are plain values of the field's element type E and all
// arithmetic returns new elements.
package field

import (
	"errors"
	"io"

	"github.com/GoogleCloudPlatform/polyshare/finitefield"
)

// ErrNotInvertible is returned when the multiplicative inverse of zero is requested.
var ErrNotInvertible = errors.New("element is not invertible")

// Field is the arithmetic of a prime-order field with elements of type E.
type Field[E any] interface {
	// Zero returns the additive identity.
	Zero() E
	// One returns the multiplicative identity.
	One() E
	// Add returns a + b.
	Add(a, b E) E
	// Neg returns -a.
	Neg(a E) E
	// Sub returns a - b.
	Sub(a, b E) E
	// Mul returns a * b.
	Mul(a, b E) E
	// Inverse returns the multiplicative inverse of a.
	// An error wrapping ErrNotInvertible is returned iff a is zero.
	Inverse(a E) (E, error)
	// Equal reports whether a and b are the same element.
	Equal(a, b E) bool
	// Random returns an element drawn uniformly from the whole field using r.
	// r must be a cryptographically secure source for secret sharing.
	Random(r io.Reader) (E, error)
	// CreateElement creates a new field element from i, reduced modulo the field order.
	// Negative values are rejected.
	CreateElement(i int) (E, error)
}

// Codec converts between byte strings and field elements.
type Codec[E any] interface {
	// ElementSize returns the size of each encoded element in bytes.
	ElementSize() int
	// Bytes returns the element in a big endian encoding of length ElementSize().
	Bytes(e E) []byte
	// ReadElement reads the i-th element from a big endian encoded byte slice b.
	ReadElement(b []byte, i int) (E, error)
	// EncodeElements encodes a set of field elements into a byte slice of size secLen.
	// The output of this function can be passed to DecodeElements() to recreate the elements.
	EncodeElements(parts []E, secLen int) ([]byte, error)
	// DecodeElements creates a set of field elements from a byte slice.
	// Expects the output of EncodeElements().
	DecodeElements(b []byte) []E
}

// GaloisField represents a Finite Field usable for splitting byte secrets.
type GaloisField[E any] interface {
	Field[E]
	Codec[E]
	// FieldID returns a unique identifier for the field.
	FieldID() finitefield.ID
}
