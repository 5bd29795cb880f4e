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

// Package bn254 implements the base field of the BN254 curve with fixed-width
// Montgomery arithmetic.
package bn254

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/GoogleCloudPlatform/polyshare/internal/field"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

const (
	elementSizeBytes = fp.Bytes
	// Secret chunks are one byte shorter than an element so every chunk is below the modulus.
	chunkSizeBytes = fp.Bytes - 1
)

// Element is an element of the BN254 base field. The zero value is the field's zero.
type Element struct {
	v fp.Element
}

func (e Element) String() string {
	return e.v.String()
}

// Big returns the element as a big.Int in [0, q).
func (e Element) Big() *big.Int {
	return e.v.ToBigIntRegular(new(big.Int))
}

// Field is the BN254 base field.
type Field struct {
	modulus *big.Int
}

var _ field.GaloisField[Element] = (*Field)(nil)

// New creates a new BN254 base field.
func New() *Field {
	return &Field{modulus: fp.Modulus()}
}

// FieldID returns an ID for the specific field implemented.
func (f *Field) FieldID() finitefield.ID {
	return finitefield.BN254
}

// Zero returns the additive identity.
func (f *Field) Zero() Element { return Element{} }

// One returns the multiplicative identity.
func (f *Field) One() Element {
	var e Element
	e.v.SetOne()
	return e
}

// Add returns a + b.
func (f *Field) Add(a, b Element) Element {
	var e Element
	e.v.Add(&a.v, &b.v)
	return e
}

// Neg returns -a.
func (f *Field) Neg(a Element) Element {
	var e Element
	e.v.Neg(&a.v)
	return e
}

// Sub returns a - b.
func (f *Field) Sub(a, b Element) Element {
	var e Element
	e.v.Sub(&a.v, &b.v)
	return e
}

// Mul returns a * b.
func (f *Field) Mul(a, b Element) Element {
	var e Element
	e.v.Mul(&a.v, &b.v)
	return e
}

// Inverse returns a^-1.
func (f *Field) Inverse(a Element) (Element, error) {
	if a.v.IsZero() {
		return Element{}, fmt.Errorf("modular inverse isn't defined for zero: %w", field.ErrNotInvertible)
	}
	var e Element
	e.v.Inverse(&a.v)
	return e, nil
}

// Equal reports whether a == b.
func (f *Field) Equal(a, b Element) bool {
	return a.v.Equal(&b.v)
}

// Random returns a uniformly random element read from r.
func (f *Field) Random(r io.Reader) (Element, error) {
	v, err := rand.Int(r, f.modulus)
	if err != nil {
		return Element{}, fmt.Errorf("reading randomness failed: %v", err)
	}
	var e Element
	e.v.SetBigInt(v)
	return e, nil
}

// CreateElement returns i mod q.
func (f *Field) CreateElement(i int) (Element, error) {
	if i < 0 {
		return Element{}, fmt.Errorf("field element can't be negative: %d", i)
	}
	var e Element
	e.v.SetUint64(uint64(i))
	return e, nil
}

// ElementSize returns the size in bytes of encoded elements.
func (f *Field) ElementSize() int {
	return elementSizeBytes
}

// Bytes returns the 32-byte big endian encoding of e in regular (non-Montgomery) form.
func (f *Field) Bytes(e Element) []byte {
	return e.Big().FillBytes(make([]byte, elementSizeBytes))
}

// ReadElement reads the i-th 32-byte big endian element of b.
func (f *Field) ReadElement(b []byte, i int) (Element, error) {
	if i < 0 || len(b) < (i+1)*elementSizeBytes {
		return Element{}, fmt.Errorf("b (len = %d), is smaller than offset %d", len(b), i)
	}
	v := new(big.Int).SetBytes(b[i*elementSizeBytes : (i+1)*elementSizeBytes])
	if v.Cmp(f.modulus) >= 0 {
		return Element{}, fmt.Errorf("value at offset %d is not a field element", i)
	}
	var e Element
	e.v.SetBigInt(v)
	return e, nil
}

// DecodeElements splits b into 31-byte big endian chunks, one element per chunk.
func (f *Field) DecodeElements(b []byte) []Element {
	return field.DecodeChunks(b, chunkSizeBytes, func(c []byte) Element {
		var e Element
		e.v.SetBigInt(new(big.Int).SetBytes(c))
		return e
	})
}

// EncodeElements is the inverse of DecodeElements.
func (f *Field) EncodeElements(parts []Element, secLen int) ([]byte, error) {
	return field.EncodeChunks(parts, secLen, chunkSizeBytes, f.Bytes)
}
