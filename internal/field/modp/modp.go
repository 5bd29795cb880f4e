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

// Package modp implements prime fields of arbitrary size on top of constant-time
// multi-precision integers.
package modp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/GoogleCloudPlatform/polyshare/internal/field"
	"github.com/cronokirby/saferith"
)

// P256Hex is the largest 256-bit prime, 2^256 - 189.
const P256Hex = "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff43"

// Element is an element of a modp field. The zero value is the field's zero.
type Element struct {
	n *saferith.Nat
}

func (e Element) String() string {
	if e.n == nil {
		return "0"
	}
	return e.n.Big().String()
}

// Big returns the element as a big.Int in [0, p).
func (e Element) Big() *big.Int {
	if e.n == nil {
		return new(big.Int)
	}
	return e.n.Big()
}

// Field is the prime field of integers modulo p.
type Field struct {
	p     *big.Int
	m     *saferith.Modulus
	bits  int
	size  int // bytes per encoded element
	chunk int // secret bytes per element, chosen so every chunk is below p
	zero  *saferith.Nat
	id    finitefield.ID
}

var _ field.GaloisField[Element] = (*Field)(nil)

// New creates the field of integers modulo prime. The prime must be odd and at least 9 bits
// long so that every byte string of (bits-1)/8 bytes is a field element.
func New(prime *big.Int) (*Field, error) {
	if prime == nil || prime.BitLen() < 9 {
		return nil, fmt.Errorf("prime must be at least 9 bits long")
	}
	if prime.Bit(0) == 0 || !prime.ProbablyPrime(20) {
		return nil, fmt.Errorf("modulus %v is not an odd prime", prime)
	}
	p := new(big.Int).Set(prime)
	f := &Field{
		p:     p,
		m:     saferith.ModulusFromBytes(p.Bytes()),
		bits:  p.BitLen(),
		size:  (p.BitLen() + 7) / 8,
		chunk: (p.BitLen() - 1) / 8,
	}
	f.zero = new(saferith.Nat).Mod(new(saferith.Nat).SetUint64(0), f.m)
	if p.Text(16) == P256Hex {
		f.id = finitefield.P256
	}
	return f, nil
}

// NewP256 creates the field modulo 2^256 - 189.
func NewP256() *Field {
	p, _ := new(big.Int).SetString(P256Hex, 16)
	f, err := New(p)
	if err != nil {
		panic(fmt.Sprintf("modp: invalid built-in prime: %v", err))
	}
	return f
}

// Prime returns a copy of the field order.
func (f *Field) Prime() *big.Int {
	return new(big.Int).Set(f.p)
}

// FieldID returns finitefield.P256 for the built-in prime and 0 for any other prime.
func (f *Field) FieldID() finitefield.ID {
	return f.id
}

func (f *Field) nat(e Element) *saferith.Nat {
	if e.n == nil {
		return f.zero
	}
	return e.n
}

func (f *Field) reduce(n *saferith.Nat) Element {
	return Element{n: new(saferith.Nat).Mod(n, f.m)}
}

// Zero returns the additive identity.
func (f *Field) Zero() Element { return Element{n: f.zero} }

// One returns the multiplicative identity.
func (f *Field) One() Element { return f.reduce(new(saferith.Nat).SetUint64(1)) }

// Add returns a + b mod p.
func (f *Field) Add(a, b Element) Element {
	return Element{n: new(saferith.Nat).ModAdd(f.nat(a), f.nat(b), f.m)}
}

// Neg returns -a mod p.
func (f *Field) Neg(a Element) Element {
	return Element{n: new(saferith.Nat).ModNeg(f.nat(a), f.m)}
}

// Sub returns a - b mod p.
func (f *Field) Sub(a, b Element) Element {
	return Element{n: new(saferith.Nat).ModSub(f.nat(a), f.nat(b), f.m)}
}

// Mul returns a * b mod p.
func (f *Field) Mul(a, b Element) Element {
	return Element{n: new(saferith.Nat).ModMul(f.nat(a), f.nat(b), f.m)}
}

// Inverse returns a^-1 mod p.
func (f *Field) Inverse(a Element) (Element, error) {
	if f.nat(a).EqZero() == 1 {
		return Element{}, fmt.Errorf("modular inverse isn't defined for zero: %w", field.ErrNotInvertible)
	}
	return Element{n: new(saferith.Nat).ModInverse(f.nat(a), f.m)}, nil
}

// Equal reports whether a == b.
func (f *Field) Equal(a, b Element) bool {
	return f.nat(a).Eq(f.nat(b)) == 1
}

// Random returns a uniformly random element of [0, p) read from r.
func (f *Field) Random(r io.Reader) (Element, error) {
	v, err := rand.Int(r, f.p)
	if err != nil {
		return Element{}, fmt.Errorf("reading randomness failed: %v", err)
	}
	return Element{n: new(saferith.Nat).SetBig(v, f.bits)}, nil
}

// CreateElement returns i mod p.
func (f *Field) CreateElement(i int) (Element, error) {
	if i < 0 {
		return Element{}, fmt.Errorf("field element can't be negative: %d", i)
	}
	return f.reduce(new(saferith.Nat).SetUint64(uint64(i))), nil
}

// ElementSize returns the size in bytes of encoded elements.
func (f *Field) ElementSize() int {
	return f.size
}

// Bytes returns the fixed-size big endian encoding of e.
func (f *Field) Bytes(e Element) []byte {
	return f.nat(e).Big().FillBytes(make([]byte, f.size))
}

// ReadElement reads the i-th ElementSize() bytes of b as a big endian field element.
func (f *Field) ReadElement(b []byte, i int) (Element, error) {
	if i < 0 || len(b) < (i+1)*f.size {
		return Element{}, fmt.Errorf("b (len = %d), is smaller than offset %d", len(b), i)
	}
	v := new(big.Int).SetBytes(b[i*f.size : (i+1)*f.size])
	if v.Cmp(f.p) >= 0 {
		return Element{}, fmt.Errorf("value at offset %d is not a field element", i)
	}
	return Element{n: new(saferith.Nat).SetBig(v, f.bits)}, nil
}

// DecodeElements splits b into big endian chunks of (bits-1)/8 bytes, one element per chunk.
func (f *Field) DecodeElements(b []byte) []Element {
	return field.DecodeChunks(b, f.chunk, func(c []byte) Element {
		return f.reduce(new(saferith.Nat).SetBytes(c))
	})
}

// EncodeElements is the inverse of DecodeElements.
func (f *Field) EncodeElements(parts []Element, secLen int) ([]byte, error) {
	return field.EncodeChunks(parts, secLen, f.chunk, f.Bytes)
}
