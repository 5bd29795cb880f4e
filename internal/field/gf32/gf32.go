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

// Package gf32 implements the prime field of order 2147483659, whose elements fit in 32 bits.
package gf32

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
	"strconv"

	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/GoogleCloudPlatform/polyshare/internal/field"
)

const (
	primeGF32   = 2147483659
	factor      = 8589934548                    // (1 << bitlen(primeGF32) * 2) // primeGF32
	barretLimit = (2147483659 * 2147483659) - 1 // primeGF32 ^ 2 - 1

	bitPerSubsecret  = 31
	elementSizeBytes = 4
)

// Element is an element in GF32.
type Element struct {
	Value uint32
}

func (e Element) String() string {
	return strconv.FormatUint(uint64(e.Value), 10)
}

// barretReduce performs barret reduction which calculates `a mod n`
// replacing divisions by multiplications. This is advantageous because
// DIV instructions are not commonly constant time, while multiplication
// tend to be.
// For a more detailed explanation see "Handbook of Applied Cryptography",
// Chapter 14.3.3 - https://cacr.uwaterloo.ca/hac/about/chap14.pdf
//
// In a standard `a mod n` calculation barret reduction approximates 1/n
// with a value m/(2^k), division by 2^k is just a right shift.
// m/(2^k) = 1/n <-> m = (2^k) / n
func barretReduce(x uint64) uint32 {
	// Only valid for values between 0 and n^2. Every element is kept reduced, so the largest
	// intermediate value is (n-1)^2.
	if x > barretLimit {
		panic(fmt.Sprintf("value out of range: %d", x))
	}
	// Mul64 returns the 128-bit product as two limbs. k is 64, so dividing by 2^k is
	// just dropping the lower limb.
	hi, _ := bits.Mul64(x, uint64(factor))
	t := x - (hi * primeGF32)
	if t < primeGF32 {
		return uint32(t)
	}
	return uint32(t - primeGF32)
}

func mod(a uint64) uint32 {
	return barretReduce(a)
}

func multiplyMod(a, b uint32) uint32 {
	return mod(uint64(a) * uint64(b))
}

func modInverse(a uint32) (uint32, error) {
	if a == 0 {
		return 0, fmt.Errorf("modular inverse isn't defined for identity element: %w", field.ErrNotInvertible)
	}
	// Fermat: a^(p-2) = a^-1 mod p.
	var inverse uint32 = 1
	for exponent := primeGF32 - 2; exponent > 0; exponent >>= 1 {
		if exponent&1 == 1 {
			inverse = multiplyMod(inverse, a)
		}
		a = multiplyMod(a, a)
	}
	return inverse, nil
}

// Field is the prime field GF32.
type Field struct{}

// New creates a new GF32.
func New() *Field { return &Field{} }

var _ field.GaloisField[Element] = (*Field)(nil)

func divideRoundUp(a, b int) int {
	return (a + b - 1) / b
}

// FieldID returns an ID for the specific field implemented.
func (f *Field) FieldID() finitefield.ID {
	return finitefield.GF32
}

// Zero returns the additive identity.
func (f *Field) Zero() Element { return Element{} }

// One returns the multiplicative identity.
func (f *Field) One() Element { return Element{Value: 1} }

// Add returns a + b modulo the field order.
func (f *Field) Add(a, b Element) Element {
	return Element{Value: mod(uint64(a.Value) + uint64(b.Value))}
}

// Neg returns -a modulo the field order.
func (f *Field) Neg(a Element) Element {
	return Element{Value: mod(primeGF32 - uint64(a.Value))}
}

// Sub returns a - b modulo the field order.
func (f *Field) Sub(a, b Element) Element {
	return Element{Value: mod(uint64(a.Value) + primeGF32 - uint64(b.Value))}
}

// Mul returns a * b modulo the field order.
func (f *Field) Mul(a, b Element) Element {
	return Element{Value: multiplyMod(a.Value, b.Value)}
}

// Inverse returns the multiplicative inverse of a.
func (f *Field) Inverse(a Element) (Element, error) {
	inv, err := modInverse(a.Value)
	if err != nil {
		return Element{}, err
	}
	return Element{Value: inv}, nil
}

// Equal reports whether a == b.
func (f *Field) Equal(a, b Element) bool {
	return a.Value == b.Value
}

// Random returns a uniformly random element in the field, including zero.
func (f *Field) Random(r io.Reader) (Element, error) {
	b := make([]byte, elementSizeBytes)
	for {
		if _, err := io.ReadFull(r, b); err != nil {
			return Element{}, fmt.Errorf("reading randomness failed: %v", err)
		}
		if v := binary.BigEndian.Uint32(b); v < primeGF32 {
			return Element{Value: v}, nil
		}
	}
}

// CreateElement creates an element in the field by performing a modulo
// operation over the field order. This function isn't guaranteed to execute
// in constant time.
func (f *Field) CreateElement(i int) (Element, error) {
	if i < 0 {
		return Element{}, fmt.Errorf("field element can't be negative: %d", i)
	}
	return Element{Value: uint32(uint64(i) % primeGF32)}, nil
}

// ElementSize returns the size in bytes of elements in the field.
func (f *Field) ElementSize() int {
	return elementSizeBytes
}

// Bytes returns a big endian representation of the element value as a byte slice.
func (f *Field) Bytes(e Element) []byte {
	o := make([]byte, elementSizeBytes)
	binary.BigEndian.PutUint32(o, e.Value)
	return o
}

// ReadElement reads a field element from a byte slice, in GF32 each element
// is a uint32. The function builds an integer by taking the next 4 bytes at
// the offset and interprets them as a big endian encoded unsigned integer.
func (f *Field) ReadElement(b []byte, i int) (Element, error) {
	if i < 0 || len(b) < ((i*elementSizeBytes)+elementSizeBytes) {
		return Element{}, fmt.Errorf("b (len = %d), is smaller than offset %d", len(b), i)
	}
	v := binary.BigEndian.Uint32(b[i*elementSizeBytes:])
	if v >= primeGF32 {
		return Element{}, fmt.Errorf("value %d at offset %d is not a field element", v, i)
	}
	return Element{Value: v}, nil
}

// EncodeElements encode field elements into a byte slice.
func (f *Field) EncodeElements(parts []Element, secLen int) ([]byte, error) {
	if want := divideRoundUp(secLen*8, bitPerSubsecret); len(parts) != want {
		return nil, fmt.Errorf("can't encode %d elements into secret len %d, want %d elements", len(parts), secLen, want)
	}
	secret := make([]byte, secLen)
	bitsDone := 0
	j := len(parts) - 1

	secretParts := make([]uint32, len(parts))
	for i, p := range parts {
		secretParts[i] = p.Value
	}

	for i := len(secret) - 1; i >= 0 && j >= 0; i-- {
		if bitPerSubsecret-bitsDone > 8 {
			secret[i] = uint8((secretParts[j] >> bitsDone) & 0xFF)
			bitsDone += 8
		} else {
			nextLowBits := uint8(secretParts[j] >> bitsDone)
			j--
			if j >= 0 {
				secret[i] = uint8(
					secretParts[j] & (0xFF >> (bitPerSubsecret - bitsDone)))
			}
			bitsDone = (bitsDone + 8) % bitPerSubsecret
			secret[i] <<= 8 - bitsDone
			secret[i] |= nextLowBits
		}
	}
	return secret, nil
}

// DecodeElements translates the byte slice into a set of elements in
// GF32. The slice is divided into 31-bit chunks, this allows the use of unsigned
// 64-bit integer multiplication without worrying about overflowing.
func (f *Field) DecodeElements(s []byte) []Element {
	bitsDone := 0

	n := divideRoundUp(len(s)*8, bitPerSubsecret)
	parts := make([]uint32, n)

	currSub := len(parts) - 1

	for i := len(s) - 1; i >= 0; i-- {
		currByte := s[i]
		if bitPerSubsecret-bitsDone > 8 {
			parts[currSub] |= uint32(currByte) << bitsDone
			bitsDone += 8
			continue
		}

		currByteRight := currByte & (0xFF >> (8 - (bitPerSubsecret - bitsDone)))
		parts[currSub] |= uint32(currByteRight) << bitsDone

		if !(i == 0 && bitsDone+8 == bitPerSubsecret) {
			bitsDone = (bitsDone + 8) % bitPerSubsecret
			currSub--
			parts[currSub] |= uint32(currByte) >> (8 - bitsDone)
		}
	}
	out := make([]Element, 0, len(parts))
	for _, p := range parts {
		out = append(out, Element{Value: p})
	}
	return out
}
