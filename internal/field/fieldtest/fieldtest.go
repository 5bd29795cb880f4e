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

// Package fieldtest checks that a field.Field implementation satisfies the field axioms
// the polynomial and secret sharing code relies on.
package fieldtest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/GoogleCloudPlatform/polyshare/internal/field"
)

// CheckAxioms draws rounds triples of random elements from r and verifies the field axioms
// on them. It returns the first violation found.
func CheckAxioms[E any](f field.Field[E], r io.Reader, rounds int) error {
	zero, one := f.Zero(), f.One()
	if f.Equal(zero, one) {
		return fmt.Errorf("zero equals one")
	}
	if _, err := f.Inverse(zero); !errors.Is(err, field.ErrNotInvertible) {
		return fmt.Errorf("Inverse(0) err = %v, want %v", err, field.ErrNotInvertible)
	}
	if err := checkSmallIntegers(f); err != nil {
		return err
	}
	for i := 0; i < rounds; i++ {
		a, err := f.Random(r)
		if err != nil {
			return err
		}
		b, err := f.Random(r)
		if err != nil {
			return err
		}
		c, err := f.Random(r)
		if err != nil {
			return err
		}
		checks := []struct {
			name      string
			got, want E
		}{
			{"a + 0 = a", f.Add(a, zero), a},
			{"a * 1 = a", f.Mul(a, one), a},
			{"a * 0 = 0", f.Mul(a, zero), zero},
			{"a + b = b + a", f.Add(a, b), f.Add(b, a)},
			{"a * b = b * a", f.Mul(a, b), f.Mul(b, a)},
			{"(a + b) + c = a + (b + c)", f.Add(f.Add(a, b), c), f.Add(a, f.Add(b, c))},
			{"(a * b) * c = a * (b * c)", f.Mul(f.Mul(a, b), c), f.Mul(a, f.Mul(b, c))},
			{"a * (b + c) = a*b + a*c", f.Mul(a, f.Add(b, c)), f.Add(f.Mul(a, b), f.Mul(a, c))},
			{"a + (-a) = 0", f.Add(a, f.Neg(a)), zero},
			{"a - b = a + (-b)", f.Sub(a, b), f.Add(a, f.Neg(b))},
			{"(a - b) + b = a", f.Add(f.Sub(a, b), b), a},
		}
		for _, chk := range checks {
			if !f.Equal(chk.got, chk.want) {
				return fmt.Errorf("%s: got %v, want %v (a=%v, b=%v)", chk.name, chk.got, chk.want, a, b)
			}
		}
		if f.Equal(a, zero) {
			continue
		}
		inv, err := f.Inverse(a)
		if err != nil {
			return fmt.Errorf("Inverse(%v) err = %v", a, err)
		}
		if got := f.Mul(a, inv); !f.Equal(got, one) {
			return fmt.Errorf("a * a^-1 = %v, want 1 (a=%v)", got, a)
		}
	}
	return nil
}

func checkSmallIntegers[E any](f field.Field[E]) error {
	if _, err := f.CreateElement(-1); err == nil {
		return fmt.Errorf("CreateElement(-1) err = nil, want error")
	}
	elems := make([]E, 7)
	for i := range elems {
		e, err := f.CreateElement(i)
		if err != nil {
			return fmt.Errorf("CreateElement(%d) err = %v", i, err)
		}
		elems[i] = e
	}
	if !f.Equal(elems[0], f.Zero()) || !f.Equal(elems[1], f.One()) {
		return fmt.Errorf("CreateElement(0), CreateElement(1) = %v, %v, want 0, 1", elems[0], elems[1])
	}
	if got := f.Add(elems[2], elems[3]); !f.Equal(got, elems[5]) {
		return fmt.Errorf("2 + 3 = %v, want 5", got)
	}
	if got := f.Mul(elems[2], elems[3]); !f.Equal(got, elems[6]) {
		return fmt.Errorf("2 * 3 = %v, want 6", got)
	}
	if got := f.Sub(elems[2], elems[3]); !f.Equal(f.Add(got, elems[1]), elems[0]) {
		return fmt.Errorf("2 - 3 = %v, want -1", got)
	}
	return nil
}

// CheckCodec verifies that every secret survives DecodeElements followed by EncodeElements, and
// that Bytes and ReadElement are inverses of each other.
func CheckCodec[E any](gf field.GaloisField[E], secrets [][]byte) error {
	for _, s := range secrets {
		elems := gf.DecodeElements(s)
		got, err := gf.EncodeElements(elems, len(s))
		if err != nil {
			return fmt.Errorf("EncodeElements(len %d) err = %v", len(s), err)
		}
		if !bytes.Equal(got, s) {
			return fmt.Errorf("EncodeElements(DecodeElements(%x)) = %x", s, got)
		}
		var buf []byte
		for _, e := range elems {
			enc := gf.Bytes(e)
			if len(enc) != gf.ElementSize() {
				return fmt.Errorf("Bytes(%v) has length %d, want %d", e, len(enc), gf.ElementSize())
			}
			buf = append(buf, enc...)
		}
		for i, e := range elems {
			read, err := gf.ReadElement(buf, i)
			if err != nil {
				return fmt.Errorf("ReadElement(%d) err = %v", i, err)
			}
			if !gf.Equal(read, e) {
				return fmt.Errorf("ReadElement(%d) = %v, want %v", i, read, e)
			}
		}
		if _, err := gf.ReadElement(buf, len(elems)); err == nil {
			return fmt.Errorf("ReadElement past the end err = nil, want error")
		}
	}
	return nil
}
