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

// Package finitefield represents the finite fields supported by the secret sharing library.
package finitefield

import (
	"fmt"
	"strings"
)

// ID represents a finite field supported by the secret sharing library.
type ID int

const (
	// GF32 is the prime field of order 2147483659, elements fit in 31 bits.
	GF32 ID = 1 + iota
	// P256 is the prime field of order 2^256 - 189, backed by arbitrary-precision integers.
	P256
	// BN254 is the base field of the BN254 curve, backed by a fixed-width native representation.
	BN254
)

func (id ID) String() string {
	switch id {
	case GF32:
		return "GF32"
	case P256:
		return "P256"
	case BN254:
		return "BN254"
	default:
		return fmt.Sprintf("unknown finite field ID: %d", id)
	}
}

// Parse returns the ID whose String() matches name, ignoring case.
func Parse(name string) (ID, error) {
	for _, id := range []ID{GF32, P256, BN254} {
		if strings.EqualFold(name, id.String()) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown finite field: %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	if _, err := Parse(id.String()); err != nil {
		return nil, err
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
