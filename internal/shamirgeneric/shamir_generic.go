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

// Package shamirgeneric implements shamir secret sharing with a generic group structure.
//
// Split and Reconstruct work on single field elements. SplitSecret and
// ReconstructSecret work on arbitrary-length byte secrets by sharing every field
// element the secret decodes to.
package shamirgeneric

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/GoogleCloudPlatform/polyshare/internal/field"
	"github.com/GoogleCloudPlatform/polyshare/internal/lagrange"
	"github.com/GoogleCloudPlatform/polyshare/secrets"
	"github.com/google/uuid"
)

// ErrInsufficientShares is returned when fewer shares than the threshold are supplied to
// reconstruct a byte secret.
var ErrInsufficientShares = errors.New("not enough shares to reconstruct the secret")

// SplitSecret splits a secret into n shares where t or more shares can be combined to reconstruct
// the original secret using shamir secret sharing.
func SplitSecret[E any](metadata secrets.Metadata, secret []byte, gf field.GaloisField[E]) (secrets.Split, error) {
	if err := validateSplitInput(metadata, secret, gf); err != nil {
		return secrets.Split{}, err
	}
	// The `secret` can be an arbitrary length byte array, but each element in a field is of
	// a finite size, hence the `secret` is split into a set of elements in the field.
	subsecrets := gf.DecodeElements(secret)
	shares := make([]secrets.Share, metadata.NumShares)
	for i := range shares {
		shares[i].X = i + 1
		shares[i].Value = make([]byte, 0, len(subsecrets)*gf.ElementSize())
	}

	// Each subsecret is the constant coefficient of its own random polynomial of degree
	// threshold - 1, so the shares hold one evaluation per subsecret:
	// shares[0] = 			[ F1(1), F2(1), ..., FN(1) ]
	// shares[1] = 			[ F1(2), F2(2), ..., FN(2) ]
	// shares[N - 1] = 	[ F1(N), F2(N), ..., FN(N) ]
	for _, subsecret := range subsecrets {
		subshares, err := Split[E](gf, subsecret, metadata.Threshold, metadata.NumShares, rand.Reader)
		if err != nil {
			return secrets.Split{}, err
		}
		for i, s := range subshares {
			shares[i].Value = append(shares[i].Value, gf.Bytes(s.Y)...)
		}
	}
	return secrets.Split{
		ID:        uuid.NewString(),
		Shares:    shares,
		Metadata:  metadata,
		SecretLen: len(secret),
	}, nil
}

// ReconstructSecret reconstructs a secret with at least t out of n shares using shamir secret sharing.
func ReconstructSecret[E any](splitSecret secrets.Split, gf field.GaloisField[E]) ([]byte, error) {
	if err := validateReconstructInput(splitSecret, gf); err != nil {
		return nil, err
	}
	allX, err := evaluationPoints[E](splitSecret.Shares, gf)
	if err != nil {
		return nil, err
	}
	// We only need `threshold` shares to reconstruct the secrets.
	shares := splitSecret.Shares[:splitSecret.Metadata.Threshold]
	xVals := allX[:len(shares)]
	// The Lagrange coefficients only depend on the x coordinates, so they are computed once
	// and reused for every subsecret.
	coefficients, err := lagrange.CoefficientsAtZero[E](gf, xVals)
	if err != nil {
		return nil, err
	}
	numSubSecrets := len(shares[0].Value) / gf.ElementSize()
	subsecrets := make([]E, numSubSecrets)
	yVals := make([]E, len(shares))
	for i := range subsecrets {
		for j, s := range shares {
			if yVals[j], err = gf.ReadElement(s.Value, i); err != nil {
				return nil, fmt.Errorf("share %d: %v", s.X, err)
			}
		}
		// The constant coefficient is the intersection with the Y axis.
		if subsecrets[i], err = lagrange.Combine[E](gf, coefficients, yVals); err != nil {
			return nil, err
		}
	}
	// combine the subsecret field elements into the original secrets.
	return gf.EncodeElements(subsecrets, splitSecret.SecretLen)
}

func validateSplitInput[E any](metadata secrets.Metadata, secret []byte, gf field.GaloisField[E]) error {
	if len(secret) == 0 {
		return fmt.Errorf("secret must not be nil")
	}
	if metadata.Threshold < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, metadata.Threshold)
	}
	if metadata.Threshold > metadata.NumShares {
		return fmt.Errorf("%w: threshold %d, numShares %d", ErrInvalidShareCount, metadata.Threshold, metadata.NumShares)
	}
	if metadata.Field != gf.FieldID() {
		return fmt.Errorf("field ID mismatch: metadata has %v, field is %v", metadata.Field, gf.FieldID())
	}
	return nil
}

func validateReconstructInput[E any](splitSecret secrets.Split, gf field.GaloisField[E]) error {
	md := splitSecret.Metadata
	if md.Threshold < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, md.Threshold)
	}
	if md.NumShares < md.Threshold {
		return fmt.Errorf("%w: threshold %d, numShares %d", ErrInvalidShareCount, md.Threshold, md.NumShares)
	}
	if md.Field != gf.FieldID() {
		return fmt.Errorf("field ID mismatch: metadata has %v, field is %v", md.Field, gf.FieldID())
	}
	if len(splitSecret.Shares) < md.Threshold {
		return fmt.Errorf("%w: need at least %d, got %d", ErrInsufficientShares, md.Threshold, len(splitSecret.Shares))
	}
	size := len(splitSecret.Shares[0].Value)
	for _, s := range splitSecret.Shares {
		if s.X <= 0 {
			return fmt.Errorf("invalid X value: %d", s.X)
		}
		if len(s.Value) == 0 {
			return fmt.Errorf("empty secret value")
		}
		if len(s.Value) != size || len(s.Value)%gf.ElementSize() != 0 {
			return fmt.Errorf("share %d has length %d, want %d (a multiple of %d)", s.X, len(s.Value), size, gf.ElementSize())
		}
	}
	return nil
}

// evaluationPoints converts the X value of every share into a field element. X values that
// reduce to zero or collide with another share's X are rejected, whether or not the share is
// needed for reconstruction.
func evaluationPoints[E any](shares []secrets.Share, gf field.GaloisField[E]) ([]E, error) {
	xs := make([]E, len(shares))
	for i, s := range shares {
		x, err := gf.CreateElement(s.X)
		if err != nil {
			return nil, err
		}
		if gf.Equal(x, gf.Zero()) {
			return nil, fmt.Errorf("invalid X value: %d is zero in %v", s.X, gf.FieldID())
		}
		for j := 0; j < i; j++ {
			if gf.Equal(xs[j], x) {
				return nil, fmt.Errorf("%w: shares %d and %d have X values %d and %d", lagrange.ErrDuplicateEvaluationPoint, j, i, shares[j].X, s.X)
			}
		}
		xs[i] = x
	}
	return xs, nil
}
