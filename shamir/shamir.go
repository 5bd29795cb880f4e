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

// Package shamir encapsulates all of the logic needed to perform t-of-n [Shamir
// Secret Sharing] (SSS) on arbitrary-size secrets over
// a finite field. SSS is based on the Lagrange interpolation theorem, which
// states that `k` points are enough to uniquely determine a polynomial of
// degree less than or equal to `k - 1`.
//
// This scheme is secure under the following assumptions:
//   - The scheme requires a trusted dealer to generate the shares. Participants
//     must trust the dealer with access to the secret and to properly generate the
//     shares.
//   - The scheme assumes a passive adversary which can observe (n - t) shares
//     without being able to reconstruct the secrets. However, this scheme
//     assumes the adversary isn't allowed to participate in the `reconstruct` step by
//     providing a chosen share.
//     Examples of this attack: https://crypto.stackexchange.com/q/41994/76875
//
// [Shamir Secret Sharing]: https://web.mit.edu/6.857/OldStuff/Fall03/ref/Shamir-HowToShareAsecrets.pdf
package shamir

import (
	"fmt"

	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/GoogleCloudPlatform/polyshare/internal/field/bn254"
	"github.com/GoogleCloudPlatform/polyshare/internal/field/gf32"
	"github.com/GoogleCloudPlatform/polyshare/internal/field/modp"
	"github.com/GoogleCloudPlatform/polyshare/internal/shamirgeneric"
	"github.com/GoogleCloudPlatform/polyshare/secrets"
)

// SplitSecret splits a secret into metadata.NumShares shares where metadata.Threshold
// or more shares can be combined to reconstruct the original secret.
func SplitSecret(metadata secrets.Metadata, secret []byte) (secrets.Split, error) {
	switch metadata.Field {
	case finitefield.GF32:
		return shamirgeneric.SplitSecret[gf32.Element](metadata, secret, gf32.New())
	case finitefield.P256:
		return shamirgeneric.SplitSecret[modp.Element](metadata, secret, modp.NewP256())
	case finitefield.BN254:
		return shamirgeneric.SplitSecret[bn254.Element](metadata, secret, bn254.New())
	default:
		return secrets.Split{}, fmt.Errorf("invalid field: %q", metadata.Field)
	}
}

// Reconstruct reconstructs the secret from secretSplit.
//
// The number of shares provided must meet the threshold specified when the
// shares were created by [SplitSecret].
//
// Reconstruct will not detect bogus or corrupted shares.
func Reconstruct(secretSplit secrets.Split) ([]byte, error) {
	if len(secretSplit.Shares) == 0 {
		return nil, fmt.Errorf("no shares provided")
	}
	switch secretSplit.Metadata.Field {
	case finitefield.GF32:
		return shamirgeneric.ReconstructSecret[gf32.Element](secretSplit, gf32.New())
	case finitefield.P256:
		return shamirgeneric.ReconstructSecret[modp.Element](secretSplit, modp.NewP256())
	case finitefield.BN254:
		return shamirgeneric.ReconstructSecret[bn254.Element](secretSplit, bn254.New())
	default:
		return nil, fmt.Errorf("invalid field: %q", secretSplit.Metadata.Field)
	}
}

// ShareSize returns the length in bytes of every share of a secretLen-byte secret split over
// the field id.
func ShareSize(id finitefield.ID, secretLen int) (int, error) {
	switch id {
	case finitefield.GF32:
		f := gf32.New()
		return len(f.DecodeElements(make([]byte, secretLen))) * f.ElementSize(), nil
	case finitefield.P256:
		f := modp.NewP256()
		return len(f.DecodeElements(make([]byte, secretLen))) * f.ElementSize(), nil
	case finitefield.BN254:
		f := bn254.New()
		return len(f.DecodeElements(make([]byte, secretLen))) * f.ElementSize(), nil
	default:
		return 0, fmt.Errorf("invalid field: %q", id)
	}
}
