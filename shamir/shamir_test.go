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

package shamir_test

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/GoogleCloudPlatform/polyshare/secrets"
	"github.com/GoogleCloudPlatform/polyshare/shamir"
)

const smallSecret = "abcdefghijklmnopqrstuvwxyz123456"

var allFields = []finitefield.ID{finitefield.GF32, finitefield.P256, finitefield.BN254}

func getRandomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		t.Fatalf("Failed to read random bytes: %v", err)
	}
	return b
}

func removeAtIndex(s []secrets.Share, index int) []secrets.Share {
	return append(s[:index], s[index+1:]...)
}

func swap(s []secrets.Share, i int, j int) {
	s[i], s[j] = s[j], s[i]
}

type testCase struct {
	name     string
	secret   []byte
	metadata secrets.Metadata
	shares   []secrets.Share
}

func TestSplitReconstructWorks(t *testing.T) {
	var tests []testCase
	for _, id := range allFields {
		tests = append(tests,
			testCase{
				name:     "small secret " + id.String() + " n-6 t-4",
				secret:   []byte(smallSecret),
				metadata: secrets.Metadata{Field: id, NumShares: 6, Threshold: 4},
			},
			testCase{
				name:     "large secret " + id.String() + " n-80 t-50",
				secret:   getRandomBytes(t, 300),
				metadata: secrets.Metadata{Field: id, NumShares: 80, Threshold: 50},
			},
			testCase{
				name:     "single byte " + id.String() + " n-1 t-1",
				secret:   []byte{42},
				metadata: secrets.Metadata{Field: id, NumShares: 1, Threshold: 1},
			},
		)
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			splitSecret, err := shamir.SplitSecret(tc.metadata, tc.secret)
			if err != nil {
				t.Fatalf("shamir.SplitSecret() err = %v, want nil", err)
			}
			recon, err := shamir.Reconstruct(splitSecret)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := recon, tc.secret; !bytes.Equal(got, want) {
				t.Errorf("got %v, want %v", hex.EncodeToString(got), hex.EncodeToString(want))
			}
			size, err := shamir.ShareSize(tc.metadata.Field, len(tc.secret))
			if err != nil {
				t.Fatalf("shamir.ShareSize() err = %v, want nil", err)
			}
			for _, s := range splitSecret.Shares {
				if len(s.Value) != size {
					t.Errorf("share %d has length %d, ShareSize() = %d", s.X, len(s.Value), size)
				}
			}
		})
	}
}

func buildTestVectors(t *testing.T, numShares, threshold int) []testCase {
	t.Helper()
	var out []testCase
	for _, id := range allFields {
		out = append(out, testCase{
			name:     id.String(),
			secret:   getRandomBytes(t, 32),
			metadata: secrets.Metadata{Field: id, NumShares: numShares, Threshold: threshold},
		})
	}
	return out
}

func TestReconstructWithoutAllShares(t *testing.T) {
	numShares := 6
	threshold := 4
	for _, tc := range buildTestVectors(t, numShares, threshold) {
		t.Run(tc.name, func(t *testing.T) {
			splitSecret, err := shamir.SplitSecret(tc.metadata, tc.secret)
			if err != nil {
				t.Fatal(err)
			}
			splitSecret.Shares = removeAtIndex(splitSecret.Shares, 5)
			splitSecret.Shares = removeAtIndex(splitSecret.Shares, 0)
			recon, err := shamir.Reconstruct(splitSecret)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := recon, tc.secret; !bytes.Equal(got, want) {
				t.Errorf("got %v, want %v", hex.EncodeToString(got), hex.EncodeToString(want))
			}
			// swapping the order shouldn't matter.
			swap(splitSecret.Shares, 0, 2)
			if recon, err = shamir.Reconstruct(splitSecret); err != nil {
				t.Fatal(err)
			}
			if got, want := recon, tc.secret; !bytes.Equal(got, want) {
				t.Errorf("got %v, want %v", hex.EncodeToString(got), hex.EncodeToString(want))
			}
		})
	}
}

func TestReconstructWithAlteredValueUnderThresholdFails(t *testing.T) {
	numShares := 3
	threshold := 2
	for _, tc := range buildTestVectors(t, numShares, threshold) {
		t.Run(tc.name, func(t *testing.T) {
			splitSecret, err := shamir.SplitSecret(tc.metadata, tc.secret)
			if err != nil {
				t.Fatalf("shamir.SplitSecret() err = %v, want nil", err)
			}
			splitSecret.Shares[0].Value = getRandomBytes(t, len(splitSecret.Shares[0].Value))
			// The altered share either fails to decode or yields a different secret.
			recon, err := shamir.Reconstruct(splitSecret)
			if err == nil && bytes.Equal(recon, tc.secret) {
				t.Errorf("reconstructing altered value should fail")
			}
		})
	}
}

func TestReconstructWithAlteredValueAboveThresholdDoesNotAffectResult(t *testing.T) {
	numShares := 3
	threshold := 2
	for _, tc := range buildTestVectors(t, numShares, threshold) {
		t.Run(tc.name, func(t *testing.T) {
			splitSecret, err := shamir.SplitSecret(tc.metadata, tc.secret)
			if err != nil {
				t.Fatalf("shamir.SplitSecret() err = %v, want nil", err)
			}
			splitSecret.Shares[2].Value = getRandomBytes(t, len(splitSecret.Shares[0].Value))
			recon, err := shamir.Reconstruct(splitSecret)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := recon, tc.secret; !bytes.Equal(got, want) {
				t.Errorf("got %v, want %v", hex.EncodeToString(got), hex.EncodeToString(want))
			}
		})
	}
}

func TestReconstructWithFewerSharesThanThresholdFails(t *testing.T) {
	numShares := 6
	threshold := 4
	for _, tc := range buildTestVectors(t, numShares, threshold) {
		t.Run(tc.name, func(t *testing.T) {
			splitSecret, err := shamir.SplitSecret(tc.metadata, tc.secret)
			if err != nil {
				t.Fatal(err)
			}
			splitSecret.Shares = removeAtIndex(splitSecret.Shares, 5)
			splitSecret.Shares = removeAtIndex(splitSecret.Shares, 1)
			splitSecret.Shares = removeAtIndex(splitSecret.Shares, 0)
			if _, err := shamir.Reconstruct(splitSecret); err == nil {
				t.Fatalf("Reconstruct() err = nil, want error")
			}
		})
	}
}

func TestUnknownFieldFails(t *testing.T) {
	md := secrets.Metadata{Field: finitefield.ID(99), NumShares: 3, Threshold: 2}
	if _, err := shamir.SplitSecret(md, []byte(smallSecret)); err == nil {
		t.Errorf("SplitSecret() err = nil, want error")
	}
	split := secrets.Split{Metadata: md, SecretLen: 4, Shares: []secrets.Share{{Value: []byte{1, 2, 3, 4}, X: 1}}}
	if _, err := shamir.Reconstruct(split); err == nil {
		t.Errorf("Reconstruct() err = nil, want error")
	}
	if _, err := shamir.Reconstruct(secrets.Split{Metadata: md}); err == nil {
		t.Errorf("Reconstruct(no shares) err = nil, want error")
	}
	if _, err := shamir.ShareSize(md.Field, 32); err == nil {
		t.Errorf("ShareSize() err = nil, want error")
	}
}

func TestShareSize(t *testing.T) {
	for _, tc := range []struct {
		id        finitefield.ID
		secretLen int
		want      int
	}{
		{finitefield.GF32, 4, 8},
		{finitefield.GF32, 32, 36},
		{finitefield.P256, 31, 32},
		{finitefield.P256, 32, 64},
		{finitefield.BN254, 1, 32},
	} {
		got, err := shamir.ShareSize(tc.id, tc.secretLen)
		if err != nil {
			t.Fatalf("ShareSize(%v, %d) err = %v, want nil", tc.id, tc.secretLen, err)
		}
		if got != tc.want {
			t.Errorf("ShareSize(%v, %d) = %d, want %d", tc.id, tc.secretLen, got, tc.want)
		}
	}
}

func TestReconstructFromStaticShares(t *testing.T) {
	for _, tc := range []testCase{
		{
			name:   "all shares",
			secret: []byte{0, 0, 0, byte(uint8(33))},
			metadata: secrets.Metadata{
				Field:     finitefield.GF32,
				NumShares: 5,
				Threshold: 3,
			},
			shares: []secrets.Share{
				{Value: []byte{112, 207, 118, 46, 110, 212, 170, 28}, X: 1},
				{Value: []byte{48, 160, 197, 172, 38, 235, 145, 204}, X: 2},
				{Value: []byte{63, 115, 238, 144, 40, 68, 183, 71}, X: 3},
				{Value: []byte{29, 72, 240, 207, 114, 224, 26, 141}, X: 4},
				{Value: []byte{74, 31, 204, 116, 6, 189, 187, 136}, X: 5},
			},
		},
		{
			name:   "without all shares",
			secret: []byte{0, 0, 0, byte(uint8(33))},
			metadata: secrets.Metadata{
				Field:     finitefield.GF32,
				NumShares: 5,
				Threshold: 3,
			},
			shares: []secrets.Share{
				{Value: []byte{112, 207, 118, 46, 110, 212, 170, 28}, X: 1},
				{Value: []byte{63, 115, 238, 144, 40, 68, 183, 71}, X: 3},
				{Value: []byte{74, 31, 204, 116, 6, 189, 187, 136}, X: 5},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			split := secrets.Split{
				SecretLen: len(tc.secret),
				Metadata:  tc.metadata,
				Shares:    tc.shares,
			}
			recon, err := shamir.Reconstruct(split)
			if err != nil {
				t.Fatal(err)
			}
			if got := recon; !bytes.Equal(got, tc.secret) {
				t.Errorf("got %v, want %v", hex.EncodeToString(got), hex.EncodeToString(tc.secret))
			}
		})
	}
}
