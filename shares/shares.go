// Copyright 2021 Google LLC
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

// Package shares contains functions for processing DEK shares and share bundles.
package shares

import (
	"bytes"
	"fmt"

	"github.com/GoogleCloudPlatform/polyshare/config"
	"github.com/GoogleCloudPlatform/polyshare/constants"
	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/GoogleCloudPlatform/polyshare/secrets"
	"github.com/GoogleCloudPlatform/polyshare/shamir"
	"github.com/google/tink/go/subtle/random"

	"crypto/sha256"
)

// DEKBytes is the size of the DEK in bytes.
const DEKBytes uint32 = 32

// DEK represents a byte array that serves as a Data Encryption Key.
type DEK [DEKBytes]byte

// NewDEK randomly generates and returns a DEK.
func NewDEK() DEK {
	var dek DEK
	copy(dek[:DEKBytes], random.GetRandomBytes(DEKBytes))

	return dek
}

// UnwrappedShare represents a share in its "value || x" wire form and where it was read from.
type UnwrappedShare struct {
	Share  []byte
	Source string
}

// HashShare performs a SHA-256 hash on the provided share.
func HashShare(share []byte) []byte {
	hash := sha256.Sum256(share)
	return hash[:]
}

// ValidateShare performs HashShare on the provided share, then returns whether
// the result is equal to the provided hash.
func ValidateShare(share []byte, expectedHash []byte) bool {
	actualHash := HashShare(share)
	return bytes.Equal(actualHash[:], expectedHash[:])
}

func convertToByteShares(shares []secrets.Share) [][]byte {
	byteShares := make([][]byte, 0, len(shares))
	for _, share := range shares {
		// The X value is appended to the end of each share.
		shareWithX := make([]byte, 0, len(share.Value)+1)
		shareWithX = append(shareWithX, share.Value...)
		shareWithX = append(shareWithX, byte(share.X))
		byteShares = append(byteShares, shareWithX)
	}

	return byteShares
}

// SplitShares takes a DEK as `data`, and returns a slice of byte slices, each representing
// one of the n shares over the field id.
func SplitShares(data []byte, id finitefield.ID, numShares, threshold int) ([][]byte, error) {
	// Validate data length is DEKBytes.
	if len(data) != int(DEKBytes) {
		return nil, fmt.Errorf("data has length %v, expected %v", len(data), DEKBytes)
	}
	if numShares > constants.MaxWireShares {
		return nil, fmt.Errorf("at most %d shares are supported, got %d", constants.MaxWireShares, numShares)
	}

	md := secrets.Metadata{
		Field:     id,
		NumShares: numShares,
		Threshold: threshold,
	}
	split, err := shamir.SplitSecret(md, data)
	if err != nil {
		return nil, fmt.Errorf("error splitting secret: %v", err)
	}

	// Validate the returned data.
	if split.SecretLen != int(DEKBytes) {
		return nil, fmt.Errorf("split indicates secret has length %v, expected %v", split.SecretLen, DEKBytes)
	}

	return convertToByteShares(split.Shares), nil
}

func convertToSecretShares(unwrappedShares []UnwrappedShare, shareSize int) ([]secrets.Share, error) {
	secretShares := make([]secrets.Share, 0, len(unwrappedShares))
	for _, unwrapped := range unwrappedShares {
		share := unwrapped.Share
		if len(share) != shareSize+1 {
			return nil, fmt.Errorf("share from %q has length %d, expected %d", unwrapped.Source, len(share), shareSize+1)
		}

		// Split each share into the value and the X field (last byte).
		secretShare := secrets.Share{
			Value: share[:len(share)-1],
			X:     int(share[len(share)-1]),
		}

		secretShares = append(secretShares, secretShare)
	}

	return secretShares, nil
}

// CombineShares takes a list of shares and reconstitutes the original data. Note that this does not
// guarantee the shares are correct (SSS will succeed at "reconstructing" data from
// even faulty shares), so integrity checks are done separately.
func CombineShares(shares []UnwrappedShare, id finitefield.ID, numShares, threshold int) ([]byte, error) {
	shareSize, err := shamir.ShareSize(id, int(DEKBytes))
	if err != nil {
		return nil, err
	}
	secretShares, err := convertToSecretShares(shares, shareSize)
	if err != nil {
		return nil, err
	}

	split := secrets.Split{
		SecretLen: int(DEKBytes),
		Metadata: secrets.Metadata{
			Field:     id,
			NumShares: numShares,
			Threshold: threshold,
		},
		Shares: secretShares,
	}

	return shamir.Reconstruct(split)
}

// CreateDEKShares splits the DEK into shares, if the key config asks for it.
func CreateDEKShares(dek DEK, keyCfg *config.KeyConfig) ([][]byte, error) {
	if keyCfg == nil {
		return nil, fmt.Errorf("no key config provided")
	}
	if err := keyCfg.Validate(); err != nil {
		return nil, err
	}

	var shares [][]byte

	// Depending on the key splitting algorithm given in the KeyConfig, take
	// the DEK and split it.
	switch {

	// Don't split the DEK.
	case keyCfg.NoSplit != nil:
		shares = [][]byte{dek[:]}

	// Split DEK with Shamir's Secret Sharing.
	case keyCfg.Shamir != nil:
		shamirConfig := keyCfg.Shamir

		var err error
		shares, err = SplitShares(dek[:], shamirConfig.Field, shamirConfig.Shares, shamirConfig.Threshold)
		if err != nil {
			return nil, fmt.Errorf("error splitting encryption key: %v", err)
		}

	default:
		return nil, fmt.Errorf("unknown key splitting algorithm")
	}

	return shares, nil
}

// CombineUnwrappedShares reconstitutes and returns the DEK from the provided shares.
func CombineUnwrappedShares(keyCfg *config.KeyConfig, unwrappedShares []UnwrappedShare) ([]byte, error) {
	if keyCfg == nil {
		return nil, fmt.Errorf("no key config provided")
	}
	if err := keyCfg.Validate(); err != nil {
		return nil, err
	}

	// Reconstitute DEK.
	var combinedShares []byte

	switch {
	// DEK wasn't split, so combined shares is just the sole share.
	case keyCfg.NoSplit != nil:
		if len(unwrappedShares) != 1 {
			return nil, fmt.Errorf("number of unwrapped shares is %v but expected 1 for 'no split' option", len(unwrappedShares))
		}

		combinedShares = unwrappedShares[0].Share

	// Reverse Shamir's Secret Sharing to reconstitute the whole DEK.
	case keyCfg.Shamir != nil:
		shamirConfig := keyCfg.Shamir
		if len(unwrappedShares) < shamirConfig.Threshold {
			return nil, fmt.Errorf("only successfully unwrapped %v shares, which is fewer than threshold of %v", len(unwrappedShares), shamirConfig.Threshold)
		}
		var err error
		combinedShares, err = CombineShares(unwrappedShares, shamirConfig.Field, shamirConfig.Shares, shamirConfig.Threshold)
		if err != nil {
			return nil, fmt.Errorf("error combining DEK shares: %v", err)
		}

	default:
		return nil, fmt.Errorf("unknown key splitting algorithm")

	}

	if len(combinedShares) != int(DEKBytes) {
		return nil, fmt.Errorf("reconstituted DEK has the wrong length")
	}

	return combinedShares, nil
}
