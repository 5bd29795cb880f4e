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

package shares

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/GoogleCloudPlatform/polyshare/secrets"
	glog "github.com/golang/glog"
	"sigs.k8s.io/yaml"
)

var (
	// ErrMixedSplits is returned when merging bundles that belong to different splits.
	ErrMixedSplits = errors.New("bundles belong to different splits")
	// ErrConflictingShares is returned when merging two valid shares with the same X but
	// different values.
	ErrConflictingShares = errors.New("conflicting shares for the same X")
)

// BundleShare is one share of a Bundle. Value and Hash are hex encoded.
type BundleShare struct {
	X     int    `json:"x"`
	Value string `json:"value"`
	Hash  string `json:"hash"`
}

// Bundle is the YAML document holding some or all shares of a split secret, together with
// everything needed to reconstruct it.
type Bundle struct {
	SplitID   string         `json:"splitId"`
	Field     finitefield.ID `json:"field"`
	Threshold int            `json:"threshold"`
	NumShares int            `json:"numShares"`
	SecretLen int            `json:"secretLen"`
	Shares    []BundleShare  `json:"shares"`
}

// NewBundle returns a bundle holding every share of split, each with its integrity hash.
func NewBundle(split secrets.Split) *Bundle {
	b := &Bundle{
		SplitID:   split.ID,
		Field:     split.Metadata.Field,
		Threshold: split.Metadata.Threshold,
		NumShares: split.Metadata.NumShares,
		SecretLen: split.SecretLen,
	}
	for _, s := range split.Shares {
		b.Shares = append(b.Shares, BundleShare{
			X:     s.X,
			Value: hex.EncodeToString(s.Value),
			Hash:  hex.EncodeToString(HashShare(hashedForm(s.X, s.Value))),
		})
	}
	return b
}

// hashedForm returns value || X, with X as a big endian uint64. Hashing this form means a
// value moved to another X fails its integrity check.
func hashedForm(x int, value []byte) []byte {
	wire := make([]byte, 0, len(value)+8)
	wire = append(wire, value...)
	return binary.BigEndian.AppendUint64(wire, uint64(x))
}

// decode returns the share's value, or an error if it can't be decoded or fails its integrity
// check.
func (s BundleShare) decode() ([]byte, error) {
	value, err := hex.DecodeString(s.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode share %d: %w", s.X, err)
	}
	hash, err := hex.DecodeString(s.Hash)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hash of share %d: %w", s.X, err)
	}
	if !ValidateShare(hashedForm(s.X, value), hash) {
		return nil, fmt.Errorf("share %d failed integrity check", s.X)
	}
	return value, nil
}

// ParseBundle parses a YAML bundle. Unknown keys are rejected.
func ParseBundle(data []byte) (*Bundle, error) {
	b := &Bundle{}
	if err := yaml.UnmarshalStrict(data, b); err != nil {
		return nil, fmt.Errorf("failed to parse share bundle: %w", err)
	}
	if b.SplitID == "" {
		return nil, fmt.Errorf("share bundle has no split ID")
	}
	return b, nil
}

// Marshal returns the YAML encoding of the bundle.
func (b *Bundle) Marshal() ([]byte, error) {
	return yaml.Marshal(b)
}

// PerShare returns one bundle per share, for handing each share to a different party.
func (b *Bundle) PerShare() []*Bundle {
	out := make([]*Bundle, 0, len(b.Shares))
	for _, s := range b.Shares {
		single := *b
		single.Shares = []BundleShare{s}
		out = append(out, &single)
	}
	return out
}

// Merge combines bundles of the same split into one, keeping a single copy of every share.
// Where several copies of a share exist, one that passes its integrity check is preferred.
// An error wrapping ErrMixedSplits is returned if the bundles don't describe the same split,
// and one wrapping ErrConflictingShares if two valid copies of a share hold different values.
func Merge(bundles ...*Bundle) (*Bundle, error) {
	if len(bundles) == 0 {
		return nil, fmt.Errorf("no bundles provided")
	}
	merged := *bundles[0]
	merged.Shares = nil
	seen := map[int]int{}
	for i, b := range bundles {
		if b.SplitID != merged.SplitID || b.Field != merged.Field || b.Threshold != merged.Threshold ||
			b.NumShares != merged.NumShares || b.SecretLen != merged.SecretLen {
			return nil, fmt.Errorf("%w: bundle %d has split %q, want %q", ErrMixedSplits, i, b.SplitID, merged.SplitID)
		}
		for _, s := range b.Shares {
			idx, ok := seen[s.X]
			if !ok {
				seen[s.X] = len(merged.Shares)
				merged.Shares = append(merged.Shares, s)
				continue
			}
			kept := merged.Shares[idx]
			if kept == s {
				continue
			}
			keptValue, keptErr := kept.decode()
			value, err := s.decode()
			switch {
			case err != nil:
				glog.Infof("Skipping duplicate share %d of split %s: %v", s.X, b.SplitID, err)
			case keptErr != nil:
				glog.Infof("Replacing share %d of split %s: %v", s.X, b.SplitID, keptErr)
				merged.Shares[idx] = s
			case !bytes.Equal(keptValue, value):
				return nil, fmt.Errorf("%w: share %d of split %s", ErrConflictingShares, s.X, b.SplitID)
			}
		}
	}
	sort.Slice(merged.Shares, func(i, j int) bool { return merged.Shares[i].X < merged.Shares[j].X })
	return &merged, nil
}

// Split decodes the bundle into a split. Shares that can't be decoded or whose hash doesn't
// match are dropped with a warning, since the remaining shares may still meet the threshold.
func (b *Bundle) Split() secrets.Split {
	split := secrets.Split{
		ID: b.SplitID,
		Metadata: secrets.Metadata{
			Field:     b.Field,
			NumShares: b.NumShares,
			Threshold: b.Threshold,
		},
		SecretLen: b.SecretLen,
	}
	for _, s := range b.Shares {
		value, err := s.decode()
		if err != nil {
			glog.Warningf("Dropping share of split %s: %v", b.SplitID, err)
			continue
		}
		split.Shares = append(split.Shares, secrets.Share{X: s.X, Value: value})
	}
	return split
}
