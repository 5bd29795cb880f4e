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

package field

import "fmt"

// DecodeChunks splits b into consecutive big endian chunks of chunkSize bytes and converts each
// chunk with fromBytes. The last chunk is shorter when len(b) is not a multiple of chunkSize.
// chunkSize must be small enough that every chunk is smaller than the field order.
func DecodeChunks[E any](b []byte, chunkSize int, fromBytes func([]byte) E) []E {
	out := make([]E, 0, (len(b)+chunkSize-1)/chunkSize)
	for off := 0; off < len(b); off += chunkSize {
		end := min(off+chunkSize, len(b))
		out = append(out, fromBytes(b[off:end]))
	}
	return out
}

// EncodeChunks is the inverse of DecodeChunks: it writes each element, as returned by toBytes,
// back into a secLen-byte slice. An error is returned if an element does not fit in its chunk.
func EncodeChunks[E any](parts []E, secLen, chunkSize int, toBytes func(E) []byte) ([]byte, error) {
	if want := (secLen + chunkSize - 1) / chunkSize; len(parts) != want {
		return nil, fmt.Errorf("can't encode %d elements into secret len %d, want %d elements", len(parts), secLen, want)
	}
	out := make([]byte, secLen)
	for i, p := range parts {
		off := i * chunkSize
		n := min(chunkSize, secLen-off)
		enc := toBytes(p)
		if len(enc) < n {
			return nil, fmt.Errorf("element %d encodes to %d bytes, want at least %d", i, len(enc), n)
		}
		for _, b := range enc[:len(enc)-n] {
			if b != 0 {
				return nil, fmt.Errorf("element %d does not fit in %d bytes", i, n)
			}
		}
		copy(out[off:off+n], enc[len(enc)-n:])
	}
	return out, nil
}
