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

package main

import (
	"testing"

	"github.com/GoogleCloudPlatform/polyshare/finitefield"
)

func TestAllPropertiesHold(t *testing.T) {
	for _, id := range []finitefield.ID{finitefield.GF32, finitefield.P256, finitefield.BN254} {
		t.Run(id.String(), func(t *testing.T) {
			for _, p := range propertiesFor(id, 8) {
				if err := p.check(); err != nil {
					t.Errorf("%s: %v", p.name, err)
				}
			}
		})
	}
}

func TestUnknownFieldFails(t *testing.T) {
	props := propertiesFor(finitefield.ID(42), 1)
	if len(props) != 1 || props[0].check() == nil {
		t.Errorf("propertiesFor(unknown) should yield a single failing property")
	}
}
