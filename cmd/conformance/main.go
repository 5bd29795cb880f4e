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

// Binary to validate the conformance of every supported field with the polynomial and secret
// sharing properties the library relies on.
package main

import (
	"fmt"
	"os"

	"flag"
	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/alecthomas/colour"
)

var (
	fieldName = flag.String("field", "", "Only check this field (GF32, P256 or BN254)")
	rounds    = flag.Int("rounds", 64, "Number of random rounds for the field axiom checks")
)

func main() {
	flag.Parse()

	fields := []finitefield.ID{finitefield.GF32, finitefield.P256, finitefield.BN254}
	if *fieldName != "" {
		id, err := finitefield.Parse(*fieldName)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fields = []finitefield.ID{id}
	}

	failed := false
	for _, id := range fields {
		fmt.Printf("Running %v tests...\n", id)
		for _, p := range propertiesFor(id, *rounds) {
			if err := p.check(); err != nil {
				failed = true
				colour.Printf("^1 - %v: %v^R\n", p.name, err)
			} else {
				colour.Printf("^2 - %v^R\n", p.name)
			}
		}
	}
	if failed {
		os.Exit(1)
	}
}
