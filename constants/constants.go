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

// Package constants contains shared constants between the library and the command line tools.
package constants

import (
	"github.com/GoogleCloudPlatform/polyshare/finitefield"
)

// Version is displayed via the `version` subcommand.
const Version = "0.1.0"

// DefaultConfigName is the default name for the configuration file, looked up in the
// user's configuration directory.
const DefaultConfigName = "polyshare.yaml"

// DefaultField is the field used when neither the configuration nor a flag names one.
const DefaultField = finitefield.P256

// DefaultThreshold is the default number of shares needed to reconstruct a secret.
const DefaultThreshold = 3

// DefaultShares is the default number of shares a secret is split into.
const DefaultShares = 5

// DefaultDemoSecret is the secret shared by the `demo` subcommand.
const DefaultDemoSecret = 42

// MaxWireShares is the largest number of shares representable in the "value || x" wire
// form, which stores x in a single trailing byte.
const MaxWireShares = 255
