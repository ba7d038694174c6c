// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/mariolabs/geoprofile/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
