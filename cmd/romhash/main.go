// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-gameid.
//
// go-gameid is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-gameid is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-gameid.  If not, see <https://www.gnu.org/licenses/>.

// Command romhash exposes the romhash library's recipes from the
// command line: hash a file against a named console, or let the
// iterator infer the console from extension and size.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "romhash",
		Short: "Content-fingerprint ROM and disc images",
		Long: `romhash computes content-fingerprinting MD5 hashes for ROM and disc
images, the same algorithm family used by No-Intro/Redump-style
cataloging tools. It never opens an archive or parses a disc image
itself: .cue/.chd/.bin containers are read through a pluggable CD
backend installed up front (see the -backend flag on "hash").`,
		SilenceUsage: true,
	}

	root.AddCommand(newHashCmd())
	root.AddCommand(newIterateCmd())
	root.AddCommand(newListConsolesCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
