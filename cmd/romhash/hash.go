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

package main

import (
	"fmt"

	"github.com/retrohash/romhash"
	"github.com/retrohash/romhash/cdbackend"
	"github.com/retrohash/romhash/cdbackend/chd"
	"github.com/retrohash/romhash/consoleid"
	"github.com/retrohash/romhash/pathutil"
	"github.com/spf13/cobra"
)

func newHashCmd() *cobra.Command {
	var consoleName, backendName string

	cmd := &cobra.Command{
		Use:   "hash <file>",
		Short: "Hash a file against a named console's recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			console, ok := consoleid.Parse(consoleName)
			if !ok {
				return fmt.Errorf("unknown console %q", consoleName)
			}

			path := args[0]
			if err := installCDBackend(backendName, path); err != nil {
				return err
			}

			result, err := romhash.GenerateFromFile(console, path)
			if err != nil {
				return fmt.Errorf("hash %s: %w", path, err)
			}
			fmt.Println(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&consoleName, "console", "c", "", "target console (see list-consoles)")
	cmd.Flags().StringVar(&backendName, "backend", "auto", "CD backend: auto, chd, cue, raw")
	_ = cmd.MarkFlagRequired("console")

	return cmd
}

// installCDBackend wires the CD backend a disc recipe needs, inferred
// from the image's extension unless overridden.
func installCDBackend(name, path string) error {
	if name == "auto" {
		switch {
		case pathutil.CompareExtension(path, "chd"):
			name = "chd"
		case pathutil.CompareExtension(path, "cue"):
			name = "cue"
		default:
			name = "raw"
		}
	}

	switch name {
	case "chd":
		romhash.InitCustomCDReader(chd.Backend())
	case "cue":
		backend, err := cdbackend.CueBackend(path)
		if err != nil {
			return err
		}
		romhash.InitCustomCDReader(backend)
	case "raw":
		romhash.InitCustomCDReader(cdbackend.RawBinBackend())
	default:
		return fmt.Errorf("unknown CD backend %q", name)
	}
	return nil
}

