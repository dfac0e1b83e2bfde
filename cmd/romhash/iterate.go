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
	"github.com/spf13/cobra"
)

func newIterateCmd() *cobra.Command {
	var backendName string

	cmd := &cobra.Command{
		Use:   "iterate <file>",
		Short: "Infer candidate consoles from extension/size and hash against each",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]
			if err := installCDBackend(backendName, path); err != nil {
				return err
			}

			var it romhash.Iterator
			if err := it.Initialize(path, nil); err != nil {
				return fmt.Errorf("initialize iterator for %s: %w", path, err)
			}
			defer it.Destroy()

			result, ok := it.Iterate()
			if !ok {
				return fmt.Errorf("no candidate recipe succeeded for %s", path)
			}
			fmt.Println(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&backendName, "backend", "auto", "CD backend: auto, chd, cue, raw")
	return cmd
}
