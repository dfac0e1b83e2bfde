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

	"github.com/retrohash/romhash/consoleid"
	"github.com/spf13/cobra"
)

func newListConsolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-consoles",
		Short: "List every console supported by --console",
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, c := range consoleid.All() {
				fmt.Printf("%-24s (id %d)\n", c.String(), uint32(c))
			}
			return nil
		},
	}
}
