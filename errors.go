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

package romhash

import "github.com/retrohash/romhash/rcerr"

// Error types are defined in package rcerr (shared by recipes and this
// package to avoid an import cycle) and re-exported here under their
// familiar names, the way gameid.go re-exports identifier.Console.
type (
	ErrUnsupportedConsole = rcerr.ErrUnsupportedConsole
	ErrOpenFailed         = rcerr.ErrOpenFailed
	ErrShortRead          = rcerr.ErrShortRead
	ErrFormatMismatch     = rcerr.ErrFormatMismatch
	ErrStructuralSanity   = rcerr.ErrStructuralSanity
	ErrLookupMiss         = rcerr.ErrLookupMiss
	ErrBackendMissing     = rcerr.ErrBackendMissing
	ErrAllocation         = rcerr.ErrAllocation
)
