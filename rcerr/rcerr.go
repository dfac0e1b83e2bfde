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

package rcerr

import (
	"fmt"

	"github.com/retrohash/romhash/consoleid"
)

// ErrUnsupportedConsole is returned when a console ID is not recognized
// by the dispatched entry point.
type ErrUnsupportedConsole struct {
	Console consoleid.ID
}

func (e ErrUnsupportedConsole) Error() string {
	return fmt.Sprintf("unsupported console: %s", e.Console)
}

// ErrOpenFailed is returned when a file or CD backend returned a null
// handle from an open call.
type ErrOpenFailed struct {
	Path   string
	Reason string
}

func (e ErrOpenFailed) Error() string {
	return fmt.Sprintf("open failed for %q: %s", e.Path, e.Reason)
}

// ErrShortRead is returned when a backend returned fewer bytes than
// requested at a site that requires the full read to proceed.
type ErrShortRead struct {
	Want int
	Got  int
}

func (e ErrShortRead) Error() string {
	return fmt.Sprintf("short read: wanted %d bytes, got %d", e.Want, e.Got)
}

// ErrFormatMismatch is returned when an expected magic or signature is
// absent, e.g. "Not a Dreamcast CD".
type ErrFormatMismatch struct {
	Console consoleid.ID
	Reason  string
}

func (e ErrFormatMismatch) Error() string {
	return fmt.Sprintf("%s: format mismatch: %s", e.Console, e.Reason)
}

// ErrStructuralSanity is returned when a declared size or offset exceeds
// a plausible bound, e.g. NDS ARM9+ARM7 code exceeding 16 MiB.
type ErrStructuralSanity struct {
	Console consoleid.ID
	Reason  string
}

func (e ErrStructuralSanity) Error() string {
	return fmt.Sprintf("%s: structural sanity violation: %s", e.Console, e.Reason)
}

// ErrLookupMiss is returned when a required on-disc file could not be
// located by the ISO-9660 locator or a console-specific directory walk.
type ErrLookupMiss struct {
	Console consoleid.ID
	Path    string
}

func (e ErrLookupMiss) Error() string {
	return fmt.Sprintf("%s: file not found on disc: %q", e.Console, e.Path)
}

// ErrBackendMissing is returned when a CD operation is invoked without a
// CD backend having been installed via InitCustomCDReader.
type ErrBackendMissing struct {
	Operation string
}

func (e ErrBackendMissing) Error() string {
	return fmt.Sprintf("no CD backend installed for operation %q", e.Operation)
}

// ErrAllocation is returned when a heap allocation request could not be
// satisfied. In Go this effectively never happens (failed allocations
// panic rather than return an error), but the type is kept so the
// taxonomy spec.md §7 describes has a direct representation and so a
// backend that simulates allocation failure (e.g. in tests) has
// somewhere to report it.
type ErrAllocation struct {
	Reason string
}

func (e ErrAllocation) Error() string {
	return fmt.Sprintf("allocation failed: %s", e.Reason)
}
