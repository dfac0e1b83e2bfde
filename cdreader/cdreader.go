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

// Package cdreader is the pluggable CD-reader facade described in
// spec.md §4.C. Unlike fileio, there is no default backend: parsing
// .cue/.chd/.bin containers is explicitly the installed backend's
// problem (spec.md §1), not core engine logic. See the cdbackend
// package for a ready-made backend that does that parsing.
package cdreader

import (
	"fmt"

	"github.com/retrohash/romhash/rcerr"
)

// Selector picks a track within an open disc image: either a 1-based
// track index, or one of the sentinels below that the backend resolves
// to a concrete track.
type Selector int32

// Track-selector sentinels (spec.md §3). Positive values >= 1 address a
// track directly.
const (
	FirstData Selector = -1
	Largest   Selector = -2
	Last      Selector = -3
)

// NotInTrack is the sentinel absolute_to_track_sector returns when the
// requested absolute sector does not fall within the currently open
// track. spec.md describes this at the C ABI as "a value whose high bit
// is set when interpreted as signed"; here it is simply a negative
// int64, avoiding the need to reinterpret an unsigned sentinel.
const NotInTrack int64 = -1

// Handle is an opaque, backend-owned track handle. A single logical CD
// may be opened multiple times with different selectors, each call
// yielding an independent Handle that must be closed independently.
type Handle interface{}

// Backend is the pluggable CD-I/O contract (spec.md §6).
type Backend struct {
	OpenTrack             func(path string, selector Selector) (Handle, error)
	ReadSector            func(h Handle, absSector uint32, buf []byte) (int, error)
	AbsoluteToTrackSector func(h Handle, absSector uint32) int64
	CloseTrack            func(h Handle) error
}

var current *Backend

// Install replaces the process-wide CD backend. Passing nil uninstalls
// it, after which every CD operation fails with ErrNotInstalled. Not
// concurrency-safe with respect to in-flight hashing calls: callers
// must serialize installation against hashing, per spec.md §5.
func Install(b *Backend) {
	current = b
}

// ErrNotInstalled is returned by every CD operation when no backend has
// been installed, naming the missing hook as spec.md §4.C requires. It
// is an alias for rcerr.ErrBackendMissing so that callers matching on
// the root package's exported taxonomy (romhash.ErrBackendMissing) and
// callers matching on this package's own name see the same type.
type ErrNotInstalled = rcerr.ErrBackendMissing

// OpenTrack opens selector within the disc image at path.
func OpenTrack(path string, selector Selector) (Handle, error) {
	if current == nil || current.OpenTrack == nil {
		return nil, ErrNotInstalled{Operation: "open_track"}
	}
	return current.OpenTrack(path, selector)
}

// ReadSector reads into buf starting at the disc-absolute sector
// absSector, returning the number of bytes actually read.
func ReadSector(h Handle, absSector uint32, buf []byte) (int, error) {
	if current == nil || current.ReadSector == nil {
		return 0, ErrNotInstalled{Operation: "read_sector"}
	}
	return current.ReadSector(h, absSector, buf)
}

// AbsoluteToTrackSector translates a disc-absolute sector to a sector
// relative to h's track, or NotInTrack if absSector does not fall
// within it.
func AbsoluteToTrackSector(h Handle, absSector uint32) int64 {
	if current == nil || current.AbsoluteToTrackSector == nil {
		return NotInTrack
	}
	return current.AbsoluteToTrackSector(h, absSector)
}

// CloseTrack releases h.
func CloseTrack(h Handle) error {
	if current == nil || current.CloseTrack == nil {
		return ErrNotInstalled{Operation: "close_track"}
	}
	return current.CloseTrack(h)
}

// ReadSectorFull reads exactly n bytes from absSector, failing if fewer
// bytes were returned (a short CD read is a deterministic failure per
// spec.md §5 — there are no retries or timeouts).
func ReadSectorFull(h Handle, absSector uint32, n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := ReadSector(h, absSector, buf)
	if err != nil {
		return nil, err
	}
	if got < n {
		return nil, fmt.Errorf("cdreader: short sector read: wanted %d bytes, got %d", n, got)
	}
	return buf, nil
}
