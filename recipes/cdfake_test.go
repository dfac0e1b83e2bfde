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

package recipes

import (
	"fmt"
	"testing"

	"github.com/retrohash/romhash/cdreader"
)

// fakeTrack is an in-memory stand-in for a cdreader.Handle, mirroring the
// track-selection logic of cdbackend/chd's real Backend (see
// cdbackend/chd/backend.go's selectTrack) closely enough that recipe
// tests exercise the same selector semantics a real backend would.
type fakeTrack struct {
	number  int
	isData  bool
	start   uint32
	sectors [][]byte
}

var fakeDiscs = map[string][]*fakeTrack{}

// registerFakeDisc installs path as a lookup key for tracks, undone
// automatically when t finishes.
func registerFakeDisc(t *testing.T, path string, tracks []*fakeTrack) {
	t.Helper()
	fakeDiscs[path] = tracks
	t.Cleanup(func() { delete(fakeDiscs, path) })
}

// installFakeCDBackend wires cdreader to fakeDiscs for the duration of t.
func installFakeCDBackend(t *testing.T) {
	t.Helper()
	cdreader.Install(&cdreader.Backend{
		OpenTrack: func(path string, selector cdreader.Selector) (cdreader.Handle, error) {
			tracks, ok := fakeDiscs[path]
			if !ok {
				return nil, fmt.Errorf("fakecd: no disc registered at %q", path)
			}
			return selectFakeTrack(tracks, selector)
		},
		ReadSector: func(h cdreader.Handle, absSector uint32, buf []byte) (int, error) {
			tr := h.(*fakeTrack) //nolint:forcetypeassert // test double, always our own handle
			idx := int(absSector) - int(tr.start)
			if idx < 0 || idx >= len(tr.sectors) {
				return 0, fmt.Errorf("fakecd: sector %d out of range for track %d", absSector, tr.number)
			}
			return copy(buf, tr.sectors[idx]), nil
		},
		AbsoluteToTrackSector: func(h cdreader.Handle, absSector uint32) int64 {
			tr := h.(*fakeTrack) //nolint:forcetypeassert // test double, always our own handle
			idx := int64(absSector) - int64(tr.start)
			if idx < 0 || idx >= int64(len(tr.sectors)) {
				return cdreader.NotInTrack
			}
			return idx
		},
		CloseTrack: func(cdreader.Handle) error { return nil },
	})
	t.Cleanup(func() { cdreader.Install(nil) })
}

func selectFakeTrack(tracks []*fakeTrack, selector cdreader.Selector) (*fakeTrack, error) {
	switch selector {
	case cdreader.FirstData:
		for _, tr := range tracks {
			if tr.isData {
				return tr, nil
			}
		}
		return nil, fmt.Errorf("fakecd: no data track")
	case cdreader.Largest:
		var best *fakeTrack
		for _, tr := range tracks {
			if best == nil || len(tr.sectors) > len(best.sectors) {
				best = tr
			}
		}
		if best == nil {
			return nil, fmt.Errorf("fakecd: no tracks")
		}
		return best, nil
	case cdreader.Last:
		if len(tracks) == 0 {
			return nil, fmt.Errorf("fakecd: no tracks")
		}
		return tracks[len(tracks)-1], nil
	default:
		for _, tr := range tracks {
			if tr.number == int(selector) {
				return tr, nil
			}
		}
		return nil, fmt.Errorf("fakecd: track %d not found", selector)
	}
}

// sector pads data to a full 2048-byte sector.
func sector(data []byte) []byte {
	s := make([]byte, 2048)
	copy(s, data)
	return s
}

// newTrack builds a fakeTrack from raw (unpadded) sector payloads.
func newTrack(number int, isData bool, start uint32, rawSectors ...[]byte) *fakeTrack {
	padded := make([][]byte, len(rawSectors))
	for i, d := range rawSectors {
		padded[i] = sector(d)
	}
	return &fakeTrack{number: number, isData: isData, start: start, sectors: padded}
}

// iso9660Record builds a minimal ISO-9660 directory record: just enough
// for iso9660.FindFileSector (extent LE24 @ +2, size LE32 @ +10, name
// length @ +32, name @ +33) to resolve it.
func iso9660Record(name string, extent, size uint32) []byte {
	recLen := 33 + len(name)
	if recLen%2 != 0 {
		recLen++
	}
	rec := make([]byte, recLen)
	rec[0] = byte(recLen)
	rec[2] = byte(extent)
	rec[3] = byte(extent >> 8)
	rec[4] = byte(extent >> 16)
	rec[5] = byte(extent >> 24)
	rec[10] = byte(size)
	rec[11] = byte(size >> 8)
	rec[12] = byte(size >> 16)
	rec[13] = byte(size >> 24)
	rec[32] = byte(len(name))
	copy(rec[33:], name)
	return rec
}

// iso9660DirSector concatenates directory records into one sector.
func iso9660DirSector(records ...[]byte) []byte {
	buf := make([]byte, 2048)
	off := 0
	for _, r := range records {
		off += copy(buf[off:], r)
	}
	return buf
}

// iso9660RootSector builds the sector-16 PVD fragment iso9660.FindFileSector
// reads: just the root directory record's extent field at offset 158.
func iso9660RootSector(rootExtent uint32) []byte {
	buf := make([]byte, 2048)
	buf[156+2] = byte(rootExtent)
	buf[156+3] = byte(rootExtent >> 8)
	buf[156+4] = byte(rootExtent >> 16)
	return buf
}
