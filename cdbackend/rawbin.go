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

package cdbackend

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/retrohash/romhash/cdreader"
)

const rawSectorSize = 2048

// rawBinHandle is the Handle RawBinBackend hands back: a single-track
// image with no header framing, 2048-byte sectors throughout.
type rawBinHandle struct {
	f      *os.File
	frames int64
}

// RawBinBackend returns a cdreader.Backend for a bare .bin/.iso image
// with no accompanying .cue sheet: the entire file is treated as one
// data track of plain 2048-byte sectors starting at sector 0. Any
// selector resolves to that single track.
func RawBinBackend() *cdreader.Backend {
	return &cdreader.Backend{
		OpenTrack: func(path string, _ cdreader.Selector) (cdreader.Handle, error) {
			f, err := os.Open(path) //nolint:gosec // path is caller-supplied by design
			if err != nil {
				return nil, fmt.Errorf("rawbin: open %q: %w", path, err)
			}
			info, err := f.Stat()
			if err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("rawbin: stat %q: %w", path, err)
			}
			return &rawBinHandle{f: f, frames: info.Size() / rawSectorSize}, nil
		},
		ReadSector: func(h cdreader.Handle, absSector uint32, buf []byte) (int, error) {
			rh, ok := h.(*rawBinHandle)
			if !ok {
				return 0, fmt.Errorf("rawbin: wrong handle type")
			}
			return rh.f.ReadAt(buf, int64(absSector)*rawSectorSize)
		},
		AbsoluteToTrackSector: func(h cdreader.Handle, absSector uint32) int64 {
			rh, ok := h.(*rawBinHandle)
			if !ok || int64(absSector) >= rh.frames {
				return cdreader.NotInTrack
			}
			return int64(absSector)
		},
		CloseTrack: func(h cdreader.Handle) error {
			rh, ok := h.(*rawBinHandle)
			if !ok {
				return fmt.Errorf("rawbin: wrong handle type")
			}
			return rh.f.Close()
		},
	}
}

// cueBinHandle is the Handle CueBackend hands back: the underlying .bin
// file for one track plus that track's absolute sector range.
type cueBinHandle struct {
	f          *os.File
	fileOffset int64
	sectorSize int
	startLBA   int64
	frames     int64
}

// CueBackend returns a cdreader.Backend that resolves track selectors
// against the .cue sheet at cuePath, reading 2048 bytes of user data per
// sector out of whichever .bin file a track's INDEX 01 names (raw
// 2352-byte sectors are read starting 16 bytes into each sector, past its
// sync pattern and header, the Mode 1 user-data offset; this backend does not support
// Mode 2 XA sector layouts).
func CueBackend(cuePath string) (*cdreader.Backend, error) {
	sheet, err := ParseCue(cuePath)
	if err != nil {
		return nil, err
	}

	return &cdreader.Backend{
		OpenTrack: func(_ string, selector cdreader.Selector) (cdreader.Handle, error) {
			track, err := selectCueTrack(sheet, selector)
			if err != nil {
				return nil, err
			}
			f, err := os.Open(filepath.Join(sheet.dir, track.file)) //nolint:gosec // path resolved from a caller-supplied cue sheet
			if err != nil {
				return nil, fmt.Errorf("cuebin: open %q: %w", track.file, err)
			}
			return &cueBinHandle{
				f:          f,
				fileOffset: track.fileOffset,
				sectorSize: track.sectorSize,
				startLBA:   track.startLBA,
				frames:     track.frames,
			}, nil
		},
		ReadSector: func(h cdreader.Handle, absSector uint32, buf []byte) (int, error) {
			ch, ok := h.(*cueBinHandle)
			if !ok {
				return 0, fmt.Errorf("cuebin: wrong handle type")
			}
			rel := int64(absSector) - ch.startLBA
			if rel < 0 {
				return 0, fmt.Errorf("cuebin: sector %d precedes track start", absSector)
			}
			sectorOff := ch.fileOffset + rel*int64(ch.sectorSize)
			dataOff := sectorOff
			if ch.sectorSize != rawSectorSize {
				dataOff += 16 // skip the 16-byte Mode 1 sync/header prefix
			}
			return ch.f.ReadAt(buf, dataOff)
		},
		AbsoluteToTrackSector: func(h cdreader.Handle, absSector uint32) int64 {
			ch, ok := h.(*cueBinHandle)
			if !ok {
				return cdreader.NotInTrack
			}
			rel := int64(absSector) - ch.startLBA
			if rel < 0 || (ch.frames > 0 && rel >= ch.frames) {
				return cdreader.NotInTrack
			}
			return rel
		},
		CloseTrack: func(h cdreader.Handle) error {
			ch, ok := h.(*cueBinHandle)
			if !ok {
				return fmt.Errorf("cuebin: wrong handle type")
			}
			return ch.f.Close()
		},
	}, nil
}

func selectCueTrack(sheet *CueSheet, selector cdreader.Selector) (*cueTrack, error) {
	switch selector {
	case cdreader.FirstData:
		for i := range sheet.tracks {
			if sheet.tracks[i].mode != "AUDIO" {
				return &sheet.tracks[i], nil
			}
		}
		return nil, fmt.Errorf("cuebin: no data track found")

	case cdreader.Largest:
		best := &sheet.tracks[0]
		for i := range sheet.tracks {
			if sheet.tracks[i].frames > best.frames {
				best = &sheet.tracks[i]
			}
		}
		return best, nil

	case cdreader.Last:
		return &sheet.tracks[len(sheet.tracks)-1], nil

	default:
		want := int(selector)
		for i := range sheet.tracks {
			if sheet.tracks[i].number == want {
				return &sheet.tracks[i], nil
			}
		}
		return nil, fmt.Errorf("cuebin: track %d not found", want)
	}
}
