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

package chd

import (
	"fmt"

	"github.com/retrohash/romhash/cdreader"
)

// trackHandle is the Handle this backend hands back from OpenTrack: the
// open CHD plus the absolute sector range of the selected track.
type trackHandle struct {
	disc       *CHD
	startFrame int64
	frames     int64
}

// Backend returns a cdreader.Backend that reads CD sectors out of CHD
// (Compressed Hunks of Data) disc images, MAME's compressed disc
// format. Install it with cdreader.Install(chd.Backend()) to let disc
// recipes read .chd files.
func Backend() *cdreader.Backend {
	return &cdreader.Backend{
		OpenTrack:             openTrack,
		ReadSector:            readSector,
		AbsoluteToTrackSector: absoluteToTrackSector,
		CloseTrack:            closeTrack,
	}
}

func openTrack(path string, selector cdreader.Selector) (cdreader.Handle, error) {
	disc, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("chd backend: %w", err)
	}

	tracks := disc.Tracks()
	if len(tracks) == 0 {
		// No track metadata: treat the whole image as a single track.
		return &trackHandle{disc: disc, startFrame: 0, frames: disc.Size() / 2048}, nil
	}

	track, err := selectTrack(tracks, selector)
	if err != nil {
		_ = disc.Close()
		return nil, err
	}

	return &trackHandle{
		disc:       disc,
		startFrame: int64(track.StartFrame + track.Pregap),
		frames:     int64(track.Frames),
	}, nil
}

func selectTrack(tracks []Track, selector cdreader.Selector) (*Track, error) {
	switch selector {
	case cdreader.FirstData:
		for i := range tracks {
			if tracks[i].IsDataTrack() {
				return &tracks[i], nil
			}
		}
		return nil, fmt.Errorf("chd backend: no data track found")

	case cdreader.Largest:
		best := &tracks[0]
		for i := range tracks {
			if tracks[i].Frames > best.Frames {
				best = &tracks[i]
			}
		}
		return best, nil

	case cdreader.Last:
		return &tracks[len(tracks)-1], nil

	default:
		want := int(selector)
		for i := range tracks {
			if tracks[i].Number == want {
				return &tracks[i], nil
			}
		}
		return nil, fmt.Errorf("chd backend: track %d not found", want)
	}
}

func readSector(h cdreader.Handle, absSector uint32, buf []byte) (int, error) {
	th, ok := h.(*trackHandle)
	if !ok {
		return 0, fmt.Errorf("chd backend: wrong handle type")
	}
	rel := int64(absSector) - th.startFrame
	if rel < 0 {
		return 0, fmt.Errorf("chd backend: sector %d precedes track start", absSector)
	}
	reader := th.disc.SectorReader()
	return reader.ReadAt(buf, rel*2048)
}

func absoluteToTrackSector(h cdreader.Handle, absSector uint32) int64 {
	th, ok := h.(*trackHandle)
	if !ok {
		return cdreader.NotInTrack
	}
	rel := int64(absSector) - th.startFrame
	if rel < 0 || (th.frames > 0 && rel >= th.frames) {
		return cdreader.NotInTrack
	}
	return rel
}

func closeTrack(h cdreader.Handle) error {
	th, ok := h.(*trackHandle)
	if !ok {
		return fmt.Errorf("chd backend: wrong handle type")
	}
	return th.disc.Close()
}
