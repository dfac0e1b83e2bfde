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
	"github.com/retrohash/romhash/cdreader"
	"github.com/retrohash/romhash/consoleid"
	"github.com/retrohash/romhash/internal/binaryfield"
	"github.com/retrohash/romhash/iso9660"
	"github.com/retrohash/romhash/md5digest"
	"github.com/retrohash/romhash/messages"
	"github.com/retrohash/romhash/rcerr"
)

const (
	dreamcastIPBinSize = 256
	dreamcastBootNameOff = 96
	dreamcastBootNameMax = 16
)

// DreamcastHash hashes the IP.BIN header (track 3, sector 0) plus the
// boot executable it names.
//
// spec.md §9 flags an open question about which track handle the boot
// file's sector should be resolved against: we resolve find_file_sector
// against a freshly opened track 3 handle (not the one already closed),
// then translate the resulting absolute sector onto the LAST-track
// handle, falling back to re-resolving directly against track 3 when
// the LAST handle reports the sector isn't in its track.
func DreamcastHash(path string) (string, error) {
	track3, err := cdreader.OpenTrack(path, 3)
	if err != nil {
		messages.Errorf("dreamcast_hash: open track 3 failed: %v", err)
		return "", err
	}

	header, err := cdreader.ReadSectorFull(track3, 0, dreamcastIPBinSize)
	if err != nil {
		_ = cdreader.CloseTrack(track3)
		messages.Errorf("dreamcast_hash: read IP.BIN failed: %v", err)
		return "", err
	}

	if !hasPrefix(header, []byte("SEGA SEGAKATANA ")) {
		_ = cdreader.CloseTrack(track3)
		messages.Errorf("dreamcast_hash: not a Dreamcast CD")
		return "", rcerr.ErrFormatMismatch{Console: consoleid.Dreamcast, Reason: "not a Dreamcast CD"}
	}

	h := md5digest.New()
	h.Write(header)

	bootName := binaryfield.TrimmedString(header[dreamcastBootNameOff : dreamcastBootNameOff+dreamcastBootNameMax])

	_ = cdreader.CloseTrack(track3)

	// Re-open track 3 fresh to resolve the boot file's sector, per the
	// open-question resolution above.
	lookupTrack, err := cdreader.OpenTrack(path, 3)
	if err != nil {
		messages.Errorf("dreamcast_hash: reopen track 3 failed: %v", err)
		return "", err
	}
	bootSector, bootSize := iso9660.FindFileSector(lookupTrack, bootName)
	_ = cdreader.CloseTrack(lookupTrack)

	if bootSector == 0 {
		messages.Errorf("dreamcast_hash: boot file %q not found", bootName)
		return "", rcerr.ErrLookupMiss{Console: consoleid.Dreamcast, Path: bootName}
	}

	lastTrack, err := cdreader.OpenTrack(path, cdreader.Last)
	if err != nil {
		messages.Errorf("dreamcast_hash: open LAST track failed: %v", err)
		return "", err
	}

	readTrack := lastTrack
	rel := cdreader.AbsoluteToTrackSector(lastTrack, bootSector)
	if rel < 0 {
		_ = cdreader.CloseTrack(lastTrack)
		readTrack, err = cdreader.OpenTrack(path, 3)
		if err != nil {
			messages.Errorf("dreamcast_hash: fallback reopen track 3 failed: %v", err)
			return "", err
		}
	}
	defer func() { _ = cdreader.CloseTrack(readTrack) }()

	if err := appendSectors(h, readTrack, bootSector, bootSize); err != nil {
		messages.Errorf("dreamcast_hash: reading boot file failed: %v", err)
		return "", err
	}

	result := md5digest.Finalize(h)
	return result, nil
}
