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
	"github.com/retrohash/romhash/md5digest"
	"github.com/retrohash/romhash/messages"
	"github.com/retrohash/romhash/rcerr"
)

var pcfxMagic = []byte("PC-FX:Hu_CD-ROM")

// PCFXHash hashes a PC-FX disc. Sector 0 of the largest track carries the
// PC-FX signature in the common case; otherwise track 2 is checked for the
// signature, and some discs instead put a PC Engine CD header on track 2, in which case this recipe delegates to the
// PC-Engine-CD core against that already-open handle.
func PCFXHash(path string) (string, error) {
	track, err := cdreader.OpenTrack(path, cdreader.Largest)
	if err != nil {
		messages.Errorf("pcfx_hash: open largest track failed: %v", err)
		return "", err
	}

	sig, err := cdreader.ReadSectorFull(track, 0, 32)
	if err == nil && hasPrefix(sig, pcfxMagic) {
		defer func() { _ = cdreader.CloseTrack(track) }()
		return pcfxFromTrack(track)
	}
	_ = cdreader.CloseTrack(track)

	track2, err := cdreader.OpenTrack(path, 2)
	if err != nil {
		messages.Errorf("pcfx_hash: open track 2 failed: %v", err)
		return "", err
	}
	defer func() { _ = cdreader.CloseTrack(track2) }()

	sig2, err := cdreader.ReadSectorFull(track2, 0, 32)
	if err == nil && hasPrefix(sig2, pcfxMagic) {
		return pcfxFromTrack(track2)
	}

	header, err := cdreader.ReadSectorFull(track2, 1, 128)
	if err == nil && hasPrefix(header[pceCDMagicOffset:], pceCDMagic) {
		return pceCDFromTrack(track2)
	}

	messages.Errorf("pcfx_hash: not a PC-FX or PC Engine CD")
	return "", rcerr.ErrFormatMismatch{Console: consoleid.PCFX, Reason: "not a PC-FX CD"}
}

// pcfxFromTrack hashes the 128-byte system header at sector 1 plus the
// program payload named by its 24-bit little-endian start sector and
// sector count fields.
func pcfxFromTrack(track cdreader.Handle) (string, error) {
	header, err := cdreader.ReadSectorFull(track, 1, 128)
	if err != nil {
		messages.Errorf("pcfx_hash: read sector 1 failed: %v", err)
		return "", err
	}

	h := md5digest.New()
	h.Write(header)

	startSector, _ := binaryfield.Uint24LE(header, 32)
	sectorCount, _ := binaryfield.Uint24LE(header, 36)

	if err := appendSectors(h, track, startSector, sectorCount*2048); err != nil {
		messages.Errorf("pcfx_hash: reading program failed: %v", err)
		return "", err
	}

	return md5digest.Finalize(h), nil
}
