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
	pceCDMagicOffset  = 32
	pceCDTitleOffset  = 106
	pceCDTitleSize    = 22
)

var pceCDMagic = []byte("PC Engine CD-ROM SYSTEM")

// PCEngineCDHash hashes a TurboGrafx/PC Engine CD disc: the 22-byte
// title plus program sectors named by the first data track's sector 1 system header,
// if present, otherwise the contents of BOOT.BIN found via ISO-9660.
func PCEngineCDHash(path string) (string, error) {
	track, err := cdreader.OpenTrack(path, cdreader.FirstData)
	if err != nil {
		messages.Errorf("pce_cd_hash: open first data track failed: %v", err)
		return "", err
	}
	defer func() { _ = cdreader.CloseTrack(track) }()

	return pceCDFromTrack(track)
}

// pceCDFromTrack implements PCEngineCDHash's body against an
// already-open track handle, letting PC-FX delegate into it once it has
// confirmed track 2 carries a PC Engine CD header.
func pceCDFromTrack(track cdreader.Handle) (string, error) {
	header, err := cdreader.ReadSectorFull(track, 1, 128)
	if err == nil && hasPrefix(header[pceCDMagicOffset:], pceCDMagic) {
		h := md5digest.New()
		h.Write(header[pceCDTitleOffset : pceCDTitleOffset+pceCDTitleSize])

		startSector, _ := binaryfield.Uint24BE(header, 0)
		sectorCount := uint32(header[3])
		if err := appendSectors(h, track, startSector, sectorCount*2048); err != nil {
			messages.Errorf("pce_cd_hash: reading program failed: %v", err)
			return "", err
		}
		return md5digest.Finalize(h), nil
	}

	sector, size := iso9660.FindFileSector(track, "BOOT.BIN")
	if sector == 0 {
		messages.Errorf("pce_cd_hash: BOOT.BIN not found")
		return "", rcerr.ErrLookupMiss{Console: consoleid.PCEngine, Path: "BOOT.BIN"}
	}
	if size >= MaxBufferSize {
		messages.Errorf("pce_cd_hash: BOOT.BIN exceeds max buffer size")
		return "", rcerr.ErrStructuralSanity{Console: consoleid.PCEngine, Reason: "BOOT.BIN exceeds MAX_BUFFER_SIZE"}
	}

	h := md5digest.New()
	if err := appendSectors(h, track, sector, size); err != nil {
		messages.Errorf("pce_cd_hash: reading BOOT.BIN failed: %v", err)
		return "", err
	}
	return md5digest.Finalize(h), nil
}
