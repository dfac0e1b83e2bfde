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
	"strings"

	"github.com/retrohash/romhash/cdreader"
	"github.com/retrohash/romhash/consoleid"
	"github.com/retrohash/romhash/internal/binaryfield"
	"github.com/retrohash/romhash/iso9660"
	"github.com/retrohash/romhash/md5digest"
	"github.com/retrohash/romhash/messages"
	"github.com/retrohash/romhash/rcerr"
)

const psxExeHeaderSize = 32

// PSXHash hashes a PlayStation disc: the boot executable's path as
// named by SYSTEM.CNF's BOOT key, then the executable itself. When the
// executable carries a "PS-X EXE" header, its size field (little-endian
// 32-bit at offset 28, plus the 2048-byte header) overrides the
// directory-record size, matching discs with trailing garbage sectors.
func PSXHash(path string) (string, error) {
	track, err := cdreader.OpenTrack(path, 1)
	if err != nil {
		messages.Errorf("psx_hash: open track 1 failed: %v", err)
		return "", err
	}
	defer func() { _ = cdreader.CloseTrack(track) }()

	cnfSector, cnfSize := iso9660.FindFileSector(track, "SYSTEM.CNF")
	if cnfSector == 0 {
		messages.Errorf("psx_hash: SYSTEM.CNF not found")
		return "", rcerr.ErrLookupMiss{Console: consoleid.PlayStation, Path: "SYSTEM.CNF"}
	}

	cnfBuf, err := readDiscFile(track, cnfSector, cnfSize)
	if err != nil {
		messages.Errorf("psx_hash: reading SYSTEM.CNF failed: %v", err)
		return "", err
	}

	bootPath, ok := findBootPath(string(cnfBuf), "BOOT", "cdrom:")
	if !ok {
		messages.Errorf("psx_hash: BOOT key not found in SYSTEM.CNF")
		return "", rcerr.ErrStructuralSanity{Console: consoleid.PlayStation, Reason: "SYSTEM.CNF has no BOOT key"}
	}
	bootPath = strings.ReplaceAll(bootPath, "/", "\\")

	exeSector, exeSize := iso9660.FindFileSector(track, bootPath)
	if exeSector == 0 {
		messages.Errorf("psx_hash: boot executable %q not found", bootPath)
		return "", rcerr.ErrLookupMiss{Console: consoleid.PlayStation, Path: bootPath}
	}

	if header, err := cdreader.ReadSectorFull(track, exeSector, psxExeHeaderSize); err == nil {
		if hasPrefix(header, []byte("PS-X EXE")) {
			if n, ferr := binaryfield.Uint32LE(header, 28); ferr == nil {
				exeSize = n + 2048
			}
		}
	}

	h := md5digest.New()
	h.Write([]byte(bootPath))
	if err := appendSectors(h, track, exeSector, exeSize); err != nil {
		messages.Errorf("psx_hash: reading boot executable failed: %v", err)
		return "", err
	}

	return md5digest.Finalize(h), nil
}
