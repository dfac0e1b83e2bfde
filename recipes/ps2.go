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
	"github.com/retrohash/romhash/iso9660"
	"github.com/retrohash/romhash/md5digest"
	"github.com/retrohash/romhash/messages"
	"github.com/retrohash/romhash/rcerr"
)

const elfMagicSize = 4

// PS2Hash hashes a PlayStation 2 disc: the boot executable's path as
// named by SYSTEM.CNF's BOOT2 key, then the executable itself. Unlike
// PSX, the ELF-format boot executable carries no header size override:
// the ISO-9660 directory record's size is authoritative. The boot
// executable must open with the ELF magic "\x7fELF"; anything else is
// rejected as a format mismatch rather than hashed blind.
func PS2Hash(path string) (string, error) {
	track, err := cdreader.OpenTrack(path, 1)
	if err != nil {
		messages.Errorf("ps2_hash: open track 1 failed: %v", err)
		return "", err
	}
	defer func() { _ = cdreader.CloseTrack(track) }()

	cnfSector, cnfSize := iso9660.FindFileSector(track, "SYSTEM.CNF")
	if cnfSector == 0 {
		messages.Errorf("ps2_hash: SYSTEM.CNF not found")
		return "", rcerr.ErrLookupMiss{Console: consoleid.PS2, Path: "SYSTEM.CNF"}
	}

	cnfBuf, err := readDiscFile(track, cnfSector, cnfSize)
	if err != nil {
		messages.Errorf("ps2_hash: reading SYSTEM.CNF failed: %v", err)
		return "", err
	}

	bootPath, ok := findBootPath(string(cnfBuf), "BOOT2", "cdrom0:")
	if !ok {
		messages.Errorf("ps2_hash: BOOT2 key not found in SYSTEM.CNF")
		return "", rcerr.ErrStructuralSanity{Console: consoleid.PS2, Reason: "SYSTEM.CNF has no BOOT2 key"}
	}
	bootPath = strings.ReplaceAll(bootPath, "/", "\\")

	exeSector, exeSize := iso9660.FindFileSector(track, bootPath)
	if exeSector == 0 {
		messages.Errorf("ps2_hash: boot executable %q not found", bootPath)
		return "", rcerr.ErrLookupMiss{Console: consoleid.PS2, Path: bootPath}
	}

	magic, err := cdreader.ReadSectorFull(track, exeSector, elfMagicSize)
	if err != nil || !hasPrefix(magic, []byte("\x7fELF")) {
		messages.Errorf("ps2_hash: boot executable %q did not contain ELF marker", bootPath)
		return "", rcerr.ErrFormatMismatch{Console: consoleid.PS2, Reason: "boot executable did not contain ELF marker"}
	}

	h := md5digest.New()
	h.Write([]byte(bootPath))
	if err := appendSectors(h, track, exeSector, exeSize); err != nil {
		messages.Errorf("ps2_hash: reading boot executable failed: %v", err)
		return "", err
	}

	return md5digest.Finalize(h), nil
}
