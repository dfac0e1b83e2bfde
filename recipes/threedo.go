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
	"github.com/retrohash/romhash/md5digest"
	"github.com/retrohash/romhash/messages"
	"github.com/retrohash/romhash/rcerr"
)

const threeDOHeaderSize = 132

var (
	errNotA3DO         = rcerr.ErrFormatMismatch{Console: consoleid.ThreeDO, Reason: "not a 3DO CD"}
	errLaunchMeMissing = rcerr.ErrLookupMiss{Console: consoleid.ThreeDO, Path: "LaunchMe"}
)

// ThreeDOHash hashes a 3DO disc: the 132-byte Opera-FS root block plus
// the contents of the LaunchMe boot executable, found by walking the
// root directory's entries.
func ThreeDOHash(path string) (string, error) {
	track, err := cdreader.OpenTrack(path, 1)
	if err != nil {
		messages.Errorf("3do_hash: open track 1 failed: %v", err)
		return "", err
	}
	defer func() { _ = cdreader.CloseTrack(track) }()

	header, err := cdreader.ReadSectorFull(track, 0, threeDOHeaderSize)
	if err != nil {
		messages.Errorf("3do_hash: read sector 0 failed: %v", err)
		return "", err
	}

	if !isOperaFS(header) {
		messages.Errorf("3do_hash: not a 3DO CD")
		return "", errNotA3DO
	}

	h := md5digest.New()
	h.Write(header)

	blockSize, _ := binaryfield.Uint24BE(header, 0x4D)
	rootBlockIndex, _ := binaryfield.Uint24BE(header, 0x65)
	if blockSize == 0 {
		messages.Errorf("3do_hash: zero block size")
		return "", errNotA3DO
	}
	dirSector := (rootBlockIndex * blockSize) / 2048

	blockSize2, blockLocation, size, found := find3DOEntry(track, dirSector, "LaunchMe")
	if !found {
		messages.Errorf("3do_hash: LaunchMe not found")
		return "", errLaunchMeMissing
	}

	if err := appendSectors(h, track, uint32(int64(blockLocation)*int64(blockSize2)/2048), size); err != nil {
		messages.Errorf("3do_hash: reading LaunchMe failed: %v", err)
		return "", err
	}

	return md5digest.Finalize(h), nil
}

func isOperaFS(buf []byte) bool {
	if len(buf) < 7 {
		return false
	}
	if buf[0] != 0x01 || buf[6] != 0x01 {
		return false
	}
	for i := 1; i <= 5; i++ {
		if buf[i] != 0x5A {
			return false
		}
	}
	return true
}

// find3DOEntry walks the directory chain starting at dirSector looking
// for a file entry named name (case-insensitive), returning its block
// size, block location, and byte size.
func find3DOEntry(track cdreader.Handle, dirSector uint32, name string) (blockSize, blockLocation, size uint32, found bool) {
	for {
		buf, err := cdreader.ReadSectorFull(track, dirSector, 2048)
		if err != nil {
			return 0, 0, 0, false
		}

		entriesStart := int(buf[0x12])<<8 | int(buf[0x13])
		stopOffset, _ := binaryfield.Uint24BE(buf, 0x0D)

		off := entriesStart
		for off < int(stopOffset) && off+0x48 <= len(buf) {
			entryLen := 0x48 + int(buf[off+0x43])*4
			if buf[off+3] == 0x02 {
				entryName := binaryfield.TrimmedString(buf[off+0x20 : off+0x20+32])
				if strings.EqualFold(entryName, name) {
					bs, _ := binaryfield.Uint24BE(buf, off+0x0D)
					bl, _ := binaryfield.Uint24BE(buf, off+0x45)
					sz, _ := binaryfield.Uint24BE(buf, off+0x11)
					return bs, bl, sz, true
				}
			}
			if entryLen <= 0 {
				break
			}
			off += entryLen
		}

		nextSector, _ := binaryfield.Uint16BE(buf, 2)
		if nextSector == 0xFFFF {
			return 0, 0, 0, false
		}
		dirSector = uint32(nextSector)
	}
}
