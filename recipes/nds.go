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
	"bytes"

	"github.com/retrohash/romhash/consoleid"
	"github.com/retrohash/romhash/fileio"
	"github.com/retrohash/romhash/internal/binaryfield"
	"github.com/retrohash/romhash/md5digest"
	"github.com/retrohash/romhash/messages"
	"github.com/retrohash/romhash/rcerr"
)

const (
	ndsHeaderSize      = 512
	ndsHeaderHashSize  = 0x160
	ndsSuperCardOffset = 0x200
	ndsArm9SrcOff      = 0x20
	ndsArm9SizeOff     = 0x2C
	ndsArm7SrcOff      = 0x30
	ndsArm7SizeOff     = 0x3C
	ndsIconOff         = 0x68
	ndsIconSize        = 0xA00
	ndsMaxCodeSize     = 16 * 1024 * 1024
)

// NDSHash hashes a Nintendo DS ROM: the first 0x160 bytes of its 512-byte header, the ARM9 and
// ARM7 binaries it points to, and a fixed 0xA00-byte icon/title region,
// zero-padded if the file is short. ROMs wrapped in a SuperCard
// passthrough header are detected and skipped transparently.
func NDSHash(handle fileio.Handle) (string, error) {
	size, err := fileio.Size(handle)
	if err != nil {
		messages.Errorf("nds_hash: stat failed: %v", err)
		return "", err
	}

	base := int64(0)
	probe := make([]byte, ndsHeaderSize)
	if err := fileio.ReadAt(handle, 0, probe); err != nil {
		messages.Errorf("nds_hash: read header failed: %v", err)
		return "", err
	}
	if isSuperCardHeader(probe) {
		base = ndsSuperCardOffset
		if err := fileio.ReadAt(handle, base, probe); err != nil {
			messages.Errorf("nds_hash: read header past SuperCard wrapper failed: %v", err)
			return "", err
		}
	}

	arm9Src, _ := binaryfield.Uint32LE(probe, ndsArm9SrcOff)
	arm9Size, _ := binaryfield.Uint32LE(probe, ndsArm9SizeOff)
	arm7Src, _ := binaryfield.Uint32LE(probe, ndsArm7SrcOff)
	arm7Size, _ := binaryfield.Uint32LE(probe, ndsArm7SizeOff)
	iconAddr, _ := binaryfield.Uint32LE(probe, ndsIconOff)

	if uint64(arm9Size)+uint64(arm7Size) > ndsMaxCodeSize {
		messages.Errorf("nds_hash: ARM9+ARM7 code exceeds 16 MiB sanity limit")
		return "", rcerr.ErrStructuralSanity{Console: consoleid.NDS, Reason: "ARM9+ARM7 code exceeds 16 MiB"}
	}

	h := md5digest.New()
	h.Write(probe[:ndsHeaderHashSize])

	arm9, err := readFileRegion(handle, base+int64(arm9Src), int64(arm9Size), size-base)
	if err != nil {
		messages.Errorf("nds_hash: reading ARM9 binary failed: %v", err)
		return "", err
	}
	h.Write(arm9)

	arm7, err := readFileRegion(handle, base+int64(arm7Src), int64(arm7Size), size-base)
	if err != nil {
		messages.Errorf("nds_hash: reading ARM7 binary failed: %v", err)
		return "", err
	}
	h.Write(arm7)

	icon, err := readFileRegion(handle, base+int64(iconAddr), ndsIconSize, size-base)
	if err != nil {
		messages.Errorf("nds_hash: reading icon/title region failed: %v", err)
		return "", err
	}
	h.Write(icon)

	return md5digest.Finalize(h), nil
}

var (
	ndsSuperCardMagicA = []byte{0x2E, 0x00, 0x00, 0xEA}
	ndsSuperCardMagicB = []byte{0x44, 0x46, 0x96, 0x00}
)

// isSuperCardHeader detects the SuperCard passthrough wrapper, which
// prepends a fixed 0x200-byte header before the real ROM image.
func isSuperCardHeader(probe []byte) bool {
	return len(probe) >= 0xB4 &&
		hasPrefix(probe, ndsSuperCardMagicA) &&
		bytes.Equal(probe[0xB0:0xB4], ndsSuperCardMagicB)
}

// readFileRegion reads length bytes at offset, zero-padding any portion
// that extends past limit (the file's remaining size past base).
func readFileRegion(handle fileio.Handle, offset, length, limit int64) ([]byte, error) {
	out := make([]byte, length)
	available := limit - offset
	if available <= 0 {
		return out, nil
	}
	toRead := length
	if available < toRead {
		toRead = available
	}
	if err := fileio.ReadAt(handle, offset, out[:toRead]); err != nil {
		return nil, err
	}
	return out, nil
}
