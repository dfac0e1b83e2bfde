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
	"github.com/retrohash/romhash/md5digest"
	"github.com/retrohash/romhash/messages"
	"github.com/retrohash/romhash/rcerr"
)

const segaCDHeaderSize = 512

var (
	segaCDMagic    = []byte("SEGADISCSYSTEM  ")
	segaSaturnMagic = []byte("SEGA SEGASATURN ")
)

// SegaCDHash hashes the 512-byte system header at track 1 sector 0 of a
// Sega CD or Saturn disc. Both consoles share this recipe: the magic
// string in the first 16 bytes is what distinguishes them, but the hash
// itself covers the same header region either way.
func SegaCDHash(path string) (string, error) {
	track, err := cdreader.OpenTrack(path, 1)
	if err != nil {
		messages.Errorf("segacd_hash: open track 1 failed: %v", err)
		return "", err
	}
	defer func() { _ = cdreader.CloseTrack(track) }()

	header, err := cdreader.ReadSectorFull(track, 0, segaCDHeaderSize)
	if err != nil {
		messages.Errorf("segacd_hash: read sector 0 failed: %v", err)
		return "", err
	}

	if !hasPrefix(header, segaCDMagic) && !hasPrefix(header, segaSaturnMagic) {
		messages.Errorf("segacd_hash: not a Sega CD or Saturn disc")
		return "", rcerr.ErrFormatMismatch{Console: consoleid.SegaCD, Reason: "not a Sega CD or Saturn disc"}
	}

	h := md5digest.New()
	h.Write(header)
	return md5digest.Finalize(h), nil
}
