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

// Package iso9660 locates a file's boot sector and size within an
// ISO-9660 directory tree by walking raw directory records, per
// spec.md §4.D. It deliberately does not parse the path table, PVD
// strings, Rock Ridge or Joliet extensions, or anything else a general
// ISO-9660 reader would: every disc-based recipe in this module only
// ever needs to resolve one path to one (sector, size) pair, and the
// root extent plus a directory-record walk is all that takes.
package iso9660

import (
	"strings"

	"github.com/retrohash/romhash/cdreader"
	"github.com/retrohash/romhash/internal/binaryfield"
)

const (
	sectorSize   = 2048
	rootRecordSz = 256 // bytes of sector 16 actually needed to read the root extent
)

// FindFileSector resolves path (backslash-separated, disc-cased, case
// insensitively compared) to the absolute sector at which its content
// begins. It returns 0 if the file cannot be found or a read fails. If
// the file is found, the returned size is its byte length.
//
// Directories spanning multiple sectors are not handled: only the
// directory's first sector is ever searched, matching spec.md §4.D's
// documented limitation. 3DO and other non-ISO layouts are parsed
// inline by their own recipes, not through this package.
func FindFileSector(track cdreader.Handle, path string) (sector, size uint32) {
	if idx := strings.LastIndexByte(path, '\\'); idx >= 0 {
		parentSector, _ := FindFileSector(track, path[:idx])
		if parentSector == 0 {
			return 0, 0
		}
		return searchDirectory(track, parentSector, path[idx+1:])
	}

	root, err := cdreader.ReadSectorFull(track, 16, rootRecordSz)
	if err != nil {
		return 0, 0
	}
	rootExtent, err := binaryfield.Uint24LE(root, 156+2)
	if err != nil {
		return 0, 0
	}
	return searchDirectory(track, rootExtent, path)
}

// searchDirectory walks the single sector at dirSector looking for a
// directory record named name (case-insensitive), returning its extent
// and size, or (0, 0) if absent.
func searchDirectory(track cdreader.Handle, dirSector uint32, name string) (sector, size uint32) {
	rel := cdreader.AbsoluteToTrackSector(track, dirSector)
	if rel < 0 {
		return 0, 0
	}

	buf, err := cdreader.ReadSectorFull(track, dirSector, sectorSize)
	if err != nil {
		return 0, 0
	}

	cursor := 0
	for cursor < sectorSize {
		recLen := int(buf[cursor])
		if recLen == 0 {
			break
		}
		if cursor+recLen > sectorSize {
			break
		}

		nameLen := int(buf[cursor+32])
		nameStart := cursor + 33
		if nameStart+nameLen > cursor+recLen {
			cursor += recLen
			continue
		}

		if matchesRecordName(buf, nameStart, nameLen, name) {
			extent, eErr := binaryfield.Uint24LE(buf, cursor+2)
			fileSize, sErr := binaryfield.Uint32LE(buf, cursor+10)
			if eErr == nil && sErr == nil {
				return extent, fileSize
			}
		}

		cursor += recLen
	}

	return 0, 0
}

// matchesRecordName reports whether the leading len(name) bytes of the
// nameLen-byte identifier at buf[nameStart:] equal name case-insensitively,
// and the byte immediately following those bytes is either ';' (a version
// suffix follows, e.g. "SYSTEM.CNF;1", the normal case for files) or NUL
// (directory entries, which carry no version suffix). Real ISO-9660 discs
// store the version suffix as part of a file's identifier itself, so for
// files nameLen is greater than len(name); for directories it is equal.
func matchesRecordName(buf []byte, nameStart, nameLen int, name string) bool {
	if nameLen < len(name) {
		return false
	}
	if !strings.EqualFold(string(buf[nameStart:nameStart+len(name)]), name) {
		return false
	}
	end := nameStart + len(name)
	if end >= len(buf) {
		return true
	}
	return buf[end] == ';' || buf[end] == 0
}
