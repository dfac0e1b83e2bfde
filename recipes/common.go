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

// Package recipes implements one hash recipe per supported console:
// spec.md §4.F, the bulk of this module. Every recipe returns ("", err)
// on failure after reporting through the messages package, and a
// 32-character lowercase hex string on success.
package recipes

import (
	"hash"
	"io"

	"github.com/retrohash/romhash/cdreader"
	"github.com/retrohash/romhash/fileio"
	"github.com/retrohash/romhash/md5digest"
	"github.com/retrohash/romhash/messages"
)

// MaxBufferSize caps the number of bytes any recipe feeds to MD5, per
// spec.md §3. 64 MiB bounds both memory and CPU for pathological inputs
// (e.g. a multi-gigabyte disc image mistakenly hashed as a flat file).
const MaxBufferSize = 64 * 1024 * 1024

// chunkSize is the streaming chunk used by WholeFileHash, matching
// spec.md §4.F's "streamed in 64 KiB chunks".
const chunkSize = 64 * 1024

// BufferHash is the whole-buffer recipe: MD5 over at most MaxBufferSize
// bytes from offset 0.
func BufferHash(buf []byte) string {
	n := len(buf)
	if n > MaxBufferSize {
		n = MaxBufferSize
	}
	h := md5digest.New()
	h.Write(buf[:n])
	return md5digest.Finalize(h)
}

// WholeFileHash seeks to the end of handle to find its size, then MD5s
// at most MaxBufferSize bytes streamed in 64 KiB chunks from offset 0.
func WholeFileHash(handle fileio.Handle) (string, error) {
	size, err := fileio.Size(handle)
	if err != nil {
		messages.Errorf("whole_file_hash: stat failed: %v", err)
		return "", err
	}

	toRead := size
	if toRead > MaxBufferSize {
		toRead = MaxBufferSize
	}

	if err := fileio.Seek(handle, 0, fileio.SET); err != nil {
		messages.Errorf("whole_file_hash: seek failed: %v", err)
		return "", err
	}

	h := md5digest.New()
	buf := make([]byte, chunkSize)
	var remaining int64 = toRead
	for remaining > 0 {
		want := int64(chunkSize)
		if remaining < want {
			want = remaining
		}
		n, err := fileio.Read(handle, buf[:want])
		if n > 0 {
			h.Write(buf[:n])
			remaining -= int64(n)
		}
		if err != nil && err != io.EOF {
			messages.Errorf("whole_file_hash: read failed: %v", err)
			return "", err
		}
		if n == 0 {
			break
		}
	}

	return md5digest.Finalize(h), nil
}

// BufferedFileHash reads up to MaxBufferSize bytes of handle into
// memory, then invokes bufRecipe on them. Used whenever the buffer
// recipe needs to inspect a header (the cartridge header-strip
// recipes), rather than hash byte-for-byte like WholeFileHash.
func BufferedFileHash(handle fileio.Handle, bufRecipe func([]byte) string) (string, error) {
	size, err := fileio.Size(handle)
	if err != nil {
		messages.Errorf("buffered_file_hash: stat failed: %v", err)
		return "", err
	}

	toRead := size
	if toRead > MaxBufferSize {
		toRead = MaxBufferSize
	}

	buf := make([]byte, toRead)
	if err := fileio.ReadAt(handle, 0, buf); err != nil {
		messages.Errorf("buffered_file_hash: read failed: %v", err)
		return "", err
	}

	return bufRecipe(buf), nil
}

// appendSectors MD5-appends size bytes of CD content starting at
// absSector, 2048 bytes per sector, trimming the final sector to the
// remaining byte count. Shared by every CD recipe that hashes a
// contiguous run of sectors (3DO's LaunchMe, Dreamcast/PSX/PS2/PC-Engine
// boot executables).
func appendSectors(h hash.Hash, track cdreader.Handle, absSector, size uint32) error {
	remaining := size
	sector := absSector
	for remaining > 0 {
		n := uint32(2048)
		if remaining < n {
			n = remaining
		}
		data, err := cdreader.ReadSectorFull(track, sector, 2048)
		if err != nil {
			return err
		}
		h.Write(data[:n])
		remaining -= n
		sector++
	}
	return nil
}

// readDiscFile reads size bytes starting at sector, full 2048-byte
// sectors at a time with the final sector trimmed to the remainder.
func readDiscFile(track cdreader.Handle, sector, size uint32) ([]byte, error) {
	out := make([]byte, 0, size)
	remaining := size
	cur := sector
	for remaining > 0 {
		data, err := cdreader.ReadSectorFull(track, cur, 2048)
		if err != nil {
			return nil, err
		}
		n := uint32(2048)
		if remaining < n {
			n = remaining
		}
		out = append(out, data[:n]...)
		remaining -= n
		cur++
	}
	return out, nil
}
