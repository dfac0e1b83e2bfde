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

// Package pathutil implements the small set of path operations the
// recipe engine needs. It intentionally does not use path/filepath:
// filepath.Ext/Base apply OS-specific separator rules, but ROM paths
// here may carry either separator regardless of host OS (an in-disc
// path is always backslash-separated by specification, independent of
// the host running the hash), so separator handling is done by hand.
package pathutil

import "strings"

// Filename returns the suffix of path following the last '/' or '\', or
// path itself if neither separator appears.
func Filename(path string) string {
	idx := lastSeparator(path)
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// Extension returns the suffix of path following the last '.' in its
// filename component, or "" if the filename has no '.'.
func Extension(path string) string {
	name := Filename(path)
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

// CompareExtension reports whether path ends in ext (case-insensitive),
// with the character immediately before the match required to be '.'.
// ext is passed without its leading dot and in lowercase, by convention
// of every caller in this module.
func CompareExtension(path, ext string) bool {
	if len(path) < len(ext)+1 {
		return false
	}
	tail := path[len(path)-len(ext):]
	if !strings.EqualFold(tail, ext) {
		return false
	}
	return path[len(path)-len(ext)-1] == '.'
}

// IsAbsolute reports whether path is an absolute path: it begins with
// '/', '\', a drive letter like "X:\", or contains a "scheme:/" prefix
// (e.g. "file:/", "cdrom:/").
func IsAbsolute(path string) bool {
	if len(path) == 0 {
		return false
	}
	if path[0] == '/' || path[0] == '\\' {
		return true
	}
	if len(path) >= 3 && isDriveLetter(path[0]) && path[1] == ':' && path[2] == '\\' {
		return true
	}
	return strings.Index(path, ":/") > 0
}

func isDriveLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// lastSeparator returns the index of the last '/' or '\' in path, or -1.
func lastSeparator(path string) int {
	idx := -1
	for i := 0; i < len(path); i++ {
		if path[i] == '/' || path[i] == '\\' {
			idx = i
		}
	}
	return idx
}
