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

import "strings"

// findBootPath scans SYSTEM.CNF text for key (case-sensitive, bounded
// so "BOOT" never matches inside "BOOT2"), then parses
// "KEY = <path>[;version]", stripping stripPrefix and a leading '\' from
// the path. Shared by the PSX (key "BOOT", prefix "cdrom:") and PS2
// (key "BOOT2", prefix "cdrom0:") recipes.
func findBootPath(text, key, stripPrefix string) (string, bool) {
	offset := 0
	for {
		idx := strings.Index(text[offset:], key)
		if idx < 0 {
			return "", false
		}
		abs := offset + idx
		after := abs + len(key)

		if after < len(text) && isKeyContinuation(text[after]) {
			offset = abs + 1
			continue
		}

		rest := skipSpace(text[after:])
		if len(rest) == 0 || rest[0] != '=' {
			offset = abs + 1
			continue
		}
		rest = skipSpace(rest[1:])
		rest = strings.TrimPrefix(rest, stripPrefix)
		rest = strings.TrimPrefix(rest, "\\")

		end := strings.IndexAny(rest, " \t\r\n;")
		if end < 0 {
			end = len(rest)
		}
		return rest[:end], true
	}
}

func isKeyContinuation(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

func skipSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n') {
		i++
	}
	return s[i:]
}
