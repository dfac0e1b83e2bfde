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

// Package md5digest finalizes a running MD5 state into the output shape
// every recipe in this module produces: 32 lowercase hex digits.
package md5digest

import (
	"crypto/md5" //nolint:gosec // MD5 used as a content fingerprint, not for security
	"encoding/hex"
	"hash"
)

// Size is the number of characters in a finalized hash string, not
// counting the NUL terminator the C ABI this module's design is modeled
// on appends to its 33-byte output buffer.
const Size = 32

// Finalize sums h and renders the digest as 32 lowercase hex characters.
func Finalize(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// New returns a fresh MD5 hash state, ready to accept Write calls.
func New() hash.Hash {
	return md5.New() //nolint:gosec // content fingerprint, not a security boundary
}

// Empty is the hash of the empty string, used throughout the test suite
// as the expected result of header-strip recipes applied to a bare
// header with no payload (spec.md scenario S1).
const Empty = "d41d8cd98f00b204e9800998ecf8427e"
