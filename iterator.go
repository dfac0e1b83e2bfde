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

package romhash

import (
	"strings"

	"github.com/retrohash/romhash/consoleid"
	"github.com/retrohash/romhash/fileio"
	"github.com/retrohash/romhash/pathutil"
)

const thirtyTwoMiB = 32 * 1024 * 1024

// Iterator infers a prioritized list of candidate console recipes from a
// path's extension (and, for a handful of ambiguous extensions, its
// size), then yields a hash for each candidate in turn until one
// succeeds or the list is exhausted.
//
// Go's garbage collector owns the lifetime of path and buffer, so
// Destroy exists only to mirror the explicit free of spec.md §4.H — it
// clears the iterator's state rather than releasing anything.
type Iterator struct {
	path      string
	buffer    []byte
	consoles  []consoleid.ID
	index     int
	needPath  bool
}

// Initialize resets it and populates its candidate list from path's
// extension, consulting buffer (or, if nil, the file's size) for the
// handful of extensions whose candidates depend on size. An unrecognized
// extension falls back to a single Game Boy candidate.
func (it *Iterator) Initialize(path string, buffer []byte) error {
	*it = Iterator{path: path, buffer: buffer}

	ext := strings.ToLower(pathutil.Extension(path))

	switch ext {
	case "m3u":
		entry, err := resolvePlaylistEntry(path)
		if err != nil {
			return err
		}
		return it.Initialize(entry, nil)

	case "cue":
		it.consoles = []consoleid.ID{
			consoleid.PlayStation, consoleid.PS2, consoleid.PCEngine,
			consoleid.ThreeDO, consoleid.PCFX, consoleid.SegaCD, consoleid.Saturn,
		}
		it.needPath = true

	case "chd":
		it.consoles = []consoleid.ID{
			consoleid.PlayStation, consoleid.PS2, consoleid.Dreamcast, consoleid.PCEngine,
			consoleid.ThreeDO, consoleid.PCFX, consoleid.SegaCD, consoleid.Saturn,
		}
		it.needPath = true

	case "iso":
		it.consoles = []consoleid.ID{consoleid.PS2, consoleid.ThreeDO, consoleid.SegaCD, consoleid.Saturn}
		it.needPath = true

	case "bin":
		size, err := it.sizeHint()
		if err != nil {
			return err
		}
		if size > thirtyTwoMiB {
			it.consoles = []consoleid.ID{
				consoleid.ThreeDO, consoleid.PlayStation, consoleid.PS2,
				consoleid.SegaCD, consoleid.MegaDrive,
			}
		} else {
			it.consoles = []consoleid.ID{consoleid.MegaDrive}
		}
		it.needPath = true

	case "dsk":
		size, err := it.sizeHint()
		if err != nil {
			return err
		}
		switch size {
		case 368640, 737280, 184320: // 360/720/180 KiB
			it.consoles = []consoleid.ID{consoleid.MSX, consoleid.AppleII}
		case 143360, 116480: // 140/113.75 KiB
			it.consoles = []consoleid.ID{consoleid.AppleII, consoleid.MSX}
		default:
			it.consoles = []consoleid.ID{consoleid.MSX, consoleid.AppleII}
		}
		it.needPath = true

	case "zip", "7z":
		it.consoles = []consoleid.ID{consoleid.Arcade}
		it.needPath = true

	default:
		if ids, ok := singleExtensionConsoles[ext]; ok {
			it.consoles = ids
		} else {
			it.consoles = []consoleid.ID{consoleid.GB}
		}
	}

	return nil
}

// singleExtensionConsoles covers spec.md §4.H's single- and dual-system
// extension mappings.
var singleExtensionConsoles = map[string][]consoleid.ID{
	"nes":  {consoleid.NES},
	"sfc":  {consoleid.SNES},
	"smc":  {consoleid.SNES},
	"swc":  {consoleid.SNES},
	"fig":  {consoleid.SNES},
	"bs":   {consoleid.SNES},
	"gba":  {consoleid.GBA},
	"gbc":  {consoleid.GBC},
	"gb":   {consoleid.GB},
	"gg":   {consoleid.GameGear},
	"gdi":  {consoleid.Dreamcast},
	"jag":  {consoleid.Jaguar},
	"lnx":  {consoleid.Lynx},
	"md":   {consoleid.MegaDrive},
	"min":  {consoleid.PokemonMini},
	"nds":  {consoleid.NDS},
	"n64":  {consoleid.N64},
	"ndd":  {consoleid.N64},
	"ngc":  {consoleid.NeoGeoPocket},
	"pce":  {consoleid.PCEngine},
	"sgx":  {consoleid.PCEngine},
	"col":  {consoleid.ColecoVision},
	"cas":  {consoleid.MSX},
	"mx1":  {consoleid.MSX},
	"mx2":  {consoleid.MSX},
	"ri":   {consoleid.MSX},
	"fds":  {consoleid.NES},
	"sg":   {consoleid.SG1000},
	"sv":   {consoleid.Supervision},
	"tap":  {consoleid.Oric},
	"tic":  {consoleid.TIC80},
	"vb":   {consoleid.VirtualBoy},
	"wsc":  {consoleid.WonderSwan},
	"woz":  {consoleid.AppleII},
	"a78":  {consoleid.Atari7800},
	"d88":  {consoleid.PC8800, consoleid.SharpX1},
	"2d":   {consoleid.SharpX1},
	"fd":   {consoleid.ThomsonTO8},
	"k7":   {consoleid.ThomsonTO8},
	"m5":   {consoleid.ThomsonTO8},
	"m7":   {consoleid.ThomsonTO8},
	"sap":  {consoleid.ThomsonTO8},
	"rom":  {consoleid.MSX, consoleid.ThomsonTO8},
}

// sizeHint returns the candidate-list size signal: the supplied buffer's
// length if one was given, otherwise the file's length on disk.
func (it *Iterator) sizeHint() (int64, error) {
	if it.buffer != nil {
		return int64(len(it.buffer)), nil
	}
	handle, err := fileio.Open(it.path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = fileio.Close(handle) }()
	return fileio.Size(handle)
}

// Iterate advances the cursor and invokes the current candidate's
// recipe, skipping over candidates that fail until one succeeds or the
// list is exhausted. An exhausted iterator returns ("", false).
func (it *Iterator) Iterate() (string, bool) {
	for it.index < len(it.consoles) {
		console := it.consoles[it.index]
		it.index++

		var (
			result string
			err    error
		)
		if it.buffer != nil && !it.needPath {
			result, err = GenerateFromBuffer(console, it.buffer)
		} else {
			result, err = GenerateFromFile(console, it.path)
		}
		if err == nil && result != "" {
			return result, true
		}
	}
	return "", false
}

// Destroy clears the iterator's state.
func (it *Iterator) Destroy() {
	*it = Iterator{}
}
