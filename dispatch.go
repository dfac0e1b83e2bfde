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
	"bufio"
	"strings"

	"github.com/retrohash/romhash/consoleid"
	"github.com/retrohash/romhash/fileio"
	"github.com/retrohash/romhash/messages"
	"github.com/retrohash/romhash/pathutil"
	"github.com/retrohash/romhash/rcerr"
	"github.com/retrohash/romhash/recipes"
)

// playlistCapable consoles accept .m3u playlist redirection in
// GenerateFromFile.
var playlistCapable = map[consoleid.ID]bool{
	consoleid.PlayStation: true,
	consoleid.PS2:         true,
	consoleid.Dreamcast:   true,
	consoleid.PCEngine:    true,
	consoleid.ThreeDO:     true,
	consoleid.PCFX:        true,
	consoleid.SegaCD:      true,
	consoleid.Saturn:      true,
}

// headerStripRecipes are the buffer recipes that strip a copier header
// before hashing, shared by GenerateFromBuffer and the buffered-file
// path of GenerateFromFile.
var headerStripRecipes = map[consoleid.ID]func([]byte) string{
	consoleid.Atari7800: recipes.Atari7800Hash,
	consoleid.Lynx:      recipes.LynxHash,
	consoleid.NES:       nesOrFDSHash,
	consoleid.PCEngine:  recipes.PCEngineHash,
	consoleid.SNES:      recipes.SNESHash,
}

// nesOrFDSHash dispatches consoleid.NES buffers to recipes.FDSHash when
// the "FDS\x1A" magic is present, since .fds disk images route to the
// same console ID as .nes cartridge dumps (see the iterator's extension
// table); everything else falls through to recipes.NESHash.
func nesOrFDSHash(buf []byte) string {
	if len(buf) >= 4 && string(buf[:4]) == "FDS\x1A" {
		return recipes.FDSHash(buf)
	}
	return recipes.NESHash(buf)
}

// GenerateFromBuffer hashes an in-memory buffer for consoleID: the
// header-strip recipes apply their magic/size predicate, every other
// recognized console falls back to the whole-buffer recipe.
func GenerateFromBuffer(consoleID consoleid.ID, buf []byte) (string, error) {
	if recipe, ok := headerStripRecipes[consoleID]; ok {
		return recipe(buf), nil
	}
	if consoleID == consoleid.Unknown {
		messages.Errorf("unsupported console: %s", consoleID)
		return "", rcerr.ErrUnsupportedConsole{Console: consoleID}
	}
	return recipes.BufferHash(buf), nil
}

// GenerateFromFile hashes the file at path for consoleID. Disc consoles
// dispatch to their CD recipes, arcade and NDS to their dedicated
// recipes, header-strip consoles to the buffered-file path, and
// everything else to the streamed whole-file recipe. Playlist-capable
// consoles redirect through GenerateFromPlaylist when path ends in
// ".m3u".
func GenerateFromFile(consoleID consoleid.ID, path string) (string, error) {
	if playlistCapable[consoleID] && pathutil.CompareExtension(path, "m3u") {
		return GenerateFromPlaylist(consoleID, path)
	}

	switch consoleID {
	case consoleid.Arcade:
		return recipes.ArcadeHash(path), nil

	case consoleid.ThreeDO:
		return recipes.ThreeDOHash(path)
	case consoleid.Dreamcast:
		return recipes.DreamcastHash(path)
	case consoleid.PCFX:
		return recipes.PCFXHash(path)
	case consoleid.SegaCD, consoleid.Saturn:
		return recipes.SegaCDHash(path)
	case consoleid.PlayStation:
		return recipes.PSXHash(path)
	case consoleid.PS2:
		return recipes.PS2Hash(path)

	case consoleid.NDS:
		handle, err := fileio.Open(path)
		if err != nil {
			return "", rcerr.ErrOpenFailed{Path: path, Reason: err.Error()}
		}
		defer func() { _ = fileio.Close(handle) }()
		return recipes.NDSHash(handle)

	case consoleid.Unknown:
		return "", rcerr.ErrUnsupportedConsole{Console: consoleID}
	}

	if recipe, ok := headerStripRecipes[consoleID]; ok {
		if consoleID == consoleid.PCEngine && isPCEngineCDPath(path) {
			return recipes.PCEngineCDHash(path)
		}
		return generateFromFileHandle(path, func(buf []byte) (string, error) {
			return recipe(buf), nil
		})
	}

	return generateFromFileHandle(path, nil)
}

// isPCEngineCDPath decides whether a .pce/.sgx-adjacent path is a CD
// container rather than a HuCard dump, by container extension rather
// than console ID (consoleid.IsDiscBased deliberately excludes
// PCEngine; see its doc comment).
func isPCEngineCDPath(path string) bool {
	for _, ext := range []string{"cue", "chd", "iso"} {
		if pathutil.CompareExtension(path, ext) {
			return true
		}
	}
	return false
}

// generateFromFileHandle opens path through the installed file backend
// and runs either the streamed whole-file recipe (recipe == nil) or a
// buffered recipe that needs the full contents in memory first.
func generateFromFileHandle(path string, recipe func([]byte) (string, error)) (string, error) {
	handle, err := fileio.Open(path)
	if err != nil {
		return "", rcerr.ErrOpenFailed{Path: path, Reason: err.Error()}
	}
	defer func() { _ = fileio.Close(handle) }()

	if recipe == nil {
		return recipes.WholeFileHash(handle)
	}
	return recipes.BufferedFileHash(handle, func(buf []byte) string {
		result, err := recipe(buf)
		if err != nil {
			return ""
		}
		return result
	})
}

const playlistMaxBytes = 1023

// GenerateFromPlaylist reads an .m3u playlist at path, takes its first
// non-empty non-comment line as a relative or absolute disc path, and
// recurses into GenerateFromFile with that path resolved against the
// playlist's own directory.
func GenerateFromPlaylist(consoleID consoleid.ID, path string) (string, error) {
	entry, err := resolvePlaylistEntry(path)
	if err != nil {
		return "", err
	}
	return GenerateFromFile(consoleID, entry)
}

// resolvePlaylistEntry reads up to playlistMaxBytes of the .m3u at path
// and returns its first non-empty, non-comment line, resolved against
// path's own directory if relative.
func resolvePlaylistEntry(path string) (string, error) {
	handle, err := fileio.Open(path)
	if err != nil {
		return "", rcerr.ErrOpenFailed{Path: path, Reason: err.Error()}
	}
	defer func() { _ = fileio.Close(handle) }()

	buf := make([]byte, playlistMaxBytes)
	n, _ := fileio.Read(handle, buf)
	buf = buf[:n]

	scanner := bufio.NewScanner(strings.NewReader(string(buf)))
	var entry string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry = line
		break
	}
	if entry == "" {
		return "", rcerr.ErrStructuralSanity{Reason: "playlist has no usable entry"}
	}

	if !pathutil.IsAbsolute(entry) {
		entry = playlistDir(path) + entry
	}
	return entry, nil
}

// playlistDir returns path's directory component including its trailing
// separator, or "" if path has none.
func playlistDir(path string) string {
	name := pathutil.Filename(path)
	return path[:len(path)-len(name)]
}
