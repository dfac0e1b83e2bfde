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
	"github.com/retrohash/romhash/md5digest"
	"github.com/retrohash/romhash/pathutil"
)

// arcadeFolders is the set of system-emulation subdirectory names
// recognized by upstream arcade frontends (spec.md §4.F). Comparison
// against this set is case-sensitive.
var arcadeFolders = map[string]bool{
	"nes":      true,
	"fds":      true,
	"sms":      true,
	"msx":      true,
	"ngp":      true,
	"pce":      true,
	"sgx":      true,
	"tg16":     true,
	"coleco":   true,
	"sg1000":   true,
	"gamegear": true,
	"megadriv": true,
	"spectrum": true,
}

// ArcadeHash hashes the filename (without extension), optionally
// prefixed by "<folder>_" when path's immediate parent directory name
// is one of arcadeFolders. The library never opens the archive itself
// (spec.md §1): it only ever reads the path string.
func ArcadeHash(path string) string {
	name := pathutil.Filename(path)
	if ext := pathutil.Extension(name); ext != "" {
		name = name[:len(name)-len(ext)-1]
	}

	folder := parentFolder(path)
	if arcadeFolders[folder] {
		name = folder + "_" + name
	}

	h := md5digest.New()
	h.Write([]byte(name))
	return md5digest.Finalize(h)
}

// parentFolder returns the name of path's immediate parent directory,
// or "" if path has no directory component.
func parentFolder(path string) string {
	trimmed := path
	for len(trimmed) > 0 && trimmed[len(trimmed)-1] != '/' && trimmed[len(trimmed)-1] != '\\' {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if trimmed == "" {
		return ""
	}
	trimmed = trimmed[:len(trimmed)-1] // drop the trailing separator
	return pathutil.Filename(trimmed)
}
