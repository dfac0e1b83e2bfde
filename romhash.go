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

// Package romhash computes content-fingerprinting MD5 hashes for ROM
// and disc images across the consoles consoleid.All lists. It never
// reads from an archive or disc image itself: file access goes through
// the pluggable fileio backend, and disc access through the pluggable
// cdreader backend, each installed once by the host application before
// hashing begins (see InitCustomFileReader and InitCustomCDReader).
package romhash

import (
	"github.com/retrohash/romhash/cdreader"
	"github.com/retrohash/romhash/consoleid"
	"github.com/retrohash/romhash/fileio"
	"github.com/retrohash/romhash/messages"
)

// Console is an alias for consoleid.ID for convenience.
type Console = consoleid.ID

// Re-export console constants for convenience, mirroring gameid.go's
// alias-of-identifier-package pattern.
const (
	ConsoleNES          = consoleid.NES
	ConsoleSNES         = consoleid.SNES
	ConsoleGB           = consoleid.GB
	ConsoleGBC          = consoleid.GBC
	ConsoleGBA          = consoleid.GBA
	ConsoleGameGear     = consoleid.GameGear
	ConsoleMegaDrive    = consoleid.MegaDrive
	ConsoleN64          = consoleid.N64
	ConsoleNeoGeoPocket = consoleid.NeoGeoPocket
	ConsoleJaguar       = consoleid.Jaguar
	ConsoleLynx         = consoleid.Lynx
	ConsolePCEngine     = consoleid.PCEngine
	ConsoleColecoVision = consoleid.ColecoVision
	ConsoleMSX          = consoleid.MSX
	ConsoleSG1000       = consoleid.SG1000
	ConsoleSupervision  = consoleid.Supervision
	ConsoleOric         = consoleid.Oric
	ConsoleTIC80        = consoleid.TIC80
	ConsoleVirtualBoy   = consoleid.VirtualBoy
	ConsoleWonderSwan   = consoleid.WonderSwan
	ConsoleAppleII      = consoleid.AppleII
	ConsoleAtari7800    = consoleid.Atari7800
	ConsolePC8800       = consoleid.PC8800
	ConsoleSharpX1      = consoleid.SharpX1
	ConsoleThomsonTO8   = consoleid.ThomsonTO8
	ConsolePokemonMini  = consoleid.PokemonMini
	ConsoleNDS          = consoleid.NDS
	ConsoleArcade       = consoleid.Arcade
	ConsoleThreeDO      = consoleid.ThreeDO
	ConsoleDreamcast    = consoleid.Dreamcast
	ConsolePCFX         = consoleid.PCFX
	ConsoleSegaCD       = consoleid.SegaCD
	ConsoleSaturn       = consoleid.Saturn
	ConsolePlayStation  = consoleid.PlayStation
	ConsolePS2          = consoleid.PS2
)

// AllConsoles lists every supported console in declaration order.
func AllConsoles() []Console { return consoleid.All() }

// InitErrorCallback installs the process-wide error message sink. Pass
// nil to silence it.
func InitErrorCallback(fn func(message string)) {
	messages.InstallError(fn)
}

// InitVerboseCallback installs the process-wide verbose/diagnostic
// message sink. Pass nil to silence it.
func InitVerboseCallback(fn func(message string)) {
	messages.InstallVerbose(fn)
}

// InitCustomFileReader installs a custom file-I/O backend. Passing nil
// restores the default stdio backend.
func InitCustomFileReader(backend *fileio.Backend) {
	fileio.Install(backend)
}

// InitCustomCDReader installs a custom CD-I/O backend. Passing nil
// uninstalls it, after which every disc-based recipe fails with
// ErrBackendMissing (cdreader.ErrNotInstalled is the same type, matched
// via errors.As either way).
func InitCustomCDReader(backend *cdreader.Backend) {
	cdreader.Install(backend)
}
