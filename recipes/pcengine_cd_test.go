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
	"errors"
	"testing"

	"github.com/retrohash/romhash/rcerr"
)

// pceCDHeader builds sector 1 of a PC Engine CD system disc: the magic
// at offset 32, a 24-bit BE start sector at offset 0, a sector count
// byte at offset 3, and the 22-byte title at offset 106.
func pceCDHeader(startSector uint32, sectorCount byte, title string) []byte {
	buf := make([]byte, 128)
	buf[0] = byte(startSector >> 16)
	buf[1] = byte(startSector >> 8)
	buf[2] = byte(startSector)
	buf[3] = sectorCount
	copy(buf[pceCDMagicOffset:], pceCDMagic)
	copy(buf[pceCDTitleOffset:pceCDTitleOffset+pceCDTitleSize], title)
	return buf
}

func TestPCEngineCDHash_SystemHeader(t *testing.T) {
	installFakeCDBackend(t)

	titleBuf := make([]byte, pceCDTitleSize)
	copy(titleBuf, []byte("A GAME TITLE HERE"))
	for i := len("A GAME TITLE HERE"); i < len(titleBuf); i++ {
		titleBuf[i] = ' '
	}
	title := string(titleBuf)
	header := pceCDHeader(2, 2, title)

	prog0 := make([]byte, 2048)
	for i := range prog0 {
		prog0[i] = byte(i)
	}
	prog1 := make([]byte, 2048)
	for i := range prog1 {
		prog1[i] = byte(255 - i)
	}

	track := newTrack(1, true, 0, nil, header, prog0, prog1)
	registerFakeDisc(t, "pce.bin", []*fakeTrack{track})

	got, err := PCEngineCDHash("pce.bin")
	if err != nil {
		t.Fatalf("PCEngineCDHash: %v", err)
	}

	want := md5hex(append(append([]byte{}, []byte(title)...), append(prog0, prog1...)...))
	if got != want {
		t.Errorf("PCEngineCDHash = %q, want %q", got, want)
	}
}

func TestPCEngineCDHash_FallsBackToBootBin(t *testing.T) {
	installFakeCDBackend(t)

	bootContent := []byte("hucard boot program bytes")
	track := newTrack(1, true, 0)
	track.sectors = make([][]byte, 22)
	for i := range track.sectors {
		track.sectors[i] = sector(nil)
	}
	// sector 1 deliberately carries no PC Engine CD magic.
	track.sectors[16] = sector(iso9660RootSector(20))
	track.sectors[20] = sector(iso9660DirSector(iso9660Record("BOOT.BIN;1", 21, uint32(len(bootContent)))))
	track.sectors[21] = sector(bootContent)
	registerFakeDisc(t, "pce.bin", []*fakeTrack{track})

	got, err := PCEngineCDHash("pce.bin")
	if err != nil {
		t.Fatalf("PCEngineCDHash fallback: %v", err)
	}
	want := md5hex(bootContent)
	if got != want {
		t.Errorf("PCEngineCDHash fallback = %q, want %q", got, want)
	}
}

func TestPCEngineCDHash_NeitherFormPresent(t *testing.T) {
	installFakeCDBackend(t)

	track := newTrack(1, true, 0)
	track.sectors = make([][]byte, 17)
	for i := range track.sectors {
		track.sectors[i] = sector(nil)
	}
	track.sectors[16] = sector(iso9660RootSector(20))
	registerFakeDisc(t, "empty.bin", []*fakeTrack{track})

	_, err := PCEngineCDHash("empty.bin")
	var lookupMiss rcerr.ErrLookupMiss
	if !errors.As(err, &lookupMiss) {
		t.Fatalf("PCEngineCDHash with no BOOT.BIN error = %v, want ErrLookupMiss", err)
	}
}
