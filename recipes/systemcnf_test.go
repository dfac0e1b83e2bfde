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

import "testing"

func TestFindBootPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		key         string
		stripPrefix string
		wantPath    string
		wantOK      bool
	}{
		{
			name:        "psx BOOT key",
			text:        "BOOT = cdrom:\\SLUS_000.01;1\r\nTCB = 4\r\n",
			key:         "BOOT",
			stripPrefix: "cdrom:",
			wantPath:    "SLUS_000.01",
			wantOK:      true,
		},
		{
			name:        "ps2 BOOT2 key",
			text:        "BOOT2 = cdrom0:\\SLUS_123.45;1\r\n",
			key:         "BOOT2",
			stripPrefix: "cdrom0:",
			wantPath:    "SLUS_123.45",
			wantOK:      true,
		},
		{
			name:        "BOOT does not match inside BOOT2",
			text:        "BOOT2 = cdrom0:\\SLUS_123.45;1\r\n",
			key:         "BOOT",
			stripPrefix: "cdrom:",
			wantOK:      false,
		},
		{
			name:        "no leading backslash after prefix",
			text:        "BOOT = cdrom:SLUS_000.01;1\r\n",
			key:         "BOOT",
			stripPrefix: "cdrom:",
			wantPath:    "SLUS_000.01",
			wantOK:      true,
		},
		{
			name:        "missing key",
			text:        "TCB = 4\r\n",
			key:         "BOOT",
			stripPrefix: "cdrom:",
			wantOK:      false,
		},
		{
			name:        "key without equals is skipped",
			text:        "BOOT something\r\nBOOT = cdrom:\\GAME.EXE;1\r\n",
			key:         "BOOT",
			stripPrefix: "cdrom:",
			wantPath:    "GAME.EXE",
			wantOK:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gotPath, gotOK := findBootPath(tt.text, tt.key, tt.stripPrefix)
			if gotOK != tt.wantOK {
				t.Fatalf("findBootPath() ok = %v, want %v", gotOK, tt.wantOK)
			}
			if gotOK && gotPath != tt.wantPath {
				t.Errorf("findBootPath() = %q, want %q", gotPath, tt.wantPath)
			}
		})
	}
}
