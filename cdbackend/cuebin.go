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

// Package cdbackend provides ready-made cdreader.Backend implementations
// for the container formats a host application is likely to hand this
// module: a single raw .bin/.iso image, a textual .cue sheet over one
// or more .bin files, and (in the chd subpackage) MAME's compressed
// .chd format.
package cdbackend

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// cueTrack is one TRACK block of a parsed .cue sheet: which underlying
// file it reads from, its sector size, and its absolute starting sector
// once every preceding track's length has been accounted for.
type cueTrack struct {
	number     int
	mode       string
	sectorSize int
	file       string
	fileOffset int64 // byte offset of this track's INDEX 01 within file
	startLBA   int64  // disc-absolute sector this track begins at
	frames     int64  // length in sectors, 0 if unknown (last track in file)
}

// CueSheet is a parsed .cue sheet: the ordered tracks it names and the
// directory .cue-relative paths resolve against.
type CueSheet struct {
	dir    string
	tracks []cueTrack
}

// ParseCue reads the .cue sheet at path and resolves every FILE/TRACK/
// INDEX block it names into absolute-sector track boundaries.
func ParseCue(path string) (*CueSheet, error) {
	f, err := os.Open(path) //nolint:gosec // path is caller-supplied by design
	if err != nil {
		return nil, fmt.Errorf("cuebin: open cue sheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := &CueSheet{dir: filepath.Dir(path)}

	var (
		curFile       string
		curTrackMode  string
		curTrackNum   int
		pendingTrack  bool
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		upper := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(upper, "FILE"):
			curFile = extractQuoted(line)

		case strings.HasPrefix(upper, "TRACK"):
			fields := strings.Fields(line)
			if len(fields) >= 3 {
				curTrackNum, _ = strconv.Atoi(fields[1])
				curTrackMode = fields[2]
				pendingTrack = true
			}

		case strings.HasPrefix(upper, "INDEX"):
			fields := strings.Fields(line)
			if len(fields) >= 3 && fields[1] == "01" && pendingTrack {
				offset, err := msfToBytes(fields[2], sectorSizeForMode(curTrackMode))
				if err != nil {
					return nil, err
				}
				sheet.tracks = append(sheet.tracks, cueTrack{
					number:     curTrackNum,
					mode:       curTrackMode,
					sectorSize: sectorSizeForMode(curTrackMode),
					file:       curFile,
					fileOffset: offset,
				})
				pendingTrack = false
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cuebin: scan cue sheet: %w", err)
	}
	if len(sheet.tracks) == 0 {
		return nil, fmt.Errorf("cuebin: no tracks found in %q", path)
	}

	sheet.assignAbsoluteSectors()
	return sheet, nil
}

// assignAbsoluteSectors walks tracks in order, computing each one's
// disc-absolute start sector and, for every track but the last in a
// given file, its length by subtracting the next track's start.
func (s *CueSheet) assignAbsoluteSectors() {
	var lba int64
	for i := range s.tracks {
		s.tracks[i].startLBA = lba
		if i+1 < len(s.tracks) && s.tracks[i+1].file == s.tracks[i].file {
			deltaBytes := s.tracks[i+1].fileOffset - s.tracks[i].fileOffset
			s.tracks[i].frames = deltaBytes / int64(s.tracks[i].sectorSize)
		} else {
			size, err := fileSize(filepath.Join(s.dir, s.tracks[i].file))
			if err == nil {
				remaining := size - s.tracks[i].fileOffset
				s.tracks[i].frames = remaining / int64(s.tracks[i].sectorSize)
			}
		}
		lba += s.tracks[i].frames
	}
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func sectorSizeForMode(mode string) int {
	switch strings.ToUpper(mode) {
	case "AUDIO":
		return 2352
	case "MODE1/2048":
		return 2048
	case "MODE2/2336":
		return 2336
	default:
		return 2352 // MODE1/2352, MODE2/2352, and unknowns
	}
}

// msfToBytes converts an "MM:SS:FF" cue sheet timestamp to a byte offset
// within its track's file, at 75 frames/sector/second.
func msfToBytes(msf string, sectorSize int) (int64, error) {
	parts := strings.Split(msf, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("cuebin: malformed INDEX timestamp %q", msf)
	}
	m, err1 := strconv.Atoi(parts[0])
	s, err2 := strconv.Atoi(parts[1])
	fr, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("cuebin: malformed INDEX timestamp %q", msf)
	}
	frames := int64(m*60+s)*75 + int64(fr)
	return frames * int64(sectorSize), nil
}

func extractQuoted(line string) string {
	parts := strings.SplitN(line, "\"", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
