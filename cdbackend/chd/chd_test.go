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

package chd

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildSyntheticCHD writes a minimal, uncompressed V4 CHD to a temp file and
// returns its path. The header, hunk map (HunkCompTypeNone entries, per
// parseMapV4) and hunk payloads are all hand-assembled so the fixture needs
// no external disc image: two 2448-byte hunks (one CD sector + subchannel
// each, matching V4's hardcoded UnitBytes default), holding caller-supplied
// filler so ReadAt exercises the non-sync-header extraction path.
func buildSyntheticCHD(t *testing.T, hunk0, hunk1 []byte) string {
	t.Helper()

	const (
		hunkBytes  = 2448
		numHunks   = 2
		mapEntSize = 16
	)
	if len(hunk0) != hunkBytes || len(hunk1) != hunkBytes {
		t.Fatalf("buildSyntheticCHD: hunks must be %d bytes", hunkBytes)
	}

	header := make([]byte, headerSizeV4)
	copy(header[0:8], chdMagic[:])
	binary.BigEndian.PutUint32(header[8:12], headerSizeV4)
	binary.BigEndian.PutUint32(header[12:16], 4) // version
	binary.BigEndian.PutUint32(header[16:20], 0) // flags
	binary.BigEndian.PutUint32(header[20:24], 0) // compression (uncompressed)
	binary.BigEndian.PutUint32(header[24:28], numHunks)
	binary.BigEndian.PutUint64(header[28:36], uint64(numHunks*2048)) // logical bytes
	binary.BigEndian.PutUint64(header[36:44], 0)                     // meta offset (no tracks)
	binary.BigEndian.PutUint32(header[44:48], hunkBytes)

	mapOffset := int64(len(header))
	mapData := make([]byte, numHunks*mapEntSize)
	hunksOffset := mapOffset + int64(len(mapData))
	for i, off := range []int64{hunksOffset, hunksOffset + hunkBytes} {
		e := i * mapEntSize
		binary.BigEndian.PutUint64(mapData[e:e+8], uint64(off))
		binary.BigEndian.PutUint32(mapData[e+8:e+12], 0) // CRC32, unchecked
		binary.BigEndian.PutUint16(mapData[e+12:e+14], 0)
		binary.BigEndian.PutUint16(mapData[e+14:e+16], 0) // flags=0 -> HunkCompTypeNone
	}

	var buf bytes.Buffer
	buf.Write(header)
	buf.Write(mapData)
	buf.Write(hunk0)
	buf.Write(hunk1)

	path := filepath.Join(t.TempDir(), "synthetic.chd")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func fillHunk(b byte) []byte {
	hunk := make([]byte, 2448)
	for i := range hunk {
		hunk[i] = b
	}
	return hunk
}

func TestOpenSyntheticCHD(t *testing.T) {
	t.Parallel()

	path := buildSyntheticCHD(t, fillHunk(0xAA), fillHunk(0xBB))
	chdFile, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = chdFile.Close() }()

	header := chdFile.Header()
	if header.Version != 4 {
		t.Errorf("Version = %d, want 4", header.Version)
	}
	if header.HunkBytes != 2448 {
		t.Errorf("HunkBytes = %d, want 2448", header.HunkBytes)
	}
	if chdFile.hunkMap.NumHunks() != 2 {
		t.Errorf("NumHunks = %d, want 2", chdFile.hunkMap.NumHunks())
	}
	if chdFile.Header().IsCompressed() {
		t.Error("expected uncompressed CHD")
	}
}

// TestHeaderIsCompressed verifies compression detection directly against
// Header values, for both the V5 (Compressors) and V3/V4 (Compression) layouts.
func TestHeaderIsCompressed(t *testing.T) {
	t.Parallel()

	compressedV5 := Header{Version: 5, Compressors: [4]uint32{CodecZlib, 0, 0, 0}}
	if !compressedV5.IsCompressed() {
		t.Error("V5 header with a nonzero compressor: want IsCompressed() true")
	}
	uncompressedV5 := Header{Version: 5}
	if uncompressedV5.IsCompressed() {
		t.Error("V5 header with all-zero compressors: want IsCompressed() false")
	}

	compressedV4 := Header{Version: 4, Compression: 3}
	if !compressedV4.IsCompressed() {
		t.Error("V4 header with nonzero Compression: want IsCompressed() true")
	}
	uncompressedV4 := Header{Version: 4}
	if uncompressedV4.IsCompressed() {
		t.Error("V4 header with zero Compression: want IsCompressed() false")
	}
}

func TestCHDSize(t *testing.T) {
	t.Parallel()

	path := buildSyntheticCHD(t, fillHunk(0), fillHunk(0))
	chdFile, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = chdFile.Close() }()

	if got, want := chdFile.Size(), int64(2*2048); got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
}

// TestSectorReader verifies SectorReader extracts 2048-byte logical sectors
// from each hunk's leading bytes when no CD sync header is present.
func TestSectorReader(t *testing.T) {
	t.Parallel()

	path := buildSyntheticCHD(t, fillHunk(0x11), fillHunk(0x22))
	chdFile, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = chdFile.Close() }()

	reader := chdFile.SectorReader()
	buf := make([]byte, 2048)
	n, err := reader.ReadAt(buf, 0)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if n != 2048 {
		t.Errorf("expected 2048 bytes, got %d", n)
	}
	for _, b := range buf {
		if b != 0x11 {
			t.Fatalf("sector 0 content mismatch: got byte %x, want 0x11", b)
		}
	}

	n, err = reader.ReadAt(buf, 2048)
	if err != nil {
		t.Fatalf("ReadAt(2048) failed: %v", err)
	}
	if n != 2048 {
		t.Errorf("expected 2048 bytes, got %d", n)
	}
	for _, b := range buf {
		if b != 0x22 {
			t.Fatalf("sector 1 content mismatch: got byte %x, want 0x22", b)
		}
	}
}

// TestRawSectorReader verifies RawSectorReader returns the full 2448-byte hunk.
func TestRawSectorReader(t *testing.T) {
	t.Parallel()

	path := buildSyntheticCHD(t, fillHunk(0x33), fillHunk(0x44))
	chdFile, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = chdFile.Close() }()

	reader := chdFile.RawSectorReader()
	buf := make([]byte, 256)
	n, err := reader.ReadAt(buf, 0)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if n != 256 {
		t.Errorf("expected 256 bytes, got %d", n)
	}
	for _, b := range buf {
		if b != 0x33 {
			t.Fatalf("raw sector content mismatch: got byte %x, want 0x33", b)
		}
	}
}

// TestFirstDataTrackOffset verifies the no-track-metadata fallback returns 0.
func TestFirstDataTrackOffset(t *testing.T) {
	t.Parallel()

	path := buildSyntheticCHD(t, fillHunk(0), fillHunk(0))
	chdFile, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = chdFile.Close() }()

	if offset := chdFile.FirstDataTrackOffset(); offset != 0 {
		t.Errorf("FirstDataTrackOffset() with no track metadata = %d, want 0", offset)
	}
}

// TestDataTrackSizeNoTracks verifies DataTrackSize falls back to LogicalBytes
// when no track metadata was parsed.
func TestDataTrackSizeNoTracks(t *testing.T) {
	t.Parallel()

	path := buildSyntheticCHD(t, fillHunk(0), fillHunk(0))
	chdFile, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = chdFile.Close() }()

	if got, want := chdFile.DataTrackSize(), int64(chdFile.header.LogicalBytes); got != want {
		t.Errorf("DataTrackSize() = %d, want %d", got, want)
	}
}

// TestReadAtEmptyBuffer verifies ReadAt with empty buffer.
func TestReadAtEmptyBuffer(t *testing.T) {
	t.Parallel()

	path := buildSyntheticCHD(t, fillHunk(0), fillHunk(0))
	chdFile, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = chdFile.Close() }()

	reader := chdFile.SectorReader()
	buf := make([]byte, 0)
	n, err := reader.ReadAt(buf, 0)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 bytes, got %d", n)
	}
}

// TestOpenNonExistent verifies error handling for missing files.
func TestOpenNonExistent(t *testing.T) {
	t.Parallel()

	_, err := Open("/nonexistent/path/to/file.chd")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !os.IsNotExist(errors.Unwrap(err)) && !strings.Contains(err.Error(), "no such file") {
		t.Logf("Got error (acceptable): %v", err)
	}
}

// TestOpenInvalidMagic verifies error handling for non-CHD files.
func TestOpenInvalidMagic(t *testing.T) {
	t.Parallel()

	// Try opening a non-CHD file (use the test file itself as it's not a CHD)
	_, err := Open("chd_test.go")
	if err == nil {
		t.Fatal("expected error for invalid magic")
	}
	if !errors.Is(err, ErrInvalidMagic) && !strings.Contains(err.Error(), "invalid CHD magic") {
		t.Errorf("expected ErrInvalidMagic, got: %v", err)
	}
}

// TestTrackIsDataTrack verifies track type detection.
func TestTrackIsDataTrack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		trackType string
		want      bool
	}{
		{"MODE1", true},
		{"MODE1_RAW", true},
		{"MODE2_RAW", true},
		{"AUDIO", false},
		{"audio", false},
		{"Audio", false},
	}

	for _, tt := range tests {
		track := Track{Type: tt.trackType}
		if got := track.IsDataTrack(); got != tt.want {
			t.Errorf("Track{Type: %q}.IsDataTrack() = %v, want %v", tt.trackType, got, tt.want)
		}
	}
}

// TestTrackSectorSize verifies sector size calculation.
func TestTrackSectorSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		track    Track
		wantSize int
	}{
		{"default", Track{}, 2352},
		{"mode1_raw", Track{DataSize: 2352}, 2352},
		{"mode1_raw_sub", Track{DataSize: 2352, SubSize: 96}, 2448},
		{"mode1_2048", Track{DataSize: 2048}, 2048},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.track.SectorSize(); got != tt.wantSize {
				t.Errorf("SectorSize() = %d, want %d", got, tt.wantSize)
			}
		})
	}
}

// TestCodecTagToString verifies codec tag formatting.
func TestCodecTagToString(t *testing.T) {
	t.Parallel()

	//nolint:govet // fieldalignment not important in test structs
	tests := []struct {
		tag  uint32
		want string
	}{
		{CodecZlib, "zlib"},
		{CodecLZMA, "lzma"},
		{CodecFLAC, "flac"},
		{CodecZstd, "zstd"},
		{CodecCDZlib, "cdzl"},
		{CodecCDLZMA, "cdlz"},
		{CodecCDFLAC, "cdfl"},
		{CodecCDZstd, "cdzs"},
		{0, "none"},
	}

	for _, tt := range tests {
		if got := codecTagToString(tt.tag); got != tt.want {
			t.Errorf("codecTagToString(0x%x) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

// TestIsCDCodec verifies CD codec detection.
func TestIsCDCodec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  uint32
		want bool
	}{
		{CodecCDZlib, true},
		{CodecCDLZMA, true},
		{CodecCDFLAC, true},
		{CodecCDZstd, true},
		{CodecZlib, false},
		{CodecLZMA, false},
		{CodecFLAC, false},
		{CodecZstd, false},
		{0, false},
	}

	for _, tt := range tests {
		if got := IsCDCodec(tt.tag); got != tt.want {
			t.Errorf("IsCDCodec(0x%x) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

//nolint:gocognit,revive // Table-driven test with multiple assertions
func TestParseCHT2(t *testing.T) {
	t.Parallel()

	//nolint:govet // fieldalignment not important in test structs
	tests := []struct {
		name    string
		data    string
		wantErr bool
		wantNum int
		wantTyp string
		wantFrm int
	}{
		{
			name:    "standard",
			data:    "TRACK:1 TYPE:MODE1_RAW SUBTYPE:RW FRAMES:1000 PREGAP:150 POSTGAP:0",
			wantNum: 1,
			wantTyp: "MODE1_RAW",
			wantFrm: 1000,
		},
		{
			name:    "audio",
			data:    "TRACK:2 TYPE:AUDIO SUBTYPE:NONE FRAMES:5000",
			wantNum: 2,
			wantTyp: "AUDIO",
			wantFrm: 5000,
		},
		{
			name:    "invalid_track_number",
			data:    "TRACK:abc TYPE:MODE1",
			wantErr: true,
		},
		{
			name:    "invalid_frames",
			data:    "TRACK:1 FRAMES:notanumber",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseCHT2([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Number != tt.wantNum {
				t.Errorf("Number = %d, want %d", got.Number, tt.wantNum)
			}
			if got.Type != tt.wantTyp {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantTyp)
			}
			if got.Frames != tt.wantFrm {
				t.Errorf("Frames = %d, want %d", got.Frames, tt.wantFrm)
			}
		})
	}
}

// TestTrackTypeToDataSize verifies track type to data size mapping.
func TestTrackTypeToDataSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		trackType string
		want      int
	}{
		{"MODE1/2048", 2048},
		{"MODE1/2352", 2352},
		{"MODE1_RAW", 2352},
		{"MODE2/2352", 2352},
		{"MODE2_RAW", 2352},
		{"AUDIO", 2352},
		{"unknown", 2352}, // Default
	}

	for _, tt := range tests {
		if got := trackTypeToDataSize(tt.trackType); got != tt.want {
			t.Errorf("trackTypeToDataSize(%q) = %d, want %d", tt.trackType, got, tt.want)
		}
	}
}

// TestSubTypeToSize verifies subtype to size mapping.
func TestSubTypeToSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		subType string
		want    int
	}{
		{"NONE", 0},
		{"RW", 96},
		{"RW_RAW", 96},
		{"unknown", 0}, // Default
	}

	for _, tt := range tests {
		if got := subTypeToSize(tt.subType); got != tt.want {
			t.Errorf("subTypeToSize(%q) = %d, want %d", tt.subType, got, tt.want)
		}
	}
}

// TestCDTypeToString verifies binary CD type conversion.
func TestCDTypeToString(t *testing.T) {
	t.Parallel()

	//nolint:govet // fieldalignment not important in test structs
	tests := []struct {
		cdType uint32
		want   string
	}{
		{0, "MODE1/2048"},
		{1, "MODE1/2352"},
		{2, "MODE2/2048"},
		{3, "MODE2/2336"},
		{4, "MODE2/2352"},
		{5, "AUDIO"},
		{99, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := cdTypeToString(tt.cdType); got != tt.want {
			t.Errorf("cdTypeToString(%d) = %q, want %q", tt.cdType, got, tt.want)
		}
	}
}

// TestCDSubTypeToString verifies binary CD subtype conversion.
func TestCDSubTypeToString(t *testing.T) {
	t.Parallel()

	//nolint:govet // fieldalignment not important in test structs
	tests := []struct {
		subType uint32
		want    string
	}{
		{0, "RW"},
		{1, "RW_RAW"},
		{2, "NONE"},
		{99, "NONE"}, // Default
	}

	for _, tt := range tests {
		if got := cdSubTypeToString(tt.subType); got != tt.want {
			t.Errorf("cdSubTypeToString(%d) = %q, want %q", tt.subType, got, tt.want)
		}
	}
}

// TestGetCodecUnknown verifies error for unknown codec.
func TestGetCodecUnknown(t *testing.T) {
	t.Parallel()

	_, err := GetCodec(0x12345678)
	if err == nil {
		t.Error("expected error for unknown codec")
	}
	if !errors.Is(err, ErrUnsupportedCodec) {
		t.Errorf("expected ErrUnsupportedCodec, got: %v", err)
	}
}

// TestZlibCodecDecompress verifies zlib codec decompression.
func TestZlibCodecDecompress(t *testing.T) {
	t.Parallel()

	codec := &zlibCodec{}

	// Create test data: compress "hello world" with deflate
	original := []byte("hello world hello world hello world hello world")
	var compressed bytes.Buffer
	writer, _ := flate.NewWriter(&compressed, flate.DefaultCompression)
	_, _ = writer.Write(original)
	_ = writer.Close()

	dst := make([]byte, len(original))
	decompLen, err := codec.Decompress(dst, compressed.Bytes())
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if decompLen != len(original) {
		t.Errorf("Decompress returned %d bytes, want %d", decompLen, len(original))
	}
	if !bytes.Equal(dst[:decompLen], original) {
		t.Error("Decompressed data mismatch")
	}
}

// TestZlibCodecDecompressInvalid verifies error handling for invalid data.
func TestZlibCodecDecompressInvalid(t *testing.T) {
	t.Parallel()

	codec := &zlibCodec{}
	dst := make([]byte, 100)
	_, err := codec.Decompress(dst, []byte{0x00, 0x01, 0x02, 0x03})
	// Invalid data should error
	if err == nil {
		t.Log("Note: deflate accepted invalid data (may have partial decode)")
	}
}

// TestCDZlibCodecSourceTooSmall verifies error for truncated source.
func TestCDZlibCodecSourceTooSmall(t *testing.T) {
	t.Parallel()

	codec := &cdZlibCodec{}
	dst := make([]byte, 2448)
	_, err := codec.DecompressCD(dst, []byte{0x00}, 2448, 1)
	if err == nil {
		t.Error("expected error for truncated source")
	}
	if !strings.Contains(err.Error(), "source too small") {
		t.Errorf("expected 'source too small' error, got: %v", err)
	}
}

// TestCDZlibCodecInvalidBaseLength verifies error for invalid base length.
func TestCDZlibCodecInvalidBaseLength(t *testing.T) {
	t.Parallel()

	codec := &cdZlibCodec{}
	dst := make([]byte, 2448)
	// Header: 1 byte ECC bitmap + 2 bytes length (0xFFFF = 65535, way too big)
	src := []byte{0x00, 0xFF, 0xFF}
	_, err := codec.DecompressCD(dst, src, 2448, 1)
	if err == nil {
		t.Error("expected error for invalid base length")
	}
	if !strings.Contains(err.Error(), "invalid base length") {
		t.Errorf("expected 'invalid base length' error, got: %v", err)
	}
}

// TestLZMADictSizeComputation verifies LZMA dictionary size calculation.
func TestLZMADictSizeComputation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hunkBytes uint32
		minDict   uint32
	}{
		{4096, 4096},       // Small hunk
		{8192, 8192},       // 8KB
		{19584, 24576},     // Typical CD hunk (19584 -> next power)
		{1 << 20, 1 << 20}, // 1MB
	}

	for _, tt := range tests {
		got := computeLZMADictSize(tt.hunkBytes)
		if got < tt.hunkBytes {
			t.Errorf("computeLZMADictSize(%d) = %d, should be >= %d", tt.hunkBytes, got, tt.hunkBytes)
		}
	}
}

// TestLZMACodecEmptySource verifies error for empty source.
func TestLZMACodecEmptySource(t *testing.T) {
	t.Parallel()

	codec := &lzmaCodec{}
	dst := make([]byte, 100)
	_, err := codec.Decompress(dst, []byte{})
	if err == nil {
		t.Error("expected error for empty source")
	}
	if !strings.Contains(err.Error(), "empty source") {
		t.Errorf("expected 'empty source' error, got: %v", err)
	}
}

// TestCDLZMACodecSourceTooSmall verifies error for truncated source.
func TestCDLZMACodecSourceTooSmall(t *testing.T) {
	t.Parallel()

	codec := &cdLZMACodec{}
	dst := make([]byte, 2448)
	_, err := codec.DecompressCD(dst, []byte{0x00}, 2448, 1)
	if err == nil {
		t.Error("expected error for truncated source")
	}
	if !strings.Contains(err.Error(), "source too small") {
		t.Errorf("expected 'source too small' error, got: %v", err)
	}
}

// TestHeaderV4Parsing verifies V4 header parsing.
func TestHeaderV4Parsing(t *testing.T) {
	t.Parallel()

	// Construct a valid V4 header buffer (after magic+size+version already read)
	// V4 header is 108 bytes, we need headerSizeV4-12 = 96 bytes
	buf := make([]byte, 96)

	// Flags at offset 4
	binary.BigEndian.PutUint32(buf[4:8], 0x00000001)
	// Compression at offset 8
	binary.BigEndian.PutUint32(buf[8:12], 0x00000005)
	// Total hunks at offset 12
	binary.BigEndian.PutUint32(buf[12:16], 1000)
	// Logical bytes at offset 16
	binary.BigEndian.PutUint64(buf[16:24], 1000000)
	// Meta offset at offset 24
	binary.BigEndian.PutUint64(buf[24:32], 500)
	// Hunk bytes at offset 32
	binary.BigEndian.PutUint32(buf[32:36], 4096)

	header := &Header{Version: 4}
	err := parseHeaderV4(header, buf)
	if err != nil {
		t.Fatalf("parseHeaderV4 failed: %v", err)
	}

	if header.Flags != 1 {
		t.Errorf("Flags = %d, want 1", header.Flags)
	}
	if header.Compression != 5 {
		t.Errorf("Compression = %d, want 5", header.Compression)
	}
	if header.TotalHunks != 1000 {
		t.Errorf("TotalHunks = %d, want 1000", header.TotalHunks)
	}
	if header.LogicalBytes != 1000000 {
		t.Errorf("LogicalBytes = %d, want 1000000", header.LogicalBytes)
	}
	if header.HunkBytes != 4096 {
		t.Errorf("HunkBytes = %d, want 4096", header.HunkBytes)
	}
	// V4 sets default UnitBytes
	if header.UnitBytes != 2448 {
		t.Errorf("UnitBytes = %d, want 2448", header.UnitBytes)
	}
}

// TestHeaderV4TooSmall verifies error for truncated V4 buffer.
func TestHeaderV4TooSmall(t *testing.T) {
	t.Parallel()

	header := &Header{Version: 4}
	err := parseHeaderV4(header, make([]byte, 10))
	if err == nil {
		t.Error("expected error for truncated buffer")
	}
	if !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("expected ErrInvalidHeader, got: %v", err)
	}
}

// TestHeaderV3Parsing verifies V3 header parsing.
func TestHeaderV3Parsing(t *testing.T) {
	t.Parallel()

	// V3 header is 120 bytes, we need headerSizeV3-12 = 108 bytes
	buf := make([]byte, 108)

	// Flags at offset 4
	binary.BigEndian.PutUint32(buf[4:8], 0x00000002)
	// Compression at offset 8
	binary.BigEndian.PutUint32(buf[8:12], 0x00000003)
	// Total hunks at offset 12
	binary.BigEndian.PutUint32(buf[12:16], 500)
	// Logical bytes at offset 16
	binary.BigEndian.PutUint64(buf[16:24], 500000)
	// Meta offset at offset 24
	binary.BigEndian.PutUint64(buf[24:32], 250)
	// MD5 hashes at offset 32-64 (skip)
	// Hunk bytes at offset 64
	binary.BigEndian.PutUint32(buf[64:68], 8192)

	header := &Header{Version: 3}
	err := parseHeaderV3(header, buf)
	if err != nil {
		t.Fatalf("parseHeaderV3 failed: %v", err)
	}

	if header.Flags != 2 {
		t.Errorf("Flags = %d, want 2", header.Flags)
	}
	if header.Compression != 3 {
		t.Errorf("Compression = %d, want 3", header.Compression)
	}
	if header.TotalHunks != 500 {
		t.Errorf("TotalHunks = %d, want 500", header.TotalHunks)
	}
	if header.HunkBytes != 8192 {
		t.Errorf("HunkBytes = %d, want 8192", header.HunkBytes)
	}
}

// TestHeaderV3TooSmall verifies error for truncated V3 buffer.
func TestHeaderV3TooSmall(t *testing.T) {
	t.Parallel()

	header := &Header{Version: 3}
	err := parseHeaderV3(header, make([]byte, 50))
	if err == nil {
		t.Error("expected error for truncated buffer")
	}
	if !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("expected ErrInvalidHeader, got: %v", err)
	}
}

// TestNumHunksCalculation verifies hunk count calculation.
func TestNumHunksCalculation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		header       Header
		expectedHunk uint32
	}{
		{
			name:         "from_total_hunks",
			header:       Header{TotalHunks: 100, HunkBytes: 4096, LogicalBytes: 1000000},
			expectedHunk: 100, // Uses TotalHunks when set
		},
		{
			name:         "calculated",
			header:       Header{TotalHunks: 0, HunkBytes: 4096, LogicalBytes: 16384},
			expectedHunk: 4, // exact fit: 16384 bytes at 4096 per hunk
		},
		{
			name:         "calculated_with_remainder",
			header:       Header{TotalHunks: 0, HunkBytes: 4096, LogicalBytes: 17000},
			expectedHunk: 5, // rounds up: 17000 bytes needs 5 hunks at 4096
		},
		{
			name:         "zero_hunk_bytes",
			header:       Header{TotalHunks: 0, HunkBytes: 0, LogicalBytes: 16384},
			expectedHunk: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.header.NumHunks()
			if got != tt.expectedHunk {
				t.Errorf("NumHunks() = %d, want %d", got, tt.expectedHunk)
			}
		})
	}
}

// TestParseCHTR verifies CHTR (v1 track) parsing.
func TestParseCHTR(t *testing.T) {
	t.Parallel()

	// CHTR uses same format as CHT2
	data := []byte("TRACK:1 TYPE:MODE1_RAW FRAMES:500")
	track, err := parseCHTR(data)
	if err != nil {
		t.Fatalf("parseCHTR failed: %v", err)
	}
	if track.Number != 1 {
		t.Errorf("Number = %d, want 1", track.Number)
	}
	if track.Type != "MODE1_RAW" {
		t.Errorf("Type = %q, want MODE1_RAW", track.Type)
	}
	if track.Frames != 500 {
		t.Errorf("Frames = %d, want 500", track.Frames)
	}
}

// TestParseCHCD verifies CHCD (binary track metadata) parsing.
func TestParseCHCD(t *testing.T) {
	t.Parallel()

	// Build a valid CHCD buffer
	// Format: numTracks (4 bytes) + track entries (24 bytes each)
	buf := make([]byte, 4+24*2) // 2 tracks

	// Number of tracks
	binary.BigEndian.PutUint32(buf[0:4], 2)

	// Track 1: MODE1/2048, RW subchannel, 1000 frames
	offset := 4
	binary.BigEndian.PutUint32(buf[offset:offset+4], 0)   // Type (0 = MODE1/2048)
	binary.BigEndian.PutUint32(buf[offset+4:offset+8], 0) // SubType = RW
	binary.BigEndian.PutUint32(buf[offset+8:offset+12], 2048)
	binary.BigEndian.PutUint32(buf[offset+12:offset+16], 96)
	binary.BigEndian.PutUint32(buf[offset+16:offset+20], 1000)
	binary.BigEndian.PutUint32(buf[offset+20:offset+24], 0) // Pad frames

	// Track 2: AUDIO
	offset = 4 + 24
	binary.BigEndian.PutUint32(buf[offset:offset+4], 5)   // Type (5 is AUDIO)
	binary.BigEndian.PutUint32(buf[offset+4:offset+8], 2) // SubType (2 is NONE)
	binary.BigEndian.PutUint32(buf[offset+8:offset+12], 2352)
	binary.BigEndian.PutUint32(buf[offset+12:offset+16], 0)
	binary.BigEndian.PutUint32(buf[offset+16:offset+20], 2000)
	binary.BigEndian.PutUint32(buf[offset+20:offset+24], 0)

	tracks, err := parseCHCD(buf)
	if err != nil {
		t.Fatalf("parseCHCD failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}

	// Check track 1
	if tracks[0].Number != 1 {
		t.Errorf("Track 1 Number = %d, want 1", tracks[0].Number)
	}
	if tracks[0].Type != "MODE1/2048" {
		t.Errorf("Track 1 Type = %q, want MODE1/2048", tracks[0].Type)
	}
	if tracks[0].Frames != 1000 {
		t.Errorf("Track 1 Frames = %d, want 1000", tracks[0].Frames)
	}

	// Check track 2
	if tracks[1].Number != 2 {
		t.Errorf("Track 2 Number = %d, want 2", tracks[1].Number)
	}
	if tracks[1].Type != "AUDIO" {
		t.Errorf("Track 2 Type = %q, want AUDIO", tracks[1].Type)
	}
}

// TestParseCHCDTooSmall verifies error for truncated CHCD.
func TestParseCHCDTooSmall(t *testing.T) {
	t.Parallel()

	// Buffer too small for header
	_, err := parseCHCD([]byte{0x00, 0x00})
	if err == nil {
		t.Error("expected error for truncated buffer")
	}
	if !errors.Is(err, ErrInvalidMetadata) {
		t.Errorf("expected ErrInvalidMetadata, got: %v", err)
	}
}

// TestParseCHCDTooManyTracks verifies error for excessive track count.
func TestParseCHCDTooManyTracks(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf[0:4], 1000) // Way more than MaxNumTracks
	_, err := parseCHCD(buf)
	if err == nil {
		t.Error("expected error for too many tracks")
	}
	if !strings.Contains(err.Error(), "too many tracks") {
		t.Errorf("expected 'too many tracks' error, got: %v", err)
	}
}

// TestParseCHCDInsufficientData verifies error when data too small for tracks.
func TestParseCHCDInsufficientData(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4+10) // Header says 1 track but not enough data
	binary.BigEndian.PutUint32(buf[0:4], 1)
	_, err := parseCHCD(buf)
	if err == nil {
		t.Error("expected error for insufficient data")
	}
	if !errors.Is(err, ErrInvalidMetadata) {
		t.Errorf("expected ErrInvalidMetadata, got: %v", err)
	}
}

// TestMetadataCircularChain verifies detection of circular metadata chains.
func TestMetadataCircularChain(t *testing.T) {
	t.Parallel()

	// Create a mock reader that returns metadata entries pointing to each other
	// Entry at offset 100 points to offset 200, which points back to 100
	data := make([]byte, 300)

	// Entry at offset 100: Tag=CHT2, Next=200
	binary.BigEndian.PutUint32(data[100:104], MetaTagCHT2)
	data[104] = 0 // flags
	data[105] = 0
	data[106] = 0
	data[107] = 10                                 // length = 10
	binary.BigEndian.PutUint64(data[108:116], 200) // next = 200

	// Entry at offset 200: Tag=CHT2, Next=100 (circular!)
	binary.BigEndian.PutUint32(data[200:204], MetaTagCHT2)
	data[204] = 0 // flags
	data[205] = 0
	data[206] = 0
	data[207] = 10                                 // length = 10
	binary.BigEndian.PutUint64(data[208:216], 100) // next = 100 (circular)

	reader := bytes.NewReader(data)
	_, err := parseMetadata(reader, 100)
	if err == nil {
		t.Error("expected error for circular chain")
	}
	if !strings.Contains(err.Error(), "circular") {
		t.Errorf("expected 'circular' error, got: %v", err)
	}
}

// TestMetadataEntryTooLarge verifies MaxMetadataLen validation.
// Note: The CHD format uses 3 bytes for length (max 0xFFFFFF = 16,777,215)
// and MaxMetadataLen is 16*1024*1024 = 16,777,216. Since the max encodable
// value is less than the limit, this check can never trigger from valid format.
func TestMetadataEntryTooLarge(t *testing.T) {
	t.Parallel()

	t.Skip("MaxMetadataLen (16MB) exceeds 24-bit max (16MB-1), so this case cannot be triggered via format")
}

// TestRegisterAndGetCodec verifies codec registration.
func TestRegisterAndGetCodec(t *testing.T) {
	t.Parallel()

	// Test that registered codecs can be retrieved
	codecs := []uint32{
		CodecZlib, CodecLZMA, CodecFLAC, CodecZstd,
		CodecCDZlib, CodecCDLZMA, CodecCDFLAC, CodecCDZstd,
	}

	for _, tag := range codecs {
		codec, err := GetCodec(tag)
		if err != nil {
			t.Errorf("GetCodec(0x%x) failed: %v", tag, err)
			continue
		}
		if codec == nil {
			t.Errorf("GetCodec(0x%x) returned nil codec", tag)
		}
	}
}

