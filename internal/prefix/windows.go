// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

// Windows GDI font constants used for the WindowMetrics registry entries.
// Values match the LOGFONTW definition in wingdi.h.
const (
	// lfFullFaceSize is the byte length of the lfFaceName field (32 UTF-16
	// code units).
	lfFullFaceSize = 64

	fwNormal fontWeight = 400
	fwBold   fontWeight = 700

	defaultCharset     = 1
	outDefaultPrecis   = 0
	clipDefaultPrecis  = 0
	defaultQuality     = 0
	variablePitch      = 0x02
	ffSwiss            = 0x20
	swissVariablePitch = variablePitch | ffSwiss
)

type (
	// fontWeight is the font weight in the range 0 through 1000
	// (400 normal, 700 bold).
	fontWeight uint32

	// logFont mirrors the fixed-size part of the Windows LOGFONTW structure.
	// The face name is appended separately by encode.
	logFont struct {
		Height      int32
		Width       int32
		Escapement  int32
		Orientation int32
		Weight      int32

		Italic         byte
		Underline      byte
		StrikeOut      byte
		CharSet        byte
		OutPrecision   byte
		ClipPrecision  byte
		Quality        byte
		PitchAndFamily byte
	}
)

// notoLogFont returns the LOGFONTW used for a window metrics entry when the
// Noto Sans replacement is active. Captions are bold, everything else normal.
func notoLogFont(weight fontWeight) logFont {
	return logFont{
		Height:         -12,
		Weight:         int32(weight),
		CharSet:        defaultCharset,
		OutPrecision:   outDefaultPrecis,
		ClipPrecision:  clipDefaultPrecis,
		Quality:        defaultQuality,
		PitchAndFamily: swissVariablePitch,
	}
}

// encode serializes the structure followed by the UTF-16LE face name padded
// to lfFullFaceSize bytes, matching the 92-byte on-disk LOGFONTW layout.
func (f logFont) encode(faceName string) []byte {
	var buf bytes.Buffer
	// Fixed-width fields only; the error path is unreachable.
	_ = binary.Write(&buf, binary.LittleEndian, f)

	face := make([]byte, lfFullFaceSize)
	for i, c := range utf16.Encode([]rune(faceName)) {
		if 2*i+1 >= lfFullFaceSize {
			break
		}
		binary.LittleEndian.PutUint16(face[2*i:], c)
	}
	buf.Write(face)
	return buf.Bytes()
}
