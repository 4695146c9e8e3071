// Package codepoint decodes the leading character of a UTF-8 byte
// sequence into the 16-bit code points understood by core X11 fonts.
package codepoint

// Replacement is drawn in place of any character that needs four or more
// bytes of UTF-8.
const Replacement = 0xfffd

// Leading byte prefixes, masked by the corresponding mask.
const (
	mask2 = 0xe0
	lead2 = 0xc0
	mask3 = 0xf0
	lead3 = 0xe0
	mask4 = 0xf8
	lead4 = 0xf0
	mask5 = 0xfc
	lead5 = 0xf8
	mask6 = 0xfe
	lead6 = 0xfc

	payload = 0x3f // continuation byte payload
)

// CodePoint is a decoded character and the number of source bytes it used.
type CodePoint struct {
	Value uint16
	Len   int
}

// Len returns the number of bytes in the sequence introduced by lead. The
// legacy 5 and 6 byte forms are recognised. A byte that is not a valid
// lead (a stray continuation byte, 0xfe, 0xff) counts as one byte.
func Len(lead byte) int {
	switch {
	case lead < 0x80:
		return 1
	case lead&mask2 == lead2:
		return 2
	case lead&mask3 == lead3:
		return 3
	case lead&mask4 == lead4:
		return 4
	case lead&mask5 == lead5:
		return 5
	case lead&mask6 == lead6:
		return 6
	}
	return 1
}

// Decode decodes the character at the start of p. Sequences of four or
// more bytes are not decoded: they yield Replacement. Continuation bytes
// missing from the end of p read as zero; Len still reports the length the
// lead byte promised, so callers must clamp before slicing. Decode of an
// empty slice returns the zero CodePoint.
func Decode(p []byte) CodePoint {
	if len(p) == 0 {
		return CodePoint{}
	}
	n := Len(p[0])
	at := func(i int) uint16 {
		if i < len(p) {
			return uint16(p[i])
		}
		return 0
	}

	var v uint16
	switch n {
	case 1:
		v = at(0)
	case 2:
		v = (at(0)&0x1f)<<6 | at(1)&payload
	case 3:
		v = (at(0)&0x0f)<<12 | (at(1)&payload)<<6 | at(2)&payload
	case 4, 5, 6:
		v = Replacement
	}
	return CodePoint{Value: v, Len: n}
}

// Swap exchanges the two bytes of v.
func Swap(v uint16) uint16 {
	return v>>8 | v<<8
}
