package draw

import (
	"github.com/jezek/xgb"
	"github.com/rjkroege/asskey/codepoint"
)

// PolyText16 request layout. xgb has no TEXTITEM16 encoder, so the
// request is assembled here and handed to xgb.Conn.NewRequest.
const (
	opPolyText16 = 75

	textHeaderLen = 16 // opcode, pad, length, drawable, gc, x, y
	itemHeaderLen = 2  // string length, delta
	charLen       = 2  // CHAR2B
	wireAlign     = 4

	// maxItemChars is the longest string one TEXTITEM16 can carry; a
	// length byte of 255 introduces a font change instead.
	maxItemChars = 254
)

// wirePad returns the padding that brings n up to wireAlign.
func wirePad(n int) int {
	return -n & (wireAlign - 1)
}

// textRequest is a PolyText16 request drawing text at (x, y).
type textRequest struct {
	drawable uint32
	gc       uint32
	x, y     int16
	delta    int8
	text     []uint16
}

// items returns the TEXTITEM16 list. Each item carries up to
// maxItemChars characters; only the first is offset by delta.
func (r *textRequest) items() []byte {
	var out []byte
	text := r.text
	delta := r.delta
	for len(text) > 0 {
		n := len(text)
		if n > maxItemChars {
			n = maxItemChars
		}
		item := make([]byte, itemHeaderLen+charLen*n)
		item[0] = byte(n)
		item[1] = byte(delta)
		b := itemHeaderLen
		for _, v := range text[:n] {
			// CHAR2B is byte1 (high) then byte2 (low). xgb writes
			// little-endian, so the code point goes out swapped.
			xgb.Put16(item[b:], codepoint.Swap(v))
			b += charLen
		}
		out = append(out, item...)
		text = text[n:]
		delta = 0
	}
	return out
}

// Bytes assembles the request: header, header padding, the item list and
// trailing padding.
func (r *textRequest) Bytes() []byte {
	items := r.items()
	headpad := wirePad(textHeaderLen)
	size := textHeaderLen + headpad + len(items) + wirePad(len(items))
	buf := make([]byte, size)

	buf[0] = opPolyText16
	xgb.Put16(buf[2:], uint16(size/wireAlign))
	xgb.Put32(buf[4:], r.drawable)
	xgb.Put32(buf[8:], r.gc)
	xgb.Put16(buf[12:], uint16(r.x))
	xgb.Put16(buf[14:], uint16(r.y))
	copy(buf[textHeaderLen+headpad:], items)
	return buf
}
