package draw

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jezek/xgb/xproto"
	"github.com/rjkroege/asskey/grid"
)

func TestTextRequestSingleGlyph(t *testing.T) {
	req := &textRequest{
		drawable: 0x00200001,
		gc:       0x00200002,
		x:        6,
		y:        9,
		text:     []uint16{'A'},
	}
	want := []byte{
		opPolyText16, 0, 5, 0, // opcode, pad, length in words
		0x01, 0x00, 0x20, 0x00, // drawable
		0x02, 0x00, 0x20, 0x00, // gc
		6, 0, 9, 0, // x, y
		1, 0, // length, delta
		0x00, 'A', // CHAR2B, high byte first
	}
	if diff := cmp.Diff(want, req.Bytes()); diff != "" {
		t.Errorf("Bytes() mismatch (-want +got):\n%s", diff)
	}
}

func TestTextRequestByteOrder(t *testing.T) {
	req := &textRequest{text: []uint16{0x20ac, 0xfffd}}
	got := req.Bytes()
	body := got[textHeaderLen+itemHeaderLen:]
	want := []byte{0x20, 0xac, 0xff, 0xfd}
	if diff := cmp.Diff(want, body[:len(want)]); diff != "" {
		t.Errorf("encoded text mismatch (-want +got):\n%s", diff)
	}
}

func TestTextRequestPadding(t *testing.T) {
	tests := []struct {
		name  string
		chars int
		size  int
	}{
		{"one", 1, 20},
		{"two", 2, 24},
		{"three", 3, 24},
		{"full item", maxItemChars, 16 + 2 + 2*maxItemChars + 2},
		{"two items", maxItemChars + 1, 16 + 2 + 2*maxItemChars + 2 + 2 + 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &textRequest{text: make([]uint16, tt.chars)}
			got := req.Bytes()
			if len(got) != tt.size {
				t.Errorf("len(Bytes()) = %d; want %d", len(got), tt.size)
			}
			if len(got)%wireAlign != 0 {
				t.Errorf("len(Bytes()) = %d is not %d-aligned", len(got), wireAlign)
			}
			if words := int(got[2]) | int(got[3])<<8; words*wireAlign != len(got) {
				t.Errorf("length field %d words; request is %d bytes", words, len(got))
			}
		})
	}
}

func TestTextRequestSplitsItems(t *testing.T) {
	text := make([]uint16, maxItemChars+3)
	req := &textRequest{text: text, delta: 4}
	items := req.items()
	if items[0] != maxItemChars || items[1] != 4 {
		t.Errorf("first item header = %d, %d; want %d, 4", items[0], items[1], maxItemChars)
	}
	second := itemHeaderLen + charLen*maxItemChars
	if items[second] != 3 || items[second+1] != 0 {
		t.Errorf("second item header = %d, %d; want 3, 0", items[second], items[second+1])
	}
}

func TestWirePad(t *testing.T) {
	for n, want := range []int{0, 3, 2, 1, 0, 3} {
		if got := wirePad(n); got != want {
			t.Errorf("wirePad(%d) = %d; want %d", n, got, want)
		}
	}
}

func TestDecodeX11Event(t *testing.T) {
	tests := []struct {
		name string
		in   interface {
			Bytes() []byte
			String() string
		}
		want Event
	}{
		{
			"expose",
			xproto.ExposeEvent{Window: 7, Width: 10, Height: 10},
			Redraw{Surface: 7},
		},
		{
			"press",
			xproto.ButtonPressEvent{Event: 9, EventX: 13, EventY: 27, Detail: 1},
			PointerPress{Surface: 9, Point: image.Pt(13, 27), Button: 1},
		},
		{
			"release",
			xproto.ButtonReleaseEvent{Event: 9, EventX: 1, EventY: 2, Detail: 3},
			PointerRelease{Surface: 9, Point: image.Pt(1, 2), Button: 3},
		},
		{
			"motion",
			xproto.MotionNotifyEvent{Event: 5, EventX: 40, EventY: 50},
			PointerMotion{Surface: 5, Point: image.Pt(40, 50)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeX11Event(tt.in); got != tt.want {
				t.Errorf("decodeX11Event(%v) = %#v; want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeX11EventUnknown(t *testing.T) {
	got := decodeX11Event(xproto.KeyPressEvent{Event: 1})
	u, ok := got.(Unknown)
	if !ok {
		t.Fatalf("decodeX11Event(KeyPress) = %T; want Unknown", got)
	}
	if u.Code != xproto.KeyPress {
		t.Errorf("Unknown.Code = %d; want %d", u.Code, xproto.KeyPress)
	}
}

func TestFontMetrics(t *testing.T) {
	info := &xproto.QueryFontReply{
		MaxBounds:      xproto.Charinfo{CharacterWidth: 6},
		FontAscent:     9,
		FontDescent:    2,
		MinByte1:       0,
		MinCharOrByte2: 0x20,
		MaxByte1:       0xff,
		MaxCharOrByte2: 0xfd,
	}
	want := &grid.Metrics{Width: 6, Height: 11, Descent: 2, CharMin: 0x20, CharMax: 0xfffd}
	if diff := cmp.Diff(want, fontMetrics(info)); diff != "" {
		t.Errorf("fontMetrics mismatch (-want +got):\n%s", diff)
	}
}

func TestColor(t *testing.T) {
	c := Color(0xffff00)
	r, g, b := c.RGB()
	if r != 0xff || g != 0xff || b != 0 {
		t.Errorf("RGB() = %x %x %x; want ff ff 0", r, g, b)
	}
	r32, g32, b32, a32 := c.RGBA()
	if r32 != 0xffff || g32 != 0xffff || b32 != 0 || a32 != 0xffff {
		t.Errorf("RGBA() = %x %x %x %x", r32, g32, b32, a32)
	}
	if got := Color(0x0a0b0c).String(); got != "#0a0b0c" {
		t.Errorf("String() = %q; want #0a0b0c", got)
	}
}
