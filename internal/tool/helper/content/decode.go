package content

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

var (
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewTextReader decodes r to UTF-8 when head, the first bytes of r, starts
// with a UTF-16 or UTF-32 byte order mark. The mark itself is dropped. It
// reports false, and returns r unchanged, for any other content.
func NewTextReader(r io.Reader, head []byte) (io.Reader, bool) {
	enc := wideEncoding(head)
	if enc == nil {
		return r, false
	}
	return transform.NewReader(r, enc.NewDecoder()), true
}

// wideEncoding picks the decoder for a byte order mark. UTF-32 is checked
// first because its little-endian mark starts with the UTF-16 one.
func wideEncoding(head []byte) encoding.Encoding {
	switch {
	case bytes.HasPrefix(head, bomUTF32LE):
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM)
	case bytes.HasPrefix(head, bomUTF32BE):
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM)
	case bytes.HasPrefix(head, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case bytes.HasPrefix(head, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	}
	return nil
}
