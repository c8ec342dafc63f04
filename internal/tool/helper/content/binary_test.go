package content

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBinaryContent(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{name: "plain text", content: []byte("hello\nworld\n"), want: false},
		{name: "empty", content: nil, want: false},
		{name: "null byte", content: []byte("ab\x00cd"), want: true},
		{name: "utf16 le bom", content: []byte{0xFF, 0xFE, 'a', 0x00}, want: false},
		{name: "utf16 be bom", content: []byte{0xFE, 0xFF, 0x00, 'a'}, want: false},
		{name: "utf32 be bom", content: []byte{0x00, 0x00, 0xFE, 0xFF, 0x00}, want: false},
		{name: "null beyond sample", content: append(bytes.Repeat([]byte("a"), SampleSize), 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBinaryContent(tt.content))
		})
	}
}
