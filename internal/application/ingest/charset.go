package ingest

import (
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText returns body as a string, decoding Windows-1251 when the bytes are not UTF-8.
// 1C exports default to the Windows Cyrillic code page.
func decodeText(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	out, err := charmap.Windows1251.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(out)
}

// passthroughCharset ignores the XML encoding declaration: sources are already decoded text.
func passthroughCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}
