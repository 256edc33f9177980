package dataprocessing

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported input charsets.
const (
	CharsetAuto        = "auto"
	CharsetUTF8        = "utf-8"
	CharsetWindows1252 = "windows-1252"
	CharsetLatin1      = "iso-8859-1"
)

// DecodeInput converts an uploaded report to a UTF-8 string and returns the
// charset it was decoded from. A UTF-8 byte order mark is always dropped.
// In auto mode, input that is not valid UTF-8 is read as Windows-1252, the
// usual encoding of spreadsheet exports saved on Windows.
func DecodeInput(data []byte, charset string) (string, string, error) {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" {
		charset = CharsetAuto
	}

	var dec *encoding.Decoder
	used := charset

	switch charset {
	case CharsetAuto:
		if utf8.Valid(data) {
			dec = unicode.UTF8BOM.NewDecoder()
			used = CharsetUTF8
		} else {
			dec = charmap.Windows1252.NewDecoder()
			used = CharsetWindows1252
		}
	case CharsetUTF8, "utf8":
		dec = unicode.UTF8BOM.NewDecoder()
		used = CharsetUTF8
	case CharsetWindows1252, "cp1252":
		dec = charmap.Windows1252.NewDecoder()
		used = CharsetWindows1252
	case CharsetLatin1, "latin1":
		dec = charmap.ISO8859_1.NewDecoder()
		used = CharsetLatin1
	default:
		return "", "", fmt.Errorf("unsupported charset %q", charset)
	}

	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", "", fmt.Errorf("decode %s input: %w", used, err)
	}
	return string(out), used, nil
}
