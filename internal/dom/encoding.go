package dom

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
)

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

const (
	// sniffSize bounds how much of a document is inspected for a <meta charset>.
	sniffSize = 1024

	binarySampleSize             = 4096
	nonPrintableThresholdPercent = 30
)

// ErrBinary is returned when a file does not look like a text document.
var ErrBinary = errors.New("not a text document")

// LooksBinary reports whether content is unlikely to be text in any
// encoding DecodeContent understands.
func LooksBinary(content []byte) bool {
	sample := content
	if len(sample) > binarySampleSize {
		sample = sample[:binarySampleSize]
	}
	if len(sample) == 0 || detectUnicodeEncoding(sample) != encodingUnknown {
		return false
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return true
	}
	if utf8.Valid(sample) {
		return false
	}

	nonPrintable := 0
	for _, b := range sample {
		if !isCommonTextByte(b) {
			nonPrintable++
		}
	}
	return nonPrintable*100/len(sample) >= nonPrintableThresholdPercent
}

// isCommonTextByte accepts printable ASCII, common control characters and
// every high byte, since legacy single-byte charsets use them all.
func isCommonTextByte(b byte) bool {
	return b == '\t' || b == '\n' || b == '\r' || b == 0x1B || b >= 0x20 && b != 0x7F
}

// DecodeContent converts raw document bytes into a UTF-8 string. Unicode BOMs
// are honored first; otherwise the charset declared by the document (or
// guessed from its prefix) is used.
func DecodeContent(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	switch detectUnicodeEncoding(content) {
	case encodingUTF8BOM:
		return string(content[3:])
	case encodingUTF16LE:
		return decodeUTF16(content, unicode.LittleEndian)
	case encodingUTF16BE:
		return decodeUTF16(content, unicode.BigEndian)
	}

	sample := content
	if len(sample) > sniffSize {
		sample = sample[:sniffSize]
	}
	enc, name, certain := charset.DetermineEncoding(sample, "text/html")
	if name == "utf-8" || enc == nil || (!certain && utf8.Valid(content)) {
		return string(content)
	}
	out, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(out)
}

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return encodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return encodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return encodingUTF16BE
		}
	}
	return encodingUnknown
}

func decodeUTF16(content []byte, endian unicode.Endianness) string {
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, err := decoder.Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(out)
}
