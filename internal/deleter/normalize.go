package deleter

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Variants returns the composed (NFC) and decomposed (NFD) spellings of a
// selected path, composed first. Identical spellings collapse into one.
// Surrounding whitespace is dropped.
func Variants(raw string) []string {
	raw = strings.TrimSpace(raw)

	nfc := norm.NFC.String(raw)
	nfd := norm.NFD.String(raw)
	if nfc == nfd {
		return []string{nfc}
	}
	return []string{nfc, nfd}
}
