package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackFilename is used when sanitising leaves nothing.
const fallbackFilename = "file"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Names Windows reserves for devices; a file may not be called e.g. "CON.txt".
var reservedFilenames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// nonASCII matches runes outside the ASCII range.
var nonASCII = runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})

// newASCIIFold returns a transformer that decomposes accented characters and
// drops everything non-ASCII. A chain carries buffers, so each call gets its own.
func newASCIIFold() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(nonASCII))
}

// SecureFilename reduces a user-supplied file name to a safe ASCII name with
// no path components. "../../etc/passwd" becomes "etc_passwd" and
// "Résumé final.pdf" becomes "Resume_final.pdf".
func SecureFilename(name string) string {
	folded, _, err := transform.String(newASCIIFold(), name)
	if err != nil {
		folded = name
	}
	folded = strings.NewReplacer("/", " ", "\\", " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")
	folded = unsafeFilenameChars.ReplaceAllString(folded, "")
	folded = strings.Trim(folded, "._")

	if folded == "" {
		return fallbackFilename
	}
	stem, _, _ := strings.Cut(folded, ".")
	if _, reserved := reservedFilenames[strings.ToUpper(stem)]; reserved {
		folded = "_" + folded
	}
	return folded
}
