package billing

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var spaceReplacer = strings.NewReplacer(
	"\u3000", " ", // ideographic (full-width) space
	"\u00a0", " ", // no-break space
)

// NormalizePage prepares the extracted text of one page for pattern
// matching. It returns ErrEmptyPage when nothing is left after trimming.
func NormalizePage(raw string) (string, error) {
	text := spaceReplacer.Replace(raw)
	text = norm.NFC.String(text)
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyPage
	}
	return text, nil
}
