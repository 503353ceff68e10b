// Package textproc provides text normalization and tokenization for
// judicial document processing. Normalization is total and idempotent;
// the same pipeline runs over training corpora and inference input.
package textproc

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize lowercases raw document text, removes characters outside the
// retained set (letters, digits, underscore, whitespace and the punctuation
// ".,;:()-"), collapses whitespace runs to single spaces, and trims.
// Empty input yields empty output.
func Normalize(raw string) string {
	lowered := strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(lowered))

	space := false
	for _, r := range lowered {
		switch {
		case unicode.IsSpace(r):
			space = true
		case retained(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}

	return b.String()
}

// FoldAccents strips combining marks so accented and unaccented spellings
// vectorize to the same term (fallo == falló after lowering).
func FoldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return folded
}

// Tokens splits text into word tokens of at least two characters.
// A word character is a letter, digit, or underscore.
func Tokens(text string) []string {
	var tokens []string
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !wordRune(r)
	})
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func retained(r rune) bool {
	if wordRune(r) {
		return true
	}
	switch r {
	case '.', ',', ';', ':', '(', ')', '-':
		return true
	}
	return false
}

func wordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
