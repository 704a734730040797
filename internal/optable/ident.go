package optable

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Synthesize derives an identifier from a mnemonic. The mnemonic is split
// on single spaces; every token loses its non-word characters, is
// lower-cased and then capitalized, and the tokens are joined behind
// scopeTag. Tokens that end up empty contribute nothing.
//
//	Synthesize("LD (HL+),A", "OpcodeExt") == "OpcodeExtLdHla"
func Synthesize(mnemonic, scopeTag string) string {
	var b strings.Builder
	b.WriteString(scopeTag)
	for _, tok := range strings.Split(mnemonic, " ") {
		tok = strings.Map(wordRune, tok)
		if tok == "" {
			continue
		}
		b.WriteString(capitalize(strings.ToLower(tok)))
	}
	return b.String()
}

func wordRune(r rune) rune {
	if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		return r
	}
	return -1
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
