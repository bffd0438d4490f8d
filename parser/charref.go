package parser

import (
	"golang.org/x/net/html"
)

// entityNameMaxLen bounds the lookahead a named character reference needs.
// The longest name in the WHATWG table is 31 characters plus a semicolon;
// one more covers the rune the state was entered with.
const entityNameMaxLen = 33

// resolveNamedEntity finds the longest named character reference that is a
// prefix of name and returns its replacement text along with how many
// characters of name it consumed. name is a run of ASCII alphanumerics,
// possibly followed by a single semicolon. matched == 0 means nothing in the
// table is a prefix of name.
//
// The lookup rides on x/net's entity table via UnescapeString, which already
// implements the longest-match rule including the legacy semicolon-less
// names. UnescapeString leaves the unconsumed remainder of name in place, so
// the match length falls out of peeling the common suffix: no replacement in
// the table ends with an ASCII alphanumeric or a semicolon, the only
// characters the remainder can hold.
func resolveNamedEntity(name string) (repl string, matched int) {
	in := "&" + name
	out := html.UnescapeString(in)
	if out == in {
		return "", 0
	}
	suffix := 0
	for suffix < len(name) && suffix < len(out) &&
		name[len(name)-suffix-1] == out[len(out)-suffix-1] {
		suffix++
	}
	return out[:len(out)-suffix], len(name) - suffix
}

// numericCharRefOverrides maps the C1-control range of numeric character
// references to the windows-1252 interpretations the platform requires.
// https://html.spec.whatwg.org/#numeric-character-reference-end-state
var numericCharRefOverrides = map[int]rune{
	0x80: '€',
	0x82: '‚',
	0x83: 'ƒ',
	0x84: '„',
	0x85: '…',
	0x86: '†',
	0x87: '‡',
	0x88: 'ˆ',
	0x89: '‰',
	0x8A: 'Š',
	0x8B: '‹',
	0x8C: 'Œ',
	0x8E: 'Ž',
	0x91: '‘',
	0x92: '’',
	0x93: '“',
	0x94: '”',
	0x95: '•',
	0x96: '–',
	0x97: '—',
	0x98: '˜',
	0x99: '™',
	0x9A: 'š',
	0x9B: '›',
	0x9C: 'œ',
	0x9E: 'ž',
	0x9F: 'Ÿ',
}
