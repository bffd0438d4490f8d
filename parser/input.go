package parser

import "unicode/utf8"

type inputStatus uint8

const (
	inputOK inputStatus = iota
	inputStarved
	inputEOF
)

// inputBuffer feeds the tokenizer from caller-supplied chunks. It owns its
// copy of the bytes, folds CR and CRLF to LF, replaces invalid UTF-8 with
// U+FFFD (counting the replacements so the caller can report them), and
// refuses to hand out a rune that might change once more input arrives: a
// trailing CR or a partial multi-byte sequence at the end of the buffer
// reports starvation until the next chunk or end of input settles it.
type inputBuffer struct {
	buf     []byte
	pos     int
	eof     bool
	invalid int
}

// append copies chunk into the buffer. Consumed bytes at the front are
// dropped first so long sessions do not grow without bound.
func (b *inputBuffer) append(chunk []byte) {
	if b.pos > 0 {
		n := copy(b.buf, b.buf[b.pos:])
		b.buf = b.buf[:n]
		b.pos = 0
	}
	b.buf = append(b.buf, chunk...)
}

// markEOF declares that no further chunks will arrive.
func (b *inputBuffer) markEOF() {
	b.eof = true
}

func (b *inputBuffer) buffered() int {
	return len(b.buf) - b.pos
}

// canSee reports whether n bytes of lookahead are resolvable: either they are
// buffered, or end of input means no more will ever arrive.
func (b *inputBuffer) canSee(n int) bool {
	return b.buffered() >= n || b.eof
}

// peek returns up to n bytes past the current position without consuming
// them. Shorter results only happen at end of input or when the caller
// checked canSee and accepted what is there.
func (b *inputBuffer) peek(n int) []byte {
	if b.buffered() < n {
		n = b.buffered()
	}
	return b.buf[b.pos : b.pos+n]
}

// discard consumes n bytes. Callers only discard bytes they have peeked, and
// never across a CR (keyword and entity matches are ASCII without newlines).
func (b *inputBuffer) discard(n int) {
	b.pos += n
}

// nextRune consumes and returns the next rune after newline normalization.
func (b *inputBuffer) nextRune() (rune, inputStatus) {
	if b.buffered() == 0 {
		if b.eof {
			return 0, inputEOF
		}
		return 0, inputStarved
	}
	c := b.buf[b.pos]
	if c == '\r' {
		// A CR at the very end of the buffer could be half of a CRLF
		// split across chunks; wait for the next byte.
		if b.buffered() == 1 && !b.eof {
			return 0, inputStarved
		}
		b.pos++
		if b.buffered() > 0 && b.buf[b.pos] == '\n' {
			b.pos++
		}
		return '\n', inputOK
	}
	if c < utf8.RuneSelf {
		b.pos++
		return rune(c), inputOK
	}
	if !utf8.FullRune(b.buf[b.pos:]) && !b.eof {
		return 0, inputStarved
	}
	r, size := utf8.DecodeRune(b.buf[b.pos:])
	b.pos += size
	if r == utf8.RuneError && size == 1 {
		b.invalid++
		return '\uFFFD', inputOK
	}
	return r, inputOK
}

// takeInvalid returns how many invalid byte sequences were replaced since the
// last call and resets the count.
func (b *inputBuffer) takeInvalid() int {
	n := b.invalid
	b.invalid = 0
	return n
}
