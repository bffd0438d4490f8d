package parser

import (
	"fmt"
	"strings"
)

type tokenType uint

const (
	characterToken tokenType = iota
	startTagToken
	endTagToken
	endOfFileToken
	commentToken
	docTypeToken
)

func (t tokenType) String() string {
	switch t {
	case characterToken:
		return "character"
	case startTagToken:
		return "start-tag"
	case endTagToken:
		return "end-tag"
	case endOfFileToken:
		return "eof"
	case commentToken:
		return "comment"
	case docTypeToken:
		return "doctype"
	default:
		return "unknown"
	}
}

// missing marks a doctype identifier that was never seen, which quirks-mode
// detection distinguishes from one that was present but empty.
const missing string = "MISSING"

type tagType uint

const (
	startTag tagType = iota
	endTag
)

// Token is a concrete token that is ready to be emitted.
type Token struct {
	TokenType        tokenType
	Attributes       []Attribute
	TagName          string
	PublicIdentifier string
	SystemIdentifier string
	ForceQuirks      bool
	SelfClosing      bool
	Data             string
}

func (t *Token) String() string {
	switch t.TokenType {
	case startTagToken, endTagToken:
		return fmt.Sprintf("%s <%s> attrs=%d", t.TokenType, t.TagName, len(t.Attributes))
	case docTypeToken:
		return fmt.Sprintf("%s %q", t.TokenType, t.TagName)
	case characterToken, commentToken:
		return fmt.Sprintf("%s %q", t.TokenType, t.Data)
	default:
		return t.TokenType.String()
	}
}

// attr returns the value of the named attribute and whether it is present.
func (t *Token) attr(name string) (string, bool) {
	for _, a := range t.Attributes {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// TokenBuilder builds various tokens up during the tokenization phase.
//
// Attributes are kept in source order so the attribute transfer protocol sees
// them the way they were written; duplicates are dropped at commit time.
type TokenBuilder struct {
	attributes             []Attribute
	attributeKey           strings.Builder
	attributeValue         strings.Builder
	name                   strings.Builder
	data                   strings.Builder
	tempBuffer             strings.Builder
	publicID               strings.Builder
	systemID               strings.Builder
	selfClosing            bool
	forceQuirks            bool
	removeNextAttr         bool
	curTagType             tagType
	characterReferenceCode int
}

func newTokenBuilder() *TokenBuilder {
	return &TokenBuilder{}
}

// NewToken clears all the builders and attributes so the next token starts
// from a clean slate. The temp buffer survives; character-reference flushing
// manages it on its own schedule.
func (t *TokenBuilder) NewToken() {
	t.attributes = nil
	t.attributeKey.Reset()
	t.attributeValue.Reset()
	t.publicID.Reset()
	t.systemID.Reset()
	t.publicID.WriteString(missing)
	t.systemID.WriteString(missing)
	t.data.Reset()
	t.name.Reset()
	t.selfClosing = false
	t.forceQuirks = false
	t.removeNextAttr = false
}

// EnableSelfClosing changes the self-closing flag to "set".
func (t *TokenBuilder) EnableSelfClosing() {
	t.selfClosing = true
}

// EnableForceQuirks changes the force-quirks flag to "set".
func (t *TokenBuilder) EnableForceQuirks() {
	t.forceQuirks = true
}

// ResetPublicIdentifier clears the public identifier to empty (not missing).
func (t *TokenBuilder) ResetPublicIdentifier() {
	t.publicID.Reset()
}

// ResetSystemIdentifier clears the system identifier to empty (not missing).
func (t *TokenBuilder) ResetSystemIdentifier() {
	t.systemID.Reset()
}

// WritePublicIdentifier appends a rune to the public identifier buffer.
func (t *TokenBuilder) WritePublicIdentifier(r rune) {
	t.publicID.WriteRune(r)
}

// WriteSystemIdentifier appends a rune to the system identifier buffer.
func (t *TokenBuilder) WriteSystemIdentifier(r rune) {
	t.systemID.WriteRune(r)
}

// WriteAttributeName appends a character to the current attribute's name.
func (t *TokenBuilder) WriteAttributeName(r rune) {
	t.attributeKey.WriteRune(r)
}

// WriteData appends a character to the current data section.
func (t *TokenBuilder) WriteData(r rune) {
	t.data.WriteRune(r)
}

// WriteAttributeValue appends a character to the current attribute's value.
func (t *TokenBuilder) WriteAttributeValue(r rune) {
	t.attributeValue.WriteRune(r)
}

// RemoveDuplicateAttributeName checks if the current name is already in the
// list of committed attributes. If so, the attribute under construction is
// dropped at commit time.
func (t *TokenBuilder) RemoveDuplicateAttributeName() bool {
	key := t.attributeKey.String()
	for _, a := range t.attributes {
		if a.Name.Local == key {
			t.removeNextAttr = true
			return true
		}
	}
	return false
}

// WriteName appends a character to the current name value.
func (t *TokenBuilder) WriteName(r rune) {
	t.name.WriteRune(r)
}

// CommitAttribute ends the creation of a key/value pair by copying the name
// and value builders into the attribute list and clearing them.
func (t *TokenBuilder) CommitAttribute() {
	if !t.removeNextAttr {
		k := t.attributeKey.String()
		v := t.attributeValue.String()
		if k != "" {
			t.attributes = append(t.attributes, Attribute{Name: QualName{Local: k}, Value: v})
		}
	}
	t.attributeKey.Reset()
	t.attributeValue.Reset()
	t.removeNextAttr = false
}

// WriteTempBuffer appends a character to the temporary buffer of the current
// state.
func (t *TokenBuilder) WriteTempBuffer(r rune) {
	t.tempBuffer.WriteRune(r)
}

// ResetTempBuffer clears the temporary buffer to be used by some other state.
func (t *TokenBuilder) ResetTempBuffer() {
	t.tempBuffer.Reset()
}

// TempBuffer returns the string version of the current buffer contents.
func (t *TokenBuilder) TempBuffer() string {
	return t.tempBuffer.String()
}

// TempBufferCharTokens returns one character token per rune of the temp
// buffer, used when a half-matched construct has to be re-emitted as text.
func (t *TokenBuilder) TempBufferCharTokens() []Token {
	buf := t.tempBuffer.String()
	tokens := make([]Token, 0, len(buf))
	for _, r := range buf {
		tokens = append(tokens, t.CharacterToken(r))
	}
	return tokens
}

// SetCharRef sets the internal character reference code.
func (t *TokenBuilder) SetCharRef(i int) {
	t.characterReferenceCode = i
}

// GetCharRef returns the current character reference code.
func (t *TokenBuilder) GetCharRef() int {
	return t.characterReferenceCode
}

// AddToCharRef adds a number to the current char ref code. Values are capped
// just past the Unicode range so arbitrarily long references cannot overflow;
// anything above 0x10FFFF becomes U+FFFD at the end of the reference anyway.
func (t *TokenBuilder) AddToCharRef(i int) {
	t.characterReferenceCode += i
	if t.characterReferenceCode > 0x10FFFF {
		t.characterReferenceCode = 0x110000
	}
}

// MultByCharRef multiplies the current char ref code by a number.
func (t *TokenBuilder) MultByCharRef(i int) {
	t.characterReferenceCode *= i
	if t.characterReferenceCode > 0x10FFFF {
		t.characterReferenceCode = 0x110000
	}
}

// StartTagToken creates a start tag token from the builder contents.
func (t *TokenBuilder) StartTagToken() Token {
	return Token{
		TokenType:   startTagToken,
		TagName:     t.name.String(),
		Attributes:  t.attributes,
		SelfClosing: t.selfClosing,
	}
}

// EndTagToken creates an end tag token from the builder contents.
func (t *TokenBuilder) EndTagToken() Token {
	return Token{
		TokenType:   endTagToken,
		TagName:     t.name.String(),
		Attributes:  t.attributes,
		SelfClosing: t.selfClosing,
	}
}

// CurrentTagToken creates a start or end tag token depending on which kind
// the tokenizer began building.
func (t *TokenBuilder) CurrentTagToken() Token {
	if t.curTagType == endTag {
		return t.EndTagToken()
	}
	return t.StartTagToken()
}

// CharacterToken creates a character token for a single rune.
func (t *TokenBuilder) CharacterToken(r rune) Token {
	return Token{
		TokenType: characterToken,
		Data:      string(r),
	}
}

// EndOfFileToken creates an end of file token.
func (t *TokenBuilder) EndOfFileToken() Token {
	return Token{
		TokenType: endOfFileToken,
	}
}

// CommentToken creates a comment token from the builder contents.
func (t *TokenBuilder) CommentToken() Token {
	return Token{
		TokenType: commentToken,
		Data:      t.data.String(),
	}
}

// DocTypeToken creates a doctype token from the builder contents.
func (t *TokenBuilder) DocTypeToken() Token {
	return Token{
		TokenType:        docTypeToken,
		TagName:          t.name.String(),
		ForceQuirks:      t.forceQuirks,
		PublicIdentifier: t.publicID.String(),
		SystemIdentifier: t.systemID.String(),
	}
}
