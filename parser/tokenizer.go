package parser

import (
	"bytes"
)

// HTMLTokenizer holds state for the various states of the tokenizer.
//
// It is push-fed: chunks arrive through feed, and Token returns nil when the
// buffered input is exhausted mid-construct. The few states that need
// multi-byte lookahead (markup declaration open, the doctype PUBLIC/SYSTEM
// keywords, named character references) park the current rune until enough
// input is buffered to decide, so a construct split across chunk boundaries
// tokenizes exactly like one fed whole.
type HTMLTokenizer struct {
	done                      bool
	returnState, currentState tokenizerState
	in                        *inputBuffer
	allowCDATA                bool
	emittedTokens             []Token
	tokenBuilder              *TokenBuilder
	lastEmittedStartTagName   string
	pendingRune               rune
	havePending               bool
}

// NewHTMLTokenizer creates an HTML tokenizer that can be fed input
// incrementally.
func NewHTMLTokenizer() *HTMLTokenizer {
	return &HTMLTokenizer{
		emittedTokens: []Token{},
		in:            &inputBuffer{},
		tokenBuilder:  newTokenBuilder(),
	}
}

// feed buffers another chunk of input.
func (p *HTMLTokenizer) feed(chunk []byte) {
	p.in.append(chunk)
}

// endOfInput declares that no further chunks will arrive.
func (p *HTMLTokenizer) endOfInput() {
	p.in.markEOF()
}

// takeInvalidByteCount reports and resets how many invalid byte sequences the
// input layer replaced with U+FFFD.
func (p *HTMLTokenizer) takeInvalidByteCount() int {
	return p.in.takeInvalid()
}

func (p *HTMLTokenizer) stateToParser(state tokenizerState) parserStateHandler {
	switch state {
	case dataState:
		return p.dataStateParser
	case rcDataState:
		return p.rcDataStateParser
	case rawTextState:
		return p.rawTextStateParser
	case scriptDataState:
		return p.scriptDataStateParser
	case plaintextState:
		return p.plaintextStateParser
	case tagOpenState:
		return p.tagOpenStateParser
	case endTagOpenState:
		return p.endTagOpenStateParser
	case tagNameState:
		return p.tagNameStateParser
	case rcDataLessThanSignState:
		return p.rcDataLessThanSignStateParser
	case rcDataEndTagOpenState:
		return p.rcDataEndTagOpenStateParser
	case rcDataEndTagNameState:
		return p.rcDataEndTagNameStateParser
	case rawTextLessThanSignState:
		return p.rawTextLessThanSignStateParser
	case rawTextEndTagOpenState:
		return p.rawTextEndTagOpenStateParser
	case rawTextEndTagNameState:
		return p.rawTextEndTagNameStateParser
	case scriptDataLessThanSignState:
		return p.scriptDataLessThanSignStateParser
	case scriptDataEndTagOpenState:
		return p.scriptDataEndTagOpenStateParser
	case scriptDataEndTagNameState:
		return p.scriptDataEndTagNameStateParser
	case scriptDataEscapeStartState:
		return p.scriptDataEscapeStartStateParser
	case scriptDataEscapeStartDashState:
		return p.scriptDataEscapeStartDashStateParser
	case scriptDataEscapedState:
		return p.scriptDataEscapedStateParser
	case scriptDataEscapedDashState:
		return p.scriptDataEscapedDashStateParser
	case scriptDataEscapedDashDashState:
		return p.scriptDataEscapedDashDashStateParser
	case scriptDataEscapedLessThanSignState:
		return p.scriptDataEscapedLessThanSignStateParser
	case scriptDataEscapedEndTagOpenState:
		return p.scriptDataEscapedEndTagOpenStateParser
	case scriptDataEscapedEndTagNameState:
		return p.scriptDataEscapedEndTagNameStateParser
	case scriptDataDoubleEscapeStartState:
		return p.scriptDataDoubleEscapeStartStateParser
	case scriptDataDoubleEscapedState:
		return p.scriptDataDoubleEscapedStateParser
	case scriptDataDoubleEscapedDashState:
		return p.scriptDataDoubleEscapedDashStateParser
	case scriptDataDoubleEscapedDashDashState:
		return p.scriptDataDoubleEscapedDashDashStateParser
	case scriptDataDoubleEscapedLessThanSignState:
		return p.scriptDataDoubleEscapedLessThanSignStateParser
	case scriptDataDoubleEscapeEndState:
		return p.scriptDataDoubleEscapeEndStateParser
	case beforeAttributeNameState:
		return p.beforeAttributeNameStateParser
	case attributeNameState:
		return p.attributeNameStateParser
	case afterAttributeNameState:
		return p.afterAttributeNameStateParser
	case beforeAttributeValueState:
		return p.beforeAttributeValueStateParser
	case attributeValueDoubleQuotedState:
		return p.attributeValueDoubleQuotedStateParser
	case attributeValueSingleQuotedState:
		return p.attributeValueSingleQuotedStateParser
	case attributeValueUnquotedState:
		return p.attributeValueUnquotedStateParser
	case afterAttributeValueQuotedState:
		return p.afterAttributeValueQuotedStateParser
	case selfClosingStartTagState:
		return p.selfClosingStartTagStateParser
	case bogusCommentState:
		return p.bogusCommentStateParser
	case markupDeclarationOpenState:
		return p.markupDeclarationOpenStateParser
	case commentStartState:
		return p.commentStartStateParser
	case commentStartDashState:
		return p.commentStartDashStateParser
	case commentState:
		return p.commentStateParser
	case commentLessThanSignState:
		return p.commentLessThanSignStateParser
	case commentLessThanSignBangState:
		return p.commentLessThanSignBangStateParser
	case commentLessThanSignBangDashState:
		return p.commentLessThanSignBangDashStateParser
	case commentLessThanSignBangDashDashState:
		return p.commentLessThanSignBangDashDashStateParser
	case commentEndDashState:
		return p.commentEndDashStateParser
	case commentEndState:
		return p.commentEndStateParser
	case commentEndBangState:
		return p.commentEndBangStateParser
	case doctypeState:
		return p.doctypeStateParser
	case beforeDoctypeNameState:
		return p.beforeDoctypeNameStateParser
	case doctypeNameState:
		return p.doctypeNameStateParser
	case afterDoctypeNameState:
		return p.afterDoctypeNameStateParser
	case afterDoctypePublicKeywordState:
		return p.afterDoctypePublicKeywordStateParser
	case beforeDoctypePublicIdentifierState:
		return p.beforeDoctypePublicIdentifierStateParser
	case doctypePublicIdentifierDoubleQuotedState:
		return p.doctypePublicIdentifierDoubleQuotedStateParser
	case doctypePublicIdentifierSingleQuotedState:
		return p.doctypePublicIdentifierSingleQuotedStateParser
	case afterDoctypePublicIdentifierState:
		return p.afterDoctypePublicIdentifierStateParser
	case betweenDoctypePublicAndSystemIdentifiersState:
		return p.betweenDoctypePublicAndSystemIdentifiersStateParser
	case afterDoctypeSystemKeywordState:
		return p.afterDoctypeSystemKeywordStateParser
	case beforeDoctypeSystemIdentifierState:
		return p.beforeDoctypeSystemIdentifierStateParser
	case doctypeSystemIdentifierDoubleQuotedState:
		return p.doctypeSystemIdentifierDoubleQuotedStateParser
	case doctypeSystemIdentifierSingleQuotedState:
		return p.doctypeSystemIdentifierSingleQuotedStateParser
	case afterDoctypeSystemIdentifierState:
		return p.afterDoctypeSystemIdentifierStateParser
	case bogusDoctypeState:
		return p.bogusDoctypeStateParser
	case cdataSectionState:
		return p.cdataSectionStateParser
	case cdataSectionBracketState:
		return p.cdataSectionBracketStateParser
	case cdataSectionEndState:
		return p.cdataSectionEndStateParser
	case characterReferenceState:
		return p.characterReferenceStateParser
	case namedCharacterReferenceState:
		return p.namedCharacterReferenceStateParser
	case ambiguousAmpersandState:
		return p.ambiguousAmpersandStateParser
	case numericCharacterReferenceState:
		return p.numericCharacterReferenceStateParser
	case hexadecimalCharacterReferenceStartState:
		return p.hexadecimalCharacterReferenceStartStateParser
	case decimalCharacterReferenceStartState:
		return p.decimalCharacterReferenceStartStateParser
	case hexadecimalCharacterReferenceState:
		return p.hexadecimalCharacterReferenceStateParser
	case decimalCharacterReferenceState:
		return p.decimalCharacterReferenceStateParser
	case numericCharacterReferenceEndState:
		return p.numericCharacterReferenceEndStateParser
	}

	return nil
}

func isNonCharacter(code int) bool {
	if code >= 0xFDD0 && code <= 0xFDEF {
		return true
	}

	switch code {
	case 0xFFFE, 0xFFFF, 0x1FFFE, 0x1FFFF, 0x2FFFE, 0x2FFFF, 0x3FFFE, 0x3FFFF, 0x4FFFE, 0x4FFFF, 0x5FFFE, 0x5FFFF, 0x6FFFE, 0x6FFFF, 0x7FFFE, 0x7FFFF, 0x8FFFE, 0x8FFFF, 0x9FFFE, 0x9FFFF, 0xAFFFE, 0xAFFFF, 0xBFFFE, 0xBFFFF, 0xCFFFE, 0xCFFFF, 0xDFFFE, 0xDFFFF, 0xEFFFE, 0xEFFFF, 0xFFFFE, 0xFFFFF, 0x10FFFE, 0x10FFFF:
		return true
	default:
		return false
	}
}

func isC0Control(code int) bool {
	return code >= 0x00 && code <= 0x1F
}

func isControl(code int) bool {
	return isC0Control(code) || (code >= 0x7F && code <= 0x9F)
}

func isASCIIWhitespace(code int) bool {
	switch code {
	case 0x09, 0x0A, 0x0C, 0x0D, 0x20:
		return true
	default:
		return false
	}
}

func isSurrogate(code int) bool {
	return code >= 0xD800 && code <= 0xDFFF
}

func isASCIIUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isASCIILower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isASCIIAlpha(r rune) bool {
	return isASCIIUpper(r) || isASCIILower(r)
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIIHexDigit(r rune) bool {
	return isASCIIDigit(r) || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
}

func isASCIIAlphanumeric(r rune) bool {
	return isASCIIAlpha(r) || isASCIIDigit(r)
}

func wasConsumedByAttribute(returnState tokenizerState) bool {
	switch returnState {
	case attributeValueDoubleQuotedState, attributeValueSingleQuotedState, attributeValueUnquotedState:
		return true
	}
	return false
}

func (p *HTMLTokenizer) flushCodePointsAsCharacterReference() {
	if wasConsumedByAttribute(p.returnState) {
		for _, v := range p.tokenBuilder.TempBuffer() {
			p.tokenBuilder.WriteAttributeValue(v)
		}
	} else {
		p.emit(p.tokenBuilder.TempBufferCharTokens()...)
	}
}

func (p *HTMLTokenizer) isApprEndTagToken() bool {
	return p.lastEmittedStartTagName == p.tokenBuilder.name.String()
}

func (p *HTMLTokenizer) emit(tokens ...Token) {
	for _, token := range tokens {
		if token.TokenType == endTagToken {
			// end tags carry no attributes and no self-closing flag
			if len(token.Attributes) > 0 {
				token.Attributes = nil
			}
			if token.SelfClosing {
				token.SelfClosing = false
			}
		} else if token.TokenType == startTagToken {
			p.lastEmittedStartTagName = token.TagName
		}

		p.emittedTokens = append(p.emittedTokens, token)
	}
}

func (p *HTMLTokenizer) emitCurrentTag() tokenizerState {
	p.tokenBuilder.CommitAttribute()
	p.emit(p.tokenBuilder.CurrentTagToken())
	return dataState
}

func (p *HTMLTokenizer) dataStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '&':
		p.returnState = dataState
		return false, characterReferenceState
	case '<':
		return false, tagOpenState
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, dataState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, dataState
	}
}

func (p *HTMLTokenizer) rcDataStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '&':
		p.returnState = rcDataState
		return false, characterReferenceState
	case '<':
		return false, rcDataLessThanSignState
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken('\uFFFD'))
		return false, rcDataState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, rcDataState
	}
}

func (p *HTMLTokenizer) rawTextStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '<':
		return false, rawTextLessThanSignState
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken('\uFFFD'))
		return false, rawTextState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, rawTextState
	}
}

func (p *HTMLTokenizer) scriptDataStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '<':
		return false, scriptDataLessThanSignState
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken('\uFFFD'))
		return false, scriptDataState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataState
	}
}

func (p *HTMLTokenizer) plaintextStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, plaintextState
	}
	switch r {
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken('\uFFFD'))
		return false, plaintextState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, plaintextState
	}
}

func (p *HTMLTokenizer) tagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '!':
		return false, markupDeclarationOpenState
	case '/':
		return false, endTagOpenState
	case '?':
		p.tokenBuilder.NewToken()
		return true, bogusCommentState
	default:
		if isASCIIAlpha(r) {
			p.tokenBuilder.NewToken()
			p.tokenBuilder.curTagType = startTag
			return true, tagNameState
		}
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, dataState
	}
}

func (p *HTMLTokenizer) endTagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '>':
		return false, dataState
	default:
		if isASCIIAlpha(r) {
			p.tokenBuilder.NewToken()
			p.tokenBuilder.curTagType = endTag
			return true, tagNameState
		}
		p.tokenBuilder.NewToken()
		return true, bogusCommentState
	}
}

func (p *HTMLTokenizer) tagNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, beforeAttributeNameState
	case '/':
		return false, selfClosingStartTagState
	case '>':
		return false, p.emitCurrentTag()
	case '\u0000':
		p.tokenBuilder.WriteName('\uFFFD')
		return false, tagNameState
	default:
		if isASCIIUpper(r) {
			r += 0x20
		}
		p.tokenBuilder.WriteName(r)
		return false, tagNameState
	}
}

func (p *HTMLTokenizer) rcDataLessThanSignStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, rcDataState
	}
	switch r {
	case '/':
		p.tokenBuilder.ResetTempBuffer()
		return false, rcDataEndTagOpenState
	default:
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, rcDataState
	}
}

func (p *HTMLTokenizer) defaultRcDataEndTagOpenStateParser() (bool, tokenizerState) {
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	return true, rcDataState
}

func (p *HTMLTokenizer) rcDataEndTagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.defaultRcDataEndTagOpenStateParser()
	}
	if isASCIIAlpha(r) {
		p.tokenBuilder.NewToken()
		p.tokenBuilder.curTagType = endTag
		return true, rcDataEndTagNameState
	}
	return p.defaultRcDataEndTagOpenStateParser()
}

func (p *HTMLTokenizer) defaultRcDataEndTagNameStateCase() (bool, tokenizerState) {
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	p.emit(p.tokenBuilder.TempBufferCharTokens()...)
	return true, rcDataState
}

func (p *HTMLTokenizer) rcDataEndTagNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.defaultRcDataEndTagNameStateCase()
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		if p.isApprEndTagToken() {
			return false, beforeAttributeNameState
		}
		return p.defaultRcDataEndTagNameStateCase()
	case '/':
		if p.isApprEndTagToken() {
			return false, selfClosingStartTagState
		}
		return p.defaultRcDataEndTagNameStateCase()
	case '>':
		if p.isApprEndTagToken() {
			return false, p.emitCurrentTag()
		}
		return p.defaultRcDataEndTagNameStateCase()
	default:
		if isASCIIUpper(r) {
			p.tokenBuilder.WriteTempBuffer(r)
			p.tokenBuilder.WriteName(r + 0x20)
			return false, rcDataEndTagNameState
		}
		if isASCIILower(r) {
			p.tokenBuilder.WriteTempBuffer(r)
			p.tokenBuilder.WriteName(r)
			return false, rcDataEndTagNameState
		}
		return p.defaultRcDataEndTagNameStateCase()
	}
}

func (p *HTMLTokenizer) rawTextLessThanSignStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, rawTextState
	}
	switch r {
	case '/':
		p.tokenBuilder.ResetTempBuffer()
		return false, rawTextEndTagOpenState
	default:
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, rawTextState
	}
}

func (p *HTMLTokenizer) defaultRawTextEndTagOpenStateParser() (bool, tokenizerState) {
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	return true, rawTextState
}

func (p *HTMLTokenizer) rawTextEndTagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.defaultRawTextEndTagOpenStateParser()
	}
	if isASCIIAlpha(r) {
		p.tokenBuilder.NewToken()
		p.tokenBuilder.curTagType = endTag
		return true, rawTextEndTagNameState
	}
	return p.defaultRawTextEndTagOpenStateParser()
}

func (p *HTMLTokenizer) defaultRawTextEndTagNameStateCase() (bool, tokenizerState) {
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	p.emit(p.tokenBuilder.TempBufferCharTokens()...)
	return true, rawTextState
}

func (p *HTMLTokenizer) rawTextEndTagNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.defaultRawTextEndTagNameStateCase()
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		if p.isApprEndTagToken() {
			return false, beforeAttributeNameState
		}
		return p.defaultRawTextEndTagNameStateCase()
	case '/':
		if p.isApprEndTagToken() {
			return false, selfClosingStartTagState
		}
		return p.defaultRawTextEndTagNameStateCase()
	case '>':
		if p.isApprEndTagToken() {
			return false, p.emitCurrentTag()
		}
		return p.defaultRawTextEndTagNameStateCase()
	default:
		if isASCIIUpper(r) {
			p.tokenBuilder.WriteTempBuffer(r)
			p.tokenBuilder.WriteName(r + 0x20)
			return false, rawTextEndTagNameState
		}
		if isASCIILower(r) {
			p.tokenBuilder.WriteTempBuffer(r)
			p.tokenBuilder.WriteName(r)
			return false, rawTextEndTagNameState
		}
		return p.defaultRawTextEndTagNameStateCase()
	}
}

func (p *HTMLTokenizer) scriptDataLessThanSignStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, scriptDataState
	}
	switch r {
	case '/':
		p.tokenBuilder.ResetTempBuffer()
		return false, scriptDataEndTagOpenState
	case '!':
		p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('!'))
		return false, scriptDataEscapeStartState
	default:
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, scriptDataState
	}
}

func (p *HTMLTokenizer) defaultScriptDataEndTagOpenStateParser() (bool, tokenizerState) {
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	return true, scriptDataState
}

func (p *HTMLTokenizer) scriptDataEndTagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.defaultScriptDataEndTagOpenStateParser()
	}
	if isASCIIAlpha(r) {
		p.tokenBuilder.NewToken()
		p.tokenBuilder.curTagType = endTag
		return true, scriptDataEndTagNameState
	}
	return p.defaultScriptDataEndTagOpenStateParser()
}

func (p *HTMLTokenizer) defaultScriptDataEndTagNameStateCase() (bool, tokenizerState) {
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	p.emit(p.tokenBuilder.TempBufferCharTokens()...)
	return true, scriptDataState
}

func (p *HTMLTokenizer) scriptDataEndTagNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.defaultScriptDataEndTagNameStateCase()
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		if p.isApprEndTagToken() {
			return false, beforeAttributeNameState
		}
		return p.defaultScriptDataEndTagNameStateCase()
	case '/':
		if p.isApprEndTagToken() {
			return false, selfClosingStartTagState
		}
		return p.defaultScriptDataEndTagNameStateCase()
	case '>':
		if p.isApprEndTagToken() {
			return false, p.emitCurrentTag()
		}
		return p.defaultScriptDataEndTagNameStateCase()
	default:
		if isASCIIUpper(r) {
			p.tokenBuilder.WriteTempBuffer(r)
			p.tokenBuilder.WriteName(r + 0x20)
			return false, scriptDataEndTagNameState
		}
		if isASCIILower(r) {
			p.tokenBuilder.WriteTempBuffer(r)
			p.tokenBuilder.WriteName(r)
			return false, scriptDataEndTagNameState
		}
		return p.defaultScriptDataEndTagNameStateCase()
	}
}

func (p *HTMLTokenizer) scriptDataEscapeStartStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, scriptDataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataEscapeStartDashState
	default:
		return true, scriptDataState
	}
}

func (p *HTMLTokenizer) scriptDataEscapeStartDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, scriptDataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataEscapedDashDashState
	default:
		return true, scriptDataState
	}
}

func (p *HTMLTokenizer) scriptDataEscapedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataEscapedDashState
	case '<':
		return false, scriptDataEscapedLessThanSignState
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken('\uFFFD'))
		return false, scriptDataEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataEscapedState
	}
}

func (p *HTMLTokenizer) scriptDataEscapedDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataEscapedDashDashState
	case '<':
		return false, scriptDataEscapedLessThanSignState
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken('\uFFFD'))
		return false, scriptDataEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataEscapedState
	}
}

func (p *HTMLTokenizer) scriptDataEscapedDashDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataEscapedDashDashState
	case '<':
		return false, scriptDataEscapedLessThanSignState
	case '>':
		p.emit(p.tokenBuilder.CharacterToken('>'))
		return false, scriptDataState
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken('\uFFFD'))
		return false, scriptDataEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataEscapedState
	}
}

func (p *HTMLTokenizer) scriptDataEscapedLessThanSignStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, scriptDataEscapedState
	}
	switch r {
	case '/':
		p.tokenBuilder.ResetTempBuffer()
		return false, scriptDataEscapedEndTagOpenState
	default:
		if isASCIIAlpha(r) {
			p.tokenBuilder.ResetTempBuffer()
			p.emit(p.tokenBuilder.CharacterToken('<'))
			return true, scriptDataDoubleEscapeStartState
		}
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, scriptDataEscapedState
	}
}

func (p *HTMLTokenizer) defaultScriptDataEscapedEndTagOpenStateParser() (bool, tokenizerState) {
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	return true, scriptDataEscapedState
}

func (p *HTMLTokenizer) scriptDataEscapedEndTagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.defaultScriptDataEscapedEndTagOpenStateParser()
	}
	if isASCIIAlpha(r) {
		p.tokenBuilder.NewToken()
		p.tokenBuilder.curTagType = endTag
		return true, scriptDataEscapedEndTagNameState
	}
	return p.defaultScriptDataEscapedEndTagOpenStateParser()
}

func (p *HTMLTokenizer) defaultScriptDataEscapedEndTagNameStateCase() (bool, tokenizerState) {
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	p.emit(p.tokenBuilder.TempBufferCharTokens()...)
	return true, scriptDataEscapedState
}

func (p *HTMLTokenizer) scriptDataEscapedEndTagNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.defaultScriptDataEscapedEndTagNameStateCase()
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		if p.isApprEndTagToken() {
			return false, beforeAttributeNameState
		}
		return p.defaultScriptDataEscapedEndTagNameStateCase()
	case '/':
		if p.isApprEndTagToken() {
			return false, selfClosingStartTagState
		}
		return p.defaultScriptDataEscapedEndTagNameStateCase()
	case '>':
		if p.isApprEndTagToken() {
			return false, p.emitCurrentTag()
		}
		return p.defaultScriptDataEscapedEndTagNameStateCase()
	default:
		if isASCIIUpper(r) {
			p.tokenBuilder.WriteTempBuffer(r)
			p.tokenBuilder.WriteName(r + 0x20)
			return false, scriptDataEscapedEndTagNameState
		}
		if isASCIILower(r) {
			p.tokenBuilder.WriteTempBuffer(r)
			p.tokenBuilder.WriteName(r)
			return false, scriptDataEscapedEndTagNameState
		}
		return p.defaultScriptDataEscapedEndTagNameStateCase()
	}
}

func (p *HTMLTokenizer) scriptDataDoubleEscapeStartStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, scriptDataEscapedState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020', '/', '>':
		p.emit(p.tokenBuilder.CharacterToken(r))
		if p.tokenBuilder.TempBuffer() == "script" {
			return false, scriptDataDoubleEscapedState
		}
		return false, scriptDataEscapedState
	default:
		if isASCIIUpper(r) {
			p.tokenBuilder.WriteTempBuffer(r + 0x20)
			p.emit(p.tokenBuilder.CharacterToken(r))
			return false, scriptDataDoubleEscapeStartState
		}
		if isASCIILower(r) {
			p.tokenBuilder.WriteTempBuffer(r)
			p.emit(p.tokenBuilder.CharacterToken(r))
			return false, scriptDataDoubleEscapeStartState
		}
		return true, scriptDataEscapedState
	}
}

func (p *HTMLTokenizer) scriptDataDoubleEscapedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataDoubleEscapedDashState
	case '<':
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return false, scriptDataDoubleEscapedLessThanSignState
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken('\uFFFD'))
		return false, scriptDataDoubleEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataDoubleEscapedState
	}
}

func (p *HTMLTokenizer) scriptDataDoubleEscapedDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataDoubleEscapedDashDashState
	case '<':
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return false, scriptDataDoubleEscapedLessThanSignState
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken('\uFFFD'))
		return false, scriptDataDoubleEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataDoubleEscapedState
	}
}

func (p *HTMLTokenizer) scriptDataDoubleEscapedDashDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataDoubleEscapedDashDashState
	case '<':
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return false, scriptDataDoubleEscapedLessThanSignState
	case '>':
		p.emit(p.tokenBuilder.CharacterToken('>'))
		return false, scriptDataState
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken('\uFFFD'))
		return false, scriptDataDoubleEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataDoubleEscapedState
	}
}

func (p *HTMLTokenizer) scriptDataDoubleEscapedLessThanSignStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, scriptDataDoubleEscapedState
	}
	switch r {
	case '/':
		p.tokenBuilder.ResetTempBuffer()
		p.emit(p.tokenBuilder.CharacterToken('/'))
		return false, scriptDataDoubleEscapeEndState
	default:
		return true, scriptDataDoubleEscapedState
	}
}

func (p *HTMLTokenizer) scriptDataDoubleEscapeEndStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, scriptDataDoubleEscapedState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020', '/', '>':
		p.emit(p.tokenBuilder.CharacterToken(r))
		if p.tokenBuilder.TempBuffer() == "script" {
			return false, scriptDataEscapedState
		}
		return false, scriptDataDoubleEscapedState
	default:
		if isASCIIUpper(r) {
			p.tokenBuilder.WriteTempBuffer(r + 0x20)
			p.emit(p.tokenBuilder.CharacterToken(r))
			return false, scriptDataDoubleEscapeEndState
		}
		if isASCIILower(r) {
			p.tokenBuilder.WriteTempBuffer(r)
			p.emit(p.tokenBuilder.CharacterToken(r))
			return false, scriptDataDoubleEscapeEndState
		}
		return true, scriptDataDoubleEscapedState
	}
}

func (p *HTMLTokenizer) beforeAttributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, afterAttributeNameState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, beforeAttributeNameState
	case '/', '>':
		return true, afterAttributeNameState
	case '=':
		p.tokenBuilder.CommitAttribute()
		p.tokenBuilder.WriteAttributeName(r)
		return false, attributeNameState
	default:
		p.tokenBuilder.CommitAttribute()
		return true, attributeNameState
	}
}

func (p *HTMLTokenizer) attributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.RemoveDuplicateAttributeName()
		return true, afterAttributeNameState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020', '/', '>':
		p.tokenBuilder.RemoveDuplicateAttributeName()
		return true, afterAttributeNameState
	case '=':
		p.tokenBuilder.RemoveDuplicateAttributeName()
		return false, beforeAttributeValueState
	case '\u0000':
		p.tokenBuilder.WriteAttributeName('\uFFFD')
		return false, attributeNameState
	case '"', '\'', '<':
		p.tokenBuilder.WriteAttributeName(r)
		return false, attributeNameState
	default:
		if isASCIIUpper(r) {
			r += 0x20
		}
		p.tokenBuilder.WriteAttributeName(r)
		return false, attributeNameState
	}
}

func (p *HTMLTokenizer) afterAttributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, afterAttributeNameState
	case '/':
		return false, selfClosingStartTagState
	case '=':
		return false, beforeAttributeValueState
	case '>':
		return false, p.emitCurrentTag()
	default:
		p.tokenBuilder.CommitAttribute()
		return true, attributeNameState
	}
}

func (p *HTMLTokenizer) beforeAttributeValueStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, attributeValueUnquotedState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, beforeAttributeValueState
	case '"':
		return false, attributeValueDoubleQuotedState
	case '\'':
		return false, attributeValueSingleQuotedState
	case '>':
		return false, p.emitCurrentTag()
	default:
		return true, attributeValueUnquotedState
	}
}

func (p *HTMLTokenizer) attributeValueDoubleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '"':
		return false, afterAttributeValueQuotedState
	case '&':
		p.returnState = attributeValueDoubleQuotedState
		return false, characterReferenceState
	case '\u0000':
		p.tokenBuilder.WriteAttributeValue('\uFFFD')
		return false, attributeValueDoubleQuotedState
	default:
		p.tokenBuilder.WriteAttributeValue(r)
		return false, attributeValueDoubleQuotedState
	}
}

func (p *HTMLTokenizer) attributeValueSingleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\'':
		return false, afterAttributeValueQuotedState
	case '&':
		p.returnState = attributeValueSingleQuotedState
		return false, characterReferenceState
	case '\u0000':
		p.tokenBuilder.WriteAttributeValue('\uFFFD')
		return false, attributeValueSingleQuotedState
	default:
		p.tokenBuilder.WriteAttributeValue(r)
		return false, attributeValueSingleQuotedState
	}
}

func (p *HTMLTokenizer) attributeValueUnquotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, beforeAttributeNameState
	case '&':
		p.returnState = attributeValueUnquotedState
		return false, characterReferenceState
	case '>':
		return false, p.emitCurrentTag()
	case '\u0000':
		p.tokenBuilder.WriteAttributeValue('\uFFFD')
		return false, attributeValueUnquotedState
	case '"', '\'', '<', '=', '`':
		p.tokenBuilder.WriteAttributeValue(r)
		return false, attributeValueUnquotedState
	default:
		p.tokenBuilder.WriteAttributeValue(r)
		return false, attributeValueUnquotedState
	}
}

func (p *HTMLTokenizer) afterAttributeValueQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, beforeAttributeNameState
	case '/':
		return false, selfClosingStartTagState
	case '>':
		return false, p.emitCurrentTag()
	default:
		return true, beforeAttributeNameState
	}
}

func (p *HTMLTokenizer) selfClosingStartTagStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '>':
		p.tokenBuilder.EnableSelfClosing()
		return false, p.emitCurrentTag()
	default:
		return true, beforeAttributeNameState
	}
}

func (p *HTMLTokenizer) bogusCommentStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	case '\u0000':
		p.tokenBuilder.WriteData('\uFFFD')
		return false, bogusCommentState
	default:
		p.tokenBuilder.WriteData(r)
		return false, bogusCommentState
	}
}

var (
	doctypeSuffix = []byte("octype")
	cdataSuffix   = []byte("CDATA[")
	publicSuffix  = []byte("ublic")
	systemSuffix  = []byte("ystem")
)

func (p *HTMLTokenizer) markupDeclarationOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.NewToken()
		return true, bogusCommentState
	}
	switch r {
	case '-':
		if next := p.in.peek(1); len(next) == 1 && next[0] == '-' {
			p.in.discard(1)
			p.tokenBuilder.NewToken()
			return false, commentStartState
		}
	case 'D', 'd':
		if bytes.EqualFold(p.in.peek(len(doctypeSuffix)), doctypeSuffix) {
			p.in.discard(len(doctypeSuffix))
			return false, doctypeState
		}
	case '[':
		if bytes.Equal(p.in.peek(len(cdataSuffix)), cdataSuffix) {
			p.in.discard(len(cdataSuffix))
			if p.allowCDATA {
				return false, cdataSectionState
			}
			p.tokenBuilder.NewToken()
			for _, v := range "[CDATA[" {
				p.tokenBuilder.WriteData(v)
			}
			return false, bogusCommentState
		}
	}
	p.tokenBuilder.NewToken()
	return true, bogusCommentState
}

func (p *HTMLTokenizer) commentStartStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, commentState
	}
	switch r {
	case '-':
		return false, commentStartDashState
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	default:
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentStartDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		return false, commentEndState
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	default:
		p.tokenBuilder.WriteData('-')
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '<':
		p.tokenBuilder.WriteData(r)
		return false, commentLessThanSignState
	case '-':
		return false, commentEndDashState
	case '\u0000':
		p.tokenBuilder.WriteData('\uFFFD')
		return false, commentState
	default:
		p.tokenBuilder.WriteData(r)
		return false, commentState
	}
}

func (p *HTMLTokenizer) commentLessThanSignStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, commentState
	}
	switch r {
	case '!':
		p.tokenBuilder.WriteData(r)
		return false, commentLessThanSignBangState
	case '<':
		p.tokenBuilder.WriteData(r)
		return false, commentLessThanSignState
	default:
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentLessThanSignBangStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, commentState
	}
	switch r {
	case '-':
		return false, commentLessThanSignBangDashState
	default:
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentLessThanSignBangDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, commentEndDashState
	}
	switch r {
	case '-':
		return false, commentLessThanSignBangDashDashState
	default:
		return true, commentEndDashState
	}
}

func (p *HTMLTokenizer) commentLessThanSignBangDashDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	// nested comment is a parse error but changes nothing structurally
	return true, commentEndState
}

func (p *HTMLTokenizer) commentEndDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		return false, commentEndState
	default:
		p.tokenBuilder.WriteData('-')
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentEndStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	case '!':
		return false, commentEndBangState
	case '-':
		p.tokenBuilder.WriteData('-')
		return false, commentEndState
	default:
		p.tokenBuilder.WriteData('-')
		p.tokenBuilder.WriteData('-')
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentEndBangStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.tokenBuilder.WriteData('-')
		p.tokenBuilder.WriteData('-')
		p.tokenBuilder.WriteData('!')
		return false, commentEndDashState
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	default:
		p.tokenBuilder.WriteData('-')
		p.tokenBuilder.WriteData('-')
		p.tokenBuilder.WriteData('!')
		return true, commentState
	}
}

func (p *HTMLTokenizer) doctypeStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.NewToken()
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, beforeDoctypeNameState
	default:
		return true, beforeDoctypeNameState
	}
}

func (p *HTMLTokenizer) beforeDoctypeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.NewToken()
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, beforeDoctypeNameState
	case '\u0000':
		p.tokenBuilder.NewToken()
		p.tokenBuilder.WriteName('\uFFFD')
		return false, doctypeNameState
	case '>':
		p.tokenBuilder.NewToken()
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.NewToken()
		if isASCIIUpper(r) {
			r += 0x20
		}
		p.tokenBuilder.WriteName(r)
		return false, doctypeNameState
	}
}

func (p *HTMLTokenizer) doctypeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, afterDoctypeNameState
	case '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	case '\u0000':
		p.tokenBuilder.WriteName('\uFFFD')
		return false, doctypeNameState
	default:
		if isASCIIUpper(r) {
			r += 0x20
		}
		p.tokenBuilder.WriteName(r)
		return false, doctypeNameState
	}
}

func (p *HTMLTokenizer) afterDoctypeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, afterDoctypeNameState
	case '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	case 'P', 'p':
		if bytes.EqualFold(p.in.peek(len(publicSuffix)), publicSuffix) {
			p.in.discard(len(publicSuffix))
			return false, afterDoctypePublicKeywordState
		}
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	case 'S', 's':
		if bytes.EqualFold(p.in.peek(len(systemSuffix)), systemSuffix) {
			p.in.discard(len(systemSuffix))
			return false, afterDoctypeSystemKeywordState
		}
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *HTMLTokenizer) afterDoctypePublicKeywordStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, beforeDoctypePublicIdentifierState
	case '"':
		p.tokenBuilder.ResetPublicIdentifier()
		return false, doctypePublicIdentifierDoubleQuotedState
	case '\'':
		p.tokenBuilder.ResetPublicIdentifier()
		return false, doctypePublicIdentifierSingleQuotedState
	case '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *HTMLTokenizer) beforeDoctypePublicIdentifierStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, beforeDoctypePublicIdentifierState
	case '"':
		p.tokenBuilder.ResetPublicIdentifier()
		return false, doctypePublicIdentifierDoubleQuotedState
	case '\'':
		p.tokenBuilder.ResetPublicIdentifier()
		return false, doctypePublicIdentifierSingleQuotedState
	case '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *HTMLTokenizer) doctypePublicIdentifierDoubleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '"':
		return false, afterDoctypePublicIdentifierState
	case '\u0000':
		p.tokenBuilder.WritePublicIdentifier('\uFFFD')
		return false, doctypePublicIdentifierDoubleQuotedState
	case '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.WritePublicIdentifier(r)
		return false, doctypePublicIdentifierDoubleQuotedState
	}
}

func (p *HTMLTokenizer) doctypePublicIdentifierSingleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\'':
		return false, afterDoctypePublicIdentifierState
	case '\u0000':
		p.tokenBuilder.WritePublicIdentifier('\uFFFD')
		return false, doctypePublicIdentifierSingleQuotedState
	case '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.WritePublicIdentifier(r)
		return false, doctypePublicIdentifierSingleQuotedState
	}
}

func (p *HTMLTokenizer) afterDoctypePublicIdentifierStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, betweenDoctypePublicAndSystemIdentifiersState
	case '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	case '"':
		p.tokenBuilder.ResetSystemIdentifier()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case '\'':
		p.tokenBuilder.ResetSystemIdentifier()
		return false, doctypeSystemIdentifierSingleQuotedState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *HTMLTokenizer) betweenDoctypePublicAndSystemIdentifiersStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, betweenDoctypePublicAndSystemIdentifiersState
	case '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	case '"':
		p.tokenBuilder.ResetSystemIdentifier()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case '\'':
		p.tokenBuilder.ResetSystemIdentifier()
		return false, doctypeSystemIdentifierSingleQuotedState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *HTMLTokenizer) afterDoctypeSystemKeywordStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, beforeDoctypeSystemIdentifierState
	case '"':
		p.tokenBuilder.ResetSystemIdentifier()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case '\'':
		p.tokenBuilder.ResetSystemIdentifier()
		return false, doctypeSystemIdentifierSingleQuotedState
	case '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *HTMLTokenizer) beforeDoctypeSystemIdentifierStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, beforeDoctypeSystemIdentifierState
	case '"':
		p.tokenBuilder.ResetSystemIdentifier()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case '\'':
		p.tokenBuilder.ResetSystemIdentifier()
		return false, doctypeSystemIdentifierSingleQuotedState
	case '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *HTMLTokenizer) doctypeSystemIdentifierDoubleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '"':
		return false, afterDoctypeSystemIdentifierState
	case '\u0000':
		p.tokenBuilder.WriteSystemIdentifier('\uFFFD')
		return false, doctypeSystemIdentifierDoubleQuotedState
	case '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.WriteSystemIdentifier(r)
		return false, doctypeSystemIdentifierDoubleQuotedState
	}
}

func (p *HTMLTokenizer) doctypeSystemIdentifierSingleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\'':
		return false, afterDoctypeSystemIdentifierState
	case '\u0000':
		p.tokenBuilder.WriteSystemIdentifier('\uFFFD')
		return false, doctypeSystemIdentifierSingleQuotedState
	case '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.WriteSystemIdentifier(r)
		return false, doctypeSystemIdentifierSingleQuotedState
	}
}

func (p *HTMLTokenizer) afterDoctypeSystemIdentifierStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return false, afterDoctypeSystemIdentifierState
	case '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		// unexpected characters here do not force quirks
		return true, bogusDoctypeState
	}
}

func (p *HTMLTokenizer) bogusDoctypeStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		return false, bogusDoctypeState
	}
}

func (p *HTMLTokenizer) cdataSectionStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case ']':
		return false, cdataSectionBracketState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, cdataSectionState
	}
}

func (p *HTMLTokenizer) cdataSectionBracketStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken(']'))
		return true, cdataSectionState
	}
	switch r {
	case ']':
		return false, cdataSectionEndState
	default:
		p.emit(p.tokenBuilder.CharacterToken(']'))
		return true, cdataSectionState
	}
}

func (p *HTMLTokenizer) cdataSectionEndStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken(']'), p.tokenBuilder.CharacterToken(']'))
		return true, cdataSectionState
	}
	switch r {
	case ']':
		p.emit(p.tokenBuilder.CharacterToken(']'))
		return false, cdataSectionEndState
	case '>':
		return false, dataState
	default:
		p.emit(p.tokenBuilder.CharacterToken(']'), p.tokenBuilder.CharacterToken(']'))
		return true, cdataSectionState
	}
}

func (p *HTMLTokenizer) characterReferenceStateParser(r rune, eof bool) (bool, tokenizerState) {
	p.tokenBuilder.ResetTempBuffer()
	p.tokenBuilder.WriteTempBuffer('&')
	if eof {
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}
	switch r {
	case '#':
		p.tokenBuilder.WriteTempBuffer(r)
		return false, numericCharacterReferenceState
	default:
		if isASCIIAlphanumeric(r) {
			return true, namedCharacterReferenceState
		}
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}
}

func (p *HTMLTokenizer) namedCharacterReferenceStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}

	// Longest match over the buffered alphanumeric run plus one optional
	// trailing semicolon. The current rune is the first name character.
	rest := p.in.peek(entityNameMaxLen - 1)
	name := []byte{byte(r)}
	for _, b := range rest {
		if isASCIIAlphanumeric(rune(b)) {
			name = append(name, b)
			continue
		}
		if b == ';' {
			name = append(name, b)
		}
		break
	}

	repl, matched := resolveNamedEntity(string(name))
	if matched > 0 {
		if wasConsumedByAttribute(p.returnState) && name[matched-1] != ';' && matched-1 < len(rest) {
			if next := rest[matched-1]; next == '=' || isASCIIAlphanumeric(rune(next)) {
				// historical behavior: "&notit" inside an attribute value
				// keeps the ampersand literal
				p.flushCodePointsAsCharacterReference()
				return true, p.returnState
			}
		}
		p.in.discard(matched - 1)
		p.tokenBuilder.ResetTempBuffer()
		for _, v := range repl {
			p.tokenBuilder.WriteTempBuffer(v)
		}
		p.flushCodePointsAsCharacterReference()
		return false, p.returnState
	}

	p.flushCodePointsAsCharacterReference()
	return true, ambiguousAmpersandState
}

func (p *HTMLTokenizer) ambiguousAmpersandStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, p.returnState
	}
	switch r {
	case ';':
		return true, p.returnState
	default:
		if isASCIIAlphanumeric(r) {
			if wasConsumedByAttribute(p.returnState) {
				p.tokenBuilder.WriteAttributeValue(r)
			} else {
				p.emit(p.tokenBuilder.CharacterToken(r))
			}
			return false, ambiguousAmpersandState
		}
		return true, p.returnState
	}
}

func (p *HTMLTokenizer) numericCharacterReferenceStateParser(r rune, eof bool) (bool, tokenizerState) {
	p.tokenBuilder.SetCharRef(0)
	if eof {
		return true, decimalCharacterReferenceStartState
	}
	switch r {
	case 'x', 'X':
		p.tokenBuilder.WriteTempBuffer(r)
		return false, hexadecimalCharacterReferenceStartState
	default:
		return true, decimalCharacterReferenceStartState
	}
}

func (p *HTMLTokenizer) hexadecimalCharacterReferenceStartStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}
	if isASCIIHexDigit(r) {
		return true, hexadecimalCharacterReferenceState
	}
	p.flushCodePointsAsCharacterReference()
	return true, p.returnState
}

func (p *HTMLTokenizer) decimalCharacterReferenceStartStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}
	if isASCIIDigit(r) {
		return true, decimalCharacterReferenceState
	}
	p.flushCodePointsAsCharacterReference()
	return true, p.returnState
}

func (p *HTMLTokenizer) hexadecimalCharacterReferenceStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, numericCharacterReferenceEndState
	}
	switch {
	case isASCIIDigit(r):
		p.tokenBuilder.MultByCharRef(16)
		p.tokenBuilder.AddToCharRef(int(r - 0x30))
		return false, hexadecimalCharacterReferenceState
	case r >= 'A' && r <= 'F':
		p.tokenBuilder.MultByCharRef(16)
		p.tokenBuilder.AddToCharRef(int(r - 0x37))
		return false, hexadecimalCharacterReferenceState
	case r >= 'a' && r <= 'f':
		p.tokenBuilder.MultByCharRef(16)
		p.tokenBuilder.AddToCharRef(int(r - 0x57))
		return false, hexadecimalCharacterReferenceState
	case r == ';':
		return false, numericCharacterReferenceEndState
	default:
		return true, numericCharacterReferenceEndState
	}
}

func (p *HTMLTokenizer) decimalCharacterReferenceStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, numericCharacterReferenceEndState
	}
	switch {
	case isASCIIDigit(r):
		p.tokenBuilder.MultByCharRef(10)
		p.tokenBuilder.AddToCharRef(int(r - 0x30))
		return false, decimalCharacterReferenceState
	case r == ';':
		return false, numericCharacterReferenceEndState
	default:
		return true, numericCharacterReferenceEndState
	}
}

func (p *HTMLTokenizer) numericCharacterReferenceEndStateParser(r rune, eof bool) (bool, tokenizerState) {
	code := p.tokenBuilder.GetCharRef()
	switch {
	case code == 0x00, code > 0x10FFFF, isSurrogate(code):
		code = 0xFFFD
	case isNonCharacter(code):
		// noncharacter parse error, value kept as is
	case code == 0x0D, isControl(code) && !isASCIIWhitespace(code):
		if mapped, ok := numericCharRefOverrides[code]; ok {
			code = int(mapped)
		}
	}

	p.tokenBuilder.ResetTempBuffer()
	p.tokenBuilder.WriteTempBuffer(rune(code))
	p.flushCodePointsAsCharacterReference()
	return true, p.returnState
}

// Next reports whether the tokenizer can still produce tokens.
func (p *HTMLTokenizer) Next() bool {
	return !p.done
}

func (p *HTMLTokenizer) takeLastEmittedToken() *Token {
	if len(p.emittedTokens) == 0 {
		return nil
	}
	token := p.emittedTokens[0]
	p.emittedTokens = p.emittedTokens[1:]
	if token.TokenType == endOfFileToken {
		p.done = true
	}
	return &token
}

// Token runs the state machine until a complete token is available and
// returns nil when the buffered input runs dry first. The tree constructor's
// progress can retarget the next state (rcdata/rawtext/script switching) and
// toggle CDATA sections for foreign content.
func (p *HTMLTokenizer) Token(progress *Progress) *Token {
	if progress != nil {
		p.allowCDATA = progress.AllowCDATA
		if progress.TokenizerState != nil {
			p.currentState = *progress.TokenizerState
		}
	}

	for {
		if token := p.takeLastEmittedToken(); token != nil {
			return token
		}
		if p.done {
			return nil
		}

		if p.havePending {
			if !p.in.canSee(p.lookaheadNeed(p.currentState)) {
				return nil
			}
			r := p.pendingRune
			p.havePending = false
			p.processRune(r, false)
			continue
		}

		r, status := p.in.nextRune()
		if status == inputStarved {
			return nil
		}
		p.processRune(r, status == inputEOF)
	}
}

// processRune feeds one rune (or the EOF marker) through the state machine,
// following reconsume transitions until the rune is consumed. If the current
// state needs lookahead that is not buffered yet, the rune is parked and
// re-dispatched on a later Token call.
func (p *HTMLTokenizer) processRune(r rune, eof bool) {
	reconsume := true
	for reconsume {
		if !eof {
			if need := p.lookaheadNeed(p.currentState); need > 0 && !p.in.canSee(need) {
				p.pendingRune = r
				p.havePending = true
				return
			}
		}
		reconsume, p.currentState = p.stateToParser(p.currentState)(r, eof)
	}
}

// lookaheadNeed returns how many bytes past the current rune a state must be
// able to inspect before it can run.
func (p *HTMLTokenizer) lookaheadNeed(state tokenizerState) int {
	switch state {
	case markupDeclarationOpenState:
		return len(cdataSuffix)
	case afterDoctypeNameState:
		return len(publicSuffix)
	case namedCharacterReferenceState:
		return entityNameMaxLen - 1
	default:
		return 0
	}
}

type parserStateHandler func(r rune, eof bool) (bool, tokenizerState)

//go:generate stringer -type=tokenizerState
type tokenizerState uint

const (
	dataState tokenizerState = iota
	rcDataState
	rawTextState
	scriptDataState
	plaintextState
	tagOpenState
	endTagOpenState
	tagNameState
	rcDataLessThanSignState
	rcDataEndTagOpenState
	rcDataEndTagNameState
	rawTextLessThanSignState
	rawTextEndTagOpenState
	rawTextEndTagNameState
	scriptDataLessThanSignState
	scriptDataEndTagOpenState
	scriptDataEndTagNameState
	scriptDataEscapeStartState
	scriptDataEscapeStartDashState
	scriptDataEscapedState
	scriptDataEscapedDashState
	scriptDataEscapedDashDashState
	scriptDataEscapedLessThanSignState
	scriptDataEscapedEndTagOpenState
	scriptDataEscapedEndTagNameState
	scriptDataDoubleEscapeStartState
	scriptDataDoubleEscapedState
	scriptDataDoubleEscapedDashState
	scriptDataDoubleEscapedDashDashState
	scriptDataDoubleEscapedLessThanSignState
	scriptDataDoubleEscapeEndState
	beforeAttributeNameState
	attributeNameState
	afterAttributeNameState
	beforeAttributeValueState
	attributeValueDoubleQuotedState
	attributeValueSingleQuotedState
	attributeValueUnquotedState
	afterAttributeValueQuotedState
	selfClosingStartTagState
	bogusCommentState
	markupDeclarationOpenState
	commentStartState
	commentStartDashState
	commentState
	commentLessThanSignState
	commentLessThanSignBangState
	commentLessThanSignBangDashState
	commentLessThanSignBangDashDashState
	commentEndDashState
	commentEndState
	commentEndBangState
	doctypeState
	beforeDoctypeNameState
	doctypeNameState
	afterDoctypeNameState
	afterDoctypePublicKeywordState
	beforeDoctypePublicIdentifierState
	doctypePublicIdentifierDoubleQuotedState
	doctypePublicIdentifierSingleQuotedState
	afterDoctypePublicIdentifierState
	betweenDoctypePublicAndSystemIdentifiersState
	afterDoctypeSystemKeywordState
	beforeDoctypeSystemIdentifierState
	doctypeSystemIdentifierDoubleQuotedState
	doctypeSystemIdentifierSingleQuotedState
	afterDoctypeSystemIdentifierState
	bogusDoctypeState
	cdataSectionState
	cdataSectionBracketState
	cdataSectionEndState
	characterReferenceState
	namedCharacterReferenceState
	ambiguousAmpersandState
	numericCharacterReferenceState
	hexadecimalCharacterReferenceStartState
	decimalCharacterReferenceStartState
	hexadecimalCharacterReferenceState
	decimalCharacterReferenceState
	numericCharacterReferenceEndState
)
