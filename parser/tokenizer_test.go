package parser

import (
	"fmt"
	"strings"
	"testing"
)

// collectTokens feeds input to a fresh tokenizer in chunks of chunkSize
// bytes (everything at once when chunkSize <= 0) and returns every emitted
// token up to and including end of file.
func collectTokens(input string, chunkSize int) []*Token {
	p := NewHTMLTokenizer()
	var tokens []*Token
	drain := func() {
		for p.Next() {
			tok := p.Token(nil)
			if tok == nil {
				return
			}
			tokens = append(tokens, tok)
		}
	}
	data := []byte(input)
	for len(data) > 0 {
		n := chunkSize
		if n <= 0 || n > len(data) {
			n = len(data)
		}
		p.feed(data[:n])
		data = data[n:]
		drain()
	}
	p.endOfInput()
	drain()
	return tokens
}

func drainTokenizer(p *HTMLTokenizer) []*Token {
	var tokens []*Token
	for p.Next() {
		tok := p.Token(nil)
		if tok == nil {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// summarize renders a token stream in a compact comparable form, folding
// adjacent character tokens into one entry.
func summarize(tokens []*Token) string {
	var out []string
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			out = append(out, fmt.Sprintf("chars %q", text.String()))
			text.Reset()
		}
	}
	for _, tok := range tokens {
		if tok.TokenType == characterToken {
			text.WriteString(tok.Data)
			continue
		}
		flush()
		switch tok.TokenType {
		case startTagToken:
			desc := "start " + tok.TagName
			for _, a := range tok.Attributes {
				desc += fmt.Sprintf(" %s=%q", a.Name.Local, a.Value)
			}
			if tok.SelfClosing {
				desc += " self-closing"
			}
			out = append(out, desc)
		case endTagToken:
			out = append(out, "end "+tok.TagName)
		case commentToken:
			out = append(out, fmt.Sprintf("comment %q", tok.Data))
		case docTypeToken:
			desc := fmt.Sprintf("doctype %q", tok.TagName)
			if tok.PublicIdentifier != missing {
				desc += fmt.Sprintf(" public=%q", tok.PublicIdentifier)
			}
			if tok.SystemIdentifier != missing {
				desc += fmt.Sprintf(" system=%q", tok.SystemIdentifier)
			}
			if tok.ForceQuirks {
				desc += " force-quirks"
			}
			out = append(out, desc)
		case endOfFileToken:
			out = append(out, "eof")
		}
	}
	flush()
	return strings.Join(out, "\n")
}

type stateTransitionTestCase struct {
	inRune            rune
	startingState     tokenizerState
	shouldReconsume   bool
	nextExpectedState tokenizerState
	setup             func(p *HTMLTokenizer)
}

func TestStateTransitions(t *testing.T) {
	t.Parallel()

	feedAhead := func(s string) func(p *HTMLTokenizer) {
		return func(p *HTMLTokenizer) { p.feed([]byte(s)) }
	}
	feedAheadCDATA := func(s string) func(p *HTMLTokenizer) {
		return func(p *HTMLTokenizer) {
			p.allowCDATA = true
			p.feed([]byte(s))
		}
	}
	endTagNamed := func(name, lastStart string) func(p *HTMLTokenizer) {
		return func(p *HTMLTokenizer) {
			p.lastEmittedStartTagName = lastStart
			for _, c := range name {
				p.tokenBuilder.WriteName(c)
			}
		}
	}
	tempBuffer := func(s string) func(p *HTMLTokenizer) {
		return func(p *HTMLTokenizer) {
			for _, c := range s {
				p.tokenBuilder.WriteTempBuffer(c)
			}
		}
	}

	testcases := []stateTransitionTestCase{
		{'&', dataState, false, characterReferenceState, nil},
		{'<', dataState, false, tagOpenState, nil},
		{'\u0000', dataState, false, dataState, nil},
		{'a', dataState, false, dataState, nil},

		{'&', rcDataState, false, characterReferenceState, nil},
		{'<', rcDataState, false, rcDataLessThanSignState, nil},
		{'\u0000', rcDataState, false, rcDataState, nil},
		{'a', rcDataState, false, rcDataState, nil},

		{'<', rawTextState, false, rawTextLessThanSignState, nil},
		{'\u0000', rawTextState, false, rawTextState, nil},
		{'a', rawTextState, false, rawTextState, nil},

		{'<', scriptDataState, false, scriptDataLessThanSignState, nil},
		{'\u0000', scriptDataState, false, scriptDataState, nil},
		{'a', scriptDataState, false, scriptDataState, nil},

		{'\u0000', plaintextState, false, plaintextState, nil},
		{'a', plaintextState, false, plaintextState, nil},

		{'!', tagOpenState, false, markupDeclarationOpenState, nil},
		{'/', tagOpenState, false, endTagOpenState, nil},
		{'?', tagOpenState, true, bogusCommentState, nil},
		{'a', tagOpenState, true, tagNameState, nil},
		{'Z', tagOpenState, true, tagNameState, nil},
		{'1', tagOpenState, true, dataState, nil},

		{'a', endTagOpenState, true, tagNameState, nil},
		{'>', endTagOpenState, false, dataState, nil},
		{'1', endTagOpenState, true, bogusCommentState, nil},

		{'\u0009', tagNameState, false, beforeAttributeNameState, nil},
		{'\u000A', tagNameState, false, beforeAttributeNameState, nil},
		{'\u000C', tagNameState, false, beforeAttributeNameState, nil},
		{' ', tagNameState, false, beforeAttributeNameState, nil},
		{'/', tagNameState, false, selfClosingStartTagState, nil},
		{'>', tagNameState, false, dataState, nil},
		{'\u0000', tagNameState, false, tagNameState, nil},
		{'A', tagNameState, false, tagNameState, nil},
		{'a', tagNameState, false, tagNameState, nil},

		{'/', rcDataLessThanSignState, false, rcDataEndTagOpenState, nil},
		{'a', rcDataLessThanSignState, true, rcDataState, nil},

		{'a', rcDataEndTagOpenState, true, rcDataEndTagNameState, nil},
		{'>', rcDataEndTagOpenState, true, rcDataState, nil},

		{' ', rcDataEndTagNameState, false, beforeAttributeNameState, endTagNamed("title", "title")},
		{'/', rcDataEndTagNameState, false, selfClosingStartTagState, endTagNamed("title", "title")},
		{'>', rcDataEndTagNameState, false, dataState, endTagNamed("title", "title")},
		{'>', rcDataEndTagNameState, true, rcDataState, endTagNamed("div", "title")},
		{'x', rcDataEndTagNameState, false, rcDataEndTagNameState, endTagNamed("ti", "title")},
		{'1', rcDataEndTagNameState, true, rcDataState, endTagNamed("ti", "title")},

		{'/', rawTextLessThanSignState, false, rawTextEndTagOpenState, nil},
		{'a', rawTextLessThanSignState, true, rawTextState, nil},

		{'s', rawTextEndTagOpenState, true, rawTextEndTagNameState, nil},
		{'1', rawTextEndTagOpenState, true, rawTextState, nil},

		{'>', rawTextEndTagNameState, false, dataState, endTagNamed("style", "style")},
		{'>', rawTextEndTagNameState, true, rawTextState, endTagNamed("div", "style")},
		{'q', rawTextEndTagNameState, false, rawTextEndTagNameState, endTagNamed("st", "style")},

		{'/', scriptDataLessThanSignState, false, scriptDataEndTagOpenState, nil},
		{'!', scriptDataLessThanSignState, false, scriptDataEscapeStartState, nil},
		{'a', scriptDataLessThanSignState, true, scriptDataState, nil},

		{'s', scriptDataEndTagOpenState, true, scriptDataEndTagNameState, nil},
		{'1', scriptDataEndTagOpenState, true, scriptDataState, nil},

		{'>', scriptDataEndTagNameState, false, dataState, endTagNamed("script", "script")},
		{'>', scriptDataEndTagNameState, true, scriptDataState, endTagNamed("div", "script")},

		{'-', scriptDataEscapeStartState, false, scriptDataEscapeStartDashState, nil},
		{'a', scriptDataEscapeStartState, true, scriptDataState, nil},

		{'-', scriptDataEscapeStartDashState, false, scriptDataEscapedDashDashState, nil},
		{'a', scriptDataEscapeStartDashState, true, scriptDataState, nil},

		{'-', scriptDataEscapedState, false, scriptDataEscapedDashState, nil},
		{'<', scriptDataEscapedState, false, scriptDataEscapedLessThanSignState, nil},
		{'\u0000', scriptDataEscapedState, false, scriptDataEscapedState, nil},
		{'a', scriptDataEscapedState, false, scriptDataEscapedState, nil},

		{'-', scriptDataEscapedDashState, false, scriptDataEscapedDashDashState, nil},
		{'<', scriptDataEscapedDashState, false, scriptDataEscapedLessThanSignState, nil},
		{'a', scriptDataEscapedDashState, false, scriptDataEscapedState, nil},

		{'-', scriptDataEscapedDashDashState, false, scriptDataEscapedDashDashState, nil},
		{'<', scriptDataEscapedDashDashState, false, scriptDataEscapedLessThanSignState, nil},
		{'>', scriptDataEscapedDashDashState, false, scriptDataState, nil},
		{'a', scriptDataEscapedDashDashState, false, scriptDataEscapedState, nil},

		{'/', scriptDataEscapedLessThanSignState, false, scriptDataEscapedEndTagOpenState, nil},
		{'a', scriptDataEscapedLessThanSignState, true, scriptDataDoubleEscapeStartState, nil},
		{'1', scriptDataEscapedLessThanSignState, true, scriptDataEscapedState, nil},

		{'s', scriptDataEscapedEndTagOpenState, true, scriptDataEscapedEndTagNameState, nil},
		{'1', scriptDataEscapedEndTagOpenState, true, scriptDataEscapedState, nil},

		{'>', scriptDataEscapedEndTagNameState, false, dataState, endTagNamed("script", "script")},
		{'>', scriptDataEscapedEndTagNameState, true, scriptDataEscapedState, endTagNamed("div", "script")},

		{' ', scriptDataDoubleEscapeStartState, false, scriptDataDoubleEscapedState, tempBuffer("script")},
		{'>', scriptDataDoubleEscapeStartState, false, scriptDataDoubleEscapedState, tempBuffer("script")},
		{' ', scriptDataDoubleEscapeStartState, false, scriptDataEscapedState, tempBuffer("scrip")},
		{'s', scriptDataDoubleEscapeStartState, false, scriptDataDoubleEscapeStartState, nil},
		{'1', scriptDataDoubleEscapeStartState, true, scriptDataEscapedState, nil},

		{'-', scriptDataDoubleEscapedState, false, scriptDataDoubleEscapedDashState, nil},
		{'<', scriptDataDoubleEscapedState, false, scriptDataDoubleEscapedLessThanSignState, nil},
		{'a', scriptDataDoubleEscapedState, false, scriptDataDoubleEscapedState, nil},

		{'-', scriptDataDoubleEscapedDashState, false, scriptDataDoubleEscapedDashDashState, nil},
		{'<', scriptDataDoubleEscapedDashState, false, scriptDataDoubleEscapedLessThanSignState, nil},
		{'a', scriptDataDoubleEscapedDashState, false, scriptDataDoubleEscapedState, nil},

		{'-', scriptDataDoubleEscapedDashDashState, false, scriptDataDoubleEscapedDashDashState, nil},
		{'<', scriptDataDoubleEscapedDashDashState, false, scriptDataDoubleEscapedLessThanSignState, nil},
		{'>', scriptDataDoubleEscapedDashDashState, false, scriptDataState, nil},
		{'a', scriptDataDoubleEscapedDashDashState, false, scriptDataDoubleEscapedState, nil},

		{'/', scriptDataDoubleEscapedLessThanSignState, false, scriptDataDoubleEscapeEndState, nil},
		{'a', scriptDataDoubleEscapedLessThanSignState, true, scriptDataDoubleEscapedState, nil},

		{'>', scriptDataDoubleEscapeEndState, false, scriptDataEscapedState, tempBuffer("script")},
		{'>', scriptDataDoubleEscapeEndState, false, scriptDataDoubleEscapedState, tempBuffer("scrip")},
		{'s', scriptDataDoubleEscapeEndState, false, scriptDataDoubleEscapeEndState, nil},
		{'1', scriptDataDoubleEscapeEndState, true, scriptDataDoubleEscapedState, nil},

		{' ', beforeAttributeNameState, false, beforeAttributeNameState, nil},
		{'/', beforeAttributeNameState, true, afterAttributeNameState, nil},
		{'>', beforeAttributeNameState, true, afterAttributeNameState, nil},
		{'=', beforeAttributeNameState, false, attributeNameState, nil},
		{'a', beforeAttributeNameState, true, attributeNameState, nil},

		{' ', attributeNameState, true, afterAttributeNameState, nil},
		{'/', attributeNameState, true, afterAttributeNameState, nil},
		{'>', attributeNameState, true, afterAttributeNameState, nil},
		{'=', attributeNameState, false, beforeAttributeValueState, nil},
		{'\u0000', attributeNameState, false, attributeNameState, nil},
		{'"', attributeNameState, false, attributeNameState, nil},
		{'\'', attributeNameState, false, attributeNameState, nil},
		{'<', attributeNameState, false, attributeNameState, nil},
		{'A', attributeNameState, false, attributeNameState, nil},

		{' ', afterAttributeNameState, false, afterAttributeNameState, nil},
		{'/', afterAttributeNameState, false, selfClosingStartTagState, nil},
		{'=', afterAttributeNameState, false, beforeAttributeValueState, nil},
		{'>', afterAttributeNameState, false, dataState, nil},
		{'a', afterAttributeNameState, true, attributeNameState, nil},

		{' ', beforeAttributeValueState, false, beforeAttributeValueState, nil},
		{'"', beforeAttributeValueState, false, attributeValueDoubleQuotedState, nil},
		{'\'', beforeAttributeValueState, false, attributeValueSingleQuotedState, nil},
		{'>', beforeAttributeValueState, false, dataState, nil},
		{'a', beforeAttributeValueState, true, attributeValueUnquotedState, nil},

		{'"', attributeValueDoubleQuotedState, false, afterAttributeValueQuotedState, nil},
		{'&', attributeValueDoubleQuotedState, false, characterReferenceState, nil},
		{'\u0000', attributeValueDoubleQuotedState, false, attributeValueDoubleQuotedState, nil},
		{'a', attributeValueDoubleQuotedState, false, attributeValueDoubleQuotedState, nil},

		{'\'', attributeValueSingleQuotedState, false, afterAttributeValueQuotedState, nil},
		{'&', attributeValueSingleQuotedState, false, characterReferenceState, nil},
		{'a', attributeValueSingleQuotedState, false, attributeValueSingleQuotedState, nil},

		{' ', attributeValueUnquotedState, false, beforeAttributeNameState, nil},
		{'&', attributeValueUnquotedState, false, characterReferenceState, nil},
		{'>', attributeValueUnquotedState, false, dataState, nil},
		{'\u0000', attributeValueUnquotedState, false, attributeValueUnquotedState, nil},
		{'"', attributeValueUnquotedState, false, attributeValueUnquotedState, nil},
		{'a', attributeValueUnquotedState, false, attributeValueUnquotedState, nil},

		{' ', afterAttributeValueQuotedState, false, beforeAttributeNameState, nil},
		{'/', afterAttributeValueQuotedState, false, selfClosingStartTagState, nil},
		{'>', afterAttributeValueQuotedState, false, dataState, nil},
		{'a', afterAttributeValueQuotedState, true, beforeAttributeNameState, nil},

		{'>', selfClosingStartTagState, false, dataState, nil},
		{'/', selfClosingStartTagState, true, beforeAttributeNameState, nil},
		{'a', selfClosingStartTagState, true, beforeAttributeNameState, nil},

		{'>', bogusCommentState, false, dataState, nil},
		{'\u0000', bogusCommentState, false, bogusCommentState, nil},
		{'a', bogusCommentState, false, bogusCommentState, nil},

		{'-', markupDeclarationOpenState, false, commentStartState, feedAhead("-")},
		{'-', markupDeclarationOpenState, true, bogusCommentState, feedAhead("x")},
		{'d', markupDeclarationOpenState, false, doctypeState, feedAhead("octype")},
		{'D', markupDeclarationOpenState, false, doctypeState, feedAhead("OCTYPE")},
		{'d', markupDeclarationOpenState, true, bogusCommentState, feedAhead("octypo")},
		{'[', markupDeclarationOpenState, false, bogusCommentState, feedAhead("CDATA[")},
		{'[', markupDeclarationOpenState, false, cdataSectionState, feedAheadCDATA("CDATA[")},
		{'[', markupDeclarationOpenState, true, bogusCommentState, feedAhead("cdata[")},
		{'a', markupDeclarationOpenState, true, bogusCommentState, nil},

		{'-', commentStartState, false, commentStartDashState, nil},
		{'>', commentStartState, false, dataState, nil},
		{'a', commentStartState, true, commentState, nil},

		{'-', commentStartDashState, false, commentEndState, nil},
		{'>', commentStartDashState, false, dataState, nil},
		{'a', commentStartDashState, true, commentState, nil},

		{'<', commentState, false, commentLessThanSignState, nil},
		{'-', commentState, false, commentEndDashState, nil},
		{'\u0000', commentState, false, commentState, nil},
		{'a', commentState, false, commentState, nil},

		{'!', commentLessThanSignState, false, commentLessThanSignBangState, nil},
		{'<', commentLessThanSignState, false, commentLessThanSignState, nil},
		{'a', commentLessThanSignState, true, commentState, nil},

		{'-', commentLessThanSignBangState, false, commentLessThanSignBangDashState, nil},
		{'a', commentLessThanSignBangState, true, commentState, nil},

		{'-', commentLessThanSignBangDashState, false, commentLessThanSignBangDashDashState, nil},
		{'a', commentLessThanSignBangDashState, true, commentEndDashState, nil},

		{'>', commentLessThanSignBangDashDashState, true, commentEndState, nil},
		{'a', commentLessThanSignBangDashDashState, true, commentEndState, nil},

		{'-', commentEndDashState, false, commentEndState, nil},
		{'a', commentEndDashState, true, commentState, nil},

		{'>', commentEndState, false, dataState, nil},
		{'!', commentEndState, false, commentEndBangState, nil},
		{'-', commentEndState, false, commentEndState, nil},
		{'a', commentEndState, true, commentState, nil},

		{'-', commentEndBangState, false, commentEndDashState, nil},
		{'>', commentEndBangState, false, dataState, nil},
		{'a', commentEndBangState, true, commentState, nil},

		{' ', doctypeState, false, beforeDoctypeNameState, nil},
		{'>', doctypeState, true, beforeDoctypeNameState, nil},
		{'a', doctypeState, true, beforeDoctypeNameState, nil},

		{' ', beforeDoctypeNameState, false, beforeDoctypeNameState, nil},
		{'\u0000', beforeDoctypeNameState, false, doctypeNameState, nil},
		{'>', beforeDoctypeNameState, false, dataState, nil},
		{'A', beforeDoctypeNameState, false, doctypeNameState, nil},
		{'a', beforeDoctypeNameState, false, doctypeNameState, nil},

		{' ', doctypeNameState, false, afterDoctypeNameState, nil},
		{'>', doctypeNameState, false, dataState, nil},
		{'\u0000', doctypeNameState, false, doctypeNameState, nil},
		{'A', doctypeNameState, false, doctypeNameState, nil},

		{' ', afterDoctypeNameState, false, afterDoctypeNameState, nil},
		{'>', afterDoctypeNameState, false, dataState, nil},
		{'p', afterDoctypeNameState, false, afterDoctypePublicKeywordState, feedAhead("ublic")},
		{'P', afterDoctypeNameState, false, afterDoctypePublicKeywordState, feedAhead("UBLIC")},
		{'s', afterDoctypeNameState, false, afterDoctypeSystemKeywordState, feedAhead("ystem")},
		{'S', afterDoctypeNameState, false, afterDoctypeSystemKeywordState, feedAhead("YSTEM")},
		{'p', afterDoctypeNameState, true, bogusDoctypeState, feedAhead("arty!")},
		{'x', afterDoctypeNameState, true, bogusDoctypeState, nil},

		{' ', afterDoctypePublicKeywordState, false, beforeDoctypePublicIdentifierState, nil},
		{'"', afterDoctypePublicKeywordState, false, doctypePublicIdentifierDoubleQuotedState, nil},
		{'\'', afterDoctypePublicKeywordState, false, doctypePublicIdentifierSingleQuotedState, nil},
		{'>', afterDoctypePublicKeywordState, false, dataState, nil},
		{'a', afterDoctypePublicKeywordState, true, bogusDoctypeState, nil},

		{' ', beforeDoctypePublicIdentifierState, false, beforeDoctypePublicIdentifierState, nil},
		{'"', beforeDoctypePublicIdentifierState, false, doctypePublicIdentifierDoubleQuotedState, nil},
		{'\'', beforeDoctypePublicIdentifierState, false, doctypePublicIdentifierSingleQuotedState, nil},
		{'>', beforeDoctypePublicIdentifierState, false, dataState, nil},
		{'a', beforeDoctypePublicIdentifierState, true, bogusDoctypeState, nil},

		{'"', doctypePublicIdentifierDoubleQuotedState, false, afterDoctypePublicIdentifierState, nil},
		{'\u0000', doctypePublicIdentifierDoubleQuotedState, false, doctypePublicIdentifierDoubleQuotedState, nil},
		{'>', doctypePublicIdentifierDoubleQuotedState, false, dataState, nil},
		{'a', doctypePublicIdentifierDoubleQuotedState, false, doctypePublicIdentifierDoubleQuotedState, nil},

		{'\'', doctypePublicIdentifierSingleQuotedState, false, afterDoctypePublicIdentifierState, nil},
		{'>', doctypePublicIdentifierSingleQuotedState, false, dataState, nil},
		{'a', doctypePublicIdentifierSingleQuotedState, false, doctypePublicIdentifierSingleQuotedState, nil},

		{' ', afterDoctypePublicIdentifierState, false, betweenDoctypePublicAndSystemIdentifiersState, nil},
		{'>', afterDoctypePublicIdentifierState, false, dataState, nil},
		{'"', afterDoctypePublicIdentifierState, false, doctypeSystemIdentifierDoubleQuotedState, nil},
		{'\'', afterDoctypePublicIdentifierState, false, doctypeSystemIdentifierSingleQuotedState, nil},
		{'a', afterDoctypePublicIdentifierState, true, bogusDoctypeState, nil},

		{' ', betweenDoctypePublicAndSystemIdentifiersState, false, betweenDoctypePublicAndSystemIdentifiersState, nil},
		{'>', betweenDoctypePublicAndSystemIdentifiersState, false, dataState, nil},
		{'"', betweenDoctypePublicAndSystemIdentifiersState, false, doctypeSystemIdentifierDoubleQuotedState, nil},
		{'a', betweenDoctypePublicAndSystemIdentifiersState, true, bogusDoctypeState, nil},

		{' ', afterDoctypeSystemKeywordState, false, beforeDoctypeSystemIdentifierState, nil},
		{'"', afterDoctypeSystemKeywordState, false, doctypeSystemIdentifierDoubleQuotedState, nil},
		{'\'', afterDoctypeSystemKeywordState, false, doctypeSystemIdentifierSingleQuotedState, nil},
		{'>', afterDoctypeSystemKeywordState, false, dataState, nil},
		{'a', afterDoctypeSystemKeywordState, true, bogusDoctypeState, nil},

		{' ', beforeDoctypeSystemIdentifierState, false, beforeDoctypeSystemIdentifierState, nil},
		{'"', beforeDoctypeSystemIdentifierState, false, doctypeSystemIdentifierDoubleQuotedState, nil},
		{'\'', beforeDoctypeSystemIdentifierState, false, doctypeSystemIdentifierSingleQuotedState, nil},
		{'>', beforeDoctypeSystemIdentifierState, false, dataState, nil},
		{'a', beforeDoctypeSystemIdentifierState, true, bogusDoctypeState, nil},

		{'"', doctypeSystemIdentifierDoubleQuotedState, false, afterDoctypeSystemIdentifierState, nil},
		{'\u0000', doctypeSystemIdentifierDoubleQuotedState, false, doctypeSystemIdentifierDoubleQuotedState, nil},
		{'>', doctypeSystemIdentifierDoubleQuotedState, false, dataState, nil},
		{'a', doctypeSystemIdentifierDoubleQuotedState, false, doctypeSystemIdentifierDoubleQuotedState, nil},

		{'\'', doctypeSystemIdentifierSingleQuotedState, false, afterDoctypeSystemIdentifierState, nil},
		{'>', doctypeSystemIdentifierSingleQuotedState, false, dataState, nil},
		{'a', doctypeSystemIdentifierSingleQuotedState, false, doctypeSystemIdentifierSingleQuotedState, nil},

		{' ', afterDoctypeSystemIdentifierState, false, afterDoctypeSystemIdentifierState, nil},
		{'>', afterDoctypeSystemIdentifierState, false, dataState, nil},
		{'a', afterDoctypeSystemIdentifierState, true, bogusDoctypeState, nil},

		{'>', bogusDoctypeState, false, dataState, nil},
		{'\u0000', bogusDoctypeState, false, bogusDoctypeState, nil},
		{'a', bogusDoctypeState, false, bogusDoctypeState, nil},

		{']', cdataSectionState, false, cdataSectionBracketState, nil},
		{'a', cdataSectionState, false, cdataSectionState, nil},

		{']', cdataSectionBracketState, false, cdataSectionEndState, nil},
		{'a', cdataSectionBracketState, true, cdataSectionState, nil},

		{']', cdataSectionEndState, false, cdataSectionEndState, nil},
		{'>', cdataSectionEndState, false, dataState, nil},
		{'a', cdataSectionEndState, true, cdataSectionState, nil},

		{'#', characterReferenceState, false, numericCharacterReferenceState, nil},
		{'a', characterReferenceState, true, namedCharacterReferenceState, nil},
		{'7', characterReferenceState, true, namedCharacterReferenceState, nil},
		{' ', characterReferenceState, true, dataState, nil},

		{'a', namedCharacterReferenceState, false, dataState, feedAhead("mp;x")},
		{'q', namedCharacterReferenceState, true, ambiguousAmpersandState, feedAhead("qq ")},

		{';', ambiguousAmpersandState, true, dataState, nil},
		{'a', ambiguousAmpersandState, false, ambiguousAmpersandState, nil},
		{'-', ambiguousAmpersandState, true, dataState, nil},

		{'x', numericCharacterReferenceState, false, hexadecimalCharacterReferenceStartState, nil},
		{'X', numericCharacterReferenceState, false, hexadecimalCharacterReferenceStartState, nil},
		{'1', numericCharacterReferenceState, true, decimalCharacterReferenceStartState, nil},

		{'f', hexadecimalCharacterReferenceStartState, true, hexadecimalCharacterReferenceState, nil},
		{'g', hexadecimalCharacterReferenceStartState, true, dataState, nil},

		{'1', decimalCharacterReferenceStartState, true, decimalCharacterReferenceState, nil},
		{'a', decimalCharacterReferenceStartState, true, dataState, nil},

		{'1', hexadecimalCharacterReferenceState, false, hexadecimalCharacterReferenceState, nil},
		{'a', hexadecimalCharacterReferenceState, false, hexadecimalCharacterReferenceState, nil},
		{'F', hexadecimalCharacterReferenceState, false, hexadecimalCharacterReferenceState, nil},
		{';', hexadecimalCharacterReferenceState, false, numericCharacterReferenceEndState, nil},
		{'g', hexadecimalCharacterReferenceState, true, numericCharacterReferenceEndState, nil},

		{'5', decimalCharacterReferenceState, false, decimalCharacterReferenceState, nil},
		{';', decimalCharacterReferenceState, false, numericCharacterReferenceEndState, nil},
		{'a', decimalCharacterReferenceState, true, numericCharacterReferenceEndState, nil},

		{'a', numericCharacterReferenceEndState, true, dataState, nil},
	}

	for _, testcase := range testcases {
		testcase := testcase
		testName := fmt.Sprintf("%s-%#U", testcase.startingState, testcase.inRune)
		t.Run(testName, func(t *testing.T) {
			t.Parallel()
			p := NewHTMLTokenizer()
			if testcase.setup != nil {
				testcase.setup(p)
			}
			reconsume, state := p.stateToParser(testcase.startingState)(testcase.inRune, false)
			if reconsume != testcase.shouldReconsume {
				t.Errorf("expected reconsume %t, got %t", testcase.shouldReconsume, reconsume)
			}
			if state != testcase.nextExpectedState {
				t.Errorf("expected next state %s, got %s", testcase.nextExpectedState, state)
			}
		})
	}
}

func TestCharacterReferenceReturnState(t *testing.T) {
	t.Parallel()
	for _, start := range []tokenizerState{
		dataState,
		rcDataState,
		attributeValueDoubleQuotedState,
		attributeValueSingleQuotedState,
		attributeValueUnquotedState,
	} {
		p := NewHTMLTokenizer()
		_, next := p.stateToParser(start)('&', false)
		if next != characterReferenceState {
			t.Errorf("%s: expected transition to %s, got %s", start, characterReferenceState, next)
		}
		if p.returnState != start {
			t.Errorf("%s: expected return state %s, got %s", start, start, p.returnState)
		}
	}
}

func firstStartTag(tokens []*Token) *Token {
	for _, tok := range tokens {
		if tok.TokenType == startTagToken {
			return tok
		}
	}
	return nil
}

func TestAttributeAccuracy(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		inHTML string
		want   []Attribute
	}{
		{`<script src="github.com">`, []Attribute{{Name: QualName{Local: "src"}, Value: "github.com"}}},
		{`<script src='github.com'>`, []Attribute{{Name: QualName{Local: "src"}, Value: "github.com"}}},
		{`<script src=github.com>`, []Attribute{{Name: QualName{Local: "src"}, Value: "github.com"}}},
		{`<script src =github.com>`, []Attribute{{Name: QualName{Local: "src"}, Value: "github.com"}}},
		{`<script src= github.com>`, []Attribute{{Name: QualName{Local: "src"}, Value: "github.com"}}},
		{`<script SRC=x>`, []Attribute{{Name: QualName{Local: "src"}, Value: "x"}}},
		{`<script a=1 b=2 c=3>`, []Attribute{
			{Name: QualName{Local: "a"}, Value: "1"},
			{Name: QualName{Local: "b"}, Value: "2"},
			{Name: QualName{Local: "c"}, Value: "3"},
		}},
		{`<script =src='123'onload='test' >`, []Attribute{
			{Name: QualName{Local: "=src"}, Value: "123"},
			{Name: QualName{Local: "onload"}, Value: "test"},
		}},
		{`<script 'asd>`, []Attribute{{Name: QualName{Local: "'asd"}, Value: ""}}},
		{`<script <po>`, []Attribute{{Name: QualName{Local: "<po"}, Value: ""}}},
		{`<script async src=x>`, []Attribute{
			{Name: QualName{Local: "async"}, Value: ""},
			{Name: QualName{Local: "src"}, Value: "x"},
		}},
		{`<script s=1 s=2>`, []Attribute{{Name: QualName{Local: "s"}, Value: "1"}}},
		{`<script s=1 S=2>`, []Attribute{{Name: QualName{Local: "s"}, Value: "1"}}},
		{"<script a\u0000b=1>", []Attribute{{Name: QualName{Local: "a�b"}, Value: "1"}}},
		{"<script abc='\u00001'>", []Attribute{{Name: QualName{Local: "abc"}, Value: "�1"}}},
		{"<script\tabc=123>", []Attribute{{Name: QualName{Local: "abc"}, Value: "123"}}},
	}

	for _, testcase := range testcases {
		testcase := testcase
		t.Run(testcase.inHTML, func(t *testing.T) {
			t.Parallel()
			tok := firstStartTag(collectTokens(testcase.inHTML, 0))
			if tok == nil {
				t.Fatal("no start tag token was emitted")
			}
			if len(tok.Attributes) != len(testcase.want) {
				t.Fatalf("expected %d attributes, got %d: %v", len(testcase.want), len(tok.Attributes), tok.Attributes)
			}
			for i, want := range testcase.want {
				got := tok.Attributes[i]
				if got.Name != want.Name || got.Value != want.Value {
					t.Errorf("attribute %d: expected %s=%q, got %s=%q", i, want.Name.Local, want.Value, got.Name.Local, got.Value)
				}
			}
		})
	}
}

func TestTokenStreams(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		inHTML string
		want   []string
	}{
		{"", []string{"eof"}},
		{"hello", []string{`chars "hello"`, "eof"}},
		{"<html><head></head></html>", []string{"start html", "start head", "end head", "end html", "eof"}},
		{"a<b>c</b>", []string{`chars "a"`, "start b", `chars "c"`, "end b", "eof"}},
		{"<br/>", []string{"start br self-closing", "eof"}},
		{`<img src=x alt="y z">`, []string{`start img src="x" alt="y z"`, "eof"}},
		{"<!-- hi -->", []string{`comment " hi "`, "eof"}},
		{"<!---->", []string{`comment ""`, "eof"}},
		{"<!-->", []string{`comment ""`, "eof"}},
		{"<!--a--b-->", []string{`comment "a--b"`, "eof"}},
		{"<?php echo ?>", []string{`comment "?php echo ?"`, "eof"}},
		{"</>", []string{"eof"}},
		{"</ x>", []string{`comment " x"`, "eof"}},
		{"<3", []string{`chars "<3"`, "eof"}},
		{"<!DOCTYPE html>", []string{`doctype "html"`, "eof"}},
		{"<!doctype HTML>", []string{`doctype "html"`, "eof"}},
		{"<!DOCTYPE>", []string{`doctype "" force-quirks`, "eof"}},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN">`, []string{`doctype "html" public="-//W3C//DTD HTML 4.01//EN"`, "eof"}},
		{`<!DOCTYPE html SYSTEM 'about:legacy-compat'>`, []string{`doctype "html" system="about:legacy-compat"`, "eof"}},
		{"<!DOCTYPE html BOGUS>", []string{`doctype "html" force-quirks`, "eof"}},
		{"&amp;", []string{`chars "&"`, "eof"}},
		{"&amp", []string{`chars "&"`, "eof"}},
		{"&notit;", []string{`chars "¬it;"`, "eof"}},
		{"&notin;", []string{`chars "∉"`, "eof"}},
		{"&#65;&#x42;", []string{`chars "AB"`, "eof"}},
		{"&#128;", []string{`chars "€"`, "eof"}},
		{"&#0;", []string{`chars "�"`, "eof"}},
		{"&#xD800;", []string{`chars "�"`, "eof"}},
		{"&#x110000;", []string{`chars "�"`, "eof"}},
		{"& x", []string{`chars "& x"`, "eof"}},
		{"&;", []string{`chars "&;"`, "eof"}},
		{"&#a", []string{`chars "&#a"`, "eof"}},
		{`<a href="?x=1&copy=2">`, []string{`start a href="?x=1&copy=2"`, "eof"}},
		{`<a href="&copy;">`, []string{`start a href="©"`, "eof"}},
		{`<a b="&#38;">`, []string{`start a b="&"`, "eof"}},
		{"a\r\nb", []string{`chars "a\nb"`, "eof"}},
		{"a\rb", []string{`chars "a\nb"`, "eof"}},
		{"<![CDATA[x]]>y", []string{`comment "[CDATA[x]]"`, `chars "y"`, "eof"}},
	}

	for _, testcase := range testcases {
		testcase := testcase
		t.Run(testcase.inHTML, func(t *testing.T) {
			t.Parallel()
			got := summarize(collectTokens(testcase.inHTML, 0))
			want := strings.Join(testcase.want, "\n")
			if got != want {
				t.Errorf("token stream mismatch\nwant:\n%s\ngot:\n%s", want, got)
			}
		})
	}
}

func TestStreamEquivalenceAcrossChunkSizes(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"<div class='a b' id=x>text</div>",
		"<!-- a comment with -- dashes -->trailer",
		`<!DOCTYPE html PUBLIC "pub" 'sys'>`,
		"&notin;&amp;x&#x1F600;",
		"pre&notit;post",
		"a\r\nb\rc\nd",
		"héllo wörld 日本語",
		"<![CDATA[not really]]>",
		"<!x>",
		"<title>plain</title>",
		"if (a < b) { return; }</p>",
		`<input type="checkbox" checked>`,
	}
	sizes := []int{1, 2, 3, 7}

	for _, input := range inputs {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			want := summarize(collectTokens(input, 0))
			for _, size := range sizes {
				got := summarize(collectTokens(input, size))
				if got != want {
					t.Errorf("chunk size %d diverged\nwhole input:\n%s\nchunked:\n%s", size, want, got)
				}
			}
		})
	}
}

func TestLookaheadAcrossChunkBoundary(t *testing.T) {
	t.Parallel()
	p := NewHTMLTokenizer()
	p.feed([]byte("<!DOC"))
	if tok := p.Token(nil); tok != nil {
		t.Fatalf("token %s emitted before the doctype keyword was decidable", tok)
	}
	p.feed([]byte("TYPE html>"))
	tok := p.Token(nil)
	if tok == nil {
		t.Fatal("expected a doctype token once the keyword was buffered")
	}
	if tok.TokenType != docTypeToken || tok.TagName != "html" || tok.ForceQuirks {
		t.Errorf("expected doctype token for html, got %s", tok)
	}
}

func TestMarkupDeclarationLookaheadHoldsUntilDecidable(t *testing.T) {
	t.Parallel()

	// Short of the full lookahead window and not at end of input, nothing
	// may come out even though the comment is complete.
	p := NewHTMLTokenizer()
	p.feed([]byte("<!--x-->"))
	if tok := p.Token(nil); tok != nil {
		t.Fatalf("token %s emitted while lookahead was still pending", tok)
	}
	p.endOfInput()
	tok := p.Token(nil)
	if tok == nil || tok.TokenType != commentToken || tok.Data != "x" {
		t.Fatalf("expected comment token for x, got %s", tok)
	}

	// With a byte of trailing input the window is satisfiable and the
	// comment comes out with no end-of-input signal.
	p = NewHTMLTokenizer()
	p.feed([]byte("<!--x-->y"))
	tok = p.Token(nil)
	if tok == nil || tok.TokenType != commentToken || tok.Data != "x" {
		t.Fatalf("expected comment token for x without end of input, got %s", tok)
	}
}

func TestInvalidUTF8Replacement(t *testing.T) {
	t.Parallel()

	p := NewHTMLTokenizer()
	p.feed([]byte{'a', 0xFF, 'b'})
	p.endOfInput()
	got := summarize(drainTokenizer(p))
	want := "chars \"a�b\"\neof"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if n := p.takeInvalidByteCount(); n != 1 {
		t.Errorf("expected 1 invalid byte sequence, got %d", n)
	}
	if n := p.takeInvalidByteCount(); n != 0 {
		t.Errorf("expected the invalid count to reset after reading, got %d", n)
	}

	// A multi-byte rune split across feeds is not an error.
	p = NewHTMLTokenizer()
	p.feed([]byte{'h', 0xC3})
	p.feed([]byte{0xA9, 'y'})
	p.endOfInput()
	got = summarize(drainTokenizer(p))
	if want := "chars \"héy\"\neof"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if n := p.takeInvalidByteCount(); n != 0 {
		t.Errorf("split rune should not count as invalid, got %d", n)
	}

	// A truncated rune at end of input is replaced.
	p = NewHTMLTokenizer()
	p.feed([]byte{'x', 0xC3})
	p.endOfInput()
	got = summarize(drainTokenizer(p))
	if want := "chars \"x�\"\neof"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if n := p.takeInvalidByteCount(); n != 1 {
		t.Errorf("expected 1 invalid byte sequence, got %d", n)
	}
}

func TestRawTextEndTagMatching(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		name         string
		startState   tokenizerState
		lastStartTag string
		inHTML       string
		want         []string
	}{
		{
			name:         "rcdata end tag closes",
			startState:   rcDataState,
			lastStartTag: "title",
			inHTML:       "a<b></title>x",
			want:         []string{`chars "a<b>"`, "end title", `chars "x"`, "eof"},
		},
		{
			name:         "rawtext foreign end tag stays text",
			startState:   rawTextState,
			lastStartTag: "style",
			inHTML:       "q</div>r",
			want:         []string{`chars "q</div>r"`, "eof"},
		},
		{
			name:         "script double escape",
			startState:   scriptDataState,
			lastStartTag: "script",
			inHTML:       "x<!--<script>y</script>-->z</script>",
			want:         []string{`chars "x<!--<script>y</script>-->z"`, "end script", "eof"},
		},
	}

	for _, testcase := range testcases {
		testcase := testcase
		t.Run(testcase.name, func(t *testing.T) {
			t.Parallel()
			p := NewHTMLTokenizer()
			p.currentState = testcase.startState
			p.lastEmittedStartTagName = testcase.lastStartTag
			p.feed([]byte(testcase.inHTML))
			p.endOfInput()
			got := summarize(drainTokenizer(p))
			want := strings.Join(testcase.want, "\n")
			if got != want {
				t.Errorf("token stream mismatch\nwant:\n%s\ngot:\n%s", want, got)
			}
		})
	}
}

func TestEOFTruncatedConstructs(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		inHTML string
		want   []string
	}{
		{"<div", []string{"eof"}},
		{"<div ", []string{"eof"}},
		{"<div a='x", []string{"eof"}},
		{"a&", []string{`chars "a&"`, "eof"}},
		{"&#", []string{`chars "&#"`, "eof"}},
		{"&#x", []string{`chars "&#x"`, "eof"}},
		{"<!-- x", []string{`comment " x"`, "eof"}},
		{"<!DOCTYPE", []string{`doctype "" force-quirks`, "eof"}},
		{"<!DOCTYPE html", []string{`doctype "html" force-quirks`, "eof"}},
		{"<![CDATA[x", []string{`comment "[CDATA[x"`, "eof"}},
		{"<title>foo", []string{"start title", `chars "foo"`, "eof"}},
	}

	for _, testcase := range testcases {
		testcase := testcase
		t.Run(testcase.inHTML, func(t *testing.T) {
			t.Parallel()
			got := summarize(collectTokens(testcase.inHTML, 0))
			want := strings.Join(testcase.want, "\n")
			if got != want {
				t.Errorf("token stream mismatch\nwant:\n%s\ngot:\n%s", want, got)
			}
		})
	}
}
