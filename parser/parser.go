package parser

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Parser couples the tokenizer and the tree constructor into a push-fed
// pipeline. Callers feed raw bytes in as many chunks as they like and the
// resulting tree operations stream out through the Sink.
type Parser struct {
	Tokenizer       *HTMLTokenizer
	TreeConstructor *HTMLTreeConstructor

	sink     Sink
	log      logrus.FieldLogger
	progress *Progress
}

// Option adjusts parser construction.
type Option func(*Parser)

// WithLogger routes diagnostic logging to the given logger. The default
// logger discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithScripting sets the scripting flag, which changes how noscript elements
// parse.
func WithScripting(enabled bool) Option {
	return func(p *Parser) {
		p.TreeConstructor.scriptingEnabled = enabled
	}
}

// WithIFrameSrcdoc marks the document as an iframe srcdoc document, which
// exempts it from missing-doctype quirks.
func WithIFrameSrcdoc() Option {
	return func(p *Parser) {
		p.TreeConstructor.iframeSrcdoc = true
	}
}

func defaultLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// NewParser creates a document parser that builds through sink.
func NewParser(sink Sink, opts ...Option) *Parser {
	p := &Parser{
		Tokenizer:       NewHTMLTokenizer(),
		TreeConstructor: NewHTMLTreeConstructor(sink),
		sink:            sink,
		log:             defaultLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFragmentParser creates a parser running the fragment parsing algorithm
// with the given context element name. Parsed content accumulates under a
// synthetic html root appended to the sink's document.
func NewFragmentParser(sink Sink, context QualName, opts ...Option) *Parser {
	p := NewParser(sink, opts...)
	p.TreeConstructor.initFragment(context)
	p.Tokenizer.currentState = initialTokenizerState(context, p.TreeConstructor.scriptingEnabled)
	return p
}

// initialTokenizerState gives the tokenizer starting state mandated by a
// fragment context element.
func initialTokenizerState(context QualName, scripting bool) tokenizerState {
	if context.Namespace != NamespaceHTML {
		return dataState
	}
	switch context.Local {
	case "title", "textarea":
		return rcDataState
	case "style", "xmp", "iframe", "noembed", "noframes":
		return rawTextState
	case "noscript":
		if scripting {
			return rawTextState
		}
	case "script":
		return scriptDataState
	case "plaintext":
		return plaintextState
	}
	return dataState
}

// Feed pushes a chunk of input through the pipeline. Tokens that cannot
// complete yet stay buffered until the next Feed or Finish. Invalid UTF-8 is
// replaced with U+FFFD and reported through the sink as a parse error rather
// than dropped.
func (p *Parser) Feed(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	p.Tokenizer.feed(chunk)
	p.log.WithField("bytes", len(chunk)).Debug("fed chunk")
	p.pump()
	p.reportInvalidBytes()
}

// Finish marks end of input and drains everything that remains.
func (p *Parser) Finish() {
	p.Tokenizer.endOfInput()
	p.pump()
	p.reportInvalidBytes()
	p.log.Debug("parse finished")
}

// QuirksMode reports the mode the document ended up in.
func (p *Parser) QuirksMode() QuirksMode {
	return p.TreeConstructor.quirksMode
}

func (p *Parser) pump() {
	for p.Tokenizer.Next() {
		token := p.Tokenizer.Token(p.progress)
		// progress was consumed; a starved resume must not replay it
		p.progress = nil
		if token == nil {
			return
		}
		prog := p.TreeConstructor.ProcessToken(token)
		p.progress = &prog
	}
}

func (p *Parser) reportInvalidBytes() {
	n := p.Tokenizer.takeInvalidByteCount()
	if n == 0 {
		return
	}
	p.log.WithField("bytes", n).Debug("replaced invalid utf-8")
	p.sink.ParseError(fmt.Sprintf("invalid utf-8: %d byte(s) replaced with U+FFFD", n))
}
