package treesink

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heathj/treesink/internal/arena"
	"github.com/heathj/treesink/parser"
)

type sessionState uint8

const (
	stateCreated sessionState = iota
	stateFeeding
	stateFinished
	stateDestroyed
)

func (st sessionState) terminal() bool {
	return st == stateFinished || st == stateDestroyed
}

// Session is a streaming parse. Input arrives through Feed in chunks of any
// size; every tree-construction event a chunk completes is delivered to the
// host callbacks before Feed returns. A session ends exactly once, through
// Finish (drains buffered input, runs the Finish callback) or through Close
// (cancels without the Finish callback). After either, Feed and Finish
// return ErrSessionClosed.
//
// The session owns the metadata arena and the parser. The arena is created
// first and sits behind its own allocation, so the pointers handed to the
// host stay valid for the whole session no matter how the Session value
// itself moves.
type Session struct {
	meta   *arena.Arena[ElementMeta]
	sink   *treeSink
	parser *parser.Parser

	state  sessionState
	quirks QuirksMode
	log    logrus.FieldLogger
}

// NewSession starts a streaming document parse that builds under document
// through cb. The returned session has consumed no input yet and has issued
// no callbacks.
func NewSession(document NodeRef, cb *Callbacks, opts ...Option) (*Session, error) {
	return newSession(document, cb, false, opts)
}

func newSession(document NodeRef, cb *Callbacks, fragment bool, opts []Option) (*Session, error) {
	cfg := newConfig(opts)
	if err := cb.validate(fragment); err != nil {
		return nil, err
	}

	// Arena first: the sink and parser both hold its address, and host
	// code holds addresses inside it, so it must be fixed before either
	// exists and must be released only after the parser is gone.
	meta := arena.New[ElementMeta]()
	sink := newTreeSink(document, cb, meta, cfg.log, fragment)

	popts := []parser.Option{
		parser.WithLogger(cfg.log),
		parser.WithScripting(cfg.scripting && !fragment),
	}
	if cfg.iframeSrcdoc {
		popts = append(popts, parser.WithIFrameSrcdoc())
	}

	var p *parser.Parser
	if fragment {
		// Fragment parsing uses an implicit body context with no
		// attributes and scripting disabled.
		p = parser.NewFragmentParser(sink, parser.QualName{Namespace: NamespaceHTML, Local: "body"}, popts...)
	} else {
		p = parser.NewParser(sink, popts...)
	}

	return &Session{
		meta:   meta,
		sink:   sink,
		parser: p,
		quirks: NoQuirks,
		log:    cfg.log,
	}, nil
}

// Feed parses one chunk. It is synchronous: all callbacks the chunk triggers
// run before Feed returns. A chunk may end anywhere, including inside a tag,
// an entity, a CRLF pair or a multi-byte rune; the undecidable tail stays
// buffered for the next Feed or Finish. Empty chunks are no-ops. Invalid
// UTF-8 bytes are replaced with U+FFFD and reported as a parse error.
func (s *Session) Feed(chunk []byte) error {
	if s.state.terminal() {
		return errors.Wrap(ErrSessionClosed, "feed")
	}
	s.state = stateFeeding
	s.parser.Feed(chunk)
	return nil
}

// Finish ends the input, drains everything still buffered, runs the host's
// Finish callback and releases the session's state. The session is consumed:
// any later Feed or Finish returns ErrSessionClosed.
func (s *Session) Finish() error {
	if s.state.terminal() {
		return errors.Wrap(ErrSessionClosed, "finish")
	}
	s.parser.Finish()
	s.sink.finish()
	s.state = stateFinished
	s.release()
	return nil
}

// Close cancels the session: state is released, buffered input is dropped
// and the host's Finish callback never runs. Closing a session that already
// finished or closed is a no-op. Close never fails; the error return exists
// so a Session satisfies io.Closer in defer chains.
func (s *Session) Close() error {
	if s.state.terminal() {
		return nil
	}
	s.state = stateDestroyed
	s.release()
	return nil
}

// QuirksMode reports the compatibility mode the engine decided on, NoQuirks
// until a doctype says otherwise. It remains readable after the session
// ends.
func (s *Session) QuirksMode() QuirksMode {
	if s.sink != nil {
		return s.sink.quirks
	}
	return s.quirks
}

// release drops the parser before the arena, matching the ownership order
// set up in newSession. The quirks decision is copied out first so it stays
// readable on the consumed session.
func (s *Session) release() {
	s.quirks = s.sink.quirks
	s.parser = nil
	s.sink = nil
	s.meta.Release()
	s.meta = nil
}
