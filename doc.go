// Package treesink parses HTML5 into a document model owned by the caller.
//
// The parsing engine (package parser) implements tokenization and tree
// construction but holds no tree of its own: every node it creates, appends
// or pops is an opaque NodeRef produced by the host. This package is the
// bridge between the two. A Callbacks value supplies the host operations,
// and the adapter behind it translates each tree-construction event into one
// host call, allocates the per-element metadata the engine later asks back
// for, and hands attributes across as single-pass iterators.
//
// Input can be parsed in one shot:
//
//	err := treesink.ParseDocument(input, doc, cb)
//
// or streamed through a Session, which accepts chunks of any size, including
// chunks that split tokens, multi-byte runes or CRLF pairs:
//
//	s, err := treesink.NewSession(doc, cb)
//	s.Feed(chunk)
//	s.Feed(more)
//	err = s.Finish()
//
// Parse errors never abort: malformed markup is recovered per the HTML5
// algorithm and reported through the ParseError callback. The only fatal
// conditions are tree operations the callback set does not support, which
// panic with a stable message.
//
// Everything here is single-threaded and synchronous. Callbacks run on the
// goroutine calling Feed or the one-shot entry points, must not re-enter the
// parser, and must copy any string they want to keep beyond the call.
package treesink
