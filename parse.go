package treesink

// ParseDocument parses a complete document in one call: a degenerate session
// fed the whole input and immediately finished. Empty or nil input is a
// no-op that issues zero callbacks and returns nil.
func ParseDocument(input []byte, document NodeRef, cb *Callbacks, opts ...Option) error {
	return parseOneShot(input, document, cb, false, opts)
}

// ParseFragment parses input as markup found inside a body element with no
// attributes, scripting disabled. The parsed content accumulates under a
// synthetic html element appended to root; the host typically lifts its
// children out afterwards. Empty or nil input is a no-op that issues zero
// callbacks and returns nil.
func ParseFragment(input []byte, root NodeRef, cb *Callbacks, opts ...Option) error {
	return parseOneShot(input, root, cb, true, opts)
}

func parseOneShot(input []byte, root NodeRef, cb *Callbacks, fragment bool, opts []Option) error {
	if len(input) == 0 {
		return nil
	}
	s, err := newSession(root, cb, fragment, opts)
	if err != nil {
		return err
	}
	if err := s.Feed(input); err != nil {
		return err
	}
	return s.Finish()
}
