package treesink

// ElementMeta is the parsing metadata recorded for every element the engine
// creates. The adapter allocates one entry per CreateElement call in the
// session's arena and passes its pointer to the host as an opaque
// association key. The host stores that pointer alongside its node and
// returns it from the Meta callback, which is how the engine's later name
// and integration-point queries resolve without the host's node type
// carrying HTML-specific fields.
//
// An ElementMeta is never mutated after allocation, and its address is never
// reused while the session is alive. It stays valid until the session
// finishes or is closed; hosts that keep nodes beyond the session must copy
// whatever they need out of it first.
type ElementMeta struct {
	// Name is the element's qualified name, owned by the metadata entry.
	Name QualName

	// MathMLAnnotationXMLIntegrationPoint records whether the element is
	// a MathML annotation-xml element whose encoding attribute marks it
	// as an HTML integration point. The engine asks it back when
	// deciding whether foreign content switches to HTML parsing rules.
	MathMLAnnotationXMLIntegrationPoint bool
}
