package treesink

import "github.com/pkg/errors"

// Callbacks is the set of host operations a parse builds the document
// through, supplied once at session or parse creation. It is a plain struct
// of funcs rather than an interface because exactly one implementation
// exists per session and hosts routinely leave optional operations nil.
//
// Required for document parsing: CreateElement, CreateComment, Append,
// AppendDoctypeToDocument and Meta. Fragment parsing drops the doctype
// requirement. Pop, ParseError and Finish may always be nil and are skipped.
// The remaining operations may be nil when the host knows its inputs never
// reach them; if the engine does reach one, the adapter panics with a stable
// message, since continuing would silently drop a tree mutation.
//
// Every callback runs synchronously on the parsing goroutine and must not
// re-enter the parser or the session. String and AttrIter arguments are only
// valid for the duration of the call.
type Callbacks struct {
	// CreateElement creates an element and returns its handle. meta is
	// the association key for the new element: the host must store it and
	// return it from Meta when asked about this handle later.
	CreateElement func(meta *ElementMeta, name QualName, attrs *AttrIter) NodeRef

	// CreateComment creates a comment node.
	CreateComment func(text string) NodeRef

	// CreateProcessingInstruction creates a processing-instruction node.
	// HTML parsing never produces one; it exists for hosts sharing a
	// callback set with non-HTML front ends.
	CreateProcessingInstruction func(target, data string) NodeRef

	// Append appends a node or a run of text at the end of parent's
	// children. Hosts whose model keeps adjacent text merged should fold
	// a text append into a preceding text sibling.
	Append func(parent NodeRef, child NodeOrText)

	// AppendDoctypeToDocument appends a doctype node to the document.
	// Absent public and system identifiers arrive as empty strings.
	AppendDoctypeToDocument func(name, publicID, systemID string)

	// Pop reports that the engine closed an element: nothing further
	// will be inserted into it. Optional.
	Pop func(n NodeRef)

	// Meta returns the association key CreateElement received for this
	// handle. It is only called with handles produced by CreateElement.
	Meta func(n NodeRef) *ElementMeta

	// TemplateContents returns the content-fragment handle of a template
	// element.
	TemplateContents func(n NodeRef) NodeRef

	// AddAttrsIfMissing adds each attribute to target unless one with the
	// same name is already present.
	AddAttrsIfMissing func(target NodeRef, attrs *AttrIter)

	// RemoveFromParent detaches target from its parent, if any.
	RemoveFromParent func(target NodeRef)

	// ReparentChildren moves all children of node to newParent,
	// preserving order.
	ReparentChildren func(node, newParent NodeRef)

	// ParseError receives recoverable parse diagnostics. Parsing always
	// continues afterwards. Optional; when nil, diagnostics go to the
	// session logger at debug level.
	ParseError func(msg string)

	// Finish runs once when a session finishes normally. It does not run
	// on Close. Optional.
	Finish func()
}

func (cb *Callbacks) validate(fragment bool) error {
	if cb == nil {
		return errors.Wrap(ErrMissingCallback, "callback set")
	}
	var missing string
	switch {
	case cb.CreateElement == nil:
		missing = "CreateElement"
	case cb.CreateComment == nil:
		missing = "CreateComment"
	case cb.Append == nil:
		missing = "Append"
	case cb.Meta == nil:
		missing = "Meta"
	case !fragment && cb.AppendDoctypeToDocument == nil:
		missing = "AppendDoctypeToDocument"
	}
	if missing != "" {
		return errors.Wrap(ErrMissingCallback, missing)
	}
	return nil
}
