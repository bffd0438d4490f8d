package parser

// Namespace URLs used in qualified names. Elements created by the HTML
// parsing algorithm are always in one of the first three; the remaining
// three only ever appear on adjusted foreign attributes.
const (
	NamespaceHTML   = "http://www.w3.org/1999/xhtml"
	NamespaceMathML = "http://www.w3.org/1998/Math/MathML"
	NamespaceSVG    = "http://www.w3.org/2000/svg"
	NamespaceXLink  = "http://www.w3.org/1999/xlink"
	NamespaceXML    = "http://www.w3.org/XML/1998/namespace"
	NamespaceXMLNS  = "http://www.w3.org/2000/xmlns/"
)

// NodeRef is an opaque reference to a node owned by the sink's document
// model. The engine never inspects it; it only stores it, passes it back, and
// compares it through Sink.SameNode. Sinks are expected to hand out pointer
// values (or something else comparable with host identity semantics).
type NodeRef any

// QualName is a namespaced element or attribute name. The strings are
// immutable views and may be retained by the sink.
type QualName struct {
	Prefix    string
	Namespace string
	Local     string
}

func htmlName(local string) QualName {
	return QualName{Namespace: NamespaceHTML, Local: local}
}

// Attribute is one name/value pair on a tag token or a created element.
type Attribute struct {
	Name  QualName
	Value string
}

// ElementFlags carries per-element facts the tree constructor knows at
// creation time and the sink may need later to answer introspection queries.
type ElementFlags struct {
	// Template is set for an HTML <template> element; the sink should
	// prepare a content fragment for TemplateContents queries.
	Template bool

	// MathMLAnnotationXMLIntegrationPoint is set for a MathML
	// <annotation-xml> element whose encoding attribute is text/html or
	// application/xhtml+xml. The tree constructor asks it back through
	// Sink.IsMathMLAnnotationXMLIntegrationPoint when deciding whether
	// children parse under HTML rules.
	MathMLAnnotationXMLIntegrationPoint bool
}

// NodeOrText is the payload of an append: either an existing node or a run of
// character data. The discriminant is preserved across the sink boundary.
type NodeOrText struct {
	Node NodeRef
	Text string
}

// NodeChild wraps an existing node for appending.
func NodeChild(n NodeRef) NodeOrText {
	return NodeOrText{Node: n}
}

// TextChild wraps character data for appending.
func TextChild(text string) NodeOrText {
	return NodeOrText{Text: text}
}

// IsNode reports whether the payload is an existing node rather than text.
func (nt NodeOrText) IsNode() bool {
	return nt.Node != nil
}

// QuirksMode is the document-wide compatibility mode decided while parsing.
// https://dom.spec.whatwg.org/#concept-document-quirks
type QuirksMode string

const (
	NoQuirks      QuirksMode = "no-quirks"
	Quirks        QuirksMode = "quirks"
	LimitedQuirks QuirksMode = "limited-quirks"
)

// Sink receives every tree-construction event the engine produces. The engine
// owns no tree state: open elements, formatting elements and insertion targets
// are all NodeRef values obtained from the sink, and every query about a node
// (its name, its integration-point status, its template contents) goes back
// through the sink.
//
// All methods are called synchronously from the goroutine driving the parser,
// and must not re-enter the parser.
type Sink interface {
	// Document returns the root node under which parsing inserts content.
	Document() NodeRef

	// ElemName returns the qualified name of an element previously
	// returned by CreateElement. Calling it with any other handle is
	// undefined.
	ElemName(n NodeRef) QualName

	// CreateElement creates an element and returns its handle. attrs is
	// ordered as written in the markup, duplicates already dropped.
	CreateElement(name QualName, attrs []Attribute, flags ElementFlags) NodeRef

	// CreateComment creates a comment node.
	CreateComment(text string) NodeRef

	// CreatePI creates a processing instruction. The HTML parsing
	// algorithm never produces one (<?...> is a bogus comment); it exists
	// for sinks shared with non-HTML front ends.
	CreatePI(target, data string) NodeRef

	// Append appends a node or text at the end of parent's children. Text
	// appends may arrive coalesced; the sink should merge a text append
	// into a preceding text sibling if its model requires it.
	Append(parent NodeRef, child NodeOrText)

	// AppendBeforeSibling inserts child immediately before sibling under
	// sibling's parent. Reserved for foster-parenting insertions.
	AppendBeforeSibling(sibling NodeRef, child NodeOrText)

	// AppendBasedOnParentNode inserts child before element if element has
	// a parent, otherwise appends it to prevElement. Reserved for
	// foster-parenting insertions, where only the sink can see parentage.
	AppendBasedOnParentNode(element, prevElement NodeRef, child NodeOrText)

	// AppendDoctypeToDocument appends a doctype node to the document.
	// Absent public/system identifiers arrive as empty strings.
	AppendDoctypeToDocument(name, publicID, systemID string)

	// AddAttrsIfMissing adds each attribute to target unless an attribute
	// with the same name is already present.
	AddAttrsIfMissing(target NodeRef, attrs []Attribute)

	// RemoveFromParent detaches target from its parent, if it has one.
	RemoveFromParent(target NodeRef)

	// ReparentChildren moves all children of node to newParent, keeping
	// their order.
	ReparentChildren(node, newParent NodeRef)

	// TemplateContents returns the content fragment handle of a template
	// element.
	TemplateContents(n NodeRef) NodeRef

	// SameNode reports whether two handles refer to the same node, by the
	// document model's identity rule.
	SameNode(a, b NodeRef) bool

	// SetQuirksMode records the quirks mode decided during parsing.
	SetQuirksMode(mode QuirksMode)

	// Pop signals that the engine popped n off its stack of open
	// elements, meaning no further content will be inserted into it.
	Pop(n NodeRef)

	// IsMathMLAnnotationXMLIntegrationPoint reports whether n was created
	// with the corresponding flag set.
	IsMathMLAnnotationXMLIntegrationPoint(n NodeRef) bool

	// ParseError reports a recoverable parse error. Parsing always
	// continues afterwards.
	ParseError(msg string)
}
