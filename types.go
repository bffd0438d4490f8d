package treesink

import "github.com/heathj/treesink/parser"

// NodeRef is an opaque reference to a host-owned node. The adapter never
// inspects one; it stores them, passes them back to the host, and compares
// them with ==, so hosts should hand out pointers or other values with
// identity semantics.
type NodeRef = parser.NodeRef

// QualName is a namespaced element or attribute name.
type QualName = parser.QualName

// Attribute is one name/value pair on a created element.
type Attribute = parser.Attribute

// NodeOrText is an append payload: either an existing node or a run of
// character data. The discriminant the engine chose is preserved across the
// callback boundary; use IsNode to branch on it.
type NodeOrText = parser.NodeOrText

// AppendNode wraps an existing node for appending.
func AppendNode(n NodeRef) NodeOrText {
	return parser.NodeChild(n)
}

// AppendText wraps character data for appending.
func AppendText(text string) NodeOrText {
	return parser.TextChild(text)
}

// QuirksMode is the document-wide compatibility mode decided while parsing.
type QuirksMode = parser.QuirksMode

const (
	NoQuirks      = parser.NoQuirks
	Quirks        = parser.Quirks
	LimitedQuirks = parser.LimitedQuirks
)

// Namespace URLs appearing in qualified names.
const (
	NamespaceHTML   = parser.NamespaceHTML
	NamespaceMathML = parser.NamespaceMathML
	NamespaceSVG    = parser.NamespaceSVG
	NamespaceXLink  = parser.NamespaceXLink
	NamespaceXML    = parser.NamespaceXML
	NamespaceXMLNS  = parser.NamespaceXMLNS
)
