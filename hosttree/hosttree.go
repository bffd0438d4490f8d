// Package hosttree is a self-contained document model wired to the treesink
// callback set. It plays the host side of the boundary: it owns every node,
// stores the metadata keys the adapter hands out, and answers the lookups the
// engine routes back through the callbacks. The .dat fixture harness and the
// command line tool build into it, and it doubles as a worked example of
// implementing a host.
package hosttree

import (
	"github.com/heathj/treesink"
)

// NodeType discriminates the Node union.
type NodeType uint8

const (
	DocumentNode NodeType = iota
	FragmentNode
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
	ProcessingInstructionNode
)

// Doctype carries the three doctype identifiers. Absent public and system
// identifiers are empty strings, as delivered by the callback.
type Doctype struct {
	Name     string
	PublicID string
	SystemID string
}

// Node is one node of the host tree. Exactly the fields for its type are
// set: Name/Attrs for elements, Data for text and comments, Target and Data
// for processing instructions, Doctype for doctypes.
type Node struct {
	Type     NodeType
	Parent   *Node
	Children []*Node

	Name  treesink.QualName
	Attrs []treesink.Attribute

	Data    string
	Target  string
	Doctype *Doctype

	// meta is the association key received at creation; the Meta
	// callback returns it so the engine can resolve names and
	// integration-point flags for this node.
	meta *treesink.ElementMeta

	// content is the template content fragment, set only on html
	// template elements.
	content *Node
}

// Content returns a template element's content fragment, or nil.
func (n *Node) Content() *Node {
	return n.content
}

func (n *Node) appendChild(c *Node) {
	if c.Parent != nil {
		c.Parent.removeChild(c)
	}
	c.Parent = n
	n.Children = append(n.Children, c)
}

func (n *Node) appendText(data string) {
	if last := len(n.Children) - 1; last >= 0 && n.Children[last].Type == TextNode {
		n.Children[last].Data += data
		return
	}
	n.appendChild(&Node{Type: TextNode, Data: data})
}

func (n *Node) removeChild(c *Node) {
	for i, child := range n.Children {
		if child == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.Parent = nil
			return
		}
	}
}

// Tree owns a document being built and collects the parse diagnostics
// reported while building it.
type Tree struct {
	Document *Node
	Errors   []string
}

// New returns a tree with an empty document.
func New() *Tree {
	return &Tree{Document: &Node{Type: DocumentNode}}
}

// Callbacks returns a callback set that builds into the tree. The full
// surface is provided, so the same set serves document parses, fragment
// parses and streaming sessions.
func (t *Tree) Callbacks() *treesink.Callbacks {
	return &treesink.Callbacks{
		CreateElement:               t.createElement,
		CreateComment:               t.createComment,
		CreateProcessingInstruction: t.createPI,
		Append:                      t.append,
		AppendDoctypeToDocument:     t.appendDoctype,
		Meta:                        t.meta,
		TemplateContents:            t.templateContents,
		AddAttrsIfMissing:           t.addAttrsIfMissing,
		RemoveFromParent:            t.removeFromParent,
		ReparentChildren:            t.reparentChildren,
		ParseError:                  t.parseError,
	}
}

func (t *Tree) createElement(meta *treesink.ElementMeta, name treesink.QualName, attrs *treesink.AttrIter) treesink.NodeRef {
	n := &Node{Type: ElementNode, Name: name, meta: meta}
	if count := attrs.Count(); count > 0 {
		n.Attrs = make([]treesink.Attribute, 0, count)
		for a, ok := attrs.Next(); ok; a, ok = attrs.Next() {
			n.Attrs = append(n.Attrs, a)
		}
	}
	if name.Namespace == treesink.NamespaceHTML && name.Local == "template" {
		n.content = &Node{Type: FragmentNode}
	}
	return n
}

func (t *Tree) createComment(text string) treesink.NodeRef {
	return &Node{Type: CommentNode, Data: text}
}

func (t *Tree) createPI(target, data string) treesink.NodeRef {
	return &Node{Type: ProcessingInstructionNode, Target: target, Data: data}
}

func (t *Tree) append(parent treesink.NodeRef, child treesink.NodeOrText) {
	p := parent.(*Node)
	if child.IsNode() {
		p.appendChild(child.Node.(*Node))
		return
	}
	p.appendText(child.Text)
}

func (t *Tree) appendDoctype(name, publicID, systemID string) {
	t.Document.appendChild(&Node{
		Type:    DoctypeNode,
		Doctype: &Doctype{Name: name, PublicID: publicID, SystemID: systemID},
	})
}

func (t *Tree) meta(n treesink.NodeRef) *treesink.ElementMeta {
	return n.(*Node).meta
}

func (t *Tree) templateContents(n treesink.NodeRef) treesink.NodeRef {
	return n.(*Node).content
}

func (t *Tree) addAttrsIfMissing(target treesink.NodeRef, attrs *treesink.AttrIter) {
	n := target.(*Node)
	for a, ok := attrs.Next(); ok; a, ok = attrs.Next() {
		present := false
		for _, have := range n.Attrs {
			if have.Name == a.Name {
				present = true
				break
			}
		}
		if !present {
			n.Attrs = append(n.Attrs, a)
		}
	}
}

func (t *Tree) removeFromParent(target treesink.NodeRef) {
	n := target.(*Node)
	if n.Parent != nil {
		n.Parent.removeChild(n)
	}
}

func (t *Tree) reparentChildren(node, newParent treesink.NodeRef) {
	from, to := node.(*Node), newParent.(*Node)
	for _, c := range from.Children {
		c.Parent = to
	}
	to.Children = append(to.Children, from.Children...)
	from.Children = nil
}

func (t *Tree) parseError(msg string) {
	t.Errors = append(t.Errors, msg)
}
