package hosttree

import (
	"sort"
	"strings"

	"github.com/heathj/treesink"
)

// Dump renders root's children in the html5lib tree-construction test
// format: a #document header, one node per line prefixed with "| " and two
// spaces per depth level, attributes sorted by name on their own lines, and
// template contents under a "content" line.
func Dump(root *Node) string {
	var b strings.Builder
	b.WriteString("#document\n")
	for _, c := range root.Children {
		dumpNode(&b, c, 1)
	}
	return strings.TrimRight(b.String(), "\n")
}

func dumpIndent(b *strings.Builder, depth int) {
	b.WriteString("| ")
	for i := 1; i < depth; i++ {
		b.WriteString("  ")
	}
}

func dumpNode(b *strings.Builder, n *Node, depth int) {
	dumpIndent(b, depth)
	switch n.Type {
	case ElementNode:
		b.WriteString("<")
		switch n.Name.Namespace {
		case treesink.NamespaceSVG:
			b.WriteString("svg ")
		case treesink.NamespaceMathML:
			b.WriteString("math ")
		}
		b.WriteString(n.Name.Local)
		b.WriteString(">\n")
		dumpAttrs(b, n.Attrs, depth+1)
		if n.content != nil {
			dumpIndent(b, depth+1)
			b.WriteString("content\n")
			for _, c := range n.content.Children {
				dumpNode(b, c, depth+2)
			}
		}
		for _, c := range n.Children {
			dumpNode(b, c, depth+1)
		}
	case TextNode:
		b.WriteString("\"" + n.Data + "\"\n")
	case CommentNode:
		b.WriteString("<!-- " + n.Data + " -->\n")
	case DoctypeNode:
		b.WriteString("<!DOCTYPE " + n.Doctype.Name)
		if n.Doctype.PublicID != "" || n.Doctype.SystemID != "" {
			b.WriteString(" \"" + n.Doctype.PublicID + "\" \"" + n.Doctype.SystemID + "\"")
		}
		b.WriteString(">\n")
	case ProcessingInstructionNode:
		b.WriteString("<?" + n.Target + " " + n.Data + ">\n")
	}
}

func dumpAttrs(b *strings.Builder, attrs []treesink.Attribute, depth int) {
	if len(attrs) == 0 {
		return
	}
	sorted := make([]treesink.Attribute, len(attrs))
	copy(sorted, attrs)
	sort.Slice(sorted, func(i, j int) bool {
		return dumpAttrName(sorted[i].Name) < dumpAttrName(sorted[j].Name)
	})
	for _, a := range sorted {
		dumpIndent(b, depth)
		b.WriteString(dumpAttrName(a.Name) + "=\"" + a.Value + "\"\n")
	}
}

func dumpAttrName(name treesink.QualName) string {
	switch name.Namespace {
	case treesink.NamespaceXLink:
		return "xlink " + name.Local
	case treesink.NamespaceXML:
		return "xml " + name.Local
	case treesink.NamespaceXMLNS:
		return "xmlns " + name.Local
	}
	return name.Local
}
