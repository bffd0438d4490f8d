package hosttree

import (
	"strings"

	"github.com/heathj/treesink"
)

// https://html.spec.whatwg.org/#escapingString
func escapeString(s string, attrVal bool) string {
	s = strings.Replace(s, "&", "&amp;", -1)
	s = strings.Replace(s, "\u00A0", "&nbsp;", -1)
	if attrVal {
		return strings.Replace(s, "\"", "&quot;", -1)
	}
	s = strings.Replace(s, "<", "&lt;", -1)
	return strings.Replace(s, ">", "&gt;", -1)
}

var voidElements = map[string]bool{
	"area": true, "base": true, "basefont": true, "bgsound": true,
	"br": true, "col": true, "embed": true, "frame": true, "hr": true,
	"img": true, "input": true, "keygen": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// elements whose text children serialize without escaping.
var rawTextElements = map[string]bool{
	"style": true, "script": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "plaintext": true, "noscript": true,
}

// Render serializes n's children as HTML markup.
// https://html.spec.whatwg.org/#serialising-html-fragments
func Render(n *Node) string {
	if n.Type == ElementNode {
		switch n.Name.Local {
		case "basefont", "bgsound", "frame", "keygen":
			return ""
		}
	}
	var b strings.Builder
	for _, child := range n.Children {
		renderNode(&b, child)
	}
	return b.String()
}

func renderNode(b *strings.Builder, n *Node) {
	switch n.Type {
	case ElementNode:
		b.WriteString("<" + n.Name.Local)
		for _, a := range n.Attrs {
			b.WriteString(" " + renderAttrName(a.Name) + "=\"" + escapeString(a.Value, true) + "\"")
		}
		b.WriteString(">")
		if n.Name.Namespace == treesink.NamespaceHTML && voidElements[n.Name.Local] {
			return
		}
		if n.content != nil {
			b.WriteString(Render(n.content))
		} else {
			b.WriteString(Render(n))
		}
		b.WriteString("</" + n.Name.Local + ">")
	case TextNode:
		if p := n.Parent; p != nil && p.Type == ElementNode &&
			p.Name.Namespace == treesink.NamespaceHTML && rawTextElements[p.Name.Local] {
			b.WriteString(n.Data)
			return
		}
		b.WriteString(escapeString(n.Data, false))
	case CommentNode:
		b.WriteString("<!--" + n.Data + "-->")
	case DoctypeNode:
		b.WriteString("<!DOCTYPE " + n.Doctype.Name + ">")
	case ProcessingInstructionNode:
		b.WriteString("<?" + n.Target + " " + n.Data + ">")
	}
}

func renderAttrName(name treesink.QualName) string {
	switch name.Namespace {
	case treesink.NamespaceXML:
		return "xml:" + name.Local
	case treesink.NamespaceXMLNS:
		if name.Local == "xmlns" {
			return "xmlns"
		}
		return "xmlns:" + name.Local
	case treesink.NamespaceXLink:
		return "xlink:" + name.Local
	}
	return name.Local
}
