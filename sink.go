package treesink

import (
	"github.com/sirupsen/logrus"

	"github.com/heathj/treesink/internal/arena"
	"github.com/heathj/treesink/parser"
)

// treeSink implements parser.Sink by forwarding every tree-construction
// event to the host callback set. It owns no tree state: handles flow from
// the host through the engine and back, and the only thing the sink itself
// allocates is the per-element metadata the engine's introspection queries
// resolve against.
type treeSink struct {
	cb       *Callbacks
	document NodeRef
	meta     *arena.Arena[ElementMeta]
	log      logrus.FieldLogger
	quirks   QuirksMode
	fragment bool
}

func newTreeSink(document NodeRef, cb *Callbacks, meta *arena.Arena[ElementMeta], log logrus.FieldLogger, fragment bool) *treeSink {
	return &treeSink{
		cb:       cb,
		document: document,
		meta:     meta,
		log:      log,
		quirks:   NoQuirks,
		fragment: fragment,
	}
}

func (s *treeSink) Document() parser.NodeRef {
	return s.document
}

// resolve maps an element handle back to the metadata allocated for it at
// creation. Handles that never went through CreateElement are a host
// contract violation, not a recoverable state.
func (s *treeSink) resolve(n parser.NodeRef) *ElementMeta {
	m := s.cb.Meta(n)
	if m == nil {
		panic("treesink: Meta returned nil for an element handle")
	}
	return m
}

func (s *treeSink) ElemName(n parser.NodeRef) parser.QualName {
	return s.resolve(n).Name
}

func (s *treeSink) CreateElement(name parser.QualName, attrs []parser.Attribute, flags parser.ElementFlags) parser.NodeRef {
	m := s.meta.Alloc(ElementMeta{
		Name:                                name,
		MathMLAnnotationXMLIntegrationPoint: flags.MathMLAnnotationXMLIntegrationPoint,
	})
	return s.cb.CreateElement(m, name, newAttrIter(attrs))
}

func (s *treeSink) CreateComment(text string) parser.NodeRef {
	return s.cb.CreateComment(text)
}

func (s *treeSink) CreatePI(target, data string) parser.NodeRef {
	if s.cb.CreateProcessingInstruction == nil {
		panic("treesink: CreateProcessingInstruction callback not provided")
	}
	return s.cb.CreateProcessingInstruction(target, data)
}

func (s *treeSink) Append(parent parser.NodeRef, child parser.NodeOrText) {
	s.cb.Append(parent, child)
}

// AppendBeforeSibling is one of the two tree operations this adapter
// declares out of scope. Only foster-parenting insertions reach it, and the
// supported callback surface has no operation to carry them, so reaching it
// is fatal rather than silently dropped.
func (s *treeSink) AppendBeforeSibling(sibling parser.NodeRef, child parser.NodeOrText) {
	panic("treesink: append before sibling is not supported")
}

// AppendBasedOnParentNode is the foster-parenting insertion the engine emits
// for content misnested inside tables. Unsupported, as above.
func (s *treeSink) AppendBasedOnParentNode(element, prevElement parser.NodeRef, child parser.NodeOrText) {
	panic("treesink: append based on parent node is not supported")
}

func (s *treeSink) AppendDoctypeToDocument(name, publicID, systemID string) {
	if s.cb.AppendDoctypeToDocument == nil {
		panic("treesink: AppendDoctypeToDocument callback not provided")
	}
	s.cb.AppendDoctypeToDocument(name, publicID, systemID)
}

func (s *treeSink) AddAttrsIfMissing(target parser.NodeRef, attrs []parser.Attribute) {
	if s.cb.AddAttrsIfMissing == nil {
		panic("treesink: AddAttrsIfMissing callback not provided")
	}
	s.cb.AddAttrsIfMissing(target, newAttrIter(attrs))
}

func (s *treeSink) RemoveFromParent(target parser.NodeRef) {
	if s.cb.RemoveFromParent == nil {
		panic("treesink: RemoveFromParent callback not provided")
	}
	s.cb.RemoveFromParent(target)
}

func (s *treeSink) ReparentChildren(node, newParent parser.NodeRef) {
	if s.cb.ReparentChildren == nil {
		panic("treesink: ReparentChildren callback not provided")
	}
	s.cb.ReparentChildren(node, newParent)
}

func (s *treeSink) TemplateContents(n parser.NodeRef) parser.NodeRef {
	if s.cb.TemplateContents == nil {
		panic("treesink: TemplateContents callback not provided")
	}
	return s.cb.TemplateContents(n)
}

// SameNode is host identity: handles are compared with ==, never by
// content. Hosts hand out pointers, so this is reference equality.
func (s *treeSink) SameNode(a, b parser.NodeRef) bool {
	return a == b
}

// SetQuirksMode records the engine's decision. Nothing inside the adapter
// reads it back; it is kept for the session's QuirksMode accessor.
func (s *treeSink) SetQuirksMode(mode parser.QuirksMode) {
	s.quirks = mode
}

func (s *treeSink) Pop(n parser.NodeRef) {
	if s.cb.Pop != nil {
		s.cb.Pop(n)
	}
}

func (s *treeSink) IsMathMLAnnotationXMLIntegrationPoint(n parser.NodeRef) bool {
	return s.resolve(n).MathMLAnnotationXMLIntegrationPoint
}

func (s *treeSink) ParseError(msg string) {
	if s.cb.ParseError != nil {
		s.cb.ParseError(msg)
		return
	}
	s.log.WithField("err", msg).Debug("parse error")
}

// finish runs the host's Finish hook. The session calls it exactly once, on
// Finish, never on Close.
func (s *treeSink) finish() {
	if s.cb.Finish != nil {
		s.cb.Finish()
	}
}
