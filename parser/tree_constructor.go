package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/atom"
)

type treeConstructionModeHandler func(t *Token) (bool, insertionMode, parseError)

// insertionLocation is an appropriate-place result. Either parent is set and
// children are appended to it, or fosterTable is set and placement is
// delegated to the sink relative to that table.
type insertionLocation struct {
	parent      NodeRef
	fosterTable NodeRef
	prevElement NodeRef
}

// formattingElement is an entry in the list of active formatting elements.
// The token is retained because reconstruction and the adoption agency
// algorithm re-create elements from it.
type formattingElement struct {
	node   NodeRef
	token  *Token
	marker bool
}

// HTMLTreeConstructor holds the insertion-mode state machine. It owns no
// nodes: every node reference it tracks is an opaque handle produced by the
// sink, and all structural edits and introspection go back through the sink.
type HTMLTreeConstructor struct {
	sink     Sink
	mappings map[insertionMode]treeConstructionModeHandler

	openElements             []NodeRef
	activeFormattingElements []formattingElement
	templateInsertionModes   []insertionMode

	curInsertionMode      insertionMode
	originalInsertionMode insertionMode
	pendingTokenizerState *tokenizerState

	headElementPointer NodeRef
	formElementPointer NodeRef

	pendingText    strings.Builder
	pendingTextLoc insertionLocation

	pendingTableText      strings.Builder
	pendingTableTextDirty bool

	quirksMode       QuirksMode
	framesetOK       bool
	fosterParenting  bool
	scriptingEnabled bool
	iframeSrcdoc     bool
	ignoreNextLF     bool
	stopped          bool

	fragment    bool
	contextName QualName
}

// NewHTMLTreeConstructor creates an HTMLTreeConstructor that builds through
// the given sink.
func NewHTMLTreeConstructor(sink Sink) *HTMLTreeConstructor {
	t := &HTMLTreeConstructor{
		sink:       sink,
		framesetOK: true,
		quirksMode: NoQuirks,
	}
	t.createMappings()
	return t
}

func (t *HTMLTreeConstructor) createMappings() {
	t.mappings = map[insertionMode]treeConstructionModeHandler{
		initial:            t.initialModeHandler,
		beforeHTML:         t.beforeHTMLModeHandler,
		beforeHead:         t.beforeHeadModeHandler,
		inHead:             t.inHeadModeHandler,
		inHeadNoScript:     t.inHeadNoScriptModeHandler,
		afterHead:          t.afterHeadModeHandler,
		inBody:             t.inBodyModeHandler,
		text:               t.textModeHandler,
		inTable:            t.inTableModeHandler,
		inTableText:        t.inTableTextModeHandler,
		inCaption:          t.inCaptionModeHandler,
		inColumnGroup:      t.inColumnGroupModeHandler,
		inTableBody:        t.inTableBodyModeHandler,
		inRow:              t.inRowModeHandler,
		inCell:             t.inCellModeHandler,
		inSelect:           t.inSelectModeHandler,
		inSelectInTable:    t.inSelectInTableModeHandler,
		inTemplate:         t.inTemplateModeHandler,
		afterBody:          t.afterBodyModeHandler,
		inFrameset:         t.inFramesetModeHandler,
		afterFrameset:      t.afterFramesetModeHandler,
		afterAfterBody:     t.afterAfterBodyModeHandler,
		afterAfterFrameset: t.afterAfterFramesetModeHandler,
	}
}

// initFragment sets up the fragment parsing variant: a synthetic html root
// under the document, with insertion behavior steered by the context
// element's name. The context element itself is never materialized.
func (t *HTMLTreeConstructor) initFragment(context QualName) {
	t.fragment = true
	t.contextName = context
	root := t.sink.CreateElement(htmlName("html"), nil, ElementFlags{})
	t.sink.Append(t.sink.Document(), NodeChild(root))
	t.openElements = append(t.openElements, root)
	if context.Namespace == NamespaceHTML && context.Local == "template" {
		t.templateInsertionModes = append(t.templateInsertionModes, inTemplate)
	}
	t.resetInsertionMode()
}

func (t *HTMLTreeConstructor) logError(err parseError, token *Token) {
	if err == noError {
		return
	}
	t.sink.ParseError(fmt.Sprintf("%s: %s", err, token))
}

// name resolves an element handle back to its qualified name through the
// sink; the constructor never caches names itself.
func (t *HTMLTreeConstructor) name(node NodeRef) QualName {
	return t.sink.ElemName(node)
}

func (t *HTMLTreeConstructor) sameNode(a, b NodeRef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return t.sink.SameNode(a, b)
}

func (t *HTMLTreeConstructor) currentNode() NodeRef {
	if len(t.openElements) == 0 {
		return nil
	}
	return t.openElements[len(t.openElements)-1]
}

// adjustedCurrentName returns the qualified name driving foreign-content
// dispatch. In a fragment parse with only the root open this is the context
// element, which has a name but no handle.
func (t *HTMLTreeConstructor) adjustedCurrentName() (QualName, NodeRef, bool) {
	if len(t.openElements) == 0 {
		return QualName{}, nil, false
	}
	if t.fragment && len(t.openElements) == 1 {
		return t.contextName, nil, true
	}
	node := t.currentNode()
	return t.name(node), node, true
}

func (t *HTMLTreeConstructor) shouldAllowCDATA() bool {
	name, _, ok := t.adjustedCurrentName()
	return ok && name.Namespace != NamespaceHTML && name.Namespace != ""
}

func (t *HTMLTreeConstructor) isHTMLNamed(node NodeRef, local string) bool {
	name := t.name(node)
	return name.Namespace == NamespaceHTML && name.Local == local
}

func (t *HTMLTreeConstructor) currentNodeIs(locals ...string) bool {
	node := t.currentNode()
	if node == nil {
		return false
	}
	name := t.name(node)
	if name.Namespace != NamespaceHTML {
		return false
	}
	for _, local := range locals {
		if name.Local == local {
			return true
		}
	}
	return false
}

func (t *HTMLTreeConstructor) stackIndexOf(node NodeRef) int {
	for i := len(t.openElements) - 1; i >= 0; i-- {
		if t.sameNode(t.openElements[i], node) {
			return i
		}
	}
	return -1
}

func (t *HTMLTreeConstructor) push(node NodeRef) {
	t.openElements = append(t.openElements, node)
}

// pop removes the current node and notifies the sink. Pending text flushes
// first so the sink sees events in token order.
func (t *HTMLTreeConstructor) pop() NodeRef {
	t.flushText()
	node := t.openElements[len(t.openElements)-1]
	t.openElements = t.openElements[:len(t.openElements)-1]
	t.sink.Pop(node)
	return node
}

// popUntil pops until an HTML element with one of the given names has been
// popped, returning it.
func (t *HTMLTreeConstructor) popUntil(locals ...string) NodeRef {
	for len(t.openElements) > 0 {
		node := t.pop()
		name := t.name(node)
		if name.Namespace != NamespaceHTML {
			continue
		}
		for _, local := range locals {
			if name.Local == local {
				return node
			}
		}
	}
	return nil
}

// removeFromStack deletes a node from the stack of open elements without pop
// notification; the adoption agency and form handling reorder rather than
// close.
func (t *HTMLTreeConstructor) removeFromStack(node NodeRef) {
	if i := t.stackIndexOf(node); i >= 0 {
		t.openElements = append(t.openElements[:i], t.openElements[i+1:]...)
	}
}

func defaultScopeBoundary(name QualName) bool {
	switch name.Namespace {
	case NamespaceHTML:
		switch name.Local {
		case "applet", "caption", "html", "table", "td", "th", "marquee", "object", "template":
			return true
		}
	case NamespaceMathML:
		return mathMLTextIntegrationPoints[name.Local] || name.Local == "annotation-xml"
	case NamespaceSVG:
		return svgHTMLIntegrationPoints[name.Local]
	}
	return false
}

func (t *HTMLTreeConstructor) inScopeWith(boundary func(QualName) bool, match func(QualName) bool) bool {
	for i := len(t.openElements) - 1; i >= 0; i-- {
		name := t.name(t.openElements[i])
		if match(name) {
			return true
		}
		if boundary(name) {
			return false
		}
	}
	return false
}

func matchHTML(locals ...string) func(QualName) bool {
	return func(name QualName) bool {
		if name.Namespace != NamespaceHTML {
			return false
		}
		for _, local := range locals {
			if name.Local == local {
				return true
			}
		}
		return false
	}
}

func (t *HTMLTreeConstructor) elementInScope(locals ...string) bool {
	return t.inScopeWith(defaultScopeBoundary, matchHTML(locals...))
}

func (t *HTMLTreeConstructor) elementInButtonScope(local string) bool {
	boundary := func(name QualName) bool {
		return defaultScopeBoundary(name) || (name.Namespace == NamespaceHTML && name.Local == "button")
	}
	return t.inScopeWith(boundary, matchHTML(local))
}

func (t *HTMLTreeConstructor) elementInListItemScope(local string) bool {
	boundary := func(name QualName) bool {
		return defaultScopeBoundary(name) || (name.Namespace == NamespaceHTML && (name.Local == "ol" || name.Local == "ul"))
	}
	return t.inScopeWith(boundary, matchHTML(local))
}

func (t *HTMLTreeConstructor) elementInTableScope(locals ...string) bool {
	boundary := matchHTML("html", "table", "template")
	return t.inScopeWith(boundary, matchHTML(locals...))
}

func (t *HTMLTreeConstructor) elementInSelectScope(local string) bool {
	boundary := func(name QualName) bool {
		if name.Namespace != NamespaceHTML {
			return true
		}
		return name.Local != "optgroup" && name.Local != "option"
	}
	return t.inScopeWith(boundary, matchHTML(local))
}

// nodeInScope is the node-identity variant used for the form pointer.
func (t *HTMLTreeConstructor) nodeInScope(target NodeRef) bool {
	for i := len(t.openElements) - 1; i >= 0; i-- {
		if t.sameNode(t.openElements[i], target) {
			return true
		}
		if defaultScopeBoundary(t.name(t.openElements[i])) {
			return false
		}
	}
	return false
}

func (t *HTMLTreeConstructor) hasTemplateOnStack() bool {
	for i := len(t.openElements) - 1; i >= 0; i-- {
		if t.isHTMLNamed(t.openElements[i], "template") {
			return true
		}
	}
	return false
}

var impliedEndTags = map[string]bool{
	"dd":       true,
	"dt":       true,
	"li":       true,
	"optgroup": true,
	"option":   true,
	"p":        true,
	"rb":       true,
	"rp":       true,
	"rt":       true,
	"rtc":      true,
}

var thoroughImpliedEndTags = map[string]bool{
	"caption":  true,
	"colgroup": true,
	"tbody":    true,
	"td":       true,
	"tfoot":    true,
	"th":       true,
	"thead":    true,
	"tr":       true,
}

func (t *HTMLTreeConstructor) generateImpliedEndTags(except string) {
	for len(t.openElements) > 0 {
		name := t.name(t.currentNode())
		if name.Namespace != NamespaceHTML || !impliedEndTags[name.Local] || name.Local == except {
			return
		}
		t.pop()
	}
}

func (t *HTMLTreeConstructor) generateImpliedEndTagsThoroughly() {
	for len(t.openElements) > 0 {
		name := t.name(t.currentNode())
		if name.Namespace != NamespaceHTML {
			return
		}
		if !impliedEndTags[name.Local] && !thoroughImpliedEndTags[name.Local] {
			return
		}
		t.pop()
	}
}

// closePElement runs the "close a p element" steps.
func (t *HTMLTreeConstructor) closePElement() parseError {
	t.generateImpliedEndTags("p")
	err := noError
	if !t.currentNodeIs("p") {
		err = unexpectedEndTagError
	}
	t.popUntil("p")
	return err
}

func (t *HTMLTreeConstructor) clearStackBackToTableContext() {
	for len(t.openElements) > 0 && !t.currentNodeIs("table", "template", "html") {
		t.pop()
	}
}

func (t *HTMLTreeConstructor) clearStackBackToTableBodyContext() {
	for len(t.openElements) > 0 && !t.currentNodeIs("tbody", "tfoot", "thead", "template", "html") {
		t.pop()
	}
}

func (t *HTMLTreeConstructor) clearStackBackToTableRowContext() {
	for len(t.openElements) > 0 && !t.currentNodeIs("tr", "template", "html") {
		t.pop()
	}
}

func (t *HTMLTreeConstructor) afeIndexOf(node NodeRef) int {
	for i := len(t.activeFormattingElements) - 1; i >= 0; i-- {
		e := t.activeFormattingElements[i]
		if !e.marker && t.sameNode(e.node, node) {
			return i
		}
	}
	return -1
}

func sameAttributes(a, b []Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for _, aa := range a {
		found := false
		for _, bb := range b {
			if aa.Name == bb.Name && aa.Value == bb.Value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// pushActiveFormattingElement appends an entry, applying the Noah's Ark
// clause: at most three identical entries since the last marker.
func (t *HTMLTreeConstructor) pushActiveFormattingElement(node NodeRef, token *Token) {
	matches := 0
	earliest := -1
	for i := len(t.activeFormattingElements) - 1; i >= 0; i-- {
		e := t.activeFormattingElements[i]
		if e.marker {
			break
		}
		if e.token.TagName == token.TagName && sameAttributes(e.token.Attributes, token.Attributes) {
			matches++
			earliest = i
		}
	}
	if matches >= 3 && earliest >= 0 {
		t.activeFormattingElements = append(t.activeFormattingElements[:earliest], t.activeFormattingElements[earliest+1:]...)
	}
	t.activeFormattingElements = append(t.activeFormattingElements, formattingElement{node: node, token: token})
}

func (t *HTMLTreeConstructor) insertFormattingMarker() {
	t.activeFormattingElements = append(t.activeFormattingElements, formattingElement{marker: true})
}

func (t *HTMLTreeConstructor) clearFormattingElementsToLastMarker() {
	for len(t.activeFormattingElements) > 0 {
		last := len(t.activeFormattingElements) - 1
		e := t.activeFormattingElements[last]
		t.activeFormattingElements = t.activeFormattingElements[:last]
		if e.marker {
			return
		}
	}
}

func (t *HTMLTreeConstructor) reconstructActiveFormattingElements() {
	n := len(t.activeFormattingElements)
	if n == 0 {
		return
	}
	last := t.activeFormattingElements[n-1]
	if last.marker || t.stackIndexOf(last.node) >= 0 {
		return
	}

	i := n - 1
	for i > 0 {
		i--
		e := t.activeFormattingElements[i]
		if e.marker || t.stackIndexOf(e.node) >= 0 {
			i++
			break
		}
	}
	for ; i < len(t.activeFormattingElements); i++ {
		entry := t.activeFormattingElements[i]
		elem := t.insertHTMLElementForToken(entry.token)
		t.activeFormattingElements[i].node = elem
	}
}

// appropriatePlace computes the target for the next insertion, honoring
// foster parenting when it is enabled and the target is a table section.
// Placement relative to a fostered table is delegated to the sink, since only
// the host knows whether the table has a parent.
func (t *HTMLTreeConstructor) appropriatePlace(override NodeRef) insertionLocation {
	target := override
	if target == nil {
		target = t.currentNode()
	}

	if t.fosterParenting {
		name := t.name(target)
		if name.Namespace == NamespaceHTML {
			switch name.Local {
			case "table", "tbody", "tfoot", "thead", "tr":
				templateIdx, tableIdx := -1, -1
				for i := len(t.openElements) - 1; i >= 0; i-- {
					if tableIdx < 0 && t.isHTMLNamed(t.openElements[i], "table") {
						tableIdx = i
					}
					if templateIdx < 0 && t.isHTMLNamed(t.openElements[i], "template") {
						templateIdx = i
					}
				}
				switch {
				case templateIdx >= 0 && (tableIdx < 0 || templateIdx > tableIdx):
					return insertionLocation{parent: t.sink.TemplateContents(t.openElements[templateIdx])}
				case tableIdx < 0:
					return insertionLocation{parent: t.openElements[0]}
				default:
					return insertionLocation{
						fosterTable: t.openElements[tableIdx],
						prevElement: t.openElements[tableIdx-1],
					}
				}
			}
		}
	}

	loc := insertionLocation{parent: target}
	if loc.parent != nil && t.isHTMLNamed(loc.parent, "template") {
		loc.parent = t.sink.TemplateContents(loc.parent)
	}
	return loc
}

func (t *HTMLTreeConstructor) insertAt(loc insertionLocation, child NodeOrText) {
	if loc.fosterTable != nil {
		t.sink.AppendBasedOnParentNode(loc.fosterTable, loc.prevElement, child)
		return
	}
	t.sink.Append(loc.parent, child)
}

func (t *HTMLTreeConstructor) sameLocation(a, b insertionLocation) bool {
	return t.sameNode(a.parent, b.parent) && t.sameNode(a.fosterTable, b.fosterTable) && t.sameNode(a.prevElement, b.prevElement)
}

// insertText buffers character data; runs of characters coalesce into a
// single sink append as long as they land in the same place.
func (t *HTMLTreeConstructor) insertText(data string) {
	loc := t.appropriatePlace(nil)
	if t.pendingText.Len() > 0 && !t.sameLocation(loc, t.pendingTextLoc) {
		t.flushText()
	}
	if t.pendingText.Len() == 0 {
		t.pendingTextLoc = loc
	}
	t.pendingText.WriteString(data)
}

// flushText emits buffered character data before any structural sink call so
// the host observes events in token order.
func (t *HTMLTreeConstructor) flushText() {
	if t.pendingText.Len() == 0 {
		return
	}
	data := t.pendingText.String()
	t.pendingText.Reset()
	loc := t.pendingTextLoc
	t.pendingTextLoc = insertionLocation{}
	if loc.fosterTable != nil {
		t.sink.AppendBasedOnParentNode(loc.fosterTable, loc.prevElement, TextChild(data))
		return
	}
	t.sink.Append(loc.parent, TextChild(data))
}

// createElementForToken builds the element through the sink, deriving the
// per-element flags the sink needs for template and annotation-xml handling.
func (t *HTMLTreeConstructor) createElementForToken(token *Token, namespace string) NodeRef {
	name := QualName{Namespace: namespace, Local: token.TagName}
	flags := ElementFlags{}
	if namespace == NamespaceHTML && token.TagName == "template" {
		flags.Template = true
	}
	if namespace == NamespaceMathML && token.TagName == "annotation-xml" {
		if enc, ok := token.attr("encoding"); ok {
			switch strings.ToLower(enc) {
			case "text/html", "application/xhtml+xml":
				flags.MathMLAnnotationXMLIntegrationPoint = true
			}
		}
	}
	return t.sink.CreateElement(name, token.Attributes, flags)
}

func (t *HTMLTreeConstructor) insertHTMLElementForToken(token *Token) NodeRef {
	return t.insertForeignElementForToken(token, NamespaceHTML)
}

func (t *HTMLTreeConstructor) insertForeignElementForToken(token *Token, namespace string) NodeRef {
	t.flushText()
	loc := t.appropriatePlace(nil)
	elem := t.createElementForToken(token, namespace)
	t.insertAt(loc, NodeChild(elem))
	t.push(elem)
	return elem
}

// insertVoidHTMLElement inserts an element that is popped right back off.
func (t *HTMLTreeConstructor) insertVoidHTMLElement(token *Token) NodeRef {
	elem := t.insertHTMLElementForToken(token)
	t.pop()
	return elem
}

func (t *HTMLTreeConstructor) insertComment(token *Token) {
	t.flushText()
	loc := t.appropriatePlace(nil)
	t.insertAt(loc, NodeChild(t.sink.CreateComment(token.Data)))
}

func (t *HTMLTreeConstructor) insertCommentAt(target NodeRef, token *Token) {
	t.flushText()
	t.sink.Append(target, NodeChild(t.sink.CreateComment(token.Data)))
}

func (t *HTMLTreeConstructor) setQuirksMode(mode QuirksMode) {
	t.quirksMode = mode
	t.sink.SetQuirksMode(mode)
}

func (t *HTMLTreeConstructor) switchTokenizer(state tokenizerState) {
	s := state
	t.pendingTokenizerState = &s
}

func (t *HTMLTreeConstructor) stopParsing() {
	t.flushText()
	t.stopped = true
}

// genericRCDATAParsing implements the generic RCDATA parsing algorithm.
func (t *HTMLTreeConstructor) genericRCDATAParsing(token *Token) insertionMode {
	t.insertHTMLElementForToken(token)
	t.switchTokenizer(rcDataState)
	t.originalInsertionMode = t.curInsertionMode
	return text
}

func (t *HTMLTreeConstructor) genericRawTextParsing(token *Token) insertionMode {
	t.insertHTMLElementForToken(token)
	t.switchTokenizer(rawTextState)
	t.originalInsertionMode = t.curInsertionMode
	return text
}

// resetInsertionMode implements "reset the insertion mode appropriately".
func (t *HTMLTreeConstructor) resetInsertionMode() {
	t.curInsertionMode = t.computeResetInsertionMode()
}

func (t *HTMLTreeConstructor) computeResetInsertionMode() insertionMode {
	for i := len(t.openElements) - 1; i >= 0; i-- {
		last := i == 0
		name := t.name(t.openElements[i])
		if t.fragment && last {
			name = t.contextName
		}
		if name.Namespace != NamespaceHTML {
			if last {
				return inBody
			}
			continue
		}
		switch name.Local {
		case "select":
			if !last {
				for j := i - 1; j >= 0; j-- {
					ancestor := t.name(t.openElements[j])
					if ancestor.Namespace != NamespaceHTML {
						continue
					}
					if ancestor.Local == "template" {
						break
					}
					if ancestor.Local == "table" {
						return inSelectInTable
					}
				}
			}
			return inSelect
		case "td", "th":
			if !last {
				return inCell
			}
		case "tr":
			return inRow
		case "tbody", "thead", "tfoot":
			return inTableBody
		case "caption":
			return inCaption
		case "colgroup":
			return inColumnGroup
		case "table":
			return inTable
		case "template":
			if len(t.templateInsertionModes) > 0 {
				return t.templateInsertionModes[len(t.templateInsertionModes)-1]
			}
			return inTemplate
		case "head":
			if !last {
				return inHead
			}
		case "body":
			return inBody
		case "frameset":
			return inFrameset
		case "html":
			if t.headElementPointer == nil {
				return beforeHead
			}
			return afterHead
		}
		if last {
			return inBody
		}
	}
	return inBody
}

func tokenRune(token *Token) rune {
	r, _ := utf8.DecodeRuneInString(token.Data)
	return r
}

func isWhitespaceCharToken(token *Token) bool {
	return isASCIIWhitespace(int(tokenRune(token)))
}

func syntheticToken(local string) *Token {
	return &Token{TokenType: startTagToken, TagName: local}
}

// quirky doctype public identifier prefixes, lowercased.
var quirkyPublicPrefixes = []string{
	"+//silmaril//dtd html pro v0r11 19970101//",
	"-//as//dtd html 3.0 aswedit + extensions//",
	"-//advasoft ltd//dtd html 3.0 aswedit + extensions//",
	"-//ietf//dtd html 2.0 level 1//",
	"-//ietf//dtd html 2.0 level 2//",
	"-//ietf//dtd html 2.0 strict level 1//",
	"-//ietf//dtd html 2.0 strict level 2//",
	"-//ietf//dtd html 2.0 strict//",
	"-//ietf//dtd html 2.0//",
	"-//ietf//dtd html 2.1e//",
	"-//ietf//dtd html 3.0//",
	"-//ietf//dtd html 3.2 final//",
	"-//ietf//dtd html 3.2//",
	"-//ietf//dtd html 3//",
	"-//ietf//dtd html level 0//",
	"-//ietf//dtd html level 1//",
	"-//ietf//dtd html level 2//",
	"-//ietf//dtd html level 3//",
	"-//ietf//dtd html strict level 0//",
	"-//ietf//dtd html strict level 1//",
	"-//ietf//dtd html strict level 2//",
	"-//ietf//dtd html strict level 3//",
	"-//ietf//dtd html strict//",
	"-//ietf//dtd html//",
	"-//metrius//dtd metrius presentational//",
	"-//microsoft//dtd internet explorer 2.0 html strict//",
	"-//microsoft//dtd internet explorer 2.0 html//",
	"-//microsoft//dtd internet explorer 2.0 tables//",
	"-//microsoft//dtd internet explorer 3.0 html strict//",
	"-//microsoft//dtd internet explorer 3.0 html//",
	"-//microsoft//dtd internet explorer 3.0 tables//",
	"-//netscape comm. corp.//dtd html//",
	"-//netscape comm. corp.//dtd strict html//",
	"-//o'reilly and associates//dtd html 2.0//",
	"-//o'reilly and associates//dtd html extended 1.0//",
	"-//o'reilly and associates//dtd html extended relaxed 1.0//",
	"-//sq//dtd html 2.0 hotmetal + extensions//",
	"-//softquad software//dtd hotmetal pro 6.0::19990601::extensions to html 4.0//",
	"-//softquad//dtd hotmetal pro 4.0::19971010::extensions to html 4.0//",
	"-//spyglass//dtd html 2.0 extended//",
	"-//sun microsystems corp.//dtd hotjava html//",
	"-//sun microsystems corp.//dtd hotjava strict html//",
	"-//w3c//dtd html 3 1995-03-24//",
	"-//w3c//dtd html 3.2 draft//",
	"-//w3c//dtd html 3.2 final//",
	"-//w3c//dtd html 3.2//",
	"-//w3c//dtd html 3.2s draft//",
	"-//w3c//dtd html 4.0 frameset//",
	"-//w3c//dtd html 4.0 transitional//",
	"-//w3c//dtd html experimental 19960712//",
	"-//w3c//dtd html experimental 970421//",
	"-//w3c//dtd w3 html//",
	"-//w3o//dtd w3 html 3.0//",
	"-//webtechs//dtd mozilla html 2.0//",
	"-//webtechs//dtd mozilla html//",
}

// quirky only when a system identifier is absent; limited quirks otherwise.
var conditionallyQuirkyPublicPrefixes = []string{
	"-//w3c//dtd html 4.01 frameset//",
	"-//w3c//dtd html 4.01 transitional//",
}

var limitedQuirkyPublicPrefixes = []string{
	"-//w3c//dtd xhtml 1.0 frameset//",
	"-//w3c//dtd xhtml 1.0 transitional//",
}

func quirksModeFromDoctype(token *Token, iframeSrcdoc bool) QuirksMode {
	if iframeSrcdoc {
		return NoQuirks
	}
	if token.ForceQuirks || token.TagName != "html" {
		return Quirks
	}

	hasPublic := token.PublicIdentifier != missing
	hasSystem := token.SystemIdentifier != missing
	public := strings.ToLower(token.PublicIdentifier)
	system := strings.ToLower(token.SystemIdentifier)

	if hasPublic {
		switch public {
		case "-//w3o//dtd w3 html strict 3.0//en//", "-/w3c/dtd html 4.0 transitional/en", "html":
			return Quirks
		}
		for _, prefix := range quirkyPublicPrefixes {
			if strings.HasPrefix(public, prefix) {
				return Quirks
			}
		}
		for _, prefix := range conditionallyQuirkyPublicPrefixes {
			if strings.HasPrefix(public, prefix) {
				if hasSystem {
					return LimitedQuirks
				}
				return Quirks
			}
		}
		for _, prefix := range limitedQuirkyPublicPrefixes {
			if strings.HasPrefix(public, prefix) {
				return LimitedQuirks
			}
		}
	}
	if hasSystem && system == "http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd" {
		return Quirks
	}
	return NoQuirks
}

func doctypeIdentifier(id string) string {
	if id == missing {
		return ""
	}
	return id
}

// useRulesFor processes the token with another mode's rules, staying in the
// current mode unless the delegate moved somewhere new.
func (t *HTMLTreeConstructor) useRulesFor(token *Token, mode insertionMode) (bool, insertionMode, parseError) {
	reprocess, nextMode, err := t.mappings[mode](token)
	if nextMode == mode {
		return reprocess, t.curInsertionMode, err
	}
	return reprocess, nextMode, err
}

// endTemplateTag is shared by every mode that accepts </template>. It is
// called directly rather than through useRulesFor because it resets the
// insertion mode itself.
func (t *HTMLTreeConstructor) endTemplateTag(token *Token) (bool, insertionMode, parseError) {
	if !t.hasTemplateOnStack() {
		return false, t.curInsertionMode, unexpectedEndTagError
	}
	t.generateImpliedEndTagsThoroughly()
	err := noError
	if !t.currentNodeIs("template") {
		err = unexpectedEndTagError
	}
	t.popUntil("template")
	t.clearFormattingElementsToLastMarker()
	if n := len(t.templateInsertionModes); n > 0 {
		t.templateInsertionModes = t.templateInsertionModes[:n-1]
	}
	t.resetInsertionMode()
	return false, t.curInsertionMode, err
}

func (t *HTMLTreeConstructor) initialModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		if isWhitespaceCharToken(token) {
			return false, initial, noError
		}
	case commentToken:
		t.insertCommentAt(t.sink.Document(), token)
		return false, initial, noError
	case docTypeToken:
		err := noError
		if token.TagName != "html" || token.PublicIdentifier != missing ||
			(token.SystemIdentifier != missing && token.SystemIdentifier != "about:legacy-compat") {
			err = unexpectedDoctypeError
		}
		t.flushText()
		t.sink.AppendDoctypeToDocument(token.TagName,
			doctypeIdentifier(token.PublicIdentifier), doctypeIdentifier(token.SystemIdentifier))
		t.setQuirksMode(quirksModeFromDoctype(token, t.iframeSrcdoc))
		return false, beforeHTML, err
	}
	err := noError
	if !t.iframeSrcdoc {
		err = missingDoctypeError
		t.setQuirksMode(Quirks)
	}
	return true, beforeHTML, err
}

func (t *HTMLTreeConstructor) beforeHTMLModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case docTypeToken:
		return false, beforeHTML, unexpectedDoctypeError
	case commentToken:
		t.insertCommentAt(t.sink.Document(), token)
		return false, beforeHTML, noError
	case characterToken:
		if isWhitespaceCharToken(token) {
			return false, beforeHTML, noError
		}
	case startTagToken:
		if token.TagName == "html" {
			elem := t.createElementForToken(token, NamespaceHTML)
			t.sink.Append(t.sink.Document(), NodeChild(elem))
			t.push(elem)
			return false, beforeHead, noError
		}
	case endTagToken:
		switch token.TagName {
		case "head", "body", "html", "br":
		default:
			return false, beforeHTML, unexpectedEndTagError
		}
	}
	elem := t.createElementForToken(syntheticToken("html"), NamespaceHTML)
	t.sink.Append(t.sink.Document(), NodeChild(elem))
	t.push(elem)
	return true, beforeHead, noError
}

func (t *HTMLTreeConstructor) beforeHeadModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		if isWhitespaceCharToken(token) {
			return false, beforeHead, noError
		}
	case commentToken:
		t.insertComment(token)
		return false, beforeHead, noError
	case docTypeToken:
		return false, beforeHead, unexpectedDoctypeError
	case startTagToken:
		switch token.TagName {
		case "html":
			return t.useRulesFor(token, inBody)
		case "head":
			t.headElementPointer = t.insertHTMLElementForToken(token)
			return false, inHead, noError
		}
	case endTagToken:
		switch token.TagName {
		case "head", "body", "html", "br":
		default:
			return false, beforeHead, unexpectedEndTagError
		}
	}
	t.headElementPointer = t.insertHTMLElementForToken(syntheticToken("head"))
	return true, inHead, noError
}

func (t *HTMLTreeConstructor) inHeadModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		if isWhitespaceCharToken(token) {
			t.insertText(token.Data)
			return false, inHead, noError
		}
	case commentToken:
		t.insertComment(token)
		return false, inHead, noError
	case docTypeToken:
		return false, inHead, unexpectedDoctypeError
	case startTagToken:
		switch atom.Lookup([]byte(token.TagName)) {
		case atom.Html:
			return t.useRulesFor(token, inBody)
		case atom.Base, atom.Basefont, atom.Bgsound, atom.Link, atom.Meta:
			t.insertVoidHTMLElement(token)
			return false, inHead, noError
		case atom.Title:
			return false, t.genericRCDATAParsing(token), noError
		case atom.Noscript:
			if t.scriptingEnabled {
				return false, t.genericRawTextParsing(token), noError
			}
			t.insertHTMLElementForToken(token)
			return false, inHeadNoScript, noError
		case atom.Noframes, atom.Style:
			return false, t.genericRawTextParsing(token), noError
		case atom.Script:
			t.insertHTMLElementForToken(token)
			t.switchTokenizer(scriptDataState)
			t.originalInsertionMode = t.curInsertionMode
			return false, text, noError
		case atom.Template:
			t.insertHTMLElementForToken(token)
			t.insertFormattingMarker()
			t.framesetOK = false
			t.templateInsertionModes = append(t.templateInsertionModes, inTemplate)
			return false, inTemplate, noError
		case atom.Head:
			return false, inHead, unexpectedStartTagError
		}
	case endTagToken:
		switch token.TagName {
		case "head":
			t.pop()
			return false, afterHead, noError
		case "template":
			return t.endTemplateTag(token)
		case "body", "html", "br":
		default:
			return false, inHead, unexpectedEndTagError
		}
	}
	t.pop()
	return true, afterHead, noError
}

func (t *HTMLTreeConstructor) inHeadNoScriptModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case docTypeToken:
		return false, inHeadNoScript, unexpectedDoctypeError
	case characterToken:
		if isWhitespaceCharToken(token) {
			return t.useRulesFor(token, inHead)
		}
	case commentToken:
		return t.useRulesFor(token, inHead)
	case startTagToken:
		switch atom.Lookup([]byte(token.TagName)) {
		case atom.Html:
			return t.useRulesFor(token, inBody)
		case atom.Basefont, atom.Bgsound, atom.Link, atom.Meta, atom.Noframes, atom.Style:
			return t.useRulesFor(token, inHead)
		case atom.Head, atom.Noscript:
			return false, inHeadNoScript, unexpectedStartTagError
		}
	case endTagToken:
		switch token.TagName {
		case "noscript":
			t.pop()
			return false, inHead, noError
		case "br":
		default:
			return false, inHeadNoScript, unexpectedEndTagError
		}
	}
	t.pop()
	return true, inHead, generalParseError
}

func (t *HTMLTreeConstructor) afterHeadModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		if isWhitespaceCharToken(token) {
			t.insertText(token.Data)
			return false, afterHead, noError
		}
	case commentToken:
		t.insertComment(token)
		return false, afterHead, noError
	case docTypeToken:
		return false, afterHead, unexpectedDoctypeError
	case startTagToken:
		switch atom.Lookup([]byte(token.TagName)) {
		case atom.Html:
			return t.useRulesFor(token, inBody)
		case atom.Body:
			t.insertHTMLElementForToken(token)
			t.framesetOK = false
			return false, inBody, noError
		case atom.Frameset:
			t.insertHTMLElementForToken(token)
			return false, inFrameset, noError
		case atom.Base, atom.Basefont, atom.Bgsound, atom.Link, atom.Meta, atom.Noframes,
			atom.Script, atom.Style, atom.Template, atom.Title:
			// the head was already closed; reopen it around the delegate
			t.push(t.headElementPointer)
			reprocess, nextMode, _ := t.useRulesFor(token, inHead)
			t.removeFromStack(t.headElementPointer)
			return reprocess, nextMode, unexpectedStartTagError
		case atom.Head:
			return false, afterHead, unexpectedStartTagError
		}
	case endTagToken:
		switch token.TagName {
		case "template":
			return t.endTemplateTag(token)
		case "body", "html", "br":
		default:
			return false, afterHead, unexpectedEndTagError
		}
	}
	t.insertHTMLElementForToken(syntheticToken("body"))
	return true, inBody, noError
}

func (t *HTMLTreeConstructor) inBodyModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		r := tokenRune(token)
		if r == '\u0000' {
			return false, inBody, unexpectedCharacterError
		}
		t.reconstructActiveFormattingElements()
		t.insertText(token.Data)
		if !isASCIIWhitespace(int(r)) {
			t.framesetOK = false
		}
		return false, inBody, noError
	case commentToken:
		t.insertComment(token)
		return false, inBody, noError
	case docTypeToken:
		return false, inBody, unexpectedDoctypeError
	case endOfFileToken:
		if len(t.templateInsertionModes) > 0 {
			return t.useRulesFor(token, inTemplate)
		}
		err := t.checkDanglingOpenElements()
		t.stopParsing()
		return false, inBody, err
	case startTagToken:
		return t.inBodyStartTag(token)
	case endTagToken:
		return t.inBodyEndTag(token)
	}
	return false, inBody, noError
}

// allowedUnclosed lists the elements that may remain open when </body> or end
// of file arrives without it being a parse error.
var allowedUnclosed = map[string]bool{
	"dd":       true,
	"dt":       true,
	"li":       true,
	"optgroup": true,
	"option":   true,
	"p":        true,
	"rb":       true,
	"rp":       true,
	"rt":       true,
	"rtc":      true,
	"tbody":    true,
	"td":       true,
	"tfoot":    true,
	"th":       true,
	"thead":    true,
	"tr":       true,
	"body":     true,
	"html":     true,
}

func (t *HTMLTreeConstructor) checkDanglingOpenElements() parseError {
	for _, node := range t.openElements {
		name := t.name(node)
		if name.Namespace != NamespaceHTML || !allowedUnclosed[name.Local] {
			return unexpectedEOFError
		}
	}
	return noError
}

func (t *HTMLTreeConstructor) inBodyStartTag(token *Token) (bool, insertionMode, parseError) {
	switch atom.Lookup([]byte(token.TagName)) {
	case atom.Html:
		if t.hasTemplateOnStack() {
			return false, inBody, unexpectedStartTagError
		}
		t.flushText()
		t.sink.AddAttrsIfMissing(t.openElements[0], token.Attributes)
		return false, inBody, unexpectedStartTagError
	case atom.Base, atom.Basefont, atom.Bgsound, atom.Link, atom.Meta, atom.Noframes,
		atom.Script, atom.Style, atom.Template, atom.Title:
		return t.useRulesFor(token, inHead)
	case atom.Body:
		if len(t.openElements) < 2 || !t.isHTMLNamed(t.openElements[1], "body") || t.hasTemplateOnStack() {
			return false, inBody, unexpectedStartTagError
		}
		t.framesetOK = false
		t.flushText()
		t.sink.AddAttrsIfMissing(t.openElements[1], token.Attributes)
		return false, inBody, unexpectedStartTagError
	case atom.Frameset:
		if len(t.openElements) < 2 || !t.isHTMLNamed(t.openElements[1], "body") || !t.framesetOK {
			return false, inBody, unexpectedStartTagError
		}
		t.flushText()
		t.sink.RemoveFromParent(t.openElements[1])
		t.openElements = t.openElements[:1]
		t.insertHTMLElementForToken(token)
		return false, inFrameset, unexpectedStartTagError
	case atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Center, atom.Details,
		atom.Dialog, atom.Dir, atom.Div, atom.Dl, atom.Fieldset, atom.Figcaption, atom.Figure,
		atom.Footer, atom.Header, atom.Hgroup, atom.Main, atom.Menu, atom.Nav, atom.Ol,
		atom.P, atom.Section, atom.Summary, atom.Ul:
		if t.elementInButtonScope("p") {
			t.closePElement()
		}
		t.insertHTMLElementForToken(token)
		return false, inBody, noError
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		if t.elementInButtonScope("p") {
			t.closePElement()
		}
		err := noError
		if t.currentNodeIs("h1", "h2", "h3", "h4", "h5", "h6") {
			err = unexpectedStartTagError
			t.pop()
		}
		t.insertHTMLElementForToken(token)
		return false, inBody, err
	case atom.Pre, atom.Listing:
		if t.elementInButtonScope("p") {
			t.closePElement()
		}
		t.insertHTMLElementForToken(token)
		t.ignoreNextLF = true
		t.framesetOK = false
		return false, inBody, noError
	case atom.Form:
		if t.formElementPointer != nil && !t.hasTemplateOnStack() {
			return false, inBody, unexpectedStartTagError
		}
		if t.elementInButtonScope("p") {
			t.closePElement()
		}
		elem := t.insertHTMLElementForToken(token)
		if !t.hasTemplateOnStack() {
			t.formElementPointer = elem
		}
		return false, inBody, noError
	case atom.Li:
		t.framesetOK = false
		err := noError
		for i := len(t.openElements) - 1; i >= 0; i-- {
			name := t.name(t.openElements[i])
			if name.Namespace == NamespaceHTML && name.Local == "li" {
				t.generateImpliedEndTags("li")
				if !t.currentNodeIs("li") {
					err = unexpectedStartTagError
				}
				t.popUntil("li")
				break
			}
			if isSpecial(name) && !(name.Namespace == NamespaceHTML &&
				(name.Local == "address" || name.Local == "div" || name.Local == "p")) {
				break
			}
		}
		if t.elementInButtonScope("p") {
			t.closePElement()
		}
		t.insertHTMLElementForToken(token)
		return false, inBody, err
	case atom.Dd, atom.Dt:
		t.framesetOK = false
		err := noError
		for i := len(t.openElements) - 1; i >= 0; i-- {
			name := t.name(t.openElements[i])
			if name.Namespace == NamespaceHTML && (name.Local == "dd" || name.Local == "dt") {
				t.generateImpliedEndTags(name.Local)
				if !t.currentNodeIs(name.Local) {
					err = unexpectedStartTagError
				}
				t.popUntil(name.Local)
				break
			}
			if isSpecial(name) && !(name.Namespace == NamespaceHTML &&
				(name.Local == "address" || name.Local == "div" || name.Local == "p")) {
				break
			}
		}
		if t.elementInButtonScope("p") {
			t.closePElement()
		}
		t.insertHTMLElementForToken(token)
		return false, inBody, err
	case atom.Plaintext:
		if t.elementInButtonScope("p") {
			t.closePElement()
		}
		t.insertHTMLElementForToken(token)
		t.switchTokenizer(plaintextState)
		return false, inBody, noError
	case atom.Button:
		err := noError
		if t.elementInScope("button") {
			err = unexpectedStartTagError
			t.generateImpliedEndTags("")
			t.popUntil("button")
		}
		t.reconstructActiveFormattingElements()
		t.insertHTMLElementForToken(token)
		t.framesetOK = false
		return false, inBody, err
	case atom.A:
		err := noError
		for i := len(t.activeFormattingElements) - 1; i >= 0; i-- {
			e := t.activeFormattingElements[i]
			if e.marker {
				break
			}
			if e.token.TagName == "a" {
				err = unexpectedStartTagError
				node := e.node
				t.adoptionAgency(token)
				if idx := t.afeIndexOf(node); idx >= 0 {
					t.activeFormattingElements = append(
						t.activeFormattingElements[:idx], t.activeFormattingElements[idx+1:]...)
				}
				t.removeFromStack(node)
				break
			}
		}
		t.reconstructActiveFormattingElements()
		elem := t.insertHTMLElementForToken(token)
		t.pushActiveFormattingElement(elem, token)
		return false, inBody, err
	case atom.B, atom.Big, atom.Code, atom.Em, atom.Font, atom.I, atom.S, atom.Small,
		atom.Strike, atom.Strong, atom.Tt, atom.U:
		t.reconstructActiveFormattingElements()
		elem := t.insertHTMLElementForToken(token)
		t.pushActiveFormattingElement(elem, token)
		return false, inBody, noError
	case atom.Nobr:
		t.reconstructActiveFormattingElements()
		err := noError
		if t.elementInScope("nobr") {
			err = unexpectedStartTagError
			t.adoptionAgency(token)
			t.reconstructActiveFormattingElements()
		}
		elem := t.insertHTMLElementForToken(token)
		t.pushActiveFormattingElement(elem, token)
		return false, inBody, err
	case atom.Applet, atom.Marquee, atom.Object:
		t.reconstructActiveFormattingElements()
		t.insertHTMLElementForToken(token)
		t.insertFormattingMarker()
		t.framesetOK = false
		return false, inBody, noError
	case atom.Table:
		if t.quirksMode != Quirks && t.elementInButtonScope("p") {
			t.closePElement()
		}
		t.insertHTMLElementForToken(token)
		t.framesetOK = false
		return false, inTable, noError
	case atom.Area, atom.Br, atom.Embed, atom.Img, atom.Keygen, atom.Wbr:
		t.reconstructActiveFormattingElements()
		t.insertVoidHTMLElement(token)
		t.framesetOK = false
		return false, inBody, noError
	case atom.Input:
		t.reconstructActiveFormattingElements()
		t.insertVoidHTMLElement(token)
		if typ, ok := token.attr("type"); !ok || !strings.EqualFold(typ, "hidden") {
			t.framesetOK = false
		}
		return false, inBody, noError
	case atom.Param, atom.Source, atom.Track:
		t.insertVoidHTMLElement(token)
		return false, inBody, noError
	case atom.Hr:
		if t.elementInButtonScope("p") {
			t.closePElement()
		}
		t.insertVoidHTMLElement(token)
		t.framesetOK = false
		return false, inBody, noError
	case atom.Image:
		token.TagName = "img"
		return true, inBody, unexpectedStartTagError
	case atom.Textarea:
		t.insertHTMLElementForToken(token)
		t.ignoreNextLF = true
		t.switchTokenizer(rcDataState)
		t.originalInsertionMode = t.curInsertionMode
		t.framesetOK = false
		return false, text, noError
	case atom.Xmp:
		if t.elementInButtonScope("p") {
			t.closePElement()
		}
		t.reconstructActiveFormattingElements()
		t.framesetOK = false
		return false, t.genericRawTextParsing(token), noError
	case atom.Iframe:
		t.framesetOK = false
		return false, t.genericRawTextParsing(token), noError
	case atom.Noembed:
		return false, t.genericRawTextParsing(token), noError
	case atom.Noscript:
		if t.scriptingEnabled {
			return false, t.genericRawTextParsing(token), noError
		}
		t.reconstructActiveFormattingElements()
		t.insertHTMLElementForToken(token)
		return false, inBody, noError
	case atom.Select:
		t.reconstructActiveFormattingElements()
		t.insertHTMLElementForToken(token)
		t.framesetOK = false
		switch t.curInsertionMode {
		case inTable, inCaption, inTableBody, inRow, inCell:
			return false, inSelectInTable, noError
		}
		return false, inSelect, noError
	case atom.Optgroup, atom.Option:
		if t.currentNodeIs("option") {
			t.pop()
		}
		t.reconstructActiveFormattingElements()
		t.insertHTMLElementForToken(token)
		return false, inBody, noError
	case atom.Rb, atom.Rtc:
		err := noError
		if t.elementInScope("ruby") {
			t.generateImpliedEndTags("")
			if !t.currentNodeIs("ruby") {
				err = unexpectedStartTagError
			}
		}
		t.insertHTMLElementForToken(token)
		return false, inBody, err
	case atom.Rp, atom.Rt:
		err := noError
		if t.elementInScope("ruby") {
			t.generateImpliedEndTags("rtc")
			if !t.currentNodeIs("rtc") && !t.currentNodeIs("ruby") {
				err = unexpectedStartTagError
			}
		}
		t.insertHTMLElementForToken(token)
		return false, inBody, err
	case atom.Math:
		t.reconstructActiveFormattingElements()
		adjustMathMLAttrs(token.Attributes)
		adjustForeignAttrs(token.Attributes)
		t.insertForeignElementForToken(token, NamespaceMathML)
		if token.SelfClosing {
			t.pop()
		}
		return false, inBody, noError
	case atom.Svg:
		t.reconstructActiveFormattingElements()
		adjustSVGAttrs(token.Attributes)
		adjustForeignAttrs(token.Attributes)
		t.insertForeignElementForToken(token, NamespaceSVG)
		if token.SelfClosing {
			t.pop()
		}
		return false, inBody, noError
	case atom.Caption, atom.Col, atom.Colgroup, atom.Frame, atom.Head,
		atom.Tbody, atom.Td, atom.Tfoot, atom.Th, atom.Thead, atom.Tr:
		return false, inBody, unexpectedStartTagError
	}
	t.reconstructActiveFormattingElements()
	t.insertHTMLElementForToken(token)
	return false, inBody, noError
}

func (t *HTMLTreeConstructor) inBodyEndTag(token *Token) (bool, insertionMode, parseError) {
	switch atom.Lookup([]byte(token.TagName)) {
	case atom.Template:
		return t.endTemplateTag(token)
	case atom.Body:
		if !t.elementInScope("body") {
			return false, inBody, unexpectedEndTagError
		}
		return false, afterBody, t.checkDanglingOpenElements()
	case atom.Html:
		if !t.elementInScope("body") {
			return false, inBody, unexpectedEndTagError
		}
		return true, afterBody, t.checkDanglingOpenElements()
	case atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Button, atom.Center,
		atom.Details, atom.Dialog, atom.Dir, atom.Div, atom.Dl, atom.Fieldset, atom.Figcaption,
		atom.Figure, atom.Footer, atom.Header, atom.Hgroup, atom.Listing, atom.Main, atom.Menu,
		atom.Nav, atom.Ol, atom.Pre, atom.Section, atom.Summary, atom.Ul:
		if !t.elementInScope(token.TagName) {
			return false, inBody, unexpectedEndTagError
		}
		t.generateImpliedEndTags("")
		err := noError
		if !t.currentNodeIs(token.TagName) {
			err = unexpectedEndTagError
		}
		t.popUntil(token.TagName)
		return false, inBody, err
	case atom.Form:
		if !t.hasTemplateOnStack() {
			node := t.formElementPointer
			t.formElementPointer = nil
			if node == nil || !t.nodeInScope(node) {
				return false, inBody, unexpectedEndTagError
			}
			t.generateImpliedEndTags("")
			err := noError
			if !t.sameNode(t.currentNode(), node) {
				err = unexpectedEndTagError
			}
			t.flushText()
			t.removeFromStack(node)
			return false, inBody, err
		}
		if !t.elementInScope("form") {
			return false, inBody, unexpectedEndTagError
		}
		t.generateImpliedEndTags("")
		err := noError
		if !t.currentNodeIs("form") {
			err = unexpectedEndTagError
		}
		t.popUntil("form")
		return false, inBody, err
	case atom.P:
		err := noError
		if !t.elementInButtonScope("p") {
			err = unexpectedEndTagError
			t.insertHTMLElementForToken(syntheticToken("p"))
		}
		if e := t.closePElement(); e != noError && err == noError {
			err = e
		}
		return false, inBody, err
	case atom.Li:
		if !t.elementInListItemScope("li") {
			return false, inBody, unexpectedEndTagError
		}
		t.generateImpliedEndTags("li")
		err := noError
		if !t.currentNodeIs("li") {
			err = unexpectedEndTagError
		}
		t.popUntil("li")
		return false, inBody, err
	case atom.Dd, atom.Dt:
		if !t.elementInScope(token.TagName) {
			return false, inBody, unexpectedEndTagError
		}
		t.generateImpliedEndTags(token.TagName)
		err := noError
		if !t.currentNodeIs(token.TagName) {
			err = unexpectedEndTagError
		}
		t.popUntil(token.TagName)
		return false, inBody, err
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		if !t.elementInScope("h1", "h2", "h3", "h4", "h5", "h6") {
			return false, inBody, unexpectedEndTagError
		}
		t.generateImpliedEndTags("")
		err := noError
		if !t.currentNodeIs(token.TagName) {
			err = unexpectedEndTagError
		}
		t.popUntil("h1", "h2", "h3", "h4", "h5", "h6")
		return false, inBody, err
	case atom.A, atom.B, atom.Big, atom.Code, atom.Em, atom.Font, atom.I, atom.Nobr,
		atom.S, atom.Small, atom.Strike, atom.Strong, atom.Tt, atom.U:
		return false, inBody, t.adoptionAgency(token)
	case atom.Applet, atom.Marquee, atom.Object:
		if !t.elementInScope(token.TagName) {
			return false, inBody, unexpectedEndTagError
		}
		t.generateImpliedEndTags("")
		err := noError
		if !t.currentNodeIs(token.TagName) {
			err = unexpectedEndTagError
		}
		t.popUntil(token.TagName)
		t.clearFormattingElementsToLastMarker()
		return false, inBody, err
	case atom.Br:
		t.reconstructActiveFormattingElements()
		t.insertVoidHTMLElement(syntheticToken("br"))
		t.framesetOK = false
		return false, inBody, unexpectedEndTagError
	}
	return false, inBody, t.anyOtherEndTagInBody(token)
}

func (t *HTMLTreeConstructor) anyOtherEndTagInBody(token *Token) parseError {
	for i := len(t.openElements) - 1; i >= 0; i-- {
		node := t.openElements[i]
		name := t.name(node)
		if name.Namespace == NamespaceHTML && name.Local == token.TagName {
			t.generateImpliedEndTags(token.TagName)
			err := noError
			if !t.sameNode(node, t.currentNode()) {
				err = unexpectedEndTagError
			}
			for {
				popped := t.pop()
				if t.sameNode(popped, node) {
					break
				}
			}
			return err
		}
		if isSpecial(name) {
			return unexpectedEndTagError
		}
	}
	return unexpectedEndTagError
}

func (t *HTMLTreeConstructor) textModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		t.insertText(token.Data)
		return false, text, noError
	case endOfFileToken:
		t.pop()
		return true, t.originalInsertionMode, unexpectedEOFError
	case endTagToken:
		t.pop()
		return false, t.originalInsertionMode, noError
	}
	return false, text, noError
}

func (t *HTMLTreeConstructor) inTableModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		if t.currentNodeIs("table", "tbody", "template", "tfoot", "thead", "tr") {
			t.pendingTableText.Reset()
			t.pendingTableTextDirty = false
			t.originalInsertionMode = t.curInsertionMode
			return true, inTableText, noError
		}
	case commentToken:
		t.insertComment(token)
		return false, inTable, noError
	case docTypeToken:
		return false, inTable, unexpectedDoctypeError
	case startTagToken:
		switch atom.Lookup([]byte(token.TagName)) {
		case atom.Caption:
			t.clearStackBackToTableContext()
			t.insertFormattingMarker()
			t.insertHTMLElementForToken(token)
			return false, inCaption, noError
		case atom.Colgroup:
			t.clearStackBackToTableContext()
			t.insertHTMLElementForToken(token)
			return false, inColumnGroup, noError
		case atom.Col:
			t.clearStackBackToTableContext()
			t.insertHTMLElementForToken(syntheticToken("colgroup"))
			return true, inColumnGroup, noError
		case atom.Tbody, atom.Tfoot, atom.Thead:
			t.clearStackBackToTableContext()
			t.insertHTMLElementForToken(token)
			return false, inTableBody, noError
		case atom.Td, atom.Th, atom.Tr:
			t.clearStackBackToTableContext()
			t.insertHTMLElementForToken(syntheticToken("tbody"))
			return true, inTableBody, noError
		case atom.Table:
			if !t.elementInTableScope("table") {
				return false, inTable, unexpectedStartTagError
			}
			t.popUntil("table")
			t.resetInsertionMode()
			return true, t.curInsertionMode, unexpectedStartTagError
		case atom.Style, atom.Script, atom.Template:
			return t.useRulesFor(token, inHead)
		case atom.Input:
			if typ, ok := token.attr("type"); ok && strings.EqualFold(typ, "hidden") {
				t.insertVoidHTMLElement(token)
				return false, inTable, unexpectedStartTagError
			}
		case atom.Form:
			if t.hasTemplateOnStack() || t.formElementPointer != nil {
				return false, inTable, unexpectedStartTagError
			}
			t.formElementPointer = t.insertHTMLElementForToken(token)
			t.pop()
			return false, inTable, unexpectedStartTagError
		}
	case endTagToken:
		switch token.TagName {
		case "table":
			if !t.elementInTableScope("table") {
				return false, inTable, unexpectedEndTagError
			}
			t.popUntil("table")
			t.resetInsertionMode()
			return false, t.curInsertionMode, noError
		case "body", "caption", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr":
			return false, inTable, unexpectedEndTagError
		case "template":
			return t.endTemplateTag(token)
		}
	case endOfFileToken:
		return t.useRulesFor(token, inBody)
	}
	// anything else: process with in body rules, foster parenting enabled
	t.fosterParenting = true
	reprocess, nextMode, _ := t.useRulesFor(token, inBody)
	t.fosterParenting = false
	return reprocess, nextMode, generalParseError
}

func (t *HTMLTreeConstructor) inTableTextModeHandler(token *Token) (bool, insertionMode, parseError) {
	if token.TokenType == characterToken {
		r := tokenRune(token)
		if r == '\u0000' {
			return false, inTableText, unexpectedCharacterError
		}
		if !isASCIIWhitespace(int(r)) {
			t.pendingTableTextDirty = true
		}
		t.pendingTableText.WriteString(token.Data)
		return false, inTableText, noError
	}

	data := t.pendingTableText.String()
	t.pendingTableText.Reset()
	err := noError
	if t.pendingTableTextDirty {
		// non-whitespace inside a table gets fostered out of it
		err = generalParseError
		t.fosterParenting = true
		t.reconstructActiveFormattingElements()
		t.insertText(data)
		t.framesetOK = false
		t.fosterParenting = false
	} else if data != "" {
		t.insertText(data)
	}
	t.pendingTableTextDirty = false
	return true, t.originalInsertionMode, err
}

func (t *HTMLTreeConstructor) inCaptionModeHandler(token *Token) (bool, insertionMode, parseError) {
	closeCaption := func() bool {
		if !t.elementInTableScope("caption") {
			return false
		}
		t.generateImpliedEndTags("")
		t.popUntil("caption")
		t.clearFormattingElementsToLastMarker()
		return true
	}

	switch token.TokenType {
	case startTagToken:
		switch atom.Lookup([]byte(token.TagName)) {
		case atom.Caption, atom.Col, atom.Colgroup, atom.Tbody, atom.Td, atom.Tfoot,
			atom.Th, atom.Thead, atom.Tr:
			if !closeCaption() {
				return false, inCaption, unexpectedStartTagError
			}
			return true, inTable, noError
		}
	case endTagToken:
		switch token.TagName {
		case "caption":
			if !t.elementInTableScope("caption") {
				return false, inCaption, unexpectedEndTagError
			}
			t.generateImpliedEndTags("")
			err := noError
			if !t.currentNodeIs("caption") {
				err = unexpectedEndTagError
			}
			t.popUntil("caption")
			t.clearFormattingElementsToLastMarker()
			return false, inTable, err
		case "table":
			if !closeCaption() {
				return false, inCaption, unexpectedEndTagError
			}
			return true, inTable, noError
		case "body", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr":
			return false, inCaption, unexpectedEndTagError
		}
	}
	return t.useRulesFor(token, inBody)
}

func (t *HTMLTreeConstructor) inColumnGroupModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		if isWhitespaceCharToken(token) {
			t.insertText(token.Data)
			return false, inColumnGroup, noError
		}
	case commentToken:
		t.insertComment(token)
		return false, inColumnGroup, noError
	case docTypeToken:
		return false, inColumnGroup, unexpectedDoctypeError
	case startTagToken:
		switch token.TagName {
		case "html":
			return t.useRulesFor(token, inBody)
		case "col":
			t.insertVoidHTMLElement(token)
			return false, inColumnGroup, noError
		case "template":
			return t.useRulesFor(token, inHead)
		}
	case endTagToken:
		switch token.TagName {
		case "colgroup":
			if !t.currentNodeIs("colgroup") {
				return false, inColumnGroup, unexpectedEndTagError
			}
			t.pop()
			return false, inTable, noError
		case "col":
			return false, inColumnGroup, unexpectedEndTagError
		case "template":
			return t.endTemplateTag(token)
		}
	case endOfFileToken:
		return t.useRulesFor(token, inBody)
	}
	if !t.currentNodeIs("colgroup") {
		return false, inColumnGroup, generalParseError
	}
	t.pop()
	return true, inTable, noError
}

func (t *HTMLTreeConstructor) inTableBodyModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case startTagToken:
		switch atom.Lookup([]byte(token.TagName)) {
		case atom.Tr:
			t.clearStackBackToTableBodyContext()
			t.insertHTMLElementForToken(token)
			return false, inRow, noError
		case atom.Th, atom.Td:
			t.clearStackBackToTableBodyContext()
			t.insertHTMLElementForToken(syntheticToken("tr"))
			return true, inRow, unexpectedStartTagError
		case atom.Caption, atom.Col, atom.Colgroup, atom.Tbody, atom.Tfoot, atom.Thead:
			if !t.elementInTableScope("tbody", "thead", "tfoot") {
				return false, inTableBody, unexpectedStartTagError
			}
			t.clearStackBackToTableBodyContext()
			t.pop()
			return true, inTable, noError
		}
	case endTagToken:
		switch token.TagName {
		case "tbody", "tfoot", "thead":
			if !t.elementInTableScope(token.TagName) {
				return false, inTableBody, unexpectedEndTagError
			}
			t.clearStackBackToTableBodyContext()
			t.pop()
			return false, inTable, noError
		case "table":
			if !t.elementInTableScope("tbody", "thead", "tfoot") {
				return false, inTableBody, unexpectedEndTagError
			}
			t.clearStackBackToTableBodyContext()
			t.pop()
			return true, inTable, noError
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			return false, inTableBody, unexpectedEndTagError
		}
	}
	return t.useRulesFor(token, inTable)
}

func (t *HTMLTreeConstructor) inRowModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case startTagToken:
		switch atom.Lookup([]byte(token.TagName)) {
		case atom.Th, atom.Td:
			t.clearStackBackToTableRowContext()
			t.insertHTMLElementForToken(token)
			t.insertFormattingMarker()
			return false, inCell, noError
		case atom.Caption, atom.Col, atom.Colgroup, atom.Tbody, atom.Tfoot, atom.Thead, atom.Tr:
			if !t.elementInTableScope("tr") {
				return false, inRow, unexpectedStartTagError
			}
			t.clearStackBackToTableRowContext()
			t.pop()
			return true, inTableBody, noError
		}
	case endTagToken:
		switch token.TagName {
		case "tr":
			if !t.elementInTableScope("tr") {
				return false, inRow, unexpectedEndTagError
			}
			t.clearStackBackToTableRowContext()
			t.pop()
			return false, inTableBody, noError
		case "table":
			if !t.elementInTableScope("tr") {
				return false, inRow, unexpectedEndTagError
			}
			t.clearStackBackToTableRowContext()
			t.pop()
			return true, inTableBody, noError
		case "tbody", "tfoot", "thead":
			if !t.elementInTableScope(token.TagName) {
				return false, inRow, unexpectedEndTagError
			}
			if !t.elementInTableScope("tr") {
				return false, inRow, unexpectedEndTagError
			}
			t.clearStackBackToTableRowContext()
			t.pop()
			return true, inTableBody, noError
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			return false, inRow, unexpectedEndTagError
		}
	}
	return t.useRulesFor(token, inTable)
}

func (t *HTMLTreeConstructor) closeCell() {
	t.generateImpliedEndTags("")
	t.popUntil("td", "th")
	t.clearFormattingElementsToLastMarker()
}

func (t *HTMLTreeConstructor) inCellModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case startTagToken:
		switch atom.Lookup([]byte(token.TagName)) {
		case atom.Caption, atom.Col, atom.Colgroup, atom.Tbody, atom.Td, atom.Tfoot,
			atom.Th, atom.Thead, atom.Tr:
			if !t.elementInTableScope("td", "th") {
				return false, inCell, unexpectedStartTagError
			}
			t.closeCell()
			return true, inRow, noError
		}
	case endTagToken:
		switch token.TagName {
		case "td", "th":
			if !t.elementInTableScope(token.TagName) {
				return false, inCell, unexpectedEndTagError
			}
			t.generateImpliedEndTags("")
			err := noError
			if !t.currentNodeIs(token.TagName) {
				err = unexpectedEndTagError
			}
			t.popUntil(token.TagName)
			t.clearFormattingElementsToLastMarker()
			return false, inRow, err
		case "body", "caption", "col", "colgroup", "html":
			return false, inCell, unexpectedEndTagError
		case "table", "tbody", "tfoot", "thead", "tr":
			if !t.elementInTableScope(token.TagName) {
				return false, inCell, unexpectedEndTagError
			}
			t.closeCell()
			return true, inRow, noError
		}
	}
	return t.useRulesFor(token, inBody)
}

func (t *HTMLTreeConstructor) inSelectModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		if tokenRune(token) == '\u0000' {
			return false, inSelect, unexpectedCharacterError
		}
		t.insertText(token.Data)
		return false, inSelect, noError
	case commentToken:
		t.insertComment(token)
		return false, inSelect, noError
	case docTypeToken:
		return false, inSelect, unexpectedDoctypeError
	case startTagToken:
		switch atom.Lookup([]byte(token.TagName)) {
		case atom.Html:
			return t.useRulesFor(token, inBody)
		case atom.Option:
			if t.currentNodeIs("option") {
				t.pop()
			}
			t.insertHTMLElementForToken(token)
			return false, inSelect, noError
		case atom.Optgroup:
			if t.currentNodeIs("option") {
				t.pop()
			}
			if t.currentNodeIs("optgroup") {
				t.pop()
			}
			t.insertHTMLElementForToken(token)
			return false, inSelect, noError
		case atom.Hr:
			if t.currentNodeIs("option") {
				t.pop()
			}
			if t.currentNodeIs("optgroup") {
				t.pop()
			}
			t.insertVoidHTMLElement(token)
			return false, inSelect, noError
		case atom.Select:
			if !t.elementInSelectScope("select") {
				return false, inSelect, unexpectedStartTagError
			}
			t.popUntil("select")
			t.resetInsertionMode()
			return false, t.curInsertionMode, unexpectedStartTagError
		case atom.Input, atom.Keygen, atom.Textarea:
			if !t.elementInSelectScope("select") {
				return false, inSelect, unexpectedStartTagError
			}
			t.popUntil("select")
			t.resetInsertionMode()
			return true, t.curInsertionMode, unexpectedStartTagError
		case atom.Script, atom.Template:
			return t.useRulesFor(token, inHead)
		}
	case endTagToken:
		switch token.TagName {
		case "optgroup":
			if t.currentNodeIs("option") && len(t.openElements) > 1 &&
				t.isHTMLNamed(t.openElements[len(t.openElements)-2], "optgroup") {
				t.pop()
			}
			if !t.currentNodeIs("optgroup") {
				return false, inSelect, unexpectedEndTagError
			}
			t.pop()
			return false, inSelect, noError
		case "option":
			if !t.currentNodeIs("option") {
				return false, inSelect, unexpectedEndTagError
			}
			t.pop()
			return false, inSelect, noError
		case "select":
			if !t.elementInSelectScope("select") {
				return false, inSelect, unexpectedEndTagError
			}
			t.popUntil("select")
			t.resetInsertionMode()
			return false, t.curInsertionMode, noError
		case "template":
			return t.endTemplateTag(token)
		}
	case endOfFileToken:
		return t.useRulesFor(token, inBody)
	}
	return false, inSelect, generalParseError
}

func (t *HTMLTreeConstructor) inSelectInTableModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case startTagToken:
		switch atom.Lookup([]byte(token.TagName)) {
		case atom.Caption, atom.Table, atom.Tbody, atom.Tfoot, atom.Thead, atom.Tr, atom.Td, atom.Th:
			t.popUntil("select")
			t.resetInsertionMode()
			return true, t.curInsertionMode, unexpectedStartTagError
		}
	case endTagToken:
		switch token.TagName {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			if !t.elementInTableScope(token.TagName) {
				return false, inSelectInTable, unexpectedEndTagError
			}
			t.popUntil("select")
			t.resetInsertionMode()
			return true, t.curInsertionMode, unexpectedEndTagError
		}
	}
	return t.useRulesFor(token, inSelect)
}

func (t *HTMLTreeConstructor) switchTemplateMode(mode insertionMode) {
	if n := len(t.templateInsertionModes); n > 0 {
		t.templateInsertionModes = t.templateInsertionModes[:n-1]
	}
	t.templateInsertionModes = append(t.templateInsertionModes, mode)
}

func (t *HTMLTreeConstructor) inTemplateModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken, commentToken, docTypeToken:
		return t.useRulesFor(token, inBody)
	case startTagToken:
		switch atom.Lookup([]byte(token.TagName)) {
		case atom.Base, atom.Basefont, atom.Bgsound, atom.Link, atom.Meta, atom.Noframes,
			atom.Script, atom.Style, atom.Template, atom.Title:
			return t.useRulesFor(token, inHead)
		case atom.Caption, atom.Colgroup, atom.Tbody, atom.Tfoot, atom.Thead:
			t.switchTemplateMode(inTable)
			return true, inTable, noError
		case atom.Col:
			t.switchTemplateMode(inColumnGroup)
			return true, inColumnGroup, noError
		case atom.Tr:
			t.switchTemplateMode(inTableBody)
			return true, inTableBody, noError
		case atom.Td, atom.Th:
			t.switchTemplateMode(inRow)
			return true, inRow, noError
		}
		t.switchTemplateMode(inBody)
		return true, inBody, noError
	case endTagToken:
		if token.TagName == "template" {
			return t.endTemplateTag(token)
		}
		return false, inTemplate, unexpectedEndTagError
	case endOfFileToken:
		if !t.hasTemplateOnStack() {
			t.stopParsing()
			return false, inTemplate, noError
		}
		t.popUntil("template")
		t.clearFormattingElementsToLastMarker()
		if n := len(t.templateInsertionModes); n > 0 {
			t.templateInsertionModes = t.templateInsertionModes[:n-1]
		}
		t.resetInsertionMode()
		return true, t.curInsertionMode, unexpectedEOFError
	}
	return false, inTemplate, noError
}

func (t *HTMLTreeConstructor) afterBodyModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		if isWhitespaceCharToken(token) {
			return t.useRulesFor(token, inBody)
		}
	case commentToken:
		// comments after </body> attach to the html element
		t.insertCommentAt(t.openElements[0], token)
		return false, afterBody, noError
	case docTypeToken:
		return false, afterBody, unexpectedDoctypeError
	case startTagToken:
		if token.TagName == "html" {
			return t.useRulesFor(token, inBody)
		}
	case endTagToken:
		if token.TagName == "html" {
			if t.fragment {
				return false, afterBody, unexpectedEndTagError
			}
			return false, afterAfterBody, noError
		}
	case endOfFileToken:
		t.stopParsing()
		return false, afterBody, noError
	}
	return true, inBody, generalParseError
}

func (t *HTMLTreeConstructor) inFramesetModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		if isWhitespaceCharToken(token) {
			t.insertText(token.Data)
			return false, inFrameset, noError
		}
	case commentToken:
		t.insertComment(token)
		return false, inFrameset, noError
	case docTypeToken:
		return false, inFrameset, unexpectedDoctypeError
	case startTagToken:
		switch token.TagName {
		case "html":
			return t.useRulesFor(token, inBody)
		case "frameset":
			t.insertHTMLElementForToken(token)
			return false, inFrameset, noError
		case "frame":
			t.insertVoidHTMLElement(token)
			return false, inFrameset, noError
		case "noframes":
			return t.useRulesFor(token, inHead)
		}
	case endTagToken:
		if token.TagName == "frameset" {
			if t.currentNodeIs("html") {
				return false, inFrameset, unexpectedEndTagError
			}
			t.pop()
			if !t.fragment && !t.currentNodeIs("frameset") {
				return false, afterFrameset, noError
			}
			return false, inFrameset, noError
		}
	case endOfFileToken:
		err := noError
		if !t.currentNodeIs("html") {
			err = unexpectedEOFError
		}
		t.stopParsing()
		return false, inFrameset, err
	}
	return false, inFrameset, generalParseError
}

func (t *HTMLTreeConstructor) afterFramesetModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case characterToken:
		if isWhitespaceCharToken(token) {
			t.insertText(token.Data)
			return false, afterFrameset, noError
		}
	case commentToken:
		t.insertComment(token)
		return false, afterFrameset, noError
	case docTypeToken:
		return false, afterFrameset, unexpectedDoctypeError
	case startTagToken:
		switch token.TagName {
		case "html":
			return t.useRulesFor(token, inBody)
		case "noframes":
			return t.useRulesFor(token, inHead)
		}
	case endTagToken:
		if token.TagName == "html" {
			return false, afterAfterFrameset, noError
		}
	case endOfFileToken:
		t.stopParsing()
		return false, afterFrameset, noError
	}
	return false, afterFrameset, generalParseError
}

func (t *HTMLTreeConstructor) afterAfterBodyModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case commentToken:
		t.insertCommentAt(t.sink.Document(), token)
		return false, afterAfterBody, noError
	case docTypeToken:
		return t.useRulesFor(token, inBody)
	case characterToken:
		if isWhitespaceCharToken(token) {
			return t.useRulesFor(token, inBody)
		}
	case startTagToken:
		if token.TagName == "html" {
			return t.useRulesFor(token, inBody)
		}
	case endOfFileToken:
		t.stopParsing()
		return false, afterAfterBody, noError
	}
	return true, inBody, generalParseError
}

func (t *HTMLTreeConstructor) afterAfterFramesetModeHandler(token *Token) (bool, insertionMode, parseError) {
	switch token.TokenType {
	case commentToken:
		t.insertCommentAt(t.sink.Document(), token)
		return false, afterAfterFrameset, noError
	case docTypeToken:
		return t.useRulesFor(token, inBody)
	case characterToken:
		if isWhitespaceCharToken(token) {
			return t.useRulesFor(token, inBody)
		}
	case startTagToken:
		switch token.TagName {
		case "html":
			return t.useRulesFor(token, inBody)
		case "noframes":
			return t.useRulesFor(token, inHead)
		}
	case endOfFileToken:
		t.stopParsing()
		return false, afterAfterFrameset, noError
	}
	return false, afterAfterFrameset, generalParseError
}

// isSpecial reports membership in the special element category, which blocks
// implicit end-tag matching and bounds the adoption agency algorithm.
func isSpecial(name QualName) bool {
	switch name.Namespace {
	case NamespaceHTML:
		switch atom.Lookup([]byte(name.Local)) {
		case atom.Address, atom.Applet, atom.Area, atom.Article, atom.Aside, atom.Base,
			atom.Basefont, atom.Bgsound, atom.Blockquote, atom.Body, atom.Br, atom.Button,
			atom.Caption, atom.Center, atom.Col, atom.Colgroup, atom.Dd, atom.Details,
			atom.Dir, atom.Div, atom.Dl, atom.Dt, atom.Embed, atom.Fieldset, atom.Figcaption,
			atom.Figure, atom.Footer, atom.Form, atom.Frame, atom.Frameset, atom.H1, atom.H2,
			atom.H3, atom.H4, atom.H5, atom.H6, atom.Head, atom.Header, atom.Hgroup, atom.Hr,
			atom.Html, atom.Iframe, atom.Img, atom.Input, atom.Keygen, atom.Li, atom.Link,
			atom.Listing, atom.Main, atom.Marquee, atom.Menu, atom.Meta, atom.Nav, atom.Noembed,
			atom.Noframes, atom.Noscript, atom.Object, atom.Ol, atom.P, atom.Param, atom.Plaintext,
			atom.Pre, atom.Script, atom.Section, atom.Select, atom.Source, atom.Style, atom.Summary,
			atom.Table, atom.Tbody, atom.Td, atom.Template, atom.Textarea, atom.Tfoot, atom.Th,
			atom.Thead, atom.Title, atom.Tr, atom.Track, atom.Ul, atom.Wbr, atom.Xmp:
			return true
		}
	case NamespaceMathML:
		switch name.Local {
		case "mi", "mo", "mn", "ms", "mtext", "annotation-xml":
			return true
		}
	case NamespaceSVG:
		switch name.Local {
		case "foreignObject", "desc", "title":
			return true
		}
	}
	return false
}

// adoptionAgency runs the adoption agency algorithm for a formatting end tag.
func (t *HTMLTreeConstructor) adoptionAgency(token *Token) parseError {
	subject := token.TagName

	if current := t.currentNode(); current != nil &&
		t.isHTMLNamed(current, subject) && t.afeIndexOf(current) < 0 {
		t.pop()
		return noError
	}

	err := noError
	for outer := 0; outer < 8; outer++ {
		feIndex := -1
		for i := len(t.activeFormattingElements) - 1; i >= 0; i-- {
			e := t.activeFormattingElements[i]
			if e.marker {
				break
			}
			if e.token.TagName == subject {
				feIndex = i
				break
			}
		}
		if feIndex < 0 {
			if e := t.anyOtherEndTagInBody(token); err == noError {
				err = e
			}
			return err
		}
		fe := t.activeFormattingElements[feIndex].node
		feToken := t.activeFormattingElements[feIndex].token

		feStackIndex := t.stackIndexOf(fe)
		if feStackIndex < 0 {
			t.activeFormattingElements = append(
				t.activeFormattingElements[:feIndex], t.activeFormattingElements[feIndex+1:]...)
			return unexpectedEndTagError
		}
		if !t.nodeInScope(fe) {
			return unexpectedEndTagError
		}
		if !t.sameNode(fe, t.currentNode()) {
			err = unexpectedEndTagError
		}

		fbIndex := -1
		for i := feStackIndex + 1; i < len(t.openElements); i++ {
			if isSpecial(t.name(t.openElements[i])) {
				fbIndex = i
				break
			}
		}
		if fbIndex < 0 {
			// nothing special below: close out the formatting element
			for len(t.openElements) > feStackIndex {
				t.pop()
			}
			t.activeFormattingElements = append(
				t.activeFormattingElements[:feIndex], t.activeFormattingElements[feIndex+1:]...)
			return err
		}

		furthestBlock := t.openElements[fbIndex]
		commonAncestor := t.openElements[feStackIndex-1]
		bookmark := feIndex

		t.flushText()

		lastNode := furthestBlock
		nodeIndex := fbIndex
		for inner := 1; ; inner++ {
			nodeIndex--
			node := t.openElements[nodeIndex]
			if t.sameNode(node, fe) {
				break
			}
			nodeAFEIndex := t.afeIndexOf(node)
			if inner > 3 && nodeAFEIndex >= 0 {
				t.activeFormattingElements = append(
					t.activeFormattingElements[:nodeAFEIndex], t.activeFormattingElements[nodeAFEIndex+1:]...)
				if nodeAFEIndex < bookmark {
					bookmark--
				}
				nodeAFEIndex = -1
			}
			if nodeAFEIndex < 0 {
				t.openElements = append(t.openElements[:nodeIndex], t.openElements[nodeIndex+1:]...)
				continue
			}
			entryToken := t.activeFormattingElements[nodeAFEIndex].token
			newNode := t.createElementForToken(entryToken, NamespaceHTML)
			t.activeFormattingElements[nodeAFEIndex].node = newNode
			t.openElements[nodeIndex] = newNode
			node = newNode
			if t.sameNode(lastNode, furthestBlock) {
				bookmark = nodeAFEIndex + 1
			}
			t.sink.RemoveFromParent(lastNode)
			t.sink.Append(node, NodeChild(lastNode))
			lastNode = node
		}

		t.sink.RemoveFromParent(lastNode)
		t.insertAt(t.appropriatePlace(commonAncestor), NodeChild(lastNode))

		newElement := t.createElementForToken(feToken, NamespaceHTML)
		t.sink.ReparentChildren(furthestBlock, newElement)
		t.sink.Append(furthestBlock, NodeChild(newElement))

		if i := t.afeIndexOf(fe); i >= 0 {
			t.activeFormattingElements = append(
				t.activeFormattingElements[:i], t.activeFormattingElements[i+1:]...)
			if i < bookmark {
				bookmark--
			}
		}
		if bookmark > len(t.activeFormattingElements) {
			bookmark = len(t.activeFormattingElements)
		}
		t.activeFormattingElements = append(t.activeFormattingElements, formattingElement{})
		copy(t.activeFormattingElements[bookmark+1:], t.activeFormattingElements[bookmark:])
		t.activeFormattingElements[bookmark] = formattingElement{node: newElement, token: feToken}

		t.removeFromStack(fe)
		fbIndex = t.stackIndexOf(furthestBlock)
		t.openElements = append(t.openElements, nil)
		copy(t.openElements[fbIndex+2:], t.openElements[fbIndex+1:])
		t.openElements[fbIndex+1] = newElement
	}
	return err
}

// useForeignContentRules decides whether the token is handled by the foreign
// content rules instead of the current insertion mode.
func (t *HTMLTreeConstructor) useForeignContentRules(token *Token) bool {
	name, node, ok := t.adjustedCurrentName()
	if !ok || name.Namespace == NamespaceHTML || name.Namespace == "" {
		return false
	}
	if token.TokenType == endOfFileToken {
		return false
	}
	if name.Namespace == NamespaceMathML && mathMLTextIntegrationPoints[name.Local] {
		switch token.TokenType {
		case characterToken:
			return false
		case startTagToken:
			if token.TagName != "mglyph" && token.TagName != "malignmark" {
				return false
			}
		}
	}
	if name.Namespace == NamespaceMathML && name.Local == "annotation-xml" &&
		token.TokenType == startTagToken && token.TagName == "svg" {
		return false
	}
	htmlIntegration := name.Namespace == NamespaceSVG && svgHTMLIntegrationPoints[name.Local]
	if !htmlIntegration && name.Namespace == NamespaceMathML && name.Local == "annotation-xml" &&
		node != nil && t.sink.IsMathMLAnnotationXMLIntegrationPoint(node) {
		htmlIntegration = true
	}
	if htmlIntegration && (token.TokenType == startTagToken || token.TokenType == characterToken) {
		return false
	}
	return true
}

func (t *HTMLTreeConstructor) foreignContentHandler(token *Token) (bool, insertionMode, parseError) {
	mode := t.curInsertionMode
	switch token.TokenType {
	case characterToken:
		r := tokenRune(token)
		if r == '\u0000' {
			t.insertText("\uFFFD")
			return false, mode, unexpectedCharacterError
		}
		t.insertText(token.Data)
		if !isASCIIWhitespace(int(r)) {
			t.framesetOK = false
		}
		return false, mode, noError
	case commentToken:
		t.insertComment(token)
		return false, mode, noError
	case docTypeToken:
		return false, mode, unexpectedDoctypeError
	case startTagToken:
		if isBreakoutTag(token) {
			// unwind to the nearest integration point or HTML element, then
			// let the regular dispatcher have the token
			for len(t.openElements) > 0 {
				name := t.name(t.currentNode())
				if name.Namespace == NamespaceHTML {
					break
				}
				if name.Namespace == NamespaceMathML && mathMLTextIntegrationPoints[name.Local] {
					break
				}
				if name.Namespace == NamespaceSVG && svgHTMLIntegrationPoints[name.Local] {
					break
				}
				if name.Namespace == NamespaceMathML && name.Local == "annotation-xml" &&
					t.sink.IsMathMLAnnotationXMLIntegrationPoint(t.currentNode()) {
					break
				}
				t.pop()
			}
			return true, mode, unexpectedStartTagError
		}
		ns := NamespaceHTML
		if name, _, ok := t.adjustedCurrentName(); ok {
			ns = name.Namespace
		}
		switch ns {
		case NamespaceMathML:
			adjustMathMLAttrs(token.Attributes)
		case NamespaceSVG:
			token.TagName = adjustSVGTagName(token.TagName)
			adjustSVGAttrs(token.Attributes)
		}
		adjustForeignAttrs(token.Attributes)
		t.insertForeignElementForToken(token, ns)
		if token.SelfClosing {
			t.pop()
		}
		return false, mode, noError
	case endTagToken:
		name := t.name(t.currentNode())
		if token.TagName == "script" && name.Namespace == NamespaceSVG && name.Local == "script" {
			t.pop()
			return false, mode, noError
		}
		err := noError
		if strings.ToLower(name.Local) != token.TagName {
			err = unexpectedEndTagError
		}
		i := len(t.openElements) - 1
		for {
			if i == 0 {
				return false, mode, err
			}
			if strings.ToLower(t.name(t.openElements[i]).Local) == token.TagName {
				target := t.openElements[i]
				for {
					if t.sameNode(t.pop(), target) {
						break
					}
				}
				return false, mode, err
			}
			i--
			if t.name(t.openElements[i]).Namespace == NamespaceHTML {
				reprocess, nextMode, err2 := t.mappings[t.curInsertionMode](token)
				if err == noError {
					err = err2
				}
				return reprocess, nextMode, err
			}
		}
	}
	return false, mode, noError
}

// Progress carries tree-construction feedback to the tokenizer: a state
// switch after tags like <script> or <title>, and whether CDATA sections are
// currently allowed.
type Progress struct {
	TokenizerState *tokenizerState
	AllowCDATA     bool
}

func (t *HTMLTreeConstructor) progress() Progress {
	p := Progress{AllowCDATA: t.shouldAllowCDATA()}
	if t.pendingTokenizerState != nil {
		p.TokenizerState = t.pendingTokenizerState
		t.pendingTokenizerState = nil
	}
	return p
}

// Stopped reports whether a stop-parsing step has run.
func (t *HTMLTreeConstructor) Stopped() bool {
	return t.stopped
}

// ProcessToken runs one token through the dispatcher, reprocessing while
// handlers ask for it, and reports back how the tokenizer should continue.
func (t *HTMLTreeConstructor) ProcessToken(token *Token) Progress {
	if t.ignoreNextLF {
		// a pre, listing or textarea start tag swallows one following newline
		t.ignoreNextLF = false
		if token.TokenType == characterToken && token.Data == "\n" {
			return t.progress()
		}
	}
	reprocess := true
	for reprocess && !t.stopped {
		var nextMode insertionMode
		var err parseError
		if t.useForeignContentRules(token) {
			reprocess, nextMode, err = t.foreignContentHandler(token)
		} else {
			reprocess, nextMode, err = t.mappings[t.curInsertionMode](token)
		}
		t.logError(err, token)
		t.curInsertionMode = nextMode
	}
	return t.progress()
}

type parseError uint

const (
	noError parseError = iota
	generalParseError
	missingDoctypeError
	unexpectedDoctypeError
	unexpectedStartTagError
	unexpectedEndTagError
	unexpectedCharacterError
	unexpectedEOFError
)

func (e parseError) String() string {
	switch e {
	case noError:
		return "no error"
	case missingDoctypeError:
		return "missing doctype"
	case unexpectedDoctypeError:
		return "unexpected doctype"
	case unexpectedStartTagError:
		return "unexpected start tag"
	case unexpectedEndTagError:
		return "unexpected end tag"
	case unexpectedCharacterError:
		return "unexpected character"
	case unexpectedEOFError:
		return "unexpected end of file"
	}
	return "parse error"
}

//go:generate stringer -type=insertionMode

type insertionMode uint

const (
	initial insertionMode = iota
	beforeHTML
	beforeHead
	inHead
	inHeadNoScript
	afterHead
	inBody
	text
	inTable
	inTableText
	inCaption
	inColumnGroup
	inTableBody
	inRow
	inCell
	inSelect
	inSelectInTable
	inTemplate
	afterBody
	inFrameset
	afterFrameset
	afterAfterBody
	afterAfterFrameset
)
