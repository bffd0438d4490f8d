package treesink

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heathj/treesink/internal/arena"
)

// hostNode is the node type of the recording host. Kinds: document, element,
// text, comment and the content fragment of a template element.
type hostNode struct {
	kind     string
	name     QualName
	attrs    []Attribute
	data     string
	meta     *ElementMeta
	parent   *hostNode
	children []*hostNode
	content  *hostNode
}

func (n *hostNode) label() string {
	switch n.kind {
	case "document":
		return "#document"
	case "comment":
		return "#comment"
	case "content":
		return "content"
	}
	return n.name.Local
}

// text concatenates the node's text children.
func (n *hostNode) text() string {
	var b strings.Builder
	for _, c := range n.children {
		if c.kind == "text" {
			b.WriteString(c.data)
		}
	}
	return b.String()
}

func (n *hostNode) appendChild(c *hostNode) {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

func (n *hostNode) removeChild(c *hostNode) {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

type doctypeInfo struct {
	name, publicID, systemID string
}

// recordingHost implements the callback surface over an owned node tree. It
// logs every callback as an event line and flags any handle it is given that
// it never handed out, which is how the identity contract is checked.
type recordingHost struct {
	document   *hostNode
	known      map[*hostNode]bool
	events     []string
	errors     []string
	doctypes   []doctypeInfo
	pops       []*hostNode
	violations []string
	finished   int
}

func newRecordingHost() *recordingHost {
	doc := &hostNode{kind: "document"}
	return &recordingHost{
		document: doc,
		known:    map[*hostNode]bool{doc: true},
	}
}

func (h *recordingHost) callbacks() *Callbacks {
	return &Callbacks{
		CreateElement:           h.createElement,
		CreateComment:           h.createComment,
		Append:                  h.append,
		AppendDoctypeToDocument: h.appendDoctype,
		Pop:                     h.pop,
		Meta:                    h.meta,
		TemplateContents:        h.templateContents,
		AddAttrsIfMissing:       h.addAttrsIfMissing,
		RemoveFromParent:        h.removeFromParent,
		ReparentChildren:        h.reparentChildren,
		ParseError:              h.parseError,
		Finish:                  h.finish,
	}
}

func (h *recordingHost) record(format string, args ...interface{}) {
	h.events = append(h.events, fmt.Sprintf(format, args...))
}

// check casts a handle back to the host node type and flags handles the host
// never created.
func (h *recordingHost) check(op string, ref NodeRef) *hostNode {
	n := ref.(*hostNode)
	if !h.known[n] {
		h.violations = append(h.violations, fmt.Sprintf("%s received unknown handle %p", op, n))
	}
	return n
}

func (h *recordingHost) adopt(n *hostNode) *hostNode {
	h.known[n] = true
	return n
}

func (h *recordingHost) createElement(meta *ElementMeta, name QualName, attrs *AttrIter) NodeRef {
	n := &hostNode{kind: "element", name: name, meta: meta}
	for a, ok := attrs.Next(); ok; a, ok = attrs.Next() {
		n.attrs = append(n.attrs, a)
	}
	if name.Namespace == NamespaceHTML && name.Local == "template" {
		n.content = h.adopt(&hostNode{kind: "content"})
	}
	h.record("create %s", n.label())
	return h.adopt(n)
}

func (h *recordingHost) createComment(text string) NodeRef {
	h.record("comment %q", text)
	return h.adopt(&hostNode{kind: "comment", data: text})
}

func (h *recordingHost) append(parent NodeRef, child NodeOrText) {
	p := h.check("Append", parent)
	if child.IsNode() {
		c := h.check("Append", child.Node)
		h.record("append %s %s", p.label(), c.label())
		p.appendChild(c)
		return
	}
	h.record("text %s %q", p.label(), child.Text)
	if last := len(p.children) - 1; last >= 0 && p.children[last].kind == "text" {
		p.children[last].data += child.Text
		return
	}
	p.appendChild(&hostNode{kind: "text", data: child.Text})
}

func (h *recordingHost) appendDoctype(name, publicID, systemID string) {
	h.record("doctype %s", name)
	h.doctypes = append(h.doctypes, doctypeInfo{name, publicID, systemID})
}

func (h *recordingHost) pop(n NodeRef) {
	node := h.check("Pop", n)
	h.record("pop %s", node.label())
	h.pops = append(h.pops, node)
}

func (h *recordingHost) meta(n NodeRef) *ElementMeta {
	return h.check("Meta", n).meta
}

func (h *recordingHost) templateContents(n NodeRef) NodeRef {
	return h.check("TemplateContents", n).content
}

func (h *recordingHost) addAttrsIfMissing(target NodeRef, attrs *AttrIter) {
	n := h.check("AddAttrsIfMissing", target)
	h.record("add-attrs %s", n.label())
	for a, ok := attrs.Next(); ok; a, ok = attrs.Next() {
		present := false
		for _, have := range n.attrs {
			if have.Name == a.Name {
				present = true
				break
			}
		}
		if !present {
			n.attrs = append(n.attrs, a)
		}
	}
}

func (h *recordingHost) removeFromParent(target NodeRef) {
	n := h.check("RemoveFromParent", target)
	h.record("remove %s", n.label())
	if n.parent != nil {
		n.parent.removeChild(n)
	}
}

func (h *recordingHost) reparentChildren(node, newParent NodeRef) {
	from := h.check("ReparentChildren", node)
	to := h.check("ReparentChildren", newParent)
	h.record("reparent %s %s", from.label(), to.label())
	for _, c := range from.children {
		c.parent = to
	}
	to.children = append(to.children, from.children...)
	from.children = nil
}

func (h *recordingHost) parseError(msg string) {
	h.errors = append(h.errors, msg)
}

func (h *recordingHost) finish() {
	h.finished++
}

// find returns the first element named local in document order, descending
// into template content fragments, or nil.
func (h *recordingHost) find(local string) *hostNode {
	return findIn(h.document, local)
}

func findIn(n *hostNode, local string) *hostNode {
	if n.kind == "element" && n.name.Local == local {
		return n
	}
	if n.content != nil {
		if m := findIn(n.content, local); m != nil {
			return m
		}
	}
	for _, c := range n.children {
		if m := findIn(c, local); m != nil {
			return m
		}
	}
	return nil
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestParseDocumentBuildsTree(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	err := ParseDocument([]byte(`<!DOCTYPE html><p class="a">hi</p>`), h.document, h.callbacks())
	require.NoError(t, err)

	require.Equal(t, []doctypeInfo{{"html", "", ""}}, h.doctypes)
	assert.Empty(t, h.errors)
	assert.Empty(t, h.violations)
	assert.Equal(t, 1, h.finished)

	require.Len(t, h.document.children, 1)
	html := h.document.children[0]
	assert.Equal(t, "html", html.name.Local)
	assert.Equal(t, NamespaceHTML, html.name.Namespace)

	require.Len(t, html.children, 2)
	assert.Equal(t, "head", html.children[0].name.Local)
	body := html.children[1]
	assert.Equal(t, "body", body.name.Local)

	p := h.find("p")
	require.NotNil(t, p)
	assert.Same(t, body, p.parent)
	require.Len(t, p.attrs, 1)
	assert.Equal(t, "class", p.attrs[0].Name.Local)
	assert.Equal(t, "a", p.attrs[0].Value)
	assert.Equal(t, "hi", p.text())
}

func TestHandleIdentityRoundTrip(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	err := ParseDocument([]byte("<!DOCTYPE html><b><i>x</i></b>"), h.document, h.callbacks())
	require.NoError(t, err)
	assert.Empty(t, h.violations, "engine passed back a handle the host never created")

	// Closing </i> and </b> must pop the exact nodes the host handed out.
	i, b := h.find("i"), h.find("b")
	require.NotNil(t, i)
	require.NotNil(t, b)
	require.Len(t, h.pops, 3)
	assert.Same(t, h.find("head"), h.pops[0])
	assert.Same(t, i, h.pops[1])
	assert.Same(t, b, h.pops[2])
}

func TestMetaPointersStableAcrossGrowth(t *testing.T) {
	t.Parallel()

	// Enough elements to push the metadata arena past its first chunk.
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, `<i id="n%d"></i>`, i)
	}

	h := newRecordingHost()
	type snapshot struct {
		node  *hostNode
		meta  *ElementMeta
		saved ElementMeta
	}
	var snaps []snapshot
	cb := h.callbacks()
	inner := cb.CreateElement
	cb.CreateElement = func(meta *ElementMeta, name QualName, attrs *AttrIter) NodeRef {
		ref := inner(meta, name, attrs)
		snaps = append(snaps, snapshot{node: ref.(*hostNode), meta: meta, saved: *meta})
		return ref
	}

	require.NoError(t, ParseDocument([]byte(b.String()), h.document, cb))
	require.Len(t, snaps, 43) // html, head, body and 40 i elements

	seen := make(map[*ElementMeta]bool, len(snaps))
	for _, s := range snaps {
		assert.Equal(t, s.saved, *s.meta, "metadata for %s changed after creation", s.node.name.Local)
		assert.Equal(t, s.node.name, s.meta.Name)
		assert.False(t, seen[s.meta], "metadata pointer handed out twice")
		seen[s.meta] = true
	}
}

func TestAttrIterContract(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	cb := h.callbacks()
	inner := cb.CreateElement
	checked := false
	cb.CreateElement = func(meta *ElementMeta, name QualName, attrs *AttrIter) NodeRef {
		if name.Local == "p" {
			checked = true
			assert.Equal(t, 3, attrs.Count())

			want := []Attribute{
				{Name: QualName{Local: "one"}, Value: "1"},
				{Name: QualName{Local: "two"}, Value: "2"},
				{Name: QualName{Local: "three"}, Value: "3"},
			}
			for _, w := range want {
				a, ok := attrs.Next()
				require.True(t, ok)
				assert.Equal(t, w, a)
			}

			// Exhausted stays exhausted, and Count does not advance.
			_, ok := attrs.Next()
			assert.False(t, ok)
			_, ok = attrs.Next()
			assert.False(t, ok)
			assert.Equal(t, 3, attrs.Count())
		}
		return inner(meta, name, attrs)
	}

	err := ParseDocument([]byte(`<!DOCTYPE html><p one="1" two="2" three="3">x</p>`), h.document, cb)
	require.NoError(t, err)
	require.True(t, checked, "CreateElement never saw the p element")
}

func TestAttrIterDropsDuplicates(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	err := ParseDocument([]byte(`<!DOCTYPE html><p a="1" a="2">x</p>`), h.document, h.callbacks())
	require.NoError(t, err)

	p := h.find("p")
	require.NotNil(t, p)
	require.Len(t, p.attrs, 1)
	assert.Equal(t, "1", p.attrs[0].Value, "first occurrence wins")
}

func TestStreamingMatchesOneShot(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"<!DOCTYPE html><p>a&amp;b</p>",
		"<b>é😀 text</b>",
		"line1\r\nline2",
		"<title>raw & text</title>",
		"<!DOCTYPE html><template><b>x</b></template>",
	}

	for _, input := range inputs {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			whole := newRecordingHost()
			require.NoError(t, ParseDocument([]byte(input), whole.document, whole.callbacks()))
			require.Equal(t, 1, whole.finished)

			for _, size := range []int{1, 4} {
				h := newRecordingHost()
				s, err := NewSession(h.document, h.callbacks())
				require.NoError(t, err)

				data := []byte(input)
				for len(data) > 0 {
					n := size
					if n > len(data) {
						n = len(data)
					}
					require.NoError(t, s.Feed(data[:n]))
					data = data[n:]
				}
				require.NoError(t, s.Finish())

				assert.Equal(t, whole.events, h.events, "chunk size %d changed the event stream", size)
				assert.Equal(t, whole.errors, h.errors, "chunk size %d changed the diagnostics", size)
				assert.Equal(t, whole.doctypes, h.doctypes)
				assert.Equal(t, 1, h.finished)
			}
		})
	}
}

func TestDoctypeDeliveredOnce(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	err := ParseDocument([]byte("<!DOCTYPE html><!DOCTYPE foo>x"), h.document, h.callbacks())
	require.NoError(t, err)
	assert.Equal(t, []doctypeInfo{{"html", "", ""}}, h.doctypes, "a later doctype must be dropped")
	assert.NotEmpty(t, h.errors)

	// Absent identifiers arrive as empty strings, present ones verbatim.
	h = newRecordingHost()
	err = ParseDocument([]byte(`<!DOCTYPE html PUBLIC "-//a//b//EN">`), h.document, h.callbacks())
	require.NoError(t, err)
	require.Len(t, h.doctypes, 1)
	assert.Equal(t, doctypeInfo{"html", "-//a//b//EN", ""}, h.doctypes[0])
}

func TestMisnestedFormattingTolerated(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	err := ParseDocument([]byte("<!DOCTYPE html><p><b></p></b>x"), h.document, h.callbacks())
	require.NoError(t, err)
	assert.Equal(t, 1, h.finished)
	assert.NotEmpty(t, h.errors, "misnesting is recoverable and must be reported")

	body := h.find("body")
	require.NotNil(t, body)
	require.Len(t, body.children, 2)
	assert.Equal(t, "p", body.children[0].name.Local)
	assert.Equal(t, "x", body.children[1].data)
}

func TestEmptyInputIsNoOp(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	require.NoError(t, ParseDocument(nil, h.document, h.callbacks()))
	require.NoError(t, ParseDocument([]byte{}, h.document, h.callbacks()))
	require.NoError(t, ParseFragment(nil, h.document, h.callbacks()))
	assert.Empty(t, h.events)
	assert.Zero(t, h.finished)

	// Empty input short-circuits before callback validation.
	require.NoError(t, ParseDocument(nil, h.document, nil))
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	s, err := NewSession(h.document, h.callbacks())
	require.NoError(t, err)
	assert.Equal(t, NoQuirks, s.QuirksMode())

	require.NoError(t, s.Feed([]byte("<!DOCTYPE html><p>")))
	require.NoError(t, s.Feed([]byte("x</p>")))
	require.NoError(t, s.Finish())
	assert.Equal(t, 1, h.finished)

	assert.ErrorIs(t, s.Feed([]byte("y")), ErrSessionClosed)
	assert.ErrorIs(t, s.Finish(), ErrSessionClosed)

	// The quirks decision survives the session's release.
	assert.Equal(t, NoQuirks, s.QuirksMode())

	p := h.find("p")
	require.NotNil(t, p)
	assert.Equal(t, "x", p.text())
}

func TestCloseCancelsWithoutFinish(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	s, err := NewSession(h.document, h.callbacks())
	require.NoError(t, err)

	require.NoError(t, s.Feed([]byte("<p>partial <b")))
	require.NoError(t, s.Close())
	assert.Zero(t, h.finished, "Close must not run the Finish callback")

	assert.ErrorIs(t, s.Feed([]byte("x")), ErrSessionClosed)
	assert.ErrorIs(t, s.Finish(), ErrSessionClosed)
	require.NoError(t, s.Close(), "closing twice is a no-op")

	// The p start tag was processed before Close, deciding quirks mode.
	assert.Equal(t, Quirks, s.QuirksMode())
}

func TestCallbackValidation(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		name   string
		mutate func(cb *Callbacks)
	}{
		{"CreateElement", func(cb *Callbacks) { cb.CreateElement = nil }},
		{"CreateComment", func(cb *Callbacks) { cb.CreateComment = nil }},
		{"Append", func(cb *Callbacks) { cb.Append = nil }},
		{"Meta", func(cb *Callbacks) { cb.Meta = nil }},
		{"AppendDoctypeToDocument", func(cb *Callbacks) { cb.AppendDoctypeToDocument = nil }},
	}

	for _, testcase := range testcases {
		testcase := testcase
		t.Run(testcase.name, func(t *testing.T) {
			t.Parallel()
			h := newRecordingHost()
			cb := h.callbacks()
			testcase.mutate(cb)

			_, err := NewSession(h.document, cb)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingCallback)
			assert.Contains(t, err.Error(), testcase.name)

			assert.ErrorIs(t, ParseDocument([]byte("x"), h.document, cb), ErrMissingCallback)
		})
	}

	t.Run("nil callback set", func(t *testing.T) {
		t.Parallel()
		h := newRecordingHost()
		_, err := NewSession(h.document, nil)
		assert.ErrorIs(t, err, ErrMissingCallback)
	})

	t.Run("fragments need no doctype callback", func(t *testing.T) {
		t.Parallel()
		h := newRecordingHost()
		cb := h.callbacks()
		cb.AppendDoctypeToDocument = nil
		require.NoError(t, ParseFragment([]byte("<p>x"), h.document, cb))
		require.NotNil(t, h.find("p"))
	})
}

func TestUnsupportedTableInsertionPanics(t *testing.T) {
	t.Parallel()

	// Character data misnested inside a table needs a foster-parenting
	// insertion, which this callback surface does not carry.
	h := newRecordingHost()
	assert.PanicsWithValue(t, "treesink: append based on parent node is not supported", func() {
		_ = ParseDocument([]byte("<!DOCTYPE html><table>x</table>"), h.document, h.callbacks())
	})
}

func TestMissingOptionalCallbackPanicsWhenReached(t *testing.T) {
	t.Parallel()

	// TemplateContents may be nil only while no template shows up.
	h := newRecordingHost()
	cb := h.callbacks()
	cb.TemplateContents = nil
	assert.PanicsWithValue(t, "treesink: TemplateContents callback not provided", func() {
		_ = ParseDocument([]byte("<!DOCTYPE html><template>x</template>"), h.document, cb)
	})

	// The remaining guarded operations, exercised directly.
	h = newRecordingHost()
	cb = h.callbacks()
	cb.AddAttrsIfMissing = nil
	cb.RemoveFromParent = nil
	cb.ReparentChildren = nil
	cb.CreateProcessingInstruction = nil
	sink := newTreeSink(h.document, cb, arena.New[ElementMeta](), quietLogger(), false)

	assert.PanicsWithValue(t, "treesink: append before sibling is not supported", func() {
		sink.AppendBeforeSibling(h.document, AppendText("x"))
	})
	assert.PanicsWithValue(t, "treesink: AddAttrsIfMissing callback not provided", func() {
		sink.AddAttrsIfMissing(h.document, nil)
	})
	assert.PanicsWithValue(t, "treesink: RemoveFromParent callback not provided", func() {
		sink.RemoveFromParent(h.document)
	})
	assert.PanicsWithValue(t, "treesink: ReparentChildren callback not provided", func() {
		sink.ReparentChildren(h.document, h.document)
	})
	assert.PanicsWithValue(t, "treesink: CreateProcessingInstruction callback not provided", func() {
		sink.CreatePI("target", "data")
	})
}

func TestOptionalCallbacksMayBeNil(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	cb := h.callbacks()
	cb.Pop = nil
	cb.ParseError = nil
	cb.Finish = nil

	// The missing doctype diagnostic goes to the logger instead.
	err := ParseDocument([]byte("<p>x</p>"), h.document, cb, WithLogger(quietLogger()))
	require.NoError(t, err)

	p := h.find("p")
	require.NotNil(t, p)
	assert.Equal(t, "x", p.text())
}

func TestQuirksModeAccessor(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		inHTML string
		want   QuirksMode
	}{
		{"<!DOCTYPE html>x", NoQuirks},
		{"x", Quirks},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN" "http://www.w3.org/TR/html4/loose.dtd">`, LimitedQuirks},
	}

	for _, testcase := range testcases {
		testcase := testcase
		t.Run(string(testcase.want), func(t *testing.T) {
			t.Parallel()
			h := newRecordingHost()
			s, err := NewSession(h.document, h.callbacks())
			require.NoError(t, err)
			require.NoError(t, s.Feed([]byte(testcase.inHTML)))
			require.NoError(t, s.Finish())
			assert.Equal(t, testcase.want, s.QuirksMode())
		})
	}
}

func TestIFrameSrcdocSkipsQuirks(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	s, err := NewSession(h.document, h.callbacks(), WithIFrameSrcdoc())
	require.NoError(t, err)
	require.NoError(t, s.Feed([]byte("<p>x</p>")))
	require.NoError(t, s.Finish())
	assert.Equal(t, NoQuirks, s.QuirksMode(), "srcdoc documents are exempt from missing-doctype quirks")
	assert.Empty(t, h.errors)
}

func TestScriptingOptionChangesNoscript(t *testing.T) {
	t.Parallel()
	input := []byte("<!DOCTYPE html><noscript><p>x</p></noscript>")

	// Scripting on (the default): noscript children stay raw text.
	h := newRecordingHost()
	require.NoError(t, ParseDocument(input, h.document, h.callbacks()))
	noscript := h.find("noscript")
	require.NotNil(t, noscript)
	assert.Nil(t, h.find("p"))
	assert.Equal(t, "<p>x</p>", noscript.text())

	// Scripting off: the same children parse as markup.
	h = newRecordingHost()
	require.NoError(t, ParseDocument(input, h.document, h.callbacks(), WithScripting(false)))
	require.NotNil(t, h.find("p"))
	assert.Equal(t, "x", h.find("p").text())
}

func TestInvalidUTF8ReportedAndReplaced(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	err := ParseDocument([]byte{'<', 'p', '>', 'a', 0xFF, 'b'}, h.document, h.callbacks())
	require.NoError(t, err)

	p := h.find("p")
	require.NotNil(t, p)
	assert.Equal(t, "a"+string(utf8.RuneError)+"b", p.text())

	found := false
	for _, msg := range h.errors {
		if strings.Contains(msg, "invalid utf-8") {
			found = true
			break
		}
	}
	assert.True(t, found, "expected an invalid utf-8 diagnostic, got %v", h.errors)

	// A multi-byte rune left dangling at the end of input is replaced too.
	h = newRecordingHost()
	s, err := NewSession(h.document, h.callbacks())
	require.NoError(t, err)
	require.NoError(t, s.Feed([]byte("<p>a")))
	require.NoError(t, s.Feed([]byte{0xC3}))
	require.NoError(t, s.Finish())
	assert.Equal(t, "a"+string(utf8.RuneError), h.find("p").text())
}

func TestTemplateContentsRouting(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	err := ParseDocument([]byte("<!DOCTYPE html><template><b>x</b></template>"), h.document, h.callbacks())
	require.NoError(t, err)

	template := h.find("template")
	require.NotNil(t, template)
	assert.Empty(t, template.children, "parsed content belongs in the content fragment")

	content := template.content
	require.NotNil(t, content)
	require.Len(t, content.children, 1)
	b := content.children[0]
	assert.Equal(t, "b", b.name.Local)
	assert.Equal(t, "x", b.text())
}

func TestParseFragment(t *testing.T) {
	t.Parallel()

	h := newRecordingHost()
	require.NoError(t, ParseFragment([]byte("<p>a<p>b"), h.document, h.callbacks()))

	// Content accumulates under a synthetic html element appended to the
	// given root.
	require.Len(t, h.document.children, 1)
	html := h.document.children[0]
	assert.Equal(t, "html", html.name.Local)
	require.Len(t, html.children, 2)
	assert.Equal(t, "a", html.children[0].text())
	assert.Equal(t, "b", html.children[1].text())

	// A doctype inside a fragment is dropped with a diagnostic, never
	// forwarded.
	h = newRecordingHost()
	cb := h.callbacks()
	cb.AppendDoctypeToDocument = nil
	require.NoError(t, ParseFragment([]byte("<!DOCTYPE html><p>x"), h.document, cb))
	assert.NotEmpty(t, h.errors)
	require.NotNil(t, h.find("p"))

	// Fragments always parse with scripting off.
	h = newRecordingHost()
	require.NoError(t, ParseFragment([]byte("<noscript><p>x</p></noscript>"), h.document, h.callbacks()))
	assert.NotNil(t, h.find("p"))
}

func TestReadMemory(t *testing.T) {
	t.Parallel()

	m := ReadMemory()
	assert.NotZero(t, m.Resident)
	assert.NotZero(t, m.Allocated)
}
