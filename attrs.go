package treesink

// AttrIter is a single-pass view over the attributes of one element-creation
// or attribute-merge event. The engine has already dropped duplicate names
// and applied foreign-content adjustments; order is as written in the markup.
//
// An iterator is only valid inside the callback call that received it. The
// backing storage belongs to the engine and may be reused once the callback
// returns, so hosts must finish consuming (and copy what they keep) before
// returning.
type AttrIter struct {
	attrs []Attribute
	pos   int
}

func newAttrIter(attrs []Attribute) *AttrIter {
	return &AttrIter{attrs: attrs}
}

// Count reports the total number of attributes. It does not advance the
// iterator and can be called at any point, before or between Next calls.
func (it *AttrIter) Count() int {
	return len(it.attrs)
}

// Next returns the next attribute and true, or a zero Attribute and false
// once the iterator is exhausted. An exhausted iterator stays exhausted.
func (it *AttrIter) Next() (Attribute, bool) {
	if it.pos >= len(it.attrs) {
		return Attribute{}, false
	}
	a := it.attrs[it.pos]
	it.pos++
	return a, true
}
