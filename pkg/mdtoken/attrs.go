package mdtoken

// Attr is a single name/value attribute pair.
type Attr struct {
	Name  string
	Value string
}

// AttrPush appends an attribute, keeping any existing attribute of the same name.
func (t *Token) AttrPush(name, value string) {
	t.Attrs = append(t.Attrs, Attr{Name: name, Value: value})
}

// AttrIndex returns the index of the first attribute with the given name, or -1.
func (t *Token) AttrIndex(name string) int {
	for i, attr := range t.Attrs {
		if attr.Name == name {
			return i
		}
	}
	return -1
}

// AttrGet returns the value of the first attribute with the given name.
// The boolean is false when the attribute is absent.
func (t *Token) AttrGet(name string) (string, bool) {
	idx := t.AttrIndex(name)
	if idx < 0 {
		return "", false
	}
	return t.Attrs[idx].Value, true
}
