// Package xmltree provides the small XML tree the LwM2M model is parsed from
// and serialized to.
//
// The lwm2m package depends only on the Node interface: named-child lookup,
// attribute lookup and child iteration. Element is the concrete tree built by
// Parse and written by Write.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Node is the read-only view of an XML element.
type Node interface {
	// Name returns the qualified element name ("prefix:local" or "local").
	Name() string

	// Text returns the character data directly inside the element. A leaf
	// element keeps its text verbatim, whitespace included. Whitespace-only
	// content of an element with children is indentation and reads as "".
	Text() string

	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)

	// Child returns the first child element with the given name.
	Child(name string) (Node, bool)

	// Children returns all child elements in document order.
	Children() []Node
}

// Attr is a single attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a mutable XML element.
type Element struct {
	Tag   string
	Attrs []Attr
	Value string
	Kids  []*Element
}

// NewElement creates an empty element.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// Name implements Node.
func (e *Element) Name() string { return e.Tag }

// Text implements Node.
func (e *Element) Text() string {
	if len(e.Kids) > 0 && strings.TrimSpace(e.Value) == "" {
		return ""
	}
	return e.Value
}

// Attr implements Node.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child implements Node.
func (e *Element) Child(name string) (Node, bool) {
	for _, k := range e.Kids {
		if k.Tag == name {
			return k, true
		}
	}
	return nil, false
}

// Children implements Node.
func (e *Element) Children() []Node {
	out := make([]Node, len(e.Kids))
	for i, k := range e.Kids {
		out[i] = k
	}
	return out
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// Append adds child elements and returns e.
func (e *Element) Append(kids ...*Element) *Element {
	e.Kids = append(e.Kids, kids...)
	return e
}

// AppendText adds a child element holding only text and returns e.
func (e *Element) AppendText(tag, text string) *Element {
	return e.Append(&Element{Tag: tag, Value: text})
}

// Compile-time interface satisfaction check.
var _ Node = (*Element)(nil)

// ErrEmptyDocument is returned by Parse when the input has no root element.
var ErrEmptyDocument = errors.New("xml document has no root element")

// Parse reads a document and returns its root element. Namespace prefixes
// are kept verbatim so a parsed tree serializes back to the same names.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var stack []*Element
	var root *Element

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: qualified(t.Name)}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: qualified(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parsing xml: multiple root elements (%s, %s)", root.Tag, el.Tag)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Kids = append(parent.Kids, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 || stack[len(stack)-1].Tag != qualified(t.Name) {
				return nil, fmt.Errorf("parsing xml: unexpected end element </%s>", qualified(t.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Value += string(t)
			}
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("parsing xml: unclosed element <%s>", stack[len(stack)-1].Tag)
	}
	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(data []byte) (*Element, error) {
	return Parse(bytes.NewReader(data))
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// Write serializes the tree rooted at n with an XML declaration and
// two-space indentation.
func Write(w io.Writer, n Node) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := writeNode(&buf, n, 0); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Marshal is Write into a byte slice.
func Marshal(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, n Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(n.Name())

	if el, ok := n.(*Element); ok {
		for _, a := range el.Attrs {
			buf.WriteByte(' ')
			buf.WriteString(a.Name)
			buf.WriteString(`="`)
			if err := xml.EscapeText(buf, []byte(a.Value)); err != nil {
				return err
			}
			buf.WriteByte('"')
		}
	}
	buf.WriteByte('>')

	kids := n.Children()
	if len(kids) == 0 {
		if err := xml.EscapeText(buf, []byte(n.Text())); err != nil {
			return err
		}
	} else {
		buf.WriteByte('\n')
		for _, k := range kids {
			if err := writeNode(buf, k, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString(indent)
	}

	buf.WriteString("</")
	buf.WriteString(n.Name())
	buf.WriteString(">\n")
	return nil
}
