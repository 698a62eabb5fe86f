package view

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type NodeKind uint8

const (
	ElementNode NodeKind = iota
	TextNode
	FragmentNode
	DoctypeNode
)

type Attr struct {
	Key string
	Val string
}

// Node is a declarative description of markup. Renderers build Node trees
// and never touch a live document; HTML turns a tree into text.
type Node struct {
	Kind     NodeKind
	Tag      string
	Attrs    []Attr
	Children []Node
	Text     string
}

// El builds an element node.
func El(tag string, children ...Node) Node {
	return Node{Kind: ElementNode, Tag: tag, Children: children}
}

func Text(s string) Node {
	return Node{Kind: TextNode, Text: s}
}

func Textf(format string, args ...any) Node {
	return Text(fmt.Sprintf(format, args...))
}

// Group renders its children with no wrapping element.
func Group(children ...Node) Node {
	return Node{Kind: FragmentNode, Children: children}
}

// Nothing is an empty fragment, used for absent optional parts.
func Nothing() Node {
	return Node{Kind: FragmentNode}
}

// Attr returns a copy of n with key set to val.
func (n Node) Attr(key, val string) Node {
	attrs := make([]Attr, 0, len(n.Attrs)+1)
	replaced := false
	for _, a := range n.Attrs {
		if a.Key == key {
			a.Val = val
			replaced = true
		}
		attrs = append(attrs, a)
	}
	if !replaced {
		attrs = append(attrs, Attr{Key: key, Val: val})
	}
	n.Attrs = attrs
	return n
}

// Class appends classes to the class attribute.
func (n Node) Class(classes ...string) Node {
	joined := strings.Join(nonEmpty(classes), " ")
	if joined == "" {
		return n
	}
	if existing, ok := n.Get("class"); ok && existing != "" {
		joined = existing + " " + joined
	}
	return n.Attr("class", joined)
}

func (n Node) ID(id string) Node { return n.Attr("id", id) }

// Get looks up an attribute.
func (n Node) Get(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Append returns a copy of n with more children.
func (n Node) Append(children ...Node) Node {
	out := make([]Node, 0, len(n.Children)+len(children))
	out = append(out, n.Children...)
	out = append(out, children...)
	n.Children = out
	return n
}

func Div(class string, children ...Node) Node  { return El("div", children...).Class(class) }
func Span(class string, children ...Node) Node { return El("span", children...).Class(class) }
func P(class string, children ...Node) Node    { return El("p", children...).Class(class) }
func H(level int, text string) Node            { return El(fmt.Sprintf("h%d", level), Text(text)) }
func Strong(text string) Node                  { return El("strong", Text(text)) }

// List renders items as li elements under tag (ul or ol).
func List(tag, class string, items []string) Node {
	lis := make([]Node, 0, len(items))
	for _, it := range items {
		lis = append(lis, El("li", Text(it)))
	}
	return El(tag, lis...).Class(class)
}

// HTML serializes a node tree. Text and attribute values are escaped.
func HTML(n Node) (string, error) {
	var buf bytes.Buffer
	nodes, err := toHTML(n)
	if err != nil {
		return "", err
	}
	for _, hn := range nodes {
		if err := html.Render(&buf, hn); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// MustHTML is HTML for trees built entirely by this package.
func MustHTML(n Node) string {
	out, err := HTML(n)
	if err != nil {
		panic(err)
	}
	return out
}

func toHTML(n Node) ([]*html.Node, error) {
	switch n.Kind {
	case TextNode:
		return []*html.Node{{Type: html.TextNode, Data: n.Text}}, nil
	case DoctypeNode:
		return []*html.Node{{Type: html.DoctypeNode, Data: "html"}}, nil
	case FragmentNode:
		var out []*html.Node
		for _, child := range n.Children {
			converted, err := toHTML(child)
			if err != nil {
				return nil, err
			}
			out = append(out, converted...)
		}
		return out, nil
	case ElementNode:
		tag := strings.ToLower(strings.TrimSpace(n.Tag))
		if tag == "" {
			return nil, fmt.Errorf("view: element without tag")
		}
		el := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
		for _, a := range n.Attrs {
			el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
		for _, child := range n.Children {
			converted, err := toHTML(child)
			if err != nil {
				return nil, err
			}
			for _, c := range converted {
				el.AppendChild(c)
			}
		}
		return []*html.Node{el}, nil
	default:
		return nil, fmt.Errorf("view: unknown node kind %d", n.Kind)
	}
}

func nonEmpty(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
