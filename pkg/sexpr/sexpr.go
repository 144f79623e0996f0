// Package sexpr parses the s-expression syntax used by KiCad file formats
// into a small navigable node tree.
package sexpr

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is one s-expression: either an atom (symbol or quoted string) or a
// list of child nodes.
type Node struct {
	Atom     string
	Quoted   bool
	Children []*Node
	list     bool
}

// IsList reports whether the node is a parenthesized list.
func (n *Node) IsList() bool { return n.list }

// Key returns the leading symbol of a list node, or the atom itself.
func (n *Node) Key() string {
	if !n.list {
		return n.Atom
	}
	if len(n.Children) > 0 && !n.Children[0].list {
		return n.Children[0].Atom
	}
	return ""
}

// Find returns the first child list whose key matches.
func (n *Node) Find(key string) (*Node, bool) {
	for _, child := range n.Children {
		if child.list && child.Key() == key {
			return child, true
		}
	}
	return nil, false
}

// FindAll returns every child list whose key matches.
func (n *Node) FindAll(key string) []*Node {
	var out []*Node
	for _, child := range n.Children {
		if child.list && child.Key() == key {
			out = append(out, child)
		}
	}
	return out
}

// Arg returns the atom at position i (position 0 is the key).
func (n *Node) Arg(i int) (string, error) {
	if !n.list {
		return "", fmt.Errorf("sexpr: %q is not a list", n.Atom)
	}
	if i < 0 || i >= len(n.Children) {
		return "", fmt.Errorf("sexpr: index %d out of bounds (%d items)", i, len(n.Children))
	}
	child := n.Children[i]
	if child.list {
		return "", fmt.Errorf("sexpr: item %d of %q is a list", i, n.Key())
	}
	return child.Atom, nil
}

// Float returns the atom at position i parsed as float64.
func (n *Node) Float(i int) (float64, error) {
	s, err := n.Arg(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("sexpr: %q is not a number in %q", s, n.Key())
	}
	return v, nil
}

// Int returns the atom at position i parsed as int.
func (n *Node) Int(i int) (int, error) {
	v, err := n.Float(i)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// FloatOr returns the atom at position i, or fallback when absent.
func (n *Node) FloatOr(i int, fallback float64) float64 {
	v, err := n.Float(i)
	if err != nil {
		return fallback
	}
	return v
}

// Args returns every atom after the key, unquoted.
func (n *Node) Args() []string {
	var out []string
	if !n.list {
		return out
	}
	for _, child := range n.Children[1:] {
		if !child.list {
			out = append(out, child.Atom)
		}
	}
	return out
}

// Parse reads all top-level s-expressions from r.
func Parse(r io.Reader) ([]*Node, error) {
	p := &parser{lex: newLexer(r)}
	tok, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	p.current = tok

	var nodes []*Node
	for p.current.typ != tokenEOF {
		node, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// ParseString reads all top-level s-expressions from a string.
func ParseString(input string) ([]*Node, error) {
	return Parse(strings.NewReader(input))
}

type parser struct {
	lex     *lexer
	current token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *parser) parseNode() (*Node, error) {
	switch p.current.typ {
	case tokenSymbol:
		node := &Node{Atom: p.current.value}
		return node, p.advance()
	case tokenString:
		node := &Node{Atom: p.current.value, Quoted: true}
		return node, p.advance()
	case tokenLeftParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		node := &Node{list: true}
		for p.current.typ != tokenRightParen {
			if p.current.typ == tokenEOF {
				return nil, fmt.Errorf("sexpr: unexpected EOF, unbalanced parentheses")
			}
			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		return node, p.advance()
	case tokenRightParen:
		return nil, fmt.Errorf("sexpr: unexpected ')'")
	default:
		return nil, fmt.Errorf("sexpr: unexpected EOF")
	}
}
