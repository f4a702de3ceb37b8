package funda

import (
	"strings"

	"golang.org/x/net/html"
)

// nextNode returns the successor of n in document order: first child, else
// next sibling, else the next sibling of the closest ancestor that has one.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// findNext returns the first element with the given tag strictly after n in
// document order, or nil.
func findNext(n *html.Node, tag string) *html.Node {
	for cur := nextNode(n); cur != nil; cur = nextNode(cur) {
		if cur.Type == html.ElementNode && cur.Data == tag {
			return cur
		}
	}
	return nil
}

// findWithin returns the first descendant of root with the given tag, or nil.
func findWithin(root *html.Node, tag string) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findWithin(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// findAllWithin returns all descendants of root with the given tag, in
// document order.
func findAllWithin(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
		out = append(out, findAllWithin(c, tag)...)
	}
	return out
}

// nodeText returns the concatenated text content of n, trimmed.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
