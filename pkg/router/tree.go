package router

import (
	"strings"

	"github.com/vango-dev/routekit/pkg/convert"
	"github.com/vango-dev/routekit/pkg/route"
)

// matchNode is a node in the segment tree used to find the route for a
// navigated URI.
type matchNode struct {
	// segment is the lowercased literal this node matches
	segment string

	// param is the template token of a parameter node
	param convert.Segment

	// routes terminate at this node, first registered first
	routes []*route.Route

	// children are static segment children
	children []*matchNode

	// typedChildren are "{name:type}" children, one per kind
	typedChildren []*matchNode

	// paramChild is the untyped "{name}" child
	paramChild *matchNode
}

func newMatchNode(segment string) *matchNode {
	return &matchNode{segment: segment}
}

// findChild finds a static child by lowercased segment.
func (n *matchNode) findChild(segment string) *matchNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// addChild adds or retrieves a static child.
func (n *matchNode) addChild(segment string) *matchNode {
	segment = strings.ToLower(segment)
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := newMatchNode(segment)
	n.children = append(n.children, child)
	return child
}

// addParamChild adds or retrieves the child for a template token.
// Tokens of the same kind share a node regardless of name.
func (n *matchNode) addParamChild(s convert.Segment) *matchNode {
	if !s.Typed {
		if n.paramChild == nil {
			n.paramChild = &matchNode{param: s}
		}
		return n.paramChild
	}
	for _, child := range n.typedChildren {
		if child.param.Kind == s.Kind {
			return child
		}
	}
	child := &matchNode{param: s}
	n.typedChildren = append(n.typedChildren, child)
	return child
}

// insert adds r under the path described by its template. A route with
// trailing optional tokens terminates at every node from the last
// required segment on.
func (n *matchNode) insert(r *route.Route, tpl convert.Template) {
	segments := tpl.Segments()

	required := len(segments)
	for required > 0 && segments[required-1].Optional {
		required--
	}

	current := n
	if required == 0 {
		current.routes = append(current.routes, r)
	}
	for i, s := range segments {
		if s.IsParam() {
			current = current.addParamChild(s)
		} else {
			current = current.addChild(s.Literal)
		}
		if i+1 >= required {
			current.routes = append(current.routes, r)
		}
	}
}

// match finds the route for segments. Static children are tried first,
// then typed tokens, then untyped tokens, backtracking on failure.
func (n *matchNode) match(segments []string) *route.Route {
	if len(segments) == 0 {
		if len(n.routes) > 0 {
			return n.routes[0]
		}
		return nil
	}

	segment := segments[0]
	remaining := segments[1:]

	if child := n.findChild(strings.ToLower(segment)); child != nil {
		if r := child.match(remaining); r != nil {
			return r
		}
	}

	for _, child := range n.typedChildren {
		if !child.param.Accepts(segment) {
			continue
		}
		if r := child.match(remaining); r != nil {
			return r
		}
	}

	if n.paramChild != nil {
		if r := n.paramChild.match(remaining); r != nil {
			return r
		}
	}

	return nil
}
