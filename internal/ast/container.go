package ast

// Container is implemented by nodes that hold child statements. The
// lowering pass asks each container whether a child kind is structurally
// legal in that position before flattening it in.
type Container interface {
	Node
	AcceptsChild(child Node) bool
}

// AcceptsChild rejects the node kinds that cannot appear at the top level
// of a stylesheet: bare property declarations, @extend, and @content.
func (s *Stylesheet) AcceptsChild(child Node) bool {
	switch child.(type) {
	case *Declaration, *Extend, *ContentDirective:
		return false
	}
	return true
}

// AcceptsChild permits everything inside a style rule except a leftover
// @content, which is only meaningful while a mixin body is executing.
func (r *Rule) AcceptsChild(child Node) bool {
	_, isContent := child.(*ContentDirective)
	return !isContent
}

// AcceptsChild mirrors Rule: generic directives (@media, @font-face, ...)
// may hold declarations and nested rules alike.
func (d *Directive) AcceptsChild(child Node) bool {
	_, isContent := child.(*ContentDirective)
	return !isContent
}

// Describe names a node kind for structural error messages.
func Describe(n Node) string {
	switch n.(type) {
	case *Stylesheet:
		return "the stylesheet root"
	case *Rule:
		return "a style rule"
	case *Declaration:
		return "a property declaration"
	case *VariableDecl:
		return "a variable declaration"
	case *MixinDef:
		return "a mixin definition"
	case *Include:
		return "a mixin include"
	case *ContentDirective:
		return "@content"
	case *Extend:
		return "@extend"
	case *Directive:
		return "a directive"
	case *Comment:
		return "a comment"
	}
	return "a node"
}
