package ast

import "corefront/internal/source"

// PathSegmentKind tags a path segment.
type PathSegmentKind uint8

const (
	SegmentItem PathSegmentKind = iota
	SegmentSuper
	SegmentSelf
)

// PathSegment is one `::`-separated component of a Path.
type PathSegment struct {
	Kind     PathSegmentKind
	Ident    source.Ident // SegmentItem only
	Generics []Type       // SegmentItem only; explicit generic arguments
	Span     source.Span
}

// Path is an identifier path, as written at an expression or type position:
// absolute paths (`::a::b`) start at the root module, `super` ascends one
// module, and `self` inside an item body is resolved to a synthetic local.
type Path struct {
	Absolute bool
	Segments []PathSegment
	Span     source.Span
}

// Ident returns the single bare identifier this path denotes, if it is a
// one-segment relative item path (e.g. a local variable reference).
func (p Path) Ident() (source.Ident, bool) {
	if p.Absolute || len(p.Segments) != 1 {
		return source.Ident{}, false
	}
	seg := p.Segments[0]
	if seg.Kind != SegmentItem {
		return source.Ident{}, false
	}
	return seg.Ident, true
}

// IsSelf reports whether this path is the bare `self` segment.
func (p Path) IsSelf() bool {
	return !p.Absolute && len(p.Segments) == 1 && p.Segments[0].Kind == SegmentSelf
}
