package pwashell

import "strings"

// DefaultSkeletonMarkup is shown by DefaultSkeleton.
const DefaultSkeletonMarkup = `<section class="skeleton"></section>`

type skeletonKind int

const (
	skeletonNone skeletonKind = iota
	skeletonDefault
	skeletonMarkup
	skeletonFunc
)

// Skeleton declares the placeholder a component shows while rendering.
// The zero value is NoSkeleton.
type Skeleton struct {
	kind   skeletonKind
	markup string
	fn     func() string
}

// NoSkeleton renders without a placeholder and without delay.
var NoSkeleton = Skeleton{}

// DefaultSkeleton shows DefaultSkeletonMarkup.
var DefaultSkeleton = Skeleton{kind: skeletonDefault}

// SkeletonMarkup shows the given markup.
func SkeletonMarkup(markup string) Skeleton {
	return Skeleton{kind: skeletonMarkup, markup: markup}
}

// SkeletonFunc shows the markup fn returns at the moment the placeholder
// is displayed.
func SkeletonFunc(fn func() string) Skeleton {
	if fn == nil {
		return NoSkeleton
	}
	return Skeleton{kind: skeletonFunc, fn: fn}
}

// RepeatSkeleton wraps count copies of item in a container element, the
// usual shape of a card grid placeholder. A negative count repeats
// nothing.
func RepeatSkeleton(container, item string, count int) Skeleton {
	count = max(count, 0)
	open, close, ok := strings.Cut(container, "></")
	if !ok {
		return SkeletonMarkup(container + strings.Repeat(item, count))
	}
	return SkeletonMarkup(open + ">" + strings.Repeat(item, count) + "</" + close)
}

// Enabled reports whether a placeholder is declared.
func (s Skeleton) Enabled() bool { return s.kind != skeletonNone }

// Markup returns the placeholder markup.
func (s Skeleton) Markup() string {
	switch s.kind {
	case skeletonDefault:
		return DefaultSkeletonMarkup
	case skeletonMarkup:
		return s.markup
	case skeletonFunc:
		return s.fn()
	}
	return ""
}
