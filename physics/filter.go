package physics

import "github.com/jakecoffman/cp"

// Filter controls which shape pairs may generate contacts.
//
// Shapes that share a non-zero Group never collide with each other.
// Otherwise a pair collides only when each shape's Categories intersect the
// other's Mask. A zero Categories or Mask means "all bits".
type Filter struct {
	Group      uint
	Categories uint
	Mask       uint
}

// ShapeFilter converts f to the engine representation.
func (f Filter) ShapeFilter() cp.ShapeFilter {
	cat, mask := f.Categories, f.Mask
	if cat == 0 {
		cat = cp.ALL_CATEGORIES
	}
	if mask == 0 {
		mask = cp.ALL_CATEGORIES
	}
	return cp.ShapeFilter{Group: f.Group, Categories: cat, Mask: mask}
}

// Collides reports whether shapes carrying f and other would touch.
func (f Filter) Collides(other Filter) bool {
	return !f.ShapeFilter().Reject(other.ShapeFilter())
}
