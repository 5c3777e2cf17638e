package drag

// Point is a pointer position in screen cells.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Overlaps reports whether r and o share any area. Touching edges do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	if r.W <= 0 || r.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// MoveTo returns r moved to the top-left corner p.
func (r Rect) MoveTo(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}
