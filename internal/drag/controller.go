package drag

import "logicquest/internal/domain"

// PointerKind is the low-level pointer action.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// PointerEvent is one pointer sample delivered during a tick.
type PointerEvent struct {
	Kind PointerKind
	At   Point
}

// Layout fixes chip geometry and the target zone.
type Layout struct {
	Width      int // available horizontal space
	ChipWidth  int
	ChipHeight int
	Spacing    int // gap between neighbouring chips
	BankY      int // top row of the chip bank
	Target     Rect
}

// Chip is one draggable answer candidate.
type Chip struct {
	Label    string
	Bounds   Rect
	Correct  bool
	Dragging bool
}

// Controller owns the chips of the current question and turns pointer events into outcomes.
// At most one chip drags at a time; a pointer-down during an active drag is ignored.
type Controller struct {
	layout   Layout
	question domain.Question
	chips    []Chip
	active   int
	offset   Point
}

// NewController returns a controller with no chips until Reset is called.
func NewController(layout Layout) *Controller {
	return &Controller{layout: layout, active: -1}
}

// Reset regenerates one chip per option of q in a centered row.
func (c *Controller) Reset(q domain.Question) {
	c.question = q
	c.active = -1
	c.offset = Point{}
	c.chips = c.chips[:0]
	for i, label := range q.Options {
		c.chips = append(c.chips, Chip{
			Label:   label,
			Bounds:  c.slot(i, len(q.Options)),
			Correct: label == q.Answer,
		})
	}
}

// SetLayout applies new geometry and puts every chip back in its bank slot.
func (c *Controller) SetLayout(layout Layout) {
	c.layout = layout
	c.Reset(c.question)
}

func (c *Controller) slot(i, n int) Rect {
	l := c.layout
	total := n*l.ChipWidth + (n-1)*l.Spacing
	startX := (l.Width - total) / 2
	return Rect{
		X: startX + i*(l.ChipWidth+l.Spacing),
		Y: l.BankY,
		W: l.ChipWidth,
		H: l.ChipHeight,
	}
}

// Handle applies one pointer event. Only a release over the target zone yields a non-None outcome.
func (c *Controller) Handle(ev PointerEvent) domain.Outcome {
	switch ev.Kind {
	case PointerDown:
		c.beginDrag(ev.At)
	case PointerMove:
		if c.active >= 0 {
			chip := &c.chips[c.active]
			chip.Bounds = chip.Bounds.MoveTo(Point{X: ev.At.X + c.offset.X, Y: ev.At.Y + c.offset.Y})
		}
	case PointerUp:
		return c.release()
	}
	return domain.OutcomeNone
}

func (c *Controller) beginDrag(at Point) {
	if c.active >= 0 {
		return
	}
	// later chips are drawn over earlier ones
	for i := len(c.chips) - 1; i >= 0; i-- {
		chip := &c.chips[i]
		if !chip.Bounds.Contains(at) {
			continue
		}
		chip.Dragging = true
		c.active = i
		c.offset = Point{X: chip.Bounds.X - at.X, Y: chip.Bounds.Y - at.Y}
		return
	}
}

func (c *Controller) release() domain.Outcome {
	if c.active < 0 {
		return domain.OutcomeNone
	}
	chip := &c.chips[c.active]
	chip.Dragging = false
	c.active = -1
	if !chip.Bounds.Overlaps(c.layout.Target) {
		return domain.OutcomeNone
	}
	if chip.Correct {
		return domain.OutcomeCorrect
	}
	return domain.OutcomeWrong
}

// Cancel ends an active drag without testing the drop. The chip stays where it is.
func (c *Controller) Cancel() {
	if c.active < 0 {
		return
	}
	c.chips[c.active].Dragging = false
	c.active = -1
}

// Dragging reports whether a chip is currently being dragged.
func (c *Controller) Dragging() bool {
	return c.active >= 0
}

// Chips returns a copy of the current chips in bank order.
func (c *Controller) Chips() []Chip {
	return append([]Chip(nil), c.chips...)
}

// Target returns the fixed drop zone.
func (c *Controller) Target() Rect {
	return c.layout.Target
}

// Layout returns the current geometry.
func (c *Controller) Layout() Layout {
	return c.layout
}
