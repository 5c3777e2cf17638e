package drag

import (
	"testing"

	"logicquest/internal/domain"
)

func testLayout() Layout {
	return Layout{
		Width:      100,
		ChipWidth:  10,
		ChipHeight: 3,
		Spacing:    5,
		BankY:      30,
		Target:     Rect{X: 45, Y: 10, W: 10, H: 3},
	}
}

func testQuestion() domain.Question {
	return domain.Question{Text: "2+2?", Options: []string{"3", "4", "5"}, Answer: "4", Difficulty: 1}
}

func newTestController() *Controller {
	c := NewController(testLayout())
	c.Reset(testQuestion())
	return c
}

// dragTo presses at the chip's top-left, moves so the chip's top-left lands on dst, and releases.
func dragTo(c *Controller, chip int, dst Point) domain.Outcome {
	start := c.Chips()[chip].Bounds
	grab := Point{X: start.X + 1, Y: start.Y + 1}
	c.Handle(PointerEvent{Kind: PointerDown, At: grab})
	c.Handle(PointerEvent{Kind: PointerMove, At: Point{X: dst.X + 1, Y: dst.Y + 1}})
	return c.Handle(PointerEvent{Kind: PointerUp, At: Point{X: dst.X + 1, Y: dst.Y + 1}})
}

func TestResetCentersChips(t *testing.T) {
	chips := newTestController().Chips()
	if len(chips) != 3 {
		t.Fatalf("expected 3 chips, got %d", len(chips))
	}
	// total = 3*10 + 2*5 = 40, start = (100-40)/2 = 30
	wantX := []int{30, 45, 60}
	for i, chip := range chips {
		if chip.Bounds.X != wantX[i] || chip.Bounds.Y != 30 {
			t.Fatalf("chip %d at %+v, want x=%d y=30", i, chip.Bounds, wantX[i])
		}
	}
	correct := 0
	for _, chip := range chips {
		if chip.Correct {
			correct++
			if chip.Label != "4" {
				t.Fatalf("wrong chip flagged correct: %q", chip.Label)
			}
		}
	}
	if correct != 1 {
		t.Fatalf("expected exactly one correct chip, got %d", correct)
	}
}

func TestDropCorrectChipOnTarget(t *testing.T) {
	c := newTestController()
	if got := dragTo(c, 1, Point{X: 45, Y: 10}); got != domain.OutcomeCorrect {
		t.Fatalf("expected correct, got %v", got)
	}
	if c.Dragging() {
		t.Fatalf("drag should end on release")
	}
}

func TestDropWrongChipOnTarget(t *testing.T) {
	for _, idx := range []int{0, 2} {
		c := newTestController()
		if got := dragTo(c, idx, Point{X: 40, Y: 9}); got != domain.OutcomeWrong {
			t.Fatalf("chip %d: expected wrong, got %v", idx, got)
		}
	}
}

func TestDropOutsideTargetLeavesChipWhereDropped(t *testing.T) {
	c := newTestController()
	if got := dragTo(c, 1, Point{X: 5, Y: 20}); got != domain.OutcomeNone {
		t.Fatalf("expected none, got %v", got)
	}
	chip := c.Chips()[1]
	if chip.Bounds.X != 5 || chip.Bounds.Y != 20 || chip.Dragging {
		t.Fatalf("chip should rest at drop point, got %+v", chip)
	}
}

func TestTouchingEdgeIsNotOverlap(t *testing.T) {
	c := newTestController()
	// chip right edge at x=45 touches target left edge
	if got := dragTo(c, 1, Point{X: 35, Y: 10}); got != domain.OutcomeNone {
		t.Fatalf("expected none for touching edges, got %v", got)
	}
}

func TestMoveTranslatesRigidly(t *testing.T) {
	c := newTestController()
	start := c.Chips()[0].Bounds
	c.Handle(PointerEvent{Kind: PointerDown, At: Point{X: start.X + 3, Y: start.Y + 2}})
	c.Handle(PointerEvent{Kind: PointerMove, At: Point{X: start.X + 13, Y: start.Y - 8}})
	got := c.Chips()[0].Bounds
	if got.X != start.X+10 || got.Y != start.Y-10 || got.W != start.W || got.H != start.H {
		t.Fatalf("expected rigid translation, got %+v from %+v", got, start)
	}
	others := c.Chips()
	if others[1].Bounds.X != 45 || others[2].Bounds.X != 60 {
		t.Fatalf("other chips must not move: %+v", others)
	}
}

func TestSecondPointerDownIgnoredWhileDragging(t *testing.T) {
	c := newTestController()
	first := c.Chips()[0].Bounds
	second := c.Chips()[2].Bounds
	c.Handle(PointerEvent{Kind: PointerDown, At: Point{X: first.X, Y: first.Y}})
	c.Handle(PointerEvent{Kind: PointerDown, At: Point{X: second.X, Y: second.Y}})
	c.Handle(PointerEvent{Kind: PointerMove, At: Point{X: first.X + 1, Y: first.Y}})
	chips := c.Chips()
	if !chips[0].Dragging || chips[2].Dragging {
		t.Fatalf("drag ownership must stay with first chip: %+v", chips)
	}
	if chips[2].Bounds != second {
		t.Fatalf("second chip moved: %+v", chips[2].Bounds)
	}
}

func TestMoveWithoutDragAndUpWithoutDragAreNoops(t *testing.T) {
	c := newTestController()
	before := c.Chips()
	c.Handle(PointerEvent{Kind: PointerMove, At: Point{X: 45, Y: 10}})
	if got := c.Handle(PointerEvent{Kind: PointerUp, At: Point{X: 45, Y: 10}}); got != domain.OutcomeNone {
		t.Fatalf("expected none, got %v", got)
	}
	after := c.Chips()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("chip %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestPointerDownOutsideChipsDoesNothing(t *testing.T) {
	c := newTestController()
	c.Handle(PointerEvent{Kind: PointerDown, At: Point{X: 0, Y: 0}})
	if c.Dragging() {
		t.Fatalf("expected no drag")
	}
}

func TestSetLayoutRecentersChips(t *testing.T) {
	c := newTestController()
	dragTo(c, 0, Point{X: 1, Y: 1})
	layout := testLayout()
	layout.Width = 60
	c.SetLayout(layout)
	if got := c.Chips()[0].Bounds.X; got != 10 {
		t.Fatalf("expected first chip at x=10 after relayout, got %d", got)
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 4, H: 4}
	cases := []struct {
		b    Rect
		want bool
	}{
		{Rect{X: 3, Y: 3, W: 2, H: 2}, true},
		{Rect{X: 4, Y: 0, W: 2, H: 2}, false},
		{Rect{X: 0, Y: 4, W: 2, H: 2}, false},
		{Rect{X: 1, Y: 1, W: 1, H: 1}, true},
		{Rect{X: 1, Y: 1, W: 0, H: 1}, false},
	}
	for _, tc := range cases {
		if got := a.Overlaps(tc.b); got != tc.want {
			t.Fatalf("%+v overlaps %+v = %v, want %v", a, tc.b, got, tc.want)
		}
	}
}

func TestRectContainsIsHalfOpen(t *testing.T) {
	r := Rect{X: 2, Y: 2, W: 3, H: 2}
	if !r.Contains(Point{X: 2, Y: 2}) || !r.Contains(Point{X: 4, Y: 3}) {
		t.Fatalf("expected top-left and last cell inside %+v", r)
	}
	if r.Contains(Point{X: 5, Y: 2}) || r.Contains(Point{X: 2, Y: 4}) {
		t.Fatalf("right and bottom edges must be exclusive for %+v", r)
	}
}

func TestCancelEndsDragWithoutOutcome(t *testing.T) {
	c := NewController(testLayout())
	c.Reset(domain.Question{Options: []string{"a", "b"}, Answer: "a"})
	chip := c.Chips()[0]
	c.Handle(PointerEvent{Kind: PointerDown, At: Point{X: chip.Bounds.X, Y: chip.Bounds.Y}})
	c.Cancel()
	if c.Dragging() || c.Chips()[0].Dragging {
		t.Fatal("expected no active drag after cancel")
	}
	target := c.Target()
	if out := c.Handle(PointerEvent{Kind: PointerUp, At: Point{X: target.X, Y: target.Y}}); out != domain.OutcomeNone {
		t.Fatalf("expected no outcome, got %v", out)
	}
}
