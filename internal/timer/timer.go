package timer

// RoundTimer counts frames down to zero. Reaching zero ends the round and is not resumable.
type RoundTimer struct {
	start     int
	remaining int
	tickRate  int
}

// New returns a timer holding startTicks, decremented at tickRate frames per second.
func New(startTicks, tickRate int) *RoundTimer {
	if startTicks < 0 {
		startTicks = 0
	}
	if tickRate <= 0 {
		tickRate = 60
	}
	return &RoundTimer{start: startTicks, remaining: startTicks, tickRate: tickRate}
}

// Tick decrements once and reports whether the timer has expired.
func (t *RoundTimer) Tick() bool {
	if t.remaining > 0 {
		t.remaining--
	}
	return t.remaining == 0
}

// Reset restores the starting value. An expired timer stays expired.
func (t *RoundTimer) Reset() {
	if t.Expired() {
		return
	}
	t.remaining = t.start
}

func (t *RoundTimer) Remaining() int { return t.remaining }

func (t *RoundTimer) Start() int { return t.start }

func (t *RoundTimer) Expired() bool { return t.remaining == 0 }

// Seconds converts the remaining ticks to wall-clock seconds at the tick rate.
func (t *RoundTimer) Seconds() float64 {
	return float64(t.remaining) / float64(t.tickRate)
}
