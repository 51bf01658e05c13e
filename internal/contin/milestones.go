package contin

// milestoneCursor walks an ordered sequence of parameter values the trace
// must not step over. Exhaustion is an explicit state, not a signal.
type milestoneCursor struct {
	values []float64
	next   int
}

func newMilestoneCursor(values []float64) (*milestoneCursor, error) {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return nil, ErrBadMilestones
		}
	}
	return &milestoneCursor{values: values}, nil
}

func (c *milestoneCursor) active() bool {
	return c != nil && c.next < len(c.values)
}

// current returns the pending milestone. Only valid while active.
func (c *milestoneCursor) current() float64 {
	return c.values[c.next]
}

// clamp caps a trial parameter at the pending milestone.
func (c *milestoneCursor) clamp(lambda float64) float64 {
	if !c.active() {
		return lambda
	}
	if m := c.current(); lambda > m {
		return m
	}
	return lambda
}

// advance consumes the pending milestone and reports whether the sequence
// is now exhausted.
func (c *milestoneCursor) advance() (exhausted bool) {
	c.next++
	return c.next >= len(c.values)
}
