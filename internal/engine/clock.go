package engine

// Clock is a run's physical time. The step driver owns it and advances
// it exactly once per step; stages read it through the pointer they were
// built with. Independent systems in one process keep independent
// clocks.
type Clock struct {
	Time   float64
	LastDt float64
}

// Advance moves physical time forward by dt and remembers the increment.
func (c *Clock) Advance(dt float64) {
	c.Time += dt
	c.LastDt = dt
}
