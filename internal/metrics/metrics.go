package metrics

// Metric samples one scalar diagnostic of a running simulation. The
// driver calls Observe once per step; Value reports the current reading
// for recording.
type Metric interface {
	Name() string
	Observe(t float64)
	Value() float64
	Reset()
}
