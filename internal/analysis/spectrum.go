package analysis

// Spectrum is the one-sided magnitude spectrum of a recorded series,
// taken at the mean record cadence. Acoustic stepping makes the true
// cadence wobble a little; the mean is close enough to place a peak.
type Spectrum struct {
	Power []float64
	Df    float64
}

// NewSpectrum analyzes one recorded column. The mean is removed first
// so the zero bin does not swamp the oscillation of interest. Returns
// nil when the series is too short or degenerate to transform.
func NewSpectrum(times, values []float64) *Spectrum {
	if len(values) < 4 || len(times) != len(values) {
		return nil
	}
	span := times[len(times)-1] - times[0]
	if span <= 0 {
		return nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	detrended := make([]float64, len(values))
	for i, v := range values {
		detrended[i] = v - mean
	}

	padded := PadPow2(detrended)
	dt := span / float64(len(values)-1)
	return &Spectrum{
		Power: PowerSpectrum(padded),
		Df:    1 / (dt * float64(len(padded))),
	}
}

// Dominant returns the strongest nonzero-frequency component.
func (s *Spectrum) Dominant() (freq, power float64) {
	maxIdx := 0
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > power {
			power = s.Power[i]
			maxIdx = i
		}
	}
	return float64(maxIdx) * s.Df, power
}
