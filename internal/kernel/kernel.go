package kernel

import "math"

// Kernel is a smoothing kernel with compact support. W and DW take the
// inter-particle distance r and return the kernel value and its radial
// derivative dW/dr. Both are zero at and beyond CutoffRadius.
type Kernel interface {
	W(r float64) float64
	DW(r float64) float64
	W0() float64
	CutoffRadius() float64
	SmoothingLength() float64
}

// WendlandC2 is the C2-continuous Wendland kernel with support 2h,
// normalized for two dimensions.
type WendlandC2 struct {
	h     float64
	alpha float64
}

func NewWendlandC2(h float64) *WendlandC2 {
	return &WendlandC2{h: h, alpha: 7.0 / (4.0 * math.Pi * h * h)}
}

func (k *WendlandC2) W(r float64) float64 {
	q := r / k.h
	if q >= 2 {
		return 0
	}
	s := 1 - 0.5*q
	s2 := s * s
	return k.alpha * s2 * s2 * (2*q + 1)
}

func (k *WendlandC2) DW(r float64) float64 {
	q := r / k.h
	if q >= 2 {
		return 0
	}
	s := 1 - 0.5*q
	return -5 * q * k.alpha * s * s * s / k.h
}

func (k *WendlandC2) W0() float64              { return k.alpha }
func (k *WendlandC2) CutoffRadius() float64    { return 2 * k.h }
func (k *WendlandC2) SmoothingLength() float64 { return k.h }

// CubicSpline is the classic M4 cubic spline kernel with support 2h,
// normalized for two dimensions.
type CubicSpline struct {
	h     float64
	sigma float64
}

func NewCubicSpline(h float64) *CubicSpline {
	return &CubicSpline{h: h, sigma: 10.0 / (7.0 * math.Pi * h * h)}
}

func (k *CubicSpline) W(r float64) float64 {
	q := r / k.h
	switch {
	case q < 1:
		return k.sigma * (1 - 1.5*q*q + 0.75*q*q*q)
	case q < 2:
		d := 2 - q
		return k.sigma * 0.25 * d * d * d
	default:
		return 0
	}
}

func (k *CubicSpline) DW(r float64) float64 {
	q := r / k.h
	switch {
	case q < 1:
		return k.sigma * (-3*q + 2.25*q*q) / k.h
	case q < 2:
		d := 2 - q
		return -k.sigma * 0.75 * d * d / k.h
	default:
		return 0
	}
}

func (k *CubicSpline) W0() float64              { return k.sigma }
func (k *CubicSpline) CutoffRadius() float64    { return 2 * k.h }
func (k *CubicSpline) SmoothingLength() float64 { return k.h }
