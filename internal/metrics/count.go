package metrics

import (
	"github.com/resolventdk/gosph/internal/body"
)

// ParticleCount reads the real particle count, the quantity injection
// grows.
type ParticleCount struct {
	name   string
	body   *body.Body
	latest int
}

func NewParticleCount(b *body.Body) *ParticleCount {
	return &ParticleCount{name: "particles", body: b}
}

func (p *ParticleCount) Name() string { return p.name }

func (p *ParticleCount) Observe(t float64) {
	p.latest = p.body.Particles.TotalReal
}

func (p *ParticleCount) Value() float64 { return float64(p.latest) }

func (p *ParticleCount) Reset() { p.latest = 0 }
