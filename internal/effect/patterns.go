package effect

import (
	"math"
	"math/rand"
	"time"

	"github.com/aethergame/vanitycore/internal/domain"
)

// Built-in pattern names. The catalog's "pattern" property selects one.
const (
	PatternBurst    = "burst"
	PatternArc      = "arc"
	PatternRing     = "ring"
	PatternHelix    = "helix"
	PatternOrbit    = "orbit"
	PatternBeacon   = "beacon"
	PatternFallback = "shimmer"
)

func builtinPatterns() map[string]generator {
	return map[string]generator{
		PatternBurst:    burstPattern,
		PatternArc:      arcPattern,
		PatternRing:     ringPattern,
		PatternHelix:    helixPattern,
		PatternOrbit:    orbitPattern,
		PatternBeacon:   beaconPattern,
		PatternFallback: fallbackGenerator,
	}
}

// burstPattern sprays particles in a cone around the facing direction.
func burstPattern(p params, rng *rand.Rand, origin, dir domain.Vec3) []Particle {
	forward := normalize(dir)
	spreadRad := p.spread * math.Pi / 180

	out := make([]Particle, 0, p.count)
	for i := 0; i < p.count; i++ {
		yaw := (rng.Float64()*2 - 1) * spreadRad
		pitch := (rng.Float64()*2 - 1) * spreadRad
		speed := 2 + rng.Float64()*3
		out = append(out, Particle{
			Position: origin,
			Velocity: scale(rotate(forward, yaw, pitch), speed),
		})
	}
	return out
}

// arcPattern sweeps particles along a horizontal arc in front of the avatar.
func arcPattern(p params, rng *rand.Rand, origin, dir domain.Vec3) []Particle {
	forward := normalize(dir)
	base := math.Atan2(forward.Z, forward.X)
	arcRad := math.Max(p.spread, 10) * math.Pi / 180

	out := make([]Particle, 0, p.count)
	for i := 0; i < p.count; i++ {
		frac := float64(i) / float64(maxInt(p.count-1, 1))
		angle := base - arcRad/2 + frac*arcRad
		jitter := (rng.Float64() - 0.5) * 0.1
		out = append(out, Particle{
			Position: domain.Vec3{
				X: origin.X + math.Cos(angle)*p.radius,
				Y: origin.Y + 1 + jitter,
				Z: origin.Z + math.Sin(angle)*p.radius,
			},
			Velocity: domain.Vec3{Y: 0.5 + rng.Float64()*0.5},
			Delay:    time.Duration(frac * float64(p.duration) / 2),
		})
	}
	return out
}

// ringPattern expands an even circle outward from the origin.
func ringPattern(p params, rng *rand.Rand, origin, _ domain.Vec3) []Particle {
	out := make([]Particle, 0, p.count)
	for i := 0; i < p.count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(p.count)
		speed := 1.5 + rng.Float64()*0.5
		out = append(out, Particle{
			Position: origin,
			Velocity: domain.Vec3{
				X: math.Cos(angle) * speed,
				Y: 0.1,
				Z: math.Sin(angle) * speed,
			},
		})
	}
	return out
}

// helixPattern winds particles upward around the avatar.
func helixPattern(p params, rng *rand.Rand, origin, _ domain.Vec3) []Particle {
	turns := 3.0
	height := 2.5

	out := make([]Particle, 0, p.count)
	for i := 0; i < p.count; i++ {
		frac := float64(i) / float64(maxInt(p.count-1, 1))
		angle := frac * turns * 2 * math.Pi
		r := p.radius * (1 - frac*0.3)
		out = append(out, Particle{
			Position: domain.Vec3{
				X: origin.X + math.Cos(angle)*r,
				Y: origin.Y + frac*height,
				Z: origin.Z + math.Sin(angle)*r,
			},
			Velocity: domain.Vec3{Y: 0.3 + rng.Float64()*0.2},
			Delay:    time.Duration(frac * float64(p.duration)),
		})
	}
	return out
}

// orbitPattern places particles on a circle that the renderer spins for the
// effect's duration.
func orbitPattern(p params, rng *rand.Rand, origin, _ domain.Vec3) []Particle {
	phase := rng.Float64() * 2 * math.Pi

	out := make([]Particle, 0, p.count)
	for i := 0; i < p.count; i++ {
		angle := phase + 2*math.Pi*float64(i)/float64(p.count)
		out = append(out, Particle{
			Position: domain.Vec3{
				X: origin.X + math.Cos(angle)*p.radius,
				Y: origin.Y + 1,
				Z: origin.Z + math.Sin(angle)*p.radius,
			},
			Velocity: domain.Vec3{
				X: -math.Sin(angle) * 0.8,
				Z: math.Cos(angle) * 0.8,
			},
		})
	}
	return out
}

// beaconPattern shoots a vertical column of particles above the avatar.
func beaconPattern(p params, rng *rand.Rand, origin, _ domain.Vec3) []Particle {
	out := make([]Particle, 0, p.count)
	for i := 0; i < p.count; i++ {
		frac := float64(i) / float64(maxInt(p.count-1, 1))
		out = append(out, Particle{
			Position: domain.Vec3{
				X: origin.X + (rng.Float64()-0.5)*0.3,
				Y: origin.Y,
				Z: origin.Z + (rng.Float64()-0.5)*0.3,
			},
			Velocity: domain.Vec3{Y: 4 + rng.Float64()*2},
			Delay:    time.Duration(frac * float64(p.duration) / 4),
		})
	}
	return out
}

// fallbackGenerator is the visually-neutral placeholder: a small shimmer at
// the origin. Used for unknown patterns and recovered generator failures so
// an activation is never rendered as nothing.
func fallbackGenerator(p params, rng *rand.Rand, origin, _ domain.Vec3) []Particle {
	count := p.count
	if count <= 0 || count > 16 {
		count = 8
	}
	out := make([]Particle, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, Particle{
			Position: domain.Vec3{
				X: origin.X + (rng.Float64()-0.5)*0.5,
				Y: origin.Y + 1 + (rng.Float64()-0.5)*0.5,
				Z: origin.Z + (rng.Float64()-0.5)*0.5,
			},
			Velocity: domain.Vec3{Y: 0.2},
		})
	}
	return out
}

func normalize(v domain.Vec3) domain.Vec3 {
	mag := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if mag == 0 {
		return domain.Vec3{X: 1}
	}
	return domain.Vec3{X: v.X / mag, Y: v.Y / mag, Z: v.Z / mag}
}

func scale(v domain.Vec3, s float64) domain.Vec3 {
	return domain.Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// rotate applies a yaw around Y then a pitch tilt to a unit vector.
func rotate(v domain.Vec3, yaw, pitch float64) domain.Vec3 {
	cy, sy := math.Cos(yaw), math.Sin(yaw)
	x := v.X*cy - v.Z*sy
	z := v.X*sy + v.Z*cy
	cp, sp := math.Cos(pitch), math.Sin(pitch)
	y := v.Y*cp + sp
	return normalize(domain.Vec3{X: x, Y: y, Z: z})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
