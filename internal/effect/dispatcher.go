// Package effect reconstructs gadget visual effects from replay events.
// Every receiving process runs the same dispatcher over the same event and
// must produce identical output: all randomness inside a pattern generator
// derives from the event's seed, never from ambient entropy.
package effect

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aethergame/vanitycore/internal/domain"
)

// ItemSource resolves item definitions; satisfied by catalog.Catalog.
type ItemSource interface {
	Get(id string) (domain.Item, bool)
	Generation() uint64
}

// Particle is one deterministic particle spawn instruction.
type Particle struct {
	Position domain.Vec3
	Velocity domain.Vec3
	Delay    time.Duration
}

// Effect is the fully-expanded rendering plan for one replay event.
type Effect struct {
	ItemID    string
	Pattern   string
	Sound     string
	Duration  time.Duration
	Particles []Particle
}

// params is the compiled parameter set of one item's pattern, extracted from
// its property bag with clamped defaults.
type params struct {
	pattern  string
	count    int
	spread   float64 // degrees
	radius   float64
	duration time.Duration
	sound    string
}

// generator expands one pattern. rng is seeded from the replay event.
type generator func(p params, rng *rand.Rand, origin, dir domain.Vec3) []Particle

// paramCacheSize bounds the compiled-parameter cache; catalogs are small,
// this only guards against unbounded growth across reloads.
const paramCacheSize = 512

// Dispatcher maps replay events to effects via a registry of named pattern
// generators.
type Dispatcher struct {
	items    ItemSource
	patterns map[string]generator
	cache    *lru.Cache[string, params]
}

// NewDispatcher creates a dispatcher with the built-in pattern registry.
func NewDispatcher(items ItemSource) *Dispatcher {
	cache, _ := lru.New[string, params](paramCacheSize)
	return &Dispatcher{
		items:    items,
		patterns: builtinPatterns(),
		cache:    cache,
	}
}

// Dispatch expands a replay event into a renderable effect. It never fails:
// unknown items or patterns fall back to a minimal neutral effect, and a
// panicking generator is recovered at this boundary.
func (d *Dispatcher) Dispatch(ev domain.ReplayEvent) Effect {
	p, ok := d.compiledParams(ev.ItemID)
	if !ok {
		slog.Debug("Replay event for unknown item, using fallback effect", "item", ev.ItemID)
		p = fallbackParams()
	}

	gen, ok := d.patterns[p.pattern]
	if !ok {
		slog.Debug("Unknown effect pattern, using fallback", "item", ev.ItemID, "pattern", p.pattern)
		gen = fallbackGenerator
		p.pattern = PatternFallback
	}

	rng := rand.New(rand.NewSource(ev.Seed))
	particles := d.safeGenerate(gen, p, rng, ev.Origin, ev.Direction)

	return Effect{
		ItemID:    ev.ItemID,
		Pattern:   p.pattern,
		Sound:     p.sound,
		Duration:  p.duration,
		Particles: particles,
	}
}

// safeGenerate contains generator failures: a panic yields the fallback
// pattern instead of propagating.
func (d *Dispatcher) safeGenerate(gen generator, p params, rng *rand.Rand, origin, dir domain.Vec3) (particles []Particle) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Effect pattern generator panicked, substituting fallback",
				"pattern", p.pattern, "panic", r)
			particles = fallbackGenerator(fallbackParams(), rng, origin, dir)
		}
	}()
	return gen(p, rng, origin, dir)
}

// compiledParams returns the item's pattern parameters, cached per catalog
// generation so MergeProperties and reloads invalidate naturally.
func (d *Dispatcher) compiledParams(itemID string) (params, bool) {
	key := fmt.Sprintf("%d:%s", d.items.Generation(), itemID)
	if p, ok := d.cache.Get(key); ok {
		return p, true
	}

	item, ok := d.items.Get(itemID)
	if !ok {
		return params{}, false
	}
	p := params{
		pattern:  item.Props.String(domain.PropPattern, PatternFallback),
		count:    item.Props.Int(domain.PropCount, 20, 1, 512),
		spread:   item.Props.Float(domain.PropSpread, 30, 0, 180),
		radius:   item.Props.Float(domain.PropRadius, 1.0, 0.1, 32),
		duration: item.Props.Duration(domain.PropDuration, 2*time.Second, 100*time.Millisecond, 30*time.Second),
		sound:    item.Props.String(domain.PropSound, ""),
	}
	d.cache.Add(key, p)
	return p, true
}

func fallbackParams() params {
	return params{
		pattern:  PatternFallback,
		count:    8,
		spread:   30,
		radius:   0.5,
		duration: time.Second,
	}
}
