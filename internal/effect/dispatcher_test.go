package effect

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethergame/vanitycore/internal/domain"
)

// fakeSource is a minimal ItemSource with a settable generation.
type fakeSource struct {
	items map[string]domain.Item
	gen   uint64
}

func (f *fakeSource) Get(id string) (domain.Item, bool) {
	item, ok := f.items[id]
	return item, ok
}

func (f *fakeSource) Generation() uint64 { return f.gen }

func newFakeSource() *fakeSource {
	return &fakeSource{
		gen: 1,
		items: map[string]domain.Item{
			"gadget_burst": {
				ID:       "gadget_burst",
				Category: domain.CategoryGadget,
				Props: domain.NewProps(map[string]string{
					domain.PropPattern:  "burst",
					domain.PropCount:    "25",
					domain.PropSpread:   "40",
					domain.PropDuration: "1500ms",
					domain.PropSound:    "pop",
				}),
			},
			"gadget_mystery": {
				ID:       "gadget_mystery",
				Category: domain.CategoryGadget,
				Props: domain.NewProps(map[string]string{
					domain.PropPattern: "supernova",
				}),
			},
			"gadget_bare": {
				ID:       "gadget_bare",
				Category: domain.CategoryGadget,
			},
		},
	}
}

func testEvent(itemID string, seed int64) domain.ReplayEvent {
	return domain.ReplayEvent{
		ItemID:    itemID,
		Origin:    domain.Vec3{X: 1, Y: 0, Z: 2},
		Direction: domain.Vec3{X: 0, Y: 0, Z: 1},
		Seed:      seed,
		Timestamp: 1700000000000,
	}
}

func TestDispatchIsDeterministicPerSeed(t *testing.T) {
	src := newFakeSource()
	a := NewDispatcher(src).Dispatch(testEvent("gadget_burst", 12345))
	b := NewDispatcher(src).Dispatch(testEvent("gadget_burst", 12345))

	// Two independent dispatchers, same event: bit-identical output.
	assert.Equal(t, a, b)

	c := NewDispatcher(src).Dispatch(testEvent("gadget_burst", 54321))
	assert.NotEqual(t, a.Particles, c.Particles, "different seeds diverge")
}

func TestDispatchUsesItemProperties(t *testing.T) {
	src := newFakeSource()
	out := NewDispatcher(src).Dispatch(testEvent("gadget_burst", 7))

	assert.Equal(t, "burst", out.Pattern)
	assert.Equal(t, "pop", out.Sound)
	assert.Equal(t, 1500*time.Millisecond, out.Duration)
	assert.Len(t, out.Particles, 25)
}

func TestDispatchUnknownItemFallsBack(t *testing.T) {
	src := newFakeSource()
	out := NewDispatcher(src).Dispatch(testEvent("ghost", 7))

	assert.Equal(t, PatternFallback, out.Pattern)
	assert.NotEmpty(t, out.Particles, "fallback still renders something")
}

func TestDispatchUnknownPatternFallsBack(t *testing.T) {
	src := newFakeSource()
	out := NewDispatcher(src).Dispatch(testEvent("gadget_mystery", 7))

	assert.Equal(t, PatternFallback, out.Pattern)
	assert.NotEmpty(t, out.Particles)
}

func TestDispatchDefaultsWithoutProperties(t *testing.T) {
	src := newFakeSource()
	out := NewDispatcher(src).Dispatch(testEvent("gadget_bare", 7))

	assert.Equal(t, PatternFallback, out.Pattern)
	assert.Equal(t, 2*time.Second, out.Duration)
}

func TestGeneratorPanicIsContained(t *testing.T) {
	src := newFakeSource()
	d := NewDispatcher(src)
	d.patterns["burst"] = func(params, *rand.Rand, domain.Vec3, domain.Vec3) []Particle {
		panic("boom")
	}

	var out Effect
	require.NotPanics(t, func() {
		out = d.Dispatch(testEvent("gadget_burst", 7))
	})
	assert.NotEmpty(t, out.Particles, "recovered failure yields the fallback, never nothing")
}

func TestParamCacheInvalidatedByGeneration(t *testing.T) {
	src := newFakeSource()
	d := NewDispatcher(src)

	out := d.Dispatch(testEvent("gadget_burst", 7))
	assert.Len(t, out.Particles, 25)

	// The catalog mutates: same id, new property bag, new generation.
	item := src.items["gadget_burst"]
	item.Props = item.Props.Merge(domain.NewProps(map[string]string{domain.PropCount: "10"}))
	src.items["gadget_burst"] = item
	src.gen++

	out = d.Dispatch(testEvent("gadget_burst", 7))
	assert.Len(t, out.Particles, 10, "stale cached params must not survive a reload")
}

func TestAllBuiltinPatternsProduceParticles(t *testing.T) {
	for name := range builtinPatterns() {
		src := &fakeSource{
			gen: 1,
			items: map[string]domain.Item{
				"g": {ID: "g", Category: domain.CategoryGadget,
					Props: domain.NewProps(map[string]string{domain.PropPattern: name})},
			},
		}
		out := NewDispatcher(src).Dispatch(testEvent("g", 99))
		assert.NotEmpty(t, out.Particles, name)
		assert.Equal(t, name, out.Pattern)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	v := normalize(domain.Vec3{})
	assert.Equal(t, domain.Vec3{X: 1}, v)
}
