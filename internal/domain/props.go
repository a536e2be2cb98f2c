package domain

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// Props is an ordered string→string property bag. It is the configuration
// mechanism for both catalog items and gadget patterns: deliberately loose
// and data-driven, with typed accessors that clamp to defaults on parse
// failure instead of erroring.
//
// Key order is preserved so presentation layers render properties stably.
type Props struct {
	keys   []string
	values map[string]string
}

// NewProps builds a bag from a plain map. Keys are ingested in sorted order
// so two bags built from the same map compare equal.
func NewProps(m map[string]string) Props {
	p := Props{}
	if len(m) == 0 {
		return p
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	p.keys = keys
	p.values = make(map[string]string, len(m))
	for _, k := range keys {
		p.values[k] = m[k]
	}
	return p
}

// Len returns the number of properties.
func (p Props) Len() int { return len(p.keys) }

// Keys returns the property keys in insertion order.
func (p Props) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Get returns the raw value for key and whether it was present.
func (p Props) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Clone returns an independent copy.
func (p Props) Clone() Props {
	if len(p.keys) == 0 {
		return Props{}
	}
	out := Props{
		keys:   make([]string, len(p.keys)),
		values: make(map[string]string, len(p.values)),
	}
	copy(out.keys, p.keys)
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// Merge layers overrides on top of p and returns the result. Overridden keys
// keep their original position; new keys append in the overrides' order.
// Neither input is mutated.
func (p Props) Merge(overrides Props) Props {
	out := p.Clone()
	for _, k := range overrides.keys {
		v := overrides.values[k]
		if out.values == nil {
			out.values = make(map[string]string)
		}
		if _, exists := out.values[k]; !exists {
			out.keys = append(out.keys, k)
		}
		out.values[k] = v
	}
	return out
}

// String returns the value for key, or def when absent.
func (p Props) String(key, def string) string {
	if v, ok := p.values[key]; ok {
		return v
	}
	return def
}

// Int returns the value for key parsed as an integer, clamped to [min, max].
// Absent or unparseable values yield def.
func (p Props) Int(key string, def, min, max int) int {
	v, ok := p.values[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// Float returns the value for key parsed as a float, clamped to [min, max].
// Absent or unparseable values yield def.
func (p Props) Float(key string, def, min, max float64) float64 {
	v, ok := p.values[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}

// Duration returns the value for key parsed as a Go duration string, clamped
// to [min, max]. Absent, unparseable, or non-positive values yield def.
// Durations are always written with an explicit unit suffix ("1500ms", "3s");
// bare numbers are rejected rather than guessed at.
func (p Props) Duration(key string, def, min, max time.Duration) time.Duration {
	v, ok := p.values[key]
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

// MarshalJSON encodes the bag as a JSON object. Encoding does not preserve
// key order (JSON objects are unordered); order is an in-memory concern only.
func (p Props) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(p.keys))
	for k, v := range p.values {
		m[k] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a JSON object into the bag, keys sorted.
func (p *Props) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = NewProps(m)
	return nil
}
