package domain

import "time"

// ItemNone is the reserved sentinel meaning "nothing equipped". Equipping it
// clears the category. It never appears in the catalog.
const ItemNone = "none"

// PackBase is the content pack assigned to definitions that do not declare one.
const PackBase = "base"

// Property keys understood by the core. The property bag is free-form; these
// are the keys the activation gateway and effect dispatcher look for.
const (
	PropPattern  = "pattern"
	PropCooldown = "cooldown" // Go duration string, e.g. "1500ms", "3s"
	PropDuration = "duration" // effect lifetime, Go duration string
	PropCount    = "count"
	PropSpread   = "spread_deg"
	PropRadius   = "radius"
	PropSound    = "sound"
)

// Cooldown bounds applied when parsing the cooldown property.
const (
	DefaultGadgetCooldown = 5 * time.Second
	MinGadgetCooldown     = 50 * time.Millisecond
	MaxGadgetCooldown     = time.Hour
)

// Denial reason codes carried by ActivationDenied messages.
const (
	DenyNotEntitled = "not_entitled"
)
