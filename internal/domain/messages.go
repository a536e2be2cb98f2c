package domain

// Vec3 is a position or direction in avatar space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LoadoutSnapshot carries the full equip state of one account. It is sent to
// the owning connection and to every observer whenever the loadout changes,
// and once to a new observer when it starts watching. The map is complete;
// recipients replace local state rather than patching it.
type LoadoutSnapshot struct {
	Account  string              `json:"account"`
	Equipped map[Category]string `json:"equipped"`
}

// EntitlementSnapshot carries the full grant state of one account. Sent to
// the owning connection only, never to observers.
type EntitlementSnapshot struct {
	Account string   `json:"account"`
	Packs   []string `json:"packs"`
	Items   []string `json:"items"`
}

// ActivationDenied tells the requesting connection a gadget activation was
// refused. Cooldown violations are never reported this way; they are dropped
// silently as expected double-click races.
type ActivationDenied struct {
	ItemID string `json:"item_id"`
	Reason string `json:"reason"`
}

// ReplayEvent is the minimal data every observer needs to reconstruct an
// activated gadget effect identically. It is ephemeral: consumed once per
// receiving process and never persisted.
type ReplayEvent struct {
	ItemID    string `json:"item_id"`
	Origin    Vec3   `json:"origin"`
	Direction Vec3   `json:"direction"`
	Seed      int64  `json:"seed"`
	Timestamp int64  `json:"timestamp"` // server emission time, unix millis
}

// Outbound message type names, used as SSE event types.
const (
	MsgLoadoutSnapshot     = "loadout.snapshot"
	MsgEntitlementSnapshot = "entitlement.snapshot"
	MsgActivationDenied    = "activation.denied"
	MsgReplayEvent         = "activation.replay"
)
