package domain

// AccountState is the persisted, per-account slice of the cosmetics core:
// the equipped loadout plus entitlement grants. It is written at session
// boundaries (leave) and read back on join; everything else lives in memory.
type AccountState struct {
	Account  string              `json:"account"`
	Equipped map[Category]string `json:"equipped,omitempty"`
	Packs    []string            `json:"packs,omitempty"`
	Items    []string            `json:"items,omitempty"`
}
