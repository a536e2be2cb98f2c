package catalog

import "github.com/aethergame/vanitycore/internal/domain"

// SeedItems returns the built-in default catalog, used when ReloadAll is
// asked to include the seed set. Deployments that ship their own catalog can
// reload without it.
func SeedItems() []domain.Item {
	return []domain.Item{
		{
			ID:          "vanity:aura_ember",
			DisplayName: "Ember Aura",
			Description: "A faint trail of drifting embers.",
			Category:    domain.CategoryEffect,
			IconRef:     "icons/aura_ember",
			Props: domain.NewProps(map[string]string{
				domain.PropPattern: "orbit",
				domain.PropCount:   "12",
				domain.PropRadius:  "0.8",
			}),
			Pack: domain.PackBase,
		},
		{
			ID:          "vanity:hat_dragon",
			DisplayName: "Dragon Hat",
			Description: "Scaly. Slightly singed.",
			Category:    domain.CategoryHeadwear,
			IconRef:     "icons/hat_dragon",
			Pack:        domain.PackBase,
		},
		{
			ID:          "vanity:hat_crown",
			Category:    domain.CategoryHeadwear,
			DisplayName: "Crown",
			IconRef:     "icons/hat_crown",
			Pack:        domain.PackBase,
		},
		{
			ID:          "vanity:cape_aurora",
			DisplayName: "Aurora Cape",
			Category:    domain.CategoryCape,
			IconRef:     "icons/cape_aurora",
			Pack:        domain.PackBase,
		},
		{
			ID:          "vanity:pet_wisp",
			DisplayName: "Wisp",
			Description: "A small light that follows you around.",
			Category:    domain.CategoryCompanion,
			IconRef:     "icons/pet_wisp",
			Pack:        domain.PackBase,
		},
		{
			ID:          "vanity:gadget_confetti_popper",
			DisplayName: "Confetti Popper",
			Description: "Pop! Paper everywhere.",
			Category:    domain.CategoryGadget,
			IconRef:     "icons/gadget_confetti",
			Props: domain.NewProps(map[string]string{
				domain.PropPattern:  "burst",
				domain.PropCooldown: "1000ms",
				domain.PropDuration: "2s",
				domain.PropCount:    "40",
				domain.PropSpread:   "35",
				domain.PropSound:    "sounds/pop",
			}),
			Pack: domain.PackBase,
		},
		{
			ID:          "vanity:gadget_firework",
			DisplayName: "Pocket Firework",
			Category:    domain.CategoryGadget,
			IconRef:     "icons/gadget_firework",
			Props: domain.NewProps(map[string]string{
				domain.PropPattern:  "ring",
				domain.PropCooldown: "3s",
				domain.PropDuration: "2500ms",
				domain.PropCount:    "60",
				domain.PropRadius:   "2.5",
				domain.PropSound:    "sounds/firework",
			}),
			Pack: domain.PackBase,
		},
	}
}
