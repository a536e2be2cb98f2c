package domain

// Category classifies where a cosmetic item lives on an avatar.
// An account equips at most one item per category.
type Category string

const (
	CategoryEffect    Category = "effect"
	CategoryHeadwear  Category = "headwear"
	CategoryCape      Category = "cape"
	CategoryCompanion Category = "companion"
	CategoryGadget    Category = "gadget"
)

// KnownCategories returns the built-in categories in presentation order.
// The catalog accepts definitions in categories beyond these; the list is
// only used for input validation and icon fallbacks.
func KnownCategories() []Category {
	return []Category{
		CategoryEffect,
		CategoryHeadwear,
		CategoryCape,
		CategoryCompanion,
		CategoryGadget,
	}
}

// IsKnownCategory reports whether c is one of the built-in categories.
func IsKnownCategory(c Category) bool {
	switch c {
	case CategoryEffect, CategoryHeadwear, CategoryCape, CategoryCompanion, CategoryGadget:
		return true
	}
	return false
}

// Item is an immutable cosmetic item definition.
// Mutating operations on the catalog replace the whole value; callers must
// never modify an Item obtained from the catalog in place.
type Item struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	IconRef     string   `json:"icon_ref,omitempty"`
	Props       Props    `json:"properties,omitempty"`
	Pack        string   `json:"pack"`
}

// IsGadget reports whether the item is active-use rather than worn.
func (i Item) IsGadget() bool {
	return i.Category == CategoryGadget
}

// Clone returns a deep copy safe to hand to callers.
func (i Item) Clone() Item {
	out := i
	out.Props = i.Props.Clone()
	return out
}
