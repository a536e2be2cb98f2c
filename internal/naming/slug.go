// Package naming derives presentation names from item identifiers.
package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.English)

// DisplayNameFromID turns a namespaced item id into a human-readable fallback
// display name: "vanity:hat_dragon" becomes "Hat Dragon". Used when a catalog
// record declares no display name of its own.
func DisplayNameFromID(id string) string {
	name := id
	if idx := strings.LastIndex(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return id
	}
	return titler.String(name)
}

// Slug normalizes a display name back into a lowercase identifier fragment.
func Slug(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "_")
}
