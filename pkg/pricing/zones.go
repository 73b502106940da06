// Package pricing implements the deterministic rate engine: zone resolution,
// billable-weight normalization, slab-based price calculation, and quote
// generation across providers.
package pricing

import "strings"

// ZoneRelationship is the coarse geographic category of an origin/destination
// pair. It drives which pricing rule and delivery window apply.
type ZoneRelationship string

const (
	WithinCity         ZoneRelationship = "within_city"
	MetroToMetro       ZoneRelationship = "metro_to_metro"
	MetroToNonMetro    ZoneRelationship = "metro_to_non_metro"
	NonMetroToMetro    ZoneRelationship = "non_metro_to_metro"
	NonMetroToNonMetro ZoneRelationship = "non_metro_to_non_metro"
)

// Zone is a named region with member cities. Static reference data.
type Zone struct {
	Name       string
	Cities     []string
	States     []string
	IsMetro    bool
	IsPriority bool
}

var zones = []Zone{
	{Name: "Mumbai Metro", Cities: []string{"Mumbai", "Navi Mumbai", "Thane"}, States: []string{"Maharashtra"}, IsMetro: true},
	{Name: "Delhi NCR", Cities: []string{"Delhi", "New Delhi", "Gurgaon", "Gurugram", "Noida", "Faridabad", "Ghaziabad"}, States: []string{"Delhi", "Haryana", "Uttar Pradesh"}, IsMetro: true},
	{Name: "Bengaluru Metro", Cities: []string{"Bengaluru", "Bangalore"}, States: []string{"Karnataka"}, IsMetro: true},
	{Name: "Chennai Metro", Cities: []string{"Chennai"}, States: []string{"Tamil Nadu"}, IsMetro: true},
	{Name: "Kolkata Metro", Cities: []string{"Kolkata", "Howrah"}, States: []string{"West Bengal"}, IsMetro: true},
	{Name: "Hyderabad Metro", Cities: []string{"Hyderabad", "Secunderabad"}, States: []string{"Telangana"}, IsMetro: true},
	{Name: "Pune Metro", Cities: []string{"Pune", "Pimpri-Chinchwad"}, States: []string{"Maharashtra"}, IsMetro: true},
	{Name: "Ahmedabad Metro", Cities: []string{"Ahmedabad", "Gandhinagar"}, States: []string{"Gujarat"}, IsMetro: true},
	{Name: "Northeast & Remote", Cities: []string{"Guwahati", "Shillong", "Imphal", "Agartala", "Aizawl", "Itanagar", "Srinagar", "Leh"}, States: []string{"Assam", "Meghalaya", "Manipur", "Tripura", "Mizoram", "Arunachal Pradesh", "Jammu and Kashmir", "Ladakh"}, IsMetro: false, IsPriority: true},
}

// ResolveZone returns the first zone containing the city, or nil when the
// city is not in any zone table.
func ResolveZone(city string) *Zone {
	c := strings.TrimSpace(city)
	for i := range zones {
		for _, member := range zones[i].Cities {
			if strings.EqualFold(member, c) {
				return &zones[i]
			}
		}
	}
	return nil
}

// Relationship classifies an origin/destination city pair. Identical city
// strings short-circuit to WithinCity before any zone lookup. A city with no
// matching zone is treated as non-metro: the conservative, most expensive
// bracket rather than an error.
func Relationship(fromCity, toCity string) ZoneRelationship {
	if strings.EqualFold(strings.TrimSpace(fromCity), strings.TrimSpace(toCity)) {
		return WithinCity
	}

	fromMetro := false
	if z := ResolveZone(fromCity); z != nil {
		fromMetro = z.IsMetro
	}
	toMetro := false
	if z := ResolveZone(toCity); z != nil {
		toMetro = z.IsMetro
	}

	switch {
	case fromMetro && toMetro:
		return MetroToMetro
	case fromMetro && !toMetro:
		return MetroToNonMetro
	case !fromMetro && toMetro:
		return NonMetroToMetro
	default:
		return NonMetroToNonMetro
	}
}
