package pricing

import (
	"fmt"
	"sort"
	"time"
)

// ServiceTier identifies the delivery speed a shipper asks for.
type ServiceTier string

const (
	ServiceStandard  ServiceTier = "standard"
	ServiceExpress   ServiceTier = "express"
	ServiceOvernight ServiceTier = "overnight"
)

// TierSpec holds the static ceilings and features of one service tier.
type TierSpec struct {
	Tier           ServiceTier
	MaxWeightKg    float64
	MaxDimensionCm float64
	Features       []string
}

var tierSpecs = map[ServiceTier]TierSpec{
	ServiceStandard: {
		Tier:           ServiceStandard,
		MaxWeightKg:    50,
		MaxDimensionCm: 150,
		Features:       []string{"doorstep_delivery", "cod_available"},
	},
	ServiceExpress: {
		Tier:           ServiceExpress,
		MaxWeightKg:    25,
		MaxDimensionCm: 120,
		Features:       []string{"doorstep_delivery", "cod_available", "priority_handling"},
	},
	ServiceOvernight: {
		Tier:           ServiceOvernight,
		MaxWeightKg:    10,
		MaxDimensionCm: 100,
		Features:       []string{"doorstep_delivery", "priority_handling", "next_day"},
	},
}

// TierSpecFor returns the spec for a tier, false if the tier is unknown.
func TierSpecFor(tier ServiceTier) (TierSpec, bool) {
	spec, ok := tierSpecs[tier]
	return spec, ok
}

// Provider is one courier in the rate card.
type Provider struct {
	Code        string
	Name        string
	Active      bool
	Reliability float64 // 0..5 rating used for the recommendation rule
	COD         CODChargeRule
}

// CODChargeType selects how cash-on-delivery is charged.
type CODChargeType string

const (
	CODPercentage CODChargeType = "percentage"
	CODFixed      CODChargeType = "fixed"
)

// CODChargeRule is a provider's COD charge: a percentage of declared value
// with a floor, or a fixed amount.
type CODChargeRule struct {
	Type      CODChargeType
	Percent   float64
	MinCharge float64
	Flat      float64
}

// Amount returns the COD charge for a declared value.
func (r CODChargeRule) Amount(declaredValue float64) float64 {
	if r.Type == CODFixed {
		return r.Flat
	}
	charge := declaredValue * r.Percent / 100
	if charge < r.MinCharge {
		charge = r.MinCharge
	}
	return charge
}

// WeightSlab is one bracket of a pricing rule. Lookup is first slab where the
// billable weight falls in [MinKg, MaxKg]; slabs of a rule must be contiguous.
type WeightSlab struct {
	MinKg            float64
	MaxKg            float64
	BasePrice        float64
	AdditionalPerKg  float64 // overage price, measured from the slab's own floor
	FuelSurchargePct float64
}

// Contains reports whether the billable weight falls in this slab.
func (s WeightSlab) Contains(weightKg float64) bool {
	return weightKg >= s.MinKg && weightKg <= s.MaxKg
}

// PricingRule scopes a slab table to one provider, service tier, and zone
// relationship.
type PricingRule struct {
	Provider     string
	Service      ServiceTier
	Relationship ZoneRelationship
	Slabs        []WeightSlab
}

// SlabFor returns the first slab containing the weight.
func (r *PricingRule) SlabFor(weightKg float64) (WeightSlab, bool) {
	for _, s := range r.Slabs {
		if s.Contains(weightKg) {
			return s, true
		}
	}
	return WeightSlab{}, false
}

// DiscountType selects how a discount amount is computed.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
	DiscountPerKg      DiscountType = "per_kg"
)

// Discount is a named price reduction with optional eligibility conditions.
// Discount amounts are computed against the pre-surcharge base+overage.
type Discount struct {
	Name             string
	Type             DiscountType
	Value            float64
	MinWeightKg      float64
	MinDeclaredValue float64
	ValidFrom        *time.Time
	ValidUntil       *time.Time
}

// EligibleAt reports whether the discount applies to a shipment of the given
// billable weight and declared value at the given time.
func (d Discount) EligibleAt(at time.Time, billableKg, declaredValue float64) bool {
	if billableKg < d.MinWeightKg {
		return false
	}
	if declaredValue < d.MinDeclaredValue {
		return false
	}
	if d.ValidFrom != nil && at.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidUntil != nil && at.After(*d.ValidUntil) {
		return false
	}
	return true
}

// Amount returns the discount amount against the base+overage subtotal.
func (d Discount) Amount(baseAndOverage, billableKg float64) float64 {
	switch d.Type {
	case DiscountPercentage:
		return baseAndOverage * d.Value / 100
	case DiscountPerKg:
		return d.Value * billableKg
	default:
		return d.Value
	}
}

// DeliveryTimeframe is the promised delivery window for one provider,
// service, and zone relationship.
type DeliveryTimeframe struct {
	MinDays         int
	MaxDays         int
	CutoffHour      int // bookings after this hour count from the next day
	WorkingDaysOnly bool
}

// DefaultTimeframe is the conservative window used when a rate card has no
// explicit entry for a provider/service/zone combination.
var DefaultTimeframe = DeliveryTimeframe{MinDays: 3, MaxDays: 7, CutoffHour: 14, WorkingDaysOnly: true}

// RateCard aggregates all static pricing reference data.
type RateCard struct {
	Providers  []Provider
	Rules      []PricingRule
	Discounts  []Discount
	Timeframes map[string]DeliveryTimeframe
}

func timeframeKey(provider string, service ServiceTier, rel ZoneRelationship) string {
	return provider + "|" + string(service) + "|" + string(rel)
}

// ProviderByCode returns the provider entry, false if unknown.
func (c *RateCard) ProviderByCode(code string) (Provider, bool) {
	for _, p := range c.Providers {
		if p.Code == code {
			return p, true
		}
	}
	return Provider{}, false
}

// ActiveProviders returns providers flagged active, in card order.
func (c *RateCard) ActiveProviders() []Provider {
	out := make([]Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// RuleFor returns the pricing rule for a provider/service/zone combination.
func (c *RateCard) RuleFor(provider string, service ServiceTier, rel ZoneRelationship) (*PricingRule, bool) {
	for i := range c.Rules {
		r := &c.Rules[i]
		if r.Provider == provider && r.Service == service && r.Relationship == rel {
			return r, true
		}
	}
	return nil, false
}

// TimeframeFor returns the delivery window for a combination, falling back to
// DefaultTimeframe when the card has no explicit entry.
func (c *RateCard) TimeframeFor(provider string, service ServiceTier, rel ZoneRelationship) DeliveryTimeframe {
	if tf, ok := c.Timeframes[timeframeKey(provider, service, rel)]; ok {
		return tf
	}
	return DefaultTimeframe
}

// Validate checks structural invariants: every rule has slabs starting at
// zero, sorted, contiguous and non-overlapping.
func (c *RateCard) Validate() error {
	for _, r := range c.Rules {
		if len(r.Slabs) == 0 {
			return fmt.Errorf("rule %s/%s/%s has no slabs", r.Provider, r.Service, r.Relationship)
		}
		slabs := make([]WeightSlab, len(r.Slabs))
		copy(slabs, r.Slabs)
		sort.Slice(slabs, func(i, j int) bool { return slabs[i].MinKg < slabs[j].MinKg })
		if slabs[0].MinKg != 0 {
			return fmt.Errorf("rule %s/%s/%s first slab starts at %.2f, want 0", r.Provider, r.Service, r.Relationship, slabs[0].MinKg)
		}
		for i := 1; i < len(slabs); i++ {
			if slabs[i].MinKg != slabs[i-1].MaxKg {
				return fmt.Errorf("rule %s/%s/%s slab gap/overlap between %.2f and %.2f",
					r.Provider, r.Service, r.Relationship, slabs[i-1].MaxKg, slabs[i].MinKg)
			}
		}
		for _, s := range slabs {
			if s.MaxKg <= s.MinKg {
				return fmt.Errorf("rule %s/%s/%s slab [%.2f,%.2f] is empty", r.Provider, r.Service, r.Relationship, s.MinKg, s.MaxKg)
			}
		}
	}
	return nil
}

// slabTable builds the standard seven-bracket slab table up to 50kg. The
// first bracket's base price is all-inclusive: no overage or fuel surcharge
// is applied below half a kilogram.
func slabTable(first, step, perKg, fuelPct float64) []WeightSlab {
	bounds := []struct{ min, max float64 }{
		{0, 0.5}, {0.5, 1}, {1, 2}, {2, 5}, {5, 10}, {10, 25}, {25, 50},
	}
	slabs := make([]WeightSlab, len(bounds))
	base := first
	for i, b := range bounds {
		s := WeightSlab{MinKg: b.min, MaxKg: b.max, BasePrice: base, AdditionalPerKg: perKg, FuelSurchargePct: fuelPct}
		if i == 0 {
			s.AdditionalPerKg = 0
			s.FuelSurchargePct = 0
		}
		slabs[i] = s
		base += step
	}
	return slabs
}

// relationshipFactors orders zone relationships from cheapest to most
// expensive for seed-card generation.
var relationshipFactors = []struct {
	rel    ZoneRelationship
	factor float64
}{
	{WithinCity, 0.8},
	{MetroToMetro, 1.0},
	{MetroToNonMetro, 1.3},
	{NonMetroToMetro, 1.3},
	{NonMetroToNonMetro, 1.6},
}

func seedRules(provider string, service ServiceTier, first, step, perKg, fuelPct float64) []PricingRule {
	rules := make([]PricingRule, 0, len(relationshipFactors))
	for _, rf := range relationshipFactors {
		rules = append(rules, PricingRule{
			Provider:     provider,
			Service:      service,
			Relationship: rf.rel,
			Slabs:        slabTable(first*rf.factor, step*rf.factor, perKg*rf.factor, fuelPct),
		})
	}
	return rules
}

// DefaultRateCard returns the built-in rate card for the four seeded
// providers. Real deployments load cards from provider contracts; the seed
// card keeps the engine usable out of the box and anchors the test suite.
func DefaultRateCard() *RateCard {
	card := &RateCard{
		Providers: []Provider{
			{Code: "delhivery", Name: "Delhivery", Active: true, Reliability: 4.5,
				COD: CODChargeRule{Type: CODPercentage, Percent: 2.0, MinCharge: 30}},
			{Code: "bluedart", Name: "Blue Dart", Active: true, Reliability: 4.7,
				COD: CODChargeRule{Type: CODFixed, Flat: 50}},
			{Code: "xpressbees", Name: "XpressBees", Active: true, Reliability: 3.8,
				COD: CODChargeRule{Type: CODPercentage, Percent: 1.5, MinCharge: 25}},
			{Code: "ekart", Name: "Ekart Logistics", Active: true, Reliability: 3.5,
				COD: CODChargeRule{Type: CODFixed, Flat: 40}},
		},
		Discounts: []Discount{
			{Name: "Bulk weight", Type: DiscountPercentage, Value: 5, MinWeightKg: 10},
			{Name: "High value", Type: DiscountFlat, Value: 25, MinDeclaredValue: 5000},
		},
		Timeframes: map[string]DeliveryTimeframe{},
	}

	// Standard tier for everyone.
	card.Rules = append(card.Rules, seedRules("delhivery", ServiceStandard, 40, 18, 12, 10)...)
	card.Rules = append(card.Rules, seedRules("bluedart", ServiceStandard, 55, 22, 15, 12)...)
	card.Rules = append(card.Rules, seedRules("xpressbees", ServiceStandard, 34, 15, 10, 8)...)
	card.Rules = append(card.Rules, seedRules("ekart", ServiceStandard, 30, 14, 9, 8)...)

	// Express for the national networks.
	card.Rules = append(card.Rules, seedRules("delhivery", ServiceExpress, 65, 25, 18, 12)...)
	card.Rules = append(card.Rules, seedRules("bluedart", ServiceExpress, 80, 30, 20, 14)...)
	card.Rules = append(card.Rules, seedRules("xpressbees", ServiceExpress, 55, 22, 16, 10)...)

	// Overnight only where a provider actually flies: metro lanes.
	for _, rel := range []ZoneRelationship{WithinCity, MetroToMetro} {
		factor := 1.0
		if rel == WithinCity {
			factor = 0.8
		}
		card.Rules = append(card.Rules, PricingRule{
			Provider: "bluedart", Service: ServiceOvernight, Relationship: rel,
			Slabs: slabTable(140*factor, 45*factor, 30*factor, 15),
		})
		card.Rules = append(card.Rules, PricingRule{
			Provider: "delhivery", Service: ServiceOvernight, Relationship: rel,
			Slabs: slabTable(120*factor, 40*factor, 26*factor, 14),
		})
	}

	seedTimeframes(card)
	return card
}

func seedTimeframes(card *RateCard) {
	type tfSeed struct {
		rel ZoneRelationship
		min int
		max int
	}
	standard := []tfSeed{
		{WithinCity, 1, 2}, {MetroToMetro, 2, 4},
		{MetroToNonMetro, 3, 6}, {NonMetroToMetro, 3, 6}, {NonMetroToNonMetro, 5, 9},
	}
	express := []tfSeed{
		{WithinCity, 1, 1}, {MetroToMetro, 1, 2},
		{MetroToNonMetro, 2, 4}, {NonMetroToMetro, 2, 4}, {NonMetroToNonMetro, 3, 6},
	}
	for _, p := range card.Providers {
		for _, s := range standard {
			card.Timeframes[timeframeKey(p.Code, ServiceStandard, s.rel)] =
				DeliveryTimeframe{MinDays: s.min, MaxDays: s.max, CutoffHour: 14, WorkingDaysOnly: true}
		}
		for _, s := range express {
			card.Timeframes[timeframeKey(p.Code, ServiceExpress, s.rel)] =
				DeliveryTimeframe{MinDays: s.min, MaxDays: s.max, CutoffHour: 12, WorkingDaysOnly: true}
		}
	}
	for _, code := range []string{"bluedart", "delhivery"} {
		for _, rel := range []ZoneRelationship{WithinCity, MetroToMetro} {
			card.Timeframes[timeframeKey(code, ServiceOvernight, rel)] =
				DeliveryTimeframe{MinDays: 1, MaxDays: 1, CutoffHour: 17, WorkingDaysOnly: false}
		}
	}
}
