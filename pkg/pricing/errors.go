package pricing

import "fmt"

// NoPricingRuleError indicates that no pricing rule covers the requested
// provider, service tier, and zone relationship. Callers must treat the
// provider as unavailable for the route, never as zero cost.
type NoPricingRuleError struct {
	Provider     string
	Service      ServiceTier
	Relationship ZoneRelationship
}

func (e *NoPricingRuleError) Error() string {
	return fmt.Sprintf("no pricing rule for provider %q service %q zone %q",
		e.Provider, e.Service, e.Relationship)
}

// NoWeightSlabError indicates that a pricing rule exists but none of its
// weight slabs contains the billable weight, e.g. the shipment exceeds the
// provider's maximum handled weight.
type NoWeightSlabError struct {
	Provider       string
	Service        ServiceTier
	Relationship   ZoneRelationship
	BillableWeight float64
}

func (e *NoWeightSlabError) Error() string {
	return fmt.Sprintf("no weight slab for %.2fkg on provider %q service %q zone %q",
		e.BillableWeight, e.Provider, e.Service, e.Relationship)
}
