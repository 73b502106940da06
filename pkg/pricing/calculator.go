package pricing

import (
	"math"
	"time"
)

// GSTRatePct is the fixed goods-and-services tax rate applied to every
// shipment, computed on the post-discount, pre-tax subtotal.
const GSTRatePct = 18.0

// LineItemKind labels one entry of a price breakdown.
type LineItemKind string

const (
	LineBase     LineItemKind = "base"
	LineOverage  LineItemKind = "overage"
	LineFuel     LineItemKind = "fuel_surcharge"
	LineCOD      LineItemKind = "cod_charge"
	LineDiscount LineItemKind = "discount"
	LineTax      LineItemKind = "tax"
)

// LineItem is one priced component; discounts carry negative amounts.
type LineItem struct {
	Kind   LineItemKind `json:"kind"`
	Label  string       `json:"label"`
	Amount float64      `json:"amount"`
}

// PriceBreakdown is the itemized result of one pricing pass. Totals always
// satisfy Total = Base + Overage + Fuel + COD - Discounts + Tax.
type PriceBreakdown struct {
	Provider       string           `json:"provider"`
	Service        ServiceTier      `json:"service"`
	Relationship   ZoneRelationship `json:"zone_relationship"`
	BillableWeight float64          `json:"billable_weight_kg"`
	Lines          []LineItem       `json:"lines"`
	Subtotal       float64          `json:"subtotal"`
	Tax            float64          `json:"tax"`
	Total          float64          `json:"total"`
}

// PriceInput is the immutable input of one pricing pass.
type PriceInput struct {
	Provider       string
	Service        ServiceTier
	Relationship   ZoneRelationship
	BillableWeight float64
	DeclaredValue  float64
	COD            bool
}

// Calculator prices shipments against a rate card. It is pure given its
// reference data; the injected clock exists only for the discount validity
// window check.
type Calculator struct {
	card *RateCard
	now  func() time.Time
}

// NewCalculator returns a calculator over the given rate card.
func NewCalculator(card *RateCard) *Calculator {
	return &Calculator{card: card, now: time.Now}
}

// NewCalculatorAt returns a calculator with a fixed clock, for deterministic
// discount-window evaluation in tests.
func NewCalculatorAt(card *RateCard, now func() time.Time) *Calculator {
	return &Calculator{card: card, now: now}
}

// Price computes an itemized breakdown. It returns *NoPricingRuleError when
// no rule covers the provider/service/zone combination and
// *NoWeightSlabError when the billable weight falls outside every slab of
// the matched rule. It never partially succeeds.
func (c *Calculator) Price(in PriceInput) (*PriceBreakdown, error) {
	rule, ok := c.card.RuleFor(in.Provider, in.Service, in.Relationship)
	if !ok {
		return nil, &NoPricingRuleError{Provider: in.Provider, Service: in.Service, Relationship: in.Relationship}
	}

	slab, ok := rule.SlabFor(in.BillableWeight)
	if !ok {
		return nil, &NoWeightSlabError{
			Provider: in.Provider, Service: in.Service,
			Relationship: in.Relationship, BillableWeight: in.BillableWeight,
		}
	}

	b := &PriceBreakdown{
		Provider:       in.Provider,
		Service:        in.Service,
		Relationship:   in.Relationship,
		BillableWeight: in.BillableWeight,
	}

	base := slab.BasePrice
	b.Lines = append(b.Lines, LineItem{Kind: LineBase, Label: "Base price", Amount: round2(base)})

	// Overage is measured from the slab's own floor, not from zero. This
	// matches the production rate cards these tables were lifted from.
	overage := slab.AdditionalPerKg * math.Max(0, in.BillableWeight-slab.MinKg)
	if overage > 0 {
		b.Lines = append(b.Lines, LineItem{Kind: LineOverage, Label: "Additional weight", Amount: round2(overage)})
	}

	fuel := slab.FuelSurchargePct / 100 * (base + overage)
	if fuel > 0 {
		b.Lines = append(b.Lines, LineItem{Kind: LineFuel, Label: "Fuel surcharge", Amount: round2(fuel)})
	}

	var cod float64
	if in.COD {
		provider, ok := c.card.ProviderByCode(in.Provider)
		if ok {
			cod = provider.COD.Amount(in.DeclaredValue)
			b.Lines = append(b.Lines, LineItem{Kind: LineCOD, Label: "COD charge", Amount: round2(cod)})
		}
	}

	at := c.now()
	var discountTotal float64
	for _, d := range c.card.Discounts {
		if !d.EligibleAt(at, in.BillableWeight, in.DeclaredValue) {
			continue
		}
		amount := d.Amount(base+overage, in.BillableWeight)
		if amount <= 0 {
			continue
		}
		discountTotal += amount
		b.Lines = append(b.Lines, LineItem{Kind: LineDiscount, Label: d.Name, Amount: -round2(amount)})
	}

	subtotal := base + overage + fuel + cod - discountTotal
	tax := subtotal * GSTRatePct / 100

	b.Subtotal = round2(subtotal)
	b.Tax = round2(tax)
	b.Total = round2(subtotal + tax)
	b.Lines = append(b.Lines, LineItem{Kind: LineTax, Label: "GST", Amount: b.Tax})

	return b, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
