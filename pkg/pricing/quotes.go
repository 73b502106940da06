package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// ErrInvalidShipment marks a malformed shipment request. It is distinct from
// an empty quote list, which is a valid "no provider serves this route"
// outcome.
var ErrInvalidShipment = errors.New("invalid shipment request")

// RecommendationThreshold is the minimum provider reliability for a quote to
// win the recommendation on price alone.
const RecommendationThreshold = 4.0

// ShipmentRequest describes one shipment to be quoted. Immutable input.
type ShipmentRequest struct {
	OriginCity       string
	OriginState      string
	OriginPostalCode string
	DestCity         string
	DestState        string
	DestPostalCode   string
	ActualWeightKg   float64
	Dimensions       *Dimensions
	DeclaredValue    float64
	COD              bool
	Service          ServiceTier
	Description      string
}

// DeliveryEstimate is the promised window attached to a quote.
type DeliveryEstimate struct {
	MinDays         int  `json:"min_days"`
	MaxDays         int  `json:"max_days"`
	CutoffHour      int  `json:"cutoff_hour"`
	WorkingDaysOnly bool `json:"working_days_only"`
}

// Quote is a fully priced offer from one provider for one shipment request.
// Quotes are immutable once produced.
type Quote struct {
	Provider      string           `json:"provider"`
	ProviderName  string           `json:"provider_name"`
	Service       ServiceTier      `json:"service"`
	Breakdown     *PriceBreakdown  `json:"breakdown"`
	TotalPrice    float64          `json:"total_price"`
	Estimate      DeliveryEstimate `json:"estimate"`
	IsRecommended bool             `json:"is_recommended"`
	Confidence    float64          `json:"confidence"`
}

// Engine generates ranked quotes across all active providers of a rate card.
type Engine struct {
	card   *RateCard
	calc   *Calculator
	logger *otelzap.Logger
}

// NewEngine creates a quote engine over a rate card.
func NewEngine(card *RateCard, logger *otelzap.Logger) *Engine {
	return &Engine{card: card, calc: NewCalculator(card), logger: logger}
}

// NewEngineWithCalculator allows injecting a calculator with a fixed clock.
func NewEngineWithCalculator(card *RateCard, calc *Calculator, logger *otelzap.Logger) *Engine {
	return &Engine{card: card, calc: calc, logger: logger}
}

// GenerateQuotes prices the request against every active provider for the
// requested service tier and returns quotes sorted ascending by total price.
// Providers without a covering pricing rule or weight slab are skipped, not
// surfaced as errors; an empty result is a valid outcome.
func (e *Engine) GenerateQuotes(req ShipmentRequest) ([]Quote, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	rel := Relationship(req.OriginCity, req.DestCity)
	billable := BillableWeight(req.ActualWeightKg, req.Dimensions)

	quotes := make([]Quote, 0, len(e.card.Providers))
	for _, p := range e.card.ActiveProviders() {
		breakdown, err := e.calc.Price(PriceInput{
			Provider:       p.Code,
			Service:        req.Service,
			Relationship:   rel,
			BillableWeight: billable,
			DeclaredValue:  req.DeclaredValue,
			COD:            req.COD,
		})
		if err != nil {
			var noRule *NoPricingRuleError
			var noSlab *NoWeightSlabError
			if errors.As(err, &noRule) || errors.As(err, &noSlab) {
				e.logger.Debug("Provider skipped for quote",
					zap.String("provider", p.Code),
					zap.String("zone_relationship", string(rel)),
					zap.Error(err),
				)
				continue
			}
			return nil, err
		}

		tf := e.card.TimeframeFor(p.Code, req.Service, rel)
		quotes = append(quotes, Quote{
			Provider:     p.Code,
			ProviderName: p.Name,
			Service:      req.Service,
			Breakdown:    breakdown,
			TotalPrice:   breakdown.Total,
			Estimate: DeliveryEstimate{
				MinDays:         tf.MinDays,
				MaxDays:         tf.MaxDays,
				CutoffHour:      tf.CutoffHour,
				WorkingDaysOnly: tf.WorkingDaysOnly,
			},
			Confidence: round2(p.Reliability / 5),
		})
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].TotalPrice != quotes[j].TotalPrice {
			return quotes[i].TotalPrice < quotes[j].TotalPrice
		}
		return quotes[i].Provider < quotes[j].Provider
	})

	e.flagRecommended(quotes)
	return quotes, nil
}

// flagRecommended marks the cheapest quote from a provider meeting the
// reliability threshold; when no provider meets it, the cheapest quote wins.
// Price alone is not trusted if it comes from a low-reliability provider.
func (e *Engine) flagRecommended(quotes []Quote) {
	if len(quotes) == 0 {
		return
	}
	for i := range quotes {
		p, ok := e.card.ProviderByCode(quotes[i].Provider)
		if ok && p.Reliability >= RecommendationThreshold {
			quotes[i].IsRecommended = true
			return
		}
	}
	quotes[0].IsRecommended = true
}

func validateRequest(req ShipmentRequest) error {
	if req.OriginCity == "" || req.DestCity == "" {
		return fmt.Errorf("%w: origin and destination cities are required", ErrInvalidShipment)
	}
	if req.ActualWeightKg <= 0 {
		return fmt.Errorf("%w: actual weight must be positive", ErrInvalidShipment)
	}
	if req.Dimensions != nil {
		d := req.Dimensions
		if d.LengthCm < 0 || d.WidthCm < 0 || d.HeightCm < 0 {
			return fmt.Errorf("%w: dimensions must be non-negative", ErrInvalidShipment)
		}
	}
	if req.DeclaredValue < 0 {
		return fmt.Errorf("%w: declared value must be non-negative", ErrInvalidShipment)
	}
	if _, ok := TierSpecFor(req.Service); !ok {
		return fmt.Errorf("%w: unknown service tier %q", ErrInvalidShipment, req.Service)
	}
	return nil
}
