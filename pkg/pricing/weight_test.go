package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vttayde/smart-ship-app-sub000/pkg/pricing"
)

func TestVolumetricWeight(t *testing.T) {
	// 30 x 20 x 10 cm / 5000 = 1.2 kg
	assert.InDelta(t, 1.2, pricing.VolumetricWeight(30, 20, 10), 1e-9)
	assert.Zero(t, pricing.VolumetricWeight(0, 20, 10))
}

func TestBillableWeight_ActualWins(t *testing.T) {
	dims := &pricing.Dimensions{LengthCm: 10, WidthCm: 10, HeightCm: 10} // 0.2 kg volumetric
	assert.InDelta(t, 5.0, pricing.BillableWeight(5, dims), 1e-9)
}

func TestBillableWeight_VolumetricWins(t *testing.T) {
	dims := &pricing.Dimensions{LengthCm: 50, WidthCm: 40, HeightCm: 30} // 12 kg volumetric
	assert.InDelta(t, 12.0, pricing.BillableWeight(2, dims), 1e-9)
}

func TestBillableWeight_NoDimensions(t *testing.T) {
	assert.InDelta(t, 3.5, pricing.BillableWeight(3.5, nil), 1e-9)
}

func TestBillableWeight_MaxProperty(t *testing.T) {
	cases := []struct {
		actual  float64
		l, w, h float64
	}{
		{0.5, 0, 0, 0},
		{1, 30, 20, 10},
		{10, 100, 50, 40},
		{25, 10, 10, 10},
	}
	for _, c := range cases {
		dims := &pricing.Dimensions{LengthCm: c.l, WidthCm: c.w, HeightCm: c.h}
		vol := pricing.VolumetricWeight(c.l, c.w, c.h)
		want := c.actual
		if vol > want {
			want = vol
		}
		assert.InDelta(t, want, pricing.BillableWeight(c.actual, dims), 1e-9)
	}
}
