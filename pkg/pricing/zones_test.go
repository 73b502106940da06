package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vttayde/smart-ship-app-sub000/pkg/pricing"
)

func TestResolveZone_Metro(t *testing.T) {
	z := pricing.ResolveZone("Mumbai")
	require.NotNil(t, z)
	assert.True(t, z.IsMetro)
	assert.Equal(t, "Mumbai Metro", z.Name)
}

func TestResolveZone_CaseInsensitive(t *testing.T) {
	z := pricing.ResolveZone("bengaluru")
	require.NotNil(t, z)
	assert.True(t, z.IsMetro)
}

func TestResolveZone_PriorityRemote(t *testing.T) {
	z := pricing.ResolveZone("Leh")
	require.NotNil(t, z)
	assert.False(t, z.IsMetro)
	assert.True(t, z.IsPriority)
}

func TestResolveZone_Unknown(t *testing.T) {
	assert.Nil(t, pricing.ResolveZone("Atlantis"))
}

func TestRelationship_SameCityShortCircuit(t *testing.T) {
	assert.Equal(t, pricing.WithinCity, pricing.Relationship("Mumbai", "mumbai"))
	// Same-city wins even for cities outside every zone table.
	assert.Equal(t, pricing.WithinCity, pricing.Relationship("Atlantis", "ATLANTIS"))
}

func TestRelationship_MetroPairs(t *testing.T) {
	assert.Equal(t, pricing.MetroToMetro, pricing.Relationship("Mumbai", "Delhi"))
	assert.Equal(t, pricing.MetroToNonMetro, pricing.Relationship("Delhi", "Guwahati"))
	assert.Equal(t, pricing.NonMetroToMetro, pricing.Relationship("Shillong", "Chennai"))
	assert.Equal(t, pricing.NonMetroToNonMetro, pricing.Relationship("Guwahati", "Imphal"))
}

func TestRelationship_UnknownCityIsNonMetro(t *testing.T) {
	// Unrecognized geography falls back to the most expensive bracket.
	assert.Equal(t, pricing.MetroToNonMetro, pricing.Relationship("Mumbai", "Atlantis"))
	assert.Equal(t, pricing.NonMetroToNonMetro, pricing.Relationship("Atlantis", "Elsewhere"))
}
