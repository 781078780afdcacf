package building

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildsim/buildgen/pkg/airloop"
	"github.com/buildsim/buildgen/pkg/geometry"
	"github.com/buildsim/buildgen/pkg/spec"
	"github.com/buildsim/buildgen/pkg/validation"
)

func towerSpec() *spec.BuildingSpec {
	return &spec.BuildingSpec{
		Name: "tower",
		Building: spec.BuildingDef{
			TargetAreaPerStory: 1500,
			Stories:            10,
			HvacFamily:         "vav",
		},
		Programs: []spec.ZoneProgram{
			{Type: "circulation", Core: true, Fraction: 0.10},
			{Type: "services", Core: true, Fraction: 0.05},
			{Type: "office", Fraction: 0.85},
		},
	}
}

func TestGenerateAccepted(t *testing.T) {
	model, err := New(nil).Generate(towerSpec())
	require.NoError(t, err)
	require.NotNil(t, model)

	assert.Equal(t, validation.PhaseAccepted, model.Phase)
	assert.True(t, model.Report.Valid)

	// Ten stories at 1500 m² each, within the reconcile tolerance.
	assert.Greater(t, model.Geometry.TotalArea, 14850.0)
	assert.Less(t, model.Geometry.TotalArea, 15150.0)

	// One loop per zone, each with exactly one coil sized in band.
	require.Len(t, model.Loops, len(model.Geometry.Zones))
	for _, loop := range model.Loops {
		coils := loop.Coils()
		require.Len(t, coils, 1, "loop %s", loop.ZoneID)
		ratio := coils[0].DesignAirflow / coils[0].RatedCapacity
		assert.GreaterOrEqual(t, ratio, airloop.MinFlowPerCapacity)
		assert.LessOrEqual(t, ratio, airloop.MaxFlowPerCapacity)
		require.NoError(t, loop.Verify(model.Registry))
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	s := towerSpec()
	s.Building.Stories = 0
	model, err := New(nil).Generate(s)
	require.Error(t, err)
	require.NotNil(t, model)
	assert.Equal(t, validation.PhaseRejected, model.Phase)
	assert.False(t, model.Report.Valid)
	assert.Nil(t, model.Geometry)
	assert.Nil(t, model.Loops)
}

func TestGenerateZeroAreaIsDegenerate(t *testing.T) {
	// A zero or negative target area rejects with the degenerate-polygon
	// identity, so callers can match on the taxon rather than parse text.
	for _, area := range []float64{0, -100} {
		s := towerSpec()
		s.Building.TargetAreaPerStory = area
		model, err := New(nil).Generate(s)
		require.Error(t, err)
		assert.ErrorIs(t, err, geometry.ErrDegeneratePolygon, "area %v", area)
		require.NotNil(t, model)
		assert.Equal(t, validation.PhaseRejected, model.Phase)
		assert.False(t, model.Report.Valid)
	}
}

func TestGenerateRejectsCoreOverflow(t *testing.T) {
	s := towerSpec()
	s.Programs = []spec.ZoneProgram{
		{Type: "circulation", Core: true, Fraction: 0.90},
		{Type: "office", Fraction: 0.10},
	}
	model, err := New(nil).Generate(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, geometry.ErrAreaReconciliationFailed))

	// The rejected model still carries the best-effort geometry with
	// surfaces, for callers that want to inspect what was attempted.
	require.NotNil(t, model)
	assert.Equal(t, validation.PhaseRejected, model.Phase)
	require.NotNil(t, model.Geometry)
	assert.NotEmpty(t, model.Geometry.Zones)
	assert.NotEmpty(t, model.Geometry.Surfaces)
	assert.False(t, model.Report.Valid)
}

func TestGenerateDeterministic(t *testing.T) {
	encode := func(m *Model) string {
		b, err := json.Marshal(m)
		require.NoError(t, err)
		return string(b)
	}
	a, err := New(nil).Generate(towerSpec())
	require.NoError(t, err)
	b, err := New(nil).Generate(towerSpec())
	require.NoError(t, err)
	assert.Equal(t, encode(a), encode(b))

	// Node names are deterministic too.
	require.Equal(t, a.Registry.Len(), b.Registry.Len())
	for i := 1; i <= a.Registry.Len(); i++ {
		assert.Equal(t, a.Registry.Name(airloop.NodeID(i)), b.Registry.Name(airloop.NodeID(i)))
	}
}

func TestGenerateNodeNamesUnique(t *testing.T) {
	model, err := New(nil).Generate(towerSpec())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, loop := range model.Loops {
		for _, n := range loop.Nodes {
			name := model.Registry.Name(n.ID)
			assert.False(t, seen[name], "duplicate node name %q", name)
			seen[name] = true
		}
	}
}

func TestGenerateFamilies(t *testing.T) {
	for _, family := range []string{"vav", "rooftop", "ptac"} {
		t.Run(family, func(t *testing.T) {
			s := towerSpec()
			s.Building.Stories = 1
			s.Building.HvacFamily = family
			model, err := New(nil).Generate(s)
			require.NoError(t, err)
			assert.Equal(t, validation.PhaseAccepted, model.Phase)
			assert.NotEmpty(t, model.Loops)
		})
	}
}

func TestGenerateAll(t *testing.T) {
	bad := towerSpec()
	bad.Building.TargetAreaPerStory = 0
	specs := []*spec.BuildingSpec{towerSpec(), bad, towerSpec()}

	results := New(nil).GenerateAll(context.Background(), specs, 2)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, validation.PhaseAccepted, results[0].Model.Phase)

	// One bad spec fails its own slot without cancelling the batch.
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, validation.PhaseAccepted, results[2].Model.Phase)
}

func TestGenerateAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := New(nil).GenerateAll(ctx, []*spec.BuildingSpec{towerSpec()}, 1)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}
