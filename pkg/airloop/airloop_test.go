package airloop

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildsim/buildgen/pkg/geometry"
)

func testZone(id, program string, area float64) geometry.Zone {
	return geometry.Zone{ID: id, Program: program, FloorArea: area}
}

func TestRegistryInstanceSuffixes(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, "lobby 1", reg.Instance("lobby"))
	assert.Equal(t, "lobby 2", reg.Instance("Lobby"))
	assert.Equal(t, "office 1", reg.Instance("office"))
	assert.Equal(t, "zone 1", reg.Instance(""))
}

func TestRegistryMintUnique(t *testing.T) {
	reg := NewRegistry()
	a := reg.Mint("lobby 1", "supply outlet")
	b := reg.Mint("lobby 1", "supply outlet")
	require.NotEqual(t, a, b)
	assert.Equal(t, "lobby 1 supply outlet", reg.Name(a))
	assert.Equal(t, "lobby 1 supply outlet 2", reg.Name(b))
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryNamePanicsOnForeignID(t *testing.T) {
	reg := NewRegistry()
	reg.Mint("lobby 1", "supply outlet")
	assert.Panics(t, func() { reg.Name(NodeID(99)) })
	assert.Panics(t, func() { reg.Name(NodeID(0)) })
}

func TestParseFamily(t *testing.T) {
	for _, s := range []string{"vav", "rooftop", "ptac"} {
		f, err := ParseFamily(s)
		require.NoError(t, err)
		assert.Equal(t, Family(s), f)
	}
	_, err := ParseFamily("chilled_beam")
	assert.ErrorIs(t, err, ErrUnknownFamily)
}

func TestBuildUnsizableZone(t *testing.T) {
	reg := NewRegistry()
	_, err := Build(testZone("office_0", "office", 0), FamilyVAV, reg)
	assert.ErrorIs(t, err, ErrUnsizable)
}

func TestBuildFamilies(t *testing.T) {
	for _, family := range []Family{FamilyVAV, FamilyRooftop, FamilyPTAC} {
		t.Run(string(family), func(t *testing.T) {
			reg := NewRegistry()
			g, err := Build(testZone("office_0", "office", 25), family, reg)
			require.NoError(t, err)
			require.NoError(t, g.Verify(reg))

			assert.Equal(t, "office_0", g.ZoneID)
			assert.Equal(t, family, g.Family)

			// One conditioning coil per loop, sized in band.
			coils := g.Coils()
			require.Len(t, coils, 1)
			ratio := coils[0].DesignAirflow / coils[0].RatedCapacity
			assert.GreaterOrEqual(t, ratio, MinFlowPerCapacity)
			assert.LessOrEqual(t, ratio, MaxFlowPerCapacity)
			assert.InDelta(t, 2500.0, coils[0].RatedCapacity, 1e-9)

			supply, demand := g.Endpoints()
			assert.True(t, supply.Valid())
			assert.True(t, demand.Valid())
			assert.NotEqual(t, supply, demand)
		})
	}
}

func TestBuildRepeatedProgramsNoCollision(t *testing.T) {
	reg := NewRegistry()
	a, err := Build(testZone("story0_lobby_0", "lobby", 30), FamilyVAV, reg)
	require.NoError(t, err)
	b, err := Build(testZone("story0_lobby_1", "lobby", 30), FamilyVAV, reg)
	require.NoError(t, err)

	require.NoError(t, a.Verify(reg))
	require.NoError(t, b.Verify(reg))

	seen := map[string]bool{}
	for _, g := range []*Graph{a, b} {
		for _, n := range g.Nodes {
			name := reg.Name(n.ID)
			assert.False(t, seen[name], "duplicate node name %q", name)
			seen[name] = true
		}
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	reg := NewRegistry()
	g, err := Build(testZone("office_0", "office", 25), FamilyVAV, reg)
	require.NoError(t, err)

	// Pointing the fan at the coil's inlet leaves one node with two
	// consumers and another with none.
	for _, c := range g.Components {
		if fan, ok := c.(*Fan); ok {
			fan.Inlet = g.Nodes[0].ID
		}
	}
	assert.Error(t, g.Verify(reg))
}

func TestVerifyPanicsOnUnmintedReference(t *testing.T) {
	reg := NewRegistry()
	g, err := Build(testZone("office_0", "office", 25), FamilyVAV, reg)
	require.NoError(t, err)

	for _, c := range g.Components {
		if fan, ok := c.(*Fan); ok {
			fan.Inlet = NodeID(9999)
		}
	}
	assert.Panics(t, func() { _ = g.Verify(reg) })
}

func TestVerifyRejectsDuplicateNode(t *testing.T) {
	reg := NewRegistry()
	g, err := Build(testZone("office_0", "office", 25), FamilyVAV, reg)
	require.NoError(t, err)

	g.Nodes = append(g.Nodes, g.Nodes[0])
	assert.Error(t, g.Verify(reg))
}

func TestClampFlowLow(t *testing.T) {
	c := &Coil{CoilKind: CoilCooling, RatedCapacity: 1000, DesignAirflow: 0.01}
	adj := ClampFlow(c)
	require.NotNil(t, adj)
	assert.Equal(t, "design_airflow", adj.Field)
	assert.InDelta(t, 1000*MinFlowPerCapacity, c.DesignAirflow, 1e-12)
	assert.Equal(t, MinFlowPerCapacity, adj.Bound)
}

func TestClampFlowHigh(t *testing.T) {
	c := &Coil{CoilKind: CoilCooling, RatedCapacity: 1000, DesignAirflow: 0.2}
	adj := ClampFlow(c)
	require.NotNil(t, adj)
	assert.InDelta(t, 1000*MaxFlowPerCapacity, c.DesignAirflow, 1e-12)
}

func TestClampFlowInBand(t *testing.T) {
	c := sizedCoil(CoilCooling, 1, 2, 1000)
	assert.Nil(t, ClampFlow(c))
}

func TestClampGraphCollectsAdjustments(t *testing.T) {
	reg := NewRegistry()
	g, err := Build(testZone("office_0", "office", 25), FamilyPTAC, reg)
	require.NoError(t, err)

	assert.Empty(t, ClampGraph(g))

	g.Coils()[0].DesignAirflow = 0
	adjs := ClampGraph(g)
	require.Len(t, adjs, 1)
	assert.Equal(t, string(CoilHeatCool), adjs[0].CoilKind)
}

func TestVAVTerminalReheatDefaults(t *testing.T) {
	reg := NewRegistry()
	g, err := Build(testZone("office_0", "office", 25), FamilyVAV, reg)
	require.NoError(t, err)

	var term *TerminalUnit
	for _, c := range g.Components {
		if tu, ok := c.(*TerminalUnit); ok {
			term = tu
		}
	}
	require.NotNil(t, term)
	assert.Equal(t, ReheatActionNormal, term.Action)
	assert.Nil(t, term.MaxFlowPerAreaDuringReheat)
	assert.Nil(t, term.MaxFlowFractionDuringReheat)
}

func TestErrUnsizableWraps(t *testing.T) {
	reg := NewRegistry()
	_, err := Build(testZone("x", "office", -5), FamilyRooftop, reg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsizable))
	assert.Contains(t, err.Error(), "x")
}
