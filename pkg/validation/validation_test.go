package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildsim/buildgen/pkg/spec"
)

func validSpec() *spec.BuildingSpec {
	s := &spec.BuildingSpec{
		Name: "tower",
		Building: spec.BuildingDef{
			TargetAreaPerStory: 1500,
			Stories:            10,
			HvacFamily:         "vav",
		},
		Programs: []spec.ZoneProgram{
			{Type: "circulation", Core: true, Fraction: 0.10},
			{Type: "office", Fraction: 0.90},
		},
	}
	s.Normalize()
	return s
}

func TestValidateSpecAccepts(t *testing.T) {
	r := ValidateSpec(validSpec())
	assert.True(t, r.Valid, "errors: %v", r.Errors)
	assert.Empty(t, r.Errors)
}

func TestValidateSpecNonPositiveArea(t *testing.T) {
	s := validSpec()
	s.Building.TargetAreaPerStory = 0
	r := ValidateSpec(s)
	require.False(t, r.Valid)
	found := false
	for _, e := range r.Errors {
		if e.SpecPath == "building.targetareaperstory" {
			found = true
			assert.Equal(t, LevelInput, e.Level)
		}
	}
	assert.True(t, found, "expected a finding for the area field, got %v", r.Errors)
}

func TestValidateSpecUnknownFamily(t *testing.T) {
	s := validSpec()
	s.Building.HvacFamily = "swamp_cooler"
	r := ValidateSpec(s)
	assert.False(t, r.Valid)
}

func TestValidateSpecCoreOverclaim(t *testing.T) {
	s := validSpec()
	s.Programs = []spec.ZoneProgram{
		{Type: "circulation", Core: true, Fraction: 0.7},
		{Type: "services", Core: true, Fraction: 0.4},
	}
	r := ValidateSpec(s)
	require.False(t, r.Valid)
	assert.Equal(t, "zone_programs", r.Errors[len(r.Errors)-1].SpecPath)
}

func TestValidateSpecCoreHalfWarning(t *testing.T) {
	s := validSpec()
	s.Programs = []spec.ZoneProgram{
		{Type: "circulation", Core: true, Fraction: 0.6},
		{Type: "office", Fraction: 0.4},
	}
	r := ValidateSpec(s)
	assert.True(t, r.Valid)
	require.NotEmpty(t, r.Warnings)
	assert.Equal(t, SeverityWarning, r.Warnings[0].Severity)
}

func TestValidateSpecFootprint(t *testing.T) {
	s := validSpec()
	s.Footprint = &spec.FootprintDef{Vertices: [][2]float64{{0, 0}, {10, 0}}}
	r := ValidateSpec(s)
	assert.False(t, r.Valid)

	s.Footprint = &spec.FootprintDef{
		Geodetic: true,
		Vertices: [][2]float64{{-87.6, 41.9}, {-87.5, 41.9}, {-87.5, 195.0}},
	}
	r = ValidateSpec(s)
	assert.False(t, r.Valid)
}

func TestReportAddAndMerge(t *testing.T) {
	r := NewReport()
	assert.True(t, r.Valid)

	r.AddWarning(Result{Level: LevelGeometry, Message: "footprint correction needed"})
	assert.True(t, r.Valid)

	other := NewReport()
	other.AddError(Result{Level: LevelTopology, Message: "dangling node"})
	other.AddInfo(Result{Level: LevelSizing, Message: "clamped"})

	r.Merge(other)
	assert.False(t, r.Valid)
	assert.Len(t, r.Errors, 1)
	assert.Len(t, r.Warnings, 1)
	assert.Len(t, r.Info, 1)
	assert.Equal(t, "1 errors, 1 warnings, 1 info", r.Summary)

	r.Merge(nil)
	assert.Len(t, r.Errors, 1)
}

func TestStateHappyPath(t *testing.T) {
	s := NewState()
	want := []Phase{
		PhaseGeometryValid,
		PhaseTopologyPending,
		PhaseTopologyValid,
		PhaseAccepted,
	}
	assert.Equal(t, PhaseGeometryPending, s.Phase())
	for _, p := range want {
		s.Advance()
		assert.Equal(t, p, s.Phase())
	}
	assert.True(t, s.Accepted())
}

func TestStateReject(t *testing.T) {
	s := NewState()
	s.Advance()
	s.Reject("core program does not fit")
	assert.Equal(t, PhaseRejected, s.Phase())
	assert.Equal(t, "core program does not fit", s.Reason())
	assert.False(t, s.Accepted())

	// Second rejection keeps the first reason.
	s.Reject("later reason")
	assert.Equal(t, "core program does not fit", s.Reason())
}

func TestStateTerminalPanics(t *testing.T) {
	s := NewState()
	for i := 0; i < 4; i++ {
		s.Advance()
	}
	require.True(t, s.Accepted())
	assert.Panics(t, func() { s.Advance() })
	assert.Panics(t, func() { s.Reject("too late") })

	r := NewState()
	r.Reject("bad input")
	assert.Panics(t, func() { r.Advance() })
}
