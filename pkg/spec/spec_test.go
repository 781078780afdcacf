package spec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `spec_version: "1"
name: lakeside tower
building:
  target_area_per_story: 1500
  stories: 10
  hvac_family: vav
zone_programs:
  - type: circulation
    core: true
    fraction: 0.10
  - type: services
    core: true
    fraction: 0.05
  - type: office
    fraction: 0.85
tolerances:
  reconcile_pct: 0.005
`

func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSpec(t, t.TempDir(), "building.yaml", sampleYAML)
	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "lakeside tower", s.Name)
	assert.Equal(t, 1500.0, s.Building.TargetAreaPerStory)
	assert.Equal(t, 10, s.Building.Stories)
	assert.Equal(t, "vav", s.Building.HvacFamily)
	assert.Equal(t, 15000.0, s.TargetTotalArea())
	require.Len(t, s.Programs, 3)
	assert.True(t, s.Programs[0].Core)

	// Explicit tolerance preserved, the rest defaulted.
	assert.Equal(t, 0.005, s.Tolerances.ReconcilePct)
	assert.Equal(t, DefaultFootprintAreaPct, s.Tolerances.FootprintAreaPct)
	assert.Equal(t, DefaultMinZoneArea, s.Tolerances.MinZoneArea)
	assert.Equal(t, DefaultStoryHeight, s.Building.StoryHeight)
	assert.Equal(t, DefaultAspectRatio, s.Building.AspectRatio)
	assert.Equal(t, DefaultMaxIterations, s.SimControl.MaxIterations)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := writeSpec(t, t.TempDir(), "building.yaml", "building: [not: a: map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "building.yaml", sampleYAML)
	s, err := LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, "lakeside tower", s.Name)
}

func TestLoadFootprint(t *testing.T) {
	withFootprint := sampleYAML + `footprint:
  geodetic: true
  vertices:
    - [-87.63, 41.88]
    - [-87.62, 41.88]
    - [-87.62, 41.89]
    - [-87.63, 41.89]
`
	path := writeSpec(t, t.TempDir(), "building.yaml", withFootprint)
	s, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, s.Footprint)
	assert.True(t, s.Footprint.Geodetic)
	assert.Len(t, s.Footprint.Vertices, 4)
	assert.Equal(t, -87.63, s.Footprint.Vertices[0][0])
}

func TestCoreAndTypicalPrograms(t *testing.T) {
	s := &BuildingSpec{Programs: []ZoneProgram{
		{Type: "circulation", Core: true, Fraction: 0.1},
		{Type: "lab", Fraction: 0.9},
	}}
	core := s.CorePrograms()
	require.Len(t, core, 1)
	assert.Equal(t, "circulation", core[0].Type)
	assert.Equal(t, "lab", s.TypicalProgram().Type)

	allCore := &BuildingSpec{Programs: []ZoneProgram{
		{Type: "services", Core: true, Fraction: 1},
	}}
	assert.Equal(t, "office", allCore.TypicalProgram().Type)
}
