package spec

// BuildingSpec is the top-level specification for one building model.
type BuildingSpec struct {
	SpecVersion string        `yaml:"spec_version" json:"spec_version"`
	Name        string        `yaml:"name" json:"name" validate:"required"`
	Building    BuildingDef   `yaml:"building" json:"building" validate:"required"`
	Programs    []ZoneProgram `yaml:"zone_programs" json:"zone_programs" validate:"min=1,dive"`
	Footprint   *FootprintDef `yaml:"footprint,omitempty" json:"footprint,omitempty"`
	Tolerances  Tolerances    `yaml:"tolerances" json:"tolerances"`
	SimControl  SimControl    `yaml:"sim_control" json:"sim_control"`
}

// BuildingDef holds the massing parameters.
type BuildingDef struct {
	TargetAreaPerStory float64 `yaml:"target_area_per_story" json:"target_area_per_story" validate:"gt=0"`
	Stories            int     `yaml:"stories" json:"stories" validate:"gte=1"`
	StoryHeight        float64 `yaml:"story_height" json:"story_height" validate:"gte=0"`
	HvacFamily         string  `yaml:"hvac_family" json:"hvac_family" validate:"oneof=vav rooftop ptac"`
	AspectRatio        float64 `yaml:"aspect_ratio" json:"aspect_ratio" validate:"gte=0"`
}

// ZoneProgram describes one programmatic use within the building.
// Core programs (circulation, services) are placed at canonical footprint
// positions before the typical-zone grid fills the remainder.
type ZoneProgram struct {
	Type     string  `yaml:"type" json:"type" validate:"required"`
	Core     bool    `yaml:"core" json:"core"`
	Fraction float64 `yaml:"fraction" json:"fraction" validate:"gte=0,lte=1"`
}

// FootprintDef is an externally supplied outline to scale instead of
// synthesizing one. When Geodetic is true the vertices are longitude and
// latitude in degrees (e.g. traced from a footprint data source) and are
// projected to local meters before use.
type FootprintDef struct {
	Vertices [][2]float64 `yaml:"vertices" json:"vertices" validate:"min=3"`
	Geodetic bool         `yaml:"geodetic" json:"geodetic"`
}

// Tolerances holds the tunable numeric thresholds of the generator.
// The mechanism (generate then reconcile, minimum-area cutoff) is fixed;
// the constants are configuration. Zero values take defaults.
type Tolerances struct {
	// FootprintAreaPct is the allowed relative deviation of the scaled
	// footprint from the per-story target. Default 0.02.
	FootprintAreaPct float64 `yaml:"footprint_area_pct" json:"footprint_area_pct" validate:"gte=0,lte=1"`
	// ReconcilePct is the guaranteed relative deviation of total zone
	// area after reconciliation. Default 0.01.
	ReconcilePct float64 `yaml:"reconcile_pct" json:"reconcile_pct" validate:"gte=0,lte=1"`
	// MinZoneArea drops clipped grid cells below this area in m².
	// Default 4.0.
	MinZoneArea float64 `yaml:"min_zone_area" json:"min_zone_area" validate:"gte=0"`
	// CellArea is the target grid cell area in m². Zero derives a cell
	// size from the footprint.
	CellArea float64 `yaml:"cell_area" json:"cell_area" validate:"gte=0"`
}

// SimControl carries parameters emitted into the output schema for the
// external engine. They are never enforced at generation time.
type SimControl struct {
	MaxIterations int `yaml:"max_iterations" json:"max_iterations" validate:"gte=0"`
}

// Default thresholds, applied where the spec leaves a field zero.
const (
	DefaultFootprintAreaPct = 0.02
	DefaultReconcilePct     = 0.01
	DefaultMinZoneArea      = 4.0
	DefaultStoryHeight      = 3.0
	DefaultAspectRatio      = 1.618
	DefaultMaxIterations    = 25
)

// WithDefaults returns a copy of the tolerances with zero fields replaced
// by the package defaults.
func (t Tolerances) WithDefaults() Tolerances {
	if t.FootprintAreaPct == 0 {
		t.FootprintAreaPct = DefaultFootprintAreaPct
	}
	if t.ReconcilePct == 0 {
		t.ReconcilePct = DefaultReconcilePct
	}
	if t.MinZoneArea == 0 {
		t.MinZoneArea = DefaultMinZoneArea
	}
	return t
}

// Normalize fills defaulted fields of the spec in place.
func (s *BuildingSpec) Normalize() {
	s.Tolerances = s.Tolerances.WithDefaults()
	if s.Building.StoryHeight == 0 {
		s.Building.StoryHeight = DefaultStoryHeight
	}
	if s.Building.AspectRatio == 0 {
		s.Building.AspectRatio = DefaultAspectRatio
	}
	if s.SimControl.MaxIterations == 0 {
		s.SimControl.MaxIterations = DefaultMaxIterations
	}
}

// TargetTotalArea returns the requested whole-building floor area.
func (s *BuildingSpec) TargetTotalArea() float64 {
	return s.Building.TargetAreaPerStory * float64(s.Building.Stories)
}

// CorePrograms returns the programs flagged as core, in spec order.
func (s *BuildingSpec) CorePrograms() []ZoneProgram {
	var core []ZoneProgram
	for _, p := range s.Programs {
		if p.Core {
			core = append(core, p)
		}
	}
	return core
}

// TypicalProgram returns the first non-core program, which fills the
// perimeter grid. Falls back to a generic office program.
func (s *BuildingSpec) TypicalProgram() ZoneProgram {
	for _, p := range s.Programs {
		if !p.Core {
			return p
		}
	}
	return ZoneProgram{Type: "office", Fraction: 1}
}
