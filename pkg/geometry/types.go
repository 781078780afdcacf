package geometry

import "github.com/buildsim/buildgen/pkg/geo"

// Zone is a thermally distinct region of one story, the unit of load
// calculation in the target engine. Created by LayoutZones, mutated only
// by the reconcile pass, immutable afterward.
type Zone struct {
	ID        string      `json:"id"`
	Program   string      `json:"program"`
	Core      bool        `json:"core"`
	Story     int         `json:"story"`
	Polygon   geo.Polygon `json:"polygon"`
	FloorArea float64     `json:"floor_area"`
}

// SurfaceKind distinguishes the derived surface types.
type SurfaceKind string

const (
	SurfaceFloor   SurfaceKind = "floor"
	SurfaceCeiling SurfaceKind = "ceiling"
	SurfaceWall    SurfaceKind = "wall"
)

// Surface is one face of a zone's extruded volume. Vertices are ordered so
// the derived normal points out of the zone: floor down, ceiling up, walls
// away from the zone centroid. Material is an opaque token attached by a
// separate material-selection collaborator; this package never inspects it.
type Surface struct {
	ZoneID   string      `json:"zone_id"`
	Kind     SurfaceKind `json:"kind"`
	Vertices []geo.Vec3  `json:"vertices"`
	Normal   geo.Vec3    `json:"normal"`
	Area     float64     `json:"area"`
	Material string      `json:"material,omitempty"`
}

// Footprint is the building outline in local meters, plus the flag raised
// when scaling had to fall back to the unscaled shape.
type Footprint struct {
	Polygon          geo.Polygon `json:"polygon"`
	CorrectionNeeded bool        `json:"correction_needed"`
}

// Layout is the complete geometry output: footprint, zones for every
// story, and the per-zone surfaces.
type Layout struct {
	Footprint Footprint `json:"footprint"`
	Zones     []Zone    `json:"zones"`
	Surfaces  []Surface `json:"surfaces"`
	TotalArea float64   `json:"total_area"`
	Stories   int       `json:"stories"`
	StoryH    float64   `json:"story_height"`
}

// ZonesOnStory returns the zones belonging to one story, in layout order.
func (l *Layout) ZonesOnStory(story int) []Zone {
	var out []Zone
	for _, z := range l.Zones {
		if z.Story == story {
			out = append(out, z)
		}
	}
	return out
}

// SurfacesOf returns the surfaces belonging to one zone.
func (l *Layout) SurfacesOf(zoneID string) []Surface {
	var out []Surface
	for _, s := range l.Surfaces {
		if s.ZoneID == zoneID {
			out = append(out, s)
		}
	}
	return out
}
