package geometry

import (
	"fmt"
	"math"

	"github.com/buildsim/buildgen/pkg/geo"
	"github.com/buildsim/buildgen/pkg/spec"
)

// GenerateFootprint produces the per-story building outline in local
// meters, scaled so its area matches targetArea within areaTol.
//
// When def is nil a rectangle with the given aspect ratio is synthesized
// about the origin. A supplied outline (possibly geodetic lon/lat) is
// measured in a locally equal-area frame, then uniformly scaled by
// sqrt(target/actual) about its centroid so aspect ratio is preserved.
// If the scaled shape fails re-validation the unscaled shape is returned
// with CorrectionNeeded set for the validation layer.
func GenerateFootprint(targetArea float64, def *spec.FootprintDef, aspect, areaTol float64) (Footprint, error) {
	if targetArea <= 0 {
		return Footprint{}, fmt.Errorf("target area %.2f m²: %w", targetArea, ErrDegeneratePolygon)
	}

	base, err := basePolygon(targetArea, def, aspect)
	if err != nil {
		return Footprint{}, err
	}

	actual := base.Area()
	if actual < 1e-6 {
		return Footprint{}, fmt.Errorf("outline area %.6f m²: %w", actual, ErrDegeneratePolygon)
	}

	s := math.Sqrt(targetArea / actual)
	scaled := base.ScaleAbout(base.Centroid(), s).EnsureCCW()

	dev := math.Abs(scaled.Area()-targetArea) / targetArea
	if !scaled.IsSimple() || dev > areaTol {
		// Keep the unscaled shape rather than emit broken geometry.
		return Footprint{Polygon: base.EnsureCCW(), CorrectionNeeded: true}, nil
	}
	return Footprint{Polygon: scaled}, nil
}

// basePolygon builds the unscaled outline: supplied vertices (projected to
// meters if geodetic) or a synthesized rectangle.
func basePolygon(targetArea float64, def *spec.FootprintDef, aspect float64) (geo.Polygon, error) {
	if def == nil {
		if aspect <= 0 {
			aspect = spec.DefaultAspectRatio
		}
		w := math.Sqrt(targetArea * aspect)
		d := targetArea / w
		return geo.Rect(geo.Pt(-w/2, -d/2), geo.Pt(w/2, d/2)), nil
	}

	pts := make([]geo.Point2D, len(def.Vertices))
	for i, v := range def.Vertices {
		pts[i] = geo.Pt(v[0], v[1])
	}
	poly := geo.Polygon{Vertices: pts}
	if poly.IsEmpty() {
		return geo.Polygon{}, fmt.Errorf("supplied footprint has %d vertices: %w",
			len(pts), ErrDegeneratePolygon)
	}

	if def.Geodetic {
		// Project to a meter frame that is equal-area near the site;
		// shoelace on raw degrees is wrong off the equator.
		lp := geo.ProjectionFor(poly)
		poly = lp.ProjectPolygon(poly)
	}

	if !poly.IsSimple() {
		return geo.Polygon{}, fmt.Errorf("supplied footprint self-intersects: %w", ErrDegeneratePolygon)
	}
	// Recenter on the origin so downstream placement is site-independent.
	return poly.Translate(poly.Centroid().Scale(-1)), nil
}
