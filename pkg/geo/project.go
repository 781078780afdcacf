package geo

import "math"

// earthRadius is the mean Earth radius in meters (WGS84 authalic sphere).
const earthRadius = 6371008.8

// LocalProjection maps geodetic coordinates (longitude, latitude in degrees)
// to a planar meter frame centered on a reference point. The projection is
// equirectangular with a cos-latitude correction at the reference latitude,
// which is locally equal-area over building-scale extents. A naive planar
// shoelace over raw degrees shrinks east-west distances by cos(lat) and is
// wrong everywhere off the equator.
type LocalProjection struct {
	lon0, lat0 float64 // reference point, degrees
	cosLat     float64
}

// NewLocalProjection creates a projection centered at the given longitude
// and latitude in degrees.
func NewLocalProjection(lon, lat float64) LocalProjection {
	return LocalProjection{
		lon0:   lon,
		lat0:   lat,
		cosLat: math.Cos(lat * math.Pi / 180),
	}
}

// ProjectionFor creates a projection centered on the vertex average of a
// geodetic polygon (vertices as lon/lat degrees).
func ProjectionFor(geodetic Polygon) LocalProjection {
	sum := Point2D{}
	for _, v := range geodetic.Vertices {
		sum = sum.Add(v)
	}
	n := float64(len(geodetic.Vertices))
	if n == 0 {
		return NewLocalProjection(0, 0)
	}
	return NewLocalProjection(sum.X/n, sum.Y/n)
}

// Forward maps a lon/lat point (degrees) to local meters.
func (lp LocalProjection) Forward(p Point2D) Point2D {
	return Point2D{
		X: (p.X - lp.lon0) * math.Pi / 180 * earthRadius * lp.cosLat,
		Y: (p.Y - lp.lat0) * math.Pi / 180 * earthRadius,
	}
}

// Inverse maps local meters back to lon/lat degrees.
func (lp LocalProjection) Inverse(p Point2D) Point2D {
	return Point2D{
		X: lp.lon0 + p.X/(earthRadius*lp.cosLat)*180/math.Pi,
		Y: lp.lat0 + p.Y/earthRadius*180/math.Pi,
	}
}

// ProjectPolygon maps a geodetic polygon (lon/lat degrees) to local meters.
func (lp LocalProjection) ProjectPolygon(geodetic Polygon) Polygon {
	pts := make([]Point2D, len(geodetic.Vertices))
	for i, v := range geodetic.Vertices {
		pts[i] = lp.Forward(v)
	}
	return Polygon{Vertices: pts}
}

// GeodeticArea returns the area in square meters of a polygon whose
// vertices are longitude/latitude degrees, measured in a locally
// equal-area frame about the polygon's own centroid.
func GeodeticArea(geodetic Polygon) float64 {
	return ProjectionFor(geodetic).ProjectPolygon(geodetic).Area()
}
