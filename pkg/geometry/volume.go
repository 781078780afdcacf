package geometry

// ZoneVolume computes the enclosed volume of a zone's surface set via the
// divergence theorem: the sum of signed tetrahedron volumes spanned by
// the origin and each surface triangle. The result is positive exactly
// when every surface normal points out of the zone, which is what
// fixOrientation guarantees; a non-positive volume means broken winding.
func ZoneVolume(surfaces []Surface) float64 {
	vol := 0.0
	for _, s := range surfaces {
		verts := s.Vertices
		for i := 1; i < len(verts)-1; i++ {
			vol += verts[0].Dot(verts[i].Cross(verts[i+1]))
		}
	}
	return vol / 6
}
