package scene

import (
	"math"

	"github.com/achilleasa/spheretrace/types"
)

// Minimum accepted hit distance. It prevents rays that leave a surface from
// re-intersecting it due to floating point error.
const IntersectEpsilon = 1e-4

// A sphere primitive.
type Sphere struct {
	Radius float64
	Center types.Vec3

	Material Material
}

// Create new sphere primitive.
func NewSphere(radius float64, center types.Vec3, material Material) *Sphere {
	return &Sphere{
		Radius:   radius,
		Center:   center,
		Material: material,
	}
}

// Intersect the sphere with a ray whose direction is unit length. It returns
// the distance to the closest hit that lies further than IntersectEpsilon
// along the ray and a flag indicating whether such a hit exists.
func (s *Sphere) Intersect(r types.Ray) (float64, bool) {
	// Solve t^2*d.d + 2*t*(o-p).d + (o-p).(o-p)-R^2 = 0
	op := s.Center.Sub(r.Origin)
	b := op.Dot(r.Dir)
	det := b*b - op.Dot(op) + s.Radius*s.Radius
	if det < 0 {
		return 0, false
	}

	det = math.Sqrt(det)
	if t := b - det; t > IntersectEpsilon {
		return t, true
	}
	if t := b + det; t > IntersectEpsilon {
		return t, true
	}
	return 0, false
}

// Get the outward facing surface normal at point p.
func (s *Sphere) Normal(p types.Vec3) types.Vec3 {
	return p.Sub(s.Center).Normalize()
}
