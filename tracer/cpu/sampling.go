package cpu

import (
	"math"

	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/types"
)

// Map a uniform value in [0, 1) to an offset in [-1, 1) distributed
// according to a tent (triangle) filter centered at zero.
func tentSample(u float64) float64 {
	r := 2 * u
	if r < 1 {
		return math.Sqrt(r) - 1
	}
	return 1 - math.Sqrt(2-r)
}

// Generate a cosine-weighted direction in the hemisphere around the unit
// vector nl.
func sampleDiffuse(nl types.Vec3, u1, u2 float64) types.Vec3 {
	r1 := 2 * math.Pi * u1
	r2s := math.Sqrt(u2)

	w := nl
	var u types.Vec3
	if math.Abs(w[0]) > 0.1 {
		u = types.XYZ(0, 1, 0).Cross(w).Normalize()
	} else {
		u = types.XYZ(1, 0, 0).Cross(w).Normalize()
	}
	v := w.Cross(u)

	return u.Mul(math.Cos(r1) * r2s).Add(v.Mul(math.Sin(r1) * r2s)).Add(w.Mul(math.Sqrt(1 - u2))).Normalize()
}

// Mirror d around the surface normal n.
func reflect(d, n types.Vec3) types.Vec3 {
	return d.Sub(n.Mul(2 * n.Dot(d)))
}

// Refract d through a dielectric boundary with outward normal n and oriented
// normal nl (facing against d). It returns the refracted direction and the
// cosine term for the Fresnel approximation. The last return value is false
// when the ray is totally internally reflected.
func refract(d, n, nl types.Vec3) (types.Vec3, float64, bool) {
	// Ray from outside going in?
	into := n.Dot(nl) > 0

	const nc, nt = 1.0, scene.GlassIOR
	nnt := nt / nc
	if into {
		nnt = nc / nt
	}

	ddn := d.Dot(nl)
	cos2t := 1 - nnt*nnt*(1-ddn*ddn)
	if cos2t < 0 {
		return types.Vec3{}, 0, false
	}

	sign := -1.0
	if into {
		sign = 1.0
	}
	tdir := d.Mul(nnt).Sub(n.Mul(sign * (ddn*nnt + math.Sqrt(cos2t)))).Normalize()

	var c float64
	if into {
		c = 1 - (-ddn)
	} else {
		c = 1 - tdir.Dot(n)
	}
	return tdir, c, true
}

// Schlick's approximation of the Fresnel reflectance for a boundary between
// air and glass.
func schlick(c float64) float64 {
	const a, b = scene.GlassIOR - 1, scene.GlassIOR + 1
	r0 := a * a / (b * b)
	return r0 + (1-r0)*c*c*c*c*c
}
