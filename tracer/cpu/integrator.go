package cpu

import (
	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/types"
)

const (
	// Paths longer than this are subject to russian roulette termination.
	rrDepth = 5

	// Beyond this depth dielectrics pick either the reflected or the
	// transmitted path instead of tracing both.
	splitDepth = 2

	// Default hard limit for the path length.
	DefaultMaxDepth = 512
)

// The integrator estimates the radiance arriving along a ray by recursively
// sampling scattering events. An integrator instance belongs to a single
// tracer goroutine.
type Integrator struct {
	sc *scene.Scene

	// Paths reaching this depth return the emission of the last hit
	// surface. A value of 0 disables the limit.
	maxDepth uint32

	// Number of scene intersection queries.
	rays uint64
}

// Create a new integrator for the given scene.
func NewIntegrator(sc *scene.Scene, maxDepth uint32) *Integrator {
	return &Integrator{
		sc:       sc,
		maxDepth: maxDepth,
	}
}

// Get the number of rays traced so far and reset the counter.
func (in *Integrator) ResetRayCount() uint64 {
	rays := in.rays
	in.rays = 0
	return rays
}

// Estimate the radiance along ray r. The ray direction must be unit length
// and depth is the number of scattering events that produced the ray.
func (in *Integrator) Radiance(r types.Ray, depth uint32, rng Sampler) types.Vec3 {
	in.rays++
	hit, ok := in.sc.Intersect(r)
	if !ok {
		return types.Vec3{}
	}

	obj := hit.Sphere
	mat := &obj.Material

	x := r.At(hit.Distance)
	n := obj.Normal(x)
	nl := n
	if n.Dot(r.Dir) >= 0 {
		nl = n.Neg()
	}

	f := mat.Color
	p := f.MaxComponent()

	depth++
	if in.maxDepth != 0 && depth >= in.maxDepth {
		return mat.Emission
	}

	// Russian roulette
	if depth > rrDepth {
		if rng.Float64() < p {
			f = f.Mul(1 / p)
		} else {
			return mat.Emission
		}
	}

	switch mat.Type {
	case scene.SpecularMaterial:
		reflRay := types.Ray{Origin: x, Dir: reflect(r.Dir, n)}
		return mat.Emission.Add(f.MulVec(in.Radiance(reflRay, depth, rng)))
	case scene.RefractiveMaterial:
		return mat.Emission.Add(f.MulVec(in.refractive(r, x, n, nl, depth, rng)))
	default:
		d := sampleDiffuse(nl, rng.Float64(), rng.Float64())
		return mat.Emission.Add(f.MulVec(in.Radiance(types.Ray{Origin: x, Dir: d}, depth, rng)))
	}
}

// Estimate the radiance scattered by an ideal dielectric at point x.
func (in *Integrator) refractive(r types.Ray, x, n, nl types.Vec3, depth uint32, rng Sampler) types.Vec3 {
	reflRay := types.Ray{Origin: x, Dir: reflect(r.Dir, n)}

	tdir, c, ok := refract(r.Dir, n, nl)
	if !ok {
		// Total internal reflection
		return in.Radiance(reflRay, depth, rng)
	}
	transRay := types.Ray{Origin: x, Dir: tdir}

	re := schlick(c)
	tr := 1 - re

	if depth > splitDepth {
		prob := 0.25 + 0.5*re
		if rng.Float64() < prob {
			return in.Radiance(reflRay, depth, rng).Mul(re / prob)
		}
		return in.Radiance(transRay, depth, rng).Mul(tr / (1 - prob))
	}

	return in.Radiance(reflRay, depth, rng).Mul(re).Add(in.Radiance(transRay, depth, rng).Mul(tr))
}
