package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/achilleasa/spheretrace/types"
)

var (
	ErrEmptyScene       = errors.New("scene: no primitives defined")
	ErrCameraNotDefined = errors.New("scene: no camera defined")
	ErrInvalidCameraDir = errors.New("scene: camera direction has zero length")
)

// A scene is an ordered list of spheres and a camera. Once rendering starts
// the scene is shared between all tracers and must not be modified.
type Scene struct {
	Name   string
	Camera *Camera

	Spheres []*Sphere
}

// The result of a scene intersection query.
type Hit struct {
	// Distance along the ray.
	Distance float64

	// Index of the intersected sphere.
	Index int

	Sphere *Sphere
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:    name,
		Spheres: make([]*Sphere, 0),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a sphere to the scene.
func (s *Scene) AddSphere(sphere *Sphere) error {
	for _, sp := range s.Spheres {
		if sp == sphere {
			return fmt.Errorf("scene: sphere already added")
		}
	}
	s.Spheres = append(s.Spheres, sphere)
	return nil
}

// Find the nearest sphere hit by the ray. All spheres are tested.
func (s *Scene) Intersect(r types.Ray) (Hit, bool) {
	hit := Hit{Distance: math.Inf(1), Index: -1}
	for index, sphere := range s.Spheres {
		if t, ok := sphere.Intersect(r); ok && t < hit.Distance {
			hit.Distance = t
			hit.Index = index
			hit.Sphere = sphere
		}
	}

	return hit, hit.Sphere != nil
}

// Validate the scene. Rendering an invalid scene has no defined result so
// this should be called before any rendering work is scheduled.
func (s *Scene) Validate() error {
	if len(s.Spheres) == 0 {
		return ErrEmptyScene
	}
	if s.Camera == nil {
		return ErrCameraNotDefined
	}
	if s.Camera.Dir.Len() == 0 {
		return ErrInvalidCameraDir
	}
	if s.Camera.FOV <= 0 {
		return fmt.Errorf("scene: camera fov must be positive; got %f", s.Camera.FOV)
	}

	for index, sp := range s.Spheres {
		if !(sp.Radius > 0) {
			return fmt.Errorf("scene: sphere %d has non-positive radius %f", index, sp.Radius)
		}
		c := sp.Material.Color
		if !c.NonNegative() || c[0] > 1 || c[1] > 1 || c[2] > 1 {
			return fmt.Errorf("scene: sphere %d has color %v outside [0, 1]", index, c)
		}
		if !sp.Material.Emission.NonNegative() {
			return fmt.Errorf("scene: sphere %d has negative emission %v", index, sp.Material.Emission)
		}
	}

	return nil
}
