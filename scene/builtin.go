package scene

import (
	"fmt"
	"sort"

	"github.com/achilleasa/spheretrace/types"
)

// Field of view and near offset of the reference camera.
const (
	referenceFOV        = 0.5135
	referenceNearOffset = 140
)

type builtinScene struct {
	description string
	build       func() *Scene
}

var builtinScenes = map[string]builtinScene{
	"cornell": {
		description: "cornell box made of spheres with a mirror ball, a glass ball and a spherical ceiling light",
		build:       NewCornellScene,
	},
	"furnace": {
		description: "camera inside a single emissive diffuse sphere; converges to E/(1-albedo)",
		build:       func() *Scene { return NewFurnaceScene(types.XYZ(1, 1, 1), 0.5) },
	},
}

// Get the names of all built-in scenes in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get the description of a built-in scene.
func BuiltinDescription(name string) string {
	return builtinScenes[name].description
}

// Build a new instance of a built-in scene.
func Builtin(name string) (*Scene, error) {
	bs, exists := builtinScenes[name]
	if !exists {
		return nil, fmt.Errorf("scene: unknown built-in scene %q", name)
	}
	return bs.build(), nil
}

// Create the reference scene: a box whose walls are huge spheres, lit by a
// partially embedded sphere in the ceiling.
func NewCornellScene() *Scene {
	diffuse := func(c types.Vec3) Material { return Material{Type: DiffuseMaterial, Color: c} }
	white := types.XYZ(0.75, 0.75, 0.75)

	sc := NewScene("cornell")
	sc.Spheres = []*Sphere{
		NewSphere(1e5, types.XYZ(1e5+1, 40.8, 81.6), diffuse(types.XYZ(0.75, 0.25, 0.25))),   // left
		NewSphere(1e5, types.XYZ(-1e5+99, 40.8, 81.6), diffuse(types.XYZ(0.25, 0.25, 0.75))), // right
		NewSphere(1e5, types.XYZ(50, 40.8, 1e5), diffuse(white)),                             // back
		NewSphere(1e5, types.XYZ(50, 40.8, -1e5+170), diffuse(types.Vec3{})),                 // front
		NewSphere(1e5, types.XYZ(50, 1e5, 81.6), diffuse(white)),                             // bottom
		NewSphere(1e5, types.XYZ(50, -1e5+81.6, 81.6), diffuse(white)),                       // top
		NewSphere(16.5, types.XYZ(27, 16.5, 47), Material{Type: SpecularMaterial, Color: types.XYZ(1, 1, 1).Mul(0.999)}),
		NewSphere(16.5, types.XYZ(73, 16.5, 78), Material{Type: RefractiveMaterial, Color: types.XYZ(1, 1, 1).Mul(0.999)}),
		NewSphere(600, types.XYZ(50, 681.6-0.27, 81.6), Material{Type: DiffuseMaterial, Emission: types.XYZ(12, 12, 12)}), // light
	}
	sc.SetCamera(NewCamera(types.XYZ(50, 52, 295.6), types.XYZ(0, -0.042612, -1), referenceFOV, referenceNearOffset))

	return sc
}

// Create a scene where the camera sits inside a single diffuse sphere that
// emits radiance e and reflects with a uniform albedo. Every path keeps
// bouncing inside the sphere so the expected radiance along any camera ray
// is e / (1 - albedo).
func NewFurnaceScene(e types.Vec3, albedo float64) *Scene {
	sc := NewScene("furnace")
	sc.Spheres = []*Sphere{
		NewSphere(1000, types.XYZ(0, 0, 0), Material{
			Type:     DiffuseMaterial,
			Color:    types.XYZ(albedo, albedo, albedo),
			Emission: e,
		}),
	}
	sc.SetCamera(NewCamera(types.XYZ(0, 0, 0), types.XYZ(0, 0, -1), referenceFOV, 0))

	return sc
}
