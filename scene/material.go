package scene

import (
	"fmt"
	"strings"

	"github.com/achilleasa/spheretrace/types"
)

type MaterialType uint8

const (
	// Ideal lambertian surface.
	DiffuseMaterial MaterialType = iota
	// Ideal mirror.
	SpecularMaterial
	// Ideal dielectric (glass) with a fixed index of refraction.
	RefractiveMaterial
)

// Index of refraction used by all refractive materials. The medium outside
// any object is assumed to have an IOR of 1.
const GlassIOR = 1.5

// Defines a scene material.
type Material struct {
	// The type of the material.
	Type MaterialType

	// Per-channel reflectance in [0, 1].
	Color types.Vec3

	// Emitted radiance; zero for non-light surfaces.
	Emission types.Vec3
}

// Get material type name.
func (mt MaterialType) String() string {
	switch mt {
	case DiffuseMaterial:
		return "diffuse"
	case SpecularMaterial:
		return "specular"
	case RefractiveMaterial:
		return "refractive"
	}
	return fmt.Sprintf("MaterialType(%d)", uint8(mt))
}

// Parse a material type name. Both the long names and the DIFF/SPEC/REFR
// abbreviations are recognized (case-insensitive).
func ParseMaterialType(name string) (MaterialType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "diffuse", "diff":
		return DiffuseMaterial, nil
	case "specular", "spec", "mirror":
		return SpecularMaterial, nil
	case "refractive", "refr", "glass":
		return RefractiveMaterial, nil
	}
	return 0, fmt.Errorf("scene: unknown material type %q", name)
}
