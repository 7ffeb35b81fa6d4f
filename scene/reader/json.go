package reader

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/achilleasa/spheretrace/asset"
	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/types"
)

// The JSON representation of a scene.
type Document struct {
	Name    string           `json:"name,omitempty"`
	Camera  *CameraDocument  `json:"camera"`
	Spheres []SphereDocument `json:"spheres"`
}

// The JSON representation of a camera. Yaw and pitch are specified in
// degrees and are applied after the view direction is set.
type CameraDocument struct {
	Position   [3]float64  `json:"position"`
	Direction  [3]float64  `json:"direction"`
	Right      *[3]float64 `json:"right,omitempty"`
	FOV        float64     `json:"fov,omitempty"`
	NearOffset float64     `json:"near_offset,omitempty"`
	Yaw        float64     `json:"yaw,omitempty"`
	Pitch      float64     `json:"pitch,omitempty"`
}

// The JSON representation of a sphere.
type SphereDocument struct {
	Radius   float64    `json:"radius"`
	Center   [3]float64 `json:"center"`
	Emission [3]float64 `json:"emission"`
	Color    [3]float64 `json:"color"`
	Material string     `json:"material"`
}

// Default camera fov if not specified by the scene file.
const defaultFOV = 0.5135

type jsonSceneReader struct{}

// Read scene definition.
func (r *jsonSceneReader) Read(res *asset.Resource) (*scene.Scene, error) {
	var doc Document
	dec := json.NewDecoder(res)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("[%s] error: %w", res.Path(), err)
	}

	return doc.Scene()
}

// Convert the document into a scene.
func (doc *Document) Scene() (*scene.Scene, error) {
	sc := scene.NewScene(doc.Name)
	for index, sd := range doc.Spheres {
		matType, err := scene.ParseMaterialType(sd.Material)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", index, err)
		}
		sc.Spheres = append(sc.Spheres, scene.NewSphere(
			sd.Radius,
			types.Vec3(sd.Center),
			scene.Material{
				Type:     matType,
				Color:    types.Vec3(sd.Color),
				Emission: types.Vec3(sd.Emission),
			},
		))
	}

	if doc.Camera != nil {
		fov := doc.Camera.FOV
		if fov == 0 {
			fov = defaultFOV
		}
		cam := scene.NewCamera(types.Vec3(doc.Camera.Position), types.Vec3(doc.Camera.Direction), fov, doc.Camera.NearOffset)
		if doc.Camera.Right != nil {
			cam.Right = types.Vec3(*doc.Camera.Right).Normalize()
		}
		if doc.Camera.Yaw != 0 || doc.Camera.Pitch != 0 {
			cam.Rotate(doc.Camera.Yaw*math.Pi/180, doc.Camera.Pitch*math.Pi/180)
		}
		sc.SetCamera(cam)
	}

	return sc, nil
}

// Build a document from a scene.
func NewDocument(sc *scene.Scene) *Document {
	doc := &Document{
		Name:    sc.Name,
		Spheres: make([]SphereDocument, 0, len(sc.Spheres)),
	}

	for _, sp := range sc.Spheres {
		doc.Spheres = append(doc.Spheres, SphereDocument{
			Radius:   sp.Radius,
			Center:   sp.Center,
			Emission: sp.Material.Emission,
			Color:    sp.Material.Color,
			Material: sp.Material.Type.String(),
		})
	}

	if sc.Camera != nil {
		doc.Camera = &CameraDocument{
			Position:   sc.Camera.Position,
			Direction:  sc.Camera.Dir,
			FOV:        sc.Camera.FOV,
			NearOffset: sc.Camera.NearOffset,
		}
		if sc.Camera.Right != types.XYZ(1, 0, 0) {
			right := [3]float64(sc.Camera.Right)
			doc.Camera.Right = &right
		}
	}

	return doc
}
