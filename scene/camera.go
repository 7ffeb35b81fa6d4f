package scene

import (
	"fmt"

	"github.com/achilleasa/spheretrace/types"
	"github.com/go-gl/mathgl/mgl64"
)

// The camera type controls the scene camera. Primary rays are generated by
// offsetting the view direction along an image plane spanned by two basis
// vectors whose lengths are derived from the field of view and the frame
// aspect ratio.
type Camera struct {
	Position types.Vec3

	// Unit length view direction.
	Dir types.Vec3

	// Unit length horizontal image plane axis.
	Right types.Vec3

	// Half-height of the image plane at unit distance.
	FOV float64

	// Primary ray origins are pushed this far along the (unnormalized) ray
	// direction so they start in front of the camera.
	NearOffset float64

	// Image plane basis vectors; populated by SetupProjection.
	cx types.Vec3
	cy types.Vec3
}

// Create a new camera. The horizontal image plane axis defaults to +X.
func NewCamera(position, dir types.Vec3, fov, nearOffset float64) *Camera {
	return &Camera{
		Position:   position,
		Dir:        dir.Normalize(),
		Right:      types.XYZ(1, 0, 0),
		FOV:        fov,
		NearOffset: nearOffset,
	}
}

// Rotate the camera by yaw (around the world up axis) and pitch (around the
// camera's horizontal axis). Angles are specified in radians.
func (c *Camera) Rotate(yaw, pitch float64) {
	pitchQuat := mgl64.QuatRotate(pitch, mgl64.Vec3(c.Right))
	yawQuat := mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0})
	orientQuat := yawQuat.Mul(pitchQuat).Normalize()

	c.Dir = types.Vec3(orientQuat.Rotate(mgl64.Vec3(c.Dir))).Normalize()
	c.Right = types.Vec3(orientQuat.Rotate(mgl64.Vec3(c.Right))).Normalize()
}

// Setup the image plane basis for the given frame dimensions.
func (c *Camera) SetupProjection(frameW, frameH uint32) {
	c.cx = c.Right.Mul(float64(frameW) * c.FOV / float64(frameH))
	c.cy = c.cx.Cross(c.Dir).Normalize().Mul(c.FOV)
}

// Generate a primary ray through the image plane point (px, py). Both
// coordinates are in [-0.5, 0.5] with (0, 0) at the frame center and py
// growing towards the top of the frame.
func (c *Camera) Ray(px, py float64) types.Ray {
	d := c.cx.Mul(px).Add(c.cy.Mul(py)).Add(c.Dir)
	return types.Ray{
		Origin: c.Position.Add(d.Mul(c.NearOffset)),
		Dir:    d.Normalize(),
	}
}

func (c *Camera) String() string {
	return fmt.Sprintf(
		"Camera:\nPosition : (%3.3f, %3.3f, %3.3f)\nDir      : (%3.3f, %3.3f, %3.3f)\nFOV      : %3.4f",
		c.Position[0], c.Position[1], c.Position[2],
		c.Dir[0], c.Dir[1], c.Dir[2],
		c.FOV,
	)
}
