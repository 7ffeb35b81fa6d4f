package frame

import (
	"math"

	"github.com/achilleasa/spheretrace/types"
)

// Display gamma used when converting linear radiance to 8-bit values.
const Gamma = 2.2

// A framebuffer holding one accumulated radiance value per pixel. Rows are
// stored top to bottom. Tracers write disjoint rows concurrently so the
// buffer itself does not synchronize access; readers must wait until the
// renderer reports that the frame is complete.
type Buffer struct {
	W, H uint32

	Pix []types.Vec3
}

// Allocate a new framebuffer.
func NewBuffer(w, h uint32) *Buffer {
	return &Buffer{
		W:   w,
		H:   h,
		Pix: make([]types.Vec3, int(w)*int(h)),
	}
}

// Get the pixels for image row r (row 0 is the top of the frame).
func (b *Buffer) Row(r uint32) []types.Vec3 {
	start := int(r) * int(b.W)
	return b.Pix[start : start+int(b.W) : start+int(b.W)]
}

// Get the pixel at column x of image row r.
func (b *Buffer) At(x, r uint32) types.Vec3 {
	return b.Pix[int(r)*int(b.W)+int(x)]
}

// Reset all pixels to zero.
func (b *Buffer) Clear() {
	for i := range b.Pix {
		b.Pix[i] = types.Vec3{}
	}
}

// Clamp a linear value to [0, 1]. NaNs map to 0.
func clamp(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Convert a linear radiance channel to a gamma corrected value in [0, 255].
func ToByte(x float64) uint8 {
	return uint8(int(math.Pow(clamp(x), 1/Gamma)*255 + 0.5))
}
