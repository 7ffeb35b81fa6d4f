package renderer

import "github.com/achilleasa/spheretrace/frame"

type Renderer interface {
	// Render frame. The returned buffer is only valid until the next call
	// to Render.
	Render() (*frame.Buffer, error)

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
