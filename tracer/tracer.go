package tracer

import (
	"errors"
	"time"
)

var (
	ErrNoSceneData       = errors.New("tracer: no scene data")
	ErrNoFrameBuffer     = errors.New("tracer: no framebuffer attached")
	ErrBlockOutOfBounds  = errors.New("tracer: block exceeds framebuffer bounds")
	ErrTracerBusy        = errors.New("tracer: request queue is full")
	ErrUnsupportedUpdate = errors.New("tracer: unsupported update")
)

type UpdateType uint8

const (
	// Replace the scene (*scene.Scene). The scene must not be modified
	// while blocks are being rendered.
	UpdateScene UpdateType = iota

	// Replace the framebuffer (*frame.Buffer) that receives rendered rows.
	UpdateFrameBuffer
)

// A unit of work that is processed by a tracer: a contiguous range of
// scanlines. Scanline y is counted from the bottom of the frame.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The total number of samples per pixel. Each pixel is split into 2x2
	// sub-pixels that share these samples.
	SamplesPerPixel uint32

	// Hard limit for path length. A value of 0 disables the limit.
	MaxDepth uint32

	// A channel to signal with the number of completed rows. The tracer
	// signals once per completed row.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics for the last rendered block.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block.
	RenderTime time.Duration

	// The time spent applying pending updates.
	UpdateTime time.Duration

	// Number of camera paths and rays (scene intersection queries) traced.
	Paths uint64
	Rays  uint64
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's relative computation speed.
	Speed() uint32

	// Initialize the tracer and start its worker.
	Init() error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Queue an update. Pending updates are applied before the next block
	// is rendered; later updates of the same type replace earlier ones.
	Update(UpdateType, interface{})

	// Retrieve last block statistics.
	Stats() *Stats
}

// Get the number of samples for each of the 2x2 sub-pixels given the
// total number of samples per pixel. At least one sample is always taken.
func SubpixelSamples(samplesPerPixel uint32) uint32 {
	samples := samplesPerPixel / 4
	if samples == 0 {
		samples = 1
	}
	return samples
}
