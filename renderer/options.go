package renderer

// A callback invoked by the renderer each time a row completes. It receives
// the number of completed rows and the total number of frame rows.
type ProgressFunc func(doneRows, totalRows uint32)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Total number of samples per pixel. Each pixel is split into 2x2
	// sub-pixels that receive a quarter of the samples each (at least one).
	SamplesPerPixel uint32

	// Hard limit for the path length. A value of 0 selects the tracer
	// default.
	MaxDepth uint32

	// Number of CPU tracers. A value of 0 selects one tracer per CPU.
	NumTracers int

	// Optional progress callback.
	Progress ProgressFunc
}
