package renderer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/achilleasa/spheretrace/frame"
	"github.com/achilleasa/spheretrace/log"
	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/tracer"
	"github.com/achilleasa/spheretrace/tracer/cpu"
)

// The default renderer splits each frame into row blocks, hands one block to
// each attached tracer and waits for all rows to complete.
type defaultRenderer struct {
	logger log.Logger

	scene     *scene.Scene
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer

	// The framebuffer shared by all tracers. Each tracer only writes the
	// rows of its own block.
	frameBuffer *frame.Buffer

	// Rows assigned to each tracer for the last frame.
	blockAssignments []uint32

	frameStats FrameStats
	options    Options
}

// Create a new renderer that uses one CPU tracer per requested worker.
func New(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	numTracers := opts.NumTracers
	if numTracers == 0 {
		numTracers = runtime.NumCPU()
	}
	if numTracers < 0 {
		return nil, ErrNoTracers
	}

	tracers := make([]tracer.Tracer, numTracers)
	for index := range tracers {
		tracers[index] = cpu.NewTracer(fmt.Sprintf("cpu-%d", index), 1)
	}

	return NewWithTracers(sc, scheduler, tracers, opts)
}

// Create a new renderer using the supplied tracers. The renderer initializes
// the tracers and takes ownership of them.
func NewWithTracers(sc *scene.Scene, scheduler tracer.BlockScheduler, tracers []tracer.Tracer, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameDims
	}
	if opts.SamplesPerPixel == 0 {
		return nil, ErrInvalidSampleCount
	}
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = cpu.DefaultMaxDepth
	}

	// Tracers share a copy of the scene whose camera carries the projection
	// for this frame size; the caller's scene is left untouched.
	camera := *sc.Camera
	camera.SetupProjection(opts.FrameW, opts.FrameH)
	frameScene := &scene.Scene{
		Name:    sc.Name,
		Camera:  &camera,
		Spheres: sc.Spheres,
	}

	r := &defaultRenderer{
		logger:      log.New("renderer"),
		scene:       frameScene,
		scheduler:   scheduler,
		frameBuffer: frame.NewBuffer(opts.FrameW, opts.FrameH),
		options:     opts,
	}

	for _, tr := range tracers {
		if err := tr.Init(); err != nil {
			r.Close()
			return nil, fmt.Errorf("renderer: could not init tracer %s: %w", tr.Id(), err)
		}
		r.tracers = append(r.tracers, tr)

		tr.Update(tracer.UpdateScene, frameScene)
		tr.Update(tracer.UpdateFrameBuffer, r.frameBuffer)
	}
	r.logger.Infof("attached %d tracers", len(r.tracers))

	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get last frame stats.
func (r *defaultRenderer) Stats() FrameStats {
	return r.frameStats
}

// A block progress event. Events with done set mark the end of a block,
// either because all of its rows completed or because the tracer failed.
type blockEvent struct {
	rows uint32
	err  error
	done bool
}

// Render frame.
func (r *defaultRenderer) Render() (*frame.Buffer, error) {
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	start := time.Now()
	frameH := r.options.FrameH
	r.blockAssignments = r.scheduler.Schedule(r.tracers, frameH)

	// Large enough for block watchers to never block
	eventChan := make(chan blockEvent, int(frameH)+len(r.tracers))

	var blockY uint32
	var numBlocks int
	for index, tr := range r.tracers {
		blockH := r.blockAssignments[index]
		if blockH == 0 {
			continue
		}

		r.logger.Debugf("assigning rows [%d, %d) to tracer %s", blockY, blockY+blockH, tr.Id())
		doneChan := make(chan uint32, blockH)
		errChan := make(chan error, 1)
		tr.Enqueue(tracer.BlockRequest{
			BlockY:          blockY,
			BlockH:          blockH,
			SamplesPerPixel: r.options.SamplesPerPixel,
			MaxDepth:        r.options.MaxDepth,
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})
		go watchBlock(blockH, doneChan, errChan, eventChan)

		blockY += blockH
		numBlocks++
	}

	// Wait for every block to either complete or fail so no tracer is still
	// writing to the framebuffer when we return.
	var doneRows uint32
	var err error
	for numBlocks > 0 {
		ev := <-eventChan
		if ev.rows != 0 {
			doneRows += ev.rows
			if r.options.Progress != nil {
				r.options.Progress(doneRows, frameH)
			}
		}
		if ev.err != nil && err == nil {
			err = ev.err
		}
		if ev.done {
			numBlocks--
		}
	}
	if err != nil {
		return nil, err
	}

	r.collectStats(time.Since(start))
	return r.frameBuffer, nil
}

// Forward the row completions of a single block to eventChan until the block
// completes or its tracer reports an error.
func watchBlock(blockH uint32, doneChan <-chan uint32, errChan <-chan error, eventChan chan<- blockEvent) {
	var rows uint32
	for rows < blockH {
		select {
		case n := <-doneChan:
			rows += n
			eventChan <- blockEvent{rows: n}
		case err := <-errChan:
			eventChan <- blockEvent{err: err, done: true}
			return
		}
	}
	eventChan <- blockEvent{done: true}
}

// Populate frame stats from the tracers that rendered the last frame.
func (r *defaultRenderer) collectStats(renderTime time.Duration) {
	r.frameStats = FrameStats{
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: renderTime,
	}

	for index, tr := range r.tracers {
		blockH := r.blockAssignments[index]
		stat := TracerStat{
			Id:           tr.Id(),
			BlockH:       blockH,
			FramePercent: 100 * float32(blockH) / float32(r.options.FrameH),
		}
		if blockH != 0 {
			trStats := tr.Stats()
			stat.RenderTime = trStats.RenderTime
			stat.Paths = trStats.Paths
			stat.Rays = trStats.Rays
		}

		r.frameStats.Tracers[index] = stat
		r.frameStats.Paths += stat.Paths
		r.frameStats.Rays += stat.Rays
	}
}
