package cpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/spheretrace/frame"
	"github.com/achilleasa/spheretrace/log"
	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/tracer"
	"github.com/achilleasa/spheretrace/types"
)

// Capacity of the block request queue.
const requestQueueSize = 4

// A tracer that renders blocks on the CPU using a single worker goroutine.
type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Relative speed reported to block schedulers.
	speed uint32

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[tracer.UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats

	sceneData   *scene.Scene
	frameBuffer *frame.Buffer
}

// Create a new CPU tracer.
func NewTracer(id string, speed uint32) tracer.Tracer {
	if speed == 0 {
		speed = 1
	}

	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		speed:        speed,
		updateBuffer: make(map[tracer.UpdateType]interface{}),
		blockReqChan: make(chan tracer.BlockRequest, requestQueueSize),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the relative computation speed.
func (tr *cpuTracer) Speed() uint32 {
	return tr.speed
}

// Initialize tracer
func (tr *cpuTracer) Init() error {
	tr.Lock()
	defer tr.Unlock()

	tr.startWorker()
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	closeChan := tr.closeChan
	tr.closeChan = nil
	tr.Unlock()

	// If the worker is running shut it down. The lock is not held while
	// waiting as the worker needs it to commit updates.
	if closeChan != nil {
		close(closeChan)
		tr.wg.Wait()
	}

	tr.Lock()
	tr.sceneData = nil
	tr.frameBuffer = nil
	tr.Unlock()
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		tr.logger.Error("request queue is full; dropping block request")
		blockReq.ErrChan <- tracer.ErrTracerBusy
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()

	tr.updateBuffer[updateType] = data
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Commit queued changes.
func (tr *cpuTracer) commitUpdates() error {
	tr.Lock()
	defer tr.Unlock()

	var ok bool
	for updateType, data := range tr.updateBuffer {
		switch updateType {
		case tracer.UpdateScene:
			tr.sceneData, ok = data.(*scene.Scene)
		case tracer.UpdateFrameBuffer:
			tr.frameBuffer, ok = data.(*frame.Buffer)
		default:
			ok = false
		}

		if !ok {
			return fmt.Errorf("%w: type %d with payload %T", tracer.ErrUnsupportedUpdate, updateType, data)
		}
	}

	tr.updateBuffer = make(map[tracer.UpdateType]interface{})
	return nil
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	// Worker already running
	if tr.closeChan != nil {
		return
	}

	tr.closeChan = make(chan struct{})
	closeChan := tr.closeChan

	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		close(readyChan)
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				// Apply any pending changes
				startTime := time.Now()
				err := tr.commitUpdates()
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}
				updateTime := time.Since(startTime)

				err = tr.renderBlock(&blockReq, updateTime)
				if err != nil {
					blockReq.ErrChan <- err
				}
			case <-closeChan:
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block. Stats are updated before the last row is reported so the
// renderer can read them once every row is done.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest, updateTime time.Duration) error {
	if tr.sceneData == nil || tr.sceneData.Camera == nil {
		return tracer.ErrNoSceneData
	}
	if tr.frameBuffer == nil {
		return tracer.ErrNoFrameBuffer
	}
	if blockReq.BlockY+blockReq.BlockH > tr.frameBuffer.H {
		return tracer.ErrBlockOutOfBounds
	}

	tr.logger.Debugf("rendering rows [%d, %d)", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH)

	start := time.Now()
	integrator := NewIntegrator(tr.sceneData, blockReq.MaxDepth)
	samples := tracer.SubpixelSamples(blockReq.SamplesPerPixel)

	var paths uint64
	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		paths += renderRow(integrator, tr.frameBuffer, y, samples)

		if y == blockReq.BlockY+blockReq.BlockH-1 {
			*tr.stats = tracer.Stats{
				BlockH:     blockReq.BlockH,
				RenderTime: time.Since(start),
				UpdateTime: updateTime,
				Paths:      paths,
				Rays:       integrator.ResetRayCount(),
			}
		}
		blockReq.DoneChan <- 1
	}

	return nil
}

// Render scanline y (counted from the bottom of the frame) using the given
// number of samples for each of the 2x2 sub-pixels. Every row uses its own
// random source seeded from y and only writes to its own framebuffer row. It
// returns the number of traced camera paths.
func renderRow(integrator *Integrator, fb *frame.Buffer, y, samples uint32) uint64 {
	cam := integrator.sc.Camera
	rng := NewRowRand(y)
	row := fb.Row(fb.H - y - 1)

	w, h := float64(fb.W), float64(fb.H)
	invSamples := 1.0 / float64(samples)
	for x := range row {
		var r types.Vec3
		for sy := 0; sy < 2; sy++ {
			for sx := 0; sx < 2; sx++ {
				for s := uint32(0); s < samples; s++ {
					dx := tentSample(rng.Float64())
					dy := tentSample(rng.Float64())
					px := ((float64(sx)+0.5+dx)/2+float64(x))/w - 0.5
					py := ((float64(sy)+0.5+dy)/2+float64(y))/h - 0.5

					r = r.Add(integrator.Radiance(cam.Ray(px, py), 0, rng).Mul(invSamples))
				}
			}
		}
		row[x] = r.Mul(0.25)
	}

	return uint64(len(row)) * 4 * uint64(samples)
}
