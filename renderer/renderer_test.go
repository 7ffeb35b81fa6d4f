package renderer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/achilleasa/spheretrace/frame"
	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/tracer"
	"github.com/achilleasa/spheretrace/types"
)

func TestNewValidation(t *testing.T) {
	valid := Options{FrameW: 4, FrameH: 4, SamplesPerPixel: 4, NumTracers: 1}

	type spec struct {
		sc     *scene.Scene
		opts   Options
		expErr error
	}
	specs := []spec{
		{nil, valid, ErrSceneNotDefined},
		{scene.NewScene("empty"), valid, scene.ErrEmptyScene},
		{scene.NewCornellScene(), Options{FrameW: 0, FrameH: 4, SamplesPerPixel: 4}, ErrInvalidFrameDims},
		{scene.NewCornellScene(), Options{FrameW: 4, FrameH: 0, SamplesPerPixel: 4}, ErrInvalidFrameDims},
		{scene.NewCornellScene(), Options{FrameW: 4, FrameH: 4, SamplesPerPixel: 0}, ErrInvalidSampleCount},
		{scene.NewCornellScene(), Options{FrameW: 4, FrameH: 4, SamplesPerPixel: 4, NumTracers: -1}, ErrNoTracers},
	}

	for index, s := range specs {
		r, err := New(s.sc, tracer.NaiveScheduler(), s.opts)
		if !errors.Is(err, s.expErr) {
			if r != nil {
				r.Close()
			}
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}

	_, err := NewWithTracers(scene.NewCornellScene(), tracer.NaiveScheduler(), nil, valid)
	if err != ErrNoTracers {
		t.Fatalf("expected error %v; got %v", ErrNoTracers, err)
	}
}

func renderFrame(t *testing.T, sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options, frames int) (*frame.Buffer, FrameStats) {
	r, err := New(sc, scheduler, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var fb *frame.Buffer
	for i := 0; i < frames; i++ {
		fb, err = r.Render()
		if err != nil {
			t.Fatal(err)
		}
	}

	// Detach the pixels from the renderer before it is closed
	out := frame.NewBuffer(fb.W, fb.H)
	copy(out.Pix, fb.Pix)
	return out, r.Stats()
}

func TestRenderCornell(t *testing.T) {
	const w, h = 16, 12

	var progressCalls, lastDone uint32
	opts := Options{
		FrameW:          w,
		FrameH:          h,
		SamplesPerPixel: 4,
		NumTracers:      2,
		Progress: func(doneRows, totalRows uint32) {
			progressCalls++
			lastDone = doneRows
			if totalRows != h {
				t.Errorf("expected progress total of %d rows; got %d", h, totalRows)
			}
		},
	}

	fb, stats := renderFrame(t, scene.NewCornellScene(), tracer.NaiveScheduler(), opts, 1)
	if len(fb.Pix) != w*h {
		t.Fatalf("expected %d pixels; got %d", w*h, len(fb.Pix))
	}

	var nonBlack int
	for index, px := range fb.Pix {
		if !px.NonNegative() {
			t.Fatalf("pixel %d has negative radiance %v", index, px)
		}
		if px != (types.Vec3{}) {
			nonBlack++
		}
	}
	if nonBlack == 0 {
		t.Fatal("expected some non-black pixels")
	}

	if progressCalls != h || lastDone != h {
		t.Fatalf("expected %d progress calls ending at %d; got %d calls ending at %d", h, h, progressCalls, lastDone)
	}

	if len(stats.Tracers) != 2 {
		t.Fatalf("expected stats for 2 tracers; got %d", len(stats.Tracers))
	}
	var statRows uint32
	for _, trStat := range stats.Tracers {
		statRows += trStat.BlockH
	}
	if statRows != h {
		t.Fatalf("expected tracer blocks to add up to %d rows; got %d", h, statRows)
	}
	if exp := uint64(w * h * 4); stats.Paths != exp {
		t.Fatalf("expected %d paths; got %d", exp, stats.Paths)
	}
	if stats.Rays < stats.Paths {
		t.Fatalf("expected at least %d rays; got %d", stats.Paths, stats.Rays)
	}
}

func TestRenderDeterminism(t *testing.T) {
	const w, h = 12, 9

	type spec struct {
		numTracers int
		scheduler  tracer.BlockScheduler
		frames     int
	}
	specs := []spec{
		{1, tracer.NaiveScheduler(), 1},
		{3, tracer.NaiveScheduler(), 1},
		{4, tracer.PerfectScheduler(), 3},
		{20, tracer.NaiveScheduler(), 1},
	}

	var ref *frame.Buffer
	for index, s := range specs {
		opts := Options{FrameW: w, FrameH: h, SamplesPerPixel: 8, NumTracers: s.numTracers}
		fb, _ := renderFrame(t, scene.NewCornellScene(), s.scheduler, opts, s.frames)
		if ref == nil {
			ref = fb
			continue
		}

		for i := range ref.Pix {
			if ref.Pix[i] != fb.Pix[i] {
				t.Fatalf("[spec %d] pixel %d differs from reference: %v vs %v", index, i, ref.Pix[i], fb.Pix[i])
			}
		}
	}
}

func TestRenderFurnace(t *testing.T) {
	opts := Options{FrameW: 8, FrameH: 8, SamplesPerPixel: 64, NumTracers: 2}
	fb, _ := renderFrame(t, scene.NewFurnaceScene(types.XYZ(1, 1, 1), 0.5), tracer.NaiveScheduler(), opts, 1)

	var sum float64
	for _, px := range fb.Pix {
		sum += px[0] + px[1] + px[2]
	}
	if mean := sum / float64(3*len(fb.Pix)); mean < 1.96 || mean > 2.04 {
		t.Fatalf("expected mean radiance close to 2; got %f", mean)
	}
}

func TestRenderLeavesSceneUntouched(t *testing.T) {
	sc := scene.NewCornellScene()
	opts := Options{FrameW: 8, FrameH: 6, SamplesPerPixel: 4, NumTracers: 2}
	renderFrame(t, sc, tracer.NaiveScheduler(), opts, 1)

	// Without an image plane basis every camera ray follows the view direction
	if got := sc.Camera.Ray(0.5, 0.5).Dir; got.Sub(sc.Camera.Dir).Len() > 1e-12 {
		t.Fatalf("expected the caller's camera to have no projection set up; got ray dir %v", got)
	}
}

func TestRenderTracerError(t *testing.T) {
	expErr := errors.New("tracer failed")
	slow := &slowTracer{delay: 50 * time.Millisecond}
	tracers := []tracer.Tracer{&failingTracer{err: expErr}, slow}

	r, err := NewWithTracers(scene.NewCornellScene(), tracer.NaiveScheduler(), tracers, Options{FrameW: 4, FrameH: 4, SamplesPerPixel: 4})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err = r.Render(); err != expErr {
		t.Fatalf("expected error %v; got %v", expErr, err)
	}

	// The error is only reported once the other blocks are done
	if !slow.finished() {
		t.Fatal("expected render to wait for outstanding blocks before returning")
	}
}

type failingTracer struct {
	err error
}

func (ft *failingTracer) Id() string {
	return "failing"
}

func (ft *failingTracer) Speed() uint32 {
	return 1
}

func (ft *failingTracer) Init() error {
	return nil
}

func (ft *failingTracer) Close() {
}

func (ft *failingTracer) Enqueue(blockReq tracer.BlockRequest) {
	go func() {
		time.Sleep(time.Millisecond)
		blockReq.ErrChan <- ft.err
	}()
}

func (ft *failingTracer) Update(_ tracer.UpdateType, _ interface{}) {
}

func (ft *failingTracer) Stats() *tracer.Stats {
	return &tracer.Stats{}
}

// A tracer that reports its rows after a delay without rendering anything.
type slowTracer struct {
	delay time.Duration

	mu   sync.Mutex
	done bool
}

func (st *slowTracer) Id() string {
	return "slow"
}

func (st *slowTracer) Speed() uint32 {
	return 1
}

func (st *slowTracer) Init() error {
	return nil
}

func (st *slowTracer) Close() {
}

func (st *slowTracer) Enqueue(blockReq tracer.BlockRequest) {
	go func() {
		time.Sleep(st.delay)
		st.mu.Lock()
		st.done = true
		st.mu.Unlock()
		for row := uint32(0); row < blockReq.BlockH; row++ {
			blockReq.DoneChan <- 1
		}
	}()
}

func (st *slowTracer) Update(_ tracer.UpdateType, _ interface{}) {
}

func (st *slowTracer) Stats() *tracer.Stats {
	return &tracer.Stats{}
}

func (st *slowTracer) finished() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.done
}
