package cmd

import (
	"fmt"

	"github.com/achilleasa/spheretrace/renderer"
	"github.com/achilleasa/spheretrace/tracer"
	"github.com/urfave/cli"
)

// Render the same frame several times and display per-frame statistics. The
// perfect scheduler rebalances blocks between frames using the measured
// tracer throughput.
func BenchFrames(ctx *cli.Context) error {
	setupLogging(ctx)

	spp, err := parseSamples(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	opts, err := renderOptions(ctx, spp)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	numFrames := ctx.Int("frames")
	if numFrames <= 0 {
		return cli.NewExitError(fmt.Sprintf("invalid frame count %d", numFrames), 1)
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	r, err := renderer.New(sc, tracer.PerfectScheduler(), opts)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer r.Close()

	for index := 0; index < numFrames; index++ {
		if _, err = r.Render(); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		logger.Noticef("frame %d/%d statistics\n%s", index+1, numFrames, formatFrameStats(r.Stats()))
	}

	return nil
}
