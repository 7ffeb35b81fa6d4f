package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/achilleasa/spheretrace/frame"
	"github.com/achilleasa/spheretrace/publish"
	"github.com/achilleasa/spheretrace/renderer"
	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/scene/reader"
	"github.com/achilleasa/spheretrace/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Total samples per pixel when none are specified (one per sub-pixel).
const defaultSamplesPerPixel = 4

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	spp, err := parseSamples(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	opts, err := renderOptions(ctx, spp)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if !ctx.Bool("quiet") {
		opts.Progress = progressReporter(errWriter(ctx), spp)
	}

	out := ctx.String("out")
	format, err := frame.FormatFromFilename(out)
	if out == "-" {
		format, err = frame.PPM, nil
	}
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	var pub publish.Publisher
	if s3Cfg := s3Config(ctx); s3Cfg.Bucket != "" {
		if pub, err = publish.NewS3Publisher(s3Cfg); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	r, err := renderer.New(sc, tracer.NaiveScheduler(), opts)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer r.Close()

	logger.Noticef("rendering %q at %dx%d (%d spp)", sc.Name, opts.FrameW, opts.FrameH, spp)
	fb, err := r.Render()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	displayFrameStats(r.Stats())

	// Encode frame
	var imgData bytes.Buffer
	start := time.Now()
	if err = frame.Encode(&imgData, fb, format); err != nil {
		return err
	}

	if out == "-" {
		_, err = ctx.App.Writer.Write(imgData.Bytes())
	} else {
		err = os.WriteFile(out, imgData.Bytes(), 0644)
	}
	if err != nil {
		return err
	}
	logger.Noticef("wrote %s frame to %s in %d ms", format, out, time.Since(start).Nanoseconds()/1000000)

	var thumbData bytes.Buffer
	thumbFile := ctx.String("thumbnail")
	if thumbFile != "" {
		if err = frame.WriteThumbnail(&thumbData, fb, uint(ctx.Int("thumbnail-size"))); err != nil {
			return err
		}
		if err = os.WriteFile(thumbFile, thumbData.Bytes(), 0644); err != nil {
			return err
		}
		logger.Noticef("wrote thumbnail to %s", thumbFile)
	}

	if pub == nil {
		return nil
	}

	key := filepath.Base(out)
	if out == "-" {
		key = sc.Name + ".ppm"
	}
	if err = pub.Publish(context.Background(), key, format.ContentType(), imgData.Bytes()); err != nil {
		return err
	}
	if thumbFile != "" {
		if err = pub.Publish(context.Background(), filepath.Base(thumbFile), frame.PNG.ContentType(), thumbData.Bytes()); err != nil {
			return err
		}
	}

	return nil
}

// Parse the optional total samples per pixel argument.
func parseSamples(ctx *cli.Context) (uint32, error) {
	switch ctx.NArg() {
	case 0:
		return defaultSamplesPerPixel, nil
	case 1:
	default:
		return 0, fmt.Errorf("expected at most one samples argument; got %d arguments", ctx.NArg())
	}

	spp, err := strconv.ParseUint(ctx.Args().First(), 10, 32)
	if err != nil || spp == 0 {
		return 0, fmt.Errorf("invalid samples argument %q: expected a positive integer", ctx.Args().First())
	}
	return uint32(spp), nil
}

// Build renderer options from the command flags.
func renderOptions(ctx *cli.Context, spp uint32) (renderer.Options, error) {
	width, height := ctx.Int("width"), ctx.Int("height")
	if width <= 0 || height <= 0 {
		return renderer.Options{}, fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}
	if ctx.Int("tracers") < 0 {
		return renderer.Options{}, fmt.Errorf("invalid tracer count %d", ctx.Int("tracers"))
	}
	if ctx.Int("max-depth") < 0 {
		return renderer.Options{}, fmt.Errorf("invalid max depth %d", ctx.Int("max-depth"))
	}

	return renderer.Options{
		FrameW:          uint32(width),
		FrameH:          uint32(height),
		SamplesPerPixel: spp,
		MaxDepth:        uint32(ctx.Int("max-depth")),
		NumTracers:      ctx.Int("tracers"),
	}, nil
}

// Load the scene selected by the command flags and apply camera overrides.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	var sc *scene.Scene
	var err error
	if sceneFile := ctx.String("scene-file"); sceneFile != "" {
		sc, err = reader.ReadScene(sceneFile)
	} else {
		sc, err = scene.Builtin(ctx.String("scene"))
	}
	if err != nil {
		return nil, err
	}

	yaw, pitch := ctx.Float64("yaw"), ctx.Float64("pitch")
	if sc.Camera != nil && (yaw != 0 || pitch != 0) {
		sc.Camera.Rotate(yaw*math.Pi/180, pitch*math.Pi/180)
		logger.Infof("rotated camera by yaw %.2f and pitch %.2f degrees", yaw, pitch)
	}

	return sc, sc.Validate()
}

// Assemble the S3 settings from the environment and the command flags.
func s3Config(ctx *cli.Context) publish.S3Config {
	cfg := publish.S3ConfigFromEnv()
	if v := ctx.String("s3-bucket"); v != "" {
		cfg.Bucket = v
	}
	if v := ctx.String("s3-region"); v != "" {
		cfg.Region = v
	}
	if v := ctx.String("s3-endpoint"); v != "" {
		cfg.Endpoint = v
	}
	if v := ctx.String("s3-prefix"); v != "" {
		cfg.Prefix = v
	}
	return cfg
}

func errWriter(ctx *cli.Context) io.Writer {
	if ctx.App.ErrWriter != nil {
		return ctx.App.ErrWriter
	}
	return os.Stderr
}

// Report render progress as a percentage of completed rows.
func progressReporter(w io.Writer, spp uint32) renderer.ProgressFunc {
	return func(doneRows, totalRows uint32) {
		fmt.Fprintf(w, "\rRendering (%d spp) %5.2f%%", spp, 100*float64(doneRows)/float64(totalRows))
		if doneRows == totalRows {
			fmt.Fprintln(w)
		}
	}
}

func displayFrameStats(stats renderer.FrameStats) {
	logger.Noticef("frame statistics\n%s", formatFrameStats(stats))
}

func formatFrameStats(stats renderer.FrameStats) string {
	p := message.NewPrinter(language.English)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Paths", "Rays", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			p.Sprintf("%d", stat.Paths),
			p.Sprintf("%d", stat.Rays),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "TOTAL", p.Sprintf("%d", stats.Paths), p.Sprintf("%d", stats.Rays), stats.RenderTime.String()})

	table.Render()
	return buf.String()
}
