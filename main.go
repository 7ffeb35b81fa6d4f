package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/spheretrace/cmd"
	"github.com/urfave/cli"
)

var sceneFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "scene",
		Value:  "cornell",
		Usage:  "name of a built-in scene (see list-scenes)",
		EnvVar: "SPHERETRACE_SCENE",
	},
	cli.StringFlag{
		Name:   "scene-file",
		Usage:  "load scene from a .json or .spt file or an http(s) URL instead of a built-in scene",
		EnvVar: "SPHERETRACE_SCENE_FILE",
	},
	cli.Float64Flag{
		Name:  "yaw",
		Usage: "rotate the camera around the world up axis (degrees)",
	},
	cli.Float64Flag{
		Name:  "pitch",
		Usage: "rotate the camera around its horizontal axis (degrees)",
	},
}

var frameFlags = []cli.Flag{
	cli.IntFlag{
		Name:   "width",
		Value:  1024,
		Usage:  "frame width",
		EnvVar: "SPHERETRACE_WIDTH",
	},
	cli.IntFlag{
		Name:   "height",
		Value:  768,
		Usage:  "frame height",
		EnvVar: "SPHERETRACE_HEIGHT",
	},
	cli.IntFlag{
		Name:   "tracers",
		Usage:  "number of cpu tracers; 0 uses one tracer per cpu",
		EnvVar: "SPHERETRACE_TRACERS",
	},
	cli.IntFlag{
		Name:  "max-depth",
		Usage: "hard limit for the path length; 0 uses the default limit",
	},
}

func flags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}

func main() {
	if err := cmd.LoadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "error loading .env file: %v\n", err)
		os.Exit(1)
	}

	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "spheretrace"
	app.Usage = "render sphere scenes using monte carlo path tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "set log level (debug, info, notice, warning, error)",
			EnvVar: "SPHERETRACE_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a single frame of the selected scene and write it to an image file. The
optional argument specifies the total number of samples per pixel; each pixel
is split into 2x2 sub-pixels that receive a quarter of the samples each.

The output format is selected by the file extension (.ppm, .png, .bmp, .tiff).
Use "-" to write a PPM image to stdout. When an S3 bucket is configured the
image and its thumbnail are also uploaded. S3 credentials are read from the
SPHERETRACE_S3_ACCESS_KEY and SPHERETRACE_S3_SECRET_KEY variables.`,
			ArgsUsage: "[samples]",
			Flags: flags(frameFlags, sceneFlags, []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Value: "image.ppm",
					Usage: "image filename for the rendered frame",
				},
				cli.StringFlag{
					Name:  "thumbnail",
					Usage: "also write a png thumbnail to this file",
				},
				cli.IntFlag{
					Name:  "thumbnail-size",
					Value: 256,
					Usage: "largest thumbnail dimension",
				},
				cli.BoolFlag{
					Name:  "quiet, q",
					Usage: "do not report render progress",
				},
				cli.StringFlag{
					Name:   "s3-bucket",
					Usage:  "upload the rendered frame to this S3 bucket",
					EnvVar: "SPHERETRACE_S3_BUCKET",
				},
				cli.StringFlag{
					Name:  "s3-region",
					Usage: "S3 region",
				},
				cli.StringFlag{
					Name:  "s3-endpoint",
					Usage: "endpoint of an S3 compatible object store",
				},
				cli.StringFlag{
					Name:  "s3-prefix",
					Usage: "prefix for uploaded object keys",
				},
			}),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "bench",
			Usage: "render the same frame several times and display tracer statistics",
			Description: `
Render the selected scene multiple times. Rows are rebalanced between tracers
after each frame based on their measured throughput.`,
			ArgsUsage: "[samples]",
			Flags: flags(frameFlags, sceneFlags, []cli.Flag{
				cli.IntFlag{
					Name:  "frames",
					Value: 3,
					Usage: "number of frames to render",
				},
			}),
			Action: cmd.BenchFrames,
		},
		{
			Name:   "list-scenes",
			Usage:  "list built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:   "scene-info",
			Usage:  "display the camera and sphere list of a scene",
			Flags:  sceneFlags,
			Action: cmd.ShowSceneInfo,
		},
		{
			Name:      "export-scene",
			Usage:     "write a scene to a json scene file",
			ArgsUsage: "scene.json",
			Flags:     sceneFlags,
			Action:    cmd.ExportScene,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
