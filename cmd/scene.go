package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/scene/writer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Export the selected scene as a JSON scene file.
func ExportScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return cli.NewExitError("missing output file argument", 1)
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	outFile := ctx.Args().First()
	if outFile == "-" {
		return writer.WriteJSON(ctx.App.Writer, sc)
	}
	if !strings.HasSuffix(outFile, ".json") {
		return cli.NewExitError("only scene files with a .json extension are supported", 1)
	}

	if err = writer.WriteJSONFile(outFile, sc); err != nil {
		return err
	}
	logger.Noticef("exported scene %q to %s", sc.Name, outFile)
	return nil
}

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	_, err = ctx.App.Writer.Write([]byte(formatSceneInfo(sc)))
	return err
}

// Format the camera and sphere list of a validated scene.
func formatSceneInfo(sc *scene.Scene) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Scene: %s\n%s\n\n", sc.Name, sc.Camera)

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Radius", "Center", "Material", "Color", "Emission"})
	for index, sp := range sc.Spheres {
		table.Append([]string{
			fmt.Sprintf("%d", index),
			fmt.Sprintf("%g", sp.Radius),
			fmt.Sprintf("(%g, %g, %g)", sp.Center[0], sp.Center[1], sp.Center[2]),
			sp.Material.Type.String(),
			fmt.Sprintf("(%g, %g, %g)", sp.Material.Color[0], sp.Material.Color[1], sp.Material.Color[2]),
			fmt.Sprintf("(%g, %g, %g)", sp.Material.Emission[0], sp.Material.Emission[1], sp.Material.Emission[2]),
		})
	}
	table.Render()

	return buf.String()
}
