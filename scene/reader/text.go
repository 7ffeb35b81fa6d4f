package reader

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/achilleasa/spheretrace/asset"
	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/types"
)

// The text scene reader parses a line based scene description. Empty lines
// and lines starting with '#' are ignored. Supported statements:
//
//	name <scene name>
//	camera <px> <py> <pz> <dx> <dy> <dz> [fov] [near offset]
//	rotate <yaw deg> <pitch deg>
//	sphere <radius> <cx> <cy> <cz> <er> <eg> <eb> <r> <g> <b> <diffuse|specular|refractive>
type textSceneReader struct {
	sceneFile string
	sc        *scene.Scene
}

// Read scene definition.
func (r *textSceneReader) Read(res *asset.Resource) (*scene.Scene, error) {
	r.sceneFile = res.Path()
	r.sc = scene.NewScene("")

	scanner := bufio.NewScanner(res)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "name":
			r.sc.Name = strings.Join(lineTokens[1:], " ")
		case "camera":
			err = r.parseCamera(lineTokens)
		case "rotate":
			err = r.parseRotate(lineTokens)
		case "sphere":
			err = r.parseSphere(lineTokens)
		default:
			err = fmt.Errorf("unknown statement %q", lineTokens[0])
		}

		if err != nil {
			return nil, r.emitError(lineNum, "%s", err.Error())
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, r.emitError(lineNum, "%s", err.Error())
	}

	return r.sc, nil
}

func (r *textSceneReader) parseCamera(lineTokens []string) error {
	if len(lineTokens) != 7 && len(lineTokens) != 8 && len(lineTokens) != 9 {
		return fmt.Errorf(`unsupported syntax for "camera"; expected 6 to 8 arguments; got %d`, len(lineTokens)-1)
	}

	values, err := parseFloats(lineTokens[1:])
	if err != nil {
		return err
	}

	fov := defaultFOV
	if len(values) > 6 {
		fov = values[6]
	}
	var nearOffset float64
	if len(values) > 7 {
		nearOffset = values[7]
	}

	r.sc.SetCamera(scene.NewCamera(
		types.XYZ(values[0], values[1], values[2]),
		types.XYZ(values[3], values[4], values[5]),
		fov,
		nearOffset,
	))
	return nil
}

func (r *textSceneReader) parseRotate(lineTokens []string) error {
	if len(lineTokens) != 3 {
		return fmt.Errorf(`unsupported syntax for "rotate"; expected 2 arguments; got %d`, len(lineTokens)-1)
	}
	if r.sc.Camera == nil {
		return fmt.Errorf(`"rotate" must follow a "camera" statement`)
	}

	values, err := parseFloats(lineTokens[1:])
	if err != nil {
		return err
	}
	r.sc.Camera.Rotate(values[0]*math.Pi/180, values[1]*math.Pi/180)
	return nil
}

func (r *textSceneReader) parseSphere(lineTokens []string) error {
	if len(lineTokens) != 12 {
		return fmt.Errorf(`unsupported syntax for "sphere"; expected 11 arguments; got %d`, len(lineTokens)-1)
	}

	values, err := parseFloats(lineTokens[1:11])
	if err != nil {
		return err
	}

	matType, err := scene.ParseMaterialType(lineTokens[11])
	if err != nil {
		return err
	}

	return r.sc.AddSphere(scene.NewSphere(
		values[0],
		types.XYZ(values[1], values[2], values[3]),
		scene.Material{
			Type:     matType,
			Emission: types.XYZ(values[4], values[5], values[6]),
			Color:    types.XYZ(values[7], values[8], values[9]),
		},
	))
}

// Generate an error message that includes the file and line number.
func (r *textSceneReader) emitError(line int, msgFormat string, args ...interface{}) error {
	return fmt.Errorf("[%s: %d] error: %s", r.sceneFile, line, fmt.Sprintf(msgFormat, args...))
}

// Parse a list of float tokens.
func parseFloats(tokens []string) ([]float64, error) {
	values := make([]float64, len(tokens))
	for index, token := range tokens {
		val, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse %q as a number", token)
		}
		values[index] = val
	}
	return values, nil
}
