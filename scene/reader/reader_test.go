package reader

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/spheretrace/asset"
	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/types"
)

const textScene = `
# two spheres and a light
name test box
camera 0 0 10 0 0 -1 0.5 2
sphere 1    0 0 0      0 0 0     0.75 0.25 0.25 DIFF
sphere 0.5  2 0 0      0 0 0     0.999 0.999 0.999 glass
sphere 100  0 150 0    12 12 12  0 0 0 diffuse
`

const jsonScene = `{
  "name": "json box",
  "camera": {"position": [0, 0, 10], "direction": [0, 0, -2], "near_offset": 2},
  "spheres": [
    {"radius": 1, "center": [0, 0, 0], "emission": [0, 0, 0], "color": [0.5, 0.5, 0.5], "material": "specular"},
    {"radius": 100, "center": [0, 150, 0], "emission": [4, 4, 4], "color": [0, 0, 0], "material": "diffuse"}
  ]
}`

func TestTextSceneReader(t *testing.T) {
	sc, err := Read(asset.NewResourceFromStream("box.spt", strings.NewReader(textScene)))
	if err != nil {
		t.Fatal(err)
	}

	if sc.Name != "test box" {
		t.Fatalf("expected scene name 'test box'; got %q", sc.Name)
	}
	if len(sc.Spheres) != 3 {
		t.Fatalf("expected 3 spheres; got %d", len(sc.Spheres))
	}
	if sc.Spheres[1].Material.Type != scene.RefractiveMaterial {
		t.Fatalf("expected sphere 1 to be refractive; got %s", sc.Spheres[1].Material.Type)
	}
	if sc.Spheres[2].Material.Emission != types.XYZ(12, 12, 12) {
		t.Fatalf("expected light emission (12, 12, 12); got %v", sc.Spheres[2].Material.Emission)
	}
	if sc.Camera.FOV != 0.5 || sc.Camera.NearOffset != 2 {
		t.Fatalf("unexpected camera settings: fov %f, near offset %f", sc.Camera.FOV, sc.Camera.NearOffset)
	}
}

func TestTextSceneReaderErrors(t *testing.T) {
	specs := []struct {
		payload  string
		expError string
	}{
		{"sphere 1 2 3", `[bad.spt: 1] error: unsupported syntax for "sphere"`},
		{"\ncamera 0 0 0 0 0 x", `[bad.spt: 2] error: could not parse "x" as a number`},
		{"sphere 1 0 0 0 0 0 0 1 1 1 velvet", `[bad.spt: 1] error: scene: unknown material type "velvet"`},
		{"rotate 10 0", `[bad.spt: 1] error: "rotate" must follow a "camera" statement`},
		{"teapot 1", `[bad.spt: 1] error: unknown statement "teapot"`},
	}

	for index, s := range specs {
		_, err := Read(asset.NewResourceFromStream("bad.spt", strings.NewReader(s.payload)))
		if err == nil || !strings.HasPrefix(err.Error(), s.expError) {
			t.Fatalf("[spec %d] expected error starting with %q; got %v", index, s.expError, err)
		}
	}
}

func TestJSONSceneReader(t *testing.T) {
	sc, err := Read(asset.NewResourceFromStream("box.json", strings.NewReader(jsonScene)))
	if err != nil {
		t.Fatal(err)
	}

	if sc.Name != "json box" {
		t.Fatalf("expected scene name 'json box'; got %q", sc.Name)
	}
	if len(sc.Spheres) != 2 || sc.Spheres[0].Material.Type != scene.SpecularMaterial {
		t.Fatalf("unexpected spheres %v", sc.Spheres)
	}
	if sc.Camera.Dir != types.XYZ(0, 0, -1) {
		t.Fatalf("expected camera direction to be normalized; got %v", sc.Camera.Dir)
	}
	if sc.Camera.FOV != defaultFOV {
		t.Fatalf("expected default fov %f; got %f", defaultFOV, sc.Camera.FOV)
	}
}

func TestReadSceneValidation(t *testing.T) {
	specs := []struct {
		name     string
		payload  string
		expError error
	}{
		{"empty.json", `{"camera": {"position": [0, 0, 0], "direction": [0, 0, -1]}, "spheres": []}`, scene.ErrEmptyScene},
		{"nocam.spt", "sphere 1 0 0 0 0 0 0 1 1 1 diffuse", scene.ErrCameraNotDefined},
		{"zerodir.spt", "camera 0 0 0 0 0 0\nsphere 1 0 0 0 0 0 0 1 1 1 diffuse", scene.ErrInvalidCameraDir},
	}

	for index, s := range specs {
		_, err := Read(asset.NewResourceFromStream(s.name, strings.NewReader(s.payload)))
		if err != s.expError {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expError, err)
		}
	}

	_, err := Read(asset.NewResourceFromStream("scene.obj", strings.NewReader("")))
	if err == nil || !strings.Contains(err.Error(), "unsupported file format") {
		t.Fatalf("expected unsupported format error; got %v", err)
	}

	_, err = Read(asset.NewResourceFromStream("extra.json", strings.NewReader(`{"lights": []}`)))
	if err == nil {
		t.Fatal("expected an error for unknown JSON fields")
	}
}

func TestReadSceneFromFileAndURL(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "box.spt"), []byte(textScene), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := ReadScene(filepath.Join(dir, "box.spt"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Spheres) != 3 {
		t.Fatalf("expected 3 spheres; got %d", len(sc.Spheres))
	}

	server := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer server.Close()

	sc, err = ReadScene(server.URL + "/box.spt")
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "test box" {
		t.Fatalf("expected scene name 'test box'; got %q", sc.Name)
	}
}
