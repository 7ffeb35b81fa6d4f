package reader

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/achilleasa/spheretrace/asset"
	"github.com/achilleasa/spheretrace/log"
	"github.com/achilleasa/spheretrace/scene"
)

var logger = log.New("scene reader")

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from a local file or an http(s) URL. The reader is selected
// based on the file extension and the parsed scene is validated before it is
// returned.
func ReadScene(pathToScene string) (*scene.Scene, error) {
	res, err := asset.NewResource(pathToScene)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Read(res)
}

// Read scene from an already opened resource.
func Read(res *asset.Resource) (*scene.Scene, error) {
	var reader Reader
	switch strings.ToLower(filepath.Ext(res.Name())) {
	case ".json":
		reader = &jsonSceneReader{}
	case ".spt", ".txt":
		reader = &textSceneReader{}
	default:
		return nil, fmt.Errorf("readScene: unsupported file format %q", filepath.Ext(res.Name()))
	}

	logger.Noticef(`parsing scene from "%s"`, res.Path())
	start := time.Now()

	sc, err := reader.Read(res)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(res.Name(), filepath.Ext(res.Name()))
	}

	if err = sc.Validate(); err != nil {
		return nil, err
	}

	logger.Infof("parsed scene %q with %d spheres in %d ms", sc.Name, len(sc.Spheres), time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}
