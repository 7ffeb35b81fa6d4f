package writer

import (
	"encoding/json"
	"io"
	"os"

	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/scene/reader"
)

// Serialize scene as an indented JSON document that can be loaded back with
// reader.ReadScene.
func WriteJSON(w io.Writer, sc *scene.Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reader.NewDocument(sc))
}

// Write scene to a JSON file.
func WriteJSONFile(filename string, sc *scene.Scene) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err = WriteJSON(f, sc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
