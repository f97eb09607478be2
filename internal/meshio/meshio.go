// Package meshio serializes mesh.Mesh values to and from a stream. No
// glTF/OBJ/PLY library exists anywhere in the example pack this module
// was grounded on, so this uses encoding/gob, matching the pack's own
// practice elsewhere of reaching for stdlib serialization when no
// third-party codec is available.
package meshio

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/MeKo-Tech/watercolormap/internal/mesh"
)

type wireMesh struct {
	Vertices   []mesh.Vertex
	Faces      []mesh.Face
	HasNormals bool
	HasUVs     bool
	HasColors  bool
}

// WriteMesh gob-encodes m to w.
func WriteMesh(w io.Writer, m *mesh.Mesh) error {
	if m == nil {
		m = &mesh.Mesh{}
	}
	wm := wireMesh{
		Vertices:   m.Vertices,
		Faces:      m.Faces,
		HasNormals: m.HasNormals,
		HasUVs:     m.HasUVs,
		HasColors:  m.HasColors,
	}
	if err := gob.NewEncoder(w).Encode(wm); err != nil {
		return fmt.Errorf("meshio: encode mesh: %w", err)
	}
	return nil
}

// ReadMesh gob-decodes a mesh previously written by WriteMesh.
func ReadMesh(r io.Reader) (*mesh.Mesh, error) {
	var wm wireMesh
	if err := gob.NewDecoder(r).Decode(&wm); err != nil {
		return nil, fmt.Errorf("meshio: decode mesh: %w", err)
	}
	return &mesh.Mesh{
		Vertices:   wm.Vertices,
		Faces:      wm.Faces,
		HasNormals: wm.HasNormals,
		HasUVs:     wm.HasUVs,
		HasColors:  wm.HasColors,
	}, nil
}
