package store

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/MeKo-Tech/watercolormap/internal/mesh"
	"github.com/MeKo-Tech/watercolormap/internal/meshio"
)

// BlobStore writes mesh and image content under root, one file per
// node/kind, using a temp-file-then-rename sequence so a crash mid-write
// never leaves a partially-written file at the final path.
type BlobStore struct {
	root     string
	saveLock sync.Mutex
}

// NewBlobStore ensures root exists and returns a store rooted there.
func NewBlobStore(root string) (*BlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create root %s: %w", root, err)
	}
	return &BlobStore{root: root}, nil
}

func (b *BlobStore) path(project, nodeID, name string) string {
	return filepath.Join(b.root, project, nodeID+"-"+name)
}

func (b *BlobStore) atomicWrite(path string, write func(f *os.File) error) error {
	b.saveLock.Lock()
	defer b.saveLock.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("blobstore: create dir for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("blobstore: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("blobstore: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("blobstore: rename into place: %w", err)
	}
	return nil
}

// SaveMesh serializes m to the node's mesh file and returns the file's
// filesystem path, which serves as its URL (the tiler is an offline batch
// pipeline).
func (b *BlobStore) SaveMesh(project, nodeID string, m *mesh.Mesh) (string, error) {
	path := b.path(project, nodeID, "mesh.bin")
	err := b.atomicWrite(path, func(f *os.File) error {
		return meshio.WriteMesh(f, m)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// SaveImage encodes img as PNG to the node's <kind> file and returns its
// URL.
func (b *BlobStore) SaveImage(project, nodeID, kind string, img image.Image) (string, error) {
	path := b.path(project, nodeID, kind+".png")
	err := b.atomicWrite(path, func(f *os.File) error {
		return png.Encode(f, img)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// LoadMesh reads a mesh previously written by SaveMesh.
func (b *BlobStore) LoadMesh(project, nodeID, url string) (*mesh.Mesh, error) {
	f, err := os.Open(url)
	if err != nil {
		return nil, fmt.Errorf("blobstore: open mesh %s: %w", url, err)
	}
	defer f.Close()
	return meshio.ReadMesh(f)
}

// LoadImage reads an image previously written by SaveImage and returns it
// in a mesh.TexturedMesh whose Mesh field is left nil for the caller to
// fill before mesh.MergeMeshesAndTextures. An empty url yields an empty
// TexturedMesh.
func (b *BlobStore) LoadImage(project, nodeID, url string) (mesh.TexturedMesh, error) {
	if url == "" {
		return mesh.TexturedMesh{}, nil
	}
	f, err := os.Open(url)
	if err != nil {
		return mesh.TexturedMesh{}, fmt.Errorf("blobstore: open image %s: %w", url, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return mesh.TexturedMesh{}, fmt.Errorf("blobstore: decode image %s: %w", url, err)
	}
	return mesh.TexturedMesh{Texture: img}, nil
}

// DeleteProject removes every blob under project.
func (b *BlobStore) DeleteProject(project string) error {
	b.saveLock.Lock()
	defer b.saveLock.Unlock()
	if err := os.RemoveAll(filepath.Join(b.root, project)); err != nil {
		return fmt.Errorf("blobstore: delete project %s: %w", project, err)
	}
	return nil
}
