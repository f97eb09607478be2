// Package store persists the tile tree's bookkeeping rows in SQLite, the
// same pragma tuning the teacher's mbtiles writer uses for tile blobs,
// with one upsert per node, and provides an atomic-file BlobStore for mesh and
// image content (spec.md §5).
package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/MeKo-Tech/watercolormap/internal/tiler"
)

// ObjectStore persists TileNode rows keyed by project and node id.
type ObjectStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open creates or opens the SQLite database at path, applying the WAL,
// synchronous, cache and temp-store performance pragmas below.
func Open(path string) (*ObjectStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 50000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: set pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &ObjectStore{db: db, path: path}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS tile_nodes (
			project TEXT NOT NULL,
			id TEXT NOT NULL,
			parent_id TEXT,
			is_leaf INTEGER NOT NULL,
			depth INTEGER NOT NULL,
			min_x REAL, min_y REAL, min_z REAL,
			max_x REAL, max_y REAL, max_z REAL,
			mesh_url TEXT,
			image_url TEXT,
			index_url TEXT,
			depends_on TEXT,
			depended_on_by TEXT,
			geometric_error REAL,
			has_geometric_error INTEGER,
			status TEXT NOT NULL,
			PRIMARY KEY (project, id)
		);

		CREATE INDEX IF NOT EXISTS tile_nodes_project ON tile_nodes (project);
		CREATE INDEX IF NOT EXISTS tile_nodes_parent ON tile_nodes (project, parent_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *ObjectStore) Close() error {
	return s.db.Close()
}

// SaveNode upserts a single TileNode row.
func (s *ObjectStore) SaveNode(n *tiler.TileNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO tile_nodes
			(project, id, parent_id, is_leaf, depth, min_x, min_y, min_z, max_x, max_y, max_z,
			 mesh_url, image_url, index_url, depends_on, depended_on_by, geometric_error,
			 has_geometric_error, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project, id) DO UPDATE SET
			parent_id=excluded.parent_id, is_leaf=excluded.is_leaf, depth=excluded.depth,
			min_x=excluded.min_x, min_y=excluded.min_y, min_z=excluded.min_z,
			max_x=excluded.max_x, max_y=excluded.max_y, max_z=excluded.max_z,
			mesh_url=excluded.mesh_url, image_url=excluded.image_url, index_url=excluded.index_url,
			depends_on=excluded.depends_on, depended_on_by=excluded.depended_on_by,
			geometric_error=excluded.geometric_error, has_geometric_error=excluded.has_geometric_error,
			status=excluded.status
	`,
		n.Project, n.ID, n.ParentID, boolToInt(n.IsLeaf), n.Depth,
		n.Bounds.Min.X, n.Bounds.Min.Y, n.Bounds.Min.Z,
		n.Bounds.Max.X, n.Bounds.Max.Y, n.Bounds.Max.Z,
		n.MeshURL, n.ImageURL, n.IndexURL,
		joinIDs(n.DependsOn), joinIDs(n.DependedOnBy),
		n.GeometricError, boolToInt(n.HasGeometricErr), string(n.Status),
	)
	if err != nil {
		return fmt.Errorf("store: save node %s/%s: %w", n.Project, n.ID, err)
	}
	return nil
}

// SaveNodes upserts every node with one SaveNode call each. The writes
// are not wrapped in a single transaction: on an error, nodes saved
// before it stay saved.
func (s *ObjectStore) SaveNodes(nodes map[string]*tiler.TileNode) error {
	for _, n := range nodes {
		if err := s.SaveNode(n); err != nil {
			return err
		}
	}
	return nil
}

// LoadProject returns every node belonging to project, keyed by id.
func (s *ObjectStore) LoadProject(project string) (map[string]*tiler.TileNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, parent_id, is_leaf, depth, min_x, min_y, min_z, max_x, max_y, max_z,
		       mesh_url, image_url, index_url, depends_on, depended_on_by, geometric_error,
		       has_geometric_error, status
		FROM tile_nodes WHERE project = ?
	`, project)
	if err != nil {
		return nil, fmt.Errorf("store: load project %s: %w", project, err)
	}
	defer rows.Close()

	out := make(map[string]*tiler.TileNode)
	for rows.Next() {
		n := &tiler.TileNode{Project: project}
		var isLeaf, hasGeomErr int
		var dependsOn, dependedOnBy string
		if err := rows.Scan(&n.ID, &n.ParentID, &isLeaf, &n.Depth,
			&n.Bounds.Min.X, &n.Bounds.Min.Y, &n.Bounds.Min.Z,
			&n.Bounds.Max.X, &n.Bounds.Max.Y, &n.Bounds.Max.Z,
			&n.MeshURL, &n.ImageURL, &n.IndexURL,
			&dependsOn, &dependedOnBy, &n.GeometricError, &hasGeomErr, &n.Status); err != nil {
			return nil, fmt.Errorf("store: scan node row: %w", err)
		}
		n.IsLeaf = isLeaf != 0
		n.HasGeometricErr = hasGeomErr != 0
		n.DependsOn = splitIDs(dependsOn)
		n.DependedOnBy = splitIDs(dependedOnBy)
		out[n.ID] = n
	}
	return out, rows.Err()
}

// DeleteProject removes every row for project, the "recreate" sweep
// semantics of spec.md §6's recreate flag.
func (s *ObjectStore) DeleteProject(project string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM tile_nodes WHERE project = ?`, project); err != nil {
		return fmt.Errorf("store: delete project %s: %w", project, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id
	}
	return out
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}
