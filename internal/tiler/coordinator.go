package tiler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/watercolormap/internal/worker"
)

// LeafBuilder builds one leaf tile's mesh and texture in place, setting
// node.MeshURL/ImageURL/IndexURL on success.
type LeafBuilder func(ctx context.Context, node *TileNode) error

// ParentBuilder builds one parent tile from its already-built children.
type ParentBuilder func(ctx context.Context, node *TileNode, children []*TileNode) error

// TilesetBuilder writes the final manifest once every node is completed.
type TilesetBuilder func(ctx context.Context, nodes map[string]*TileNode) error

// Coordinator runs the bounds-tree's nodes to completion in dependency
// order: every leaf first (in parallel, bounded by the worker pool), then
// parents as soon as all of their children have completed, bottom-up,
// finishing with the tileset manifest (spec.md §5).
type Coordinator struct {
	Nodes       map[string]*TileNode
	BuildLeaf   LeafBuilder
	BuildParent ParentBuilder
	BuildSet    TilesetBuilder
	Pool        *worker.Pool
	MaxRetries  int
	Logger      *slog.Logger

	pending map[string]int // node id -> number of not-yet-completed children
}

// Run drives the coordinator to completion. Individual node failures do
// not abort the run: a failed node is marked failed and its parent is
// still built from its surviving children (see propagate). Run returns an
// error only when the root does not complete or the tileset builder fails.
func (c *Coordinator) Run(ctx context.Context) error {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.computePending()

	for {
		ready := c.readyNodes()
		if len(ready) == 0 {
			break
		}
		c.buildBatch(ctx, ready)
	}

	root, ok := c.Nodes[RootID]
	if !ok {
		return fmt.Errorf("tiler: no root node")
	}
	if root.Status != StatusCompleted {
		return fmt.Errorf("tiler: root node did not complete (status=%s)", root.Status)
	}
	if c.BuildSet != nil {
		if err := c.BuildSet(ctx, c.Nodes); err != nil {
			return fmt.Errorf("tiler: build tileset manifest: %w", err)
		}
	}
	return nil
}

func (c *Coordinator) computePending() {
	c.pending = make(map[string]int, len(c.Nodes))
	for id, n := range c.Nodes {
		if n.IsLeaf {
			c.pending[id] = 0
		} else {
			c.pending[id] = len(n.DependsOn)
		}
	}
}

// readyNodes returns every pending node whose dependency count has
// reached zero.
func (c *Coordinator) readyNodes() []*TileNode {
	var ready []*TileNode
	for id, n := range c.Nodes {
		if n.Status != StatusPending {
			continue
		}
		if c.pending[id] == 0 {
			ready = append(ready, n)
		}
	}
	return ready
}

func (c *Coordinator) buildBatch(ctx context.Context, ready []*TileNode) {
	jobs := make([]worker.Job, len(ready))
	for i, n := range ready {
		n := n
		jobs[i] = worker.Job{ID: n.ID, Run: func(ctx context.Context) (any, error) {
			return nil, c.buildOne(ctx, n)
		}}
	}
	results := c.Pool.Run(ctx, jobs)
	for _, r := range results {
		n := c.Nodes[r.ID]
		if r.Err != nil {
			n.Status = StatusFailed
			c.Logger.Error("tile build failed", "node", n.ID, "error", r.Err)
		} else {
			n.Status = StatusCompleted
		}
		c.propagate(n)
	}
}

func (c *Coordinator) buildOne(ctx context.Context, n *TileNode) error {
	var lastErr error
	retries := c.MaxRetries
	if retries < 0 {
		retries = 0
	}
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 250 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		n.Status = StatusBuilding
		var err error
		if n.IsLeaf {
			err = c.BuildLeaf(ctx, n)
		} else {
			var children []*TileNode
			var missing []string
			for _, childID := range n.DependsOn {
				child := c.Nodes[childID]
				if child.Status == StatusCompleted {
					children = append(children, child)
				} else {
					missing = append(missing, childID)
				}
			}
			if len(children) == 0 {
				// Every child failed: nothing to build a parent mesh
				// from. Retrying can't change an already-resolved
				// child's outcome, so fail this node immediately.
				return fmt.Errorf("node %s: all children failed: %v", n.ID, missing)
			}
			n.DegradedChildren = missing
			err = c.BuildParent(ctx, n, children)
		}
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("node %s: exhausted %d retries: %w", n.ID, retries, lastErr)
}

// propagate decrements the dependency count of every node depending on n.
// A failed child does not sink its ancestors: per spec.md §4.J, a tile
// that fails is marked failed and the build continues, and the parent is
// built from its surviving children with the gap flagged in
// DegradedChildren. A parent only fails itself if buildOne finds it has
// no surviving children at all, which then propagates the same way to
// its own parent.
func (c *Coordinator) propagate(n *TileNode) {
	for _, parentID := range n.DependedOnBy {
		c.pending[parentID]--
	}
}
