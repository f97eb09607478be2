package tiler

import (
	"context"
	"errors"
	"testing"

	"github.com/MeKo-Tech/watercolormap/internal/worker"
)

func twoLeafTree() map[string]*TileNode {
	return map[string]*TileNode{
		RootID: {ID: RootID, DependsOn: []string{"root0", "root1"}, Status: StatusPending},
		"root0": {ID: "root0", ParentID: RootID, IsLeaf: true, DependedOnBy: []string{RootID}, Status: StatusPending},
		"root1": {ID: "root1", ParentID: RootID, IsLeaf: true, DependedOnBy: []string{RootID}, Status: StatusPending},
	}
}

// TestCoordinator_DegradedParent covers spec.md §4.J: one leaf fails, the
// other completes, and the parent is still built from the surviving
// child with the failure recorded, rather than the whole subtree sinking.
func TestCoordinator_DegradedParent(t *testing.T) {
	nodes := twoLeafTree()
	var parentChildren []*TileNode
	c := &Coordinator{
		Nodes: nodes,
		Pool:  worker.New(worker.Config{Workers: 2}),
		BuildLeaf: func(ctx context.Context, n *TileNode) error {
			if n.ID == "root1" {
				return errors.New("simulated load failure")
			}
			return nil
		},
		BuildParent: func(ctx context.Context, n *TileNode, children []*TileNode) error {
			parentChildren = children
			return nil
		},
	}

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	root := nodes[RootID]
	if root.Status != StatusCompleted {
		t.Fatalf("expected root completed, got %s", root.Status)
	}
	if len(parentChildren) != 1 || parentChildren[0].ID != "root0" {
		t.Fatalf("expected parent built from [root0] only, got %v", parentChildren)
	}
	if len(root.DegradedChildren) != 1 || root.DegradedChildren[0] != "root1" {
		t.Fatalf("expected DegradedChildren=[root1], got %v", root.DegradedChildren)
	}
	if nodes["root1"].Status != StatusFailed {
		t.Errorf("expected root1 failed, got %s", nodes["root1"].Status)
	}
	if nodes["root0"].Status != StatusCompleted {
		t.Errorf("expected root0 completed, got %s", nodes["root0"].Status)
	}
}

// TestCoordinator_AllChildrenFailed covers the case a degraded build
// cannot paper over: every child of a node failed, so the node itself
// fails too (and would, in a deeper tree, propagate the same way up).
func TestCoordinator_AllChildrenFailed(t *testing.T) {
	nodes := twoLeafTree()
	c := &Coordinator{
		Nodes: nodes,
		Pool:  worker.New(worker.Config{Workers: 2}),
		BuildLeaf: func(ctx context.Context, n *TileNode) error {
			return errors.New("simulated load failure")
		},
		BuildParent: func(ctx context.Context, n *TileNode, children []*TileNode) error {
			t.Fatalf("BuildParent should not be called when every child failed")
			return nil
		},
	}

	if err := c.Run(context.Background()); err == nil {
		t.Fatal("expected Run to return an error when the root cannot complete")
	}
	if nodes[RootID].Status != StatusFailed {
		t.Errorf("expected root failed, got %s", nodes[RootID].Status)
	}
}
