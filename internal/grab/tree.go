package grab

import "fmt"

// VerifyTree checks the structural integrity of a server-nested category tree:
// every id must appear exactly once, and a node's children must reference it as
// their parent. The connector builds the nesting server-side, but a corrupted
// tree would otherwise send the renderer into unbounded recursion, so a
// malformed fetch fails fast with a structural error instead.
func VerifyTree(roots []Category) error {
	seen := make(map[string]bool)
	for i := range roots {
		if err := verifyNode(&roots[i], nil, seen); err != nil {
			return err
		}
	}
	return nil
}

func verifyNode(node *Category, parent *Category, seen map[string]bool) error {
	if node.ID == "" {
		return fmt.Errorf("category tree integrity: node %q has no id", node.Code)
	}
	if seen[node.ID] {
		return fmt.Errorf("category tree integrity: id %s appears more than once", node.ID)
	}
	seen[node.ID] = true

	if parent != nil {
		if node.ParentCategoryID == nil || *node.ParentCategoryID != parent.ID {
			return fmt.Errorf("category tree integrity: node %s nested under %s without matching parent_category_id", node.ID, parent.ID)
		}
	}

	for i := range node.SubCategory {
		if err := verifyNode(&node.SubCategory[i], node, seen); err != nil {
			return err
		}
	}
	return nil
}

// FindCategory returns the node with the given id, searching the nested tree
// depth-first. Returns nil if not found.
func FindCategory(roots []Category, id string) *Category {
	for i := range roots {
		if roots[i].ID == id {
			return &roots[i]
		}
		if found := FindCategory(roots[i].SubCategory, id); found != nil {
			return found
		}
	}
	return nil
}

// CountNodes returns the total number of nodes in the tree.
func CountNodes(roots []Category) int {
	n := len(roots)
	for i := range roots {
		n += CountNodes(roots[i].SubCategory)
	}
	return n
}
