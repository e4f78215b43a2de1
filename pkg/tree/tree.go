// Package tree builds and navigates the virtual document tree from the
// flat records returned by the document service.
package tree

import (
	"github.com/Logesh-Devops/caconnect-clientui/pkg/models"
)

// NewRoot returns an empty synthetic root folder.
func NewRoot() *models.Entry {
	return &models.Entry{
		ID:       models.RootID,
		Name:     "Root",
		IsFolder: true,
		Children: []*models.Entry{},
	}
}

// Build assembles a document tree from an unordered list of flat records.
//
// Every record appears in the result exactly once. A record whose parent id
// is empty, unknown, or refers to a non-folder is attached to the synthetic
// root. The input entries are never mutated; working copies are linked
// instead. Duplicate ids are not guarded against: the later record wins in
// the lookup.
func Build(records []*models.Entry) *models.Entry {
	root := NewRoot()
	lookup := map[string]*models.Entry{models.RootID: root}

	for _, rec := range records {
		node := *rec
		if node.IsFolder {
			node.Children = []*models.Entry{}
		} else {
			node.Children = nil
		}
		lookup[node.ID] = &node
	}

	for _, rec := range records {
		node := lookup[rec.ID]
		parent, ok := lookup[rec.ParentID]
		if ok && parent.IsFolder && rec.ParentID != "" {
			parent.Children = append(parent.Children, node)
		} else {
			root.Children = append(root.Children, node)
		}
	}

	return root
}

// FindPath returns the ancestor chain from root to the entry with the given
// id, both inclusive, or nil when no entry matches.
func FindPath(root *models.Entry, id string) []*models.Entry {
	var path []*models.Entry

	var search func(node *models.Entry) bool
	search = func(node *models.Entry) bool {
		if node.ID == id {
			path = append(path, node)
			return true
		}
		if !node.IsFolder {
			return false
		}
		path = append(path, node)
		for _, child := range node.Children {
			if search(child) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if root == nil || !search(root) {
		return nil
	}
	return path
}

// FindByID finds an entry by id anywhere in the tree (recursive).
func FindByID(root *models.Entry, id string) *models.Entry {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if found := FindByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

// CountNodes counts all entries in a tree, root included.
func CountNodes(root *models.Entry) int {
	if root == nil {
		return 0
	}
	count := 1
	for _, child := range root.Children {
		count += CountNodes(child)
	}
	return count
}

// Flatten returns all entries in a flat map keyed by id.
func Flatten(root *models.Entry) map[string]*models.Entry {
	result := make(map[string]*models.Entry)
	if root == nil {
		return result
	}
	flattenRecursive(root, result)
	return result
}

func flattenRecursive(node *models.Entry, result map[string]*models.Entry) {
	result[node.ID] = node
	for _, child := range node.Children {
		flattenRecursive(child, result)
	}
}
