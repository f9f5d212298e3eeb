package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Index is a flat view over an HBOM tree: an arena of nodes in pre-order
// plus a uuid lookup map. It is built once per tree load so consumers never
// re-scan the tree recursively for point lookups.
type Index struct {
	def    *HBOMDefinition
	nodes  []*Component
	byUUID map[string]*Component
}

// NewIndex walks the definition, assigns uuids to nodes that lack one, and
// builds the lookup structures. Duplicate uuids are a malformed tree.
func NewIndex(def *HBOMDefinition) (*Index, error) {
	ix := &Index{
		def:    def,
		byUUID: make(map[string]*Component),
	}
	for _, root := range def.Components {
		err := Walk(root, func(node *Component, _ []*Component) error {
			if node.UUID == "" {
				node.UUID = uuid.NewString()
			}
			if _, exists := ix.byUUID[node.UUID]; exists {
				return fmt.Errorf("duplicate component uuid %q", node.UUID)
			}
			ix.byUUID[node.UUID] = node
			ix.nodes = append(ix.nodes, node)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Len returns the number of nodes in the tree.
func (ix *Index) Len() int { return len(ix.nodes) }

// Nodes returns every node in deterministic pre-order.
func (ix *Index) Nodes() []*Component { return ix.nodes }

// ByUUID looks up a single node.
func (ix *Index) ByUUID(id string) (*Component, bool) {
	node, ok := ix.byUUID[id]
	return node, ok
}

// Roots returns the root components in declared order.
func (ix *Index) Roots() []*Component { return ix.def.Components }

// FindRoot resolves which root component a facility-type selector refers to.
// It tries, in order: exact label match, component_type match, membership in
// the aliases list — each pass over the roots in declared order, first match
// wins. More than one root matching is therefore resolved deterministically,
// not reported as an error. A miss returns ok=false; the caller renders "no
// snapshot" rather than failing.
func (ix *Index) FindRoot(selector string) (*Component, bool) {
	for _, root := range ix.def.Components {
		if root.Label == selector {
			return root, true
		}
	}
	for _, root := range ix.def.Components {
		if root.ComponentType == selector {
			return root, true
		}
	}
	for _, root := range ix.def.Components {
		for _, alias := range root.Aliases {
			if alias == selector {
				return root, true
			}
		}
	}
	return nil, false
}

// Walk visits node and every descendant exactly once in pre-order,
// depth-first, children in declared order. The visitor receives the ancestor
// chain root-first (empty for the root itself); the slice is reused between
// calls and must not be retained. A visitor error aborts the walk.
func Walk(root *Component, visit func(node *Component, ancestors []*Component) error) error {
	return walk(root, make([]*Component, 0, 8), visit)
}

func walk(node *Component, ancestors []*Component, visit func(*Component, []*Component) error) error {
	if err := visit(node, ancestors); err != nil {
		return err
	}
	ancestors = append(ancestors, node)
	for _, child := range node.Subcomponents {
		if err := walk(child, ancestors, visit); err != nil {
			return err
		}
	}
	return nil
}
