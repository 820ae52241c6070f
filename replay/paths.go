package replay

import (
	"fmt"
	"strconv"
	"strings"
)

// lookup reads a dotted path such as "todos.0.title" from v. Missing
// entries read as nil.
func lookup(v any, path string) any {
	if path == "" || path == "." {
		return v
	}
	cur := v
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[part]
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			cur = node[i]
		default:
			return nil
		}
	}
	return cur
}

// setPath writes value at path inside the draft rooted at root, creating
// intermediate maps. The draft is owned by the edit, so nodes are mutated
// in place; appending to a list by using its length as index is allowed.
func setPath(root *any, path string, value any) error {
	if path == "" || path == "." {
		*root = value
		return nil
	}
	parts := strings.Split(path, ".")
	return setIn(root, parts, value, path)
}

func setIn(slot *any, parts []string, value any, path string) error {
	if *slot == nil {
		*slot = map[string]any{}
	}
	part, rest := parts[0], parts[1:]

	switch node := (*slot).(type) {
	case map[string]any:
		if len(rest) == 0 {
			node[part] = value
			return nil
		}
		child := node[part]
		if err := setIn(&child, rest, value, path); err != nil {
			return err
		}
		node[part] = child
		return nil

	case []any:
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 || i > len(node) {
			return fmt.Errorf("set %s: %q is not an index of a list of %d", path, part, len(node))
		}
		if i == len(node) {
			node = append(node, nil)
			*slot = node
		}
		if len(rest) == 0 {
			node[i] = value
			return nil
		}
		return setIn(&node[i], rest, value, path)
	}
	return fmt.Errorf("set %s: cannot descend into %T at %q", path, *slot, part)
}

// deletePath removes the entry at path. Deleting a list element shifts the
// following elements down. Deleting something that does not exist is an
// error.
func deletePath(root *any, path string) error {
	parts := strings.Split(path, ".")
	parent, last := parts[:len(parts)-1], parts[len(parts)-1]

	slot := root
	for _, part := range parent {
		switch node := (*slot).(type) {
		case map[string]any:
			child, ok := node[part]
			if !ok {
				return fmt.Errorf("delete %s: no entry %q", path, part)
			}
			// Maps and lists are references, so editing the child edits node.
			slot = &child
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return fmt.Errorf("delete %s: %q is not an index of a list of %d", path, part, len(node))
			}
			slot = &node[i]
		default:
			return fmt.Errorf("delete %s: cannot descend into %T at %q", path, *slot, part)
		}
	}

	switch node := (*slot).(type) {
	case map[string]any:
		if _, ok := node[last]; !ok {
			return fmt.Errorf("delete %s: no entry %q", path, last)
		}
		delete(node, last)
		return nil
	case []any:
		i, err := strconv.Atoi(last)
		if err != nil || i < 0 || i >= len(node) {
			return fmt.Errorf("delete %s: %q is not an index of a list of %d", path, last, len(node))
		}
		shrunk := append(node[:i:i], node[i+1:]...)
		return replaceList(root, parent, shrunk, path)
	}
	return fmt.Errorf("delete %s: cannot delete from %T", path, *slot)
}

// replaceList stores a list whose length changed back into its parent.
func replaceList(root *any, parent []string, list []any, path string) error {
	if len(parent) == 0 {
		*root = list
		return nil
	}
	return setPath(root, strings.Join(parent, "."), list)
}
