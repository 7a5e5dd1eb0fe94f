package state

import (
	"fmt"
	"strconv"
)

// Op classifies a Change.
type Op int

const (
	// OpSet is an ordinary property assignment.
	OpSet Op = iota
	// OpInsert is an index write on a sequence: structural growth such as
	// an append, as opposed to a field edit on an element.
	OpInsert
	// OpDelete removes a key or a sequence element.
	OpDelete
)

// String returns the lower-case name of the operation.
func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "op(" + strconv.Itoa(int(o)) + ")"
	}
}

// Change describes one mutation. It is the Detail of the "state-change"
// event.
type Change struct {
	// Path is the slash-delimited path of the object or sequence that
	// changed: "" for the root, "/todos", "/todos/0".
	Path string

	// Name is the property that changed. It is empty for OpInsert and for
	// index deletes, which carry Index instead.
	Name string

	// Index is the sequence index for OpInsert and index deletes, -1
	// otherwise.
	Index int

	Op Op

	// OldValue is a deep copy of the value before the mutation.
	OldValue any

	// Value is a deep copy of the value after the mutation.
	Value any
}

// IsInsert reports whether the change is a sequence index write.
func (c Change) IsInsert() bool { return c.Op == OpInsert }

// Key returns Name, or the index formatted as a string.
func (c Change) Key() string {
	if c.Index >= 0 && c.Name == "" {
		return strconv.Itoa(c.Index)
	}
	return c.Name
}

// FullPath returns Path joined with Key.
func (c Change) FullPath() string {
	return c.Path + "/" + c.Key()
}

// Within reports whether the change happened at or below path.
func (c Change) Within(path string) bool {
	full := c.FullPath()
	return c.Path == path || full == path || hasPathPrefix(c.Path, path) || hasPathPrefix(full, path)
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s: %v -> %v", c.Op, c.FullPath(), c.OldValue, c.Value)
}

func hasPathPrefix(p, prefix string) bool {
	return len(p) > len(prefix) && p[:len(prefix)] == prefix && p[len(prefix)] == '/'
}
