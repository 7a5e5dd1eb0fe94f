// Package state implements the change-tracking store behind component state.
//
// Wrap turns a plain nested structure of maps and slices into an observable
// tree. Every mutation, at any depth, dispatches one bubbling "state-change"
// event whose Detail is a Change carrying the full path from the root:
//
//	todos := root.Get("todos").(*state.Node)
//	todos.Append(map[string]any{"title": "Write docs", "done": false})
//	// -> Change{Path: "/todos", Index: 0, Op: OpInsert, ...}
//	// -> Change{Path: "/todos", Name: "length", Op: OpSet, ...}
//	todos.At(0).(*state.Node).Set("done", true)
//	// -> Change{Path: "/todos/0", Name: "done", Op: OpSet, ...}
//
// Nested views are Nodes cached on their parent. A Node resolves its container
// from the root on every access, so replacing an ancestor never leaves a
// stale view behind: operations on a path that no longer resolves are
// no-ops. Values are deep-copied in and out; nothing outside the tree
// aliases its data.
//
// A tree is owned by one component and is not safe for concurrent use.
package state

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pthm/pwashell/lib/dom"
)

// Dispatcher receives change events. Every dom.EventTarget is one.
type Dispatcher interface {
	DispatchEvent(e *dom.Event) bool
}

type tree struct {
	target Dispatcher
	root   any
}

// Node is an observable view of an object or sequence in the tree.
type Node struct {
	t        *tree
	keys     []string
	path     string
	children map[string]*Node
}

// seq is the internal form of a sequence. Using a pointer keeps appends
// visible to the parent container.
type seq struct {
	items []any
}

// Wrap makes initial observable. Changes are dispatched on target, which
// may be nil. prefix is prepended to every path; the root node's path is
// prefix itself. A nil or non-container initial value starts an empty
// object.
func Wrap(target Dispatcher, initial any, prefix string) *Node {
	root := normalize(initial)
	switch root.(type) {
	case map[string]any, *seq:
	default:
		root = map[string]any{}
	}
	t := &tree{target: target, root: root}
	return &Node{t: t, path: prefix}
}

// Path returns the slash-delimited path of the node.
func (n *Node) Path() string { return n.path }

// IsSequence reports whether the node currently resolves to a sequence.
func (n *Node) IsSequence() bool {
	_, ok := n.container().(*seq)
	return ok
}

// Valid reports whether the node's path still resolves to an object or
// sequence.
func (n *Node) Valid() bool { return n.container() != nil }

// Get returns the value under key: the raw value for primitives and nil,
// or the Node for a nested object or sequence.
func (n *Node) Get(key string) any {
	v, ok := get(n.container(), key)
	if !ok {
		return nil
	}
	if isContainer(v) {
		return n.child(key)
	}
	return v
}

// Has reports whether key exists.
func (n *Node) Has(key string) bool {
	_, ok := get(n.container(), key)
	return ok
}

// Node returns the nested node under key, or nil if key does not hold an
// object or sequence.
func (n *Node) Node(key string) *Node {
	child, _ := n.Get(key).(*Node)
	return child
}

// String returns the value under key if it is a string.
func (n *Node) String(key string) string {
	s, _ := n.Get(key).(string)
	return s
}

// Bool returns the value under key if it is a bool.
func (n *Node) Bool(key string) bool {
	b, _ := n.Get(key).(bool)
	return b
}

// Int returns the value under key converted to int, or 0.
func (n *Node) Int(key string) int {
	rv := reflect.ValueOf(n.Get(key))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return int(rv.Float())
	}
	return 0
}

// Lookup walks a slash-delimited path relative to the node.
func (n *Node) Lookup(path string) any {
	var cur any = n
	for _, key := range strings.Split(path, "/") {
		if key == "" {
			continue
		}
		node, ok := cur.(*Node)
		if !ok {
			return nil
		}
		cur = node.Get(key)
	}
	return cur
}

// Set assigns v to key and dispatches a Change. On a sequence, key must be
// an index (or "length"); the change then carries OpInsert and the index.
func (n *Node) Set(key string, v any) {
	switch c := n.container().(type) {
	case map[string]any:
		old := plain(c[key])
		nv := normalize(v)
		c[key] = nv
		n.emit(Change{Path: n.path, Name: key, Index: -1, Op: OpSet, OldValue: old, Value: plain(nv)})
	case *seq:
		if key == "length" {
			n.setLength(c, v)
			return
		}
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 {
			return
		}
		n.setIndex(c, i, v)
	}
}

// Delete removes key and dispatches an OpDelete change. Deleting an absent
// key does nothing. On a sequence the element is removed and the sequence
// shrinks.
func (n *Node) Delete(key string) {
	switch c := n.container().(type) {
	case map[string]any:
		old, ok := c[key]
		if !ok {
			return
		}
		delete(c, key)
		n.emit(Change{Path: n.path, Name: key, Index: -1, Op: OpDelete, OldValue: plain(old)})
	case *seq:
		if i, err := strconv.Atoi(key); err == nil {
			n.RemoveAt(i)
		}
	}
}

// Len returns the number of elements or keys.
func (n *Node) Len() int {
	switch c := n.container().(type) {
	case map[string]any:
		return len(c)
	case *seq:
		return len(c.items)
	}
	return 0
}

// At returns the sequence element at i, like Get.
func (n *Node) At(i int) any { return n.Get(strconv.Itoa(i)) }

// SetAt writes the sequence element at i, like Set.
func (n *Node) SetAt(i int, v any) { n.Set(strconv.Itoa(i), v) }

// Append adds values to the end of a sequence. Each value dispatches an
// OpInsert change; a final "length" change reports the growth.
func (n *Node) Append(values ...any) {
	c, ok := n.container().(*seq)
	if !ok || len(values) == 0 {
		return
	}
	before := len(c.items)
	for _, v := range values {
		i := len(c.items)
		nv := normalize(v)
		c.items = append(c.items, nv)
		n.emit(Change{Path: n.path, Index: i, Op: OpInsert, Value: plain(nv)})
	}
	n.emit(Change{Path: n.path, Name: "length", Index: -1, Op: OpSet, OldValue: before, Value: len(c.items)})
}

// RemoveAt removes the sequence element at i, dispatching an OpDelete
// change followed by a "length" change. Out of range indices do nothing.
func (n *Node) RemoveAt(i int) {
	c, ok := n.container().(*seq)
	if !ok || i < 0 || i >= len(c.items) {
		return
	}
	before := len(c.items)
	old := plain(c.items[i])
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	n.emit(Change{Path: n.path, Index: i, Op: OpDelete, OldValue: old})
	n.emit(Change{Path: n.path, Name: "length", Index: -1, Op: OpSet, OldValue: before, Value: len(c.items)})
}

// Keys returns object keys in sorted order, or sequence indices.
func (n *Node) Keys() []string {
	switch c := n.container().(type) {
	case map[string]any:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	case *seq:
		keys := make([]string, len(c.items))
		for i := range c.items {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	}
	return nil
}

// Range calls fn for every key in Keys order until fn returns false.
func (n *Node) Range(fn func(key string, value any) bool) {
	for _, k := range n.Keys() {
		if !fn(k, n.Get(k)) {
			return
		}
	}
}

// Snapshot returns a deep copy of the node's data as plain maps and
// slices.
func (n *Node) Snapshot() any {
	return plain(n.container())
}

func (n *Node) setIndex(c *seq, i int, v any) {
	var old any
	if i < len(c.items) {
		old = plain(c.items[i])
	} else {
		for len(c.items) < i {
			c.items = append(c.items, nil)
		}
		c.items = append(c.items, nil)
	}
	nv := normalize(v)
	c.items[i] = nv
	n.emit(Change{Path: n.path, Index: i, Op: OpInsert, OldValue: old, Value: plain(nv)})
}

func (n *Node) setLength(c *seq, v any) {
	size, ok := toInt(v)
	if !ok || size < 0 {
		return
	}
	before := len(c.items)
	switch {
	case size < before:
		c.items = c.items[:size:size]
	case size > before:
		c.items = append(c.items, make([]any, size-before)...)
	}
	n.emit(Change{Path: n.path, Name: "length", Index: -1, Op: OpSet, OldValue: before, Value: size})
}

func (n *Node) emit(c Change) {
	if n.t.target == nil {
		return
	}
	n.t.target.DispatchEvent(dom.NewEvent(dom.EventStateChange, c, true))
}

// child returns the cached view under key. Views are cached on their
// parent by key, since keys may contain slashes and paths can collide.
func (n *Node) child(key string) *Node {
	if c, ok := n.children[key]; ok {
		return c
	}
	keys := make([]string, len(n.keys)+1)
	copy(keys, n.keys)
	keys[len(n.keys)] = key
	c := &Node{t: n.t, keys: keys, path: n.path + "/" + key}
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	n.children[key] = c
	return c
}

// container resolves the node's object or sequence from the root, or nil
// if the path no longer leads to one.
func (n *Node) container() any {
	cur := n.t.root
	for _, k := range n.keys {
		v, ok := get(cur, k)
		if !ok {
			return nil
		}
		cur = v
	}
	if !isContainer(cur) {
		return nil
	}
	return cur
}

func get(c any, key string) (any, bool) {
	switch x := c.(type) {
	case map[string]any:
		v, ok := x[key]
		return v, ok
	case *seq:
		if key == "length" {
			return len(x.items), true
		}
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(x.items) {
			return nil, false
		}
		return x.items[i], true
	}
	return nil, false
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, *seq:
		return true
	}
	return false
}

// normalize deep-copies v into the internal representation.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return x
	case *Node:
		return normalize(x.Snapshot())
	case *seq:
		return normalize(plain(x))
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = normalize(e)
		}
		return m
	case []any:
		s := &seq{items: make([]any, len(x))}
		for i, e := range x {
			s.items[i] = normalize(e)
		}
		return s
	case []byte:
		return append([]byte(nil), x...)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		s := &seq{items: make([]any, rv.Len())}
		for i := range s.items {
			s.items[i] = normalize(rv.Index(i).Interface())
		}
		return s
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return m
	}
	return v
}

// plain deep-copies internal data into plain maps and slices.
func plain(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = plain(e)
		}
		return m
	case *seq:
		s := make([]any, len(x.items))
		for i, e := range x.items {
			s[i] = plain(e)
		}
		return s
	case []byte:
		return append([]byte(nil), x...)
	}
	return v
}

func toInt(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return int(rv.Float()), true
	}
	return 0, false
}
