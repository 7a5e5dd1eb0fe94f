package pwashell

import (
	"context"
	"fmt"
	"sort"

	"github.com/pthm/pwashell/lib/dom"
	"github.com/pthm/pwashell/lib/loop"
)

// Factory constructs a fresh component for one element.
type Factory func() Base

// Scope is where Upgrade looks for elements: a document, an element or
// an isolated root.
type Scope interface {
	ElementsByTagName(tag string) []dom.Element
}

// Registry holds the custom element definitions of an app and the
// components constructed for elements in the document.
//
//	reg := pwashell.NewRegistry()
//	reg.Define("todo-app", func() pwashell.Base { return todo.New() })
//	reg.Upgrade(ctx, app, app.Window().Document())
type Registry struct {
	factories map[string]Factory
	instances map[dom.Element]Base
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[dom.Element]Base),
	}
}

// Define registers factory for tag. Panics if tag is already defined.
func (reg *Registry) Define(tag string, factory Factory) {
	if tag == "" || factory == nil {
		panic("pwashell: Define requires a tag and a factory")
	}
	if _, exists := reg.factories[tag]; exists {
		panic(fmt.Sprintf("pwashell: %q is already defined", tag))
	}
	reg.factories[tag] = factory
}

// Defined reports whether tag has a definition.
func (reg *Registry) Defined(tag string) bool {
	_, ok := reg.factories[tag]
	return ok
}

// Modules returns the defined tags, sorted.
func (reg *Registry) Modules() []string {
	tags := make([]string, 0, len(reg.factories))
	for tag := range reg.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Upgrade constructs, binds and connects a component for every element in
// scope whose tag is defined. Elements upgraded earlier are skipped. It
// returns the components created by this call, grouped by tag, and
// the first error encountered.
func (reg *Registry) Upgrade(ctx context.Context, app *App, scope Scope) ([]Base, error) {
	var created []Base
	for _, tag := range reg.Modules() {
		for _, el := range scope.ElementsByTagName(tag) {
			if _, done := reg.instances[el]; done {
				continue
			}
			comp := reg.factories[tag]()
			if comp == nil {
				return created, fmt.Errorf("pwashell: factory for %q returned nil", tag)
			}
			c := comp.base()
			if err := c.Bind(ctx, app, el, comp); err != nil {
				return created, err
			}
			reg.instances[el] = comp
			created = append(created, comp)
			if err := c.Connect(ctx); err != nil {
				return created, err
			}
		}
	}
	return created, nil
}

// Instance returns the component constructed for el.
func (reg *Registry) Instance(el dom.Element) (Base, bool) {
	comp, ok := reg.instances[el]
	return comp, ok
}

// Remove unbinds the component of el, as when the element leaves the
// document for good.
func (reg *Registry) Remove(el dom.Element) {
	comp, ok := reg.instances[el]
	if !ok {
		return
	}
	comp.base().Unbind()
	delete(reg.instances, el)
}

// Len returns the number of live components.
func (reg *Registry) Len() int { return len(reg.instances) }

// Start creates the app for win and upgrades every element of the
// document defined in reg. It is what a page's entry point calls once.
func Start(ctx context.Context, win dom.Window, q loop.Queue, reg *Registry, opts ...AppOption) (*App, []Base, error) {
	app := NewApp(win, q, opts...)
	app.Logger().Debug("starting", "modules", reg.Modules(), "url", win.Location().String())
	created, err := reg.Upgrade(ctx, app, win.Document())
	if err != nil {
		return app, created, fmt.Errorf("pwashell: upgrade: %w", err)
	}
	return app, created, nil
}
