package components

import (
	"context"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/pwashell"
	"github.com/pthm/pwashell/lib/dom"
	"github.com/pthm/pwashell/lib/encoding"
	"github.com/pthm/pwashell/lib/state"
)

const (
	// TodoTag is the element name of the todo list.
	TodoTag = "todo-app"

	// TodoStorageKey is where tasks persist.
	TodoStorageKey = "todos"

	// AddTaskCategory is the bus category other components use to add a
	// task. The payload is a Task.
	AddTaskCategory = "todo-add"
)

// Task is one entry of the todo list.
type Task struct {
	Title string `msgpack:"title"`
	Done  bool   `msgpack:"done"`
}

// TodoApp keeps a list of tasks in its state and in local storage, and
// announces every change with a notification.
type TodoApp struct {
	*pwashell.Component
	store *pwashell.LocalStore
}

// NewTodoApp creates the todo list.
func NewTodoApp() *TodoApp {
	return &TodoApp{Component: pwashell.New(TodoTag, pwashell.RerenderOnChange())}
}

// Init loads the stored tasks.
func (c *TodoApp) Init(ctx context.Context) {
	store, err := c.App().LocalStore(encoding.Signed)
	if err != nil {
		c.Logger().Warn("tasks will not persist", "error", err)
	}
	c.store = store

	var tasks []Task
	if store != nil {
		if _, err := store.Load(TodoStorageKey, &tasks); err != nil {
			c.Logger().Warn("discarding stored tasks", "error", err)
		}
	}
	c.State().Set("todos", taskValues(tasks))

	c.On(dom.EventStateChange, c.onChange)
	c.On(dom.EventClick, c.onClick)
	pwashell.Subscribe(c.App().Bus(), AddTaskCategory, func(t Task) {
		if c.Connected() {
			c.Add(t.Title, t.Done)
		}
	})
}

// Tasks returns the current tasks.
func (c *TodoApp) Tasks() []Task {
	todos := c.todos()
	tasks := make([]Task, 0, todos.Len())
	for i := 0; i < todos.Len(); i++ {
		n := todos.Node(strconv.Itoa(i))
		if n == nil {
			continue
		}
		tasks = append(tasks, Task{Title: n.String("title"), Done: n.Bool("done")})
	}
	return tasks
}

// Add appends a task. Blank titles are ignored.
func (c *TodoApp) Add(title string, done bool) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	c.todos().Append(map[string]any{"title": title, "done": done})
	return true
}

// Toggle flips the done flag of task i.
func (c *TodoApp) Toggle(i int) {
	if n := c.todos().Node(strconv.Itoa(i)); n != nil {
		n.Set("done", !n.Bool("done"))
	}
}

// Remove deletes task i.
func (c *TodoApp) Remove(i int) { c.todos().RemoveAt(i) }

func (c *TodoApp) todos() *state.Node {
	if n := c.State().Node("todos"); n != nil && n.IsSequence() {
		return n
	}
	c.State().Set("todos", []any{})
	return c.State().Node("todos")
}

func (c *TodoApp) Render(ctx context.Context) templ.Component {
	tasks := c.Tasks()
	if len(tasks) == 0 {
		return pwashell.Tag("p", []string{"class", "empty"}, pwashell.Text(c.App().Localize("No tasks")))
	}

	done := 0
	items := make([]templ.Component, 0, len(tasks))
	for i, t := range tasks {
		class := "task"
		if t.Done {
			class += " done"
			done++
		}
		index := strconv.Itoa(i)
		items = append(items, pwashell.Tag("li", []string{"class", class},
			pwashell.Tag("button", []string{"data-action", "toggle", "data-index", index}, pwashell.Text("✓")),
			pwashell.Tag("span", nil, pwashell.Text(t.Title)),
			pwashell.Tag("button", []string{"data-action", "remove", "data-index", index}, pwashell.Text("×")),
		))
	}
	return pwashell.Join(
		pwashell.Tag("ul", []string{"class", "todos"}, items...),
		pwashell.Tag("footer", nil, pwashell.Textf("%d/%d", done, len(tasks))),
	)
}

func (c *TodoApp) onChange(e *dom.Event) {
	ch, ok := e.Detail.(state.Change)
	if !ok || e.Target() != dom.EventTarget(c.Host()) {
		return
	}
	if ch.Within("/todos") {
		c.save()
	}
	if level, text := notification(ch); text != "" {
		pwashell.Notify(c.App().Bus(), level, c.App().Localize(text))
	}
}

func (c *TodoApp) onClick(e *dom.Event) {
	el, ok := e.Target().(dom.Element)
	if !ok {
		return
	}
	button := el.Closest("button")
	if button == nil {
		return
	}
	action, _ := button.Attribute("data-action")
	raw, _ := button.Attribute("data-index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return
	}
	switch action {
	case "toggle":
		c.Toggle(i)
	case "remove":
		c.Remove(i)
	}
}

func (c *TodoApp) save() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(TodoStorageKey, c.Tasks()); err != nil {
		c.Logger().Error("saving tasks", "error", err)
	}
}

// notification describes a change to the list, if it is one users are
// told about.
func notification(ch state.Change) (level, text string) {
	switch {
	case ch.IsInsert():
		return pwashell.NotifySuccess, "Task added..."
	case ch.Name == "length":
		before, _ := ch.OldValue.(int)
		after, _ := ch.Value.(int)
		if after < before {
			return pwashell.NotifyInfo, "Task removed..."
		}
	case ch.Name == "done":
		return pwashell.NotifyInfo, "Status changed..."
	}
	return "", ""
}

func taskValues(tasks []Task) []any {
	values := make([]any, len(tasks))
	for i, t := range tasks {
		values[i] = map[string]any{"title": t.Title, "done": t.Done}
	}
	return values
}
