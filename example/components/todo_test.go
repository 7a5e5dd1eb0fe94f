package components

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/pwashell"
	"github.com/pthm/pwashell/lib/encoding"
)

func newCodec(t *testing.T) *encoding.Codec {
	t.Helper()
	codec, err := encoding.NewCodec([]byte("todo-test-key"))
	require.NoError(t, err)
	return codec
}

func todoHarness(t *testing.T, codec *encoding.Codec) *pwashell.TestHarness {
	t.Helper()
	var opts []pwashell.HarnessOption
	if codec != nil {
		opts = append(opts, pwashell.WithAppOptions(pwashell.WithCodec(codec)))
	}
	return pwashell.NewTestHarness(opts...)
}

func notifications(h *pwashell.TestHarness) *[]pwashell.Notification {
	var got []pwashell.Notification
	pwashell.Subscribe(h.App.Bus(), pwashell.NotificationCategory, func(n pwashell.Notification) {
		got = append(got, n)
	})
	return &got
}

func TestTodoStartsEmpty(t *testing.T) {
	h := todoHarness(t, newCodec(t))
	todo := NewTodoApp()
	require.NoError(t, h.Mount(context.Background(), todo))
	h.Settle()

	assert.Equal(t, `<p class="empty">No tasks</p>`, h.Content(todo))
	assert.Empty(t, todo.Tasks())
}

func TestTodoAddToggleRemove(t *testing.T) {
	h := todoHarness(t, newCodec(t))
	todo := NewTodoApp()
	require.NoError(t, h.Mount(context.Background(), todo))
	h.Settle()
	got := notifications(h)

	require.True(t, todo.Add("  Write docs ", false))
	assert.False(t, todo.Add("   ", false))
	h.Settle()
	assert.Contains(t, h.Content(todo), "<span>Write docs</span>")
	assert.Contains(t, h.Content(todo), "<footer>0/1</footer>")

	todo.Toggle(0)
	h.Settle()
	assert.Equal(t, []Task{{Title: "Write docs", Done: true}}, todo.Tasks())
	assert.Contains(t, h.Content(todo), `<li class="task done">`)

	todo.Remove(0)
	h.Settle()
	assert.Empty(t, todo.Tasks())

	texts := make([]string, len(*got))
	for i, n := range *got {
		texts[i] = n.Text
	}
	assert.Equal(t, []string{"Task added...", "Status changed...", "Task removed..."}, texts)
	assert.Equal(t, pwashell.NotifySuccess, (*got)[0].Level)
}

func TestTodoPersists(t *testing.T) {
	codec := newCodec(t)
	h := todoHarness(t, codec)
	todo := NewTodoApp()
	require.NoError(t, h.Mount(context.Background(), todo))
	todo.Add("Buy milk", false)
	todo.Add("Call dentist", true)
	h.Settle()

	store := pwashell.NewLocalStore(h.Window.LocalStorage(), codec, encoding.Signed)
	var saved []Task
	ok, err := store.Load(TodoStorageKey, &saved)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []Task{{Title: "Buy milk"}, {Title: "Call dentist", Done: true}}, saved)
}

func TestTodoLoadsStoredTasks(t *testing.T) {
	codec := newCodec(t)
	h := todoHarness(t, codec)
	store := pwashell.NewLocalStore(h.Window.LocalStorage(), codec, encoding.Signed)
	require.NoError(t, store.Save(TodoStorageKey, []Task{{Title: "Stored", Done: true}}))

	todo := NewTodoApp()
	require.NoError(t, h.Mount(context.Background(), todo))
	h.Settle()

	assert.Equal(t, []Task{{Title: "Stored", Done: true}}, todo.Tasks())
	assert.Contains(t, h.Content(todo), "<span>Stored</span>")
}

func TestTodoDiscardsTamperedStorage(t *testing.T) {
	h := todoHarness(t, newCodec(t))
	h.Window.LocalStorage().SetItem(TodoStorageKey, "not-a-snapshot")

	todo := NewTodoApp()
	require.NoError(t, h.Mount(context.Background(), todo))
	h.Settle()

	assert.Empty(t, todo.Tasks())
	assert.Len(t, h.LogLines("WARN"), 1)
}

func TestTodoWithoutCodecKeepsTasksInMemory(t *testing.T) {
	h := todoHarness(t, nil)
	todo := NewTodoApp()
	require.NoError(t, h.Mount(context.Background(), todo))
	todo.Add("Ephemeral", false)
	h.Settle()

	assert.Len(t, todo.Tasks(), 1)
	_, stored := h.Window.LocalStorage().GetItem(TodoStorageKey)
	assert.False(t, stored)
	assert.Contains(t, h.Logs(), "tasks will not persist")
}

func TestTodoButtons(t *testing.T) {
	h := todoHarness(t, newCodec(t))
	todo := NewTodoApp()
	require.NoError(t, h.Mount(context.Background(), todo))
	todo.Add("First", false)
	todo.Add("Second", false)
	h.Settle()

	h.Click("button", "data-action", "toggle")
	h.Settle()
	assert.True(t, todo.Tasks()[0].Done)

	h.Click("button", "data-action", "remove")
	h.Settle()
	assert.Equal(t, []Task{{Title: "Second"}}, todo.Tasks())
}

func TestTodoAddFromBus(t *testing.T) {
	h := todoHarness(t, newCodec(t))
	todo := NewTodoApp()
	require.NoError(t, h.Mount(context.Background(), todo))
	h.Settle()

	pwashell.Publish(h.App.Bus(), AddTaskCategory, Task{Title: "From menu"})
	h.Settle()

	assert.Equal(t, []Task{{Title: "From menu"}}, todo.Tasks())
}
