package pwashell

import "github.com/a-h/templ"

// Notification levels.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyWarning = "warning"
	NotifyInfo    = "info"
)

// NotificationCategory is the bus category notifications travel on.
const NotificationCategory = "notification"

// NotificationTimeout is how long a toast stays visible.
const NotificationTimeout = 3000

// Notification is a short message shown as a toast.
//
// Any component can raise one; the message toaster displays them:
//
//	pwashell.Notify(c.App().Bus(), pwashell.NotifySuccess, "Task added...")
type Notification struct {
	Level string
	Text  string
}

// Notify publishes a notification. An empty level means NotifyInfo.
func Notify(b *Bus, level, text string) {
	if level == "" {
		level = NotifyInfo
	}
	Publish(b, NotificationCategory, Notification{Level: level, Text: text})
}

// Toast phases, added to the toast's class.
const (
	ToastEntering = "in"
	ToastShown    = ""
	ToastLeaving  = "out"
)

// Toast renders a notification entering the screen.
func Toast(n Notification) templ.Component { return ToastPhase(n, ToastEntering) }

// ToastPhase renders a notification in the given phase.
func ToastPhase(n Notification, phase string) templ.Component {
	class := "toast"
	if phase != "" {
		class += " " + phase
	}
	return Tag("div", []string{"class", class, "role", "status"},
		Tag("svg-icon", []string{"icon", n.Level}),
		Tag("span", nil, Text(n.Text)))
}

// ToastContainer renders the element toasts are added to.
func ToastContainer() templ.Component {
	return Tag("section", []string{"id", "toastContainer"})
}
