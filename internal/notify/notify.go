// Package notify sends desktop notifications for assistant events.
package notify

import "github.com/gen2brain/beeep"

const appName = "Parrot"

// Notifier sends desktop notifications. A disabled notifier drops them.
type Notifier struct {
	enabled bool
}

// New creates a notifier.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// Enabled reports whether notifications are sent.
func (n *Notifier) Enabled() bool {
	return n.enabled
}

// Notify sends a desktop notification. Notifications are best effort and
// errors are ignored.
func (n *Notifier) Notify(title, message string) {
	if !n.enabled {
		return
	}
	_ = beeep.Notify(appName+": "+title, message, "")
}
