package classroom

import (
	"context"
	"time"
)

// Notice durations passed to Notifier, mirroring how long a toast stays up.
const (
	NoticeShort = 3 * time.Second
	NoticeLong  = 5 * time.Second
)

// Confirmer asks the user to approve a destructive operation.
type Confirmer interface {
	Confirm(title, message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(title, message string) bool

func (f ConfirmFunc) Confirm(title, message string) bool { return f(title, message) }

// AlwaysConfirm approves every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string, string) bool { return true })

// NeverConfirm declines every prompt.
var NeverConfirm Confirmer = ConfirmFunc(func(string, string) bool { return false })

// Notifier surfaces informational messages. It never affects control flow.
type Notifier interface {
	Notify(message string, duration time.Duration)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, duration time.Duration)

func (f NotifierFunc) Notify(message string, duration time.Duration) { f(message, duration) }

type discardNotifier struct{}

func (discardNotifier) Notify(string, time.Duration) {}

// Repository persists the serialized class store and the last selected class name.
type Repository interface {
	// Load returns found=false when nothing has been stored yet.
	Load(ctx context.Context) (payload []byte, lastSelected string, found bool, err error)
	// Save writes payload; an empty lastSelected removes the stored selection.
	Save(ctx context.Context, payload []byte, lastSelected string) error
	// Backup keeps an unreadable payload aside so later saves do not destroy it.
	Backup(ctx context.Context, payload []byte) error
	// Clear removes everything Save wrote.
	Clear(ctx context.Context) error
}

func confirm(c Confirmer, title, message string) error {
	if c == nil || !c.Confirm(title, message) {
		return newError(ErrNotConfirmed, "%s: confirmation required", title)
	}
	return nil
}
