package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hookchat/hookchat/internal/chat"
)

// Messages delivered to the model from the controller
type (
	stateChangedMsg struct{}
	notificationMsg chat.Notification
	bridgeClosedMsg struct{}
)

// Bridge carries controller events into the bubbletea event loop.
// Controller callbacks never block: state changes are coalesced into a single
// pending signal and notifications beyond the buffer are dropped.
type Bridge struct {
	changed chan struct{}
	notes   chan chat.Notification
	done    chan struct{}
	once    sync.Once
}

// NewBridge creates an open bridge
func NewBridge() *Bridge {
	return &Bridge{
		changed: make(chan struct{}, 1),
		notes:   make(chan chat.Notification, 8),
		done:    make(chan struct{}),
	}
}

// Attach subscribes the bridge to ctrl and returns the unsubscribe function
func (b *Bridge) Attach(ctrl *chat.Controller) func() {
	return ctrl.Subscribe(b.signal)
}

func (b *Bridge) signal(chat.State) {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}

// Notify implements chat.Notifier
func (b *Bridge) Notify(n chat.Notification) {
	select {
	case b.notes <- n:
	default:
	}
}

// Close releases any pending wait
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

// wait returns a command that blocks until the next controller event
func (b *Bridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-b.notes:
			return notificationMsg(n)
		case <-b.changed:
			return stateChangedMsg{}
		case <-b.done:
			return bridgeClosedMsg{}
		}
	}
}
