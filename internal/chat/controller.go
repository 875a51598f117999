// Package chat holds the conversation state and runs the send/receive cycle
// for each submitted message.
package chat

import (
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/hookchat/hookchat/internal/reply"
)

// Fixed texts of the error notification raised when an exchange fails.
const (
	ErrorTitle       = "Webhook request failed"
	ErrorDescription = "Failed to get bot response. Please try again."
)

// Sender identifies who wrote a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single entry in the conversation
type Message struct {
	ID      string
	Text    string
	Sender  Sender
	Pending bool // true only for the bot message awaiting a reply
}

// State is a snapshot of the conversation
type State struct {
	Messages []Message
	Draft    string
	Awaiting bool
}

// Notification is a user-visible error raised by the controller
type Notification struct {
	Title       string
	Description string
	Err         error
}

// Exchanger performs the outbound request for one message and returns the raw payload
type Exchanger interface {
	Send(message string) (gjson.Result, error)
}

// Notifier surfaces notifications to the user
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(Notification)

// Notify calls f(n)
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Option configures a Controller
type Option func(*Controller)

// WithNotifier sets the notifier used for failed exchanges
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithIDGenerator replaces the message id generator
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the conversation. Only one exchange may be in flight:
// Submit is rejected while a reply is awaited.
type Controller struct {
	exchanger Exchanger
	notifier  Notifier
	newID     func() string
	logger    *slog.Logger

	mu       sync.Mutex
	messages []Message
	draft    string
	awaiting bool

	// pubMu guards the subscriber set and the delivery flags
	pubMu      sync.Mutex
	subs       map[int]func(State)
	nextSubID  int
	delivering bool
	dirty      bool

	inflight sync.WaitGroup
}

// New creates a Controller that sends messages through exchanger
func New(exchanger Exchanger, opts ...Option) *Controller {
	c := &Controller{
		exchanger: exchanger,
		newID:     uuid.NewString,
		logger:    slog.Default(),
		subs:      make(map[int]func(State)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	messages := make([]Message, len(c.messages))
	copy(messages, c.messages)
	return State{
		Messages: messages,
		Draft:    c.draft,
		Awaiting: c.awaiting,
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function removes the subscription.
//
// Subscribers are called one at a time and never while a lock is held, so fn
// may call back into the controller. Changes made from fn, or by another
// goroutine during delivery, are folded into one newer snapshot delivered
// after the current round.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.pubMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.pubMu.Unlock()

	return func() {
		c.pubMu.Lock()
		delete(c.subs, id)
		c.pubMu.Unlock()
	}
}

// publish hands the latest snapshot to every subscriber. Only one goroutine
// delivers at a time; others mark the state dirty and return.
func (c *Controller) publish() {
	c.pubMu.Lock()
	c.dirty = true
	if c.delivering {
		c.pubMu.Unlock()
		return
	}
	c.delivering = true

	for c.dirty {
		c.dirty = false
		subs := make([]func(State), 0, len(c.subs))
		for _, fn := range c.subs {
			subs = append(subs, fn)
		}
		c.pubMu.Unlock()

		if len(subs) > 0 {
			state := c.Snapshot()
			for _, fn := range subs {
				fn(state)
			}
		}

		c.pubMu.Lock()
	}

	c.delivering = false
	c.pubMu.Unlock()
}

// SetDraft replaces the current input text
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	if c.draft == text {
		c.mu.Unlock()
		return
	}
	c.draft = text
	c.mu.Unlock()

	c.publish()
}

// SubmitDraft submits the current draft
func (c *Controller) SubmitDraft() bool {
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()

	return c.Submit(draft)
}

// Submit appends text as a user message, adds a pending bot message and
// starts the exchange in the background. It returns false, changing nothing,
// when text is blank or a reply is already awaited.
func (c *Controller) Submit(text string) bool {
	text = strings.TrimFunc(text, isInputSpace)

	c.mu.Lock()
	if text == "" || c.awaiting {
		c.mu.Unlock()
		return false
	}

	c.messages = append(c.messages, Message{
		ID:     c.newID(),
		Text:   text,
		Sender: SenderUser,
	})
	c.draft = ""
	c.awaiting = true

	placeholderID := c.newID()
	c.messages = append(c.messages, Message{
		ID:      placeholderID,
		Sender:  SenderBot,
		Pending: true,
	})
	c.inflight.Add(1)
	c.mu.Unlock()

	c.logger.Debug("message submitted", "id", placeholderID, "length", len(text))
	c.publish()

	go c.exchange(text, placeholderID)

	return true
}

// isInputSpace reports the characters trimmed from submitted input: Unicode
// Zs, the ASCII controls \t \n \v \f \r, the BOM and the line and paragraph
// separators. Unlike unicode.IsSpace it includes U+FEFF and excludes U+0085.
func isInputSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// exchange runs the outbound request and resolves the placeholder
func (c *Controller) exchange(text, placeholderID string) {
	defer c.inflight.Done()

	payload, err := c.exchanger.Send(text)
	if err != nil {
		c.fail(err)
		return
	}

	result := reply.Resolve(payload)
	c.logger.Debug("reply received", "id", placeholderID, "shape", result.Shape.String())

	c.mu.Lock()
	for i := range c.messages {
		if c.messages[i].ID == placeholderID {
			c.messages[i] = Message{
				ID:     placeholderID,
				Text:   result.Text,
				Sender: SenderBot,
			}
			break
		}
	}
	c.awaiting = false
	c.mu.Unlock()

	c.publish()
}

// fail removes the pending message, clears the flag and raises the notification
func (c *Controller) fail(err error) {
	c.logger.Warn("webhook exchange failed", "error", err)

	c.mu.Lock()
	kept := c.messages[:0]
	for _, m := range c.messages {
		if !m.Pending {
			kept = append(kept, m)
		}
	}
	c.messages = kept
	c.awaiting = false
	c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.Notify(Notification{
			Title:       ErrorTitle,
			Description: ErrorDescription,
			Err:         err,
		})
	}

	c.publish()
}

// Wait blocks until the in-flight exchange, if any, has completed
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// LastReply returns the most recent resolved bot message
func (c *Controller) LastReply() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.messages) - 1; i >= 0; i-- {
		m := c.messages[i]
		if m.Sender == SenderBot && !m.Pending {
			return m, true
		}
	}
	return Message{}, false
}
