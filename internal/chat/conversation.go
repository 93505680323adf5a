package chat

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"legal-chat/internal/models"
)

// Notifier is told whenever the number of visible messages changes so the
// renderer can scroll to the newest one.
type Notifier interface {
	ScrollToLatest(count int)
}

type NotifierFunc func(count int)

func (f NotifierFunc) ScrollToLatest(count int) {
	f(count)
}

type Option func(*Conversation)

func WithNotifier(n Notifier) Option {
	return func(c *Conversation) {
		c.notifier = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Conversation) {
		if now != nil {
			c.now = now
		}
	}
}

// Conversation holds the message thread, the pending input and the turn
// status. Messages are append-only. It is not safe for concurrent use; the
// UI mutates it from its update loop only.
type Conversation struct {
	messages []models.Message
	input    string
	status   TurnStatus
	lastID   int64
	notifier Notifier
	now      func() time.Time
}

func NewConversation(opts ...Option) *Conversation {
	c := &Conversation{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.append(models.RoleAssistant, GreetingText, nil)
	return c
}

// SetNotifier replaces the notifier, e.g. when a view is rebuilt
func (c *Conversation) SetNotifier(n Notifier) {
	c.notifier = n
}

func (c *Conversation) SetInput(text string) {
	c.input = text
}

func (c *Conversation) Input() string {
	return c.input
}

// CanSubmit mirrors the send affordance: enabled only with text and no turn outstanding
func (c *Conversation) CanSubmit() bool {
	return c.status == Idle && strings.TrimSpace(c.input) != ""
}

// AppendUserMessage starts a turn. Blank text or an outstanding turn make it
// a no-op and it returns false. The text is stored in NFC, the same form the
// dispatcher sends.
func (c *Conversation) AppendUserMessage(text string) (models.Message, bool) {
	if strings.TrimSpace(text) == "" || c.status == Composing {
		return models.Message{}, false
	}

	msg := c.append(models.RoleUser, norm.NFC.String(text), nil)
	c.input = ""
	c.status = Composing
	c.notify()
	return msg, true
}

// Submit sends the pending input
func (c *Conversation) Submit() (models.Message, bool) {
	return c.AppendUserMessage(c.input)
}

// ResolveTurn folds the outcome of the outstanding turn into the thread:
// exactly one assistant message is appended and the status returns to Idle.
// A result arriving with no turn outstanding is dropped.
func (c *Conversation) ResolveTurn(result TurnResult) (models.Message, bool) {
	if c.status != Composing {
		return models.Message{}, false
	}

	var msg models.Message
	if result.Failed() {
		msg = c.append(models.RoleAssistant, ErrorText, nil)
	} else {
		sources := result.Sources
		if sources == nil {
			sources = []string{}
		}
		msg = c.append(models.RoleAssistant, result.Answer, sources)
	}

	c.status = Idle
	c.notify()
	return msg, true
}

func (c *Conversation) Status() TurnStatus {
	return c.status
}

func (c *Conversation) Composing() bool {
	return c.status == Composing
}

// Messages returns a copy of the thread in insertion order
func (c *Conversation) Messages() []models.Message {
	out := make([]models.Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.Clone()
	}
	return out
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

func (c *Conversation) Last() models.Message {
	return c.messages[len(c.messages)-1].Clone()
}

// ShowQuickQuestions is true until the first user message
func (c *Conversation) ShowQuickQuestions() bool {
	return len(c.messages) <= 1
}

func (c *Conversation) append(role models.Role, content string, sources []string) models.Message {
	c.lastID++
	msg := models.NewMessage(c.lastID, role, content, c.now())
	if sources != nil {
		msg.Sources = append([]string{}, sources...)
	}
	c.messages = append(c.messages, msg)
	return msg.Clone()
}

func (c *Conversation) notify() {
	if c.notifier != nil {
		c.notifier.ScrollToLatest(len(c.messages))
	}
}
