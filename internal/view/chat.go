package view

import (
	"context"
	"strings"
	"sync"
)

// ValidationMessage is surfaced when a submission is rejected locally,
// before any network activity.
const ValidationMessage = "Please enter some text"

// ChatSender is the outbound port for chat submissions.
type ChatSender interface {
	Chat(ctx context.Context, message string) (string, error)
}

// ChatController owns the message-submission lifecycle. It carries the
// same sequence-number staleness guard as the period controller, so
// overlapping submissions resolve last-wins: the reply shown always
// belongs to the most recently submitted message.
type ChatController struct {
	sender ChatSender

	mu    sync.Mutex
	draft string
	seq   uint64
	state QueryState[string]

	onChange func()
}

// NewChatController creates an idle controller with an empty draft.
func NewChatController(sender ChatSender) *ChatController {
	return &ChatController{sender: sender}
}

// SetOnChange registers a hook fired after every visible state
// transition.
func (c *ChatController) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// SetDraft stores the user's in-progress message.
func (c *ChatController) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()
	c.notify()
}

// Draft returns the current in-progress message.
func (c *ChatController) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// State returns the current submission query state.
func (c *ChatController) State() QueryState[string] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit sends the current draft. A whitespace-only draft is rejected
// locally with a validation failure and no request is issued. The draft
// is never cleared here, so a failed submission can be retried without
// retyping.
func (c *ChatController) Submit(ctx context.Context) {
	c.mu.Lock()
	message := strings.TrimSpace(c.draft)
	if message == "" {
		c.state = QueryState[string]{Phase: Failure, Err: ValidationMessage}
		c.mu.Unlock()
		c.notify()
		return
	}

	c.seq++
	req := c.seq
	c.state = QueryState[string]{Phase: Loading}
	c.mu.Unlock()
	c.notify()

	go func() {
		reply, err := c.sender.Chat(ctx, message)
		c.resolve(req, reply, err)
	}()
}

func (c *ChatController) resolve(req uint64, reply string, err error) {
	c.mu.Lock()
	if req != c.seq {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.state = QueryState[string]{Phase: Failure, Err: err.Error()}
	} else {
		c.state = QueryState[string]{Phase: Success, Data: reply}
	}
	c.mu.Unlock()
	c.notify()
}

func (c *ChatController) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
