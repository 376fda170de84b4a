package assistant

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyMessage = errors.New("assistant: message is empty")
	ErrBusy         = errors.New("assistant: still typing a reply")
	ErrClosed       = errors.New("assistant: conversation closed")
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	DefaultMinDelay = time.Second
	DefaultMaxDelay = 3 * time.Second
)

// DelayBetween returns a typing delay drawn uniformly from [lo, hi).
func DelayBetween(lo, hi time.Duration) func() time.Duration {
	return func() time.Duration {
		if hi <= lo {
			return lo
		}
		return lo + time.Duration(rand.Int63n(int64(hi-lo)))
	}
}

// Conversation keeps the message log and at most one pending bot reply.
type Conversation struct {
	mu sync.Mutex

	responder *Responder
	delay     func() time.Duration
	now       func() time.Time
	onReply   func(Message)

	messages []Message
	typing   bool
	closed   bool
	gen      uint64
	cancel   context.CancelFunc
}

type Option func(*Conversation)

func WithDelay(fn func() time.Duration) Option {
	return func(c *Conversation) { c.delay = fn }
}

func WithClock(now func() time.Time) Option {
	return func(c *Conversation) { c.now = now }
}

// WithOnReply registers a callback run after each bot reply is appended.
func WithOnReply(fn func(Message)) Option {
	return func(c *Conversation) { c.onReply = fn }
}

// NewConversation starts a log holding the greeting.
func NewConversation(r *Responder, opts ...Option) *Conversation {
	c := &Conversation{
		responder: r,
		delay:     DelayBetween(DefaultMinDelay, DefaultMaxDelay),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.messages = []Message{{ID: uuid.NewString(), Text: Greeting, Sender: SenderBot, Timestamp: c.now()}}
	return c
}

// Send records the user's message and schedules the reply. The channel
// closes once the reply is appended or the pending reply is cancelled.
func (c *Conversation) Send(text string) (Message, <-chan struct{}, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, nil, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		return Message{}, nil, ErrClosed
	case c.typing:
		return Message{}, nil, ErrBusy
	}

	msg := Message{ID: uuid.NewString(), Text: text, Sender: SenderUser, Timestamp: c.now()}
	c.messages = append(c.messages, msg)

	ctx, cancel := context.WithCancel(context.Background())
	c.gen++
	c.cancel = cancel
	c.typing = true

	done := make(chan struct{})
	go c.reply(ctx, c.gen, text, c.delay(), done)
	return msg, done, nil
}

func (c *Conversation) reply(ctx context.Context, gen uint64, text string, wait time.Duration, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		return
	}
	msg := Message{ID: uuid.NewString(), Text: c.responder.Reply(text), Sender: SenderBot, Timestamp: c.now()}
	c.messages = append(c.messages, msg)
	c.typing = false
	c.cancel()
	c.cancel = nil
	onReply := c.onReply
	c.mu.Unlock()

	if onReply != nil {
		onReply(msg)
	}
}

// Messages returns a copy of the log, oldest first.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Typing reports whether a reply is pending.
func (c *Conversation) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// Close cancels any pending reply. Later sends fail with ErrClosed.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.gen++
		c.cancel()
		c.cancel = nil
		c.typing = false
		log.Printf("[Assistant] pending reply cancelled")
	}
}
