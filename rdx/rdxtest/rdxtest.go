// Package rdxtest provides an in-memory stand-in for the few Redis commands
// the storefront uses.
package rdxtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is one recorded PUBLISH.
type Message struct {
	Channel string
	Payload string
}

// Fake implements Get, Set, Del and Publish. Any other command panics
// through the nil embedded interface.
type Fake struct {
	redis.Cmdable

	mu        sync.Mutex
	data      map[string]string
	ttls      map[string]time.Duration
	Published []Message
	Err       error // returned by every command when set
}

var _ redis.Cmdable = (*Fake)(nil)

func New() *Fake {
	return &Fake{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *Fake) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return redis.NewStringResult("", f.Err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *Fake) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return redis.NewStatusResult("", f.Err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *Fake) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return redis.NewIntResult(0, f.Err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			delete(f.ttls, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *Fake) Publish(_ context.Context, channel string, message any) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return redis.NewIntResult(0, f.Err)
	}
	payload := fmt.Sprint(message)
	if b, ok := message.([]byte); ok {
		payload = string(b)
	}
	f.Published = append(f.Published, Message{Channel: channel, Payload: payload})
	return redis.NewIntResult(1, nil)
}

// Value returns the raw stored value for key.
func (f *Fake) Value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// ExpiryOf returns the expiry passed to the last Set of key.
func (f *Fake) ExpiryOf(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttls[key]
}

// Messages returns a copy of the published messages.
func (f *Fake) Messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.Published...)
}
