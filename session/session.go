// Package session keeps one shopper's engines alive between requests.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"skouce/assistant"
	"skouce/cart"
	"skouce/catalog"
	"skouce/checkout"
	"skouce/compare"
	"skouce/filters"
	"skouce/wishlist"
)

// Session owns one instance of every storefront component. Handlers hold
// mu while touching the synchronous ones.
type Session struct {
	ID string

	mu        sync.Mutex
	Catalog   *catalog.Snapshot
	Filters   *filters.Engine
	Compare   *compare.Set
	Wishlist  *wishlist.Collection
	Cart      *cart.Cart
	Checkout  *checkout.Wizard
	Assistant *assistant.Conversation

	lastSeen time.Time
}

// Do runs fn with the session locked.
func (s *Session) Do(fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func (s *Session) close() {
	s.Checkout.Close()
	s.Assistant.Close()
}

// Deps are shared by every session a Store creates.
type Deps struct {
	Catalog        *catalog.Snapshot
	Processor      checkout.Processor
	Notifier       checkout.OrderNotifier
	Sharer         *wishlist.Sharer
	Responder      *assistant.Responder
	AssistantDelay func() time.Duration
	// OnReply, when set, is told about assistant replies for pushing to sockets.
	OnReply func(sessionID string, m assistant.Message)
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deps     Deps
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(deps Deps, ttl time.Duration) *Store {
	return &Store{sessions: map[string]*Session{}, deps: deps, ttl: ttl, now: time.Now}
}

func (st *Store) build(id string) *Session {
	d := st.deps
	c := cart.New()

	wopts := []wishlist.Option{wishlist.WithCart(c)}
	if d.Sharer != nil {
		wopts = append(wopts, wishlist.WithSharer(d.Sharer))
	}

	copts := []checkout.Option{checkout.WithSessionID(id)}
	if d.Processor != nil {
		copts = append(copts, checkout.WithProcessor(d.Processor))
	}
	if d.Notifier != nil {
		copts = append(copts, checkout.WithNotifier(d.Notifier))
	}

	var aopts []assistant.Option
	if d.AssistantDelay != nil {
		aopts = append(aopts, assistant.WithDelay(d.AssistantDelay))
	}
	if d.OnReply != nil {
		onReply := d.OnReply
		aopts = append(aopts, assistant.WithOnReply(func(m assistant.Message) { onReply(id, m) }))
	}
	responder := d.Responder
	if responder == nil {
		responder = assistant.DefaultResponder(nil)
	}

	return &Session{
		ID:        id,
		Catalog:   d.Catalog,
		Filters:   filters.NewEngine(d.Catalog.Facets()),
		Compare:   compare.NewSet(d.Catalog.Product),
		Wishlist:  wishlist.New(wopts...),
		Cart:      c,
		Checkout:  checkout.NewWizard(c, copts...),
		Assistant: assistant.NewConversation(responder, aopts...),
		lastSeen:  st.now(),
	}
}

// Create starts a new session with a random id.
func (st *Store) Create() *Session {
	s := st.build(uuid.NewString())
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	log.Printf("[Session] created id=%s", s.ID)
	return s
}

// Get returns a live session and marks it as used.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.ttl > 0 && now.Sub(s.lastSeen) > st.ttl {
		delete(st.sessions, id)
		go s.close()
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

// Delete tears a session down.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.close()
		log.Printf("[Session] ended id=%s", id)
	}
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the TTL.
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	now := st.now()
	var expired []*Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if now.Sub(s.lastSeen) > st.ttl {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.close()
		log.Printf("[Session] expired id=%s", s.ID)
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

// Close tears down every session.
func (st *Store) Close() {
	st.mu.Lock()
	all := st.sessions
	st.sessions = map[string]*Session{}
	st.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
