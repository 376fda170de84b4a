package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/skip2/go-qrcode"
)

var (
	ErrShareNotFound   = errors.New("wishlist: shared wishlist not found or expired")
	ErrSharingDisabled = errors.New("wishlist: sharing is not configured")
	ErrNothingToShare  = errors.New("wishlist: wishlist is empty")
)

// Clipboard receives the shareable link.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// LogClipboard stands in for a clipboard on the server: the link is logged
// and the client copies it from the response.
type LogClipboard struct{}

func (LogClipboard) Copy(_ context.Context, text string) error {
	log.Printf("[Wishlist] share link ready link=%s", text)
	return nil
}

// ShareStore keeps shared product id lists under a token.
type ShareStore interface {
	Save(ctx context.Context, token string, ids []string, ttl time.Duration) error
	Load(ctx context.Context, token string) ([]string, error)
}

// RedisShareStore stores shared lists as JSON strings with a TTL.
type RedisShareStore struct {
	rdb redis.Cmdable
}

func NewRedisShareStore(rdb redis.Cmdable) *RedisShareStore {
	return &RedisShareStore{rdb: rdb}
}

func shareKey(token string) string {
	return "wishlist:shared:" + token
}

func (s *RedisShareStore) Save(ctx context.Context, token string, ids []string, ttl time.Duration) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, shareKey(token), data, ttl).Err()
}

func (s *RedisShareStore) Load(ctx context.Context, token string) ([]string, error) {
	raw, err := s.rdb.Get(ctx, shareKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode shared wishlist %s: %w", token, err)
	}
	return ids, nil
}

type memoryShare struct {
	ids     []string
	expires time.Time
}

// MemoryShareStore is used when Redis is not configured.
type MemoryShareStore struct {
	mu     sync.Mutex
	shares map[string]memoryShare
	now    func() time.Time
}

func NewMemoryShareStore() *MemoryShareStore {
	return &MemoryShareStore{shares: map[string]memoryShare{}, now: time.Now}
}

func (s *MemoryShareStore) Save(_ context.Context, token string, ids []string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shares[token] = memoryShare{ids: append([]string(nil), ids...), expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryShareStore) Load(_ context.Context, token string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shares[token]
	if !ok {
		return nil, ErrShareNotFound
	}
	if !s.now().Before(sh.expires) {
		delete(s.shares, token)
		return nil, ErrShareNotFound
	}
	return append([]string(nil), sh.ids...), nil
}

// Sharer turns a wishlist into a link others can open.
type Sharer struct {
	store   ShareStore
	clip    Clipboard
	baseURL string
	ttl     time.Duration
}

func NewSharer(store ShareStore, clip Clipboard, baseURL string, ttl time.Duration) *Sharer {
	return &Sharer{store: store, clip: clip, baseURL: strings.TrimRight(baseURL, "/"), ttl: ttl}
}

// Link builds the public URL for token.
func (s *Sharer) Link(token string) string {
	return s.baseURL + "/wishlist/shared/" + token
}

// Resolve returns the product ids stored under token.
func (s *Sharer) Resolve(ctx context.Context, token string) ([]string, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrShareNotFound
	}
	return s.store.Load(ctx, token)
}

// Share stores the saved product ids under a fresh token, hands the link to
// the clipboard and returns it.
func (w *Collection) Share(ctx context.Context) (string, error) {
	if w.sharer == nil {
		return "", ErrSharingDisabled
	}
	if len(w.items) == 0 {
		return "", ErrNothingToShare
	}
	s := w.sharer
	token := uuid.NewString()
	if err := s.store.Save(ctx, token, w.IDs(), s.ttl); err != nil {
		return "", fmt.Errorf("wishlist: save share: %w", err)
	}
	link := s.Link(token)
	if s.clip != nil {
		if err := s.clip.Copy(ctx, link); err != nil {
			return "", fmt.Errorf("wishlist: copy share link: %w", err)
		}
	}
	log.Printf("[Wishlist] share link created token=%s items=%d", token, len(w.items))
	return link, nil
}

// ShareQR renders link as a PNG QR code.
func ShareQR(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(link, qrcode.Medium, size)
}
