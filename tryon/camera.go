// Package tryon overlays a watch on camera frames for the virtual try-on.
package tryon

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
)

var (
	ErrCameraDenied = errors.New("tryon: camera access denied")
	ErrStreamClosed = errors.New("tryon: stream closed")
)

// MediaSource hands out camera streams. Acquire fails with ErrCameraDenied
// when the shopper refuses access.
type MediaSource interface {
	Acquire(ctx context.Context) (Stream, error)
}

// Stream is an acquired camera. Close releases it and must be idempotent.
type Stream interface {
	Frame() (image.Image, error)
	Close() error
}

// StaticSource serves one fixed frame, e.g. a photo uploaded by the client.
type StaticSource struct {
	Image  image.Image
	Denied bool

	mu   sync.Mutex
	open int
}

func (s *StaticSource) Acquire(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Denied {
		return nil, ErrCameraDenied
	}
	s.mu.Lock()
	s.open++
	s.mu.Unlock()
	return &staticStream{src: s}, nil
}

// Open counts streams acquired and not yet closed.
func (s *StaticSource) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

type staticStream struct {
	src    *StaticSource
	once   sync.Once
	closed atomic.Bool
}

func (st *staticStream) Frame() (image.Image, error) {
	if st.closed.Load() {
		return nil, ErrStreamClosed
	}
	return st.src.Image, nil
}

func (st *staticStream) Close() error {
	st.once.Do(func() {
		st.closed.Store(true)
		st.src.mu.Lock()
		st.src.open--
		st.src.mu.Unlock()
	})
	return nil
}
