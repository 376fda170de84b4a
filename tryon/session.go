package tryon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/disintegration/imaging"
)

var (
	ErrInactive         = errors.New("tryon: camera is not running")
	ErrUnknownWristSize = errors.New("tryon: unsupported wrist size")
)

// WristSize is a selectable wrist circumference.
type WristSize struct {
	MM          int    `json:"mm"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var WristSizes = []WristSize{
	{140, "XS (140mm)", "Very Small Wrist"},
	{160, "S (160mm)", "Small Wrist"},
	{170, "M (170mm)", "Medium Wrist"},
	{180, "L (180mm)", "Large Wrist"},
	{200, "XL (200mm)", "Very Large Wrist"},
}

const baseWristMM = 170

// Scale sizes the overlay relative to a 170mm wrist, clamped to [0.5, 1.5].
func Scale(wristMM int) float64 {
	s := float64(wristMM) / baseWristMM
	return max(0.5, min(1.5, s))
}

// Position is the overlay centre in percent of the frame.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

var Center = Position{X: 50, Y: 50}

// Session is one try-on panel. The camera stream is held only between
// Start and Stop.
type Session struct {
	mu sync.Mutex

	source  MediaSource
	stream  Stream
	watch   string
	overlay image.Image
	wrist   int
	pos     Position
}

func NewSession(source MediaSource, watchName string, overlay image.Image) *Session {
	return &Session{source: source, watch: watchName, overlay: overlay, wrist: baseWristMM, pos: Center}
}

// Start acquires the camera. Starting an active session does nothing.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream != nil {
		return nil
	}
	st, err := s.source.Acquire(ctx)
	if err != nil {
		if errors.Is(err, ErrCameraDenied) {
			log.Printf("[TryOn] camera denied watch=%q", s.watch)
		}
		return err
	}
	s.stream = st
	log.Printf("[TryOn] camera acquired watch=%q", s.watch)
	return nil
}

// Stop releases the camera if held.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	log.Printf("[TryOn] camera released watch=%q", s.watch)
	return err
}

// Close is Stop for teardown paths that cannot report errors.
func (s *Session) Close() {
	if err := s.Stop(); err != nil {
		log.Printf("[TryOn] release camera: %v", err)
	}
}

func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil
}

// Use runs fn with the camera held and releases it afterwards, also when fn panics.
func (s *Session) Use(ctx context.Context, fn func(*Session) error) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func (s *Session) SetWristSize(mm int) error {
	for _, w := range WristSizes {
		if w.MM == mm {
			s.mu.Lock()
			s.wrist = mm
			s.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("%w: %dmm", ErrUnknownWristSize, mm)
}

func (s *Session) WristSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wrist
}

// SetPosition moves the overlay centre, clamped to the frame.
func (s *Session) SetPosition(p Position) {
	p.X = max(0, min(100, p.X))
	p.Y = max(0, min(100, p.Y))
	s.mu.Lock()
	s.pos = p
	s.mu.Unlock()
}

func (s *Session) ResetPosition() {
	s.SetPosition(Center)
}

func (s *Session) Position() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Photo is a captured try-on image.
type Photo struct {
	Filename string
	PNG      []byte
}

// Capture grabs the current frame, draws the watch on it and encodes a PNG.
func (s *Session) Capture() (Photo, error) {
	s.mu.Lock()
	stream, overlay, wrist, pos, watch := s.stream, s.overlay, s.wrist, s.pos, s.watch
	s.mu.Unlock()
	if stream == nil {
		return Photo{}, ErrInactive
	}

	frame, err := stream.Frame()
	if err != nil {
		return Photo{}, fmt.Errorf("tryon: read frame: %w", err)
	}
	img := Compose(frame, overlay, Scale(wrist), pos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return Photo{}, fmt.Errorf("tryon: encode: %w", err)
	}
	return Photo{Filename: watch + "-virtual-try-on.png", PNG: buf.Bytes()}, nil
}

// Compose draws overlay centred at pos. The overlay is a quarter of the
// frame width at scale 1 and keeps its aspect ratio.
func Compose(frame, overlay image.Image, scale float64, pos Position) *image.NRGBA {
	out := imaging.Clone(frame)
	if overlay == nil {
		return out
	}
	fb, ob := frame.Bounds(), overlay.Bounds()
	if ob.Dx() == 0 || ob.Dy() == 0 {
		return out
	}

	w := int(float64(fb.Dx()) * scale / 4)
	h := int(int64(w) * int64(ob.Dy()) / int64(ob.Dx()))
	if h > fb.Dy() {
		// tall overlays fit the frame height, keeping their aspect
		h = fb.Dy()
		w = max(1, int(int64(h)*int64(ob.Dx())/int64(ob.Dy())))
	}
	if w <= 0 || h <= 0 {
		return out
	}
	watch := imaging.Resize(overlay, w, h, imaging.Lanczos)

	x := int(float64(fb.Dx())*pos.X/100) - w/2
	y := int(float64(fb.Dy())*pos.Y/100) - h/2
	return imaging.Overlay(out, watch, image.Pt(x, y), 1.0)
}
