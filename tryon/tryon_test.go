package tryon

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
)

// near tolerates resampling rounding.
func near(t *testing.T, want color.NRGBA, got color.Color) {
	t.Helper()
	c := color.NRGBAModel.Convert(got).(color.NRGBA)
	for _, d := range []int{int(c.R) - int(want.R), int(c.G) - int(want.G), int(c.B) - int(want.B)} {
		if d < -3 || d > 3 {
			t.Errorf("colour %v, want about %v", c, want)
			return
		}
	}
}

func testSession(denied bool) (*Session, *StaticSource) {
	src := &StaticSource{Image: imaging.New(400, 300, white), Denied: denied}
	return NewSession(src, "Royal Heritage", imaging.New(40, 20, red)), src
}

func TestScale(t *testing.T) {
	assert.InDelta(t, 1.0, Scale(170), 1e-9)
	assert.InDelta(t, 140.0/170, Scale(140), 1e-9)
	assert.InDelta(t, 200.0/170, Scale(200), 1e-9)
	assert.Equal(t, 0.5, Scale(10))
	assert.Equal(t, 1.5, Scale(400))
}

func TestStartStopReleasesStream(t *testing.T) {
	s, src := testSession(false)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()), "second start is a no-op")
	assert.True(t, s.Active())
	assert.Equal(t, 1, src.Open())

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.False(t, s.Active())
	assert.Zero(t, src.Open())
}

func TestCameraDenied(t *testing.T) {
	s, src := testSession(true)
	err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrCameraDenied)
	assert.False(t, s.Active())
	assert.Zero(t, src.Open())
}

func TestUseReleasesOnErrorAndPanic(t *testing.T) {
	s, src := testSession(false)

	boom := errors.New("boom")
	err := s.Use(context.Background(), func(*Session) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, src.Open())

	assert.Panics(t, func() {
		_ = s.Use(context.Background(), func(*Session) error { panic("navigated away") })
	})
	assert.Zero(t, src.Open())
	assert.False(t, s.Active())
}

func TestCaptureRequiresActiveCamera(t *testing.T) {
	s, _ := testSession(false)
	_, err := s.Capture()
	assert.ErrorIs(t, err, ErrInactive)
}

func TestCaptureComposesOverlay(t *testing.T) {
	s, _ := testSession(false)

	var photo Photo
	err := s.Use(context.Background(), func(s *Session) error {
		var err error
		photo, err = s.Capture()
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "Royal Heritage-virtual-try-on.png", photo.Filename)

	img, err := imaging.Decode(bytes.NewReader(photo.PNG))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 300), img.Bounds())

	near(t, red, img.At(200, 150))
	near(t, white, img.At(5, 5))
}

func TestComposeGeometry(t *testing.T) {
	frame := imaging.New(400, 200, white)
	overlay := imaging.New(100, 50, red)

	// scale 1: 100x50 watch centred at (100, 50)
	out := Compose(frame, overlay, 1, Position{X: 25, Y: 25})
	near(t, red, out.NRGBAAt(100, 50))
	near(t, red, out.NRGBAAt(51, 26))
	near(t, white, out.NRGBAAt(160, 50))

	// scale 0.5 halves the width
	out = Compose(frame, overlay, 0.5, Center)
	near(t, red, out.NRGBAAt(200, 100))
	near(t, white, out.NRGBAAt(200+30, 100))
}

func TestComposeClampsTallOverlay(t *testing.T) {
	frame := imaging.New(400, 200, white)
	overlay := imaging.New(1, 10000, red)

	out := Compose(frame, overlay, 1.5, Center)
	assert.Equal(t, frame.Bounds(), out.Bounds())
	near(t, red, out.NRGBAAt(200, 100))
	near(t, white, out.NRGBAAt(210, 100))
}

func TestStaticStreamConcurrentFrameAndClose(t *testing.T) {
	src := &StaticSource{Image: imaging.New(4, 4, white)}
	st, err := src.Acquire(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := st.Frame(); err != nil {
					assert.ErrorIs(t, err, ErrStreamClosed)
				}
			}
		}()
	}
	require.NoError(t, st.Close())
	wg.Wait()

	_, err = st.Frame()
	assert.ErrorIs(t, err, ErrStreamClosed)
	assert.Zero(t, src.Open())
}

func TestWristSizeAndPosition(t *testing.T) {
	s, _ := testSession(false)
	assert.Equal(t, 170, s.WristSize())

	require.NoError(t, s.SetWristSize(200))
	assert.ErrorIs(t, s.SetWristSize(175), ErrUnknownWristSize)
	assert.Equal(t, 200, s.WristSize())

	s.SetPosition(Position{X: 120, Y: -4})
	assert.Equal(t, Position{X: 100, Y: 0}, s.Position())
	s.ResetPosition()
	assert.Equal(t, Center, s.Position())
}
