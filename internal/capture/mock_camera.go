package capture

import (
	"errors"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ErrNoFrames is returned once a non-looping MockCamera runs out of frames.
var ErrNoFrames = errors.New("no more frames")

// MockCamera plays back pre-recorded frames for testing. Each frame is
// stamped Interval after the previous one, starting at Start.
type MockCamera struct {
	mu       sync.Mutex
	frames   []*gocv.Mat
	index    int
	loop     bool
	running  bool
	fps      int
	Start    time.Time
	Interval time.Duration
	reads    int
}

// NewMockCamera creates a MockCamera over frames at DefaultFPS.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames:   frames,
		loop:     loop,
		fps:      DefaultFPS,
		Start:    time.Unix(0, 0),
		Interval: time.Second / DefaultFPS,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

// Read returns a clone of the next frame.
func (c *MockCamera) Read() (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}
	if len(c.frames) == 0 {
		return nil, ErrNoFrames
	}

	if c.index >= len(c.frames) {
		if !c.loop {
			return nil, ErrNoFrames
		}
		c.index = 0
	}

	mat := c.frames[c.index].Clone()
	c.index++

	captured := c.Start.Add(time.Duration(c.reads) * c.Interval)
	c.reads++

	return &Frame{Mat: &mat, Captured: captured}, nil
}

func (c *MockCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

func (c *MockCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Reset restarts playback and the clock from the beginning.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
	c.reads = 0
}
