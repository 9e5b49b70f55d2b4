package capture

import (
	"errors"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestMockCamera_Playback(t *testing.T) {
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame1, &frame2}, false)

	if _, err := cam.Read(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("Read() before Open error = %v, want ErrCameraNotOpen", err)
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	for i := 0; i < 2; i++ {
		f, err := cam.Read()
		if err != nil {
			t.Fatalf("Read() %d error = %v", i, err)
		}
		if f.Mat.Rows() != 480 || f.Mat.Cols() != 640 {
			t.Errorf("frame %d size = %dx%d, want 640x480", i, f.Mat.Cols(), f.Mat.Rows())
		}
		f.Close()
	}

	if _, err := cam.Read(); !errors.Is(err, ErrNoFrames) {
		t.Errorf("Read() after last frame error = %v, want ErrNoFrames", err)
	}
}

func TestMockCamera_Loop(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.Read()
		if err != nil {
			t.Fatalf("Read() iteration %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestMockCamera_Timestamps(t *testing.T) {
	frame := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.Start = time.Unix(100, 0)
	cam.Interval = 100 * time.Millisecond
	cam.Open()
	defer cam.Close()

	for i := 0; i < 3; i++ {
		f, err := cam.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		want := cam.Start.Add(time.Duration(i) * cam.Interval)
		if !f.Captured.Equal(want) {
			t.Errorf("frame %d Captured = %v, want %v", i, f.Captured, want)
		}
		f.Close()
	}

	cam.Reset()
	f, _ := cam.Read()
	defer f.Close()
	if !f.Captured.Equal(cam.Start) {
		t.Errorf("Captured after Reset = %v, want %v", f.Captured, cam.Start)
	}
}

func TestMockCamera_Empty(t *testing.T) {
	cam := NewMockCamera(nil, true)
	cam.Open()

	if _, err := cam.Read(); !errors.Is(err, ErrNoFrames) {
		t.Errorf("Read() error = %v, want ErrNoFrames", err)
	}
}

func TestMockCamera_FPS(t *testing.T) {
	cam := NewMockCamera(nil, false)
	if cam.FPS() != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", cam.FPS(), DefaultFPS)
	}
	cam.SetFPS(12)
	cam.SetFPS(0)
	if cam.FPS() != 12 {
		t.Errorf("FPS() = %d, want 12", cam.FPS())
	}
}
