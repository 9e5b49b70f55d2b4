package detector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
)

const epsilon = 1e-9

func TestNewHandLandmarks(t *testing.T) {
	t.Run("accepts exactly 21 points", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks)
		for i := range points {
			points[i] = Point3D{X: float64(i) / 100, Y: 0.5, Z: -0.01}
		}

		hand, err := NewHandLandmarks(points)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hand.Points[PinkyTip] != points[PinkyTip] {
			t.Errorf("pinky tip = %v, want %v", hand.Points[PinkyTip], points[PinkyTip])
		}
	})

	tests := []struct {
		name   string
		points []Point3D
	}{
		{name: "empty frame", points: nil},
		{name: "too few landmarks", points: make([]Point3D, 20)},
		{name: "too many landmarks", points: make([]Point3D, 22)},
		{name: "NaN coordinate", points: withPoint(MiddleTip, Point3D{X: math.NaN()})},
		{name: "infinite depth", points: withPoint(Wrist, Point3D{Z: math.Inf(-1)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHandLandmarks(tt.points)
			if !errors.Is(err, ErrMalformedFrame) {
				t.Errorf("error = %v, want ErrMalformedFrame", err)
			}
		})
	}
}

func withPoint(idx int, p Point3D) []Point3D {
	points := make([]Point3D, NumLandmarks)
	points[idx] = p
	return points
}

func TestHandLandmarks_RefDistance(t *testing.T) {
	hand := HandLandmarks{}
	hand.Points[Wrist] = Point3D{X: 10.0, Y: 20.0, Z: 5.0}
	hand.Points[MiddleMCP] = Point3D{X: 13.0, Y: 24.0, Z: 50.0} // depth is ignored

	if got := hand.RefDistance(); math.Abs(got-5.0) > epsilon {
		t.Errorf("RefDistance() = %f, want 5.0", got)
	}

	degenerate := DegenerateLandmarks()
	if got := degenerate.RefDistance(); got != 0 {
		t.Errorf("degenerate RefDistance() = %f, want 0", got)
	}
}

func TestParseResponse(t *testing.T) {
	hand := `{"points":[` + strings.TrimSuffix(strings.Repeat(`{"x":0.1,"y":0.2,"z":0.0},`, NumLandmarks), ",") + `],"handedness":"Left","score":0.8}`

	t.Run("decodes hands", func(t *testing.T) {
		hands, err := parseResponse([]byte(`{"hands":[`+hand+`]}`), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Handedness != "Left" || hands[0].Score != 0.8 {
			t.Errorf("got handedness %q score %f", hands[0].Handedness, hands[0].Score)
		}
		if hands[0].Points[IndexTip].Y != 0.2 {
			t.Errorf("index tip Y = %f, want 0.2", hands[0].Points[IndexTip].Y)
		}
	})

	t.Run("limits to max hands", func(t *testing.T) {
		hands, err := parseResponse([]byte(`{"hands":[`+hand+`,`+hand+`]}`), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Errorf("expected 1 hand, got %d", len(hands))
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := parseResponse([]byte(`{"hands":[]}`), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("truncated hand is rejected", func(t *testing.T) {
		_, err := parseResponse([]byte(`{"hands":[{"points":[{"x":0.1,"y":0.2}]}]}`), 1)
		if !errors.Is(err, ErrMalformedFrame) {
			t.Errorf("error = %v, want ErrMalformedFrame", err)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := parseResponse([]byte(`not json`), 1); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xff, 0xd8, 0x01, 0x02, 0xff, 0xd9}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.Bytes()
	if got := binary.BigEndian.Uint32(out[:4]); got != uint32(len(payload)) {
		t.Errorf("length prefix = %d, want %d", got, len(payload))
	}
	if !bytes.Equal(out[4:], payload) {
		t.Errorf("payload = %v, want %v", out[4:], payload)
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()

		mock.SetHands([]HandLandmarks{ClosedFistLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
		if mock.Calls() != 1 {
			t.Errorf("Calls() = %d, want 1", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		if err := NewMockDetector().Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestClosedFistLandmarks(t *testing.T) {
	lm := ClosedFistLandmarks()
	ref := lm.RefDistance()

	// Every fingertip should sit within a small fraction of the hand scale of the thumb tip.
	for _, idx := range []int{IndexTip, MiddleTip, RingTip, PinkyTip} {
		d := Distance2D(lm.Points[ThumbTip], lm.Points[idx]) / ref
		if d > 0.1 {
			t.Errorf("landmark %d is %f hand-units from the thumb tip, want <= 0.1", idx, d)
		}
	}
}

func TestZoomPoseLandmarks(t *testing.T) {
	for _, pinch := range []float64{0.09, 0.12, 0.15} {
		lm := ZoomPoseLandmarks(pinch)
		if got := Distance2D(lm.Points[ThumbTip], lm.Points[IndexTip]); math.Abs(got-pinch) > epsilon {
			t.Errorf("pinch distance = %f, want %f", got, pinch)
		}
		if lm.Points[IndexTip].Y >= lm.Points[MiddleTip].Y {
			t.Error("index tip should be raised above the curled fingers (lower Y value)")
		}
	}
}

func TestRotatePoseLandmarks(t *testing.T) {
	for _, theta := range []float64{0, math.Pi / 4, math.Pi / 2} {
		lm := RotatePoseLandmarks(theta)
		dx := lm.Points[MiddleTip].X - lm.Points[ThumbTip].X
		dy := lm.Points[MiddleTip].Y - lm.Points[ThumbTip].Y

		if math.Abs(math.Atan2(dy, dx)-theta) > 1e-9 {
			t.Errorf("thumb to middle direction = %f, want %f", math.Atan2(dy, dx), theta)
		}
		if math.Abs(math.Hypot(dx, dy)-0.1) > epsilon {
			t.Errorf("thumb extension = %f, want 0.1", math.Hypot(dx, dy))
		}
	}
}

func TestOpenPalmLandmarks(t *testing.T) {
	landmarks := OpenPalmLandmarks()

	t.Run("all fingers are extended", func(t *testing.T) {
		minExtension := 0.2

		for _, finger := range [][2]int{{IndexMCP, IndexTip}, {MiddleMCP, MiddleTip}, {RingMCP, RingTip}, {PinkyMCP, PinkyTip}} {
			extension := landmarks.Points[finger[0]].Y - landmarks.Points[finger[1]].Y
			if extension < minExtension {
				t.Errorf("finger tip %d not extended enough (extension: %f), expected >= %f", finger[1], extension, minExtension)
			}
		}
	})

	t.Run("thumb is extended to the side", func(t *testing.T) {
		if landmarks.Points[ThumbTip].X <= landmarks.Points[ThumbMCP].X {
			t.Error("thumb tip should be to the right of thumb MCP (extended outward)")
		}
	})
}
