package app

import (
	"errors"
	"log"
	"time"

	"github.com/DurjaMan27/hand-tracker/internal/capture"
)

// runPipeline reads a frame every interval until stopCh closes.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}, interval time.Duration) {
	defer close(doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.Enabled() {
				continue
			}
			if err := a.step(); errors.Is(err, capture.ErrNoFrames) {
				log.Println("Camera has no more frames")
				a.finish(stopCh)
				return
			}
		}
	}
}

// finish clears the run state of a pipeline that ended on its own, so a
// later Start opens a new one. A pipeline already replaced by Stop or Start
// is left alone.
func (a *App) finish(stopCh <-chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopCh != stopCh {
		return
	}
	a.stopCh, a.doneCh = nil, nil
}

// step captures, detects and classifies one frame. Only the first detected
// hand is tracked; frames without one are dropped.
func (a *App) step() error {
	frame, err := a.camera.Read()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return err
	}
	defer frame.Close()

	hands, err := a.detector.Detect(frame.Mat)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return err
	}
	if len(hands) == 0 {
		return nil
	}

	if err := a.ProcessHand(&hands[0], frame.Captured); err != nil {
		log.Printf("Error processing hand: %v", err)
		return err
	}
	return nil
}
