// Package tray provides the system tray interface for hand-tracker.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/DurjaMan27/hand-tracker/internal/gesture"
)

// Tray is the system tray menu: an enable toggle, the live gesture phase,
// an object reset, the viewer link and quit.
type Tray struct {
	onToggle func(enabled bool)
	onReset  func()
	onViewer func()
	onQuit   func()
	enabled  bool
	phase    gesture.Phase
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuPhase  *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
		phase:   gesture.PhaseIdle,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnReset sets the callback for the reset object item.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnViewer sets the callback for the open viewer item.
func (t *Tray) OnViewer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onViewer = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

func (t *Tray) onReady() {
	systray.SetTitle("Hand Tracker")
	systray.SetTooltip("Hand gesture zoom and rotate")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture detection")
	systray.AddSeparator()

	t.menuPhase = systray.AddMenuItem(phaseTitle(t.phase), "Current gesture phase")
	t.menuPhase.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuReset := systray.AddMenuItem("Reset Object", "Restore the object's scale and orientation")
	menuViewer := systray.AddMenuItem("Open Viewer...", "Open the viewer in the browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Hand Tracker")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuReset.ClickedCh:
				t.call(func() func() { return t.onReset })
			case <-menuViewer.ClickedCh:
				t.call(func() func() { return t.onViewer })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

// handleToggle flips the enabled state and reports it.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// call runs the callback returned by get, read under the lock.
func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	callback := get()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetPhase updates the gesture line of the menu.
func (t *Tray) SetPhase(p gesture.Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.phase = p
	if t.menuPhase != nil {
		t.menuPhase.SetTitle(phaseTitle(p))
	}
}

// Phase returns the last phase passed to SetPhase.
func (t *Tray) Phase() gesture.Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phase
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func phaseTitle(p gesture.Phase) string {
	if p == "" {
		p = gesture.PhaseIdle
	}
	return "Gesture: " + string(p)
}
