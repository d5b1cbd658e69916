// Package tray provides the system tray interface for the Kathak motion
// capture service.
package tray

import (
	"strconv"
	"sync"

	"github.com/getlantern/systray"
)

// Tray owns the tray menu and dispatches menu clicks to the registered
// callbacks.
type Tray struct {
	onToggle    func(enabled bool)
	onRecord    func(recording bool)
	onDashboard func()
	onQuit      func()
	enabled     bool
	recording   bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuRecord *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray instance with tracking enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback invoked when tracking is toggled on or off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnRecord sets the callback invoked when recording is started or stopped.
func (t *Tray) OnRecord(fn func(recording bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRecord = fn
}

// OnDashboard sets the callback invoked when the dashboard menu item is
// clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Kathak")
	systray.SetTooltip("Kathak Motion Capture")

	t.menuToggle = systray.AddMenuItem("● Tracking", "Toggle motion tracking")
	t.menuRecord = systray.AddMenuItem("Start Recording", "Record the current take")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem("No avatar connected", "Connected avatar clients")
	t.menuStatus.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Kathak")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuRecord.ClickedCh:
				t.handleRecord()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Tracking")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleRecord() {
	t.mu.Lock()
	t.recording = !t.recording
	recording := t.recording

	if recording {
		t.menuRecord.SetTitle("Stop Recording")
	} else {
		t.menuRecord.SetTitle("Start Recording")
	}

	callback := t.onRecord
	t.mu.Unlock()

	if callback != nil {
		callback(recording)
	}
}

func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetClientCount updates the connected-avatar display in the menu.
func (t *Tray) SetClientCount(n int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStatus == nil {
		return
	}
	switch n {
	case 0:
		t.menuStatus.SetTitle("No avatar connected")
	case 1:
		t.menuStatus.SetTitle("1 avatar connected")
	default:
		t.menuStatus.SetTitle(strconv.Itoa(n) + " avatars connected")
	}
}

// IsEnabled returns the current tracking state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// IsRecording returns the current recording state.
func (t *Tray) IsRecording() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.recording
}
