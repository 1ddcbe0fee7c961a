// Package tray provides the system tray menu: page switching, parameter
// reset and a live status line.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/handgrain/internal/control"
)

// Tray represents the system tray application.
type Tray struct {
	onPage     func(mode control.Mode)
	onReset    func()
	onSettings func()
	onQuit     func()
	mode       control.Mode
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuSynth  *systray.MenuItem
	menuDrum   *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray showing the synth page.
func New() *Tray {
	return &Tray{mode: control.Synth}
}

// OnPage sets the callback called when a page is picked from the menu.
func (t *Tray) OnPage(fn func(mode control.Mode)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPage = fn
}

// OnReset sets the callback called when "Reset parameters" is clicked.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("handgrain")
	systray.SetTooltip("handgrain hand-gesture control")

	t.mu.Lock()
	t.menuStatus = systray.AddMenuItem(statusTitle(control.NewState().Snapshot()), "Current engine state")
	t.menuStatus.Disable()
	systray.AddSeparator()

	t.menuSynth = systray.AddMenuItemCheckbox("Synth page", "Right-hand pinches shape the grain parameters", t.mode == control.Synth)
	t.menuDrum = systray.AddMenuItemCheckbox("Drum page", "Pinches trigger drum samples", t.mode == control.Drum)
	t.mu.Unlock()

	menuReset := systray.AddMenuItem("Reset parameters", "Restore default parameter values")
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit handgrain")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuSynth.ClickedCh:
				t.handlePage(control.Synth)
			case <-t.menuDrum.ClickedCh:
				t.handlePage(control.Drum)
			case <-menuReset.ClickedCh:
				t.handleReset()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handlePage handles a click on one of the page items.
func (t *Tray) handlePage(mode control.Mode) {
	t.mu.Lock()
	t.mode = mode
	t.checkPage()
	callback := t.onPage
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(mode)
	}
}

// checkPage syncs the page checkboxes with t.mode. Callers hold t.mu.
func (t *Tray) checkPage() {
	if t.menuSynth == nil || t.menuDrum == nil {
		return
	}
	if t.mode == control.Synth {
		t.menuSynth.Check()
		t.menuDrum.Uncheck()
	} else {
		t.menuDrum.Check()
		t.menuSynth.Uncheck()
	}
}

// handleReset handles the reset menu item click.
func (t *Tray) handleReset() {
	t.mu.RLock()
	callback := t.onReset
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus refreshes the status line and page checkboxes from snap.
// Pages switched over OSC or HTTP show up here.
func (t *Tray) SetStatus(snap control.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if mode, err := control.ParseMode(snap.Mode); err == nil && mode != t.mode {
		t.mode = mode
		t.checkPage()
	}
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(statusTitle(snap))
	}
}

// Mode returns the page currently checked in the menu.
func (t *Tray) Mode() control.Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

func statusTitle(snap control.Snapshot) string {
	if snap.Frozen {
		return fmt.Sprintf("%s page (frozen)", snap.Mode)
	}
	return fmt.Sprintf("%s page", snap.Mode)
}
