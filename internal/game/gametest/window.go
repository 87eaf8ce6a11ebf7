package gametest

import (
	"image"
	"slices"
	"sync"
)

// Window is a fake process and window manager.
type Window struct {
	mu        sync.Mutex
	running   map[string]bool
	restarts  []string
	focused   []string
	rect      image.Rectangle
	onRestart func(exe string)
}

func NewWindow(running ...string) *Window {
	w := &Window{
		running: make(map[string]bool),
		rect:    image.Rect(0, 0, 1920, 1080),
	}
	for _, exe := range running {
		w.running[exe] = true
	}
	return w
}

func (w *Window) SetRunning(exe string, running bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running[exe] = running
}

func (w *Window) OnRestart(fn func(exe string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onRestart = fn
}

func (w *Window) SetRect(r image.Rectangle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rect = r
}

func (w *Window) IsRunning(executablePath string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running[executablePath]
}

func (w *Window) Focus(windowTitle, _ string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.focused = append(w.focused, windowTitle)
	return nil
}

func (w *Window) Restart(executablePath string) error {
	w.mu.Lock()
	w.restarts = append(w.restarts, executablePath)
	w.running[executablePath] = true
	fn := w.onRestart
	w.mu.Unlock()

	if fn != nil {
		fn(executablePath)
	}
	return nil
}

func (w *Window) WindowRect(_ string) (image.Rectangle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rect, nil
}

func (w *Window) Restarts() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.restarts)
}

func (w *Window) Focused() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.focused)
}
