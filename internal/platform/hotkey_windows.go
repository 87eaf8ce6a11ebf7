//go:build windows

package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/tftbot/tftbot/internal/utils/winproc"
)

const pauseHotkeyID = 1

// WatchHotkey calls toggle every time the pause chord is pressed, until ctx
// is done. Hotkey messages are delivered to the registering thread, so the
// whole loop stays on one OS thread.
func WatchHotkey(ctx context.Context, toggle func()) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// Force creation of the thread message queue before anyone posts to it.
	var msg win.MSG
	win.PeekMessage(&msg, 0, 0, 0, win.PM_NOREMOVE)

	if ok, _, err := winproc.RegisterHotKey.Call(0, pauseHotkeyID, winproc.MOD_ALT|winproc.MOD_NOREPEAT, 'P'); ok == 0 {
		return fmt.Errorf("error registering %s hotkey: %w", HotkeyChord, err)
	}
	defer winproc.UnregisterHotKey.Call(0, pauseHotkeyID)

	threadID := windows.GetCurrentThreadId()
	stop := context.AfterFunc(ctx, func() {
		winproc.PostThreadMessage.Call(uintptr(threadID), winproc.WM_QUIT, 0, 0)
	})
	defer stop()

	for {
		switch win.GetMessage(&msg, 0, 0, 0) {
		case 0:
			return nil
		case -1:
			return fmt.Errorf("error reading hotkey messages")
		}

		if msg.Message == winproc.WM_HOTKEY && msg.WParam == pauseHotkeyID {
			toggle()
		}
	}
}
