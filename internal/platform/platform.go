// Package platform implements the input, window, capture and hotkey ports on
// top of the Windows API. Other systems get stubs that report
// errors.ErrUnsupported so the rest of the bot still builds and tests.
package platform

import "errors"

var ErrWindowNotFound = errors.New("window not found")

// HotkeyChord toggles pause from any focused window.
const HotkeyChord = "alt+p"
