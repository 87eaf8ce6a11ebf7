//go:build windows

package winproc

import "golang.org/x/sys/windows"

var (
	USER32             = windows.NewLazySystemDLL("user32.dll")
	PrintWindow        = USER32.NewProc("PrintWindow")
	GetDC              = USER32.NewProc("GetDC")
	ReleaseDC          = USER32.NewProc("ReleaseDC")
	IsIconic           = USER32.NewProc("IsIconic")
	SetProcessDpiAware = USER32.NewProc("SetProcessDPIAware")
	RegisterHotKey     = USER32.NewProc("RegisterHotKey")
	UnregisterHotKey   = USER32.NewProc("UnregisterHotKey")
	PostThreadMessage  = USER32.NewProc("PostThreadMessageW")
)

const (
	// PrintWindow flags: client area only, including DirectX content.
	PW_CLIENTONLY        = 0x1
	PW_RENDERFULLCONTENT = 0x2

	MOD_ALT      = 0x1
	MOD_NOREPEAT = 0x4000
	WM_HOTKEY    = 0x0312
	WM_QUIT      = 0x0012
)
