//go:build windows

package utils

import (
	"syscall"

	"golang.org/x/sys/windows"
)

const idOK = 1

func ShowDialog(title, message string) {
	t, _ := syscall.UTF16PtrFromString(title)
	txt, _ := syscall.UTF16PtrFromString(message)

	windows.MessageBox(0, txt, t, windows.MB_OK|windows.MB_ICONINFORMATION)
}

// Confirm shows an OK/Cancel message box and reports whether OK was chosen.
func Confirm(title, message string) bool {
	t, _ := syscall.UTF16PtrFromString(title)
	txt, _ := syscall.UTF16PtrFromString(message)

	ret, err := windows.MessageBox(0, txt, t, windows.MB_OKCANCEL|windows.MB_ICONQUESTION|windows.MB_TOPMOST)
	if err != nil {
		return false
	}
	return ret == idOK
}
