//go:build windows

package platform

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/tftbot/tftbot/internal/game"
)

const (
	focusAttempts = 3
	focusSettle   = 150 * time.Millisecond
)

// Window finds processes by their full image path and windows by exact title.
type Window struct {
	exes   game.Executables
	logger *slog.Logger
}

func NewWindow(exes game.Executables, logger *slog.Logger) *Window {
	return &Window{exes: exes, logger: logger}
}

type process struct {
	pid  uint32
	name string
	path string
}

func listProcesses() ([]process, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err = windows.Process32First(snapshot, &entry); err != nil {
		return nil, err
	}

	var processes []process
	for {
		p := process{pid: entry.ProcessID, name: windows.UTF16ToString(entry.ExeFile[:])}
		if path, err := imagePath(entry.ProcessID); err == nil {
			p.path = path
		}
		processes = append(processes, p)

		if err = windows.Process32Next(snapshot, &entry); err != nil {
			if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
				break
			}
			return nil, err
		}
	}

	return processes, nil
}

func imagePath(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err = windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", err
	}

	return windows.UTF16ToString(buf[:size]), nil
}

// matches compares full paths when the image path could be read, the file
// name otherwise.
func (p process) matches(executablePath string) bool {
	if p.path != "" {
		return strings.EqualFold(filepath.Clean(p.path), filepath.Clean(executablePath))
	}
	return strings.EqualFold(p.name, filepath.Base(executablePath))
}

func (w *Window) IsRunning(executablePath string) bool {
	processes, err := listProcesses()
	if err != nil {
		w.logger.Debug("Could not list processes", slog.Any("error", err))
		return false
	}

	for _, p := range processes {
		if p.matches(executablePath) {
			return true
		}
	}
	return false
}

func findWindow(title string) (win.HWND, error) {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}

	hwnd := win.FindWindow(nil, t)
	if hwnd == 0 {
		return 0, fmt.Errorf("%w: %q", ErrWindowNotFound, title)
	}
	return hwnd, nil
}

func (w *Window) Focus(windowTitle, expectedExecutable string) error {
	hwnd, err := findWindow(windowTitle)
	if err != nil {
		return err
	}

	if expectedExecutable != "" {
		var pid uint32
		win.GetWindowThreadProcessId(hwnd, &pid)
		if path, err := imagePath(pid); err == nil && !strings.EqualFold(filepath.Clean(path), filepath.Clean(expectedExecutable)) {
			return fmt.Errorf("window %q belongs to %s, expected %s", windowTitle, path, expectedExecutable)
		}
	}

	for range focusAttempts {
		win.ShowWindow(hwnd, win.SW_RESTORE)
		win.SetForegroundWindow(hwnd)
		win.BringWindowToTop(hwnd)
		time.Sleep(focusSettle)
		if win.GetForegroundWindow() == hwnd {
			return nil
		}
	}

	return fmt.Errorf("could not bring %q to the foreground", windowTitle)
}

// Restart terminates every instance of executablePath, and of the client UI
// process when restarting the client, then starts it again.
func (w *Window) Restart(executablePath string) error {
	targets := []string{executablePath}
	if strings.EqualFold(executablePath, w.exes.Client) {
		targets = append(targets, w.exes.ClientUx)
	}

	processes, err := listProcesses()
	if err != nil {
		return fmt.Errorf("error listing processes: %w", err)
	}

	for _, p := range processes {
		for _, target := range targets {
			if !p.matches(target) {
				continue
			}
			if err := terminate(p.pid); err != nil {
				w.logger.Warn("Could not terminate process", slog.String("process", p.name), slog.Any("error", err))
			} else {
				w.logger.Debug("Terminated process", slog.String("process", p.name), slog.Int("pid", int(p.pid)))
			}
		}
	}

	cmd := exec.Command(executablePath)
	cmd.Dir = filepath.Dir(executablePath)
	if err = cmd.Start(); err != nil {
		return fmt.Errorf("error starting %s: %w", executablePath, err)
	}
	w.logger.Info("Started process", slog.String("path", executablePath))

	return cmd.Process.Release()
}

func terminate(pid uint32) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, pid)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	return windows.TerminateProcess(h, 1)
}

// WindowRect is the client area of the window in screen coordinates.
func (w *Window) WindowRect(windowTitle string) (image.Rectangle, error) {
	hwnd, err := findWindow(windowTitle)
	if err != nil {
		return image.Rectangle{}, err
	}

	var rc win.RECT
	if !win.GetClientRect(hwnd, &rc) {
		return image.Rectangle{}, fmt.Errorf("could not read client area of %q", windowTitle)
	}
	origin := win.POINT{}
	win.ClientToScreen(hwnd, &origin)

	return image.Rect(
		int(origin.X),
		int(origin.Y),
		int(origin.X+rc.Right-rc.Left),
		int(origin.Y+rc.Bottom-rc.Top),
	), nil
}
