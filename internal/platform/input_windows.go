//go:build windows

package platform

import (
	"errors"
	"time"
	"unsafe"

	"github.com/lxn/win"

	"github.com/tftbot/tftbot/internal/game"
)

const moveStep = 10 * time.Millisecond

var errInputBlocked = errors.New("input was blocked by another thread")

// Input moves the real cursor and injects clicks and key taps.
type Input struct{}

func NewInput() *Input {
	return &Input{}
}

func (in *Input) MoveAndClick(x, y int, btn game.MouseButton, moveDuration, downUpDelay time.Duration) error {
	moveCursor(x, y, moveDuration)

	var down, up uint32 = win.MOUSEEVENTF_LEFTDOWN, win.MOUSEEVENTF_LEFTUP
	if btn == game.RightButton {
		down, up = win.MOUSEEVENTF_RIGHTDOWN, win.MOUSEEVENTF_RIGHTUP
	}

	if err := sendMouse(down); err != nil {
		return err
	}
	time.Sleep(downUpDelay)

	return sendMouse(up)
}

// moveCursor eases the cursor from its position to (x, y) over d.
func moveCursor(x, y int, d time.Duration) {
	var start win.POINT
	win.GetCursorPos(&start)

	steps := max(int(d/moveStep), 1)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		ease := t * t * (3 - 2*t)
		cx := float64(start.X) + (float64(x)-float64(start.X))*ease
		cy := float64(start.Y) + (float64(y)-float64(start.Y))*ease
		win.SetCursorPos(int32(cx), int32(cy))
		time.Sleep(d / time.Duration(steps))
	}
}

func sendMouse(flags uint32) error {
	input := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi:   win.MOUSEINPUT{DwFlags: flags},
	}
	if win.SendInput(1, unsafe.Pointer(&input), int32(unsafe.Sizeof(input))) != 1 {
		return errInputBlocked
	}
	return nil
}

// keyboardInput is INPUT with the keyboard member, padded to the size of the
// union.
type keyboardInput struct {
	Type uint32
	Ki   win.KEYBDINPUT
	_    [8]byte
}

func (in *Input) KeyTap(key game.Key, downUpDelay time.Duration) error {
	if err := sendKey(uint16(key), 0); err != nil {
		return err
	}
	time.Sleep(downUpDelay)

	return sendKey(uint16(key), win.KEYEVENTF_KEYUP)
}

func sendKey(vk uint16, flags uint32) error {
	input := keyboardInput{
		Type: win.INPUT_KEYBOARD,
		Ki:   win.KEYBDINPUT{WVk: vk, DwFlags: flags},
	}
	if win.SendInput(1, unsafe.Pointer(&input), int32(unsafe.Sizeof(input))) != 1 {
		return errInputBlocked
	}
	return nil
}
