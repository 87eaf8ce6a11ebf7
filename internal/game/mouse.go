package game

import (
	"fmt"
	"image"
	"math/rand/v2"
	"time"
)

type MouseButton uint
type Key byte

const (
	LeftButton MouseButton = iota
	RightButton
)

const (
	KeyEscape Key = 0x1B
	KeySpace  Key = 0x20
	KeyD      Key = 0x44
	KeyF      Key = 0x46
)

const (
	defaultMoveDurationMin = 100 * time.Millisecond
	defaultMoveDurationMax = time.Second
	defaultDownUpDelay     = 200 * time.Millisecond
)

// Actuator synthesizes input at absolute screen coordinates. It adds no jitter
// of its own.
type Actuator interface {
	MoveAndClick(x, y int, btn MouseButton, moveDuration, downUpDelay time.Duration) error
	KeyTap(key Key, downUpDelay time.Duration) error
}

// WindowLocator resolves the on-screen rectangle of a surface.
type WindowLocator interface {
	WindowRect(windowTitle string) (image.Rectangle, error)
}

// HID turns surface-relative targets into jittered actuator calls.
type HID struct {
	act             Actuator
	locator         WindowLocator
	MoveDurationMin time.Duration
	MoveDurationMax time.Duration
	DownUpDelay     time.Duration
}

func NewHID(act Actuator, locator WindowLocator) *HID {
	return &HID{
		act:             act,
		locator:         locator,
		MoveDurationMin: defaultMoveDurationMin,
		MoveDurationMax: defaultMoveDurationMax,
		DownUpDelay:     defaultDownUpDelay,
	}
}

// ClickMatch clicks a random point in the middle half of a located template.
func (hid *HID) ClickMatch(surface Surface, m MatchResult, btn MouseButton) error {
	x, y := m.Center()
	x += jitter(m.Width / 4)
	y += jitter(m.Height / 4)

	return hid.Click(surface, btn, x, y)
}

// Click moves to (x, y), relative to the surface's top-left corner, and clicks.
func (hid *HID) Click(surface Surface, btn MouseButton, x, y int) error {
	absX, absY, err := hid.absolute(surface, x, y)
	if err != nil {
		return err
	}

	return hid.act.MoveAndClick(absX, absY, btn, hid.moveDuration(), hid.DownUpDelay)
}

func (hid *HID) PressKey(key Key) error {
	return hid.act.KeyTap(key, hid.DownUpDelay/2)
}

func (hid *HID) absolute(surface Surface, x, y int) (int, int, error) {
	if hid.locator == nil {
		return x, y, nil
	}

	title := ClientWindowTitle
	if surface == SurfaceGame {
		title = GameWindowTitle
	}
	rect, err := hid.locator.WindowRect(title)
	if err != nil {
		return 0, 0, fmt.Errorf("locating %s window: %w", surface, err)
	}

	return rect.Min.X + x, rect.Min.Y + y, nil
}

func (hid *HID) moveDuration() time.Duration {
	if hid.MoveDurationMax <= hid.MoveDurationMin {
		return hid.MoveDurationMin
	}
	return hid.MoveDurationMin + rand.N(hid.MoveDurationMax-hid.MoveDurationMin)
}

func jitter(spread int) int {
	if spread <= 0 {
		return 0
	}
	return rand.IntN(2*spread+1) - spread
}
