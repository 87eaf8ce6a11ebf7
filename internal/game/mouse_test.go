package game

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedClick struct {
	x, y     int
	btn      MouseButton
	duration time.Duration
}

type recordingActuator struct {
	clicks []recordedClick
	keys   []Key
}

func (a *recordingActuator) MoveAndClick(x, y int, btn MouseButton, moveDuration, _ time.Duration) error {
	a.clicks = append(a.clicks, recordedClick{x: x, y: y, btn: btn, duration: moveDuration})
	return nil
}

func (a *recordingActuator) KeyTap(key Key, _ time.Duration) error {
	a.keys = append(a.keys, key)
	return nil
}

type fixedLocator map[string]image.Rectangle

func (l fixedLocator) WindowRect(title string) (image.Rectangle, error) {
	r, ok := l[title]
	if !ok {
		return image.Rectangle{}, errors.New("no window")
	}
	return r, nil
}

func TestClickMatchStaysInsideTemplateCore(t *testing.T) {
	act := &recordingActuator{}
	hid := NewHID(act, nil)

	m := MatchResult{X: 100, Y: 200, Width: 40, Height: 20}
	for i := 0; i < 200; i++ {
		require.NoError(t, hid.ClickMatch(SurfaceClient, m, LeftButton))
	}

	for _, c := range act.clicks {
		assert.GreaterOrEqual(t, c.x, 110)
		assert.LessOrEqual(t, c.x, 130)
		assert.GreaterOrEqual(t, c.y, 205)
		assert.LessOrEqual(t, c.y, 215)
		assert.GreaterOrEqual(t, c.duration, hid.MoveDurationMin)
		assert.Less(t, c.duration, hid.MoveDurationMax)
	}
}

func TestClickIsRelativeToSurfaceWindow(t *testing.T) {
	act := &recordingActuator{}
	hid := NewHID(act, fixedLocator{
		GameWindowTitle:   image.Rect(10, 20, 1930, 1100),
		ClientWindowTitle: image.Rect(300, 400, 1580, 1120),
	})

	require.NoError(t, hid.Click(SurfaceGame, RightButton, 946, 315))
	require.NoError(t, hid.Click(SurfaceClient, LeftButton, 5, 5))

	require.Len(t, act.clicks, 2)
	assert.Equal(t, 956, act.clicks[0].x)
	assert.Equal(t, 335, act.clicks[0].y)
	assert.Equal(t, RightButton, act.clicks[0].btn)
	assert.Equal(t, 305, act.clicks[1].x)
	assert.Equal(t, 405, act.clicks[1].y)
}

func TestClickFailsWithoutWindow(t *testing.T) {
	act := &recordingActuator{}
	hid := NewHID(act, fixedLocator{})

	assert.Error(t, hid.Click(SurfaceGame, LeftButton, 1, 1))
	assert.Empty(t, act.clicks)
}
