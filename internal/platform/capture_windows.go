//go:build windows

package platform

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/lxn/win"

	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/utils/winproc"
)

var errMinimized = errors.New("window is minimized")

type bmpInfoHeader struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

type bitmapInfo struct{ Header bmpInfoHeader }

// Capture grabs the client area of the client or game window, even when it
// is covered by another window.
type Capture struct{}

func NewCapture() *Capture {
	// Coordinates and captures must be in physical pixels.
	winproc.SetProcessDpiAware.Call()
	return &Capture{}
}

func surfaceTitle(surface game.Surface) string {
	if surface == game.SurfaceGame {
		return game.GameWindowTitle
	}
	return game.ClientWindowTitle
}

func (c *Capture) Screenshot(surface game.Surface) (image.Image, error) {
	hwnd, err := findWindow(surfaceTitle(surface))
	if err != nil {
		return nil, err
	}

	if iconic, _, _ := winproc.IsIconic.Call(uintptr(hwnd)); iconic != 0 {
		return nil, errMinimized
	}

	var rc win.RECT
	win.GetClientRect(hwnd, &rc)
	width, height := int(rc.Right-rc.Left), int(rc.Bottom-rc.Top)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("empty client area for %s", surface)
	}

	hdcScreen, _, _ := winproc.GetDC.Call(0)
	if hdcScreen == 0 {
		return nil, errors.New("could not get screen device context")
	}
	defer winproc.ReleaseDC.Call(0, hdcScreen)

	hdcMem, _, _ := winproc.CreateCompatibleDC.Call(hdcScreen)
	if hdcMem == 0 {
		return nil, errors.New("could not create memory device context")
	}
	defer winproc.DeleteDC.Call(hdcMem)

	// Top-down 32 bpp
	bi := bitmapInfo{Header: bmpInfoHeader{
		BiSize:     uint32(unsafe.Sizeof(bmpInfoHeader{})),
		BiWidth:    int32(width),
		BiHeight:   -int32(height),
		BiPlanes:   1,
		BiBitCount: 32,
	}}
	var bitsPtr uintptr
	hbm, _, _ := winproc.CreateDIBSection.Call(hdcScreen, uintptr(unsafe.Pointer(&bi)), 0, uintptr(unsafe.Pointer(&bitsPtr)), 0, 0)
	if hbm == 0 || bitsPtr == 0 {
		return nil, errors.New("could not create DIB section")
	}
	defer winproc.DeleteObject.Call(hbm)
	winproc.SelectObject.Call(hdcMem, hbm)

	if ok, _, _ := winproc.PrintWindow.Call(uintptr(hwnd), hdcMem, winproc.PW_CLIENTONLY|winproc.PW_RENDERFULLCONTENT); ok == 0 {
		return nil, fmt.Errorf("could not print %s window", surface)
	}
	winproc.GdiFlush.Call()

	src := unsafe.Slice((*byte)(unsafe.Pointer(bitsPtr)), width*height*4)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, src)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		img.Pix[i+3] = 255
	}

	return img, nil
}
