package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"github.com/tftbot/tftbot/internal/game"
)

var ErrNoDigits = errors.New("no digits recognized")

const (
	ocrScale   = 3
	ocrTimeout = 5 * time.Second
)

// CommandRunner runs name with args, feeding stdin, and returns stdout.
type CommandRunner func(ctx context.Context, name string, stdin []byte, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Tesseract is a DigitReader backed by the tesseract command line.
type Tesseract struct {
	path    string
	capture game.Screenshotter
	run     CommandRunner
}

func NewTesseract(path string, capture game.Screenshotter) *Tesseract {
	return &Tesseract{path: path, capture: capture, run: execRunner}
}

func (t *Tesseract) ReadNumber(surface game.Surface, region game.Region) (int, error) {
	img, err := t.capture.Screenshot(surface)
	if err != nil {
		return 0, fmt.Errorf("error capturing %s: %w", surface, err)
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, prepareDigits(img, region.Rect())); err != nil {
		return 0, fmt.Errorf("error encoding digits: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ocrTimeout)
	defer cancel()

	out, err := t.run(ctx, t.path, buf.Bytes(),
		"stdin", "stdout",
		"--oem", "3",
		"--psm", "7",
		"-c", "tessedit_char_whitelist=0123456789",
	)
	if err != nil {
		return 0, err
	}

	return parseNumber(out)
}

// prepareDigits crops the region, inverts it to dark text on light and
// upscales it, which tesseract reads more reliably.
func prepareDigits(img image.Image, region image.Rectangle) *image.Gray {
	region = region.Add(img.Bounds().Min).Intersect(img.Bounds())
	crop := image.NewGray(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(crop, crop.Bounds(), img, region.Min, draw.Src)

	for i, v := range crop.Pix {
		crop.Pix[i] = 255 - v
	}

	scaled := image.NewGray(image.Rect(0, 0, region.Dx()*ocrScale, region.Dy()*ocrScale))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), crop, crop.Bounds(), draw.Src, nil)

	return scaled
}

func parseNumber(out []byte) (int, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, string(out))

	if digits == "" {
		return 0, ErrNoDigits
	}

	return strconv.Atoi(digits)
}
