package engine

import (
	"fmt"
	"image"
	"io"
	"unsafe"

	"github.com/HugoSmits86/nativewebp"
)

// RequestCapture makes the next Draw encode its frame as WebP into w, just
// before presenting it.
func (g *Graphics) RequestCapture(w io.Writer) {
	g.capture = w
	g.captureErr = nil
}

// CaptureErr returns the result of the last capture.
func (g *Graphics) CaptureErr() error {
	return g.captureErr
}

func (g *Graphics) captureFrame(width, height int) {
	w := g.capture
	g.capture = nil

	img, err := ReadFrame(g.dev, width, height)
	if err == nil {
		err = nativewebp.Encode(w, img, nil)
	}
	if err != nil {
		g.captureErr = fmt.Errorf("capture: %w", err)
		g.log.Warn("frame capture failed", "error", err)
		return
	}
	g.log.Info("frame captured", "width", width, "height", height)
}

// ReadFrame reads the bound framebuffer into an opaque image, top row first.
func ReadFrame(dev Device, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("empty framebuffer %dx%d", width, height)
	}

	raw := image.NewNRGBA(image.Rect(0, 0, width, height))
	dev.PixelStorei(PACK_ALIGNMENT, 4)
	dev.ReadPixels(0, 0, int32(width), int32(height), RGBA, UNSIGNED_BYTE, unsafe.Pointer(&raw.Pix[0]))

	// gl rows start at the bottom
	flipped := image.NewNRGBA(raw.Rect)
	for y := 0; y < height; y++ {
		src := raw.Pix[y*raw.Stride : (y+1)*raw.Stride]
		dst := flipped.Pix[(height-1-y)*flipped.Stride : (height-y)*flipped.Stride]
		copy(dst, src)
	}
	for i := 3; i < len(flipped.Pix); i += 4 {
		flipped.Pix[i] = 0xff
	}
	return flipped, nil
}
