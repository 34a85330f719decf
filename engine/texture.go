package engine

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var ErrNoTexture = errors.New("texture not loaded")

// TextureImage is a tightly packed RGB raster, rows in file order
// (no vertical flip).
type TextureImage struct {
	Pix    []byte
	Width  int
	Height int
}

// LoadTextureImage decodes an image file into RGB. Images larger than
// maxSize on either axis are scaled down, maxSize <= 0 disables scaling.
func LoadTextureImage(path string, maxSize int) (*TextureImage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	defer file.Close()

	var im image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		im, err = tga.Decode(file)
	} else {
		im, err = decodeImage(file)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: decode %v: %w", path, err)
	}

	img, err := newTextureImage(im, maxSize)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %v: %w", path, err)
	}
	return img, nil
}

// DecodeTextureImage is LoadTextureImage for an in-memory stream. The
// format is sniffed from the leading bytes, anything unrecognized is
// read as TGA.
func DecodeTextureImage(r io.Reader, maxSize int) (*TextureImage, error) {
	im, err := decodeImage(r)
	if err != nil {
		return nil, err
	}
	return newTextureImage(im, maxSize)
}

// tga registers itself with an empty magic string and would claim every
// stream passed to image.Decode, so formats are matched here instead of
// through the image registry.
var formats = []struct {
	name   string
	magic  string
	decode func(io.Reader) (image.Image, error)
}{
	{"png", "\x89PNG\r\n\x1a\n", png.Decode},
	{"jpeg", "\xff\xd8", jpeg.Decode},
	{"bmp", "BM????\x00\x00\x00\x00", bmp.Decode},
	{"webp", "RIFF????WEBPVP8", webp.Decode},
}

// match reports whether magic matches b. '?' matches any byte.
func match(magic string, b []byte) bool {
	if len(magic) != len(b) {
		return false
	}
	for i, c := range b {
		if magic[i] != c && magic[i] != '?' {
			return false
		}
	}
	return true
}

func decodeImage(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	for _, f := range formats {
		b, err := br.Peek(len(f.magic))
		if err == nil && match(f.magic, b) {
			im, err := f.decode(br)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", f.name, err)
			}
			return im, nil
		}
	}

	// targa has no signature
	im, err := tga.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", image.ErrFormat, err)
	}
	return im, nil
}

func newTextureImage(im image.Image, maxSize int) (*TextureImage, error) {
	bounds := im.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("empty image %v", bounds)
	}

	// convert to rgba, scaling down oversized images
	dst := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	if maxSize > 0 && (dst.Dx() > maxSize || dst.Dy() > maxSize) {
		dst = fitRect(dst.Dx(), dst.Dy(), maxSize)
	}

	rgba := image.NewRGBA(dst)
	if dst.Dx() == bounds.Dx() && dst.Dy() == bounds.Dy() {
		draw.Draw(rgba, dst, im, bounds.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(rgba, dst, im, bounds, draw.Src, nil)
	}

	// strip alpha
	t := &TextureImage{
		Pix:    make([]byte, dst.Dx()*dst.Dy()*3),
		Width:  dst.Dx(),
		Height: dst.Dy(),
	}
	for y := 0; y < t.Height; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+t.Width*4]
		row := t.Pix[y*t.Width*3 : (y+1)*t.Width*3]
		for x := 0; x < t.Width; x++ {
			row[x*3] = src[x*4]
			row[x*3+1] = src[x*4+1]
			row[x*3+2] = src[x*4+2]
		}
	}
	return t, nil
}

func fitRect(w, h, max int) image.Rectangle {
	if w >= h {
		nh := h * max / w
		if nh < 1 {
			nh = 1
		}
		return image.Rect(0, 0, max, nh)
	}
	nw := w * max / h
	if nw < 1 {
		nw = 1
	}
	return image.Rect(0, 0, nw, max)
}

type Texture struct {
	dev     Device
	texture uint32
	w, h    int
}

// NewTexture uploads img with repeat wrapping, trilinear minification and
// a generated mip chain.
func NewTexture(dev Device, img *TextureImage) (*Texture, error) {
	if img == nil || len(img.Pix) < img.Width*img.Height*3 || len(img.Pix) == 0 {
		return nil, fmt.Errorf("texture: bad image data")
	}

	t := &Texture{
		dev:     dev,
		texture: dev.GenTexture(),
		w:       img.Width,
		h:       img.Height,
	}
	dev.BindTexture(TEXTURE_2D, t.texture)

	// set texture parameters
	dev.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_S, REPEAT)
	dev.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_T, REPEAT)
	dev.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, LINEAR_MIPMAP_LINEAR)
	dev.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, LINEAR)

	// rgb rows are not 4 byte aligned
	dev.PixelStorei(UNPACK_ALIGNMENT, 1)
	dev.TexImage2D(TEXTURE_2D, 0, RGB,
		int32(img.Width), int32(img.Height),
		RGB, UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	// generate mipmaps
	dev.GenerateMipmap(TEXTURE_2D)

	dev.BindTexture(TEXTURE_2D, 0)
	return t, nil
}

func (t *Texture) Size() (w, h int) {
	return t.w, t.h
}

func (t *Texture) Handle() uint32 {
	return t.texture
}

func (t *Texture) Bind(unit uint32) {
	t.dev.ActiveTexture(TEXTURE0 + unit)
	t.dev.BindTexture(TEXTURE_2D, t.texture)
}

func (t *Texture) Dispose() {
	if t.texture != 0 {
		t.dev.DeleteTexture(t.texture)
		t.texture = 0
	}
}
