// Package imaging normalizes photos before they are stored: the format is
// sniffed from the bytes, large images are downscaled and everything is
// re-encoded as JPEG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension bounds the width and height of a stored photo.
const MaxDimension = 1600

const jpegQuality = 80

// MIME is the type of every processed photo.
const MIME = "image/jpeg"

// ErrUnsupported marks input that is not a JPEG, PNG or GIF image.
var ErrUnsupported = errors.New("unsupported image format")

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

type Photo struct {
	Data   []byte
	Width  int
	Height int
}

// Process reads an image from r and returns it ready for storage.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	if detected := http.DetectContentType(data); !accepted[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	b := img.Bounds()
	return &Photo{Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// fit scales img down, keeping its aspect ratio, until neither side exceeds
// maxDim. Smaller images are returned unchanged.
func fit(img image.Image, maxDim int) image.Image {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return dst
}
