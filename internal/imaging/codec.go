package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"

	_ "golang.org/x/image/bmp"
)

// DecodeError reports an upload that could not be decoded into a pixel
// buffer. The reason is safe to surface to clients verbatim.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode image: " + e.Reason
}

// Decode parses PNG, JPEG or BMP bytes into a 3-channel RGB buffer.
// Grayscale sources are promoted to RGB so every downstream stage sees a
// single channel layout. Corrupt or unsupported data yields a *DecodeError
// and no buffer.
func Decode(data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Reason: "empty image data"}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("unsupported or corrupt image: %v", err)}
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, &DecodeError{Reason: "image has zero dimensions"}
	}

	return FromImage(img), nil
}

// FromImage converts any image.Image into the normalized RGB buffer.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	buf := NewBuffer(bounds.Dx(), bounds.Dy(), 3)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			buf.Pix[i] = float32(r) / 65535.0
			buf.Pix[i+1] = float32(g) / 65535.0
			buf.Pix[i+2] = float32(b) / 65535.0
			i += 3
		}
	}
	return buf
}

// ToNRGBA quantizes the buffer back to 8-bit with an opaque alpha channel.
func ToNRGBA(buf *Buffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			off := y*img.Stride + x*4
			img.Pix[off] = quantize(buf.At(x, y, 0))
			img.Pix[off+1] = quantize(buf.At(x, y, 1))
			img.Pix[off+2] = quantize(buf.At(x, y, 2))
			img.Pix[off+3] = 0xff
		}
	}
	return img
}

// EncodePNG serializes the buffer as a PNG. Encoding is deterministic: the
// same buffer always produces the same bytes.
func EncodePNG(buf *Buffer) ([]byte, error) {
	var out bytes.Buffer
	if err := png.Encode(&out, ToNRGBA(buf)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}

func quantize(v float32) uint8 {
	return uint8(math.Round(float64(Clamp01(v)) * 255))
}
