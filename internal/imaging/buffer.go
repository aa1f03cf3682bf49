package imaging

// Buffer is the in-memory pixel representation shared by the codec, the
// filter bank and the model runtime. Samples are float32 in [0,1], stored
// interleaved in row-major order with Channels samples per pixel.
//
// Dimensions and channel count are fixed at decode time; every processing
// step returns a buffer of identical shape. A Buffer belongs to a single
// request and is never shared across concurrent requests.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []float32
}

func NewBuffer(width, height, channels int) *Buffer {
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float32, width*height*channels),
	}
}

func (b *Buffer) At(x, y, c int) float32 {
	return b.Pix[(y*b.Width+x)*b.Channels+c]
}

func (b *Buffer) Set(x, y, c int, v float32) {
	b.Pix[(y*b.Width+x)*b.Channels+c] = v
}

func (b *Buffer) Clone() *Buffer {
	out := NewBuffer(b.Width, b.Height, b.Channels)
	copy(out.Pix, b.Pix)
	return out
}

// SameShape reports whether two buffers have identical dimensions and
// channel count.
func (b *Buffer) SameShape(o *Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height && b.Channels == o.Channels
}

// Plane copies out a single channel as a contiguous height*width slice.
func (b *Buffer) Plane(c int) []float32 {
	plane := make([]float32, b.Width*b.Height)
	for i := range plane {
		plane[i] = b.Pix[i*b.Channels+c]
	}
	return plane
}

// SetPlane writes a height*width slice back into one channel.
func (b *Buffer) SetPlane(c int, plane []float32) {
	for i, v := range plane {
		b.Pix[i*b.Channels+c] = v
	}
}

func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
