package steg

import (
	"image"

	"github.com/yyyoichi/steg_lcg/internal/lsb"
	"golang.org/x/image/draw"
)

// Image is the pixel grid a message is hidden in. Coordinates are relative
// to the top-left corner, x in [0, Width()) and y in [0, Height()).
type Image = lsb.Image

var _ Image = (*RGB)(nil)

// RGB adapts an *image.NRGBA to Image. Alpha is carried along untouched.
type RGB struct {
	img *image.NRGBA
}

// NewRGB copies src into a new NRGBA buffer.
func NewRGB(src image.Image) *RGB {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &RGB{img: dst}
}

// WrapRGB uses img in place; Embed then mutates img directly.
// Embed and Extract reject a wrapped nil image with ErrNilImage.
func WrapRGB(img *image.NRGBA) *RGB {
	return &RGB{img: img}
}

// asRGB reads src without copying when it is already NRGBA.
func asRGB(src image.Image) *RGB {
	if img, ok := src.(*image.NRGBA); ok {
		return WrapRGB(img)
	}
	return NewRGB(src)
}

// Width returns the number of columns.
func (m *RGB) Width() int {
	return m.img.Rect.Dx()
}

// Height returns the number of rows.
func (m *RGB) Height() int {
	return m.img.Rect.Dy()
}

// RGB returns the color channels at (x, y) relative to the image origin.
func (m *RGB) RGB(x, y int) (r, g, b uint8) {
	i := m.img.PixOffset(m.img.Rect.Min.X+x, m.img.Rect.Min.Y+y)
	s := m.img.Pix[i : i+3 : i+3]
	return s[0], s[1], s[2]
}

// SetRGB overwrites the color channels at (x, y) and keeps alpha.
func (m *RGB) SetRGB(x, y int, r, g, b uint8) {
	i := m.img.PixOffset(m.img.Rect.Min.X+x, m.img.Rect.Min.Y+y)
	s := m.img.Pix[i : i+3 : i+3]
	s[0], s[1], s[2] = r, g, b
}

// Image returns the underlying buffer.
func (m *RGB) Image() *image.NRGBA {
	return m.img
}
