package quality

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrSizeMismatch = errors.New("images differ in size")
)

// Report summarizes the distortion between a cover and a stego image over
// the R, G and B channels, 8 bits each.
type Report struct {
	MSE  float64
	PSNR float64
	// MaxDelta is the largest absolute change of a single channel.
	MaxDelta float64
	// Changed is the number of channels that differ.
	Changed int
}

// Compare measures how far b is from a. PSNR is +Inf for identical images.
func Compare(a, b image.Image) (Report, error) {
	if a == nil || b == nil {
		return Report{}, errors.New("image is nil")
	}
	if a.Bounds().Size() != b.Bounds().Size() {
		return Report{}, fmt.Errorf("%w: %v != %v", ErrSizeMismatch, a.Bounds().Size(), b.Bounds().Size())
	}
	x, err := channels(a)
	if err != nil {
		return Report{}, err
	}
	y, err := channels(b)
	if err != nil {
		return Report{}, err
	}
	var r Report
	if len(x) == 0 {
		r.PSNR = math.Inf(1)
		return r, nil
	}

	diff := floats.SubTo(make([]float64, len(x)), x, y)
	sq := make([]float64, len(diff))
	floats.MulTo(sq, diff, diff)
	r.MSE = stat.Mean(sq, nil)
	r.MaxDelta = floats.Norm(diff, math.Inf(1))
	for _, d := range diff {
		if d != 0 {
			r.Changed++
		}
	}
	r.PSNR = PSNR(r.MSE)
	return r, nil
}

// PSNR converts a mean squared error over 8-bit channels to decibels.
func PSNR(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255/mse)
}

func channels(img image.Image) ([]float64, error) {
	b := img.Bounds()
	out := make([]float64, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out = append(out, float64(c.R), float64(c.G), float64(c.B))
		}
	}
	return out, nil
}
