package lsb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yyyoichi/steg_lcg/frame"
	"github.com/yyyoichi/steg_lcg/internal/sequence"
)

var (
	ErrExhausted = errors.New("pixel sequence exhausted before all bits were written")
)

// Image is an RGB grid whose channels are read and written 8 bits at a time.
type Image interface {
	Width() int
	Height() int
	RGB(x, y int) (r, g, b uint8)
	SetRGB(x, y int, r, g, b uint8)
}

// BitSource is a framed message ready to be written.
type BitSource interface {
	Len() int
	At(i int) bool
}

// Capacity returns the number of bits img can hold, one per channel.
func Capacity(img Image) int {
	return img.Width() * img.Height() * 3
}

// Embed writes bits into the least significant bit of R, G then B of each
// pixel in seq order, stopping after the last bit. Pixels after that point
// are left untouched. It returns the number of pixels modified.
//
// ErrExhausted is returned when seq ends first; the image then holds a
// partial message, so callers check capacity beforehand.
func Embed(ctx context.Context, img Image, bits BitSource, seq sequence.Sequence, log *slog.Logger) (int, error) {
	var (
		total  = bits.Len()
		at     = 0
		pixels = 0
		debug  = log.Enabled(ctx, slog.LevelDebug)
	)
	for at < total {
		p, ok := seq.Next()
		if !ok {
			return pixels, fmt.Errorf("%w: wrote %d of %d bits", ErrExhausted, at, total)
		}
		r0, g0, b0 := img.RGB(p.X, p.Y)
		ch := [3]uint8{r0, g0, b0}
		for i := 0; i < 3 && at < total; i++ {
			ch[i] = ch[i]&^1 | bitValue(bits.At(at))
			at++
		}
		img.SetRGB(p.X, p.Y, ch[0], ch[1], ch[2])
		pixels++
		if debug {
			log.DebugContext(ctx, "modified pixel",
				slog.Int("x", p.X), slog.Int("y", p.Y),
				slog.Any("before", [3]uint8{r0, g0, b0}),
				slog.Any("after", ch),
			)
		}
	}
	return pixels, nil
}

// Extract reads the least significant bits of R, G and B in seq order until
// a framed message terminates. ok is false when seq runs out first.
// The context is checked between pixels.
func Extract(ctx context.Context, img Image, seq sequence.Sequence, log *slog.Logger) (msg []byte, ok bool, err error) {
	var (
		dec   = frame.NewDecoder()
		debug = log.Enabled(ctx, slog.LevelDebug)
	)
	for n := 0; ; n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}
		}
		p, next := seq.Next()
		if !next {
			return nil, false, nil
		}
		r, g, b := img.RGB(p.X, p.Y)
		if debug {
			log.DebugContext(ctx, "read pixel",
				slog.Int("x", p.X), slog.Int("y", p.Y),
				slog.Any("bits", [3]uint8{r & 1, g & 1, b & 1}),
			)
		}
		for _, v := range [3]uint8{r, g, b} {
			if dec.WriteBit(v&1 == 1) {
				msg, ok = dec.Bytes()
				return msg, ok, nil
			}
		}
	}
}

func bitValue(bit bool) uint8 {
	if bit {
		return 1
	}
	return 0
}
