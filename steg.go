package steg

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/yyyoichi/steg_lcg/frame"
	"github.com/yyyoichi/steg_lcg/internal/lsb"
	"github.com/yyyoichi/steg_lcg/internal/sequence"
)

var (
	ErrCapacityExceeded = errors.New("message does not fit in the image")
	ErrExhausted        = lsb.ErrExhausted
	ErrInvalidGrid      = sequence.ErrInvalidGrid
	ErrNilImage         = errors.New("image is nil")
)

// Embed hides msg in img with the specified options.
// This is a convenience function that creates a Steg instance and calls its Embed method.
func Embed(ctx context.Context, img Image, msg []byte, opts ...Option) error {
	s, err := New(opts...)
	if err != nil {
		return err
	}
	return s.Embed(ctx, img, msg)
}

// Extract recovers a message from img with the specified options.
// This is a convenience function that creates a Steg instance and calls its Extract method.
func Extract(ctx context.Context, img Image, opts ...Option) ([]byte, bool, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, false, err
	}
	return s.Extract(ctx, img)
}

// Capacity returns the number of bits img can carry: one per R, G and B channel.
func Capacity(img Image) int {
	return lsb.Capacity(img)
}

// RequiredBits returns the number of bits needed to hide msg, terminator included.
func RequiredBits(msg []byte) int {
	return frame.RequiredBits(len(msg))
}

// Steg hides messages in the least significant bits of RGB images.
// A Steg holds no per-call state and may be shared, but an Image must not
// be used by two calls at the same time.
type Steg struct {
	password string
	log      *slog.Logger
}

// New initializes a Steg. Without options pixels are visited in raster
// order and nothing is logged.
func New(opts ...Option) (*Steg, error) {
	s := new(Steg)
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Embed hides msg in img, mutating it in place.
//
// Process:
//  1. Frames msg as its bytes followed by the 16-bit terminator.
//  2. Checks the framed length against Capacity(img).
//  3. Walks the pixels in raster or password order.
//  4. Overwrites the LSB of R, G then B with the next bits until all are written.
//
// ErrInvalidGrid and ErrCapacityExceeded are returned before img is touched.
func (s *Steg) Embed(ctx context.Context, img Image, msg []byte) error {
	if isNil(img) {
		return ErrNilImage
	}
	seq, err := sequence.New(img.Width(), img.Height(), s.password)
	if err != nil {
		return err
	}
	bits := frame.Encode(msg)
	if capacity := Capacity(img); bits.Len() > capacity {
		return fmt.Errorf("%w: required %d bits > capacity %d bits", ErrCapacityExceeded, bits.Len(), capacity)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "embedding message",
		slog.Int("bytes", len(msg)),
		slog.Int("bits", bits.Len()),
		slog.Int("capacity", Capacity(img)),
		slog.Bool("password", s.password != ""),
	)
	pixels, err := lsb.Embed(ctx, img, bits, seq, s.log)
	if err != nil {
		s.log.ErrorContext(ctx, "embedding failed", slog.Any("error", err))
		return err
	}
	s.log.InfoContext(ctx, "message embedded", slog.Int("pixels", pixels))
	return nil
}

// Extract recovers a message hidden by Embed with the same options.
//
// ok is false, with a nil error, when every pixel was read without finding
// the terminator: either nothing was hidden or the password differs.
// A wrong password may also yield a short garbage message when its LSBs
// happen to contain the terminator.
func (s *Steg) Extract(ctx context.Context, img Image) (msg []byte, ok bool, err error) {
	if isNil(img) {
		return nil, false, ErrNilImage
	}
	seq, err := sequence.New(img.Width(), img.Height(), s.password)
	if err != nil {
		return nil, false, err
	}

	s.log.InfoContext(ctx, "extracting message",
		slog.Int("pixels", seq.Len()),
		slog.Bool("password", s.password != ""),
	)
	msg, ok, err = lsb.Extract(ctx, img, seq, s.log)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		s.log.WarnContext(ctx, "no hidden message found")
		return nil, false, nil
	}
	s.log.InfoContext(ctx, "message extracted", slog.Int("bytes", len(msg)))
	return msg, true, nil
}

// EmbedImage hides msg in a copy of src and returns the copy.
func (s *Steg) EmbedImage(ctx context.Context, src image.Image, msg []byte) (*image.NRGBA, error) {
	if src == nil {
		return nil, ErrNilImage
	}
	dst := NewRGB(src)
	if err := s.Embed(ctx, dst, msg); err != nil {
		return nil, err
	}
	return dst.Image(), nil
}

// ExtractImage recovers a message from src without modifying it.
func (s *Steg) ExtractImage(ctx context.Context, src image.Image) ([]byte, bool, error) {
	if src == nil {
		return nil, false, ErrNilImage
	}
	return s.Extract(ctx, asRGB(src))
}

// isNil also catches an RGB adapter around a nil buffer.
func isNil(img Image) bool {
	if img == nil {
		return true
	}
	m, ok := img.(*RGB)
	return ok && (m == nil || m.img == nil)
}

func (s *Steg) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	return nil
}
