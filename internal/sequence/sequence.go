package sequence

import (
	"errors"
	"fmt"
	"image"
)

var (
	ErrInvalidGrid = errors.New("grid must have a positive width and height")
)

// Sequence is a finite, ordered stream of pixel coordinates over a grid.
// Next reports false once Len coordinates have been handed out.
type Sequence interface {
	Len() int
	Next() (image.Point, bool)
}

// New returns the traversal for a width x height grid.
// An empty password selects raster order, anything else the LCG order.
func New(width, height int, password string) (Sequence, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGrid, width, height)
	}
	if password == "" {
		return NewRaster(width, height), nil
	}
	return NewLCG(width, height, password)
}

var _ Sequence = (*Raster)(nil)

// Raster visits (0,0), (1,0), ... (w-1,0), (0,1), ... row by row.
type Raster struct {
	width, height int
	pos           int
}

// NewRaster starts at (0,0). The caller validates the grid.
func NewRaster(width, height int) *Raster {
	return &Raster{width: width, height: height}
}

// Len returns width*height.
func (r *Raster) Len() int {
	return r.width * r.height
}

// Next returns the next cell of the current row, wrapping to the row below.
func (r *Raster) Next() (image.Point, bool) {
	if r.pos >= r.Len() {
		return image.Point{}, false
	}
	p := image.Pt(r.pos%r.width, r.pos/r.width)
	r.pos++
	return p, true
}
