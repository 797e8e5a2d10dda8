package sequence

import (
	"fmt"
	"image"
	"math/bits"
)

var _ Sequence = (*LCG)(nil)

// LCG walks the grid with s' = (a*s + c) mod m, m = width*height.
// a and c satisfy the Hull-Dobell conditions, so every cell is visited
// exactly once in m steps.
type LCG struct {
	width uint64
	m     uint64
	a, c  uint64
	state uint64
	count uint64
}

// NewLCG seeds the generator with the sum of the password's code points.
// Only that sum mod m matters: anagrams of a password produce the same walk.
func NewLCG(width, height int, password string) (*LCG, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGrid, width, height)
	}
	m := uint64(width) * uint64(height)
	a, c := Params(m)
	return &LCG{
		width: uint64(width),
		m:     m,
		a:     a % m,
		c:     c % m,
		state: Seed(password, m),
	}, nil
}

// Len returns width*height.
func (g *LCG) Len() int {
	return int(g.m)
}

// Next advances the state and returns the cell it lands on.
func (g *LCG) Next() (image.Point, bool) {
	if g.count >= g.m {
		return image.Point{}, false
	}
	hi, lo := bits.Mul64(g.a, g.state)
	lo, carry := bits.Add64(lo, g.c, 0)
	g.state = bits.Rem64(hi+carry, lo, g.m)
	g.count++
	return image.Pt(int(g.state%g.width), int(g.state/g.width)), true
}

// Seed returns the starting state for password on a modulus m.
// Each invalid UTF-8 byte counts as U+FFFD, so "\xff" and "\uFFFD" collide.
func Seed(password string, m uint64) uint64 {
	var sum uint64
	for _, r := range password {
		sum = (sum + uint64(r)) % m
	}
	return sum
}

// Params returns the multiplier a and the increment c for modulus m.
//
// c is the first odd value from m/2 upward that is coprime to m.
// a-1 is the product of the distinct prime factors of m, raised to a
// multiple of 4 when m is.
func Params(m uint64) (a, c uint64) {
	c = m/2 | 1
	for gcd(c, m) != 1 {
		c += 2
	}

	p := uint64(1)
	for _, f := range primeFactors(m) {
		p *= f
	}
	if m%4 == 0 && p%4 != 0 {
		p *= 4 / gcd(p, 4)
	}
	return p + 1, c
}

// primeFactors returns the distinct prime factors of n in ascending order.
func primeFactors(n uint64) []uint64 {
	var factors []uint64
	for d := uint64(2); d*d <= n; d++ {
		if n%d != 0 {
			continue
		}
		factors = append(factors, d)
		for n%d == 0 {
			n /= d
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
