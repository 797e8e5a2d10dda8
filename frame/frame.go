// Package frame serializes a message into the bit stream hidden in an image
// and recovers it from a stream of extracted bits.
//
// A framed message is its raw bytes, most significant bit first, followed by
// the 16-bit terminator 1111111111111110. Framing works on bytes, so a UTF-8
// string is framed as its encoded bytes, never one slot per code point.
//
// The terminator is not escaped. A message whose own bits contain fifteen
// ones followed by a zero (for example the bytes 0xff 0xfe) is cut short at
// that point when decoded.
package frame

import (
	"github.com/yyyoichi/bitstream-go"
)

const (
	// Sentinel is the terminator appended after the message bits.
	Sentinel uint16 = 0b1111_1111_1111_1110
	// SentinelBits is the length of Sentinel in bits.
	SentinelBits = 16
)

// RequiredBits returns the number of bits needed to hide n message bytes.
func RequiredBits(n int) int {
	return n*8 + SentinelBits
}

// Bits is a framed message.
type Bits struct {
	reader *bitstream.BitReader[uint64]
	n      int
}

// Encode frames msg.
func Encode(msg []byte) *Bits {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, b := range msg {
		writeByte(w, b)
	}
	for i := SentinelBits - 1; i >= 0; i-- {
		w.WriteBool(Sentinel>>uint(i)&1 == 1)
	}
	reader := bitstream.NewBitReader(w.Data(), 0, 0)
	reader.SetBits(w.Bits())
	return &Bits{reader: reader, n: w.Bits()}
}

// Len returns the number of bits, terminator included.
func (b *Bits) Len() int {
	return b.n
}

// At returns the bit at position i.
func (b *Bits) At(i int) bool {
	bit, _ := b.reader.ReadBitAt(i)
	return bit
}

// Bools expands the framed message into one bool per bit.
func (b *Bits) Bools() []bool {
	bools := make([]bool, b.n)
	for i := range bools {
		bools[i] = b.At(i)
	}
	return bools
}

func writeByte(w *bitstream.BitWriter[uint64], b byte) {
	for i := 7; i >= 0; i-- {
		w.WriteBool((b>>uint(i))&1 == 1)
	}
}
