package frame

import "github.com/yyyoichi/bitstream-go"

// Decoder accumulates extracted bits and watches for the terminator.
// Bits written after the terminator has been seen are ignored.
type Decoder struct {
	w    *bitstream.BitWriter[uint64]
	ones int
	// end is the number of message bits, or -1 while the terminator is missing.
	end int
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		w:   bitstream.NewBitWriter[uint64](0, 0),
		end: -1,
	}
}

// WriteBit appends one bit and reports whether the terminator is now complete.
func (d *Decoder) WriteBit(bit bool) bool {
	if d.end >= 0 {
		return true
	}
	d.w.WriteBool(bit)
	if bit {
		d.ones++
		return false
	}
	if d.ones >= SentinelBits-1 {
		d.end = d.w.Bits() - SentinelBits
		return true
	}
	d.ones = 0
	return false
}

// Bits returns the number of bits written so far.
func (d *Decoder) Bits() int {
	return d.w.Bits()
}

// Found reports whether the terminator has been seen.
func (d *Decoder) Found() bool {
	return d.end >= 0
}

// Bytes returns the message preceding the first terminator. An incomplete
// trailing byte is dropped. ok is false while no terminator has been seen.
func (d *Decoder) Bytes() (msg []byte, ok bool) {
	if d.end < 0 {
		return nil, false
	}
	reader := bitstream.NewBitReader(d.w.Data(), 0, 0)
	reader.SetBits(d.w.Bits())
	msg = make([]byte, d.end/8)
	for i := range msg {
		var v byte
		for j := range 8 {
			if bit, _ := reader.ReadBitAt(i*8 + j); bit {
				v |= 1 << uint(7-j)
			}
		}
		msg[i] = v
	}
	return msg, true
}

// Decode unframes a complete bit sequence.
func Decode(bits []bool) ([]byte, bool) {
	d := NewDecoder()
	for _, bit := range bits {
		if d.WriteBit(bit) {
			break
		}
	}
	return d.Bytes()
}
