package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bitsOf(s string) []bool {
	var bits []bool
	for _, c := range s {
		switch c {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		}
	}
	return bits
}

func TestEncode(t *testing.T) {
	test := []struct {
		name string
		msg  []byte
		want string
	}{
		{"empty", nil, "1111111111111110"},
		{"A", []byte("A"), "01000001 1111111111111110"},
		{"bytes", []byte{0x00, 0xff, 0x81}, "00000000 11111111 10000001 1111111111111110"},
		{"utf8", []byte("é"), "11000011 10101001 1111111111111110"},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			b := Encode(tt.msg)
			want := bitsOf(tt.want)
			assert.Equal(t, len(want), b.Len())
			assert.Equal(t, RequiredBits(len(tt.msg)), b.Len())
			assert.Equal(t, want, b.Bools())
		})
	}
}

func TestRequiredBits(t *testing.T) {
	assert.Equal(t, 16, RequiredBits(0))
	assert.Equal(t, 24, RequiredBits(1))
	assert.Equal(t, 8*1000+16, RequiredBits(1000))
}

func TestDecode(t *testing.T) {
	test := []struct {
		name   string
		bits   string
		want   []byte
		wantOK bool
	}{
		{"A", "01000001 1111111111111110", []byte("A"), true},
		{"trailing bits ignored", "01000001 1111111111111110 0101", []byte("A"), true},
		{"empty message", "1111111111111110", []byte{}, true},
		{"leading ones", "111 1111111111111110", []byte{}, true},
		{"partial byte dropped", "01000001 011 1111111111111110", []byte("A"), true},
		{"fourteen ones", "01000000 111111111111110", nil, false},
		{"terminator spanning the message boundary", "01000001 111111111111110", []byte{}, true},
		{"no terminator", "01000001 01000010", nil, false},
		{"nothing", "", nil, false},
		{"first terminator wins", "01000001 1111111111111110 01000010 1111111111111110", []byte("A"), true},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(bitsOf(tt.bits))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, msg := range [][]byte{
		[]byte("Hello"),
		[]byte("こんにちはHello"),
		[]byte("🍣"),
		{0x00, 0x01, 0x7f, 0x80, 0xfe},
		{},
	} {
		got, ok := Decode(Encode(msg).Bools())
		require.True(t, ok)
		assert.Equal(t, msg, got)
	}
}

func TestDecodeTerminatorCollision(t *testing.T) {
	// 0xff 0xfe carries the terminator pattern itself; decoding stops there.
	msg := []byte{'o', 'k', 0xff, 0xfe, 'l', 'o', 's', 't'}
	got, ok := Decode(Encode(msg).Bools())
	require.True(t, ok)
	assert.Equal(t, []byte("ok"), got)
}

func TestDecoder(t *testing.T) {
	d := NewDecoder()
	_, ok := d.Bytes()
	assert.False(t, ok)
	assert.False(t, d.Found())

	bits := Encode([]byte("Hi")).Bools()
	for i, bit := range bits {
		done := d.WriteBit(bit)
		assert.Equal(t, i == len(bits)-1, done, "bit %d", i)
	}
	assert.True(t, d.Found())
	assert.Equal(t, len(bits), d.Bits())

	// writes after the terminator are ignored
	assert.True(t, d.WriteBit(true))
	assert.Equal(t, len(bits), d.Bits())

	got, ok := d.Bytes()
	require.True(t, ok)
	assert.Equal(t, []byte("Hi"), got)
}
