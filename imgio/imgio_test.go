package imgio

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cover(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x*37 + y*11), uint8(x*13 + y*29 + 7), uint8(x*5 + y*3 + 101), alpha})
		}
	}
	return img
}

func TestFormatOf(t *testing.T) {
	test := []struct {
		path    string
		want    Format
		wantErr error
	}{
		{"cover.png", PNG, nil},
		{"/tmp/COVER.PNG", PNG, nil},
		{"cover.bmp", BMP, nil},
		{"cover.jpg", "", ErrUnsupportedFormat},
		{"cover.jpeg", "", ErrUnsupportedFormat},
		{"cover", "", ErrUnsupportedFormat},
	}
	for _, tt := range test {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	test := []struct {
		name string
		img  *image.NRGBA
	}{
		{"out.png", cover(16, 9, 255)},
		{"alpha.png", cover(16, 9, 128)},
		{"out.bmp", cover(16, 9, 255)},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, Save(path, tt.img))
			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.img.Rect, got.Rect)
			for y := range 9 {
				for x := range 16 {
					require.Equal(t, tt.img.NRGBAAt(x, y), got.NRGBAAt(x, y), "(%d,%d)", x, y)
				}
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(filepath.Join(dir, "cover.jpg"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)

	assert.ErrorIs(t, Save(filepath.Join(dir, "out.gif"), cover(2, 2, 255)), ErrUnsupportedFormat)

	// png refuses an empty image; no partial file is left behind
	empty := filepath.Join(dir, "empty.png")
	assert.Error(t, Save(empty, image.NewNRGBA(image.Rect(0, 0, 0, 0))))
	_, err = os.Stat(empty)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cover(3, 2, 255), PNG))
	got, err := Decode(&buf, PNG)
	require.NoError(t, err)
	assert.Equal(t, cover(3, 2, 255).Pix, got.Pix)

	assert.ErrorIs(t, Encode(&buf, cover(3, 2, 255), Format("gif")), ErrUnsupportedFormat)
	_, err = Decode(&buf, Format("gif"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestToNRGBA(t *testing.T) {
	src := cover(4, 4, 255)
	assert.Same(t, src, ToNRGBA(src))

	sub := src.SubImage(image.Rect(1, 1, 3, 3))
	got := ToNRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 2, 2), got.Rect)
	assert.Equal(t, src.NRGBAAt(1, 1), got.NRGBAAt(0, 0))

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	rgba.Set(1, 0, color.NRGBA{10, 20, 30, 255})
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, ToNRGBA(rgba).NRGBAAt(1, 0))
}
