package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"
	"slices"
	"time"

	steg "github.com/yyyoichi/steg_lcg"
	"github.com/yyyoichi/steg_lcg/imgio"
	"github.com/yyyoichi/steg_lcg/internal/quality"
	"golang.org/x/image/draw"
)

type TestParams struct {
	Password    string
	Codec       string
	MessageSize int

	// meta
	ImageWidth  int
	ImageHeight int
	Capacity    int
}

func main() {
	dir := flag.String("dir", "", "directory of .png/.bmp covers (generated gradients when empty)")
	numImages := flag.Int("n", 3, "number of covers to test")
	flag.Parse()

	ctx := context.Background()

	imageSizes := [][]int{
		{1920, 1080}, // FHD
		{1280, 720},  // HD
		{854, 480},   // 480p
		{640, 360},   // 360p
		{426, 240},   // 240p
	}
	passwords := []string{"", "secret", "パスワード"}
	messageSizes := []int{16, 1 << 10, 16 << 10}
	codecs := []string{"png", "bmp", "jpeg"}

	covers, err := loadCovers(*dir, *numImages)
	if err != nil {
		log.Fatalf("Failed to load covers: %v", err)
	}
	if len(covers) == 0 {
		log.Fatal("No covers found")
	}

	log.Printf("Starting quality evaluation with %d covers\n", len(covers))
	log.Printf("Total test cases per cover: %d (image sizes) x %d (passwords) x %d (message sizes) x %d (codecs) = %d\n",
		len(imageSizes), len(passwords), len(messageSizes), len(codecs), len(imageSizes)*len(passwords)*len(messageSizes)*len(codecs))

	successCount := 0
	totalTests := 0
	for i, c := range covers {
		log.Printf("\n[%d/%d] Testing cover: %s\n", i+1, len(covers), c.name)
		for _, size := range imageSizes {
			width, height := size[0], size[1]
			log.Printf("  Size: %dx%d\n", width, height)
			img := resize(c.img, width, height)

			for _, pw := range passwords {
				for _, n := range messageSizes {
					for _, codec := range codecs {
						params := TestParams{
							Password:    pw,
							Codec:       codec,
							MessageSize: n,
							ImageWidth:  width,
							ImageHeight: height,
							Capacity:    steg.Capacity(steg.WrapRGB(img)),
						}
						totalTests++
						if testSteg(ctx, img, params) {
							successCount++
						}
					}
				}
			}
		}
	}

	log.Printf("\n=== Results ===\n")
	log.Printf("Total tests: %d\n", totalTests)
	log.Printf("Successful: %d (%.2f%%)\n", successCount, float64(successCount)/float64(totalTests)*100)
	log.Printf("Failed: %d (%.2f%%)\n", totalTests-successCount, float64(totalTests-successCount)/float64(totalTests)*100)
}

type cover struct {
	name string
	img  image.Image
}

func loadCovers(dir string, n int) ([]cover, error) {
	if dir == "" {
		covers := make([]cover, n)
		for i := range covers {
			covers[i] = cover{name: fmt.Sprintf("gradient-%d", i), img: gradient(1920, 1080, i)}
		}
		return covers, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var covers []cover
	for _, e := range entries {
		if e.IsDir() || len(covers) == n {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if _, err := imgio.FormatOf(path); err != nil {
			continue
		}
		img, err := imgio.Load(path)
		if err != nil {
			log.Printf("Skipping %s: %v\n", path, err)
			continue
		}
		covers = append(covers, cover{name: path, img: img})
	}
	return covers, nil
}

// gradient draws a cover whose pattern shifts with variant.
func gradient(width, height, variant int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			r := uint8((x*255)/width + variant*40)
			g := uint8((y*255)/height + variant*17)
			b := uint8(((x+y)*255)/(width+height) ^ variant)
			img.SetNRGBA(x, y, color.NRGBA{r, g, b, 255})
		}
	}
	return img
}

// resize scales src to width x height after center cropping it to the target ratio.
func resize(src image.Image, width, height int) *image.NRGBA {
	bounds := src.Bounds()
	srcRect := bounds
	srcRatio := float64(bounds.Dx()) / float64(bounds.Dy())
	targetRatio := float64(width) / float64(height)

	if srcRatio > targetRatio {
		newWidth := int(float64(bounds.Dy()) * targetRatio)
		x := bounds.Min.X + (bounds.Dx()-newWidth)/2
		srcRect = image.Rect(x, bounds.Min.Y, x+newWidth, bounds.Max.Y)
	} else if srcRatio < targetRatio {
		newHeight := int(float64(bounds.Dx()) / targetRatio)
		y := bounds.Min.Y + (bounds.Dy()-newHeight)/2
		srcRect = image.Rect(bounds.Min.X, y, bounds.Max.X, y+newHeight)
	}

	dist := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dist, dist.Bounds(), src, srcRect, draw.Src, nil)
	// hidden bits live in the color channels only
	for i := 3; i < len(dist.Pix); i += 4 {
		dist.Pix[i] = 0xff
	}
	return dist
}

func message(n int) []byte {
	msg := make([]byte, n)
	for i := range msg {
		msg[i] = 'A' + byte(i%26)
	}
	return msg
}

func testSteg(ctx context.Context, img *image.NRGBA, params TestParams) bool {
	prefix := fmt.Sprintf("Size=%dx%d Password=%q Message=%dB Codec=%s Capacity=%d",
		params.ImageWidth, params.ImageHeight, params.Password, params.MessageSize, params.Codec, params.Capacity)

	s, err := steg.New(steg.WithPassword(params.Password))
	if err != nil {
		log.Printf("    [FAIL] %s - New error: %v\n", prefix, err)
		return false
	}
	msg := message(params.MessageSize)

	start := time.Now()

	// Embed
	stego, err := s.EmbedImage(ctx, img, msg)
	if err != nil {
		log.Printf("    [FAIL] %s - Embed error: %v\n", prefix, err)
		return false
	}
	report, err := quality.Compare(img, stego)
	if err != nil {
		log.Printf("    [FAIL] %s - Compare error: %v\n", prefix, err)
		return false
	}
	if report.MaxDelta > 1 {
		log.Printf("    [FAIL] %s - MaxDelta=%.0f touches more than the LSB\n", prefix, report.MaxDelta)
		return false
	}

	// Encode and decode
	decoded, err := roundTrip(stego, params.Codec)
	if err != nil {
		log.Printf("    [FAIL] %s - %s round trip error: %v\n", prefix, params.Codec, err)
		return false
	}

	// Extract
	extracted, ok, err := s.ExtractImage(ctx, decoded)
	if err != nil {
		log.Printf("    [FAIL] %s - Extract error: %v\n", prefix, err)
		return false
	}
	duration := time.Since(start)

	if ok && slices.Equal(msg, extracted) {
		log.Printf("    [OK] %s - PSNR=%.2fdB Changed=%d Time=%v\n", prefix, report.PSNR, report.Changed, duration)
		return true
	}
	log.Printf("    [FAIL] %s - Found=%t Extracted=%dB PSNR=%.2fdB Time=%v\n", prefix, ok, len(extracted), report.PSNR, duration)
	return false
}

// roundTrip stores img in codec and reads it back. JPEG is lossy and is
// expected to destroy the message.
func roundTrip(img *image.NRGBA, codec string) (image.Image, error) {
	var buf bytes.Buffer
	switch codec {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
			return nil, err
		}
		return jpeg.Decode(&buf)
	default:
		format := imgio.Format(codec)
		if err := imgio.Encode(&buf, img, format); err != nil {
			return nil, err
		}
		return imgio.Decode(&buf, format)
	}
}
