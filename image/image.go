package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/vegarsti/reader/box"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Dimensions returns the pixel width and height of an encoded image
// without decoding the pixels.
func Dimensions(bs []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(bs))
	if err != nil {
		return 0, 0, fmt.Errorf("decode config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Downscale shrinks the image so that its longest side is at most maxSide
// pixels and returns it PNG encoded. Images that already fit, and a
// maxSide of zero or less, return bs unchanged.
func Downscale(bs []byte, maxSide int) ([]byte, error) {
	if maxSide <= 0 {
		return bs, nil
	}
	width, height, err := Dimensions(bs)
	if err != nil {
		return nil, err
	}
	if width <= maxSide && height <= maxSide {
		return bs, nil
	}
	img, _, err := image.Decode(bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	scale := float64(maxSide) / float64(width)
	if height > width {
		scale = float64(maxSide) / float64(height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, atLeastOne(float64(width)*scale), atLeastOne(float64(height)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

func atLeastOne(f float64) int {
	if n := int(f + 0.5); n > 0 {
		return n
	}
	return 1
}

// Normalize converts a pixel rectangle, measured from the top left corner of
// a width x height image, into a normalized box measured from the bottom left.
func Normalize(r image.Rectangle, width int, height int) box.Box {
	w := float64(width)
	h := float64(height)
	return box.Box{
		XLeft:   float64(r.Min.X) / w,
		XRight:  float64(r.Max.X) / w,
		YBottom: 1 - float64(r.Max.Y)/h,
		YTop:    1 - float64(r.Min.Y)/h,
	}
}

// Overlay draws the outline of each box on the image and returns it PNG encoded.
func Overlay(bs []byte, boxes []box.Box) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for _, b := range boxes {
		drawBox(out, b, bounds)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBox draws a single box outline in red
func drawBox(img *image.RGBA, b box.Box, bounds image.Rectangle) {
	col := color.RGBA{255, 0, 0, 255}
	imgWidth := float64(bounds.Dx())
	imgHeight := float64(bounds.Dy())

	// y is flipped: the top of the box is the smallest pixel row
	x1 := bounds.Min.X + int(b.XLeft*imgWidth)
	x2 := bounds.Min.X + int(b.XRight*imgWidth)
	y1 := bounds.Min.Y + int((1-b.YTop)*imgHeight)
	y2 := bounds.Min.Y + int((1-b.YBottom)*imgHeight)

	for x := x1; x <= x2; x++ {
		img.Set(x, y1, col)
		img.Set(x, y2, col)
	}
	for y := y1; y <= y2; y++ {
		img.Set(x1, y, col)
		img.Set(x2, y, col)
	}
}
