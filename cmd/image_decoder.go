package cmd

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ImageDecoder reads raster image files and normalizes them to fixed-shape
// height×width×3 buffers. Channel values keep their 0-255 range as float32.
type ImageDecoder struct {
	resizeWidth  int
	resizeHeight int
	blurRadius   float64
	hsv          bool
}

func NewImageDecoder(resizeWidth, resizeHeight int, blurRadius float64, hsv bool) *ImageDecoder {
	return &ImageDecoder{
		resizeWidth:  resizeWidth,
		resizeHeight: resizeHeight,
		blurRadius:   blurRadius,
		hsv:          hsv,
	}
}

func (d *ImageDecoder) Decode(paths []string) ([][]float32, []int, error) {
	data := make([][]float32, 0, len(paths))

	for _, path := range paths {
		img, err := imaging.Open(path)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrDecode, "opening image %s: %v", path, err)
		}

		if d.blurRadius != 0 {
			img = imaging.Blur(img, d.blurRadius)
		}

		// Box resampling, applied even when the image already has the
		// target dimensions.
		resized := imaging.Resize(img, d.resizeWidth, d.resizeHeight, imaging.Box)

		data = append(data, d.pixelBuffer(resized))
	}

	return data, []int{d.resizeHeight, d.resizeWidth, 3}, nil
}

func (d *ImageDecoder) pixelBuffer(img *image.NRGBA) []float32 {
	buf := make([]float32, 0, d.resizeHeight*d.resizeWidth*3)

	for y := 0; y < d.resizeHeight; y++ {
		for x := 0; x < d.resizeWidth; x++ {
			px := img.NRGBAAt(x, y)
			c1, c2, c3 := px.R, px.G, px.B
			if d.hsv {
				c1, c2, c3 = rgbToHSV(px.R, px.G, px.B)
			}
			buf = append(buf, float32(c1), float32(c2), float32(c3))
		}
	}

	return buf
}

// rgbToHSV converts one pixel, keeping every channel on the 0-255 scale
// (hue 255 corresponds to 360 degrees).
func rgbToHSV(r, g, b uint8) (uint8, uint8, uint8) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	maxc := math.Max(rf, math.Max(gf, bf))
	minc := math.Min(rf, math.Min(gf, bf))
	v := uint8(math.Round(maxc * 255))

	if maxc == minc {
		return 0, 0, v
	}

	s := (maxc - minc) / maxc
	rc := (maxc - rf) / (maxc - minc)
	gc := (maxc - gf) / (maxc - minc)
	bc := (maxc - bf) / (maxc - minc)

	var h float64
	switch maxc {
	case rf:
		h = bc - gc
	case gf:
		h = 2 + rc - bc
	default:
		h = 4 + gc - rc
	}
	h = math.Mod(h/6, 1)
	if h < 0 {
		h++
	}

	return uint8(math.Round(h * 255)), uint8(math.Round(s * 255)), v
}
