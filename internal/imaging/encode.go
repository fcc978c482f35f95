package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/cuongbtq/slicer-be/internal/volume"
)

// Normalize stretches a density map linearly onto the 0..255 byte range.
// A uniform map normalizes to all zeros.
func Normalize(g volume.Grid2D) [][]uint8 {
	var min, max float32
	if len(g.Data) > 0 {
		min, max = g.Data[0], g.Data[0]
		for _, v := range g.Data {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}

	out := make([][]uint8, g.Rows)
	scale := max - min
	for r := 0; r < g.Rows; r++ {
		row := make([]uint8, g.Cols)
		if scale > 0 {
			for c := 0; c < g.Cols; c++ {
				row[c] = uint8((g.At(r, c) - min) / scale * 255)
			}
		}
		out[r] = row
	}
	return out
}

// EncodePNG renders byte rows as an 8-bit grayscale PNG
func EncodePNG(pixels [][]uint8) ([]byte, error) {
	if len(pixels) == 0 || len(pixels[0]) == 0 {
		return nil, fmt.Errorf("cannot encode empty image")
	}

	height := len(pixels)
	width := len(pixels[0])
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y, row := range pixels {
		if len(row) != width {
			return nil, fmt.Errorf("ragged image rows: %d vs %d", len(row), width)
		}
		copy(img.Pix[y*img.Stride:], row)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 renders raw image bytes as standard base64 for JSON transport
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
