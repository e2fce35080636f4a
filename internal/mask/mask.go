// Package mask cleans rendered segmentation masks and extracts geometric
// labels from them: palette normalization, connected-component regions with
// bounding boxes and centroids, and per-class label maps.
package mask

import (
	"fmt"
	"image"

	"github.com/banshee-data/synthset/internal/faults"
)

// Color is one RGB pixel value.
type Color [3]uint8

// String renders the color as "rgb(r, g, b)" for error messages.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c[0], c[1], c[2])
}

// cityblock returns the L1 distance between two colors in channel space.
func cityblock(a, b Color) int {
	d := 0
	for i := range a {
		if a[i] > b[i] {
			d += int(a[i] - b[i])
		} else {
			d += int(b[i] - a[i])
		}
	}
	return d
}

// Mask is a dense H x W grid of per-pixel colors, row-major. The renderer
// produces these as segmentation images; file decoding happens outside the
// core (see FromImage for the adapter).
type Mask struct {
	w, h int
	pix  []Color
}

// New returns an all-black mask of the given size.
func New(w, h int) *Mask {
	return &Mask{w: w, h: h, pix: make([]Color, w*h)}
}

// FromRows builds a mask from a row-major grid. Ragged rows are malformed
// input and are rejected rather than padded.
func FromRows(rows [][]Color) (*Mask, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: mask grid is empty", faults.ErrData)
	}
	w := len(rows[0])
	m := New(w, len(rows))
	for r, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: mask row %d has %d pixels, want %d", faults.ErrData, r, len(row), w)
		}
		copy(m.pix[r*w:(r+1)*w], row)
	}
	return m, nil
}

// FromImage converts a decoded image into a mask, collapsing each pixel to
// 8-bit RGB. Alpha is ignored: segmentation masks are opaque by contract.
func FromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			m.pix[(y-b.Min.Y)*m.w+(x-b.Min.X)] = Color{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)}
		}
	}
	return m
}

// Width returns the number of columns.
func (m *Mask) Width() int { return m.w }

// Height returns the number of rows.
func (m *Mask) Height() int { return m.h }

// At returns the color at (row, col).
func (m *Mask) At(row, col int) Color {
	return m.pix[row*m.w+col]
}

// Set writes the color at (row, col).
func (m *Mask) Set(row, col int, c Color) {
	m.pix[row*m.w+col] = c
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	out := New(m.w, m.h)
	copy(out.pix, m.pix)
	return out
}

// Equal reports whether two masks have identical size and pixels.
func (m *Mask) Equal(o *Mask) bool {
	if m.w != o.w || m.h != o.h {
		return false
	}
	for i := range m.pix {
		if m.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// Colors returns the distinct colors present in the mask together with their
// pixel counts.
func (m *Mask) Colors() map[Color]int {
	counts := make(map[Color]int)
	for _, c := range m.pix {
		counts[c]++
	}
	return counts
}
