package mask

// LabelMap assigns each semantic class the mask color (or colors) that
// render it. A class with several colors, e.g. one per instance part, is
// treated as a single label for whole-image boxes and centroids.
type LabelMap map[string][]Color

// Box is an inclusive pixel-coordinate bounding box.
type Box struct {
	YMin int `json:"ymin"`
	YMax int `json:"ymax"`
	XMin int `json:"xmin"`
	XMax int `json:"xmax"`
}

// Centroid is a sub-pixel mean coordinate in (row, col) order.
type Centroid struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

// BoundingBoxes returns one box per class covering every pixel of any of the
// class's colors. Classes with no pixels in the mask are omitted from the
// result rather than reported with an empty box.
func BoundingBoxes(m *Mask, labels LabelMap) map[string]Box {
	out := make(map[string]Box)
	for class, colors := range labels {
		first := true
		var box Box
		forEachLabelPixel(m, colors, func(row, col int) {
			if first {
				box = Box{YMin: row, YMax: row, XMin: col, XMax: col}
				first = false
				return
			}
			if row < box.YMin {
				box.YMin = row
			}
			if row > box.YMax {
				box.YMax = row
			}
			if col < box.XMin {
				box.XMin = col
			}
			if col > box.XMax {
				box.XMax = col
			}
		})
		if !first {
			out[class] = box
		}
	}
	return out
}

// Centroids returns the mean pixel coordinate per class, sub-pixel precise.
// Absent classes are omitted.
func Centroids(m *Mask, labels LabelMap) map[string]Centroid {
	out := make(map[string]Centroid)
	for class, colors := range labels {
		var sumRow, sumCol float64
		count := 0
		forEachLabelPixel(m, colors, func(row, col int) {
			sumRow += float64(row)
			sumCol += float64(col)
			count++
		})
		if count > 0 {
			out[class] = Centroid{Row: sumRow / float64(count), Col: sumCol / float64(count)}
		}
	}
	return out
}

func forEachLabelPixel(m *Mask, colors []Color, visit func(row, col int)) {
	match := make(map[Color]bool, len(colors))
	for _, c := range colors {
		match[c] = true
	}
	for row := 0; row < m.h; row++ {
		for col := 0; col < m.w; col++ {
			if match[m.At(row, col)] {
				visit(row, col)
			}
		}
	}
}
