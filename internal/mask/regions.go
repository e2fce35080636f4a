package mask

// Region is one 4-connected component of pixels sharing a color in a
// normalized mask. Bounding box bounds are inclusive pixel indices; the
// centroid is the arithmetic mean of member coordinates, sub-pixel precise.
type Region struct {
	Color      Color
	PixelCount int

	MinRow, MaxRow int
	MinCol, MaxCol int

	CentroidRow float64
	CentroidCol float64
}

// Regions runs connected-component labeling over the whole mask and returns
// one Region per component, in scan order of each component's first pixel.
//
// Connectivity is 4-way (up, down, left, right): two same-color pixels that
// touch only diagonally belong to different regions. Disjoint components of
// the same color are reported as separate entries, never merged.
func Regions(m *Mask) []Region {
	visited := make([]bool, len(m.pix))
	var regions []Region
	// Flood fill queue, reused across components.
	queue := make([]int, 0, 256)

	for start := range m.pix {
		if visited[start] {
			continue
		}
		color := m.pix[start]
		visited[start] = true
		queue = append(queue[:0], start)

		reg := Region{
			Color:  color,
			MinRow: start / m.w, MaxRow: start / m.w,
			MinCol: start % m.w, MaxCol: start % m.w,
		}
		var sumRow, sumCol float64

		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			row, col := idx/m.w, idx%m.w

			reg.PixelCount++
			sumRow += float64(row)
			sumCol += float64(col)
			if row < reg.MinRow {
				reg.MinRow = row
			}
			if row > reg.MaxRow {
				reg.MaxRow = row
			}
			if col < reg.MinCol {
				reg.MinCol = col
			}
			if col > reg.MaxCol {
				reg.MaxCol = col
			}

			if row > 0 {
				tryVisit(m, visited, &queue, idx-m.w, color)
			}
			if row < m.h-1 {
				tryVisit(m, visited, &queue, idx+m.w, color)
			}
			if col > 0 {
				tryVisit(m, visited, &queue, idx-1, color)
			}
			if col < m.w-1 {
				tryVisit(m, visited, &queue, idx+1, color)
			}
		}

		reg.CentroidRow = sumRow / float64(reg.PixelCount)
		reg.CentroidCol = sumCol / float64(reg.PixelCount)
		regions = append(regions, reg)
	}
	return regions
}

func tryVisit(m *Mask, visited []bool, queue *[]int, idx int, color Color) {
	if !visited[idx] && m.pix[idx] == color {
		visited[idx] = true
		*queue = append(*queue, idx)
	}
}

// RegionsOf returns only the regions of the given color. A color absent from
// the mask yields zero regions; that is an answer, not an error.
func RegionsOf(m *Mask, c Color) []Region {
	var out []Region
	for _, r := range Regions(m) {
		if r.Color == c {
			out = append(out, r)
		}
	}
	return out
}
