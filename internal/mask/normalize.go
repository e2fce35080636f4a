package mask

import (
	"fmt"
	"sort"

	"github.com/banshee-data/synthset/internal/faults"
)

// DefaultColorVariationCutoff is the default city-block matching distance.
// The renderer's anti-aliasing perturbs mask colors by no more than 1 per
// channel in practice; 2 per channel (6 total) leaves headroom without
// letting distinct labels bleed into each other.
const DefaultColorVariationCutoff = 6

// Normalize snaps every pixel to the palette color within cutoff city-block
// distance, eliminating the renderer's per-pixel color jitter. cutoff <= 0
// uses DefaultColorVariationCutoff.
//
// A pixel that matches no palette color, or more than one, makes the whole
// mask invalid: the label assignment would be a guess, and a silently
// mislabeled mask is worse than a failed run. Normalizing an
// already-normalized mask returns an identical mask.
func Normalize(m *Mask, palette []Color, cutoff int) (*Mask, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("%w: normalization palette is empty", faults.ErrConfiguration)
	}
	if cutoff <= 0 {
		cutoff = DefaultColorVariationCutoff
	}

	// Pixel colors repeat massively, so resolve each distinct color once.
	snap := make(map[Color]Color)
	for row := 0; row < m.h; row++ {
		for col := 0; col < m.w; col++ {
			c := m.At(row, col)
			if _, ok := snap[c]; ok {
				continue
			}
			matched := -1
			for i, p := range palette {
				if cityblock(c, p) < cutoff {
					if matched >= 0 {
						return nil, fmt.Errorf("%w: pixel (%d, %d) %v matches both %v and %v within cutoff %d",
							faults.ErrData, row, col, c, palette[matched], p, cutoff)
					}
					matched = i
				}
			}
			if matched < 0 {
				return nil, fmt.Errorf("%w: pixel (%d, %d) %v matches no palette color within cutoff %d",
					faults.ErrData, row, col, c, cutoff)
			}
			snap[c] = palette[matched]
		}
	}

	out := New(m.w, m.h)
	for i, c := range m.pix {
		out.pix[i] = snap[c]
	}
	return out, nil
}

// ClusterPalette derives a canonical palette from the mask itself by greedy
// threshold clustering: distinct colors are visited from most to least
// frequent (ties broken by channel order) and each either joins the first
// existing cluster within cutoff of its representative or founds a new one.
// The representative is the cluster's most frequent original color.
//
// The visit order makes the result deterministic for identical input, and on
// an already clean mask every color founds its own cluster, so the derived
// palette is exactly the mask's color set.
func ClusterPalette(m *Mask, cutoff int) []Color {
	if cutoff <= 0 {
		cutoff = DefaultColorVariationCutoff
	}
	counts := m.Colors()
	colors := make([]Color, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		if counts[colors[i]] != counts[colors[j]] {
			return counts[colors[i]] > counts[colors[j]]
		}
		return lessColor(colors[i], colors[j])
	})

	var palette []Color
	for _, c := range colors {
		found := false
		for _, rep := range palette {
			if cityblock(c, rep) < cutoff {
				found = true
				break
			}
		}
		if !found {
			palette = append(palette, c)
		}
	}
	return palette
}

// NormalizeClustered normalizes against the palette derived by
// ClusterPalette. Unlike Normalize it cannot fail on unmatched pixels (every
// cluster representative is itself a mask color), but a pixel within cutoff
// of two representatives is still ambiguous input and is reported.
func NormalizeClustered(m *Mask, cutoff int) (*Mask, error) {
	return Normalize(m, ClusterPalette(m, cutoff), cutoff)
}

func lessColor(a, b Color) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
