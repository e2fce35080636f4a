// Package faults defines the error kinds shared across the synthset core.
//
// Every failure surfaced by the core wraps exactly one of these sentinels so
// callers can branch on the kind with errors.Is without parsing messages. The
// core never clamps or defaults bad input into a "close enough" value: a
// mislabeled training image is worse than a failed run, so bad input is always
// reported loudly.
package faults

import "errors"

var (
	// ErrConfiguration marks caller mistakes in generation parameters: empty
	// parameter domains, zero waypoints, non-positive camera distance, or a
	// keypoint request larger than the available vertex set.
	ErrConfiguration = errors.New("configuration error")

	// ErrGeometry marks degenerate geometric input: an all-zero quaternion, a
	// zero-length vector where a direction is required, or NaN components.
	ErrGeometry = errors.New("geometry error")

	// ErrData marks malformed bulk data: ragged mask rows, a mask pixel that
	// matches no palette color (or more than one), or an empty mesh.
	ErrData = errors.New("data error")
)
