// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package orbit

import "math"

type vec3 struct{ x, y, z float64 }

var cubeVertices = [8]vec3{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

var cubeEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// cameraDistance keeps every vertex in front of the eye.
const cameraDistance = 4.0

// project rotates the cube by angle around Y (and half of it around X) and
// maps it onto a width x height viewport.
func project(angle float64, width, height int) [8][2]float64 {
	sy, cy := math.Sincos(angle)
	sx, cx := math.Sincos(angle / 2)
	focal := float64(min(width, height)) * 0.6
	ox, oy := float64(width)/2, float64(height)/2

	var out [8][2]float64
	for i, v := range cubeVertices {
		x := v.x*cy + v.z*sy
		z := -v.x*sy + v.z*cy
		y := v.y*cx - z*sx
		z = v.y*sx + z*cx

		d := z + cameraDistance
		out[i] = [2]float64{ox + x*focal/d, oy + y*focal/d}
	}
	return out
}
