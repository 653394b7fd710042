package geometry

import (
	"math"

	"QRDetect/internal/entity"
)

// FallbackRatio is the side length of the synthetic corner square relative
// to the shorter image dimension, used when a detector returns no usable
// corner data.
const FallbackRatio = 0.6

// Point is a single (x, y) coordinate pair. It serializes as a two-element
// JSON array, matching the wire contract for the qrcodes[].points field.
type Point [2]float64

// Box is an axis-aligned bounding rectangle.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ExtractCorners normalizes raw corner-point data into exactly four ordered
// points. Three layouts are recognized, in this precedence:
//
//  1. a block of at least 4 rows and 2 columns: rows 0..3, columns (0, 1)
//     are read as (x, y), rounded to one decimal,
//  2. a flattened sequence of at least 8 scalars: pairs (2j, 2j+1) for
//     j in 0..3, rounded to one decimal,
//  3. anything else: a synthetic square of side FallbackRatio*min(w, h)
//     centered in the image, corners clockwise from top-left, coordinates
//     carried through unrounded.
//
// imgWidth and imgHeight are only consulted on the fallback path.
func ExtractCorners(m entity.PointMatrix, imgWidth, imgHeight int) []Point {
	if m.Rows >= 4 && m.Cols >= 2 {
		pts := make([]Point, 0, 4)
		for j := 0; j < 4; j++ {
			x := round1(float64(m.At(j, 0)))
			y := round1(float64(m.At(j, 1)))
			pts = append(pts, Point{x, y})
		}
		return pts
	}

	if m.Total() >= 8 {
		pts := make([]Point, 0, 4)
		for j := 0; j < 4; j++ {
			x := round1(float64(m.Data[j*2]))
			y := round1(float64(m.Data[j*2+1]))
			pts = append(pts, Point{x, y})
		}
		return pts
	}

	return FallbackCorners(imgWidth, imgHeight)
}

// FallbackCorners builds the synthetic centered square used when no usable
// corner data is available.
func FallbackCorners(imgWidth, imgHeight int) []Point {
	w := float64(imgWidth)
	h := float64(imgHeight)

	size := math.Min(w, h) * FallbackRatio
	xOff := (w - size) / 2
	yOff := (h - size) / 2

	return []Point{
		{xOff, yOff},
		{xOff + size, yOff},
		{xOff + size, yOff + size},
		{xOff, yOff + size},
	}
}

// Enclose derives the axis-aligned bounding box of a point set. All four
// box components are rounded to one decimal, independent of which path
// produced the points.
func Enclose(pts []Point) Box {
	minX := math.Inf(1)
	maxX := math.Inf(-1)
	minY := math.Inf(1)
	maxY := math.Inf(-1)

	for _, p := range pts {
		minX = math.Min(minX, p[0])
		maxX = math.Max(maxX, p[0])
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}

	return Box{
		X:      round1(minX),
		Y:      round1(minY),
		Width:  round1(maxX - minX),
		Height: round1(maxY - minY),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
