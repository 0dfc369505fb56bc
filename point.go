package swraster

import "github.com/gogpu/swraster/internal/path"

// Point represents a 2D point or vector.
type Point = path.Point

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}
