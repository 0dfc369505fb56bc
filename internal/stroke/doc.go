// Package stroke converts stroked polylines into filled outlines.
//
// A stroke is expanded into a set of polygons whose union is the stroked
// area: one quadrilateral per segment, one join polygon per interior vertex
// and one cap per open end. Every polygon is emitted with the same
// orientation, so filling the set with the non-zero winding rule covers the
// union without holes where pieces overlap.
//
// # Line Caps
//
//   - CapButt: flat end exactly at the endpoint
//   - CapRound: half circle of radius width/2
//   - CapSquare: square extending width/2 beyond the endpoint
//
// # Line Joins
//
//   - JoinMiter: sharp corner, falling back to bevel above the miter limit
//   - JoinRound: circular arc around the vertex
//   - JoinBevel: straight line across the outer corner
//
// # Dashing
//
// [Dash] splits polylines into the "on" intervals of a dash pattern before
// expansion. The pattern restarts at every subpath.
package stroke
