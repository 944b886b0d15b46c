// Package geom provides the affine transforms and rectangles the filter
// pipeline uses to move between user space, primitive units and pixel
// buffers.
//
// Matrices follow the row-major 2x3 convention
//
//	| A  B  C |
//	| D  E  F |
//
// so that x' = A*x + B*y + C and y' = D*x + E*y + F.
package geom
