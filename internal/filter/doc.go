// Package filter implements the SVG filter primitives.
//
// Each primitive kind is a plain parameter struct implementing the sealed
// Params interface, paired with an evaluate function that turns input
// buffers into an output buffer and an enlarge rule that reports how much
// input a given output area depends on. Evaluate and Enlarge dispatch over
// the closed set of kinds with a type switch.
//
// Buffers are in filter pixel space. Every evaluate function produces a
// buffer covering exactly Env.Area and tagged with Env.Space; samples read
// outside an input buffer are transparent black.
//
// Supported primitives:
//   - ColorMatrix (matrix, saturate, hueRotate, luminanceToAlpha)
//   - ConvolveMatrix
//   - Composite (Porter-Duff and arithmetic)
//   - Offset, Tile, Merge, Flood
//   - DiffuseLighting and SpecularLighting with distant, point and spot lights
//   - Morphology (erode, dilate)
//   - GaussianBlur
//   - Blend
package filter
