// Package imagepipeline is the external image collaborator named in
// spec.md §6: it decodes, resizes, and re-encodes source images to the
// display's native geometry, and synthesizes checkerboard test patterns.
//
// The wire protocol core (internal/protocol, internal/upload) never
// inspects JPEG bytes; it only moves them. Pixel decoding, color-space
// conversion, and JPEG re-encoding are explicitly a Non-goal of the core
// and live here instead, using github.com/nfnt/resize for geometry
// matching and the standard image/jpeg encoder (which emits 4:2:0 chroma
// subsampled output) for the final encode.
package imagepipeline
