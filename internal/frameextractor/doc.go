// Package frameextractor is the external frame-extraction collaborator
// named in spec.md §6: given a GIF or video file, it yields an ordered
// sequence of JPEG frame buffers. DurationToIntervalMillis is a separate
// helper for turning a frame duration into an inter-frame interval.
//
// Both GIF and video decoding shell out to an ffmpeg subprocess and read
// JPEG frames off its stdout, mirroring the stdin/stdout subprocess plumbing of the
// frame-extraction pipelines in the retrieval pack. The wire protocol
// core never decodes pixels or shells out to anything; that is exactly
// why this lives outside internal/protocol and internal/upload.
package frameextractor
