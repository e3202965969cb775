// Package stream drains child process output streams.
//
// The package provides three building blocks that are wired together by the
// subprocess runner:
//
//   - Reader runs a blocking read loop over one byte stream on its own
//     goroutine and publishes every read as a Chunk.
//   - Multiplexer fans the chunks of several readers into one queue that is
//     drained by a single worker, and reports completion once every stream
//     has delivered its final chunk.
//   - LineAggregator turns the multiplexed chunk sequence back into
//     newline-terminated lines per stream.
//
// Chunks of one stream are always delivered in the order they were read.
// Chunks of different streams may interleave in any order.
package stream
