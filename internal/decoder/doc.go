// Package decoder walks the data/payload/payload_frame/report record
// hierarchy out of a raw device buffer, dispatching on type tags and
// skipping unrecognized records by their advertised size. Stylus
// reports are emitted directly to a StylusSink; heatmap reports are
// assembled into a reusable heatmap.Heatmap for the blob detector.
package decoder
