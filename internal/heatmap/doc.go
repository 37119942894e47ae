// Package heatmap detects touch contacts in a 2-D capacitance heatmap.
//
// Responsibilities: local-maxima search, 8-connected flood-fill clustering
// over a union-find partition, and Gaussian ellipse fitting per cluster.
// Blob coordinates and sizes are reported in heatmap cell units; the
// tracker and stabilizer keep those units, and normalization to [0,1]
// happens at the pipeline's output via contact.Frame.Normalize.
package heatmap
