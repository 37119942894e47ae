// Package tracker associates each frame's detected Blobs with the
// previous frame's stabilized Contact identities, minting
// fresh identities for unmatched blobs and letting unmatched identities
// lapse. The association problem is solved by the Hungarian algorithm,
// gated by a maximum per-frame movement distance.
package tracker
