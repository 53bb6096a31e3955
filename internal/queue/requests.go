// Package queue implements the P×P communication queue matrix and the
// tagged request records that accumulate in it during a superstep: Put,
// Get, Send, PushReg and PopReg. Each matrix cell is owned by one side
// (the issuer) during accumulation and drained by the other side (or, for
// Get, by the source) after the barrier — the matrix itself does no
// locking, relying entirely on the superstep engine's barrier to establish
// the happens-before edge between the two halves.
package queue

import (
	"github.com/haampie/BSPLib/internal/arena"
	"github.com/haampie/BSPLib/internal/registry"
)

// PutRequest describes bytes staged in the issuer's put arena that must be
// written into Dst once the barrier fires.
type PutRequest struct {
	SrcOffset arena.Offset
	N         int
	Dst       []byte
}

// GetRequest describes a fetch resolved at issue time to the exact source
// bytes (aliasing the owner's registered region), to be staged into the
// owner's put arena — and turned into a PutRequest back to the issuer — at
// phase A of Sync.
type GetRequest struct {
	LocalDst []byte
	Src      []byte
}

// SendRequest describes a tagged message staged in a per-direction
// tmp-send arena, to be merged into the receiver's delivered queue at
// phase B of Sync.
type SendRequest struct {
	PayloadOffset arena.Offset
	PayloadSize   int
	TagOffset     arena.Offset
	TagSize       int
}

// PushRequest describes a deferred PushReg: the region, its advertised
// size, and the global index it was assigned at issue time.
type PushRequest struct {
	Region *registry.Region
	Size   int
	Index  int
}

// PopRequest describes a deferred PopReg.
type PopRequest struct {
	Region *registry.Region
}
