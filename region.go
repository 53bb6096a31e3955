package bsp

import "github.com/haampie/BSPLib/internal/registry"

// Region is a registered memory region's handle: the token NewRegion
// returns, PushReg registers, and every Put/Get destination/source argument is expressed in terms of.
// Its identity (not its contents) is the registration key, so two Regions
// wrapping identical bytes are still distinct registrations.
type Region = registry.Region

// NewRegion wraps data as a registrable region. The returned Region must
// be pushed with PushReg before any process may Put or Get through it.
func NewRegion(data []byte) *Region {
	return &registry.Region{Data: data}
}
