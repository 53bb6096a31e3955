// Package registry implements the registration service: the mapping from a
// process-local registered region to a globally consistent register index,
// and from that index back to each process's own registered region. Because
// Put/Get run in a single shared Go address space, a registered region's
// "raw address" is simply an identity token — a *Region pointer — rather
// than anything that needs bridging to C callers, per the host-bridging
// design note for an all-native port.
package registry

import "errors"

// ErrNotRegistered is returned when Resolve is asked about a region that
// has no (or no longer has a) local_to_index entry.
var ErrNotRegistered = errors.New("registry: region not registered")

// Region is the opaque handle a deferred PushReg registers. Its pointer
// identity is the registration key, matching the "byte-range with identity
// equals handle" design the original's raw-address scheme maps to in Go.
type Region struct {
	Data []byte
}

type entry struct {
	size  int
	index int
}

// Table holds one process's registration state: the local_to_index map
// keyed by region identity, and the index_to_address sequence advertising
// this process's own registered region for every global index it has ever
// pushed. PopReg removes an entry from local_to_index but never compacts
// indexToAddress, so historical indices stay valid for any Put/Get whose
// destination resolution already happened this superstep.
type Table struct {
	localToIndex   map[*Region]entry
	indexToAddress []*Region

	registerCount int
}

// NewTable returns an empty registration table.
func NewTable() *Table {
	return &Table{localToIndex: make(map[*Region]entry)}
}

// NextIndex assigns the global index a PushReg of this region would get if
// applied right now, and advances the per-process register counter. The
// assignment is immediate (matching the original's register_count++
// semantics); insertion into the table itself is deferred to ApplyPush at
// the next Sync.
func (t *Table) NextIndex() int {
	idx := t.registerCount
	t.registerCount++
	return idx
}

// ApplyPush inserts region into local_to_index and appends it to
// indexToAddress at the given index. Called during Sync's push-application
// phase, never directly by worker code.
func (t *Table) ApplyPush(region *Region, size, index int) {
	t.localToIndex[region] = entry{size: size, index: index}
	if index == len(t.indexToAddress) {
		t.indexToAddress = append(t.indexToAddress, region)
	} else {
		// SPMD discipline guarantees pushes apply in order, but guard
		// against a gap rather than silently corrupting later indices.
		for len(t.indexToAddress) <= index {
			t.indexToAddress = append(t.indexToAddress, nil)
		}
		t.indexToAddress[index] = region
	}
}

// ApplyPop removes region from local_to_index without touching
// indexToAddress.
func (t *Table) ApplyPop(region *Region) {
	delete(t.localToIndex, region)
}

// Resolve returns the global index and registered size for a region
// previously applied to this table.
func (t *Table) Resolve(region *Region) (index, size int, err error) {
	e, ok := t.localToIndex[region]
	if !ok {
		return 0, 0, ErrNotRegistered
	}
	return e.index, e.size, nil
}

// AddressAt returns this process's own registered region for a global
// index, as advertised by an earlier applied PushReg. The bool is false if
// this table has no region applied at that index.
func (t *Table) AddressAt(index int) (*Region, bool) {
	if index < 0 || index >= len(t.indexToAddress) {
		return nil, false
	}
	r := t.indexToAddress[index]
	return r, r != nil
}

// Len reports how many entries are currently in indexToAddress, i.e. the
// highest register index this process has ever applied plus one.
func (t *Table) Len() int {
	return len(t.indexToAddress)
}
