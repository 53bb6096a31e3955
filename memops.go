package bsp

import "github.com/haampie/BSPLib/internal/queue"

// Put copies n bytes from src into target's region identified by dst, at
// byte offset offset, effective at the next Sync. dst is resolved through
// the CALLING process's own registration table to a global index; the
// bytes actually land in target's own region registered at that same
// index — the two must have been pushed in the same relative order for
// this to address the same logical region (SPMD discipline).
func (p *Proc) Put(target int, src []byte, dst *Region, offset, n int) error {
	idx, _, err := p.rt.regs[p.pid].Resolve(dst)
	if err != nil {
		return ErrNotRegistered
	}
	targetRegion, ok := p.rt.regs[target].AddressAt(idx)
	if !ok || targetRegion == nil {
		return ErrMissingPeerRegistration
	}

	off := p.rt.putArenas[p.pid].Alloc(n, src)
	destSlice := targetRegion.Data[offset : offset+n]

	cell := p.rt.putQueue.FromMe(target, p.pid)
	*cell = append(*cell, queue.PutRequest{SrcOffset: off, N: n, Dst: destSlice})

	p.rt.metrics.Puts.Inc()
	return nil
}

// Get fetches n bytes from target's region identified by src, at byte
// offset offset, into the local buffer dst, effective at the next Sync.
// src is resolved through the calling process's own registration table,
// exactly as Put resolves dst — see Put's doc comment for why that works.
func (p *Proc) Get(target int, src *Region, offset int, dst []byte, n int) error {
	idx, _, err := p.rt.regs[p.pid].Resolve(src)
	if err != nil {
		return ErrNotRegistered
	}
	targetRegion, ok := p.rt.regs[target].AddressAt(idx)
	if !ok || targetRegion == nil {
		return ErrMissingPeerRegistration
	}

	srcSlice := targetRegion.Data[offset : offset+n]

	cell := p.rt.getQueue.FromMe(target, p.pid)
	*cell = append(*cell, queue.GetRequest{LocalDst: dst, Src: srcSlice})

	p.rt.metrics.Gets.Inc()
	return nil
}

// Send queues a tagged message for target, effective at the next Sync.
// tag's length must equal the tag size currently in effect; change it
// with SetTagsize before the Sync that should carry the new length.
func (p *Proc) Send(target int, tag, payload []byte) error {
	ts := int(p.rt.tagSize.Load())
	if p.rt.checks && len(tag) != ts {
		return ErrTagSize
	}

	stage := p.rt.tmpSendArenas[p.pid][target]
	payloadOff := stage.Alloc(len(payload), payload)
	tagOff := stage.Alloc(ts, tag)

	cell := p.rt.tmpSendQueue.FromMe(target, p.pid)
	*cell = append(*cell, queue.SendRequest{
		PayloadOffset: payloadOff,
		PayloadSize:   len(payload),
		TagOffset:     tagOff,
		TagSize:       ts,
	})

	p.rt.metrics.Sends.Inc()
	return nil
}

// Move consumes the head of the calling process's delivered-send queue,
// copying min(len(buf), payload size) bytes into buf and returning how
// many bytes were copied. It returns 0 once the queue is exhausted.
func (p *Proc) Move(buf []byte) int {
	q := p.rt.sendDelivered[p.pid]
	idx := p.rt.sendRecvIndex[p.pid]
	if idx >= len(q) {
		return 0
	}

	req := q[idx]
	p.rt.sendRecvIndex[p.pid]++

	n := len(buf)
	if req.PayloadSize < n {
		n = req.PayloadSize
	}
	p.rt.recvSendArenas[p.pid].Extract(req.PayloadOffset, n, buf[:n])
	return n
}

// GetTag peeks the next delivered send without consuming it: status is
// the payload size, or QueueEmpty if there is nothing left this
// superstep. When status is not QueueEmpty, tag is filled with the
// message's tag bytes (tag must be at least the current tag size long).
func (p *Proc) GetTag(tag []byte) int {
	q := p.rt.sendDelivered[p.pid]
	idx := p.rt.sendRecvIndex[p.pid]
	if idx >= len(q) {
		return QueueEmpty
	}

	req := q[idx]
	p.rt.recvSendArenas[p.pid].Extract(req.TagOffset, req.TagSize, tag)
	return req.PayloadSize
}

// SetTagsize proposes newSize as the tag size for the superstep after the
// next Sync (only pid 0's proposal is adopted) and returns the tag size
// currently in effect.
func (p *Proc) SetTagsize(newSize int) int {
	old := int(p.rt.tagSize.Load())
	p.rt.newTagSize[p.pid] = newSize
	return old
}

// QSize reports the number of messages and their total payload bytes in
// the calling process's delivered-send queue for the current superstep,
// regardless of how many have already been consumed via Move.
func (p *Proc) QSize() (count, bytes int) {
	q := p.rt.sendDelivered[p.pid]
	count = len(q)
	for _, r := range q {
		bytes += r.PayloadSize
	}
	p.rt.metrics.QueueEntries.Set(float64(count))
	p.rt.metrics.QueueBytes.Set(float64(bytes))
	return count, bytes
}
