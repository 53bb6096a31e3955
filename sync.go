package bsp

import (
	"github.com/haampie/BSPLib/internal/bsplog"
	"github.com/haampie/BSPLib/internal/queue"
)

// Sync executes the four-phase barrier protocol that makes every Put,
// Get, Send, PushReg and PopReg issued this superstep take effect:
//
//	phase A: barrier; adopt pid 0's tag-size proposal; turn inbound Gets
//	         into synthesized Puts (the owner stages the requested bytes
//	         into its own put arena and queues a Put back to the
//	         requester) — this is why Gets resolve one phase ahead of
//	         ordinary Puts.
//	phase B: barrier; apply PopReg; merge inbound Sends into the
//	         delivered queue; apply inbound Puts (including the
//	         synthesized ones from phase A), each (owner, receiver)
//	         queue in reverse issuance order so the earliest-issued Put
//	         wins on overlap.
//	phase C: barrier; clear the put arena (now that every receiver has
//	         extracted from it) and apply PushReg, so new global indices
//	         are visible starting next superstep.
//	phase D: barrier, handing control back to user code.
func (p *Proc) Sync() {
	rt := p.rt

	rt.waitBarrier()
	if p.pid == 0 {
		if ns := rt.newTagSize[0]; uint64(ns) != rt.tagSize.Load() {
			rt.tagSize.Store(uint64(ns))
		}
	}
	rt.processGetRequests(p.pid)

	rt.waitBarrier()
	rt.processPopRequests(p.pid)
	rt.processSendRequests(p.pid)
	rt.processPutRequests(p.pid)

	rt.waitBarrier()
	rt.putArenas[p.pid].Clear()
	rt.processPushRequests(p.pid)

	rt.waitBarrier()

	rt.metrics.SyncCount.Inc()
}

// End issues a final barrier rendezvous so every process's last
// superstep is known to have completed, then — on pid 0 only — waits for
// every spawned worker to return.
func (p *Proc) End() error {
	rt := p.rt

	rt.mu.Lock()
	rt.ended = true
	rt.mu.Unlock()

	rt.log.Info("end", bsplog.Int("pid", p.pid))

	barrierErr := rt.barrier.Wait(rt.isAborted)

	if p.pid == 0 {
		if err := rt.group.Wait(); err != nil {
			return err
		}
	}

	if barrierErr != nil {
		return NewAbortError("")
	}
	return nil
}

func (rt *Runtime) waitBarrier() {
	start := rt.clock.Now()
	err := rt.barrier.Wait(rt.isAborted)
	rt.metrics.BarrierWait.Observe(rt.clock.Now().Sub(start).Seconds())
	if err != nil {
		panic(NewAbortError(""))
	}
}

// processGetRequests turns every Get addressed to pid into a Put back to
// the requester. Within one requester's queue, requests are processed in
// reverse issuance order, so the synthesized Puts are queued in reverse;
// processPutRequests reverses that queue again, which applies overlapping
// Gets from one requester in issuance order: the last-issued Get wins.
func (rt *Runtime) processGetRequests(pid int) {
	for requester := 0; requester < rt.procCount; requester++ {
		cell := rt.getQueue.ToMe(requester, pid)
		reqs := *cell

		for i := len(reqs) - 1; i >= 0; i-- {
			req := reqs[i]
			off := rt.putArenas[pid].Alloc(len(req.Src), req.Src)

			out := rt.putQueue.FromMe(requester, pid)
			*out = append(*out, queue.PutRequest{SrcOffset: off, N: len(req.Src), Dst: req.LocalDst})
		}

		*cell = reqs[:0]
	}
}

func (rt *Runtime) processPopRequests(pid int) {
	for _, req := range rt.popQueue[pid] {
		rt.regs[pid].ApplyPop(req.Region)
	}
	rt.popQueue[pid] = rt.popQueue[pid][:0]
}

// processSendRequests merges every tmp-send arena addressed to pid into
// pid's single receive arena, in owner order 0..P-1, and builds the
// delivered queue those merged offsets index into. Within one owner,
// issuance order is preserved, giving Send FIFO delivery per direction.
func (rt *Runtime) processSendRequests(pid int) {
	rt.sendDelivered[pid] = rt.sendDelivered[pid][:0]
	rt.sendRecvIndex[pid] = 0

	recv := rt.recvSendArenas[pid]
	recv.Clear()

	for owner := 0; owner < rt.procCount; owner++ {
		cell := rt.tmpSendQueue.ToMe(owner, pid)
		reqs := *cell
		if len(reqs) == 0 {
			continue
		}

		stage := rt.tmpSendArenas[owner][pid]
		base := recv.Merge(stage)

		for _, req := range reqs {
			req.PayloadOffset += base
			req.TagOffset += base
			rt.sendDelivered[pid] = append(rt.sendDelivered[pid], req)
		}

		*cell = reqs[:0]
		stage.Clear()
	}
}

// processPutRequests applies every Put addressed to pid, one owner at a
// time, extracting from the OWNER's put arena (not pid's) since that is
// where the source bytes were staged at issue time. Within one owner's
// queue, requests apply in reverse issuance order: the earliest-issued
// overlapping Put ends up applied last and therefore wins.
func (rt *Runtime) processPutRequests(pid int) {
	for owner := 0; owner < rt.procCount; owner++ {
		cell := rt.putQueue.ToMe(owner, pid)
		reqs := *cell

		for i := len(reqs) - 1; i >= 0; i-- {
			req := reqs[i]
			rt.putArenas[owner].Extract(req.SrcOffset, req.N, req.Dst)
		}

		*cell = reqs[:0]
	}
}

func (rt *Runtime) processPushRequests(pid int) {
	for _, req := range rt.pushQueue[pid] {
		rt.regs[pid].ApplyPush(req.Region, req.Size, req.Index)
	}
	rt.pushQueue[pid] = rt.pushQueue[pid][:0]
}
