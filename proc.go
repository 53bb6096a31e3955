package bsp

import (
	"fmt"
	"time"

	"github.com/haampie/BSPLib/internal/bsplog"
	"github.com/haampie/BSPLib/internal/queue"
)

// QueueEmpty is the status GetTag reports when the delivered-send queue
// has no more entries for the calling process this superstep.
const QueueEmpty = -1

// Proc is a worker's handle onto the shared Runtime: its process index
// and a logger scoped to that index. It replaces the original library's
// thread-local process id — every operation that was implicitly "the
// calling thread's pid" is now an explicit method on the Proc the caller
// was handed at Begin or received as EntryFunc's argument.
type Proc struct {
	rt  *Runtime
	pid int
	log *bsplog.Logger
}

// ProcId returns this process's index in [0, NProcs()).
func (p *Proc) ProcId() int { return p.pid }

// NProcs returns the process count fixed for this Begin/End cycle.
func (p *Proc) NProcs() int { return p.rt.NProcs() }

// Time returns the duration elapsed since Begin started this process's
// timer. It panics with an *AbortError, recovered at the worker boundary,
// if the abort flag has been observed.
func (p *Proc) Time() time.Duration {
	p.rt.checkAborted()
	return time.Duration(p.rt.clock.Now().UnixNano() - p.rt.startTimes[p.pid])
}

// Abort sets the process-wide abort flag, writes the formatted message to
// the diagnostic stream, wakes any barrier waiters immediately, and
// panics with an *AbortError — recovered at the worker boundary for
// spawned workers; the caller's own (conventionally pid 0) invocation is
// not wrapped, matching the original library's handling of its main
// thread.
func (p *Proc) Abort(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.rt.vabort(msg)
	panic(NewAbortError(msg))
}

// VAbort is Abort with the arguments already gathered into a slice —
// useful when forwarding a formatted message built elsewhere.
func (p *Proc) VAbort(format string, args []interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.rt.vabort(msg)
	panic(NewAbortError(msg))
}

// PushReg defers registration of region under the next Sync's PushReg
// application phase. The global index assigned is the count of PushRegs
// this process has issued so far, matching every other process's count
// only if all processes push in lockstep (SPMD discipline, unverified).
func (p *Proc) PushReg(region *Region, size int) {
	idx := p.rt.regs[p.pid].NextIndex()
	p.rt.pushQueue[p.pid] = append(p.rt.pushQueue[p.pid], queue.PushRequest{Region: region, Size: size, Index: idx})
	p.rt.metrics.PushReg.Inc()
}

// PopReg defers deregistration of region under the next Sync.
func (p *Proc) PopReg(region *Region) {
	p.rt.popQueue[p.pid] = append(p.rt.popQueue[p.pid], queue.PopRequest{Region: region})
	p.rt.metrics.PopReg.Inc()
}
