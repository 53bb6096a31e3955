// Package bsp implements a shared-memory Bulk Synchronous Parallel
// runtime: a fixed group of worker goroutines ("processes") alternates
// between local computation supersteps and a barrier-driven Sync at which
// every deferred Put, Get, Send and registration change takes effect.
package bsp

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/haampie/BSPLib/internal/arena"
	"github.com/haampie/BSPLib/internal/barrier"
	"github.com/haampie/BSPLib/internal/bsplog"
	"github.com/haampie/BSPLib/internal/metrics"
	"github.com/haampie/BSPLib/internal/queue"
	"github.com/haampie/BSPLib/internal/registry"
)

// EntryFunc is the user-supplied worker body. Begin invokes it on P-1
// spawned goroutines; the caller (conventionally pid 0) must invoke it
// itself on the *Proc Begin returns, matching the original library's
// "the main thread should also call the entry function" contract.
type EntryFunc func(p *Proc)

// Runtime is the BSP singleton: the registration tables, pending-request
// queues, arenas and barrier for one Begin/End cycle. Obtain it with
// GetInstance; construct it directly only in tests that want an isolated
// instance.
type Runtime struct {
	mu sync.Mutex

	entry     EntryFunc
	procCount int
	ended     bool
	checks    bool

	abort          atomic.Bool
	diagWriter     io.Writer
	spinIterations int

	tagSize    atomic.Uint64
	newTagSize []int

	barrier *barrier.Barrier

	regs []*registry.Table

	putArenas []*arena.Arena
	putQueue  *queue.Matrix[queue.PutRequest]
	getQueue  *queue.Matrix[queue.GetRequest]

	tmpSendArenas [][]*arena.Arena
	tmpSendQueue  *queue.Matrix[queue.SendRequest]
	recvSendArenas []*arena.Arena
	sendDelivered  [][]queue.SendRequest
	sendRecvIndex  []int

	pushQueue [][]queue.PushRequest
	popQueue  [][]queue.PopRequest

	startTimes []int64 // nanoseconds, per rt.clock

	clock   clock.Clock
	log     *bsplog.Logger
	metrics *metrics.Set
	runID   uuid.UUID

	group *errgroup.Group
}

var (
	instance     *Runtime
	instanceOnce sync.Once
)

// GetInstance returns the process-wide Runtime, constructing it lazily on
// first access and reusing it for the lifetime of the program — the "no
// global, one lazily-initialized shared instance" shape.
func GetInstance() *Runtime {
	instanceOnce.Do(func() {
		instance = newRuntime()
	})
	return instance
}

func newRuntime() *Runtime {
	cfg := defaultConfig()
	return &Runtime{
		ended:      true,
		checks:     cfg.checksEnabled,
		clock:      cfg.clock,
		log:        cfg.log,
		diagWriter: cfg.diag,
	}
}

// Init records the entry function and resets pid-0 bookkeeping for a new
// Begin/End cycle. It warns, rather than failing, if the previous cycle
// never reached End cleanly — a state-leak guard, not a recovery
// mechanism: no attempt is made to salvage the stale state.
func (rt *Runtime) Init(entry EntryFunc, opts ...Option) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rt.entry = entry
	rt.tagSize.Store(0)
	rt.clock = cfg.clock
	rt.log = cfg.log
	rt.checks = cfg.checksEnabled
	rt.diagWriter = cfg.diag
	rt.spinIterations = cfg.spinIterations

	if !rt.ended && !rt.abort.Load() {
		rt.log.Warn("initialisation data corresponding to another run found")
		rt.log.Warn("that other run did not terminate gracefully")
	}
}

// Begin allocates per-process state for p participants, spawns p-1
// auxiliary goroutines running the entry function, starts pid 0's timer,
// and returns pid 0's handle. The caller must invoke the entry function
// on it directly and eventually call End.
func (rt *Runtime) Begin(p int) *Proc {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.abort.Store(false)
	rt.ended = false
	rt.procCount = p
	rt.runID = uuid.New()
	rt.metrics = metrics.NewSet()

	rt.regs = make([]*registry.Table, p)
	rt.putArenas = make([]*arena.Arena, p)
	rt.recvSendArenas = make([]*arena.Arena, p)
	rt.sendDelivered = make([][]queue.SendRequest, p)
	rt.sendRecvIndex = make([]int, p)
	rt.pushQueue = make([][]queue.PushRequest, p)
	rt.popQueue = make([][]queue.PopRequest, p)
	rt.newTagSize = make([]int, p)
	rt.startTimes = make([]int64, p)

	rt.tmpSendArenas = make([][]*arena.Arena, p)
	for i := range rt.tmpSendArenas {
		rt.tmpSendArenas[i] = make([]*arena.Arena, p)
		for j := range rt.tmpSendArenas[i] {
			rt.tmpSendArenas[i][j] = arena.New()
		}
	}

	for i := 0; i < p; i++ {
		rt.regs[i] = registry.NewTable()
		rt.putArenas[i] = arena.New()
		rt.recvSendArenas[i] = arena.New()
	}

	rt.putQueue = queue.NewMatrix[queue.PutRequest](p)
	rt.getQueue = queue.NewMatrix[queue.GetRequest](p)
	rt.tmpSendQueue = queue.NewMatrix[queue.SendRequest](p)

	if rt.spinIterations > 0 {
		rt.barrier = barrier.NewWithSpin(p, rt.spinIterations)
	} else {
		rt.barrier = barrier.New(p)
	}

	rt.log.Info("begin", bsplog.Int("p", p), bsplog.String("run_id", rt.runID.String()))

	rt.group = new(errgroup.Group)
	for i := 1; i < p; i++ {
		pid := i
		rt.group.Go(func() error { return rt.runWorker(pid) })
	}

	rt.startTimes[0] = rt.clock.Now().UnixNano()
	return rt.newProc(0)
}

func (rt *Runtime) runWorker(pid int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ae, ok := r.(*AbortError); ok {
				rt.log.Error("worker aborted", bsplog.Int("pid", pid), bsplog.String("reason", ae.Reason))
				err = nil
				return
			}
			panic(r)
		}
	}()

	rt.startTimes[pid] = rt.clock.Now().UnixNano()
	rt.entry(rt.newProc(pid))
	return nil
}

func (rt *Runtime) newProc(pid int) *Proc {
	return &Proc{rt: rt, pid: pid, log: rt.log.Named(fmt.Sprintf("proc-%d", pid))}
}

// NProcs returns the process count fixed by the last Begin, or the host's
// hardware concurrency if Begin has not yet been called.
func (rt *Runtime) NProcs() int {
	if rt.procCount > 0 {
		return rt.procCount
	}
	return runtime.NumCPU()
}

// Ended reports whether the last Begin/End cycle reached End. It mirrors
// the stale-run guard Init consults, not a general run-status query.
func (rt *Runtime) Ended() bool {
	return rt.ended
}

func (rt *Runtime) isAborted() bool {
	return rt.abort.Load()
}

func (rt *Runtime) checkAborted() {
	if rt.abort.Load() {
		panic(NewAbortError(""))
	}
}

// vabort sets the abort flag, writes the formatted diagnostic, and wakes
// any barrier waiters immediately. It does not itself unwind the caller —
// Proc.Abort/VAbort panic with the resulting AbortError right after
// calling this, the same way VAbort's CheckAborted throws in the original.
func (rt *Runtime) vabort(msg string) {
	rt.abort.Store(true)
	fmt.Fprintln(rt.diagWriter, msg)
	rt.log.Error("abort", bsplog.String("message", msg))
	if rt.barrier != nil {
		rt.barrier.Abandon()
	}
}
