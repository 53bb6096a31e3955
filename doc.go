package bsp

// Init records entry as the body every worker runs and prepares the
// process-wide Runtime for a new Begin/End cycle. It is a convenience
// wrapper around GetInstance().Init — most callers never need a Runtime
// reference of their own.
func Init(entry EntryFunc, opts ...Option) {
	GetInstance().Init(entry, opts...)
}

// Begin is a convenience wrapper around GetInstance().Begin.
func Begin(p int) *Proc {
	return GetInstance().Begin(p)
}

// NProcs is a convenience wrapper around GetInstance().NProcs, usable
// before Begin has been called.
func NProcs() int {
	return GetInstance().NProcs()
}
