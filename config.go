package bsp

import (
	"io"
	"os"

	"github.com/benbjohnson/clock"

	"github.com/haampie/BSPLib/internal/bsplog"
)

// config holds the knobs a caller can override via Option before Begin.
// There is no environment-variable or on-disk configuration; every setting
// is supplied in code.
type config struct {
	clock          clock.Clock
	diag           io.Writer
	log            *bsplog.Logger
	spinIterations int
	checksEnabled  bool
}

func defaultConfig() config {
	return config{
		clock:          clock.New(),
		diag:           os.Stderr,
		log:            bsplog.Default("bsp"),
		spinIterations: 0, // 0 means "let barrier.New pick its default"
		checksEnabled:  true,
	}
}

// Option configures a Runtime. Pass Options to Init.
type Option func(*config)

// WithClock overrides the clock used for Time() and barrier-wait metrics.
// Tests inject a mock clock (github.com/benbjohnson/clock) to make
// Time-dependent assertions deterministic.
func WithClock(c clock.Clock) Option {
	return func(cfg *config) { cfg.clock = c }
}

// WithDiagnosticWriter overrides the stream Abort/VAbort write formatted
// messages to. Defaults to os.Stderr, matching the diagnostic stream the
// core writes to.
func WithDiagnosticWriter(w io.Writer) Option {
	return func(cfg *config) { cfg.diag = w }
}

// WithLogger overrides the base logger the runtime and every Proc derive
// their component-scoped loggers from.
func WithLogger(l *bsplog.Logger) Option {
	return func(cfg *config) { cfg.log = l }
}

// WithBarrierSpinIterations overrides the number of busy-spin iterations
// the barrier performs before falling back to condition-variable waiting.
func WithBarrierSpinIterations(n int) Option {
	return func(cfg *config) { cfg.spinIterations = n }
}

// WithChecks toggles the usage-assertion check on Send's tag length
// (ErrTagSize). Disabling it trades safety for the lower overhead of a
// release build. Put and Get report an unresolved registration whether or
// not checks are enabled, and process indices are not range-checked.
func WithChecks(enabled bool) Option {
	return func(cfg *config) { cfg.checksEnabled = enabled }
}
