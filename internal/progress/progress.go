package progress

import (
	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
)

var (
	_ diagnostics.Progress = (*Console)(nil)
	_ diagnostics.Progress = (*Logger)(nil)
)

// Logger writes progress callbacks as structured log lines.
type Logger struct {
	logger *zap.Logger
	step   int
	target string
}

// NewLogger creates a progress logger.
func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger.Named("progress")}
}

// SetTotalSteps logs the number of sources about to be collected.
func (l *Logger) SetTotalSteps(n int) {
	l.logger.Info("Collecting diagnostics", zap.Int("steps", n))
}

// Started records the current step and logs it at debug level.
func (l *Logger) Started(step int, target string) {
	l.step = step
	l.target = target
	l.logger.Debug("Step started", zap.Int("step", step), zap.String("target", target))
}

// PercentChanged is not logged; per-percent lines only add noise.
func (l *Logger) PercentChanged(int) {}

// Info logs msg for the current step.
func (l *Logger) Info(msg string) {
	l.logger.Info(msg, zap.Int("step", l.step), zap.String("target", l.target))
}

// Error logs a failed step with its cause.
func (l *Logger) Error(msg string, err error) {
	l.logger.Error(msg, zap.Int("step", l.step), zap.String("target", l.target), zap.Error(err))
}

// Finished logs the end of the current step at debug level.
func (l *Logger) Finished() {
	l.logger.Debug("Step finished", zap.Int("step", l.step), zap.String("target", l.target))
}

type tee []diagnostics.Progress

// Tee forwards every callback to each of ps in order.
func Tee(ps ...diagnostics.Progress) diagnostics.Progress {
	return tee(ps)
}

func (t tee) SetTotalSteps(n int) {
	for _, p := range t {
		p.SetTotalSteps(n)
	}
}

func (t tee) Started(step int, target string) {
	for _, p := range t {
		p.Started(step, target)
	}
}

func (t tee) PercentChanged(percent int) {
	for _, p := range t {
		p.PercentChanged(percent)
	}
}

func (t tee) Info(msg string) {
	for _, p := range t {
		p.Info(msg)
	}
}

func (t tee) Error(msg string, err error) {
	for _, p := range t {
		p.Error(msg, err)
	}
}

func (t tee) Finished() {
	for _, p := range t {
		p.Finished()
	}
}

type nop struct{}

// Nop discards every callback.
func Nop() diagnostics.Progress { return nop{} }

func (nop) SetTotalSteps(int) {}
func (nop) Started(int, string) {}
func (nop) PercentChanged(int) {}
func (nop) Info(string) {}
func (nop) Error(string, error) {}
func (nop) Finished() {}
