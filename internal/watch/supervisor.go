package watch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/loykin/procpresence/internal/metrics"
)

// DefaultCooldown is the pause between a failed cycle and the next one.
const DefaultCooldown = 60 * time.Second

// cycleRunner is the part of Watcher the supervisor drives.
type cycleRunner interface {
	Run(ctx context.Context) error
}

// Supervisor restarts the watch cycle after any failure, waiting a fixed
// cooldown in between. Each restart begins from Off, so a state already
// signalled before the failure may be signalled again.
type Supervisor struct {
	runner   cycleRunner
	cooldown time.Duration
	logger   *slog.Logger
	board    *Board

	restarts int
	// OnRestart, when set, is called after each failed cycle before the cooldown.
	OnRestart func(restarts int, err error)
}

func NewSupervisor(w *Watcher, cooldown time.Duration, logger *slog.Logger) *Supervisor {
	return newSupervisor(w, w.Board(), cooldown, logger)
}

func newSupervisor(r cycleRunner, b *Board, cooldown time.Duration, logger *slog.Logger) *Supervisor {
	if cooldown < 0 {
		cooldown = DefaultCooldown
	}
	if logger == nil {
		logger = slog.Default()
	}
	if b == nil {
		b = NewBoard("", "")
	}
	return &Supervisor{runner: r, cooldown: cooldown, logger: logger, board: b}
}

// Restarts returns how many failed cycles have been restarted so far.
// Only meaningful once Run has returned or from OnRestart.
func (s *Supervisor) Restarts() int { return s.restarts }

// Run blocks until ctx is cancelled and returns nil in that case.
func (s *Supervisor) Run(ctx context.Context) error {
	for cycle := 1; ; cycle++ {
		if err := ctx.Err(); err != nil {
			s.logger.Info("watcher stopped", slog.Any("reason", err))
			return nil
		}
		s.board.cycleStarted(cycle)
		err := s.runner.Run(ctx)
		if ctx.Err() != nil {
			s.logger.Info("watcher stopped", slog.Any("reason", ctx.Err()))
			return nil
		}
		if err == nil {
			err = errors.New("watch cycle ended without error")
		}
		s.restarts++
		metrics.IncRestart()
		s.board.failed(err, s.restarts, time.Now())
		s.logger.Warn("something went wrong, waiting before watching again",
			slog.Any("error", err),
			slog.Int("cycle", cycle),
			slog.Duration("cooldown", s.cooldown))
		if s.OnRestart != nil {
			s.OnRestart(s.restarts, err)
		}
		if err := sleepCtx(ctx, s.cooldown); err != nil {
			s.logger.Info("watcher stopped", slog.Any("reason", err))
			return nil
		}
	}
}
