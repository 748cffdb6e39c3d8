package worker

import (
	"context"
	"time"

	"github.com/openshelf/openshelf/config"
	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/realtime"
	"github.com/openshelf/openshelf/store"
	"go.uber.org/zap"
)

// Sweeper periodically flips issued loans past their due date to
// overdue, so the status and the accrued fine survive a restart even
// when nobody asks for the loan.
type Sweeper struct {
	store *store.Store
	hub   *realtime.Hub
}

func NewSweeper(store *store.Store, hub *realtime.Hub) *Sweeper {
	return &Sweeper{store: store, hub: hub}
}

// Run sweeps once at startup and then on every tick until ctx is
// cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	interval := time.Duration(config.Opts.OverdueSweepInterval) * time.Minute
	log.Info("Overdue sweeper is running", zap.Duration("interval", interval))

	s.sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Overdue sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	swept, err := s.store.SweepOverdue(time.Now(), config.Opts.FinePerDay)
	if err != nil {
		log.Error("Overdue sweep failed", zap.Error(err))
		return
	}
	if swept > 0 && s.hub != nil {
		s.hub.Broadcast(realtime.EventLoanOverdue, map[string]int{"loans": swept})
	}
}
