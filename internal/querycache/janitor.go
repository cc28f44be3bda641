package querycache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/league-catalog/internal/logging"
)

// janitor sweeps expired entries on an interval until stopped.
type janitor struct {
	interval time.Duration
	sweep    func() int
	logger   *slog.Logger

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	wg       sync.WaitGroup
}

func newJanitor(interval time.Duration, sweep func() int, logger *slog.Logger) *janitor {
	return &janitor{
		interval: interval,
		sweep:    sweep,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

func (j *janitor) start() {
	j.startMu.Lock()
	if j.started {
		j.startMu.Unlock()
		return
	}
	j.started = true
	j.ticker = time.NewTicker(j.interval)
	j.startMu.Unlock()

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		for {
			select {
			case <-j.done:
				return
			case <-j.ticker.C:
				if n := j.sweep(); n > 0 {
					logging.Info(j.logger, "cache janitor evicted entries", slog.Int(logging.FieldCount, n))
				}
			}
		}
	}()
}

// stop halts the loop and waits for an in-progress sweep to finish.
func (j *janitor) stop() {
	j.stopOnce.Do(func() {
		close(j.done)
		j.startMu.Lock()
		if j.ticker != nil {
			j.ticker.Stop()
		}
		j.startMu.Unlock()
	})
	j.wg.Wait()
}
