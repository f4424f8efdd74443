package util

import (
	"sync"
	"time"

	"github.com/botweave/botweave/logger"
	"go.uber.org/zap"
)

// TickWorker runs fn once immediately on Start and then on a fixed interval.
// Start and Stop are idempotent; ticks run serially in one goroutine so two
// invocations of fn never overlap.
type TickWorker struct {
	name         string
	tickInterval time.Duration
	fn           func()
	wg           *sync.WaitGroup
	mu           sync.Mutex
	stop         chan struct{}
	running      bool
}

func NewTickWorker(name string, interval time.Duration, fn func(), wg *sync.WaitGroup) *TickWorker {
	return &TickWorker{
		name:         name,
		tickInterval: interval,
		fn:           fn,
		wg:           wg,
	}
}

// Start begins ticking. Returns false if the worker was already running.
func (tw *TickWorker) Start() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.running {
		return false
	}
	tw.stop = make(chan struct{})
	tw.running = true
	stop := tw.stop
	tw.wg.Add(1)
	go func() {
		defer tw.wg.Done()
		tw.fn()
		ticker := time.NewTicker(tw.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tw.fn()
			case <-stop:
				logger.Info("stopping tick worker", zap.String("worker", tw.name))
				return
			}
		}
	}()
	logger.Info("tick worker started", zap.String("worker", tw.name))
	return true
}

// Stop cancels pending ticks. An in-flight fn runs to completion. Returns
// false if the worker was not running.
func (tw *TickWorker) Stop() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if !tw.running {
		return false
	}
	close(tw.stop)
	tw.running = false
	return true
}

func (tw *TickWorker) IsRunning() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.running
}
