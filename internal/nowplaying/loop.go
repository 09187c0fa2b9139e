// Package nowplaying runs the periodic playback polls: the now-playing
// watcher that keeps the current theme up to date, and the history poller
// that feeds the history recorder.
package nowplaying

import (
	"context"
	"sync"
	"time"

	"github.com/tessro/tuneboard/internal/logging"
	"github.com/tessro/tuneboard/internal/metrics"
)

// Loop calls fn on a fixed interval from a single goroutine. A poll runs to
// completion before the next one starts; ticks that fire meanwhile are
// dropped. Loop implements suture.Service.
type Loop struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	fn       func(ctx context.Context)

	stopOnce sync.Once
	done     chan struct{}
}

// NewLoop creates a loop. Each poll gets a context bounded by timeout; a
// zero timeout uses the interval.
func NewLoop(name string, interval, timeout time.Duration, fn func(ctx context.Context)) *Loop {
	if interval <= 0 {
		interval = time.Second
	}
	if timeout <= 0 {
		timeout = interval
	}
	return &Loop{
		name:     name,
		interval: interval,
		timeout:  timeout,
		fn:       fn,
		done:     make(chan struct{}),
	}
}

// Serve polls immediately and then on every tick until ctx is done or Stop
// is called.
func (l *Loop) Serve(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-ticker.C:
			l.poll(ctx)

			// Drop a tick that queued up while polling.
			select {
			case <-ticker.C:
				metrics.PollsSkipped.WithLabelValues(l.name).Inc()
			default:
			}
		}
	}
}

// Stop ends Serve. It is safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *Loop) String() string {
	return l.name
}

func (l *Loop) poll(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	ctx = logging.ContextWithNewCorrelationID(ctx)

	start := time.Now()
	l.fn(ctx)
	metrics.PollDuration.WithLabelValues(l.name).Observe(time.Since(start).Seconds())
}
