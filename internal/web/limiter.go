package web

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/habitcheck/internal/core"
)

// validationLimiter bounds the number of uploads validated at once.
// Each validation holds the whole file in memory, so the bound caps
// memory as well as CPU.
type validationLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

func newValidationLimiter(maxConcurrent int, maxWait time.Duration) *validationLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &validationLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// acquire waits up to maxWait for a slot. It returns core.ErrBusy on
// timeout and ctx.Err() if ctx ends first. Callers must release.
func (l *validationLimiter) acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return core.ErrBusy
	}
}

func (l *validationLimiter) release() {
	l.active.Add(-1)
	<-l.slots
}

// limiterStatus is the limiter snapshot reported by /healthz.
type limiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

func (l *validationLimiter) status() limiterStatus {
	return limiterStatus{
		Active:        int(l.active.Load()),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
