package session

import (
	"sync"
	"time"
)

// Scheduler runs fn repeatedly every interval until the returned stop
// function is called. Stop must be idempotent and must not block on fn.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// TickerScheduler is the real-time Scheduler backed by time.Ticker.
type TickerScheduler struct{}

// Every starts a ticker goroutine.
func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
