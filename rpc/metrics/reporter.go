package metrics

import (
	"sync"
	"time"
)

// StartReporter logs the collector's stats every interval until the returned
// stop function is called. Nothing is started for a non-positive interval.
func (c *Collector) StartReporter(interval time.Duration) (stop func()) {
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				Logger.Infof("Stats: %s", c.Stats())
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-stopped
		})
	}
}
