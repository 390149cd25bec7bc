package page

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stopwatch counts whole seconds for one in-flight analysis. Its goroutine
// lives exactly as long as the request: Stop ends it and is safe to call
// more than once.
type Stopwatch struct {
	start   time.Time
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	seconds atomic.Int64
}

// StartStopwatch starts ticking every interval. onTick, if set, runs on the
// stopwatch goroutine and receives the elapsed whole seconds.
func StartStopwatch(interval time.Duration, onTick func(seconds int)) *Stopwatch {
	if interval <= 0 {
		interval = time.Second
	}

	s := &Stopwatch{
		start: time.Now(),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer close(s.done)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				sec := s.elapsed()
				s.seconds.Store(int64(sec))
				if onTick != nil {
					onTick(sec)
				}
			}
		}
	}()

	return s
}

// Seconds returns the value shown by the last tick
func (s *Stopwatch) Seconds() int {
	return int(s.seconds.Load())
}

// Stop halts the ticker, waits for its goroutine and returns the final
// elapsed whole seconds
func (s *Stopwatch) Stop() int {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
		s.seconds.Store(int64(s.elapsed()))
	})
	return s.Seconds()
}

func (s *Stopwatch) elapsed() int {
	return int(time.Since(s.start) / time.Second)
}
