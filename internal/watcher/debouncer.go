package watcher

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// debouncer collapses bursts of events into one handler call per quiet
// period. Each path is reported once per batch.
type debouncer struct {
	delay   time.Duration
	events  map[string]FileChangeEvent
	timer   *time.Timer
	mutex   sync.Mutex
	stopped bool
	logger  zerolog.Logger
}

func newDebouncer(delay time.Duration, logger zerolog.Logger) *debouncer {
	return &debouncer{
		delay:  delay,
		events: make(map[string]FileChangeEvent),
		logger: logger,
	}
}

func (d *debouncer) add(event FileChangeEvent, handler FileChangeHandler) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped {
		return
	}
	d.events[event.Path] = event
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.flush(handler)
	})
}

func (d *debouncer) flush(handler FileChangeHandler) {
	d.mutex.Lock()
	if d.stopped || len(d.events) == 0 {
		d.mutex.Unlock()
		return
	}
	changedFiles := make([]string, 0, len(d.events))
	for path := range d.events {
		changedFiles = append(changedFiles, path)
	}
	d.events = make(map[string]FileChangeEvent)
	d.mutex.Unlock()

	sort.Strings(changedFiles)
	if err := handler(changedFiles); err != nil {
		d.logger.Error().Err(err).Strs("files", changedFiles).Msg("watch handler failed")
	}
}

func (d *debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
}
