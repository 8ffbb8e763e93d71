package internal

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// NewScheduler starts a background job that evicts sessions idle for longer
// than ttl, checking every interval.
func NewScheduler(store *SessionStore, ttl, interval time.Duration) (gocron.Scheduler, error) {
	if ttl <= 0 || interval <= 0 {
		return nil, fmt.Errorf("session ttl and eviction interval must be positive (ttl=%s, interval=%s)", ttl, interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(evictSessions, store, ttl),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	log.Printf("Evicting sessions idle for more than %s (every %s)", ttl, interval)
	scheduler.Start()
	return scheduler, nil
}

func evictSessions(store *SessionStore, ttl time.Duration) {
	if n := store.EvictIdle(ttl); n > 0 {
		log.Printf("Evicted %d idle sessions (%d remaining)", n, store.Len())
	}
}
