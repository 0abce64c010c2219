package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/prefcenter/internal/logstore"
	"github.com/five82/prefcenter/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// EntryReader lists log entries, oldest first.
type EntryReader interface {
	All() ([]logstore.Entry, error)
}

// Follow polls logs until ctx is cancelled, recording each read in st and
// passing entries not seen on the previous poll to fn. The first poll passes
// everything already retained. Read failures back off exponentially.
func Follow(ctx context.Context, logs EntryReader, st *state.Store, interval time.Duration, fn func([]logstore.Entry)) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if st == nil {
		st = &state.Store{}
	}

	seen := make(map[string]struct{})
	failures := 0
	for {
		fresh, err := poll(logs, st, seen)
		if err != nil {
			failures++
			slog.Warn("log poll failed", "error", err, "failures", failures)
		} else {
			failures = 0
			if len(fresh) > 0 && fn != nil {
				fn(fresh)
			}
		}

		timer := time.NewTimer(calculateBackoff(failures, interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// poll reads the store once and returns entries whose names were not in seen.
// seen is replaced by the current listing so evicted names do not accumulate.
func poll(logs EntryReader, st *state.Store, seen map[string]struct{}) ([]logstore.Entry, error) {
	entries, err := logs.All()
	st.Update(entries, err)
	if err != nil {
		return nil, err
	}

	var fresh []logstore.Entry
	for _, e := range entries {
		if _, ok := seen[e.Name]; !ok {
			fresh = append(fresh, e)
		}
	}
	clear(seen)
	for _, e := range entries {
		seen[e.Name] = struct{}{}
	}
	return fresh, nil
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
