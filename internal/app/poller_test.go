package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/five82/prefcenter/internal/logstore"
	"github.com/five82/prefcenter/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type scriptedReader struct {
	polls [][]logstore.Entry
	errs  []error
	calls int
}

func (r *scriptedReader) All() ([]logstore.Entry, error) {
	i := r.calls
	r.calls++
	if i < len(r.errs) && r.errs[i] != nil {
		return nil, r.errs[i]
	}
	if i >= len(r.polls) {
		return r.polls[len(r.polls)-1], nil
	}
	return r.polls[i], nil
}

func TestFollow_ReportsOnlyNewEntries(t *testing.T) {
	a := logstore.Entry{Timestamp: 1, Name: "1.log", Body: "a"}
	b := logstore.Entry{Timestamp: 2, Name: "2.log", Body: "b"}
	c := logstore.Entry{Timestamp: 3, Name: "3.log", Body: "c"}
	reader := &scriptedReader{polls: [][]logstore.Entry{{a}, {a, b}, {b, c}}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []string
	st := &state.Store{}
	err := Follow(ctx, reader, st, time.Millisecond, func(entries []logstore.Entry) {
		for _, e := range entries {
			got = append(got, e.Body)
		}
		if len(got) == 3 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}
	if strings.Join(got, ",") != "a,b,c" {
		t.Fatalf("Follow reported %v, want [a b c]", got)
	}
	if latest, ok := st.Snapshot().Latest(); !ok || latest.Name != "3.log" {
		t.Fatalf("state latest = %#v, %v; want 3.log", latest, ok)
	}
}

func TestPoll_ErrorIsRecorded(t *testing.T) {
	reader := &scriptedReader{
		polls: [][]logstore.Entry{nil},
		errs:  []error{errors.New("dir gone")},
	}
	st := &state.Store{}

	if _, err := poll(reader, st, map[string]struct{}{}); err == nil {
		t.Fatalf("poll returned nil error, want dir gone")
	}
	snap := st.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.LastError == nil {
		t.Fatalf("snapshot = %#v, want one recorded failure", snap)
	}
}
